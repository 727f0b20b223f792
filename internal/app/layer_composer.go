package app

import (
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
)

type LayerOverlay struct {
	Row   int
	Block string
}

type LayerComposer interface {
	Compose(base string, overlays []LayerOverlay) string
}

func WithLayerComposer(composer LayerComposer) ModelOption {
	return func(m *Model) {
		if m == nil || composer == nil {
			return
		}
		m.layerComposer = composer
	}
}

type textLayerComposer struct{}

func NewTextLayerComposer() LayerComposer {
	return textLayerComposer{}
}

func (textLayerComposer) Compose(base string, overlays []LayerOverlay) string {
	if base == "" || len(overlays) == 0 {
		return base
	}
	canvas := newTextCanvas(base)
	for _, overlay := range overlays {
		canvas.OverlayBlock(overlay.Block, overlay.Row)
	}
	return canvas.String()
}

type textCanvas struct {
	lines []string
}

func newTextCanvas(text string) textCanvas {
	return textCanvas{lines: strings.Split(text, "\n")}
}

// OverlayBlock draws block starting at row. Leading spaces of each block line
// are transparent, so an indented block only covers the columns it paints.
func (c *textCanvas) OverlayBlock(block string, row int) {
	if c == nil || row < 0 || block == "" || len(c.lines) == 0 {
		return
	}
	lines := strings.Split(block, "\n")
	for i := 0; i < len(lines); i++ {
		target := row + i
		if target < 0 || target >= len(c.lines) {
			continue
		}
		c.lines[target] = spliceLine(c.lines[target], lines[i])
	}
}

func spliceLine(base, overlay string) string {
	content := strings.TrimLeft(overlay, " ")
	col := len(overlay) - len(content)
	if content == "" {
		return base
	}
	baseWidth := xansi.StringWidth(base)
	left := xansi.Truncate(base, col, "")
	if pad := col - xansi.StringWidth(left); pad > 0 {
		left += strings.Repeat(" ", pad)
	}
	end := col + xansi.StringWidth(content)
	right := ""
	if end < baseWidth {
		right = xansi.Cut(base, end, baseWidth)
	}
	return left + content + right
}

func (c *textCanvas) String() string {
	if c == nil {
		return ""
	}
	return strings.Join(c.lines, "\n")
}

package notesui

import "charm.land/lipgloss/v2"

var (
	headerStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	helpStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	emptyStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("243")).Italic(true)
	noteIDStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	noteTextStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	editingStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("117")).Bold(true)
	selectedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("236"))
	newNoteLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("110")).Bold(true)
	popupHeaderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("251")).Background(lipgloss.Color("235")).Bold(true)
	popupPreviewStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Background(lipgloss.Color("235"))
	popupItemStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("235"))
)

package client

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"adminnotes/internal/types"
)

// WatchNotes subscribes to note change events for player. The channel closes
// when the stream ends or the returned cancel func is called.
func (c *Client) WatchNotes(ctx context.Context, player string) (<-chan types.NoteEvent, func(), error) {
	if err := c.ensureToken(); err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	path := strings.Replace(notesPath(player), "/v1/notes", "/v1/notes/events", 1)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		cancel()
		return nil, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "text/event-stream")

	// Streams outlive the request timeout of c.http.
	httpClient := &http.Client{}
	if c.http != nil {
		httpClient.Transport = c.http.Transport
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		cancel()
		return nil, nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		cancel()
		return nil, nil, decodeAPIError(resp)
	}

	ch := make(chan types.NoteEvent, 64)
	go func() {
		defer close(ch)
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		var dataLines []string

		for scanner.Scan() {
			line := scanner.Text()
			if line == "" {
				if len(dataLines) == 0 {
					continue
				}
				payload := strings.Join(dataLines, "\n")
				dataLines = dataLines[:0]
				var event types.NoteEvent
				if err := json.Unmarshal([]byte(payload), &event); err != nil {
					continue
				}
				select {
				case ch <- event:
				case <-ctx.Done():
					return
				default:
				}
				continue
			}
			if strings.HasPrefix(line, "data:") {
				dataLines = append(dataLines, strings.TrimSpace(strings.TrimPrefix(line, "data:")))
			}
		}
	}()

	return ch, cancel, nil
}

package ui

import "time"

// Message types for the Bubble Tea loop. Store operations run inline in
// Update; only the clock, the quote fetch, and file writes come back as
// messages.

// tickMsg is sent every second to refresh the clock.
type tickMsg time.Time

// quoteMsg carries the fetched (or fallback) quote.
type quoteMsg struct {
	text string
}

// exportedMsg is sent when the export file has been written.
type exportedMsg struct {
	path string
	err  error
}

// statusMsg asks the app to show a transient status line.
type statusMsg struct {
	text  string
	isErr bool
}

package ui

import (
	"context"
	"time"

	"todo/internal/fsutil"
	"todo/internal/quote"

	tea "github.com/charmbracelet/bubbletea"
)

// tickCmd returns a command that sends a tick every second.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// fetchQuoteCmd fetches one quote. Fetch never fails; errors turn into
// the fallback text.
func fetchQuoteCmd(f *quote.Fetcher) tea.Cmd {
	if f == nil {
		return nil
	}
	return func() tea.Msg {
		return quoteMsg{text: f.Fetch(context.Background())}
	}
}

// writeExportCmd writes an exported task list to path.
func writeExportCmd(path string, data []byte) tea.Cmd {
	return func() tea.Msg {
		err := fsutil.WriteFileAtomic(path, data, 0644)
		return exportedMsg{path: path, err: err}
	}
}

func statusCmd(text string, isErr bool) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text, isErr: isErr}
	}
}

// Package ui provides the terminal user interface for todo.
// This file contains the main App model which owns the header, the status
// line and the overlays, and routes keys to the task pane using the Bubble
// Tea architecture.
package ui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"todo/internal/config"
	"todo/internal/notify"
	"todo/internal/quote"
	"todo/internal/task"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// ExportFileName is the file Export writes inside the export directory.
const ExportFileName = "my-tasks.json"

// AppConfig holds user configuration for the app behavior.
type AppConfig struct {
	Keys             *config.KeysConfig
	ConfirmDeletions bool
	Name             string
	ExportDir        string
	// Quote is nil when quote fetching is disabled.
	Quote *quote.Fetcher
	// Notifier receives every store notice in addition to the status line.
	Notifier notify.Sink
	// Startup holds notices raised while the store was opened.
	Startup []notify.Notice
	// Now is the wall clock; tests pin it.
	Now func() time.Time
}

// App is the main application model.
type App struct {
	store       *task.Store
	dark        *Styles
	light       *Styles
	styles      *Styles
	config      *AppConfig
	taskPane    *TaskPane
	helpOverlay *HelpOverlay
	confirmDel  *confirmDeleteState
	showHelp    bool
	width       int
	height      int
	clock       time.Time
	quote       string
	status      string
	statusLevel notify.Level
	statusErr   bool
	statusUntil time.Time
	quitting    bool

	// Key bindings
	keys     GlobalKeyMap
	helpKeys HelpKeyMap
}

type confirmDeleteState struct {
	id    int64
	title string
	body  string
}

// NewApp creates a new application over an opened store. The store's
// notices are routed to the status line from here on.
func NewApp(store *task.Store, dark, light *Styles, cfg *AppConfig) *App {
	if cfg == nil {
		cfg = &AppConfig{ConfirmDeletions: true}
	}
	if cfg.Keys == nil {
		cfg.Keys = &config.KeysConfig{}
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.ExportDir == "" {
		cfg.ExportDir = "."
	}

	styles := light
	if store.DarkMode() {
		styles = dark
	}

	app := &App{
		store:       store,
		dark:        dark,
		light:       light,
		styles:      styles,
		config:      cfg,
		taskPane:    NewTaskPane(store, styles, cfg.Keys),
		helpOverlay: NewHelpOverlay(styles, cfg.Keys),
		clock:       cfg.Now(),
		keys:        NewGlobalKeyMap(cfg.Keys),
		helpKeys:    DefaultHelpKeyMap(),
	}
	if cfg.Quote != nil {
		app.quote = "Loading quote.."
	}

	for _, n := range cfg.Startup {
		app.setNotice(n)
	}
	store.SetNotifier(notify.Multi(notify.SinkFunc(app.setNotice), cfg.Notifier))

	return app
}

// Init starts the clock and the quote fetch.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		fetchQuoteCmd(a.config.Quote),
	)
}

// Update handles all messages and routes them appropriately.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			a.quitting = true
			return a, tea.Quit
		}

		if a.confirmDel != nil {
			switch msg.String() {
			case "y", "Y", "enter":
				id := a.confirmDel.id
				a.confirmDel = nil
				a.store.Delete(id)
				a.taskPane.clamp()
				return a, nil
			case "n", "N", "esc":
				a.confirmDel = nil
				a.SetStatus("Canceled", false)
				return a, nil
			default:
				return a, nil
			}
		}

		// Help overlay takes priority
		if a.showHelp {
			if key.Matches(msg, a.helpKeys.Close) {
				a.showHelp = false
			}
			return a, nil
		}

		if !a.taskPane.InInput() {
			if cmd, handled := a.handleGlobalKey(msg); handled {
				return a, cmd
			}
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.updateLayout()
		return a, nil

	case tea.MouseMsg:
		if a.confirmDel != nil || a.showHelp {
			if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
				a.confirmDel = nil
				a.showHelp = false
			}
			return a, nil
		}

	case tickMsg:
		a.clock = time.Time(msg)
		if a.status != "" && !a.statusUntil.IsZero() && a.clock.After(a.statusUntil) {
			a.status = ""
			a.statusErr = false
			a.statusUntil = time.Time{}
		}
		return a, tickCmd()

	case quoteMsg:
		a.quote = msg.text
		return a, nil

	case exportedMsg:
		if msg.err != nil {
			a.SetStatus("Export failed: "+msg.err.Error(), true)
		} else {
			a.store.Exported()
			a.SetStatus(task.MsgExported+" ("+msg.path+")", false)
		}
		return a, nil

	case statusMsg:
		a.SetStatus(msg.text, msg.isErr)
		return a, nil
	}

	return a, a.taskPane.Update(msg)
}

// handleGlobalKey handles keys that act on the whole app. The bool is
// false when the key should go to the task pane instead.
func (a *App) handleGlobalKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, a.taskPane.keys.Delete):
		t, ok := a.taskPane.Selected()
		if !ok {
			a.SetStatus("No task selected", true)
			return nil, true
		}
		if !a.config.ConfirmDeletions {
			a.store.Delete(t.ID)
			a.taskPane.clamp()
			return nil, true
		}
		a.confirmDel = &confirmDeleteState{
			id:    t.ID,
			title: "Delete task?",
			body:  runewidth.Truncate(t.Text, 60, "..."),
		}
		return nil, true

	case key.Matches(msg, a.keys.Quit):
		a.quitting = true
		return tea.Quit, true

	case key.Matches(msg, a.keys.Help):
		a.showHelp = true
		return nil, true

	case key.Matches(msg, a.keys.DarkMode):
		a.store.ToggleDarkMode()
		a.applyMode()
		return nil, true

	case key.Matches(msg, a.keys.Clear):
		a.store.ClearCompleted()
		a.taskPane.clamp()
		return nil, true

	case key.Matches(msg, a.keys.Export):
		data, err := a.store.Export()
		if err != nil {
			a.SetStatus("Export failed: "+err.Error(), true)
			return nil, true
		}
		return writeExportCmd(filepath.Join(a.config.ExportDir, ExportFileName), data), true
	}
	return nil, false
}

// applyMode switches every component to the styles of the store's mode.
func (a *App) applyMode() {
	a.styles = a.light
	if a.store.DarkMode() {
		a.styles = a.dark
	}
	a.taskPane.SetStyles(a.styles)
	a.helpOverlay.SetStyles(a.styles)
}

// updateLayout recalculates pane sizes based on terminal dimensions.
func (a *App) updateLayout() {
	a.helpOverlay.SetSize(a.width, a.height)

	// Header (4 lines + blank) and status bar (1).
	contentHeight := max(8, a.height-7)
	a.taskPane.SetSize(max(20, a.width-2), contentHeight)
}

// View renders the entire app.
func (a *App) View() string {
	if a.quitting {
		return a.renderGoodbye()
	}

	if a.confirmDel != nil {
		return a.renderConfirmDelete()
	}

	if a.showHelp {
		return a.helpOverlay.View()
	}

	var b strings.Builder
	b.WriteString(a.renderHeader())
	b.WriteString("\n")
	b.WriteString(a.taskPane.View())
	b.WriteString("\n")
	b.WriteString(a.renderHelpBar())

	view := b.String()
	if a.width > 0 && a.height > 0 {
		return a.styles.AppStyle.Width(a.width).Height(a.height).Render(view)
	}
	return view
}

// greeting picks the salutation for an hour of the day.
func greeting(hour int) string {
	switch {
	case hour < 12:
		return "Good Morning!!"
	case hour < 18:
		return "Good Afternoon!!"
	default:
		return "Good Evening!!"
	}
}

func (a *App) renderHeader() string {
	s := a.styles
	var b strings.Builder

	title := s.TitleStyle.Render("MY TODO APP")
	mode := s.HelpStyle.Render("light")
	if s.Dark {
		mode = s.HelpStyle.Render("dark")
	}
	b.WriteString(joinSpread(a.width, title, mode))
	b.WriteString("\n")

	hello := s.GreetingStyle.Render(greeting(a.clock.Hour()))
	if a.config.Name != "" {
		hello += " " + s.NameStyle.Render(a.config.Name)
	}
	date := s.DateStyle.Render(a.clock.Format("Mon Jan 2 2006 · 15:04:05"))
	b.WriteString(joinSpread(a.width, hello, date))
	b.WriteString("\n")

	b.WriteString(s.StreakStyle.Render(fmt.Sprintf("Streak: %d days", a.store.Streak())))

	if a.quote != "" {
		b.WriteString("\n")
		b.WriteString(s.QuoteStyle.Render(runewidth.Truncate(a.quote, max(20, a.width-4), "...")))
	}
	return b.String()
}

// joinSpread puts left and right on one line separated by enough spaces
// to fill width.
func joinSpread(width int, left, right string) string {
	gap := width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 2 {
		gap = 2
	}
	return left + strings.Repeat(" ", gap) + right
}

func (a *App) renderConfirmDelete() string {
	overlayWidth := 60
	if a.width > 0 {
		overlayWidth = min(60, max(20, a.width-4))
	}

	overlayStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(a.styles.ColorDanger).
		Padding(1, 2).
		Width(overlayWidth)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(a.styles.ColorDanger).
		MarginBottom(1)

	bodyStyle := lipgloss.NewStyle().
		Foreground(a.styles.ColorText)

	hintStyle := lipgloss.NewStyle().
		Foreground(a.styles.ColorTextMuted)

	var b strings.Builder
	b.WriteString(titleStyle.Render(a.confirmDel.title))
	b.WriteString("\n\n")
	b.WriteString(bodyStyle.Render(a.confirmDel.body))
	b.WriteString("\n\n")
	b.WriteString(hintStyle.Render("[y/enter] delete    [n/esc] cancel"))

	content := overlayStyle.Render(b.String())
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, content)
}

// renderGoodbye shows an exit message with the list's progress.
func (a *App) renderGoodbye() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  See you later!\n")
	b.WriteString("\n")

	if p := a.store.Progress(); p.Total > 0 {
		b.WriteString(fmt.Sprintf("  %d%% completed (%d/%d)\n", p.Percent, p.Completed, p.Total))
		b.WriteString("\n")
	}
	if err := a.store.LastSaveError(); err != nil {
		b.WriteString("  Last save failed: " + err.Error() + "\n\n")
	}
	return b.String()
}

// renderHelpBar creates the bottom bar: the status line when one is set,
// otherwise hints for the current mode.
func (a *App) renderHelpBar() string {
	if a.status != "" {
		switch {
		case a.statusErr:
			return a.styles.ErrorStyle.Render(a.status)
		case a.statusLevel == notify.Warning:
			return a.styles.WarningStyle.Render(a.status)
		case a.statusLevel == notify.Info:
			return a.styles.InfoStyle.Render(a.status)
		default:
			return a.styles.StatusStyle.Render(a.status)
		}
	}

	switch a.taskPane.mode {
	case modeAdd:
		return a.styles.RenderHelp(
			"enter", "add",
			"tab", "next field",
			"space", "priority",
			"esc", "cancel",
		)
	case modeEdit:
		return a.styles.RenderHelp(
			"enter", "save",
			"esc", "cancel",
		)
	case modeSearch:
		return a.styles.RenderHelp(
			"enter", "keep filter",
			"esc", "clear",
		)
	}

	return a.styles.RenderHelp(
		a.taskPane.keys.Add.Help().Key, "add",
		a.taskPane.keys.Toggle.Help().Key, "done",
		a.taskPane.keys.Edit.Help().Key, "edit",
		a.taskPane.keys.Delete.Help().Key, "del",
		a.taskPane.keys.Search.Help().Key, "search",
		a.keys.Clear.Help().Key, "clear",
		a.keys.Export.Help().Key, "export",
		a.keys.DarkMode.Help().Key, "theme",
		a.keys.Help.Help().Key, "help",
	)
}

// SetStatus sets a status message to display to the user.
func (a *App) SetStatus(msg string, isErr bool) {
	level := notify.Success
	if isErr {
		level = notify.Warning
	}
	a.showStatus(msg, level, isErr)
}

// setNotice shows a store notice on the status line.
func (a *App) setNotice(n notify.Notice) {
	a.showStatus(n.Message, n.Level, false)
}

func (a *App) showStatus(msg string, level notify.Level, isErr bool) {
	a.status = msg
	a.statusLevel = level
	a.statusErr = isErr
	ttl := 5 * time.Second
	if isErr || level == notify.Warning {
		ttl = 8 * time.Second
	}
	a.statusUntil = a.config.Now().Add(ttl)
}

// Run starts the Bubble Tea program over an opened store.
func Run(store *task.Store, dark, light *Styles, cfg *AppConfig) error {
	app := NewApp(store, dark, light, cfg)
	p := tea.NewProgram(app,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err := p.Run()
	return err
}

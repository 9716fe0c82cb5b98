package ui

import (
	"fmt"
	"slices"
	"strings"

	"todo/internal/config"
	"todo/internal/storage"
	"todo/internal/task"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

type paneMode int

const (
	modeList paneMode = iota
	modeAdd
	modeEdit
	modeSearch
)

type formField int

const (
	fieldText formField = iota
	fieldTime
	fieldPriority
	fieldCount
)

const emptyListText = "NO tasks yet - start adding some"

// TaskPane shows the add form, the search box, the progress bar and the
// task list, and turns key presses into Store operations.
type TaskPane struct {
	store  *task.Store
	styles *Styles
	width  int
	height int
	cursor int
	mode   paneMode

	field     formField
	textIn    textinput.Model
	timeIn    textinput.Model
	priority  storage.Priority
	searchIn  textinput.Model
	editIn    textinput.Model
	keys      TaskKeyMap
	inputKeys InputKeyMap
}

// NewTaskPane creates a task pane with custom key bindings.
func NewTaskPane(store *task.Store, styles *Styles, keyCfg *config.KeysConfig) *TaskPane {
	textIn := textinput.New()
	textIn.Placeholder = "Enter a new task.."
	textIn.CharLimit = 200
	textIn.Width = 40

	timeIn := textinput.New()
	timeIn.Placeholder = "HH:MM"
	timeIn.CharLimit = 5
	timeIn.Width = 5

	searchIn := textinput.New()
	searchIn.Placeholder = "Search tasks.."
	searchIn.CharLimit = 100
	searchIn.Width = 30
	searchIn.Prompt = "/ "

	editIn := textinput.New()
	editIn.CharLimit = 200
	editIn.Prompt = ""

	return &TaskPane{
		store:     store,
		styles:    styles,
		priority:  storage.PriorityLow,
		textIn:    textIn,
		timeIn:    timeIn,
		searchIn:  searchIn,
		editIn:    editIn,
		keys:      NewTaskKeyMap(keyCfg),
		inputKeys: NewInputKeyMap(keyCfg),
	}
}

// SetSize sets the pane dimensions.
func (p *TaskPane) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.textIn.Width = max(10, width-24)
	p.editIn.Width = max(10, width-10)
}

// SetStyles switches the pane to another palette.
func (p *TaskPane) SetStyles(s *Styles) { p.styles = s }

// InInput reports whether keys currently go to a text field.
func (p *TaskPane) InInput() bool { return p.mode != modeList }

// Query returns the live search query.
func (p *TaskPane) Query() string { return p.searchIn.Value() }

// visible returns the tasks matching the search box, in list order.
func (p *TaskPane) visible() []storage.Task {
	return slices.Collect(p.store.Search(p.searchIn.Value()))
}

// Selected returns the task under the cursor.
func (p *TaskPane) Selected() (storage.Task, bool) {
	tasks := p.visible()
	if p.cursor < 0 || p.cursor >= len(tasks) {
		return storage.Task{}, false
	}
	return tasks[p.cursor], true
}

// clamp keeps the cursor inside the visible list.
func (p *TaskPane) clamp() {
	n := len(p.visible())
	if p.cursor >= n {
		p.cursor = max(0, n-1)
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
}

// Update handles messages for the task pane.
func (p *TaskPane) Update(msg tea.Msg) tea.Cmd {
	switch p.mode {
	case modeAdd:
		return p.updateAdd(msg)
	case modeEdit:
		return p.updateEdit(msg)
	case modeSearch:
		return p.updateSearch(msg)
	}

	n := len(p.visible())

	if mouseMsg, ok := msg.(tea.MouseMsg); ok {
		switch mouseMsg.Button {
		case tea.MouseButtonWheelUp:
			p.cursor = max(p.cursor-1, 0)
		case tea.MouseButtonWheelDown:
			if n > 0 {
				p.cursor = min(p.cursor+1, n-1)
			}
		}
		return nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	switch {
	case key.Matches(keyMsg, p.keys.Down):
		if n > 0 {
			p.cursor = min(p.cursor+1, n-1)
		}

	case key.Matches(keyMsg, p.keys.Up):
		p.cursor = max(p.cursor-1, 0)

	case key.Matches(keyMsg, p.keys.Top):
		p.cursor = 0

	case key.Matches(keyMsg, p.keys.Bottom):
		p.cursor = max(0, n-1)

	case key.Matches(keyMsg, p.keys.Add):
		p.mode = modeAdd
		p.focusField(fieldText)
		return textinput.Blink

	case key.Matches(keyMsg, p.keys.Search):
		p.mode = modeSearch
		p.searchIn.Focus()
		return textinput.Blink

	case key.Matches(keyMsg, p.keys.Toggle):
		if t, ok := p.Selected(); ok {
			p.store.ToggleComplete(t.ID)
		}

	case key.Matches(keyMsg, p.keys.Edit):
		if t, ok := p.Selected(); ok {
			session := p.store.StartEdit(t.ID, t.Text)
			p.editIn.SetValue(session.Buffer)
			p.editIn.CursorEnd()
			p.editIn.Focus()
			p.mode = modeEdit
			return textinput.Blink
		}
	}
	return nil
}

func (p *TaskPane) focusField(f formField) {
	p.field = f
	p.textIn.Blur()
	p.timeIn.Blur()
	switch f {
	case fieldText:
		p.textIn.Focus()
	case fieldTime:
		p.timeIn.Focus()
	}
}

func (p *TaskPane) resetForm() {
	p.textIn.Reset()
	p.timeIn.Reset()
	p.textIn.Blur()
	p.timeIn.Blur()
	p.priority = storage.PriorityLow
	p.field = fieldText
	p.mode = modeList
}

func (p *TaskPane) updateAdd(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, p.inputKeys.Cancel):
			p.resetForm()
			return nil

		case key.Matches(keyMsg, p.inputKeys.Confirm):
			return p.submitAdd()

		case key.Matches(keyMsg, p.inputKeys.NextField):
			p.focusField((p.field + 1) % fieldCount)
			return nil

		case key.Matches(keyMsg, p.inputKeys.PrevField):
			p.focusField((p.field + fieldCount - 1) % fieldCount)
			return nil

		case p.field == fieldPriority && key.Matches(keyMsg, p.inputKeys.Cycle):
			p.priority = p.priority.Next()
			return nil
		}
	}

	var cmd tea.Cmd
	switch p.field {
	case fieldText:
		p.textIn, cmd = p.textIn.Update(msg)
	case fieldTime:
		p.timeIn, cmd = p.timeIn.Update(msg)
	}
	return cmd
}

func (p *TaskPane) submitAdd() tea.Cmd {
	at := strings.TrimSpace(p.timeIn.Value())
	if !storage.ValidTime(at) {
		p.focusField(fieldTime)
		return statusCmd("Time must be HH:MM", true)
	}
	if _, err := p.store.Add(p.textIn.Value(), at, p.priority); err != nil {
		p.focusField(fieldText)
		return statusCmd("Task text cannot be empty", true)
	}
	p.resetForm()
	// New tasks go to the end of the list.
	p.cursor = max(0, len(p.visible())-1)
	return nil
}

func (p *TaskPane) updateEdit(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, p.inputKeys.Cancel):
			p.store.CancelEdit()
			p.editIn.Blur()
			p.mode = modeList
			return nil

		case key.Matches(keyMsg, p.inputKeys.Confirm):
			if err := p.store.CommitEdit(); err != nil {
				return statusCmd("Task text cannot be empty", true)
			}
			p.editIn.Blur()
			p.mode = modeList
			p.clamp()
			return nil
		}
	}

	var cmd tea.Cmd
	p.editIn, cmd = p.editIn.Update(msg)
	p.store.SetEditBuffer(p.editIn.Value())
	return cmd
}

func (p *TaskPane) updateSearch(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, p.inputKeys.Cancel):
			p.searchIn.Reset()
			p.searchIn.Blur()
			p.mode = modeList
			p.clamp()
			return nil

		case key.Matches(keyMsg, p.inputKeys.Confirm):
			p.searchIn.Blur()
			p.mode = modeList
			return nil
		}
	}

	var cmd tea.Cmd
	p.searchIn, cmd = p.searchIn.Update(msg)
	p.clamp()
	return cmd
}

// View renders the task pane.
func (p *TaskPane) View() string {
	var b strings.Builder

	b.WriteString(p.renderForm())
	b.WriteString("\n")

	if p.mode == modeSearch || p.searchIn.Value() != "" {
		b.WriteString(p.searchIn.View())
		b.WriteString("\n")
	}

	if progress := p.renderProgress(); progress != "" {
		b.WriteString(progress)
		b.WriteString("\n")
	}

	sepWidth := max(10, p.width-4)
	b.WriteString(lipgloss.NewStyle().Foreground(p.styles.ColorMuted).Render(strings.Repeat("─", sepWidth)))
	b.WriteString("\n")

	b.WriteString(p.renderList(b.String()))

	return p.styles.PaneStyle.Width(p.width).Render(b.String())
}

func (p *TaskPane) renderForm() string {
	s := p.styles
	label := func(f formField, text string) string {
		if p.mode == modeAdd && p.field == f {
			return s.InputActiveStyle.Render(text)
		}
		return s.InputLabelStyle.Render(text)
	}

	if p.mode != modeAdd {
		return s.InputPromptStyle.Render("+ ") + s.InputLabelStyle.Render("press a to add a task")
	}

	priority := s.PriorityStyle(string(p.priority)).Render("‹ " + string(p.priority) + " ›")
	line1 := s.InputPromptStyle.Render("+ ") + label(fieldText, "Task ") + p.textIn.View()
	line2 := "  " + label(fieldTime, "Time ") + p.timeIn.View() + "   " + label(fieldPriority, "Priority ") + priority
	return line1 + "\n" + line2
}

func (p *TaskPane) renderProgress() string {
	prog := p.store.Progress()
	if prog.Total == 0 {
		return ""
	}
	barWidth := min(30, max(10, p.width-36))
	filled := barWidth * prog.Percent / 100
	bar := p.styles.ProgressFillStyle.Render(strings.Repeat("█", filled)) +
		p.styles.ProgressEmptyStyle.Render(strings.Repeat("░", barWidth-filled))
	text := fmt.Sprintf("%d%% completed (%d/%d)", prog.Percent, prog.Completed, prog.Total)
	return bar + " " + p.styles.ProgressTextStyle.Render(text)
}

func (p *TaskPane) renderList(above string) string {
	var b strings.Builder
	tasks := p.visible()

	if p.store.Len() == 0 {
		b.WriteString(p.styles.EmptyStyle.Render("  " + emptyListText))
		return b.String()
	}
	if len(tasks) == 0 {
		b.WriteString(p.styles.EmptyStyle.Render(fmt.Sprintf("  No tasks match %q", p.searchIn.Value())))
		return b.String()
	}

	maxRows := p.height - lipgloss.Height(above) - 2
	if maxRows < 3 {
		maxRows = len(tasks)
	}
	start := 0
	if p.cursor >= maxRows {
		start = p.cursor - maxRows + 1
	}
	end := min(len(tasks), start+maxRows)

	editing, isEditing := p.store.Editing()
	for i := start; i < end; i++ {
		t := tasks[i]
		if isEditing && p.mode == modeEdit && editing.ID == t.ID {
			b.WriteString(" " + p.checkbox(t) + " " + p.editIn.View())
		} else {
			b.WriteString(p.renderRow(t, i == p.cursor && p.mode == modeList))
		}
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (p *TaskPane) checkbox(t storage.Task) string {
	if t.Completed {
		return p.styles.TaskCheckboxDone
	}
	return p.styles.TaskCheckboxPending
}

// taskMeta renders the time and priority, as in "Time 14:00 | priority high".
func taskMeta(t storage.Task) string {
	return clockLabel(t) + " | priority " + string(t.Priority)
}

func clockLabel(t storage.Task) string {
	if t.Time == "" {
		return "No time"
	}
	return "Time " + t.Time
}

func (p *TaskPane) renderRow(t storage.Task, selected bool) string {
	meta := taskMeta(t)
	metaWidth := runewidth.StringWidth(meta)

	// Layout: [space][checkbox][space][text][padding][meta]
	textWidth := max(5, p.width-4-5-metaWidth-2)
	text := runewidth.Truncate(t.Text, textWidth, "..")
	pad := strings.Repeat(" ", max(1, textWidth-runewidth.StringWidth(text)+1))

	if selected {
		return p.styles.TaskSelectedStyle.Render(" " + p.checkbox(t) + " " + text + pad + meta + " ")
	}

	styled := p.styles.TaskPendingStyle.Render(text)
	if t.Completed {
		styled = p.styles.TaskDoneStyle.Render(text)
	}
	metaStyled := p.styles.TaskMetaStyle.Render(clockLabel(t)+" | priority ") +
		p.styles.PriorityStyle(string(t.Priority)).Render(string(t.Priority))
	return " " + p.checkbox(t) + " " + styled + pad + metaStyled
}

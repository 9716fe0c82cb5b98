// Package task holds the task list and every operation that changes or
// queries it. A Store is owned by a single control flow (the TUI update loop
// or one CLI command) and is not safe for concurrent use.
package task

import (
	"fmt"
	"iter"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"todo/internal/logging"
	"todo/internal/notify"
	"todo/internal/storage"
)

// Adapter is the persistence boundary the store writes through.
// *storage.Local implements it.
type Adapter interface {
	Load() (storage.Snapshot, bool, error)
	Save(tasks []storage.Task, darkMode bool) error
	SaveStreak(streak int, lastOpened string) error
}

// Notice texts shown to the user.
const (
	MsgAdded          = "Task added successfully!"
	MsgDeleted        = "Task deleted"
	MsgUpdated        = "Task updated"
	MsgCleared        = "Completed tasks cleared!"
	MsgNothingToClear = "No completed tasks to clear!"
	MsgExported       = "Tasks exported!"
	MsgImported       = "Tasks imported!"
)

// Progress is the completion summary of the list.
type Progress struct {
	Completed int
	Total     int
	Percent   int
}

// Store owns the task list, the dark mode flag, and the edit session.
type Store struct {
	adapter  Adapter
	tasks    []storage.Task
	darkMode bool
	streak   int
	edit     *EditSession

	sink   notify.Sink
	logger *log.Logger
	now    func() time.Time

	lastID  int64
	saveErr error
}

// Option configures a Store.
type Option func(*Store)

// WithNotifier sets where user-facing notices go.
func WithNotifier(sink notify.Sink) Option {
	return func(s *Store) {
		if sink != nil {
			s.sink = sink
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock sets the clock used for task ids.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// New returns an empty store writing through adapter. Use Open to start
// from persisted state.
func New(adapter Adapter, opts ...Option) *Store {
	s := &Store{
		adapter: adapter,
		tasks:   []storage.Task{},
		sink:    notify.Discard,
		logger:  logging.Discard(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetNotifier replaces the notice sink. A nil sink drops notices.
func (s *Store) SetNotifier(sink notify.Sink) {
	if sink == nil {
		sink = notify.Discard
	}
	s.sink = sink
}

// Tasks returns a copy of the list in display order.
func (s *Store) Tasks() []storage.Task {
	return slices.Clone(s.tasks)
}

// Len returns the number of tasks.
func (s *Store) Len() int { return len(s.tasks) }

// Get returns the task with the given id.
func (s *Store) Get(id int64) (storage.Task, bool) {
	i := s.index(id)
	if i < 0 {
		return storage.Task{}, false
	}
	return s.tasks[i], true
}

// Streak returns the streak computed when the store was opened.
func (s *Store) Streak() int { return s.streak }

// DarkMode reports the dark mode flag.
func (s *Store) DarkMode() bool { return s.darkMode }

// SetDarkMode sets the flag and saves.
func (s *Store) SetDarkMode(on bool) {
	s.darkMode = on
	s.save()
}

// ToggleDarkMode flips the flag, saves, and returns the new value.
func (s *Store) ToggleDarkMode() bool {
	s.SetDarkMode(!s.darkMode)
	return s.darkMode
}

// LastSaveError returns the error from the most recent write, or nil if
// that write succeeded.
func (s *Store) LastSaveError() error { return s.saveErr }

// Add appends a new task. Blank text is rejected with a ValidationError
// and nothing is written. An empty priority means low.
func (s *Store) Add(text, at string, priority storage.Priority) (storage.Task, error) {
	if strings.TrimSpace(text) == "" {
		return storage.Task{}, &ValidationError{Field: "text", Err: ErrEmptyText}
	}
	if !priority.Valid() {
		priority = storage.PriorityLow
	}

	t := storage.Task{
		ID:       s.nextID(),
		Text:     text,
		Time:     at,
		Priority: priority,
	}
	s.tasks = append(s.tasks, t)
	if s.save() {
		s.notify(notify.Success, MsgAdded)
	}
	return t, nil
}

// Delete removes the task with id. A missing id leaves the list as it was
// but still saves and notifies. A failed save reports only the warning.
func (s *Store) Delete(id int64) {
	s.tasks = slices.DeleteFunc(s.tasks, func(t storage.Task) bool { return t.ID == id })
	if s.edit != nil && s.edit.ID == id {
		s.edit = nil
	}
	if s.save() {
		s.notify(notify.Info, MsgDeleted)
	}
}

// ToggleComplete flips the completed flag of the task with id and saves.
func (s *Store) ToggleComplete(id int64) {
	if i := s.index(id); i >= 0 {
		s.tasks[i].Completed = !s.tasks[i].Completed
	}
	s.save()
}

// ClearCompleted removes every completed task and returns how many went.
// When none were completed nothing is written.
func (s *Store) ClearCompleted() int {
	before := len(s.tasks)
	s.tasks = slices.DeleteFunc(s.tasks, func(t storage.Task) bool { return t.Completed })
	removed := before - len(s.tasks)
	if removed == 0 {
		s.notify(notify.Info, MsgNothingToClear)
		return 0
	}
	if s.edit != nil && s.index(s.edit.ID) < 0 {
		s.edit = nil
	}
	if s.save() {
		s.notify(notify.Success, MsgCleared)
	}
	return removed
}

// Search yields, in list order, the tasks whose text contains query
// ignoring case. An empty query yields every task. Each range over the
// returned sequence reads the list afresh.
func (s *Store) Search(query string) iter.Seq[storage.Task] {
	q := strings.ToLower(query)
	return func(yield func(storage.Task) bool) {
		for _, t := range s.tasks {
			if q != "" && !strings.Contains(strings.ToLower(t.Text), q) {
				continue
			}
			if !yield(t) {
				return
			}
		}
	}
}

// Progress summarises completion. Percent is rounded half away from zero
// and is 0 for an empty list.
func (s *Store) Progress() Progress {
	p := Progress{Total: len(s.tasks)}
	for _, t := range s.tasks {
		if t.Completed {
			p.Completed++
		}
	}
	if p.Total > 0 {
		p.Percent = int(math.Round(100 * float64(p.Completed) / float64(p.Total)))
	}
	return p
}

// Export returns the whole list as indented JSON. It raises no notice;
// the caller calls Exported once the data has been written somewhere.
func (s *Store) Export() ([]byte, error) {
	return storage.EncodeTasks(s.tasks)
}

// Exported reports a finished export.
func (s *Store) Exported() {
	s.notify(notify.Success, MsgExported)
}

// Replace swaps in a whole new list, as an import does. The list must have
// unique ids; otherwise nothing changes. Text and time labels are taken as
// they are, the same as on load, so anything Export wrote can come back.
func (s *Store) Replace(tasks []storage.Task) error {
	seen := make(map[int64]struct{}, len(tasks))
	for i, t := range tasks {
		if _, dup := seen[t.ID]; dup {
			return &ValidationError{Field: fmt.Sprintf("tasks[%d].id", i), Err: fmt.Errorf("%w %d", ErrDuplicateID, t.ID)}
		}
		seen[t.ID] = struct{}{}
	}

	s.tasks = slices.Clone(tasks)
	if s.tasks == nil {
		s.tasks = []storage.Task{}
	}
	for i := range s.tasks {
		if !s.tasks[i].Priority.Valid() {
			s.tasks[i].Priority = storage.PriorityLow
		}
	}
	s.edit = nil
	s.observeIDs()
	if s.save() {
		s.notify(notify.Success, MsgImported)
	}
	return nil
}

func (s *Store) index(id int64) int {
	return slices.IndexFunc(s.tasks, func(t storage.Task) bool { return t.ID == id })
}

// nextID returns the clock in Unix milliseconds, bumped past the last id
// handed out so ids stay unique when the clock has not moved.
func (s *Store) nextID() int64 {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

func (s *Store) observeIDs() {
	for _, t := range s.tasks {
		if t.ID > s.lastID {
			s.lastID = t.ID
		}
	}
}

// save writes the full snapshot and reports whether it succeeded. A failure
// keeps the in-memory state and is reported as a warning, which the caller
// must not follow with a success notice.
func (s *Store) save() bool {
	if err := s.adapter.Save(s.tasks, s.darkMode); err != nil {
		s.saveErr = err
		s.logger.Warn("save failed", "err", err, "tasks", len(s.tasks))
		s.notify(notify.Warning, "Could not save tasks: "+err.Error())
		return false
	}
	s.saveErr = nil
	s.logger.Debug("saved", "tasks", len(s.tasks), "darkmode", s.darkMode)
	return true
}

func (s *Store) notify(level notify.Level, msg string) {
	s.sink.Notify(notify.Notice{Level: level, Message: msg})
}

package task

import (
	"strings"

	"todo/internal/notify"
)

// EditSession is the single in-progress edit: the task being edited and
// the text typed so far.
type EditSession struct {
	ID     int64
	Buffer string
}

// StartEdit begins editing id with buffer seeded from currentText. An edit
// already in progress is dropped without saving.
func (s *Store) StartEdit(id int64, currentText string) EditSession {
	s.edit = &EditSession{ID: id, Buffer: currentText}
	return *s.edit
}

// SetEditBuffer replaces the buffer of the current edit. It does nothing
// when no edit is in progress.
func (s *Store) SetEditBuffer(text string) {
	if s.edit != nil {
		s.edit.Buffer = text
	}
}

// Editing returns the current edit session, if any.
func (s *Store) Editing() (EditSession, bool) {
	if s.edit == nil {
		return EditSession{}, false
	}
	return *s.edit, true
}

// SaveEdit sets the text of id to newText as given and ends the edit.
// Blank text is rejected with a ValidationError; the task and the session
// are left as they were and nothing is written. A missing id still ends
// the edit, saves, and notifies.
func (s *Store) SaveEdit(id int64, newText string) error {
	if strings.TrimSpace(newText) == "" {
		return &ValidationError{Field: "text", Err: ErrEmptyText}
	}
	if i := s.index(id); i >= 0 {
		s.tasks[i].Text = newText
	}
	s.edit = nil
	if s.save() {
		s.notify(notify.Success, MsgUpdated)
	}
	return nil
}

// CommitEdit saves the current session's buffer.
func (s *Store) CommitEdit() error {
	if s.edit == nil {
		return nil
	}
	return s.SaveEdit(s.edit.ID, s.edit.Buffer)
}

// CancelEdit ends the edit without changing anything.
func (s *Store) CancelEdit() {
	s.edit = nil
}

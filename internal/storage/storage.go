// Package storage persists the task list and the small pieces of app state
// that go with it (dark mode, streak, last opened date) in a key-value store.
package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// RecoveryError reports a stored value that could not be read as is and
// was repaired. The returned snapshot is still usable.
type RecoveryError struct {
	Key    string
	Cause  error
	Action string
}

func (e *RecoveryError) Error() string {
	return fmt.Sprintf("%s: %v (%s)", e.Key, e.Cause, e.Action)
}

func (e *RecoveryError) Unwrap() error { return e.Cause }

// IsRecovered reports whether every error joined in err is a RecoveryError.
func IsRecovered(err error) bool {
	if err == nil {
		return false
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			if !IsRecovered(e) {
				return false
			}
		}
		return true
	}
	var re *RecoveryError
	return errors.As(err, &re)
}

// Local is the persistence adapter over a KV store.
type Local struct {
	kv KV
}

// NewLocal wraps kv.
func NewLocal(kv KV) *Local {
	return &Local{kv: kv}
}

// Close closes the underlying store.
func (s *Local) Close() error {
	return s.kv.Close()
}

// Load reads the full snapshot. The bool is false on a first run, when no
// key has ever been written. Damaged values come back repaired together
// with a RecoveryError; any other error means the store could not be read.
func (s *Local) Load() (Snapshot, bool, error) {
	snap := Snapshot{Tasks: []Task{}}
	found := false
	var recovered []error

	data, ok, err := s.kv.Get(KeyTasks)
	if err != nil {
		return snap, false, err
	}
	if ok {
		found = true
		tasks, err := DecodeTasks(data)
		if err != nil {
			tasks, err = s.recoverTasks(err)
		}
		if err != nil {
			recovered = append(recovered, err)
		}
		tasks, err = dedupe(tasks)
		if err != nil {
			recovered = append(recovered, err)
		}
		snap.Tasks = tasks
	}

	data, ok, err = s.kv.Get(KeyDarkMode)
	if err != nil {
		return snap, false, err
	}
	if ok {
		found = true
		if err := json.Unmarshal(data, &snap.DarkMode); err != nil {
			snap.DarkMode = false
			recovered = append(recovered, &RecoveryError{Key: KeyDarkMode, Cause: err, Action: "using light mode"})
		}
	}

	data, ok, err = s.kv.Get(KeyStreak)
	if err != nil {
		return snap, false, err
	}
	if ok {
		found = true
		// Anything that is not a number counts as no streak.
		if n, err := strconv.Atoi(strings.TrimSpace(string(data))); err == nil && n > 0 {
			snap.Streak = n
		}
	}

	data, ok, err = s.kv.Get(KeyLastOpened)
	if err != nil {
		return snap, false, err
	}
	if ok {
		found = true
		snap.LastOpened = string(data)
	}

	return snap, found, errors.Join(recovered...)
}

func (s *Local) recoverTasks(cause error) ([]Task, error) {
	r, ok := s.kv.(recoverer)
	if !ok {
		return []Task{}, &RecoveryError{Key: KeyTasks, Cause: cause, Action: "reset to an empty list"}
	}

	if bak, found, err := r.Backup(KeyTasks); err == nil && found {
		if tasks, err := DecodeTasks(bak); err == nil {
			r.Quarantine(KeyTasks)
			_ = s.kv.Set(KeyTasks, bak)
			return tasks, &RecoveryError{Key: KeyTasks, Cause: cause, Action: "recovered from backup"}
		}
	}

	action := "reset to an empty list"
	if moved := r.Quarantine(KeyTasks); moved != "" {
		action += "; original moved to " + moved
	}
	return []Task{}, &RecoveryError{Key: KeyTasks, Cause: cause, Action: action}
}

func dedupe(tasks []Task) ([]Task, error) {
	seen := make(map[int64]struct{}, len(tasks))
	out := tasks[:0]
	var dropped []int64
	for _, t := range tasks {
		if _, ok := seen[t.ID]; ok {
			dropped = append(dropped, t.ID)
			continue
		}
		seen[t.ID] = struct{}{}
		out = append(out, t)
	}
	if len(dropped) == 0 {
		return out, nil
	}
	return out, &RecoveryError{
		Key:    KeyTasks,
		Cause:  fmt.Errorf("duplicate task ids %v", dropped),
		Action: "kept the first of each",
	}
}

// Save overwrites the task list and the dark mode flag.
func (s *Local) Save(tasks []Task, darkMode bool) error {
	data, err := EncodeTasks(tasks)
	if err != nil {
		return err
	}
	if err := s.kv.Set(KeyTasks, data); err != nil {
		return err
	}
	dm, err := json.Marshal(darkMode)
	if err != nil {
		return fmt.Errorf("serialize darkmode: %w", err)
	}
	return s.kv.Set(KeyDarkMode, dm)
}

// SaveStreak writes the streak counter and the date it was last bumped.
func (s *Local) SaveStreak(streak int, lastOpened string) error {
	if err := s.kv.Set(KeyStreak, []byte(strconv.Itoa(streak))); err != nil {
		return err
	}
	return s.kv.Set(KeyLastOpened, []byte(lastOpened))
}

// EncodeTasks renders tasks as an indented JSON array. A nil list encodes
// as [] rather than null.
func EncodeTasks(tasks []Task) ([]byte, error) {
	if tasks == nil {
		tasks = []Task{}
	}
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serialize tasks: %w", err)
	}
	return data, nil
}

// DecodeTasks parses a JSON array of tasks. null decodes as an empty list.
func DecodeTasks(data []byte) ([]Task, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("tasks value is empty")
	}
	var tasks []Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("parse tasks: %w", err)
	}
	if tasks == nil {
		tasks = []Task{}
	}
	for i := range tasks {
		if !tasks[i].Priority.Valid() {
			tasks[i].Priority = PriorityLow
		}
	}
	return tasks, nil
}

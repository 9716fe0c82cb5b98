package task

import (
	"fmt"
	"time"

	"todo/internal/notify"
	"todo/internal/storage"
	"todo/internal/streak"
)

// Open loads the persisted snapshot into a new Store and applies the daily
// streak rule for today. It returns the store and the effective streak.
//
// Values that were damaged and repaired on load are reported as a warning
// notice; an error reading the store at all is returned.
func Open(adapter Adapter, today time.Time, opts ...Option) (*Store, int, error) {
	s := New(adapter, opts...)

	snap, found, err := adapter.Load()
	if err != nil {
		if !storage.IsRecovered(err) {
			return nil, 0, fmt.Errorf("load tasks: %w", err)
		}
		s.logger.Warn("recovered stored data", "err", err)
		s.notify(notify.Warning, "Recovered damaged data: "+err.Error())
	}
	if snap.Tasks != nil {
		s.tasks = snap.Tasks
	}
	s.darkMode = snap.DarkMode
	s.observeIDs()

	effective, persist := streak.Update(snap.Streak, snap.LastOpened, streak.DateKey(today))
	s.streak = effective
	if persist {
		if err := adapter.SaveStreak(effective, streak.DateKey(today)); err != nil {
			s.saveErr = err
			s.logger.Warn("save streak failed", "err", err)
			s.notify(notify.Warning, "Could not save streak: "+err.Error())
		}
	}

	s.logger.Debug("opened", "first_run", !found, "tasks", len(s.tasks), "streak", effective)
	return s, effective, nil
}

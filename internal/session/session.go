// Package session owns the live board and history for the lifetime of the
// process. Every mutation, including the periodic expiry sweep, runs under
// one lock, so callers never observe a half-applied change.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"taskboard/internal/board"
	"taskboard/internal/history"
	"taskboard/internal/logging"
	"taskboard/internal/storage"
)

// ErrClosed is returned by mutations after Close.
var ErrClosed = errors.New("session closed")

// errNothingChanged keeps a no-op sweep from marking the state dirty.
var errNothingChanged = errors.New("nothing changed")

// partialError is returned by a mutation that failed after it had already
// changed the state. The change is kept and saved; the caller sees err.
type partialError struct{ err error }

func (e *partialError) Error() string { return e.err.Error() }
func (e *partialError) Unwrap() error { return e.err }

// Options tune a Session. The zero value is usable.
type Options struct {
	// Now is the clock. Defaults to time.Now.
	Now func() time.Time

	// SweepInterval is the delay between expiry sweeps. Defaults to one second.
	SweepInterval time.Duration

	// OnExpired receives copies of the tasks a sweep flagged as overdue. It is
	// called outside the session lock.
	OnExpired func(tasks []board.Task)

	// AutoSave persists both roots after every mutation, in addition to the
	// save on Close.
	AutoSave bool

	Logger *logging.Logger
}

// Session is the single owner of the board and the history log.
type Session struct {
	mu      sync.Mutex
	repo    *storage.Repository
	board   *board.Board
	history *history.Log
	dirty   bool
	closed  bool

	now       func() time.Time
	interval  time.Duration
	onExpired func([]board.Task)
	autoSave  bool
	log       *logging.Logger

	stop      func()
	closeOnce sync.Once
	closeErr  error
}

// Open loads both roots from repo and flags tasks that went overdue while the
// app was not running.
func Open(ctx context.Context, repo *storage.Repository, opts Options) (*Session, error) {
	b, err := repo.LoadBoard(ctx)
	if err != nil {
		return nil, err
	}
	h, err := repo.LoadHistory(ctx)
	if err != nil {
		return nil, err
	}

	s := &Session{
		repo:      repo,
		board:     b,
		history:   h,
		now:       opts.Now,
		interval:  opts.SweepInterval,
		onExpired: opts.OnExpired,
		autoSave:  opts.AutoSave,
		log:       logging.OrNop(opts.Logger).WithComponent("session"),
	}
	if s.now == nil {
		s.now = time.Now
	}

	s.log.Infow("session opened", "sections", len(b.Sections()), "tasks", b.TaskCount(), "history", h.Len())
	s.Sweep(ctx)
	return s, nil
}

// Now returns the session clock's current time.
func (s *Session) Now() time.Time {
	return s.now()
}

// View calls fn with the live board and log under the session lock. fn must
// not retain them or call back into the session.
func (s *Session) View(fn func(b *board.Board, h *history.Log)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.board, s.history)
}

// mutate runs fn under the lock, marks the state dirty on success and saves
// when AutoSave is on.
func (s *Session) mutate(ctx context.Context, op string, fn func(now time.Time) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	err := fn(s.now())
	var partial *partialError
	if errors.As(err, &partial) {
		s.log.Warnw("mutation failed part way", "op", op, "error", partial.err)
		err = partial.err
	} else if err != nil {
		if !errors.Is(err, errNothingChanged) {
			s.log.Debugw("mutation rejected", "op", op, "error", err)
		}
		return err
	}

	s.dirty = true
	if s.autoSave {
		if serr := s.saveLocked(ctx); serr != nil {
			s.log.WithError(serr).Errorw("autosave failed", "op", op)
		}
	}
	return err
}

// AddTask inserts task into a section. Its Expired flag is derived from its
// deadline before it lands on the board.
func (s *Session) AddTask(ctx context.Context, task *board.Task, sectionID, anchorID string, before bool) error {
	return s.mutate(ctx, "add_task", func(now time.Time) error {
		task.Expired = task.IsExpired(now)
		return s.board.AddTask(task, sectionID, anchorID, before)
	})
}

// EditTask applies changes and returns a copy of the edited task.
func (s *Session) EditTask(ctx context.Context, id string, changes board.Changes) (board.Task, error) {
	var out board.Task
	err := s.mutate(ctx, "edit_task", func(now time.Time) error {
		t, err := s.board.ApplyFieldChange(id, changes, now)
		if err != nil {
			return err
		}
		out = *t
		return nil
	})
	return out, err
}

// MoveTask repositions a task, possibly into another section.
func (s *Session) MoveTask(ctx context.Context, id, toSectionID, anchorID string, before bool) error {
	return s.mutate(ctx, "move_task", func(time.Time) error {
		return s.board.MoveTask(id, toSectionID, anchorID, before)
	})
}

// DuplicateTask copies a task next to the original and returns the copy.
func (s *Session) DuplicateTask(ctx context.Context, id string) (board.Task, error) {
	var out board.Task
	err := s.mutate(ctx, "duplicate_task", func(time.Time) error {
		t, err := s.board.DuplicateTask(id)
		if err != nil {
			return err
		}
		out = *t
		return nil
	})
	return out, err
}

// DeleteTask discards a task without archiving it.
func (s *Session) DeleteTask(ctx context.Context, id string) error {
	return s.mutate(ctx, "delete_task", func(time.Time) error {
		_, err := s.board.DeleteTask(id)
		return err
	})
}

// CompleteTask stamps the task with the current time of day, records it in
// today's history partition and removes it from the board.
func (s *Session) CompleteTask(ctx context.Context, id string) (board.Task, error) {
	var out board.Task
	err := s.mutate(ctx, "complete_task", func(now time.Time) error {
		t, _ := s.board.FindTask(id)
		if t == nil {
			return fmt.Errorf("complete task %s: %w", id, board.ErrNotFound)
		}
		it, err := s.history.Record(t, now.Format(board.ClockLayout), now)
		if err != nil {
			return err
		}
		if _, err := s.board.DeleteTask(id); err != nil {
			return err
		}
		out = it.Task
		return nil
	})
	return out, err
}

// AddSection inserts section after the section with afterID, or at the end.
func (s *Session) AddSection(ctx context.Context, section *board.Section, afterID string) error {
	return s.mutate(ctx, "add_section", func(time.Time) error {
		return s.board.AddSection(section, afterID)
	})
}

// RenameSection changes a section's name.
func (s *Session) RenameSection(ctx context.Context, id, name string) error {
	return s.mutate(ctx, "rename_section", func(time.Time) error {
		return s.board.RenameSection(id, name)
	})
}

// DuplicateSection copies a section and its tasks and returns the new id.
func (s *Session) DuplicateSection(ctx context.Context, id string) (string, error) {
	var out string
	err := s.mutate(ctx, "duplicate_section", func(time.Time) error {
		c, err := s.board.DuplicateSection(id)
		if err != nil {
			return err
		}
		out = c.ID
		return nil
	})
	return out, err
}

// DeleteSection removes a section and discards its tasks.
func (s *Session) DeleteSection(ctx context.Context, id string) error {
	return s.mutate(ctx, "delete_section", func(time.Time) error {
		_, err := s.board.DeleteSection(id)
		return err
	})
}

// ClearSection discards every task in a section.
func (s *Session) ClearSection(ctx context.Context, id string) error {
	return s.mutate(ctx, "clear_section", func(time.Time) error {
		return s.board.ClearSection(id)
	})
}

// RestoreItem moves a completed task back onto the board and erases it from
// the history.
func (s *Session) RestoreItem(ctx context.Context, id string) (board.Task, error) {
	var out board.Task
	err := s.mutate(ctx, "restore_item", func(now time.Time) error {
		it := s.history.FindItem(id)
		if it == nil {
			return fmt.Errorf("restore %s: %w", id, history.ErrItemNotFound)
		}
		t, err := s.history.Restore(it, s.board)
		if err != nil {
			return err
		}
		if _, err := s.history.Erase(id); err != nil {
			return err
		}
		t.Expired = t.IsExpired(now)
		out = *t
		return nil
	})
	return out, err
}

// DeleteItem erases a completed task for good.
func (s *Session) DeleteItem(ctx context.Context, id string) error {
	return s.mutate(ctx, "delete_item", func(time.Time) error {
		_, err := s.history.Erase(id)
		return err
	})
}

// ToggleChecked flips an item's bulk-selection flag and returns the new value.
func (s *Session) ToggleChecked(ctx context.Context, id string) (bool, error) {
	var checked bool
	err := s.mutate(ctx, "toggle_checked", func(time.Time) error {
		it := s.history.FindItem(id)
		if it == nil {
			return fmt.Errorf("toggle %s: %w", id, history.ErrItemNotFound)
		}
		checked = !it.Checked
		return s.history.SetChecked(id, checked)
	})
	return checked, err
}

// CheckedCount returns how many history items are selected.
func (s *Session) CheckedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history.Checked())
}

// RestoreChecked restores and erases every selected item and returns how
// many were restored.
func (s *Session) RestoreChecked(ctx context.Context) (int, error) {
	var n int
	err := s.mutate(ctx, "restore_checked", func(now time.Time) error {
		restored, err := s.history.RestoreChecked(s.board)
		for _, t := range restored {
			t.Expired = t.IsExpired(now)
		}
		n = len(restored)
		if err != nil && n > 0 {
			return &partialError{err}
		}
		return err
	})
	return n, err
}

// DeleteChecked erases every selected item and returns how many went.
func (s *Session) DeleteChecked(ctx context.Context) (int, error) {
	var n int
	err := s.mutate(ctx, "delete_checked", func(time.Time) error {
		erased, err := s.history.DeleteChecked()
		n = len(erased)
		if err != nil && n > 0 {
			return &partialError{err}
		}
		return err
	})
	return n, err
}

// UncheckAll clears every selection flag.
func (s *Session) UncheckAll(ctx context.Context) (int, error) {
	var n int
	err := s.mutate(ctx, "uncheck_all", func(time.Time) error {
		n = s.history.UncheckAll()
		return nil
	})
	return n, err
}

// Batch runs fn against the live board and log as a single mutation. It is
// meant for bulk edits such as imports; fn must not call back into the
// session. An error from fn leaves the dirty flag untouched, so fn should fail
// before it changes anything.
func (s *Session) Batch(ctx context.Context, op string, fn func(b *board.Board, h *history.Log, now time.Time) error) error {
	return s.mutate(ctx, op, func(now time.Time) error {
		return fn(s.board, s.history, now)
	})
}

// Sweep flags tasks whose deadline has passed and reports them to OnExpired.
func (s *Session) Sweep(ctx context.Context) []board.Task {
	var flipped []board.Task
	_ = s.mutate(ctx, "sweep", func(now time.Time) error {
		for _, t := range s.board.SweepExpired(now) {
			flipped = append(flipped, *t)
		}
		if len(flipped) == 0 {
			return errNothingChanged
		}
		return nil
	})

	if len(flipped) > 0 {
		s.log.Infow("tasks expired", "count", len(flipped))
		if s.onExpired != nil {
			s.onExpired(flipped)
		}
	}
	return flipped
}

// Start runs the periodic sweep until ctx is done or Close is called.
// Calling it again has no effect.
func (s *Session) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil || s.closed {
		return
	}
	sw := board.NewSweeper(s.interval, func(ctx context.Context) { s.Sweep(ctx) })
	s.stop = sw.Start(ctx)
	s.log.Debugw("sweeper started", "interval", sw.Interval())
}

// Dirty reports whether there are changes not yet saved.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// Save persists both roots.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(ctx)
}

func (s *Session) saveLocked(ctx context.Context) error {
	err := errors.Join(
		s.repo.SaveBoard(ctx, s.board),
		s.repo.SaveHistory(ctx, s.history),
	)
	if err != nil {
		return err
	}
	s.dirty = false
	return nil
}

// Close stops the sweeper, waiting for a sweep in flight, and then saves.
// Later calls return the first call's result.
func (s *Session) Close(ctx context.Context) error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		stop := s.stop
		s.mu.Unlock()
		if stop != nil {
			stop()
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		s.closeErr = s.saveLocked(ctx)
		if s.closeErr != nil {
			s.log.WithError(s.closeErr).Errorw("final save failed")
		} else {
			s.log.Infow("session closed")
		}
	})
	return s.closeErr
}

package ui

import (
	"time"

	"taskboard/internal/board"
	"taskboard/internal/history"
	"taskboard/internal/session"
)

// sectionView is a render-only copy of a section.
type sectionView struct {
	ID      string
	Name    string
	Default bool
	Tasks   []board.Task
}

// label returns the display name. The default section has none of its own.
func (s sectionView) label() string {
	if s.Default || s.Name == "" {
		return "General"
	}
	return s.Name
}

// partitionView is a render-only copy of one history day.
type partitionView struct {
	Heading string
	Items   []itemView
}

type itemView struct {
	ID        string
	Name      string
	Completed string
	Checked   bool
}

// snapshot is a consistent copy of the session state taken under its lock.
// Panes render from it and never touch the live board.
type snapshot struct {
	now        time.Time
	sections   []sectionView
	partitions []partitionView
	empty      bool
	pending    int
	overdue    int
	overdueSet []board.Task
	doneToday  int
	checked    int
	historyLen int
}

// takeSnapshot copies the board and history out of s.
func takeSnapshot(s *session.Session) snapshot {
	snap := snapshot{now: s.Now()}
	s.View(func(b *board.Board, h *history.Log) {
		snap.empty = b.IsEmpty()
		for _, sec := range b.Sections() {
			v := sectionView{ID: sec.ID, Name: sec.Name, Default: sec.IsDefault()}
			for _, t := range sec.Tasks() {
				v.Tasks = append(v.Tasks, *t)
				snap.pending++
				if t.Expired || t.IsExpired(snap.now) {
					snap.overdue++
					snap.overdueSet = append(snap.overdueSet, *t)
				}
			}
			snap.sections = append(snap.sections, v)
		}

		for _, p := range h.Partitions() {
			pv := partitionView{Heading: p.Heading(snap.now)}
			for _, it := range p.Items() {
				pv.Items = append(pv.Items, itemView{
					ID:        it.ID(),
					Name:      it.Task.Name,
					Completed: it.Task.CompletionTime,
					Checked:   it.Checked,
				})
				if it.Checked {
					snap.checked++
				}
			}
			snap.historyLen += len(pv.Items)
			snap.partitions = append(snap.partitions, pv)
		}
		if today := h.PartitionFor(snap.now); today != nil {
			snap.doneToday = today.Len()
		}
	})
	return snap
}

// isOverdue reports whether t should be drawn as overdue at now.
func isOverdue(t board.Task, now time.Time) bool {
	return t.Expired || t.IsExpired(now)
}

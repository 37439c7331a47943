// Package history keeps the log of completed tasks, grouped by the calendar
// day they were completed on.
package history

import (
	"errors"
	"fmt"
	"time"

	"taskboard/internal/board"
)

var (
	// ErrItemNotFound is returned when erasing an id that is not in the log.
	ErrItemNotFound = errors.New("history item not found")
	// ErrDuplicateItem is returned when recording an id that is already in the log.
	ErrDuplicateItem = errors.New("history item already recorded")
)

// Item is a snapshot of a completed task. Checked is selection state for
// bulk actions and is never persisted.
type Item struct {
	Task    board.Task
	Checked bool
}

// ID returns the id of the completed task.
func (it *Item) ID() string {
	return it.Task.ID
}

// Partition holds the items completed on one calendar day.
type Partition struct {
	Date  time.Time // local midnight
	items []*Item
}

// Items returns the partition's items in completion order.
func (p *Partition) Items() []*Item {
	out := make([]*Item, len(p.items))
	copy(out, p.items)
	return out
}

// Len returns the number of items in the partition.
func (p *Partition) Len() int {
	return len(p.items)
}

// Append adds a snapshot at the end of the partition. It is meant for
// rehydrating a log; live completions go through Log.Record.
func (p *Partition) Append(task board.Task) *Item {
	it := &Item{Task: task}
	p.items = append(p.items, it)
	return it
}

func (p *Partition) indexOf(id string) int {
	for i, it := range p.items {
		if it.Task.ID == id {
			return i
		}
	}
	return -1
}

// Heading renders the partition date relative to now: "Today, 16 Oct, 2026",
// "Yesterday, 15 Oct, 2026", or the weekday name for older days.
func (p *Partition) Heading(now time.Time) string {
	today := Day(now)
	d := Day(p.Date.In(now.Location()))
	label := d.Weekday().String()
	switch {
	case d.Equal(today):
		label = "Today"
	case d.Equal(today.AddDate(0, 0, -1)):
		label = "Yesterday"
	}
	return label + ", " + d.Format("02 Jan, 2006")
}

// Day truncates t to midnight in its own location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Log is the ordered list of partitions, newest first.
type Log struct {
	partitions []*Partition
}

// New returns an empty log.
func New() *Log {
	return &Log{}
}

// Partitions returns the partitions in display order.
func (l *Log) Partitions() []*Partition {
	out := make([]*Partition, len(l.partitions))
	copy(out, l.partitions)
	return out
}

// Len returns the number of items across all partitions.
func (l *Log) Len() int {
	n := 0
	for _, p := range l.partitions {
		n += len(p.items)
	}
	return n
}

// PartitionFor returns the partition for the calendar day of date, or nil.
func (l *Log) PartitionFor(date time.Time) *Partition {
	for _, p := range l.partitions {
		if sameDay(p.Date.In(date.Location()), date) {
			return p
		}
	}
	return nil
}

// AddPartition appends an empty partition for date, or returns the existing
// one for that day. Used when rehydrating, where order comes from the snapshot.
func (l *Log) AddPartition(date time.Time) *Partition {
	if p := l.PartitionFor(date); p != nil {
		return p
	}
	p := &Partition{Date: Day(date)}
	l.partitions = append(l.partitions, p)
	return p
}

// EnsureToday returns the partition for now's calendar day, prepending a new
// one when there is none yet.
func (l *Log) EnsureToday(now time.Time) *Partition {
	if p := l.PartitionFor(now); p != nil {
		return p
	}
	p := &Partition{Date: Day(now)}
	l.partitions = append([]*Partition{p}, l.partitions...)
	return p
}

// Record snapshots task into today's partition with the given completion time.
func (l *Log) Record(task *board.Task, completionTime string, now time.Time) (*Item, error) {
	if l.FindItem(task.ID) != nil {
		return nil, fmt.Errorf("record %s: %w", task.ID, ErrDuplicateItem)
	}
	snap := *task
	snap.CompletionTime = completionTime
	return l.EnsureToday(now).Append(snap), nil
}

// RecordAt snapshots task into the partition for the calendar day of at,
// inserting that partition so the log stays newest first. Used for
// completions that happened elsewhere, such as imported tasks.
func (l *Log) RecordAt(task *board.Task, at time.Time) (*Item, error) {
	if l.FindItem(task.ID) != nil {
		return nil, fmt.Errorf("record %s: %w", task.ID, ErrDuplicateItem)
	}
	snap := *task
	snap.CompletionTime = at.Format(board.ClockLayout)

	p := l.PartitionFor(at)
	if p == nil {
		day := Day(at)
		idx := len(l.partitions)
		for i, existing := range l.partitions {
			if existing.Date.Before(day) {
				idx = i
				break
			}
		}
		p = &Partition{Date: day}
		l.partitions = append(l.partitions, nil)
		copy(l.partitions[idx+1:], l.partitions[idx:])
		l.partitions[idx] = p
	}
	return p.Append(snap), nil
}

// Erase removes the item with id. A partition left without items is dropped.
func (l *Log) Erase(id string) (*Item, error) {
	for i, p := range l.partitions {
		j := p.indexOf(id)
		if j < 0 {
			continue
		}
		it := p.items[j]
		p.items = append(p.items[:j], p.items[j+1:]...)
		if len(p.items) == 0 {
			l.partitions = append(l.partitions[:i], l.partitions[i+1:]...)
		}
		return it, nil
	}
	return nil, fmt.Errorf("erase %s: %w", id, ErrItemNotFound)
}

// FindItem returns the item with id, or nil.
func (l *Log) FindItem(id string) *Item {
	if p := l.PartitionOf(id); p != nil {
		return p.items[p.indexOf(id)]
	}
	return nil
}

// PartitionOf returns the partition holding the item with id, or nil.
func (l *Log) PartitionOf(id string) *Partition {
	for _, p := range l.partitions {
		if p.indexOf(id) >= 0 {
			return p
		}
	}
	return nil
}

// Items flattens the log, visiting partitions oldest first.
func (l *Log) Items() []*Item {
	var out []*Item
	for i := len(l.partitions) - 1; i >= 0; i-- {
		out = append(out, l.partitions[i].items...)
	}
	return out
}

// Prune drops partitions that hold no items.
func (l *Log) Prune() {
	kept := l.partitions[:0]
	for _, p := range l.partitions {
		if len(p.items) > 0 {
			kept = append(kept, p)
		}
	}
	for i := len(kept); i < len(l.partitions); i++ {
		l.partitions[i] = nil
	}
	l.partitions = kept
}

// Restore puts a copy of item's task back on b, at the end of the section it
// was completed from, or the default section when that one is gone. The item
// stays in the log; callers erase it separately.
func (l *Log) Restore(item *Item, b *board.Board) (*board.Task, error) {
	t := item.Task.Clone()
	t.CompletionTime = ""

	target := t.SectionID
	if b.FindSection(target) == nil {
		target = board.DefaultSectionID
	}
	if err := b.AddTask(t, target, "", false); err != nil {
		return nil, fmt.Errorf("restore %s: %w", t.ID, err)
	}
	return t, nil
}

// SetChecked flags or unflags the item with id for bulk actions.
func (l *Log) SetChecked(id string, checked bool) error {
	it := l.FindItem(id)
	if it == nil {
		return fmt.Errorf("check %s: %w", id, ErrItemNotFound)
	}
	it.Checked = checked
	return nil
}

// Checked returns every flagged item in Items order.
func (l *Log) Checked() []*Item {
	var out []*Item
	for _, it := range l.Items() {
		if it.Checked {
			out = append(out, it)
		}
	}
	return out
}

// UncheckAll clears every selection flag and returns how many were set.
func (l *Log) UncheckAll() int {
	n := 0
	for _, it := range l.Checked() {
		if err := l.SetChecked(it.ID(), false); err == nil {
			n++
		}
	}
	return n
}

// RestoreChecked restores and erases every flagged item. It stops at the
// first failure and returns the tasks put back on b so far.
func (l *Log) RestoreChecked(b *board.Board) ([]*board.Task, error) {
	var restored []*board.Task
	for _, it := range l.Checked() {
		t, err := l.Restore(it, b)
		if err != nil {
			return restored, err
		}
		restored = append(restored, t)
		if _, err := l.Erase(it.ID()); err != nil {
			return restored, err
		}
	}
	return restored, nil
}

// DeleteChecked erases every flagged item and returns them.
func (l *Log) DeleteChecked() ([]*Item, error) {
	var erased []*Item
	for _, it := range l.Checked() {
		e, err := l.Erase(it.ID())
		if err != nil {
			return erased, err
		}
		erased = append(erased, e)
	}
	return erased, nil
}

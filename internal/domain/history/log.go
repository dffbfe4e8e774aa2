// Package history tracks per-workgroup snapshot logs for undo and redo.
// Each session keeps its own log per workgroup, so undoing in one
// session never disturbs another.
package history

import (
	"github.com/paneworks/workgrid/internal/domain/layout"
)

// DefaultMaxLength bounds a log when the config leaves it unset.
const DefaultMaxLength = 20

// Log is the undo history for one workgroup within one session. Entries
// are kept newest-first; the pointer marks the entry currently in effect,
// with 0 meaning the newest.
//
// Log is not safe for concurrent use; the owning session serializes
// access.
type Log struct {
	entries []*layout.Snapshot
	ptr     int
	max     int
}

// NewLog builds an empty log holding at most max entries.
func NewLog(max int) *Log {
	if max < 1 {
		max = DefaultMaxLength
	}
	return &Log{max: max}
}

// Push records a snapshot as the new newest entry and moves the pointer
// to it. Entries newer than the pointer (the redo future) are discarded
// first, and the oldest entry is evicted once the log is full.
//
// Pushing a snapshot equal to the one at the pointer is a no-op, so
// repeated commits without changes do not grow the log.
func (l *Log) Push(s *layout.Snapshot) {
	if s == nil {
		return
	}
	if cur := l.at(l.ptr); cur != nil && cur.Equal(s) {
		return
	}

	l.entries = append([]*layout.Snapshot{s.Clone()}, l.entries[l.ptr:]...)
	l.ptr = 0
	if len(l.entries) > l.max {
		l.entries = l.entries[:l.max]
	}
}

// Undo moves the pointer n entries toward older snapshots, clamping at
// the oldest, and returns the snapshot now in effect. The bool reports
// whether the pointer moved at all; false means the log was already at
// its oldest entry (or empty).
func (l *Log) Undo(n int) (*layout.Snapshot, bool) {
	if len(l.entries) == 0 || n < 1 {
		return l.Current(), false
	}
	prev := l.ptr
	l.ptr = min(l.ptr+n, len(l.entries)-1)
	return l.Current(), l.ptr != prev
}

// Redo moves the pointer n entries toward newer snapshots, clamping at
// the newest. The bool reports whether the pointer moved at all.
func (l *Log) Redo(n int) (*layout.Snapshot, bool) {
	if len(l.entries) == 0 || n < 1 {
		return l.Current(), false
	}
	prev := l.ptr
	l.ptr = max(l.ptr-n, 0)
	return l.Current(), l.ptr != prev
}

// Current returns a copy of the snapshot at the pointer, or nil for an
// empty log.
func (l *Log) Current() *layout.Snapshot {
	if e := l.at(l.ptr); e != nil {
		return e.Clone()
	}
	return nil
}

// Len reports the number of stored entries.
func (l *Log) Len() int {
	return len(l.entries)
}

// Depth reports how far the pointer sits from the newest entry; 0 means
// no undos are in effect.
func (l *Log) Depth() int {
	return l.ptr
}

func (l *Log) at(i int) *layout.Snapshot {
	if i < 0 || i >= len(l.entries) {
		return nil
	}
	return l.entries[i]
}

package history

import (
	"fmt"
	"testing"

	"github.com/paneworks/workgrid/internal/domain/layout"
)

func snap(name string) *layout.Snapshot {
	return layout.Blank(layout.Frame{W: 80, H: 24}, layout.ContentRef{Name: name})
}

func contentName(t *testing.T, s *layout.Snapshot) string {
	t.Helper()
	if s == nil {
		t.Fatal("unexpected nil snapshot")
	}
	p := s.SelectedPane()
	if p == nil {
		t.Fatal("snapshot has no selected pane")
	}
	return p.Content.Name
}

func TestPushAndCurrent(t *testing.T) {
	l := NewLog(5)
	if l.Current() != nil {
		t.Error("empty log should have no current snapshot")
	}

	l.Push(snap("s1"))
	l.Push(snap("s2"))
	if got := contentName(t, l.Current()); got != "s2" {
		t.Errorf("Current() = %q, want %q", got, "s2")
	}
	if l.Len() != 2 || l.Depth() != 0 {
		t.Errorf("Len, Depth = %d, %d, want 2, 0", l.Len(), l.Depth())
	}
}

func TestPushEvictsOldest(t *testing.T) {
	l := NewLog(3)
	for i := 1; i <= 5; i++ {
		l.Push(snap(fmt.Sprintf("s%d", i)))
	}

	if l.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", l.Len())
	}
	if l.Depth() != 0 {
		t.Fatalf("Depth() = %d, want 0", l.Depth())
	}

	// Newest to oldest should read s5, s4, s3.
	want := []string{"s5", "s4", "s3"}
	if got := contentName(t, l.Current()); got != want[0] {
		t.Errorf("Current() = %q, want %q", got, want[0])
	}
	for _, w := range want[1:] {
		s, moved := l.Undo(1)
		if !moved {
			t.Fatalf("Undo(1) reported edge before reaching %q", w)
		}
		if got := contentName(t, s); got != w {
			t.Errorf("Undo(1) = %q, want %q", got, w)
		}
	}
	if _, moved := l.Undo(1); moved {
		t.Error("Undo(1) past the oldest entry should report the edge")
	}
}

func TestPushDeduplicates(t *testing.T) {
	l := NewLog(5)
	l.Push(snap("same"))
	l.Push(snap("same"))
	if l.Len() != 1 {
		t.Errorf("Len() = %d, want 1 after pushing equal snapshots", l.Len())
	}
}

func TestUndoRedoRoundTrip(t *testing.T) {
	l := NewLog(5)
	l.Push(snap("s1"))
	l.Push(snap("s2"))
	l.Push(snap("s3"))

	s, moved := l.Undo(2)
	if !moved || contentName(t, s) != "s1" {
		t.Fatalf("Undo(2) = %q moved=%v, want s1 moved=true", contentName(t, s), moved)
	}
	s, moved = l.Redo(2)
	if !moved || contentName(t, s) != "s3" {
		t.Fatalf("Redo(2) = %q moved=%v, want s3 moved=true", contentName(t, s), moved)
	}
	if !l.Current().Equal(snap("s3")) {
		t.Error("round trip should restore the original snapshot exactly")
	}
}

func TestPushTruncatesRedoFuture(t *testing.T) {
	l := NewLog(5)
	l.Push(snap("s1"))
	l.Push(snap("s2"))
	l.Push(snap("s3"))
	l.Undo(1) // now at s2

	l.Push(snap("s4"))
	if _, moved := l.Redo(1); moved {
		t.Error("push after undo should discard the redo future")
	}

	want := []string{"s4", "s2", "s1"}
	if got := contentName(t, l.Current()); got != want[0] {
		t.Errorf("Current() = %q, want %q", got, want[0])
	}
	for _, w := range want[1:] {
		s, _ := l.Undo(1)
		if got := contentName(t, s); got != w {
			t.Errorf("Undo(1) = %q, want %q", got, w)
		}
	}
}

func TestPushAtPointerKeepsFuture(t *testing.T) {
	l := NewLog(5)
	l.Push(snap("s1"))
	l.Push(snap("s2"))
	l.Undo(1) // at s1

	// Re-pushing the snapshot already in effect must not drop s2.
	l.Push(snap("s1"))
	if s, moved := l.Redo(1); !moved || contentName(t, s) != "s2" {
		t.Errorf("Redo(1) = %q moved=%v, want s2 moved=true", contentName(t, s), moved)
	}
}

func TestUndoClampsAtOldest(t *testing.T) {
	l := NewLog(5)
	l.Push(snap("s1"))
	l.Push(snap("s2"))

	s, moved := l.Undo(10)
	if !moved || contentName(t, s) != "s1" {
		t.Errorf("Undo(10) = %q moved=%v, want s1 moved=true", contentName(t, s), moved)
	}
	if _, moved := l.Undo(1); moved {
		t.Error("Undo at the oldest entry should report the edge")
	}
	if _, moved := l.Redo(10); !moved {
		t.Error("Redo from the oldest entry should move")
	}
	if _, moved := l.Redo(1); moved {
		t.Error("Redo at the newest entry should report the edge")
	}
}

func TestEmptyLogEdges(t *testing.T) {
	l := NewLog(5)
	if s, moved := l.Undo(1); s != nil || moved {
		t.Error("Undo on an empty log should return nil and report the edge")
	}
	if s, moved := l.Redo(1); s != nil || moved {
		t.Error("Redo on an empty log should return nil and report the edge")
	}
}

func TestPushedSnapshotsAreIsolated(t *testing.T) {
	l := NewLog(5)
	s := snap("s1")
	l.Push(s)

	// Mutating the caller's copy after pushing must not affect the log.
	s.SelectedPane().Content.Name = "mutated"
	if got := contentName(t, l.Current()); got != "s1" {
		t.Errorf("Current() = %q, want %q after external mutation", got, "s1")
	}
}

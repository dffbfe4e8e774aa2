package layout

import "fmt"

// Frame is the display surface's outer geometry: position, size in cells,
// and scrollbar defaults applied to panes that don't override them.
type Frame struct {
	X          int        `json:"x"`
	Y          int        `json:"y"`
	W          int        `json:"w"`
	H          int        `json:"h"`
	Scrollbars Scrollbars `json:"scrollbars,omitempty"`
}

// Snapshot is one concrete layout: frame geometry, the pane tree, and
// which pane is selected, identified by its index in the stable
// depth-first pane order. Snapshots are immutable by convention; every
// change produces a new one.
type Snapshot struct {
	Frame       Frame
	SelectedIdx int
	Root        Tree
}

// NewSnapshot builds a snapshot. The root is used as given.
func NewSnapshot(frame Frame, root Tree, selectedIdx int) *Snapshot {
	return &Snapshot{Frame: frame, SelectedIdx: selectedIdx, Root: root}
}

// Blank returns a snapshot of a single empty pane filling the frame,
// the shape a freshly created workgroup starts from.
func Blank(frame Frame, content ContentRef) *Snapshot {
	root := NewPane(Rect{Right: frame.W, Bottom: frame.H}, content)
	root.Selected = true
	return &Snapshot{Frame: frame, Root: root}
}

// Clone returns a deep copy.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	return &Snapshot{
		Frame:       s.Frame,
		SelectedIdx: s.SelectedIdx,
		Root:        CloneTree(s.Root),
	}
}

// SelectedPane returns the pane at the recorded selected index, clamped
// to the tree's pane count. Nil only for an empty tree.
func (s *Snapshot) SelectedPane() *Pane {
	panes := Panes(s.Root)
	if len(panes) == 0 {
		return nil
	}
	idx := clamp(s.SelectedIdx, 0, len(panes)-1)
	return panes[idx]
}

// Equal reports whether two snapshots show the same layout: frame,
// selection, structure, and per-pane content. View state is excluded so
// scroll movement alone never registers as a layout change.
func (s *Snapshot) Equal(o *Snapshot) bool {
	if s == nil || o == nil {
		return s == o
	}
	return s.Frame == o.Frame &&
		s.SelectedIdx == o.SelectedIdx &&
		ContentEqual(s.Root, o.Root)
}

// Validate checks the snapshot's tree against the partition invariant and
// the selected index against the pane count.
func (s *Snapshot) Validate() error {
	if s.Root == nil {
		return fmt.Errorf("snapshot has no tree")
	}
	if err := Validate(s.Root); err != nil {
		return err
	}
	if n := CountPanes(s.Root); s.SelectedIdx < 0 || s.SelectedIdx >= n {
		return fmt.Errorf("selected index %d out of range for %d panes", s.SelectedIdx, n)
	}
	return nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

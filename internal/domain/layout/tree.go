package layout

import (
	"fmt"
)

// Axis is the direction along which a split divides its span.
type Axis int

const (
	// Horizontal lays children side by side, dividing the span along x.
	Horizontal Axis = iota
	// Vertical stacks children, dividing the span along y.
	Vertical
)

// String returns the axis name.
func (a Axis) String() string {
	if a == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// ParseAxis converts an axis name back to an Axis.
func ParseAxis(s string) (Axis, error) {
	switch s {
	case "horizontal":
		return Horizontal, nil
	case "vertical":
		return Vertical, nil
	}
	return Horizontal, fmt.Errorf("unknown axis %q", s)
}

// Rect is a frame-relative cell rectangle. Left/Top are inclusive,
// Right/Bottom exclusive, so W and H are plain differences.
type Rect struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

// W returns the rectangle width in cells.
func (r Rect) W() int { return r.Right - r.Left }

// H returns the rectangle height in cells.
func (r Rect) H() int { return r.Bottom - r.Top }

// Size returns the extent along the given axis.
func (r Rect) Size(a Axis) int {
	if a == Vertical {
		return r.H()
	}
	return r.W()
}

// Near returns the starting bound along the given axis.
func (r Rect) Near(a Axis) int {
	if a == Vertical {
		return r.Top
	}
	return r.Left
}

// Far returns the ending bound along the given axis.
func (r Rect) Far(a Axis) int {
	if a == Vertical {
		return r.Bottom
	}
	return r.Right
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool { return r.W() <= 0 || r.H() <= 0 }

// String renders the rectangle as (left,top,right,bottom).
func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d,%d,%d)", r.Left, r.Top, r.Right, r.Bottom)
}

// withSpan returns r with its along-axis bounds replaced by [start, end).
func (r Rect) withSpan(a Axis, start, end int) Rect {
	if a == Vertical {
		r.Top, r.Bottom = start, end
	} else {
		r.Left, r.Right = start, end
	}
	return r
}

// Min is the smallest representable pane extent, used by normalization and
// by morph placeholders.
type Min struct {
	W int
	H int
}

// DefaultMin matches the engine's default configuration.
var DefaultMin = Min{W: 2, H: 1}

// Along returns the minimum extent along the given axis.
func (m Min) Along(a Axis) int {
	if a == Vertical {
		return m.H
	}
	return m.W
}

// orDefault returns m with non-positive components replaced by defaults.
func (m Min) orDefault() Min {
	if m.W < 1 {
		m.W = DefaultMin.W
	}
	if m.H < 1 {
		m.H = DefaultMin.H
	}
	return m
}

// ContentRef describes what a pane displays: a file path, a name-based
// content identifier, or both. Resolution to live content is the host's
// business.
type ContentRef struct {
	Path string `json:"path,omitempty"`
	Name string `json:"name,omitempty"`
}

// IsZero reports whether the descriptor is empty.
func (c ContentRef) IsZero() bool { return c.Path == "" && c.Name == "" }

// String returns the most specific identifier available.
func (c ContentRef) String() string {
	if c.Path != "" {
		return c.Path
	}
	return c.Name
}

// ScrollbarStyle selects which side a pane's scrollbar occupies.
type ScrollbarStyle string

const (
	ScrollbarDefault ScrollbarStyle = ""
	ScrollbarLeft    ScrollbarStyle = "left"
	ScrollbarRight   ScrollbarStyle = "right"
	ScrollbarNone    ScrollbarStyle = "none"
)

// Scrollbars is per-pane or per-frame scrollbar configuration.
type Scrollbars struct {
	Style ScrollbarStyle `json:"style,omitempty"`
	Width int            `json:"width,omitempty"`
}

// Fringes is the pane's fringe configuration in cells.
type Fringes struct {
	Left           int  `json:"left,omitempty"`
	Right          int  `json:"right,omitempty"`
	OutsideMargins bool `json:"outside_margins,omitempty"`
}

// Margins is the pane's display margin configuration in cells.
type Margins struct {
	Left  int `json:"left,omitempty"`
	Right int `json:"right,omitempty"`
}

// ViewState is everything about how a pane presents its content that is
// worth restoring: scroll anchor, cursor (or the at-end marker, which pins
// the cursor to the end of growing content), mark, horizontal scroll, and
// decoration config.
type ViewState struct {
	Start      int        `json:"start,omitempty"`
	Point      int        `json:"point,omitempty"`
	Mark       int        `json:"mark,omitempty"`
	AtEnd      bool       `json:"at_end,omitempty"`
	HScroll    int        `json:"hscroll,omitempty"`
	Scrollbars Scrollbars `json:"scrollbars,omitempty"`
	Fringes    Fringes    `json:"fringes,omitempty"`
	Margins    Margins    `json:"margins,omitempty"`
}

// Tree is a pane layout: either a *Pane or a *Split. The interface is
// sealed so dispatch is always an exhaustive type switch.
type Tree interface {
	// Bounds returns the subtree's edge rectangle.
	Bounds() Rect
	// Size returns the subtree's extent along the given axis.
	Size(Axis) int
	// IsLeaf reports whether the subtree is a single pane.
	IsLeaf() bool

	sealed()
}

// Pane is a leaf: one visible pane with content and view state.
type Pane struct {
	Rect         Rect
	Content      ContentRef
	View         ViewState
	Selected     bool
	ScrollTarget bool
}

// NewPane builds a pane covering rect showing content.
func NewPane(rect Rect, content ContentRef) *Pane {
	return &Pane{Rect: rect, Content: content}
}

func (p *Pane) Bounds() Rect     { return p.Rect }
func (p *Pane) Size(a Axis) int  { return p.Rect.Size(a) }
func (p *Pane) IsLeaf() bool     { return true }
func (p *Pane) sealed()          {}
func (p *Pane) clone() *Pane {
	c := *p
	return &c
}

// Split is an interior node: an ordered list of children dividing the
// split's span along one axis.
//
// Invariant: children contiguously and exactly partition the span along
// Axis (no gaps, no overlaps, last child reaches the far bound) and every
// child's cross-axis edges equal the split's. A split with one child is
// invalid and collapses during normalization.
type Split struct {
	Rect     Rect
	Axis     Axis
	Children []Tree
}

// NewSplit builds a split node. The children are used as given; call
// Normalize to establish the partition invariant.
func NewSplit(axis Axis, rect Rect, children ...Tree) *Split {
	return &Split{Rect: rect, Axis: axis, Children: children}
}

func (s *Split) Bounds() Rect    { return s.Rect }
func (s *Split) Size(a Axis) int { return s.Rect.Size(a) }
func (s *Split) IsLeaf() bool    { return false }
func (s *Split) sealed()         {}

// CloneTree returns a deep copy of t.
func CloneTree(t Tree) Tree {
	switch n := t.(type) {
	case *Pane:
		return n.clone()
	case *Split:
		children := make([]Tree, len(n.Children))
		for i, c := range n.Children {
			children[i] = CloneTree(c)
		}
		return &Split{Rect: n.Rect, Axis: n.Axis, Children: children}
	}
	return nil
}

// Panes returns the tree's leaves in stable depth-first order. The
// returned panes alias the tree; callers that mutate must clone first.
func Panes(t Tree) []*Pane {
	var out []*Pane
	collectPanes(t, &out)
	return out
}

func collectPanes(t Tree, out *[]*Pane) {
	switch n := t.(type) {
	case *Pane:
		*out = append(*out, n)
	case *Split:
		for _, c := range n.Children {
			collectPanes(c, out)
		}
	}
}

// CountPanes returns the number of leaves in t.
func CountPanes(t Tree) int {
	switch n := t.(type) {
	case *Pane:
		return 1
	case *Split:
		total := 0
		for _, c := range n.Children {
			total += CountPanes(c)
		}
		return total
	}
	return 0
}

// FirstPane returns the first leaf in depth-first order.
func FirstPane(t Tree) *Pane {
	switch n := t.(type) {
	case *Pane:
		return n
	case *Split:
		if len(n.Children) == 0 {
			return nil
		}
		return FirstPane(n.Children[0])
	}
	return nil
}

// LastPane returns the last leaf in depth-first order.
func LastPane(t Tree) *Pane {
	switch n := t.(type) {
	case *Pane:
		return n
	case *Split:
		if len(n.Children) == 0 {
			return nil
		}
		return LastPane(n.Children[len(n.Children)-1])
	}
	return nil
}

// SelectedIndex returns the depth-first index of the selected pane, or -1
// when no pane carries the flag.
func SelectedIndex(t Tree) int {
	for i, p := range Panes(t) {
		if p.Selected {
			return i
		}
	}
	return -1
}

// Minified returns a copy of the subtree's last leaf shrunk to the minimum
// extent at its own origin. Morph placeholders "emerge" from these.
func Minified(t Tree, min Min) *Pane {
	min = min.orDefault()
	last := LastPane(t)
	if last == nil {
		return &Pane{Rect: Rect{
			Left: t.Bounds().Left, Top: t.Bounds().Top,
			Right: t.Bounds().Left + min.W, Bottom: t.Bounds().Top + min.H,
		}}
	}
	p := last.clone()
	p.Rect = Rect{
		Left:   last.Rect.Left,
		Top:    last.Rect.Top,
		Right:  last.Rect.Left + min.W,
		Bottom: last.Rect.Top + min.H,
	}
	return p
}

// StructEqual reports structural equality: split axes and edges compared
// recursively, content ignored. This is the morph termination test.
func StructEqual(a, b Tree) bool {
	switch x := a.(type) {
	case *Pane:
		y, ok := b.(*Pane)
		return ok && x.Rect == y.Rect
	case *Split:
		y, ok := b.(*Split)
		if !ok || x.Axis != y.Axis || x.Rect != y.Rect || len(x.Children) != len(y.Children) {
			return false
		}
		for i := range x.Children {
			if !StructEqual(x.Children[i], y.Children[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// ContentEqual reports whether two trees agree on structure and on what
// every pane displays. View state is deliberately excluded: scrolling a
// pane does not make a layout "different" for history purposes.
func ContentEqual(a, b Tree) bool {
	switch x := a.(type) {
	case *Pane:
		y, ok := b.(*Pane)
		return ok && x.Rect == y.Rect && x.Content == y.Content
	case *Split:
		y, ok := b.(*Split)
		if !ok || x.Axis != y.Axis || x.Rect != y.Rect || len(x.Children) != len(y.Children) {
			return false
		}
		for i := range x.Children {
			if !ContentEqual(x.Children[i], y.Children[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// Validate checks the partition invariant over the whole tree: every
// split has at least two children whose spans contiguously and exactly
// cover the split's span along its axis, with cross-axis edges equal to
// the split's. Returns nil for a lone pane with positive area.
func Validate(t Tree) error {
	switch n := t.(type) {
	case *Pane:
		if n.Rect.Empty() {
			return fmt.Errorf("pane %s has no area", n.Rect)
		}
		return nil
	case *Split:
		if len(n.Children) < 2 {
			return fmt.Errorf("split %s has %d children, need at least 2", n.Rect, len(n.Children))
		}
		pos := n.Rect.Near(n.Axis)
		for i, c := range n.Children {
			b := c.Bounds()
			if b.Near(n.Axis) != pos {
				return fmt.Errorf("split %s child %d starts at %d, want %d", n.Rect, i, b.Near(n.Axis), pos)
			}
			cross := Horizontal
			if n.Axis == Horizontal {
				cross = Vertical
			}
			if b.Near(cross) != n.Rect.Near(cross) || b.Far(cross) != n.Rect.Far(cross) {
				return fmt.Errorf("split %s child %d cross-axis edges %s exceed parent", n.Rect, i, b)
			}
			pos = b.Far(n.Axis)
			if err := Validate(c); err != nil {
				return err
			}
		}
		if pos != n.Rect.Far(n.Axis) {
			return fmt.Errorf("split %s children end at %d, want %d", n.Rect, pos, n.Rect.Far(n.Axis))
		}
		return nil
	}
	return fmt.Errorf("nil tree")
}

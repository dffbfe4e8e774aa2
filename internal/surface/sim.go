package surface

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/paneworks/workgrid/internal/domain/layout"
)

// Sim is the in-memory reference surface. It maintains a real split
// tree with pane rects, contents, view states, selection and a busy
// flag, and can render itself as ASCII for the demo binary.
type Sim struct {
	mu       sync.Mutex
	frame    layout.Frame
	root     *simNode
	selected PaneID
	busy     bool
	nextID   PaneID
}

type simNode struct {
	rect     layout.Rect
	axis     layout.Axis
	children []*simNode
	pane     *simPane
}

type simPane struct {
	id      PaneID
	rect    layout.Rect
	content layout.ContentRef
	view    layout.ViewState
	scroll  bool
}

// NewSim creates a surface with a single pane filling the frame.
func NewSim(frame layout.Frame, content layout.ContentRef) *Sim {
	full := layout.Rect{Right: frame.W, Bottom: frame.H}
	p := &simPane{id: 1, rect: full, content: content}
	return &Sim{
		frame:    frame,
		root:     &simNode{rect: full, pane: p},
		selected: p.id,
		nextID:   2,
	}
}

func (s *Sim) Frame() layout.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame
}

// SetFrame resizes the surface. Only a lone pane is reflowed; split
// layouts are left for the next rebuild.
func (s *Sim) SetFrame(f layout.Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.frame = f
	if s.root.pane != nil {
		full := layout.Rect{Right: f.W, Bottom: f.H}
		s.root.rect = full
		s.root.pane.rect = full
	}
	return nil
}

func (s *Sim) Layout() (Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.root.export(), nil
}

func (s *Sim) Panes() []PaneID {
	s.mu.Lock()
	defer s.mu.Unlock()

	leaves := s.root.leaves(nil)
	out := make([]PaneID, len(leaves))
	for i, n := range leaves {
		out[i] = n.pane.id
	}
	return out
}

func (s *Sim) Selected() PaneID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

func (s *Sim) Select(p PaneID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n, _ := s.root.find(p, nil); n == nil {
		return fmt.Errorf("select pane %d: %w", p, ErrStructural)
	}
	s.selected = p
	return nil
}

// Split divides a pane in place. With a parent split along the same
// axis the new pane joins it as a sibling, so repeated same-direction
// splits build one flat split rather than a nested chain.
func (s *Sim) Split(p PaneID, axis layout.Axis, size int) (PaneID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	node, parent := s.root.find(p, nil)
	if node == nil {
		return 0, fmt.Errorf("split pane %d: %w", p, ErrStructural)
	}
	span := node.rect.Size(axis)
	if span < 2 {
		return 0, fmt.Errorf("split pane %d: %d-cell span too small: %w", p, span, ErrStructural)
	}
	if size < 1 {
		size = span / 2
	}
	if size > span-1 {
		size = span - 1
	}

	near, far := cut(node.rect, axis, size)
	node.rect = near
	node.pane.rect = near

	fresh := &simPane{id: s.nextID, rect: far, content: node.pane.content, view: node.pane.view}
	s.nextID++
	leaf := &simNode{rect: far, pane: fresh}

	if parent != nil && parent.axis == axis {
		for i, c := range parent.children {
			if c == node {
				parent.children = append(parent.children[:i+1], append([]*simNode{leaf}, parent.children[i+1:]...)...)
				break
			}
		}
	} else {
		moved := &simNode{rect: near, pane: node.pane}
		node.pane = nil
		node.axis = axis
		node.rect = joinRect(near, far)
		node.children = []*simNode{moved, leaf}
	}
	return fresh.id, nil
}

// Solo deletes every pane but one; the survivor fills the frame.
func (s *Sim) Solo(p PaneID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	node, _ := s.root.find(p, nil)
	if node == nil {
		return fmt.Errorf("solo pane %d: %w", p, ErrStructural)
	}
	full := layout.Rect{Right: s.frame.W, Bottom: s.frame.H}
	node.pane.rect = full
	s.root = &simNode{rect: full, pane: node.pane}
	s.selected = p
	return nil
}

func (s *Sim) Content(p PaneID) (layout.ContentRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, _ := s.root.find(p, nil)
	if n == nil {
		return layout.ContentRef{}, fmt.Errorf("content of pane %d: %w", p, ErrStructural)
	}
	return n.pane.content, nil
}

func (s *Sim) Attach(p PaneID, h Handle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, _ := s.root.find(p, nil)
	if n == nil {
		return fmt.Errorf("attach to pane %d: %w", p, ErrStructural)
	}
	if h == nil {
		return fmt.Errorf("attach to pane %d: nil handle: %w", p, ErrStructural)
	}
	n.pane.content = h.Ref()
	return nil
}

func (s *Sim) View(p PaneID) (layout.ViewState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, _ := s.root.find(p, nil)
	if n == nil {
		return layout.ViewState{}, fmt.Errorf("view of pane %d: %w", p, ErrStructural)
	}
	return n.pane.view, nil
}

func (s *Sim) SetView(p PaneID, v layout.ViewState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, _ := s.root.find(p, nil)
	if n == nil {
		return fmt.Errorf("set view of pane %d: %w", p, ErrStructural)
	}
	n.pane.view = v
	return nil
}

func (s *Sim) ScrollTarget(p PaneID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, _ := s.root.find(p, nil)
	if n == nil {
		return false, fmt.Errorf("scroll target of pane %d: %w", p, ErrStructural)
	}
	return n.pane.scroll, nil
}

func (s *Sim) SetScrollTarget(p PaneID, on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, _ := s.root.find(p, nil)
	if n == nil {
		return fmt.Errorf("set scroll target of pane %d: %w", p, ErrStructural)
	}
	n.pane.scroll = on
	return nil
}

func (s *Sim) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// SetBusy flips the redisplay flag. Tests and the demo use it to
// exercise the busy refusal path.
func (s *Sim) SetBusy(busy bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = busy
}

// Render draws the surface as an ASCII frame: one box per pane, the
// content name inside, a star on the selected pane.
func (s *Sim) Render() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, h := s.frame.W, s.frame.H
	if w < 1 || h < 1 {
		return ""
	}
	grid := make([][]rune, h)
	for y := range grid {
		grid[y] = make([]rune, w)
		for x := range grid[y] {
			grid[y][x] = ' '
		}
	}

	for _, n := range s.root.leaves(nil) {
		p := n.pane
		r := clip(p.rect, w, h)
		if r.W() < 2 || r.H() < 1 {
			continue
		}
		for x := r.Left; x < r.Right; x++ {
			grid[r.Top][x] = '-'
			grid[r.Bottom-1][x] = '-'
		}
		for y := r.Top; y < r.Bottom; y++ {
			grid[y][r.Left] = '|'
			grid[y][r.Right-1] = '|'
		}
		grid[r.Top][r.Left] = '+'
		grid[r.Top][r.Right-1] = '+'
		grid[r.Bottom-1][r.Left] = '+'
		grid[r.Bottom-1][r.Right-1] = '+'

		if r.H() < 3 || r.W() < 4 {
			continue
		}
		label := p.content.Name
		if label == "" {
			label = p.content.Path
		}
		if p.id == s.selected {
			label = "*" + label
		}
		for i, ch := range label {
			x := r.Left + 1 + i
			if x >= r.Right-1 {
				break
			}
			grid[r.Top+1][x] = ch
		}
	}

	var b strings.Builder
	for _, row := range grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

func (n *simNode) find(p PaneID, parent *simNode) (*simNode, *simNode) {
	if n.pane != nil {
		if n.pane.id == p {
			return n, parent
		}
		return nil, nil
	}
	for _, c := range n.children {
		if found, fp := c.find(p, n); found != nil {
			return found, fp
		}
	}
	return nil, nil
}

func (n *simNode) leaves(acc []*simNode) []*simNode {
	if n.pane != nil {
		return append(acc, n)
	}
	for _, c := range n.children {
		acc = c.leaves(acc)
	}
	return acc
}

func (n *simNode) export() Node {
	if n.pane != nil {
		return Node{Bounds: n.pane.rect, Pane: n.pane.id}
	}
	out := Node{Bounds: n.rect, Axis: n.axis, Children: make([]Node, len(n.children))}
	for i, c := range n.children {
		out.Children[i] = c.export()
	}
	return out
}

func cut(r layout.Rect, axis layout.Axis, size int) (layout.Rect, layout.Rect) {
	if axis == layout.Horizontal {
		mid := r.Left + size
		return layout.Rect{Left: r.Left, Top: r.Top, Right: mid, Bottom: r.Bottom},
			layout.Rect{Left: mid, Top: r.Top, Right: r.Right, Bottom: r.Bottom}
	}
	mid := r.Top + size
	return layout.Rect{Left: r.Left, Top: r.Top, Right: r.Right, Bottom: mid},
		layout.Rect{Left: r.Left, Top: mid, Right: r.Right, Bottom: r.Bottom}
}

func joinRect(a, b layout.Rect) layout.Rect {
	return layout.Rect{
		Left:   min(a.Left, b.Left),
		Top:    min(a.Top, b.Top),
		Right:  max(a.Right, b.Right),
		Bottom: max(a.Bottom, b.Bottom),
	}
}

func clip(r layout.Rect, w, h int) layout.Rect {
	if r.Left < 0 {
		r.Left = 0
	}
	if r.Top < 0 {
		r.Top = 0
	}
	if r.Right > w {
		r.Right = w
	}
	if r.Bottom > h {
		r.Bottom = h
	}
	return r
}

// SimHandle is the sim's trivial content handle.
type SimHandle struct {
	ref layout.ContentRef
}

func (h SimHandle) Ref() layout.ContentRef { return h.ref }

// SimResolver resolves every descriptor except those marked missing.
// Tests use it to exercise the substitution path.
type SimResolver struct {
	mu      sync.Mutex
	missing map[layout.ContentRef]struct{}
}

func NewSimResolver() *SimResolver {
	return &SimResolver{missing: make(map[layout.ContentRef]struct{})}
}

// MarkMissing makes a descriptor unresolvable.
func (r *SimResolver) MarkMissing(ref layout.ContentRef) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.missing[ref] = struct{}{}
}

// MarkAvailable undoes MarkMissing.
func (r *SimResolver) MarkAvailable(ref layout.ContentRef) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.missing, ref)
}

func (r *SimResolver) Resolve(_ context.Context, ref layout.ContentRef) (Handle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ref.IsZero() {
		return nil, false
	}
	if _, miss := r.missing[ref]; miss {
		return nil, false
	}
	return SimHandle{ref: ref}, true
}

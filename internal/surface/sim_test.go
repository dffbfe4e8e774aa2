package surface

import (
	"errors"
	"strings"
	"testing"

	"github.com/paneworks/workgrid/internal/domain/layout"
)

func newSim() *Sim {
	return NewSim(layout.Frame{W: 80, H: 24}, layout.ContentRef{Name: "scratch"})
}

func TestSimInitialState(t *testing.T) {
	s := newSim()

	panes := s.Panes()
	if len(panes) != 1 {
		t.Fatalf("Panes() = %v, want one pane", panes)
	}
	if s.Selected() != panes[0] {
		t.Error("the lone pane should be selected")
	}
	node, err := s.Layout()
	if err != nil || !node.IsLeaf() {
		t.Fatalf("Layout() = %+v, %v, want a leaf", node, err)
	}
	want := layout.Rect{Right: 80, Bottom: 24}
	if node.Bounds != want {
		t.Errorf("bounds = %v, want %v", node.Bounds, want)
	}
}

func TestSimSplitHorizontal(t *testing.T) {
	s := newSim()
	fresh, err := s.Split(1, layout.Horizontal, 40)
	if err != nil {
		t.Fatalf("Split error = %v", err)
	}

	panes := s.Panes()
	if len(panes) != 2 || panes[0] != 1 || panes[1] != fresh {
		t.Fatalf("Panes() = %v, want [1 %d]", panes, fresh)
	}
	node, _ := s.Layout()
	if node.IsLeaf() || node.Axis != layout.Horizontal || len(node.Children) != 2 {
		t.Fatalf("Layout() = %+v, want horizontal split of two", node)
	}
	if got := node.Children[0].Bounds; got != (layout.Rect{Right: 40, Bottom: 24}) {
		t.Errorf("first child bounds = %v", got)
	}
	if got := node.Children[1].Bounds; got != (layout.Rect{Left: 40, Right: 80, Bottom: 24}) {
		t.Errorf("second child bounds = %v", got)
	}
}

func TestSimSplitFlattensSameAxis(t *testing.T) {
	s := newSim()
	second, _ := s.Split(1, layout.Horizontal, 40)
	third, err := s.Split(second, layout.Horizontal, 20)
	if err != nil {
		t.Fatalf("Split error = %v", err)
	}

	node, _ := s.Layout()
	if len(node.Children) != 3 {
		t.Fatalf("same-direction split should flatten, got %d children", len(node.Children))
	}
	panes := s.Panes()
	if panes[0] != 1 || panes[1] != second || panes[2] != third {
		t.Errorf("Panes() = %v, want [1 %d %d]", panes, second, third)
	}
}

func TestSimSplitNestsAcrossAxes(t *testing.T) {
	s := newSim()
	right, _ := s.Split(1, layout.Horizontal, 40)
	below, err := s.Split(1, layout.Vertical, 12)
	if err != nil {
		t.Fatalf("Split error = %v", err)
	}

	node, _ := s.Layout()
	if node.Axis != layout.Horizontal || len(node.Children) != 2 {
		t.Fatalf("root should stay a two-child horizontal split, got %+v", node)
	}
	inner := node.Children[0]
	if inner.IsLeaf() || inner.Axis != layout.Vertical {
		t.Fatalf("left column should become a vertical split, got %+v", inner)
	}
	panes := s.Panes()
	if len(panes) != 3 || panes[0] != 1 || panes[1] != below || panes[2] != right {
		t.Errorf("Panes() = %v, want depth-first [1 %d %d]", panes, below, right)
	}
}

func TestSimSplitTooSmall(t *testing.T) {
	s := NewSim(layout.Frame{W: 1, H: 24}, layout.ContentRef{Name: "thin"})
	if _, err := s.Split(1, layout.Horizontal, 0); !errors.Is(err, ErrStructural) {
		t.Errorf("splitting a 1-cell span error = %v, want ErrStructural", err)
	}
}

func TestSimSolo(t *testing.T) {
	s := newSim()
	second, _ := s.Split(1, layout.Horizontal, 40)
	s.Split(second, layout.Vertical, 12)

	if err := s.Solo(second); err != nil {
		t.Fatalf("Solo error = %v", err)
	}
	panes := s.Panes()
	if len(panes) != 1 || panes[0] != second {
		t.Fatalf("Panes() = %v, want only pane %d", panes, second)
	}
	if s.Selected() != second {
		t.Error("survivor should be selected")
	}
	node, _ := s.Layout()
	if node.Bounds != (layout.Rect{Right: 80, Bottom: 24}) {
		t.Errorf("survivor bounds = %v, want full frame", node.Bounds)
	}
}

func TestSimUnknownPane(t *testing.T) {
	s := newSim()
	if err := s.Select(99); !errors.Is(err, ErrStructural) {
		t.Errorf("Select(99) error = %v, want ErrStructural", err)
	}
	if _, err := s.Content(99); !errors.Is(err, ErrStructural) {
		t.Errorf("Content(99) error = %v, want ErrStructural", err)
	}
	if err := s.Solo(99); !errors.Is(err, ErrStructural) {
		t.Errorf("Solo(99) error = %v, want ErrStructural", err)
	}
}

func TestSimAttach(t *testing.T) {
	s := newSim()
	ref := layout.ContentRef{Path: "/notes/today.md"}
	if err := s.Attach(1, SimHandle{ref: ref}); err != nil {
		t.Fatalf("Attach error = %v", err)
	}
	got, _ := s.Content(1)
	if got != ref {
		t.Errorf("Content(1) = %v, want %v", got, ref)
	}
	if err := s.Attach(1, nil); !errors.Is(err, ErrStructural) {
		t.Errorf("nil handle error = %v, want ErrStructural", err)
	}
}

func TestSimViewAndScrollTarget(t *testing.T) {
	s := newSim()
	view := layout.ViewState{Start: 120, Point: 140, AtEnd: true}
	if err := s.SetView(1, view); err != nil {
		t.Fatalf("SetView error = %v", err)
	}
	if got, _ := s.View(1); got != view {
		t.Errorf("View(1) = %v, want %v", got, view)
	}

	if err := s.SetScrollTarget(1, true); err != nil {
		t.Fatalf("SetScrollTarget error = %v", err)
	}
	if on, _ := s.ScrollTarget(1); !on {
		t.Error("scroll target flag should stick")
	}
}

func TestSimSplitCopiesContent(t *testing.T) {
	s := newSim()
	ref := layout.ContentRef{Name: "shared"}
	s.Attach(1, SimHandle{ref: ref})

	second, _ := s.Split(1, layout.Vertical, 12)
	got, _ := s.Content(second)
	if got != ref {
		t.Errorf("new pane content = %v, want the split pane's %v", got, ref)
	}
}

func TestSimRender(t *testing.T) {
	s := newSim()
	second, _ := s.Split(1, layout.Horizontal, 40)
	s.Attach(second, SimHandle{ref: layout.ContentRef{Name: "right"}})

	out := s.Render()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 24 {
		t.Fatalf("rendered %d lines, want 24", len(lines))
	}
	if !strings.Contains(out, "*scratch") {
		t.Error("selected pane label should carry a star")
	}
	if !strings.Contains(out, "right") {
		t.Error("render should label the second pane")
	}
	if !strings.Contains(lines[0], "+") || !strings.Contains(lines[23], "+") {
		t.Error("render should draw box corners on the frame edges")
	}
}

package layout

import (
	"testing"
)

func pane(l, t, r, b int) *Pane {
	return NewPane(Rect{Left: l, Top: t, Right: r, Bottom: b}, ContentRef{})
}

func namedPane(l, t, r, b int, name string) *Pane {
	return NewPane(Rect{Left: l, Top: t, Right: r, Bottom: b}, ContentRef{Name: name})
}

func hsplit(l, t, r, b int, children ...Tree) *Split {
	return NewSplit(Horizontal, Rect{Left: l, Top: t, Right: r, Bottom: b}, children...)
}

func vsplit(l, t, r, b int, children ...Tree) *Split {
	return NewSplit(Vertical, Rect{Left: l, Top: t, Right: r, Bottom: b}, children...)
}

func TestRectAccessors(t *testing.T) {
	r := Rect{Left: 2, Top: 3, Right: 10, Bottom: 7}

	if r.W() != 8 || r.H() != 4 {
		t.Errorf("W/H = %d/%d, want 8/4", r.W(), r.H())
	}
	if r.Size(Horizontal) != 8 || r.Size(Vertical) != 4 {
		t.Errorf("Size = %d/%d, want 8/4", r.Size(Horizontal), r.Size(Vertical))
	}
	if r.Near(Horizontal) != 2 || r.Far(Horizontal) != 10 {
		t.Errorf("horizontal span = [%d,%d), want [2,10)", r.Near(Horizontal), r.Far(Horizontal))
	}
	if r.Near(Vertical) != 3 || r.Far(Vertical) != 7 {
		t.Errorf("vertical span = [%d,%d), want [3,7)", r.Near(Vertical), r.Far(Vertical))
	}
	if r.Empty() {
		t.Error("rect with area reported empty")
	}
	if !(Rect{Left: 5, Top: 0, Right: 5, Bottom: 4}).Empty() {
		t.Error("zero-width rect not reported empty")
	}
}

func TestParseAxis(t *testing.T) {
	for _, a := range []Axis{Horizontal, Vertical} {
		parsed, err := ParseAxis(a.String())
		if err != nil {
			t.Fatalf("ParseAxis(%q) failed: %v", a.String(), err)
		}
		if parsed != a {
			t.Errorf("round trip of %v gave %v", a, parsed)
		}
	}
	if _, err := ParseAxis("diagonal"); err == nil {
		t.Error("ParseAxis should reject unknown names")
	}
}

func TestPanesStableOrder(t *testing.T) {
	root := hsplit(0, 0, 80, 24,
		namedPane(0, 0, 40, 24, "a"),
		vsplit(40, 0, 80, 24,
			namedPane(40, 0, 80, 12, "b"),
			namedPane(40, 12, 80, 24, "c"),
		),
	)

	got := Panes(root)
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("Panes returned %d leaves, want %d", len(got), len(want))
	}
	for i, p := range got {
		if p.Content.Name != want[i] {
			t.Errorf("pane %d = %q, want %q", i, p.Content.Name, want[i])
		}
	}
	if CountPanes(root) != 3 {
		t.Errorf("CountPanes = %d, want 3", CountPanes(root))
	}
	if FirstPane(root).Content.Name != "a" {
		t.Errorf("FirstPane = %q, want a", FirstPane(root).Content.Name)
	}
	if LastPane(root).Content.Name != "c" {
		t.Errorf("LastPane = %q, want c", LastPane(root).Content.Name)
	}
}

func TestStructEqualIgnoresContent(t *testing.T) {
	a := hsplit(0, 0, 80, 24, namedPane(0, 0, 40, 24, "a"), namedPane(40, 0, 80, 24, "b"))
	b := hsplit(0, 0, 80, 24, namedPane(0, 0, 40, 24, "x"), namedPane(40, 0, 80, 24, "y"))

	if !StructEqual(a, b) {
		t.Error("trees with identical geometry should be structurally equal")
	}
	if ContentEqual(a, b) {
		t.Error("trees with differing content should not be content-equal")
	}
}

func TestStructEqualDiffers(t *testing.T) {
	base := hsplit(0, 0, 80, 24, pane(0, 0, 40, 24), pane(40, 0, 80, 24))

	tests := []struct {
		name  string
		other Tree
	}{
		{"axis", vsplit(0, 0, 80, 24, pane(0, 0, 80, 12), pane(0, 12, 80, 24))},
		{"edges", hsplit(0, 0, 80, 24, pane(0, 0, 30, 24), pane(30, 0, 80, 24))},
		{"child count", hsplit(0, 0, 80, 24, pane(0, 0, 20, 24), pane(20, 0, 50, 24), pane(50, 0, 80, 24))},
		{"leaf vs split", pane(0, 0, 80, 24)},
	}

	for _, tt := range tests {
		if StructEqual(base, tt.other) {
			t.Errorf("%s: trees should differ", tt.name)
		}
	}
	if !StructEqual(base, CloneTree(base)) {
		t.Error("clone should be structurally equal to original")
	}
}

func TestCloneTreeIsDeep(t *testing.T) {
	root := hsplit(0, 0, 80, 24, namedPane(0, 0, 40, 24, "a"), namedPane(40, 0, 80, 24, "b"))
	clone := CloneTree(root)

	Panes(clone)[0].Content.Name = "changed"
	if Panes(root)[0].Content.Name != "a" {
		t.Error("mutating a clone leaked into the original")
	}
}

func TestSelectedIndex(t *testing.T) {
	root := hsplit(0, 0, 80, 24, pane(0, 0, 40, 24), pane(40, 0, 80, 24))
	if SelectedIndex(root) != -1 {
		t.Errorf("SelectedIndex with no flag = %d, want -1", SelectedIndex(root))
	}

	Panes(root)[1].Selected = true
	if SelectedIndex(root) != 1 {
		t.Errorf("SelectedIndex = %d, want 1", SelectedIndex(root))
	}
}

func TestMinified(t *testing.T) {
	root := hsplit(0, 0, 80, 24,
		namedPane(0, 0, 40, 24, "a"),
		namedPane(40, 0, 80, 24, "b"),
	)

	m := Minified(root, Min{W: 2, H: 1})
	if m.Content.Name != "b" {
		t.Errorf("Minified should carry the last leaf's content, got %q", m.Content.Name)
	}
	want := Rect{Left: 40, Top: 0, Right: 42, Bottom: 1}
	if m.Rect != want {
		t.Errorf("Minified rect = %s, want %s", m.Rect, want)
	}
}

func TestValidate(t *testing.T) {
	valid := hsplit(0, 0, 80, 24,
		pane(0, 0, 40, 24),
		vsplit(40, 0, 80, 24, pane(40, 0, 80, 10), pane(40, 10, 80, 24)),
	)
	if err := Validate(valid); err != nil {
		t.Fatalf("valid tree rejected: %v", err)
	}

	tests := []struct {
		name string
		tree Tree
	}{
		{"gap", hsplit(0, 0, 80, 24, pane(0, 0, 30, 24), pane(40, 0, 80, 24))},
		{"overlap", hsplit(0, 0, 80, 24, pane(0, 0, 50, 24), pane(40, 0, 80, 24))},
		{"short of far bound", hsplit(0, 0, 80, 24, pane(0, 0, 40, 24), pane(40, 0, 70, 24))},
		{"cross-axis mismatch", hsplit(0, 0, 80, 24, pane(0, 0, 40, 20), pane(40, 0, 80, 24))},
		{"single child", hsplit(0, 0, 80, 24, pane(0, 0, 80, 24))},
		{"empty pane", pane(10, 10, 10, 20)},
	}

	for _, tt := range tests {
		if err := Validate(tt.tree); err == nil {
			t.Errorf("%s: Validate should fail", tt.name)
		}
	}
}

func TestSnapshotCloneAndEqual(t *testing.T) {
	frame := Frame{W: 80, H: 24}
	root := hsplit(0, 0, 80, 24, namedPane(0, 0, 40, 24, "a"), namedPane(40, 0, 80, 24, "b"))
	snap := NewSnapshot(frame, root, 1)

	clone := snap.Clone()
	if !snap.Equal(clone) {
		t.Fatal("clone should equal original")
	}

	// View state changes alone do not make snapshots differ.
	Panes(clone.Root)[0].View.Start = 100
	if !snap.Equal(clone) {
		t.Error("view state should be excluded from snapshot equality")
	}

	Panes(clone.Root)[0].Content.Name = "other"
	if snap.Equal(clone) {
		t.Error("content change should make snapshots differ")
	}

	other := snap.Clone()
	other.SelectedIdx = 0
	if snap.Equal(other) {
		t.Error("selection change should make snapshots differ")
	}
}

func TestBlankSnapshot(t *testing.T) {
	snap := Blank(Frame{W: 80, H: 24}, ContentRef{Name: "scratch"})

	if err := snap.Validate(); err != nil {
		t.Fatalf("blank snapshot invalid: %v", err)
	}
	if CountPanes(snap.Root) != 1 {
		t.Errorf("blank snapshot has %d panes, want 1", CountPanes(snap.Root))
	}
	if snap.SelectedPane().Content.Name != "scratch" {
		t.Errorf("blank pane content = %q, want scratch", snap.SelectedPane().Content.Name)
	}
	if snap.Root.Bounds() != (Rect{Right: 80, Bottom: 24}) {
		t.Errorf("blank root = %s, want full frame", snap.Root.Bounds())
	}
}

func TestSelectedPaneClamps(t *testing.T) {
	snap := NewSnapshot(Frame{W: 80, H: 24},
		hsplit(0, 0, 80, 24, namedPane(0, 0, 40, 24, "a"), namedPane(40, 0, 80, 24, "b")), 9)

	if got := snap.SelectedPane().Content.Name; got != "b" {
		t.Errorf("out-of-range selection should clamp to last pane, got %q", got)
	}

	snap.SelectedIdx = -3
	if got := snap.SelectedPane().Content.Name; got != "a" {
		t.Errorf("negative selection should clamp to first pane, got %q", got)
	}
}

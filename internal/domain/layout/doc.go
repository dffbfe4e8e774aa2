/*
Package layout implements the window-tree model: the recursive pane/split
structure a workgroup snapshots, plus the normalization and scaling passes
that keep trees geometrically valid.

# Components

  - Tree: sealed interface over *Pane (leaf) and *Split (interior node)
  - Pane: edges, content descriptor, view state, selection flags
  - Split: axis plus ordered children partitioning the span
  - Snapshot: frame geometry + tree + selected-pane index
  - Normalize: repair pass enforcing the edge-partition invariant
  - ScaleTree / Snapshot.ScaleTo: proportional resize with truncation

# Invariants

Every split's children contiguously and exactly partition its span along
the split axis: no gaps, no overlaps, the last child reaches the far
bound, and cross-axis edges equal the split's. A split with fewer than two
children is invalid; Normalize collapses it. Structural equality
(StructEqual) compares axes and edges only and is the morph engine's
termination test.

# Example Usage

	left := layout.NewPane(layout.Rect{Right: 40, Bottom: 24}, layout.ContentRef{Path: "a.go"})
	right := layout.NewPane(layout.Rect{Left: 40, Right: 80, Bottom: 24}, layout.ContentRef{Path: "b.go"})
	root := layout.NewSplit(layout.Horizontal, layout.Rect{Right: 80, Bottom: 24}, left, right)
	snap := layout.NewSnapshot(layout.Frame{W: 80, H: 24}, root, 0)

	smaller := snap.ScaleTo(40, 12, layout.DefaultMin)
*/
package layout

package layout

// Normalize derives a structurally valid tree from t, whose edges may be
// stale or out of range after scaling or a partial morph step. For every
// split, children are re-anchored left-to-right (or top-to-bottom) at the
// split's near bound keeping each child's own span length; a child whose
// recomputed start would leave less than the minimum pane extent before
// the far bound is dropped, as is a child whose span has shrunk below one
// cell; the last kept child is stretched to the far bound; cross-axis
// edges are reset to the split's. A split left with a single child is
// replaced by that child, and one left with none collapses to a pane
// carrying its first leaf's content. The input is never mutated.
//
// This is the single choke point restoring validity before any tree is
// rendered or compared.
func Normalize(t Tree, min Min) Tree {
	return fit(t, t.Bounds(), min.orDefault())
}

// fit returns t re-homed to cover bounds exactly, normalized throughout.
func fit(t Tree, bounds Rect, min Min) Tree {
	switch n := t.(type) {
	case *Pane:
		p := n.clone()
		p.Rect = bounds
		return p
	case *Split:
		return fitSplit(n, bounds, min)
	}
	return nil
}

func fitSplit(s *Split, bounds Rect, min Min) Tree {
	axis := s.Axis
	limit := bounds.Far(axis) - min.Along(axis)
	pos := bounds.Near(axis)

	type placed struct {
		child Tree
		start int
		end   int
	}
	kept := make([]placed, 0, len(s.Children))
	for _, c := range s.Children {
		size := c.Size(axis)
		if size < 1 || pos > limit {
			continue
		}
		end := pos + size
		if end > bounds.Far(axis) {
			end = bounds.Far(axis)
		}
		kept = append(kept, placed{child: c, start: pos, end: end})
		pos = end
	}

	switch len(kept) {
	case 0:
		// Nothing representable within bounds: the split degrades to a
		// single pane showing its first leaf's content.
		p := &Pane{Rect: bounds}
		if first := FirstPane(s); first != nil {
			p.Content = first.Content
			p.View = first.View
			p.Selected = first.Selected
			p.ScrollTarget = first.ScrollTarget
		}
		return p
	case 1:
		return fit(kept[0].child, bounds, min)
	}

	kept[len(kept)-1].end = bounds.Far(axis)

	children := make([]Tree, len(kept))
	for i, pl := range kept {
		children[i] = fit(pl.child, bounds.withSpan(axis, pl.start, pl.end), min)
	}
	return &Split{Rect: bounds, Axis: axis, Children: children}
}

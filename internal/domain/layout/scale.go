package layout

// ScaleTree multiplies every horizontal edge by wscale and every vertical
// edge by hscale, truncating to integer cells. The result generally
// violates the partition invariant at rounding boundaries; callers
// normalize afterwards. The input is never mutated.
func ScaleTree(t Tree, wscale, hscale float64) Tree {
	switch n := t.(type) {
	case *Pane:
		p := n.clone()
		p.Rect = scaleRect(n.Rect, wscale, hscale)
		return p
	case *Split:
		children := make([]Tree, len(n.Children))
		for i, c := range n.Children {
			children[i] = ScaleTree(c, wscale, hscale)
		}
		return &Split{Rect: scaleRect(n.Rect, wscale, hscale), Axis: n.Axis, Children: children}
	}
	return nil
}

func scaleRect(r Rect, wscale, hscale float64) Rect {
	return Rect{
		Left:   int(float64(r.Left) * wscale),
		Top:    int(float64(r.Top) * hscale),
		Right:  int(float64(r.Right) * wscale),
		Bottom: int(float64(r.Bottom) * hscale),
	}
}

// ScaleTo proportionally resizes the snapshot to a w x h frame. Ratios are
// computed against the snapshot's own recorded size, each edge multiplied
// and truncated, then the tree is re-homed to exactly cover the new frame
// and normalized. On a surface too small for every pane, panes drop out
// proportionally rather than the restore failing.
func (s *Snapshot) ScaleTo(w, h int, min Min) *Snapshot {
	out := s.Clone()
	out.Frame.W = w
	out.Frame.H = h

	if s.Frame.W == w && s.Frame.H == h {
		return out
	}
	if s.Frame.W <= 0 || s.Frame.H <= 0 || w <= 0 || h <= 0 {
		return out
	}

	wscale := float64(w) / float64(s.Frame.W)
	hscale := float64(h) / float64(s.Frame.H)

	scaled := ScaleTree(s.Root, wscale, hscale)
	out.Root = fit(scaled, Rect{Right: w, Bottom: h}, min.orDefault())

	if n := CountPanes(out.Root); out.SelectedIdx >= n {
		out.SelectedIdx = n - 1
	}
	return out
}

package surface

import (
	"fmt"

	"github.com/paneworks/workgrid/internal/domain/layout"
)

// Capture records the surface's current state as a snapshot: frame,
// split structure, per-pane content and view state, and the selected
// pane's position in depth-first order.
func Capture(s Surface) (*layout.Snapshot, error) {
	node, err := s.Layout()
	if err != nil {
		return nil, fmt.Errorf("capture layout: %w", err)
	}
	tree, err := captureNode(s, node, s.Selected())
	if err != nil {
		return nil, err
	}
	return layout.NewSnapshot(s.Frame(), tree, layout.SelectedIndex(tree)), nil
}

func captureNode(s Surface, n Node, selected PaneID) (layout.Tree, error) {
	if n.IsLeaf() {
		content, err := s.Content(n.Pane)
		if err != nil {
			return nil, fmt.Errorf("capture pane %d content: %w", n.Pane, err)
		}
		view, err := s.View(n.Pane)
		if err != nil {
			return nil, fmt.Errorf("capture pane %d view: %w", n.Pane, err)
		}
		scroll, err := s.ScrollTarget(n.Pane)
		if err != nil {
			return nil, fmt.Errorf("capture pane %d scroll target: %w", n.Pane, err)
		}

		p := layout.NewPane(n.Bounds, content)
		p.View = view
		p.Selected = n.Pane == selected
		p.ScrollTarget = scroll
		return p, nil
	}

	children := make([]layout.Tree, len(n.Children))
	for i, c := range n.Children {
		child, err := captureNode(s, c, selected)
		if err != nil {
			return nil, err
		}
		children[i] = child
	}
	return layout.NewSplit(n.Axis, n.Bounds, children...), nil
}

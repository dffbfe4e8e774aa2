package surface

import (
	"context"
	"errors"

	"github.com/paneworks/workgrid/internal/domain/layout"
)

var (
	// ErrStructural reports a failed structure operation (unknown pane,
	// unsplittable pane, empty surface). Fatal for the operation in
	// progress; the surface itself stays consistent.
	ErrStructural = errors.New("surface structure operation failed")
	// ErrBusy reports a surface that is mid-redisplay and cannot be
	// reconfigured right now. Callers fail fast rather than queue.
	ErrBusy = errors.New("surface is busy")
)

// PaneID identifies a live pane. IDs are stable for the pane's lifetime
// and never reused within one surface.
type PaneID int

// Handle is the host's reference to materialized content a pane can
// display.
type Handle interface {
	Ref() layout.ContentRef
}

// Resolver materializes content descriptors. A false return means the
// content is unavailable; resolution must not block beyond the context.
type Resolver interface {
	Resolve(ctx context.Context, ref layout.ContentRef) (Handle, bool)
}

// Node describes the live split structure of a surface. A leaf carries
// the pane id; an interior node carries the axis and its children in
// near-to-far order.
type Node struct {
	Bounds   layout.Rect
	Axis     layout.Axis
	Children []Node
	Pane     PaneID
}

// IsLeaf reports whether the node is a single pane.
func (n Node) IsLeaf() bool { return len(n.Children) == 0 }

// Surface is the live display a session drives. Implementations bridge
// to the host's real pane system; Sim is the in-memory reference.
//
// Structure operations return ErrStructural-wrapped errors on unknown
// panes. Surfaces are not required to be safe for concurrent use; the
// owning session serializes access.
type Surface interface {
	// Frame returns the surface geometry.
	Frame() layout.Frame
	// SetFrame resizes the surface. Existing panes are not reflowed;
	// callers apply a layout afterwards.
	SetFrame(f layout.Frame) error
	// Layout returns the live split structure.
	Layout() (Node, error)
	// Panes enumerates pane ids in stable depth-first order.
	Panes() []PaneID
	// Selected returns the selected pane.
	Selected() PaneID
	// Select makes a pane the selected one.
	Select(p PaneID) error
	// Split divides a pane along an axis. The existing pane keeps size
	// cells at the near side and the new pane, returned, takes the rest;
	// size < 1 splits evenly.
	Split(p PaneID, axis layout.Axis, size int) (PaneID, error)
	// Solo deletes every pane except the given one, which grows to the
	// full frame.
	Solo(p PaneID) error
	// Content returns the descriptor of what a pane displays.
	Content(p PaneID) (layout.ContentRef, error)
	// Attach points a pane at resolved content.
	Attach(p PaneID, h Handle) error
	// View returns a pane's view state.
	View(p PaneID) (layout.ViewState, error)
	// SetView applies view state to a pane.
	SetView(p PaneID, v layout.ViewState) error
	// ScrollTarget reports whether a pane is the dedicated scroll anchor.
	ScrollTarget(p PaneID) (bool, error)
	// SetScrollTarget marks or unmarks a pane as the scroll anchor.
	SetScrollTarget(p PaneID, on bool) error
	// Busy reports whether the surface is mid-redisplay and must not be
	// reconfigured.
	Busy() bool
}

package surface

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/paneworks/workgrid/internal/domain/layout"
	"github.com/paneworks/workgrid/internal/infrastructure/logging"
	"github.com/paneworks/workgrid/internal/infrastructure/monitoring"
)

// Restorer applies snapshots to a surface: frame, split structure,
// content, view state, selection. Content that no longer resolves is
// substituted with the fallback descriptor rather than failing the
// restore.
type Restorer struct {
	resolver Resolver
	fallback layout.ContentRef
	min      layout.Min
	log      *logging.Logger
	metrics  *monitoring.Metrics
}

// NewRestorer builds a restorer. The fallback descriptor is what panes
// show when their recorded content is unavailable; logger may be nil.
func NewRestorer(resolver Resolver, fallback layout.ContentRef, min layout.Min, log *logging.Logger, metrics *monitoring.Metrics) *Restorer {
	return &Restorer{
		resolver: resolver,
		fallback: fallback,
		min:      min,
		log:      logging.OrNop(log).Named("restore"),
		metrics:  metrics,
	}
}

// Apply restores a snapshot in full: frame, structure, content, view
// state, selection and scroll anchors. The snapshot's tree is normalized
// first, so stale snapshots restore to a valid layout.
//
// A busy surface refuses with ErrBusy; nothing is deferred.
func (r *Restorer) Apply(ctx context.Context, s Surface, snap *layout.Snapshot) (err error) {
	if s.Busy() {
		return fmt.Errorf("apply snapshot: %w", ErrBusy)
	}
	if snap == nil || snap.Root == nil {
		return fmt.Errorf("apply snapshot: no tree: %w", ErrStructural)
	}

	start := time.Now()
	defer func() { r.metrics.RecordRestore(time.Since(start), err) }()

	if err = s.SetFrame(snap.Frame); err != nil {
		return fmt.Errorf("apply frame: %w", err)
	}
	root := layout.Normalize(snap.Root, r.min)
	if err = r.rebuild(ctx, s, root, true); err != nil {
		return err
	}

	panes := s.Panes()
	if len(panes) == 0 {
		return fmt.Errorf("no panes after rebuild: %w", ErrStructural)
	}
	idx := snap.SelectedIdx
	if idx < 0 {
		idx = 0
	}
	if idx >= len(panes) {
		idx = len(panes) - 1
	}
	if err = s.Select(panes[idx]); err != nil {
		return fmt.Errorf("select pane: %w", err)
	}

	// Pane ids are fresh after the rebuild; re-assert scroll anchors by
	// position.
	for i, leaf := range layout.Panes(root) {
		if leaf.ScrollTarget && i < len(panes) {
			if serr := s.SetScrollTarget(panes[i], true); serr != nil {
				r.log.Debug("scroll anchor not applied", zap.Int("pane", int(panes[i])), zap.Error(serr))
			}
		}
	}
	return nil
}

// ApplyTree rebuilds structure and content only, skipping view state and
// selection. Morph runs use it once per intermediate tree.
func (r *Restorer) ApplyTree(ctx context.Context, s Surface, t layout.Tree) error {
	if s.Busy() {
		return fmt.Errorf("apply tree: %w", ErrBusy)
	}
	return r.rebuild(ctx, s, t, false)
}

// rebuild collapses the surface to one pane and splits it back out to
// match the tree.
func (r *Restorer) rebuild(ctx context.Context, s Surface, root layout.Tree, withView bool) error {
	panes := s.Panes()
	if len(panes) == 0 {
		return fmt.Errorf("surface has no panes: %w", ErrStructural)
	}
	if err := s.Solo(panes[0]); err != nil {
		return fmt.Errorf("solo: %w", err)
	}
	return r.applyNode(ctx, s, s.Panes()[0], root, withView)
}

func (r *Restorer) applyNode(ctx context.Context, s Surface, p PaneID, t layout.Tree, withView bool) error {
	switch n := t.(type) {
	case *layout.Pane:
		r.attach(ctx, s, p, n.Content)
		if withView {
			if verr := s.SetView(p, n.View); verr != nil {
				r.log.Debug("view state not applied", zap.Int("pane", int(p)), zap.Error(verr))
			}
		}
		return nil
	case *layout.Split:
		cur := p
		for i := 0; i < len(n.Children)-1; i++ {
			child := n.Children[i]
			next, err := s.Split(cur, n.Axis, child.Size(n.Axis))
			if err != nil {
				return fmt.Errorf("split pane %d: %w", cur, err)
			}
			if err := r.applyNode(ctx, s, cur, child, withView); err != nil {
				return err
			}
			cur = next
		}
		return r.applyNode(ctx, s, cur, n.Children[len(n.Children)-1], withView)
	}
	return nil
}

// attach resolves a descriptor and points the pane at it. Unresolvable
// content falls back to the default descriptor; if even that misses, the
// pane keeps whatever it shows. Never an error.
func (r *Restorer) attach(ctx context.Context, s Surface, p PaneID, ref layout.ContentRef) {
	if r.resolver == nil {
		return
	}
	if ref.IsZero() {
		ref = r.fallback
	}
	if h, ok := r.resolver.Resolve(ctx, ref); ok {
		if aerr := s.Attach(p, h); aerr != nil {
			r.log.Debug("content not attached", zap.Int("pane", int(p)), zap.Error(aerr))
		}
		return
	}

	r.metrics.IncContentSubstitutions()
	r.log.Debug("content unavailable, substituting fallback",
		zap.String("path", ref.Path),
		zap.String("name", ref.Name))
	if h, ok := r.resolver.Resolve(ctx, r.fallback); ok {
		if aerr := s.Attach(p, h); aerr != nil {
			r.log.Debug("fallback not attached", zap.Int("pane", int(p)), zap.Error(aerr))
		}
	}
}

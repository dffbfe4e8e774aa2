package morph

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/paneworks/workgrid/internal/domain/layout"
	"github.com/paneworks/workgrid/internal/infrastructure/logging"
	"github.com/paneworks/workgrid/internal/infrastructure/monitoring"
)

// ErrTimeout reports a morph that did not converge within the watchdog
// bound. Soft: the last valid intermediate tree remains applied and the
// caller falls back to restoring the target directly.
var ErrTimeout = errors.New("morph watchdog exceeded")

const (
	// DefaultMaxSteps bounds a morph run when the config leaves it unset.
	DefaultMaxSteps = 200
	// emergeStep is the tight step used while placeholder panes grow out
	// of an existing one.
	emergeStep = 2
)

// Config tunes the morph animation.
type Config struct {
	// HStep and VStep are the most cells an edge moves per iteration
	// along each axis.
	HStep int
	VStep int
	// MaxSteps is the watchdog bound.
	MaxSteps int
	// RateHz paces iterations; 0 runs unpaced.
	RateHz int
	// Min is the placeholder pane extent.
	Min layout.Min
}

// DefaultConfig returns the standard animation profile.
func DefaultConfig() Config {
	return Config{HStep: 9, VStep: 3, MaxSteps: DefaultMaxSteps, Min: layout.DefaultMin}
}

// CoarseConfig returns the profile for low-resolution surfaces, where
// large steps read as jumps.
func CoarseConfig() Config {
	return Config{HStep: 3, VStep: 1, MaxSteps: DefaultMaxSteps, Min: layout.DefaultMin}
}

// Engine interpolates between two pane trees step-wise, driving the
// caller's apply callback once per intermediate tree.
type Engine struct {
	steps   stepper
	max     int
	limiter *rate.Limiter
	log     *logging.Logger
	metrics *monitoring.Metrics
}

// New builds an engine. Out-of-range config values fall back to defaults;
// logger may be nil.
func New(cfg Config, log *logging.Logger, metrics *monitoring.Metrics) *Engine {
	if cfg.HStep < 1 {
		cfg.HStep = DefaultConfig().HStep
	}
	if cfg.VStep < 1 {
		cfg.VStep = DefaultConfig().VStep
	}
	if cfg.MaxSteps < 1 {
		cfg.MaxSteps = DefaultMaxSteps
	}

	e := &Engine{
		steps:   stepper{h: cfg.HStep, v: cfg.VStep, min: cfg.Min},
		max:     cfg.MaxSteps,
		log:     logging.OrNop(log).Named("morph"),
		metrics: metrics,
	}
	if cfg.RateHz > 0 {
		e.limiter = rate.NewLimiter(rate.Limit(cfg.RateHz), 1)
	}
	return e
}

// Run interpolates from one tree toward another, calling apply with every
// normalized intermediate. It returns the last tree applied (the source
// if none were) and terminates when an intermediate is structurally equal
// to the target, the context is canceled, apply fails, or the watchdog
// bound is hit, in which case the error wraps ErrTimeout.
//
// A run between structurally equal trees applies nothing.
func (e *Engine) Run(ctx context.Context, from, to layout.Tree, apply func(layout.Tree) error) (layout.Tree, error) {
	start := time.Now()
	cur := layout.Normalize(from, e.steps.min)
	target := layout.Normalize(to, e.steps.min)

	steps := 0
	for !layout.StructEqual(cur, target) {
		if steps >= e.max {
			e.metrics.RecordMorph("timeout", steps, time.Since(start))
			e.log.Warn("morph watchdog exceeded",
				zap.Int("steps", steps),
				zap.Int("source_panes", layout.CountPanes(from)),
				zap.Int("target_panes", layout.CountPanes(target)))
			return cur, fmt.Errorf("no convergence after %d steps: %w", steps, ErrTimeout)
		}
		if err := ctx.Err(); err != nil {
			e.metrics.RecordMorph("canceled", steps, time.Since(start))
			return cur, err
		}

		next := layout.Normalize(e.steps.step(cur, target), e.steps.min)
		if err := apply(next); err != nil {
			e.metrics.RecordMorph("error", steps, time.Since(start))
			return cur, fmt.Errorf("apply morph step %d: %w", steps, err)
		}
		cur = next
		steps++

		if e.limiter != nil {
			if err := e.limiter.Wait(ctx); err != nil {
				e.metrics.RecordMorph("canceled", steps, time.Since(start))
				return cur, err
			}
		}
	}

	e.metrics.RecordMorph("completed", steps, time.Since(start))
	e.log.Debug("morph completed", zap.Int("steps", steps), zap.Duration("took", time.Since(start)))
	return cur, nil
}

// stepper produces one interpolation step. Separate from Engine so the
// emerge path can run with its own tighter step sizes.
type stepper struct {
	h   int
	v   int
	min layout.Min
}

// step dispatches on the source/target node pair.
func (st stepper) step(src, dst layout.Tree) layout.Tree {
	switch s := src.(type) {
	case *layout.Pane:
		switch d := dst.(type) {
		case *layout.Pane:
			return st.paneToPane(s, d)
		case *layout.Split:
			return st.paneToSplit(s, d)
		}
	case *layout.Split:
		switch d := dst.(type) {
		case *layout.Pane:
			return st.splitToPane(s, d)
		case *layout.Split:
			return st.splitToSplit(s, d)
		}
	}
	return layout.CloneTree(dst)
}

// paneToPane steps edges; the source keeps its content until the geometry
// arrives exactly, then the pane becomes the target.
func (st stepper) paneToPane(s, d *layout.Pane) layout.Tree {
	r := st.rect(s.Rect, d.Rect)
	if r == d.Rect {
		out := *d
		return &out
	}
	out := *s
	out.Rect = r
	return &out
}

// paneToSplit grows a split out of a single pane: a placeholder split
// whose edges step toward the target's, with the target's last two
// children emerging at minimum size.
func (st stepper) paneToSplit(s *layout.Pane, d *layout.Split) layout.Tree {
	kids := d.Children
	if len(kids) > 2 {
		kids = kids[len(kids)-2:]
	}

	emerge := stepper{h: emergeStep, v: emergeStep, min: st.min}
	children := make([]layout.Tree, 0, len(kids))
	for _, c := range kids {
		children = append(children, emerge.step(layout.Minified(c, st.min), c))
	}
	return &layout.Split{Rect: st.rect(s.Rect, d.Rect), Axis: d.Axis, Children: children}
}

// splitToPane collapses a split into one pane: the first child grows
// toward the target leaf while the rest shrink toward zero extent at the
// far bound and get absorbed by normalization.
func (st stepper) splitToPane(s *layout.Split, d *layout.Pane) layout.Tree {
	first := st.step(s.Children[0], d)
	if p, ok := first.(*layout.Pane); ok && p.Rect == d.Rect {
		out := *d
		return &out
	}

	children := make([]layout.Tree, 0, len(s.Children))
	children = append(children, first)
	for _, c := range s.Children[1:] {
		children = append(children, st.shrinkAway(c, s.Axis, s.Rect))
	}
	return &layout.Split{Rect: st.rect(s.Rect, d.Rect), Axis: s.Axis, Children: children}
}

// splitToSplit reconciles axis and child count, then recurses pairwise.
func (st stepper) splitToSplit(s, d *layout.Split) layout.Tree {
	if s.Axis != d.Axis {
		// Axis mismatches are not interpolated structurally: substitute a
		// minimum-size rendering of the target and let later iterations
		// grow it in place.
		children := make([]layout.Tree, len(d.Children))
		for i, c := range d.Children {
			children[i] = layout.Minified(c, st.min)
		}
		return &layout.Split{Rect: st.rect(s.Rect, d.Rect), Axis: d.Axis, Children: children}
	}

	srcKids, dstKids := st.matchLists(s, d)
	children := make([]layout.Tree, len(srcKids))
	for i := range srcKids {
		children[i] = st.step(srcKids[i], dstKids[i])
	}
	return &layout.Split{Rect: st.rect(s.Rect, d.Rect), Axis: d.Axis, Children: children}
}

// matchLists equalizes child-list lengths for pairwise recursion: a short
// source gains minified placeholders for the target's unmatched leading
// children; a long source folds its excess trailing children into one
// synthetic sub-split.
func (st stepper) matchLists(s, d *layout.Split) ([]layout.Tree, []layout.Tree) {
	src, dst := s.Children, d.Children
	switch {
	case len(src) < len(dst):
		missing := len(dst) - len(src)
		padded := make([]layout.Tree, 0, len(dst))
		for i := 0; i < missing; i++ {
			padded = append(padded, layout.Minified(dst[i], st.min))
		}
		return append(padded, src...), dst
	case len(src) > len(dst):
		keep := len(dst) - 1
		folded := make([]layout.Tree, 0, len(dst))
		folded = append(folded, src[:keep]...)
		rest := src[keep:]
		folded = append(folded, &layout.Split{Rect: boundingRect(rest), Axis: s.Axis, Children: rest})
		return folded, dst
	}
	return src, dst
}

// shrinkAway steps a subtree toward zero extent at the containing split's
// far bound.
func (st stepper) shrinkAway(t layout.Tree, axis layout.Axis, bounds layout.Rect) layout.Tree {
	b := t.Bounds()
	far := bounds.Far(axis)
	gone := b
	if axis == layout.Vertical {
		gone.Top, gone.Bottom = far, far
	} else {
		gone.Left, gone.Right = far, far
	}

	switch n := t.(type) {
	case *layout.Pane:
		out := *n
		out.Rect = st.rect(b, gone)
		return &out
	case *layout.Split:
		clone := layout.CloneTree(n).(*layout.Split)
		clone.Rect = st.rect(b, gone)
		return clone
	}
	return t
}

// rect steps each coordinate toward the target, snapping when within step
// distance.
func (st stepper) rect(from, to layout.Rect) layout.Rect {
	return layout.Rect{
		Left:   stepTo(from.Left, to.Left, st.h),
		Top:    stepTo(from.Top, to.Top, st.v),
		Right:  stepTo(from.Right, to.Right, st.h),
		Bottom: stepTo(from.Bottom, to.Bottom, st.v),
	}
}

func stepTo(n, m, step int) int {
	switch {
	case n == m:
		return n
	case n < m:
		return min(n+step, m)
	default:
		return max(n-step, m)
	}
}

func boundingRect(ts []layout.Tree) layout.Rect {
	r := ts[0].Bounds()
	for _, t := range ts[1:] {
		b := t.Bounds()
		r.Left = min(r.Left, b.Left)
		r.Top = min(r.Top, b.Top)
		r.Right = max(r.Right, b.Right)
		r.Bottom = max(r.Bottom, b.Bottom)
	}
	return r
}

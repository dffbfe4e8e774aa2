// Package morph animates transitions between pane trees.
//
// The engine repeatedly produces an intermediate tree one step closer to
// the target, normalizes it, and hands it to the caller to render, until
// the intermediate is structurally equal to the target. Structure is
// reconciled before geometry: splits grow out of panes with their last
// two children emerging at minimum size, panes absorb splits through the
// first child, axis flips substitute a minimum-size rendering of the
// target, and mismatched child counts are padded with placeholders or
// folded into a synthetic sub-split.
//
// Runs are paced with a rate limiter and bounded by a watchdog; a run
// that fails to converge stops with ErrTimeout and leaves the last valid
// intermediate applied.
//
// Example Usage:
//
//	engine := morph.New(morph.DefaultConfig(), logger, metrics)
//	final, err := engine.Run(ctx, current, target, func(t layout.Tree) error {
//		return surf.ApplyTree(t)
//	})
//	if errors.Is(err, morph.ErrTimeout) {
//		// fall back to restoring the target directly
//	}
package morph

// Package surface bridges snapshots to a live pane display.
//
// Surface is the interface a host implements: frame geometry, split
// structure, pane enumeration in stable depth-first order, selection,
// content handles and view state. Capture reads a surface into a
// layout.Snapshot; Restorer writes one back by collapsing to a single
// pane and splitting it back out.
//
// Components:
//   - Surface: the host display contract
//   - Capture: surface state to snapshot
//   - Restorer: snapshot to surface, with content fallback substitution
//   - Resolver: materializes content descriptors into handles
//   - Sim: in-memory implementation for tests and the demo
//
// Content that no longer resolves never fails a restore: the pane shows
// the fallback descriptor instead and the substitution is counted. A
// busy surface refuses reconfiguration with ErrBusy; callers retry
// explicitly rather than queue behind redisplay.
//
// Example Usage:
//
//	surf := surface.NewSim(layout.Frame{W: 80, H: 24}, scratch)
//	snap, err := surface.Capture(surf)
//	restorer := surface.NewRestorer(resolver, scratch, layout.DefaultMin, logger, metrics)
//	err = restorer.Apply(ctx, surf, snap)
package surface

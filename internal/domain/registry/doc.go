// Package registry maintains the ordered collection of workgroups.
//
// A workgroup is a named layout snapshot pair (saved checkpoint plus
// working state) with its associated content descriptors and named glob
// filters. The registry owns display and cycle order, enforces name
// uniqueness, and mediates all mutation so sessions can share it safely.
//
// Components:
//   - Workgroup: snapshot pair, content associations, filters, dirty flag
//   - ContentFilter: named doublestar pattern set over content paths
//   - Registry: ordered, lock-guarded collection with cyclic navigation
//
// Features:
//   - Positional operations: insert, move, wrap-around offset, swap
//   - Cyclic next/previous for workgroup switching
//   - Replace-in-place that keeps the former display position
//   - Deep-copy lookups; failed operations mutate nothing
//   - Dirty tracking for the persistence layer
//
// Example Usage:
//
//	reg := registry.New(logger, metrics)
//	wg := registry.NewWorkgroup("mail", snapshot)
//	if err := reg.Add(wg); err != nil { ... }
//	next, err := reg.CyclicNext(wg.ID)
//	err = reg.Update(wg.ID, func(w *registry.Workgroup) error {
//		w.CommitWorking(captured)
//		return nil
//	})
package registry

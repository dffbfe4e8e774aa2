// Package session ties surfaces to the shared workgroup registry.
//
// A session is the per-surface view of the registry: which workgroup is
// current and previous on that surface, and a bounded undo history per
// workgroup. Workgroups themselves are global; two sessions can show the
// same workgroup with different histories and switch independently.
//
// Components:
//   - Manager: attaches surfaces, owns sessions, deletes workgroups everywhere
//   - Session: switch, commit, undo/redo, revert for one surface
//
// Switch Process:
//  1. Refuse while the surface is busy
//  2. Capture and commit the outgoing layout
//  3. Scale the target's working snapshot to the live frame
//  4. Morph the surface toward it (optional, best effort)
//  5. Restore the target exactly and rotate current/previous
//
// Commits arriving from host notifications while the session itself is
// restoring are dropped, so restores never feed back into history.
//
// Example Usage:
//
//	mgr := session.NewManager(reg, resolver, session.DefaultConfig(), log, metrics)
//	sess := mgr.Attach(surf)
//	wg, err := sess.Create(ctx, "editing")
//	err = sess.Switch(ctx, "mail")
//	err = sess.SwitchBack(ctx)
package session

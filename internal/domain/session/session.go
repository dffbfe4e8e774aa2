package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/paneworks/workgrid/internal/domain/history"
	"github.com/paneworks/workgrid/internal/domain/layout"
	"github.com/paneworks/workgrid/internal/domain/morph"
	"github.com/paneworks/workgrid/internal/domain/registry"
	"github.com/paneworks/workgrid/internal/infrastructure/logging"
	"github.com/paneworks/workgrid/internal/infrastructure/monitoring"
	"github.com/paneworks/workgrid/internal/shared/id"
	"github.com/paneworks/workgrid/internal/surface"
)

var (
	// ErrNoCurrent reports an operation that needs a current workgroup
	// in this session.
	ErrNoCurrent = errors.New("session has no current workgroup")
	// ErrNoPrevious reports a back-switch with nothing to go back to.
	ErrNoPrevious = errors.New("session has no previous workgroup")
)

// Session binds one surface to the shared workgroup registry. It owns
// the per-session state the registry deliberately does not: which
// workgroup is current and previous here, and this session's undo
// history per workgroup.
//
// Operations are serialized by a per-session mutex, so no two morphs or
// restores ever run concurrently against one surface.
type Session struct {
	id       id.SessionID
	token    uuid.UUID
	surf     surface.Surface
	restorer *surface.Restorer
	engine   *morph.Engine
	animate  bool
	reg      *registry.Registry
	min      layout.Min
	histMax  int
	fallback layout.ContentRef

	mu         sync.Mutex
	histories  map[id.WorkgroupID]*history.Log
	currentID  id.WorkgroupID
	previousID id.WorkgroupID
	restoring  atomic.Bool

	log     *logging.Logger
	metrics *monitoring.Metrics
}

// ID returns the session's typed id.
func (s *Session) ID() id.SessionID { return s.id }

// Token returns the session's opaque instance token.
func (s *Session) Token() uuid.UUID { return s.token }

// Surface returns the bound surface.
func (s *Session) Surface() surface.Surface { return s.surf }

// Current returns a copy of the session's current workgroup.
func (s *Session) Current() (*registry.Workgroup, bool) {
	s.mu.Lock()
	cur := s.currentID
	s.mu.Unlock()
	if cur.IsZero() {
		return nil, false
	}
	return s.reg.ByID(cur)
}

// Previous returns a copy of the session's previous workgroup.
func (s *Session) Previous() (*registry.Workgroup, bool) {
	s.mu.Lock()
	prev := s.previousID
	s.mu.Unlock()
	if prev.IsZero() {
		return nil, false
	}
	return s.reg.ByID(prev)
}

// Create captures the surface as a new workgroup, registers it and makes
// it current. The captured snapshot becomes both base and working state.
func (s *Session) Create(ctx context.Context, name string) (*registry.Workgroup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := surface.Capture(s.surf)
	if err != nil {
		return nil, fmt.Errorf("create %q: %w", name, err)
	}
	wg := registry.NewWorkgroup(name, snap)
	if err := s.reg.Add(wg); err != nil {
		return nil, fmt.Errorf("create: %w", err)
	}
	s.metrics.IncSnapshotsCaptured()

	s.rotateLocked(wg.ID)
	s.histLocked(wg.ID, snap)
	s.associateLocked(wg.ID, snap)
	s.log.Info("workgroup created",
		zap.String("workgroup", name),
		zap.Int("panes", layout.CountPanes(snap.Root)))
	return wg.Clone(), nil
}

// CreateBlank registers a workgroup with a single empty pane at the
// surface's frame, displays it and makes it current. The outgoing
// layout is committed first so nothing is lost.
func (s *Session) CreateBlank(ctx context.Context, name string) (*registry.Workgroup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.surf.Busy() {
		return nil, fmt.Errorf("create blank %q: %w", name, surface.ErrBusy)
	}
	blank := layout.Blank(s.surf.Frame(), s.fallback)
	wg := registry.NewWorkgroup(name, blank)
	if err := s.reg.Add(wg); err != nil {
		return nil, fmt.Errorf("create blank: %w", err)
	}

	if !s.currentID.IsZero() {
		if live, err := surface.Capture(s.surf); err == nil {
			s.commitSnapLocked(live)
		}
	}
	if err := s.restoreLocked(ctx, blank); err != nil {
		return nil, err
	}
	s.rotateLocked(wg.ID)
	s.histLocked(wg.ID, blank)
	s.log.Info("blank workgroup created", zap.String("workgroup", name))
	return wg.Clone(), nil
}

// Switch restores the named workgroup's working snapshot onto the
// surface, animating from the current layout. The outgoing layout is
// committed first; current and previous rotate afterwards. Content
// displayed by the incoming layout is auto-associated.
func (s *Session) Switch(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	target, ok := s.reg.ByName(name)
	if !ok {
		return fmt.Errorf("switch to %q: %w", name, registry.ErrNotFound)
	}
	return s.switchLocked(ctx, target)
}

// SwitchID is Switch by workgroup id.
func (s *Session) SwitchID(ctx context.Context, wgID id.WorkgroupID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	target, ok := s.reg.ByID(wgID)
	if !ok {
		return fmt.Errorf("switch to %s: %w", wgID, registry.ErrNotFound)
	}
	return s.switchLocked(ctx, target)
}

// SwitchNext cycles to the workgroup after the current one in display
// order.
func (s *Session) SwitchNext(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	target, err := s.reg.CyclicNext(s.currentID)
	if err != nil {
		return fmt.Errorf("switch next: %w", err)
	}
	return s.switchLocked(ctx, target)
}

// SwitchPrev cycles to the workgroup before the current one.
func (s *Session) SwitchPrev(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	target, err := s.reg.CyclicPrev(s.currentID)
	if err != nil {
		return fmt.Errorf("switch prev: %w", err)
	}
	return s.switchLocked(ctx, target)
}

// SwitchBack toggles to the session's previous workgroup.
func (s *Session) SwitchBack(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.previousID.IsZero() {
		return fmt.Errorf("switch back: %w", ErrNoPrevious)
	}
	target, ok := s.reg.ByID(s.previousID)
	if !ok {
		return fmt.Errorf("switch back: %w", registry.ErrNotFound)
	}
	return s.switchLocked(ctx, target)
}

func (s *Session) switchLocked(ctx context.Context, target *registry.Workgroup) error {
	if s.surf.Busy() {
		return fmt.Errorf("switch to %q: %w", target.Name, surface.ErrBusy)
	}

	live, err := surface.Capture(s.surf)
	if err != nil {
		return fmt.Errorf("capture before switch: %w", err)
	}
	if !s.currentID.IsZero() {
		s.commitSnapLocked(live)
	}

	frame := s.surf.Frame()
	working := target.Working.ScaleTo(frame.W, frame.H, s.min)

	if s.animate {
		s.restoring.Store(true)
		_, merr := s.engine.Run(ctx, live.Root, working.Root, func(t layout.Tree) error {
			return s.restorer.ApplyTree(ctx, s.surf, t)
		})
		s.restoring.Store(false)
		switch {
		case merr == nil:
		case errors.Is(merr, morph.ErrTimeout):
			// Soft: fall back to restoring the target directly.
			s.log.Warn("morph did not converge, restoring directly",
				zap.String("workgroup", target.Name))
		case errors.Is(merr, context.Canceled), errors.Is(merr, context.DeadlineExceeded):
			return fmt.Errorf("switch to %q: %w", target.Name, merr)
		default:
			return fmt.Errorf("switch to %q: morph: %w", target.Name, merr)
		}
	}

	if err := s.restoreLocked(ctx, working); err != nil {
		return fmt.Errorf("switch to %q: %w", target.Name, err)
	}

	s.rotateLocked(target.ID)
	s.histLocked(target.ID, target.Working)
	s.associateLocked(target.ID, working)
	s.metrics.IncSwitches()
	s.log.Info("switched workgroup",
		zap.String("workgroup", target.Name),
		zap.Int("panes", layout.CountPanes(working.Root)))
	return nil
}

// Commit captures the surface into the current workgroup's working state
// and undo history. Hosts call it from their layout-change notification;
// it is a no-op while the session itself is restoring, and when nothing
// is current.
func (s *Session) Commit(ctx context.Context) error {
	if s.restoring.Load() {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.currentID.IsZero() {
		return nil
	}
	snap, err := surface.Capture(s.surf)
	if err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.commitSnapLocked(snap)
	return nil
}

// Checkpoint is Commit under its other name: hosts call it right before
// a destructive layout change so the pre-change state is undoable.
func (s *Session) Checkpoint(ctx context.Context) error {
	return s.Commit(ctx)
}

// Undo restores an older snapshot of the current workgroup from this
// session's history. It reports false when the history was already fully
// undone (or empty); restoring never pushes new entries.
func (s *Session) Undo(ctx context.Context, n int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.currentID.IsZero() {
		return false, fmt.Errorf("undo: %w", ErrNoCurrent)
	}
	if s.surf.Busy() {
		return false, fmt.Errorf("undo: %w", surface.ErrBusy)
	}

	snap, moved := s.histLocked(s.currentID, nil).Undo(n)
	if !moved || snap == nil {
		return false, nil
	}
	if err := s.restoreScaledLocked(ctx, snap); err != nil {
		return false, fmt.Errorf("undo: %w", err)
	}
	s.metrics.IncUndo()
	return true, nil
}

// Redo restores a newer snapshot, reversing Undo. It reports false when
// already fully redone.
func (s *Session) Redo(ctx context.Context, n int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.currentID.IsZero() {
		return false, fmt.Errorf("redo: %w", ErrNoCurrent)
	}
	if s.surf.Busy() {
		return false, fmt.Errorf("redo: %w", surface.ErrBusy)
	}

	snap, moved := s.histLocked(s.currentID, nil).Redo(n)
	if !moved || snap == nil {
		return false, nil
	}
	if err := s.restoreScaledLocked(ctx, snap); err != nil {
		return false, fmt.Errorf("redo: %w", err)
	}
	s.metrics.IncRedo()
	return true, nil
}

// Revert discards the current workgroup's working state in favor of its
// saved checkpoint and restores it. The pre-revert layout is committed
// first, so the revert itself is undoable.
func (s *Session) Revert(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.currentID.IsZero() {
		return fmt.Errorf("revert: %w", ErrNoCurrent)
	}
	if s.surf.Busy() {
		return fmt.Errorf("revert: %w", surface.ErrBusy)
	}

	if live, err := surface.Capture(s.surf); err == nil {
		s.commitSnapLocked(live)
	}

	var base *layout.Snapshot
	err := s.reg.Update(s.currentID, func(w *registry.Workgroup) error {
		base = w.RevertWorking()
		return nil
	})
	if err != nil {
		return fmt.Errorf("revert: %w", err)
	}
	if err := s.restoreScaledLocked(ctx, base); err != nil {
		return fmt.Errorf("revert: %w", err)
	}
	s.histLocked(s.currentID, nil).Push(base)
	s.log.Info("workgroup reverted to base", zap.String("id", string(s.currentID)))
	return nil
}

// SaveBase captures the surface and promotes it to the current
// workgroup's saved checkpoint.
func (s *Session) SaveBase(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.currentID.IsZero() {
		return fmt.Errorf("save base: %w", ErrNoCurrent)
	}
	snap, err := surface.Capture(s.surf)
	if err != nil {
		return fmt.Errorf("save base: %w", err)
	}
	err = s.reg.Update(s.currentID, func(w *registry.Workgroup) error {
		w.CommitWorking(snap)
		w.SaveBase()
		return nil
	})
	if err != nil {
		return fmt.Errorf("save base: %w", err)
	}
	s.histLocked(s.currentID, nil).Push(snap)
	s.metrics.IncSnapshotsCaptured()
	return nil
}

// Associate binds content to the current workgroup.
func (s *Session) Associate(ref layout.ContentRef, assoc registry.Assoc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.currentID.IsZero() {
		return fmt.Errorf("associate: %w", ErrNoCurrent)
	}
	return s.reg.Update(s.currentID, func(w *registry.Workgroup) error {
		w.Associate(ref, assoc)
		return nil
	})
}

// Dissociate unbinds content from the current workgroup.
func (s *Session) Dissociate(ref layout.ContentRef) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.currentID.IsZero() {
		return fmt.Errorf("dissociate: %w", ErrNoCurrent)
	}
	return s.reg.Update(s.currentID, func(w *registry.Workgroup) error {
		w.Dissociate(ref)
		return nil
	})
}

// commitSnapLocked writes a captured snapshot through to the registry
// and this session's history. A workgroup deleted underneath us is not
// an error; the commit just has nowhere to go.
func (s *Session) commitSnapLocked(snap *layout.Snapshot) {
	err := s.reg.Update(s.currentID, func(w *registry.Workgroup) error {
		w.CommitWorking(snap)
		return nil
	})
	if err != nil {
		s.log.Debug("commit skipped", zap.String("id", string(s.currentID)), zap.Error(err))
		return
	}
	s.histLocked(s.currentID, nil).Push(snap)
	s.metrics.IncSnapshotsCaptured()
}

// histLocked returns the history for a workgroup, creating it seeded
// with the given snapshot on first use.
func (s *Session) histLocked(wgID id.WorkgroupID, seed *layout.Snapshot) *history.Log {
	if l, ok := s.histories[wgID]; ok {
		return l
	}
	l := history.NewLog(s.histMax)
	if seed != nil {
		l.Push(seed)
	}
	s.histories[wgID] = l
	return l
}

// rotateLocked makes a workgroup current, remembering the old current as
// previous. Re-selecting the current workgroup leaves previous alone.
func (s *Session) rotateLocked(wgID id.WorkgroupID) {
	if s.currentID != wgID && !s.currentID.IsZero() {
		s.previousID = s.currentID
	}
	s.currentID = wgID
}

// associateLocked auto-associates every content descriptor the snapshot
// displays, skipping the fallback.
func (s *Session) associateLocked(wgID id.WorkgroupID, snap *layout.Snapshot) {
	_ = s.reg.Update(wgID, func(w *registry.Workgroup) error {
		for _, p := range layout.Panes(snap.Root) {
			if p.Content.IsZero() || p.Content == s.fallback {
				continue
			}
			w.Associate(p.Content, registry.AssocAuto)
		}
		return nil
	})
}

// restoreLocked applies a snapshot with commit suppression on.
func (s *Session) restoreLocked(ctx context.Context, snap *layout.Snapshot) error {
	s.restoring.Store(true)
	defer s.restoring.Store(false)
	return s.restorer.Apply(ctx, s.surf, snap)
}

// restoreScaledLocked fits a stored snapshot to the live frame before
// applying it.
func (s *Session) restoreScaledLocked(ctx context.Context, snap *layout.Snapshot) error {
	frame := s.surf.Frame()
	return s.restoreLocked(ctx, snap.ScaleTo(frame.W, frame.H, s.min))
}

// purge drops every reference this session holds to a deleted
// workgroup. The replacement becomes current when the deleted one was.
func (s *Session) purge(gone, next id.WorkgroupID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.histories, gone)
	if s.previousID == gone {
		s.previousID = ""
	}
	if s.currentID == gone {
		s.currentID = next
	}
}

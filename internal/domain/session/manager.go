package session

import (
	"context"
	"fmt"
	"sync"

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

// Config carries the tunables every session attached to a manager
// shares. Zero values are replaced with defaults by NewManager.
type Config struct {
	// Min is the smallest pane geometry restores and morphs preserve.
	Min layout.Min
	// HistoryMax bounds each per-workgroup undo log.
	HistoryMax int
	// Morph configures the animation engine.
	Morph morph.Config
	// Animate enables morphing on switches; when false, switches
	// restore the target directly.
	Animate bool
	// Fallback is the content shown in panes whose recorded content
	// cannot be resolved.
	Fallback layout.ContentRef
}

// DefaultConfig returns the manager defaults used when the host does
// not supply its own.
func DefaultConfig() Config {
	return Config{
		Min:        layout.DefaultMin,
		HistoryMax: history.DefaultMaxLength,
		Morph:      morph.DefaultConfig(),
		Animate:    true,
	}
}

// Manager owns every attached session and the workgroup registry they
// share. Surfaces attach and detach as they come and go; workgroups
// outlive them all.
type Manager struct {
	mu       sync.RWMutex
	sessions map[id.SessionID]*Session

	reg      *registry.Registry
	resolver surface.Resolver
	cfg      Config

	log     *logging.Logger
	metrics *monitoring.Metrics
}

// NewManager creates a session manager over a registry. The resolver
// maps recorded content descriptors back to live content on restore and
// may be nil when nothing can be resolved.
func NewManager(reg *registry.Registry, resolver surface.Resolver, cfg Config, log *logging.Logger, metrics *monitoring.Metrics) *Manager {
	if cfg.Min.W < 1 || cfg.Min.H < 1 {
		cfg.Min = layout.DefaultMin
	}
	if cfg.HistoryMax < 1 {
		cfg.HistoryMax = history.DefaultMaxLength
	}
	return &Manager{
		sessions: make(map[id.SessionID]*Session),
		reg:      reg,
		resolver: resolver,
		cfg:      cfg,
		log:      logging.OrNop(log).Named("session"),
		metrics:  metrics,
	}
}

// Registry returns the shared workgroup registry.
func (m *Manager) Registry() *registry.Registry { return m.reg }

// Attach binds a surface and returns its new session. Each session gets
// its own restorer and morph engine so concurrent surfaces never share
// animation pacing.
func (m *Manager) Attach(surf surface.Surface) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	cfg := m.cfg.Morph
	cfg.Min = m.cfg.Min
	sessionID := id.NewSessionID()
	s := &Session{
		id:        sessionID,
		token:     uuid.New(),
		surf:      surf,
		restorer:  surface.NewRestorer(m.resolver, m.cfg.Fallback, m.cfg.Min, m.log, m.metrics),
		engine:    morph.New(cfg, m.log, m.metrics),
		animate:   m.cfg.Animate,
		reg:       m.reg,
		min:       m.cfg.Min,
		histMax:   m.cfg.HistoryMax,
		fallback:  m.cfg.Fallback,
		histories: make(map[id.WorkgroupID]*history.Log),
		log:       m.log.With(zap.String("session", string(sessionID))),
		metrics:   m.metrics,
	}
	m.sessions[s.id] = s
	m.metrics.SetSessionsActive(len(m.sessions))
	m.log.Info("session attached", zap.String("id", string(s.id)))
	return s
}

// Detach forgets a session. The surface itself is untouched and the
// session's workgroups remain registered.
func (m *Manager) Detach(sessionID id.SessionID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[sessionID]; !ok {
		return
	}
	delete(m.sessions, sessionID)
	m.metrics.SetSessionsActive(len(m.sessions))
	m.log.Info("session detached", zap.String("id", string(sessionID)))
}

// Session returns an attached session by id.
func (m *Manager) Session(sessionID id.SessionID) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[sessionID]
	return s, ok
}

// Sessions returns every attached session.
func (m *Manager) Sessions() []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	return out
}

// Delete removes a workgroup everywhere: from the registry, and from
// every session's current, previous and history. Sessions whose current
// workgroup is deleted move to its cyclic successor in display order;
// their surfaces keep showing whatever they show until the next switch.
func (m *Manager) Delete(ctx context.Context, wgID id.WorkgroupID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Resolve the successor before removal shifts the order.
	var next id.WorkgroupID
	if succ, err := m.reg.CyclicNext(wgID); err == nil && succ.ID != wgID {
		next = succ.ID
	}
	if _, err := m.reg.Remove(wgID); err != nil {
		return fmt.Errorf("delete workgroup: %w", err)
	}
	for _, s := range m.sessions {
		s.purge(wgID, next)
	}
	m.log.Info("workgroup deleted",
		zap.String("id", string(wgID)),
		zap.String("successor", string(next)))
	return nil
}

// DeleteByName is Delete by display name.
func (m *Manager) DeleteByName(ctx context.Context, name string) error {
	wg, ok := m.reg.ByName(name)
	if !ok {
		return fmt.Errorf("delete workgroup %q: %w", name, registry.ErrNotFound)
	}
	return m.Delete(ctx, wg.ID)
}

// Stats reports the manager's current shape.
func (m *Manager) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Stats{
		Sessions:   len(m.sessions),
		Workgroups: m.reg.Len(),
	}
}

// Stats is a point-in-time summary of manager state.
type Stats struct {
	Sessions   int `json:"sessions"`
	Workgroups int `json:"workgroups"`
}

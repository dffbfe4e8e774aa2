package registry

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/paneworks/workgrid/internal/infrastructure/logging"
	"github.com/paneworks/workgrid/internal/infrastructure/monitoring"
	"github.com/paneworks/workgrid/internal/shared/id"
)

var (
	// ErrNotFound reports an id or name with no registered workgroup.
	ErrNotFound = errors.New("workgroup not found")
	// ErrDuplicate reports a name collision on add or rename.
	ErrDuplicate = errors.New("workgroup name already registered")
	// ErrEmpty reports an operation that needs at least one workgroup.
	ErrEmpty = errors.New("registry is empty")
)

// Registry is the ordered collection of workgroups. Order is display and
// cycle order. The registry is shared between sessions and safe for
// concurrent use; a failed operation mutates nothing.
//
// Lookups return deep copies. Mutation goes through Update (or the
// dedicated operations), which run under the write lock.
type Registry struct {
	mu      sync.RWMutex
	groups  []*Workgroup
	log     *logging.Logger
	metrics *monitoring.Metrics
}

// New creates an empty registry. Logger may be nil.
func New(log *logging.Logger, metrics *monitoring.Metrics) *Registry {
	return &Registry{
		log:     logging.OrNop(log).Named("registry"),
		metrics: metrics,
	}
}

// Add appends a workgroup. Names are unique: an existing workgroup with
// the same name fails with ErrDuplicate.
func (r *Registry) Add(wg *Workgroup) error {
	return r.Insert(wg, -1)
}

// Insert places a workgroup at a position, clamped to the list; a
// negative position appends.
func (r *Registry) Insert(wg *Workgroup, pos int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if i := r.indexOfNameLocked(wg.Name); i >= 0 {
		return fmt.Errorf("add %q: %w", wg.Name, ErrDuplicate)
	}
	if pos < 0 || pos > len(r.groups) {
		pos = len(r.groups)
	}
	r.groups = append(r.groups[:pos], append([]*Workgroup{wg}, r.groups[pos:]...)...)

	r.metrics.SetRegistryWorkgroups(len(r.groups))
	r.log.Debug("workgroup added",
		zap.String("name", wg.Name),
		zap.String("id", wg.ID.String()),
		zap.Int("position", pos))
	return nil
}

// Put adds a workgroup, replacing any existing one with the same name.
// The replacement inherits the former workgroup's position. The returned
// workgroup is the displaced one, nil when the name was free.
func (r *Registry) Put(wg *Workgroup) *Workgroup {
	r.mu.Lock()
	defer r.mu.Unlock()

	if i := r.indexOfNameLocked(wg.Name); i >= 0 {
		old := r.groups[i]
		r.groups[i] = wg
		r.log.Debug("workgroup replaced", zap.String("name", wg.Name), zap.String("id", wg.ID.String()))
		return old
	}
	r.groups = append(r.groups, wg)
	r.metrics.SetRegistryWorkgroups(len(r.groups))
	r.log.Debug("workgroup added", zap.String("name", wg.Name), zap.String("id", wg.ID.String()))
	return nil
}

// Remove deletes a workgroup and returns it.
func (r *Registry) Remove(wgID id.WorkgroupID) (*Workgroup, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOfLocked(wgID)
	if i < 0 {
		return nil, fmt.Errorf("remove %s: %w", wgID, ErrNotFound)
	}
	wg := r.groups[i]
	r.groups = append(r.groups[:i], r.groups[i+1:]...)

	r.metrics.SetRegistryWorkgroups(len(r.groups))
	r.log.Debug("workgroup removed", zap.String("name", wg.Name), zap.String("id", wg.ID.String()))
	return wg, nil
}

// Rename changes a workgroup's name, enforcing uniqueness.
func (r *Registry) Rename(wgID id.WorkgroupID, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOfLocked(wgID)
	if i < 0 {
		return fmt.Errorf("rename %s: %w", wgID, ErrNotFound)
	}
	if j := r.indexOfNameLocked(name); j >= 0 && j != i {
		return fmt.Errorf("rename to %q: %w", name, ErrDuplicate)
	}
	r.groups[i].Name = name
	r.groups[i].Dirty = true
	return nil
}

// Update runs fn against the live workgroup under the write lock. The
// callback must not call back into the registry.
func (r *Registry) Update(wgID id.WorkgroupID, fn func(*Workgroup) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOfLocked(wgID)
	if i < 0 {
		return fmt.Errorf("update %s: %w", wgID, ErrNotFound)
	}
	return fn(r.groups[i])
}

// MoveTo moves a workgroup to a position, clamped to the list.
func (r *Registry) MoveTo(wgID id.WorkgroupID, pos int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOfLocked(wgID)
	if i < 0 {
		return fmt.Errorf("move %s: %w", wgID, ErrNotFound)
	}
	if pos < 0 {
		pos = 0
	}
	if pos > len(r.groups)-1 {
		pos = len(r.groups) - 1
	}
	r.moveLocked(i, pos)
	return nil
}

// Offset shifts a workgroup's position by n, wrapping around the ends.
func (r *Registry) Offset(wgID id.WorkgroupID, n int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOfLocked(wgID)
	if i < 0 {
		return fmt.Errorf("offset %s: %w", wgID, ErrNotFound)
	}
	l := len(r.groups)
	pos := ((i+n)%l + l) % l
	r.moveLocked(i, pos)
	return nil
}

// Swap exchanges the positions of two workgroups.
func (r *Registry) Swap(a, b id.WorkgroupID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, j := r.indexOfLocked(a), r.indexOfLocked(b)
	if i < 0 {
		return fmt.Errorf("swap %s: %w", a, ErrNotFound)
	}
	if j < 0 {
		return fmt.Errorf("swap %s: %w", b, ErrNotFound)
	}
	r.groups[i], r.groups[j] = r.groups[j], r.groups[i]
	return nil
}

// ByID returns a deep copy of a workgroup.
func (r *Registry) ByID(wgID id.WorkgroupID) (*Workgroup, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexOfLocked(wgID); i >= 0 {
		return r.groups[i].Clone(), true
	}
	return nil, false
}

// ByName returns a deep copy of a workgroup.
func (r *Registry) ByName(name string) (*Workgroup, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexOfNameLocked(name); i >= 0 {
		return r.groups[i].Clone(), true
	}
	return nil, false
}

// IndexOf reports a workgroup's display position.
func (r *Registry) IndexOf(wgID id.WorkgroupID) (int, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOfLocked(wgID)
	return i, i >= 0
}

// CyclicNext returns the workgroup after the given one in display order,
// wrapping from tail to head. An unknown id yields the head, so cycling
// is always well-defined while the registry is non-empty.
func (r *Registry) CyclicNext(wgID id.WorkgroupID) (*Workgroup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.groups) == 0 {
		return nil, ErrEmpty
	}
	i := r.indexOfLocked(wgID)
	if i < 0 {
		return r.groups[0].Clone(), nil
	}
	return r.groups[(i+1)%len(r.groups)].Clone(), nil
}

// CyclicPrev returns the workgroup before the given one, wrapping from
// head to tail. An unknown id yields the tail.
func (r *Registry) CyclicPrev(wgID id.WorkgroupID) (*Workgroup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.groups) == 0 {
		return nil, ErrEmpty
	}
	i := r.indexOfLocked(wgID)
	if i < 0 {
		return r.groups[len(r.groups)-1].Clone(), nil
	}
	return r.groups[(i-1+len(r.groups))%len(r.groups)].Clone(), nil
}

// List returns deep copies of all workgroups in display order.
func (r *Registry) List() []*Workgroup {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Workgroup, len(r.groups))
	for i, wg := range r.groups {
		out[i] = wg.Clone()
	}
	return out
}

// Names returns all names in display order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.groups))
	for i, wg := range r.groups {
		out[i] = wg.Name
	}
	return out
}

// Len reports the number of registered workgroups.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.groups)
}

// AnyDirty reports whether any workgroup has unsaved changes.
func (r *Registry) AnyDirty() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, wg := range r.groups {
		if wg.Dirty {
			return true
		}
	}
	return false
}

// MarkClean clears every dirty flag, typically after a successful save.
func (r *Registry) MarkClean() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, wg := range r.groups {
		wg.Dirty = false
	}
}

// Replace swaps in a whole new collection, keeping the given order. Store
// loads use it so a failed decode never leaves the registry half-filled.
func (r *Registry) Replace(groups []*Workgroup) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.groups = groups
	r.metrics.SetRegistryWorkgroups(len(r.groups))
	r.log.Debug("registry replaced", zap.Int("workgroups", len(r.groups)))
}

func (r *Registry) indexOfLocked(wgID id.WorkgroupID) int {
	for i, wg := range r.groups {
		if wg.ID == wgID {
			return i
		}
	}
	return -1
}

func (r *Registry) indexOfNameLocked(name string) int {
	for i, wg := range r.groups {
		if wg.Name == name {
			return i
		}
	}
	return -1
}

func (r *Registry) moveLocked(from, to int) {
	if from == to {
		return
	}
	wg := r.groups[from]
	rest := append(r.groups[:from], r.groups[from+1:]...)
	r.groups = append(rest[:to], append([]*Workgroup{wg}, rest[to:]...)...)
}

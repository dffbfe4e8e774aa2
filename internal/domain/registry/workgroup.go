package registry

import (
	"github.com/bmatcuk/doublestar/v4"

	"github.com/paneworks/workgrid/internal/domain/layout"
	"github.com/paneworks/workgrid/internal/shared/id"
)

// Assoc records how a content descriptor became part of a workgroup.
type Assoc string

const (
	// AssocManual marks content the user bound explicitly. Manual
	// associations survive pruning and override auto ones.
	AssocManual Assoc = "manual"
	// AssocAuto marks content recorded because it was displayed while
	// the workgroup was current.
	AssocAuto Assoc = "auto"
)

// ContentEntry is one associated content descriptor.
type ContentEntry struct {
	Ref   layout.ContentRef
	Assoc Assoc
}

// ContentFilter is a named set of glob patterns over content paths.
// Pattern syntax follows doublestar (`**`, `{a,b}`, character classes).
type ContentFilter struct {
	Name     string
	Patterns []string
}

// Match reports whether the descriptor matches any pattern. Descriptors
// without a path are matched by name; malformed patterns never match.
func (f ContentFilter) Match(ref layout.ContentRef) bool {
	target := ref.Path
	if target == "" {
		target = ref.Name
	}
	for _, p := range f.Patterns {
		if ok, err := doublestar.Match(p, target); err == nil && ok {
			return true
		}
	}
	return false
}

// Workgroup is a named layout with its associated content. Base is the
// explicitly saved checkpoint; Working is the head of the undo history
// and what a switch restores. Dirty marks in-memory changes not yet
// written to the store.
//
// Workgroup carries no lock of its own: all mutation goes through the
// owning Registry.
type Workgroup struct {
	ID       id.WorkgroupID
	Name     string
	Base     *layout.Snapshot
	Working  *layout.Snapshot
	Contents []ContentEntry
	Filters  []ContentFilter
	Dirty    bool
}

// NewWorkgroup builds a workgroup around a captured snapshot. The id is
// drawn from the monotonic generator, so creation order is reflected in
// id order.
func NewWorkgroup(name string, snap *layout.Snapshot) *Workgroup {
	return &Workgroup{
		ID:      id.NewWorkgroupID(),
		Name:    name,
		Base:    snap.Clone(),
		Working: snap.Clone(),
		Dirty:   true,
	}
}

// Clone returns a deep copy.
func (w *Workgroup) Clone() *Workgroup {
	out := &Workgroup{
		ID:      w.ID,
		Name:    w.Name,
		Base:    w.Base.Clone(),
		Working: w.Working.Clone(),
		Dirty:   w.Dirty,
	}
	if len(w.Contents) > 0 {
		out.Contents = make([]ContentEntry, len(w.Contents))
		copy(out.Contents, w.Contents)
	}
	if len(w.Filters) > 0 {
		out.Filters = make([]ContentFilter, len(w.Filters))
		for i, f := range w.Filters {
			out.Filters[i] = ContentFilter{Name: f.Name, Patterns: append([]string(nil), f.Patterns...)}
		}
	}
	return out
}

// CommitWorking records a snapshot as the new working state.
func (w *Workgroup) CommitWorking(s *layout.Snapshot) {
	if s == nil {
		return
	}
	w.Working = s.Clone()
	w.Dirty = true
}

// SaveBase promotes the working snapshot to the saved checkpoint.
func (w *Workgroup) SaveBase() {
	w.Base = w.Working.Clone()
	w.Dirty = true
}

// RevertWorking discards the working state in favor of the checkpoint
// and returns a copy of the restored snapshot.
func (w *Workgroup) RevertWorking() *layout.Snapshot {
	w.Working = w.Base.Clone()
	w.Dirty = true
	return w.Working.Clone()
}

// Associate binds a content descriptor. A manual association upgrades an
// existing auto one; anything else already present is left alone. The
// bool reports whether the workgroup changed.
func (w *Workgroup) Associate(ref layout.ContentRef, assoc Assoc) bool {
	if ref.IsZero() {
		return false
	}
	for i, e := range w.Contents {
		if e.Ref == ref {
			if e.Assoc == AssocAuto && assoc == AssocManual {
				w.Contents[i].Assoc = AssocManual
				w.Dirty = true
				return true
			}
			return false
		}
	}
	w.Contents = append(w.Contents, ContentEntry{Ref: ref, Assoc: assoc})
	w.Dirty = true
	return true
}

// Dissociate removes a content descriptor regardless of how it was
// associated.
func (w *Workgroup) Dissociate(ref layout.ContentRef) bool {
	for i, e := range w.Contents {
		if e.Ref == ref {
			w.Contents = append(w.Contents[:i], w.Contents[i+1:]...)
			w.Dirty = true
			return true
		}
	}
	return false
}

// Associated reports whether a descriptor is bound to the workgroup.
func (w *Workgroup) Associated(ref layout.ContentRef) bool {
	for _, e := range w.Contents {
		if e.Ref == ref {
			return true
		}
	}
	return false
}

// SetFilter adds or replaces a filter by name.
func (w *Workgroup) SetFilter(f ContentFilter) {
	for i, existing := range w.Filters {
		if existing.Name == f.Name {
			w.Filters[i] = f
			w.Dirty = true
			return
		}
	}
	w.Filters = append(w.Filters, f)
	w.Dirty = true
}

// RemoveFilter drops a filter by name.
func (w *Workgroup) RemoveFilter(name string) bool {
	for i, f := range w.Filters {
		if f.Name == name {
			w.Filters = append(w.Filters[:i], w.Filters[i+1:]...)
			w.Dirty = true
			return true
		}
	}
	return false
}

// Filter looks up a filter by name.
func (w *Workgroup) Filter(name string) (ContentFilter, bool) {
	for _, f := range w.Filters {
		if f.Name == name {
			return f, true
		}
	}
	return ContentFilter{}, false
}

// FilteredContents returns the associated entries matching the named
// filter, in association order. An unknown filter matches nothing.
func (w *Workgroup) FilteredContents(filterName string) []ContentEntry {
	f, ok := w.Filter(filterName)
	if !ok {
		return nil
	}
	var out []ContentEntry
	for _, e := range w.Contents {
		if f.Match(e.Ref) {
			out = append(out, e)
		}
	}
	return out
}

package store

import (
	"fmt"
	"time"

	"github.com/paneworks/workgrid/internal/domain/layout"
	"github.com/paneworks/workgrid/internal/domain/registry"
	"github.com/paneworks/workgrid/internal/shared/id"
)

// The record types mirror the domain model as plain data so every codec
// sees the same field names and the domain types stay free to evolve.
// Trees flatten to a kind-tagged node; the axis travels as its name.

const (
	kindPane  = "pane"
	kindSplit = "split"
)

type fileRecord struct {
	Tag        string            `json:"tag" yaml:"tag" toml:"tag"`
	Version    string            `json:"version" yaml:"version" toml:"version"`
	SavedAt    time.Time         `json:"saved_at" yaml:"saved_at" toml:"saved_at"`
	Workgroups []workgroupRecord `json:"workgroups" yaml:"workgroups" toml:"workgroups"`
}

type workgroupRecord struct {
	ID       string          `json:"id" yaml:"id" toml:"id"`
	Name     string          `json:"name" yaml:"name" toml:"name"`
	Base     snapshotRecord  `json:"base" yaml:"base" toml:"base"`
	Working  snapshotRecord  `json:"working" yaml:"working" toml:"working"`
	Contents []contentRecord `json:"contents,omitempty" yaml:"contents,omitempty" toml:"contents,omitempty"`
	Filters  []filterRecord  `json:"filters,omitempty" yaml:"filters,omitempty" toml:"filters,omitempty"`
}

type contentRecord struct {
	Path  string `json:"path,omitempty" yaml:"path,omitempty" toml:"path,omitempty"`
	Name  string `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Assoc string `json:"assoc" yaml:"assoc" toml:"assoc"`
}

type filterRecord struct {
	Name     string   `json:"name" yaml:"name" toml:"name"`
	Patterns []string `json:"patterns" yaml:"patterns" toml:"patterns"`
}

type snapshotRecord struct {
	Frame    frameRecord `json:"frame" yaml:"frame" toml:"frame"`
	Selected int         `json:"selected" yaml:"selected" toml:"selected"`
	Root     *nodeRecord `json:"root" yaml:"root" toml:"root"`
}

type frameRecord struct {
	X          int              `json:"x" yaml:"x" toml:"x"`
	Y          int              `json:"y" yaml:"y" toml:"y"`
	W          int              `json:"w" yaml:"w" toml:"w"`
	H          int              `json:"h" yaml:"h" toml:"h"`
	Scrollbars scrollbarsRecord `json:"scrollbars" yaml:"scrollbars" toml:"scrollbars"`
}

type rectRecord struct {
	Left   int `json:"left" yaml:"left" toml:"left"`
	Top    int `json:"top" yaml:"top" toml:"top"`
	Right  int `json:"right" yaml:"right" toml:"right"`
	Bottom int `json:"bottom" yaml:"bottom" toml:"bottom"`
}

type scrollbarsRecord struct {
	Style string `json:"style,omitempty" yaml:"style,omitempty" toml:"style,omitempty"`
	Width int    `json:"width,omitempty" yaml:"width,omitempty" toml:"width,omitempty"`
}

type fringesRecord struct {
	Left           int  `json:"left,omitempty" yaml:"left,omitempty" toml:"left,omitempty"`
	Right          int  `json:"right,omitempty" yaml:"right,omitempty" toml:"right,omitempty"`
	OutsideMargins bool `json:"outside_margins,omitempty" yaml:"outside_margins,omitempty" toml:"outside_margins,omitempty"`
}

type marginsRecord struct {
	Left  int `json:"left,omitempty" yaml:"left,omitempty" toml:"left,omitempty"`
	Right int `json:"right,omitempty" yaml:"right,omitempty" toml:"right,omitempty"`
}

type viewRecord struct {
	Start      int              `json:"start,omitempty" yaml:"start,omitempty" toml:"start,omitempty"`
	Point      int              `json:"point,omitempty" yaml:"point,omitempty" toml:"point,omitempty"`
	Mark       int              `json:"mark,omitempty" yaml:"mark,omitempty" toml:"mark,omitempty"`
	AtEnd      bool             `json:"at_end,omitempty" yaml:"at_end,omitempty" toml:"at_end,omitempty"`
	HScroll    int              `json:"hscroll,omitempty" yaml:"hscroll,omitempty" toml:"hscroll,omitempty"`
	Scrollbars scrollbarsRecord `json:"scrollbars,omitempty" yaml:"scrollbars,omitempty" toml:"scrollbars,omitempty"`
	Fringes    fringesRecord    `json:"fringes,omitempty" yaml:"fringes,omitempty" toml:"fringes,omitempty"`
	Margins    marginsRecord    `json:"margins,omitempty" yaml:"margins,omitempty" toml:"margins,omitempty"`
}

// nodeRecord is the kind-tagged flattening of layout.Tree.
type nodeRecord struct {
	Kind string     `json:"kind" yaml:"kind" toml:"kind"`
	Rect rectRecord `json:"rect" yaml:"rect" toml:"rect"`

	Content      contentRecord `json:"content,omitempty" yaml:"content,omitempty" toml:"content,omitempty"`
	View         viewRecord    `json:"view,omitempty" yaml:"view,omitempty" toml:"view,omitempty"`
	Selected     bool          `json:"selected,omitempty" yaml:"selected,omitempty" toml:"selected,omitempty"`
	ScrollTarget bool          `json:"scroll_target,omitempty" yaml:"scroll_target,omitempty" toml:"scroll_target,omitempty"`

	Axis     string        `json:"axis,omitempty" yaml:"axis,omitempty" toml:"axis,omitempty"`
	Children []*nodeRecord `json:"children,omitempty" yaml:"children,omitempty" toml:"children,omitempty"`
}

func encodeRegistry(groups []*registry.Workgroup, at time.Time) fileRecord {
	rec := fileRecord{
		Tag:        FileTag,
		Version:    FileVersion,
		SavedAt:    at.UTC(),
		Workgroups: make([]workgroupRecord, len(groups)),
	}
	for i, wg := range groups {
		rec.Workgroups[i] = encodeWorkgroup(wg)
	}
	return rec
}

func encodeWorkgroup(wg *registry.Workgroup) workgroupRecord {
	out := workgroupRecord{
		ID:      string(wg.ID),
		Name:    wg.Name,
		Base:    encodeSnapshot(wg.Base),
		Working: encodeSnapshot(wg.Working),
	}
	for _, e := range wg.Contents {
		out.Contents = append(out.Contents, contentRecord{
			Path:  e.Ref.Path,
			Name:  e.Ref.Name,
			Assoc: string(e.Assoc),
		})
	}
	for _, f := range wg.Filters {
		out.Filters = append(out.Filters, filterRecord{
			Name:     f.Name,
			Patterns: append([]string(nil), f.Patterns...),
		})
	}
	return out
}

func encodeSnapshot(s *layout.Snapshot) snapshotRecord {
	if s == nil {
		return snapshotRecord{}
	}
	return snapshotRecord{
		Frame: frameRecord{
			X: s.Frame.X, Y: s.Frame.Y, W: s.Frame.W, H: s.Frame.H,
			Scrollbars: scrollbarsRecord{Style: string(s.Frame.Scrollbars.Style), Width: s.Frame.Scrollbars.Width},
		},
		Selected: s.SelectedIdx,
		Root:     encodeTree(s.Root),
	}
}

func encodeTree(t layout.Tree) *nodeRecord {
	switch n := t.(type) {
	case *layout.Pane:
		return &nodeRecord{
			Kind:         kindPane,
			Rect:         encodeRect(n.Rect),
			Content:      contentRecord{Path: n.Content.Path, Name: n.Content.Name},
			View:         encodeView(n.View),
			Selected:     n.Selected,
			ScrollTarget: n.ScrollTarget,
		}
	case *layout.Split:
		out := &nodeRecord{
			Kind: kindSplit,
			Rect: encodeRect(n.Rect),
			Axis: n.Axis.String(),
		}
		for _, c := range n.Children {
			out.Children = append(out.Children, encodeTree(c))
		}
		return out
	}
	return nil
}

func encodeRect(r layout.Rect) rectRecord {
	return rectRecord{Left: r.Left, Top: r.Top, Right: r.Right, Bottom: r.Bottom}
}

func encodeView(v layout.ViewState) viewRecord {
	return viewRecord{
		Start:      v.Start,
		Point:      v.Point,
		Mark:       v.Mark,
		AtEnd:      v.AtEnd,
		HScroll:    v.HScroll,
		Scrollbars: scrollbarsRecord{Style: string(v.Scrollbars.Style), Width: v.Scrollbars.Width},
		Fringes:    fringesRecord{Left: v.Fringes.Left, Right: v.Fringes.Right, OutsideMargins: v.Fringes.OutsideMargins},
		Margins:    marginsRecord{Left: v.Margins.Left, Right: v.Margins.Right},
	}
}

func decodeWorkgroups(rec fileRecord) ([]*registry.Workgroup, error) {
	out := make([]*registry.Workgroup, 0, len(rec.Workgroups))
	for i := range rec.Workgroups {
		wg, err := decodeWorkgroup(&rec.Workgroups[i])
		if err != nil {
			return nil, fmt.Errorf("workgroup %q: %w", rec.Workgroups[i].Name, err)
		}
		out = append(out, wg)
	}
	return out, nil
}

func decodeWorkgroup(rec *workgroupRecord) (*registry.Workgroup, error) {
	base, err := decodeSnapshot(rec.Base)
	if err != nil {
		return nil, fmt.Errorf("base: %w", err)
	}
	working, err := decodeSnapshot(rec.Working)
	if err != nil {
		return nil, fmt.Errorf("working: %w", err)
	}
	wgID := id.WorkgroupID(rec.ID)
	if wgID.IsZero() {
		wgID = id.NewWorkgroupID()
	}
	wg := &registry.Workgroup{
		ID:      wgID,
		Name:    rec.Name,
		Base:    base,
		Working: working,
	}
	for _, c := range rec.Contents {
		wg.Contents = append(wg.Contents, registry.ContentEntry{
			Ref:   layout.ContentRef{Path: c.Path, Name: c.Name},
			Assoc: registry.Assoc(c.Assoc),
		})
	}
	for _, f := range rec.Filters {
		wg.Filters = append(wg.Filters, registry.ContentFilter{
			Name:     f.Name,
			Patterns: append([]string(nil), f.Patterns...),
		})
	}
	return wg, nil
}

func decodeSnapshot(rec snapshotRecord) (*layout.Snapshot, error) {
	if rec.Root == nil {
		return nil, fmt.Errorf("snapshot has no tree")
	}
	root, err := decodeTree(rec.Root)
	if err != nil {
		return nil, err
	}
	return &layout.Snapshot{
		Frame: layout.Frame{
			X: rec.Frame.X, Y: rec.Frame.Y, W: rec.Frame.W, H: rec.Frame.H,
			Scrollbars: layout.Scrollbars{Style: layout.ScrollbarStyle(rec.Frame.Scrollbars.Style), Width: rec.Frame.Scrollbars.Width},
		},
		SelectedIdx: rec.Selected,
		Root:        root,
	}, nil
}

func decodeTree(rec *nodeRecord) (layout.Tree, error) {
	switch rec.Kind {
	case kindPane:
		return &layout.Pane{
			Rect:         decodeRect(rec.Rect),
			Content:      layout.ContentRef{Path: rec.Content.Path, Name: rec.Content.Name},
			View:         decodeView(rec.View),
			Selected:     rec.Selected,
			ScrollTarget: rec.ScrollTarget,
		}, nil
	case kindSplit:
		axis, err := layout.ParseAxis(rec.Axis)
		if err != nil {
			return nil, err
		}
		if len(rec.Children) == 0 {
			return nil, fmt.Errorf("split node with no children")
		}
		children := make([]layout.Tree, len(rec.Children))
		for i, c := range rec.Children {
			child, err := decodeTree(c)
			if err != nil {
				return nil, err
			}
			children[i] = child
		}
		return layout.NewSplit(axis, decodeRect(rec.Rect), children...), nil
	}
	return nil, fmt.Errorf("unknown node kind %q", rec.Kind)
}

func decodeRect(r rectRecord) layout.Rect {
	return layout.Rect{Left: r.Left, Top: r.Top, Right: r.Right, Bottom: r.Bottom}
}

func decodeView(v viewRecord) layout.ViewState {
	return layout.ViewState{
		Start:      v.Start,
		Point:      v.Point,
		Mark:       v.Mark,
		AtEnd:      v.AtEnd,
		HScroll:    v.HScroll,
		Scrollbars: layout.Scrollbars{Style: layout.ScrollbarStyle(v.Scrollbars.Style), Width: v.Scrollbars.Width},
		Fringes:    layout.Fringes{Left: v.Fringes.Left, Right: v.Fringes.Right, OutsideMargins: v.Fringes.OutsideMargins},
		Margins:    layout.Margins{Left: v.Margins.Left, Right: v.Margins.Right},
	}
}

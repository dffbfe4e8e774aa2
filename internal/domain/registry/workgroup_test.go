package registry

import (
	"testing"

	"github.com/paneworks/workgrid/internal/domain/layout"
)

func TestAssociate(t *testing.T) {
	wg := group("mail")
	ref := layout.ContentRef{Path: "/inbox/today"}

	if !wg.Associate(ref, AssocAuto) {
		t.Fatal("first association should report a change")
	}
	if wg.Associate(ref, AssocAuto) {
		t.Error("repeated auto association should be a no-op")
	}
	if !wg.Associate(ref, AssocManual) {
		t.Error("manual association should upgrade an auto one")
	}
	if wg.Associate(ref, AssocAuto) {
		t.Error("auto association must not downgrade a manual one")
	}
	if wg.Contents[0].Assoc != AssocManual {
		t.Errorf("assoc = %q, want manual", wg.Contents[0].Assoc)
	}

	if wg.Associate(layout.ContentRef{}, AssocAuto) {
		t.Error("empty descriptors should never associate")
	}
}

func TestDissociate(t *testing.T) {
	wg := group("mail")
	ref := layout.ContentRef{Path: "/inbox/today"}
	wg.Associate(ref, AssocManual)

	if !wg.Dissociate(ref) {
		t.Fatal("Dissociate should report removal")
	}
	if wg.Associated(ref) {
		t.Error("descriptor should be gone after Dissociate")
	}
	if wg.Dissociate(ref) {
		t.Error("second Dissociate should be a no-op")
	}
}

func TestFilterMatch(t *testing.T) {
	f := ContentFilter{Name: "notes", Patterns: []string{"/notes/**/*.md", "scratch"}}

	tests := []struct {
		ref  layout.ContentRef
		want bool
	}{
		{layout.ContentRef{Path: "/notes/2026/aug/plan.md"}, true},
		{layout.ContentRef{Path: "/notes/plan.txt"}, false},
		{layout.ContentRef{Path: "/inbox/plan.md"}, false},
		{layout.ContentRef{Name: "scratch"}, true},
		{layout.ContentRef{Name: "other"}, false},
	}
	for _, tt := range tests {
		if got := f.Match(tt.ref); got != tt.want {
			t.Errorf("Match(%v) = %v, want %v", tt.ref, got, tt.want)
		}
	}
}

func TestFilterMalformedPattern(t *testing.T) {
	f := ContentFilter{Name: "bad", Patterns: []string{"[unclosed"}}
	if f.Match(layout.ContentRef{Path: "[unclosed"}) {
		t.Error("malformed patterns should never match")
	}
}

func TestFilteredContents(t *testing.T) {
	wg := group("mail")
	wg.Associate(layout.ContentRef{Path: "/notes/a.md"}, AssocAuto)
	wg.Associate(layout.ContentRef{Path: "/inbox/b"}, AssocAuto)
	wg.Associate(layout.ContentRef{Path: "/notes/c.md"}, AssocManual)
	wg.SetFilter(ContentFilter{Name: "notes", Patterns: []string{"/notes/*.md"}})

	got := wg.FilteredContents("notes")
	if len(got) != 2 || got[0].Ref.Path != "/notes/a.md" || got[1].Ref.Path != "/notes/c.md" {
		t.Errorf("FilteredContents = %v, want the two /notes entries in order", got)
	}
	if wg.FilteredContents("missing") != nil {
		t.Error("unknown filter should match nothing")
	}
}

func TestSetFilterUpserts(t *testing.T) {
	wg := group("mail")
	wg.SetFilter(ContentFilter{Name: "notes", Patterns: []string{"*.md"}})
	wg.SetFilter(ContentFilter{Name: "notes", Patterns: []string{"*.org"}})

	if len(wg.Filters) != 1 {
		t.Fatalf("len(Filters) = %d, want 1", len(wg.Filters))
	}
	f, ok := wg.Filter("notes")
	if !ok || len(f.Patterns) != 1 || f.Patterns[0] != "*.org" {
		t.Errorf("Filter(notes) = %v, want replaced patterns", f)
	}
	if !wg.RemoveFilter("notes") {
		t.Error("RemoveFilter should report removal")
	}
	if wg.RemoveFilter("notes") {
		t.Error("second RemoveFilter should be a no-op")
	}
}

func TestSaveBaseAndRevert(t *testing.T) {
	wg := group("mail")
	edited := layout.Blank(layout.Frame{W: 80, H: 24}, layout.ContentRef{Name: "edited"})

	wg.CommitWorking(edited)
	if wg.Working.Equal(wg.Base) {
		t.Fatal("commit should diverge working from base")
	}

	restored := wg.RevertWorking()
	if !restored.Equal(wg.Base) {
		t.Error("revert should restore the checkpoint")
	}

	wg.CommitWorking(edited)
	wg.SaveBase()
	if !wg.Base.Equal(edited) {
		t.Error("SaveBase should promote the working snapshot")
	}
}

func TestWorkgroupCloneIsDeep(t *testing.T) {
	wg := group("mail")
	wg.Associate(layout.ContentRef{Path: "/a"}, AssocManual)
	wg.SetFilter(ContentFilter{Name: "f", Patterns: []string{"*"}})

	c := wg.Clone()
	c.Name = "copy"
	c.Contents[0].Assoc = AssocAuto
	c.Filters[0].Patterns[0] = "changed"
	c.Working.SelectedPane().Content.Name = "changed"

	if wg.Name != "mail" || wg.Contents[0].Assoc != AssocManual {
		t.Error("clone mutation leaked into the original")
	}
	if wg.Filters[0].Patterns[0] != "*" {
		t.Error("clone shares filter pattern storage with the original")
	}
	if wg.Working.SelectedPane().Content.Name != "mail" {
		t.Error("clone shares snapshot storage with the original")
	}
}

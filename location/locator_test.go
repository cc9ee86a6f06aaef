package location

import (
	"testing"

	"github.com/xrefgraph/xref/graph"
)

// fakeLocator is a minimal in-memory Locator for testing the encoder and
// anchor construction without a real AST driver.
type fakeLocator struct {
	valid      map[uint64]bool
	isFile     map[uint64]bool
	entries    map[uint64]FileEntry
	offsets    map[uint64]uint32
	expansions map[uint64]Loc
	spellings  map[uint64]Loc
	buffers    map[uint64][]byte
}

func newFakeLocator() *fakeLocator {
	return &fakeLocator{
		valid:      make(map[uint64]bool),
		isFile:     make(map[uint64]bool),
		entries:    make(map[uint64]FileEntry),
		offsets:    make(map[uint64]uint32),
		expansions: make(map[uint64]Loc),
		spellings:  make(map[uint64]Loc),
		buffers:    make(map[uint64][]byte),
	}
}

func (f *fakeLocator) Valid(loc Loc) bool          { return f.valid[loc.id] }
func (f *fakeLocator) IsFileID(loc Loc) bool       { return f.isFile[loc.id] }
func (f *fakeLocator) OffsetFor(loc Loc) uint32    { return f.offsets[loc.id] }
func (f *fakeLocator) ExpansionLoc(loc Loc) Loc    { return f.expansions[loc.id] }
func (f *fakeLocator) SpellingLoc(loc Loc) Loc     { return f.spellings[loc.id] }
func (f *fakeLocator) FileEntryFor(loc Loc) (FileEntry, bool) {
	e, ok := f.entries[loc.id]
	return e, ok
}
func (f *fakeLocator) BufferFor(loc Loc) ([]byte, bool) {
	b, ok := f.buffers[loc.id]
	return b, ok
}

func TestEncodeLocation_Invalid(t *testing.T) {
	loc := NewLoc(1)
	got := EncodeLocation(newFakeLocator(), loc)
	if got != "invalid" {
		t.Errorf("EncodeLocation(invalid) = %q, want %q", got, "invalid")
	}
}

func TestEncodeLocation_FileIDFreshInEachEncoding(t *testing.T) {
	f := newFakeLocator()
	loc1 := NewLoc(1)
	loc2 := NewLoc(2)
	f.valid[1], f.valid[2] = true, true
	f.isFile[1], f.isFile[2] = true, true
	f.offsets[1] = 10
	f.offsets[2] = 20
	entry := FileEntry{FileID: 7, VName: graph.VName{Corpus: "acme", Path: "foo.cc"}}
	f.entries[1] = entry
	f.entries[2] = entry // same file, second occurrence

	got1 := EncodeLocation(f, loc1)
	if got1 != "10acme/foo.cc" {
		t.Errorf("first encoding = %q, want %q", got1, "10acme/foo.cc")
	}

	// A single encoding call tracks back-references only within itself, so
	// encoding loc2 alone does not see loc1's file as already-seen.
	got2 := EncodeLocation(f, loc2)
	if got2 != "20acme/foo.cc" {
		t.Errorf("second independent encoding = %q, want %q", got2, "20acme/foo.cc")
	}
}

func TestEncodeLocation_NonFileIDRecursesExpansionSpelling(t *testing.T) {
	f := newFakeLocator()
	macro := NewLoc(1)
	expansion := NewLoc(2)
	spelling := NewLoc(3)
	f.valid[1], f.valid[2], f.valid[3] = true, true, true
	f.isFile[1] = false
	f.isFile[2] = true
	f.isFile[3] = true
	f.expansions[1] = expansion
	f.spellings[1] = spelling
	f.offsets[2] = 5
	f.offsets[3] = 9
	f.entries[2] = FileEntry{FileID: 1, VName: graph.VName{Path: "a.h"}}
	f.entries[3] = FileEntry{FileID: 2, VName: graph.VName{Path: "b.h"}}

	got := EncodeLocation(f, macro)
	want := "5a.h@9b.h"
	if got != want {
		t.Errorf("EncodeLocation(macro) = %q, want %q", got, want)
	}
}

func TestEncodeLocation_MissingFileEntryFallsBackToHash(t *testing.T) {
	f := newFakeLocator()
	loc := NewLoc(1)
	f.valid[1] = true
	f.isFile[1] = true
	f.offsets[1] = 3
	f.buffers[1] = []byte("int x;")

	got := EncodeLocation(f, loc)
	if len(got) <= len("3") {
		t.Errorf("expected offset plus hash suffix, got %q", got)
	}
}

func TestEncodeLocation_MissingFileEntryAndBuffer(t *testing.T) {
	f := newFakeLocator()
	loc := NewLoc(1)
	f.valid[1] = true
	f.isFile[1] = true
	f.offsets[1] = 3

	got := EncodeLocation(f, loc)
	if got != "3!invalid[3]" {
		t.Errorf("EncodeLocation = %q, want %q", got, "3!invalid[3]")
	}
}

func TestAnchorVName_Physical(t *testing.T) {
	lookup := func(id graph.FileID) (FileEntry, bool) {
		if id == 1 {
			return FileEntry{FileID: 1, VName: graph.VName{Corpus: "acme", Path: "p.cc"}}, true
		}
		return FileEntry{}, false
	}
	r := graph.NewPhysicalRange(1, 10, 14)

	vn := AnchorVName(lookup, r)

	want := graph.VName{Corpus: "acme", Path: "p.cc", Signature: "@10:14"}
	if vn != want {
		t.Errorf("AnchorVName = %+v, want %+v", vn, want)
	}
}

func TestAnchorVName_PhysicalBeginEqualsEndStillEmitsBoth(t *testing.T) {
	lookup := func(id graph.FileID) (FileEntry, bool) {
		return FileEntry{FileID: 1, VName: graph.VName{Path: "p.cc"}}, true
	}
	r := graph.NewPhysicalRange(1, 10, 10)

	vn := AnchorVName(lookup, r)

	if vn.Signature != "@10:10" {
		t.Errorf("Signature = %q, want %q (begin==end must not collapse)", vn.Signature, "@10:10")
	}
}

func TestAnchorVName_Wraith(t *testing.T) {
	lookup := func(id graph.FileID) (FileEntry, bool) {
		return FileEntry{FileID: 1, VName: graph.VName{Path: "p.cc"}}, true
	}
	ctx := graph.NewNodeId("N#t")
	r := graph.NewWraithRange(1, 10, 14, ctx)

	vn := AnchorVName(lookup, r)

	want := "@10:14@" + ctx.ToClaimedString()
	if vn.Signature != want {
		t.Errorf("Signature = %q, want %q", vn.Signature, want)
	}
}

func TestAnchorVName_WraithMissingFileAdoptsContextVName(t *testing.T) {
	lookup := func(id graph.FileID) (FileEntry, bool) { return FileEntry{}, false }
	ctx := graph.NewNodeId("N#t")
	r := graph.NewWraithRange(99, 1, 2, ctx)

	vn := AnchorVName(lookup, r)

	if vn.Language != "c++" {
		t.Errorf("Language = %q, want %q", vn.Language, "c++")
	}
	if vn.Signature != "@1:2@"+ctx.ToClaimedString() {
		t.Errorf("Signature = %q", vn.Signature)
	}
}

func TestRangeSignature_OmitsEndWhenEqual(t *testing.T) {
	r := graph.NewPhysicalRange(1, 10, 10)
	if got := RangeSignature(r); got != "10" {
		t.Errorf("RangeSignature = %q, want %q", got, "10")
	}
}

func TestRangeSignature_IncludesEndWhenDifferent(t *testing.T) {
	r := graph.NewPhysicalRange(1, 10, 14)
	if got := RangeSignature(r); got != "1014" {
		t.Errorf("RangeSignature = %q, want %q", got, "1014")
	}
}

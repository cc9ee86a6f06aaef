// Package location turns AST-driver source locations into deterministic
// signature strings and anchor VNames. It treats the driver's notion of a
// source location as opaque, reached only through the Locator interface,
// mirroring how the Kythe C++ indexer keeps GraphObserver's location
// encoder independent of clang's SourceManager internals.
//
// Grounded on original_source/cxx/indexer/cxx/KytheGraphObserver.{h,cc}'s
// AppendFullLocationToStream / AppendRangeToStream / VNameFromRange /
// SearchForFileEntry.
package location

import "github.com/xrefgraph/xref/graph"

// Loc is an opaque handle into the driver's location space. The zero value
// is Invalid.
type Loc struct {
	id uint64
}

// Invalid is the zero Loc, used for builtin or absent locations.
var Invalid = Loc{}

// NewLoc wraps a driver-assigned handle. Drivers are responsible for
// choosing ids that round-trip through their own Locator implementation;
// this package never inspects id directly.
func NewLoc(id uint64) Loc { return Loc{id: id} }

// FileEntry names the file backing a location: its per-inclusion FileID
// and the VName under which its content was recorded.
type FileEntry struct {
	FileID graph.FileID
	VName  graph.VName
}

// Locator abstracts the AST driver's source-location model, playing the
// role clang's SourceManager plays for the original indexer: resolving a
// location to a file, an offset, or a macro expansion/spelling chain.
type Locator interface {
	// Valid reports whether loc denotes a real source position.
	Valid(loc Loc) bool
	// IsFileID reports whether loc refers directly into a file buffer,
	// as opposed to being one link in a macro expansion/spelling chain.
	IsFileID(loc Loc) bool
	// FileEntryFor resolves loc (which must satisfy IsFileID) to the file
	// that contains it, if the driver tracks one.
	FileEntryFor(loc Loc) (FileEntry, bool)
	// OffsetFor returns loc's byte offset within its file's buffer. Only
	// meaningful when IsFileID(loc).
	OffsetFor(loc Loc) uint32
	// ExpansionLoc returns the location loc's containing macro expansion
	// was expanded at. Only meaningful when !IsFileID(loc).
	ExpansionLoc(loc Loc) Loc
	// SpellingLoc returns the location where loc's token was spelled.
	// Only meaningful when !IsFileID(loc).
	SpellingLoc(loc Loc) Loc
	// BufferFor returns the raw character buffer backing loc, used as the
	// hashed-buffer fallback when no FileEntry can be found.
	BufferFor(loc Loc) ([]byte, bool)
}

package location

import (
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/xrefgraph/xref/graph"
)

// EncodeLocation renders loc as a deterministic token sequence per the
// encoder algorithm: invalid locations become "invalid"; a file-id
// location emits its offset plus either a fresh "<corpus>/<root>/<path>"
// or a back-reference to an earlier occurrence of the same file within
// this encoding; a non-file-id location recurses through its expansion
// and spelling locations, joined by "@"; a file-id location with no
// resolvable FileEntry falls back to a content hash of its buffer, or an
// "!invalid[offset]" marker if no buffer is available either.
func EncodeLocation(locator Locator, loc Loc) string {
	e := &encoder{locator: locator, seen: make(map[uint64]int)}
	e.encode(loc)
	return e.buf.String()
}

type encoder struct {
	locator Locator
	buf     strings.Builder
	seen    map[uint64]int // FileID -> order of first occurrence
}

func (e *encoder) encode(loc Loc) {
	if !e.locator.Valid(loc) {
		e.buf.WriteString("invalid")
		return
	}
	if e.locator.IsFileID(loc) {
		e.encodeFileID(loc)
		return
	}
	e.encode(e.locator.ExpansionLoc(loc))
	e.buf.WriteByte('@')
	e.encode(e.locator.SpellingLoc(loc))
}

func (e *encoder) encodeFileID(loc Loc) {
	offset := e.locator.OffsetFor(loc)
	e.buf.WriteString(strconv.FormatUint(uint64(offset), 10))

	entry, found := e.locator.FileEntryFor(loc)
	if !found {
		e.encodeMissingFileEntry(loc, offset)
		return
	}

	key := uint64(entry.FileID)
	if idx, seen := e.seen[key]; seen {
		e.buf.WriteString("@.")
		e.buf.WriteString(strconv.Itoa(idx))
		return
	}
	e.seen[key] = len(e.seen)
	e.buf.WriteString(formatVNamePath(entry.VName))
}

func (e *encoder) encodeMissingFileEntry(loc Loc, offset uint32) {
	if buf, ok := e.locator.BufferFor(loc); ok {
		e.buf.WriteString(strconv.FormatUint(xxhash.Sum64(buf), 16))
		return
	}
	e.buf.WriteString("!invalid[")
	e.buf.WriteString(strconv.FormatUint(uint64(offset), 10))
	e.buf.WriteByte(']')
}

// formatVNamePath renders "<corpus>/<root>/<path>", omitting empty fields
// together with their separator.
func formatVNamePath(v graph.VName) string {
	parts := make([]string, 0, 3)
	if v.Corpus != "" {
		parts = append(parts, v.Corpus)
	}
	if v.Root != "" {
		parts = append(parts, v.Root)
	}
	if v.Path != "" {
		parts = append(parts, v.Path)
	}
	return strings.Join(parts, "/")
}

package graph

// RangeKind distinguishes a Range tied purely to a byte span (Physical)
// from one re-interpreted under a surrounding declaration (Wraith).
type RangeKind int

const (
	RangePhysical RangeKind = iota
	RangeWraith
)

// Offset is a byte offset into a file's expansion-location buffer.
type Offset uint32

// Range is one of two variants: a half-open physical source span, or the
// same span re-contextualized under a NodeId (used when a declaration's
// textual range is shared by multiple semantic occurrences, e.g. template
// instantiations).
type Range struct {
	Kind    RangeKind
	FileID  FileID
	Begin   Offset
	End     Offset
	Context NodeId // only meaningful when Kind == RangeWraith
}

// NewPhysicalRange builds a Physical range over [begin, end) in fileID.
func NewPhysicalRange(fileID FileID, begin, end Offset) Range {
	return Range{Kind: RangePhysical, FileID: fileID, Begin: begin, End: end}
}

// NewWraithRange builds a Wraith range over [begin, end) re-contextualized
// under ctx.
func NewWraithRange(fileID FileID, begin, end Offset, ctx NodeId) Range {
	return Range{Kind: RangeWraith, FileID: fileID, Begin: begin, End: end, Context: ctx}
}

// FileID identifies one *inclusion* of a file (not the file itself); the
// same on-disk file included twice gets two distinct FileIDs, each backed
// by its own preprocessor context. Mirrors clang's per-inclusion FileID.
type FileID uint64

// contextIdentity returns the context's claimed identity string, or the
// empty string for a Physical range — used as the fourth field of Range's
// value-equality tuple per spec.md §9's Design Notes.
func (r Range) contextIdentity() string {
	if r.Kind != RangeWraith {
		return ""
	}
	return r.Context.ToClaimedString()
}

// Equal implements the value-equality required of Range by the
// deferred-anchor set: (file, begin, end, kind, context identity or empty).
func (r Range) Equal(other Range) bool {
	return r.FileID == other.FileID &&
		r.Begin == other.Begin &&
		r.End == other.End &&
		r.Kind == other.Kind &&
		r.contextIdentity() == other.contextIdentity()
}

// Key returns a comparable value suitable for use as a map key in the
// deferred-anchor set.
func (r Range) Key() string {
	k := itoa(uint64(r.FileID)) + ":" + itoa(uint64(r.Begin)) + ":" + itoa(uint64(r.End))
	if r.Kind == RangeWraith {
		k += ":" + r.contextIdentity()
	}
	return k
}

func itoa(v uint64) string {
	if v == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}

package location

import (
	"strconv"

	"github.com/xrefgraph/xref/graph"
)

// FileEntryLookup resolves the FileID carried by a Range to the file it
// belongs to, as tracked by the currently pushed (or previously pushed)
// file stack frames. Returning false means the range's file was never
// pushed under a known VName — e.g. a builtin frame.
type FileEntryLookup func(fileID graph.FileID) (FileEntry, bool)

// AnchorVName builds the VName under which r's anchor node is recorded.
//
// It adopts, in order: the VName of r's containing file if the lookup
// resolves it; otherwise, for a Wraith range, the VName decorated from
// r.Context's claim token; otherwise a bare "c++"-language VName. The
// signature is then always "@<begin>:<end>", with a further
// "@<context.claimed>" suffix for Wraith ranges.
//
// Per the open question in the design notes, begin and end are both
// always present in the anchor signature even when they are equal — this
// differs from the generic range signature encoder (RangeSignature),
// which omits the end offset in that case.
func AnchorVName(lookup FileEntryLookup, r graph.Range) graph.VName {
	var out graph.VName
	if entry, ok := lookup(r.FileID); ok {
		out = entry.VName
	} else if r.Kind == graph.RangeWraith {
		out = graph.VNameFromNodeId(r.Context)
	} else {
		out = graph.VName{Language: "c++"}
	}

	out.Signature += "@" + strconv.FormatUint(uint64(r.Begin), 10) +
		":" + strconv.FormatUint(uint64(r.End), 10)
	if r.Kind == graph.RangeWraith {
		out.Signature += "@" + r.Context.ToClaimedString()
	}
	return out
}

// RangeSignature renders r into an identity-string fragment suitable for
// embedding inside a NodeId, e.g. for abs/absvar nodes whose identity
// includes the source range of the template they abstract over.
//
// Unlike AnchorVName, the end offset is omitted when it equals begin, and
// a Wraith range's context is appended with no separating "@".
func RangeSignature(r graph.Range) string {
	s := strconv.FormatUint(uint64(r.Begin), 10)
	if r.End != r.Begin {
		s += strconv.FormatUint(uint64(r.End), 10)
	}
	if r.Kind == graph.RangeWraith {
		s += r.Context.ToClaimedString()
	}
	return s
}

package graph

import "github.com/xrefgraph/xref/vocabulary/xref"

// NoOrdinal marks an Edge as having no positional ordinal.
const NoOrdinal = -1

// Edge is a triple (source, kind, target) with an optional non-negative
// ordinal, used for positional arguments of type applications, function
// parameters, and the like.
type Edge struct {
	Source  VName
	Kind    xref.EdgeKind
	Target  VName
	Ordinal int // NoOrdinal if not applicable
}

// NewEdge builds an Edge with no ordinal.
func NewEdge(source VName, kind xref.EdgeKind, target VName) Edge {
	return Edge{Source: source, Kind: kind, Target: target, Ordinal: NoOrdinal}
}

// NewOrdinalEdge builds an Edge carrying a positional ordinal.
func NewOrdinalEdge(source VName, kind xref.EdgeKind, target VName, ordinal int) Edge {
	return Edge{Source: source, Kind: kind, Target: target, Ordinal: ordinal}
}

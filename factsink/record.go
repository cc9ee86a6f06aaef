// Package factsink is the append-only stream of graph facts: the
// quintuple (source, edge-kind-or-empty, target-or-empty, fact name,
// fact value) described in spec.md §4.F. Sinks never reorder or
// deduplicate; that discipline is the caller's (package observer).
//
// Grounded on original_source/cxx/indexer/cxx/KytheGraphRecorder.{h,cc}.
package factsink

import "github.com/xrefgraph/xref/graph"

// Record is one entry in the fact stream. A node fact has an empty
// EdgeKind and zero Target and encodes one property. An edge fact has a
// non-empty EdgeKind and Target and always writes FactName "/" with an
// empty FactValue, except when Ordinal is set, in which case FactName is
// the ordinal property and FactValue is its decimal rendering.
type Record struct {
	Source    graph.VName
	EdgeKind  string
	Target    graph.VName
	FactName  string
	FactValue []byte
}

// Sink is the append-only destination for Records. Implementations must
// not reorder or deduplicate; every call to Append is one more record in
// the stream.
type Sink interface {
	Append(r Record)
}

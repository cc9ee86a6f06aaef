package factsink

import (
	"strconv"

	"github.com/xrefgraph/xref/graph"
	"github.com/xrefgraph/xref/vocabulary/xref"
)

// Recorder renders the node/property/edge protocol that package observer
// drives into Records appended to a Sink, mirroring
// KytheGraphRecorder::BeginNode/AddProperty/EndNode/AddEdge.
//
// A Recorder is not safe for concurrent use — the observer core that
// drives it is itself single-threaded cooperative (spec §5).
type Recorder struct {
	sink    Sink
	current graph.VName
	inNode  bool
}

// NewRecorder builds a Recorder that appends every rendered fact to sink.
func NewRecorder(sink Sink) *Recorder {
	return &Recorder{sink: sink}
}

// BeginNode opens a node fact block: it immediately emits the node's
// `/xref/node/kind` fact and remembers vname as the implicit source for
// subsequent AddProperty calls, until EndNode.
func (r *Recorder) BeginNode(vname graph.VName, kind xref.NodeKind) {
	if r.inNode {
		panic("factsink: BeginNode called while already inside a node")
	}
	r.current = vname
	r.inNode = true
	r.sink.Append(Record{
		Source:    vname,
		FactName:  xref.FactRoot + string(xref.PropNodeKind),
		FactValue: []byte(kind),
	})
}

// AddProperty emits one property fact on the node opened by BeginNode.
func (r *Recorder) AddProperty(key xref.PropertyKey, value string) {
	if !r.inNode {
		panic("factsink: AddProperty called outside BeginNode/EndNode")
	}
	r.sink.Append(Record{
		Source:    r.current,
		FactName:  xref.FactRoot + string(key),
		FactValue: []byte(value),
	})
}

// AddUintProperty is AddProperty for offset-valued properties (loc/start,
// loc/end), rendered as decimal.
func (r *Recorder) AddUintProperty(key xref.PropertyKey, value uint32) {
	r.AddProperty(key, strconv.FormatUint(uint64(value), 10))
}

// EndNode closes the node fact block opened by BeginNode.
func (r *Recorder) EndNode() {
	if !r.inNode {
		panic("factsink: EndNode called without a matching BeginNode")
	}
	r.inNode = false
}

// AddEdge emits a plain edge fact from edge_from to edge_to under kind,
// with the canonical empty-value "/" fact.
func (r *Recorder) AddEdge(from graph.VName, kind xref.EdgeKind, to graph.VName) {
	if r.inNode {
		panic("factsink: AddEdge called while inside a node")
	}
	r.sink.Append(Record{
		Source:    from,
		EdgeKind:  xref.FactRoot + "edge/" + string(kind),
		Target:    to,
		FactName:  "/",
		FactValue: []byte(""),
	})
}

// AddOrdinalEdge is AddEdge plus a positional ordinal, used for param
// edges and any other positionally-significant relationship.
func (r *Recorder) AddOrdinalEdge(from graph.VName, kind xref.EdgeKind, to graph.VName, ordinal int) {
	if r.inNode {
		panic("factsink: AddOrdinalEdge called while inside a node")
	}
	r.sink.Append(Record{
		Source:    from,
		EdgeKind:  xref.FactRoot + "edge/" + string(kind),
		Target:    to,
		FactName:  xref.FactRoot + "ordinal",
		FactValue: []byte(strconv.Itoa(ordinal)),
	})
}

// AddFileContent records fileVName as a file node carrying content as
// its `/xref/text` property.
func (r *Recorder) AddFileContent(fileVName graph.VName, content []byte) {
	r.BeginNode(fileVName, xref.NodeFile)
	r.AddProperty(xref.PropText, string(content))
	r.EndNode()
}

// RecordEdge dispatches e to AddEdge or AddOrdinalEdge depending on
// whether e carries a positional ordinal.
func (r *Recorder) RecordEdge(e graph.Edge) {
	if e.Ordinal == graph.NoOrdinal {
		r.AddEdge(e.Source, e.Kind, e.Target)
		return
	}
	r.AddOrdinalEdge(e.Source, e.Kind, e.Target, e.Ordinal)
}

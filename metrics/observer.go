package metrics

import (
	"github.com/xrefgraph/xref/filestack"
	"github.com/xrefgraph/xref/graph"
	"github.com/xrefgraph/xref/observer"
	"github.com/xrefgraph/xref/vocabulary/xref"
)

// deferredCounter is satisfied by *observer.Recorder; Wrap uses it to
// sample the deferred-anchor queue size right before a pop that might
// flush it. A driver built against a different GraphObserver
// implementation simply never populates DeferredFlushSize.
type deferredCounter interface {
	DeferredCount() int
}

// instrumented wraps a GraphObserver and counts every node- and
// edge-recording call by the kind it records, plus each pushed file's
// claim outcome, in a Metrics. Calls whose output the wrapped observer
// deduplicates or claim-gates are counted all the same, and every extends
// edge is counted under the unqualified "extends" kind. It implements the
// full observer.GraphObserver contract by delegation.
type instrumented struct {
	observer.GraphObserver
	m *Metrics
}

// Wrap returns a GraphObserver that forwards every call to obs and
// records counts against m.
func Wrap(obs observer.GraphObserver, m *Metrics) observer.GraphObserver {
	return &instrumented{GraphObserver: obs, m: m}
}

func (o *instrumented) PushFile(req filestack.PushRequest) filestack.FileState {
	state := o.GraphObserver.PushFile(req)
	if !req.Valid {
		return state
	}
	if state.Claimed {
		o.m.FilesClaimed.Inc()
	} else {
		o.m.FilesUnclaimed.Inc()
	}
	return state
}

func (o *instrumented) PopFile() (filestack.FileState, bool, error) {
	if dc, ok := o.GraphObserver.(deferredCounter); ok {
		o.m.DeferredFlushSize.Observe(float64(dc.DeferredCount()))
	}
	return o.GraphObserver.PopFile()
}

func (o *instrumented) RecordUserDefinedNode(name graph.NameId, node graph.NodeId, kind xref.NodeKind, completeness xref.Completeness) {
	o.m.NodesEmitted.WithLabelValues(string(kind)).Inc()
	o.GraphObserver.RecordUserDefinedNode(name, node, kind, completeness)
}

func (o *instrumented) RecordVariableNode(name graph.NameId, node graph.NodeId, completeness xref.Completeness) {
	o.m.NodesEmitted.WithLabelValues(string(xref.NodeVariable)).Inc()
	o.GraphObserver.RecordVariableNode(name, node, completeness)
}

func (o *instrumented) RecordFunctionNode(node graph.NodeId, completeness xref.Completeness) {
	o.m.NodesEmitted.WithLabelValues(string(xref.NodeFunction)).Inc()
	o.GraphObserver.RecordFunctionNode(node, completeness)
}

func (o *instrumented) RecordRecordNode(node graph.NodeId, kind xref.RecordKind, completeness xref.Completeness) {
	o.m.NodesEmitted.WithLabelValues(string(xref.NodeRecord)).Inc()
	o.GraphObserver.RecordRecordNode(node, kind, completeness)
}

func (o *instrumented) RecordEnumNode(node graph.NodeId, completeness xref.Completeness, kind xref.EnumKind) {
	o.m.NodesEmitted.WithLabelValues(string(xref.NodeSum)).Inc()
	o.GraphObserver.RecordEnumNode(node, completeness, kind)
}

func (o *instrumented) RecordIntegerConstantNode(node graph.NodeId, value string) {
	o.m.NodesEmitted.WithLabelValues(string(xref.NodeConstant)).Inc()
	o.GraphObserver.RecordIntegerConstantNode(node, value)
}

func (o *instrumented) RecordAbsNode(node graph.NodeId) {
	o.m.NodesEmitted.WithLabelValues(string(xref.NodeAbs)).Inc()
	o.GraphObserver.RecordAbsNode(node)
}

func (o *instrumented) RecordAbsVarNode(node graph.NodeId) {
	o.m.NodesEmitted.WithLabelValues(string(xref.NodeAbsVar)).Inc()
	o.GraphObserver.RecordAbsVarNode(node)
}

func (o *instrumented) RecordLookupNode(node graph.NodeId, text string) {
	o.m.NodesEmitted.WithLabelValues(string(xref.NodeLookup)).Inc()
	o.GraphObserver.RecordLookupNode(node, text)
}

func (o *instrumented) RecordMacroNode(node graph.NodeId) {
	o.m.NodesEmitted.WithLabelValues(string(xref.NodeMacro)).Inc()
	o.GraphObserver.RecordMacroNode(node)
}

func (o *instrumented) RecordCallableNode(node graph.NodeId) {
	o.m.NodesEmitted.WithLabelValues(string(xref.NodeCallable)).Inc()
	o.GraphObserver.RecordCallableNode(node)
}

func (o *instrumented) RecordParamEdge(paramOf graph.NodeId, ordinal int, param graph.NodeId) {
	o.m.EdgesEmitted.WithLabelValues(string(xref.EdgeParam)).Inc()
	o.GraphObserver.RecordParamEdge(paramOf, ordinal, param)
}

func (o *instrumented) RecordChildOfEdge(child, parent graph.NodeId) {
	o.m.EdgesEmitted.WithLabelValues(string(xref.EdgeChildOf)).Inc()
	o.GraphObserver.RecordChildOfEdge(child, parent)
}

func (o *instrumented) RecordTypeEdge(term, typ graph.NodeId) {
	o.m.EdgesEmitted.WithLabelValues(string(xref.EdgeHasType)).Inc()
	o.GraphObserver.RecordTypeEdge(term, typ)
}

func (o *instrumented) RecordCallableAsEdge(from, to graph.NodeId) {
	o.m.EdgesEmitted.WithLabelValues(string(xref.EdgeCallableAs)).Inc()
	o.GraphObserver.RecordCallableAsEdge(from, to)
}

func (o *instrumented) RecordSpecEdge(term, typ graph.NodeId) {
	o.m.EdgesEmitted.WithLabelValues(string(xref.EdgeSpecializes)).Inc()
	o.GraphObserver.RecordSpecEdge(term, typ)
}

func (o *instrumented) RecordInstEdge(term, typ graph.NodeId) {
	o.m.EdgesEmitted.WithLabelValues(string(xref.EdgeInstantiates)).Inc()
	o.GraphObserver.RecordInstEdge(term, typ)
}

func (o *instrumented) RecordExtendsEdge(from, to graph.NodeId, isVirtual bool, access xref.AccessSpecifier) {
	o.m.EdgesEmitted.WithLabelValues(string(xref.EdgeExtends)).Inc()
	o.GraphObserver.RecordExtendsEdge(from, to, isVirtual, access)
}

func (o *instrumented) RecordNamedEdge(node graph.NodeId, name graph.NameId) {
	o.m.EdgesEmitted.WithLabelValues(string(xref.EdgeNamed)).Inc()
	o.GraphObserver.RecordNamedEdge(node, name)
}

func (o *instrumented) RecordDefinitionRange(r graph.Range, target graph.NodeId) {
	o.m.EdgesEmitted.WithLabelValues(string(xref.EdgeDefines)).Inc()
	o.GraphObserver.RecordDefinitionRange(r, target)
}

func (o *instrumented) RecordCompletionRange(r graph.Range, target graph.NodeId, spec xref.Specificity) {
	o.m.EdgesEmitted.WithLabelValues(string(xref.EdgeCompletes)).Inc()
	o.GraphObserver.RecordCompletionRange(r, target, spec)
}

func (o *instrumented) RecordDeclUseLocation(r graph.Range, target graph.NodeId, claimability graph.Claimability) {
	o.m.EdgesEmitted.WithLabelValues(string(xref.EdgeRef)).Inc()
	o.GraphObserver.RecordDeclUseLocation(r, target, claimability)
}

func (o *instrumented) RecordTypeSpellingLocation(r graph.Range, target graph.NodeId, claimability graph.Claimability) {
	o.m.EdgesEmitted.WithLabelValues(string(xref.EdgeRef)).Inc()
	o.GraphObserver.RecordTypeSpellingLocation(r, target, claimability)
}

func (o *instrumented) RecordCallEdge(r graph.Range, caller, callee graph.NodeId) {
	o.m.EdgesEmitted.WithLabelValues(string(xref.EdgeRefCall)).Inc()
	o.GraphObserver.RecordCallEdge(r, caller, callee)
}

func (o *instrumented) RecordExpandsRange(r graph.Range, macro graph.NodeId) {
	o.m.EdgesEmitted.WithLabelValues(string(xref.EdgeRefExpands)).Inc()
	o.GraphObserver.RecordExpandsRange(r, macro)
}

func (o *instrumented) RecordIndirectlyExpandsRange(r graph.Range, macro graph.NodeId) {
	o.m.EdgesEmitted.WithLabelValues(string(xref.EdgeRefExpandsTransitive)).Inc()
	o.GraphObserver.RecordIndirectlyExpandsRange(r, macro)
}

func (o *instrumented) RecordUndefinesRange(r graph.Range, macro graph.NodeId) {
	o.m.EdgesEmitted.WithLabelValues(string(xref.EdgeUndefines)).Inc()
	o.GraphObserver.RecordUndefinesRange(r, macro)
}

func (o *instrumented) RecordBoundQueryRange(r graph.Range, macro graph.NodeId) {
	o.m.EdgesEmitted.WithLabelValues(string(xref.EdgeRefQueries)).Inc()
	o.GraphObserver.RecordBoundQueryRange(r, macro)
}

func (o *instrumented) RecordUnboundQueryRange(r graph.Range, name graph.NameId) {
	o.m.EdgesEmitted.WithLabelValues(string(xref.EdgeRefQueries)).Inc()
	o.GraphObserver.RecordUnboundQueryRange(r, name)
}

func (o *instrumented) RecordIncludesRange(r graph.Range, file graph.VName) {
	o.m.EdgesEmitted.WithLabelValues(string(xref.EdgeRefIncludes)).Inc()
	o.GraphObserver.RecordIncludesRange(r, file)
}

func (o *instrumented) RecordNominalTypeNode(name graph.NameId) graph.NodeId {
	o.m.NodesEmitted.WithLabelValues(string(xref.NodeTNominal)).Inc()
	return o.GraphObserver.RecordNominalTypeNode(name)
}

func (o *instrumented) RecordTypeAliasNode(alias graph.NameId, aliased graph.NodeId) graph.NodeId {
	o.m.NodesEmitted.WithLabelValues(string(xref.NodeTAlias)).Inc()
	return o.GraphObserver.RecordTypeAliasNode(alias, aliased)
}

func (o *instrumented) RecordTappNode(tycon graph.NodeId, params []graph.NodeId) graph.NodeId {
	o.m.NodesEmitted.WithLabelValues(string(xref.NodeTApp)).Inc()
	return o.GraphObserver.RecordTappNode(tycon, params)
}

func (o *instrumented) Flush() {
	o.GraphObserver.Flush()
}

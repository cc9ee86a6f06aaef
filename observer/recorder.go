package observer

import (
	"github.com/xrefgraph/xref/claim"
	"github.com/xrefgraph/xref/factsink"
	"github.com/xrefgraph/xref/filestack"
	"github.com/xrefgraph/xref/graph"
	"github.com/xrefgraph/xref/identity"
	"github.com/xrefgraph/xref/location"
	"github.com/xrefgraph/xref/vocabulary/xref"
)

// Recorder is the concrete GraphObserver: it assembles the identity,
// claim, and file-stack layers and renders every event into the fact
// sink via a factsink.Recorder. A Recorder is not safe for concurrent
// use — the traversal that drives it is itself single-threaded
// cooperative (spec §5).
type Recorder struct {
	interner *identity.Interner
	arbiter  *claim.Arbiter
	stack    *filestack.Stack
	rec      *factsink.Recorder

	deferred map[string]graph.Range
}

// NewRecorder builds a Recorder over sink, attributing claims to
// claimant and consulting client for claim decisions. contexts and
// startingContext parameterize the file/context stack exactly as
// filestack.NewStack does.
func NewRecorder(sink factsink.Sink, client claim.ClaimClient, claimant graph.VName, contexts *filestack.ContextMap, startingContext string, logger filestack.Logger) *Recorder {
	rec := factsink.NewRecorder(sink)
	arbiter := claim.NewArbiter(client, claimant)
	o := &Recorder{
		interner: identity.New(),
		arbiter:  arbiter,
		rec:      rec,
		deferred: make(map[string]graph.Range),
	}
	o.stack = filestack.NewStack(contexts, arbiter, startingContext, sinkContentAdapter{rec}, logger)
	return o
}

// sinkContentAdapter lets filestack.Stack emit file content through the
// same factsink.Recorder the rest of the observer uses, instead of
// talking to the raw Sink directly.
type sinkContentAdapter struct{ rec *factsink.Recorder }

func (a sinkContentAdapter) EmitFileContent(vname graph.VName, content []byte) {
	a.rec.AddFileContent(vname, content)
}

// PushFile delegates to the file/context stack.
func (o *Recorder) PushFile(req filestack.PushRequest) filestack.FileState {
	return o.stack.Push(req)
}

// PopFile delegates to the file/context stack and flushes deferred
// anchors exactly when the stack has just emptied.
func (o *Recorder) PopFile() (filestack.FileState, bool, error) {
	state, emptied, err := o.stack.Pop()
	if err != nil {
		return state, emptied, err
	}
	if emptied {
		o.Flush()
	}
	return state, emptied, nil
}

func (o *Recorder) recordName(name graph.NameId) graph.VName {
	vname := name.ToVName()
	if o.interner.RecordName(name) {
		o.rec.BeginNode(vname, xref.NodeName)
		o.rec.EndNode()
	}
	return vname
}

func (o *Recorder) RecordUserDefinedNode(name graph.NameId, node graph.NodeId, kind xref.NodeKind, completeness xref.Completeness) {
	nameVName := o.recordName(name)
	nodeVName := graph.VNameFromNodeId(node)
	o.rec.BeginNode(nodeVName, kind)
	o.rec.AddProperty(xref.PropComplete, string(completeness))
	o.rec.EndNode()
	o.rec.AddEdge(nodeVName, xref.EdgeNamed, nameVName)
}

func (o *Recorder) RecordVariableNode(name graph.NameId, node graph.NodeId, completeness xref.Completeness) {
	nameVName := o.recordName(name)
	nodeVName := graph.VNameFromNodeId(node)
	o.rec.BeginNode(nodeVName, xref.NodeVariable)
	o.rec.AddProperty(xref.PropComplete, string(completeness))
	o.rec.EndNode()
	o.rec.AddEdge(nodeVName, xref.EdgeNamed, nameVName)
}

func (o *Recorder) RecordFunctionNode(node graph.NodeId, completeness xref.Completeness) {
	o.rec.BeginNode(graph.VNameFromNodeId(node), xref.NodeFunction)
	o.rec.AddProperty(xref.PropComplete, string(completeness))
	o.rec.EndNode()
}

func (o *Recorder) RecordRecordNode(node graph.NodeId, kind xref.RecordKind, completeness xref.Completeness) {
	o.rec.BeginNode(graph.VNameFromNodeId(node), xref.NodeRecord)
	o.rec.AddProperty(xref.PropSubkind, string(recordSubkind(kind)))
	o.rec.AddProperty(xref.PropComplete, string(completeness))
	o.rec.EndNode()
}

func recordSubkind(kind xref.RecordKind) xref.Subkind {
	switch kind {
	case xref.RecordClass:
		return xref.SubkindClass
	case xref.RecordUnion:
		return xref.SubkindUnion
	default:
		return xref.SubkindStruct
	}
}

func (o *Recorder) RecordEnumNode(node graph.NodeId, completeness xref.Completeness, kind xref.EnumKind) {
	o.rec.BeginNode(graph.VNameFromNodeId(node), xref.NodeSum)
	o.rec.AddProperty(xref.PropComplete, string(completeness))
	subkind := xref.SubkindEnum
	if kind == xref.EnumScoped {
		subkind = xref.SubkindEnumClass
	}
	o.rec.AddProperty(xref.PropSubkind, string(subkind))
	o.rec.EndNode()
}

func (o *Recorder) RecordIntegerConstantNode(node graph.NodeId, value string) {
	o.rec.BeginNode(graph.VNameFromNodeId(node), xref.NodeConstant)
	o.rec.AddProperty(xref.PropText, value)
	o.rec.EndNode()
}

func (o *Recorder) RecordAbsNode(node graph.NodeId) {
	o.rec.BeginNode(graph.VNameFromNodeId(node), xref.NodeAbs)
	o.rec.EndNode()
}

func (o *Recorder) RecordAbsVarNode(node graph.NodeId) {
	o.rec.BeginNode(graph.VNameFromNodeId(node), xref.NodeAbsVar)
	o.rec.EndNode()
}

func (o *Recorder) RecordLookupNode(node graph.NodeId, text string) {
	o.rec.BeginNode(graph.VNameFromNodeId(node), xref.NodeLookup)
	o.rec.AddProperty(xref.PropText, text)
	o.rec.EndNode()
}

func (o *Recorder) RecordMacroNode(node graph.NodeId) {
	o.rec.BeginNode(graph.VNameFromNodeId(node), xref.NodeMacro)
	o.rec.EndNode()
}

func (o *Recorder) RecordCallableNode(node graph.NodeId) {
	o.rec.BeginNode(graph.VNameFromNodeId(node), xref.NodeCallable)
	o.rec.EndNode()
}

func (o *Recorder) RecordParamEdge(paramOf graph.NodeId, ordinal int, param graph.NodeId) {
	o.rec.AddOrdinalEdge(graph.VNameFromNodeId(paramOf), xref.EdgeParam, graph.VNameFromNodeId(param), ordinal)
}

func (o *Recorder) RecordChildOfEdge(child, parent graph.NodeId) {
	o.rec.AddEdge(graph.VNameFromNodeId(child), xref.EdgeChildOf, graph.VNameFromNodeId(parent))
}

func (o *Recorder) RecordTypeEdge(term, typ graph.NodeId) {
	o.rec.AddEdge(graph.VNameFromNodeId(term), xref.EdgeHasType, graph.VNameFromNodeId(typ))
}

func (o *Recorder) RecordCallableAsEdge(from, to graph.NodeId) {
	o.rec.AddEdge(graph.VNameFromNodeId(from), xref.EdgeCallableAs, graph.VNameFromNodeId(to))
}

func (o *Recorder) RecordSpecEdge(term, typ graph.NodeId) {
	o.rec.AddEdge(graph.VNameFromNodeId(term), xref.EdgeSpecializes, graph.VNameFromNodeId(typ))
}

func (o *Recorder) RecordInstEdge(term, typ graph.NodeId) {
	o.rec.AddEdge(graph.VNameFromNodeId(term), xref.EdgeInstantiates, graph.VNameFromNodeId(typ))
}

func (o *Recorder) RecordExtendsEdge(from, to graph.NodeId, isVirtual bool, access xref.AccessSpecifier) {
	kind := xref.ExtendsEdgeKind(access, isVirtual, true)
	o.rec.AddEdge(graph.VNameFromNodeId(from), kind, graph.VNameFromNodeId(to))
}

func (o *Recorder) RecordNamedEdge(node graph.NodeId, name graph.NameId) {
	o.rec.AddEdge(graph.VNameFromNodeId(node), xref.EdgeNamed, o.recordName(name))
}

func (o *Recorder) RecordNominalTypeNode(name graph.NameId) graph.NodeId {
	id, novel := o.interner.RecordNominalType(name)
	if novel {
		vname := graph.VNameFromNodeId(id)
		o.rec.BeginNode(vname, xref.NodeTNominal)
		o.rec.EndNode()
		o.rec.AddEdge(vname, xref.EdgeNamed, o.recordName(name))
	}
	return id
}

func (o *Recorder) RecordTypeAliasNode(alias graph.NameId, aliased graph.NodeId) graph.NodeId {
	id, novel := o.interner.RecordTypeAlias(alias, aliased)
	if novel {
		vname := graph.VNameFromNodeId(id)
		o.rec.BeginNode(vname, xref.NodeTAlias)
		o.rec.EndNode()
		o.rec.AddEdge(vname, xref.EdgeNamed, o.recordName(alias))
		o.rec.AddEdge(vname, xref.EdgeAliases, graph.VNameFromNodeId(aliased))
	}
	return id
}

func (o *Recorder) RecordTappNode(tycon graph.NodeId, params []graph.NodeId) graph.NodeId {
	result := o.interner.RecordTapp(tycon, params)
	if result.Novel {
		vname := graph.VNameFromNodeId(result.Id)
		o.rec.BeginNode(vname, xref.NodeTApp)
		o.rec.EndNode()
		o.rec.AddOrdinalEdge(vname, xref.EdgeParam, graph.VNameFromNodeId(tycon), 0)
		for i, p := range params {
			o.rec.AddOrdinalEdge(vname, xref.EdgeParam, graph.VNameFromNodeId(p), i+1)
		}
	}
	return result.Id
}

// recordAnchor is the single helper every anchor-emitting entry point
// routes through: compute the anchor VName, update the deferred-anchor
// set and claimability per the claim arbiter, and emit the edge when the
// final claimability is Unclaimable. It always returns the anchor VName,
// even when the edge itself was not emitted, because some callers (see
// RecordCallEdge) need it for a second, unconditional edge.
func (o *Recorder) recordAnchor(r graph.Range, target graph.VName, kind xref.EdgeKind, claimability graph.Claimability) graph.VName {
	anchorVName := o.anchorVName(r)
	if o.arbiter.ClaimRange(r) || o.arbiter.ClaimVName(target) {
		o.deferred[r.Key()] = r
		claimability = graph.Unclaimable
	}
	if claimability == graph.Unclaimable {
		o.rec.AddEdge(anchorVName, kind, target)
	}
	return anchorVName
}

func (o *Recorder) anchorVName(r graph.Range) graph.VName {
	return location.AnchorVName(o.stack.FileEntry, r)
}

func (o *Recorder) RecordDefinitionRange(r graph.Range, target graph.NodeId) {
	o.recordAnchor(r, graph.VNameFromNodeId(target), xref.EdgeDefines, graph.Claimable)
}

func (o *Recorder) RecordCompletionRange(r graph.Range, target graph.NodeId, spec xref.Specificity) {
	kind := xref.EdgeCompletes
	if spec == xref.UniquelyCompletes {
		kind = xref.EdgeCompletesUniquely
	}
	o.recordAnchor(r, graph.VNameFromNodeId(target), kind, graph.Unclaimable)
}

func (o *Recorder) RecordDeclUseLocation(r graph.Range, target graph.NodeId, claimability graph.Claimability) {
	o.recordAnchor(r, graph.VNameFromNodeId(target), xref.EdgeRef, claimability)
}

func (o *Recorder) RecordTypeSpellingLocation(r graph.Range, target graph.NodeId, claimability graph.Claimability) {
	o.recordAnchor(r, graph.VNameFromNodeId(target), xref.EdgeRef, claimability)
}

func (o *Recorder) RecordCallEdge(r graph.Range, caller, callee graph.NodeId) {
	anchorVName := o.recordAnchor(r, graph.VNameFromNodeId(caller), xref.EdgeChildOf, graph.Claimable)
	o.rec.AddEdge(anchorVName, xref.EdgeRefCall, graph.VNameFromNodeId(callee))
}

func (o *Recorder) RecordExpandsRange(r graph.Range, macro graph.NodeId) {
	o.recordAnchor(r, graph.VNameFromNodeId(macro), xref.EdgeRefExpands, graph.Claimable)
}

func (o *Recorder) RecordIndirectlyExpandsRange(r graph.Range, macro graph.NodeId) {
	o.recordAnchor(r, graph.VNameFromNodeId(macro), xref.EdgeRefExpandsTransitive, graph.Claimable)
}

func (o *Recorder) RecordUndefinesRange(r graph.Range, macro graph.NodeId) {
	o.recordAnchor(r, graph.VNameFromNodeId(macro), xref.EdgeUndefines, graph.Claimable)
}

func (o *Recorder) RecordBoundQueryRange(r graph.Range, macro graph.NodeId) {
	o.recordAnchor(r, graph.VNameFromNodeId(macro), xref.EdgeRefQueries, graph.Claimable)
}

func (o *Recorder) RecordUnboundQueryRange(r graph.Range, name graph.NameId) {
	o.recordAnchor(r, o.recordName(name), xref.EdgeRefQueries, graph.Claimable)
}

func (o *Recorder) RecordIncludesRange(r graph.Range, file graph.VName) {
	o.recordAnchor(r, file, xref.EdgeRefIncludes, graph.Claimable)
}

// DeferredCount reports how many distinct anchor ranges are currently
// waiting on the next Flush, for callers that want to observe flush
// batch size (e.g. package metrics).
func (o *Recorder) DeferredCount() int {
	return len(o.deferred)
}

// Flush emits every deferred anchor's node and its childOf edges, then
// clears the deferred set. Called automatically by PopFile when the file
// stack has just emptied.
func (o *Recorder) Flush() {
	for _, r := range o.deferred {
		anchorVName := o.anchorVName(r)
		o.rec.BeginNode(anchorVName, xref.NodeAnchor)
		o.rec.AddUintProperty(xref.PropLocStart, uint32(r.Begin))
		o.rec.AddUintProperty(xref.PropLocEnd, uint32(r.End))
		o.rec.EndNode()
		if entry, ok := o.stack.FileEntry(r.FileID); ok {
			o.rec.AddEdge(anchorVName, xref.EdgeChildOf, entry.VName)
		}
		if r.Kind == graph.RangeWraith {
			o.rec.AddEdge(anchorVName, xref.EdgeChildOf, graph.VNameFromNodeId(r.Context))
		}
	}
	o.deferred = make(map[string]graph.Range)
}

// Package observer defines the fixed event vocabulary an AST/preprocessor
// traversal drives to extract a cross-reference graph, and a concrete
// Recorder that assembles packages identity, location, claim, filestack,
// and factsink to answer it.
//
// Grounded on original_source/cxx/indexer/cxx/GraphObserver.h (the
// abstract protocol) and KytheGraphObserver.{h,cc} (the concrete
// implementation), restructured as an interface plus a composing struct
// instead of virtual dispatch — the same shape teacher uses for
// ast.FileParser implementations feeding a shared ast.Parser.
package observer

import (
	"github.com/xrefgraph/xref/filestack"
	"github.com/xrefgraph/xref/graph"
	"github.com/xrefgraph/xref/vocabulary/xref"
)

// GraphObserver is the entire contract between an AST/PP traversal and
// the cross-reference extraction core. Implementations must accept these
// calls in any order subject to the preconditions named alongside each
// method; the driver owns sequencing.
type GraphObserver interface {
	// File/PP lifecycle.
	PushFile(req filestack.PushRequest) filestack.FileState
	PopFile() (filestack.FileState, bool, error)

	// Node-producing entry points.
	RecordUserDefinedNode(name graph.NameId, node graph.NodeId, kind xref.NodeKind, completeness xref.Completeness)
	RecordVariableNode(name graph.NameId, node graph.NodeId, completeness xref.Completeness)
	RecordFunctionNode(node graph.NodeId, completeness xref.Completeness)
	RecordRecordNode(node graph.NodeId, kind xref.RecordKind, completeness xref.Completeness)
	RecordEnumNode(node graph.NodeId, completeness xref.Completeness, kind xref.EnumKind)
	RecordIntegerConstantNode(node graph.NodeId, value string)
	RecordAbsNode(node graph.NodeId)
	RecordAbsVarNode(node graph.NodeId)
	RecordLookupNode(node graph.NodeId, text string)
	RecordMacroNode(node graph.NodeId)
	RecordCallableNode(node graph.NodeId)

	// Structural edges.
	RecordParamEdge(paramOf graph.NodeId, ordinal int, param graph.NodeId)
	RecordChildOfEdge(child, parent graph.NodeId)
	RecordTypeEdge(term, typ graph.NodeId)
	RecordCallableAsEdge(from, to graph.NodeId)
	RecordSpecEdge(term, typ graph.NodeId)
	RecordInstEdge(term, typ graph.NodeId)
	RecordExtendsEdge(from, to graph.NodeId, isVirtual bool, access xref.AccessSpecifier)
	RecordNamedEdge(node graph.NodeId, name graph.NameId)

	// Reference/anchor edges.
	RecordDefinitionRange(r graph.Range, target graph.NodeId)
	RecordCompletionRange(r graph.Range, target graph.NodeId, spec xref.Specificity)
	RecordDeclUseLocation(r graph.Range, target graph.NodeId, claimability graph.Claimability)
	RecordTypeSpellingLocation(r graph.Range, target graph.NodeId, claimability graph.Claimability)
	RecordCallEdge(r graph.Range, caller, callee graph.NodeId)
	RecordExpandsRange(r graph.Range, macro graph.NodeId)
	RecordIndirectlyExpandsRange(r graph.Range, macro graph.NodeId)
	RecordUndefinesRange(r graph.Range, macro graph.NodeId)
	RecordBoundQueryRange(r graph.Range, macro graph.NodeId)
	RecordUnboundQueryRange(r graph.Range, name graph.NameId)
	RecordIncludesRange(r graph.Range, file graph.VName)

	// Type-node entry points, which return the minted NodeId so callers
	// can use it as an operand to further edges (e.g. record_type_edge).
	RecordNominalTypeNode(name graph.NameId) graph.NodeId
	RecordTypeAliasNode(alias graph.NameId, aliased graph.NodeId) graph.NodeId
	RecordTappNode(tycon graph.NodeId, params []graph.NodeId) graph.NodeId

	// Flush emits every deferred anchor's node and childOf edges. The
	// driver calls this once the file stack has just emptied; Recorder
	// also calls it automatically from PopFile when that happens.
	Flush()
}

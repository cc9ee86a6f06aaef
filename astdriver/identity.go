package astdriver

import (
	"strconv"
	"strings"

	"github.com/xrefgraph/xref/graph"
)

// scope is the namespace/class qualifier stack the walker maintains while
// descending into namespace_definition and class/struct/union bodies, so
// nested entities get fully-qualified names the way clang's mangler does.
type scope []string

func (s scope) child(name string) scope {
	return append(append(scope{}, s...), name)
}

func (s scope) qualifiedName(name string) string {
	if len(s) == 0 {
		return name
	}
	return strings.Join(s, "::") + "::" + name
}

// entityID mints a NodeId for a C/C++ entity scoped to the file being
// walked: tok carries that file's claim token (from the FileState
// PushFile returned), so graph.VNameFromNodeId decorates the node with
// the right corpus/root/path once the driver emits it.
func entityID(tok *graph.ClaimToken, kind, qualifiedName string) graph.NodeId {
	return graph.NodeId{Token: tok, Identity: kind + ":" + qualifiedName}
}

// paramID mints a NodeId for one parameter of a function, identified by
// its ordinal position since C++ allows repeated or anonymous parameter
// names.
func paramID(tok *graph.ClaimToken, funcQualifiedName string, ordinal int) graph.NodeId {
	return entityID(tok, "param", funcQualifiedName+"#"+strconv.Itoa(ordinal))
}

// enumeratorID mints a NodeId for one member of an enum.
func enumeratorID(tok *graph.ClaimToken, enumQualifiedName, member string) graph.NodeId {
	return entityID(tok, "enumerator", enumQualifiedName+"::"+member)
}

// nameIDFor builds the file-independent NameId an entity's `named` edge
// points at. eqClass distinguishes classes/unions from everything else,
// matching graph.NameEqClass's role in keeping otherwise-identical
// spellings from different entity kinds from colliding.
func nameIDFor(qualifiedName string, eqClass graph.NameEqClass) graph.NameId {
	return graph.NameId{Path: qualifiedName, EqClass: eqClass}
}

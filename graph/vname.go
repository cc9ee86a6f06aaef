// Package graph defines the value types that make up the cross-reference
// graph's data model: VName, NodeId, NameId, Range, and Edge. These are
// pure value types with no I/O and no ownership of mutable state; the
// stateful pieces (interning, claiming, the file stack) live in their own
// packages and are built on top of these types.
package graph

import "strings"

// VName is the five-field signature identifying an object in the graph.
// Two VNames are equal iff all five fields are equal.
type VName struct {
	Signature string
	Corpus    string
	Root      string
	Path      string
	Language  string
}

// String renders a VName as a single string for logging and for use as a
// map key. It is not itself part of the identity contract (VName equality
// is structural), but two VNames that are equal render identically.
func (v VName) String() string {
	var b strings.Builder
	b.WriteString(v.Signature)
	b.WriteByte('\x00')
	b.WriteString(v.Corpus)
	b.WriteByte('\x00')
	b.WriteString(v.Root)
	b.WriteByte('\x00')
	b.WriteString(v.Path)
	b.WriteByte('\x00')
	b.WriteString(v.Language)
	return b.String()
}

// Empty reports whether v is the zero VName.
func (v VName) Empty() bool {
	return v == VName{}
}

// VNameFromNodeId builds the VName under which a NodeId's node is
// recorded: language defaults to "c++", then the claim token decorates
// corpus/root/path/language from its source file, then the signature is
// set to the identity body. Mirrors KytheGraphObserver::VNameFromNodeId.
func VNameFromNodeId(n NodeId) VName {
	v := n.Token.Decorate(VName{Language: "c++"})
	v.Signature = n.ToString()
	return v
}

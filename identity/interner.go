// Package identity mints canonical NodeIds and NameIds and deduplicates
// their emission. It owns the "written" sets referenced by spec.md §4.A's
// dedup invariant: for every node-producing entry point, emission happens
// iff the identity string was newly inserted into the owned set.
//
// Grounded on original_source/cxx/indexer/cxx/KytheGraphObserver.{h,cc}'s
// WriteName/WriteType-style written-once dedup, expressed in the idiom of
// the teacher's processor/ast/entities.go instance-ID dedup logic.
package identity

import (
	"strings"
	"sync"

	"github.com/xrefgraph/xref/graph"
)

// Interner owns the append-only "written" sets for one observer run. It is
// exclusively owned by its observer for the run's lifetime; there is no
// cross-run or cross-TU sharing (spec.md §5).
type Interner struct {
	mu           sync.Mutex
	writtenNames map[string]struct{}
	writtenTypes map[string]struct{}
}

// New creates an empty Interner.
func New() *Interner {
	return &Interner{
		writtenNames: make(map[string]struct{}),
		writtenTypes: make(map[string]struct{}),
	}
}

// NodeIdForNominalType returns the NodeId for a nominal type (struct,
// typedef, enum) named by name. Deterministic and pure: identity is
// `<name>#t`.
func NodeIdForNominalType(name graph.NameId) graph.NodeId {
	return graph.NewNodeId(name.String() + "#t")
}

// NodeIdForTypeAlias returns the NodeId for a type alias node: identity
// `talias(<alias>,<aliased.claimed>)`.
func NodeIdForTypeAlias(alias graph.NameId, aliased graph.NodeId) graph.NodeId {
	return graph.NewNodeId("talias(" + alias.String() + "," + aliased.ToClaimedString() + ")")
}

// RecordNominalType reports whether this is the first time this run has
// seen the nominal type named by name, i.e. whether its `tnominal` node
// should be emitted. The NodeId is returned regardless of novelty; callers
// decide whether to also emit the node based on the bool.
func (in *Interner) RecordNominalType(name graph.NameId) (graph.NodeId, bool) {
	id := NodeIdForNominalType(name)
	return id, in.markType(id.Identity)
}

// RecordTypeAlias reports whether this is the first time this run has
// seen the type alias (alias, aliased), i.e. whether its `talias` node
// should be emitted. The NodeId is returned regardless of novelty.
func (in *Interner) RecordTypeAlias(alias graph.NameId, aliased graph.NodeId) (graph.NodeId, bool) {
	id := NodeIdForTypeAlias(alias, aliased)
	return id, in.markType(id.Identity)
}

// TappResult is the outcome of RecordTapp: the minted NodeId and whether
// the `tapp` node itself is novel and should be emitted. The param edges
// (tycon at ordinal 0, each param at 1..n) are left to the caller.
type TappResult struct {
	Id    graph.NodeId
	Novel bool
}

// RecordTapp mints the NodeId for a type-application node with
// constructor tycon applied to params, identity
// `<tycon.claimed>(p0.claimed,p1.claimed,...)`, written-once.
func (in *Interner) RecordTapp(tycon graph.NodeId, params []graph.NodeId) TappResult {
	var b strings.Builder
	b.WriteString(tycon.ToClaimedString())
	b.WriteByte('(')
	for i, p := range params {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(p.ToClaimedString())
	}
	b.WriteByte(')')
	identity := b.String()
	id := graph.NewNodeId(identity)
	return TappResult{Id: id, Novel: in.markType(identity)}
}

// RecordName reports whether this is the first time this run has seen
// name's canonical signature, i.e. whether its `name` node should be
// emitted (at-most-once emission per run).
func (in *Interner) RecordName(name graph.NameId) bool {
	return in.markName(name.String())
}

func (in *Interner) markType(identity string) bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	if _, ok := in.writtenTypes[identity]; ok {
		return false
	}
	in.writtenTypes[identity] = struct{}{}
	return true
}

func (in *Interner) markName(signature string) bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	if _, ok := in.writtenNames[signature]; ok {
		return false
	}
	in.writtenNames[signature] = struct{}{}
	return true
}


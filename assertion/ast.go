package assertion

import "github.com/xrefgraph/xref/vocabulary/xref"

// AstNode is any term or goal produced by the parser: an Identifier, an
// EVar, a Fact goal, or an Equality goal.
type AstNode interface {
	isAstNode()
}

// Identifier is an interned logic constant: a lowercase-leading bare word,
// a quoted string literal, or a resolved numeric offset.
type Identifier struct {
	Text string
}

func (*Identifier) isAstNode() {}

// EVar is an existential logic variable. Two occurrences of the same
// spelling within one parser instance's identifier scope resolve to the
// same *EVar. Current holds its binding once the verifier (or forward
// location resolution) has solved for it; nil means unbound.
type EVar struct {
	Name    string
	current AstNode
}

func (*EVar) isAstNode() {}

// Current returns this EVar's binding, or nil if unbound.
func (e *EVar) Current() AstNode { return e.current }

// SetCurrent binds this EVar. Callers must not rebind an already-bound EVar.
func (e *EVar) SetCurrent(v AstNode) { e.current = v }

// Fact is a goal over the fact sink's (source, edge, target, key, value)
// quintuple shape. EdgeKind and Target are the empty Identifier for node
// facts; Key and Value are always present.
type Fact struct {
	Source, EdgeKind, Target, Key, Value AstNode
	Line                                 int
}

func (*Fact) isAstNode() {}

// Equality is a goal binding two terms to the same value, independent of
// the fact database.
type Equality struct {
	LHS, RHS AstNode
	Line     int
}

func (*Equality) isAstNode() {}

// AcceptanceCriterion is a GoalGroup's pass/fail policy.
type AcceptanceCriterion int

const (
	// NoneMayFail requires every goal in the group to succeed.
	NoneMayFail AcceptanceCriterion = iota
	// SomeMustFail requires at least one goal in the group to fail.
	SomeMustFail
)

// GoalGroup is a set of goals handled atomically under one acceptance
// policy. Groups may not nest.
type GoalGroup struct {
	Accept AcceptanceCriterion
	Goals  []AstNode
}

// Inspection records a post-solve print of an EVar's binding under a
// caller-chosen label.
type Inspection struct {
	ID  string
	Var *EVar
}

// EmptyIdentifier is the interned "" constant used for the unset
// edge-kind/target slots of node facts, matching Verifier::empty_string_id.
var EmptyIdentifier = &Identifier{Text: ""}

// AnchorKindFact returns the eagerly-emitted "this EVar names an anchor"
// goal CreateAnchorSpec appends at parse time, before the anchor's
// location is known.
func AnchorKindFact(v *EVar, line int) *Fact {
	return &Fact{
		Source:   v,
		EdgeKind: EmptyIdentifier,
		Target:   EmptyIdentifier,
		Key:      &Identifier{Text: xref.FactRoot + string(xref.PropNodeKind)},
		Value:    &Identifier{Text: string(xref.NodeAnchor)},
		Line:     line,
	}
}

// Package verifier proves or disproves goal groups parsed by package
// assertion against a fact database, by first-order unification with
// EVars as logic variables.
//
// Grounded on original_source/cxx/verifier/verifier.cc's Solver: Unify,
// UnifyEVar (with an occurs check), MatchAtomVersusDatabase, and
// SolveGoalGroups' per-group accept_if handling. The original drives the
// search with explicit continuation-passing and a numeric "cut" sentinel
// threaded through every thunk so a successful goal group commits to its
// first solution without backtracking into earlier groups; this port gets
// the same commit-on-first-solution behavior from plain Go closures and an
// explicit undo trail instead of CPS, since goals here are a closed,
// flat five-position shape (Fact, Equality) rather than arbitrary
// App/Tuple terms, which removes the need to special-case compound terms
// in Unify/Occurs.
package verifier

import "github.com/xrefgraph/xref/assertion"

// Solver proves goal groups against a fixed set of database facts.
// Binding a fresh Solver per verification run keeps EVar state isolated.
type Solver struct {
	database    []DatabaseFact
	trail       []*assertion.EVar
	highestGoal int
}

// NewSolver returns a Solver that searches database for every goal.
func NewSolver(database []DatabaseFact) *Solver {
	return &Solver{database: database}
}

func (s *Solver) bind(e *assertion.EVar, v assertion.AstNode) {
	e.SetCurrent(v)
	s.trail = append(s.trail, e)
}

func (s *Solver) undoTo(mark int) {
	for i := len(s.trail) - 1; i >= mark; i-- {
		s.trail[i].SetCurrent(nil)
	}
	s.trail = s.trail[:mark]
}

func (s *Solver) occurs(e *assertion.EVar, t assertion.AstNode) bool {
	for {
		ev, ok := t.(*assertion.EVar)
		if !ok {
			return false
		}
		if ev == e {
			return true
		}
		cur := ev.Current()
		if cur == nil {
			return false
		}
		t = cur
	}
}

// unify attempts to make a and b equal, invoking k for every way it can
// succeed. It returns k's result (true once k reports the overall search
// is done); on failure every binding it made is undone before returning.
func (s *Solver) unify(a, b assertion.AstNode, k func() bool) bool {
	if ev, ok := a.(*assertion.EVar); ok {
		return s.unifyEVar(ev, b, k)
	}
	if ev, ok := b.(*assertion.EVar); ok {
		return s.unifyEVar(ev, a, k)
	}
	ai, aok := a.(*assertion.Identifier)
	bi, bok := b.(*assertion.Identifier)
	if aok && bok && ai.Text == bi.Text {
		return k()
	}
	return false
}

func (s *Solver) unifyEVar(e *assertion.EVar, t assertion.AstNode, k func() bool) bool {
	if cur := e.Current(); cur != nil {
		return s.unify(cur, t, k)
	}
	if tv, ok := t.(*assertion.EVar); ok && tv == e {
		return k()
	}
	if s.occurs(e, t) {
		return false
	}
	mark := len(s.trail)
	s.bind(e, t)
	if k() {
		return true
	}
	s.undoTo(mark)
	return false
}

// matchFact tries every database fact against goal's five positions in
// turn, backtracking between candidates until one lets k succeed.
func (s *Solver) matchFact(goal *assertion.Fact, k func() bool) bool {
	for _, fact := range s.database {
		mark := len(s.trail)
		if s.unify(goal.Source, fact.Source, func() bool {
			return s.unify(goal.EdgeKind, fact.EdgeKind, func() bool {
				return s.unify(goal.Target, fact.Target, func() bool {
					return s.unify(goal.Key, fact.Key, func() bool {
						return s.unify(goal.Value, fact.Value, k)
					})
				})
			})
		}) {
			return true
		}
		s.undoTo(mark)
	}
	return false
}

func (s *Solver) solveGoal(g assertion.AstNode, k func() bool) bool {
	switch goal := g.(type) {
	case *assertion.Fact:
		return s.matchFact(goal, k)
	case *assertion.Equality:
		return s.unify(goal.LHS, goal.RHS, k)
	default:
		return false
	}
}

func (s *Solver) solveGoals(goals []assertion.AstNode, idx int, k func() bool) bool {
	if idx > s.highestGoal {
		s.highestGoal = idx
	}
	if idx == len(goals) {
		return k()
	}
	return s.solveGoal(goals[idx], func() bool {
		return s.solveGoals(goals, idx+1, k)
	})
}

// Diagnostics reports how far the search got, for error messages when
// Solve fails.
type Diagnostics struct {
	HighestGroup int
	HighestGoal  int
}

// Solve proves every kNoneMayFail group and disproves every kSomeMustFail
// group, in order, committing to each group's first solution (if any)
// before moving to the next. It stops at the first group whose policy is
// violated.
func (s *Solver) Solve(groups []*assertion.GoalGroup) (bool, Diagnostics) {
	highestGroup := 0
	for gi, group := range groups {
		highestGroup = gi
		s.highestGoal = 0
		mark := len(s.trail)
		succeeded := s.solveGoals(group.Goals, 0, func() bool { return true })
		switch group.Accept {
		case assertion.NoneMayFail:
			if !succeeded {
				s.undoTo(mark)
				return false, Diagnostics{HighestGroup: highestGroup, HighestGoal: s.highestGoal}
			}
		case assertion.SomeMustFail:
			if succeeded {
				s.undoTo(mark)
				return false, Diagnostics{HighestGroup: highestGroup, HighestGoal: s.highestGoal}
			}
		}
	}
	return true, Diagnostics{HighestGroup: highestGroup, HighestGoal: s.highestGoal}
}

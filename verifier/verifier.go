package verifier

import "github.com/xrefgraph/xref/assertion"

// InspectionResult is one inspection's post-solve binding, or the
// "unbound" diagnostic named in spec.md §4.H if the solver never bound
// its EVar.
type InspectionResult struct {
	ID     string
	Bound  bool
	Value  string
}

// Result is everything Run reports about one verification attempt.
type Result struct {
	Solved       bool
	Diagnostics  Diagnostics
	Inspections  []InspectionResult
}

// Run solves program's goal groups against database and performs every
// inspection afterward, matching verifier.cc's PerformInspection being
// called regardless of whether the group loop finished cleanly or exited
// early on a policy violation.
func Run(program *assertion.Program, database []DatabaseFact) Result {
	s := NewSolver(database)
	solved, diag := s.Solve(program.Groups)

	results := make([]InspectionResult, 0, len(program.Inspections))
	for _, insp := range program.Inspections {
		results = append(results, inspect(insp))
	}
	return Result{Solved: solved, Diagnostics: diag, Inspections: results}
}

func inspect(insp assertion.Inspection) InspectionResult {
	if cur := insp.Var.Current(); cur != nil {
		if id, ok := cur.(*assertion.Identifier); ok {
			return InspectionResult{ID: insp.ID, Bound: true, Value: id.Text}
		}
	}
	return InspectionResult{ID: insp.ID, Bound: false, Value: "unbound"}
}

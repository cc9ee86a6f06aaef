package verifier

import (
	"github.com/xrefgraph/xref/assertion"
	"github.com/xrefgraph/xref/factsink"
)

// DatabaseFact is one fact-sink record, lowered into the same flat
// five-position shape a goal Fact unifies against: every position is a
// ground assertion.Identifier (a VName's string form for Source/Target,
// the raw edge kind / property key / property value otherwise).
type DatabaseFact struct {
	Source, EdgeKind, Target, Key, Value *assertion.Identifier
}

func ident(text string) *assertion.Identifier { return &assertion.Identifier{Text: text} }

// FactsFromSink lowers every record a MemorySink collected into the
// database a Solver searches. Order is preserved but irrelevant to
// unification; only membership matters.
func FactsFromSink(sink *factsink.MemorySink) []DatabaseFact {
	records := sink.Records()
	facts := make([]DatabaseFact, len(records))
	for i, r := range records {
		target := ""
		if r.EdgeKind != "" {
			target = r.Target.String()
		}
		facts[i] = DatabaseFact{
			Source:   ident(r.Source.String()),
			EdgeKind: ident(r.EdgeKind),
			Target:   ident(target),
			Key:      ident(r.FactName),
			Value:    ident(string(r.FactValue)),
		}
	}
	return facts
}

package factsink

import (
	"sync"

	"github.com/xrefgraph/xref/graph"
)

// MemorySink buffers every Record it receives, in append order, for use
// by tests and by package verifier's fact database.
type MemorySink struct {
	mu      sync.Mutex
	records []Record
}

// NewMemorySink returns an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// Append stores r at the end of the buffered stream.
func (s *MemorySink) Append(r Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, r)
}

// Records returns a copy of every Record appended so far, in order.
func (s *MemorySink) Records() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// Len reports how many records have been appended.
func (s *MemorySink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// EmitFileContent satisfies filestack.ContentSink by rendering vname as a
// file node carrying content as its text property.
func (s *MemorySink) EmitFileContent(vname graph.VName, content []byte) {
	NewRecorder(s).AddFileContent(vname, content)
}

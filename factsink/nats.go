package factsink

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/c360studio/semstreams/component"
	"github.com/c360studio/semstreams/message"
	"github.com/c360studio/semstreams/natsclient"
	"github.com/google/uuid"
	"github.com/xrefgraph/xref/graph"
)

func init() {
	err := component.RegisterPayload(&component.PayloadRegistration{
		Domain:      "xref",
		Category:    "fact",
		Version:     "v1",
		Description: "Batch of cross-reference fact triples for one translation unit",
		Factory:     func() any { return &FactBatchPayload{} },
	})
	if err != nil {
		panic("failed to register FactBatchPayload: " + err.Error())
	}
}

// FactIngestSubject is the stream subject a NATSSink publishes batches of
// fact triples to, mirroring graph.GraphIngestSubject's role for the
// entity-ingest pipeline.
const FactIngestSubject = "xref.ingest.facts"

// FactSource tags every triple a NATSSink publishes.
const FactSource = "xref.extract"

// FactType is the message type for fact batch payloads.
var FactType = message.Type{Domain: "xref", Category: "fact", Version: "v1"}

// FactBatchPayload is the message format a NATSSink publishes: the
// sink's entity ID (cmd/xref passes the corpus name) carrying one batch
// of the triples recorded through the sink. Mirrors graph.EntityPayload.
type FactBatchPayload struct {
	EntityID_     string           `json:"id"`
	TripleData    []message.Triple `json:"triples"`
	UpdatedAt     time.Time        `json:"updated_at"`
	CorrelationID string           `json:"correlation_id"`
}

func (p *FactBatchPayload) EntityID() string          { return p.EntityID_ }
func (p *FactBatchPayload) Triples() []message.Triple { return p.TripleData }
func (p *FactBatchPayload) Schema() message.Type      { return FactType }

func (p *FactBatchPayload) Validate() error {
	if p.EntityID_ == "" {
		return errors.New("fact batch entity ID is required")
	}
	return nil
}

func (p *FactBatchPayload) MarshalJSON() ([]byte, error) {
	type Alias FactBatchPayload
	return json.Marshal((*Alias)(p))
}

func (p *FactBatchPayload) UnmarshalJSON(data []byte) error {
	type Alias FactBatchPayload
	return json.Unmarshal(data, (*Alias)(p))
}

// BatchLogger receives non-fatal batch errors a NATSSink swallows because
// Sink.Append cannot return an error.
type BatchLogger interface {
	Errorf(format string, args ...any)
}

type noopBatchLogger struct{}

func (noopBatchLogger) Errorf(string, ...any) {}

// NATSSink batches Records into FactBatch triples and publishes them to a
// JetStream subject, the way graph.PublishProposal batches a change's
// facts into one EntityIngestMessage. A NATSSink is safe for concurrent
// use.
type NATSSink struct {
	mu            sync.Mutex
	client        *natsclient.Client
	entityID      string
	batchSize     int
	pending       []message.Triple
	logger        BatchLogger
	correlationID string
}

// NewNATSSink returns a NATSSink that publishes triples under entityID
// (cmd/xref passes the corpus name) to client,
// flushing automatically once batchSize triples have accumulated. A nil
// client degrades gracefully: Append buffers but never publishes, the
// same nil-client behavior as graph.PublishProposal. batchSize <= 0
// defaults to 500. Every batch this sink publishes carries the same
// correlation ID, minted once here, so a downstream consumer can group
// every fact batch this sink emitted, across all the translation units
// recorded through it.
func NewNATSSink(client *natsclient.Client, entityID string, batchSize int, logger BatchLogger) *NATSSink {
	if batchSize <= 0 {
		batchSize = 500
	}
	if logger == nil {
		logger = noopBatchLogger{}
	}
	return &NATSSink{
		client:        client,
		entityID:      entityID,
		batchSize:     batchSize,
		logger:        logger,
		correlationID: uuid.NewString(),
	}
}

// Append renders r as a message.Triple and buffers it, flushing to NATS
// once the batch fills. Publish errors are logged, not returned, since
// Sink.Append has no error return; callers that need to observe the last
// flush should call Flush directly at a natural boundary (end of
// translation unit, stack empty).
func (s *NATSSink) Append(r Record) {
	s.mu.Lock()
	s.pending = append(s.pending, recordToTriple(r))
	full := len(s.pending) >= s.batchSize
	s.mu.Unlock()

	if full {
		if err := s.Flush(context.Background()); err != nil {
			s.logger.Errorf("factsink: flush fact batch: %v", err)
		}
	}
}

// Flush publishes any buffered triples immediately and clears the
// buffer, regardless of batch size.
func (s *NATSSink) Flush(ctx context.Context) error {
	s.mu.Lock()
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()

	if len(pending) == 0 {
		return nil
	}
	if s.client == nil {
		return nil // graceful degradation, matching graph.PublishProposal
	}

	payload := FactBatchPayload{
		EntityID_:     s.entityID,
		TripleData:    pending,
		UpdatedAt:     time.Now(),
		CorrelationID: s.correlationID,
	}
	data, err := json.Marshal(&payload)
	if err != nil {
		return fmt.Errorf("marshal fact batch: %w", err)
	}
	if err := s.client.PublishToStream(ctx, FactIngestSubject, data); err != nil {
		return fmt.Errorf("publish fact batch: %w", err)
	}
	return nil
}

// EmitFileContent satisfies filestack.ContentSink.
func (s *NATSSink) EmitFileContent(vname graph.VName, content []byte) {
	NewRecorder(s).AddFileContent(vname, content)
}

func recordToTriple(r Record) message.Triple {
	predicate := r.FactName
	object := string(r.FactValue)
	if r.EdgeKind != "" {
		predicate = r.EdgeKind
		object = r.Target.String()
	}
	return message.Triple{
		Subject:    r.Source.String(),
		Predicate:  predicate,
		Object:     object,
		Source:     FactSource,
		Timestamp:  time.Now(),
		Confidence: 1.0,
	}
}

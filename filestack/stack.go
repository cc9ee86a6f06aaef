// Package filestack tracks the preprocessor inclusion stack and the
// per-inclusion preprocessor context, the way KytheGraphObserver's
// file_stack_ and path_to_context_data_ do in the original indexer.
//
// Grounded on original_source/cxx/indexer/cxx/KytheGraphObserver.cc's
// pushFile/popFile and AddContextInformation.
package filestack

import (
	"errors"

	"github.com/xrefgraph/xref/claim"
	"github.com/xrefgraph/xref/graph"
	"github.com/xrefgraph/xref/location"
)

// ErrEmptyStack is returned by Pop when called on an empty stack — a
// BuilderInvariant violation. Callers must abort the current translation
// unit when they see this error.
var ErrEmptyStack = errors.New("filestack: pop called on an empty stack")

// FileState is one pushed inclusion's frame.
type FileState struct {
	FileID    graph.FileID
	BaseVName graph.VName // raw VName from the FileEntry, context-independent
	VName     graph.VName // BaseVName with Context prepended to its signature
	Context   string
	UID       UID
	Claimed   bool
	Token     *graph.ClaimToken
	Valid     bool // false for a builtin frame (invalid source_location)
}

// ContentSink receives a file's full content the first time this run
// claims it.
type ContentSink interface {
	EmitFileContent(vname graph.VName, content []byte)
}

// Logger receives diagnostics that do not fail indexing.
type Logger interface {
	Warnf(format string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Warnf(string, ...any) {}

// PushRequest carries everything Push needs to resolve one inclusion.
// The AST driver is responsible for resolving macro-expansion chains
// down to a concrete file location before calling Push; Valid=false
// signals a builtin frame with no backing file.
type PushRequest struct {
	FileID      graph.FileID
	Valid       bool
	BaseVName   graph.VName
	UID         UID
	Content     []byte // file bytes; read lazily by the driver, nil if unavailable
	BlameValid  bool   // whether the including location resolved to a file offset
	BlameOffset uint32
}

// Stack is the file/context stack for one translation unit. It is not
// safe for concurrent use: the observer core is single-threaded
// cooperative (spec §5).
type Stack struct {
	frames          []FileState
	byFileID        map[graph.FileID]FileState
	recordedFiles   map[UID]struct{}
	contexts        *ContextMap
	arbiter         *claim.Arbiter
	startingContext string
	sink            ContentSink
	logger          Logger
	warnedMisses    map[string]struct{}
}

// NewStack builds an empty Stack. startingContext is the PreprocessorContext
// the outermost pushed file begins in.
func NewStack(contexts *ContextMap, arbiter *claim.Arbiter, startingContext string, sink ContentSink, logger Logger) *Stack {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Stack{
		byFileID:        make(map[graph.FileID]FileState),
		recordedFiles:   make(map[UID]struct{}),
		contexts:        contexts,
		arbiter:         arbiter,
		startingContext: startingContext,
		sink:            sink,
		logger:          logger,
		warnedMisses:    make(map[string]struct{}),
	}
}

// Depth reports how many frames are currently pushed.
func (s *Stack) Depth() int { return len(s.frames) }

// Top returns the innermost pushed frame.
func (s *Stack) Top() (FileState, bool) {
	if len(s.frames) == 0 {
		return FileState{}, false
	}
	return s.frames[len(s.frames)-1], true
}

// Push computes req's context, amends its VName, asks the claim arbiter,
// and — on this run's first win for the underlying file — emits its
// content via the ContentSink. It pushes a new frame regardless of the
// claim outcome.
func (s *Stack) Push(req PushRequest) FileState {
	var previousContext string
	var previousUID UID
	hasPrevious := len(s.frames) > 0
	if hasPrevious {
		top := s.frames[len(s.frames)-1]
		previousContext = top.Context
		previousUID = top.UID
	}

	state := FileState{FileID: req.FileID, Valid: req.Valid, Claimed: true}

	if !req.Valid {
		// A builtin frame: no VName, no claim.
		state.Claimed = false
		s.push(state)
		return state
	}

	state.BaseVName = req.BaseVName
	state.VName = req.BaseVName
	state.UID = req.UID

	if !hasPrevious {
		state.Context = s.startingContext
	} else {
		state.Context = previousContext
		if previousContext != "" && req.BlameValid {
			if dest, ok := s.contexts.Lookup(previousUID, previousContext, req.BlameOffset); ok {
				state.Context = dest
			} else {
				s.warnContextMiss(previousUID, previousContext, req.BlameOffset)
			}
		}
	}

	state.VName.Signature = state.Context + state.BaseVName.Signature
	state.Claimed = s.arbiter.DecideFileClaim(req.FileID, state.VName)
	state.Token = &graph.ClaimToken{Discriminator: state.VName.String(), Base: state.VName}

	if state.Claimed {
		if _, already := s.recordedFiles[state.UID]; !already {
			s.recordedFiles[state.UID] = struct{}{}
			if s.sink != nil && req.Content != nil {
				s.sink.EmitFileContent(state.BaseVName, req.Content)
			}
		}
	}

	s.push(state)
	return state
}

func (s *Stack) push(state FileState) {
	s.frames = append(s.frames, state)
	s.byFileID[state.FileID] = state
}

// Pop removes the innermost frame and reports whether the stack has just
// become empty — the trigger for the observer's deferred-anchor flush.
func (s *Stack) Pop() (FileState, bool, error) {
	if len(s.frames) == 0 {
		return FileState{}, false, ErrEmptyStack
	}
	state := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	return state, len(s.frames) == 0, nil
}

// FileEntry resolves fileID to the file it was pushed under, consulting
// history across the whole run (pushed frames are never forgotten),
// satisfying location.FileEntryLookup.
func (s *Stack) FileEntry(fileID graph.FileID) (location.FileEntry, bool) {
	state, ok := s.byFileID[fileID]
	if !ok || !state.Valid {
		return location.FileEntry{}, false
	}
	return location.FileEntry{FileID: fileID, VName: state.BaseVName}, true
}

func (s *Stack) warnContextMiss(uid UID, context string, offset uint32) {
	key := string(uid) + "\x00" + context
	if _, warned := s.warnedMisses[key]; warned {
		return
	}
	s.warnedMisses[key] = struct{}{}
	s.logger.Warnf("filestack: context miss for %s[%s]:%d, continuing with previous context", uid, context, offset)
}

package astdriver

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchConfig configures a Watcher.
type WatchConfig struct {
	// RepoRoot is the tree the watcher recurses into.
	RepoRoot string

	// DebounceDelay is how long to wait for more changes before
	// re-indexing a file. Zero means 100ms.
	DebounceDelay time.Duration

	Logger *slog.Logger
}

// WatchOperation indicates the type of file change a WatchEvent reports.
type WatchOperation string

const (
	OpCreate WatchOperation = "create"
	OpModify WatchOperation = "modify"
	OpDelete WatchOperation = "delete"
)

// WatchEvent is emitted once per changed translation unit after
// debouncing settles.
type WatchEvent struct {
	Path      string
	Operation WatchOperation
	Result    *IndexResult // nil for OpDelete, or if indexing failed
	Error     error
}

// Watcher drives a Driver from a live directory tree, the way
// processor/ast/watcher.go drives a Parser: fsnotify watches every
// directory, changes debounce on a ticker, and each settled file is
// re-indexed and compared against its last content hash before an event
// is emitted.
type Watcher struct {
	config  WatchConfig
	driver  *Driver
	watcher *fsnotify.Watcher
	logger  *slog.Logger

	pendingMu sync.Mutex
	pending   map[string]fsnotify.Op

	hashMu sync.RWMutex
	hashes map[string]string

	events chan WatchEvent
}

// NewWatcher builds a Watcher that feeds driver.
func NewWatcher(driver *Driver, config WatchConfig) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if config.DebounceDelay == 0 {
		config.DebounceDelay = 100 * time.Millisecond
	}

	return &Watcher{
		config:  config,
		driver:  driver,
		watcher: fsw,
		logger:  logger,
		pending: make(map[string]fsnotify.Op),
		hashes:  make(map[string]string),
		events:  make(chan WatchEvent, 100),
	}, nil
}

// Events returns the channel of settled watch events.
func (w *Watcher) Events() <-chan WatchEvent {
	return w.events
}

// Start begins watching the configured tree. The caller should call
// IndexDirectory first to seed the hash cache from the tree's current
// state, otherwise the first edit to every file will be reported as a
// create.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.addWatchesRecursive(w.config.RepoRoot); err != nil {
		return err
	}
	go w.processEvents(ctx)
	w.logger.Info("ast watcher started", "root", w.config.RepoRoot, "debounce", w.config.DebounceDelay)
	return nil
}

// Stop closes the event channel and the underlying fsnotify watcher.
func (w *Watcher) Stop() error {
	close(w.events)
	return w.watcher.Close()
}

func (w *Watcher) setHash(path, hash string) {
	w.hashMu.Lock()
	defer w.hashMu.Unlock()
	w.hashes[path] = hash
}

func (w *Watcher) getHash(path string) (string, bool) {
	w.hashMu.RLock()
	defer w.hashMu.RUnlock()
	h, ok := w.hashes[path]
	return h, ok
}

func contentHash(content []byte) string {
	h := sha256.Sum256(content)
	return hex.EncodeToString(h[:8])
}

func (w *Watcher) addWatchesRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		base := filepath.Base(path)
		if base == "build" || base == "cmake-build-debug" || strings.HasPrefix(base, ".") {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			w.logger.Warn("failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
}

func (w *Watcher) processEvents(ctx context.Context) {
	ticker := time.NewTicker(w.config.DebounceDelay)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFSEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("watcher error", "error", err)
		case <-ticker.C:
			w.flushPending(ctx)
		}
	}
}

func (w *Watcher) handleFSEvent(event fsnotify.Event) {
	path := event.Name
	if !IsTargetFile(path) {
		if event.Has(fsnotify.Create) {
			if info, err := os.Stat(path); err == nil && info.IsDir() {
				w.handleNewDirectory(path)
			}
		}
		return
	}

	w.pendingMu.Lock()
	w.pending[path] = event.Op
	w.pendingMu.Unlock()
}

func (w *Watcher) handleNewDirectory(path string) {
	base := filepath.Base(path)
	if base == "build" || base == "cmake-build-debug" || strings.HasPrefix(base, ".") {
		return
	}
	if err := w.watcher.Add(path); err != nil {
		w.logger.Warn("failed to watch new directory", "path", path, "error", err)
	}
}

func (w *Watcher) flushPending(ctx context.Context) {
	w.pendingMu.Lock()
	if len(w.pending) == 0 {
		w.pendingMu.Unlock()
		return
	}
	toProcess := make(map[string]fsnotify.Op, len(w.pending))
	for k, v := range w.pending {
		toProcess[k] = v
	}
	w.pending = make(map[string]fsnotify.Op)
	w.pendingMu.Unlock()

	for path, op := range toProcess {
		select {
		case <-ctx.Done():
			return
		default:
		}

		relPath, err := filepath.Rel(w.config.RepoRoot, path)
		if err != nil {
			relPath = path
		}
		event := WatchEvent{Path: relPath}

		if op.Has(fsnotify.Remove) || op.Has(fsnotify.Rename) {
			event.Operation = OpDelete
			w.hashMu.Lock()
			delete(w.hashes, relPath)
			w.hashMu.Unlock()
			w.sendEvent(event)
			continue
		}

		content, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				event.Operation = OpDelete
				w.sendEvent(event)
				continue
			}
			event.Error = err
			w.sendEvent(event)
			continue
		}

		hash := contentHash(content)
		oldHash, hadHash := w.getHash(relPath)
		if hadHash && oldHash == hash {
			continue
		}

		result, err := w.driver.IndexFile(ctx, path)
		if err != nil {
			event.Error = err
			w.sendEvent(event)
			continue
		}

		w.setHash(relPath, hash)
		if op.Has(fsnotify.Create) || !hadHash {
			event.Operation = OpCreate
		} else {
			event.Operation = OpModify
		}
		event.Result = result
		w.sendEvent(event)
	}
}

func (w *Watcher) sendEvent(event WatchEvent) {
	select {
	case w.events <- event:
	default:
		w.logger.Warn("watch event channel full, dropping event", "path", event.Path)
	}
}

// IndexDirectory performs an initial full index of the watched tree and
// seeds the hash cache so the live watch loop only reports real changes.
func (w *Watcher) IndexDirectory(ctx context.Context) ([]*IndexResult, error) {
	var results []*IndexResult
	err := filepath.Walk(w.config.RepoRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			base := filepath.Base(path)
			if base == "build" || base == "cmake-build-debug" || strings.HasPrefix(base, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsTargetFile(path) {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		result, err := w.driver.IndexFile(ctx, path)
		if err != nil {
			return nil
		}
		relPath, err := filepath.Rel(w.config.RepoRoot, path)
		if err != nil {
			relPath = path
		}
		w.setHash(relPath, contentHash(content))
		results = append(results, result)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

package astdriver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/cpp"

	"github.com/xrefgraph/xref/filestack"
	"github.com/xrefgraph/xref/graph"
	"github.com/xrefgraph/xref/observer"
)

// Driver feeds one observer.GraphObserver from a sequence of C/C++
// translation units. A Driver owns the monotonic FileID counter the file
// stack needs to tell repeat inclusions of the same on-disk file apart;
// callers index one file at a time through IndexFile or an entire tree
// through IndexDirectory.
type Driver struct {
	obs      observer.GraphObserver
	corpus   string
	repoRoot string

	nextFileID uint64
}

// NewDriver builds a Driver that reports every node's corpus as corpus
// and resolves paths relative to repoRoot.
func NewDriver(obs observer.GraphObserver, corpus, repoRoot string) *Driver {
	return &Driver{obs: obs, corpus: corpus, repoRoot: repoRoot}
}

// IndexResult summarizes what one IndexFile call extracted.
type IndexResult struct {
	Path      string
	Functions int
	Records   int
	Enums     int
	Variables int
}

// IndexFile parses path as a single translation unit and drives the
// observer with every entity and reference tree-sitter's cpp grammar
// surfaces. The file is pushed and popped exactly once: astdriver models
// no macro-expansion chain, so every declaration in the file is treated
// as belonging to that file's single top-level preprocessor context.
func (d *Driver) IndexFile(ctx context.Context, path string) (*IndexResult, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	relPath, err := filepath.Rel(d.repoRoot, path)
	if err != nil {
		relPath = path
	}

	parser := sitter.NewParser()
	parser.SetLanguage(cpp.GetLanguage())
	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	defer tree.Close()

	d.nextFileID++
	fileID := graph.FileID(d.nextFileID)
	baseVName := graph.VName{Corpus: d.corpus, Path: relPath, Language: "c++"}
	state := d.obs.PushFile(filestack.PushRequest{
		FileID:    fileID,
		Valid:     true,
		BaseVName: baseVName,
		UID:       filestack.UID(relPath),
		Content:   content,
	})

	w := &walker{
		obs:     d.obs,
		tok:     state.Token,
		fileID:  state.FileID,
		source:  content,
		result:  &IndexResult{Path: relPath},
		calleeR: make(map[string]bool),
	}
	w.walkTranslationUnit(tree.RootNode())

	if _, _, err := d.obs.PopFile(); err != nil {
		return nil, fmt.Errorf("pop file: %w", err)
	}
	return w.result, nil
}

// IndexDirectory walks dirPath and indexes every C/C++ translation unit
// it finds, in the order filepath.Walk visits them. Headers with a
// recognized extension are indexed as translation units of their own,
// whether or not any file includes them: astdriver has no preprocessor,
// so an #include never pulls the included file into the including unit.
func (d *Driver) IndexDirectory(ctx context.Context, dirPath string) ([]*IndexResult, error) {
	var results []*IndexResult
	err := filepath.Walk(dirPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
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
		result, err := d.IndexFile(ctx, path)
		if err != nil {
			return nil
		}
		results = append(results, result)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}
	return results, nil
}

// IsTargetFile reports whether path names a C or C++ translation unit or
// header by extension.
func IsTargetFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".c", ".cc", ".cpp", ".cxx", ".h", ".hh", ".hpp", ".hxx":
		return true
	}
	return false
}

// Package filesystem loads text corpora from local files and
// directories, splitting them into chunks ready for indexing.
package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/quarrylabs/strata-cli/internal/core/domain"
	"github.com/quarrylabs/strata-cli/internal/core/ports/driven"
	"github.com/quarrylabs/strata-cli/internal/logger"
)

// Ensure Loader implements the interface.
var _ driven.DocumentLoader = (*Loader)(nil)

// supportedExtensions lists the file types the loader reads. Other
// files are silently skipped during directory walks.
var supportedExtensions = map[string]struct{}{
	".txt": {},
	".md":  {},
	".csv": {},
}

// Loader reads documents from the local filesystem.
type Loader struct {
	splitter *Splitter
}

// Option configures the loader.
type Option func(*Loader)

// WithSplitter replaces the default text splitter.
func WithSplitter(s *Splitter) Option {
	return func(l *Loader) {
		if s != nil {
			l.splitter = s
		}
	}
}

// NewLoader creates a filesystem loader with the given options.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		splitter: NewSplitter(DefaultChunkSize, DefaultChunkOverlap),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Load reads the file or directory at path and returns document
// chunks in a stable order. Files that fail to read are logged and
// skipped; only a missing root path is an error.
func (l *Loader) Load(ctx context.Context, path string) ([]domain.Document, error) {
	path = ResolvePath(path)

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("open corpus path: %w", err)
	}

	if !info.IsDir() {
		return l.loadFile(path)
	}

	docs := []domain.Document{}
	walkErr := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Error("Skipping %s: %v", p, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			// Hidden directories are not part of the corpus.
			if p != path && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			return nil
		}

		fileDocs, err := l.loadFile(p)
		if err != nil {
			logger.Error("Skipping %s: %v", p, err)
			return nil
		}
		docs = append(docs, fileDocs...)
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("walk corpus: %w", walkErr)
	}

	return docs, nil
}

// loadFile reads one file and splits it into chunk documents. Files
// with unsupported extensions produce no documents and no error.
func (l *Loader) loadFile(path string) ([]domain.Document, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := supportedExtensions[ext]; !ok {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	splits := l.splitter.Split(string(data))
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	docs := make([]domain.Document, 0, len(splits))
	for i, content := range splits {
		docs = append(docs, domain.Document{
			ID:      fmt.Sprintf("%s_%d", stem, i),
			Content: content,
			Metadata: map[string]any{
				domain.MetadataKeySource: path,
				"chunk_id":               i,
				"total_chunks":           len(splits),
			},
		})
	}

	return docs, nil
}

// ResolvePath converts a corpus path argument to a local filesystem
// path. Handles file:// URIs and bare paths.
func ResolvePath(path string) string {
	if strings.HasPrefix(path, "file://") {
		return strings.TrimPrefix(path, "file://")
	}
	// Bare paths pass through unchanged
	return path
}

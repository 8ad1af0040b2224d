// Package snapshot persists the engine state as one consistent on-disk
// snapshot: a document database, a vector index artifact and a graph
// artifact, committed by a manifest written last. A directory without a
// manifest is treated as having no snapshot regardless of leftover
// artifact files.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/quarrylabs/strata-cli/internal/core/domain"
	"github.com/quarrylabs/strata-cli/internal/core/ports/driven"
	"github.com/quarrylabs/strata-cli/internal/logger"
)

// Artifact file names inside the snapshot directory.
const (
	manifestFile  = "manifest.toml"
	documentsFile = "documents.db"
	vectorsFile   = "vectors.bin"
	graphFile     = "graph.json"
)

// Store reads and writes engine snapshots under one directory.
type Store struct {
	dir string
}

var _ driven.SnapshotStore = (*Store)(nil)

// NewStore creates a snapshot store rooted at dir. If dir is empty,
// defaults to ~/.strata/index.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, ".strata", "index")
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating snapshot directory: %w", err)
	}

	return &Store{dir: dir}, nil
}

// Dir returns the snapshot directory.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes the snapshot's artifacts and commits them with the
// manifest. The manifest is removed first and written last, so a
// crash mid-save leaves the directory uncommitted rather than
// half-updated under a stale manifest.
func (s *Store) Save(ctx context.Context, snap *domain.Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}

	if err := os.Remove(s.path(manifestFile)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing stale manifest: %w", err)
	}

	if err := writeDocuments(ctx, s.path(documentsFile), snap.Documents); err != nil {
		return fmt.Errorf("writing documents: %w", err)
	}

	if snap.HasVectorIndex() {
		if err := writeVectors(s.path(vectorsFile), snap); err != nil {
			return fmt.Errorf("writing vector index: %w", err)
		}
	} else if err := removeIfExists(s.path(vectorsFile)); err != nil {
		return err
	}

	if snap.HasGraph() {
		if err := writeGraph(s.path(graphFile), snap.Nodes, snap.Edges); err != nil {
			return fmt.Errorf("writing graph: %w", err)
		}
	} else if err := removeIfExists(s.path(graphFile)); err != nil {
		return err
	}

	manifest := newManifest(snap)
	if err := writeManifest(s.path(manifestFile), manifest); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}

	logger.Debug("Snapshot %s committed to %s", manifest.SnapshotID, s.dir)
	return nil
}

// Load reads the committed snapshot. Returns domain.ErrNotFound when no
// manifest exists, and domain.ErrCorruptIndex when the manifest promises
// artifacts that are missing, unreadable or referentially inconsistent.
func (s *Store) Load(ctx context.Context) (*domain.Snapshot, error) {
	manifest, err := readManifest(s.path(manifestFile))
	if err != nil {
		return nil, err
	}

	snap := &domain.Snapshot{}

	snap.Documents, err = readDocuments(ctx, s.path(documentsFile))
	if err != nil {
		return nil, fmt.Errorf("reading documents: %w", err)
	}

	if manifest.HasVectorIndex {
		if err := readVectors(s.path(vectorsFile), snap); err != nil {
			return nil, fmt.Errorf("reading vector index: %w", err)
		}
	}

	if manifest.HasGraph {
		snap.Nodes, snap.Edges, err = readGraph(s.path(graphFile))
		if err != nil {
			return nil, fmt.Errorf("reading graph: %w", err)
		}
	}

	if err := snap.Validate(); err != nil {
		return nil, err
	}

	logger.Debug("Snapshot %s loaded from %s", manifest.SnapshotID, s.dir)
	return snap, nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name)
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing %s: %w", filepath.Base(path), err)
	}
	return nil
}

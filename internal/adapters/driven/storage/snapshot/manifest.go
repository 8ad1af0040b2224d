package snapshot

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"

	"github.com/quarrylabs/strata-cli/internal/core/domain"
)

// manifestVersion is the current manifest schema version.
const manifestVersion = 1

// manifest commits a snapshot: it records which artifacts belong to it
// and is only written once they are all on disk.
type manifest struct {
	Version        int       `toml:"version"`
	SnapshotID     string    `toml:"snapshot_id"`
	CreatedAt      time.Time `toml:"created_at"`
	DocumentCount  int       `toml:"document_count"`
	HasVectorIndex bool      `toml:"has_vector_index"`
	HasGraph       bool      `toml:"has_graph"`
}

func newManifest(snap *domain.Snapshot) manifest {
	return manifest{
		Version:        manifestVersion,
		SnapshotID:     uuid.New().String(),
		CreatedAt:      time.Now().UTC(),
		DocumentCount:  len(snap.Documents),
		HasVectorIndex: snap.HasVectorIndex(),
		HasGraph:       snap.HasGraph(),
	}
}

func writeManifest(path string, m manifest) error {
	data, err := toml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshalling manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing manifest file: %w", err)
	}
	return nil
}

// readManifest maps a missing manifest to domain.ErrNotFound and an
// unparseable or unsupported one to domain.ErrCorruptIndex.
func readManifest(path string) (manifest, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return manifest{}, domain.ErrNotFound
	}
	if err != nil {
		return manifest{}, fmt.Errorf("reading manifest file: %w", err)
	}

	var m manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return manifest{}, fmt.Errorf("%w: manifest: %v", domain.ErrCorruptIndex, err)
	}
	if m.Version != manifestVersion {
		return manifest{}, fmt.Errorf("%w: unsupported manifest version %d",
			domain.ErrCorruptIndex, m.Version)
	}
	return m, nil
}

package driven

import (
	"context"

	"github.com/quarrylabs/strata-cli/internal/core/domain"
)

// SnapshotStore persists the engine's three coupled artifacts -
// documents, vector rows, graph - as one logical unit under a single
// storage root.
type SnapshotStore interface {
	// Save writes the snapshot. Components the snapshot does not carry
	// are recorded as absent rather than persisted empty.
	Save(ctx context.Context, snap *domain.Snapshot) error

	// Load reads the snapshot back and verifies referential integrity,
	// failing with domain.ErrCorruptIndex on violation and
	// domain.ErrNotFound when no snapshot exists. Individual missing
	// artifacts are tolerated: the corresponding component is restored
	// as "not built".
	Load(ctx context.Context) (*domain.Snapshot, error)
}

package driven

import (
	"context"

	"github.com/quarrylabs/strata-cli/internal/core/domain"
)

// DocumentLoader reads source files and produces ready-made document
// chunks with content and source metadata populated.
//
// Loading is best effort: a file that fails to load is logged and
// skipped so one bad file does not abort the whole corpus load.
type DocumentLoader interface {
	// Load reads the file or directory at path and returns document
	// chunks in a stable order.
	Load(ctx context.Context, path string) ([]domain.Document, error)
}

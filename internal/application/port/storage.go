package port

import (
	"context"

	"github.com/CORAZONPERFECTO/hecho-docs/internal/domain/entity"
)

// FileFetcher retrieves remote evidence and logo files.
// One fetch at a time; failures are never retried (the renderers degrade
// in place instead).
type FileFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// ArtifactStore persists a rendered artifact and its metadata row.
// Used when the caller asks for storage instead of a direct download.
type ArtifactStore interface {
	Store(ctx context.Context, artifact *entity.RenderedArtifact, meta entity.ExportRecord) (*entity.ExportRecord, error)
}

// Package bundle packs evidence attachments into a single compressed
// archive for bulk download.
package bundle

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"path"

	"go.uber.org/zap"

	"github.com/CORAZONPERFECTO/hecho-docs/internal/application/port"
	"github.com/CORAZONPERFECTO/hecho-docs/internal/domain/entity"
	"github.com/CORAZONPERFECTO/hecho-docs/pkg/utils"
)

// Bundler fetches evidence files sequentially and zips them under a
// folder named after the ticket. A failed fetch skips that one file;
// the bundle as a whole still succeeds.
type Bundler struct {
	fetcher port.FileFetcher
	logger  *zap.Logger
}

// NewBundler creates a new archive bundler
func NewBundler(fetcher port.FileFetcher, logger *zap.Logger) *Bundler {
	return &Bundler{
		fetcher: fetcher,
		logger:  logger,
	}
}

// Result reports what ended up in the archive
type Result struct {
	Artifact *entity.RenderedArtifact
	Included int
	Skipped  int
}

// Bundle fetches every record's file and returns the zip artifact.
// It only fails when not a single file could be archived or the archive
// itself cannot be finalized.
func (b *Bundler) Bundle(ctx context.Context, records []entity.EvidenceRecord, ticketNumber string) (*Result, error) {
	folder := "evidencias"
	if ticketNumber != "" {
		folder = utils.SanitizeFileToken(ticketNumber)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	seen := make(map[string]int)
	included, skipped := 0, 0
	for _, rec := range records {
		data, err := b.fetcher.Fetch(ctx, rec.FileURL)
		if err != nil {
			b.logger.Warn("Skipping attachment that failed to fetch",
				zap.Int64("evidence_id", rec.ID),
				zap.String("file_name", rec.FileName),
				zap.Error(err))
			skipped++
			continue
		}

		name := uniqueName(seen, rec.FileName)
		w, err := zw.Create(path.Join(folder, name))
		if err != nil {
			zw.Close()
			return nil, fmt.Errorf("failed to create archive entry %s: %w", name, err)
		}
		if _, err := w.Write(data); err != nil {
			zw.Close()
			return nil, fmt.Errorf("failed to write archive entry %s: %w", name, err)
		}
		included++
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize archive: %w", err)
	}
	if included == 0 && len(records) > 0 {
		return nil, fmt.Errorf("no attachment could be fetched for the bundle")
	}

	b.logger.Info("Evidence bundle assembled",
		zap.String("ticket_number", ticketNumber),
		zap.Int("included", included),
		zap.Int("skipped", skipped))

	return &Result{
		Artifact: &entity.RenderedArtifact{
			Data:     buf.Bytes(),
			FileName: utils.EvidenceBundleFilename(ticketNumber),
			MimeType: "application/zip",
		},
		Included: included,
		Skipped:  skipped,
	}, nil
}

// uniqueName suffixes duplicate filenames so archive members never
// overwrite each other
func uniqueName(seen map[string]int, name string) string {
	count := seen[name]
	seen[name] = count + 1
	if count == 0 {
		return name
	}
	ext := path.Ext(name)
	base := name[:len(name)-len(ext)]
	return fmt.Sprintf("%s_%d%s", base, count, ext)
}

package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/CORAZONPERFECTO/hecho-docs/internal/application/port"
	"github.com/CORAZONPERFECTO/hecho-docs/internal/domain/entity"
)

// ArtifactStore implements port.ArtifactStore against the local
// filesystem plus an exports metadata table
type ArtifactStore struct {
	baseDir string
	exports port.ExportRepository
	logger  *zap.Logger
}

// NewArtifactStore creates a new artifact store rooted at baseDir
func NewArtifactStore(baseDir string, exports port.ExportRepository, logger *zap.Logger) port.ArtifactStore {
	return &ArtifactStore{
		baseDir: baseDir,
		exports: exports,
		logger:  logger,
	}
}

// Store writes the artifact under <baseDir>/<yyyy-mm>/<id>_<name> and
// records an export metadata row. The blob and its row are written
// together; a failed row insert removes the blob again so the caller
// never sees a half-stored export.
func (s *ArtifactStore) Store(ctx context.Context, artifact *entity.RenderedArtifact, meta entity.ExportRecord) (*entity.ExportRecord, error) {
	if artifact == nil || len(artifact.Data) == 0 {
		return nil, fmt.Errorf("empty artifact")
	}

	meta.ID = uuid.NewString()
	meta.FileName = artifact.FileName
	meta.FileSize = artifact.Size()
	meta.CreatedAt = time.Now()

	relPath := filepath.Join(meta.CreatedAt.Format("2006-01"), meta.ID+"_"+artifact.FileName)
	fullPath := filepath.Join(s.baseDir, relPath)
	if err := s.validatePath(fullPath); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		s.logger.Error("Failed to create export directory",
			zap.String("path", filepath.Dir(fullPath)),
			zap.Error(err))
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	if err := os.WriteFile(fullPath, artifact.Data, 0644); err != nil {
		s.logger.Error("Failed to write artifact",
			zap.String("path", fullPath),
			zap.Error(err))
		return nil, fmt.Errorf("failed to write artifact: %w", err)
	}

	meta.FilePath = relPath
	if err := s.exports.Create(ctx, &meta); err != nil {
		_ = os.Remove(fullPath)
		return nil, fmt.Errorf("failed to record export metadata: %w", err)
	}

	s.logger.Info("Artifact stored",
		zap.String("id", meta.ID),
		zap.String("file_name", meta.FileName),
		zap.Int64("size", meta.FileSize))

	return &meta, nil
}

// validatePath rejects paths that escape the base directory
func (s *ArtifactStore) validatePath(fullPath string) error {
	absBase, err := filepath.Abs(s.baseDir)
	if err != nil {
		return fmt.Errorf("failed to resolve base dir: %w", err)
	}
	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}
	if !strings.HasPrefix(absPath, absBase+string(os.PathSeparator)) {
		return fmt.Errorf("path escapes storage root: %s", fullPath)
	}
	return nil
}

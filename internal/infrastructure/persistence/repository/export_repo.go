package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/CORAZONPERFECTO/hecho-docs/internal/application/port"
	"github.com/CORAZONPERFECTO/hecho-docs/internal/domain/entity"
)

// ExportRepository implements port.ExportRepository
type ExportRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewExportRepository creates a new export repository
func NewExportRepository(db *sql.DB, logger *zap.Logger) port.ExportRepository {
	return &ExportRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts an export metadata row
func (r *ExportRepository) Create(ctx context.Context, rec *entity.ExportRecord) error {
	query := `
		INSERT INTO exports (
			id, report_type, file_name, file_path, file_size,
			generated_by, description, metadata, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, query,
		rec.ID,
		rec.ReportType,
		rec.FileName,
		rec.FilePath,
		rec.FileSize,
		rec.GeneratedBy,
		rec.Description,
		rec.Metadata,
		rec.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create export record",
			zap.String("file_name", rec.FileName),
			zap.Error(err))
		return fmt.Errorf("failed to create export record: %w", err)
	}

	return nil
}

// List returns export records newest first
func (r *ExportRepository) List(ctx context.Context, limit, offset int) ([]entity.ExportRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, report_type, file_name, file_path, file_size,
			generated_by, COALESCE(description, ''), COALESCE(metadata, ''), created_at
		FROM exports
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list export records", zap.Error(err))
		return nil, fmt.Errorf("failed to list export records: %w", err)
	}
	defer rows.Close()

	var records []entity.ExportRecord
	for rows.Next() {
		var rec entity.ExportRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.ReportType,
			&rec.FileName,
			&rec.FilePath,
			&rec.FileSize,
			&rec.GeneratedBy,
			&rec.Description,
			&rec.Metadata,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan export record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate export records: %w", err)
	}
	return records, nil
}

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/CORAZONPERFECTO/hecho-docs/internal/application/port"
	"github.com/CORAZONPERFECTO/hecho-docs/internal/domain/entity"
)

// EvidenceRepository implements port.EvidenceRepository
type EvidenceRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewEvidenceRepository creates a new evidence repository
func NewEvidenceRepository(db *sql.DB, logger *zap.Logger) port.EvidenceRepository {
	return &EvidenceRepository{
		db:     db,
		logger: logger,
	}
}

const evidenceColumns = `
	id, file_url, file_name, file_type,
	COALESCE(description, '') AS description,
	uploaded_by,
	COALESCE(manual_rotation, 0) AS manual_rotation,
	created_at
`

// ListByIDs returns the records for the given IDs ordered by created_at ascending
func (r *EvidenceRepository) ListByIDs(ctx context.Context, ids []int64) ([]entity.EvidenceRecord, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM evidence_records
		WHERE id IN (%s)
		ORDER BY created_at ASC, id ASC
	`, evidenceColumns, strings.Join(placeholders, ","))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list evidence by ids", zap.Error(err))
		return nil, fmt.Errorf("failed to list evidence records: %w", err)
	}
	defer rows.Close()

	return scanEvidenceRows(rows)
}

// ListByTicket returns every record for a ticket ordered by created_at
// ascending; an empty ticket number returns all records
func (r *EvidenceRepository) ListByTicket(ctx context.Context, ticketNumber string) ([]entity.EvidenceRecord, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM evidence_records
		WHERE (? = '' OR ticket_number = ?)
		ORDER BY created_at ASC, id ASC
	`, evidenceColumns)

	rows, err := r.db.QueryContext(ctx, query, ticketNumber, ticketNumber)
	if err != nil {
		r.logger.Error("Failed to list evidence by ticket",
			zap.String("ticket_number", ticketNumber),
			zap.Error(err))
		return nil, fmt.Errorf("failed to list evidence records: %w", err)
	}
	defer rows.Close()

	return scanEvidenceRows(rows)
}

func scanEvidenceRows(rows *sql.Rows) ([]entity.EvidenceRecord, error) {
	var records []entity.EvidenceRecord
	for rows.Next() {
		var rec entity.EvidenceRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.FileURL,
			&rec.FileName,
			&rec.FileType,
			&rec.Description,
			&rec.UploadedBy,
			&rec.ManualRotation,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan evidence record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate evidence records: %w", err)
	}
	return records, nil
}

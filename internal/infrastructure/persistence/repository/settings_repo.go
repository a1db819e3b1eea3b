package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/CORAZONPERFECTO/hecho-docs/internal/application/port"
	"github.com/CORAZONPERFECTO/hecho-docs/internal/domain/entity"
)

// SettingsRepository implements port.SettingsRepository
type SettingsRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *sql.DB, logger *zap.Logger) port.SettingsRepository {
	return &SettingsRepository{
		db:     db,
		logger: logger,
	}
}

// GetCompanyInfo reads the single company_settings row. The error is
// returned so callers can fall back to entity.DefaultCompanyInfo; this
// repository never substitutes defaults itself.
func (r *SettingsRepository) GetCompanyInfo(ctx context.Context) (entity.CompanyInfo, error) {
	query := `
		SELECT name, address, phone, email,
			COALESCE(logo_url, ''), COALESCE(bank_info, ''), COALESCE(tax_id, '')
		FROM company_settings
		WHERE id = 1
	`

	var info entity.CompanyInfo
	err := r.db.QueryRowContext(ctx, query).Scan(
		&info.Name,
		&info.Address,
		&info.Phone,
		&info.Email,
		&info.LogoURL,
		&info.BankInfo,
		&info.TaxID,
	)
	if err != nil {
		if err != sql.ErrNoRows {
			r.logger.Error("Failed to read company settings", zap.Error(err))
		}
		return entity.CompanyInfo{}, fmt.Errorf("failed to read company settings: %w", err)
	}

	return info, nil
}

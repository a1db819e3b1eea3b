package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/CORAZONPERFECTO/hecho-docs/internal/application/port"
	"github.com/CORAZONPERFECTO/hecho-docs/internal/bundle"
	"github.com/CORAZONPERFECTO/hecho-docs/internal/domain/entity"
)

// BundleRequest selects the evidence files to archive. IDs win over the
// ticket number when both are present.
type BundleRequest struct {
	EvidenceIDs  []int64
	TicketNumber string
}

// BundleService packs evidence files into downloadable archives
type BundleService interface {
	Bundle(ctx context.Context, req BundleRequest) (*bundle.Result, error)
}

type bundleServiceImpl struct {
	evidence port.EvidenceRepository
	bundler  *bundle.Bundler
	logger   *zap.Logger
}

// NewBundleService creates a new BundleService
func NewBundleService(evidence port.EvidenceRepository, bundler *bundle.Bundler, logger *zap.Logger) BundleService {
	return &bundleServiceImpl{
		evidence: evidence,
		bundler:  bundler,
		logger:   logger,
	}
}

// Bundle re-reads the selected evidence rows and archives their files
func (s *bundleServiceImpl) Bundle(ctx context.Context, req BundleRequest) (*bundle.Result, error) {
	var (
		records []entity.EvidenceRecord
		err     error
	)
	if len(req.EvidenceIDs) > 0 {
		records, err = s.evidence.ListByIDs(ctx, req.EvidenceIDs)
	} else {
		records, err = s.evidence.ListByTicket(ctx, req.TicketNumber)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load evidence records: %w", err)
	}

	s.logger.Info("Bundling evidence files",
		zap.String("ticket_number", req.TicketNumber),
		zap.Int("records", len(records)))

	return s.bundler.Bundle(ctx, records, req.TicketNumber)
}

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/CORAZONPERFECTO/hecho-docs/internal/application/port"
	"github.com/CORAZONPERFECTO/hecho-docs/internal/domain/entity"
	renderdocx "github.com/CORAZONPERFECTO/hecho-docs/internal/render/docx"
	renderpdf "github.com/CORAZONPERFECTO/hecho-docs/internal/render/pdf"
)

// ReportFormat selects the evidence report output format
type ReportFormat string

// Supported evidence report formats
const (
	ReportFormatPDF  ReportFormat = "pdf"
	ReportFormatDocx ReportFormat = "docx"
)

// ReportRequest describes one evidence report render call
type ReportRequest struct {
	EvidenceIDs []int64
	Meta        entity.ReportMetadata
	Format      ReportFormat
	// Store persists the artifact through the export store instead of
	// returning it for direct download only
	Store       bool
	GeneratedBy string
}

// ReportService renders evidence reports
type ReportService interface {
	Render(ctx context.Context, req ReportRequest) (*entity.RenderedArtifact, *entity.ExportRecord, error)
}

type reportServiceImpl struct {
	evidence port.EvidenceRepository
	settings port.SettingsRepository
	fetcher  port.FileFetcher
	pdf      *renderpdf.EvidenceRenderer
	docx     *renderdocx.EvidenceRenderer
	store    port.ArtifactStore
	logger   *zap.Logger
}

// NewReportService creates a new ReportService
func NewReportService(
	evidence port.EvidenceRepository,
	settings port.SettingsRepository,
	fetcher port.FileFetcher,
	pdf *renderpdf.EvidenceRenderer,
	docx *renderdocx.EvidenceRenderer,
	store port.ArtifactStore,
	logger *zap.Logger,
) ReportService {
	return &reportServiceImpl{
		evidence: evidence,
		settings: settings,
		fetcher:  fetcher,
		pdf:      pdf,
		docx:     docx,
		store:    store,
		logger:   logger,
	}
}

// Render re-fetches the evidence rows, renders the requested format and
// optionally persists the artifact. The records are always re-read
// immediately before layout so edited descriptions are never stale.
// When no explicit IDs are given the ticket number scopes the query.
func (s *reportServiceImpl) Render(ctx context.Context, req ReportRequest) (*entity.RenderedArtifact, *entity.ExportRecord, error) {
	records, err := s.loadRecords(ctx, req)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load evidence records: %w", err)
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})

	company := CompanyInfoOrDefault(ctx, s.settings, s.logger)

	s.logger.Info("Rendering evidence report",
		zap.String("ticket_number", req.Meta.TicketNumber),
		zap.String("format", string(req.Format)),
		zap.Int("records", len(records)))

	var artifact *entity.RenderedArtifact
	switch req.Format {
	case ReportFormatPDF, "":
		logo := s.fetchLogo(ctx, company)
		artifact, err = s.pdf.Render(ctx, records, req.Meta, company, logo)
	case ReportFormatDocx:
		artifact, err = s.docx.Render(ctx, records, req.Meta, company)
	default:
		return nil, nil, fmt.Errorf("unsupported report format %q", req.Format)
	}
	if err != nil {
		return nil, nil, err
	}

	if !req.Store {
		return artifact, nil, nil
	}

	images, videos := entity.SplitEvidenceByMedia(records)
	metaBlob, _ := json.Marshal(map[string]interface{}{
		"ticket_number": req.Meta.TicketNumber,
		"photos":        len(images),
		"videos":        len(videos),
	})

	export, err := s.store.Store(ctx, artifact, entity.ExportRecord{
		ReportType:  "evidence_" + string(normalizedFormat(req.Format)),
		GeneratedBy: req.GeneratedBy,
		Description: req.Meta.TicketTitle,
		Metadata:    string(metaBlob),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to store evidence report: %w", err)
	}
	return artifact, export, nil
}

func (s *reportServiceImpl) loadRecords(ctx context.Context, req ReportRequest) ([]entity.EvidenceRecord, error) {
	if len(req.EvidenceIDs) > 0 {
		return s.evidence.ListByIDs(ctx, req.EvidenceIDs)
	}
	return s.evidence.ListByTicket(ctx, req.Meta.TicketNumber)
}

func (s *reportServiceImpl) fetchLogo(ctx context.Context, company entity.CompanyInfo) []byte {
	if company.LogoURL == "" {
		return nil
	}
	logo, err := s.fetcher.Fetch(ctx, company.LogoURL)
	if err != nil {
		s.logger.Warn("Report logo fetch failed, using text fallback",
			zap.String("logo_url", company.LogoURL),
			zap.Error(err))
		return nil
	}
	return logo
}

func normalizedFormat(f ReportFormat) ReportFormat {
	if f == "" {
		return ReportFormatPDF
	}
	return f
}

package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/CORAZONPERFECTO/hecho-docs/internal/application/port"
	"github.com/CORAZONPERFECTO/hecho-docs/internal/domain/entity"
	renderpdf "github.com/CORAZONPERFECTO/hecho-docs/internal/render/pdf"
	renderxlsx "github.com/CORAZONPERFECTO/hecho-docs/internal/render/xlsx"
)

// DocumentFormat selects the sales document output format
type DocumentFormat string

// Supported sales document formats
const (
	DocumentFormatPDF  DocumentFormat = "pdf"  // paginated professional layout
	DocumentFormatFlow DocumentFormat = "flow" // lightweight flow-table layout
	DocumentFormatXLSX DocumentFormat = "xlsx" // spreadsheet export
)

// DocumentService renders canonical sales documents
type DocumentService interface {
	Render(ctx context.Context, doc *entity.CanonicalDocument, format DocumentFormat) (*entity.RenderedArtifact, error)
}

type documentServiceImpl struct {
	settings  port.SettingsRepository
	fetcher   port.FileFetcher
	paginated *renderpdf.DocumentRenderer
	flowTable *renderpdf.FlowTableRenderer
	exporter  *renderxlsx.DocumentExporter
	logger    *zap.Logger
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(
	settings port.SettingsRepository,
	fetcher port.FileFetcher,
	paginated *renderpdf.DocumentRenderer,
	flowTable *renderpdf.FlowTableRenderer,
	exporter *renderxlsx.DocumentExporter,
	logger *zap.Logger,
) DocumentService {
	return &documentServiceImpl{
		settings:  settings,
		fetcher:   fetcher,
		paginated: paginated,
		flowTable: flowTable,
		exporter:  exporter,
		logger:    logger,
	}
}

// Render normalizes doc and dispatches to the requested renderer
func (s *documentServiceImpl) Render(ctx context.Context, doc *entity.CanonicalDocument, format DocumentFormat) (*entity.RenderedArtifact, error) {
	if doc == nil || len(doc.Items) == 0 {
		return nil, fmt.Errorf("document has no line items")
	}
	if !doc.Type.Valid() {
		return nil, fmt.Errorf("unsupported document type %q", doc.Type)
	}

	doc.Normalize()
	company := CompanyInfoOrDefault(ctx, s.settings, s.logger)

	s.logger.Info("Rendering sales document",
		zap.String("type", string(doc.Type)),
		zap.String("number", doc.Number),
		zap.String("format", string(format)))

	switch format {
	case DocumentFormatPDF, "":
		logo := s.fetchLogo(ctx, company)
		return s.paginated.Render(doc, company, logo)
	case DocumentFormatFlow:
		return s.flowTable.Render(doc, company)
	case DocumentFormatXLSX:
		return s.exporter.Render(doc, company)
	default:
		return nil, fmt.Errorf("unsupported document format %q", format)
	}
}

// fetchLogo downloads the letterhead logo; any failure yields nil so
// the renderer falls back to the text letterhead
func (s *documentServiceImpl) fetchLogo(ctx context.Context, company entity.CompanyInfo) []byte {
	if company.LogoURL == "" {
		return nil
	}
	logo, err := s.fetcher.Fetch(ctx, company.LogoURL)
	if err != nil {
		s.logger.Warn("Letterhead logo fetch failed, using text fallback",
			zap.String("logo_url", company.LogoURL),
			zap.Error(err))
		return nil
	}
	return logo
}

// CompanyInfoOrDefault reads the letterhead row, degrading to the
// hardcoded defaults on any failure
func CompanyInfoOrDefault(ctx context.Context, settings port.SettingsRepository, logger *zap.Logger) entity.CompanyInfo {
	info, err := settings.GetCompanyInfo(ctx)
	if err != nil {
		logger.Warn("Company settings unavailable, using defaults", zap.Error(err))
		return entity.DefaultCompanyInfo()
	}
	return info
}

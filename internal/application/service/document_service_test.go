package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/CORAZONPERFECTO/hecho-docs/internal/domain/entity"
	renderpdf "github.com/CORAZONPERFECTO/hecho-docs/internal/render/pdf"
	renderxlsx "github.com/CORAZONPERFECTO/hecho-docs/internal/render/xlsx"
)

// stubSettingsRepo returns a fixed company row or a read failure
type stubSettingsRepo struct {
	info entity.CompanyInfo
	err  error
}

func (s *stubSettingsRepo) GetCompanyInfo(ctx context.Context) (entity.CompanyInfo, error) {
	if s.err != nil {
		return entity.CompanyInfo{}, s.err
	}
	return s.info, nil
}

// stubFetcher serves canned bytes per URL and 404s everything else
type stubFetcher struct {
	files map[string][]byte
	calls []string
}

func (s *stubFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	s.calls = append(s.calls, url)
	if data, ok := s.files[url]; ok {
		return data, nil
	}
	return nil, fmt.Errorf("fetch %s: status 404", url)
}

// stubEvidenceRepo serves in-memory evidence rows
type stubEvidenceRepo struct {
	records []entity.EvidenceRecord
	err     error
}

func (s *stubEvidenceRepo) ListByIDs(ctx context.Context, ids []int64) ([]entity.EvidenceRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []entity.EvidenceRecord
	for _, id := range ids {
		for _, r := range s.records {
			if r.ID == id {
				out = append(out, r)
			}
		}
	}
	return out, nil
}

func (s *stubEvidenceRepo) ListByTicket(ctx context.Context, ticketNumber string) ([]entity.EvidenceRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.records, nil
}

// stubArtifactStore records the Store call instead of touching disk
type stubArtifactStore struct {
	stored *entity.ExportRecord
	err    error
}

func (s *stubArtifactStore) Store(ctx context.Context, artifact *entity.RenderedArtifact, meta entity.ExportRecord) (*entity.ExportRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	rec := meta
	rec.ID = "exp-1"
	rec.FileName = artifact.FileName
	rec.FileSize = artifact.Size()
	rec.CreatedAt = time.Now()
	s.stored = &rec
	return &rec, nil
}

func newTestDocumentService(t *testing.T, settings *stubSettingsRepo, fetcher *stubFetcher) DocumentService {
	t.Helper()
	logger, err := zap.NewDevelopment()
	require.NoError(t, err)

	return NewDocumentService(
		settings,
		fetcher,
		renderpdf.NewDocumentRenderer(8, logger),
		renderpdf.NewFlowTableRenderer(logger),
		renderxlsx.NewDocumentExporter(logger),
		logger,
	)
}

func testDocument() *entity.CanonicalDocument {
	return &entity.CanonicalDocument{
		Type:        entity.DocumentTypeInvoice,
		Number:      "F-2024-001",
		ClientName:  "ACME SRL",
		IssueDate:   time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
		TaxIncluded: true,
		Items: []entity.DocumentLineItem{
			{Description: "Instalacion de compresor", Quantity: 2, UnitPrice: decimal.NewFromInt(500)},
		},
	}
}

func TestDocumentService_Render(t *testing.T) {
	settings := &stubSettingsRepo{info: entity.CompanyInfo{Name: "Servicios Tecnicos SRL"}}
	fetcher := &stubFetcher{}
	svc := newTestDocumentService(t, settings, fetcher)

	t.Run("renders paginated PDF by default", func(t *testing.T) {
		artifact, err := svc.Render(context.Background(), testDocument(), "")
		require.NoError(t, err)
		assert.Equal(t, "application/pdf", artifact.MimeType)
		assert.Equal(t, "Factura_F2024001_ACMESRL.pdf", artifact.FileName)
		assert.Equal(t, "%PDF", string(artifact.Data[:4]))
	})

	t.Run("renders flow-table PDF", func(t *testing.T) {
		artifact, err := svc.Render(context.Background(), testDocument(), DocumentFormatFlow)
		require.NoError(t, err)
		assert.Equal(t, "%PDF", string(artifact.Data[:4]))
	})

	t.Run("renders XLSX", func(t *testing.T) {
		artifact, err := svc.Render(context.Background(), testDocument(), DocumentFormatXLSX)
		require.NoError(t, err)
		assert.Equal(t, "PK", string(artifact.Data[:2]))
		assert.Equal(t, "Factura_F2024001_ACMESRL.xlsx", artifact.FileName)
	})

	t.Run("rejects empty documents", func(t *testing.T) {
		doc := testDocument()
		doc.Items = nil
		_, err := svc.Render(context.Background(), doc, DocumentFormatPDF)
		assert.ErrorContains(t, err, "no line items")
	})

	t.Run("rejects unknown document type", func(t *testing.T) {
		doc := testDocument()
		doc.Type = "memo"
		_, err := svc.Render(context.Background(), doc, DocumentFormatPDF)
		assert.ErrorContains(t, err, "unsupported document type")
	})

	t.Run("rejects unknown format", func(t *testing.T) {
		_, err := svc.Render(context.Background(), testDocument(), "csv")
		assert.ErrorContains(t, err, "unsupported document format")
	})
}

func TestDocumentService_SettingsFallback(t *testing.T) {
	settings := &stubSettingsRepo{err: errors.New("database is locked")}
	svc := newTestDocumentService(t, settings, &stubFetcher{})

	// The render must not fail; the default letterhead takes over
	artifact, err := svc.Render(context.Background(), testDocument(), DocumentFormatPDF)
	require.NoError(t, err)
	assert.NotEmpty(t, artifact.Data)
}

func TestDocumentService_LogoFetchFailure(t *testing.T) {
	settings := &stubSettingsRepo{info: entity.CompanyInfo{
		Name:    "HECHO SRL",
		LogoURL: "https://cdn.example.com/logo.png",
	}}
	fetcher := &stubFetcher{}
	svc := newTestDocumentService(t, settings, fetcher)

	artifact, err := svc.Render(context.Background(), testDocument(), DocumentFormatPDF)
	require.NoError(t, err)
	assert.NotEmpty(t, artifact.Data)
	assert.Equal(t, []string{"https://cdn.example.com/logo.png"}, fetcher.calls)
}

// Package docx renders the evidence report as a flowing word-processor
// document: headings, paragraphs and inline images instead of the fixed
// pages the PDF variant lays out by hand.
package docx

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/fumiama/go-docx"
	"go.uber.org/zap"

	"github.com/CORAZONPERFECTO/hecho-docs/internal/domain/entity"
	"github.com/CORAZONPERFECTO/hecho-docs/internal/orient"
	"github.com/CORAZONPERFECTO/hecho-docs/internal/richtext"
	"github.com/CORAZONPERFECTO/hecho-docs/pkg/utils"
)

// Photos are resized to fit this fixed pixel target before insertion;
// the flow layout does not compute per-image page geometry
const (
	photoTargetWidth  = 800
	photoTargetHeight = 600
)

const defaultBulletGlyph = "•"

// FileFetcher retrieves remote evidence files
type FileFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// EvidenceRenderer produces the .docx evidence report
type EvidenceRenderer struct {
	fetcher FileFetcher
	logger  *zap.Logger
}

// NewEvidenceRenderer creates a new flow-document evidence renderer
func NewEvidenceRenderer(fetcher FileFetcher, logger *zap.Logger) *EvidenceRenderer {
	return &EvidenceRenderer{
		fetcher: fetcher,
		logger:  logger,
	}
}

// Render assembles the report for records (already ordered by creation
// time) and returns the .docx artifact. Image failures degrade to an
// inline error line, never aborting the document.
func (r *EvidenceRenderer) Render(ctx context.Context, records []entity.EvidenceRecord, meta entity.ReportMetadata, company entity.CompanyInfo) (*entity.RenderedArtifact, error) {
	images, videos := entity.SplitEvidenceByMedia(records)
	doc := docx.New().WithDefaultTheme()

	r.writeHeader(doc, meta, company, len(images), len(videos))

	if meta.Description != "" {
		r.writeDescription(doc, meta)
	}

	if len(images) > 0 {
		heading(doc, "Fotos")
		for i, rec := range images {
			r.writePhoto(ctx, doc, rec, i+1)
			if i < len(images)-1 {
				separator(doc)
			}
		}
	}

	if len(videos) > 0 {
		heading(doc, "Videos")
		for _, rec := range videos {
			r.writeVideoCard(doc, rec)
		}
	}

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize evidence report docx: %w", err)
	}

	return &entity.RenderedArtifact{
		Data:     buf.Bytes(),
		FileName: utils.EvidenceFlowFilename(meta.TicketNumber),
		MimeType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	}, nil
}

func (r *EvidenceRenderer) writeHeader(doc *docx.Docx, meta entity.ReportMetadata, company entity.CompanyInfo, imageCount, videoCount int) {
	p := doc.AddParagraph().Justification("center")
	p.AddText(company.Name).Size("36").Bold()

	p = doc.AddParagraph().Justification("center")
	p.AddText("REPORTE DE EVIDENCIAS").Size("30").Bold()

	if meta.TicketNumber != "" {
		p = doc.AddParagraph().Justification("center")
		p.AddText(fmt.Sprintf("Ticket %s", meta.TicketNumber)).Size("24")
	}
	if meta.TicketTitle != "" {
		p = doc.AddParagraph().Justification("center")
		p.AddText(meta.TicketTitle).Size("22").Italic()
	}

	doc.AddParagraph()

	if meta.ClientName != "" {
		p = doc.AddParagraph()
		p.AddText("Cliente: ").Bold()
		p.AddText(meta.ClientName)
	}
	p = doc.AddParagraph()
	p.AddText("Generado: ").Bold()
	p.AddText(fmt.Sprintf("%s  ·  %d fotos, %d videos",
		time.Now().Format("02/01/2006 15:04"), imageCount, videoCount))

	doc.AddParagraph()
}

// writeDescription reinterprets the HTML-subset description against the
// flow document's paragraph/run primitives. Heading detection stays off
// on this path; every line renders as body text.
func (r *EvidenceRenderer) writeDescription(doc *docx.Docx, meta entity.ReportMetadata) {
	heading(doc, "Descripción del Trabajo")

	glyph := meta.BulletGlyph
	if glyph == "" {
		glyph = defaultBulletGlyph
	}

	blocks := richtext.Parse(meta.Description, richtext.Options{})
	for _, block := range blocks {
		p := doc.AddParagraph()
		if block.Kind == richtext.ListItem {
			indent := strings.Repeat("    ", block.Depth+1)
			p.AddText(indent + glyph + " ")
		}
		for _, run := range block.Runs {
			text := p.AddText(run.Text)
			if run.Bold {
				text.Bold()
			}
			if meta.TextColor != "" {
				text.Color(meta.TextColor)
			}
		}
	}
	doc.AddParagraph()
}

func (r *EvidenceRenderer) writePhoto(ctx context.Context, doc *docx.Docx, rec entity.EvidenceRecord, index int) {
	p := doc.AddParagraph().Justification("center")
	p.AddText(fmt.Sprintf("Foto %d: %s", index, rec.FileName)).Size("24").Bold()

	if rec.Description != "" {
		p = doc.AddParagraph().Justification("center")
		p.AddText(rec.Description).Size("20").Italic()
	}

	data, err := r.fetcher.Fetch(ctx, rec.FileURL)
	if err != nil {
		r.logger.Warn("Evidence photo fetch failed in flow document",
			zap.Int64("evidence_id", rec.ID),
			zap.Error(err))
		r.writePhotoError(doc, rec)
	} else if prepared, prepErr := r.preparePhoto(data, rec.ManualRotation); prepErr != nil {
		r.logger.Warn("Evidence photo preparation failed in flow document",
			zap.Int64("evidence_id", rec.ID),
			zap.Error(prepErr))
		r.writePhotoError(doc, rec)
	} else {
		p = doc.AddParagraph().Justification("center")
		if _, drawErr := p.AddInlineDrawing(prepared); drawErr != nil {
			r.logger.Warn("Evidence photo insertion failed in flow document",
				zap.Int64("evidence_id", rec.ID),
				zap.Error(drawErr))
			r.writePhotoError(doc, rec)
		}
	}

	p = doc.AddParagraph().Justification("center")
	p.AddText(fmt.Sprintf("Subido por %s  ·  %s",
		rec.UploadedBy, rec.CreatedAt.Format("02/01/2006"))).Size("16").Color("6E6E6E")
}

// preparePhoto corrects orientation (EXIF combined additively with the
// manual override on this path) and resizes to the fixed insertion
// target, re-encoding as JPEG
func (r *EvidenceRenderer) preparePhoto(data []byte, manualRotation int) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode photo: %w", err)
	}

	rotation := orient.ResolveAdditive(data, manualRotation)
	rotated := orient.Rotate(img, rotation)
	fitted := imaging.Fit(rotated, photoTargetWidth, photoTargetHeight, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, fitted, imaging.JPEG, imaging.JPEGQuality(90)); err != nil {
		return nil, fmt.Errorf("failed to encode photo: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *EvidenceRenderer) writePhotoError(doc *docx.Docx, rec entity.EvidenceRecord) {
	p := doc.AddParagraph().Justification("center")
	p.AddText(fmt.Sprintf("[No se pudo cargar la imagen: %s]", rec.FileName)).Color("A03C3C")
}

func (r *EvidenceRenderer) writeVideoCard(doc *docx.Docx, rec entity.EvidenceRecord) {
	p := doc.AddParagraph()
	p.AddText(rec.FileName).Bold()

	p = doc.AddParagraph()
	p.AddText(fmt.Sprintf("%s  ·  %s  ·  %s",
		rec.FileType, rec.UploadedBy, rec.CreatedAt.Format("02/01/2006"))).Size("16").Color("6E6E6E")

	if rec.Description != "" {
		p = doc.AddParagraph()
		p.AddText(rec.Description)
	}
	doc.AddParagraph()
}

func heading(doc *docx.Docx, title string) {
	p := doc.AddParagraph()
	p.AddText(title).Size("28").Bold()
}

func separator(doc *docx.Docx) {
	p := doc.AddParagraph().Justification("center")
	p.AddText("―――――――――――――").Color("C8C8C8")
}

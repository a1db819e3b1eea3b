package pdf

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"

	"github.com/CORAZONPERFECTO/hecho-docs/internal/domain/entity"
	"github.com/CORAZONPERFECTO/hecho-docs/internal/orient"
	"github.com/CORAZONPERFECTO/hecho-docs/internal/richtext"
	"github.com/CORAZONPERFECTO/hecho-docs/pkg/utils"
)

const (
	evidenceFooterReserve = 25.0
	// Photos occupy at most this fraction of the free page area so the
	// title, excerpt and caption always breathe
	photoAreaFraction = 0.70
)

// EvidenceRenderer produces the paginated photographic evidence report:
// cover page, optional rich-text description page, one photo per page,
// then plain cards for video evidence.
type EvidenceRenderer struct {
	fetcher FileFetcher
	logger  *zap.Logger
}

// NewEvidenceRenderer creates a new evidence report renderer
func NewEvidenceRenderer(fetcher FileFetcher, logger *zap.Logger) *EvidenceRenderer {
	return &EvidenceRenderer{
		fetcher: fetcher,
		logger:  logger,
	}
}

// Render builds the report for records (already ordered by creation
// time) and returns the PDF artifact. Per-image failures degrade to
// placeholder boxes and never abort the document.
func (r *EvidenceRenderer) Render(ctx context.Context, records []entity.EvidenceRecord, meta entity.ReportMetadata, company entity.CompanyInfo, logo []byte) (*entity.RenderedArtifact, error) {
	images, videos := entity.SplitEvidenceByMedia(records)
	generatedAt := time.Now()

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AliasNbPages("")

	pdf.SetFooterFunc(func() {
		if pdf.PageNo() == 1 {
			return
		}
		pdf.SetY(pageHeight - 15)
		pdf.SetFont("Arial", "", 7)
		pdf.SetTextColor(130, 130, 130)
		pdf.CellFormat(0, 4,
			tr(fmt.Sprintf("Generado el %s  ·  Página %d de {nb}",
				generatedAt.Format("02/01/2006 15:04"), pdf.PageNo())),
			"", 0, "C", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	})

	r.drawCoverPage(pdf, tr, meta, company, logo, generatedAt, len(images), len(videos))

	if meta.Description != "" {
		r.drawDescriptionPage(pdf, tr, meta.Description)
	}

	for i, rec := range images {
		r.drawPhotoPage(ctx, pdf, tr, rec, i+1)
	}

	if len(videos) > 0 {
		r.drawVideoSection(pdf, tr, videos)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize evidence report pdf: %w", err)
	}

	return &entity.RenderedArtifact{
		Data:     buf.Bytes(),
		FileName: utils.EvidenceReportFilename(meta.TicketNumber, generatedAt),
		MimeType: "application/pdf",
	}, nil
}

// drawCoverPage renders the centered logo/title block and the three
// fixed-color info boxes
func (r *EvidenceRenderer) drawCoverPage(pdf *gofpdf.Fpdf, tr func(string) string, meta entity.ReportMetadata, company entity.CompanyInfo, logo []byte, generatedAt time.Time, imageCount, videoCount int) {
	pdf.AddPage()

	if logoType, ok := detectImageType(logo); ok {
		pdf.RegisterImageOptionsReader("cover-logo",
			gofpdf.ImageOptions{ImageType: logoType}, bytes.NewReader(logo))
		pdf.ImageOptions("cover-logo", (pageWidth-50)/2, 28, 50, 0, false,
			gofpdf.ImageOptions{}, 0, "")
		pdf.SetY(62)
	} else {
		pdf.SetY(38)
		pdf.SetFont("Arial", "B", 20)
		pdf.CellFormat(0, 10, tr(company.Name), "", 1, "C", false, 0, "")
		pdf.SetY(pdf.GetY() + 12)
	}

	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(0, 10, tr("REPORTE DE EVIDENCIAS"), "", 1, "C", false, 0, "")

	if meta.TicketNumber != "" {
		pdf.SetFont("Arial", "", 12)
		pdf.CellFormat(0, 7, tr(fmt.Sprintf("Ticket %s", meta.TicketNumber)), "", 1, "C", false, 0, "")
	}
	if meta.TicketTitle != "" {
		pdf.SetFont("Arial", "I", 11)
		pdf.CellFormat(0, 6, tr(meta.TicketTitle), "", 1, "C", false, 0, "")
	}

	type infoBox struct {
		label string
		value string
		fill  [3]int
	}
	boxes := []infoBox{
		{label: "Cliente", value: orDefault(meta.ClientName, "-"), fill: [3]int{227, 242, 253}},
		{label: "Proyecto", value: orDefault(meta.TicketTitle, "Evidencias generales"), fill: [3]int{232, 245, 233}},
		{label: "Generado", value: fmt.Sprintf("%s  ·  %d fotos, %d videos",
			generatedAt.Format(dateLayout), imageCount, videoCount), fill: [3]int{255, 243, 224}},
	}

	y := 120.0
	for _, box := range boxes {
		pdf.SetFillColor(box.fill[0], box.fill[1], box.fill[2])
		pdf.Rect(marginLeft+15, y, contentWidth-30, 18, "F")
		pdf.SetXY(marginLeft+20, y+3)
		pdf.SetFont("Arial", "B", 9)
		pdf.CellFormat(contentWidth-40, 5, tr(box.label), "", 1, "L", false, 0, "")
		pdf.SetX(marginLeft + 20)
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(contentWidth-40, 6, tr(box.value), "", 1, "L", false, 0, "")
		y += 24
	}
}

// drawDescriptionPage interprets the HTML-subset description and lays
// it out with heading detection enabled
func (r *EvidenceRenderer) drawDescriptionPage(pdf *gofpdf.Fpdf, tr func(string) string, description string) {
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(contentWidth, 8, tr("Descripción del Trabajo"), "B", 1, "L", false, 0, "")

	blocks := richtext.Parse(description, richtext.Options{DetectHeadings: true})
	layout := &richTextLayout{
		pdf:    pdf,
		tr:     tr,
		breakY: pageHeight - evidenceFooterReserve,
		newPage: func() float64 {
			pdf.AddPage()
			return marginTop
		},
	}
	layout.render(blocks, marginTop+14)
}

// drawPhotoPage renders one image record on its own page
func (r *EvidenceRenderer) drawPhotoPage(ctx context.Context, pdf *gofpdf.Fpdf, tr func(string) string, rec entity.EvidenceRecord, index int) {
	pdf.AddPage()

	pdf.SetXY(marginLeft, marginTop)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(contentWidth, 7, tr(fmt.Sprintf("Foto %d: %s", index, rec.FileName)), "", 1, "C", false, 0, "")
	y := marginTop + 9.0

	if rec.Description != "" {
		pdf.SetFont("Arial", "I", 9)
		lines := pdf.SplitText(tr(rec.Description), contentWidth-20)
		if len(lines) > 2 {
			lines = lines[:2]
		}
		for _, line := range lines {
			pdf.SetXY(marginLeft, y)
			pdf.CellFormat(contentWidth, 4.5, line, "", 1, "C", false, 0, "")
			y += 4.5
		}
	}
	y += 3

	captionY := r.placeImage(ctx, pdf, tr, rec, y)

	pdf.SetXY(marginLeft, captionY)
	pdf.SetFont("Arial", "", 8)
	pdf.SetTextColor(110, 110, 110)
	pdf.CellFormat(contentWidth, 4,
		tr(fmt.Sprintf("Subido por %s  ·  %s", rec.UploadedBy, rec.CreatedAt.Format(dateLayout))),
		"", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// placeImage fetches, rotates, scales and centers the photo inside the
// free area below y, returning the y coordinate for the caption. On
// failure it draws a bordered placeholder instead.
func (r *EvidenceRenderer) placeImage(ctx context.Context, pdf *gofpdf.Fpdf, tr func(string) string, rec entity.EvidenceRecord, y float64) float64 {
	availHeight := pageHeight - evidenceFooterReserve - y - 8
	availWidth := contentWidth

	data, err := r.fetcher.Fetch(ctx, rec.FileURL)
	if err != nil {
		r.logger.Warn("Evidence photo fetch failed, drawing placeholder",
			zap.Int64("evidence_id", rec.ID),
			zap.Error(err))
		return r.drawPlaceholder(pdf, tr, rec, y, availWidth, availHeight)
	}

	rotation := orient.Resolve(data, rec.ManualRotation)
	corrected, pxWidth, pxHeight, err := orient.Apply(data, rotation)
	if err != nil {
		r.logger.Warn("Evidence photo decode failed, drawing placeholder",
			zap.Int64("evidence_id", rec.ID),
			zap.Error(err))
		return r.drawPlaceholder(pdf, tr, rec, y, availWidth, availHeight)
	}

	maxWidth := availWidth * photoAreaFraction
	maxHeight := availHeight * photoAreaFraction
	scale := maxWidth / float64(pxWidth)
	if s := maxHeight / float64(pxHeight); s < scale {
		scale = s
	}
	drawWidth := float64(pxWidth) * scale
	drawHeight := float64(pxHeight) * scale

	imageName := fmt.Sprintf("evidence-%d", rec.ID)
	pdf.RegisterImageOptionsReader(imageName,
		gofpdf.ImageOptions{ImageType: "JPEG"}, bytes.NewReader(corrected))
	pdf.ImageOptions(imageName,
		(pageWidth-drawWidth)/2,
		y+(availHeight-drawHeight)/2,
		drawWidth, drawHeight, false, gofpdf.ImageOptions{}, 0, "")

	return y + (availHeight+drawHeight)/2 + 4
}

// drawPlaceholder renders the bordered error box used when a photo
// cannot be loaded
func (r *EvidenceRenderer) drawPlaceholder(pdf *gofpdf.Fpdf, tr func(string) string, rec entity.EvidenceRecord, y, availWidth, availHeight float64) float64 {
	boxWidth := 110.0
	boxHeight := 70.0
	boxX := (pageWidth - boxWidth) / 2
	boxY := y + (availHeight-boxHeight)/2

	pdf.SetDrawColor(190, 190, 190)
	pdf.Rect(boxX, boxY, boxWidth, boxHeight, "D")
	pdf.SetFont("Arial", "B", 10)
	pdf.SetTextColor(160, 60, 60)
	pdf.SetXY(boxX, boxY+boxHeight/2-8)
	pdf.CellFormat(boxWidth, 5, tr("No se pudo cargar la imagen"), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetX(boxX)
	pdf.CellFormat(boxWidth, 5, tr(rec.FileName), "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)

	return boxY + boxHeight + 6
}

// drawVideoSection lists video evidence as bordered cards
func (r *EvidenceRenderer) drawVideoSection(pdf *gofpdf.Fpdf, tr func(string) string, videos []entity.EvidenceRecord) {
	pdf.AddPage()
	pdf.SetXY(marginLeft, marginTop)
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(contentWidth, 8, "Videos", "B", 1, "L", false, 0, "")
	y := marginTop + 14.0

	for _, rec := range videos {
		pdf.SetFont("Arial", "", 8)
		var descLines []string
		if rec.Description != "" {
			descLines = pdf.SplitText(tr(rec.Description), contentWidth-10)
		}
		cardHeight := 16 + float64(len(descLines))*4 + 4

		if y+cardHeight > pageHeight-evidenceFooterReserve {
			pdf.AddPage()
			y = marginTop
		}

		pdf.SetDrawColor(200, 200, 200)
		pdf.Rect(marginLeft, y, contentWidth, cardHeight, "D")

		pdf.SetXY(marginLeft+5, y+3)
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(contentWidth-10, 5, tr(rec.FileName), "", 1, "L", false, 0, "")

		pdf.SetX(marginLeft + 5)
		pdf.SetFont("Arial", "", 8)
		pdf.SetTextColor(110, 110, 110)
		pdf.CellFormat(contentWidth-10, 4,
			tr(fmt.Sprintf("%s  ·  %s  ·  %s", rec.FileType, rec.UploadedBy, rec.CreatedAt.Format(dateLayout))),
			"", 1, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)

		for _, line := range descLines {
			pdf.SetX(marginLeft + 5)
			pdf.CellFormat(contentWidth-10, 4, line, "", 1, "L", false, 0, "")
		}

		y += cardHeight + 5
	}
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

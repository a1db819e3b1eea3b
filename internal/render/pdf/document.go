package pdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"

	"github.com/CORAZONPERFECTO/hecho-docs/internal/domain/entity"
	"github.com/CORAZONPERFECTO/hecho-docs/pkg/utils"
)

// Layout constants for the professional sales document format
const (
	docBottomReserve = 60.0 // kept free for totals/notes/footer on every page
	docMinRowHeight  = 8.0
	docCellPadding   = 1.5
	docFooterY       = pageHeight - 22.0

	// Fixed-proportion columns: description 50%, quantity 15%,
	// unit price 17.5%, line total 17.5% of the content width
	colDescWidth  = contentWidth * 0.50
	colQtyWidth   = contentWidth * 0.15
	colUnitWidth  = contentWidth * 0.175
	colTotalWidth = contentWidth * 0.175
)

// boldNoteMarkers trigger bold rendering for matching note lines
var boldNoteMarkers = []string{"NO INCLUYE", "IMPORTANTE", "EXCLUSIONES", "GARANTIA", "GARANTÍA"}

// DocumentRenderer produces the professional multi-page sales document
// (quotation/proforma/invoice/receipt) using absolute coordinate layout
type DocumentRenderer struct {
	paginationThreshold int
	logger              *zap.Logger
}

// NewDocumentRenderer creates a new paginated sales document renderer.
// paginationThreshold is the minimum item count before a page break is
// allowed; short documents are always kept on one page.
func NewDocumentRenderer(paginationThreshold int, logger *zap.Logger) *DocumentRenderer {
	return &DocumentRenderer{
		paginationThreshold: paginationThreshold,
		logger:              logger,
	}
}

// Render lays out doc on fixed A4 pages and returns the PDF artifact.
// logo may be nil or undecodable; the letterhead then falls back to the
// company name in text.
func (r *DocumentRenderer) Render(doc *entity.CanonicalDocument, company entity.CompanyInfo, logo []byte) (*entity.RenderedArtifact, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AliasNbPages("")

	pdf.SetFooterFunc(func() {
		r.drawFooter(pdf, tr, company)
	})

	logoType, logoOK := detectImageType(logo)
	if logoOK {
		pdf.RegisterImageOptionsReader("letterhead-logo",
			gofpdf.ImageOptions{ImageType: logoType}, bytes.NewReader(logo))
	} else if len(logo) > 0 {
		r.logger.Warn("Letterhead logo could not be decoded, using text fallback")
	}

	pdf.AddPage()
	y := r.drawLetterhead(pdf, tr, doc, company, logoOK)
	y = r.drawTableHeader(pdf, tr, y)

	for i, item := range doc.Items {
		pdf.SetFont("Arial", "", 9)
		lines := pdf.SplitText(tr(item.Description), colDescWidth-2*docCellPadding)
		rowHeight := float64(len(lines))*lineHeight + 2*docCellPadding
		if rowHeight < docMinRowHeight {
			rowHeight = docMinRowHeight
		}

		// Break only when the row cannot fit AND the document is long
		// enough that pagination is worth it
		if y+rowHeight > pageHeight-docBottomReserve && len(doc.Items) > r.paginationThreshold {
			pdf.AddPage()
			y = marginTop
			y = r.drawTableHeader(pdf, tr, y)
			pdf.SetFont("Arial", "", 9)
		}

		r.drawItemRow(pdf, tr, item, lines, y, rowHeight)
		y += rowHeight

		if i < len(doc.Items)-1 {
			pdf.SetDrawColor(220, 220, 220)
			pdf.Line(marginLeft, y, pageWidth-marginRight, y)
		}
	}

	y = r.drawTotals(pdf, tr, doc, y+4)

	if doc.Notes != "" {
		r.drawNotes(pdf, tr, doc.Notes, y+6)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize document pdf: %w", err)
	}

	return &entity.RenderedArtifact{
		Data:     buf.Bytes(),
		FileName: utils.SalesDocumentFilename(doc.Type.Label(), doc.Number, doc.ClientName, "pdf"),
		MimeType: "application/pdf",
	}, nil
}

// drawLetterhead renders the company block and the document metadata
// block side by side and returns the y coordinate below them
func (r *DocumentRenderer) drawLetterhead(pdf *gofpdf.Fpdf, tr func(string) string, doc *entity.CanonicalDocument, company entity.CompanyInfo, logoOK bool) float64 {
	const metaX = 125.0

	if logoOK {
		pdf.ImageOptions("letterhead-logo", marginLeft, marginTop, 45, 0, false,
			gofpdf.ImageOptions{}, 0, "")
		pdf.SetY(marginTop + 24)
	} else {
		pdf.SetXY(marginLeft, marginTop)
		pdf.SetFont("Arial", "B", 16)
		pdf.CellFormat(100, 8, tr(company.Name), "", 1, "L", false, 0, "")
	}

	pdf.SetX(marginLeft)
	pdf.SetFont("Arial", "", 8)
	pdf.SetTextColor(90, 90, 90)
	for _, line := range []string{company.Address, company.Phone, company.Email} {
		if line == "" {
			continue
		}
		pdf.CellFormat(100, 4, tr(line), "", 1, "L", false, 0, "")
		pdf.SetX(marginLeft)
	}
	pdf.SetTextColor(0, 0, 0)
	leftBottom := pdf.GetY()

	// Metadata block, top-aligned with the letterhead
	pdf.SetXY(metaX, marginTop)
	pdf.SetFont("Arial", "B", 14)
	title := doc.Title
	if title == "" {
		title = strings.ToUpper(doc.Type.Label())
	}
	pdf.CellFormat(pageWidth-marginRight-metaX, 7, tr(title), "", 2, "R", false, 0, "")

	pdf.SetFont("Arial", "", 9)
	meta := []string{
		fmt.Sprintf("No: %s", doc.Number),
		fmt.Sprintf("Fecha: %s", doc.IssueDate.Format(dateLayout)),
		fmt.Sprintf("Cliente: %s", doc.ClientName),
	}
	if doc.DueDate != nil {
		meta = append(meta, fmt.Sprintf("Vence: %s", doc.DueDate.Format(dateLayout)))
	}
	for _, line := range meta {
		pdf.SetX(metaX)
		pdf.CellFormat(pageWidth-marginRight-metaX, 5, tr(line), "", 2, "R", false, 0, "")
	}
	rightBottom := pdf.GetY()

	bottom := leftBottom
	if rightBottom > bottom {
		bottom = rightBottom
	}
	return bottom + 8
}

// drawTableHeader renders the four-column header row and returns the y
// coordinate of the first body row
func (r *DocumentRenderer) drawTableHeader(pdf *gofpdf.Fpdf, tr func(string) string, y float64) float64 {
	pdf.SetXY(marginLeft, y)
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(235, 235, 235)
	pdf.CellFormat(colDescWidth, 7, tr("Descripción"), "1", 0, "L", true, 0, "")
	pdf.CellFormat(colQtyWidth, 7, tr("Cant."), "1", 0, "C", true, 0, "")
	pdf.CellFormat(colUnitWidth, 7, tr("Precio"), "1", 0, "R", true, 0, "")
	pdf.CellFormat(colTotalWidth, 7, tr("Importe"), "1", 1, "R", true, 0, "")
	return y + 7
}

// drawItemRow places one line item at y with the precomputed wrapped
// description lines and row height
func (r *DocumentRenderer) drawItemRow(pdf *gofpdf.Fpdf, tr func(string) string, item entity.DocumentLineItem, lines []string, y, rowHeight float64) {
	textY := y + docCellPadding
	for _, line := range lines {
		pdf.SetXY(marginLeft+docCellPadding, textY)
		pdf.CellFormat(colDescWidth-2*docCellPadding, lineHeight, line, "", 0, "L", false, 0, "")
		textY += lineHeight
	}

	// Numeric cells vertically centered on the row
	numY := y + (rowHeight-lineHeight)/2
	pdf.SetXY(marginLeft+colDescWidth, numY)
	pdf.CellFormat(colQtyWidth, lineHeight, fmt.Sprintf("%d", item.Quantity), "", 0, "C", false, 0, "")
	pdf.CellFormat(colUnitWidth, lineHeight, formatMoney(item.UnitPrice), "", 0, "R", false, 0, "")
	pdf.CellFormat(colTotalWidth, lineHeight, formatMoney(item.Total()), "", 0, "R", false, 0, "")
}

// drawTotals renders the right-aligned label/value totals block and
// returns the y coordinate below it
func (r *DocumentRenderer) drawTotals(pdf *gofpdf.Fpdf, tr func(string) string, doc *entity.CanonicalDocument, y float64) float64 {
	const labelX = 115.0
	labelWidth := 40.0
	valueWidth := pageWidth - marginRight - labelX - labelWidth

	type totalRow struct {
		label string
		value string
		bold  bool
	}

	rows := []totalRow{{label: "Subtotal", value: formatMoney(doc.Subtotal)}}
	if !doc.DiscountPct.IsZero() {
		rows = append(rows, totalRow{
			label: fmt.Sprintf("Descuento (%s)", formatPercent(doc.DiscountPct)),
			value: "-" + formatMoney(doc.DiscountAmount()),
		})
	}
	if doc.TaxIncluded {
		rows = append(rows, totalRow{
			label: "ITBIS (18%)",
			value: formatMoney(doc.TaxAmount()),
		})
	}
	rows = append(rows, totalRow{label: "TOTAL", value: formatMoney(doc.Total), bold: true})

	for _, row := range rows {
		pdf.SetXY(labelX, y)
		style := ""
		if row.bold {
			style = "B"
			pdf.SetDrawColor(0, 0, 0)
			pdf.Line(labelX, y, pageWidth-marginRight, y)
			y += 1
			pdf.SetXY(labelX, y)
		}
		pdf.SetFont("Arial", style, 9)
		pdf.CellFormat(labelWidth, 6, tr(row.label), "", 0, "L", false, 0, "")
		pdf.CellFormat(valueWidth, 6, row.value, "", 0, "R", false, 0, "")
		y += 6
	}
	return y
}

// drawNotes renders the free-text notes, bolding lines that carry one
// of the marker phrases
func (r *DocumentRenderer) drawNotes(pdf *gofpdf.Fpdf, tr func(string) string, notes string, y float64) {
	pdf.SetXY(marginLeft, y)
	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(contentWidth, 5, "Notas:", "", 1, "L", false, 0, "")
	y += 6

	for _, line := range strings.Split(notes, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			y += 2
			continue
		}

		style := ""
		upper := strings.ToUpper(line)
		for _, marker := range boldNoteMarkers {
			if strings.Contains(upper, marker) {
				style = "B"
				break
			}
		}

		pdf.SetFont("Arial", style, 8)
		for _, wrapped := range pdf.SplitText(tr(line), contentWidth) {
			if y > docFooterY-6 {
				pdf.AddPage()
				y = marginTop
			}
			pdf.SetXY(marginLeft, y)
			pdf.CellFormat(contentWidth, 4, wrapped, "", 1, "L", false, 0, "")
			y += 4
		}
		y += 1
	}
}

// drawFooter stamps the bank/fiscal and contact footer plus the page
// counter on every page
func (r *DocumentRenderer) drawFooter(pdf *gofpdf.Fpdf, tr func(string) string, company entity.CompanyInfo) {
	pdf.SetDrawColor(180, 180, 180)
	pdf.Line(marginLeft, docFooterY, pageWidth-marginRight, docFooterY)

	pdf.SetXY(marginLeft, docFooterY+2)
	pdf.SetFont("Arial", "", 7)
	pdf.SetTextColor(110, 110, 110)

	if company.BankInfo != "" {
		pdf.CellFormat(contentWidth, 3.5, tr(company.BankInfo), "", 1, "C", false, 0, "")
		pdf.SetX(marginLeft)
	}
	if company.TaxID != "" {
		pdf.CellFormat(contentWidth, 3.5, tr(company.TaxID), "", 1, "C", false, 0, "")
		pdf.SetX(marginLeft)
	}
	contact := strings.TrimSpace(strings.Join(nonEmpty(company.Phone, company.Email), "  ·  "))
	if contact != "" {
		pdf.CellFormat(contentWidth, 3.5, tr(contact), "", 1, "C", false, 0, "")
		pdf.SetX(marginLeft)
	}
	pdf.CellFormat(contentWidth, 3.5,
		tr(fmt.Sprintf("Página %d de {nb}", pdf.PageNo())), "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

func nonEmpty(values ...string) []string {
	var out []string
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

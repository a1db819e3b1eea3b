package pdf

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"

	"github.com/CORAZONPERFECTO/hecho-docs/internal/domain/entity"
	"github.com/CORAZONPERFECTO/hecho-docs/pkg/utils"
)

// flowBreakMargin is the bottom margin (mm) that triggers page overflow
// in the flow-table layout
const flowBreakMargin = 25

// FlowTableRenderer produces the lightweight sales document format:
// a single auto-flowing table with automatic page overflow instead of
// manual coordinate placement. The page-number footer resolves after
// the full layout, when the final page count is known.
type FlowTableRenderer struct {
	logger *zap.Logger
}

// NewFlowTableRenderer creates a new flow-table renderer
func NewFlowTableRenderer(logger *zap.Logger) *FlowTableRenderer {
	return &FlowTableRenderer{logger: logger}
}

// Render lays out doc as a flowing table and returns the PDF artifact
func (r *FlowTableRenderer) Render(doc *entity.CanonicalDocument, company entity.CompanyInfo) (*entity.RenderedArtifact, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetAutoPageBreak(true, flowBreakMargin)
	pdf.AliasNbPages("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-18)
		pdf.SetFont("Arial", "", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 5, tr(fmt.Sprintf("Página %d de {nb}", pdf.PageNo())), "", 0, "C", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	})

	pdf.AddPage()

	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(0, 8, tr(company.Name), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 5, tr(fmt.Sprintf("%s No. %s", doc.Type.Label(), doc.Number)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, tr(fmt.Sprintf("Cliente: %s", doc.ClientName)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("Fecha: %s", doc.IssueDate.Format(dateLayout)), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	// Header row; column width hints mirror the canonical proportions
	drawHeaderRow := func() {
		pdf.SetFont("Arial", "B", 9)
		pdf.SetFillColor(240, 240, 240)
		pdf.CellFormat(colDescWidth, 7, tr("Descripción"), "1", 0, "L", true, 0, "")
		pdf.CellFormat(colQtyWidth, 7, tr("Cant."), "1", 0, "C", true, 0, "")
		pdf.CellFormat(colUnitWidth, 7, tr("Precio"), "1", 0, "R", true, 0, "")
		pdf.CellFormat(colTotalWidth, 7, tr("Importe"), "1", 1, "R", true, 0, "")
		pdf.SetFont("Arial", "", 9)
	}
	drawHeaderRow()

	_, pageBreak := pdf.GetPageSize()
	pageBreak -= flowBreakMargin

	for _, item := range doc.Items {
		lineCount := len(pdf.SplitText(tr(item.Description), colDescWidth-2))
		if lineCount == 0 {
			lineCount = 1
		}
		rowHeight := float64(lineCount) * lineHeight
		if rowHeight < 6 {
			rowHeight = 6
		}

		// Rows move to the next page whole; letting the description
		// cell trigger the break mid-row would tear its numeric cells
		// onto a different page
		if pdf.GetY()+rowHeight > pageBreak {
			pdf.AddPage()
			drawHeaderRow()
		}

		x, y := pdf.GetXY()
		pdf.MultiCell(colDescWidth, rowHeight/float64(lineCount), tr(item.Description), "1", "L", false)
		pdf.SetXY(x+colDescWidth, y)
		pdf.CellFormat(colQtyWidth, rowHeight, fmt.Sprintf("%d", item.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colUnitWidth, rowHeight, formatMoney(item.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colTotalWidth, rowHeight, formatMoney(item.Total()), "1", 1, "R", false, 0, "")
	}

	// Totals as trailing table rows spanning the numeric columns
	labelSpan := colDescWidth + colQtyWidth + colUnitWidth
	pdf.CellFormat(labelSpan, 6, "Subtotal", "1", 0, "R", false, 0, "")
	pdf.CellFormat(colTotalWidth, 6, formatMoney(doc.Subtotal), "1", 1, "R", false, 0, "")
	if !doc.DiscountPct.IsZero() {
		pdf.CellFormat(labelSpan, 6, tr(fmt.Sprintf("Descuento (%s)", formatPercent(doc.DiscountPct))), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colTotalWidth, 6, "-"+formatMoney(doc.DiscountAmount()), "1", 1, "R", false, 0, "")
	}
	if doc.TaxIncluded {
		pdf.CellFormat(labelSpan, 6, "ITBIS (18%)", "1", 0, "R", false, 0, "")
		pdf.CellFormat(colTotalWidth, 6, formatMoney(doc.TaxAmount()), "1", 1, "R", false, 0, "")
	}
	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(labelSpan, 7, "TOTAL", "1", 0, "R", false, 0, "")
	pdf.CellFormat(colTotalWidth, 7, formatMoney(doc.Total), "1", 1, "R", false, 0, "")

	if doc.Notes != "" {
		pdf.Ln(4)
		pdf.SetFont("Arial", "", 8)
		pdf.MultiCell(contentWidth, 4, tr(doc.Notes), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize flow-table pdf: %w", err)
	}

	return &entity.RenderedArtifact{
		Data:     buf.Bytes(),
		FileName: utils.SalesDocumentFilename(doc.Type.Label(), doc.Number, doc.ClientName, "pdf"),
		MimeType: "application/pdf",
	}, nil
}

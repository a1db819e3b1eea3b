// Package xlsx exports canonical sales documents as spreadsheets for
// callers that post-process figures instead of printing them.
package xlsx

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/CORAZONPERFECTO/hecho-docs/internal/domain/entity"
	"github.com/CORAZONPERFECTO/hecho-docs/pkg/utils"
)

// DocumentExporter renders a CanonicalDocument as an XLSX workbook with
// a summary sheet and an items sheet
type DocumentExporter struct {
	logger *zap.Logger
}

// NewDocumentExporter creates a new spreadsheet exporter
func NewDocumentExporter(logger *zap.Logger) *DocumentExporter {
	return &DocumentExporter{logger: logger}
}

// Render builds the workbook and returns the artifact
func (e *DocumentExporter) Render(doc *entity.CanonicalDocument, company entity.CompanyInfo) (*entity.RenderedArtifact, error) {
	f := excelize.NewFile()
	summarySheet := "resumen"
	itemsSheet := "items"
	f.SetSheetName("Sheet1", summarySheet)
	f.NewSheet(itemsSheet)

	_ = f.SetCellValue(summarySheet, "A1", company.Name)
	_ = f.SetCellValue(summarySheet, "A2", fmt.Sprintf("%s No. %s", doc.Type.Label(), doc.Number))

	_ = f.SetCellValue(summarySheet, "A4", "Cliente")
	_ = f.SetCellValue(summarySheet, "B4", doc.ClientName)
	_ = f.SetCellValue(summarySheet, "A5", "Fecha")
	_ = f.SetCellValue(summarySheet, "B5", doc.IssueDate.Format("02/01/2006"))
	if doc.DueDate != nil {
		_ = f.SetCellValue(summarySheet, "A6", "Vence")
		_ = f.SetCellValue(summarySheet, "B6", doc.DueDate.Format("02/01/2006"))
	}

	_ = f.SetCellValue(summarySheet, "A8", "Subtotal")
	_ = f.SetCellValue(summarySheet, "B8", doc.Subtotal.InexactFloat64())
	row := 9
	if !doc.DiscountPct.IsZero() {
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), fmt.Sprintf("Descuento (%s%%)", doc.DiscountPct.Truncate(2)))
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), doc.DiscountAmount().Neg().InexactFloat64())
		row++
	}
	if doc.TaxIncluded {
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), "ITBIS (18%)")
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), doc.TaxAmount().InexactFloat64())
		row++
	}
	_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), "TOTAL")
	_ = f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), doc.Total.InexactFloat64())

	_ = f.SetCellValue(itemsSheet, "A1", "Descripción")
	_ = f.SetCellValue(itemsSheet, "B1", "Cantidad")
	_ = f.SetCellValue(itemsSheet, "C1", "Precio")
	_ = f.SetCellValue(itemsSheet, "D1", "Descuento %")
	_ = f.SetCellValue(itemsSheet, "E1", "Importe")
	for i, item := range doc.Items {
		r := i + 2
		_ = f.SetCellValue(itemsSheet, fmt.Sprintf("A%d", r), item.Description)
		_ = f.SetCellValue(itemsSheet, fmt.Sprintf("B%d", r), item.Quantity)
		_ = f.SetCellValue(itemsSheet, fmt.Sprintf("C%d", r), item.UnitPrice.InexactFloat64())
		_ = f.SetCellValue(itemsSheet, fmt.Sprintf("D%d", r), item.DiscountPct.InexactFloat64())
		_ = f.SetCellValue(itemsSheet, fmt.Sprintf("E%d", r), item.Total().InexactFloat64())
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize document xlsx: %w", err)
	}

	return &entity.RenderedArtifact{
		Data:     buf.Bytes(),
		FileName: utils.SalesDocumentFilename(doc.Type.Label(), doc.Number, doc.ClientName, "xlsx"),
		MimeType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	}, nil
}

package xlsx

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/CORAZONPERFECTO/hecho-docs/internal/domain/entity"
)

func TestDocumentExporterRender(t *testing.T) {
	doc := &entity.CanonicalDocument{
		Type:       entity.DocumentTypeQuotation,
		Number:     "COT-007",
		ClientName: "Cliente Uno",
		Items: []entity.DocumentLineItem{
			{Description: "Instalación", Quantity: 1, UnitPrice: decimal.NewFromInt(2500)},
			{Description: "Materiales", Quantity: 3, UnitPrice: decimal.NewFromInt(400), DiscountPct: decimal.NewFromInt(10)},
		},
		TaxIncluded: true,
		IssueDate:   time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	}
	doc.Normalize()

	e := NewDocumentExporter(zap.NewNop())
	artifact, err := e.Render(doc, entity.DefaultCompanyInfo())
	require.NoError(t, err)
	assert.Equal(t, "Cotizacion_COT007_ClienteUno.xlsx", artifact.FileName)

	f, err := excelize.OpenReader(bytes.NewReader(artifact.Data))
	require.NoError(t, err)
	defer f.Close()

	client, err := f.GetCellValue("resumen", "B4")
	require.NoError(t, err)
	assert.Equal(t, "Cliente Uno", client)

	desc, err := f.GetCellValue("items", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Instalación", desc)

	// 2500 + 3*400*0.9 = 3580
	subtotal, err := f.GetCellValue("resumen", "B8")
	require.NoError(t, err)
	assert.Equal(t, "3580", subtotal)
}

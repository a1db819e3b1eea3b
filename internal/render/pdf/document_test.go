package pdf

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/CORAZONPERFECTO/hecho-docs/internal/domain/entity"
)

func testDocument() *entity.CanonicalDocument {
	doc := &entity.CanonicalDocument{
		Type:       entity.DocumentTypeInvoice,
		Number:     "F-001",
		ClientName: "ACME S.R.L.",
		Items: []entity.DocumentLineItem{
			{Description: "Service", Quantity: 2, UnitPrice: decimal.NewFromInt(500)},
		},
		TaxIncluded: true,
		IssueDate:   time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
	}
	doc.Normalize()
	return doc
}

func TestDocumentRendererRender(t *testing.T) {
	r := NewDocumentRenderer(8, zap.NewNop())
	company := entity.DefaultCompanyInfo()

	t.Run("produces a pdf artifact", func(t *testing.T) {
		artifact, err := r.Render(testDocument(), company, nil)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(artifact.Data, []byte("%PDF")))
		assert.Equal(t, "application/pdf", artifact.MimeType)
		assert.Equal(t, "Factura_F001_ACMESRL.pdf", artifact.FileName)
	})

	t.Run("undecodable logo falls back to text letterhead", func(t *testing.T) {
		artifact, err := r.Render(testDocument(), company, []byte("definitely not an image"))
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(artifact.Data, []byte("%PDF")))
	})

	t.Run("long documents still render", func(t *testing.T) {
		doc := testDocument()
		doc.Items = nil
		for i := 0; i < 40; i++ {
			doc.Items = append(doc.Items, entity.DocumentLineItem{
				Description: strings.Repeat("mantenimiento preventivo de unidad ", 4),
				Quantity:    1,
				UnitPrice:   decimal.NewFromInt(100),
			})
		}
		doc.Subtotal = decimal.Zero
		doc.Total = decimal.Zero
		doc.Normalize()

		artifact, err := r.Render(doc, company, nil)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(artifact.Data, []byte("%PDF")))
	})

	t.Run("notes with marker phrases render", func(t *testing.T) {
		doc := testDocument()
		doc.Notes = "Condiciones generales.\nNO INCLUYE materiales adicionales.\nValidez 30 dias."
		artifact, err := r.Render(doc, company, nil)
		require.NoError(t, err)
		assert.NotEmpty(t, artifact.Data)
	})
}

func TestDescriptionWordWrapFitsColumn(t *testing.T) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 9)
	pdf.AddPage()

	long := strings.Repeat("palabra descripcion larga ", 12)
	width := colDescWidth - 2*docCellPadding
	lines := pdf.SplitText(long, width)

	require.GreaterOrEqual(t, len(lines), 2, "long description must wrap")
	for _, line := range lines {
		assert.LessOrEqual(t, pdf.GetStringWidth(line), width,
			"wrapped line exceeds column width: %q", line)
	}
}

func TestFlowTableRendererRender(t *testing.T) {
	r := NewFlowTableRenderer(zap.NewNop())
	artifact, err := r.Render(testDocument(), entity.DefaultCompanyInfo())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(artifact.Data, []byte("%PDF")))
	assert.Equal(t, "Factura_F001_ACMESRL.pdf", artifact.FileName)
}

// pdfPageCount counts page objects in the serialized document,
// excluding the page-tree node
func pdfPageCount(data []byte) int {
	return bytes.Count(data, []byte("/Type /Page")) - bytes.Count(data, []byte("/Type /Pages"))
}

func TestFlowTableRendererPageOverflow(t *testing.T) {
	r := NewFlowTableRenderer(zap.NewNop())

	doc := testDocument()
	doc.Items = nil
	for i := 0; i < 60; i++ {
		doc.Items = append(doc.Items, entity.DocumentLineItem{
			Description: "Mantenimiento preventivo",
			Quantity:    1,
			UnitPrice:   decimal.NewFromInt(100),
		})
	}
	doc.Subtotal = decimal.Zero
	doc.Total = decimal.Zero
	doc.Normalize()

	artifact, err := r.Render(doc, entity.DefaultCompanyInfo())
	require.NoError(t, err)

	// 60 uniform rows fill one page and spill onto a second; a row
	// torn across the break would cascade onto a third
	assert.Equal(t, 2, pdfPageCount(artifact.Data))
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "0", want: "RD$ 0.00"},
		{in: "1180", want: "RD$ 1,180.00"},
		{in: "1234567.5", want: "RD$ 1,234,567.50"},
		{in: "999.999", want: "RD$ 1,000.00"},
	}
	for _, tt := range tests {
		d, err := decimal.NewFromString(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, formatMoney(d), "input %s", tt.in)
	}
}

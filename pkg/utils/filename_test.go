package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFileToken(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: "HECHO", want: "HECHO"},
		{name: "spaces and punctuation", input: "Cliente S.R.L. #42", want: "ClienteSRL42"},
		{name: "slashes", input: "COT-2026/001", want: "COT2026001"},
		{name: "accented letters kept", input: "Compañía", want: "Compañía"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFileToken(tt.input))
		})
	}
}

func TestSalesDocumentFilename(t *testing.T) {
	got := SalesDocumentFilename("Factura", "F-001", "ACME S.R.L.", "pdf")
	assert.Equal(t, "Factura_F001_ACMESRL.pdf", got)
}

func TestEvidenceFilenames(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	t.Run("with ticket number", func(t *testing.T) {
		assert.Equal(t, "Reporte_Evidencias_TK42_2026-03-14.pdf", EvidenceReportFilename("TK-42", now))
		assert.Equal(t, "reporte_evidencias_tk42.docx", EvidenceFlowFilename("TK-42"))
		assert.Equal(t, "evidencias_tk42.zip", EvidenceBundleFilename("TK-42"))
	})

	t.Run("without ticket number", func(t *testing.T) {
		assert.Equal(t, "Reporte_Evidencias_General_2026-03-14.pdf", EvidenceReportFilename("", now))
		assert.Equal(t, "reporte_evidencias_todas.docx", EvidenceFlowFilename(""))
		assert.Equal(t, "evidencias_todas.zip", EvidenceBundleFilename(""))
	})
}

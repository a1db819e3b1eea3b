package utils

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// SanitizeFileToken strips every character that is not a letter or digit,
// so document numbers and client names can be embedded in filenames
func SanitizeFileToken(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SalesDocumentFilename builds <DocTypeLabel>_<Number>_<Client>.<ext>
func SalesDocumentFilename(typeLabel, number, clientName, ext string) string {
	return fmt.Sprintf("%s_%s_%s.%s",
		SanitizeFileToken(typeLabel),
		SanitizeFileToken(number),
		SanitizeFileToken(clientName),
		ext)
}

// EvidenceReportFilename builds the PDF evidence report filename,
// Reporte_Evidencias_<TicketNumberOrGeneral>_<ISODate>.pdf
func EvidenceReportFilename(ticketNumber string, now time.Time) string {
	label := "General"
	if ticketNumber != "" {
		label = SanitizeFileToken(ticketNumber)
	}
	return fmt.Sprintf("Reporte_Evidencias_%s_%s.pdf", label, now.Format("2006-01-02"))
}

// EvidenceFlowFilename builds the flow-document evidence report filename,
// reporte_evidencias_<ticketNumberOrTodas>.docx
func EvidenceFlowFilename(ticketNumber string) string {
	label := "todas"
	if ticketNumber != "" {
		label = strings.ToLower(SanitizeFileToken(ticketNumber))
	}
	return fmt.Sprintf("reporte_evidencias_%s.docx", label)
}

// EvidenceBundleFilename builds evidencias_<ticketNumberOrTodas>.zip
func EvidenceBundleFilename(ticketNumber string) string {
	label := "todas"
	if ticketNumber != "" {
		label = strings.ToLower(SanitizeFileToken(ticketNumber))
	}
	return fmt.Sprintf("evidencias_%s.zip", label)
}

// Package pdf renders canonical sales documents and evidence reports
// as paginated A4 PDF artifacts.
package pdf

import (
	"bytes"
	"context"
	"image"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/shopspring/decimal"
)

// FileFetcher retrieves remote files (evidence photos, letterhead logo)
type FileFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Page geometry shared by every renderer in this package (millimeters)
const (
	pageWidth    = 210.0
	pageHeight   = 297.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	contentWidth = pageWidth - marginLeft - marginRight
	lineHeight   = 5.0
)

const dateLayout = "02/01/2006"

// detectImageType sniffs the encoded format of data and returns the
// image-type label the PDF library expects. ok is false when the bytes
// do not decode as a supported image.
func detectImageType(data []byte) (string, bool) {
	if len(data) == 0 {
		return "", false
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", false
	}
	switch format {
	case "jpeg":
		return "JPEG", true
	case "png":
		return "PNG", true
	case "gif":
		return "GIF", true
	default:
		return "", false
	}
}

// formatMoney renders an amount as RD$ 1,234.56
func formatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	intPart := s[:len(s)-3]
	frac := s[len(s)-3:]

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	out := "RD$ " + b.String() + frac
	if neg {
		out = "RD$ -" + b.String() + frac
	}
	return out
}

// formatPercent renders a discount/tax percentage without trailing zeros
func formatPercent(d decimal.Decimal) string {
	return d.Truncate(2).String() + "%"
}

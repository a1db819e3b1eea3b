package pdf

import (
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/CORAZONPERFECTO/hecho-docs/internal/richtext"
)

// richTextLayout draws interpreted rich-text blocks with absolute
// coordinate placement, wrapping styled runs word by word
type richTextLayout struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
	// breakY is the y coordinate past which a new page is requested
	breakY  float64
	newPage func() float64
}

const (
	richBodySize    = 10.0
	richHeadingSize = 12.0
	listIndent      = 6.0
	paraSpacing     = 2.5
)

// render draws all blocks starting at y and returns the final cursor
func (l *richTextLayout) render(blocks []richtext.Block, y float64) float64 {
	for _, block := range blocks {
		switch block.Kind {
		case richtext.Heading:
			y = l.ensureRoom(y, lineHeight+paraSpacing)
			l.pdf.SetFont("Arial", "B", richHeadingSize)
			l.pdf.SetXY(marginLeft, y+paraSpacing)
			l.pdf.CellFormat(contentWidth, lineHeight+1, l.tr(strings.TrimSpace(block.Text())), "", 1, "L", false, 0, "")
			y += lineHeight + 2*paraSpacing + 1

		case richtext.ListItem:
			indent := marginLeft + float64(block.Depth)*listIndent
			y = l.ensureRoom(y, lineHeight)
			l.pdf.SetFont("Arial", "", richBodySize)
			l.pdf.SetXY(indent, y)
			l.pdf.CellFormat(4, lineHeight, l.tr("•"), "", 0, "L", false, 0, "")
			y = l.renderRuns(block.Runs, indent+5, y)
			y += 1

		default:
			y = l.renderRuns(block.Runs, marginLeft, y)
			y += paraSpacing
		}
	}
	return y
}

// renderRuns wraps a styled run sequence into the column starting at
// startX and returns the y after the last emitted line
func (l *richTextLayout) renderRuns(runs []richtext.Run, startX, y float64) float64 {
	avail := pageWidth - marginRight - startX

	type word struct {
		text string
		bold bool
	}
	var words []word
	for _, run := range runs {
		for _, w := range strings.Fields(run.Text) {
			words = append(words, word{text: w, bold: run.Bold})
		}
	}
	if len(words) == 0 {
		return y
	}

	x := startX
	y = l.ensureRoom(y, lineHeight)
	for _, w := range words {
		style := ""
		if w.bold {
			style = "B"
		}
		l.pdf.SetFont("Arial", style, richBodySize)

		text := l.tr(w.text)
		width := l.pdf.GetStringWidth(text + " ")
		if x+width > startX+avail && x > startX {
			x = startX
			y += lineHeight
			y = l.ensureRoom(y, lineHeight)
		}
		l.pdf.SetXY(x, y)
		l.pdf.CellFormat(width, lineHeight, text, "", 0, "L", false, 0, "")
		x += width
	}
	return y + lineHeight
}

// ensureRoom starts a new page when fewer than need millimeters remain
func (l *richTextLayout) ensureRoom(y, need float64) float64 {
	if y+need > l.breakY {
		return l.newPage()
	}
	return y
}

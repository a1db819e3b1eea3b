// Package richtext interprets the constrained HTML subset used for
// report descriptions (bold, paragraphs, line breaks, unordered lists
// with one level of nesting) into an abstract sequence of styled blocks.
// One interpreter feeds both document backends: the paginated PDF
// renderer consumes blocks as absolute-coordinate draw calls, the
// flow-document renderer as paragraphs and runs.
package richtext

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// Run is a span of text with uniform styling
type Run struct {
	Text string
	Bold bool
}

// BlockKind discriminates block-level elements
type BlockKind int

// Block kinds emitted by the interpreter
const (
	Paragraph BlockKind = iota
	Heading
	ListItem
)

// Block is one block-level element. Depth is only meaningful for list
// items (0 for a top-level item, 1 for a nested one).
type Block struct {
	Kind  BlockKind
	Depth int
	Runs  []Run
}

// Text returns the concatenated plain text of the block
func (b Block) Text() string {
	var sb strings.Builder
	for _, r := range b.Runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// Options controls interpretation behavior
type Options struct {
	// DetectHeadings promotes short standalone lines to headings using
	// the classification heuristic. Only the paginated renderer enables
	// this; the flow-document renderer keeps every line as body text.
	DetectHeadings bool
}

// Parse interprets src and returns the block sequence. Malformed markup
// never fails: the tolerant HTML parser always produces a tree, and
// unknown elements are walked through transparently.
func Parse(src string, opts Options) []Block {
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		// html.Parse only errors on reader failure; a string reader
		// cannot fail, but degrade to one plain paragraph regardless
		return []Block{{Kind: Paragraph, Runs: []Run{{Text: src}}}}
	}

	p := &parser{opts: opts}
	p.walk(findBody(doc))
	p.flush()
	return p.blocks
}

type parser struct {
	opts   Options
	blocks []Block
	runs   []Run
}

func (p *parser) walk(n *html.Node) {
	if n == nil {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case c.Type == html.TextNode:
			p.appendText(c.Data, false)
		case c.Type != html.ElementNode:
			continue
		default:
			switch c.Data {
			case "p", "div":
				p.flush()
				p.collectInline(c, false)
				p.flush()
			case "ul", "ol":
				p.flush()
				p.walkList(c, 0)
			case "strong", "b":
				p.collectInline(c, true)
			case "br":
				p.appendText("\n", false)
			default:
				p.walk(c)
			}
		}
	}
}

// collectInline gathers the text content of n into the current run
// buffer, tracking bold state
func (p *parser) collectInline(n *html.Node, bold bool) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case c.Type == html.TextNode:
			p.appendText(c.Data, bold)
		case c.Type != html.ElementNode:
			continue
		default:
			switch c.Data {
			case "strong", "b":
				p.collectInline(c, true)
			case "br":
				p.appendText("\n", bold)
			case "ul", "ol":
				// A list nested directly in a paragraph: close the
				// paragraph first, then emit the items
				p.flush()
				p.walkList(c, 0)
			default:
				p.collectInline(c, bold)
			}
		}
	}
}

// walkList emits one ListItem block per li, recursing one level deeper
// for nested lists
func (p *parser) walkList(n *html.Node, depth int) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.Data != "li" {
			continue
		}

		var nested []*html.Node
		for lc := c.FirstChild; lc != nil; lc = lc.NextSibling {
			if lc.Type == html.ElementNode && (lc.Data == "ul" || lc.Data == "ol") {
				nested = append(nested, lc)
				continue
			}
			p.collectInlineNode(lc, false)
		}

		if len(p.runs) > 0 {
			p.blocks = append(p.blocks, Block{Kind: ListItem, Depth: depth, Runs: p.runs})
			p.runs = nil
		}

		for _, sub := range nested {
			p.walkList(sub, depth+1)
		}
	}
}

// collectInlineNode handles a single child node of a list item
func (p *parser) collectInlineNode(n *html.Node, bold bool) {
	switch {
	case n.Type == html.TextNode:
		p.appendText(n.Data, bold)
	case n.Type == html.ElementNode && (n.Data == "strong" || n.Data == "b"):
		p.collectInline(n, true)
	case n.Type == html.ElementNode && n.Data == "br":
		p.appendText("\n", bold)
	case n.Type == html.ElementNode:
		p.collectInline(n, bold)
	}
}

func (p *parser) appendText(text string, bold bool) {
	if text == "" {
		return
	}
	collapsed := collapseSpace(text)
	if strings.TrimSpace(collapsed) == "" && collapsed != "\n" {
		return
	}
	if len(p.runs) > 0 && p.runs[len(p.runs)-1].Bold == bold {
		p.runs[len(p.runs)-1].Text += collapsed
		return
	}
	p.runs = append(p.runs, Run{Text: collapsed, Bold: bold})
}

// flush closes the current run buffer into one or more blocks, one per
// newline-delimited line, classifying headings when enabled
func (p *parser) flush() {
	if len(p.runs) == 0 {
		return
	}
	for _, lineRuns := range splitRunsByLine(p.runs) {
		block := Block{Kind: Paragraph, Runs: lineRuns}
		text := strings.TrimSpace(block.Text())
		if text == "" {
			continue
		}
		if p.opts.DetectHeadings && len(lineRuns) == 1 && !lineRuns[0].Bold && isLikelyHeading(text) {
			block.Kind = Heading
		}
		p.blocks = append(p.blocks, block)
	}
	p.runs = nil
}

// splitRunsByLine cuts a run sequence at embedded newlines
func splitRunsByLine(runs []Run) [][]Run {
	var out [][]Run
	var current []Run
	for _, r := range runs {
		parts := strings.Split(r.Text, "\n")
		for i, part := range parts {
			if i > 0 {
				if len(current) > 0 {
					out = append(out, current)
				}
				current = nil
			}
			trimmed := part
			if len(current) == 0 {
				trimmed = strings.TrimLeft(part, " ")
			}
			if trimmed == "" {
				continue
			}
			current = append(current, Run{Text: trimmed, Bold: r.Bold})
		}
	}
	if len(current) > 0 {
		out = append(out, current)
	}
	return out
}

func collapseSpace(s string) string {
	var b strings.Builder
	lastSpace := false
	for _, r := range s {
		if r == '\n' {
			b.WriteRune('\n')
			lastSpace = false
			continue
		}
		if unicode.IsSpace(r) {
			if !lastSpace {
				b.WriteRune(' ')
			}
			lastSpace = true
			continue
		}
		b.WriteRune(r)
		lastSpace = false
	}
	return b.String()
}

// technicalTerms are words that mark a short line as body text rather
// than a section title, even when it otherwise looks like one
var technicalTerms = []string{
	"voltaje", "amperaje", "compresor", "refrigerante", "capacitor",
	"breaker", "tuberia", "tubería", "btu", "psi", "hp", "kw",
}

// isLikelyHeading reports whether a standalone line should render as a
// section heading: short, no trailing period, no digits, and none of
// the technical vocabulary that marks genuine sentences.
func isLikelyHeading(line string) bool {
	if line == "" || utf8.RuneCountInString(line) > 50 {
		return false
	}
	if strings.HasSuffix(line, ".") || strings.HasSuffix(line, ":") {
		return false
	}
	for _, r := range line {
		if unicode.IsDigit(r) {
			return false
		}
	}
	lower := strings.ToLower(line)
	for _, term := range technicalTerms {
		if strings.Contains(lower, term) {
			return false
		}
	}
	return true
}

func findBody(doc *html.Node) *html.Node {
	var body *html.Node
	var find func(*html.Node)
	find = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "body" {
			body = n
			return
		}
		for c := n.FirstChild; c != nil && body == nil; c = c.NextSibling {
			find(c)
		}
	}
	find(doc)
	if body == nil {
		return doc
	}
	return body
}

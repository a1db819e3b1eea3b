package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentType identifies the kind of sales document being rendered
type DocumentType string

// Supported sales document types
const (
	DocumentTypeQuotation DocumentType = "quotation"
	DocumentTypeProforma  DocumentType = "proforma"
	DocumentTypeInvoice   DocumentType = "invoice"
	DocumentTypeReceipt   DocumentType = "receipt"
)

// Label returns the Spanish display label used in headings and filenames
func (t DocumentType) Label() string {
	switch t {
	case DocumentTypeQuotation:
		return "Cotizacion"
	case DocumentTypeProforma:
		return "Proforma"
	case DocumentTypeInvoice:
		return "Factura"
	case DocumentTypeReceipt:
		return "Recibo"
	default:
		return "Documento"
	}
}

// Valid reports whether t is one of the supported document types
func (t DocumentType) Valid() bool {
	switch t {
	case DocumentTypeQuotation, DocumentTypeProforma, DocumentTypeInvoice, DocumentTypeReceipt:
		return true
	}
	return false
}

// ITBISRate is the fixed tax rate applied when the tax flag is set (18%)
var ITBISRate = decimal.NewFromFloat(0.18)

// DocumentLineItem is a single billable row of a sales document
type DocumentLineItem struct {
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	DiscountPct decimal.Decimal `json:"discount"` // 0-100, per-item
}

// Total returns quantity x unit price x (1 - discount/100)
func (li DocumentLineItem) Total() decimal.Decimal {
	gross := li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
	if li.DiscountPct.IsZero() {
		return gross
	}
	factor := decimal.NewFromInt(1).Sub(li.DiscountPct.Div(decimal.NewFromInt(100)))
	return gross.Mul(factor)
}

// CanonicalDocument is the normalized shape every sales document
// (quotation, proforma, invoice, receipt) is reduced to before rendering.
// It is constructed fresh per render call and treated as immutable by
// every renderer.
type CanonicalDocument struct {
	Type        DocumentType       `json:"type"`
	Title       string             `json:"title"`
	Number      string             `json:"number"`
	ClientName  string             `json:"clientName"`
	Items       []DocumentLineItem `json:"items"`
	Subtotal    decimal.Decimal    `json:"subtotal"`
	DiscountPct decimal.Decimal    `json:"discount"` // 0-100, global
	TaxIncluded bool               `json:"tax"`
	Total       decimal.Decimal    `json:"total"`
	Notes       string             `json:"notes,omitempty"`
	IssueDate   time.Time          `json:"date"`
	DueDate     *time.Time         `json:"dueDate,omitempty"`
}

// ComputeSubtotal sums the line totals of all items
func (d *CanonicalDocument) ComputeSubtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, li := range d.Items {
		sum = sum.Add(li.Total())
	}
	return sum
}

// DiscountAmount returns the global discount applied to the subtotal
func (d *CanonicalDocument) DiscountAmount() decimal.Decimal {
	if d.DiscountPct.IsZero() {
		return decimal.Zero
	}
	return d.Subtotal.Mul(d.DiscountPct).Div(decimal.NewFromInt(100))
}

// TaxAmount returns the ITBIS charged on the post-discount subtotal,
// zero when the tax flag is off
func (d *CanonicalDocument) TaxAmount() decimal.Decimal {
	if !d.TaxIncluded {
		return decimal.Zero
	}
	return d.Subtotal.Sub(d.DiscountAmount()).Mul(ITBISRate)
}

// Normalize fills Subtotal and Total from the line items when the caller
// left them at zero. Caller-supplied non-zero figures are trusted as-is;
// this core only computes the discount/tax overlays it has to display.
func (d *CanonicalDocument) Normalize() {
	if d.Subtotal.IsZero() && len(d.Items) > 0 {
		d.Subtotal = d.ComputeSubtotal()
	}
	if d.Total.IsZero() {
		base := d.Subtotal.Sub(d.DiscountAmount())
		d.Total = base.Add(d.TaxAmount())
	}
}

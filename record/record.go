// Package record defines the structured invoice data model produced by
// extraction and consumed by the validation engine. All monetary fields use
// exact decimal values; binary floating point is never used for money.
//
// Records are treated as immutable once constructed: the engine reads them
// but never writes back, so a single batch can be validated concurrently
// without synchronization.
package record

import "github.com/shopspring/decimal"

// Party identifies one side of an invoice (seller or buyer).
// All fields are optional; extraction may fail to find any of them.
type Party struct {
	Name    string `json:"name,omitempty"`
	Address string `json:"address,omitempty"`
	TaxID   string `json:"tax_id,omitempty"`
}

// LineItem is a single billed position on an invoice. Quantity, unit price,
// and line total are nil when extraction could not locate them.
type LineItem struct {
	Description string           `json:"description,omitempty"`
	Quantity    *decimal.Decimal `json:"quantity,omitempty"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty"`
	LineTotal   *decimal.Decimal `json:"line_total,omitempty"`
}

// InvoiceRecord is one extracted invoice. Every business field is optional:
// extraction surfaces a field it could not read as the zero value (strings)
// or nil (dates, amounts), never as an error. Missing fields are the
// validation engine's concern, not the decoder's.
type InvoiceRecord struct {
	InvoiceNumber     string `json:"invoice_number,omitempty"`
	ExternalReference string `json:"external_reference,omitempty"`

	Seller Party `json:"seller"`
	Buyer  Party `json:"buyer"`

	InvoiceDate *Date `json:"invoice_date,omitempty"`
	DueDate     *Date `json:"due_date,omitempty"`

	Currency   string           `json:"currency,omitempty"`
	NetTotal   *decimal.Decimal `json:"net_total,omitempty"`
	TaxAmount  *decimal.Decimal `json:"tax_amount,omitempty"`
	TaxRate    *decimal.Decimal `json:"tax_rate,omitempty"`
	GrossTotal *decimal.Decimal `json:"gross_total,omitempty"`

	PaymentTerms string `json:"payment_terms,omitempty"`

	LineItems []*LineItem `json:"line_items,omitempty"`

	// SourceFile names the document the record was extracted from.
	// Used as a fallback reference when the invoice number is missing.
	SourceFile string `json:"source_file,omitempty"`
}

// Ref returns a stable human-readable reference for the record: the invoice
// number when present, otherwise the source filename, otherwise a positional
// placeholder derived from the record's index in its batch.
func (r *InvoiceRecord) Ref(index int) string {
	if r.InvoiceNumber != "" {
		return r.InvoiceNumber
	}
	if r.SourceFile != "" {
		return r.SourceFile
	}
	return positionalRef(index)
}

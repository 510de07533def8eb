// Builder helpers for constructing invoice records programmatically, such
// as from importers, fixtures, or tests. The builders use functional options
// for the record's many optional fields, following Go idioms for
// configurable constructors.
package record

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Option configures a record under construction.
type Option func(*InvoiceRecord)

// New creates a record with the given options applied in order.
//
// Example:
//
//	rec := record.New(
//		record.WithInvoiceNumber("INV-001"),
//		record.WithSeller("Acme GmbH"),
//		record.WithTotals("90.00", "9.00", "99.00"),
//	)
func New(opts ...Option) *InvoiceRecord {
	r := &InvoiceRecord{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// WithInvoiceNumber sets the invoice number.
func WithInvoiceNumber(number string) Option {
	return func(r *InvoiceRecord) {
		r.InvoiceNumber = number
	}
}

// WithSeller sets the seller name.
func WithSeller(name string) Option {
	return func(r *InvoiceRecord) {
		r.Seller.Name = name
	}
}

// WithBuyer sets the buyer name.
func WithBuyer(name string) Option {
	return func(r *InvoiceRecord) {
		r.Buyer.Name = name
	}
}

// WithDates sets invoice and due dates from ISO 8601 strings.
// Empty strings leave the respective date absent. Panics on malformed
// input; intended for fixtures where dates are literals.
func WithDates(invoiceDate, dueDate string) Option {
	return func(r *InvoiceRecord) {
		if invoiceDate != "" {
			r.InvoiceDate = MustDate(invoiceDate)
		}
		if dueDate != "" {
			r.DueDate = MustDate(dueDate)
		}
	}
}

// WithCurrency sets the currency code.
func WithCurrency(code string) Option {
	return func(r *InvoiceRecord) {
		r.Currency = code
	}
}

// WithTotals sets net total, tax amount, and gross total from decimal
// strings. Empty strings leave the respective amount absent.
func WithTotals(net, tax, gross string) Option {
	return func(r *InvoiceRecord) {
		r.NetTotal = optAmount(net)
		r.TaxAmount = optAmount(tax)
		r.GrossTotal = optAmount(gross)
	}
}

// WithGrossTotal sets only the gross total.
func WithGrossTotal(gross string) Option {
	return func(r *InvoiceRecord) {
		r.GrossTotal = optAmount(gross)
	}
}

// WithLineItem appends a line item with the given decimal string fields.
// Empty strings leave the respective field absent.
func WithLineItem(description, quantity, unitPrice, lineTotal string) Option {
	return func(r *InvoiceRecord) {
		r.LineItems = append(r.LineItems, &LineItem{
			Description: description,
			Quantity:    optAmount(quantity),
			UnitPrice:   optAmount(unitPrice),
			LineTotal:   optAmount(lineTotal),
		})
	}
}

// WithSourceFile sets the source document name.
func WithSourceFile(name string) Option {
	return func(r *InvoiceRecord) {
		r.SourceFile = name
	}
}

// Amount parses a decimal string and panics on error.
// Use only in tests or when the value is known to be valid.
func Amount(s string) *decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return &d
}

func optAmount(s string) *decimal.Decimal {
	if s == "" {
		return nil
	}
	return Amount(s)
}

func positionalRef(index int) string {
	return fmt.Sprintf("record-%d", index)
}

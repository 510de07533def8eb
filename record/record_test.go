package record

import (
	"encoding/json"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestRef(t *testing.T) {
	tests := []struct {
		name   string
		record *InvoiceRecord
		index  int
		want   string
	}{
		{"invoice number wins", New(WithInvoiceNumber("INV-001"), WithSourceFile("scan.pdf")), 3, "INV-001"},
		{"source file fallback", New(WithSourceFile("scan.pdf")), 3, "scan.pdf"},
		{"positional fallback", New(), 3, "record-3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.record.Ref(tt.index))
		})
	}
}

func TestBuilders(t *testing.T) {
	r := New(
		WithInvoiceNumber("INV-001"),
		WithSeller("Acme Ltd"),
		WithBuyer("Orchid Labs"),
		WithDates("2026-03-01", "2026-03-31"),
		WithCurrency("EUR"),
		WithTotals("100.00", "19.00", "119.00"),
		WithLineItem("Consulting services", "4", "25.00", "100.00"),
	)

	assert.Equal(t, "INV-001", r.InvoiceNumber)
	assert.Equal(t, "Acme Ltd", r.Seller.Name)
	assert.Equal(t, "Orchid Labs", r.Buyer.Name)
	assert.Equal(t, "2026-03-01", r.InvoiceDate.String())
	assert.Equal(t, "2026-03-31", r.DueDate.String())
	assert.Equal(t, "119", r.GrossTotal.String())
	assert.Equal(t, 1, len(r.LineItems))
	assert.Equal(t, "25", r.LineItems[0].UnitPrice.String())
}

func TestBuildersOptionalFields(t *testing.T) {
	r := New(
		WithDates("", ""),
		WithTotals("", "", "50.00"),
		WithLineItem("Unreadable", "", "", ""),
	)

	assert.True(t, r.InvoiceDate.IsZero())
	assert.True(t, r.DueDate.IsZero())
	assert.True(t, r.NetTotal == nil)
	assert.True(t, r.TaxAmount == nil)
	assert.Equal(t, "50", r.GrossTotal.String())
	assert.True(t, r.LineItems[0].Quantity == nil)
}

func TestInvoiceRecordJSON(t *testing.T) {
	input := `{
		"invoice_number": "INV-001",
		"external_reference": "PO-778",
		"seller": {"name": "Acme Ltd", "tax_id": "DE123456789"},
		"buyer": {"name": "Orchid Labs"},
		"invoice_date": "2026-03-01",
		"due_date": "31/03/2026",
		"currency": "EUR",
		"net_total": "100.00",
		"tax_amount": 19,
		"tax_rate": "0.19",
		"gross_total": "119.00",
		"payment_terms": "Net 30",
		"line_items": [
			{"description": "Consulting services", "quantity": 4, "unit_price": "25.00", "line_total": "100.00"}
		],
		"source_file": "scan-042.pdf"
	}`

	var r InvoiceRecord
	assert.NoError(t, json.Unmarshal([]byte(input), &r))

	assert.Equal(t, "INV-001", r.InvoiceNumber)
	assert.Equal(t, "PO-778", r.ExternalReference)
	assert.Equal(t, "DE123456789", r.Seller.TaxID)
	assert.Equal(t, "2026-03-01", r.InvoiceDate.String())
	// Non-ISO layouts are accepted at the boundary
	assert.Equal(t, "2026-03-31", r.DueDate.String())
	assert.Equal(t, "19", r.TaxAmount.String())
	assert.Equal(t, "0.19", r.TaxRate.String())
	assert.Equal(t, "Net 30", r.PaymentTerms)
	assert.Equal(t, "scan-042.pdf", r.SourceFile)
	assert.Equal(t, "4", r.LineItems[0].Quantity.String())
}

func TestInvoiceRecordJSONSparse(t *testing.T) {
	var r InvoiceRecord
	assert.NoError(t, json.Unmarshal([]byte(`{"seller": {"name": "Acme Ltd"}}`), &r))

	assert.Equal(t, "", r.InvoiceNumber)
	assert.True(t, r.InvoiceDate.IsZero())
	assert.True(t, r.GrossTotal == nil)
	assert.Equal(t, 0, len(r.LineItems))
}

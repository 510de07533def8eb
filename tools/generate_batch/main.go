// Invoice Batch Generator
//
// This tool generates a large JSON batch of invoice records for performance
// testing and profiling. A configurable fraction of records carry injected
// defects (missing fields, broken totals, duplicates) to stress-test the
// validation engine.
//
// Usage:
//
//	go run main.go > batch.json
//	go run main.go 100000 > batch.json  # Specify record count
package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

const (
	defaultCount = 10000

	// defectRate is the fraction of records with an injected defect.
	defectRate = 0.15
)

var (
	sellers = []string{
		"Acme Industrial Supplies Ltd", "Nordwind Logistics GmbH",
		"Bluepeak Consulting BV", "Harbor & Finch Stationery",
		"Vertex Cloud Services Inc", "Meridian Office Interiors",
		"Calloway Print Works", "Sable Ridge Catering Co",
	}

	buyers = []string{
		"Orchid Labs Pte Ltd", "Ferrostadt Engineering AG",
		"Kestrel Media Group", "Walnut Grove Schools Trust",
		"Atlas Freight Partners", "Juniper Health Clinics",
	}

	descriptions = []string{
		"Consulting services", "Office supplies", "Freight charges",
		"Software subscription", "Catering services", "Printing and binding",
		"Equipment rental", "Maintenance contract", "Training workshop",
	}

	currencies = []string{"EUR", "USD", "INR", "GBP"}
)

type lineItem struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

type party struct {
	Name string `json:"name"`
}

type invoice struct {
	InvoiceNumber string          `json:"invoice_number,omitempty"`
	Seller        party           `json:"seller"`
	Buyer         party           `json:"buyer"`
	InvoiceDate   string          `json:"invoice_date,omitempty"`
	DueDate       string          `json:"due_date,omitempty"`
	Currency      string          `json:"currency"`
	NetTotal      decimal.Decimal `json:"net_total"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	GrossTotal    decimal.Decimal `json:"gross_total"`
	LineItems     []lineItem      `json:"line_items"`
}

func main() {
	count := defaultCount
	if len(os.Args) > 1 {
		if n, err := strconv.Atoi(os.Args[1]); err == nil {
			count = n
		}
	}

	startDate := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	batch := make([]invoice, 0, count)
	defects := 0

	for i := 0; i < count; i++ {
		inv := generateInvoice(i, startDate)

		if rand.Float64() < defectRate {
			injectDefect(&inv)
			defects++
		}

		batch = append(batch, inv)

		// Occasionally repeat the previous invoice to create duplicates
		if i > 0 && rand.Intn(100) == 0 {
			batch = append(batch, batch[len(batch)-2])
			i++
		}
	}

	enc := json.NewEncoder(os.Stdout)
	if err := enc.Encode(batch); err != nil {
		fmt.Fprintf(os.Stderr, "failed to encode batch: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "\nGenerated %d invoices with %d injected defects\n", len(batch), defects)
}

func generateInvoice(i int, startDate time.Time) invoice {
	date := startDate.AddDate(0, 0, rand.Intn(365))
	due := date.AddDate(0, 0, 14+rand.Intn(45))

	itemCount := 1 + rand.Intn(5)
	items := make([]lineItem, 0, itemCount)
	net := decimal.Zero
	for j := 0; j < itemCount; j++ {
		qty := decimal.NewFromInt(int64(1 + rand.Intn(20)))
		price := decimal.NewFromInt(int64(100 + rand.Intn(49900))).Shift(-2)
		total := qty.Mul(price).Round(2)
		items = append(items, lineItem{
			Description: descriptions[rand.Intn(len(descriptions))],
			Quantity:    qty,
			UnitPrice:   price,
			LineTotal:   total,
		})
		net = net.Add(total)
	}

	tax := net.Mul(decimal.New(19, -2)).Round(2)

	return invoice{
		InvoiceNumber: fmt.Sprintf("INV-%d-%05d", date.Year(), i+1),
		Seller:        party{Name: sellers[rand.Intn(len(sellers))]},
		Buyer:         party{Name: buyers[rand.Intn(len(buyers))]},
		InvoiceDate:   date.Format("2006-01-02"),
		DueDate:       due.Format("2006-01-02"),
		Currency:      currencies[rand.Intn(len(currencies))],
		NetTotal:      net,
		TaxAmount:     tax,
		GrossTotal:    net.Add(tax),
		LineItems:     items,
	}
}

func injectDefect(inv *invoice) {
	switch rand.Intn(7) {
	case 0: // Missing invoice number
		inv.InvoiceNumber = ""
	case 1: // Missing invoice date
		inv.InvoiceDate = ""
	case 2: // Missing seller name
		inv.Seller.Name = ""
	case 3: // Broken totals
		inv.GrossTotal = inv.GrossTotal.Add(decimal.New(int64(1+rand.Intn(500)), -2))
	case 4: // Due date before invoice date
		inv.DueDate = "2024-01-01"
	case 5: // Unknown currency
		inv.Currency = "XXX"
	case 6: // Negative tax
		inv.TaxAmount = inv.TaxAmount.Neg()
		inv.GrossTotal = inv.NetTotal.Add(inv.TaxAmount)
	}
}

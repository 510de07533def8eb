package engine

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"

	"github.com/Praneeth1-O-1/invoice-extraction-validation-system/record"
)

// fingerprint identifies an invoice for duplicate detection. Two records
// with equal fingerprints describe the same real-world invoice even when
// they arrived from different source files.
type fingerprint struct {
	Seller        string
	InvoiceNumber string
	GrossTotal    string
	InvoiceDate   string
}

// fingerprintOf computes the record's identity key. It returns false when
// the record cannot be fingerprinted, which happens when the invoice
// number or seller name is missing; such records are never reported as
// duplicates of each other.
func fingerprintOf(r *record.InvoiceRecord) (fingerprint, bool) {
	number := strings.ToUpper(strings.TrimSpace(r.InvoiceNumber))
	seller := strings.ToUpper(strings.TrimSpace(r.Seller.Name))
	if number == "" || seller == "" {
		return fingerprint{}, false
	}

	fp := fingerprint{Seller: seller, InvoiceNumber: number}
	if r.GrossTotal != nil {
		// Decimal String trims trailing zeros, so 99.0 and 99.00 produce
		// the same component.
		fp.GrossTotal = r.GrossTotal.String()
	}
	if !r.InvoiceDate.IsZero() {
		fp.InvoiceDate = r.InvoiceDate.String()
	}
	return fp, true
}

// DuplicateGroup is a set of record indexes sharing one fingerprint.
type DuplicateGroup struct {
	InvoiceNumber string `json:"invoice_number"`
	Seller        string `json:"seller"`
	Indexes       []int  `json:"indexes"`
}

// DetectDuplicates groups the batch by fingerprint and returns the groups
// with two or more members, ordered by the first index at which each
// group appears. Indexes within a group are in input order.
func DetectDuplicates(records []*record.InvoiceRecord) []DuplicateGroup {
	byPrint := make(map[fingerprint][]int)
	for i, r := range records {
		fp, ok := fingerprintOf(r)
		if !ok {
			continue
		}
		byPrint[fp] = append(byPrint[fp], i)
	}

	var groups []DuplicateGroup
	for fp, indexes := range byPrint {
		if len(indexes) < 2 {
			continue
		}
		groups = append(groups, DuplicateGroup{
			InvoiceNumber: fp.InvoiceNumber,
			Seller:        fp.Seller,
			Indexes:       indexes,
		})
	}
	slices.SortFunc(groups, func(a, b DuplicateGroup) int {
		return a.Indexes[0] - b.Indexes[0]
	})
	return groups
}

// duplicateViolation builds the warning attached to every member of a
// duplicate group, naming the records it collides with.
func duplicateViolation(r *record.InvoiceRecord, group DuplicateGroup, self int, records []*record.InvoiceRecord) Violation {
	others := make([]string, 0, len(group.Indexes)-1)
	for _, idx := range group.Indexes {
		if idx == self {
			continue
		}
		others = append(others, records[idx].Ref(idx))
	}
	return warn("duplicate_invoice", "invoice_number", fmt.Sprintf(
		"Duplicate invoice detected: %s from %s (also seen as %s)",
		r.InvoiceNumber, r.Seller.Name, strings.Join(others, ", ")))
}

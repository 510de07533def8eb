package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Praneeth1-O-1/invoice-extraction-validation-system/record"
)

// defaultRules is the full rule set in evaluation order. Every rule runs
// against every record; the engine never short-circuits on a failed rule.
// duplicate_invoice is declared last because it is resolved after the
// per-record phase, once the whole batch has been fingerprinted.
var defaultRules = []Rule{
	{
		Name:        "invoice_number_required",
		Description: "Invoice must have a non-empty invoice number.",
		Severity:    SeverityError,
		Field:       "invoice_number",
		Scope:       ScopeRecord,
		Check:       checkInvoiceNumberRequired,
	},
	{
		Name:        "invoice_date_required",
		Description: "Invoice must have an invoice date.",
		Severity:    SeverityError,
		Field:       "invoice_date",
		Scope:       ScopeRecord,
		Check:       checkInvoiceDateRequired,
	},
	{
		Name:        "seller_name_required",
		Description: "Seller name must not be empty.",
		Severity:    SeverityError,
		Field:       "seller.name",
		Scope:       ScopeRecord,
		Check:       checkSellerNameRequired,
	},
	{
		Name:        "buyer_name_required",
		Description: "Buyer name must not be empty.",
		Severity:    SeverityError,
		Field:       "buyer.name",
		Scope:       ScopeRecord,
		Check:       checkBuyerNameRequired,
	},
	{
		Name:        "gross_total_required",
		Description: "Gross total (final payable amount) must be present.",
		Severity:    SeverityError,
		Field:       "gross_total",
		Scope:       ScopeRecord,
		Check:       checkGrossTotalRequired,
	},
	{
		Name:        "date_order",
		Description: "Due date must be on or after the invoice date.",
		Severity:    SeverityError,
		Field:       "due_date",
		Scope:       ScopeRecord,
		Check:       checkDateOrder,
	},
	{
		Name:        "totals_consistency",
		Description: "Net total plus tax amount must equal the gross total within tolerance.",
		Severity:    SeverityError,
		Field:       "gross_total",
		Scope:       ScopeRecord,
		Check:       checkTotalsConsistency,
	},
	{
		Name:        "line_items_sum",
		Description: "Line item totals must sum to the net total within tolerance.",
		Severity:    SeverityError,
		Field:       "line_items",
		Scope:       ScopeRecord,
		Check:       checkLineItemsSum,
	},
	{
		Name:        "non_negative_amounts",
		Description: "Monetary amounts must not be negative.",
		Severity:    SeverityError,
		Field:       "amounts",
		Scope:       ScopeRecord,
		Check:       checkNonNegativeAmounts,
	},
	{
		Name:        "reasonable_date_range",
		Description: "Invoice and due dates must fall within the configured window around today.",
		Severity:    SeverityWarning,
		Field:       "invoice_date, due_date",
		Scope:       ScopeRecord,
		Check:       checkReasonableDateRange,
	},
	{
		Name:        "valid_currency",
		Description: "Currency must be one of the allowed currency codes.",
		Severity:    SeverityWarning,
		Field:       "currency",
		Scope:       ScopeRecord,
		Check:       checkValidCurrency,
	},
	{
		Name:        "duplicate_invoice",
		Description: "Invoices sharing a seller, invoice number, gross total and invoice date are flagged as likely duplicates.",
		Severity:    SeverityWarning,
		Field:       "invoice_number",
		Scope:       ScopeBatch,
	},
}

func checkInvoiceNumberRequired(r *record.InvoiceRecord, _ *Config, _ time.Time) RuleResult {
	if strings.TrimSpace(r.InvoiceNumber) == "" {
		return RuleResult{Violations: []Violation{
			fail("invoice_number_required", "invoice_number", "Invoice number is required and cannot be empty"),
		}}
	}
	return Pass()
}

func checkInvoiceDateRequired(r *record.InvoiceRecord, _ *Config, _ time.Time) RuleResult {
	if r.InvoiceDate.IsZero() {
		msg := "Invoice date is required"
		if raw := r.InvoiceDate.Raw(); raw != "" {
			msg = fmt.Sprintf("Invoice date is required (extracted value %q matched no known format)", raw)
		}
		return RuleResult{Violations: []Violation{
			fail("invoice_date_required", "invoice_date", msg),
		}}
	}
	return Pass()
}

func checkSellerNameRequired(r *record.InvoiceRecord, _ *Config, _ time.Time) RuleResult {
	if strings.TrimSpace(r.Seller.Name) == "" {
		return RuleResult{Violations: []Violation{
			fail("seller_name_required", "seller.name", "Seller name is required and cannot be empty"),
		}}
	}
	return Pass()
}

func checkBuyerNameRequired(r *record.InvoiceRecord, _ *Config, _ time.Time) RuleResult {
	if strings.TrimSpace(r.Buyer.Name) == "" {
		return RuleResult{Violations: []Violation{
			fail("buyer_name_required", "buyer.name", "Buyer name is required and cannot be empty"),
		}}
	}
	return Pass()
}

func checkGrossTotalRequired(r *record.InvoiceRecord, _ *Config, _ time.Time) RuleResult {
	if r.GrossTotal == nil {
		return RuleResult{Violations: []Violation{
			fail("gross_total_required", "gross_total", "Gross total (final amount) is required"),
		}}
	}
	return Pass()
}

func checkDateOrder(r *record.InvoiceRecord, _ *Config, _ time.Time) RuleResult {
	if r.InvoiceDate.IsZero() || r.DueDate.IsZero() {
		return Pass()
	}
	if r.DueDate.Before(r.InvoiceDate) {
		return RuleResult{Violations: []Violation{
			fail("date_order", "due_date", fmt.Sprintf(
				"Due date (%s) cannot be before invoice date (%s)", r.DueDate, r.InvoiceDate)),
		}}
	}
	return Pass()
}

func checkTotalsConsistency(r *record.InvoiceRecord, cfg *Config, _ time.Time) RuleResult {
	if r.NetTotal == nil || r.TaxAmount == nil || r.GrossTotal == nil {
		return Pass()
	}
	expected := r.NetTotal.Add(*r.TaxAmount)
	if !WithinTolerance(expected, *r.GrossTotal, cfg.Tolerance) {
		return RuleResult{Violations: []Violation{
			fail("totals_consistency", "gross_total", fmt.Sprintf(
				"Net total (%s) + Tax (%s) = %s does not match Gross total (%s)",
				r.NetTotal, r.TaxAmount, expected, r.GrossTotal)),
		}}
	}
	return Pass()
}

func checkLineItemsSum(r *record.InvoiceRecord, cfg *Config, _ time.Time) RuleResult {
	var violations []Violation

	// Per-line arithmetic findings are warnings. They point at the likely
	// culprit when the invoice-level sum is off, so they are raised even
	// when the invoice-level comparison cannot run.
	for i, item := range r.LineItems {
		if item == nil || item.Quantity == nil || item.UnitPrice == nil || item.LineTotal == nil {
			continue
		}
		computed := RoundHalfUp(item.Quantity.Mul(*item.UnitPrice), MinorUnitPlaces)
		if !WithinTolerance(computed, *item.LineTotal, cfg.Tolerance) {
			violations = append(violations, warn("line_items_sum",
				fmt.Sprintf("line_items[%d].line_total", i),
				fmt.Sprintf("Line total (%s) does not match quantity (%s) x unit price (%s) = %s",
					item.LineTotal, item.Quantity, item.UnitPrice, computed)))
		}
	}

	if len(r.LineItems) > 0 && r.NetTotal != nil {
		if sum, ok := sumLineTotals(r.LineItems); ok {
			if !WithinTolerance(sum, *r.NetTotal, cfg.Tolerance) {
				violations = append(violations, fail("line_items_sum", "line_items", fmt.Sprintf(
					"Sum of line items (%s) does not match net total (%s)", sum, r.NetTotal)))
			}
		}
	}

	return RuleResult{Violations: violations}
}

func checkNonNegativeAmounts(r *record.InvoiceRecord, _ *Config, _ time.Time) RuleResult {
	var violations []Violation

	amounts := []struct {
		field string
		label string
		value *decimal.Decimal
	}{
		{"net_total", "Net total", r.NetTotal},
		{"tax_amount", "Tax amount", r.TaxAmount},
		{"gross_total", "Gross total", r.GrossTotal},
	}
	for _, a := range amounts {
		if a.value != nil && a.value.IsNegative() {
			violations = append(violations, fail("non_negative_amounts", a.field,
				fmt.Sprintf("%s cannot be negative", a.label)))
		}
	}

	for i, item := range r.LineItems {
		if item == nil {
			continue
		}
		if item.Quantity != nil && item.Quantity.IsNegative() {
			violations = append(violations, fail("non_negative_amounts",
				fmt.Sprintf("line_items[%d].quantity", i), "Quantity cannot be negative"))
		}
		if item.UnitPrice != nil && item.UnitPrice.IsNegative() {
			violations = append(violations, fail("non_negative_amounts",
				fmt.Sprintf("line_items[%d].unit_price", i), "Unit price cannot be negative"))
		}
		if item.LineTotal != nil && item.LineTotal.IsNegative() {
			violations = append(violations, fail("non_negative_amounts",
				fmt.Sprintf("line_items[%d].line_total", i), "Line total cannot be negative"))
		}
	}

	return RuleResult{Violations: violations}
}

func checkReasonableDateRange(r *record.InvoiceRecord, cfg *Config, now time.Time) RuleResult {
	var violations []Violation

	earliest := now.AddDate(-cfg.DateRangeYears, 0, 0)
	latest := now.AddDate(cfg.DateRangeYears, 0, 0)

	dates := []struct {
		field string
		label string
		value *record.Date
	}{
		{"invoice_date", "Invoice date", r.InvoiceDate},
		{"due_date", "Due date", r.DueDate},
	}
	for _, d := range dates {
		if d.value.IsZero() {
			continue
		}
		if d.value.Time.Before(earliest) || d.value.Time.After(latest) {
			violations = append(violations, warn("reasonable_date_range", d.field, fmt.Sprintf(
				"%s %s seems unreasonable (too far in past/future)", d.label, d.value)))
		}
	}

	return RuleResult{Violations: violations}
}

func checkValidCurrency(r *record.InvoiceRecord, cfg *Config, _ time.Time) RuleResult {
	code := strings.TrimSpace(r.Currency)
	if code == "" {
		return Pass()
	}
	if !cfg.currencyAllowed(code) {
		return RuleResult{Violations: []Violation{
			warn("valid_currency", "currency", fmt.Sprintf(
				"Currency '%s' is not in known set (%s)", code, strings.Join(cfg.AllowedCurrencies, ", "))),
		}}
	}
	return Pass()
}

package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"

	"github.com/Praneeth1-O-1/invoice-extraction-validation-system/record"
)

func newTestEngine(t *testing.T, cfg *Config, opts ...Option) *Engine {
	t.Helper()
	opts = append(opts,
		WithClock(func() time.Time { return testNow }),
		WithRunID(func() string { return "test-run" }),
	)
	eng, err := New(cfg, opts...)
	assert.NoError(t, err)
	return eng
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := NewConfig()
	cfg.Tolerance = decimal.RequireFromString("-1")

	_, err := New(cfg)
	assert.Error(t, err)
	var cfgErr *ConfigError
	assert.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "tolerance", cfgErr.Option)
}

func TestNewNilConfigUsesDefaults(t *testing.T) {
	eng, err := New(nil)
	assert.NoError(t, err)
	assert.Equal(t, "0.01", eng.Config().Tolerance.String())
}

func TestValidateEmptyBatch(t *testing.T) {
	eng := newTestEngine(t, nil)

	report, err := eng.Validate(context.Background(), nil)
	assert.NoError(t, err)
	assert.Equal(t, 0, report.Summary.Total)
	assert.Equal(t, 0, report.Summary.InvalidCount)
	assert.Equal(t, 0, len(report.Results))
}

func TestValidateCompleteBatch(t *testing.T) {
	eng := newTestEngine(t, nil)

	report, err := eng.Validate(context.Background(), []*record.InvoiceRecord{completeInvoice()})
	assert.NoError(t, err)
	assert.Equal(t, 1, report.Summary.Total)
	assert.Equal(t, 1, report.Summary.ValidCount)
	assert.Equal(t, 0, report.Summary.ErrorCount)
	assert.True(t, report.Results[0].IsValid)
	assert.Equal(t, 0, len(report.Results[0].Violations))
	assert.Equal(t, "INV-001", report.Results[0].Ref)
}

func TestValidateAllRulesRun(t *testing.T) {
	eng := newTestEngine(t, nil)

	// A record failing several rules at once reports all of them.
	r := record.New(
		record.WithBuyer("Orchid Labs"),
		record.WithDates("2026-03-31", "2026-03-01"),
		record.WithCurrency("XXX"),
		record.WithTotals("100.00", "19.00", "150.00"),
	)
	report, err := eng.Validate(context.Background(), []*record.InvoiceRecord{r})
	assert.NoError(t, err)

	result := report.Results[0]
	assert.False(t, result.IsValid)
	assert.Equal(t, []string{
		"invoice_number_required",
		"seller_name_required",
		"date_order",
		"totals_consistency",
		"valid_currency",
	}, ruleNames(result.Violations))
}

func TestValidateWarningsDoNotInvalidate(t *testing.T) {
	eng := newTestEngine(t, nil)

	r := completeInvoice()
	r.Currency = "CHF"
	report, err := eng.Validate(context.Background(), []*record.InvoiceRecord{r})
	assert.NoError(t, err)

	result := report.Results[0]
	assert.True(t, result.IsValid)
	assert.Equal(t, 1, len(result.Warnings))
	assert.Equal(t, 0, len(result.Errors))
	assert.Equal(t, 1, report.Summary.ValidCount)
	assert.Equal(t, 1, report.Summary.WithWarnings)
	assert.Equal(t, 1, report.Summary.WarningCount)
}

func TestValidateDuplicateWarnings(t *testing.T) {
	eng := newTestEngine(t, nil)

	records := []*record.InvoiceRecord{
		completeInvoice(),
		record.New(record.WithInvoiceNumber("INV-002"), record.WithSeller("Acme Industrial Supplies Ltd")),
		completeInvoice(),
	}
	report, err := eng.Validate(context.Background(), records)
	assert.NoError(t, err)

	assert.Equal(t, 1, report.Summary.DuplicateGroups)
	assert.Equal(t, 1, len(report.Duplicates))
	assert.Equal(t, []int{0, 2}, report.Duplicates[0].Indexes)

	// Every member of the group carries the warning and stays valid
	for _, idx := range []int{0, 2} {
		result := report.Results[idx]
		assert.True(t, result.IsValid)
		warnings := result.Warnings
		assert.Equal(t, 1, len(warnings))
		assert.Equal(t, "duplicate_invoice", warnings[0].Rule)
	}
	assert.Equal(t, 0, len(report.Results[1].Warnings))
}

func TestValidateOrderPreserved(t *testing.T) {
	eng := newTestEngine(t, nil, WithWorkers(8))

	records := make([]*record.InvoiceRecord, 100)
	for i := range records {
		records[i] = record.New(
			record.WithInvoiceNumber(fmt.Sprintf("INV-%03d", i)),
			record.WithSeller("Acme Ltd"),
			record.WithBuyer("Orchid Labs"),
			record.WithDates("2026-03-01", "2026-03-31"),
			record.WithGrossTotal("10.00"),
		)
	}
	report, err := eng.Validate(context.Background(), records)
	assert.NoError(t, err)

	for i, result := range report.Results {
		assert.Equal(t, i, result.Index)
		assert.Equal(t, fmt.Sprintf("INV-%03d", i), result.Ref)
	}
}

func TestValidateIdempotent(t *testing.T) {
	eng := newTestEngine(t, nil)

	records := []*record.InvoiceRecord{
		completeInvoice(),
		completeInvoice(),
		record.New(record.WithSourceFile("scan-042.pdf")),
	}

	first, err := eng.Validate(context.Background(), records)
	assert.NoError(t, err)
	second, err := eng.Validate(context.Background(), records)
	assert.NoError(t, err)

	firstJSON, err := json.Marshal(first)
	assert.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	assert.NoError(t, err)
	assert.Equal(t, string(firstJSON), string(secondJSON))
}

func TestValidateNilRecord(t *testing.T) {
	eng := newTestEngine(t, nil)

	report, err := eng.Validate(context.Background(), []*record.InvoiceRecord{completeInvoice(), nil})
	assert.Error(t, err)
	assert.True(t, report == nil)

	var batchErr *BatchError
	assert.True(t, errors.As(err, &batchErr))
	assert.Equal(t, 1, batchErr.Index)
}

func TestValidateCancelledContext(t *testing.T) {
	eng := newTestEngine(t, nil, WithWorkers(1))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	records := make([]*record.InvoiceRecord, 50)
	for i := range records {
		records[i] = completeInvoice()
	}
	report, err := eng.Validate(ctx, records)
	assert.Error(t, err)
	assert.True(t, report == nil)
}

func TestValidateRefFallbacks(t *testing.T) {
	eng := newTestEngine(t, nil)

	records := []*record.InvoiceRecord{
		record.New(record.WithInvoiceNumber("INV-001")),
		record.New(record.WithSourceFile("scan-042.pdf")),
		record.New(),
	}
	report, err := eng.Validate(context.Background(), records)
	assert.NoError(t, err)

	assert.Equal(t, "INV-001", report.Results[0].Ref)
	assert.Equal(t, "scan-042.pdf", report.Results[1].Ref)
	assert.Equal(t, "record-2", report.Results[2].Ref)
}

func TestSummaryCounts(t *testing.T) {
	eng := newTestEngine(t, nil)

	records := []*record.InvoiceRecord{
		completeInvoice(),
		record.New(record.WithSeller("Acme Ltd")),
	}
	report, err := eng.Validate(context.Background(), records)
	assert.NoError(t, err)

	assert.Equal(t, 2, report.Summary.Total)
	assert.Equal(t, 1, report.Summary.ValidCount)
	assert.Equal(t, 1, report.Summary.InvalidCount)

	// invoice_number, invoice_date, buyer name, gross total all missing
	assert.Equal(t, 4, report.Summary.ErrorCount)
	assert.Equal(t, 1, report.Summary.ErrorCounts["invoice_number_required: invoice_number"])
	assert.Equal(t, 1, report.Summary.ErrorCounts["gross_total_required: gross_total"])
}

func TestResultWireFormat(t *testing.T) {
	eng := newTestEngine(t, nil)

	t.Run("clean record emits empty arrays", func(t *testing.T) {
		report, err := eng.Validate(context.Background(), []*record.InvoiceRecord{completeInvoice()})
		assert.NoError(t, err)

		data, err := json.Marshal(report.Results[0])
		assert.NoError(t, err)
		assert.Contains(t, string(data), `"invoice_ref":"INV-001"`)
		assert.Contains(t, string(data), `"errors":[]`)
		assert.Contains(t, string(data), `"warnings":[]`)
	})

	t.Run("findings split by severity", func(t *testing.T) {
		r := completeInvoice()
		r.InvoiceNumber = ""
		r.Currency = "CHF"
		report, err := eng.Validate(context.Background(), []*record.InvoiceRecord{r})
		assert.NoError(t, err)

		result := report.Results[0]
		assert.Equal(t, 1, len(result.Errors))
		assert.Equal(t, "invoice_number_required", result.Errors[0].Rule)
		assert.Equal(t, 1, len(result.Warnings))
		assert.Equal(t, "valid_currency", result.Warnings[0].Rule)

		data, err := json.Marshal(result)
		assert.NoError(t, err)
		assert.Contains(t, string(data), `"is_valid":false`)
		assert.Contains(t, string(data), `"field":"invoice_number"`)
		assert.Contains(t, string(data), `"field":"currency"`)
		assert.NotContains(t, string(data), `"violations"`)
	})
}

package engine

import (
	"time"

	"github.com/Praneeth1-O-1/invoice-extraction-validation-system/record"
)

// ValidationResult is the outcome for a single record. Validity depends on
// error violations only; a record carrying nothing but warnings is valid.
//
// The wire shape splits findings into errors and warnings arrays; the
// combined Violations slice keeps rule declaration order for rendering
// and summary counts and stays off the wire.
type ValidationResult struct {
	Index    int         `json:"index"`
	Ref      string      `json:"invoice_ref"`
	IsValid  bool        `json:"is_valid"`
	Errors   []Violation `json:"errors"`
	Warnings []Violation `json:"warnings"`

	Violations []Violation `json:"-"`
}

// Summary aggregates a run. The per-key counts group violations by
// "rule: field" so a report reader can see at a glance which checks are
// failing most often across the batch.
type Summary struct {
	Total           int            `json:"total"`
	ValidCount      int            `json:"valid_count"`
	InvalidCount    int            `json:"invalid_count"`
	WithWarnings    int            `json:"with_warnings"`
	ErrorCount      int            `json:"error_count"`
	WarningCount    int            `json:"warning_count"`
	DuplicateGroups int            `json:"duplicate_groups"`
	ErrorCounts     map[string]int `json:"error_counts"`
	WarningCounts   map[string]int `json:"warning_counts"`
}

// Report is the complete output of one validation run. Reports produced
// from the same batch, configuration, run ID and clock are byte-identical
// when serialized.
type Report struct {
	RunID       string             `json:"run_id"`
	GeneratedAt time.Time          `json:"generated_at"`
	Summary     Summary            `json:"summary"`
	Results     []ValidationResult `json:"results"`
	Duplicates  []DuplicateGroup   `json:"duplicates,omitempty"`
}

// newResult builds the result for one record from its collected
// violations. Violations arrive in rule declaration order.
func newResult(index int, r *record.InvoiceRecord, violations []Violation) ValidationResult {
	if violations == nil {
		violations = []Violation{}
	}
	errs := []Violation{}
	warns := []Violation{}
	for _, v := range violations {
		switch v.Severity {
		case SeverityError:
			errs = append(errs, v)
		case SeverityWarning:
			warns = append(warns, v)
		}
	}
	return ValidationResult{
		Index:      index,
		Ref:        r.Ref(index),
		IsValid:    len(errs) == 0,
		Errors:     errs,
		Warnings:   warns,
		Violations: violations,
	}
}

// summarize folds the per-record results and duplicate groups into the
// run summary.
func summarize(results []ValidationResult, duplicates []DuplicateGroup) Summary {
	s := Summary{
		Total:         len(results),
		ErrorCounts:   make(map[string]int),
		WarningCounts: make(map[string]int),
	}
	for _, res := range results {
		if res.IsValid {
			s.ValidCount++
		} else {
			s.InvalidCount++
		}
		warned := false
		for _, v := range res.Violations {
			key := v.Rule + ": " + v.Field
			switch v.Severity {
			case SeverityError:
				s.ErrorCount++
				s.ErrorCounts[key]++
			case SeverityWarning:
				s.WarningCount++
				s.WarningCounts[key]++
				warned = true
			}
		}
		if warned {
			s.WithWarnings++
		}
	}
	s.DuplicateGroups = len(duplicates)
	return s
}

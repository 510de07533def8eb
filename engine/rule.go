package engine

import (
	"time"

	"github.com/Praneeth1-O-1/invoice-extraction-validation-system/record"
)

// Severity classifies a violation. Errors make an invoice invalid;
// warnings never affect validity.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Scope distinguishes rules evaluated per record from rules that need the
// whole batch materialized (duplicate detection).
type Scope int

const (
	ScopeRecord Scope = iota
	ScopeBatch
)

// Violation is one failed or warned rule outcome, referencing the field it
// was raised on. Violations are plain values, never thrown: they are the
// engine's primary output, not failures of the engine.
type Violation struct {
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity"`
	Field    string   `json:"field"`
	Message  string   `json:"message"`
}

// RuleResult is the outcome of evaluating one rule against one record.
// An empty result is a pass; a rule may raise several violations (for
// example one per negative amount).
type RuleResult struct {
	Violations []Violation
}

// Passed reports whether the rule raised no violations.
func (r RuleResult) Passed() bool {
	return len(r.Violations) == 0
}

// Pass is the result of a rule that found nothing to report. Rules also
// pass vacuously when their precondition fields are absent; presence is
// enforced only by the *_required rules.
func Pass() RuleResult {
	return RuleResult{}
}

// CheckFunc evaluates one record. It must be pure: no state, no I/O, and
// it never mutates the record. now is the validation run's reference time,
// passed in so outcomes are reproducible.
type CheckFunc func(r *record.InvoiceRecord, cfg *Config, now time.Time) RuleResult

// Rule is a single named business check tagged with the metadata the
// report and the rule catalog need. The rule set is an ordered list of
// these values, not a type hierarchy: adding or removing a rule never
// touches the executor.
type Rule struct {
	Name        string
	Description string
	Severity    Severity
	Field       string
	Scope       Scope

	// Check is nil for batch-scoped rules, which are evaluated by the
	// duplicate detector after the per-record phase.
	Check CheckFunc
}

// fail builds an error violation for the named rule.
func fail(rule, field, message string) Violation {
	return Violation{Rule: rule, Severity: SeverityError, Field: field, Message: message}
}

// warn builds a warning violation for the named rule. Also used for
// line-level findings raised alongside an invoice-level error rule.
func warn(rule, field, message string) Violation {
	return Violation{Rule: rule, Severity: SeverityWarning, Field: field, Message: message}
}

// Rules returns a copy of the declared rule set in evaluation order.
// The reported order of violations follows this declaration order, which
// keeps reports reproducible run over run.
func Rules() []Rule {
	return append([]Rule(nil), defaultRules...)
}

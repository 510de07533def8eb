// Package engine validates batches of extracted invoice records against a
// fixed set of business rules and aggregates the findings into a report.
//
// The engine treats validation findings as data. A rule that fails
// produces a Violation inside the report; the error return of Validate is
// reserved for runs that could not execute at all, such as an invalid
// configuration or a structurally unusable batch. A run either produces a
// complete report or none.
package engine

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Praneeth1-O-1/invoice-extraction-validation-system/record"
	"github.com/Praneeth1-O-1/invoice-extraction-validation-system/telemetry"
)

// Engine runs the rule set over record batches. An Engine is safe for
// concurrent use; it holds no per-run state.
type Engine struct {
	cfg   *Config
	rules []Rule
	// workers bounds per-record concurrency within one run.
	workers int
	clock   func() time.Time
	runID   func() string
}

// Option configures an Engine.
type Option func(*Engine)

// WithWorkers sets the number of records validated concurrently.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithClock fixes the engine's reference time. Used to make reports
// reproducible; the default is time.Now.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		e.clock = clock
	}
}

// WithRunID fixes the run identifier generator. The default generates a
// random UUID per run.
func WithRunID(gen func() string) Option {
	return func(e *Engine) {
		e.runID = gen
	}
}

// New creates an Engine with the given configuration. It returns a
// ConfigError when the configuration is invalid; no run ever starts with
// a bad configuration.
func New(cfg *Config, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = NewConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:     cfg,
		rules:   Rules(),
		workers: runtime.NumCPU(),
		clock:   time.Now,
		runID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Config returns the engine's configuration.
func (e *Engine) Config() *Config {
	return e.cfg
}

// Validate runs every rule against every record in the batch and returns
// the aggregated report. Results appear in input order regardless of the
// order in which records finish. When ctx is canceled mid-run no report
// is returned, only the context's error.
func (e *Engine) Validate(ctx context.Context, records []*record.InvoiceRecord) (*Report, error) {
	for i, r := range records {
		if r == nil {
			return nil, NewBatchError(i, "is null")
		}
	}

	collector := telemetry.FromContext(ctx)
	timer := collector.Start("Validate batch")
	defer timer.End()

	now := e.clock()

	rulesTimer := timer.Child("Evaluate rules")
	violations, err := e.evaluate(ctx, records, now)
	rulesTimer.End()
	if err != nil {
		return nil, err
	}

	dupTimer := timer.Child("Detect duplicates")
	duplicates := DetectDuplicates(records)
	for _, group := range duplicates {
		for _, idx := range group.Indexes {
			violations[idx] = append(violations[idx], duplicateViolation(records[idx], group, idx, records))
		}
	}
	dupTimer.End()

	results := make([]ValidationResult, len(records))
	for i, r := range records {
		results[i] = newResult(i, r, violations[i])
	}

	return &Report{
		RunID:       e.runID(),
		GeneratedAt: now.UTC(),
		Summary:     summarize(results, duplicates),
		Results:     results,
		Duplicates:  duplicates,
	}, nil
}

// evaluate runs the record-scoped rules over the batch with a bounded
// worker pool. violations[i] holds record i's findings in rule
// declaration order.
func (e *Engine) evaluate(ctx context.Context, records []*record.InvoiceRecord, now time.Time) ([][]Violation, error) {
	violations := make([][]Violation, len(records))

	indexes := make(chan int)
	var wg sync.WaitGroup

	workers := e.workers
	if workers > len(records) {
		workers = len(records)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				violations[i] = e.checkRecord(records[i], now)
			}
		}()
	}

	var cancelled error
feed:
	for i := range records {
		select {
		case indexes <- i:
		case <-ctx.Done():
			cancelled = ctx.Err()
			break feed
		}
	}
	close(indexes)
	wg.Wait()

	if cancelled != nil {
		return nil, cancelled
	}
	return violations, nil
}

// checkRecord evaluates every record-scoped rule against one record.
func (e *Engine) checkRecord(r *record.InvoiceRecord, now time.Time) []Violation {
	var out []Violation
	for _, rule := range e.rules {
		if rule.Scope != ScopeRecord {
			continue
		}
		result := rule.Check(r, e.cfg, now)
		out = append(out, result.Violations...)
	}
	return out
}

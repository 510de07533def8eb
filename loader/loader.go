// Package loader reads batches of extracted invoice records from JSON
// input. A batch is either a top-level array of invoice objects or an
// object with an "invoices" array, which is what extraction pipelines
// that wrap their output in an envelope produce.
//
// Example usage:
//
//	ldr := loader.New()
//	records, err := ldr.Load(ctx, "invoices.json")
package loader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/Praneeth1-O-1/invoice-extraction-validation-system/record"
)

// Loader reads invoice batches from JSON files or streams.
//
// Configure the loader using functional options passed to New:
//
//	ldr := New(WithSourceTagging(false))
type Loader struct {
	// TagSource controls whether records without a source_file get tagged
	// with the name of the file they were loaded from. Enabled by default;
	// records loaded from a stream are never tagged.
	TagSource bool
}

// Option configures how batches are loaded.
type Option func(*Loader)

// WithSourceTagging controls source file tagging on loaded records.
func WithSourceTagging(enabled bool) Option {
	return func(l *Loader) {
		l.TagSource = enabled
	}
}

// New creates a new Loader with the given options.
func New(opts ...Option) *Loader {
	l := &Loader{TagSource: true}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// envelope matches batches wrapped in an object.
type envelope struct {
	Invoices []*record.InvoiceRecord `json:"invoices"`
}

// Load reads and decodes a batch from a file.
func (l *Loader) Load(ctx context.Context, filename string) ([]*record.InvoiceRecord, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}

	records, err := l.decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filename, err)
	}

	if l.TagSource {
		for _, r := range records {
			if r != nil && r.SourceFile == "" {
				r.SourceFile = filename
			}
		}
	}
	return records, nil
}

// LoadReader decodes a batch from a stream, typically stdin.
func (l *Loader) LoadReader(ctx context.Context, r io.Reader) ([]*record.InvoiceRecord, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	records, err := l.decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode input: %w", err)
	}
	return records, nil
}

// decode accepts both a bare array and an envelope object.
func (l *Loader) decode(data []byte) ([]*record.InvoiceRecord, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("input is empty")
	}

	switch trimmed[0] {
	case '[':
		var records []*record.InvoiceRecord
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, err
		}
		return records, nil
	case '{':
		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, err
		}
		if env.Invoices == nil {
			return nil, fmt.Errorf(`object input must carry an "invoices" array`)
		}
		return env.Invoices, nil
	default:
		return nil, fmt.Errorf("input must be a JSON array or object")
	}
}

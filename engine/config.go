package engine

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultTolerance is the maximum absolute discrepancy allowed by the
// consistency rules when no tolerance is configured: one cent.
var DefaultTolerance = decimal.New(1, -2)

// DefaultDateRangeYears is the window, in years either side of the
// validation run time, outside which invoice dates are flagged.
const DefaultDateRangeYears = 2

// defaultCurrencies is the fixed allow-list checked by valid_currency.
var defaultCurrencies = []string{"EUR", "USD", "INR", "GBP"}

// Config holds the configuration for one validation run. It is passed
// explicitly into each run rather than held as ambient state, so concurrent
// runs with different settings cannot interfere.
type Config struct {
	// Tolerance is the maximum absolute difference for amount consistency
	// checks to still pass. Must be non-negative.
	Tolerance decimal.Decimal

	// DateRangeYears bounds how far in the past or future an invoice date
	// may lie before reasonable_date_range flags it. Must be non-negative.
	DateRangeYears int

	// AllowedCurrencies is the set of recognized currency codes.
	// Compared case-insensitively.
	AllowedCurrencies []string
}

// NewConfig creates a Config with the engine defaults: tolerance 0.01,
// two-year date window, and the built-in currency allow-list.
func NewConfig() *Config {
	return &Config{
		Tolerance:         DefaultTolerance,
		DateRangeYears:    DefaultDateRangeYears,
		AllowedCurrencies: append([]string(nil), defaultCurrencies...),
	}
}

// Validate checks the configuration for usage errors. A bad configuration
// rejects the whole run up front; no partial batch is ever processed.
func (c *Config) Validate() error {
	if c.Tolerance.IsNegative() {
		return NewConfigError("tolerance", "must be non-negative, got "+c.Tolerance.String())
	}
	if c.DateRangeYears < 0 {
		return NewConfigError("date_range_years", "must be non-negative")
	}
	for _, code := range c.AllowedCurrencies {
		if len(strings.TrimSpace(code)) != 3 {
			return NewConfigError("allowed_currencies", "invalid currency code "+code)
		}
	}
	return nil
}

// currencyAllowed reports whether code is in the allow-list.
// Comparison is case-insensitive and whitespace-trimmed.
func (c *Config) currencyAllowed(code string) bool {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	for _, allowed := range c.AllowedCurrencies {
		if strings.ToUpper(strings.TrimSpace(allowed)) == normalized {
			return true
		}
	}
	return false
}

// contextKey is a private type to avoid key collisions in context.
type contextKey struct{}

// WithContext returns a new context with the Config attached.
func (c *Config) WithContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, c)
}

// ConfigFromContext retrieves the Config from context.
// Returns a default Config if not found.
func ConfigFromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(contextKey{}).(*Config); ok {
		return cfg
	}
	return NewConfig()
}

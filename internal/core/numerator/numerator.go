// Package numerator provides document auto-numbering backed by a sequence
// table. Every document type goes through the same generator, so codes
// follow one scheme (PREFIX-PERIOD-NNNN) and never collide.
package numerator

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// Querier is the minimal database surface the numerator needs.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// QuerierProvider resolves the querier for the current context.
// When a transaction is active the sequence bump happens inside it, so a
// rolled back posting never consumes a number.
type QuerierProvider interface {
	Querier(ctx context.Context) Querier
}

// Config holds numbering configuration for one document type.
type Config struct {
	// Prefix added to all numbers (e.g., "ST", "PR", "ADJ")
	Prefix string

	// PadWidth is the minimum number width (default 4)
	PadWidth int

	// ResetPeriod: "year", "month", "never"
	ResetPeriod string
}

// DefaultConfig returns the standard yearly-reset config.
func DefaultConfig(prefix string) Config {
	return Config{
		Prefix:      prefix,
		PadWidth:    4,
		ResetPeriod: "year",
	}
}

// Generator produces the next document code for a company and period.
type Generator interface {
	Next(ctx context.Context, companyID string, cfg Config, period time.Time) (string, error)
}

// Service is the sequence-table backed Generator.
type Service struct {
	provider QuerierProvider
}

// New creates a numerator service.
func New(provider QuerierProvider) *Service {
	return &Service{provider: provider}
}

// Next allocates the next number via UPSERT + RETURNING on sys_sequences.
// The row update takes a row lock, so concurrent allocations for the same
// key serialize in the database and every caller gets a distinct value.
func (s *Service) Next(ctx context.Context, companyID string, cfg Config, period time.Time) (string, error) {
	if s == nil || s.provider == nil {
		return "", fmt.Errorf("numerator service is not initialized")
	}

	key := buildKey(companyID, cfg, period)

	var num int64
	err := s.provider.Querier(ctx).QueryRow(ctx, `
		INSERT INTO sys_sequences (key, current_val)
		VALUES ($1, 1)
		ON CONFLICT (key) DO UPDATE SET current_val = sys_sequences.current_val + 1
		RETURNING current_val
	`, key).Scan(&num)
	if err != nil {
		return "", fmt.Errorf("next sequence value for %s: %w", key, err)
	}

	return FormatNumber(cfg, period, num), nil
}

// buildKey creates the sequence key: company-scoped so different companies
// have independent counters.
func buildKey(companyID string, cfg Config, period time.Time) string {
	switch cfg.ResetPeriod {
	case "month":
		return fmt.Sprintf("%s_%s_%s", companyID, cfg.Prefix, period.Format("2006_01"))
	case "never":
		return fmt.Sprintf("%s_%s", companyID, cfg.Prefix)
	default:
		return fmt.Sprintf("%s_%s_%s", companyID, cfg.Prefix, period.Format("2006"))
	}
}

// FormatNumber creates the final code string. The rendered period matches
// the reset period, so codes from different periods never collide:
// ST-2026-0001 for yearly reset, ST-2026-03-0001 for monthly, ST-0001 for
// never.
func FormatNumber(cfg Config, period time.Time, num int64) string {
	padWidth := cfg.PadWidth
	if padWidth == 0 {
		padWidth = 4
	}

	switch cfg.ResetPeriod {
	case "never":
		return fmt.Sprintf("%s-%0*d", cfg.Prefix, padWidth, num)
	case "month":
		return fmt.Sprintf("%s-%s-%0*d", cfg.Prefix, period.Format("2006-01"), padWidth, num)
	default:
		return fmt.Sprintf("%s-%s-%0*d", cfg.Prefix, period.Format("2006"), padWidth, num)
	}
}

// ParseNumber extracts the numeric part from a formatted code.
// Returns -1 if parsing fails. Longest pattern first, otherwise the month
// segment of a monthly code would be taken for the sequence number.
func ParseNumber(formatted string) int64 {
	var num int64
	patterns := []string{
		"%*[^-]-%*d-%*d-%d",
		"%*[^-]-%*d-%d",
		"%*[^-]-%d",
	}

	for _, pattern := range patterns {
		if _, err := fmt.Sscanf(formatted, pattern, &num); err == nil {
			return num
		}
	}

	return -1
}

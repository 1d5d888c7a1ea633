package numerator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var march = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "ST-2026-0001", FormatNumber(DefaultConfig("ST"), march, 1))
	assert.Equal(t, "PR-2026-0042", FormatNumber(DefaultConfig("PR"), march, 42))
	assert.Equal(t, "ADJ-2026-12345", FormatNumber(DefaultConfig("ADJ"), march, 12345))

	noReset := Config{Prefix: "POS", PadWidth: 6, ResetPeriod: "never"}
	assert.Equal(t, "POS-000007", FormatNumber(noReset, march, 7))

	// Zero pad width falls back to 4.
	assert.Equal(t, "X-2026-0009", FormatNumber(Config{Prefix: "X"}, march, 9))
}

func TestFormatNumberMonthlyReset(t *testing.T) {
	monthly := Config{Prefix: "ST", ResetPeriod: "month"}

	// The month is part of the code, so the first number of each month
	// renders differently even though both counters start at 1.
	assert.Equal(t, "ST-2026-03-0001", FormatNumber(monthly, march, 1))
	assert.NotEqual(t,
		FormatNumber(monthly, march, 1),
		FormatNumber(monthly, march.AddDate(0, 1, 0), 1),
	)
}

func TestBuildKeyScopes(t *testing.T) {
	yearly := DefaultConfig("ST")
	assert.Equal(t, "acme_ST_2026", buildKey("acme", yearly, march))

	monthly := Config{Prefix: "ST", ResetPeriod: "month"}
	assert.Equal(t, "acme_ST_2026_03", buildKey("acme", monthly, march))

	never := Config{Prefix: "ST", ResetPeriod: "never"}
	assert.Equal(t, "acme_ST", buildKey("acme", never, march))

	// Different companies never share a counter.
	assert.NotEqual(t, buildKey("acme", yearly, march), buildKey("globex", yearly, march))
}

func TestParseNumber(t *testing.T) {
	assert.Equal(t, int64(42), ParseNumber("PR-2026-0042"))
	assert.Equal(t, int64(12), ParseNumber("ST-2026-03-0012"))
	assert.Equal(t, int64(7), ParseNumber("POS-000007"))
	assert.Equal(t, int64(-1), ParseNumber("garbage"))
}

func TestMockSequence(t *testing.T) {
	gen := NewMock()
	ctx := context.Background()
	cfg := DefaultConfig("ST")

	first, err := gen.Next(ctx, "acme", cfg, march)
	require.NoError(t, err)
	second, err := gen.Next(ctx, "acme", cfg, march)
	require.NoError(t, err)

	assert.Equal(t, "ST-2026-0001", first)
	assert.Equal(t, "ST-2026-0002", second)

	// Independent counters per company and per year.
	other, err := gen.Next(ctx, "globex", cfg, march)
	require.NoError(t, err)
	assert.Equal(t, "ST-2026-0001", other)

	nextYear, err := gen.Next(ctx, "acme", cfg, march.AddDate(1, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, "ST-2027-0001", nextYear)
}

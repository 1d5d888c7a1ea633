package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantityFromFloat64(t *testing.T) {
	assert.Equal(t, Quantity(15000), NewQuantityFromFloat64(1.5))
	assert.Equal(t, Quantity(-25000), NewQuantityFromFloat64(-2.5))
	assert.Equal(t, Quantity(1), NewQuantityFromFloat64(0.0001))
	assert.Equal(t, Quantity(0), NewQuantityFromFloat64(0))

	// Rounds rather than truncates.
	assert.Equal(t, Quantity(1), NewQuantityFromFloat64(0.00009))
}

func TestQuantityString(t *testing.T) {
	tests := []struct {
		q    Quantity
		want string
	}{
		{0, "0.0000"},
		{15000, "1.5000"},
		{-15000, "-1.5000"},
		{1, "0.0001"},
		{-1, "-0.0001"},
		{123456789, "12345.6789"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, tc.q.String())
	}
}

func TestQuantityJSONRoundTrip(t *testing.T) {
	q := NewQuantityFromFloat64(3.25)

	data, err := json.Marshal(q)
	require.NoError(t, err)
	assert.Equal(t, "3.2500", string(data))

	var back Quantity
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, q, back)
}

func TestQuantityUnmarshalForms(t *testing.T) {
	tests := []struct {
		in   string
		want Quantity
	}{
		{`5`, 50000},
		{`5.5`, 55000},
		{`"5.5"`, 55000},
		{`-0.25`, -2500},
		{`null`, 0},
		{`1.23456789`, 12345}, // extra digits truncated
		{`".5"`, 5000},
		{`1e2`, 1000000},
	}
	for _, tc := range tests {
		var q Quantity
		require.NoError(t, json.Unmarshal([]byte(tc.in), &q), "input %s", tc.in)
		assert.Equal(t, tc.want, q, "input %s", tc.in)
	}
}

func TestQuantityMulRate(t *testing.T) {
	q := NewQuantityFromFloat64(2.5)
	total := q.MulRate(MustMoney("3.1"))
	assert.True(t, total.Equal(MustMoney("7.75")), "got %s", total)

	// No float drift on awkward decimals.
	q = NewQuantityFromFloat64(0.1)
	total = q.MulRate(MustMoney("0.3"))
	assert.True(t, total.Equal(MustMoney("0.03")), "got %s", total)
}

func TestQuantityDecimal(t *testing.T) {
	q := NewQuantityFromFloat64(1.5)
	assert.True(t, q.Decimal().Equal(MustMoney("1.5")))
}

func TestQuantitySignHelpers(t *testing.T) {
	assert.True(t, Quantity(1).IsPositive())
	assert.True(t, Quantity(-1).IsNegative())
	assert.True(t, Quantity(0).IsZero())
	assert.Equal(t, Quantity(5), Quantity(-5).Abs())
	assert.Equal(t, Quantity(-5), Quantity(5).Neg())
}

package pricing_test

import (
	"testing"

	"github.com/Gsweya/hweibo-prototype/internal/pricing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		name   string
		amount int64
		want   string
	}{
		{"Below thousand", 999, "999"},
		{"Zero", 0, "0"},
		{"Exact thousand", 1_000, "1k"},
		{"Thousands", 250_000, "250k"},
		{"Half thousand rounds up", 1_500, "2k"},
		{"Just under a million", 999_499, "999k"},
		{"Rounds into next thousand", 999_500, "1000k"},
		{"Exact million trims .0", 1_000_000, "1M"},
		{"Fractional million", 1_250_000, "1.3M"},
		{"Fractional million below half", 1_240_000, "1.2M"},
		{"Large", 15_000_000, "15M"},
		{"Negative passes through", -5, "-5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pricing.FormatPrice(tt.amount))
		})
	}
}

func TestFormatPriceFull(t *testing.T) {
	assert.Equal(t, "TZS 150k", pricing.FormatPriceFull(150_000))
	assert.Equal(t, "TZS 1M", pricing.FormatPriceFull(1_000_000))
	assert.Equal(t, "TZS 500", pricing.FormatPriceFull(500))
}

func TestParsePrice(t *testing.T) {
	t.Run("Success - Plain and suffixed", func(t *testing.T) {
		cases := map[string]float64{
			"999":         999,
			"150k":        150_000,
			"TZS 150k":    150_000,
			"tzs   1.3M":  1_300_000,
			"  2.5m ":     2_500_000,
			"1.1M":        1_100_000,
			"12 units":    12,
			".5k":         500,
			"1e3":         1_000,
			"TZS 0":       0,
			"-3k":         -3_000,
			"+7":          7,
			"TZS 15 000k": 15_000,
		}

		for input, want := range cases {
			got, err := pricing.ParsePrice(input)
			require.NoError(t, err, input)
			assert.Equal(t, want, got, input)
		}
	})

	t.Run("Failure - Malformed", func(t *testing.T) {
		for _, input := range []string{"", "TZS", "abc", "k", "m", "TZS .k"} {
			_, err := pricing.ParsePrice(input)
			assert.ErrorIs(t, err, pricing.ErrMalformedPrice, input)
		}
	})
}

func TestPriceRoundTripIsLossy(t *testing.T) {
	// Round values survive the trip.
	for _, amount := range []int64{999, 250_000, 1_000_000, 1_300_000} {
		parsed, err := pricing.ParsePrice(pricing.FormatPrice(amount))
		require.NoError(t, err)
		assert.Equal(t, float64(amount), parsed)
	}

	// Others only come back approximately.
	parsed, err := pricing.ParsePrice(pricing.FormatPrice(1_250_000))
	require.NoError(t, err)
	assert.Equal(t, float64(1_300_000), parsed)
	assert.NotEqual(t, float64(1_250_000), parsed)
	assert.InDelta(t, 1_250_000, parsed, 50_000)

	parsed, err = pricing.ParsePrice(pricing.FormatPrice(1_499))
	require.NoError(t, err)
	assert.Equal(t, float64(1_000), parsed)
}

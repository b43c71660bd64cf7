// Package pricing renders integer minor-unit prices in the compact k/M
// notation used across the storefront, and parses that notation back.
//
// Rounding uses exact decimal arithmetic, half away from zero, so
// FormatPrice(1_250_000) is "1.3M" and FormatPrice(1_500) is "2k". The two
// directions are not inverses: ParsePrice(FormatPrice(x)) only approximates x
// for values that are not round thousands or tenths of a million.
package pricing

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencyCode prefixes every full price string.
const CurrencyCode = "TZS"

const (
	thousand = 1_000
	million  = 1_000_000
)

var ErrMalformedPrice = errors.New("malformed price")

var numericPrefix = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?`)

func FormatPrice(amount int64) string {
	switch {
	case amount >= million:
		value := decimal.New(amount, -6).StringFixed(1)
		return strings.TrimSuffix(value, ".0") + "M"
	case amount >= thousand:
		return decimal.New(amount, -3).StringFixed(0) + "k"
	default:
		return strconv.FormatInt(amount, 10)
	}
}

func FormatPriceFull(amount int64) string {
	return CurrencyCode + " " + FormatPrice(amount)
}

// ParsePrice accepts "TZS 150k", "1.3M", "999" and similar. Only the numeric
// prefix of the remainder is read, so "12 units" parses as 12.
func ParsePrice(text string) (float64, error) {
	clean := strings.TrimSpace(strings.ToLower(text))
	if rest, ok := strings.CutPrefix(clean, strings.ToLower(CurrencyCode)); ok {
		clean = strings.TrimSpace(rest)
	}

	multiplier := int64(1)
	switch {
	case strings.Contains(clean, "m"):
		clean = strings.Replace(clean, "m", "", 1)
		multiplier = million
	case strings.Contains(clean, "k"):
		clean = strings.Replace(clean, "k", "", 1)
		multiplier = thousand
	}

	prefix := numericPrefix.FindString(strings.TrimSpace(clean))
	if prefix == "" {
		return 0, ErrMalformedPrice
	}

	f, err := strconv.ParseFloat(prefix, 64)
	if err != nil {
		return 0, errors.Join(ErrMalformedPrice, err)
	}

	return decimal.NewFromFloat(f).Mul(decimal.NewFromInt(multiplier)).InexactFloat64(), nil
}

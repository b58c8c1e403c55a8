// Package currency provides fixed-table currency conversion. The table is
// static for predictability; unknown pairs convert 1:1 with a recorded
// warning and never fail.
package currency

import (
	"math"
	"strings"

	"tripplanner/pkg/logx"
)

type pair struct {
	from string
	to   string
}

// Fixed exchange rates. AED/USD at 3.67 is the anchor rate the rest of the
// system assumes in fallback notes.
//
//nolint:gochecknoglobals // Static lookup table
var rates = map[pair]float64{
	{"USD", "AED"}: 3.67,
	{"AED", "USD"}: 1 / 3.67,
	{"EUR", "USD"}: 1.10,
	{"USD", "EUR"}: 1 / 1.10,
	{"EUR", "AED"}: 4.04,
	{"AED", "EUR"}: 1 / 4.04,
	{"GBP", "USD"}: 1.25,
	{"USD", "GBP"}: 1 / 1.25,
	{"GBP", "AED"}: 4.59,
	{"AED", "GBP"}: 1 / 4.59,
}

//nolint:gochecknoglobals // Package logger
var logger = logx.NewLogger("currency")

// Convert converts amount from one currency code to another, rounded to two
// decimals. The second return reports whether an exact rate was found; on an
// unknown pair the amount passes through 1:1 and a warning is logged.
func Convert(amount float64, from, to string) (float64, bool) {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))

	if from == to {
		return round2(amount), true
	}

	rate, ok := rates[pair{from, to}]
	if !ok {
		logger.Warn("no exchange rate for %s to %s, using 1:1", from, to)
		return round2(amount), false
	}
	return round2(amount * rate), true
}

// Rate returns the fixed rate for a currency pair, if known.
func Rate(from, to string) (float64, bool) {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))
	if from == to {
		return 1, true
	}
	rate, ok := rates[pair{from, to}]
	return rate, ok
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

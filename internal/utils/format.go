package utils

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var usd = message.NewPrinter(language.AmericanEnglish)

// FormatUSD renders a price as whole dollars with locale-aware grouping and
// no fractional cents, e.g. 450000 -> "$450,000".
func FormatUSD(amount float64) string {
	return usd.Sprintf("$%d", int64(math.Round(amount)))
}

// FormatMiles renders a distance in miles with one decimal place.
func FormatMiles(distance float64) string {
	return usd.Sprintf("%.1f mi", distance)
}

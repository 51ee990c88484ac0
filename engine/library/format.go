package library

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
)

// FormatXRP renders v with two decimals, "." for thousands and "," for decimals (150,00 / 1.234,50).
func FormatXRP(v float64) string {
	return humanize.FormatFloat("#.###,##", v)
}

// FormatPercent renders v with one decimal, the way vote bars are labelled.
func FormatPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// Round rounds v to the given number of decimals.
func Round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}

package metrics

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// FormatCurrency renders USD with two decimals, e.g. "$1,234.50".
func FormatCurrency(v float64) string {
	v = Finite(v)
	if v < 0 {
		return "-$" + printer.Sprintf("%.2f", -v)
	}
	return "$" + printer.Sprintf("%.2f", v)
}

// FormatPercentage renders a 0-100 value with the given decimals, e.g. "1.50%".
func FormatPercentage(v float64, decimals int) string {
	if decimals < 0 {
		decimals = 0
	}
	return fmt.Sprintf("%.*f%%", decimals, Finite(v))
}

// FormatNumber rounds to an integer and groups thousands, e.g. "12,346".
func FormatNumber(v float64) string {
	return printer.Sprintf("%d", int64(math.Round(Finite(v))))
}

// FormatROAS renders a return multiple, e.g. "3.33x".
func FormatROAS(v float64) string {
	return fmt.Sprintf("%.2fx", Finite(v))
}

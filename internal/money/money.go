// Package money converts between numeric amounts and their en-US display and
// form-input strings. None of its functions return errors or panic: invalid
// input degrades to an empty string, "N/A", or zero.
package money

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// NotAvailable is rendered for absent percentages.
const NotAvailable = "N/A"

var printer = message.NewPrinter(language.AmericanEnglish)

// FormatCurrency renders v as whole US dollars with comma grouping, e.g.
// 1234.9 -> "$1,235". Halves round away from zero and negative values keep
// their sign even when they round to zero ("-$0"). Non-finite values render
// as "$0".
func FormatCurrency(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "$0"
	}
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return sign + "$" + printer.Sprintf("%.0f", math.Round(v))
}

// FormatPercentage renders a value that is already a percentage (7.25 means
// 7.25%) with exactly two decimals. A nil value renders as "N/A".
func FormatPercentage(v *float64) string {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return NotAvailable
	}
	x := *v
	sign := ""
	if x < 0 {
		sign = "-"
		x = -x
	}
	rounded := math.Round(x*100) / 100
	if math.IsInf(rounded, 0) {
		rounded = x
	}
	if rounded == 0 {
		rounded = 0 // drop negative zero
	}
	return sign + printer.Sprintf("%.2f", rounded) + "%"
}

// Percent is a convenience for FormatPercentage on a plain value.
func Percent(v float64) string {
	return FormatPercentage(&v)
}

// ParseCurrency strips everything except digits and decimal points. The result
// may be empty and is not validated.
func ParseCurrency(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatInputCurrency normalizes free-typed currency text, e.g. "1234" or
// "$1,234" -> "$1,234". It returns "" for empty input and for text that does not
// reduce to a number ("abc", "1.2.3").
func FormatInputCurrency(raw string) string {
	if raw == "" {
		return ""
	}
	cleaned := ParseCurrency(raw)
	if cleaned == "" {
		return ""
	}
	n, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return ""
	}
	return FormatCurrency(n)
}

// ToNumber converts a form string to a float, treating blank, unparseable and
// non-finite input as zero.
func ToNumber(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return n
}

// IsNumber reports whether raw is a non-blank finite number.
func IsNumber(raw string) bool {
	s := strings.TrimSpace(raw)
	if s == "" {
		return false
	}
	n, err := strconv.ParseFloat(s, 64)
	return err == nil && !math.IsNaN(n) && !math.IsInf(n, 0)
}

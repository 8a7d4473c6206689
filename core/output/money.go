package output

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// NumberFormatter formats prices and size labels for one locale
type NumberFormatter struct {
	printer *message.Printer
	symbol  string
}

// NewNumberFormatter creates a formatter for a locale and currency symbol
func NewNumberFormatter(tag language.Tag, symbol string) *NumberFormatter {
	return &NumberFormatter{
		printer: message.NewPrinter(tag),
		symbol:  symbol,
	}
}

// USD formats US dollars with en-US grouping
func USD() *NumberFormatter {
	return NewNumberFormatter(language.AmericanEnglish, "$")
}

// Round rounds a price to whole currency units, halves to even: 2.5 -> 2, 3.5 -> 4
func Round(price float64) decimal.Decimal {
	return decimal.NewFromFloat(price).RoundBank(0)
}

// Currency formats a price with no decimal places: 123456.0 -> "$123,456"
func (f *NumberFormatter) Currency(price float64) string {
	// NaN and Inf have no decimal form; only callers outside the pipeline can pass them
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return f.symbol + "-"
	}
	return f.CurrencyDecimal(Round(price))
}

// CurrencyDecimal formats a price of any magnitude, rounding halves to even
func (f *NumberFormatter) CurrencyDecimal(price decimal.Decimal) string {
	whole := price.RoundBank(0)
	sign := ""
	if whole.IsNegative() {
		sign = "-"
		whole = whole.Neg()
	}
	return sign + f.symbol + f.group(whole.String())
}

// group inserts the locale's thousands separator into a string of digits
func (f *NumberFormatter) group(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	// "1,000" in en-US; the separator is whatever sits between 1 and 000
	sample := f.printer.Sprintf("%d", 1000)
	sep := strings.TrimSuffix(strings.TrimPrefix(sample, "1"), "000")

	var b strings.Builder
	head := len(digits) % 3
	if head == 0 {
		head = 3
	}
	b.WriteString(digits[:head])
	for i := head; i < len(digits); i += 3 {
		b.WriteString(sep)
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// Decimal formats a number with grouped thousands: 10000 -> "10,000"
func (f *NumberFormatter) Decimal(v float64) string {
	return f.printer.Sprint(number.Decimal(v, number.MaxFractionDigits(3)))
}

// Plain formats a number as its shortest literal: 1.5 -> "1.5", 2 -> "2"
func Plain(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

package normalize

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/clinicops/leakwatch/internal/domain/entities"
)

// Locale is the pluggable parsing strategy for locale-bound cell formats.
// Isolating it here keeps the join/derivation pipeline free of locale
// policy: a deployment can swap the strategy without touching the engine.
type Locale interface {
	// ParseCurrency parses a currency-formatted string into an amount
	ParseCurrency(s string) (decimal.Decimal, error)

	// ParseDate parses a textual calendar date
	ParseDate(s string) (time.Time, error)

	// ParseNumber parses a plain numeric cell
	ParseNumber(s string) (float64, error)

	// ParseGroupedCount parses an integer count that may carry grouping
	// separators
	ParseGroupedCount(s string) (int, error)

	// ParseMonthLabel parses a free-text month/year label into a period
	ParseMonthLabel(s string) (entities.Period, error)
}

// RioplatenseLocale implements Locale for the es-AR source spreadsheets:
// "$" currency symbol, dot as thousands grouping (never a decimal point),
// day-first dates, Spanish month abbreviations.
type RioplatenseLocale struct{}

// NewRioplatenseLocale returns the default locale strategy
func NewRioplatenseLocale() *RioplatenseLocale {
	return &RioplatenseLocale{}
}

// dayFirstLayouts are tried in order. The sheets are hand-edited, so both
// slash and dash separators and two-digit years show up.
var dayFirstLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2-1-2006",
	"02/01/06",
	"2/1/06",
	"2006-01-02",
}

// monthAbbreviations maps lowercase 3-letter abbreviations to months.
// Spanish first, with the English aliases that differ.
var monthAbbreviations = map[string]time.Month{
	"ene": time.January,
	"feb": time.February,
	"mar": time.March,
	"abr": time.April,
	"may": time.May,
	"jun": time.June,
	"jul": time.July,
	"ago": time.August,
	"sep": time.September,
	"set": time.September,
	"oct": time.October,
	"nov": time.November,
	"dic": time.December,
	// English aliases
	"jan": time.January,
	"apr": time.April,
	"aug": time.August,
	"dec": time.December,
}

// ParseCurrency strips the currency symbol and grouping dots and parses the
// remainder as an integer-valued amount. The dot is grouping by locale
// policy, so "$1.234.567" is one million two hundred thirty-four thousand
// five hundred sixty-seven, not a decimal.
func (l *RioplatenseLocale) ParseCurrency(s string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.ReplaceAll(cleaned, "$", "")
	cleaned = strings.ReplaceAll(cleaned, ".", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	cleaned = strings.ReplaceAll(cleaned, "\u00a0", "")
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("empty currency value")
	}
	amount, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid currency value %q", s)
	}
	return decimal.NewFromInt(amount), nil
}

// ParseDate parses a day-first textual date
func (l *RioplatenseLocale) ParseDate(s string) (time.Time, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dayFirstLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// ParseNumber parses a plain numeric cell, tolerating a decimal comma
func (l *RioplatenseLocale) ParseNumber(s string) (float64, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, fmt.Errorf("empty number")
	}
	trimmed = strings.ReplaceAll(trimmed, ",", ".")
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return v, nil
}

// ParseGroupedCount parses an integer count formatted with grouping dots
func (l *RioplatenseLocale) ParseGroupedCount(s string) (int, error) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.ReplaceAll(cleaned, ".", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	cleaned = strings.ReplaceAll(cleaned, "\u00a0", "")
	if cleaned == "" {
		return 0, fmt.Errorf("empty count")
	}
	v, err := strconv.Atoi(cleaned)
	if err != nil {
		return 0, fmt.Errorf("invalid count %q", s)
	}
	return v, nil
}

// ParseMonthLabel parses labels like "mar 24", "Sep-2023" or "dic 2024"
// into the first day of that month. Two-digit years are read as 2000+yy.
func (l *RioplatenseLocale) ParseMonthLabel(s string) (entities.Period, error) {
	tokens := strings.FieldsFunc(strings.ToLower(strings.TrimSpace(s)), func(r rune) bool {
		return r == ' ' || r == '-'
	})
	if len(tokens) < 2 {
		return entities.Period{}, fmt.Errorf("invalid month label %q: expected <month> <year>", s)
	}

	abbrev := tokens[0]
	if len(abbrev) > 3 {
		abbrev = abbrev[:3]
	}
	month, ok := monthAbbreviations[abbrev]
	if !ok {
		return entities.Period{}, fmt.Errorf("invalid month label %q: unknown month %q", s, tokens[0])
	}

	year, err := strconv.Atoi(tokens[1])
	if err != nil {
		return entities.Period{}, fmt.Errorf("invalid month label %q: bad year %q", s, tokens[1])
	}
	if year < 100 {
		year += 2000
	}

	return entities.Period{Year: year, Month: month}, nil
}

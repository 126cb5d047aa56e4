package parse

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/dash-tools/report-atlas/pkg/models/domain"
)

const rowCells = 4

// Options configure the parser. They are passed in explicitly so the
// parser stays pure and testable with non-default locales.
type Options struct {
	// CurrencySymbols are stripped from numeric cells wherever they occur.
	CurrencySymbols []string `mapstructure:"currency_symbols"`
	// MagnitudeSuffixes map a trailing suffix (matched case-insensitively)
	// to its multiplier, e.g. K -> 1000.
	MagnitudeSuffixes map[string]float64 `mapstructure:"magnitude_suffixes"`
}

// DefaultOptions match the symbols and suffixes the source dashboards use.
func DefaultOptions() Options {
	return Options{
		CurrencySymbols: []string{"€", "$", "£", "%"},
		MagnitudeSuffixes: map[string]float64{
			"K": 1_000,
			"M": 1_000_000,
		},
	}
}

// Parser converts raw scraped report cells into typed rows. It holds no
// mutable state; a single instance is safe for concurrent use.
type Parser struct {
	opts Options
}

func NewParser(opts Options) *Parser {
	defaults := DefaultOptions()
	if len(opts.CurrencySymbols) == 0 {
		opts.CurrencySymbols = defaults.CurrencySymbols
	}
	if len(opts.MagnitudeSuffixes) == 0 {
		opts.MagnitudeSuffixes = defaults.MagnitudeSuffixes
	}
	return &Parser{opts: opts}
}

// ParseRow parses the four cells of one table row: category, net revenue,
// average order value, count. It never panics; failures come back as data
// inside the result so the caller can report them next to successes.
func (p *Parser) ParseRow(cells []string) domain.ParseResult {
	if len(cells) != rowCells {
		return domain.ParseResult{Err: &RowShapeError{Want: rowCells, Got: len(cells)}}
	}

	category := strings.TrimFunc(cells[0], unicode.IsSpace)
	if category == "" {
		return domain.ParseResult{Err: &EmptyFieldError{Field: FieldCategory}}
	}

	revenue, err := p.Amount(FieldNetRevenue, cells[1])
	if err != nil {
		return domain.ParseResult{Err: err}
	}
	aov, err := p.Amount(FieldAverageOrderValue, cells[2])
	if err != nil {
		return domain.ParseResult{Err: err}
	}
	count, err := p.Count(FieldCount, cells[3])
	if err != nil {
		return domain.ParseResult{Err: err}
	}

	return domain.ParseResult{Row: &domain.ReportRow{
		Category:          category,
		NetRevenue:        revenue,
		AverageOrderValue: aov,
		Count:             count,
	}}
}

// Amount parses one human-formatted numeric cell into a non-negative
// decimal. Currency symbols are stripped, a trailing magnitude suffix is
// expanded, and grouping/decimal separators are disambiguated by position:
// the rightmost separator followed by one or two digits is the decimal
// point, every other separator is grouping.
func (p *Parser) Amount(field, raw string) (float64, error) {
	cleaned := stripSpace(raw)
	if cleaned == "" {
		return 0, &NumericParseError{Field: field, RawText: raw, Reason: "blank"}
	}
	for _, symbol := range p.opts.CurrencySymbols {
		cleaned = strings.ReplaceAll(cleaned, symbol, "")
	}

	multiplier := 1.0
	suffixed := false
	if suffix, mult, ok := p.trailingSuffix(cleaned); ok {
		cleaned = cleaned[:len(cleaned)-len(suffix)]
		multiplier = mult
		suffixed = true
	}

	if cleaned == "" {
		return 0, &NumericParseError{Field: field, RawText: raw, Reason: "no digits"}
	}

	normalized, ok := normalizeSeparators(cleaned, suffixed)
	if !ok {
		return 0, &NumericParseError{Field: field, RawText: raw, Reason: "not a number"}
	}

	value, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return 0, &NumericParseError{Field: field, RawText: raw, Reason: "not a number"}
	}
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return 0, &NumericParseError{Field: field, RawText: raw, Reason: "not a finite non-negative number"}
	}

	return value * multiplier, nil
}

// Count runs the numeric pipeline and rounds to the nearest integer.
// Suffix expansion makes fractional counts possible ("1.2K" is 1200);
// rounding, not truncation, is the documented policy.
func (p *Parser) Count(field, raw string) (int64, error) {
	value, err := p.Amount(field, raw)
	if err != nil {
		return 0, err
	}
	return int64(math.Round(value)), nil
}

// trailingSuffix returns the longest configured suffix that terminates s,
// matched case-insensitively, together with its multiplier.
func (p *Parser) trailingSuffix(s string) (string, float64, bool) {
	upper := strings.ToUpper(s)
	var (
		found string
		mult  float64
	)
	for suffix, m := range p.opts.MagnitudeSuffixes {
		u := strings.ToUpper(suffix)
		if strings.HasSuffix(upper, u) && len(u) > len(found) {
			found = s[len(s)-len(u):]
			mult = m
		}
	}
	return found, mult, found != ""
}

// normalizeSeparators rewrites a digit string with mixed comma/period
// separators into plain decimal form. Disambiguation is positional, not by
// symbol identity, so both "1,234.56" and "1.234,56" come out as 1234.56.
// Suffixed values ("1.2345K") are compact dashboard notation and never use
// grouping, so their sole separator is the decimal point whatever the tail
// length.
func normalizeSeparators(s string, suffixed bool) (string, bool) {
	lastSep := -1
	seps := 0
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == ',' || r == '.':
			lastSep = i
			seps++
		default:
			return "", false
		}
	}

	if lastSep == -1 {
		return s, s != ""
	}

	tail := s[lastSep+1:]
	decimal := (len(tail) >= 1 && len(tail) <= 2) ||
		(suffixed && seps == 1 && len(tail) >= 1)

	var b strings.Builder
	for i, r := range s {
		if r == ',' || r == '.' {
			if i == lastSep && decimal {
				b.WriteByte('.')
			}
			continue
		}
		b.WriteRune(r)
	}

	normalized := b.String()
	if normalized == "" || normalized == "." ||
		strings.HasPrefix(normalized, ".") || strings.HasSuffix(normalized, ".") {
		return "", false
	}
	return normalized, true
}

// stripSpace removes every whitespace rune, including the non-breaking
// spaces dashboards like to pad values with.
func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

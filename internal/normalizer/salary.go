package normalizer

import (
	"regexp"
	"strconv"
	"strings"
)

// salaryPattern matches ZAR-style amounts: an "R" or "ZAR" prefix, a
// numeric amount (with optional thousands separators and a "k" shorthand),
// optionally a range ("R20,000 - R30,000"), and an optional period
// suffix (per month/annum/year), per spec §4.4.1.
var salaryPattern = regexp.MustCompile(
	`(?i)(?:R|ZAR)\s*([\d,]+(?:\.\d+)?)\s*(k)?(?:\s*-\s*(?:R|ZAR)?\s*([\d,]+(?:\.\d+)?)\s*(k)?)?` +
		`\s*(?:per\s+(month|annum|year))?`,
)

// ParsedSalary is the result of scanning free text for a ZAR amount.
type ParsedSalary struct {
	Min    *float64
	Max    *float64
	Found  bool
	Period string // "month", "annum", "year", or "" when unspecified
}

// ParseSalary scans text for the first ZAR-style amount or range.
func ParseSalary(text string) ParsedSalary {
	m := salaryPattern.FindStringSubmatch(text)
	if m == nil {
		return ParsedSalary{}
	}

	min := parseAmount(m[1], m[2])
	var max *float64
	if m[3] != "" {
		v := parseAmount(m[3], m[4])
		max = v
	}
	if max == nil {
		max = min
	}

	return ParsedSalary{Min: min, Max: max, Found: min != nil, Period: strings.ToLower(m[5])}
}

func parseAmount(raw, kSuffix string) *float64 {
	clean := strings.ReplaceAll(raw, ",", "")
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return nil
	}
	if strings.EqualFold(kSuffix, "k") {
		v *= 1000
	}
	return &v
}

// AnnualizeSalary converts a monthly figure to an annual one when the
// parsed period indicates "month"; other periods are left unchanged
// (annum/year are already annual, and an unspecified period is assumed
// to already be the unit the source normally reports in).
func AnnualizeSalary(p ParsedSalary) ParsedSalary {
	if p.Period != "month" {
		return p
	}
	out := p
	if p.Min != nil {
		v := *p.Min * 12
		out.Min = &v
	}
	if p.Max != nil {
		v := *p.Max * 12
		out.Max = &v
	}
	return out
}

// Package normalize turns the heterogeneous strings and numbers extracted
// from bank statements into canonical decimal amounts and UTC instants.
package normalize

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount parses a raw amount (string or number) into a canonical,
// non-negative decimal. Unparseable input yields decimal.Zero rather than
// an error, matching the extractor's tolerant contract.
func ParseAmount(raw any) decimal.Decimal {
	switch v := raw.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return v.Abs()
	case float64:
		return decimal.NewFromFloat(v).Abs()
	case float32:
		return decimal.NewFromFloat32(v).Abs()
	case int:
		return decimal.NewFromInt(int64(v)).Abs()
	case int32:
		return decimal.NewFromInt(int64(v)).Abs()
	case int64:
		return decimal.NewFromInt(v).Abs()
	case string:
		d, ok := parseAmountString(v)
		if !ok {
			return decimal.Zero
		}
		return d.Abs()
	default:
		s := fmt.Sprintf("%v", v)
		d, ok := parseAmountString(s)
		if !ok {
			return decimal.Zero
		}
		return d.Abs()
	}
}

// keepInAmount reports whether a rune survives the stripping pass: digits,
// the two separator characters, and sign/paren markers.
func keepInAmount(r rune) bool {
	switch {
	case r >= '0' && r <= '9':
		return true
	case r == '.' || r == ',':
		return true
	case r == '-' || r == '+' || r == '(' || r == ')':
		return true
	}
	return false
}

func parseAmountString(raw string) (decimal.Decimal, bool) {
	var b strings.Builder
	for _, r := range raw {
		if keepInAmount(r) {
			b.WriteRune(r)
		}
	}
	s := b.String()
	if s == "" {
		return decimal.Zero, false
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
	} else if strings.HasPrefix(s, "-") {
		negative = true
		s = strings.TrimPrefix(s, "-")
	} else if strings.HasPrefix(s, "+") {
		s = strings.TrimPrefix(s, "+")
	}
	// Drop any stray sign/paren characters left over (e.g. trailing "-").
	s = strings.Map(func(r rune) rune {
		if r == '-' || r == '+' || r == '(' || r == ')' {
			return -1
		}
		return r
	}, s)
	if s == "" {
		return decimal.Zero, false
	}

	digits, ok := resolveSeparators(s)
	if !ok {
		return decimal.Zero, false
	}

	d, err := decimal.NewFromString(digits)
	if err != nil {
		return decimal.Zero, false
	}
	if negative {
		d = d.Neg()
	}
	return d, true
}

// resolveSeparators applies the decimal-vs-thousands-separator convention
// from the parsing policy and returns a plain "123456.78"-shaped string.
func resolveSeparators(s string) (string, bool) {
	hasComma := strings.Contains(s, ",")
	hasDot := strings.Contains(s, ".")

	switch {
	case hasComma && hasDot:
		lastComma := strings.LastIndex(s, ",")
		lastDot := strings.LastIndex(s, ".")
		decimalSep := byte(',')
		if lastDot > lastComma {
			decimalSep = '.'
		}
		var b strings.Builder
		for i := 0; i < len(s); i++ {
			c := s[i]
			if c == ',' || c == '.' {
				if c == decimalSep && isLastOccurrence(s, c, i) {
					b.WriteByte('.')
				}
				// else: thousands separator, drop
				continue
			}
			b.WriteByte(c)
		}
		return b.String(), true

	case hasComma || hasDot:
		sep := byte(',')
		if hasDot {
			sep = '.'
		}
		idx := strings.LastIndexByte(s, sep)
		tail := s[idx+1:]
		count := strings.Count(s, string(sep))
		isDecimal := (len(tail) == 1 || len(tail) == 2) && (sep == ',' || count == 1)
		if isDecimal {
			var b strings.Builder
			for i := 0; i < len(s); i++ {
				c := s[i]
				if c == sep {
					if i == idx {
						b.WriteByte('.')
					}
					continue
				}
				b.WriteByte(c)
			}
			return b.String(), true
		}
		// thousands separator: drop every occurrence
		return strings.ReplaceAll(s, string(sep), ""), true

	default:
		return s, true
	}
}

func isLastOccurrence(s string, c byte, idx int) bool {
	return strings.LastIndexByte(s, c) == idx
}

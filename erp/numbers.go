package erp

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// 1C is inconsistent about numbers: the same field can arrive as a plain
// number, a string with a comma decimal separator ("1,111") or a string
// with NBSP/thin-space thousands separators ("6 000"). Everything numeric
// coming off the wire goes through ParseDecimal.

// space-like runes seen in 1C payloads: plain, NBSP, thin, narrow NBSP
const spaceRunes = " \u00a0\u2009\u202f"

// CleanString normalizes NBSP variants to plain spaces and trims.
func CleanString(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.ReplaceAll(s, "\u2009", " ")
	s = strings.ReplaceAll(s, "\u202f", " ")
	return strings.TrimSpace(s)
}

// CleanNumericString removes every space-like rune and converts comma
// decimal separators, e.g. "1 250,5" (NBSP separated) -> "1250.5".
func CleanNumericString(s string) string {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(spaceRunes, r) {
			continue
		}
		if r == ',' {
			b.WriteRune('.')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ParseDecimal parses a 1C-formatted number string. Returns false for
// empty or malformed input instead of an error.
func ParseDecimal(s string) (decimal.Decimal, bool) {
	cleaned := CleanNumericString(s)
	if cleaned == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// ParseDecimalAny parses a decoded JSON value (number, string or
// json.Number) into a decimal. Nil result means "absent or unparseable".
func ParseDecimalAny(v interface{}) *decimal.Decimal {
	switch t := v.(type) {
	case nil:
		return nil
	case float64:
		d := decimal.NewFromFloat(t)
		return &d
	case int:
		d := decimal.NewFromInt(int64(t))
		return &d
	case int64:
		d := decimal.NewFromInt(t)
		return &d
	case json.Number:
		if d, ok := ParseDecimal(t.String()); ok {
			return &d
		}
		return nil
	case string:
		if d, ok := ParseDecimal(t); ok {
			return &d
		}
		return nil
	case decimal.Decimal:
		return &t
	default:
		return nil
	}
}

// ParseIntAny parses a decoded JSON value into an int pointer.
func ParseIntAny(v interface{}) *int {
	d := ParseDecimalAny(v)
	if d == nil {
		return nil
	}
	n := int(d.IntPart())
	return &n
}

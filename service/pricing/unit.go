package pricing

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"stroyassist.GO/erp"
)

// UnitPiece is the canonical piece unit. 1C prices are quoted per base
// unit (м3, м2, м.п. or шт); when the base is not a piece the unit
// string carries the pieces-per-base factor, e.g. "м3 (16 шт)".
const UnitPiece = "шт"

var unitFactorRe = regexp.MustCompile(`(\S+)\s*\(([0-9.]+)\s*шт\.?\)`)

var pieceSynonyms = map[string]bool{
	"шт": true, "шт.": true, "штука": true, "штуки": true, "штук": true,
	"piece": true, "pieces": true, "pcs": true, "pc": true,
}

// NormalizeUnit maps unit spellings to canonical tokens: piece synonyms
// collapse to "шт", superscript forms to their ASCII-digit spellings.
func NormalizeUnit(u string) string {
	s := strings.ToLower(erp.CleanString(u))
	s = strings.TrimSuffix(s, ".")
	if pieceSynonyms[s] || pieceSynonyms[s+"."] {
		return UnitPiece
	}
	switch s {
	case "м³":
		return "м3"
	case "м²":
		return "м2"
	}
	return s
}

// ParseUnit splits a catalog unit string into its base unit and the
// pieces-per-base factor. "м3 (16 шт)" yields ("м3", 16); a plain unit
// yields a nil factor; an empty string defaults to the piece unit. A
// factor that fails to parse or is not positive is dropped.
func ParseUnit(raw string) (string, *decimal.Decimal) {
	s := erp.CleanString(strings.ReplaceAll(raw, ",", "."))
	if s == "" {
		return UnitPiece, nil
	}

	m := unitFactorRe.FindStringSubmatch(s)
	if m == nil {
		return NormalizeUnit(s), nil
	}
	base := NormalizeUnit(m[1])
	factor, ok := erp.ParseDecimal(m[2])
	if !ok || !factor.IsPositive() {
		return base, nil
	}
	return base, &factor
}

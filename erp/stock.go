package erp

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// StockKind tags the shape of the upstream «Остатки» field.
type StockKind string

const (
	StockQuantity StockKind = "quantity"
	StockPreorder StockKind = "preorder"
	StockFreeText StockKind = "text"
	StockUnknown  StockKind = "unknown"
)

// Stock is a normalized stock value. 1C may send a number, a numeric
// string ("1 953,333"), a text status like «По предзаказу», or nothing.
type Stock struct {
	Kind StockKind       `json:"kind"`
	Qty  decimal.Decimal `json:"qty"`
	Raw  string          `json:"raw,omitempty"`
}

// StockFromAny classifies a decoded JSON value into a Stock.
func StockFromAny(v interface{}) Stock {
	switch t := v.(type) {
	case nil:
		return Stock{Kind: StockUnknown}
	case float64, int, int64, json.Number:
		d := ParseDecimalAny(t)
		if d == nil {
			return Stock{Kind: StockUnknown}
		}
		return Stock{Kind: StockQuantity, Qty: *d, Raw: d.String()}
	case string:
		s := CleanString(t)
		if s == "" {
			return Stock{Kind: StockUnknown}
		}
		if d, ok := ParseDecimal(s); ok {
			return Stock{Kind: StockQuantity, Qty: d, Raw: s}
		}
		if strings.Contains(strings.ToLower(s), "предзаказ") {
			return Stock{Kind: StockPreorder, Raw: s}
		}
		return Stock{Kind: StockFreeText, Raw: s}
	default:
		return Stock{Kind: StockUnknown}
	}
}

// UnmarshalJSON accepts both the raw upstream scalar and the normalized
// object form written to the cache.
func (s *Stock) UnmarshalJSON(b []byte) error {
	trimmed := strings.TrimSpace(string(b))
	if strings.HasPrefix(trimmed, "{") {
		type alias Stock
		var a alias
		if err := json.Unmarshal(b, &a); err != nil {
			return err
		}
		if a.Kind == "" {
			a.Kind = StockUnknown
		}
		*s = Stock(a)
		return nil
	}
	var v interface{}
	dec := json.NewDecoder(strings.NewReader(trimmed))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return err
	}
	*s = StockFromAny(v)
	return nil
}

// HasPositiveQuantity reports whether the stock is a known quantity
// greater than zero.
func (s Stock) HasPositiveQuantity() bool {
	return s.Kind == StockQuantity && s.Qty.IsPositive()
}

// Display renders the stock value for humans, keeping the upstream text
// verbatim when no quantity is known.
func (s Stock) Display() string {
	if s.Kind == StockQuantity {
		return s.Qty.String()
	}
	if s.Raw != "" {
		return s.Raw
	}
	return "нет данных"
}

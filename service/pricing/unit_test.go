package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseUnit(t *testing.T) {
	cases := []struct {
		raw    string
		base   string
		factor string // "" means nil
	}{
		{"м3 (16 шт)", "м3", "16"},
		{"м3 (16 шт.)", "м3", "16"},
		{"м2 (1.449275 шт)", "м2", "1.449275"},
		{"м2 (1,449275 шт)", "м2", "1.449275"},
		{"м3\u00a0(16 шт)", "м3", "16"},
		{"шт", "шт", ""},
		{"шт.", "шт", ""},
		{"pcs", "шт", ""},
		{"м.п.", "м.п", ""},
		{"", "шт", ""},
		{"   ", "шт", ""},
		{"м3", "м3", ""},
		{"м³", "м3", ""},
		// Zero and unparseable factors are dropped.
		{"м3 (0 шт)", "м3", ""},
	}
	for _, tc := range cases {
		base, factor := ParseUnit(tc.raw)
		if base != tc.base {
			t.Errorf("ParseUnit(%q) base = %q, want %q", tc.raw, base, tc.base)
		}
		if tc.factor == "" {
			if factor != nil {
				t.Errorf("ParseUnit(%q) factor = %v, want nil", tc.raw, factor)
			}
			continue
		}
		want := decimal.RequireFromString(tc.factor)
		if factor == nil || !factor.Equal(want) {
			t.Errorf("ParseUnit(%q) factor = %v, want %s", tc.raw, factor, want)
		}
	}
}

func TestNormalizeUnit(t *testing.T) {
	cases := map[string]string{
		"ШТ":     "шт",
		"штук":   "шт",
		"piece":  "шт",
		"Pieces": "шт",
		"м³":     "м3",
		"м²":     "м2",
		"М3":     "м3",
		"кг":     "кг",
	}
	for raw, want := range cases {
		if got := NormalizeUnit(raw); got != want {
			t.Errorf("NormalizeUnit(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestDimensionCalculators(t *testing.T) {
	th := decimal.NewFromInt(13)
	w := decimal.NewFromInt(115)
	l := decimal.NewFromInt(6000)

	vol := VolumeFromDimensions(&th, &w, &l)
	if vol.String() != "0.00897" {
		t.Errorf("VolumeFromDimensions = %s, want 0.00897", vol)
	}
	if v := VolumeFromDimensions(nil, &w, &l); !v.IsZero() {
		t.Errorf("missing dimension volume = %s, want 0", v)
	}

	area := AreaFromDimensions(&w, &l)
	if area.String() != "0.69" {
		t.Errorf("AreaFromDimensions = %s, want 0.69", area)
	}

	if n := PiecesInVolume(decimal.NewFromInt(1), vol); n != 112 {
		t.Errorf("PiecesInVolume = %d, want 112", n)
	}
	if n := PiecesInVolume(decimal.NewFromInt(1), decimal.Zero); n != 0 {
		t.Errorf("PiecesInVolume with zero piece = %d, want 0", n)
	}
	if n := PiecesInArea(decimal.NewFromInt(10), area); n != 15 {
		t.Errorf("PiecesInArea = %d, want 15", n)
	}

	per := PricePerPiece(decimal.NewFromInt(15000), decimal.NewFromInt(16))
	if per.String() != "937.5" {
		t.Errorf("PricePerPiece = %s, want 937.5", per)
	}
}

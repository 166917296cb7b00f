package search

// DefaultLimit caps result pages when the caller does not ask for a
// specific page size.
const DefaultLimit = 20

// Params are the search inputs. String filters match case-insensitively
// against the catalog attributes; nil range bounds mean "unbounded".
// Items missing a dimension are filtered as if the value were zero, so
// a lower bound excludes them and an upper bound keeps them. Items
// without a price are excluded whenever either price bound is set.
type Params struct {
	Query string `query:"q"`

	Group        string `query:"group"`
	MaterialType string `query:"material_type"`
	Species      string `query:"species"`
	Grade        string `query:"grade"`
	Moisture     string `query:"moisture"`
	Treatment    string `query:"treatment"`

	MinThicknessMM *float64 `query:"min_thickness_mm"`
	MaxThicknessMM *float64 `query:"max_thickness_mm"`
	MinWidthMM     *float64 `query:"min_width_mm"`
	MaxWidthMM     *float64 `query:"max_width_mm"`
	MinLengthMM    *float64 `query:"min_length_mm"`
	MaxLengthMM    *float64 `query:"max_length_mm"`

	MinPrice *float64 `query:"min_price"`
	MaxPrice *float64 `query:"max_price"`

	InStockOnly bool `query:"in_stock_only"`

	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// Normalize clamps paging values to sane bounds.
func (p *Params) Normalize() {
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

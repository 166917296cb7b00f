package catalog

import (
	"github.com/shopspring/decimal"

	"stroyassist.GO/erp"
)

// Item is one merchandisable unit of the merged catalog: a flat row from
// the group tree enriched with the detailed 1C record when one matched.
// Items without a detailed counterpart keep only the flat fields.
type Item struct {
	GroupName string `json:"group_name"`
	GroupCode string `json:"group_code"`
	ItemCode  string `json:"item_code"`
	ItemName  string `json:"item_name"`
	SiteName  string `json:"site_name,omitempty"`

	// Price is nil when 1C sent none; that means "confirm with staff",
	// never zero.
	Price *decimal.Decimal `json:"price,omitempty"`
	Stock erp.Stock        `json:"stock"`
	Unit  string           `json:"unit,omitempty"`

	MaterialType string `json:"material_type,omitempty"`
	Species      string `json:"species,omitempty"`
	Grade        string `json:"grade,omitempty"`
	Moisture     string `json:"moisture,omitempty"`
	Treatment    string `json:"treatment,omitempty"`

	ThicknessMM *decimal.Decimal `json:"thickness_mm,omitempty"`
	WidthMM     *decimal.Decimal `json:"width_mm,omitempty"`
	LengthMM    *decimal.Decimal `json:"length_mm,omitempty"`

	Density        *decimal.Decimal `json:"density,omitempty"`
	ProductionDays *int             `json:"production_days,omitempty"`
	Popularity     *int             `json:"popularity,omitempty"`
	QuantityM3     *decimal.Decimal `json:"quantity_m3,omitempty"`
	QuantityM2     *decimal.Decimal `json:"quantity_m2,omitempty"`

	Extra map[string]string `json:"extra,omitempty"`
}

// DisplayName prefers the site-optimized name, then the detailed name,
// then the flat tree name.
func (it Item) DisplayName() string {
	if it.SiteName != "" {
		return it.SiteName
	}
	return it.ItemName
}

// Key addresses the item uniquely: item code when present, otherwise
// group code + name for legacy rows without codes.
func (it Item) Key() string {
	if it.ItemCode != "" {
		return it.ItemCode
	}
	return it.GroupCode + "|" + it.ItemName
}

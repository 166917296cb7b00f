package catalog

import (
	"stroyassist.GO/erp"
)

// FlatRow is one leaf of the group tree before enrichment.
type FlatRow struct {
	GroupName string
	GroupCode string
	ItemCode  string
	ItemName  string
}

// Flatten turns the nested group tree into one row per leaf item.
// Groups without items contribute nothing.
func Flatten(tree *erp.GroupTree) []FlatRow {
	if tree == nil {
		return nil
	}
	var rows []FlatRow
	for _, g := range tree.Groups {
		for _, it := range g.Items {
			rows = append(rows, FlatRow{
				GroupName: erp.CleanString(g.Name),
				GroupCode: erp.CleanString(g.Code),
				ItemCode:  erp.CleanString(it.Code),
				ItemName:  erp.CleanString(it.Name),
			})
		}
	}
	return rows
}

// UniqueCodes returns the de-duplicated set of non-empty item codes in
// first-seen order.
func UniqueCodes(rows []FlatRow) []string {
	seen := make(map[string]bool, len(rows))
	var codes []string
	for _, r := range rows {
		if r.ItemCode == "" || seen[r.ItemCode] {
			continue
		}
		seen[r.ItemCode] = true
		codes = append(codes, r.ItemCode)
	}
	return codes
}

// Merge left-joins flat rows with detailed records. The lookup is keyed
// by code, falling back to name because the detail endpoint sometimes
// omits codes for draft items. Rows without a match are kept with only
// the flat fields populated; merging never adds or drops rows.
func Merge(flat []FlatRow, detailed []erp.DetailedItem) []Item {
	byKey := make(map[string]*erp.DetailedItem, len(detailed))
	for i := range detailed {
		d := &detailed[i]
		key := d.Code
		if key == "" {
			key = d.Name
		}
		if key == "" {
			continue
		}
		if _, exists := byKey[key]; !exists {
			byKey[key] = d
		}
	}

	merged := make([]Item, 0, len(flat))
	for _, row := range flat {
		item := Item{
			GroupName: row.GroupName,
			GroupCode: row.GroupCode,
			ItemCode:  row.ItemCode,
			ItemName:  row.ItemName,
			Stock:     erp.Stock{Kind: erp.StockUnknown},
		}
		d := byKey[row.ItemCode]
		if d == nil {
			d = byKey[row.ItemName]
		}
		if d != nil {
			enrich(&item, d)
		}
		merged = append(merged, item)
	}
	return merged
}

// enrich copies detailed fields onto the flat row; detailed values win
// on collision. Numeric normalization (NBSP removal, comma decimals)
// already happened in the erp wire decoding.
func enrich(item *Item, d *erp.DetailedItem) {
	if d.Name != "" {
		item.ItemName = d.Name
	}
	item.SiteName = d.SiteName
	item.Price = d.Price
	item.Stock = d.Stock
	item.Unit = d.Unit
	item.MaterialType = d.MaterialType
	item.Species = d.Species
	item.Grade = d.Grade
	item.Moisture = d.Moisture
	item.Treatment = d.Treatment
	item.ThicknessMM = d.ThicknessMM
	item.WidthMM = d.WidthMM
	item.LengthMM = d.LengthMM
	item.Density = d.Density
	item.ProductionDays = d.ProductionDays
	item.Popularity = d.Popularity
	item.QuantityM3 = d.QuantityM3
	item.QuantityM2 = d.QuantityM2
	item.Extra = d.Extra
}

package erp

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/shopspring/decimal"
)

// GroupTree mirrors the GET /GetGroups payload: nested groups, each with
// a flat item list carrying only code and name.
type GroupTree struct {
	Groups []Group `json:"groups"`
}

type Group struct {
	Name  string      `json:"название"`
	Code  string      `json:"номенклатура"`
	Items []GroupItem `json:"items"`
}

type GroupItem struct {
	Name string `json:"название"`
	Code string `json:"номенклатура"`
}

// ShortItem is the lightweight record returned by GetItems.
type ShortItem struct {
	Code  string           `json:"code"`
	Name  string           `json:"name"`
	Price *decimal.Decimal `json:"price,omitempty"`
	Stock Stock            `json:"stock"`
}

func (s *ShortItem) UnmarshalJSON(b []byte) error {
	m, err := decodeLooseMap(b)
	if err != nil {
		return err
	}
	s.Code = CleanString(stringAt(m, "Код", "code"))
	s.Name = CleanString(stringAt(m, "Наименование", "name"))
	s.Price = ParseDecimalAny(firstOf(m, "Цена", "price"))
	s.Stock = StockFromAny(firstOf(m, "Остатки", "Остаток", "stock"))
	return nil
}

// DetailedItem is the full record returned by GetDetailedItems. Fields
// mostly arrive as strings; anything not recognized lands in Extra so
// new 1C fields survive the round trip through the cache.
type DetailedItem struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	SiteName string `json:"site_name,omitempty"`

	Price *decimal.Decimal `json:"price,omitempty"`
	Stock Stock            `json:"stock"`
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

// detailedWire maps the Cyrillic 1C field names onto typed string
// fields; numeric fields are captured as raw values and parsed
// tolerantly afterwards.
type detailedWire struct {
	Code     string `mapstructure:"Код"`
	Name     string `mapstructure:"Наименование"`
	SiteName string `mapstructure:"Наименованиедлясайта"`
	Unit     string `mapstructure:"ЕдИзмерения"`

	MaterialType string `mapstructure:"Видпиломатериала"`
	Species      string `mapstructure:"Порода"`
	Grade        string `mapstructure:"Сорт"`
	Moisture     string `mapstructure:"Влажность"`
	Treatment    string `mapstructure:"Типобработки"`

	Price          interface{} `mapstructure:"Цена"`
	Stock          interface{} `mapstructure:"Остатки"`
	StockAlt       interface{} `mapstructure:"Остаток"`
	Thickness      interface{} `mapstructure:"Толщина"`
	Width          interface{} `mapstructure:"Ширина"`
	Length         interface{} `mapstructure:"Длина"`
	Density        interface{} `mapstructure:"Плотностькгм3Общие"`
	ProductionDays interface{} `mapstructure:"СрокпроизводстваднОбщие"`
	Popularity     interface{} `mapstructure:"ПопулярностьОбщие"`
	QuantityM3     interface{} `mapstructure:"Количествовм3Общие"`
	QuantityM2     interface{} `mapstructure:"Количествовм2Общие"`
}

func (d *DetailedItem) UnmarshalJSON(b []byte) error {
	m, err := decodeLooseMap(b)
	if err != nil {
		return err
	}
	item, err := detailedFromMap(m)
	if err != nil {
		return err
	}
	*d = item
	return nil
}

func detailedFromMap(m map[string]interface{}) (DetailedItem, error) {
	var w detailedWire
	var md mapstructure.Metadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &w,
		Metadata:         &md,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return DetailedItem{}, err
	}
	if err := dec.Decode(m); err != nil {
		return DetailedItem{}, fmt.Errorf("decode detailed item: %w", err)
	}

	stock := w.Stock
	if stock == nil {
		stock = w.StockAlt
	}

	item := DetailedItem{
		Code:           CleanString(w.Code),
		Name:           CleanString(w.Name),
		SiteName:       CleanString(w.SiteName),
		Unit:           CleanString(w.Unit),
		MaterialType:   CleanString(w.MaterialType),
		Species:        CleanString(w.Species),
		Grade:          CleanString(w.Grade),
		Moisture:       CleanString(w.Moisture),
		Treatment:      CleanString(w.Treatment),
		Price:          ParseDecimalAny(w.Price),
		Stock:          StockFromAny(stock),
		ThicknessMM:    ParseDecimalAny(w.Thickness),
		WidthMM:        ParseDecimalAny(w.Width),
		LengthMM:       ParseDecimalAny(w.Length),
		Density:        ParseDecimalAny(w.Density),
		ProductionDays: ParseIntAny(w.ProductionDays),
		Popularity:     ParseIntAny(w.Popularity),
		QuantityM3:     ParseDecimalAny(w.QuantityM3),
		QuantityM2:     ParseDecimalAny(w.QuantityM2),
	}

	// Unrecognized fields pass through as strings for forward
	// compatibility with new 1C attributes.
	for _, key := range md.Unused {
		v := m[key]
		if v == nil {
			continue
		}
		s := CleanString(fmt.Sprintf("%v", v))
		if s == "" {
			continue
		}
		if item.Extra == nil {
			item.Extra = make(map[string]string)
		}
		item.Extra[key] = s
	}
	return item, nil
}

// DisplayName prefers the site-optimized name.
func (d DetailedItem) DisplayName() string {
	if d.SiteName != "" {
		return d.SiteName
	}
	return d.Name
}

func decodeLooseMap(b []byte) (map[string]interface{}, error) {
	var m map[string]interface{}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&m); err != nil {
		return nil, err
	}
	return m, nil
}

func stringAt(m map[string]interface{}, keys ...string) string {
	v := firstOf(m, keys...)
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func firstOf(m map[string]interface{}, keys ...string) interface{} {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

// decodeItems tolerates both {"items": [...]} and a bare JSON array,
// which 1C alternates between depending on the endpoint version.
func decodeItems[T any](raw []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []T
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, err
		}
		return list, nil
	}
	var wrap struct {
		Items []T `json:"items"`
	}
	if err := json.Unmarshal(trimmed, &wrap); err != nil {
		return nil, err
	}
	return wrap.Items, nil
}

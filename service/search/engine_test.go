package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"stroyassist.GO/erp"
	"stroyassist.GO/service/catalog"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func f64(v float64) *float64 { return &v }

func testCatalog() []catalog.Item {
	return []catalog.Item{
		{
			GroupName: "Вагонка", GroupCode: "G1", ItemCode: "00-1",
			ItemName: "Вагонка штиль сосна АВ 13х115х6000",
			Species:  "сосна", Grade: "АВ",
			ThicknessMM: dec("13"), WidthMM: dec("115"), LengthMM: dec("6000"),
			Price: dec("580"),
			Stock: erp.Stock{Kind: erp.StockQuantity, Qty: decimal.NewFromInt(120)},
		},
		{
			GroupName: "Вагонка", GroupCode: "G1", ItemCode: "00-2",
			ItemName: "Вагонка штиль лиственница А 14х140х4000",
			Species:  "лиственница", Grade: "А",
			ThicknessMM: dec("14"), WidthMM: dec("140"), LengthMM: dec("4000"),
			Price: dec("1250"),
			Stock: erp.Stock{Kind: erp.StockPreorder, Raw: "По предзаказу"},
		},
		{
			GroupName: "Доска", GroupCode: "G3", ItemCode: "00-3",
			ItemName:    "Доска обрезная сосна 25х150х6000",
			Species:     "сосна",
			ThicknessMM: dec("25"), WidthMM: dec("150"), LengthMM: dec("6000"),
			Price: dec("950"),
			Stock: erp.Stock{Kind: erp.StockQuantity, Qty: decimal.NewFromInt(40)},
		},
		{
			// Draft row without dimensions or price.
			GroupName: "Доска", GroupCode: "G3", ItemCode: "00-4",
			ItemName: "Доска строганая",
			Stock:    erp.Stock{Kind: erp.StockUnknown},
		},
	}
}

func testEngineWithStore(t *testing.T) (*Engine, *catalog.Store) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	store := catalog.NewStore(rdb, time.Hour, nil)
	if err := store.Save(context.Background(), testCatalog()); err != nil {
		t.Fatalf("seed catalog: %v", err)
	}
	return NewEngine(store, nil), store
}

func testEngine(t *testing.T) *Engine {
	t.Helper()
	e, _ := testEngineWithStore(t)
	return e
}

func TestSearch_NoSnapshot(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	e := NewEngine(catalog.NewStore(rdb, time.Hour, nil), nil)

	_, err := e.Search(context.Background(), Params{Query: "вагонка"})
	if !errors.Is(err, catalog.ErrCatalogUnavailable) {
		t.Fatalf("err = %v, want ErrCatalogUnavailable", err)
	}
}

func TestSearch_TextQuery(t *testing.T) {
	e := testEngine(t)

	res, err := e.Search(context.Background(), Params{Query: "Вагонка штиль"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Total != 2 {
		t.Fatalf("Total = %d, want 2", res.Total)
	}
	for _, it := range res.Items {
		if it.GroupName != "Вагонка" {
			t.Errorf("unexpected match %q", it.ItemName)
		}
	}
}

func TestSearch_Deterministic(t *testing.T) {
	e := testEngine(t)
	ctx := context.Background()
	params := Params{Query: "сосна"}

	first, err := e.Search(ctx, params)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := e.Search(ctx, params)
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		if len(again.Items) != len(first.Items) {
			t.Fatalf("result size changed between identical queries")
		}
		for j := range again.Items {
			if again.Items[j].ItemCode != first.Items[j].ItemCode {
				t.Fatalf("order changed between identical queries: %v vs %v",
					again.Items[j].ItemCode, first.Items[j].ItemCode)
			}
		}
	}
}

func TestSearch_CategoricalFilter(t *testing.T) {
	e := testEngine(t)

	res, err := e.Search(context.Background(), Params{Species: "Сосна"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Total != 2 {
		t.Fatalf("Total = %d, want 2 (case-insensitive match)", res.Total)
	}
}

func TestSearch_DimensionalFilter(t *testing.T) {
	e := testEngine(t)

	// Lower bound excludes the draft row whose missing thickness counts
	// as zero.
	res, err := e.Search(context.Background(), Params{MinThicknessMM: f64(10)})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Total != 3 {
		t.Fatalf("Total = %d, want 3", res.Total)
	}

	// Upper bound keeps it.
	res, err = e.Search(context.Background(), Params{MaxThicknessMM: f64(20)})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Total != 3 {
		t.Fatalf("Total = %d, want 3 (draft row passes max bound)", res.Total)
	}
}

func TestSearch_PriceRange(t *testing.T) {
	e := testEngine(t)

	res, err := e.Search(context.Background(), Params{MinPrice: f64(600), MaxPrice: f64(1000)})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Total != 1 || res.Items[0].ItemCode != "00-3" {
		t.Fatalf("res = %+v, want only the 950 item", res.Items)
	}

	// A max-only bound still excludes the price-on-request draft row:
	// items without a price never satisfy a priced range.
	res, err = e.Search(context.Background(), Params{MaxPrice: f64(1000)})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Total != 2 {
		t.Fatalf("Total = %d, want 2 (580 and 950, no price-on-request)", res.Total)
	}
	for _, it := range res.Items {
		if it.Price == nil {
			t.Errorf("unpriced item %q passed a price bound", it.ItemName)
		}
	}
}

func TestSearch_InStockOnlyExcludesPreorder(t *testing.T) {
	e := testEngine(t)

	res, err := e.Search(context.Background(), Params{Group: "Вагонка", InStockOnly: true})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Total != 1 || res.Items[0].ItemCode != "00-1" {
		t.Fatalf("res = %+v, want only the stocked item", res.Items)
	}
}

func TestSearch_Pagination(t *testing.T) {
	e := testEngine(t)
	ctx := context.Background()

	page1, err := e.Search(ctx, Params{Limit: 2, Offset: 0})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	page2, err := e.Search(ctx, Params{Limit: 2, Offset: 2})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if page1.Total != 4 || page2.Total != 4 {
		t.Fatalf("Total = %d/%d, want 4", page1.Total, page2.Total)
	}
	if len(page1.Items) != 2 || len(page2.Items) != 2 {
		t.Fatalf("page sizes = %d/%d, want 2/2", len(page1.Items), len(page2.Items))
	}
	if page1.Items[0].ItemCode == page2.Items[0].ItemCode {
		t.Error("pages overlap")
	}

	// Offset beyond the result set is an empty page, not an error.
	beyond, err := e.Search(ctx, Params{Limit: 2, Offset: 100})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(beyond.Items) != 0 || beyond.Total != 4 {
		t.Fatalf("beyond = %+v", beyond)
	}
}

func TestSearch_MemoFollowsSnapshotVersion(t *testing.T) {
	e, store := testEngineWithStore(t)
	ctx := context.Background()

	res, err := e.Search(ctx, Params{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Total != 4 {
		t.Fatalf("Total = %d, want 4", res.Total)
	}

	// A new snapshot bumps the version and must be picked up without
	// waiting for the memo to expire.
	if err := store.Save(ctx, testCatalog()[:1]); err != nil {
		t.Fatalf("Save: %v", err)
	}
	res, err = e.Search(ctx, Params{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Total != 1 {
		t.Fatalf("Total = %d, want 1 after snapshot replacement", res.Total)
	}

	if err := e.Refresh(ctx, true); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
}

func TestCategories(t *testing.T) {
	e := testEngine(t)

	facets, err := e.Categories(context.Background())
	if err != nil {
		t.Fatalf("Categories: %v", err)
	}
	if len(facets.Groups) != 2 {
		t.Fatalf("groups = %+v, want 2", facets.Groups)
	}
	if facets.Groups[0].Name != "Вагонка" || facets.Groups[0].ItemsCount != 2 {
		t.Errorf("groups[0] = %+v", facets.Groups[0])
	}
	if facets.Groups[1].Name != "Доска" || facets.Groups[1].ItemsCount != 2 {
		t.Errorf("groups[1] = %+v", facets.Groups[1])
	}
	if len(facets.Species) != 2 || facets.Species[0] != "лиственница" {
		t.Errorf("species = %v", facets.Species)
	}
}

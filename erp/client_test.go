package erp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"stroyassist.GO/config"
)

func testClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient(config.ERPConfig{
		BaseURL:   srv.URL,
		Username:  "user",
		Password:  "pass",
		Timeout:   5 * time.Second,
		BatchSize: 3,
	}, nil)
	return c, srv
}

func TestListGroups(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/GetGroups" {
			t.Errorf("path = %q", r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "user" || pass != "pass" {
			t.Error("basic auth not forwarded")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"groups": [{"название": "Доска", "номенклатура": "G1", "items": [{"название": "Доска обрезная", "номенклатура": "00-1"}]}]}`))
	}))

	tree, err := c.ListGroups(context.Background())
	if err != nil {
		t.Fatalf("ListGroups: %v", err)
	}
	if len(tree.Groups) != 1 || tree.Groups[0].Code != "G1" {
		t.Errorf("tree = %+v", tree)
	}
}

func TestListGroups_Non2xx(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	if _, err := c.ListGroups(context.Background()); err == nil {
		t.Fatal("want error on 502")
	}
}

func TestGetDetailedItems(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/GetDetailedItems" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var body struct {
			Items []string `json:"items"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(body.Items) != 2 {
			t.Errorf("request items = %v", body.Items)
		}
		w.Write([]byte(`{"items": [{"Код": "00-1", "Цена": 580}, {"Код": "00-2", "Цена": "1 250"}]}`))
	}))

	items, err := c.GetDetailedItems(context.Background(), []string{"00-1", "00-2"})
	if err != nil {
		t.Fatalf("GetDetailedItems: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}
	if items[1].Price == nil || items[1].Price.String() != "1250" {
		t.Errorf("price = %v, want 1250", items[1].Price)
	}
}

func TestGetDetailedItems_OversizedBatch(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for oversized batch")
	}))
	_, err := c.GetDetailedItems(context.Background(), []string{"1", "2", "3", "4"})
	if err == nil {
		t.Fatal("want error for batch above BatchSize")
	}
}

func TestGetDetailedItems_EmptyCodes(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for empty code list")
	}))
	items, err := c.GetDetailedItems(context.Background(), nil)
	if err != nil || items != nil {
		t.Errorf("empty codes = %v, %v; want nil, nil", items, err)
	}
}

func TestGetItems(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items": [{"Код": "00-1", "Наименование": "Брус", "Цена": "15 000", "Остатки": "По предзаказу"}]}`))
	}))
	items, err := c.GetItems(context.Background(), []string{"00-1"})
	if err != nil {
		t.Fatalf("GetItems: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("items = %d, want 1", len(items))
	}
	if items[0].Stock.Kind != StockPreorder {
		t.Errorf("stock kind = %s, want preorder", items[0].Stock.Kind)
	}
	if items[0].Price == nil || items[0].Price.String() != "15000" {
		t.Errorf("price = %v, want 15000", items[0].Price)
	}
}

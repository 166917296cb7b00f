package search

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"stroyassist.GO/core/cache"
	"stroyassist.GO/service/catalog"
)

// snapshotMemoTTL caps the lifetime of the decoded snapshot memo; the
// memo is also invalidated earlier whenever the sync metadata reports
// a newer snapshot version.
const snapshotMemoTTL = time.Minute

const snapshotMemoKey = "search:snapshot"

// snapshotMemo pairs the decoded items with the version (sync
// timestamp) they were decoded from.
type snapshotMemo struct {
	version int64
	items   []catalog.Item
}

// Engine answers search queries from the cached catalog snapshot. The
// decoded snapshot is memoized in-process and re-decoded only when the
// sync metadata shows a newer version, so bursts of requests do not
// re-decode the same Redis payload.
type Engine struct {
	store *catalog.Store
	memo  *cache.Cache
	log   *logrus.Logger
}

func NewEngine(store *catalog.Store, log *logrus.Logger) *Engine {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Engine{store: store, memo: cache.NewCache(), log: log}
}

// Refresh re-reads the snapshot from the store. With force the memo is
// dropped even when the cached version still matches.
func (e *Engine) Refresh(ctx context.Context, force bool) error {
	if force {
		e.memo.Delete(snapshotMemoKey)
	}
	_, err := e.loadItems(ctx)
	return err
}

func (e *Engine) loadItems(ctx context.Context) ([]catalog.Item, error) {
	meta, err := e.store.LoadMetadata(ctx)
	if err != nil {
		return e.store.Load(ctx)
	}
	var version int64
	if meta != nil {
		version = meta.LastSync.UnixNano()
	}

	if v, ok := e.memo.Get(snapshotMemoKey); ok {
		if m := v.(snapshotMemo); m.version == version {
			return m.items, nil
		}
	}

	items, err := e.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	e.memo.Set(snapshotMemoKey, snapshotMemo{version: version, items: items}, snapshotMemoTTL)
	return items, nil
}

// Result is one search page plus the pre-pagination match count.
type Result struct {
	Total  int            `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
	Items  []catalog.Item `json:"items"`
}

// Search filters the catalog, ranks by relevance when a text query is
// present, and paginates. Filter order: categorical, dimensional,
// price, relevance, stock. Returns catalog.ErrCatalogUnavailable when
// no snapshot is cached.
func (e *Engine) Search(ctx context.Context, params Params) (*Result, error) {
	params.Normalize()

	items, err := e.loadItems(ctx)
	if err != nil {
		return nil, err
	}

	candidates := make([]catalog.Item, 0, len(items))
	for _, it := range items {
		if matchesFilters(it, params) {
			candidates = append(candidates, it)
		}
	}

	if q := Tokenize(params.Query); len(q) > 0 {
		candidates = rankByRelevance(candidates, q)
	}

	if params.InStockOnly {
		inStock := candidates[:0]
		for _, it := range candidates {
			if it.Stock.HasPositiveQuantity() {
				inStock = append(inStock, it)
			}
		}
		candidates = inStock
	}

	total := len(candidates)
	start := params.Offset
	if start > total {
		start = total
	}
	end := start + params.Limit
	if end > total {
		end = total
	}

	e.log.WithFields(logrus.Fields{
		"query":  params.Query,
		"total":  total,
		"offset": params.Offset,
		"limit":  params.Limit,
	}).Debug("Catalog search")

	return &Result{
		Total:  total,
		Limit:  params.Limit,
		Offset: params.Offset,
		Items:  candidates[start:end],
	}, nil
}

// rankByRelevance sorts by BM25 score, dropping items no query token
// touched. Membership is decided by term presence, not score, because
// a term hitting exactly half the corpus has zero idf and would score
// zero despite matching. The sort is stable so ties keep catalog order
// and identical queries always return the same page.
func rankByRelevance(items []catalog.Item, query []string) []catalog.Item {
	corpus := make([][]string, len(items))
	for i, it := range items {
		corpus[i] = Tokenize(documentText(it))
	}
	index := NewBM25(corpus)

	type scored struct {
		item  catalog.Item
		score float64
	}
	matched := make([]scored, 0, len(items))
	for i, it := range items {
		if !index.ContainsAny(query, i) {
			continue
		}
		matched = append(matched, scored{item: it, score: index.Score(query, i)})
	}
	sort.SliceStable(matched, func(a, b int) bool {
		return matched[a].score > matched[b].score
	})

	ranked := make([]catalog.Item, len(matched))
	for i, m := range matched {
		ranked[i] = m.item
	}
	return ranked
}

// documentText concatenates the searchable attributes of one item.
func documentText(it catalog.Item) string {
	parts := []string{it.ItemName, it.SiteName, it.GroupName,
		it.MaterialType, it.Species, it.Grade, it.Treatment}
	return strings.Join(parts, " ")
}

func matchesFilters(it catalog.Item, p Params) bool {
	if !matchString(p.Group, it.GroupName) ||
		!matchString(p.MaterialType, it.MaterialType) ||
		!matchString(p.Species, it.Species) ||
		!matchString(p.Grade, it.Grade) ||
		!matchString(p.Moisture, it.Moisture) ||
		!matchString(p.Treatment, it.Treatment) {
		return false
	}
	if !inRange(it.ThicknessMM, p.MinThicknessMM, p.MaxThicknessMM) ||
		!inRange(it.WidthMM, p.MinWidthMM, p.MaxWidthMM) ||
		!inRange(it.LengthMM, p.MinLengthMM, p.MaxLengthMM) {
		return false
	}
	if p.MinPrice != nil || p.MaxPrice != nil {
		// Price-on-request items have no price to compare; any priced
		// range excludes them.
		if it.Price == nil || !inRange(it.Price, p.MinPrice, p.MaxPrice) {
			return false
		}
	}
	return true
}

func matchString(want, have string) bool {
	if want == "" {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(want), strings.TrimSpace(have))
}

// inRange checks a decimal attribute against optional bounds. A missing
// dimension counts as zero, so min bounds exclude it and max bounds do
// not; missing prices never reach here (see matchesFilters).
func inRange(v *decimal.Decimal, min, max *float64) bool {
	val := 0.0
	if v != nil {
		val = v.InexactFloat64()
	}
	if min != nil && val < *min {
		return false
	}
	if max != nil && val > *max {
		return false
	}
	return true
}

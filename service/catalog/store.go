package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Redis keys for the catalog snapshot and its sync metadata. Both carry
// the same TTL and are refreshed as a pair on every successful sync.
const (
	KeyCatalog  = "catalog:products"
	KeyMetadata = "catalog:metadata"
)

// ErrCatalogUnavailable means no unexpired snapshot exists in the cache.
var ErrCatalogUnavailable = errors.New("catalog: no cached snapshot available")

// Metadata describes the cached snapshot for observability.
type Metadata struct {
	ItemsCount int       `json:"items_count"`
	LastSync   time.Time `json:"last_sync"`
	TTLSeconds int       `json:"ttl_seconds"`
}

// Store wraps Redis with the catalog's freshness semantics: single
// writer (the sync orchestrator), many readers, bounded TTL so stale
// data expires instead of being served indefinitely.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
	log *logrus.Logger
}

func NewStore(rdb *redis.Client, ttl time.Duration, log *logrus.Logger) *Store {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Store{rdb: rdb, ttl: ttl, log: log}
}

// TTL returns the configured staleness ceiling.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Save writes the snapshot and its metadata in one transactional
// pipeline, so readers never observe the pair half-updated. Refuses to
// overwrite the cache with an empty collection.
func (s *Store) Save(ctx context.Context, items []Item) error {
	if s.rdb == nil {
		return errors.New("catalog: redis is not configured")
	}
	if len(items) == 0 {
		return errors.New("catalog: refusing to cache an empty snapshot")
	}

	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("catalog: marshal snapshot: %w", err)
	}
	meta, err := json.Marshal(Metadata{
		ItemsCount: len(items),
		LastSync:   time.Now().UTC(),
		TTLSeconds: int(s.ttl.Seconds()),
	})
	if err != nil {
		return fmt.Errorf("catalog: marshal metadata: %w", err)
	}

	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, KeyCatalog, payload, s.ttl)
		pipe.Set(ctx, KeyMetadata, meta, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("catalog: save snapshot: %w", err)
	}
	s.log.Infof("Saved %d items to cache (ttl %s)", len(items), s.ttl)
	return nil
}

// Load returns the current snapshot, or ErrCatalogUnavailable when the
// key is missing or expired.
func (s *Store) Load(ctx context.Context) ([]Item, error) {
	if s.rdb == nil {
		return nil, ErrCatalogUnavailable
	}
	raw, err := s.rdb.Get(ctx, KeyCatalog).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCatalogUnavailable
		}
		return nil, fmt.Errorf("catalog: load snapshot: %w", err)
	}
	var items []Item
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("catalog: decode snapshot: %w", err)
	}
	return items, nil
}

// LoadMetadata returns the sync metadata, or nil when absent.
func (s *Store) LoadMetadata(ctx context.Context) (*Metadata, error) {
	if s.rdb == nil {
		return nil, nil
	}
	raw, err := s.rdb.Get(ctx, KeyMetadata).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("catalog: load metadata: %w", err)
	}
	var meta Metadata
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		return nil, fmt.Errorf("catalog: decode metadata: %w", err)
	}
	return &meta, nil
}

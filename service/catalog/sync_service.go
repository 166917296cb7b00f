package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bsm/redislock"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"stroyassist.GO/erp"
)

var (
	// ErrSyncInProgress is returned when a sync request arrives while
	// another run is in flight. The request is rejected, not queued.
	ErrSyncInProgress = errors.New("catalog: sync already in progress")
	// ErrEmptyCatalog guards against overwriting the cache with empty
	// data when 1C returns zero groups.
	ErrEmptyCatalog = errors.New("catalog: upstream returned zero groups")
)

const (
	syncLockKey = "catalog:sync:lock"
	syncLockTTL = 15 * time.Minute
)

// Status describes the most recent synchronization. Mutated only by the
// SyncService, read by health/status reporting.
type Status struct {
	IsRunning           bool       `json:"is_running"`
	LastSyncTime        *time.Time `json:"last_sync_time,omitempty"`
	LastSuccess         bool       `json:"last_success"`
	LastError           string     `json:"last_error,omitempty"`
	ItemsCount          int        `json:"items_count"`
	GroupsCount         int        `json:"groups_count"`
	LastDurationSeconds float64    `json:"last_duration_seconds,omitempty"`
}

// Stats is the result of one completed sync run.
type Stats struct {
	RunID         string        `json:"run_id"`
	ItemsCount    int           `json:"items_count"`
	GroupsCount   int           `json:"groups_count"`
	CodesFetched  int           `json:"codes_fetched"`
	FailedBatches int           `json:"failed_batches"`
	Duration      time.Duration `json:"-"`
}

// SyncService coordinates ERP client, merger and cache store. One run
// at a time: the in-process flag serializes triggers within the
// process, the redis lock serializes across processes.
type SyncService struct {
	erp     *erp.Client
	store   *Store
	locker  *redislock.Client
	limiter *rate.Limiter
	log     *logrus.Logger

	mu     sync.Mutex
	status Status
}

func NewSyncService(client *erp.Client, store *Store, locker *redislock.Client, batchDelay time.Duration, log *logrus.Logger) *SyncService {
	if batchDelay <= 0 {
		batchDelay = 500 * time.Millisecond
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &SyncService{
		erp:     client,
		store:   store,
		locker:  locker,
		limiter: rate.NewLimiter(rate.Every(batchDelay), 1),
		log:     log,
	}
}

// Status returns a copy of the current sync status.
func (s *SyncService) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Trigger starts a sync in the background. Returns false when a run is
// already in flight.
func (s *SyncService) Trigger() bool {
	s.mu.Lock()
	running := s.status.IsRunning
	s.mu.Unlock()
	if running {
		return false
	}
	go func() {
		if _, err := s.Sync(context.Background()); err != nil && !errors.Is(err, ErrSyncInProgress) {
			s.log.Errorf("Triggered catalog sync failed: %v", err)
		}
	}()
	return true
}

// CronJob adapts the service to the cron job signature.
func (s *SyncService) CronJob() func(...string) {
	return func(...string) {
		if _, err := s.Sync(context.Background()); err != nil && !errors.Is(err, ErrSyncInProgress) {
			s.log.Errorf("Scheduled catalog sync failed: %v", err)
		}
	}
}

// Sync performs one full synchronization run. On any failure the
// previous cache contents, if unexpired, remain authoritative; there
// is never a partial write.
func (s *SyncService) Sync(ctx context.Context) (*Stats, error) {
	s.mu.Lock()
	if s.status.IsRunning {
		s.mu.Unlock()
		s.log.Warn("Sync already in progress, skipping")
		return nil, ErrSyncInProgress
	}
	s.status.IsRunning = true
	s.mu.Unlock()

	runID := uuid.NewString()
	start := time.Now()
	s.log.WithField("run_id", runID).Info("Catalog sync started")

	if s.locker != nil {
		lock, err := s.locker.Obtain(ctx, syncLockKey, syncLockTTL, nil)
		if errors.Is(err, redislock.ErrNotObtained) {
			// Another process holds the lock; this is a skip, not a
			// failed run.
			s.mu.Lock()
			s.status.IsRunning = false
			s.mu.Unlock()
			s.log.Warn("Sync lock held elsewhere, skipping")
			return nil, ErrSyncInProgress
		}
		if err != nil {
			err = fmt.Errorf("catalog: obtain sync lock: %w", err)
			s.finish(start, 0, 0, err)
			return nil, err
		}
		defer lock.Release(context.Background())
	}

	stats, err := s.run(ctx, runID)
	if err != nil {
		s.log.WithField("run_id", runID).Errorf("Catalog sync failed: %v", err)
		s.finish(start, 0, 0, err)
		return nil, err
	}

	stats.Duration = time.Since(start)
	s.finish(start, stats.ItemsCount, stats.GroupsCount, nil)
	s.log.WithFields(logrus.Fields{
		"run_id":   runID,
		"items":    stats.ItemsCount,
		"groups":   stats.GroupsCount,
		"duration": stats.Duration.Round(time.Millisecond).String(),
	}).Info("Catalog sync completed")
	return stats, nil
}

func (s *SyncService) run(ctx context.Context, runID string) (*Stats, error) {
	tree, err := s.erp.ListGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch groups: %w", err)
	}
	if len(tree.Groups) == 0 {
		return nil, ErrEmptyCatalog
	}

	flat := Flatten(tree)
	codes := UniqueCodes(flat)
	s.log.WithFields(logrus.Fields{
		"run_id": runID,
		"groups": len(tree.Groups),
		"items":  len(flat),
		"codes":  len(codes),
	}).Info("Fetched group tree")

	details, failedBatches := s.fetchDetails(ctx, codes)
	items := Merge(flat, details)

	if err := s.store.Save(ctx, items); err != nil {
		return nil, err
	}

	return &Stats{
		RunID:         runID,
		ItemsCount:    len(items),
		GroupsCount:   len(tree.Groups),
		CodesFetched:  len(details),
		FailedBatches: failedBatches,
	}, nil
}

// fetchDetails fetches detail records in sequential paced batches. A
// failed batch is logged and skipped; its codes simply do not appear in
// the result.
func (s *SyncService) fetchDetails(ctx context.Context, codes []string) ([]erp.DetailedItem, int) {
	batchSize := s.erp.BatchSize()
	totalBatches := (len(codes) + batchSize - 1) / batchSize

	var all []erp.DetailedItem
	failed := 0
	for i := 0; i < len(codes); i += batchSize {
		if err := s.limiter.Wait(ctx); err != nil {
			s.log.Warnf("Detail fetch interrupted: %v", err)
			break
		}
		end := i + batchSize
		if end > len(codes) {
			end = len(codes)
		}
		batchNum := i/batchSize + 1
		items, err := s.erp.GetDetailedItems(ctx, codes[i:end])
		if err != nil {
			failed++
			s.log.WithFields(logrus.Fields{
				"batch":         batchNum,
				"total_batches": totalBatches,
				"codes":         end - i,
			}).Warnf("Detail batch failed: %v", err)
			continue
		}
		all = append(all, items...)
	}
	return all, failed
}

func (s *SyncService) finish(start time.Time, items, groups int, err error) {
	now := time.Now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.IsRunning = false
	s.status.LastSyncTime = &now
	s.status.LastDurationSeconds = time.Since(start).Seconds()
	if err != nil {
		s.status.LastSuccess = false
		s.status.LastError = err.Error()
		return
	}
	s.status.LastSuccess = true
	s.status.LastError = ""
	s.status.ItemsCount = items
	s.status.GroupsCount = groups
}

package config

import (
	"os"
	"time"
)

// CatalogConfig holds cache and sync scheduling settings.
type CatalogConfig struct {
	// TTL is the staleness ceiling for the cached catalog snapshot.
	TTL time.Duration
	// SyncSchedule is a cron expression for the periodic sync.
	SyncSchedule string
	// WarmupDelay postpones the first sync after process start.
	WarmupDelay time.Duration
	// BatchDelay paces sequential detail batches against the ERP.
	BatchDelay time.Duration
}

func LoadCatalogConfig() CatalogConfig {
	schedule := os.Getenv("CATALOG_SYNC_SCHEDULE")
	if schedule == "" {
		schedule = "0 * * * *"
	}
	return CatalogConfig{
		TTL:          time.Duration(envInt("CATALOG_TTL_SECONDS", 7200)) * time.Second,
		SyncSchedule: schedule,
		WarmupDelay:  time.Duration(envInt("CATALOG_SYNC_WARMUP_SECONDS", 10)) * time.Second,
		BatchDelay:   time.Duration(envInt("CATALOG_BATCH_DELAY_MS", 500)) * time.Millisecond,
	}
}

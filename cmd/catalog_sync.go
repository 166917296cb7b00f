package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"stroyassist.GO/config"
	"stroyassist.GO/erp"
	"stroyassist.GO/service/catalog"
)

var syncTimeout int

var catalogSyncCmd = &cobra.Command{
	Use:   "catalog:sync",
	Short: "Run one catalog synchronization from 1C into Redis and exit",
	Run: func(cmd *cobra.Command, args []string) {
		config.InitRedis()
		if config.RedisClient == nil {
			fmt.Println("Redis is not configured (set REDIS_ADDR), nowhere to cache the catalog")
			return
		}

		log := config.GetLogger()
		catalogCfg := config.LoadCatalogConfig()
		client := erp.NewClient(config.LoadERPConfig(), log)
		store := catalog.NewStore(config.RedisClient, catalogCfg.TTL, log)
		svc := catalog.NewSyncService(client, store, config.RedisLocker, catalogCfg.BatchDelay, log)

		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(syncTimeout)*time.Second)
		defer cancel()

		stats, err := svc.Sync(ctx)
		if err != nil {
			fmt.Printf("Sync failed: %v\n", err)
			return
		}

		fmt.Printf(`
=== Sync Report ===
Run ID:         %s
Groups:         %d
Items:          %d
Codes fetched:  %d
Failed batches: %d
Cache TTL:      %s
Total time:     %s
===================
`, stats.RunID, stats.GroupsCount, stats.ItemsCount, stats.CodesFetched,
			stats.FailedBatches, store.TTL(), stats.Duration.Round(time.Millisecond))
	},
}

func init() {
	catalogSyncCmd.Flags().IntVar(&syncTimeout, "timeout", 600, "Overall sync timeout in seconds")
	rootCmd.AddCommand(catalogSyncCmd)
}

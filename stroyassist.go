package main

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"stroyassist.GO/api"
	_ "stroyassist.GO/api/catalog"
	"stroyassist.GO/config"
	"stroyassist.GO/core/auth"
	"stroyassist.GO/cron"
	_ "stroyassist.GO/custom"
	"stroyassist.GO/erp"
	"stroyassist.GO/service/catalog"
	"stroyassist.GO/service/pricing"
	"stroyassist.GO/service/search"
)

func main() {
	config.LoadEnv()
	config.LoadAppConfig()
	log := config.GetLogger()

	config.InitRedis()
	if config.RedisClient != nil {
		if err := config.RedisClient.Ping(config.RedisCtx()).Err(); err != nil {
			log.Warnf("Redis configured but not reachable, caching disabled: %v", err)
			config.RedisClient = nil
			config.RedisLocker = nil
		} else {
			log.Info("Redis connection successful")
		}
	} else {
		log.Warn("Redis not configured, catalog caching disabled")
	}

	catalogCfg := config.LoadCatalogConfig()
	erpClient := erp.NewClient(config.LoadERPConfig(), log)
	store := catalog.NewStore(config.RedisClient, catalogCfg.TTL, log)
	syncSvc := catalog.NewSyncService(erpClient, store, config.RedisLocker, catalogCfg.BatchDelay, log)
	deps := &api.Deps{
		Store:   store,
		Sync:    syncSvc,
		Search:  search.NewEngine(store, log),
		Pricing: pricing.NewCalculator(erpClient, log),
	}

	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.Gzip())
	e.Use(middleware.Decompress())

	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start).Milliseconds()
			c.Response().Header().Set("X-Request-Duration-ms", strconv.FormatInt(duration, 10))
			return err
		}
	})

	e.GET("/health", func(c echo.Context) error {
		status := syncSvc.Status()
		meta, _ := store.LoadMetadata(c.Request().Context())
		return c.JSON(200, echo.Map{
			"status":         "ok",
			"redis":          config.RedisClient != nil,
			"catalog_cached": meta != nil,
			"sync":           status,
		})
	})

	apiGroup := e.Group("/api")
	apiGroup.Use(auth.Middleware())

	api.ApplyModules(apiGroup, deps)
	api.ApplyRoutes(e, deps)

	if config.RedisClient != nil {
		cron.StartCron(map[string]config.CronJob{
			"catalogsync": {Schedule: catalogCfg.SyncSchedule, Job: syncSvc.CronJob()},
		})
		// Warm the cache shortly after start instead of waiting for the
		// first scheduled run.
		time.AfterFunc(catalogCfg.WarmupDelay, func() {
			if syncSvc.Trigger() {
				log.Info("Warmup catalog sync triggered")
			}
		})
	}

	port := config.AppConfig.Port
	if port == "" {
		port = "8080"
	}
	log.Infof("Server running on :%s", port)
	e.Logger.Fatal(e.Start(":" + port))
}

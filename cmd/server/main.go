package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"dental-analytics/sheetbridge/internal/api"
	"dental-analytics/sheetbridge/internal/cache"
	"dental-analytics/sheetbridge/internal/config"
	"dental-analytics/sheetbridge/internal/credentials"
	"dental-analytics/sheetbridge/internal/db"
	"dental-analytics/sheetbridge/internal/db/repositories"
	"dental-analytics/sheetbridge/internal/jobs"
	"dental-analytics/sheetbridge/internal/logging"
	"dental-analytics/sheetbridge/internal/metrics"
	"dental-analytics/sheetbridge/internal/routes"
	"dental-analytics/sheetbridge/internal/sheets"
	"dental-analytics/sheetbridge/internal/syncer"
	"dental-analytics/sheetbridge/internal/upsert"
)

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logging.Init(cfg.AppEnv); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logging.Close()

	logging.Info("Sheetbridge starting up",
		"environment", cfg.AppEnv,
		"timestamp", time.Now().Format(time.RFC3339),
	)

	dsn := cfg.Postgres.DSN()

	if err := db.RunMigrations(dsn); err != nil {
		logging.Error("Failed to run migrations", "error", err.Error())
		log.Fatalf("Failed to run migrations: %v", err)
	}

	if err := db.InitPostgres(dsn); err != nil {
		logging.Error("Failed to connect to Postgres (sqlx)", "error", err.Error())
		log.Fatalf("Failed to connect to Postgres (sqlx): %v", err)
	}
	logging.Info("Connected to Postgres (sqlx)")

	gormDB, err := db.InitPostgresORM(dsn)
	if err != nil {
		logging.Error("Failed to connect to Postgres (GORM)", "error", err.Error())
		log.Fatalf("Failed to connect to Postgres (GORM): %v", err)
	}
	logging.Info("Connected to Postgres (GORM)")

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Addr(),
		Password:     cfg.Redis.Password,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		logging.Warn("Redis unreachable, sync lock falls back to in-process only", "error", err.Error())
	}
	cancel()

	cacheSvc := cache.NewService(10*time.Minute, 15*time.Minute)

	propsRepo := repositories.NewPropertiesRepository(db.DB)
	mappingRepo := repositories.NewMappingRepository(db.DB)
	runsRepo := repositories.NewSyncRunRepository(gormDB)

	resolver := credentials.NewResolver(propsRepo, mappingRepo, cacheSvc, cfg.Sync)
	sheetsClient := sheets.NewClient(cfg.Sheets.BaseURL, cfg.Sheets.AccessToken)

	policy := upsert.DefaultRetryPolicy()
	policy.MaxAttempts = cfg.Sync.MaxAttempts
	policy.InitialDelay = cfg.Sync.InitialBackoff
	upserter := upsert.NewClient(cfg.Sync.BatchSize, policy)

	reg := metrics.NewRegistry()
	audit := syncer.NewAuditWriter(sheetsClient, runsRepo, cfg.Sync.AuditSheetTab)
	lock := syncer.NewRunLock(rdb, "sheetbridge:sync_lock", 10*time.Minute)

	orc := syncer.NewOrchestrator(sheetsClient, upserter, resolver, audit, lock, reg, cfg.Sync)
	rowSyncer := syncer.NewRowSyncer(orc, cacheSvc, cfg.Sync.EditDebounce)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	jobs.InitializeJobs(ctx, orc, runsRepo, propsRepo.ListTenants, cfg.Sync.Interval)
	logging.Info("Scheduled sync job started", "interval", cfg.Sync.Interval.String())

	handlers := &api.Handlers{
		Orchestrator: orc,
		RowSyncer:    rowSyncer,
		Resolver:     resolver,
		Upserter:     upserter,
		Runs:         runsRepo,
	}

	upSince := time.Now()
	router := routes.RegisterRoutes(handlers, reg, db.DB, cfg.Sync, upSince)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", router)
	logging.Info("Prometheus metrics endpoint registered at /metrics")

	addr := ":" + strconv.Itoa(cfg.Port)
	logging.Info("Server starting", "port", cfg.Port, "environment", cfg.AppEnv)

	log.Printf("Starting server on %s", addr)
	log.Fatal(http.ListenAndServe(addr, mux))
}

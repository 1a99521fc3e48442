package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cryolab-data/internal/config"
	"cryolab-data/internal/database"
	httpapi "cryolab-data/internal/http"
	"cryolab-data/internal/logger"
	"cryolab-data/internal/repository"
	"cryolab-data/internal/service"
	"cryolab-data/internal/store"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// .env for local dev; production sets real env vars
	_ = godotenv.Load()

	cfg := config.Load()

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, "cryolab-data")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	var kv store.KV
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Warn("Redis unavailable, drafts and caches disabled", zap.Error(err))
	} else {
		kv = store.NewRedisKV(redisClient)
	}

	// Optional DB: without it cryolab-data runs on in-memory repos so the
	// lab frontend can be developed against a bare checkout.
	var db *sql.DB
	if cfg.DBEnabled {
		if d, err := database.NewPostgresDB(&cfg.Database); err == nil {
			db = d
			log.Info("DB enabled for cryolab-data")
		} else {
			log.Warn("DB enabled but connection failed, falling back to in-memory repos", zap.Error(err))
		}
	}

	var (
		sessionsRepo   repository.SessionsRepository
		gridTypesRepo  repository.GridTypesRepository
		microscopeRepo repository.MicroscopeRepository
		postsRepo      repository.PostsRepository
	)
	if db != nil {
		sessionsRepo = repository.NewPostgresSessionsRepository(db)
		gridTypesRepo = repository.NewPostgresGridTypesRepository(db)
		microscopeRepo = repository.NewPostgresMicroscopeRepository(db)
		postsRepo = repository.NewPostgresPostsRepository(db)
	} else {
		sessionsRepo = repository.NewMemorySessionsRepo()
		gridTypesRepo = repository.NewMemoryGridTypesRepo()
		microscopeRepo = repository.NewMemoryMicroscopeRepo()
		postsRepo = repository.NewMemoryPostsRepo()
	}

	notifier := service.NewNotifier(cfg.Webhook, log)
	sessionSvc := service.NewSessionService(sessionsRepo, notifier, log)
	inventorySvc := service.NewInventoryService(gridTypesRepo, kv, log)

	router := httpapi.NewRouter(log)
	router.RegisterSessionRoutes(httpapi.NewSessionsHandler(sessionSvc, log))
	router.RegisterInventoryRoutes(httpapi.NewInventoryHandler(inventorySvc, log))
	router.RegisterMicroscopeRoutes(httpapi.NewMicroscopeHandler(microscopeRepo, log))
	router.RegisterPostRoutes(httpapi.NewPostsHandler(postsRepo, log))
	if kv != nil {
		router.RegisterDraftRoutes(httpapi.NewDraftsHandler(kv, log))
	}
	router.RegisterOpsRoutes()

	srv := service.NewServer(cfg.HTTP.Addr, router, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		cancel()
	case <-errCh:
		cancel()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 5*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
	_ = redisClient.Close()
	if db != nil {
		_ = db.Close()
	}
}

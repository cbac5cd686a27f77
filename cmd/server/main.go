package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	gomongo "go.mongodb.org/mongo-driver/mongo"

	"github.com/pawhaven/canine-care/internal/api"
	"github.com/pawhaven/canine-care/internal/core/ports"
	"github.com/pawhaven/canine-care/internal/core/service"
	"github.com/pawhaven/canine-care/internal/infrastructure/config"
	"github.com/pawhaven/canine-care/internal/infrastructure/db/memory"
	"github.com/pawhaven/canine-care/internal/infrastructure/db/mongo"
	"github.com/pawhaven/canine-care/internal/infrastructure/db/redis"
	"github.com/pawhaven/canine-care/internal/infrastructure/queue"
	"github.com/pawhaven/canine-care/internal/store"
	"github.com/pawhaven/canine-care/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Remote backend. An empty MONGO_URI leaves the gateways unconfigured:
	// the loader falls back to the demo seed dataset and every mutation
	// stays local.
	var (
		mongoClient *gomongo.Client
		mongoDB     *gomongo.Database
		ownerRepo   ports.OwnerRepository
		gateways    = ports.UnconfiguredGateways()
	)
	if cfg.Mongo.Configured() {
		var err error
		mongoClient, mongoDB, err = mongo.Connect(ctx, mongo.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("mongodb connection failed")
		}
		defer func() { _ = mongoClient.Disconnect(context.Background()) }()

		if err := mongo.EnsureIndexes(ctx, mongoDB); err != nil {
			log.Fatal().Err(err).Msg("mongodb index creation failed")
		}
		if err := mongo.EnsureOwnerIndexes(ctx, mongoDB); err != nil {
			log.Fatal().Err(err).Msg("owner index creation failed")
		}

		gateways = mongo.NewGateways(mongoDB)
		ownerRepo = mongo.NewOwnerRepository(mongoDB)
		log.Info().Str("database", cfg.Mongo.Database).Msg("remote backend configured")
	} else {
		ownerRepo = memory.NewOwnerRepository()
		log.Warn().Msg("no remote backend configured, running against seed data")
	}

	// Session mirror. Optional like the backend: without Redis the restore
	// flow is disabled and tokens stand alone.
	var (
		redisClient *goredis.Client
		sessions    ports.SessionStore
	)
	if cfg.Redis.Addr != "" {
		var err error
		redisClient, err = redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			log.Fatal().Err(err).Msg("redis connection failed")
		}
		defer func() { _ = redisClient.Close() }()
		sessions = redis.NewSessionStore(redisClient)
	}

	dispatcher := queue.NewDispatcher(cfg.RetryWorkers, log)
	dispatcher.Start(ctx)

	st := store.New()
	loader := service.NewLoader(st, gateways, log)
	records := service.NewRecordsService(st, gateways, dispatcher, log)
	authService := service.NewAuthService(ownerRepo, sessions, loader, cfg.JWTSecret, 24*time.Hour, log)

	// The store starts empty; the first login populates it for that actor.

	e := api.NewRouter(records, authService, mongoDB, redisClient, cfg.JWTSecret, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/smartfdx/authgate/internal/api"
	"github.com/smartfdx/authgate/internal/infrastructure/config"
	"github.com/smartfdx/authgate/internal/infrastructure/credstore"
	mongodb "github.com/smartfdx/authgate/internal/infrastructure/db/mongo"
	redisdb "github.com/smartfdx/authgate/internal/infrastructure/db/redis"
	"github.com/smartfdx/authgate/pkg/logger"
)

// @title        SmartFDX Auth Gateway API
// @version      1.0
// @description  Login, session, and workspace-route resolution for the SmartFDX data-entry system.
// @BasePath     /
func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	creds, err := credstore.New(cfg.CredStore.URL, cfg.CredStore.Key, log)
	if err != nil {
		log.Fatal().Err(err).Msg("credential store misconfigured")
	}

	router := api.NewRouter(cfg, db, rdb, creds, log)
	router.Audit.Start(ctx)
	go router.Guards.Run(ctx, cfg.Session.SweepInterval)

	go func() {
		if err := router.Echo.Start(":" + cfg.Port); err != nil {
			log.Info().Err(err).Msg("http server stopped")
		}
	}()

	<-ctx.Done()
	if err := router.Echo.Shutdown(context.Background()); err != nil {
		log.Error().Err(err).Msg("http server shutdown failed")
	}
}

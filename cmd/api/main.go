package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pageza/recipebook/backend/config"
	"github.com/pageza/recipebook/backend/internal/database"
	"github.com/pageza/recipebook/backend/internal/logger"
	"github.com/pageza/recipebook/backend/internal/server"
	"github.com/pageza/recipebook/backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(string(cfg.Env))
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db, err := database.Open(cfg, log)
	if err != nil {
		log.Fatal("Failed to connect to database", "error", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database", "error", err)
	}

	redisClient, err := database.NewRedisClient(cfg, log)
	if err != nil {
		// rate limiting and password reset need Redis; everything else runs without it
		log.Warn("Redis unavailable, continuing without it", "error", err)
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	ctx := context.Background()
	s3cfg, err := config.NewS3Config(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to initialize S3", "error", err)
	}
	var storage service.ObjectStore
	if s3cfg != nil {
		storage = s3cfg
		log.Info("Recipe exports enabled", "bucket", s3cfg.BucketName)
	}

	srv := server.New(server.Deps{
		Config:  cfg,
		DB:      db,
		Redis:   redisClient,
		Storage: storage,
		Log:     log,
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatal("Server error", "error", err)
		}
	case sig := <-quit:
		log.Info("Received signal", "signal", sig.String())
	}

	log.Info("Shutting down server...")
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server shutdown error", "error", err)
	}
	log.Info("Server stopped")
}

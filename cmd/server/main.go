package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/sudalaiyandi2004/cyber-backend/docs"
	"github.com/sudalaiyandi2004/cyber-backend/internal/api"
	"github.com/sudalaiyandi2004/cyber-backend/internal/core/ports"
	"github.com/sudalaiyandi2004/cyber-backend/internal/core/service"
	"github.com/sudalaiyandi2004/cyber-backend/internal/infrastructure/config"
	mongodb "github.com/sudalaiyandi2004/cyber-backend/internal/infrastructure/db/mongo"
	redisdb "github.com/sudalaiyandi2004/cyber-backend/internal/infrastructure/db/redis"
	"github.com/sudalaiyandi2004/cyber-backend/internal/infrastructure/media"
	"github.com/sudalaiyandi2004/cyber-backend/pkg/logger"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		// Logger is not up yet; a plain panic is the fail-fast path.
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	// ── MongoDB ──────────────────────────────────────────────
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connect failed")
	}
	defer func() { _ = mongoClient.Disconnect(ctx) }()

	userRepo := mongodb.NewUserRepository(db)
	postRepo := mongodb.NewPostRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("user indexes failed")
	}
	if err := postRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("post indexes failed")
	}

	// ── Redis ────────────────────────────────────────────────
	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connect failed")
	}
	defer func() { _ = rdb.Close() }()
	throttle := redisdb.NewLoginThrottle(rdb, 0, 0)

	// ── Media store ──────────────────────────────────────────
	var mediaStore ports.MediaStore
	var mediaDir string
	switch cfg.Media.Driver {
	case "minio":
		mediaStore, err = media.NewMinioStore(ctx, media.MinioConfig{
			Endpoint:  cfg.Media.MinioEndpoint,
			AccessKey: cfg.Media.MinioAccessKey,
			SecretKey: cfg.Media.MinioSecretKey,
			Bucket:    cfg.Media.MinioBucket,
			UseSSL:    cfg.Media.MinioUseSSL,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("minio connect failed")
		}
	default:
		local, err := media.NewLocalStore(cfg.Media.LocalDir, cfg.Media.BaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("local media store failed")
		}
		mediaStore = local
		mediaDir = local.Dir()
	}

	// ── Services ─────────────────────────────────────────────
	authService := service.NewAuthService(userRepo, throttle, cfg.JWTSecret, cfg.TokenTTL)
	postService := service.NewPostService(postRepo, userRepo, mediaStore, log)

	// ── Router ───────────────────────────────────────────────
	e := api.NewRouter(api.Deps{
		AuthService: authService,
		PostService: postService,
		Mongo:       db,
		Redis:       rdb,
		Logger:      log,
		MediaDir:    mediaDir,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server listening")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutCtx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
}

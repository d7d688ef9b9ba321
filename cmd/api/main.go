package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"foodgram/internal/api"
	"foodgram/internal/config"
	"foodgram/internal/logger"
	"foodgram/internal/platform/imagestore"
	"foodgram/internal/recipe"
	"foodgram/internal/user"
)

func main() {
	ctx := context.Background()

	configPath := "config.json"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}

	if err := logger.Init(cfg.Env); err != nil {
		panic(fmt.Errorf("failed to initialize logger: %w", err))
	}
	defer logger.Close()

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := sqlx.Connect("postgres", cfg.DatabaseURL)
	if err != nil {
		panic(fmt.Errorf("failed to connect to database: %w", err))
	}
	defer db.Close()

	userStore, err := user.NewPostgresStore(db)
	if err != nil {
		panic(fmt.Errorf("error creating user store: %w", err))
	}
	recipeStore, err := recipe.NewPostgresStore(db)
	if err != nil {
		panic(fmt.Errorf("error creating recipe store: %w", err))
	}

	images, err := newImageStore(ctx, cfg.Images)
	if err != nil {
		panic(fmt.Errorf("error creating image store: %w", err))
	}

	handler := api.NewHandler(recipeStore, userStore, images, api.Settings{
		PageSize:    cfg.PageSize,
		MaxPageSize: cfg.MaxPageSize,
		BrandName:   cfg.BrandName,
		JWTSecret:   cfg.JWTSecret,
	})

	r := api.NewRouter(handler, cfg.AllowedOrigins)
	if cfg.Images.Driver == "local" {
		r.Static(cfg.Images.MediaURL, cfg.Images.MediaDir)
	}

	logger.Info("starting server", zap.String("addr", cfg.ListenAddr), zap.String("image_store", cfg.Images.Driver))
	if err := r.Run(cfg.ListenAddr); err != nil {
		logger.Error("server stopped", zap.Error(err))
	}
}

func newImageStore(ctx context.Context, cfg config.ImageConfig) (imagestore.Store, error) {
	switch cfg.Driver {
	case "s3":
		store, err := imagestore.NewS3Store(ctx, cfg.S3Bucket, cfg.S3Region, cfg.PublicURL)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "local":
		return imagestore.NewLocalStore(cfg.MediaDir, cfg.MediaURL), nil
	}
	return nil, fmt.Errorf("unknown image store %q", cfg.Driver)
}

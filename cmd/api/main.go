package main

import (
	"context"
	"log"

	"github.com/GrahamCHill/diagram-studio/config"
	"github.com/GrahamCHill/diagram-studio/internal/audit"
	"github.com/GrahamCHill/diagram-studio/internal/bootstrap"
	"github.com/GrahamCHill/diagram-studio/internal/diagrams/repository"
	"github.com/GrahamCHill/diagram-studio/internal/diagrams/service"
	"github.com/GrahamCHill/diagram-studio/internal/storage/contentcache"
	"github.com/GrahamCHill/diagram-studio/internal/storage/object"
	"github.com/GrahamCHill/diagram-studio/internal/storage/postgres"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	bootstrap.SetGinMode(cfg.App.Environment)

	ctx := context.Background()

	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer db.Close()

	contents, err := object.New(ctx, &cfg.ObjectStore)
	if err != nil {
		log.Fatalf("connect object store: %v", err)
	}
	if err := contents.EnsureBucket(ctx); err != nil {
		log.Fatalf("ensure bucket: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	var cache *contentcache.Cache
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Printf("[warn] operation=startup redis unavailable, content cache disabled: %v", err)
	} else {
		cache = contentcache.New(redisClient, cfg.Redis.TTL)
	}

	repo := repository.NewDiagramRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatalf("ensure schema: %v", err)
	}

	recorder := audit.NewRecorder(db)
	if err := recorder.EnsureSchema(ctx); err != nil {
		log.Fatalf("ensure audit schema: %v", err)
	}

	svc := service.NewDiagramService(repo, contents, cache)

	r := bootstrap.BuildRouter(bootstrap.RouterDeps{
		Diagrams:     svc,
		Audit:        recorder,
		AllowOrigins: cfg.Server.AllowOrigins,
	})

	log.Printf("[info] operation=startup listening on :%s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

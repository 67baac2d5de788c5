package main

import (
	"context"
	"errors"
	"time"

	"github.com/joho/godotenv"

	"github.com/yoockh/jobboard/config"
	"github.com/yoockh/jobboard/internal/cache"
	"github.com/yoockh/jobboard/internal/logger"
	"github.com/yoockh/jobboard/internal/notify"
	repomongo "github.com/yoockh/jobboard/internal/repositories/mongo"
	"github.com/yoockh/jobboard/internal/seed"
	"github.com/yoockh/jobboard/internal/services"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	log := logger.New(cfg.LogLevel)
	// seeding never issues tokens
	if err != nil && !errors.Is(err, config.ErrMissingJWTSecret) {
		log.WithError(err).Fatal("config")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	mm := config.NewMongoManager(cfg.MongoURI, cfg.MongoDB)
	mm.OnReady(config.EnsureMongoIndexes)
	db, err := mm.Connect(ctx)
	if err != nil {
		log.WithError(err).Fatal("MongoDB init")
	}
	defer mm.Disconnect(context.Background())

	repos := repomongo.NewSet(db)

	// the API caches reference lists; flush them so the seed shows up at once
	refCache := cache.Cache(cache.Noop{})
	if rdb, err := config.NewRedis(ctx, cfg.RedisAddr); err != nil {
		log.WithError(err).Warn("Redis unavailable, cached lists expire on their own")
	} else if rdb != nil {
		defer rdb.Close()
		refCache = cache.NewRedisCache(rdb, "jobboard")
	}

	svc := services.New(services.Deps{Repos: repos, Cache: refCache, Events: notify.Noop{}})

	f, err := seed.Load(cfg.SeedFile)
	if err != nil {
		log.WithError(err).Fatal("load seed file")
	}
	if _, err := seed.New(svc, log).Apply(ctx, f); err != nil {
		log.WithError(err).Fatal("seed")
	}

	created, err := seed.EnsureAdmin(ctx, repos.Users, cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		log.WithError(err).Fatal("admin")
	}
	if created {
		log.WithField("email", cfg.AdminEmail).Info("admin ready")
	}
}

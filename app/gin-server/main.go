package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/yoockh/jobboard/config"
	"github.com/yoockh/jobboard/internal/api/middleware"
	"github.com/yoockh/jobboard/internal/api/routes"
	"github.com/yoockh/jobboard/internal/auth"
	"github.com/yoockh/jobboard/internal/cache"
	"github.com/yoockh/jobboard/internal/logger"
	"github.com/yoockh/jobboard/internal/notify"
	repomongo "github.com/yoockh/jobboard/internal/repositories/mongo"
	"github.com/yoockh/jobboard/internal/services"
	"github.com/yoockh/jobboard/internal/storage"
	"github.com/yoockh/jobboard/internal/workers"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	log := logger.New(cfg.LogLevel)
	if err != nil {
		log.WithError(err).Fatal("config")
	}

	ctx := context.Background()

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	mm := config.NewMongoManager(cfg.MongoURI, cfg.MongoDB)
	// unique indexes back the one-profile-per-user rules
	mm.OnReady(config.EnsureMongoIndexes)
	db, err := mm.Connect(ctx)
	switch {
	case err == nil:
		log.WithField("db", cfg.MongoDB).Info("MongoDB connected")
	case cfg.Serverless() && mm.Database() != nil:
		log.WithError(err).Error("MongoDB not ready, serving anyway")
		db = mm.Database()
		go func() {
			mm.KeepConnecting(workerCtx, 15*time.Second, func(err error) {
				log.WithError(err).Warn("MongoDB still not ready")
			})
			if mm.Ready() {
				log.WithField("db", cfg.MongoDB).Info("MongoDB connected")
			}
		}()
	default:
		log.WithError(err).Fatal("MongoDB init")
	}

	rdb, err := config.NewRedis(ctx, cfg.RedisAddr)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, cache and live feed disabled")
		rdb = nil
	} else if rdb != nil {
		log.Info("Redis connected")
	}

	var (
		refCache  cache.Cache      = cache.Noop{}
		publisher notify.Publisher = notify.Noop{}
		feed      redis.UniversalClient
	)
	if rdb != nil {
		refCache = cache.NewRedisCache(rdb, "jobboard")
		publisher = notify.NewRedisPublisher(rdb)
		feed = rdb
	}

	store, uploadDir, closeStore := openStore(ctx, cfg, log)
	defer closeStore()

	tokens, err := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiry)
	if err != nil {
		log.WithError(err).Fatal("token manager")
	}

	svc := services.New(services.Deps{
		Repos:  repomongo.NewSet(db),
		Tokens: tokens,
		Cache:  refCache,
		Store:  store,
		Events: publisher,
	})

	expiry := &workers.ExpiryWorker{Jobs: svc.Jobs, Redis: feed, Interval: cfg.ExpiryInterval, Logger: log}
	if err := expiry.Start(workerCtx); err != nil {
		log.WithError(err).Fatal("expiry worker")
	}

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.Env,
		}); err != nil {
			log.WithError(err).Error("sentry init failed")
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.SentryDSN != "" {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	r.Use(middleware.RequestLogger(log))

	routes.RegisterRoutes(r, routes.Deps{
		Services:       svc,
		Tokens:         tokens,
		Redis:          feed,
		UploadDir:      uploadDir,
		CORSOrigins:    cfg.CORSOrigins,
		AuthRatePerMin: cfg.AuthRatePerMin,
		SecureCookies:  cfg.IsProduction(),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.WriteTimeout,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")
	stopWorkers()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server shutdown")
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if err := mm.Disconnect(shutdownCtx); err != nil {
		log.WithError(err).Error("MongoDB disconnect")
	}
}

// openStore picks the file backend. uploadDir is empty when files are not
// served from local disk.
func openStore(ctx context.Context, cfg *config.Config, log *logrus.Logger) (storage.Store, string, func()) {
	if cfg.StorageBackend == "gcs" {
		gcs, err := storage.NewGCSStore(ctx, cfg.GCSBucket)
		if err != nil {
			log.WithError(err).Fatal("GCS init")
		}
		log.WithField("bucket", cfg.GCSBucket).Info("storage: gcs")
		return gcs, "", func() { _ = gcs.Close() }
	}

	local, err := storage.NewLocalStore(cfg.UploadDir, "/uploads")
	if err != nil {
		log.WithError(err).Fatal("upload dir")
	}
	log.WithField("dir", cfg.UploadDir).Info("storage: local")
	return local, cfg.UploadDir, func() {}
}

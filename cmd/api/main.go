package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-plan-engine/internal/adapters/cache"
	adapterHTTP "github.com/comitanigiacomo/kanso-plan-engine/internal/adapters/handler/http"
	"github.com/comitanigiacomo/kanso-plan-engine/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-plan-engine/internal/adapters/scheduler"
	"github.com/comitanigiacomo/kanso-plan-engine/internal/config"
	"github.com/comitanigiacomo/kanso-plan-engine/internal/core/domain"
	"github.com/comitanigiacomo/kanso-plan-engine/internal/core/services"
	"github.com/comitanigiacomo/kanso-plan-engine/internal/core/workers"
	"github.com/comitanigiacomo/kanso-plan-engine/internal/logger"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Critical: %v", err)
	}

	zl, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("Critical: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	gin.SetMode(cfg.Server.Mode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, err := openBackends(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("failed to open storage", zap.Error(err))
	}
	defer b.Close()

	a, err := newApp(ctx, cfg, zl, b)
	if err != nil {
		zl.Fatal("failed to start", zap.Error(err))
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      a.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		zl.Info("plan engine listening", zap.Int("port", cfg.Server.Port), zap.String("storage", cfg.Storage.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("stop signal received, shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("forced shutdown", zap.Error(err))
	}
	if err := a.shutdown(shutdownCtx); err != nil {
		zl.Error("final snapshot flush failed", zap.Error(err))
	}

	zl.Info("server stopped gracefully")
}

// backends holds the external connections picked by configuration. db and
// redis stay nil when nothing needs them.
type backends struct {
	store domain.SnapshotStore
	db    *sqlx.DB
	redis *redis.Client
}

func (b *backends) Close() {
	if b.db != nil {
		_ = b.db.Close()
	}
	if b.redis != nil {
		_ = b.redis.Close()
	}
}

func openBackends(ctx context.Context, cfg *config.Config, zl *zap.Logger) (*backends, error) {
	b := &backends{}

	if cfg.Storage.Driver == config.StorageRedis || cfg.RateLimit.Enabled {
		rdb, err := cache.NewRedisClient(ctx, cfg.Redis)
		switch {
		case err == nil:
			b.redis = rdb
		case cfg.Storage.Driver == config.StorageRedis:
			return nil, err
		default:
			zl.Warn("redis unavailable, rate limiting disabled", zap.Error(err))
		}
	}

	switch cfg.Storage.Driver {
	case config.StorageRedis:
		b.store = repository.NewRedisSnapshotStore(b.redis, cfg.Storage.Key)

	case config.StoragePostgres:
		db, err := sqlx.ConnectContext(ctx, "pgx", cfg.Database.DSN())
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
		b.db = db

		if err := repository.RunMigrations(db.DB, zl); err != nil {
			b.Close()
			return nil, err
		}
		b.store = repository.NewPostgresSnapshotStore(db, cfg.Storage.Key)

	default:
		b.store = repository.NewMemorySnapshotStore()
	}

	return b, nil
}

type app struct {
	router     *gin.Engine
	worker     *workers.SnapshotWorker
	scheduler  *scheduler.Scheduler
	stopWorker context.CancelFunc
}

// newApp restores the last snapshot, then wires the services behind a
// repository that queues a snapshot after every write.
func newApp(ctx context.Context, cfg *config.Config, zl *zap.Logger, b *backends) (*app, error) {
	users := repository.NewInMemoryUserRepository()
	worker := workers.NewSnapshotWorker(users, b.store, zl)

	if err := worker.Restore(ctx); err != nil {
		return nil, fmt.Errorf("restore snapshot: %w", err)
	}
	zl.Info("plans loaded", zap.Int("users", users.Len()))

	workerCtx, stopWorker := context.WithCancel(context.Background())
	worker.Start(workerCtx)

	sched := scheduler.New(worker, cfg.Storage.FlushInterval, zl)
	if err := sched.Start(); err != nil {
		stopWorker()
		return nil, err
	}

	repo := repository.NewNotifyingUserRepository(users, worker)

	planService := services.NewPlanService(repo, zl, services.SystemClock)
	progressService := services.NewProgressService(repo, services.SystemClock)
	exportService := services.NewExportService(repo, zl)
	tokenService := services.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL, repo)

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		UserHandler:     adapterHTTP.NewUserHandler(planService, tokenService),
		PlanHandler:     adapterHTTP.NewPlanHandler(planService),
		ProgressHandler: adapterHTTP.NewProgressHandler(progressService, exportService),
		TokenService:    tokenService,
		Logger:          zl,
		RateLimit:       cfg.RateLimit,
		DB:              b.db,
		Redis:           b.redis,
		StartTime:       time.Now(),
	})

	return &app{
		router:     router,
		worker:     worker,
		scheduler:  sched,
		stopWorker: stopWorker,
	}, nil
}

// shutdown stops background work and writes the final snapshot.
func (a *app) shutdown(ctx context.Context) error {
	a.scheduler.Stop()
	a.stopWorker()
	return a.worker.Flush(ctx)
}

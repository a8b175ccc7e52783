package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MrSnakeDoc/inventory/internal/config"
	"github.com/MrSnakeDoc/inventory/internal/httpserver"
	"github.com/MrSnakeDoc/inventory/internal/httpserver/deps"
	"github.com/MrSnakeDoc/inventory/internal/inventory"
	"github.com/MrSnakeDoc/inventory/internal/logger"
	"github.com/MrSnakeDoc/inventory/internal/redis"
	"github.com/MrSnakeDoc/inventory/internal/scheduler"
	"github.com/MrSnakeDoc/inventory/internal/sources/importfile"
	"github.com/MrSnakeDoc/inventory/internal/store/memory"
	redisstore "github.com/MrSnakeDoc/inventory/internal/store/redis"
	"github.com/MrSnakeDoc/inventory/internal/store/sqlite"
	"github.com/MrSnakeDoc/inventory/internal/version"
)

// backend is a storage backend the app can check and release.
type backend interface {
	inventory.Backend
	deps.StoreStatus
}

type App struct {
	cfg      *config.Config
	logger   logger.Logger
	server   *httpserver.Server
	closer   io.Closer // nil for the memory store
	snapshot *scheduler.SnapshotWriter
	pruner   *scheduler.SnapshotPruner
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Open the store early - fail fast if unavailable
	store, closer, err := openStore(cfg, loggerClient)
	if err != nil {
		loggerClient.Errorf("Failed to open %s store: %v", cfg.Store, err)
		os.Exit(1)
	}
	loggerClient.Info("store initialized", logger.String("store", cfg.Store))

	svc := inventory.NewService(store, loggerClient.With(logger.String("component", "inventory")),
		inventory.WithDueWindow(cfg.DueWindow))

	if cfg.ImportFile != "" {
		if err := seedStore(context.Background(), svc, cfg.ImportFile, loggerClient); err != nil {
			loggerClient.Errorf("Failed to seed from %s: %v", cfg.ImportFile, err)
			os.Exit(1)
		}
	}

	// Snapshots are optional
	var (
		snapshotTrigger chan struct{}
		snapshot        *scheduler.SnapshotWriter
		pruner          *scheduler.SnapshotPruner
	)
	if cfg.SnapshotDir != "" {
		snapshotTrigger = make(chan struct{}, 1)
		snapshotLog := loggerClient.With(logger.String("component", "snapshot"))
		snapshot = scheduler.NewSnapshotWriter(
			svc,
			cfg.SnapshotDir,
			snapshotLog,
			cfg.SnapshotInterval,
			snapshotTrigger,
		)
		pruner = scheduler.NewSnapshotPruner(
			cfg.SnapshotDir,
			snapshotLog,
			cfg.SnapshotInterval,
			cfg.SnapshotRetention,
		)
	} else {
		loggerClient.Info("snapshot dir not configured, snapshots disabled")
	}

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:          loggerClient,
		StartTime:       time.Now(),
		Version:         version.Version,
		Commit:          version.Commit,
		BuildDate:       version.BuildDate,
		GoVersion:       version.GoVersion,
		TimeNow:         time.Now,
		Inventory:       svc,
		Store:           store,
		StoreKind:       cfg.Store,
		MaxImportBytes:  cfg.MaxImportBytes,
		SnapshotTrigger: snapshotTrigger,
		AdminCIDRS:      cfg.AdminCIDRS,
		TrustProxy:      cfg.TrustProxy,
		RateLimitBurst:  cfg.RateLimitBurst,
		RateLimitPerMin: cfg.RateLimitPerMin,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:      cfg,
		logger:   loggerClient,
		server:   server,
		closer:   closer,
		snapshot: snapshot,
		pruner:   pruner,
	}
}

// openStore builds the backend selected by cfg.Store. The closer is nil
// when there is nothing to release.
func openStore(cfg *config.Config, log logger.Logger) (backend, io.Closer, error) {
	switch cfg.Store {
	case config.StoreRedis:
		log.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		client, err := redis.New(redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			RedisDB:        cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, log)
		if err != nil {
			return nil, nil, err
		}
		return redisstore.NewStore(client, cfg.RedisKey), client, nil

	case config.StoreSQLite:
		log.Infof("Opening SQLite database at %s", cfg.SQLitePath)
		s, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil

	default:
		log.Warn("using in-memory store, data is lost on restart")
		return memory.NewStore(), nil, nil
	}
}

// seedStore loads path and imports it when the store is empty.
func seedStore(ctx context.Context, svc *inventory.Service, path string, log logger.Logger) error {
	items, err := importfile.NewLoader(path).Load()
	if err != nil {
		return err
	}
	n, err := svc.Seed(ctx, items)
	if err != nil {
		return err
	}
	log.Info("seed file processed", logger.String("file", path), logger.Int("imported", n))
	return nil
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting inventory v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("inventory %s", version.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.snapshot != nil {
		if err := a.snapshot.Start(ctx); err != nil {
			return fmt.Errorf("failed to start snapshot writer: %w", err)
		}
		if err := a.pruner.Start(ctx); err != nil {
			return fmt.Errorf("failed to start snapshot pruner: %w", err)
		}
		a.logger.Info("snapshot writer started",
			logger.String("dir", a.cfg.SnapshotDir),
			logger.Duration("interval", a.cfg.SnapshotInterval),
			logger.Duration("retention", a.cfg.SnapshotRetention))
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	if a.snapshot != nil {
		a.snapshot.Stop()
		a.pruner.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.closer != nil {
		if err := a.closer.Close(); err != nil {
			a.logger.Warnf("failed to close %s store: %v", a.cfg.Store, err)
		} else {
			a.logger.Infof("✅ %s store closed cleanly", a.cfg.Store)
		}
	}

	a.logger.Info("✅ inventory stopped cleanly")
	_ = a.logger.Sync()
	return nil
}

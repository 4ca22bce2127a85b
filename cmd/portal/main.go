package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/hospital-portal/internal/api/http"
	"github.com/spec-kit/hospital-portal/internal/api/http/handlers"
	"github.com/spec-kit/hospital-portal/internal/apiclient"
	"github.com/spec-kit/hospital-portal/internal/auth"
	"github.com/spec-kit/hospital-portal/internal/config"
	"github.com/spec-kit/hospital-portal/internal/credstore"
	"github.com/spec-kit/hospital-portal/internal/observability"
	"github.com/spec-kit/hospital-portal/internal/persistence"
	"github.com/spec-kit/hospital-portal/internal/service"
	"github.com/spec-kit/hospital-portal/internal/session"
	"github.com/spec-kit/hospital-portal/internal/views"
	"github.com/spec-kit/hospital-portal/internal/worker"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics := observability.NewMetrics()

	backend, closeBackend, err := openBackend(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open credential store", zap.String("store", cfg.Session.Store), zap.Error(err))
	}
	defer closeBackend()

	transport := apiclient.NewLoggingTransport(auth.NewCredentialInjector(nil), logger, metrics)
	client, err := apiclient.New(cfg.API, transport, logger)
	if err != nil {
		logger.Fatal("failed to build api client", zap.Error(err))
	}

	offline, err := offlineOperator(cfg.Auth)
	if err != nil {
		logger.Fatal("failed to configure offline operator", zap.Error(err))
	}
	if offline != nil {
		logger.Warn("offline operator login enabled", zap.String("username", cfg.Auth.OfflineUsername))
	}

	registry := session.NewRegistry(backend, auth.Dependencies{
		Endpoint: auth.NewAPIEndpoint(client),
		Offline:  offline,
		Logger:   logger,
		Metrics:  metrics,
	}, cfg.Session.MaxScopes, cfg.Session.TTL(), logger)

	sweeperDone := startSweeper(ctx, backend, cfg.Session, logger)

	app := fiber.New(fiber.Config{
		AppName: cfg.App.Name,
		Views:   views.Engine(),
	})
	httptransport.RegisterMiddlewares(app, httptransport.MiddlewareConfig{
		Logger:   logger,
		Metrics:  metrics,
		Timeout:  cfg.App.RequestTimeout(),
		Session:  cfg.Session,
		Registry: registry,
	})
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, cfg.Session.Store, backend, metrics),
		Auth: handlers.NewAuthHandler(handlers.AuthHandlerConfig{
			AppName:  cfg.App.Name,
			Offline:  offline != nil,
			Registry: registry,
			Logger:   logger,
		}),
		Banks:       handlers.NewBanksHandler(service.NewBankService(client, logger)),
		Departments: handlers.NewDepartmentsHandler(service.NewDepartmentService(client, logger)),
		Drugs:       handlers.NewDrugsHandler(service.NewDrugService(client, cfg.Cache, logger)),
		Hospitals:   handlers.NewHospitalsHandler(service.NewHospitalService(client, logger)),
		Lpos:        handlers.NewLposHandler(service.NewLpoService(client, cfg.Lpo, logger)),
		Reagents:    handlers.NewReagentsHandler(service.NewReagentService(logger)),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
	cancel()
	<-sweeperDone
}

// openBackend builds the credential backend selected by SESSION_STORE.
func openBackend(ctx context.Context, cfg *config.Config, logger *zap.Logger) (credstore.Backend, func(), error) {
	ttl := cfg.Session.TTL()

	switch cfg.Session.Store {
	case config.StoreRedis:
		redis := persistence.NewRedis(ctx, cfg.Redis, logger)
		return credstore.NewRedisBackend(redis.Client, ttl), redis.Close, nil

	case config.StorePostgres:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, nil, err
		}
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
				pg.Close()
				return nil, nil, err
			}
		}
		return credstore.NewPostgresBackend(pg.PoolHandle(), ttl), pg.Close, nil

	case config.StoreMemory:
		return credstore.NewMemoryBackend(ttl), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown session store %q", cfg.Session.Store)
}

// offlineOperator returns nil when the offline fallback is disabled.
func offlineOperator(cfg config.AuthConfig) (*auth.OfflineOperator, error) {
	if !cfg.OfflineFallback {
		return nil, nil
	}
	tokens, err := auth.NewTokenIssuer(cfg.OfflineTokenSecret, cfg.OfflineTokenTTLMinutes)
	if err != nil {
		return nil, err
	}
	return auth.NewOfflineOperator(cfg.OfflineUsername, cfg.OfflinePassword, tokens, cfg.BcryptCost)
}

// startSweeper purges expired sessions for backends that do not expire them
// on their own.
func startSweeper(ctx context.Context, backend credstore.Backend, cfg config.SessionConfig, logger *zap.Logger) <-chan struct{} {
	purger, _ := backend.(worker.Purger)
	return worker.StartSessionSweeper(ctx, purger, cfg.SweepInterval(), logger)
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}

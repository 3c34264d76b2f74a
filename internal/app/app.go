package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	nats "github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/odonto-agenda/auth-api/config"
	httpadapter "github.com/odonto-agenda/auth-api/internal/adapters/http"
	apiv1 "github.com/odonto-agenda/auth-api/internal/adapters/http/api/v1"
	handlers "github.com/odonto-agenda/auth-api/internal/adapters/http/api/v1/handlers"
	authmw "github.com/odonto-agenda/auth-api/internal/adapters/http/middleware"
	natsadapter "github.com/odonto-agenda/auth-api/internal/adapters/nats"
	repo "github.com/odonto-agenda/auth-api/internal/adapters/postgres"
	"github.com/odonto-agenda/auth-api/internal/adapters/supabase"
	"github.com/odonto-agenda/auth-api/internal/domain"
	"github.com/odonto-agenda/auth-api/internal/metrics"
	"github.com/odonto-agenda/auth-api/internal/usecase"
	pkglog "github.com/odonto-agenda/auth-api/pkg/log"
)

type App struct {
	cfg      *config.Config
	logger   pkglog.Logger
	db       *gorm.DB
	natsConn *nats.Conn
	echo     *echo.Echo
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	logger := pkglog.With(pkglog.New(cfg.AppEnv), pkglog.Fields{"service": cfg.AppName})

	db, err := gorm.Open(postgres.Open(buildDSN(cfg)), &gorm.Config{
		Logger:         loggerForGorm(cfg),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	a := &App{cfg: cfg, logger: logger, db: db}
	if err := db.WithContext(ctx).AutoMigrate(&domain.Profile{}); err != nil {
		a.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	nc, err := nats.Connect(cfg.NATSURL, nats.Name(cfg.AppName), nats.MaxReconnects(-1))
	if err != nil {
		logger.Warn().Err(err).Str("url", cfg.NATSURL).Msg("nats unavailable, events and token verification subject disabled")
	}
	a.natsConn = nc

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewCollector(registry)

	signer, err := usecase.NewJWTSigner(cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	profiles := repo.NewProfileRepository(db)
	identities := supabase.NewHTTPClient(cfg.SupabaseURL, cfg.SupabaseServiceKey, cfg.SupabaseAnonKey, cfg.SupabaseTimeout)
	var events natsadapter.EventPublisher
	if nc != nil {
		events = natsadapter.NewEventPublisher(nc, cfg.NATSUserCreatedSubject)
		if err := natsadapter.NewVerifyHandler(signer).Subscribe(nc, cfg.NATSVerifySubject, cfg.AppName); err != nil {
			logger.Warn().Err(err).Str("subject", cfg.NATSVerifySubject).Msg("token verification subscription failed")
		}
	}

	service := usecase.NewAuthService(cfg, logger, profiles, identities, events, usecase.NewBcryptHasher(cfg.BcryptCost), signer, recorder)
	handler := handlers.NewAuthHandler(service, logger)
	guard := authmw.NewAuthMiddleware(signer, recorder, logger)
	router := httpadapter.NewRouter(cfg, logger, apiv1.NewRouter(handler, guard.Handler), metrics.Handler(registry))

	e := echo.New()
	router.Setup(e)

	a.echo = e
	return a, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = a.echo.Shutdown(shutdownCtx)
	}()
	go func() {
		addr := fmt.Sprintf("%s:%s", a.cfg.HTTPHost, a.cfg.HTTPPort)
		a.logger.Info().Str("addr", addr).Str("env", a.cfg.AppEnv).Msg("http server listening")
		errCh <- a.echo.Start(addr)
	}()
	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (a *App) Close() {
	if a.natsConn != nil {
		_ = a.natsConn.Drain()
	}
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

func buildDSN(cfg *config.Config) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s", cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode)
}

func loggerForGorm(cfg *config.Config) logger.Interface {
	level := logger.Warn
	switch cfg.AppEnv {
	case "local":
		level = logger.Info
	case "test":
		level = logger.Silent
	}
	return logger.Default.LogMode(level)
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Leganyst/dj-booking/internal/config"
	"github.com/Leganyst/dj-booking/internal/db"
	"github.com/Leganyst/dj-booking/internal/grpcserver"
	"github.com/Leganyst/dj-booking/internal/handler"
	"github.com/Leganyst/dj-booking/internal/logger"
	"github.com/Leganyst/dj-booking/internal/middleware"
	"github.com/Leganyst/dj-booking/internal/model"
	"github.com/Leganyst/dj-booking/internal/notify"
	"github.com/Leganyst/dj-booking/internal/repository"
	"github.com/Leganyst/dj-booking/internal/service"
	"github.com/Leganyst/dj-booking/internal/telemetry"
)

const (
	shutdownTimeout     = 15 * time.Second
	healthCheckInterval = 30 * time.Second
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("dj-booking: %v", err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Конфиг из .env и окружения.
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	zlog, err := logger.New(cfg.App.Environment, cfg.App.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = zlog.Sync() }()

	loc, err := cfg.App.Location()
	if err != nil {
		return fmt.Errorf("load timezone %q: %w", cfg.App.TimeZone, err)
	}

	// 2. Трейсинг.
	tel, err := telemetry.Init(ctx, telemetry.Config{
		Enabled:        cfg.OTel.Enabled,
		ServiceName:    cfg.OTel.ServiceName,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		CollectorAddr:  cfg.OTel.CollectorAddr,
	})
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := tel.Shutdown(sctx); err != nil {
			zlog.Warn("telemetry shutdown", zap.Error(err))
		}
	}()
	tracer := tel.Tracer()

	// 3. БД, миграции, стартовый каталог услуг.
	gormDB, err := db.NewGormDB(&cfg.Database)
	if err != nil {
		return fmt.Errorf("init db: %w", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return fmt.Errorf("sql DB: %w", err)
	}
	defer sqlDB.Close()

	if err := model.AutoMigrate(gormDB); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	if cfg.Seed.Services {
		n, err := model.SeedServices(gormDB)
		if err != nil {
			return err
		}
		if n > 0 {
			zlog.Info("service catalogue seeded", zap.Int("count", n))
		}
	}

	store := repository.NewGormStore(gormDB)

	// 4. Уведомления.
	dispatcher := notify.NewDispatcher(
		notify.NewEmailSender(cfg.Mail, zlog),
		notify.NewSMSSender(cfg.SMS),
		store.Repos().Notifications,
		notify.Config{
			From:           cfg.Mail.DefaultSender,
			BookingEmail:   cfg.Notify.BookingEmail,
			BusinessPhone:  cfg.Notify.BusinessPhone,
			Website:        cfg.Notify.BusinessWebsite,
			Timeout:        cfg.Notify.Timeout,
			NotifyOnReject: cfg.Notify.NotifyOnReject,
			Location:       loc,
		},
		zlog,
		tracer,
	)

	// 5. Сервисы.
	bookingSvc := service.NewBookingService(store, dispatcher, zlog, service.Options{
		Location: loc,
		Tracer:   tracer,
	})
	h := handler.New(handler.Deps{
		Bookings:     bookingSvc,
		Availability: service.NewAvailabilityChecker(store, tracer),
		Contact:      service.NewContactService(dispatcher, zlog),
		Catalog:      service.NewCatalogService(store, zlog),
		Gigs:         service.NewGigService(store, zlog),
		Store:        store,
		ServiceName:  cfg.App.Name,
	}, zlog)

	// 6. HTTP.
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		telemetry.TracingMiddleware(tracer),
		middleware.Logger(zlog),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)
	h.Register(router)

	zlog.Warn("admin endpoints /bookings are not protected by authentication")

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 2)
	go func() {
		zlog.Info("http server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http serve: %w", err)
		}
	}()

	// 7. Служебный gRPC (health + reflection).
	var grpcSrv *grpcserver.Server
	if cfg.GRPC.Port > 0 {
		addr := fmt.Sprintf(":%d", cfg.GRPC.Port)
		lis, err := net.Listen("tcp", addr)
		if err != nil {
			return fmt.Errorf("listen %s: %w", addr, err)
		}
		grpcSrv = grpcserver.New(store, zlog)
		go grpcSrv.Watch(ctx, healthCheckInterval)
		go func() {
			zlog.Info("grpc server listening", zap.String("addr", addr))
			if err := grpcSrv.Serve(lis); err != nil {
				errCh <- err
			}
		}()
	}

	// 8. Ждём сигнал или падение сервера.
	select {
	case <-ctx.Done():
		zlog.Info("shutting down")
	case err := <-errCh:
		zlog.Error("server failed", zap.Error(err))
		stop()
	}

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(sctx); err != nil {
		zlog.Warn("http shutdown", zap.Error(err))
	}
	if grpcSrv != nil {
		grpcSrv.GracefulStop()
	}
	return nil
}

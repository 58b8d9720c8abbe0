package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/nucleus-hris/nucleus-backend-go/internal/config"
	"github.com/nucleus-hris/nucleus-backend-go/internal/domain/attendance"
	appHTTP "github.com/nucleus-hris/nucleus-backend-go/internal/handler/http"
	"github.com/nucleus-hris/nucleus-backend-go/internal/pkg/cron"
	"github.com/nucleus-hris/nucleus-backend-go/internal/pkg/database"
	"github.com/nucleus-hris/nucleus-backend-go/internal/pkg/jwt"
	"github.com/nucleus-hris/nucleus-backend-go/internal/pkg/sse"
	"github.com/nucleus-hris/nucleus-backend-go/internal/pkg/timemath"
	"github.com/nucleus-hris/nucleus-backend-go/internal/repository/postgresql"
	redisRepo "github.com/nucleus-hris/nucleus-backend-go/internal/repository/redis"
	attendanceService "github.com/nucleus-hris/nucleus-backend-go/internal/service/attendance"
	regularizationService "github.com/nucleus-hris/nucleus-backend-go/internal/service/regularization"
	"github.com/nucleus-hris/nucleus-backend-go/internal/session"
)

const version = "v1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.App.LogLevel),
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolConfig{
		MaxConns: int32(cfg.Database.MaxConns),
		MinConns: int32(cfg.Database.MinConns),
	})
	if err != nil {
		slog.Error("Error connecting to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	sessions, closeSessions, err := newSessionRegistry(ctx, cfg)
	if err != nil {
		slog.Error("Error initializing session store", "store", cfg.Session.Store, "error", err)
		os.Exit(1)
	}
	defer closeSessions()

	shiftRepo := postgresql.NewShiftRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	regularizationRepo := postgresql.NewRegularizationRepository(db)
	txManager := postgresql.NewTxManager(db)

	clock := timemath.SystemClock()
	hub := sse.NewHub()
	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	engine := attendanceService.NewEngine(shiftRepo, attendanceRepo, sessions, hub, clock, attendanceService.EngineConfig{
		FixedOffsetMinutes: cfg.Attendance.FixedOffsetMinutes,
		Medium:             cfg.Attendance.Medium,
	})
	queryService := attendanceService.NewQueryService(attendanceRepo)
	regularizationSvc := regularizationService.NewRegularizationService(txManager, regularizationRepo, attendanceRepo)

	realtimeHandler := appHTTP.NewRealtimeHandler(engine, hub, JWTService)
	attendanceHandler := appHTTP.NewAttendanceHandler(queryService)
	regularizationHandler := appHTTP.NewRegularizationHandler(regularizationSvc)

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			Env:            cfg.App.Env,
			Version:        version,
		},
		JWTService,
		realtimeHandler,
		attendanceHandler,
		regularizationHandler,
	)

	scheduler := cron.NewScheduler(ctx)
	if cfg.Attendance.AutoClose {
		cron.NewAttendanceJobs(attendanceRepo, clock, cfg.Attendance.FixedOffsetMinutes).RegisterJobs(scheduler)
		scheduler.Start()
		slog.Info("Scheduler started", "jobs", scheduler.Jobs())
	}
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server starting", "addr", server.Addr, "env", cfg.App.Env, "session_store", cfg.Session.Store)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			slog.Error("Server failed", "error", err)
		}
	case <-ctx.Done():
		slog.Info("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
}

func newSessionRegistry(ctx context.Context, cfg *config.Config) (attendance.SessionRegistry, func(), error) {
	if cfg.Session.Store != config.SessionStoreRedis {
		return session.NewMemoryRegistry(), func() {}, nil
	}

	client, err := redisRepo.NewClient(ctx, cfg.RedisAddr(), cfg.Session.RedisPassword, cfg.Session.RedisDB)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := client.Close(); err != nil {
			slog.Error("Failed to close redis client", "error", err)
		}
	}
	return redisRepo.NewSessionRegistry(client, cfg.Session.RedisKey, cfg.Session.TTL), closeFn, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

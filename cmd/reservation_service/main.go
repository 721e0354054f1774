package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"reservation_service/internal/config"
	emailsender "reservation_service/internal/email_sender"
	createreservation "reservation_service/internal/http-server/handlers/create_reservation"
	"reservation_service/internal/lib/logger/sl"
	"reservation_service/internal/services/reservation"
	"reservation_service/internal/storage/postgres"
	"reservation_service/internal/storage/redis"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()
	log := setupLogger(cfg.Env)

	if err := run(ctx, cfg, log); err != nil {
		log.Error("reservation service stopped with error", sl.Err(err))
		os.Exit(1)
	}

	log.Info("reservation service gracefully stopped")
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	log.Info("starting reservation service", slog.String("env", cfg.Env))

	startCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// * Postgres
	postgresRepo, err := postgres.Connect(startCtx, cfg)
	if err != nil {
		log.Error("failed to connect to postgres", sl.Err(err))
		return err
	}
	defer postgresRepo.Close()

	// * Redis (журнал неотправленных писем, опционально)
	var ledger reservation.FailureLedger
	if cfg.Redis.Address != "" {
		redisRepo, err := redis.New(startCtx, cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Error("failed to connect to redis", sl.Err(err))
			return err
		}
		defer redisRepo.Close()

		ledger = redisRepo
	} else {
		log.Warn("redis address is empty, unnotified reservations will only be logged")
	}

	// * Email
	mailer := emailsender.New(cfg.Email.Host, cfg.Email.Port, cfg.Email.Username, cfg.Email.APIKey)

	reservationService := reservation.New(log, postgresRepo, mailer, ledger, cfg.Email.From, cfg.Email.Owner)

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      newRouter(log, reservationService),
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	serveErr := make(chan error, 1)

	go func() {
		log.Info("HTTP server starting", slog.String("addr", cfg.HTTPServer.Address))

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down HTTP server...")
	case err := <-serveErr:
		if err != nil {
			log.Error("server failed", sl.Err(err))
			return err
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTPServer.Timeout)
	defer shutdownCancel()

	return srv.Shutdown(shutdownCtx)
}

func newRouter(log *slog.Logger, creator createreservation.ReservationCreator) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// метод проверяет сам хендлер, чтобы вернуть JSON-ошибку
	r.HandleFunc("/api/reservation", createreservation.New(log, creator))

	return r
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}

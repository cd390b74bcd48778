package userhub

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/user-hub/internal/cache"
	"github.com/magabrotheeeer/user-hub/internal/config"
	"github.com/magabrotheeeer/user-hub/internal/lib/session"
	"github.com/magabrotheeeer/user-hub/internal/migrations"
	"github.com/magabrotheeeer/user-hub/internal/rabbitmq"
	userservice "github.com/magabrotheeeer/user-hub/internal/services/user"
	"github.com/magabrotheeeer/user-hub/internal/storage"
)

const (
	rabbitMaxRetries = 5
	rabbitRetryDelay = 2 * time.Second
)

// App — HTTP-приложение со всеми зависимостями.
type App struct {
	server     *http.Server
	logger     *slog.Logger
	db         *storage.Storage
	rabbitConn *amqp.Connection
	rabbitCh   *amqp.Channel
}

// New собирает приложение: хранилище, миграции, кэш, очередь уведомлений,
// бизнес-логику и маршруты. Все зависимости передаются явно.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	rabbitConn, err := rabbitmq.Connect(cfg.RabbitConnection, rabbitMaxRetries, rabbitRetryDelay)
	if err != nil {
		return nil, err
	}
	rabbitCh, err := rabbitmq.SetupChannel(rabbitConn, []rabbitmq.QueueConfig{rabbitmq.WelcomeQueue})
	if err != nil {
		rabbitConn.Close()
		return nil, err
	}

	sessionMaker := session.NewMaker(cfg.SessionToken.SecretKey, cfg.SessionToken.TokenTTL)
	welcomePublisher := rabbitmq.NewWelcomePublisher(rabbitCh)
	userService := userservice.NewUserService(db, sessionMaker, cacheRedis, welcomePublisher, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, userService, cfg.SessionToken.TokenTTL)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:     srv,
		logger:     logger,
		db:         db,
		rabbitConn: rabbitConn,
		rabbitCh:   rabbitCh,
	}, nil
}

// Run запускает HTTP-сервер и ждёт отмены контекста для мягкой остановки.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if cerr := a.rabbitCh.Close(); cerr != nil {
			a.logger.Error("failed to close channel", slog.Any("err", cerr))
		}
		if cerr := a.rabbitConn.Close(); cerr != nil {
			a.logger.Error("failed to close connection", slog.Any("err", cerr))
		}
		a.db.DB.Close()
		return err
	}
}

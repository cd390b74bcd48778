// Package userhub предоставляет маршруты для основного приложения.
package userhub

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/magabrotheeeer/user-hub/internal/http/handlers/user/find"
	"github.com/magabrotheeeer/user-hub/internal/http/handlers/user/health"
	"github.com/magabrotheeeer/user-hub/internal/http/handlers/user/list"
	"github.com/magabrotheeeer/user-hub/internal/http/handlers/user/login"
	"github.com/magabrotheeeer/user-hub/internal/http/handlers/user/logout"
	"github.com/magabrotheeeer/user-hub/internal/http/handlers/user/register"
	"github.com/magabrotheeeer/user-hub/internal/http/handlers/user/remove"
	"github.com/magabrotheeeer/user-hub/internal/http/handlers/user/update"
	"github.com/magabrotheeeer/user-hub/internal/http/middlewarectx"
	userservice "github.com/magabrotheeeer/user-hub/internal/services/user"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, userService *userservice.UserService, tokenTTL time.Duration) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/user", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/reg", register.New(logger, userService).ServeHTTP)
		r.Post("/login", login.New(logger, userService, tokenTTL).ServeHTTP)
		r.Get("/logout", logout.New(logger).ServeHTTP)

		// Группа с сессионной аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.SessionMiddleware(userService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Get("/list", list.New(logger, userService).ServeHTTP)
			r.Get("/find", find.New(logger, userService).ServeHTTP)
			r.Post("/del", remove.New(logger, userService).ServeHTTP)
			r.Post("/update", update.New(logger, userService).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/health", health.New())
}

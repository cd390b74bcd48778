// Package list реализует HTTP-обработчик списка пользователей.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/user-hub/internal/http/middlewarectx"
	"github.com/magabrotheeeer/user-hub/internal/http/response"
	"github.com/magabrotheeeer/user-hub/internal/lib/sl"
	"github.com/magabrotheeeer/user-hub/internal/models"
)

// Service описывает интерфейс бизнес-логики списка пользователей.
type Service interface {
	List(ctx context.Context) ([]models.UserSummary, error)
}

// Handler обрабатывает HTTP-запросы списка пользователей.
type Handler struct {
	log         *slog.Logger
	userService Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, userService Service) *Handler {
	return &Handler{log: log, userService: userService}
}

// ServeHTTP возвращает всех пользователей. Доступно только admin;
// причина отказа (чужая роль или чужая сессия) наружу не раскрывается.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	role, _ := r.Context().Value(middlewarectx.Role).(string)
	if role != models.RoleAdmin {
		log.Error("caller is not admin")
		render.JSON(w, r, response.Error(response.CodeForbidden, "without permission"))
		return
	}

	users, err := h.userService.List(r.Context())
	if err != nil {
		log.Error("failed to list users", sl.Err(err))
		render.JSON(w, r, response.Error(response.CodeInternal, "internal server error"))
		return
	}

	render.JSON(w, r, response.OK(users))
}

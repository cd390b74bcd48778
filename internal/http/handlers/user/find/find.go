// Package find реализует HTTP-обработчик чтения собственной учётной записи.
package find

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/user-hub/internal/http/middlewarectx"
	"github.com/magabrotheeeer/user-hub/internal/http/response"
	"github.com/magabrotheeeer/user-hub/internal/lib/sl"
	"github.com/magabrotheeeer/user-hub/internal/models"
	userservice "github.com/magabrotheeeer/user-hub/internal/services/user"
)

// Service описывает интерфейс бизнес-логики чтения пользователя.
type Service interface {
	FindByUID(ctx context.Context, userUID string) (*models.UserSummary, error)
}

// Handler обрабатывает HTTP-запросы чтения учётной записи.
type Handler struct {
	log         *slog.Logger
	userService Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, userService Service) *Handler {
	return &Handler{log: log, userService: userService}
}

// ServeHTTP возвращает учётную запись по id из query-параметра.
// Разрешено только чтение собственной записи: несовпадение id с uid
// вызывающего — отказ 402 независимо от существования цели.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.find"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	requestedID := r.URL.Query().Get("id")
	callerUID, _ := r.Context().Value(middlewarectx.UserUID).(string)
	if requestedID == "" || requestedID != callerUID {
		log.Error("caller requested foreign account",
			slog.String("requested_id", requestedID))
		render.JSON(w, r, response.Error(response.CodeForbidden, "without permission"))
		return
	}

	summary, err := h.userService.FindByUID(r.Context(), requestedID)
	switch {
	case errors.Is(err, userservice.ErrUserNotFound):
		log.Error("user not found", slog.String("uid", requestedID))
		render.JSON(w, r, response.Error(response.CodeNotFound, "user does not exist"))
		return
	case err != nil:
		log.Error("failed to find user", sl.Err(err))
		render.JSON(w, r, response.Error(response.CodeInternal, "internal server error"))
		return
	}

	render.JSON(w, r, response.OK(summary))
}

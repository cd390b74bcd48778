// Package update реализует HTTP-обработчик частичного обновления
// собственной учётной записи.
package update

import (
	"context"
	"encoding/json"
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

// Request — входные данные частичного обновления. Указатели различают
// отсутствующее поле (nil, не трогать) и присутствующее пустое
// (указатель на "", явное затирание).
type Request struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
}

// Service описывает интерфейс бизнес-логики обновления пользователя.
type Service interface {
	Update(ctx context.Context, userUID string, username, email *string) (*models.UserSummary, error)
}

// Handler обрабатывает HTTP-запросы обновления.
type Handler struct {
	log         *slog.Logger
	userService Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, userService Service) *Handler {
	return &Handler{log: log, userService: userService}
}

// ServeHTTP обновляет учётную запись вызывающего. Цель операции всегда
// берётся из сессии: обновить чужую запись через этот обработчик нельзя.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	callerUID, _ := r.Context().Value(middlewarectx.UserUID).(string)
	if callerUID == "" {
		log.Error("user identification missing")
		render.JSON(w, r, response.Error(response.CodeForbidden, "without permission"))
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.JSON(w, r, response.Error(response.CodeMissingField, "invalid request body"))
		return
	}

	summary, err := h.userService.Update(r.Context(), callerUID, req.Username, req.Email)
	switch {
	case errors.Is(err, userservice.ErrEmailTaken):
		log.Error("email already registered")
		render.JSON(w, r, response.Error(response.CodeDuplicateEmail, "email already registered"))
		return
	case errors.Is(err, userservice.ErrUserNotFound):
		log.Error("user not found", slog.String("uid", callerUID))
		render.JSON(w, r, response.Error(response.CodeNotFound, "user does not exist"))
		return
	case err != nil:
		log.Error("failed to update user", sl.Err(err))
		render.JSON(w, r, response.Error(response.CodeInternal, "internal server error"))
		return
	}

	log.Info("user updated", slog.String("uid", callerUID))
	render.JSON(w, r, response.OK(summary))
}

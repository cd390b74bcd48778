// Package remove реализует HTTP-обработчик удаления учётной записи.
package remove

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/user-hub/internal/http/middlewarectx"
	"github.com/magabrotheeeer/user-hub/internal/http/response"
	"github.com/magabrotheeeer/user-hub/internal/lib/sl"
	"github.com/magabrotheeeer/user-hub/internal/models"
)

// Request — входные данные для удаления пользователя.
type Request struct {
	ID string `json:"id" validate:"required"`
}

// Service описывает интерфейс бизнес-логики удаления пользователя.
type Service interface {
	Delete(ctx context.Context, userUID string) (int64, error)
}

// Handler обрабатывает HTTP-запросы удаления.
type Handler struct {
	log         *slog.Logger
	userService Service
	validate    *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, userService Service) *Handler {
	return &Handler{
		log:         log,
		userService: userService,
		validate:    validator.New(),
	}
}

// ServeHTTP удаляет пользователя по id. Доступно только admin.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.remove"

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

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.JSON(w, r, response.Error(response.CodeMissingField, "invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	deleted, err := h.userService.Delete(r.Context(), req.ID)
	if err != nil {
		log.Error("failed to delete user", sl.Err(err))
		render.JSON(w, r, response.Error(response.CodeInternal, "internal server error"))
		return
	}

	log.Info("user deleted", slog.String("uid", req.ID), slog.Int64("count", deleted))
	render.JSON(w, r, response.OK(map[string]int64{"deleted": deleted}))
}

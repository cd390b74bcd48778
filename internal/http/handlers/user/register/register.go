// Package register реализует HTTP-обработчик регистрации пользователей.
package register

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/user-hub/internal/http/response"
	"github.com/magabrotheeeer/user-hub/internal/lib/sl"
	"github.com/magabrotheeeer/user-hub/internal/models"
	userservice "github.com/magabrotheeeer/user-hub/internal/services/user"
)

// Request — входные данные для регистрации. Username опционален.
type Request struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	Username string `json:"username"`
}

// Service описывает интерфейс бизнес-логики регистрации.
type Service interface {
	Register(ctx context.Context, email, password, username string) (*models.UserSummary, error)
}

// Handler обрабатывает HTTP-запросы регистрации.
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

// ServeHTTP регистрирует нового пользователя с ролью member.
// Приветственное письмо уходит асинхронно и на ответ не влияет.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.register"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

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

	summary, err := h.userService.Register(r.Context(), req.Email, req.Password, req.Username)
	switch {
	case errors.Is(err, userservice.ErrEmailTaken):
		log.Error("email already registered", slog.String("email", req.Email))
		render.JSON(w, r, response.Error(response.CodeDuplicateEmail, "email already registered"))
		return
	case err != nil:
		log.Error("registration failed", sl.Err(err))
		render.JSON(w, r, response.Error(response.CodeInternal, "internal server error"))
		return
	}

	log.Info("user registered", slog.String("uid", summary.UID))
	render.JSON(w, r, response.OK(summary))
}

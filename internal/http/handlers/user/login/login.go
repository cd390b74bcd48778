// Package login реализует HTTP-обработчик для запросов аутентификации пользователей.
//
// В нём определяется структура Request для входных данных, выполняется декодирование JSON,
// проверка и валидация полей, а также делегирование операции входа сервису пользователей.
// При успешной аутентификации выставляются две сессионные cookie (подписанный токен
// и uid) и возвращается публичное представление пользователя;
// в случае ошибок формируется оболочка с кодом из таксономии.
package login

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/user-hub/internal/http/response"
	"github.com/magabrotheeeer/user-hub/internal/http/sessioncookie"
	"github.com/magabrotheeeer/user-hub/internal/lib/sl"
	"github.com/magabrotheeeer/user-hub/internal/models"
	userservice "github.com/magabrotheeeer/user-hub/internal/services/user"
)

// Request — структура входных данных для входа.
type Request struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Service описывает интерфейс бизнес-логики входа.
type Service interface {
	Login(ctx context.Context, email, password string) (string, *models.UserSummary, error)
}

// Handler обрабатывает HTTP-запросы для входа.
type Handler struct {
	log         *slog.Logger        // Логгер для записи операций и ошибок
	userService Service             // Сервис пользователей
	validate    *validator.Validate // Валидатор для проверки входных данных
	tokenTTL    time.Duration       // Срок жизни сессионных cookie
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, userService Service, tokenTTL time.Duration) *Handler {
	return &Handler{
		log:         log,
		userService: userService,
		validate:    validator.New(),
		tokenTTL:    tokenTTL,
	}
}

// ServeHTTP аутентифицирует пользователя по email и паролю.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.login"

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

	token, summary, err := h.userService.Login(r.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, userservice.ErrUserNotFound):
		log.Error("user not found", slog.String("email", req.Email))
		render.JSON(w, r, response.Error(response.CodeNotFound, "user does not exist"))
		return
	case errors.Is(err, userservice.ErrInvalidCredentials):
		log.Error("invalid password", slog.String("email", req.Email))
		render.JSON(w, r, response.Error(response.CodeInvalidCredentials, "invalid password"))
		return
	case err != nil:
		log.Error("login failed", sl.Err(err))
		render.JSON(w, r, response.Error(response.CodeInternal, "internal server error"))
		return
	}

	sessioncookie.Set(w, token, summary.UID, h.tokenTTL)

	log.Info("login success", slog.String("email", req.Email))
	render.JSON(w, r, response.OK(summary))
}

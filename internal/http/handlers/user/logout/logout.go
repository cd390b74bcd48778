// Package logout реализует HTTP-обработчик выхода из системы.
package logout

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/user-hub/internal/http/response"
	"github.com/magabrotheeeer/user-hub/internal/http/sessioncookie"
)

// Handler обрабатывает HTTP-запросы выхода.
type Handler struct {
	log *slog.Logger
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

// ServeHTTP безусловно гасит обе сессионные cookie. Проверки аутентификации
// нет: выход идемпотентен и разрешён всегда.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.logout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	sessioncookie.Clear(w)

	log.Info("session cookies cleared")
	render.JSON(w, r, response.OK("ok"))
}

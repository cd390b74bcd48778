// Package sessioncookie управляет парой сессионных cookie: подписанным
// токеном и открытым идентификатором пользователя. Обе cookie недоступны
// скриптам (HttpOnly) и живут столько же, сколько сам токен.
package sessioncookie

import (
	"net/http"
	"time"
)

// Имена сессионных cookie.
const (
	// TokenCookie — подписанный сессионный токен.
	TokenCookie = "userhub_token"
	// UIDCookie — идентификатор пользователя в открытом виде.
	UIDCookie = "userhub_uid"
)

// Set выставляет обе сессионные cookie со сроком жизни ttl.
func Set(w http.ResponseWriter, token, userUID string, ttl time.Duration) {
	expires := time.Now().Add(ttl)
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     UIDCookie,
		Value:    userUID,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
	})
}

// Clear безусловно гасит обе сессионные cookie.
// Сервер не хранит сессий, поэтому выход — это только очистка клиента.
func Clear(w http.ResponseWriter) {
	for _, name := range []string{TokenCookie, UIDCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			Expires:  time.Unix(0, 0),
			MaxAge:   -1,
			HttpOnly: true,
		})
	}
}

// Package models содержит доменную модель пользователя системы,
// включающую данные учётной записи, хэш пароля с солью и метки времени.
// Структуры используются в бизнес‑логике и при работе с хранилищем.
package models

import "time"

// Роли пользователей системы.
const (
	// RoleMember — роль по умолчанию при регистрации.
	RoleMember = "member"
	// RoleAdmin — роль с правом просматривать и удалять чужие учётные записи.
	RoleAdmin = "admin"
)

// User представляет зарегистрированного пользователя системы.
type User struct {
	UID          string    // Уникальный идентификатор пользователя
	Email        string    // Электронная почта (уникальная)
	Username     string    // Отображаемое имя пользователя (опционально)
	PasswordHash string    // Хэш пароля, derive(password, salt)
	PassSalt     string    // Соль пароля, генерируется один раз при регистрации
	Role         string    // Роль пользователя, member или admin
	AddTime      time.Time // Время создания учётной записи
	UpTime       time.Time // Время последнего изменения
}

// UserSummary — публичное представление пользователя без секретов.
// Возвращается наружу из всех операций контроллера.
type UserSummary struct {
	UID      string    `json:"uid"`
	Email    string    `json:"email"`
	Username string    `json:"username,omitempty"`
	Role     string    `json:"role"`
	AddTime  time.Time `json:"add_time"`
	UpTime   time.Time `json:"up_time"`
}

// Summary возвращает публичное представление пользователя.
// Хэш пароля и соль наружу не отдаются никогда.
func (u *User) Summary() UserSummary {
	return UserSummary{
		UID:      u.UID,
		Email:    u.Email,
		Username: u.Username,
		Role:     u.Role,
		AddTime:  u.AddTime,
		UpTime:   u.UpTime,
	}
}

// WelcomeMessage — сообщение для очереди приветственных уведомлений,
// публикуется при успешной регистрации.
type WelcomeMessage struct {
	Email    string `json:"email"`
	Username string `json:"username,omitempty"`
}

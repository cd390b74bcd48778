// Package password реализует функции для безопасного хеширования и проверки паролей.
//
// Derive детерминированно выводит хэш из пароля и индивидуальной соли пользователя.
// Verify сравнивает сохранённый хэш с хэшем введённого пароля за константное время.
package password

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"github.com/google/uuid"
	"golang.org/x/crypto/pbkdf2"
)

const (
	iterations = 4096
	keyLength  = 32
)

// NewSalt возвращает новую случайную соль для пользователя.
// Соль генерируется один раз при регистрации и никогда не меняется.
func NewSalt() string {
	return uuid.NewString()
}

// Derive выводит hex‑хэш пароля с указанной солью (PBKDF2‑SHA256).
//
// Функция детерминированная: используется и при регистрации для получения
// сохраняемого хэша, и при логине для повторного вычисления и сравнения.
func Derive(rawPassword, salt string) string {
	key := pbkdf2.Key([]byte(rawPassword), []byte(salt), iterations, keyLength, sha256.New)
	return hex.EncodeToString(key)
}

// Verify проверяет, что хэш введённого пароля совпадает с сохранённым.
// Сравнение выполняется за константное время, чтобы не раскрывать
// степень совпадения по длительности ответа.
func Verify(storedHash, rawPassword, salt string) bool {
	derived := Derive(rawPassword, salt)
	return subtle.ConstantTimeCompare([]byte(storedHash), []byte(derived)) == 1
}

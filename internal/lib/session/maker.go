// Package session реализует выпуск и проверку подписанных сессионных токенов.
//
// Maker определяет интерфейс для создания и проверки JWT с идентификатором
// пользователя. MakerImpl — конкретная реализация с общим для процесса
// секретным ключом и сроком жизни токена. Сервер не хранит таблицу сессий:
// токен самодостаточен, досрочный отзыв невозможен, а "выход" сводится
// к удалению токена на стороне клиента.
package session

import (
	"time"
)

// Maker описывает интерфейс для выпуска и парсинга сессионных токенов.
type Maker interface {
	// IssueToken создает подписанный токен с идентификатором пользователя.
	IssueToken(userUID string) (string, error)
	// ParseToken проверяет подпись и срок действия токена и возвращает claims.
	// Любая ошибка проверки означает "не аутентифицирован", не ошибку сервера.
	ParseToken(tokenStr string) (*Claims, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и времени жизни токена (TTL).
//
// Ключ подписи — отдельный секрет процесса, не связанный с солью пароля:
// ротация соли не должна обесценивать выданные сессии.
type MakerImpl struct {
	secretKey string        // Секретный ключ для подписи токенов.
	tokenTTL  time.Duration // Время жизни токена.
}

// NewMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
func NewMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}

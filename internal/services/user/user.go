// Package services содержит логику бизнес-уровня для работы с учётными
// записями пользователей: регистрация, вход, чтение, обновление и удаление.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/user-hub/internal/lib/password"
	"github.com/magabrotheeeer/user-hub/internal/lib/session"
	"github.com/magabrotheeeer/user-hub/internal/lib/sl"
	"github.com/magabrotheeeer/user-hub/internal/metrics"
	"github.com/magabrotheeeer/user-hub/internal/models"
	"github.com/magabrotheeeer/user-hub/internal/storage"
)

// Ошибки бизнес-уровня. Обработчики переводят их в коды оболочки ответа.
var (
	// ErrUserNotFound — пользователь с таким email или uid не существует.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken — email уже зарегистрирован.
	ErrEmailTaken = errors.New("email already taken")
	// ErrInvalidCredentials — пароль не подошёл.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

const summaryCacheTTL = 5 * time.Minute

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByUID(ctx context.Context, userUID string) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	DeleteUser(ctx context.Context, userUID string) (int64, error)
	UpdateUser(ctx context.Context, userUID string, username, email *string) (*models.User, error)
}

// SummaryCache описывает кэш публичных данных пользователя.
type SummaryCache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// WelcomePublisher публикует приветственное уведомление новому пользователю.
type WelcomePublisher interface {
	PublishWelcome(msg models.WelcomeMessage) error
}

// UserService отвечает за регистрацию, вход и CRUD учётных записей.
type UserService struct {
	users     UserRepository
	sessions  session.Maker
	cache     SummaryCache
	publisher WelcomePublisher
	log       *slog.Logger
}

// NewUserService создает новый экземпляр UserService.
// publisher может быть nil: тогда приветственные письма не отправляются.
func NewUserService(users UserRepository, sessions session.Maker, cache SummaryCache,
	publisher WelcomePublisher, log *slog.Logger) *UserService {
	return &UserService{
		users:     users,
		sessions:  sessions,
		cache:     cache,
		publisher: publisher,
		log:       log,
	}
}

// Register создает нового пользователя: генерирует свежую соль, выводит хэш
// пароля и сохраняет запись с ролью member. Приветственное письмо уходит
// асинхронно, его судьба на результат регистрации не влияет.
func (s *UserService) Register(ctx context.Context, email, rawPassword, username string) (*models.UserSummary, error) {
	const op = "services.user.Register"

	salt := password.NewSalt()
	user := models.User{
		Email:        email,
		Username:     username,
		PasswordHash: password.Derive(rawPassword, salt),
		PassSalt:     salt,
		Role:         models.RoleMember,
	}

	created, err := s.users.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, storage.ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	metrics.RegistrationsTotal.Inc()

	if s.publisher != nil {
		go func() {
			msg := models.WelcomeMessage{Email: created.Email, Username: created.Username}
			if err := s.publisher.PublishWelcome(msg); err != nil {
				s.log.Error("failed to publish welcome message", sl.Err(err))
			}
		}()
	}

	summary := created.Summary()
	return &summary, nil
}

// Login проверяет пароль пользователя и выпускает сессионный токен.
// Хэш пересчитывается с сохранённой солью; в открытом виде пароль
// нигде не сравнивается и не хранится.
func (s *UserService) Login(ctx context.Context, email, rawPassword string) (string, *models.UserSummary, error) {
	const op = "services.user.Login"

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			metrics.LoginsTotal.WithLabelValues("not_found").Inc()
			return "", nil, ErrUserNotFound
		}
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}

	if !password.Verify(user.PasswordHash, rawPassword, user.PassSalt) {
		metrics.LoginsTotal.WithLabelValues("invalid_password").Inc()
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.sessions.IssueToken(user.UID)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()

	summary := user.Summary()
	return token, &summary, nil
}

// ValidateSession проверяет сессионный токен и возвращает пользователя.
// Любая ошибка означает "не аутентифицирован".
func (s *UserService) ValidateSession(ctx context.Context, tokenStr string) (*models.User, error) {
	claims, err := s.sessions.ParseToken(tokenStr)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetUserByUID(ctx, claims.UserUID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// List возвращает публичные представления всех пользователей.
func (s *UserService) List(ctx context.Context) ([]models.UserSummary, error) {
	const op = "services.user.List"

	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	result := make([]models.UserSummary, 0, len(users))
	for _, u := range users {
		result = append(result, u.Summary())
	}
	return result, nil
}

// FindByUID возвращает публичное представление пользователя, читая
// сквозь кэш: попадание отдаётся из Redis, промах — из базы с записью в кэш.
func (s *UserService) FindByUID(ctx context.Context, userUID string) (*models.UserSummary, error) {
	const op = "services.user.FindByUID"

	if s.cache != nil {
		var cached models.UserSummary
		found, err := s.cache.Get(ctx, cacheKey(userUID), &cached)
		if err != nil {
			s.log.Error("cache lookup failed", sl.Err(err))
		}
		if found {
			return &cached, nil
		}
	}

	user, err := s.users.GetUserByUID(ctx, userUID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	summary := user.Summary()
	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey(userUID), summary, summaryCacheTTL); err != nil {
			s.log.Error("cache write failed", sl.Err(err))
		}
	}
	return &summary, nil
}

// Delete удаляет пользователя и возвращает число удалённых записей.
func (s *UserService) Delete(ctx context.Context, userUID string) (int64, error) {
	const op = "services.user.Delete"

	deleted, err := s.users.DeleteUser(ctx, userUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx, userUID)
	return deleted, nil
}

// Update применяет частичное обновление собственной записи пользователя.
// nil означает "поле не пришло"; указатель на пустую строку — явное
// затирание значения.
func (s *UserService) Update(ctx context.Context, userUID string, username, email *string) (*models.UserSummary, error) {
	const op = "services.user.Update"

	user, err := s.users.UpdateUser(ctx, userUID, username, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		if errors.Is(err, storage.ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx, userUID)

	summary := user.Summary()
	return &summary, nil
}

func (s *UserService) invalidate(ctx context.Context, userUID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, cacheKey(userUID)); err != nil {
		s.log.Error("cache invalidation failed", sl.Err(err))
	}
}

func cacheKey(userUID string) string {
	return "user:" + userUID
}

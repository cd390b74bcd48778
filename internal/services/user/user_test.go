package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/user-hub/internal/lib/password"
	"github.com/magabrotheeeer/user-hub/internal/lib/session"
	"github.com/magabrotheeeer/user-hub/internal/models"
	"github.com/magabrotheeeer/user-hub/internal/storage"
)

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	args := m.Called(ctx, user)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *UserRepositoryMock) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *UserRepositoryMock) GetUserByUID(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *UserRepositoryMock) ListUsers(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	u, _ := args.Get(0).([]*models.User)
	return u, args.Error(1)
}

func (m *UserRepositoryMock) DeleteUser(ctx context.Context, userUID string) (int64, error) {
	args := m.Called(ctx, userUID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *UserRepositoryMock) UpdateUser(ctx context.Context, userUID string, username, email *string) (*models.User, error) {
	args := m.Called(ctx, userUID, username, email)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

type WelcomePublisherMock struct {
	mu       sync.Mutex
	messages []models.WelcomeMessage
	err      error
	done     chan struct{}
}

func newWelcomePublisherMock(err error) *WelcomePublisherMock {
	return &WelcomePublisherMock{err: err, done: make(chan struct{}, 1)}
}

func (m *WelcomePublisherMock) PublishWelcome(msg models.WelcomeMessage) error {
	m.mu.Lock()
	m.messages = append(m.messages, msg)
	m.mu.Unlock()
	m.done <- struct{}{}
	return m.err
}

func (m *WelcomePublisherMock) wait(t *testing.T) {
	t.Helper()
	select {
	case <-m.done:
	case <-time.After(time.Second):
		t.Fatal("welcome message was not published")
	}
}

type SummaryCacheMock struct {
	mock.Mock
}

func (m *SummaryCacheMock) Get(ctx context.Context, key string, result any) (bool, error) {
	args := m.Called(ctx, key, result)
	return args.Bool(0), args.Error(1)
}

func (m *SummaryCacheMock) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *SummaryCacheMock) Invalidate(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func newTestService(repo UserRepository, publisher WelcomePublisher) *UserService {
	maker := session.NewMaker("test-secret", 7*24*time.Hour)
	return NewUserService(repo, maker, nil, publisher, newNoopLogger())
}

func newTestServiceWithCache(repo UserRepository, cache SummaryCache) *UserService {
	maker := session.NewMaker("test-secret", 7*24*time.Hour)
	return NewUserService(repo, maker, cache, nil, newNoopLogger())
}

func TestUserService_Register(t *testing.T) {
	repo := new(UserRepositoryMock)
	publisher := newWelcomePublisherMock(nil)
	svc := newTestService(repo, publisher)

	var stored models.User
	repo.On("CreateUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		stored = u
		return u.Email == "a@x.com" && u.Role == models.RoleMember
	})).Return(&models.User{
		UID:     "uid-1",
		Email:   "a@x.com",
		Role:    models.RoleMember,
		AddTime: time.Now(),
		UpTime:  time.Now(),
	}, nil).Once()

	summary, err := svc.Register(context.Background(), "a@x.com", "p1", "")
	require.NoError(t, err)

	assert.Equal(t, "uid-1", summary.UID)
	assert.Equal(t, models.RoleMember, summary.Role)

	// хранится только производный хэш, никогда сам пароль
	assert.NotEmpty(t, stored.PassSalt)
	assert.NotEqual(t, "p1", stored.PasswordHash)
	assert.Equal(t, password.Derive("p1", stored.PassSalt), stored.PasswordHash)

	publisher.wait(t)
	assert.Equal(t, "a@x.com", publisher.messages[0].Email)
}

func TestUserService_Register_DuplicateEmail(t *testing.T) {
	repo := new(UserRepositoryMock)
	svc := newTestService(repo, nil)

	repo.On("CreateUser", mock.Anything, mock.Anything).
		Return(nil, storage.ErrEmailTaken).Once()

	summary, err := svc.Register(context.Background(), "a@x.com", "p1", "")
	require.ErrorIs(t, err, ErrEmailTaken)
	assert.Nil(t, summary)
}

func TestUserService_Register_PublisherFailureDoesNotFail(t *testing.T) {
	repo := new(UserRepositoryMock)
	publisher := newWelcomePublisherMock(errors.New("broker down"))
	svc := newTestService(repo, publisher)

	repo.On("CreateUser", mock.Anything, mock.Anything).Return(&models.User{
		UID:   "uid-1",
		Email: "a@x.com",
		Role:  models.RoleMember,
	}, nil).Once()

	summary, err := svc.Register(context.Background(), "a@x.com", "p1", "")
	require.NoError(t, err)
	assert.NotNil(t, summary)
	publisher.wait(t)
}

func TestUserService_Login(t *testing.T) {
	salt := password.NewSalt()
	storedUser := &models.User{
		UID:          "uid-1",
		Email:        "a@x.com",
		PasswordHash: password.Derive("p1", salt),
		PassSalt:     salt,
		Role:         models.RoleMember,
	}

	tests := []struct {
		name      string
		email     string
		password  string
		repoUser  *models.User
		repoErr   error
		wantErr   error
		wantToken bool
	}{
		{
			name:      "correct credentials",
			email:     "a@x.com",
			password:  "p1",
			repoUser:  storedUser,
			wantToken: true,
		},
		{
			name:     "wrong password",
			email:    "a@x.com",
			password: "wrong",
			repoUser: storedUser,
			wantErr:  ErrInvalidCredentials,
		},
		{
			name:     "unknown email",
			email:    "missing@x.com",
			password: "p1",
			repoErr:  storage.ErrUserNotFound,
			wantErr:  ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepositoryMock)
			svc := newTestService(repo, nil)

			repo.On("GetUserByEmail", mock.Anything, tt.email).
				Return(tt.repoUser, tt.repoErr).Once()

			token, summary, err := svc.Login(context.Background(), tt.email, tt.password)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, token)
				assert.Nil(t, summary)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, token)
			assert.Equal(t, "uid-1", summary.UID)
		})
	}
}

func TestUserService_ValidateSession(t *testing.T) {
	repo := new(UserRepositoryMock)
	maker := session.NewMaker("test-secret", time.Hour)
	svc := NewUserService(repo, maker, nil, nil, newNoopLogger())

	token, err := maker.IssueToken("uid-1")
	require.NoError(t, err)

	repo.On("GetUserByUID", mock.Anything, "uid-1").
		Return(&models.User{UID: "uid-1", Role: models.RoleAdmin}, nil).Once()

	user, err := svc.ValidateSession(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)

	_, err = svc.ValidateSession(context.Background(), token+"tampered")
	assert.Error(t, err)
}

func TestUserService_List(t *testing.T) {
	repo := new(UserRepositoryMock)
	svc := newTestService(repo, nil)

	repo.On("ListUsers", mock.Anything).Return([]*models.User{
		{UID: "uid-1", Email: "a@x.com", PasswordHash: "h", PassSalt: "s"},
		{UID: "uid-2", Email: "b@x.com", PasswordHash: "h", PassSalt: "s"},
	}, nil).Once()

	got, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, "uid-1", got[0].UID)
}

func TestUserService_FindByUID_CacheHit(t *testing.T) {
	repo := new(UserRepositoryMock)
	cache := new(SummaryCacheMock)
	svc := newTestServiceWithCache(repo, cache)

	cache.On("Get", mock.Anything, "user:uid-1", mock.Anything).
		Run(func(args mock.Arguments) {
			out := args.Get(2).(*models.UserSummary)
			*out = models.UserSummary{UID: "uid-1", Email: "a@x.com", Role: models.RoleMember}
		}).Return(true, nil).Once()

	summary, err := svc.FindByUID(context.Background(), "uid-1")
	require.NoError(t, err)
	assert.Equal(t, "uid-1", summary.UID)
	assert.Equal(t, "a@x.com", summary.Email)

	// попадание в кэш не доходит до базы
	repo.AssertNotCalled(t, "GetUserByUID", mock.Anything, mock.Anything)
	cache.AssertExpectations(t)
}

func TestUserService_FindByUID_CacheMissPopulates(t *testing.T) {
	repo := new(UserRepositoryMock)
	cache := new(SummaryCacheMock)
	svc := newTestServiceWithCache(repo, cache)

	cache.On("Get", mock.Anything, "user:uid-1", mock.Anything).
		Return(false, nil).Once()
	repo.On("GetUserByUID", mock.Anything, "uid-1").
		Return(&models.User{UID: "uid-1", Email: "a@x.com", Role: models.RoleMember}, nil).Once()
	cache.On("Set", mock.Anything, "user:uid-1",
		mock.MatchedBy(func(s models.UserSummary) bool { return s.UID == "uid-1" }),
		summaryCacheTTL).Return(nil).Once()

	summary, err := svc.FindByUID(context.Background(), "uid-1")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", summary.Email)

	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestUserService_FindByUID_CacheFailureFallsThrough(t *testing.T) {
	repo := new(UserRepositoryMock)
	cache := new(SummaryCacheMock)
	svc := newTestServiceWithCache(repo, cache)

	cache.On("Get", mock.Anything, "user:uid-1", mock.Anything).
		Return(false, errors.New("redis down")).Once()
	repo.On("GetUserByUID", mock.Anything, "uid-1").
		Return(&models.User{UID: "uid-1", Email: "a@x.com"}, nil).Once()
	cache.On("Set", mock.Anything, "user:uid-1", mock.Anything, summaryCacheTTL).
		Return(errors.New("redis down")).Once()

	summary, err := svc.FindByUID(context.Background(), "uid-1")
	require.NoError(t, err)
	assert.Equal(t, "uid-1", summary.UID)
}

func TestUserService_Delete_InvalidatesCache(t *testing.T) {
	repo := new(UserRepositoryMock)
	cache := new(SummaryCacheMock)
	svc := newTestServiceWithCache(repo, cache)

	repo.On("DeleteUser", mock.Anything, "uid-1").Return(int64(1), nil).Once()
	cache.On("Invalidate", mock.Anything, "user:uid-1").Return(nil).Once()

	_, err := svc.Delete(context.Background(), "uid-1")
	require.NoError(t, err)
	cache.AssertExpectations(t)
}

func TestUserService_Update_InvalidatesCache(t *testing.T) {
	repo := new(UserRepositoryMock)
	cache := new(SummaryCacheMock)
	svc := newTestServiceWithCache(repo, cache)

	newName := "alice"
	repo.On("UpdateUser", mock.Anything, "uid-1", &newName, (*string)(nil)).
		Return(&models.User{UID: "uid-1", Username: "alice"}, nil).Once()
	cache.On("Invalidate", mock.Anything, "user:uid-1").Return(nil).Once()

	_, err := svc.Update(context.Background(), "uid-1", &newName, nil)
	require.NoError(t, err)
	cache.AssertExpectations(t)
}

func TestUserService_Update_FailureKeepsCache(t *testing.T) {
	repo := new(UserRepositoryMock)
	cache := new(SummaryCacheMock)
	svc := newTestServiceWithCache(repo, cache)

	taken := "b@x.com"
	repo.On("UpdateUser", mock.Anything, "uid-1", (*string)(nil), &taken).
		Return(nil, storage.ErrEmailTaken).Once()

	_, err := svc.Update(context.Background(), "uid-1", nil, &taken)
	require.ErrorIs(t, err, ErrEmailTaken)
	cache.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
}

func TestUserService_Delete(t *testing.T) {
	repo := new(UserRepositoryMock)
	svc := newTestService(repo, nil)

	repo.On("DeleteUser", mock.Anything, "uid-1").Return(int64(1), nil).Once()

	deleted, err := svc.Delete(context.Background(), "uid-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}

func TestUserService_Update(t *testing.T) {
	repo := new(UserRepositoryMock)
	svc := newTestService(repo, nil)

	newName := "alice"
	repo.On("UpdateUser", mock.Anything, "uid-1", &newName, (*string)(nil)).
		Return(&models.User{UID: "uid-1", Username: "alice", Email: "a@x.com"}, nil).Once()

	summary, err := svc.Update(context.Background(), "uid-1", &newName, nil)
	require.NoError(t, err)
	assert.Equal(t, "alice", summary.Username)
	assert.Equal(t, "a@x.com", summary.Email)
}

func TestUserService_Update_EmailConflict(t *testing.T) {
	repo := new(UserRepositoryMock)
	svc := newTestService(repo, nil)

	taken := "b@x.com"
	repo.On("UpdateUser", mock.Anything, "uid-1", (*string)(nil), &taken).
		Return(nil, storage.ErrEmailTaken).Once()

	_, err := svc.Update(context.Background(), "uid-1", nil, &taken)
	require.ErrorIs(t, err, ErrEmailTaken)
}

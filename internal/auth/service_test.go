package auth

import (
	"context"
	"testing"
	"time"

	"denchetravel/internal/shared/config"
	"denchetravel/internal/users"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserStore struct {
	byEmail map[string]*users.User
	byID    map[string]*users.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		byEmail: make(map[string]*users.User),
		byID:    make(map[string]*users.User),
	}
}

func (f *fakeUserStore) CreateUser(ctx context.Context, user *users.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	f.byEmail[user.Email] = user
	f.byID[user.ID.String()] = user
	return nil
}

func (f *fakeUserStore) GetUserByEmail(ctx context.Context, email string) (*users.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserStore) GetUserByID(ctx context.Context, id string) (*users.User, error) {
	user, ok := f.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserStore) UpdateUserPassword(ctx context.Context, userID string, hashedPassword string) error {
	user, ok := f.byID[userID]
	if !ok {
		return ErrUserNotFound
	}
	user.Password = hashedPassword
	return nil
}

func (f *fakeUserStore) EmailExists(ctx context.Context, email string) (bool, error) {
	_, ok := f.byEmail[email]
	return ok, nil
}

func testAuthConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:           "test-secret",
			JWTExpiresIn:     time.Hour,
			RefreshExpiresIn: 24 * time.Hour,
		},
	}
}

func TestRegister_CreatesCustomerAccount(t *testing.T) {
	store := newFakeUserStore()
	svc := NewService(store, testAuthConfig())

	resp, err := svc.Register(context.Background(), &RegisterRequest{
		Name:     "Aimen Denche",
		Email:    "aimen@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	assert.Equal(t, "aimen@example.com", resp.User.Email)
	assert.Equal(t, string(users.RoleUser), resp.User.Role)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)

	// Password is stored hashed, never verbatim
	stored := store.byEmail["aimen@example.com"]
	assert.NotEqual(t, "secret123", stored.Password)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	store := newFakeUserStore()
	svc := NewService(store, testAuthConfig())

	req := &RegisterRequest{Name: "Aimen", Email: "aimen@example.com", Password: "secret123"}
	_, err := svc.Register(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), req)
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestLogin(t *testing.T) {
	store := newFakeUserStore()
	svc := NewService(store, testAuthConfig())

	_, err := svc.Register(context.Background(), &RegisterRequest{
		Name:     "Aimen",
		Email:    "aimen@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), &LoginRequest{Email: "aimen@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)

	_, err = svc.Login(context.Background(), &LoginRequest{Email: "aimen@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Unknown accounts fail the same way as wrong passwords
	_, err = svc.Login(context.Background(), &LoginRequest{Email: "nobody@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateToken_AccessClaims(t *testing.T) {
	svc := NewService(newFakeUserStore(), testAuthConfig())

	resp, err := svc.Register(context.Background(), &RegisterRequest{
		Name:     "Aimen",
		Email:    "aimen@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "access", claims.Type)
	assert.Equal(t, "aimen@example.com", claims.Email)
	assert.Equal(t, string(users.RoleUser), claims.Role)

	_, err = svc.ValidateToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshToken(t *testing.T) {
	store := newFakeUserStore()
	svc := NewService(store, testAuthConfig())

	resp, err := svc.Register(context.Background(), &RegisterRequest{
		Name:     "Aimen",
		Email:    "aimen@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	pair, err := svc.RefreshToken(context.Background(), resp.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)

	// An access token must not work as a refresh token
	_, err = svc.RefreshToken(context.Background(), resp.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestChangePassword(t *testing.T) {
	store := newFakeUserStore()
	svc := NewService(store, testAuthConfig())

	resp, err := svc.Register(context.Background(), &RegisterRequest{
		Name:     "Aimen",
		Email:    "aimen@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	err = svc.ChangePassword(context.Background(), resp.User.ID, &ChangePasswordRequest{
		CurrentPassword: "wrong",
		NewPassword:     "newsecret",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	err = svc.ChangePassword(context.Background(), resp.User.ID, &ChangePasswordRequest{
		CurrentPassword: "secret123",
		NewPassword:     "newsecret",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), &LoginRequest{Email: "aimen@example.com", Password: "newsecret"})
	assert.NoError(t, err)
}

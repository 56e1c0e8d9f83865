package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/workboard/internal/common"
	"github.com/dmitrijs2005/workboard/internal/server/auth"
	"github.com/dmitrijs2005/workboard/internal/server/config"
	"github.com/dmitrijs2005/workboard/internal/server/models"
	"github.com/dmitrijs2005/workboard/internal/server/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	byEmail map[string]*models.User
	nextID  int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: map[string]*models.User{}}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if _, ok := f.byEmail[user.Email]; ok {
		return nil, common.ErrorEmailTaken
	}
	f.nextID++
	stored := *user
	stored.ID = f.nextID
	stored.CreatedAt = time.Now()
	f.byEmail[stored.Email] = &stored
	return &stored, nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return user, nil
}

const testSecret = "test-secret"

func newUserService(t *testing.T) (*UserService, *fakeUserRepo, *session.MemoryStore) {
	t.Helper()
	repo := newFakeUserRepo()
	store := session.NewMemoryStore()
	cfg := &config.Config{
		SecretKey:               testSecret,
		SessionValidityDuration: time.Hour,
		BcryptCost:              bcrypt.MinCost,
	}
	return NewUserService(repo, store, cfg, testLogger()), repo, store
}

func validRegistration() RegisterInput {
	return RegisterInput{
		Name:                 "John Doe",
		Email:                "john@example.com",
		City:                 "Boston",
		State:                "MA",
		Password:             "secret123",
		PasswordConfirmation: "secret123",
	}
}

func TestRegister_Success(t *testing.T) {
	svc, repo, store := newUserService(t)
	ctx := context.Background()

	out, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	authd, ok := out.(Authenticated)
	require.True(t, ok, "expected Authenticated, got %T", out)
	assert.Equal(t, "/", authd.Location)
	assert.Equal(t, "John Doe", authd.User.Name)
	assert.Equal(t, "john@example.com", authd.User.Email)

	// Password is stored hashed, never in the clear.
	stored := repo.byEmail["john@example.com"]
	require.NotNil(t, stored)
	assert.NotEqual(t, "secret123", stored.Password)
	assert.True(t, auth.VerifyPassword(stored.Password, "secret123"))

	// The token is bound to a live session holding the user snapshot.
	claims, err := auth.ParseToken(authd.Token, []byte(testSecret))
	require.NoError(t, err)
	assert.Equal(t, stored.ID, claims.UserID)

	snapshot, err := store.Get(ctx, claims.SessionID)
	require.NoError(t, err)
	assert.Equal(t, stored.ID, snapshot.ID)
}

func TestRegister_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		message string
		mutate  func(*RegisterInput)
	}{
		{"bad email", "email", "Invalid email address",
			func(r *RegisterInput) { r.Email = "not-an-email" }},
		{"short name", "name", "Invalid name, must be between 2 and 50 characters",
			func(r *RegisterInput) { r.Name = "J" }},
		{"short password", "password", "Invalid password, must be at least 6 characters",
			func(r *RegisterInput) { r.Password = "ab"; r.PasswordConfirmation = "ab" }},
		{"mismatched confirmation", "password_confirmation", "Passwords do not match",
			func(r *RegisterInput) { r.PasswordConfirmation = "different1" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newUserService(t)

			input := validRegistration()
			tt.mutate(&input)

			out, err := svc.Register(context.Background(), input)
			require.NoError(t, err)

			rejected, ok := out.(Rejected)
			require.True(t, ok, "expected Rejected, got %T", out)
			assert.Equal(t, tt.message, rejected.Errors[tt.field])
			assert.Empty(t, repo.byEmail, "no account may be created")

			echo, ok := rejected.Echo.(UserEcho)
			require.True(t, ok)
			assert.NotContains(t, []string{echo.Name, echo.Email, echo.City, echo.State},
				input.Password, "password must never be echoed")
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _, _ := newUserService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	second := validRegistration()
	second.Name = "Jane Doe"
	out, err := svc.Register(ctx, second)
	require.NoError(t, err)

	rejected, ok := out.(Rejected)
	require.True(t, ok)
	assert.Equal(t, "Email already exists", rejected.Errors["email"])
}

func TestLogin_Success(t *testing.T) {
	svc, _, store := newUserService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	out, err := svc.Login(ctx, "john@example.com", "secret123")
	require.NoError(t, err)

	authd, ok := out.(Authenticated)
	require.True(t, ok, "expected Authenticated, got %T", out)

	claims, err := auth.ParseToken(authd.Token, []byte(testSecret))
	require.NoError(t, err)
	snapshot, err := store.Get(ctx, claims.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "john@example.com", snapshot.Email)
}

func TestLogin_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		field    string
		message  string
	}{
		{"invalid email", "nope", "secret123", "email", "Invalid email address"},
		{"short password", "john@example.com", "ab", "password", "Password must be at least 6 characters"},
		{"unknown email", "jane@example.com", "secret123", "email", "Email not found"},
		{"wrong password", "john@example.com", "wrong-pass", "password", "Invalid password"},
	}

	svc, _, _ := newUserService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := svc.Login(ctx, tt.email, tt.password)
			require.NoError(t, err)

			rejected, ok := out.(Rejected)
			require.True(t, ok, "expected Rejected, got %T", out)
			assert.Equal(t, tt.message, rejected.Errors[tt.field])
		})
	}
}

func TestLogout_DestroysSession(t *testing.T) {
	svc, _, store := newUserService(t)
	ctx := context.Background()

	out, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)
	authd := out.(Authenticated)

	claims, err := auth.ParseToken(authd.Token, []byte(testSecret))
	require.NoError(t, err)

	out, err = svc.Logout(ctx, Session{ID: claims.SessionID, UserID: claims.UserID})
	require.NoError(t, err)
	assert.Equal(t, Redirect{Location: "/"}, out)

	_, err = store.Get(ctx, claims.SessionID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestLogout_AnonymousSession(t *testing.T) {
	svc, _, _ := newUserService(t)

	out, err := svc.Logout(context.Background(), Session{})
	require.NoError(t, err)
	assert.Equal(t, Redirect{Location: "/"}, out)
}

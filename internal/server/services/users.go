package services

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/workboard/internal/common"
	"github.com/dmitrijs2005/workboard/internal/logging"
	"github.com/dmitrijs2005/workboard/internal/server/auth"
	"github.com/dmitrijs2005/workboard/internal/server/config"
	"github.com/dmitrijs2005/workboard/internal/server/models"
	"github.com/dmitrijs2005/workboard/internal/server/repositories/users"
	"github.com/dmitrijs2005/workboard/internal/server/sanitize"
	"github.com/dmitrijs2005/workboard/internal/server/session"
	"github.com/dmitrijs2005/workboard/internal/server/validation"
	"github.com/google/uuid"
)

// RegisterInput is the registration form submission.
type RegisterInput struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	City                 string `json:"city"`
	State                string `json:"state"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// UserEcho is the part of a rejected registration echoed back into the form.
// Passwords are never echoed.
type UserEcho struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	City  string `json:"city"`
	State string `json:"state"`
}

type UserService struct {
	repo       users.Repository
	sessions   session.Store
	logger     logging.Logger
	secretKey  []byte
	sessionTTL time.Duration
	bcryptCost int
}

func NewUserService(repo users.Repository, sessions session.Store, cfg *config.Config, log logging.Logger) *UserService {
	return &UserService{
		repo:       repo,
		sessions:   sessions,
		logger:     log.With("module", "user_service"),
		secretKey:  []byte(cfg.SecretKey),
		sessionTTL: cfg.SessionValidityDuration,
		bcryptCost: cfg.BcryptCost,
	}
}

// openSession stores the denormalized user snapshot under a fresh session id
// and signs a token bound to it.
func (s *UserService) openSession(ctx context.Context, user *models.User) (Outcome, error) {
	snapshot := session.User{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		City:  user.City,
		State: user.State,
	}

	sessionID := uuid.NewString()
	if err := s.sessions.Set(ctx, sessionID, &snapshot, s.sessionTTL); err != nil {
		s.logger.Error(ctx, "failed to store session", "user_id", user.ID, "error", err.Error())
		return nil, err
	}

	token, err := auth.GenerateToken(user.ID, sessionID, s.secretKey, s.sessionTTL)
	if err != nil {
		s.logger.Error(ctx, "failed to sign session token", "user_id", user.ID, "error", err.Error())
		return nil, err
	}

	return Authenticated{Token: token, User: snapshot, Location: "/"}, nil
}

// Register creates an account after validating the submission and checking
// email uniqueness, then opens a session for the new user.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (Outcome, error) {
	name := sanitize.Sanitize(input.Name)
	email := sanitize.Sanitize(input.Email)
	city := sanitize.Sanitize(input.City)
	state := sanitize.Sanitize(input.State)

	echo := UserEcho{Name: name, Email: email, City: city, State: state}

	errs := map[string]string{}
	if !validation.Email(email) {
		errs["email"] = "Invalid email address"
	}
	if !validation.String(name, 2, 50) {
		errs["name"] = "Invalid name, must be between 2 and 50 characters"
	}
	if !validation.String(input.Password, 6, 50) {
		errs["password"] = "Invalid password, must be at least 6 characters"
	}
	if !validation.Match(input.Password, input.PasswordConfirmation) {
		errs["password_confirmation"] = "Passwords do not match"
	}
	if len(errs) > 0 {
		return Rejected{Errors: errs, Echo: echo}, nil
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		s.logger.Error(ctx, "failed to hash password", "error", err.Error())
		return nil, err
	}

	user := &models.User{
		Name:     name,
		Email:    email,
		City:     city,
		State:    state,
		Password: hash,
	}
	// The repository checks uniqueness and inserts atomically, so two
	// concurrent registrations cannot both pass a pre-check.
	user, err = s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorEmailTaken) {
			return Rejected{Errors: map[string]string{"email": "Email already exists"}, Echo: echo}, nil
		}
		s.logger.Error(ctx, "failed to create user", "error", err.Error())
		return nil, err
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID)
	return s.openSession(ctx, user)
}

// Login authenticates by email and password and opens a session on success.
func (s *UserService) Login(ctx context.Context, email, password string) (Outcome, error) {
	email = sanitize.Sanitize(email)

	errs := map[string]string{}
	if !validation.Email(email) {
		errs["email"] = "Invalid email address"
	}
	if !validation.String(password, 6, 50) {
		errs["password"] = "Password must be at least 6 characters"
	}
	if len(errs) > 0 {
		return Rejected{Errors: errs}, nil
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return Rejected{Errors: map[string]string{"email": "Email not found"}}, nil
		}
		s.logger.Error(ctx, "failed to fetch user", "error", err.Error())
		return nil, err
	}

	if !auth.VerifyPassword(user.Password, password) {
		s.logger.Warn(ctx, "failed login attempt", "user_id", user.ID)
		return Rejected{Errors: map[string]string{"password": "Invalid password"}}, nil
	}

	s.logger.Info(ctx, "user logged in", "user_id", user.ID)
	return s.openSession(ctx, user)
}

// Logout destroys the acting session's server-side state.
func (s *UserService) Logout(ctx context.Context, sess Session) (Outcome, error) {
	if sess.ID != "" {
		if err := s.sessions.Destroy(ctx, sess.ID); err != nil {
			s.logger.Error(ctx, "failed to destroy session", "session_id", sess.ID, "error", err.Error())
			return nil, err
		}
	}
	return Redirect{Location: "/"}, nil
}

package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"golang.org/x/crypto/bcrypt"

	"github.com/sophieizhu/biodex/internal/model"
)

// UserStore is what the auth service needs from the user repository.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	ListProfiles(ctx context.Context) ([]model.Profile, error)
}

type AuthService struct {
	users UserStore
	log   hclog.Logger
}

func NewAuthService(users UserStore, logger hclog.Logger) *AuthService {
	return &AuthService{users: users, log: logger}
}

// Login checks the password against the stored hash. Unknown emails and
// wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		return nil, model.ErrBadCredentials
	} else if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		s.log.Debug("password mismatch", "email", email)
		return nil, model.ErrBadCredentials
	}

	return u, nil
}

// Register creates a user with a bcrypt-hashed password. Used by the
// seed command and tests.
func (s *AuthService) Register(ctx context.Context, email, displayName, password string, biography *string) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &model.User{
		ID:           uuid.New().String(),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		DisplayName:  strings.TrimSpace(displayName),
		Biography:    biography,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	s.log.Info("user registered", "id", u.ID, "email", u.Email)
	return u, nil
}

func (s *AuthService) ListProfiles(ctx context.Context) ([]model.Profile, error) {
	return s.users.ListProfiles(ctx)
}

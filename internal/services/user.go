package services

import (
	"context"
	"errors"
	"strings"

	"github.com/alternativa-centar/site/types"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (types.User, error)
	GetByUsername(ctx context.Context, username string) (types.User, error)
	Upsert(ctx context.Context, username, passwordHash string) (types.User, error)
}

// UserService encapsulates user use-cases.
type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) GetByID(ctx context.Context, id string) (types.User, error) {
	return s.repo.GetByID(ctx, id)
}

// Authenticate checks a username/password pair. Unknown users yield
// store.ErrNotFound and bad passwords ErrWrongPassword.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (types.User, error) {
	user, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return types.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return types.User{}, ErrWrongPassword
		}
		return types.User{}, err
	}
	return user, nil
}

// SetPassword creates the account or replaces its password.
func (s *UserService) SetPassword(ctx context.Context, username, password string) (types.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return types.User{}, invalid("username is required")
	}
	if len(password) < minPasswordLength {
		return types.User{}, invalid("password must be at least 8 characters")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return types.User{}, err
	}
	return s.repo.Upsert(ctx, username, string(hashed))
}

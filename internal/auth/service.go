package auth

import (
	"context"
	"errors"

	"github.com/fintrack/fintrack/internal/domain/user"
	"github.com/fintrack/fintrack/internal/security"
)

// ErrInvalidCredentials covers both unknown email and wrong password.
// Callers must not be able to tell the two apart.
var ErrInvalidCredentials = errors.New("invalid credentials")

// dummyHash is a real bcrypt hash compared against when the email is
// unknown, so both failure paths pay the same bcrypt cost.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

type UserStore interface {
	Create(ctx context.Context, name, email, passwordHash string) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
}

// Service owns registration and login verification. Handlers stay thin
// and repos stay hash-agnostic.
type Service struct {
	users UserStore
	cost  int
}

func NewService(users UserStore, bcryptCost int) *Service {
	return &Service{users: users, cost: bcryptCost}
}

// Register hashes the password and persists the user. A duplicate
// email surfaces as user.ErrEmailTaken.
func (s *Service) Register(ctx context.Context, name, email, password string) (user.User, error) {
	hash, err := security.HashPassword(password, s.cost)

	if err != nil {
		return user.User{}, err
	}

	return s.users.Create(ctx, name, email, hash)
}

// Authenticate looks the user up by email and verifies the password.
func (s *Service) Authenticate(ctx context.Context, email, password string) (user.User, error) {
	u, err := s.users.GetByEmail(ctx, email)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			// burn a compare anyway
			_ = security.CheckPassword(dummyHash, password)
			return user.User{}, ErrInvalidCredentials
		}

		return user.User{}, err
	}

	err = security.CheckPassword(u.PasswordHash, password)

	if err != nil {
		return user.User{}, ErrInvalidCredentials
	}

	return u, nil
}

package services

import (
	"context"

	"github.com/nimbusconsole/apiserver/types"
	"golang.org/x/crypto/bcrypt"
)

// passwordCost is the bcrypt work factor for new password hashes. High
// enough to resist brute force, matching the historical value.
const passwordCost = 12

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (types.User, error)
	GetByEmail(ctx context.Context, email string) (types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
}

// UserService owns user records and their password hashes. Plaintext
// passwords enter here and only hashes come out.
type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) GetByID(ctx context.Context, id string) (types.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (types.User, error) {
	return s.repo.GetByEmail(ctx, email)
}

// Create hashes the plaintext password with a per-call random salt and
// stores the new record. Returns store.ErrDuplicateEmail when the email
// is already registered.
func (s *UserService) Create(ctx context.Context, email, name, password string) (types.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return types.User{}, err
	}

	return s.repo.Create(ctx, types.User{
		Email:        email,
		Name:         name,
		PasswordHash: string(hashed),
	})
}

// VerifyPassword reports whether the plaintext matches the stored hash.
// A malformed hash compares as false rather than erroring.
func (s *UserService) VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

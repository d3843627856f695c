package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nimbusconsole/apiserver/types"
)

// MemoryUserRepository keeps users in process memory. It is the default
// backend: the demo runs without any external services and loses all
// records on restart.
type MemoryUserRepository struct {
	mu      sync.RWMutex
	users   map[string]types.User
	byEmail map[string]string
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users:   make(map[string]types.User),
		byEmail: make(map[string]string),
	}
}

func (r *MemoryUserRepository) GetByID(ctx context.Context, id string) (types.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return types.User{}, ErrNotFound
	}
	return user, nil
}

func (r *MemoryUserRepository) GetByEmail(ctx context.Context, email string) (types.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return types.User{}, ErrNotFound
	}
	return r.users[id], nil
}

// Create assigns an ID and inserts the user. The uniqueness check and
// the insert happen under one lock, so concurrent registrations with
// the same email serialize.
func (r *MemoryUserRepository) Create(ctx context.Context, user types.User) (types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[user.Email]; exists {
		return types.User{}, ErrDuplicateEmail
	}

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	r.users[user.ID] = user
	r.byEmail[user.Email] = user.ID
	return user, nil
}

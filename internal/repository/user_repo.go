package repository

import (
	"context"
	"sync"
	"time"

	"github.com/aditya/worknearby/internal/models"
	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByPhone(ctx context.Context, phone string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
}

type userRepository struct {
	mu      sync.RWMutex
	users   map[string]*models.User
	byPhone map[string]string
}

func NewUserRepository() UserRepository {
	return &userRepository{
		users:   make(map[string]*models.User),
		byPhone: make(map[string]string),
	}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[user.ID]; exists {
		return ErrDuplicateID
	}
	if _, taken := r.byPhone[user.Phone]; taken {
		return ErrDuplicatePhone
	}
	r.users[user.ID] = user.Clone()
	r.byPhone[user.Phone] = user.ID
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return user.Clone(), nil
}

func (r *userRepository) GetByPhone(ctx context.Context, phone string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byPhone[phone]
	if !ok {
		return nil, nil
	}
	return r.users[id].Clone(), nil
}

// Update replaces the stored user. The phone index follows a phone change.
func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.users[user.ID]
	if !ok {
		return ErrRecordNotFound
	}
	if owner, taken := r.byPhone[user.Phone]; taken && owner != user.ID {
		return ErrDuplicatePhone
	}

	user.CreatedAt = stored.CreatedAt
	user.UpdatedAt = time.Now()
	delete(r.byPhone, stored.Phone)
	r.byPhone[user.Phone] = user.ID
	r.users[user.ID] = user.Clone()
	return nil
}

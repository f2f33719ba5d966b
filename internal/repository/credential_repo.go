package repository

import (
	"context"
	"sync"
	"time"

	"github.com/aditya/worknearby/internal/models"
)

type CredentialRepository interface {
	Create(ctx context.Context, cred *models.Credential) error
	GetByUserID(ctx context.Context, userID string) (*models.Credential, error)
}

type credentialRepository struct {
	mu       sync.RWMutex
	byUserID map[string]*models.Credential
}

func NewCredentialRepository() CredentialRepository {
	return &credentialRepository{byUserID: make(map[string]*models.Credential)}
}

func (r *credentialRepository) Create(ctx context.Context, cred *models.Credential) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cred.CreatedAt = time.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byUserID[cred.UserID]; exists {
		return ErrDuplicateID
	}
	c := *cred
	c.PasswordHash = append([]byte(nil), cred.PasswordHash...)
	r.byUserID[cred.UserID] = &c
	return nil
}

func (r *credentialRepository) GetByUserID(ctx context.Context, userID string) (*models.Credential, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	cred, ok := r.byUserID[userID]
	if !ok {
		return nil, nil
	}
	c := *cred
	return &c, nil
}

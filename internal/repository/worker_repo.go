package repository

import (
	"context"
	"sync"
	"time"

	"github.com/aditya/worknearby/internal/models"
	"github.com/google/uuid"
)

type WorkerRepository interface {
	Create(ctx context.Context, worker *models.WorkerProfile) error
	GetByID(ctx context.Context, id string) (*models.WorkerProfile, error)
	List(ctx context.Context) ([]*models.WorkerProfile, error)
	ListByStatus(ctx context.Context, status models.ApprovalStatus) ([]*models.WorkerProfile, error)
	Update(ctx context.Context, id string, fn func(w *models.WorkerProfile) error) (*models.WorkerProfile, error)
}

type workerRepository struct {
	mu      sync.RWMutex
	workers map[string]*models.WorkerProfile
	order   []string
}

func NewWorkerRepository() WorkerRepository {
	return &workerRepository{workers: make(map[string]*models.WorkerProfile)}
}

func (r *workerRepository) Create(ctx context.Context, worker *models.WorkerProfile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if worker.ID == "" {
		worker.ID = uuid.New().String()
	}
	now := time.Now()
	worker.CreatedAt = now
	worker.UpdatedAt = now

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.workers[worker.ID]; exists {
		return ErrDuplicateID
	}
	r.workers[worker.ID] = worker.Clone()
	r.order = append(r.order, worker.ID)
	return nil
}

func (r *workerRepository) GetByID(ctx context.Context, id string) (*models.WorkerProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	worker, ok := r.workers[id]
	if !ok {
		return nil, nil
	}
	return worker.Clone(), nil
}

// List returns every profile in insertion order.
func (r *workerRepository) List(ctx context.Context) ([]*models.WorkerProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	workers := make([]*models.WorkerProfile, 0, len(r.order))
	for _, id := range r.order {
		workers = append(workers, r.workers[id].Clone())
	}
	return workers, nil
}

func (r *workerRepository) ListByStatus(ctx context.Context, status models.ApprovalStatus) ([]*models.WorkerProfile, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	workers := make([]*models.WorkerProfile, 0, len(all))
	for _, w := range all {
		if w.Status == status {
			workers = append(workers, w)
		}
	}
	return workers, nil
}

// Update applies fn to a copy of the stored profile while holding the write
// lock and commits the copy only when fn succeeds. Returns nil, nil when the
// id is unknown.
func (r *workerRepository) Update(ctx context.Context, id string, fn func(w *models.WorkerProfile) error) (*models.WorkerProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.workers[id]
	if !ok {
		return nil, nil
	}

	draft := stored.Clone()
	if err := fn(draft); err != nil {
		return nil, err
	}
	draft.ID = stored.ID
	draft.CreatedAt = stored.CreatedAt
	draft.UpdatedAt = time.Now()

	r.workers[id] = draft
	return draft.Clone(), nil
}

package repository

import (
	"context"
	"sync"
	"time"

	"github.com/aditya/worknearby/internal/models"
	"github.com/google/uuid"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	ListByCustomerID(ctx context.Context, userID string) ([]*models.Booking, error)
	ListByWorkerID(ctx context.Context, workerID string) ([]*models.Booking, error)
	Update(ctx context.Context, id string, fn func(b *models.Booking) error) (*models.Booking, error)
}

type bookingRepository struct {
	mu       sync.RWMutex
	bookings map[string]*models.Booking
	order    []string
}

func NewBookingRepository() BookingRepository {
	return &bookingRepository{bookings: make(map[string]*models.Booking)}
}

func (r *bookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if booking.ID == "" {
		booking.ID = uuid.New().String()
	}
	now := time.Now()
	booking.CreatedAt = now
	booking.UpdatedAt = now

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.bookings[booking.ID]; exists {
		return ErrDuplicateID
	}
	r.bookings[booking.ID] = booking.Clone()
	r.order = append(r.order, booking.ID)
	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	booking, ok := r.bookings[id]
	if !ok {
		return nil, nil
	}
	return booking.Clone(), nil
}

func (r *bookingRepository) ListByCustomerID(ctx context.Context, userID string) ([]*models.Booking, error) {
	return r.newestFirst(ctx, func(b *models.Booking) bool { return b.CustomerSnapshot.UserID == userID })
}

func (r *bookingRepository) ListByWorkerID(ctx context.Context, workerID string) ([]*models.Booking, error) {
	return r.newestFirst(ctx, func(b *models.Booking) bool { return b.WorkerID == workerID })
}

// newestFirst walks bookings from the most recently created to the oldest.
func (r *bookingRepository) newestFirst(ctx context.Context, match func(b *models.Booking) bool) ([]*models.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	bookings := make([]*models.Booking, 0)
	for i := len(r.order) - 1; i >= 0; i-- {
		b := r.bookings[r.order[i]]
		if match(b) {
			bookings = append(bookings, b.Clone())
		}
	}
	return bookings, nil
}

// Update applies fn to a copy of the stored booking while holding the write
// lock and commits the copy only when fn succeeds. Returns nil, nil when the
// id is unknown.
func (r *bookingRepository) Update(ctx context.Context, id string, fn func(b *models.Booking) error) (*models.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.bookings[id]
	if !ok {
		return nil, nil
	}

	draft := stored.Clone()
	if err := fn(draft); err != nil {
		return nil, err
	}
	// Identity and snapshots are fixed at creation.
	draft.ID = stored.ID
	draft.WorkerID = stored.WorkerID
	draft.WorkerSnapshot = stored.WorkerSnapshot
	draft.CustomerSnapshot = stored.CustomerSnapshot
	draft.CreatedAt = stored.CreatedAt
	draft.UpdatedAt = time.Now()

	r.bookings[id] = draft
	return draft.Clone(), nil
}

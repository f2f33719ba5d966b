package service

import (
	"context"
	"strings"
	"time"

	apperrors "github.com/aditya/worknearby/internal/errors"
	"github.com/aditya/worknearby/internal/models"
	"github.com/aditya/worknearby/internal/repository"
	"github.com/aditya/worknearby/pkg/utils"
)

// WorkerLookup is the slice of the worker directory the ledger depends on.
// IncrementReviewCount is the only write the ledger performs on workers.
type WorkerLookup interface {
	Get(ctx context.Context, id string) (*models.WorkerProfile, error)
	IncrementReviewCount(ctx context.Context, id string) error
}

// BookingEventPublisher receives every committed booking change.
type BookingEventPublisher interface {
	PublishBookingEvent(ctx context.Context, event *models.BookingEvent)
}

type BookingService interface {
	Create(ctx context.Context, req *models.CreateBookingRequest) (*models.Booking, error)
	Get(ctx context.Context, id string) (*models.Booking, error)
	Advance(ctx context.Context, id string, target models.BookingStatus) (*models.Booking, error)
	Cancel(ctx context.Context, id string) (*models.Booking, error)
	SubmitReview(ctx context.Context, id string) (*models.Booking, error)
	ListForCustomer(ctx context.Context, userID string) ([]*models.Booking, error)
	ListForWorker(ctx context.Context, workerID string) ([]*models.Booking, error)
}

type bookingService struct {
	bookingRepo repository.BookingRepository
	workers     WorkerLookup
	guard       Authorizer
	publisher   BookingEventPublisher
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	workers WorkerLookup,
	guard Authorizer,
	publisher BookingEventPublisher,
) BookingService {
	return &bookingService{
		bookingRepo: bookingRepo,
		workers:     workers,
		guard:       guard,
		publisher:   publisher,
	}
}

func (s *bookingService) Create(ctx context.Context, req *models.CreateBookingRequest) (*models.Booking, error) {
	if err := s.guard.Authorize(ctx); err != nil {
		return nil, err
	}

	r := *req
	r.WorkerID = utils.NormalizeID(r.WorkerID)
	r.Customer.Name = strings.TrimSpace(r.Customer.Name)
	r.Customer.Phone = strings.TrimSpace(r.Customer.Phone)
	r.Date = strings.TrimSpace(r.Date)
	r.Time = strings.TrimSpace(r.Time)
	if err := utils.ValidateStruct(&r); err != nil {
		return nil, err
	}

	worker, err := s.workers.Get(ctx, r.WorkerID)
	if err != nil {
		return nil, err
	}
	if !worker.IsApproved() {
		return nil, apperrors.WorkerNotApproved(worker.ID)
	}

	booking := &models.Booking{
		WorkerID:         worker.ID,
		WorkerSnapshot:   worker.Snapshot(),
		CustomerSnapshot: r.Customer,
		Date:             r.Date,
		Time:             r.Time,
		Location:         strings.TrimSpace(r.Location),
		Status:           models.BookingStatusPending,
		HasReview:        false,
	}
	if r.ProblemDescription != nil {
		pd := strings.TrimSpace(*r.ProblemDescription)
		if pd != "" {
			booking.ProblemDescription = &pd
		}
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, err
	}

	s.publish(ctx, booking, models.BookingEventCreated)
	return booking.Clone(), nil
}

func (s *bookingService) Get(ctx context.Context, id string) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, utils.NormalizeID(id))
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, apperrors.NotFound("booking", id)
	}
	return booking, nil
}

// Advance moves the booking to target, which must be the next status in the
// chain or cancelled. The check and the write happen under one lock, so two
// callers racing from the same status cannot both succeed.
func (s *bookingService) Advance(ctx context.Context, id string, target models.BookingStatus) (*models.Booking, error) {
	if err := s.guard.Authorize(ctx); err != nil {
		return nil, err
	}

	booking, err := s.bookingRepo.Update(ctx, utils.NormalizeID(id), func(b *models.Booking) error {
		if !b.CanTransitionTo(target) {
			return apperrors.InvalidTransition(string(b.Status), string(target))
		}
		b.Status = target
		return nil
	})
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, apperrors.NotFound("booking", id)
	}

	s.publish(ctx, booking, models.BookingEventStatusChanged)
	return booking, nil
}

func (s *bookingService) Cancel(ctx context.Context, id string) (*models.Booking, error) {
	return s.Advance(ctx, id, models.BookingStatusCancelled)
}

// SubmitReview marks a completed booking as reviewed and bumps the worker's
// review count. Both writes commit together or not at all.
func (s *bookingService) SubmitReview(ctx context.Context, id string) (*models.Booking, error) {
	if err := s.guard.Authorize(ctx); err != nil {
		return nil, err
	}

	booking, err := s.bookingRepo.Update(ctx, utils.NormalizeID(id), func(b *models.Booking) error {
		if b.Status != models.BookingStatusCompleted {
			return apperrors.InvalidTransition(string(b.Status), "reviewed")
		}
		if b.HasReview {
			return apperrors.AlreadyReviewed(b.ID)
		}
		if err := s.workers.IncrementReviewCount(ctx, b.WorkerID); err != nil {
			return err
		}
		b.HasReview = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, apperrors.NotFound("booking", id)
	}

	s.publish(ctx, booking, models.BookingEventReviewed)
	return booking, nil
}

func (s *bookingService) ListForCustomer(ctx context.Context, userID string) ([]*models.Booking, error) {
	userID = utils.NormalizeID(userID)
	if userID == "" {
		return nil, apperrors.Validation("customerId", "customer id is required")
	}
	return s.bookingRepo.ListByCustomerID(ctx, userID)
}

func (s *bookingService) ListForWorker(ctx context.Context, workerID string) ([]*models.Booking, error) {
	workerID = utils.NormalizeID(workerID)
	if workerID == "" {
		return nil, apperrors.Validation("workerId", "worker id is required")
	}
	return s.bookingRepo.ListByWorkerID(ctx, workerID)
}

func (s *bookingService) publish(ctx context.Context, b *models.Booking, eventType string) {
	if s.publisher == nil {
		return
	}
	s.publisher.PublishBookingEvent(ctx, b.Event(eventType, time.Now()))
}

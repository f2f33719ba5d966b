package service

import (
	"context"
	"sort"
	"strings"

	apperrors "github.com/aditya/worknearby/internal/errors"
	"github.com/aditya/worknearby/internal/models"
	"github.com/aditya/worknearby/internal/repository"
	"github.com/aditya/worknearby/pkg/utils"
)

type WorkerService interface {
	Register(ctx context.Context, req *models.RegisterWorkerRequest) (*models.WorkerProfile, error)
	Get(ctx context.Context, id string) (*models.WorkerProfile, error)
	ListApproved(ctx context.Context, filter models.WorkerFilter) ([]*models.WorkerProfile, error)
	ListByStatus(ctx context.Context, status models.ApprovalStatus) ([]*models.WorkerProfile, error)
	Approve(ctx context.Context, id string) (*models.WorkerProfile, error)
	Reject(ctx context.Context, id string) (*models.WorkerProfile, error)
	Update(ctx context.Context, id string, upd *models.WorkerUpdate) (*models.WorkerProfile, error)
	IncrementReviewCount(ctx context.Context, id string) error
}

type workerService struct {
	workerRepo        repository.WorkerRepository
	guard             Authorizer
	adminRequiresAuth bool
}

// NewWorkerService builds the worker directory. Approve and Reject skip the
// session check unless adminRequiresAuth is set; the admin dashboard has
// always been reachable without login.
func NewWorkerService(workerRepo repository.WorkerRepository, guard Authorizer, adminRequiresAuth bool) WorkerService {
	return &workerService{
		workerRepo:        workerRepo,
		guard:             guard,
		adminRequiresAuth: adminRequiresAuth,
	}
}

func (s *workerService) Register(ctx context.Context, req *models.RegisterWorkerRequest) (*models.WorkerProfile, error) {
	if err := s.guard.Authorize(ctx); err != nil {
		return nil, err
	}

	r := *req
	r.Name = strings.TrimSpace(r.Name)
	r.Phone = strings.TrimSpace(r.Phone)
	if err := utils.ValidateStruct(&r); err != nil {
		return nil, err
	}

	worker := &models.WorkerProfile{
		Name:               r.Name,
		Phone:              r.Phone,
		Category:           r.Category,
		HourlyRate:         r.HourlyRate,
		Location:           strings.TrimSpace(r.Location),
		Description:        r.Description,
		ImageURL:           r.ImageURL,
		Availability:       r.Availability,
		SubSpecializations: r.SubSpecializations,
		Portfolio:          withPortfolioIDs(r.Portfolio),
		MapPosition:        r.MapPosition,
		Status:             models.ApprovalPending,
	}

	if err := s.workerRepo.Create(ctx, worker); err != nil {
		return nil, err
	}

	return worker.Clone(), nil
}

func (s *workerService) Get(ctx context.Context, id string) (*models.WorkerProfile, error) {
	worker, err := s.workerRepo.GetByID(ctx, utils.NormalizeID(id))
	if err != nil {
		return nil, err
	}
	if worker == nil {
		return nil, apperrors.NotFound("worker", id)
	}
	return worker, nil
}

// ListApproved returns approved workers matching the filter, in registration
// order unless a rating sort is requested.
func (s *workerService) ListApproved(ctx context.Context, filter models.WorkerFilter) ([]*models.WorkerProfile, error) {
	if filter.Category != "" && !models.IsValidWorkerCategory(filter.Category) {
		return nil, apperrors.Validation("category", "unknown worker category")
	}
	if filter.MaxRate != nil && *filter.MaxRate < 0 {
		return nil, apperrors.Validation("max_rate", "max_rate must not be negative")
	}

	approved, err := s.workerRepo.ListByStatus(ctx, models.ApprovalApproved)
	if err != nil {
		return nil, err
	}

	workers := make([]*models.WorkerProfile, 0, len(approved))
	for _, w := range approved {
		if w.Matches(filter) {
			workers = append(workers, w)
		}
	}

	if filter.SortByRating {
		sort.SliceStable(workers, func(i, j int) bool {
			return workers[i].Rating > workers[j].Rating
		})
	}

	return workers, nil
}

func (s *workerService) ListByStatus(ctx context.Context, status models.ApprovalStatus) ([]*models.WorkerProfile, error) {
	if !models.IsValidApprovalStatus(status) {
		return nil, apperrors.Validation("status", "unknown approval status")
	}
	return s.workerRepo.ListByStatus(ctx, status)
}

func (s *workerService) Approve(ctx context.Context, id string) (*models.WorkerProfile, error) {
	return s.decide(ctx, id, models.ApprovalApproved)
}

func (s *workerService) Reject(ctx context.Context, id string) (*models.WorkerProfile, error) {
	return s.decide(ctx, id, models.ApprovalRejected)
}

func (s *workerService) decide(ctx context.Context, id string, target models.ApprovalStatus) (*models.WorkerProfile, error) {
	if s.adminRequiresAuth {
		if err := s.guard.Authorize(ctx); err != nil {
			return nil, err
		}
	}

	worker, err := s.workerRepo.Update(ctx, utils.NormalizeID(id), func(w *models.WorkerProfile) error {
		if !w.CanTransitionTo(target) {
			return apperrors.InvalidTransition(string(w.Status), string(target))
		}
		w.Status = target
		return nil
	})
	if err != nil {
		return nil, err
	}
	if worker == nil {
		return nil, apperrors.NotFound("worker", id)
	}
	return worker, nil
}

// Update edits display and pricing fields. Bookings already made keep the
// values they copied.
func (s *workerService) Update(ctx context.Context, id string, upd *models.WorkerUpdate) (*models.WorkerProfile, error) {
	if err := s.guard.Authorize(ctx); err != nil {
		return nil, err
	}
	u := *upd
	if u.Name != nil {
		name := strings.TrimSpace(*u.Name)
		if name == "" {
			return nil, apperrors.Validation("name", "name is required")
		}
		u.Name = &name
	}
	if u.Phone != nil {
		phone := strings.TrimSpace(*u.Phone)
		if phone == "" {
			return nil, apperrors.Validation("phone", "phone is required")
		}
		u.Phone = &phone
	}
	if err := utils.ValidateStruct(&u); err != nil {
		return nil, err
	}

	worker, err := s.workerRepo.Update(ctx, utils.NormalizeID(id), func(w *models.WorkerProfile) error {
		w.Apply(&u)
		w.Portfolio = withPortfolioIDs(w.Portfolio)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if worker == nil {
		return nil, apperrors.NotFound("worker", id)
	}
	return worker, nil
}

func (s *workerService) IncrementReviewCount(ctx context.Context, id string) error {
	worker, err := s.workerRepo.Update(ctx, id, func(w *models.WorkerProfile) error {
		w.Reviews++
		return nil
	})
	if err != nil {
		return err
	}
	if worker == nil {
		return apperrors.NotFound("worker", id)
	}
	return nil
}

func withPortfolioIDs(items []models.PortfolioItem) []models.PortfolioItem {
	out := make([]models.PortfolioItem, len(items))
	for i, item := range items {
		if item.ID == "" {
			item.ID = utils.GenerateID()
		}
		out[i] = item
	}
	return out
}

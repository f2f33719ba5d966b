package service

import (
	"context"
	"errors"
	"strings"

	apperrors "github.com/aditya/worknearby/internal/errors"
	"github.com/aditya/worknearby/internal/models"
	"github.com/aditya/worknearby/internal/repository"
	"github.com/aditya/worknearby/pkg/utils"
)

type UserService interface {
	Upsert(ctx context.Context, user *models.User) (*models.User, error)
	Get(ctx context.Context, id string) (*models.User, error)
	Snapshot(ctx context.Context, id string) (models.CustomerSnapshot, error)
}

type userService struct {
	userRepo repository.UserRepository
	guard    Authorizer
}

func NewUserService(userRepo repository.UserRepository, guard Authorizer) UserService {
	return &userService{
		userRepo: userRepo,
		guard:    guard,
	}
}

// Upsert creates the user when the id is empty or unknown, otherwise replaces
// the stored profile.
func (s *userService) Upsert(ctx context.Context, user *models.User) (*models.User, error) {
	if err := s.guard.Authorize(ctx); err != nil {
		return nil, err
	}

	u := user.Clone()
	u.ID = utils.NormalizeID(u.ID)
	u.Name = strings.TrimSpace(u.Name)
	u.Phone = strings.TrimSpace(u.Phone)
	if err := utils.ValidateStruct(u); err != nil {
		return nil, err
	}

	var existing *models.User
	if u.ID != "" {
		var err error
		existing, err = s.userRepo.GetByID(ctx, u.ID)
		if err != nil {
			return nil, err
		}
	}

	var err error
	if existing != nil {
		err = s.userRepo.Update(ctx, u)
	} else {
		err = s.userRepo.Create(ctx, u)
	}
	if errors.Is(err, repository.ErrDuplicatePhone) {
		return nil, apperrors.Conflict("user with this phone already exists")
	}
	if err != nil {
		return nil, err
	}

	return u, nil
}

func (s *userService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, utils.NormalizeID(id))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NotFound("user", id)
	}
	return user, nil
}

// Snapshot returns the customer fields a new booking copies.
func (s *userService) Snapshot(ctx context.Context, id string) (models.CustomerSnapshot, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return models.CustomerSnapshot{}, err
	}
	return user.Snapshot(), nil
}

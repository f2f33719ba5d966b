package service

import (
	"context"
	"strings"
	"sync"

	"github.com/aditya/worknearby/internal/models"
	"github.com/aditya/worknearby/pkg/utils"
)

// PreferencesService keeps display settings for the device. It is not gated
// on a session.
type PreferencesService interface {
	Get(ctx context.Context) models.Preferences
	Update(ctx context.Context, upd *models.PreferencesUpdate) (models.Preferences, error)
}

type preferencesService struct {
	mu    sync.RWMutex
	prefs models.Preferences
}

func NewPreferencesService() PreferencesService {
	return &preferencesService{prefs: models.DefaultPreferences()}
}

func (s *preferencesService) Get(ctx context.Context) models.Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs
}

func (s *preferencesService) Update(ctx context.Context, upd *models.PreferencesUpdate) (models.Preferences, error) {
	if err := utils.ValidateStruct(upd); err != nil {
		return models.Preferences{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if upd.Theme != nil {
		s.prefs.Theme = *upd.Theme
	}
	if upd.Units != nil {
		s.prefs.Units = *upd.Units
	}
	if upd.Language != nil {
		s.prefs.Language = strings.ToLower(*upd.Language)
	}
	return s.prefs, nil
}

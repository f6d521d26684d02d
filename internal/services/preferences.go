package services

import (
	"context"
	"errors"
	"time"

	"github.com/GregMSThompson/decision-backend/internal/errs"
	"github.com/GregMSThompson/decision-backend/internal/models"
	"github.com/GregMSThompson/decision-backend/pkg/logger"
)

type preferencesStore interface {
	GetPreferences(ctx context.Context, uid string) (*models.UserPreferences, error)
	SavePreferences(ctx context.Context, uid string, prefs *models.UserPreferences) error
}

type preferencesService struct {
	Store    preferencesStore
	clockNow func() time.Time
}

func NewPreferencesService(store preferencesStore) *preferencesService {
	return &preferencesService{
		Store:    store,
		clockNow: time.Now,
	}
}

// Get returns the stored preferences or the built-in defaults.
func (s *preferencesService) Get(ctx context.Context, uid string) (*models.UserPreferences, error) {
	prefs, err := s.Store.GetPreferences(ctx, uid)
	if err != nil {
		var nf *errs.NotFoundError
		if errors.As(err, &nf) {
			return models.BuiltinPreferences(uid), nil
		}
		return nil, err
	}
	prefs.UID = uid
	return prefs, nil
}

func (s *preferencesService) Update(ctx context.Context, uid string, prefs models.UserPreferences) (*models.UserPreferences, error) {
	// Get logger from context - already has uid, request_id, method, path
	log := logger.FromContext(ctx)

	if err := prefs.Validate(); err != nil {
		return nil, err
	}
	prefs.UID = uid
	prefs.UpdatedAt = s.clockNow()

	if err := s.Store.SavePreferences(ctx, uid, &prefs); err != nil {
		log.Error("failed to save preferences", "error", err)
		return nil, err
	}

	log.Info("preferences updated", "roles", len(prefs.DefaultRoles), "language", prefs.DefaultLanguage)
	return &prefs, nil
}

package services

import (
	"context"

	"github.com/GregMSThompson/decision-backend/internal/models"
	"github.com/GregMSThompson/decision-backend/pkg/logger"
)

const DefaultHistoryLimit = 50

type historyStore interface {
	Save(ctx context.Context, uid string, item *models.HistoryItem) error
	Get(ctx context.Context, uid, id string) (*models.HistoryItem, error)
	List(ctx context.Context, uid string, limit int) ([]*models.HistoryItem, error)
	Delete(ctx context.Context, uid, id string) error
	Trim(ctx context.Context, uid string, keep int) (int, error)
	Clear(ctx context.Context, uid string) error
}

type cipher interface {
	Encrypt(ctx context.Context, plaintext string) (string, error)
	Decrypt(ctx context.Context, ciphertext string) (string, error)
}

type historyService struct {
	store  historyStore
	cipher cipher
	limit  int
}

func NewHistoryService(store historyStore, cipher cipher, limit int) *historyService {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &historyService{store: store, cipher: cipher, limit: limit}
}

// Save stores item and drops anything beyond the newest limit items. The
// caller's item is left in plaintext and keeps any inline media URLs; the
// stored copy does not.
func (s *historyService) Save(ctx context.Context, uid string, item *models.HistoryItem) error {
	log := logger.FromContext(ctx)

	sealed := *item
	if dropped := compact(&sealed); dropped > 0 {
		log.Warn("inline media not kept in history", "decision_id", item.ID, "dropped", dropped)
	}
	var err error
	if sealed.Input.Context, err = s.cipher.Encrypt(ctx, item.Input.Context); err != nil {
		return err
	}
	if sealed.Input.Constraints, err = s.cipher.Encrypt(ctx, item.Input.Constraints); err != nil {
		return err
	}

	if err := s.store.Save(ctx, uid, &sealed); err != nil {
		return err
	}

	removed, err := s.store.Trim(ctx, uid, s.limit)
	if err != nil {
		log.Warn("failed to trim history", "error", err)
		return nil
	}
	if removed > 0 {
		log.Debug("trimmed history", "removed", removed)
	}
	return nil
}

func (s *historyService) Get(ctx context.Context, uid, id string) (*models.HistoryItem, error) {
	item, err := s.store.Get(ctx, uid, id)
	if err != nil {
		return nil, err
	}
	if err := s.open(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *historyService) List(ctx context.Context, uid string) ([]*models.HistoryItem, error) {
	items, err := s.store.List(ctx, uid, s.limit)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if err := s.open(ctx, item); err != nil {
			return nil, err
		}
	}
	return items, nil
}

func (s *historyService) Delete(ctx context.Context, uid, id string) error {
	return s.store.Delete(ctx, uid, id)
}

func (s *historyService) Clear(ctx context.Context, uid string) error {
	if err := s.store.Clear(ctx, uid); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("history cleared")
	return nil
}

func (s *historyService) open(ctx context.Context, item *models.HistoryItem) error {
	var err error
	if item.Input.Context, err = s.cipher.Decrypt(ctx, item.Input.Context); err != nil {
		return err
	}
	item.Input.Constraints, err = s.cipher.Decrypt(ctx, item.Input.Constraints)
	return err
}

// compact removes inline payloads from item so stored documents stay small.
// Only hosted URLs survive. Media is copied so the caller's slice is not
// modified.
func compact(item *models.HistoryItem) int {
	dropped := 0
	if models.IsInlineURL(item.Result.VisualOutcomeURL) {
		item.Result.VisualOutcomeURL = ""
		dropped++
	}
	if models.IsInlineURL(item.Result.VideoOutcomeURL) {
		item.Result.VideoOutcomeURL = ""
		dropped++
	}
	if len(item.Input.Media) == 0 {
		return dropped
	}
	media := make([]models.MediaAttachment, len(item.Input.Media))
	for i, m := range item.Input.Media {
		if m.Data != "" || models.IsInlineURL(m.URL) {
			dropped++
		}
		media[i] = models.MediaAttachment{MIMEType: m.MIMEType}
		if !models.IsInlineURL(m.URL) {
			media[i].URL = m.URL
		}
	}
	item.Input.Media = media
	return dropped
}

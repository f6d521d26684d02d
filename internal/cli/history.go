package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cockroachdb/pebble"

	"github.com/GregMSThompson/decision-backend/internal/crypto"
	"github.com/GregMSThompson/decision-backend/internal/models"
	"github.com/GregMSThompson/decision-backend/internal/services"
	"github.com/GregMSThompson/decision-backend/internal/store"
)

// localUID keys the single-user local mirror.
const localUID = "local"

type historyBook interface {
	Save(ctx context.Context, uid string, item *models.HistoryItem) error
	Get(ctx context.Context, uid, id string) (*models.HistoryItem, error)
	List(ctx context.Context, uid string) ([]*models.HistoryItem, error)
	Delete(ctx context.Context, uid, id string) error
	Clear(ctx context.Context, uid string) error
}

// localHistory mirrors evaluations on disk, newest first and capped like
// the server's history.
type localHistory struct {
	db   *pebble.DB
	book historyBook
}

func openLocalHistory(path string) (*localHistory, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}
	db, err := store.OpenPebble(path)
	if err != nil {
		return nil, fmt.Errorf("open history %s: %w", path, err)
	}
	book := services.NewHistoryService(store.NewHistoryPebbleStore(db), crypto.NewPlain(), services.DefaultHistoryLimit)
	return &localHistory{db: db, book: book}, nil
}

func (h *localHistory) Close() error { return h.db.Close() }

func (h *localHistory) Save(ctx context.Context, item *models.HistoryItem) error {
	return h.book.Save(ctx, localUID, item)
}

func (h *localHistory) Get(ctx context.Context, id string) (*models.HistoryItem, error) {
	return h.book.Get(ctx, localUID, id)
}

func (h *localHistory) List(ctx context.Context) ([]*models.HistoryItem, error) {
	return h.book.List(ctx, localUID)
}

func (h *localHistory) Clear(ctx context.Context) error {
	return h.book.Clear(ctx, localUID)
}

// Replace swaps the mirror's contents for items.
func (h *localHistory) Replace(ctx context.Context, items []*models.HistoryItem) error {
	if err := h.Clear(ctx); err != nil {
		return err
	}
	for _, item := range items {
		if err := h.Save(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

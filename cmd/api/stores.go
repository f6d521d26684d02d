package main

import (
	"context"

	"github.com/GregMSThompson/decision-backend/internal/bootstrap"
	"github.com/GregMSThompson/decision-backend/internal/config"
	"github.com/GregMSThompson/decision-backend/internal/crypto"
	"github.com/GregMSThompson/decision-backend/internal/models"
	"github.com/GregMSThompson/decision-backend/internal/store"
)

type historyStore interface {
	Save(ctx context.Context, uid string, item *models.HistoryItem) error
	Get(ctx context.Context, uid, id string) (*models.HistoryItem, error)
	List(ctx context.Context, uid string, limit int) ([]*models.HistoryItem, error)
	Delete(ctx context.Context, uid, id string) error
	Trim(ctx context.Context, uid string, keep int) (int, error)
	Clear(ctx context.Context, uid string) error
}

type mediaStore interface {
	Put(ctx context.Context, uid, mimeType string, data []byte) (string, error)
}

type cipher interface {
	Encrypt(ctx context.Context, plaintext string) (string, error)
	Decrypt(ctx context.Context, ciphertext string) (string, error)
}

func newHistoryStore(cfg *config.Config, bs *bootstrap.Bootstrap) historyStore {
	switch {
	case bs.Mongo != nil:
		return store.NewHistoryMongoStore(bs.Mongo.Database(cfg.MongoDatabase))
	case bs.Pebble != nil:
		return store.NewHistoryPebbleStore(bs.Pebble)
	default:
		return store.NewHistoryStore(bs.Firestore)
	}
}

func newMediaStore(cfg *config.Config, bs *bootstrap.Bootstrap) mediaStore {
	if bs.Storage == nil {
		return store.NewInlineMediaStore()
	}
	return store.NewMediaStore(bs.Storage, cfg.MediaBucket)
}

func newCipher(cfg *config.Config, bs *bootstrap.Bootstrap) cipher {
	if bs.KMS == nil {
		return crypto.NewPlain()
	}
	return crypto.NewKMS(bs.KMS, cfg.KMSKeyName)
}

package bootstrap

import (
	"context"
	"errors"
	"log/slog"

	"cloud.google.com/go/firestore"
	kms "cloud.google.com/go/kms/apiv1"
	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/storage"
	"firebase.google.com/go/v4/auth"
	"github.com/cockroachdb/pebble"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	geminiclient "github.com/GregMSThompson/decision-backend/internal/client/gemini"
	vertexclient "github.com/GregMSThompson/decision-backend/internal/client/vertex"
	"github.com/GregMSThompson/decision-backend/internal/config"
	"github.com/GregMSThompson/decision-backend/pkg/logger"
)

type Bootstrap struct {
	Log       *slog.Logger
	Firestore *firestore.Client
	Firebase  *auth.Client
	KMS       *kms.KeyManagementClient
	Secrets   *secretmanager.Client
	Storage   *storage.Client
	Mongo     *mongo.Client
	Pebble    *pebble.DB
	Redis     *redis.Client

	GeminiAdapter *geminiclient.Adapter
	VertexAdapter *vertexclient.Adapter
}

func Run(ctx context.Context, cfg *config.Config) (*Bootstrap, error) {
	var err error
	bs := new(Bootstrap)

	bs.Log = logger.New(cfg.LogLevel, logger.NewCloudRunHandler)
	bs.Firestore, err = InitFirestore(ctx, cfg.ProjectID)
	if err != nil {
		return bs, err
	}
	if !cfg.AuthDisabled {
		bs.Firebase, err = InitFirebase(ctx, cfg.ProjectID)
		if err != nil {
			return bs, err
		}
	}
	if cfg.KMSKeyName != "" {
		bs.KMS, err = InitKMS(ctx)
		if err != nil {
			return bs, err
		}
	}
	if cfg.MediaBucket != "" {
		bs.Storage, err = InitStorage(ctx)
		if err != nil {
			return bs, err
		}
	}

	switch cfg.HistoryBackend {
	case config.HistoryMongo:
		bs.Mongo, err = InitMongo(ctx, cfg.MongoURI)
	case config.HistoryPebble:
		bs.Pebble, err = InitPebble(cfg.PebblePath)
	}
	if err != nil {
		return bs, err
	}

	if cfg.RedisAddr != "" {
		bs.Redis, err = InitRedis(ctx, cfg.RedisAddr)
		if err != nil {
			return bs, err
		}
	}

	apiKey := cfg.GeminiAPIKey
	if cfg.GeminiAPIKeySecret != "" {
		apiKey, err = bs.geminiKeyFromSecret(ctx, cfg)
		if err != nil {
			return bs, err
		}
	}
	bs.GeminiAdapter, err = geminiclient.NewAdapter(ctx, bs.Log, apiKey, cfg.VideoPollInterval)
	if err != nil {
		return bs, err
	}
	bs.VertexAdapter, err = vertexclient.NewAdapter(ctx, bs.Log, cfg.ProjectID, cfg.Region, cfg.Models.Chat)
	if err != nil {
		return bs, err
	}

	return bs, nil
}

// Close releases every client Run opened. It is safe on a partially
// initialized Bootstrap.
func (bs *Bootstrap) Close() error {
	var errList []error
	closeIf := func(ok bool, fn func() error) {
		if ok {
			if err := fn(); err != nil {
				errList = append(errList, err)
			}
		}
	}

	closeIf(bs.VertexAdapter != nil, func() error { return bs.VertexAdapter.Close() })
	closeIf(bs.GeminiAdapter != nil, func() error { return bs.GeminiAdapter.Close() })
	closeIf(bs.Redis != nil, func() error { return bs.Redis.Close() })
	closeIf(bs.Pebble != nil, func() error { return bs.Pebble.Close() })
	closeIf(bs.Mongo != nil, func() error { return bs.Mongo.Disconnect(context.Background()) })
	closeIf(bs.Storage != nil, func() error { return bs.Storage.Close() })
	closeIf(bs.Secrets != nil, func() error { return bs.Secrets.Close() })
	closeIf(bs.KMS != nil, func() error { return bs.KMS.Close() })
	closeIf(bs.Firestore != nil, func() error { return bs.Firestore.Close() })

	return errors.Join(errList...)
}

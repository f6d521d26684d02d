package bootstrap

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	kms "cloud.google.com/go/kms/apiv1"
	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/cockroachdb/pebble"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/GregMSThompson/decision-backend/internal/config"
	"github.com/GregMSThompson/decision-backend/internal/store"
)

func InitFirestore(ctx context.Context, projectID string) (*firestore.Client, error) {
	if projectID == "" {
		projectID = firestore.DetectProjectID
	}
	return firestore.NewClient(ctx, projectID)
}

func InitFirebase(ctx context.Context, projectID string) (*auth.Client, error) {
	var fbCfg *firebase.Config
	if projectID != "" {
		fbCfg = &firebase.Config{ProjectID: projectID}
	}
	app, err := firebase.NewApp(ctx, fbCfg)
	if err != nil {
		return nil, err
	}
	return app.Auth(ctx)
}

func InitKMS(ctx context.Context) (*kms.KeyManagementClient, error) {
	return kms.NewKeyManagementClient(ctx)
}

func InitStorage(ctx context.Context) (*storage.Client, error) {
	return storage.NewClient(ctx)
}

func InitMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	if uri == "" {
		return nil, fmt.Errorf("MONGO_URI is required for the mongo history backend")
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return client, nil
}

func InitPebble(path string) (*pebble.DB, error) {
	return store.OpenPebble(path)
}

func InitRedis(ctx context.Context, addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}

func (bs *Bootstrap) geminiKeyFromSecret(ctx context.Context, cfg *config.Config) (string, error) {
	if bs.Secrets == nil {
		client, err := secretmanager.NewClient(ctx)
		if err != nil {
			return "", err
		}
		bs.Secrets = client
	}
	return store.NewSecretsStore(bs.Secrets, cfg.ProjectID).AccessSecret(ctx, cfg.GeminiAPIKeySecret)
}

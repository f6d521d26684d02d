package store

import (
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/GregMSThompson/decision-backend/internal/errs"
	"github.com/GregMSThompson/decision-backend/internal/models"
	"github.com/GregMSThompson/decision-backend/pkg/helpers"
)

func TestHistoryMongoStore(t *testing.T) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set")
	}

	ctx := helpers.TestCtx()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatalf("mongo connect error: %v", err)
	}
	defer client.Disconnect(ctx)

	store := NewHistoryMongoStore(client.Database("decido_test"))
	uid := fmt.Sprintf("user-%d", time.Now().UnixNano())
	base := time.Now().UTC().Truncate(time.Millisecond)

	for i := 0; i < 3; i++ {
		item := &models.HistoryItem{ID: fmt.Sprintf("d%d", i), CreatedAt: base.Add(time.Duration(i) * time.Second)}
		if err := store.Save(ctx, uid, item); err != nil {
			t.Fatalf("save error: %v", err)
		}
	}

	removed, err := store.Trim(ctx, uid, 2)
	if err != nil || removed != 1 {
		t.Fatalf("trim = %d, %v", removed, err)
	}

	items, err := store.List(ctx, uid, 0)
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if len(items) != 2 || items[0].ID != "d2" {
		t.Fatalf("unexpected items: %d", len(items))
	}

	_, err = store.Get(ctx, uid, "d0")
	var nf *errs.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}

	if err := store.Clear(ctx, uid); err != nil {
		t.Fatalf("clear error: %v", err)
	}
}

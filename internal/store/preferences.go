package store

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/decision-backend/internal/errs"
	"github.com/GregMSThompson/decision-backend/internal/models"
)

type userDoc struct {
	Preferences *models.UserPreferences `firestore:"preferences"`
}

type preferencesStore struct {
	Client     *firestore.Client
	Collection *firestore.CollectionRef
}

func NewPreferencesStore(client *firestore.Client) *preferencesStore {
	return &preferencesStore{
		Client:     client,
		Collection: client.Collection("users"),
	}
}

func (ps *preferencesStore) GetPreferences(ctx context.Context, uid string) (*models.UserPreferences, error) {
	doc, err := ps.Collection.Doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("preferences not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get preferences", err)
	}

	var user userDoc
	if err := doc.DataTo(&user); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse preferences", err)
	}
	if user.Preferences == nil {
		return nil, errs.NewNotFoundError("preferences not found")
	}
	return user.Preferences, nil
}

func (ps *preferencesStore) SavePreferences(ctx context.Context, uid string, prefs *models.UserPreferences) error {
	_, err := ps.Collection.Doc(uid).Set(ctx, map[string]any{"preferences": prefs}, firestore.MergeAll)
	if err != nil {
		return errs.NewDatabaseError("update", "failed to save preferences", err)
	}
	return nil
}

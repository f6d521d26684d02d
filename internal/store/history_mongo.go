package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/GregMSThompson/decision-backend/internal/errs"
	"github.com/GregMSThompson/decision-backend/internal/models"
)

type mongoHistoryDoc struct {
	UID                string `bson:"uid"`
	models.HistoryItem `bson:",inline"`
}

type historyMongoStore struct {
	coll *mongo.Collection
}

func NewHistoryMongoStore(db *mongo.Database) *historyMongoStore {
	return &historyMongoStore{coll: db.Collection("decisions")}
}

func byID(uid, id string) bson.M {
	return bson.M{"uid": uid, "id": id}
}

func (s *historyMongoStore) Save(ctx context.Context, uid string, item *models.HistoryItem) error {
	doc := mongoHistoryDoc{UID: uid, HistoryItem: *item}
	_, err := s.coll.ReplaceOne(ctx, byID(uid, item.ID), doc, options.Replace().SetUpsert(true))
	if err != nil {
		return errs.NewDatabaseError("create", "failed to save decision", err)
	}
	return nil
}

func (s *historyMongoStore) Get(ctx context.Context, uid, id string) (*models.HistoryItem, error) {
	var doc mongoHistoryDoc
	err := s.coll.FindOne(ctx, byID(uid, id)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.NewNotFoundError("decision not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get decision", err)
	}
	return &doc.HistoryItem, nil
}

func (s *historyMongoStore) List(ctx context.Context, uid string, limit int) ([]*models.HistoryItem, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := s.coll.Find(ctx, bson.M{"uid": uid}, opts)
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list decisions", err)
	}
	defer cur.Close(ctx)

	items := []*models.HistoryItem{}
	for cur.Next(ctx) {
		var doc mongoHistoryDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse decision data", err)
		}
		item := doc.HistoryItem
		items = append(items, &item)
	}
	if err := cur.Err(); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list decisions", err)
	}
	return items, nil
}

func (s *historyMongoStore) Delete(ctx context.Context, uid, id string) error {
	if _, err := s.coll.DeleteOne(ctx, byID(uid, id)); err != nil {
		return errs.NewDatabaseError("delete", "failed to delete decision", err)
	}
	return nil
}

func (s *historyMongoStore) Trim(ctx context.Context, uid string, keep int) (int, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64(keep)).
		SetProjection(bson.M{"id": 1})
	cur, err := s.coll.Find(ctx, bson.M{"uid": uid}, opts)
	if err != nil {
		return 0, errs.NewDatabaseError("read", "failed to list decisions to trim", err)
	}
	var stale []struct {
		ID string `bson:"id"`
	}
	if err := cur.All(ctx, &stale); err != nil {
		return 0, errs.NewDatabaseError("read", "failed to list decisions to trim", err)
	}
	if len(stale) == 0 {
		return 0, nil
	}

	ids := make([]string, 0, len(stale))
	for _, doc := range stale {
		ids = append(ids, doc.ID)
	}
	res, err := s.coll.DeleteMany(ctx, bson.M{"uid": uid, "id": bson.M{"$in": ids}})
	if err != nil {
		return 0, errs.NewDatabaseError("delete", "failed to trim decisions", err)
	}
	return int(res.DeletedCount), nil
}

func (s *historyMongoStore) Clear(ctx context.Context, uid string) error {
	if _, err := s.coll.DeleteMany(ctx, bson.M{"uid": uid}); err != nil {
		return errs.NewDatabaseError("delete", "failed to clear decisions", err)
	}
	return nil
}

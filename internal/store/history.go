package store

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/decision-backend/internal/errs"
	"github.com/GregMSThompson/decision-backend/internal/models"
	"github.com/GregMSThompson/decision-backend/pkg/logger"
)

type historyStore struct {
	client *firestore.Client
}

func NewHistoryStore(client *firestore.Client) *historyStore {
	return &historyStore{client: client}
}

func (s *historyStore) collection(uid string) *firestore.CollectionRef {
	return s.client.Collection("users").Doc(uid).Collection("decisions")
}

func (s *historyStore) Save(ctx context.Context, uid string, item *models.HistoryItem) error {
	_, err := s.collection(uid).Doc(item.ID).Set(ctx, item)
	if err != nil {
		return errs.NewDatabaseError("create", "failed to save decision", err)
	}
	return nil
}

func (s *historyStore) Get(ctx context.Context, uid, id string) (*models.HistoryItem, error) {
	doc, err := s.collection(uid).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("decision not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get decision", err)
	}
	var item models.HistoryItem
	if err := doc.DataTo(&item); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse decision data", err)
	}
	return &item, nil
}

func (s *historyStore) List(ctx context.Context, uid string, limit int) ([]*models.HistoryItem, error) {
	query := s.collection(uid).OrderBy("createdAt", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}
	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list decisions", err)
	}
	items := make([]*models.HistoryItem, 0, len(docs))
	for _, d := range docs {
		var item models.HistoryItem
		if err := d.DataTo(&item); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse decision data", err)
		}
		items = append(items, &item)
	}
	return items, nil
}

func (s *historyStore) Delete(ctx context.Context, uid, id string) error {
	_, err := s.collection(uid).Doc(id).Delete(ctx)
	if err != nil {
		return errs.NewDatabaseError("delete", "failed to delete decision", err)
	}
	return nil
}

// Trim deletes everything older than the newest keep decisions.
func (s *historyStore) Trim(ctx context.Context, uid string, keep int) (int, error) {
	docs, err := s.collection(uid).OrderBy("createdAt", firestore.Desc).Offset(keep).Documents(ctx).GetAll()
	if err != nil {
		return 0, errs.NewDatabaseError("read", "failed to list decisions to trim", err)
	}
	return len(docs), s.bulkDelete(ctx, docs)
}

func (s *historyStore) Clear(ctx context.Context, uid string) error {
	docs, err := s.collection(uid).Documents(ctx).GetAll()
	if err != nil {
		return errs.NewDatabaseError("read", "failed to list decisions", err)
	}
	return s.bulkDelete(ctx, docs)
}

type bulkDeleteJob struct {
	id  string
	job *firestore.BulkWriterJob
}

func (s *historyStore) bulkDelete(ctx context.Context, docs []*firestore.DocumentSnapshot) error {
	if len(docs) == 0 {
		return nil
	}
	log := logger.FromContext(ctx)
	bw := s.client.BulkWriter(ctx)

	jobs := make([]bulkDeleteJob, 0, len(docs))
	for _, d := range docs {
		j, err := bw.Delete(d.Ref)
		if err != nil {
			bw.End()
			return errs.NewDatabaseError("delete", "failed to schedule decision delete", err)
		}
		jobs = append(jobs, bulkDeleteJob{id: d.Ref.ID, job: j})
	}
	bw.End()

	for _, entry := range jobs {
		if _, err := entry.job.Results(); err != nil {
			log.Error("failed to delete decision", "decision_id", entry.id, "error", err)
			return errs.NewDatabaseError("delete", "failed to delete decision", err)
		}
	}
	return nil
}

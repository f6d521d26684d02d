package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/cockroachdb/pebble"

	"github.com/GregMSThompson/decision-backend/internal/errs"
	"github.com/GregMSThompson/decision-backend/internal/models"
)

// Keys:
//   history:<len>:<uid>:<inverted-nanos>:<id>  -> item JSON (iterates newest first)
//   historyid:<len>:<uid>:<id>                 -> primary key
//
// The uid is length-prefixed so no uid's prefix matches another uid's keys.

type historyPebbleStore struct {
	db *pebble.DB
}

func NewHistoryPebbleStore(db *pebble.DB) *historyPebbleStore {
	return &historyPebbleStore{db: db}
}

func OpenPebble(path string) (*pebble.DB, error) {
	return pebble.Open(path, &pebble.Options{})
}

func uidSegment(uid string) string {
	return fmt.Sprintf("%d:%s:", len(uid), uid)
}

func historyPrefix(uid string) []byte {
	return []byte("history:" + uidSegment(uid))
}

func historyIndexPrefix(uid string) []byte {
	return []byte("historyid:" + uidSegment(uid))
}

func historyKey(uid string, item *models.HistoryItem) []byte {
	inverted := math.MaxInt64 - item.CreatedAt.UnixNano()
	return []byte(fmt.Sprintf("%s%020d:%s", historyPrefix(uid), inverted, item.ID))
}

func historyIndexKey(uid, id string) []byte {
	return append(historyIndexPrefix(uid), id...)
}

// upperBound returns the smallest key greater than every key with prefix.
func upperBound(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	end[len(end)-1]++
	return end
}

func (s *historyPebbleStore) Save(_ context.Context, uid string, item *models.HistoryItem) error {
	data, err := json.Marshal(item)
	if err != nil {
		return errs.NewDatabaseError("create", "failed to encode decision", err)
	}

	b := s.db.NewBatch()
	defer b.Close()

	// replacing an existing id must drop its old primary key
	if old, err := s.primaryKey(uid, item.ID); err == nil {
		if err := b.Delete(old, nil); err != nil {
			return errs.NewDatabaseError("create", "failed to replace decision", err)
		}
	}
	key := historyKey(uid, item)
	if err := b.Set(key, data, nil); err != nil {
		return errs.NewDatabaseError("create", "failed to save decision", err)
	}
	if err := b.Set(historyIndexKey(uid, item.ID), key, nil); err != nil {
		return errs.NewDatabaseError("create", "failed to index decision", err)
	}
	if err := b.Commit(pebble.Sync); err != nil {
		return errs.NewDatabaseError("create", "failed to save decision", err)
	}
	return nil
}

func (s *historyPebbleStore) primaryKey(uid, id string) ([]byte, error) {
	v, closer, err := s.db.Get(historyIndexKey(uid, id))
	if err != nil {
		return nil, err
	}
	defer closer.Close()
	return append([]byte(nil), v...), nil
}

func (s *historyPebbleStore) Get(_ context.Context, uid, id string) (*models.HistoryItem, error) {
	key, err := s.primaryKey(uid, id)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, errs.NewNotFoundError("decision not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get decision", err)
	}
	v, closer, err := s.db.Get(key)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, errs.NewNotFoundError("decision not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get decision", err)
	}
	defer closer.Close()

	var item models.HistoryItem
	if err := json.Unmarshal(v, &item); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse decision data", err)
	}
	return &item, nil
}

func (s *historyPebbleStore) List(_ context.Context, uid string, limit int) ([]*models.HistoryItem, error) {
	items := []*models.HistoryItem{}
	err := s.scan(uid, func(_ []byte, v []byte) (bool, error) {
		var item models.HistoryItem
		if err := json.Unmarshal(v, &item); err != nil {
			return false, errs.NewDatabaseError("read", "failed to parse decision data", err)
		}
		items = append(items, &item)
		return limit <= 0 || len(items) < limit, nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// scan walks uid's decisions newest first until fn returns false.
func (s *historyPebbleStore) scan(uid string, fn func(key, value []byte) (bool, error)) error {
	prefix := historyPrefix(uid)
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: upperBound(prefix),
	})
	if err != nil {
		return errs.NewDatabaseError("read", "failed to open iterator", err)
	}
	defer iter.Close()

	for iter.SeekGE(prefix); iter.Valid(); iter.Next() {
		if !bytes.HasPrefix(iter.Key(), prefix) {
			break
		}
		more, err := fn(append([]byte(nil), iter.Key()...), iter.Value())
		if err != nil {
			return err
		}
		if !more {
			break
		}
	}
	if err := iter.Error(); err != nil {
		return errs.NewDatabaseError("read", "failed to iterate decisions", err)
	}
	return nil
}

func (s *historyPebbleStore) Delete(_ context.Context, uid, id string) error {
	key, err := s.primaryKey(uid, id)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil
	}
	if err != nil {
		return errs.NewDatabaseError("delete", "failed to delete decision", err)
	}

	b := s.db.NewBatch()
	defer b.Close()
	_ = b.Delete(key, nil)
	_ = b.Delete(historyIndexKey(uid, id), nil)
	if err := b.Commit(pebble.Sync); err != nil {
		return errs.NewDatabaseError("delete", "failed to delete decision", err)
	}
	return nil
}

func (s *historyPebbleStore) Trim(_ context.Context, uid string, keep int) (int, error) {
	type stale struct {
		key []byte
		id  string
	}
	var drop []stale
	seen := 0
	err := s.scan(uid, func(k, v []byte) (bool, error) {
		seen++
		if seen <= keep {
			return true, nil
		}
		var item models.HistoryItem
		if err := json.Unmarshal(v, &item); err != nil {
			return false, errs.NewDatabaseError("read", "failed to parse decision data", err)
		}
		drop = append(drop, stale{key: k, id: item.ID})
		return true, nil
	})
	if err != nil || len(drop) == 0 {
		return 0, err
	}

	b := s.db.NewBatch()
	defer b.Close()
	for _, d := range drop {
		_ = b.Delete(d.key, nil)
		_ = b.Delete(historyIndexKey(uid, d.id), nil)
	}
	if err := b.Commit(pebble.Sync); err != nil {
		return 0, errs.NewDatabaseError("delete", "failed to trim decisions", err)
	}
	return len(drop), nil
}

func (s *historyPebbleStore) Clear(_ context.Context, uid string) error {
	b := s.db.NewBatch()
	defer b.Close()
	for _, prefix := range [][]byte{historyPrefix(uid), historyIndexPrefix(uid)} {
		if err := b.DeleteRange(prefix, upperBound(prefix), nil); err != nil {
			return errs.NewDatabaseError("delete", "failed to clear decisions", err)
		}
	}
	if err := b.Commit(pebble.Sync); err != nil {
		return errs.NewDatabaseError("delete", "failed to clear decisions", err)
	}
	return nil
}

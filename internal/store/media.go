package store

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"

	"github.com/GregMSThompson/decision-backend/internal/errs"
)

var extensions = map[string]string{
	"image/png":       "png",
	"image/jpeg":      "jpg",
	"image/webp":      "webp",
	"video/mp4":       "mp4",
	"audio/wav":       "wav",
	"audio/webm":      "webm",
	"audio/mpeg":      "mp3",
	"application/pdf": "pdf",
}

func objectName(uid, mimeType string) string {
	ext, ok := extensions[strings.ToLower(mimeType)]
	if !ok {
		ext = "bin"
	}
	return fmt.Sprintf("media/%s/%s.%s", uid, uuid.NewString(), ext)
}

type mediaStore struct {
	client *storage.Client
	bucket string
}

func NewMediaStore(client *storage.Client, bucket string) *mediaStore {
	return &mediaStore{client: client, bucket: bucket}
}

// Put uploads data and returns its public URL.
func (s *mediaStore) Put(ctx context.Context, uid, mimeType string, data []byte) (string, error) {
	name := objectName(uid, mimeType)
	w := s.client.Bucket(s.bucket).Object(name).NewWriter(ctx)
	w.ContentType = mimeType
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", errs.NewDatabaseError("create", "failed to upload media", err)
	}
	if err := w.Close(); err != nil {
		return "", errs.NewDatabaseError("create", "failed to upload media", err)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, name), nil
}

type inlineMediaStore struct{}

// NewInlineMediaStore returns a media store that encodes objects as data
// URLs, used when no bucket is configured.
func NewInlineMediaStore() inlineMediaStore {
	return inlineMediaStore{}
}

func (inlineMediaStore) Put(_ context.Context, _ string, mimeType string, data []byte) (string, error) {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data)), nil
}

package services

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/GregMSThompson/decision-backend/internal/dto"
	"github.com/GregMSThompson/decision-backend/internal/errs"
	"github.com/GregMSThompson/decision-backend/internal/models"
)

type fakeGeminiClient struct {
	responses []dto.GeminiGenerateResponse
	err       error
	requests  []dto.GeminiGenerateRequest

	video      dto.GeminiVideoResponse
	videoErr   error
	videoCalls []dto.GeminiVideoRequest
}

func (f *fakeGeminiClient) GenerateContent(ctx context.Context, req dto.GeminiGenerateRequest) (dto.GeminiGenerateResponse, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return dto.GeminiGenerateResponse{}, f.err
	}
	if len(f.responses) == 0 {
		return dto.GeminiGenerateResponse{}, errors.New("no responses configured")
	}
	resp := f.responses[0]
	f.responses = f.responses[1:]
	return resp, nil
}

func (f *fakeGeminiClient) GenerateVideo(ctx context.Context, req dto.GeminiVideoRequest) (dto.GeminiVideoResponse, error) {
	f.videoCalls = append(f.videoCalls, req)
	return f.video, f.videoErr
}

type fakeVertexClient struct {
	responses []dto.VertexGenerateResponse
	err       error
	requests  []dto.VertexGenerateRequest
}

func (f *fakeVertexClient) GenerateContent(ctx context.Context, req dto.VertexGenerateRequest) (dto.VertexGenerateResponse, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return dto.VertexGenerateResponse{}, f.err
	}
	if len(f.responses) == 0 {
		return dto.VertexGenerateResponse{}, errors.New("no responses configured")
	}
	resp := f.responses[0]
	f.responses = f.responses[1:]
	return resp, nil
}

type fakeMediaStore struct {
	err  error
	puts []string
}

func (f *fakeMediaStore) Put(ctx context.Context, uid, mimeType string, data []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.puts = append(f.puts, mimeType)
	return "https://media.example/" + uid + "/" + mimeType, nil
}

type fakePreferences struct {
	prefs *models.UserPreferences
	err   error
}

func (f *fakePreferences) Get(ctx context.Context, uid string) (*models.UserPreferences, error) {
	return f.prefs, f.err
}

// memHistoryStore keeps items per uid, newest first.
type memHistoryStore struct {
	items map[string][]*models.HistoryItem
}

func newMemHistoryStore() *memHistoryStore {
	return &memHistoryStore{items: map[string][]*models.HistoryItem{}}
}

func (m *memHistoryStore) Save(ctx context.Context, uid string, item *models.HistoryItem) error {
	cp := *item
	list := m.items[uid]
	for i, existing := range list {
		if existing.ID == item.ID {
			list = append(list[:i], list[i+1:]...)
			break
		}
	}
	list = append(list, &cp)
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	m.items[uid] = list
	return nil
}

func (m *memHistoryStore) Get(ctx context.Context, uid, id string) (*models.HistoryItem, error) {
	for _, item := range m.items[uid] {
		if item.ID == id {
			cp := *item
			return &cp, nil
		}
	}
	return nil, errs.NewNotFoundError("decision not found")
}

func (m *memHistoryStore) List(ctx context.Context, uid string, limit int) ([]*models.HistoryItem, error) {
	out := []*models.HistoryItem{}
	for _, item := range m.items[uid] {
		if limit > 0 && len(out) == limit {
			break
		}
		cp := *item
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memHistoryStore) Delete(ctx context.Context, uid, id string) error {
	list := m.items[uid]
	for i, item := range list {
		if item.ID == id {
			m.items[uid] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *memHistoryStore) Trim(ctx context.Context, uid string, keep int) (int, error) {
	list := m.items[uid]
	if len(list) <= keep {
		return 0, nil
	}
	m.items[uid] = list[:keep]
	return len(list) - keep, nil
}

func (m *memHistoryStore) Clear(ctx context.Context, uid string) error {
	delete(m.items, uid)
	return nil
}

// rot13Cipher is a reversible stand-in for KMS.
type rot13Cipher struct{}

func rot13(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return 'a' + (r-'a'+13)%26
		case r >= 'A' && r <= 'Z':
			return 'A' + (r-'A'+13)%26
		}
		return r
	}, s)
}

func (rot13Cipher) Encrypt(ctx context.Context, s string) (string, error) { return rot13(s), nil }
func (rot13Cipher) Decrypt(ctx context.Context, s string) (string, error) { return rot13(s), nil }

type fakeChatStore struct {
	messages map[string][]models.ChatMessage
	listErr  error
	limits   []int
}

func newFakeChatStore() *fakeChatStore {
	return &fakeChatStore{messages: map[string][]models.ChatMessage{}}
}

func (f *fakeChatStore) SaveMessage(ctx context.Context, uid, sessionID string, msg models.ChatMessage) error {
	key := uid + "/" + sessionID
	f.messages[key] = append(f.messages[key], msg)
	return nil
}

func (f *fakeChatStore) ListMessages(ctx context.Context, uid, sessionID string, limit int) ([]models.ChatMessage, error) {
	f.limits = append(f.limits, limit)
	if f.listErr != nil {
		return nil, f.listErr
	}
	msgs := f.messages[uid+"/"+sessionID]
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	return append([]models.ChatMessage(nil), msgs...), nil
}

type fakeExplainCache struct {
	values map[string]string
	getErr error
	setErr error
	sets   int
}

func (f *fakeExplainCache) Get(ctx context.Context, term string) (string, bool, error) {
	if f.getErr != nil {
		return "", false, f.getErr
	}
	v, ok := f.values[strings.ToLower(term)]
	return v, ok, nil
}

func (f *fakeExplainCache) Set(ctx context.Context, term, explanation string) error {
	f.sets++
	if f.setErr != nil {
		return f.setErr
	}
	f.values[strings.ToLower(term)] = explanation
	return nil
}

type fakePreferencesStore struct {
	prefs *models.UserPreferences
	err   error
	saved *models.UserPreferences
}

func (f *fakePreferencesStore) GetPreferences(ctx context.Context, uid string) (*models.UserPreferences, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.prefs == nil {
		return nil, errs.NewNotFoundError("preferences not found")
	}
	return f.prefs, nil
}

func (f *fakePreferencesStore) SavePreferences(ctx context.Context, uid string, prefs *models.UserPreferences) error {
	f.saved = prefs
	return f.err
}

package handlers

import (
	"context"
	"net/http"

	"github.com/GregMSThompson/decision-backend/internal/dto"
	"github.com/GregMSThompson/decision-backend/internal/middleware"
	"github.com/GregMSThompson/decision-backend/internal/models"
)

type stubResponseHandler struct {
	writeSuccessCalled bool
	writeSuccessStatus int
	writeSuccessData   any

	writeBytesCalled bool
	writeBytesType   string
	writeBytesData   []byte

	handleErrorCalled bool
	handleError       error
}

func (s *stubResponseHandler) WriteSuccess(w http.ResponseWriter, r *http.Request, status int, data any) {
	s.writeSuccessCalled = true
	s.writeSuccessStatus = status
	s.writeSuccessData = data
	w.WriteHeader(status)
}

func (s *stubResponseHandler) WriteBytes(w http.ResponseWriter, r *http.Request, contentType string, data []byte) {
	s.writeBytesCalled = true
	s.writeBytesType = contentType
	s.writeBytesData = data
	w.Header().Set("Content-Type", contentType)
	w.Write(data)
}

func (s *stubResponseHandler) WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	w.WriteHeader(status)
}

func (s *stubResponseHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	s.handleErrorCalled = true
	s.handleError = err
	w.WriteHeader(http.StatusInternalServerError)
}

type stubDecisionService struct {
	called bool
	uid    string
	input  models.DecisionInput
	item   *models.HistoryItem
	err    error
	// release, when set, blocks Evaluate until closed.
	release chan struct{}
	// started and cancelled, when set, are closed as Evaluate begins and
	// when its context is cancelled.
	started   chan struct{}
	cancelled chan struct{}
}

func (s *stubDecisionService) Evaluate(ctx context.Context, uid string, input models.DecisionInput) (*models.HistoryItem, error) {
	s.called = true
	s.uid = uid
	s.input = input
	if s.started != nil {
		close(s.started)
	}
	if s.release != nil {
		select {
		case <-s.release:
		case <-ctx.Done():
			if s.cancelled != nil {
				close(s.cancelled)
			}
			return nil, ctx.Err()
		}
	}
	return s.item, s.err
}

func (s *stubDecisionService) Steps() []models.LoadingStep { return models.LoadingSteps }

type stubMediaService struct {
	uid, subject, aspect string
	historyID            string
	speechText           string
	speechLang           models.Language
	audio                []byte
	audioMIME            string

	url  string
	wav  []byte
	text string
	err  error
}

func (s *stubMediaService) Visual(ctx context.Context, uid, subject, aspectRatio string) (string, error) {
	s.uid, s.subject, s.aspect = uid, subject, aspectRatio
	return s.url, s.err
}

func (s *stubMediaService) Video(ctx context.Context, uid, historyID string) (string, error) {
	s.uid, s.historyID = uid, historyID
	return s.url, s.err
}

func (s *stubMediaService) Speech(ctx context.Context, text string, language models.Language) ([]byte, error) {
	s.speechText, s.speechLang = text, language
	return s.wav, s.err
}

func (s *stubMediaService) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	s.audio, s.audioMIME = audio, mimeType
	return s.text, s.err
}

type stubChatService struct {
	called        bool
	uid, sid, msg string
	resp          dto.ChatResponse
	msgs          []models.ChatMessage
	err           error
}

func (s *stubChatService) Chat(ctx context.Context, uid, sessionID, message string) (dto.ChatResponse, error) {
	s.called = true
	s.uid, s.sid, s.msg = uid, sessionID, message
	return s.resp, s.err
}

func (s *stubChatService) Messages(ctx context.Context, uid, sessionID string) ([]models.ChatMessage, error) {
	s.uid, s.sid = uid, sessionID
	return s.msgs, s.err
}

type stubExplainService struct {
	called bool
	term   string
	err    error
}

func (s *stubExplainService) Explain(ctx context.Context, term string) (dto.ExplainResponse, error) {
	s.called = true
	s.term = term
	return dto.ExplainResponse{Term: term, Explanation: "short"}, s.err
}

type stubHistoryService struct {
	uid, id string
	cleared bool
	deleted bool
	items   []*models.HistoryItem
	err     error
}

func (s *stubHistoryService) List(ctx context.Context, uid string) ([]*models.HistoryItem, error) {
	s.uid = uid
	return s.items, s.err
}

func (s *stubHistoryService) Get(ctx context.Context, uid, id string) (*models.HistoryItem, error) {
	s.uid, s.id = uid, id
	if s.err != nil {
		return nil, s.err
	}
	return &models.HistoryItem{ID: id}, nil
}

func (s *stubHistoryService) Delete(ctx context.Context, uid, id string) error {
	s.uid, s.id = uid, id
	s.deleted = s.err == nil
	return s.err
}

func (s *stubHistoryService) Clear(ctx context.Context, uid string) error {
	s.uid = uid
	s.cleared = s.err == nil
	return s.err
}

type stubPreferencesService struct {
	uid   string
	saved models.UserPreferences
	err   error
}

func (s *stubPreferencesService) Get(ctx context.Context, uid string) (*models.UserPreferences, error) {
	s.uid = uid
	return models.BuiltinPreferences(uid), s.err
}

func (s *stubPreferencesService) Update(ctx context.Context, uid string, prefs models.UserPreferences) (*models.UserPreferences, error) {
	s.uid = uid
	s.saved = prefs
	if s.err != nil {
		return nil, s.err
	}
	prefs.UID = uid
	return &prefs, nil
}

func withTestUID(r *http.Request, uid string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), middleware.UIDKey, uid))
}

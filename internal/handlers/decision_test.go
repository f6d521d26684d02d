package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/GregMSThompson/decision-backend/internal/dto"
	"github.com/GregMSThompson/decision-backend/internal/errs"
	"github.com/GregMSThompson/decision-backend/internal/models"
)

func TestEvaluateSuccess(t *testing.T) {
	svc := &stubDecisionService{item: &models.HistoryItem{ID: "h1"}}
	resp := &stubResponseHandler{}
	h := NewDecisionHandlers(&Deps{ResponseHandler: resp, DecisionSvc: svc})

	body := `{"question":"Should I move?","context":"New job offer","enabledRoles":["Analyst"]}`
	req := withTestUID(httptest.NewRequest(http.MethodPost, "/evaluate", strings.NewReader(body)), "uid-1")
	rr := httptest.NewRecorder()

	h.Evaluate(rr, req)

	if !svc.called || svc.uid != "uid-1" {
		t.Fatalf("expected Evaluate called with uid-1, got called=%v uid=%q", svc.called, svc.uid)
	}
	if svc.input.Question != "Should I move?" || svc.input.Context != "New job offer" {
		t.Fatalf("service received wrong input: %+v", svc.input)
	}
	if !resp.writeSuccessCalled || resp.writeSuccessStatus != http.StatusOK {
		t.Fatalf("WriteSuccess not called with status 200")
	}
	if item, ok := resp.writeSuccessData.(*models.HistoryItem); !ok || item.ID != "h1" {
		t.Fatalf("unexpected success payload: %#v", resp.writeSuccessData)
	}
}

func TestEvaluateInvalidJSON(t *testing.T) {
	svc := &stubDecisionService{}
	resp := &stubResponseHandler{}
	h := NewDecisionHandlers(&Deps{ResponseHandler: resp, DecisionSvc: svc})

	req := httptest.NewRequest(http.MethodPost, "/evaluate", strings.NewReader("not-json"))
	rr := httptest.NewRecorder()

	h.Evaluate(rr, req)

	if svc.called {
		t.Fatalf("Evaluate should not be called when JSON invalid")
	}
	var ve *errs.ValidationError
	if !resp.handleErrorCalled || !errors.As(resp.handleError, &ve) {
		t.Fatalf("expected validation error, got %v", resp.handleError)
	}
}

func TestEvaluateServiceError(t *testing.T) {
	svc := &stubDecisionService{err: errors.New("model down")}
	resp := &stubResponseHandler{}
	h := NewDecisionHandlers(&Deps{ResponseHandler: resp, DecisionSvc: svc})

	req := httptest.NewRequest(http.MethodPost, "/evaluate", strings.NewReader(`{"question":"q"}`))
	rr := httptest.NewRecorder()

	h.Evaluate(rr, req)

	if !errors.Is(resp.handleError, svc.err) {
		t.Fatalf("unexpected error passed to HandleError: %v", resp.handleError)
	}
	if resp.writeSuccessCalled {
		t.Fatalf("WriteSuccess should not be called on service error")
	}
}

func TestSteps(t *testing.T) {
	resp := &stubResponseHandler{}
	h := NewDecisionHandlers(&Deps{ResponseHandler: resp, DecisionSvc: &stubDecisionService{}})

	h.Steps(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/steps", nil))

	steps, ok := resp.writeSuccessData.([]models.LoadingStep)
	if !ok || len(steps) != len(models.LoadingSteps) {
		t.Fatalf("unexpected steps payload: %#v", resp.writeSuccessData)
	}
}

func TestVideoUsesRouteID(t *testing.T) {
	media := &stubMediaService{url: "https://example.com/v.mp4"}
	resp := &stubResponseHandler{}
	h := NewDecisionHandlers(&Deps{ResponseHandler: resp, MediaSvc: media})

	req := withTestUID(httptest.NewRequest(http.MethodPost, "/h-42/video", nil), "uid-1")
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "h-42")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	rr := httptest.NewRecorder()

	h.Video(rr, req)

	if media.historyID != "h-42" || media.uid != "uid-1" {
		t.Fatalf("service received wrong ids: uid=%q id=%q", media.uid, media.historyID)
	}
	got, ok := resp.writeSuccessData.(dto.VideoResponse)
	if !ok || got.VideoOutcomeURL != media.url || got.ID != "h-42" {
		t.Fatalf("unexpected video payload: %#v", resp.writeSuccessData)
	}
}

type streamFrame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func dialStream(t *testing.T, h *decisionHandlers) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(h.Stream))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestStreamSendsStepsThenResult(t *testing.T) {
	svc := &stubDecisionService{
		item:    &models.HistoryItem{ID: "h1"},
		release: make(chan struct{}),
	}
	h := NewDecisionHandlers(&Deps{ResponseHandler: &stubResponseHandler{}, DecisionSvc: svc})
	h.stepInterval = 5 * time.Millisecond

	conn := dialStream(t, h)
	if err := conn.WriteJSON(models.DecisionInput{Question: "q", Context: "c"}); err != nil {
		t.Fatalf("write input: %v", err)
	}
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var steps []models.LoadingStep
	for len(steps) < 3 {
		var f streamFrame
		if err := conn.ReadJSON(&f); err != nil {
			t.Fatalf("read step: %v", err)
		}
		if f.Type != dto.StreamTypeStep {
			t.Fatalf("expected step frame, got %q", f.Type)
		}
		var s models.LoadingStep
		if err := json.Unmarshal(f.Data, &s); err != nil {
			t.Fatalf("decode step: %v", err)
		}
		steps = append(steps, s)
	}
	if steps[0] != models.LoadingSteps[0] || steps[1] != models.LoadingSteps[1] {
		t.Fatalf("steps out of order: %+v", steps)
	}

	close(svc.release)
	for {
		var f streamFrame
		if err := conn.ReadJSON(&f); err != nil {
			t.Fatalf("read result: %v", err)
		}
		if f.Type == dto.StreamTypeStep {
			continue
		}
		if f.Type != dto.StreamTypeResult {
			t.Fatalf("expected result frame, got %q", f.Type)
		}
		var item models.HistoryItem
		if err := json.Unmarshal(f.Data, &item); err != nil || item.ID != "h1" {
			t.Fatalf("unexpected result: %s (%v)", f.Data, err)
		}
		break
	}
}

func TestStreamReportsServiceError(t *testing.T) {
	svc := &stubDecisionService{err: errs.NewValidationError("question is required")}
	h := NewDecisionHandlers(&Deps{ResponseHandler: &stubResponseHandler{}, DecisionSvc: svc})
	h.stepInterval = time.Hour

	conn := dialStream(t, h)
	if err := conn.WriteJSON(models.DecisionInput{}); err != nil {
		t.Fatalf("write input: %v", err)
	}
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	for {
		var f streamFrame
		if err := conn.ReadJSON(&f); err != nil {
			t.Fatalf("read: %v", err)
		}
		if f.Type == dto.StreamTypeStep {
			continue
		}
		if f.Type != dto.StreamTypeError {
			t.Fatalf("expected error frame, got %q", f.Type)
		}
		var se dto.StreamError
		if err := json.Unmarshal(f.Data, &se); err != nil {
			t.Fatalf("decode error frame: %v", err)
		}
		if se.Code != "invalid_input" || se.Message != "question is required" {
			t.Fatalf("unexpected error frame: %+v", se)
		}
		return
	}
}

func TestStreamDisconnectCancelsEvaluation(t *testing.T) {
	svc := &stubDecisionService{
		release:   make(chan struct{}),
		started:   make(chan struct{}),
		cancelled: make(chan struct{}),
	}
	h := NewDecisionHandlers(&Deps{ResponseHandler: &stubResponseHandler{}, DecisionSvc: svc})
	h.stepInterval = time.Hour

	conn := dialStream(t, h)
	if err := conn.WriteJSON(models.DecisionInput{Question: "q", Context: "c"}); err != nil {
		t.Fatalf("write input: %v", err)
	}

	select {
	case <-svc.started:
	case <-time.After(5 * time.Second):
		t.Fatalf("evaluation never started")
	}
	conn.Close()

	select {
	case <-svc.cancelled:
	case <-time.After(5 * time.Second):
		t.Fatalf("evaluation context not cancelled after disconnect")
	}
}

package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/decision-backend/internal/dto"
	"github.com/GregMSThompson/decision-backend/internal/errs"
	"github.com/GregMSThompson/decision-backend/internal/models"
)

func TestChatSuccess(t *testing.T) {
	svc := &stubChatService{resp: dto.ChatResponse{SessionID: "s1", Reply: "hi"}}
	resp := &stubResponseHandler{}
	h := NewChatHandlers(&Deps{ResponseHandler: resp, ChatSvc: svc})

	req := withTestUID(httptest.NewRequest(http.MethodPost, "/",
		strings.NewReader(`{"sessionId":"s1","message":"what now?"}`)), "uid-1")
	h.Chat(httptest.NewRecorder(), req)

	if svc.uid != "uid-1" || svc.sid != "s1" || svc.msg != "what now?" {
		t.Fatalf("service received wrong args: %+v", svc)
	}
	if got, ok := resp.writeSuccessData.(dto.ChatResponse); !ok || got.Reply != "hi" {
		t.Fatalf("unexpected payload: %#v", resp.writeSuccessData)
	}
}

func TestChatRequiresMessage(t *testing.T) {
	svc := &stubChatService{}
	resp := &stubResponseHandler{}
	h := NewChatHandlers(&Deps{ResponseHandler: resp, ChatSvc: svc})

	h.Chat(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"message":""}`)))

	if svc.called {
		t.Fatalf("service should not be called without a message")
	}
	var ve *errs.ValidationError
	if !errors.As(resp.handleError, &ve) {
		t.Fatalf("expected validation error, got %v", resp.handleError)
	}
}

func TestChatMessages(t *testing.T) {
	svc := &stubChatService{msgs: []models.ChatMessage{{Role: models.ChatRoleUser, Text: "hi"}}}
	resp := &stubResponseHandler{}
	h := NewChatHandlers(&Deps{ResponseHandler: resp, ChatSvc: svc})

	req := httptest.NewRequest(http.MethodGet, "/s9", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("sessionId", "s9")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	h.Messages(httptest.NewRecorder(), req)

	if svc.sid != "s9" {
		t.Fatalf("expected session s9, got %q", svc.sid)
	}
	if got, ok := resp.writeSuccessData.([]models.ChatMessage); !ok || len(got) != 1 {
		t.Fatalf("unexpected payload: %#v", resp.writeSuccessData)
	}
}

func TestExplain(t *testing.T) {
	svc := &stubExplainService{}
	resp := &stubResponseHandler{}
	h := NewExplainHandlers(&Deps{ResponseHandler: resp, ExplainSvc: svc})

	h.Explain(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"term":"opportunity cost"}`)))

	if svc.term != "opportunity cost" {
		t.Fatalf("service received wrong term: %q", svc.term)
	}
	if !resp.writeSuccessCalled {
		t.Fatalf("expected WriteSuccess")
	}
}

func TestExplainRequiresTerm(t *testing.T) {
	svc := &stubExplainService{}
	resp := &stubResponseHandler{}
	h := NewExplainHandlers(&Deps{ResponseHandler: resp, ExplainSvc: svc})

	h.Explain(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`)))

	if svc.called || !resp.handleErrorCalled {
		t.Fatalf("expected validation failure before service call")
	}
}

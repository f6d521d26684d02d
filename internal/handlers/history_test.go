package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/GregMSThompson/decision-backend/internal/errs"
	"github.com/GregMSThompson/decision-backend/internal/models"
)

func TestHistoryRoutes(t *testing.T) {
	svc := &stubHistoryService{items: []*models.HistoryItem{{ID: "a"}, {ID: "b"}}}
	resp := &stubResponseHandler{}
	router := NewHistoryHandlers(&Deps{ResponseHandler: resp, HistorySvc: svc}).HistoryRoutes()

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, withTestUID(httptest.NewRequest(http.MethodGet, "/", nil), "uid-1"))
	if items, ok := resp.writeSuccessData.([]*models.HistoryItem); !ok || len(items) != 2 {
		t.Fatalf("unexpected list payload: %#v", resp.writeSuccessData)
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, withTestUID(httptest.NewRequest(http.MethodGet, "/b", nil), "uid-1"))
	if svc.id != "b" {
		t.Fatalf("expected get of b, got %q", svc.id)
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, withTestUID(httptest.NewRequest(http.MethodDelete, "/a", nil), "uid-1"))
	if !svc.deleted || svc.id != "a" || rr.Code != http.StatusNoContent {
		t.Fatalf("expected delete of a with 204, got deleted=%v id=%q code=%d", svc.deleted, svc.id, rr.Code)
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, withTestUID(httptest.NewRequest(http.MethodDelete, "/", nil), "uid-1"))
	if !svc.cleared || rr.Code != http.StatusNoContent {
		t.Fatalf("expected clear with 204, got cleared=%v code=%d", svc.cleared, rr.Code)
	}
	if svc.uid != "uid-1" {
		t.Fatalf("expected uid-1, got %q", svc.uid)
	}
}

func TestHistoryGetNotFound(t *testing.T) {
	svc := &stubHistoryService{err: errs.NewNotFoundError("decision not found")}
	resp := &stubResponseHandler{}
	router := NewHistoryHandlers(&Deps{ResponseHandler: resp, HistorySvc: svc}).HistoryRoutes()

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))

	var nf *errs.NotFoundError
	if !errors.As(resp.handleError, &nf) {
		t.Fatalf("expected not found, got %v", resp.handleError)
	}
}

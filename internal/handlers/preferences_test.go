package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/GregMSThompson/decision-backend/internal/models"
)

func TestPreferencesGet(t *testing.T) {
	svc := &stubPreferencesService{}
	resp := &stubResponseHandler{}
	h := NewPreferencesHandlers(&Deps{ResponseHandler: resp, PreferencesSvc: svc})

	h.Get(httptest.NewRecorder(), withTestUID(httptest.NewRequest(http.MethodGet, "/", nil), "uid-1"))

	prefs, ok := resp.writeSuccessData.(*models.UserPreferences)
	if !ok || prefs.UID != "uid-1" {
		t.Fatalf("unexpected payload: %#v", resp.writeSuccessData)
	}
}

func TestPreferencesUpdate(t *testing.T) {
	svc := &stubPreferencesService{}
	resp := &stubResponseHandler{}
	h := NewPreferencesHandlers(&Deps{ResponseHandler: resp, PreferencesSvc: svc})

	body := `{"defaultRoles":["Skeptic"],"defaultDepth":"Quick","defaultLevel":"Simple","defaultLanguage":"Hindi"}`
	h.Update(httptest.NewRecorder(), withTestUID(httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body)), "uid-1"))

	if svc.saved.DefaultDepth != models.DepthQuick || svc.saved.DefaultLanguage != models.LanguageHindi {
		t.Fatalf("service received wrong prefs: %+v", svc.saved)
	}
	if len(svc.saved.DefaultRoles) != 1 || svc.saved.DefaultRoles[0] != models.RoleSkeptic {
		t.Fatalf("service received wrong roles: %v", svc.saved.DefaultRoles)
	}
	if !resp.writeSuccessCalled || resp.writeSuccessStatus != http.StatusOK {
		t.Fatalf("expected WriteSuccess 200")
	}
}

func TestPreferencesUpdateInvalidJSON(t *testing.T) {
	svc := &stubPreferencesService{}
	resp := &stubResponseHandler{}
	h := NewPreferencesHandlers(&Deps{ResponseHandler: resp, PreferencesSvc: svc})

	h.Update(httptest.NewRecorder(), httptest.NewRequest(http.MethodPut, "/", strings.NewReader("{")))

	if !resp.handleErrorCalled || svc.uid != "" {
		t.Fatalf("expected decode failure before service call")
	}
}

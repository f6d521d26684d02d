package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"firebase.google.com/go/v4/auth"

	"github.com/GregMSThompson/decision-backend/internal/errs"
	"github.com/GregMSThompson/decision-backend/pkg/helpers"
	"github.com/GregMSThompson/decision-backend/pkg/logger"
)

type stubVerifier struct {
	token string
	err   error
}

func (s *stubVerifier) VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error) {
	s.token = idToken
	if s.err != nil {
		return nil, s.err
	}
	return &auth.Token{UID: "uid-" + idToken}, nil
}

func uidEcho() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(UID(r.Context())))
	})
}

func TestFirebaseAuth(t *testing.T) {
	cases := []struct {
		name     string
		header   string
		query    string
		verifier *stubVerifier
		status   int
		body     string
	}{
		{"valid bearer", "Bearer abc", "", &stubVerifier{}, http.StatusOK, "uid-abc"},
		{"query token", "", "?token=ws", &stubVerifier{}, http.StatusOK, "uid-ws"},
		{"missing header", "", "", &stubVerifier{}, http.StatusUnauthorized, ""},
		{"bad scheme", "Basic abc", "", &stubVerifier{}, http.StatusUnauthorized, ""},
		{"rejected token", "Bearer abc", "", &stubVerifier{err: errors.New("expired")}, http.StatusUnauthorized, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := NewMiddleware(tc.verifier, false)
			req := httptest.NewRequest(http.MethodGet, "/v1/history"+tc.query, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()

			m.FirebaseAuth(uidEcho()).ServeHTTP(rec, req)

			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d", rec.Code, tc.status)
			}
			if tc.body != "" && rec.Body.String() != tc.body {
				t.Fatalf("uid = %q, want %q", rec.Body.String(), tc.body)
			}
		})
	}
}

func TestFirebaseAuthDisabled(t *testing.T) {
	m := NewMiddleware(nil, true)
	rec := httptest.NewRecorder()

	m.FirebaseAuth(uidEcho()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK || rec.Body.String() != AnonymousUID {
		t.Fatalf("got %d %q", rec.Code, rec.Body.String())
	}
}

type stubErrorHandler struct {
	err error
}

func (s *stubErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	s.err = err
	w.WriteHeader(http.StatusTooManyRequests)
}

func TestRateLimit(t *testing.T) {
	rh := &stubErrorHandler{}
	h := RateLimit(0.001, 2, rh)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	send := func(uid string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(context.WithValue(req.Context(), UIDKey, uid))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	if send("a") != http.StatusOK || send("a") != http.StatusOK {
		t.Fatalf("burst requests should pass")
	}
	if code := send("a"); code != http.StatusTooManyRequests {
		t.Fatalf("third request status = %d", code)
	}
	var rl *errs.RateLimitError
	if !errors.As(rh.err, &rl) {
		t.Fatalf("expected RateLimitError, got %v", rh.err)
	}
	if send("b") != http.StatusOK {
		t.Fatalf("other users should have their own limiter")
	}
}

func TestLoggerMiddlewareAddsLoggerAndTrace(t *testing.T) {
	m := NewLoggerMiddleware(helpers.TestLogger(), "decido")
	var trace string
	var hasLogger bool
	h := m.LoggerMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		trace = logger.TraceFromContext(r.Context())
		hasLogger = logger.FromContext(r.Context()) != nil
		w.WriteHeader(http.StatusAccepted)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Cloud-Trace-Context", "105445aa7843bc8bf206b12000100000/1;o=1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if !hasLogger {
		t.Fatalf("logger missing from context")
	}
	if trace != "projects/decido/traces/105445aa7843bc8bf206b12000100000" {
		t.Fatalf("trace = %q", trace)
	}
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestLimiterPoolSweepsIdleUsers(t *testing.T) {
	now := time.Date(2025, time.May, 1, 12, 0, 0, 0, time.UTC)
	p := &limiterPool{rps: 1, burst: 1, ttl: 10 * time.Minute, now: func() time.Time { return now }}

	if !p.Allow("idle") || !p.Allow("active") {
		t.Fatalf("first request per user should pass")
	}
	now = now.Add(8 * time.Minute)
	p.Allow("active")
	now = now.Add(5 * time.Minute)

	if remaining := p.sweep(); remaining != 1 {
		t.Fatalf("expected only the active user to remain, got %d", remaining)
	}
	if _, ok := p.m["idle"]; ok {
		t.Fatalf("idle limiter not evicted")
	}
	if p.Allow("active") {
		t.Fatalf("active user's bucket should have been kept, not reset")
	}
}

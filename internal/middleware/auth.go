package middleware

import (
	"context"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"

	"github.com/GregMSThompson/decision-backend/pkg/logger"
)

// AnonymousUID is used for every request when authentication is disabled.
const AnonymousUID = "anonymous"

type tokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

type Middleware struct {
	AuthClient   tokenVerifier
	AuthDisabled bool
}

func NewMiddleware(client tokenVerifier, authDisabled bool) *Middleware {
	return &Middleware{AuthClient: client, AuthDisabled: authDisabled}
}

// context key
type contextKey string

const UIDKey contextKey = "uid"

// bearerToken reads the Authorization header, falling back to the token
// query parameter for websocket clients that cannot set headers.
func bearerToken(r *http.Request) (string, string) {
	header := r.Header.Get("Authorization")
	if header == "" {
		if token := r.URL.Query().Get("token"); token != "" {
			return token, ""
		}
		return "", "missing Authorization header"
	}

	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", "invalid Authorization header"
	}
	return parts[1], ""
}

// Main middleware
func (m *Middleware) FirebaseAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.AuthDisabled {
			next.ServeHTTP(w, r.WithContext(withUID(r.Context(), AnonymousUID)))
			return
		}

		tokenStr, problem := bearerToken(r)
		if problem != "" {
			http.Error(w, problem, http.StatusUnauthorized)
			return
		}

		// Verify ID Token
		token, err := m.AuthClient.VerifyIDToken(r.Context(), tokenStr)
		if err != nil {
			logger.FromContext(r.Context()).Debug("token verification failed", "error", err)
			http.Error(w, "invalid or expired token", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(withUID(r.Context(), token.UID)))
	})
}

// withUID stores uid and tags the request logger with it.
func withUID(ctx context.Context, uid string) context.Context {
	ctx = context.WithValue(ctx, UIDKey, uid)
	_, ctx = logger.With(ctx, "uid", uid)
	return ctx
}

// Helper to extract UID
func UID(ctx context.Context) string {
	uid, _ := ctx.Value(UIDKey).(string)
	return uid
}

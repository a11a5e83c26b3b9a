package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"idive/internal/auth"
	"idive/internal/domain"
	"idive/internal/httputil"
)

type stubVerifier struct{}

func (stubVerifier) VerifyToken(token string) (*auth.Claims, error) {
	if token != "good" {
		return nil, domain.ErrUnauthorized
	}
	c := &auth.Claims{Role: "authenticated"}
	c.Subject = "user-1"
	return c, nil
}

func (stubVerifier) Close() error { return nil }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// echoUser writes the authenticated user id
var echoUser = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte(httputil.GetUserID(r)))
})

func TestAuthMiddleware(t *testing.T) {
	h := AuthMiddleware(stubVerifier{}, discardLogger())(echoUser)

	tests := []struct {
		name       string
		path       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"valid token", "/api/presenters", "Bearer good", http.StatusOK, "user-1"},
		{"lowercase scheme", "/api/presenters", "bearer good", http.StatusOK, "user-1"},
		{"bad token", "/api/presenters", "Bearer bad", http.StatusUnauthorized, ""},
		{"missing header", "/api/presenters", "", http.StatusUnauthorized, ""},
		{"basic auth", "/api/presenters", "Basic dXNlcg==", http.StatusUnauthorized, ""},
		{"health bypass", "/health", "", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			h.ServeHTTP(w, r)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantBody, w.Body.String())
			}
		})
	}
}

func TestDevAuthMiddleware(t *testing.T) {
	h := DevAuthMiddleware(discardLogger())(echoUser)

	r := httptest.NewRequest(http.MethodGet, "/api/presenters", nil)
	r.Header.Set(DevUserHeader, "dev-user")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "dev-user", w.Body.String())

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/presenters", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRecovery(t *testing.T) {
	h := Recovery(discardLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/scripts/x", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
}

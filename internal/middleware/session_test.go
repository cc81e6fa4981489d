package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"ridehail/internal/auth"
)

type stubDelegate struct {
	users map[string]*auth.User
	err   error
	calls int
}

func (d *stubDelegate) RedirectURL(ctx context.Context, provider string) (string, error) {
	return "", nil
}

func (d *stubDelegate) ExchangeCode(ctx context.Context, code string) (string, error) {
	return "", nil
}

func (d *stubDelegate) Authenticate(ctx context.Context, token string) (*auth.User, error) {
	d.calls++
	if d.err != nil {
		return nil, d.err
	}
	user, ok := d.users[token]
	if !ok {
		return nil, auth.ErrUnauthenticated
	}
	return user, nil
}

func (d *stubDelegate) DeleteSession(ctx context.Context, token string) error {
	return nil
}

func newSessionRouter(delegate auth.Delegate) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logrus.New()
	log.SetOutput(io.Discard)

	r := gin.New()
	r.Use(SessionMiddleware(delegate, "session_token", log))
	r.GET("/me", func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, user.ID)
	})
	return r
}

func TestSessionMiddleware(t *testing.T) {
	delegate := &stubDelegate{users: map[string]*auth.User{"tok-1": {ID: "user-1"}}}
	router := newSessionRouter(delegate)

	tests := []struct {
		name       string
		cookie     string
		wantStatus int
		wantBody   string
	}{
		{name: "valid session", cookie: "tok-1", wantStatus: http.StatusOK, wantBody: "user-1"},
		{name: "unknown session", cookie: "tok-2", wantStatus: http.StatusUnauthorized},
		{name: "no cookie", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "session_token", Value: tt.cookie})
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if tt.wantBody != "" && w.Body.String() != tt.wantBody {
				t.Errorf("expected body %q, got %q", tt.wantBody, w.Body.String())
			}
		})
	}
}

func TestSessionMiddleware_AuthenticatesEveryRequest(t *testing.T) {
	delegate := &stubDelegate{users: map[string]*auth.User{"tok-1": {ID: "user-1"}}}
	router := newSessionRouter(delegate)

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: "session_token", Value: "tok-1"})
		router.ServeHTTP(httptest.NewRecorder(), req)
	}

	if delegate.calls != 3 {
		t.Errorf("expected 3 delegate calls, got %d", delegate.calls)
	}
}

func TestSessionMiddleware_DelegateDown(t *testing.T) {
	delegate := &stubDelegate{err: errors.New("connection refused")}
	router := newSessionRouter(delegate)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: "session_token", Value: "tok-1"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORSMiddleware([]string{"https://app.example"}))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "https://app.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("expected 204 for preflight, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example" {
		t.Errorf("unexpected allow-origin %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("expected no allow-origin for unknown origin, got %q", got)
	}
}

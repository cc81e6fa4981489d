package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"ridehail/internal/auth"
	redisstore "ridehail/internal/redis"
)

type memIdempotency struct {
	mu      sync.Mutex
	pending map[string]bool
	done    map[string]*redisstore.StoredResponse
	err     error
}

func newMemIdempotency() *memIdempotency {
	return &memIdempotency{
		pending: make(map[string]bool),
		done:    make(map[string]*redisstore.StoredResponse),
	}
}

func (m *memIdempotency) Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	if m.pending[key] || m.done[key] != nil {
		return false, nil
	}
	m.pending[key] = true
	return true, nil
}

func (m *memIdempotency) Get(ctx context.Context, key string) (*redisstore.StoredResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if resp, ok := m.done[key]; ok {
		return resp, nil
	}
	return nil, redisstore.ErrReplayPending
}

func (m *memIdempotency) Complete(ctx context.Context, key string, resp *redisstore.StoredResponse, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pending, key)
	m.done[key] = resp
	return nil
}

func (m *memIdempotency) Release(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pending, key)
	return nil
}

func newIdempotentRouter(store redisstore.IdempotencyStoreInterface, status *int, calls *int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logrus.New()
	log.SetOutput(io.Discard)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(userContextKey, &auth.User{ID: c.GetHeader("X-User")})
	})
	r.Use(IdempotencyMiddleware(store, log))
	r.POST("/rides", func(c *gin.Context) {
		*calls++
		c.JSON(*status, gin.H{"call": *calls})
	})
	return r
}

func post(r *gin.Engine, user, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/rides", nil)
	req.Header.Set("X-User", user)
	if key != "" {
		req.Header.Set(idempotencyHeader, key)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIdempotencyMiddleware_ReplaysSuccess(t *testing.T) {
	status, calls := http.StatusCreated, 0
	r := newIdempotentRouter(newMemIdempotency(), &status, &calls)

	first := post(r, "user-1", "k1")
	second := post(r, "user-1", "k1")

	if calls != 1 {
		t.Fatalf("expected handler to run once, ran %d times", calls)
	}
	if second.Code != http.StatusCreated || second.Body.String() != first.Body.String() {
		t.Errorf("replay mismatch: %d %q vs %q", second.Code, second.Body.String(), first.Body.String())
	}
	if second.Header().Get("Idempotent-Replayed") != "true" {
		t.Error("expected replay header")
	}
}

func TestIdempotencyMiddleware_KeysAreScopedPerUser(t *testing.T) {
	status, calls := http.StatusCreated, 0
	r := newIdempotentRouter(newMemIdempotency(), &status, &calls)

	post(r, "user-1", "k1")
	post(r, "user-2", "k1")

	if calls != 2 {
		t.Errorf("expected 2 handler runs, got %d", calls)
	}
}

func TestIdempotencyMiddleware_FailuresAreNotStored(t *testing.T) {
	status, calls := http.StatusBadRequest, 0
	r := newIdempotentRouter(newMemIdempotency(), &status, &calls)

	post(r, "user-1", "k1")
	status = http.StatusCreated
	w := post(r, "user-1", "k1")

	if calls != 2 || w.Code != http.StatusCreated {
		t.Errorf("expected retry to run handler, calls=%d code=%d", calls, w.Code)
	}
}

func TestIdempotencyMiddleware_InFlightDuplicate(t *testing.T) {
	store := newMemIdempotency()
	status, calls := http.StatusCreated, 0
	r := newIdempotentRouter(store, &status, &calls)

	store.pending["user-1:POST:/rides:k1"] = true
	w := post(r, "user-1", "k1")

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	if calls != 0 {
		t.Errorf("handler should not run, ran %d times", calls)
	}
}

func TestIdempotencyMiddleware_PassThrough(t *testing.T) {
	tests := []struct {
		name  string
		store redisstore.IdempotencyStoreInterface
		key   string
	}{
		{name: "nil store", store: nil, key: "k1"},
		{name: "no header", store: newMemIdempotency(), key: ""},
		{name: "store down", store: &memIdempotency{err: errors.New("connection refused")}, key: "k1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, calls := http.StatusCreated, 0
			r := newIdempotentRouter(tt.store, &status, &calls)

			post(r, "user-1", tt.key)
			post(r, "user-1", tt.key)

			if calls != 2 {
				t.Errorf("expected 2 handler runs, got %d", calls)
			}
		})
	}
}

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/google/redirect_url", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "secret" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"redirect_url": "https://accounts.example/consent"})
	})
	mux.HandleFunc("/sessions", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			if body["code"] != "good-code" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			json.NewEncoder(w).Encode(map[string]string{"session_token": "tok-1"})
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		}
	})
	mux.HandleFunc("/users/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(User{ID: "user-1", Email: "rider@example.com"})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestUsersServiceClient_Flow(t *testing.T) {
	srv := newTestServer(t)
	client := NewUsersServiceClient(srv.URL+"/", "secret", time.Second)
	ctx := context.Background()

	redirect, err := client.RedirectURL(ctx, "google")
	if err != nil {
		t.Fatalf("RedirectURL failed: %v", err)
	}
	if redirect != "https://accounts.example/consent" {
		t.Errorf("unexpected redirect url %q", redirect)
	}

	token, err := client.ExchangeCode(ctx, "good-code")
	if err != nil {
		t.Fatalf("ExchangeCode failed: %v", err)
	}
	if token != "tok-1" {
		t.Errorf("expected tok-1, got %q", token)
	}

	user, err := client.Authenticate(ctx, token)
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if user.ID != "user-1" {
		t.Errorf("expected user-1, got %q", user.ID)
	}

	if err := client.DeleteSession(ctx, token); err != nil {
		t.Errorf("DeleteSession failed: %v", err)
	}
}

func TestUsersServiceClient_Rejections(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	client := NewUsersServiceClient(srv.URL, "secret", time.Second)
	if _, err := client.ExchangeCode(ctx, "bad-code"); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated for bad code, got %v", err)
	}
	if _, err := client.Authenticate(ctx, "stale"); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated for stale token, got %v", err)
	}
	if _, err := client.Authenticate(ctx, ""); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated for empty token, got %v", err)
	}

	wrongKey := NewUsersServiceClient(srv.URL, "nope", time.Second)
	if _, err := wrongKey.RedirectURL(ctx, "google"); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated for wrong api key, got %v", err)
	}
}

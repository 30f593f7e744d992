package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// Pixelfed's API is Mastodon-shaped but some instances only honor the token
// as a query parameter, so the client sends it both ways.
func TestPixelfedSendsTokenAsQueryParam(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("access_token") != "test-token" {
			t.Errorf("missing access_token query param on %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-token" {
			t.Errorf("missing bearer header on %s", r.URL.Path)
		}
		switch r.URL.Path {
		case "/api/v1/media":
			json.NewEncoder(w).Encode(map[string]string{"id": "media-1"})
		case "/api/v1/statuses":
			json.NewEncoder(w).Encode(map[string]string{
				"id":  "1",
				"url": "https://pixelfed.example/p/chris/1",
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	s := &pixelfedService{
		platformMeta: platformMeta{name: "pixelfed", displayName: "Pixelfed", maxTextLength: 2000},
		instanceURL:  server.URL,
		accessToken:  "test-token",
		client:       &http.Client{Timeout: 10 * time.Second},
	}

	result := s.PostImage(context.Background(), writeTestImage(t), "caption", "alt")
	if !result.Success {
		t.Fatalf("expected success, got %q", result.Error)
	}
	if result.PostURL != "https://pixelfed.example/p/chris/1" {
		t.Fatalf("unexpected post URL %q", result.PostURL)
	}
}

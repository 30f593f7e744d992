package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTestImage(t *testing.T) string {
	t.Helper()
	// Minimal JPEG magic so content sniffing sees image/jpeg.
	data := append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, []byte("test")...)
	path := filepath.Join(t.TempDir(), "sunset_lake.jpg")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestMastodonService(instanceURL string) *mastodonService {
	return &mastodonService{
		platformMeta: platformMeta{name: "mastodon", displayName: "Mastodon", maxTextLength: 500},
		instanceURL:  instanceURL,
		accessToken:  "test-token",
		client:       &http.Client{Timeout: 10 * time.Second},
	}
}

func TestMastodonPostImage(t *testing.T) {
	var statusBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-token" {
			t.Errorf("missing bearer token on %s", r.URL.Path)
		}
		switch r.URL.Path {
		case "/api/v2/media":
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				t.Errorf("parsing multipart: %v", err)
			}
			if _, _, err := r.FormFile("file"); err != nil {
				t.Errorf("missing file part: %v", err)
			}
			if got := r.FormValue("description"); got != "Sunset Over the Lake, oil on canvas" {
				t.Errorf("unexpected description %q", got)
			}
			json.NewEncoder(w).Encode(map[string]string{"id": "media-1"})
		case "/api/v1/statuses":
			if err := json.NewDecoder(r.Body).Decode(&statusBody); err != nil {
				t.Errorf("decoding status body: %v", err)
			}
			json.NewEncoder(w).Encode(map[string]string{
				"id":  "status-1",
				"url": "https://mastodon.example/@chris/1",
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	s := newTestMastodonService(server.URL)
	result := s.PostImage(context.Background(), writeTestImage(t), "Sunset Over the Lake", "Sunset Over the Lake, oil on canvas")

	if !result.Success {
		t.Fatalf("expected success, got %q", result.Error)
	}
	if result.PostURL != "https://mastodon.example/@chris/1" {
		t.Fatalf("unexpected post URL %q", result.PostURL)
	}
	if statusBody["status"] != "Sunset Over the Lake" {
		t.Fatalf("unexpected status text %v", statusBody["status"])
	}
	ids, ok := statusBody["media_ids"].([]any)
	if !ok || len(ids) != 1 || ids[0] != "media-1" {
		t.Fatalf("expected media id carried into status, got %v", statusBody["media_ids"])
	}
}

func TestMastodonUploadErrorSurfaced(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error":"Validation failed"}`))
	}))
	defer server.Close()

	s := newTestMastodonService(server.URL)
	result := s.PostImage(context.Background(), writeTestImage(t), "text", "alt")

	if result.Success {
		t.Fatal("expected failure")
	}
	if result.Error == "" {
		t.Fatal("expected an error message")
	}
}

func TestMastodonVerifyCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/accounts/verify_credentials" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.Header.Get("Authorization") != "Bearer test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"id":"1"}`))
	}))
	defer server.Close()

	s := newTestMastodonService(server.URL)
	ok, err := s.VerifyCredentials(context.Background())
	if err != nil {
		t.Fatalf("VerifyCredentials: %v", err)
	}
	if !ok {
		t.Fatal("expected credentials accepted")
	}

	s.accessToken = ""
	ok, err = s.VerifyCredentials(context.Background())
	if err != nil || ok {
		t.Fatal("unconfigured service must report not verified without calling out")
	}
}

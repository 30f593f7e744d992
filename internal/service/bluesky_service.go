package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	config "github.com/chrisrehm/theo/configs"
	"github.com/chrisrehm/theo/internal/models"
	"github.com/chrisrehm/theo/internal/transfer"
)

const blueskyDefaultPDS = "https://bsky.social"

// blueskyService posts artwork via the AT protocol XRPC endpoints:
// createSession with an app password, uploadBlob for the image, then
// createRecord for the post with the blob embedded.
type blueskyService struct {
	platformMeta
	pdsURL      string
	handle      string
	appPassword string
	client      *http.Client
}

func NewBlueskyService(cfg config.Config) SocialPlatform {
	return &blueskyService{
		platformMeta: platformMeta{
			name:          "bluesky",
			displayName:   "Bluesky",
			maxTextLength: 300,
		},
		pdsURL:      blueskyDefaultPDS,
		handle:      cfg.Bluesky.Handle,
		appPassword: cfg.Bluesky.AppPassword,
		client:      &http.Client{Timeout: 2 * time.Minute},
	}
}

func (s *blueskyService) IsConfigured() bool {
	return s.handle != "" && s.appPassword != ""
}

func (s *blueskyService) VerifyCredentials(ctx context.Context) (bool, error) {
	if !s.IsConfigured() {
		return false, nil
	}
	if _, err := s.createSession(ctx); err != nil {
		return false, fmt.Errorf("bluesky login failed: %w", err)
	}
	return true, nil
}

func (s *blueskyService) PostImage(ctx context.Context, imagePath, text, altText string) models.PostResult {
	if !s.IsConfigured() {
		return notConfigured(s.displayName)
	}

	// Bluesky enforces a hard 300-character limit.
	if len([]rune(text)) > s.maxTextLength {
		return models.PostFailure(fmt.Sprintf("Text exceeds %d character limit (%d chars)", s.maxTextLength, len([]rune(text))))
	}

	session, err := s.createSession(ctx)
	if err != nil {
		slog.Info("bluesky login failed", "error", err)
		return models.PostFailure(err.Error())
	}

	data, contentType, err := readImage(imagePath)
	if err != nil {
		return models.PostFailure(fmt.Sprintf("reading image: %v", err))
	}

	blob, err := s.uploadBlob(ctx, session, data, contentType)
	if err != nil {
		slog.Info("bluesky blob upload failed", "error", err)
		return models.PostFailure(err.Error())
	}

	record, err := s.createPost(ctx, session, text, altText, blob)
	if err != nil {
		slog.Info("bluesky post creation failed", "error", err)
		return models.PostFailure(err.Error())
	}

	return models.PostSuccess(record.URI)
}

func (s *blueskyService) createSession(ctx context.Context) (*transfer.BlueskySession, error) {
	payload, err := json.Marshal(map[string]string{
		"identifier": s.handle,
		"password":   s.appPassword,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.pdsURL+"/xrpc/com.atproto.server.createSession", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("connection error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, s.xrpcError(resp)
	}

	var session transfer.BlueskySession
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("decoding session response: %w", err)
	}
	return &session, nil
}

func (s *blueskyService) uploadBlob(ctx context.Context, session *transfer.BlueskySession, data []byte, contentType string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.pdsURL+"/xrpc/com.atproto.repo.uploadBlob", bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+session.AccessJwt)
	req.Header.Set("Content-Type", contentType)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("connection error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, s.xrpcError(resp)
	}

	var upload transfer.BlueskyBlob
	if err := json.NewDecoder(resp.Body).Decode(&upload); err != nil {
		return nil, fmt.Errorf("decoding blob response: %w", err)
	}
	return upload.Blob, nil
}

func (s *blueskyService) createPost(ctx context.Context, session *transfer.BlueskySession, text, altText string, blob json.RawMessage) (*transfer.BlueskyRecord, error) {
	record := map[string]any{
		"$type":     "app.bsky.feed.post",
		"text":      text,
		"createdAt": time.Now().UTC().Format(time.RFC3339),
		"embed": map[string]any{
			"$type": "app.bsky.embed.images",
			"images": []map[string]any{
				{"alt": altText, "image": blob},
			},
		},
	}
	payload, err := json.Marshal(map[string]any{
		"repo":       session.Did,
		"collection": "app.bsky.feed.post",
		"record":     record,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.pdsURL+"/xrpc/com.atproto.repo.createRecord", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+session.AccessJwt)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("connection error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, s.xrpcError(resp)
	}

	var created transfer.BlueskyRecord
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("decoding record response: %w", err)
	}
	return &created, nil
}

// xrpcError surfaces the AT protocol error envelope when present.
func (s *blueskyService) xrpcError(resp *http.Response) error {
	var xe transfer.BlueskyError
	if err := json.NewDecoder(resp.Body).Decode(&xe); err == nil && xe.Message != "" {
		return fmt.Errorf("HTTP %d: %s: %s", resp.StatusCode, xe.Error, xe.Message)
	}
	return fmt.Errorf("HTTP %d", resp.StatusCode)
}

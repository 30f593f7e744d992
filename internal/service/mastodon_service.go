package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"strings"
	"time"

	config "github.com/chrisrehm/theo/configs"
	"github.com/chrisrehm/theo/internal/models"
	"github.com/chrisrehm/theo/internal/transfer"
)

// mastodonService posts artwork to a Mastodon instance via the REST API:
// upload the image to /api/v2/media, then create a status carrying it.
type mastodonService struct {
	platformMeta
	instanceURL string
	accessToken string
	client      *http.Client
}

func NewMastodonService(cfg config.Config) SocialPlatform {
	return &mastodonService{
		platformMeta: platformMeta{
			name:          "mastodon",
			displayName:   "Mastodon",
			maxTextLength: 500,
			supportsVideo: true,
		},
		instanceURL: strings.TrimSuffix(cfg.Mastodon.InstanceURL, "/"),
		accessToken: cfg.Mastodon.AccessToken,
		client:      &http.Client{Timeout: 2 * time.Minute},
	}
}

func (s *mastodonService) IsConfigured() bool {
	return s.instanceURL != "" && s.accessToken != ""
}

func (s *mastodonService) VerifyCredentials(ctx context.Context) (bool, error) {
	if !s.IsConfigured() {
		return false, nil
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.instanceURL+"/api/v1/accounts/verify_credentials", nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Authorization", "Bearer "+s.accessToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK, nil
}

func (s *mastodonService) PostImage(ctx context.Context, imagePath, text, altText string) models.PostResult {
	if !s.IsConfigured() {
		return notConfigured(s.displayName)
	}

	mediaID, err := s.uploadMedia(ctx, imagePath, altText)
	if err != nil {
		slog.Info("mastodon media upload failed", "error", err)
		return models.PostFailure(err.Error())
	}

	status, err := s.createStatus(ctx, text, []string{mediaID})
	if err != nil {
		slog.Info("mastodon status creation failed", "error", err)
		return models.PostFailure(err.Error())
	}

	postURL := status.URL
	if postURL == "" {
		postURL = status.URI
	}
	return models.PostSuccess(postURL)
}

func (s *mastodonService) uploadMedia(ctx context.Context, imagePath, description string) (string, error) {
	data, contentType, err := readImage(imagePath)
	if err != nil {
		return "", fmt.Errorf("reading image: %w", err)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filepath.Base(imagePath)))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(data); err != nil {
		return "", err
	}
	if description != "" {
		if err := writer.WriteField("description", description); err != nil {
			return "", err
		}
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.instanceURL+"/api/v2/media", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+s.accessToken)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("connection error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return "", httpError(resp)
	}

	var media transfer.MastodonMedia
	if err := json.NewDecoder(resp.Body).Decode(&media); err != nil {
		return "", fmt.Errorf("decoding media response: %w", err)
	}
	if media.ID == "" {
		return "", fmt.Errorf("failed to upload media")
	}
	return media.ID, nil
}

func (s *mastodonService) createStatus(ctx context.Context, text string, mediaIDs []string) (*transfer.MastodonStatus, error) {
	payload, err := json.Marshal(map[string]any{
		"status":    text,
		"media_ids": mediaIDs,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.instanceURL+"/api/v1/statuses", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+s.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("connection error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, httpError(resp)
	}

	var status transfer.MastodonStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("decoding status response: %w", err)
	}
	return &status, nil
}

// httpError folds a non-2xx response into an error carrying the upstream body.
func httpError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
}

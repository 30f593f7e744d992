package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	config "github.com/chrisrehm/theo/configs"
	"github.com/chrisrehm/theo/internal/models"
	"github.com/chrisrehm/theo/internal/transfer"
)

// pixelfedService posts artwork to a Pixelfed instance. Pixelfed speaks the
// Mastodon v1 API, so the flow matches the Mastodon client with two
// differences: media goes to v1/media (v2 returns 404), and the access
// token rides along as a query parameter because some instances don't
// honour the Bearer header on POST.
type pixelfedService struct {
	platformMeta
	instanceURL string
	accessToken string
	client      *http.Client
}

func NewPixelfedService(cfg config.Config) SocialPlatform {
	return &pixelfedService{
		platformMeta: platformMeta{
			name:          "pixelfed",
			displayName:   "Pixelfed",
			maxTextLength: 2000,
		},
		instanceURL: strings.TrimSuffix(cfg.Pixelfed.InstanceURL, "/"),
		accessToken: cfg.Pixelfed.AccessToken,
		client:      &http.Client{Timeout: 2 * time.Minute},
	}
}

func (s *pixelfedService) IsConfigured() bool {
	return s.instanceURL != "" && s.accessToken != ""
}

func (s *pixelfedService) VerifyCredentials(ctx context.Context) (bool, error) {
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

func (s *pixelfedService) PostImage(ctx context.Context, imagePath, text, altText string) models.PostResult {
	if !s.IsConfigured() {
		return notConfigured(s.displayName)
	}

	mediaID, err := s.uploadMedia(ctx, imagePath, altText)
	if err != nil {
		slog.Info("pixelfed media upload failed", "error", err)
		return models.PostFailure(err.Error())
	}

	status, err := s.createStatus(ctx, text, []string{mediaID})
	if err != nil {
		slog.Info("pixelfed status creation failed", "error", err)
		return models.PostFailure(err.Error())
	}

	postURL := status.URL
	if postURL == "" {
		postURL = status.URI
	}
	return models.PostSuccess(postURL)
}

func (s *pixelfedService) uploadMedia(ctx context.Context, imagePath, description string) (string, error) {
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

	uploadURL := s.instanceURL + "/api/v1/media?access_token=" + url.QueryEscape(s.accessToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, &body)
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

func (s *pixelfedService) createStatus(ctx context.Context, text string, mediaIDs []string) (*transfer.MastodonStatus, error) {
	payload, err := json.Marshal(map[string]any{
		"status":    text,
		"media_ids": mediaIDs,
	})
	if err != nil {
		return nil, err
	}

	statusURL := s.instanceURL + "/api/v1/statuses?access_token=" + url.QueryEscape(s.accessToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, statusURL, bytes.NewReader(payload))
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

package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"

	config "github.com/chrisrehm/theo/configs"
	"github.com/chrisrehm/theo/internal/models"
)

const caraBaseURL = "https://cara.app"

// caraService posts to Cara by driving a real browser. Cara has no public
// API, so the service reuses a persistent Chrome profile where the operator
// has logged in once by hand. A marker file in the profile directory records
// that the login happened.
type caraService struct {
	platformMeta
	profileDir string
	headless   bool
}

func NewCaraService(cfg config.Config) *caraService {
	return &caraService{
		platformMeta: platformMeta{
			name:          "cara",
			displayName:   "Cara",
			maxTextLength: 5000,
		},
		profileDir: filepath.Join(cfg.ProfilesDir, "cara"),
		headless:   true,
	}
}

func (s *caraService) markerPath() string {
	return filepath.Join(s.profileDir, ".logged_in")
}

func (s *caraService) IsConfigured() bool {
	_, err := os.Stat(s.markerPath())
	return err == nil
}

func (s *caraService) VerifyCredentials(ctx context.Context) (bool, error) {
	return s.IsConfigured(), nil
}

func (s *caraService) browserContext(ctx context.Context) (context.Context, context.CancelFunc, error) {
	if err := os.MkdirAll(s.profileDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating profile dir: %w", err)
	}
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserDataDir(s.profileDir),
		chromedp.Flag("headless", s.headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.WindowSize(1280, 900),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	cancel := func() {
		cancelBrowser()
		cancelAlloc()
	}
	return browserCtx, cancel, nil
}

// SetupSession opens a visible browser on the Cara login page and waits for
// the operator to sign in. Once the session cookie lands in the profile the
// marker file is written so later runs can post headlessly.
func (s *caraService) SetupSession(ctx context.Context) error {
	s.headless = false
	defer func() { s.headless = true }()

	browserCtx, cancel, err := s.browserContext(ctx)
	if err != nil {
		return err
	}
	defer cancel()

	slog.Info("opening Cara login page, sign in and wait for confirmation")
	err = chromedp.Run(browserCtx,
		chromedp.Navigate(caraBaseURL+"/login"),
		// The avatar button only renders for signed-in sessions.
		chromedp.WaitVisible(`button[aria-label="Account"]`, chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("waiting for login: %w", err)
	}
	if err := os.WriteFile(s.markerPath(), []byte(time.Now().Format(time.RFC3339)+"\n"), 0o644); err != nil {
		return fmt.Errorf("writing login marker: %w", err)
	}
	slog.Info("Cara session saved", "profile", s.profileDir)
	return nil
}

func (s *caraService) PostImage(ctx context.Context, imagePath, text, altText string) models.PostResult {
	if !s.IsConfigured() {
		return notConfigured(s.displayName)
	}
	if _, err := os.Stat(imagePath); err != nil {
		return models.PostFailure(fmt.Sprintf("Image not found: %s", imagePath))
	}

	ctx, cancelTimeout := context.WithTimeout(ctx, 3*time.Minute)
	defer cancelTimeout()

	browserCtx, cancel, err := s.browserContext(ctx)
	if err != nil {
		return models.PostFailure(err.Error())
	}
	defer cancel()

	absPath, err := filepath.Abs(imagePath)
	if err != nil {
		return models.PostFailure(err.Error())
	}

	var postURL string
	err = chromedp.Run(browserCtx,
		chromedp.Navigate(caraBaseURL+"/post/new"),
		chromedp.WaitVisible(`input[type="file"]`, chromedp.ByQuery),
		chromedp.SetUploadFiles(`input[type="file"]`, []string{absPath}, chromedp.ByQuery),
		chromedp.WaitVisible(`textarea[name="caption"]`, chromedp.ByQuery),
		chromedp.SendKeys(`textarea[name="caption"]`, text, chromedp.ByQuery),
		chromedp.Click(`button[type="submit"]`, chromedp.ByQuery),
		// Publishing redirects to the new post's page.
		chromedp.WaitNotPresent(`button[type="submit"]`, chromedp.ByQuery),
		chromedp.Location(&postURL),
	)
	if err != nil {
		slog.Info("cara post failed", "error", err)
		return models.PostFailure(fmt.Sprintf("Browser automation failed: %v", err))
	}

	if postURL == "" || postURL == caraBaseURL+"/post/new" {
		postURL = caraBaseURL
	}
	return models.PostSuccess(postURL)
}

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
	"github.com/chrisrehm/theo/internal/repository"
)

const fasoBaseURL = "https://cp.faso.com"

// FasoService uploads paintings to a FASO artist gallery. FASO's control
// panel has no API, so uploads drive a browser against a persistent profile
// in the same way Cara posting does.
type FasoService interface {
	IsConfigured() bool
	SetupSession(ctx context.Context) error
	Upload(ctx context.Context, p *models.Painting) (string, error)
	MarkUploaded(ctx context.Context, p *models.Painting, url string) error
}

type fasoService struct {
	pr         repository.PaintingRepository
	bigRoot    string
	profileDir string
	headless   bool
}

func NewFasoService(cfg config.Config, pr repository.PaintingRepository) FasoService {
	return &fasoService{
		pr:         pr,
		bigRoot:    cfg.PaintingsBigPath,
		profileDir: filepath.Join(cfg.ProfilesDir, "faso"),
		headless:   true,
	}
}

func (s *fasoService) markerPath() string {
	return filepath.Join(s.profileDir, ".logged_in")
}

func (s *fasoService) IsConfigured() bool {
	_, err := os.Stat(s.markerPath())
	return err == nil
}

func (s *fasoService) browserContext(ctx context.Context) (context.Context, context.CancelFunc, error) {
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

func (s *fasoService) SetupSession(ctx context.Context) error {
	s.headless = false
	defer func() { s.headless = true }()

	browserCtx, cancel, err := s.browserContext(ctx)
	if err != nil {
		return err
	}
	defer cancel()

	slog.Info("opening FASO login page, sign in and wait for confirmation")
	err = chromedp.Run(browserCtx,
		chromedp.Navigate(fasoBaseURL+"/login"),
		chromedp.WaitVisible(`a[href*="logout"]`, chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("waiting for login: %w", err)
	}
	if err := os.WriteFile(s.markerPath(), []byte(time.Now().Format(time.RFC3339)+"\n"), 0o644); err != nil {
		return fmt.Errorf("writing login marker: %w", err)
	}
	slog.Info("FASO session saved", "profile", s.profileDir)
	return nil
}

// Upload pushes the full-resolution image plus metadata into the FASO
// artwork form and records the gallery tracking entry on success.
func (s *fasoService) Upload(ctx context.Context, p *models.Painting) (string, error) {
	if !s.IsConfigured() {
		return "", fmt.Errorf("FASO not configured, run faso-login first")
	}

	bigFile := p.Files.Big.First()
	if bigFile == "" {
		return "", fmt.Errorf("no full-resolution image recorded for %s", p.FilenameBase)
	}
	imagePath := filepath.Join(s.bigRoot, p.Folder(), bigFile)
	if _, err := os.Stat(imagePath); err != nil {
		return "", fmt.Errorf("image not found: %s", imagePath)
	}

	ctx, cancelTimeout := context.WithTimeout(ctx, 5*time.Minute)
	defer cancelTimeout()

	browserCtx, cancel, err := s.browserContext(ctx)
	if err != nil {
		return "", err
	}
	defer cancel()

	absPath, err := filepath.Abs(imagePath)
	if err != nil {
		return "", err
	}

	var artworkURL string
	err = chromedp.Run(browserCtx,
		chromedp.Navigate(fasoBaseURL+"/artwork/add"),
		chromedp.WaitVisible(`input[type="file"]`, chromedp.ByQuery),
		chromedp.SetUploadFiles(`input[type="file"]`, []string{absPath}, chromedp.ByQuery),
		chromedp.WaitVisible(`input[name="title"]`, chromedp.ByQuery),
		chromedp.SendKeys(`input[name="title"]`, p.DisplayTitle(), chromedp.ByQuery),
		chromedp.SendKeys(`textarea[name="description"]`, p.Description, chromedp.ByQuery),
		chromedp.SendKeys(`input[name="medium"]`, p.Medium, chromedp.ByQuery),
		chromedp.SendKeys(`input[name="dimensions"]`, p.Dimensions.Formatted, chromedp.ByQuery),
		chromedp.Click(`button[type="submit"]`, chromedp.ByQuery),
		chromedp.WaitNotPresent(`button[type="submit"]`, chromedp.ByQuery),
		chromedp.Location(&artworkURL),
	)
	if err != nil {
		slog.Info("faso upload failed", "painting", p.FilenameBase, "error", err)
		return "", fmt.Errorf("browser automation failed: %w", err)
	}

	if err := s.pr.RecordGalleryUpload(ctx, p, "faso", artworkURL); err != nil {
		return artworkURL, fmt.Errorf("upload succeeded but recording failed: %w", err)
	}
	return artworkURL, nil
}

// MarkUploaded records a gallery upload that happened outside this tool.
func (s *fasoService) MarkUploaded(ctx context.Context, p *models.Painting, url string) error {
	return s.pr.RecordGalleryUpload(ctx, p, "faso", url)
}

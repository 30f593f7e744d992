package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	config "github.com/chrisrehm/theo/configs"
	"github.com/chrisrehm/theo/internal/models"
	"github.com/chrisrehm/theo/internal/repository"
	"github.com/chrisrehm/theo/pkg/utils"
)

// PostService posts a painting to one social platform: it picks the image
// file, formats the caption, dispatches to the platform client, and records
// the tracking entry on success.
type PostService interface {
	PostPainting(ctx context.Context, p *models.Painting, platformName string) models.PostResult
	ImagePath(p *models.Painting) string
}

type postService struct {
	cfg       config.Config
	pr        repository.PaintingRepository
	platforms PlatformService
}

func NewPostService(cfg config.Config, pr repository.PaintingRepository, platforms PlatformService) PostService {
	return &postService{
		cfg:       cfg,
		pr:        pr,
		platforms: platforms,
	}
}

// ImagePath resolves the social-media-sized image for a painting. Metadata
// may record the instagram file explicitly; otherwise the file is assumed
// to mirror the full-resolution name inside the instagram tree.
func (s *postService) ImagePath(p *models.Painting) string {
	folder := p.Folder()
	if name := p.Files.Instagram.First(); name != "" {
		return filepath.Join(s.cfg.PaintingsInstagramPath, folder, name)
	}
	if name := p.Files.Big.First(); name != "" {
		return filepath.Join(s.cfg.PaintingsInstagramPath, folder, name)
	}
	return filepath.Join(s.cfg.PaintingsInstagramPath, folder, p.FilenameBase+".jpg")
}

func (s *postService) PostPainting(ctx context.Context, p *models.Painting, platformName string) models.PostResult {
	platform, err := s.platforms.Get(platformName)
	if err != nil {
		return models.PostFailure(err.Error())
	}

	imagePath := s.ImagePath(p)
	if _, err := os.Stat(imagePath); err != nil {
		return models.PostFailure(fmt.Sprintf("Image not found: %s", imagePath))
	}

	text := utils.FormatPostText(p, s.cfg.WebsiteURL, utils.DefaultMaxWords)
	altText := fmt.Sprintf("%s, %s", p.DisplayTitle(), p.Medium)

	result := platform.PostImage(ctx, imagePath, text, altText)
	if !result.Success {
		return result
	}

	if err := s.pr.RecordPost(ctx, p, platformName, result.PostURL); err != nil {
		slog.Info(err.Error())
		return models.PostFailure(fmt.Sprintf("Posted but recording failed: %v", err))
	}
	return result
}

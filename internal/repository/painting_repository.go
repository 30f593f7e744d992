package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/chrisrehm/theo/internal/models"
)

// Bookkeeping files that live alongside painting metadata in the same tree.
var nonPaintingFiles = map[string]bool{
	"schedule.json":      true,
	"upload_status.json": true,
	"rounds.json":        true,
}

type PaintingRepository interface {
	List(ctx context.Context) ([]*models.Painting, error)
	Get(ctx context.Context, filenameBase string) (*models.Painting, error)
	Load(ctx context.Context, path string) (*models.Painting, error)
	Save(ctx context.Context, p *models.Painting) error
	ListUnposted(ctx context.Context, platform string) ([]*models.Painting, error)
	RecordPost(ctx context.Context, p *models.Painting, platform, postURL string) error
	RecordRoundPost(ctx context.Context, p *models.Painting, platform string, round int, postURL string) error
	RecordGalleryUpload(ctx context.Context, p *models.Painting, site, url string) error
}

// paintingRepository keeps one JSON document per painting under a
// collection-organized directory tree. Each document is read and rewritten
// wholesale; there is no cross-document transaction.
type paintingRepository struct {
	root string
	now  func() time.Time
}

func NewPaintingRepository(root string) PaintingRepository {
	return &paintingRepository{root: root, now: time.Now}
}

func (r *paintingRepository) List(ctx context.Context) ([]*models.Painting, error) {
	var paintings []*models.Painting

	err := filepath.WalkDir(r.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && path == r.root {
				return fs.SkipAll
			}
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".json") || nonPaintingFiles[d.Name()] {
			return nil
		}

		p, err := r.Load(ctx, path)
		if err != nil {
			// A malformed document fails that one painting, not the listing.
			slog.Warn("skipping unreadable metadata file", "path", path, "error", err)
			return nil
		}
		if p.FilenameBase == "" {
			return nil
		}
		paintings = append(paintings, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking metadata tree: %w", err)
	}

	sort.Slice(paintings, func(i, j int) bool {
		return paintings[i].FilenameBase < paintings[j].FilenameBase
	})
	return paintings, nil
}

func (r *paintingRepository) Get(ctx context.Context, filenameBase string) (*models.Painting, error) {
	paintings, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range paintings {
		if p.FilenameBase == filenameBase {
			return p, nil
		}
	}
	return nil, fmt.Errorf("painting metadata %s: %w", filenameBase, ErrNotFound)
}

func (r *paintingRepository) Load(ctx context.Context, path string) (*models.Painting, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var p models.Painting
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	p.Path = path
	return &p, nil
}

func (r *paintingRepository) Save(ctx context.Context, p *models.Painting) error {
	path := p.Path
	if path == "" {
		folder := p.Folder()
		if folder == "" {
			folder = "uncategorized"
		}
		path = filepath.Join(r.root, folder, p.FilenameBase+".json")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating metadata directory: %w", err)
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing metadata file: %w", err)
	}
	p.Path = path
	return nil
}

func (r *paintingRepository) ListUnposted(ctx context.Context, platform string) ([]*models.Painting, error) {
	paintings, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	var unposted []*models.Painting
	for _, p := range paintings {
		entry, ok := p.SocialMedia[platform]
		if !ok || entry == nil || entry.PostCount == 0 {
			unposted = append(unposted, p)
		}
	}
	return unposted, nil
}

// RecordPost is the single tracking-update path for every platform: on a
// successful post the count increments by one, last_posted becomes the
// current time, and post_url is replaced. Failed attempts never reach here.
func (r *paintingRepository) RecordPost(ctx context.Context, p *models.Painting, platform, postURL string) error {
	entry := p.SocialEntryFor(platform)
	now := r.now()
	entry.PostCount++
	entry.LastPosted = &now
	entry.PostURL = postURL
	return r.Save(ctx, p)
}

// RecordRoundPost pins a platform's count to the given round instead of
// incrementing it. The daily poster uses it so a painting added mid-cycle
// catches up in one pass, and so skipped platforms stay in step with the
// ones that actually posted.
func (r *paintingRepository) RecordRoundPost(ctx context.Context, p *models.Painting, platform string, round int, postURL string) error {
	entry := p.SocialEntryFor(platform)
	now := r.now()
	entry.PostCount = round
	entry.LastPosted = &now
	if postURL != "" {
		entry.PostURL = postURL
	}
	return r.Save(ctx, p)
}

func (r *paintingRepository) RecordGalleryUpload(ctx context.Context, p *models.Painting, site, url string) error {
	entry := p.GalleryEntryFor(site)
	now := r.now()
	entry.LastUploaded = &now
	if url != "" {
		entry.URL = url
	}
	return r.Save(ctx, p)
}

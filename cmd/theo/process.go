package main

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/chrisrehm/theo/internal/models"
	"github.com/chrisrehm/theo/internal/tui"
	"github.com/chrisrehm/theo/pkg/utils"
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".tif":  true,
	".tiff": true,
	".webp": true,
}

// runProcess scans the full-resolution tree for paintings without metadata
// and generates a metadata document for each: Gemini titles with an
// interactive pick, a Gemini description, and a skeleton for everything the
// model cannot know.
func (a *app) runProcess(args []string) error {
	flags := pflag.NewFlagSet("process", pflag.ContinueOnError)
	skeleton := flags.Bool("skeleton", false, "skip AI analysis and write empty metadata skeletons")
	auto := flags.Bool("auto", false, "take the first generated title without asking")
	limit := flags.Int("limit", 0, "stop after this many new paintings (0 = no limit)")
	if err := flags.Parse(args); err != nil {
		return err
	}

	ctx := context.Background()

	known := make(map[string]bool)
	existing, err := a.pr.List(ctx)
	if err != nil {
		return err
	}
	for _, p := range existing {
		known[p.FilenameBase] = true
	}

	type candidate struct {
		base   string
		folder string
		file   string
		path   string
	}
	var candidates []candidate

	err = filepath.WalkDir(a.cfg.PaintingsBigPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !imageExtensions[strings.ToLower(filepath.Ext(d.Name()))] {
			return nil
		}
		base := utils.SanitizeFilename(strings.TrimSuffix(d.Name(), filepath.Ext(d.Name())))
		if known[base] {
			return nil
		}
		known[base] = true
		rel, err := filepath.Rel(a.cfg.PaintingsBigPath, path)
		if err != nil {
			return err
		}
		candidates = append(candidates, candidate{
			base:   base,
			folder: filepath.Dir(rel),
			file:   d.Name(),
			path:   path,
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("scanning %s: %w", a.cfg.PaintingsBigPath, err)
	}

	if len(candidates) == 0 {
		fmt.Println("No new paintings found.")
		return nil
	}
	fmt.Printf("Found %d new painting(s).\n", len(candidates))

	processed := 0
	for _, cand := range candidates {
		if *limit > 0 && processed >= *limit {
			break
		}

		folder := cand.folder
		if folder == "." {
			folder = ""
		}
		p := &models.Painting{
			FilenameBase:     cand.base,
			CollectionFolder: folder,
			Files: models.FileSet{
				Big:       models.StringOrList{cand.file},
				Instagram: models.StringOrList{cand.file},
			},
			ProcessedDate: time.Now().Format("2006-01-02"),
			SocialMedia:   models.EmptySocialMedia(),
		}

		if *skeleton || !a.analyzer.IsConfigured() {
			p.Title.Selected = utils.TitleFromFilename(cand.base)
		} else {
			a.analyzePainting(ctx, p, cand.path, *auto)
		}

		if err := a.pr.Save(ctx, p); err != nil {
			return fmt.Errorf("saving metadata for %s: %w", cand.base, err)
		}
		fmt.Printf("  %s: %q\n", cand.base, p.DisplayTitle())
		processed++
	}

	fmt.Printf("Processed %d painting(s).\n", processed)
	return nil
}

// analyzePainting fills in the AI-generated fields, falling back to a
// filename-derived title when the model or the operator gives nothing.
func (a *app) analyzePainting(ctx context.Context, p *models.Painting, imagePath string, auto bool) {
	titles, err := a.analyzer.GenerateTitles(ctx, imagePath)
	if err != nil {
		slog.Info("title generation failed", "painting", p.FilenameBase, "error", err)
		p.Title.Selected = utils.TitleFromFilename(p.FilenameBase)
	} else {
		p.Title.AllOptions = titles
		p.Title.Selected = titles[0]
		if !auto {
			options := make([]tui.Option, len(titles))
			for i, t := range titles {
				options[i] = tui.Option{Label: t}
			}
			idx, err := tui.Pick("Pick a title for "+p.FilenameBase, options)
			if err == nil && idx >= 0 {
				p.Title.Selected = titles[idx]
			}
		}
		p.AnalyzedFrom = filepath.Base(imagePath)
	}

	desc, err := a.analyzer.GenerateDescription(ctx, imagePath, p)
	if err != nil {
		slog.Info("description generation failed", "painting", p.FilenameBase, "error", err)
		return
	}
	p.Description = desc
}

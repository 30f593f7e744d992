package job

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"

	config "github.com/chrisrehm/theo/configs"
	"github.com/chrisrehm/theo/internal/models"
	"github.com/chrisrehm/theo/internal/repository"
	"github.com/chrisrehm/theo/internal/service"
	"github.com/chrisrehm/theo/pkg/utils"
)

// dailyPlatforms is the roster the automated daily post cycles through.
// The remaining platforms stay manual-only.
var dailyPlatforms = []string{
	"mastodon",
	"bluesky",
	"instagram",
	"threads",
	"cara",
	"pixelfed",
	"tiktok",
	"facebook",
	"linkedin",
}

// DailySummary reports what one daily posting pass did.
type DailySummary struct {
	Round     int
	Painting  string
	Succeeded []string
	Failed    []string
	Skipped   []string
}

// DailyPostJob posts one painting per pass to every platform in the daily
// roster. Rounds keep the rotation fair: a painting is eligible while any
// roster platform's post count is still below the current round, and the
// round only advances once no painting is left behind, so every painting
// goes out once before any goes out again.
type DailyPostJob struct {
	cfg       config.Config
	pr        repository.PaintingRepository
	rounds    repository.RoundsRepository
	platforms service.PlatformService
	poster    service.PostService
	pick      func(n int) int
}

func NewDailyPostJob(
	cfg config.Config,
	pr repository.PaintingRepository,
	rounds repository.RoundsRepository,
	platforms service.PlatformService,
	poster service.PostService) *DailyPostJob {
	return &DailyPostJob{
		cfg:       cfg,
		pr:        pr,
		rounds:    rounds,
		platforms: platforms,
		poster:    poster,
		pick:      rand.Intn,
	}
}

// eligiblePaintings returns the paintings still owed a post in this round.
func eligiblePaintings(paintings []*models.Painting, round int) []*models.Painting {
	var out []*models.Painting
	for _, p := range paintings {
		for _, name := range dailyPlatforms {
			entry := p.SocialMedia[name]
			count := 0
			if entry != nil {
				count = entry.PostCount
			}
			if count < round {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// ProcessDaily runs one daily posting pass: pick an eligible painting,
// post it to every roster platform, and record the round on each. Stub
// and unconfigured platforms are skipped but still recorded, so their
// counts stay in step and the rotation is driven by the real posts.
func (d *DailyPostJob) ProcessDaily(ctx context.Context) (*DailySummary, error) {
	paintings, err := d.pr.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(paintings) == 0 {
		return nil, fmt.Errorf("no painting metadata found under %s", d.cfg.MetadataPath)
	}

	round, err := d.rounds.Current(ctx)
	if err != nil {
		return nil, err
	}

	eligible := eligiblePaintings(paintings, round)
	if len(eligible) == 0 {
		round, err = d.rounds.Increment(ctx)
		if err != nil {
			return nil, err
		}
		slog.Info("all paintings posted, starting new round", "round", round)
		eligible = eligiblePaintings(paintings, round)
	}
	if len(eligible) == 0 {
		return nil, fmt.Errorf("no eligible painting in round %d", round)
	}

	painting := eligible[d.pick(len(eligible))]
	summary := &DailySummary{Round: round, Painting: painting.FilenameBase}

	imagePath := d.poster.ImagePath(painting)
	if _, err := os.Stat(imagePath); err != nil {
		return nil, fmt.Errorf("image not found for %s: %s", painting.FilenameBase, imagePath)
	}
	text := utils.FormatPostText(painting, d.cfg.WebsiteURL, utils.DefaultMaxWords)
	altText := fmt.Sprintf("%s, %s", painting.DisplayTitle(), painting.Medium)

	for _, name := range dailyPlatforms {
		platform, err := d.platforms.Get(name)
		if err != nil {
			return summary, err
		}

		if platform.IsStub() || !platform.IsConfigured() {
			if err := d.pr.RecordRoundPost(ctx, painting, name, round, ""); err != nil {
				return summary, err
			}
			summary.Skipped = append(summary.Skipped, name)
			continue
		}

		result := platform.PostImage(ctx, imagePath, text, altText)
		if !result.Success {
			slog.Info("daily post failed", "platform", name, "painting", painting.FilenameBase, "error", result.Error)
			summary.Failed = append(summary.Failed, name)
			continue
		}

		if err := d.pr.RecordRoundPost(ctx, painting, name, round, result.PostURL); err != nil {
			return summary, err
		}
		slog.Info("daily post published", "platform", name, "painting", painting.FilenameBase, "url", result.PostURL)
		summary.Succeeded = append(summary.Succeeded, name)
	}

	return summary, nil
}

// Run adapts ProcessDaily for cron scheduling.
func (d *DailyPostJob) Run() {
	summary, err := d.ProcessDaily(context.Background())
	if err != nil {
		slog.Error("daily post failed", "error", err)
		return
	}
	slog.Info("daily post complete",
		"round", summary.Round,
		"painting", summary.Painting,
		"succeeded", len(summary.Succeeded),
		"failed", len(summary.Failed),
		"skipped", len(summary.Skipped))
}

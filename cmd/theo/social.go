package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/chrisrehm/theo/internal/models"
	"github.com/chrisrehm/theo/internal/service"
	"github.com/chrisrehm/theo/internal/tui"
)

var errCancelled = fmt.Errorf("cancelled")

// parseWhen accepts the datetime-local format or RFC 3339.
func parseWhen(value string) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02T15:04", value, time.Local); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid time: %q", value)
}

// platformOptions builds picker entries for a platform list.
func platformOptions(platforms []service.SocialPlatform) []tui.Option {
	opts := make([]tui.Option, len(platforms))
	for i, p := range platforms {
		opts[i] = tui.Option{Label: p.Name(), Desc: p.DisplayName()}
	}
	return opts
}

// paintingOptions builds picker entries for a painting list, showing how
// often each one has gone out on the platform already.
func paintingOptions(paintings []*models.Painting, platform string) []tui.Option {
	opts := make([]tui.Option, len(paintings))
	for i, p := range paintings {
		desc := p.FilenameBase
		if entry, ok := p.SocialMedia[platform]; ok && entry != nil && entry.PostCount > 0 {
			desc = fmt.Sprintf("%s (posted %d times)", p.FilenameBase, entry.PostCount)
		}
		opts[i] = tui.Option{Label: p.DisplayTitle(), Desc: desc}
	}
	return opts
}

// choosePlatform drops into an interactive picker over the configured
// platforms.
func (a *app) choosePlatform() (string, error) {
	configured := a.platforms.Configured()
	if len(configured) == 0 {
		return "", fmt.Errorf("no platforms configured, run verify-config")
	}
	idx, err := tui.Pick("Pick a platform", platformOptions(configured))
	if err != nil {
		return "", err
	}
	if idx < 0 {
		return "", errCancelled
	}
	return configured[idx].Name(), nil
}

// choosePainting offers the paintings not yet posted to the platform,
// falling back to the whole collection once everything has been posted.
func (a *app) choosePainting(ctx context.Context, platform string) (*models.Painting, error) {
	paintings, err := a.pr.ListUnposted(ctx, platform)
	if err != nil {
		return nil, err
	}
	title := "Pick a painting (unposted on " + platform + ")"
	if len(paintings) == 0 {
		if paintings, err = a.pr.List(ctx); err != nil {
			return nil, err
		}
		title = "Pick a painting (all posted on " + platform + " at least once)"
	}
	if len(paintings) == 0 {
		return nil, fmt.Errorf("no painting metadata found under %s", a.cfg.MetadataPath)
	}

	idx, err := tui.Pick(title, paintingOptions(paintings, platform))
	if err != nil {
		return nil, err
	}
	if idx < 0 {
		return nil, errCancelled
	}
	return paintings[idx], nil
}

func (a *app) confirm(question string) (bool, error) {
	idx, err := tui.Pick(question, []tui.Option{
		{Label: "Yes"},
		{Label: "No"},
	})
	if err != nil {
		return false, err
	}
	return idx == 0, nil
}

// resolvePostTarget fills in whichever of platform and painting the flags
// left out, via interactive pickers. It reports whether any picking
// happened, so callers know to confirm before acting.
func (a *app) resolvePostTarget(ctx context.Context, platformFlag, paintingArg string) (string, *models.Painting, bool, error) {
	interactive := false

	platformName := platformFlag
	if platformName == "" {
		name, err := a.choosePlatform()
		if err != nil {
			return "", nil, false, err
		}
		platformName = name
		interactive = true
	} else if _, err := a.platforms.Get(platformName); err != nil {
		return "", nil, false, err
	}

	var painting *models.Painting
	var err error
	if paintingArg != "" {
		painting, err = a.pr.Get(ctx, paintingArg)
	} else {
		painting, err = a.choosePainting(ctx, platformName)
		interactive = true
	}
	if err != nil {
		return "", nil, false, err
	}

	return platformName, painting, interactive, nil
}

func (a *app) runPostSocial(args []string) error {
	flags := pflag.NewFlagSet("post-social", pflag.ContinueOnError)
	platform := flags.StringP("platform", "p", "", "platform to post to (interactive picker when omitted)")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() > 1 {
		return fmt.Errorf("usage: theo post-social [filename_base] [--platform <name>]")
	}

	ctx := context.Background()
	platformName, painting, interactive, err := a.resolvePostTarget(ctx, *platform, flags.Arg(0))
	if err == errCancelled {
		fmt.Println("Cancelled.")
		return nil
	}
	if err != nil {
		return err
	}

	if interactive {
		ok, err := a.confirm(fmt.Sprintf("Post %q to %s now?", painting.DisplayTitle(), platformName))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	result := a.poster.PostPainting(ctx, painting, platformName)
	if !result.Success {
		return fmt.Errorf("%s", result.Error)
	}

	fmt.Printf("Posted %q to %s: %s\n", painting.DisplayTitle(), platformName, result.PostURL)
	return nil
}

func (a *app) runSchedulePost(args []string) error {
	flags := pflag.NewFlagSet("schedule-post", pflag.ContinueOnError)
	platform := flags.StringP("platform", "p", "", "platform to post to (interactive picker when omitted)")
	when := flags.StringP("time", "t", "", "scheduled time (2006-01-02T15:04 or RFC 3339)")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() > 1 || *when == "" {
		return fmt.Errorf("usage: theo schedule-post [filename_base] [--platform <name>] --time <when>")
	}

	scheduledTime, err := parseWhen(*when)
	if err != nil {
		return err
	}

	ctx := context.Background()
	platformName, painting, _, err := a.resolvePostTarget(ctx, *platform, flags.Arg(0))
	if err == errCancelled {
		fmt.Println("Cancelled.")
		return nil
	}
	if err != nil {
		return err
	}

	post := &models.ScheduledPost{
		ContentType:   models.ContentTypePainting,
		ContentID:     painting.FilenameBase,
		MetadataPath:  painting.Path,
		Platform:      platformName,
		ScheduledTime: scheduledTime,
	}
	id, err := a.sr.Add(ctx, post)
	if err != nil {
		return err
	}

	fmt.Printf("Scheduled %s for %s on %s (id %s)\n",
		painting.FilenameBase, scheduledTime.Format("2006-01-02 15:04"), platformName, id)
	return nil
}

func (a *app) runListSchedule(args []string) error {
	flags := pflag.NewFlagSet("list-schedule", pflag.ContinueOnError)
	status := flags.String("status", "", "filter by status (pending, posted, cancelled, failed)")
	if err := flags.Parse(args); err != nil {
		return err
	}

	posts, err := a.sr.List(context.Background())
	if err != nil {
		return err
	}

	shown := 0
	for _, p := range posts {
		if *status != "" && p.Status != *status {
			continue
		}
		printScheduledPost(p)
		shown++
	}
	if shown == 0 {
		fmt.Println("No scheduled posts.")
	}
	return nil
}

func (a *app) runHistory(args []string) error {
	flags := pflag.NewFlagSet("history", pflag.ContinueOnError)
	limit := flags.IntP("limit", "n", 20, "number of entries to show")
	if err := flags.Parse(args); err != nil {
		return err
	}

	posts, err := a.sr.History(context.Background(), *limit)
	if err != nil {
		return err
	}
	if len(posts) == 0 {
		fmt.Println("No past posts.")
		return nil
	}
	for _, p := range posts {
		printScheduledPost(p)
	}
	return nil
}

func (a *app) runCancelPost(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: theo cancel-post <id>")
	}
	if err := a.sr.Cancel(context.Background(), args[0]); err != nil {
		return err
	}
	fmt.Printf("Cancelled %s\n", args[0])
	return nil
}

func printScheduledPost(p *models.ScheduledPost) {
	line := fmt.Sprintf("%s  %-9s %-10s %s  %s",
		p.ID, p.Status, p.Platform, p.ScheduledTime.Format("2006-01-02 15:04"), p.ContentID)
	if p.PostURL != "" {
		line += "  " + p.PostURL
	}
	if p.Error != "" {
		line += "  (" + p.Error + ")"
	}
	fmt.Println(line)
}

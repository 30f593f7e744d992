package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/robfig/cron"
	"github.com/spf13/pflag"
)

// runDailyPost posts one painting to every platform in the daily roster,
// rotating through the collection round by round so nothing repeats until
// everything has gone out once.
func (a *app) runDailyPost(args []string) error {
	flags := pflag.NewFlagSet("daily-post", pflag.ContinueOnError)
	watch := flags.BoolP("watch", "w", false, "keep running and post on a daily cron schedule")
	at := flags.String("at", "0 0 9 * * *", "cron schedule in watch mode")
	if err := flags.Parse(args); err != nil {
		return err
	}

	if !*watch {
		summary, err := a.dailyJob.ProcessDaily(context.Background())
		if err != nil {
			return err
		}
		fmt.Printf("Round %d: posted %s\n", summary.Round, summary.Painting)
		if len(summary.Succeeded) > 0 {
			fmt.Printf("  Succeeded: %s\n", strings.Join(summary.Succeeded, ", "))
		}
		if len(summary.Failed) > 0 {
			fmt.Printf("  Failed: %s\n", strings.Join(summary.Failed, ", "))
		}
		if len(summary.Skipped) > 0 {
			fmt.Printf("  Skipped (not configured): %s\n", strings.Join(summary.Skipped, ", "))
		}
		return nil
	}

	c := cron.New()
	if err := c.AddJob(*at, a.dailyJob); err != nil {
		return err
	}
	c.Start()
	defer c.Stop()

	fmt.Printf("Posting daily on schedule %q, Ctrl-C to stop.\n", *at)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	fmt.Println("Stopping.")
	return nil
}

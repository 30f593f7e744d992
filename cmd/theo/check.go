package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron"
	"github.com/spf13/pflag"
)

// runCheckSchedule posts everything that is due. Individual post failures
// are recorded on their entries and do not fail the command; only a broken
// schedule store does.
func (a *app) runCheckSchedule(args []string) error {
	flags := pflag.NewFlagSet("check-schedule", pflag.ContinueOnError)
	watch := flags.BoolP("watch", "w", false, "keep running and check on an interval")
	interval := flags.Duration("interval", 5*time.Minute, "check interval in watch mode")
	if err := flags.Parse(args); err != nil {
		return err
	}

	if !*watch {
		summary, err := a.checkJob.ProcessDue(context.Background())
		if err != nil {
			return err
		}
		fmt.Printf("Due: %d, posted: %d, failed: %d\n", summary.Due, summary.Posted, summary.Failed)
		return nil
	}

	c := cron.New()
	if err := c.AddJob(fmt.Sprintf("@every %s", *interval), a.checkJob); err != nil {
		return err
	}
	c.Start()
	defer c.Stop()

	fmt.Printf("Watching schedule every %s, Ctrl-C to stop.\n", *interval)
	a.checkJob.Run()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	fmt.Println("Stopping.")
	return nil
}

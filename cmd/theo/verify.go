package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/chrisrehm/theo/internal/service"
)

// runVerifyConfig reports which platforms and services have working
// credentials. With --check it also calls each configured platform's
// verification endpoint.
func (a *app) runVerifyConfig(args []string) error {
	flags := pflag.NewFlagSet("verify-config", pflag.ContinueOnError)
	check := flags.Bool("check", false, "verify credentials against each platform's API")
	if err := flags.Parse(args); err != nil {
		return err
	}

	fmt.Println("Platforms:")
	for _, p := range a.platforms.All() {
		status := "not configured"
		switch {
		case p.IsStub():
			status = "stub"
		case p.IsConfigured() && *check:
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			ok, err := p.VerifyCredentials(ctx)
			cancel()
			switch {
			case err != nil:
				status = fmt.Sprintf("error: %v", err)
			case ok:
				status = "verified"
			default:
				status = "credentials rejected"
			}
		case p.IsConfigured():
			status = "ready"
		}
		fmt.Printf("  %-12s %s\n", p.Name(), status)
	}

	fmt.Println("Services:")
	fmt.Printf("  %-12s %s\n", "gemini", readiness(a.analyzer.IsConfigured()))
	fmt.Printf("  %-12s %s\n", "r2", readiness(service.NewR2Service(a.cfg).IsConfigured()))
	fmt.Printf("  %-12s %s\n", "faso", readiness(service.NewFasoService(a.cfg, a.pr).IsConfigured()))

	fmt.Println("Paths:")
	fmt.Printf("  %-12s %s\n", "big", a.cfg.PaintingsBigPath)
	fmt.Printf("  %-12s %s\n", "instagram", a.cfg.PaintingsInstagramPath)
	fmt.Printf("  %-12s %s\n", "metadata", a.cfg.MetadataPath)
	fmt.Printf("  %-12s %s\n", "schedule", a.cfg.SchedulePath)

	return nil
}

func readiness(ok bool) string {
	if ok {
		return "ready"
	}
	return "not configured"
}

package main

import (
	"context"
	"fmt"

	"github.com/chrisrehm/theo/internal/service"
)

func (a *app) runBackup(args []string) error {
	r2 := service.NewR2Service(a.cfg)
	if !r2.IsConfigured() {
		return fmt.Errorf("R2 not configured, set R2_ACCOUNT_ID, R2_ACCESS_KEY, R2_SECRET_KEY and R2_BUCKET_NAME")
	}

	uploaded, err := r2.BackupAll(context.Background(), a.cfg.MetadataPath, a.cfg.SchedulePath)
	if err != nil {
		return err
	}

	fmt.Printf("Backed up %d file(s) to R2.\n", uploaded)
	return nil
}

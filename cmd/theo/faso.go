package main

import (
	"context"
	"fmt"

	"github.com/chrisrehm/theo/internal/service"
)

func (a *app) runFasoLogin(args []string) error {
	faso := service.NewFasoService(a.cfg, a.pr)
	return faso.SetupSession(context.Background())
}

func (a *app) runFasoUpload(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: theo faso-upload <filename_base>")
	}

	ctx := context.Background()
	painting, err := a.pr.Get(ctx, args[0])
	if err != nil {
		return err
	}

	if entry, ok := painting.GallerySites["faso"]; ok && entry.URL != "" {
		return fmt.Errorf("%s is already on FASO: %s", painting.FilenameBase, entry.URL)
	}

	faso := service.NewFasoService(a.cfg, a.pr)
	url, err := faso.Upload(ctx, painting)
	if err != nil {
		return err
	}

	fmt.Printf("Uploaded %q to FASO: %s\n", painting.DisplayTitle(), url)
	return nil
}

func (a *app) runMarkUploaded(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: theo mark-uploaded <filename_base> <url>")
	}

	ctx := context.Background()
	painting, err := a.pr.Get(ctx, args[0])
	if err != nil {
		return err
	}

	faso := service.NewFasoService(a.cfg, a.pr)
	if err := faso.MarkUploaded(ctx, painting, args[1]); err != nil {
		return err
	}

	fmt.Printf("Recorded FASO upload for %s\n", painting.FilenameBase)
	return nil
}

func (a *app) runCaraLogin(args []string) error {
	cara := service.NewCaraService(a.cfg)
	return cara.SetupSession(context.Background())
}

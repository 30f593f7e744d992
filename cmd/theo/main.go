package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	config "github.com/chrisrehm/theo/configs"
	job "github.com/chrisrehm/theo/internal/jobs"
	"github.com/chrisrehm/theo/internal/repository"
	"github.com/chrisrehm/theo/internal/service"
)

// app wires the repositories and services every subcommand shares.
type app struct {
	cfg       config.Config
	pr        repository.PaintingRepository
	sr        repository.ScheduleRepository
	platforms service.PlatformService
	poster    service.PostService
	analyzer  service.AnalyzerService
	checkJob  *job.CheckScheduleJob
	dailyJob  *job.DailyPostJob
}

func newApp(cfg *config.Config) *app {
	pr := repository.NewPaintingRepository(cfg.MetadataPath)
	sr := repository.NewScheduleRepository(cfg.SchedulePath)
	rounds := repository.NewRoundsRepository(filepath.Join(cfg.MetadataPath, "rounds.json"))
	platforms := service.NewPlatformService(*cfg)
	poster := service.NewPostService(*cfg, pr, platforms)

	return &app{
		cfg:       *cfg,
		pr:        pr,
		sr:        sr,
		platforms: platforms,
		poster:    poster,
		analyzer:  service.NewAnalyzerService(*cfg),
		checkJob:  job.NewCheckScheduleJob(sr, pr, poster, platforms),
		dailyJob:  job.NewDailyPostJob(*cfg, pr, rounds, platforms, poster),
	}
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg := config.LoadConfig()
	a := newApp(cfg)

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "process":
		err = a.runProcess(args)
	case "post-social":
		err = a.runPostSocial(args)
	case "schedule-post":
		err = a.runSchedulePost(args)
	case "list-schedule":
		err = a.runListSchedule(args)
	case "history":
		err = a.runHistory(args)
	case "cancel-post":
		err = a.runCancelPost(args)
	case "check-schedule":
		err = a.runCheckSchedule(args)
	case "daily-post":
		err = a.runDailyPost(args)
	case "faso-upload":
		err = a.runFasoUpload(args)
	case "faso-login":
		err = a.runFasoLogin(args)
	case "mark-uploaded":
		err = a.runMarkUploaded(args)
	case "cara-login":
		err = a.runCaraLogin(args)
	case "backup":
		err = a.runBackup(args)
	case "serve":
		err = a.runServe(args)
	case "verify-config":
		err = a.runVerifyConfig(args)
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", cmd)
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprint(os.Stderr, `theo - painting metadata, gallery and social media automation

Usage: theo <command> [flags]

Metadata:
  process          analyze new paintings and generate metadata
  verify-config    show which platforms and services are configured

Posting:
  post-social      post a painting to a platform now
  schedule-post    schedule a painting post for later
  list-schedule    show scheduled posts
  history          show past posts, newest first
  cancel-post      cancel a pending scheduled post
  check-schedule   post everything that is due
  daily-post       post one painting to the daily roster, rotating in rounds

Gallery:
  faso-login       open a browser to sign in to FASO
  faso-upload      upload a painting to the FASO gallery
  mark-uploaded    record a gallery upload done by hand

Other:
  cara-login       open a browser to sign in to Cara
  backup           back up metadata and schedule to R2
  serve            run the local HTTP API
`)
}

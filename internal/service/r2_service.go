package service

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	cfg "github.com/chrisrehm/theo/configs"
)

// R2Service backs up painting metadata and the schedule file to
// Cloudflare R2 Storage.
type R2Service struct {
	config cfg.Config
}

func NewR2Service(cfg cfg.Config) *R2Service {
	return &R2Service{config: cfg}
}

func (r *R2Service) IsConfigured() bool {
	c := r.config.R2
	return c.AccountID != "" && c.AccessKey != "" && c.SecretKey != "" && c.BucketName != ""
}

func (r *R2Service) R2Client(ctx context.Context) (*s3.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(r.config.R2.AccessKey, r.config.R2.SecretKey, "")),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", r.config.R2.AccountID))
	}), nil
}

// UploadToR2 uploads a single file to Cloudflare R2 Storage.
func (r *R2Service) UploadToR2(ctx context.Context, key string, file []byte, filetype string) error {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(r.config.R2.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(file),
		ContentType: aws.String(filetype),
	}

	r2Client, err := r.R2Client(ctx)
	if err != nil {
		return err
	}

	_, err = r2Client.PutObject(ctx, input)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	return nil
}

// BackupAll uploads every metadata JSON under the paintings tree plus the
// schedule file, keyed under a date prefix so older backups survive.
func (r *R2Service) BackupAll(ctx context.Context, metadataRoot, schedulePath string) (int, error) {
	if !r.IsConfigured() {
		return 0, fmt.Errorf("R2 not configured")
	}

	prefix := fmt.Sprintf("backups/%s", time.Now().Format("2006-01-02"))
	uploaded := 0

	err := filepath.WalkDir(metadataRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".json") {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(metadataRoot, path)
		if err != nil {
			return err
		}
		key := prefix + "/metadata/" + filepath.ToSlash(rel)
		if err := r.UploadToR2(ctx, key, data, "application/json"); err != nil {
			return fmt.Errorf("uploading %s: %w", rel, err)
		}
		uploaded++
		return nil
	})
	if err != nil {
		return uploaded, err
	}

	if data, err := os.ReadFile(schedulePath); err == nil {
		key := prefix + "/" + filepath.Base(schedulePath)
		if err := r.UploadToR2(ctx, key, data, "application/json"); err != nil {
			return uploaded, fmt.Errorf("uploading schedule: %w", err)
		}
		uploaded++
	}

	return uploaded, nil
}

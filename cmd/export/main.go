// Command export snapshots the paper collection to an S3-compatible bucket
// as gzipped JSON lines and rotates old snapshots.
package main

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"paper-search/config"
	"paper-search/logger"
	"paper-search/storage"
	"paper-search/storage/driver"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"
)

type ExportConfig struct {
	Bucket        string        `envconfig:"EXPORT_S3_BUCKET" required:"true"`
	Endpoint      string        `envconfig:"EXPORT_S3_ENDPOINT"`
	AccessKey     string        `envconfig:"EXPORT_S3_ACCESS_KEY" required:"true"`
	SecretKey     string        `envconfig:"EXPORT_S3_SECRET_KEY" required:"true"`
	Region        string        `envconfig:"EXPORT_S3_REGION" default:"us-east-1"`
	Prefix        string        `envconfig:"EXPORT_S3_PREFIX" default:"snapshots/"`
	KeepSnapshots int           `envconfig:"KEEP_SNAPSHOTS" default:"4"`
	Timeout       time.Duration `envconfig:"EXPORT_TIMEOUT" default:"10m"`
}

func snapshotKey(prefix string, now time.Time) string {
	return fmt.Sprintf("%spapers-%s.jsonl.gz", prefix, now.UTC().Format("2006-01-02T15-04-05Z"))
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	var ecfg ExportConfig
	if err := envconfig.Process("", &ecfg); err != nil {
		log.Fatalf("export config load error: %v", err)
	}

	logging, err := logger.New(cfg.LogLevel, cfg.LogFormat, cfg.LogFile)
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), ecfg.Timeout)
	defer cancel()

	if err := run(ctx, cfg, ecfg, logging); err != nil {
		logging.Fatal("Export failed", zap.Error(err))
	}
	logging.Info("Export finished")
}

func run(ctx context.Context, cfg *config.Config, ecfg ExportConfig, logging *zap.Logger) error {
	store, err := driver.Open(ctx, cfg, logging)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close(context.Background())

	var buf bytes.Buffer
	n, err := storage.WriteSnapshot(ctx, store, &buf)
	if err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	logging.Info("Snapshot written", zap.Int("papers", n), zap.Int("bytes", buf.Len()))

	client, err := storage.NewS3Client(ctx, storage.S3Settings{
		Endpoint:  ecfg.Endpoint,
		Region:    ecfg.Region,
		AccessKey: ecfg.AccessKey,
		SecretKey: ecfg.SecretKey,
	})
	if err != nil {
		return fmt.Errorf("create s3 client: %w", err)
	}

	link, err := storage.UploadObject(ctx, client, ecfg.Bucket, snapshotKey(ecfg.Prefix, time.Now()), buf.Bytes())
	if err != nil {
		return fmt.Errorf("upload snapshot: %w", err)
	}
	logging.Info("Snapshot uploaded", zap.String("location", link))

	deleted, err := storage.RotateSnapshots(ctx, client, ecfg.Bucket, ecfg.Prefix, ecfg.KeepSnapshots, logging)
	if err != nil {
		return fmt.Errorf("rotate snapshots: %w", err)
	}
	logging.Info("Snapshots rotated", zap.Int("deleted", len(deleted)), zap.Int("keep", ecfg.KeepSnapshots))
	return nil
}

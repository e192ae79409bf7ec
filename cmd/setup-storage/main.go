// Command setup-storage creates the public avatar bucket in Supabase Storage.
// It is safe to run repeatedly.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dafibh/prolink/prolink-backend/internal/config"
	"github.com/dafibh/prolink/prolink-backend/internal/repository/storage"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	admin := storage.NewSupabaseStorageClient(cfg.Supabase.URL, cfg.Supabase.Key)
	if err := run(ctx, admin, cfg.S3.Bucket, cfg.Avatar.MaxBytes); err != nil {
		log.Fatal().Err(err).Msg("Storage setup failed")
	}
	log.Info().Msg("Storage setup completed")
}

func run(ctx context.Context, admin storage.BucketAdmin, bucket string, maxBytes int64) error {
	if _, err := storage.ProvisionBucket(ctx, admin, storage.AvatarBucketSpec(bucket, maxBytes)); err != nil {
		return fmt.Errorf("failed to set up bucket %q: %w", bucket, err)
	}
	return nil
}

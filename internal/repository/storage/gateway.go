package storage

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Strategy is one way of putting an object into the avatar bucket
type Strategy interface {
	Name() string
	Upload(ctx context.Context, bucket, key string, data []byte, contentType string) error
	// CheckBucket returns nil when the bucket exists and is accessible
	CheckBucket(ctx context.Context, bucket string) error
}

// Step is a strategy in the upload chain
type Step struct {
	Strategy Strategy
	// RequireReachable skips the step unless BucketReachable succeeds
	RequireReachable bool
}

// UploadObserver receives the outcome of every strategy attempt
type UploadObserver interface {
	ObserveUpload(strategy, outcome string)
}

// Upload outcomes reported to the observer
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeSkipped = "skipped"
)

// Gateway uploads objects through an ordered strategy chain.
// It is safe for concurrent use.
type Gateway struct {
	bucket     string
	publicBase string
	steps      []Step
	observer   UploadObserver
	reachable  atomic.Bool
}

// NewGateway creates a Gateway. publicBase is the URL prefix under which
// objects are publicly readable, without the bucket segment.
func NewGateway(bucket, publicBase string, steps ...Step) *Gateway {
	return &Gateway{
		bucket:     bucket,
		publicBase: strings.TrimRight(publicBase, "/"),
		steps:      steps,
	}
}

// WithObserver attaches an upload observer
func (g *Gateway) WithObserver(o UploadObserver) *Gateway {
	g.observer = o
	return g
}

// PublicURL returns the public URL of key
func (g *Gateway) PublicURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", g.publicBase, g.bucket, key)
}

// GenerateAvatarPath returns a unique object key for a user's avatar
func GenerateAvatarPath(userID uuid.UUID, ext string) string {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	return fmt.Sprintf("avatars/%s-%d.%s", userID, time.Now().UnixMilli(), ext)
}

// BucketReachable checks the bucket with each strategy in turn.
// Only a positive answer is cached.
func (g *Gateway) BucketReachable(ctx context.Context) bool {
	if g.reachable.Load() {
		return true
	}

	for _, step := range g.steps {
		err := step.Strategy.CheckBucket(ctx, g.bucket)
		if err == nil {
			g.reachable.Store(true)
			return true
		}
		log.Debug().
			Err(err).
			Str("strategy", step.Strategy.Name()).
			Str("bucket", g.bucket).
			Msg("Bucket check failed")
	}
	return false
}

// Upload stores data under key and returns its public URL. The first
// successful strategy wins; if all fail the returned *StorageError holds
// every cause.
func (g *Gateway) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	var causes []error

	for _, step := range g.steps {
		name := step.Strategy.Name()

		if step.RequireReachable && !g.BucketReachable(ctx) {
			causes = append(causes, fmt.Errorf("%s: %w", name, errBucketUnreachable))
			g.observe(name, OutcomeSkipped)
			continue
		}

		if err := step.Strategy.Upload(ctx, g.bucket, key, data, contentType); err != nil {
			log.Warn().
				Err(err).
				Str("strategy", name).
				Str("key", key).
				Msg("Upload strategy failed")
			causes = append(causes, fmt.Errorf("%s: %w", name, err))
			g.observe(name, OutcomeFailure)
			continue
		}

		g.observe(name, OutcomeSuccess)
		log.Info().
			Str("strategy", name).
			Str("key", key).
			Int("size", len(data)).
			Msg("Object uploaded")
		return g.PublicURL(key), nil
	}

	return "", newStorageError(key, causes)
}

// EnsureBucket logs a warning when the bucket cannot be reached
func (g *Gateway) EnsureBucket(ctx context.Context) {
	if g.BucketReachable(ctx) {
		log.Info().Str("bucket", g.bucket).Msg("Storage bucket reachable")
		return
	}
	log.Warn().
		Str("bucket", g.bucket).
		Msg("Storage bucket not reachable, run setup-storage to create it")
}

func (g *Gateway) observe(strategy, outcome string) {
	if g.observer != nil {
		g.observer.ObserveUpload(strategy, outcome)
	}
}

package storage

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// AvatarMIMETypes are the image types the avatar bucket accepts
var AvatarMIMETypes = []string{"image/png", "image/jpeg", "image/gif", "image/webp"}

// BucketSpec describes a bucket to provision
type BucketSpec struct {
	Name             string
	Public           bool
	MaxFileBytes     int64
	AllowedMIMETypes []string
}

// AvatarBucketSpec returns the settings of the public avatar bucket
func AvatarBucketSpec(name string, maxFileBytes int64) BucketSpec {
	return BucketSpec{
		Name:             name,
		Public:           true,
		MaxFileBytes:     maxFileBytes,
		AllowedMIMETypes: AvatarMIMETypes,
	}
}

// FileSizeLimit renders MaxFileBytes in the unit syntax Supabase Storage
// accepts. Zero means no limit.
func (s BucketSpec) FileSizeLimit() string {
	switch {
	case s.MaxFileBytes <= 0:
		return ""
	case s.MaxFileBytes%(1<<20) == 0:
		return fmt.Sprintf("%dMB", s.MaxFileBytes>>20)
	case s.MaxFileBytes%(1<<10) == 0:
		return fmt.Sprintf("%dKB", s.MaxFileBytes>>10)
	default:
		return fmt.Sprintf("%dB", s.MaxFileBytes)
	}
}

// BucketAdmin manages buckets on a storage backend
type BucketAdmin interface {
	BucketExists(ctx context.Context, name string) (bool, error)
	CreateBucket(ctx context.Context, spec BucketSpec) error
}

// ProvisionBucket creates the bucket described by spec unless a bucket with
// that name exists. It reports whether a bucket was created.
func ProvisionBucket(ctx context.Context, admin BucketAdmin, spec BucketSpec) (bool, error) {
	exists, err := admin.BucketExists(ctx, spec.Name)
	if err != nil {
		return false, err
	}
	if exists {
		log.Info().Str("bucket", spec.Name).Msg("Storage bucket already exists")
		return false, nil
	}

	if err := admin.CreateBucket(ctx, spec); err != nil {
		return false, err
	}

	log.Info().
		Str("bucket", spec.Name).
		Bool("public", spec.Public).
		Str("file_size_limit", spec.FileSizeLimit()).
		Strs("allowed_mime_types", spec.AllowedMIMETypes).
		Msg("Storage bucket created")
	return true, nil
}

package storage

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds carried by StorageError
var (
	ErrBucketMissing = errors.New("storage bucket missing")
	ErrUploadFailed  = errors.New("storage upload failed")
)

// errBucketUnreachable marks a step skipped because the bucket check failed
var errBucketUnreachable = errors.New("bucket not reachable")

// StorageError aggregates every strategy failure of a single upload
type StorageError struct {
	Kind   error
	Key    string
	Causes []error
}

func (e *StorageError) Error() string {
	msgs := make([]string, 0, len(e.Causes))
	for _, c := range e.Causes {
		msgs = append(msgs, c.Error())
	}
	return fmt.Sprintf("%v for %q: %s", e.Kind, e.Key, strings.Join(msgs, "; "))
}

// Unwrap exposes only the kind, so an error matches exactly one of
// ErrBucketMissing and ErrUploadFailed
func (e *StorageError) Unwrap() error {
	return e.Kind
}

// Cause joins the individual strategy failures
func (e *StorageError) Cause() error {
	return errors.Join(e.Causes...)
}

func newStorageError(key string, causes []error) *StorageError {
	kind := ErrUploadFailed
	if len(causes) > 0 && errors.Is(causes[len(causes)-1], ErrBucketMissing) {
		kind = ErrBucketMissing
	}
	return &StorageError{Kind: kind, Key: key, Causes: causes}
}

// bucketMissing wraps err so errors.Is(err, ErrBucketMissing) holds
func bucketMissing(err error) error {
	return fmt.Errorf("%w: %w", ErrBucketMissing, err)
}

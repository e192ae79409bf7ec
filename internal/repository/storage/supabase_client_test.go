package storage

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	storage_go "github.com/supabase-community/storage-go"
)

// fakeSupabaseAPI records SDK calls
type fakeSupabaseAPI struct {
	uploadErr error
	bucketErr error
	buckets   []storage_go.Bucket
	createErr error

	uploadedBucket, uploadedPath string
	uploadedData                 []byte
	uploadOptions                storage_go.FileOptions
	createdID                    string
	createdOptions               storage_go.BucketOptions
}

func (f *fakeSupabaseAPI) UploadFile(bucketID string, relativePath string, data io.Reader, fileOptions ...storage_go.FileOptions) (storage_go.FileUploadResponse, error) {
	f.uploadedBucket, f.uploadedPath = bucketID, relativePath
	f.uploadedData, _ = io.ReadAll(data)
	if len(fileOptions) > 0 {
		f.uploadOptions = fileOptions[0]
	}
	return storage_go.FileUploadResponse{}, f.uploadErr
}

func (f *fakeSupabaseAPI) GetBucket(id string) (storage_go.Bucket, error) {
	return storage_go.Bucket{}, f.bucketErr
}

func (f *fakeSupabaseAPI) ListBuckets() ([]storage_go.Bucket, error) {
	return f.buckets, f.bucketErr
}

func (f *fakeSupabaseAPI) CreateBucket(id string, options storage_go.BucketOptions) (storage_go.Bucket, error) {
	f.createdID, f.createdOptions = id, options
	return storage_go.Bucket{}, f.createErr
}

func TestSupabaseStorageClient_UploadUpserts(t *testing.T) {
	api := &fakeSupabaseAPI{}
	c := NewSupabaseStorageClientWithAPI(api)

	err := c.Upload(context.Background(), "profile-avatars", "avatars/a.png", []byte("png"), "image/png")
	require.NoError(t, err)

	assert.Equal(t, "profile-avatars", api.uploadedBucket)
	assert.Equal(t, "avatars/a.png", api.uploadedPath)
	assert.Equal(t, []byte("png"), api.uploadedData)
	require.NotNil(t, api.uploadOptions.Upsert)
	assert.True(t, *api.uploadOptions.Upsert)
	require.NotNil(t, api.uploadOptions.ContentType)
	assert.Equal(t, "image/png", *api.uploadOptions.ContentType)
}

func TestSupabaseStorageClient_BucketNotFound(t *testing.T) {
	api := &fakeSupabaseAPI{
		uploadErr: errors.New("Bucket not found"),
		bucketErr: errors.New("Bucket not found"),
	}
	c := NewSupabaseStorageClientWithAPI(api)

	err := c.Upload(context.Background(), "b", "k.png", []byte("x"), "image/png")
	assert.True(t, errors.Is(err, ErrBucketMissing))

	err = c.CheckBucket(context.Background(), "b")
	assert.True(t, errors.Is(err, ErrBucketMissing))
}

func TestSupabaseStorageClient_OtherError(t *testing.T) {
	api := &fakeSupabaseAPI{uploadErr: errors.New("new row violates row-level security policy")}

	err := NewSupabaseStorageClientWithAPI(api).
		Upload(context.Background(), "b", "k.png", []byte("x"), "image/png")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrBucketMissing))
	assert.Contains(t, err.Error(), "row-level security")
}

func TestSupabaseStorageClient_CanceledContext(t *testing.T) {
	api := &fakeSupabaseAPI{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewSupabaseStorageClientWithAPI(api).Upload(ctx, "b", "k.png", []byte("x"), "image/png")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, api.uploadedPath)
}

func TestSupabaseStorageClient_CreateBucket(t *testing.T) {
	api := &fakeSupabaseAPI{}
	c := NewSupabaseStorageClientWithAPI(api)

	err := c.CreateBucket(context.Background(), AvatarBucketSpec("profile-avatars", 5*1024*1024))
	require.NoError(t, err)

	assert.Equal(t, "profile-avatars", api.createdID)
	assert.True(t, api.createdOptions.Public)
	assert.Equal(t, "5MB", api.createdOptions.FileSizeLimit)
	assert.ElementsMatch(t, []string{"image/jpeg", "image/png", "image/gif", "image/webp"}, api.createdOptions.AllowedMimeTypes)
}

func TestSupabaseStorageClient_BucketExists(t *testing.T) {
	api := &fakeSupabaseAPI{buckets: []storage_go.Bucket{{Name: "other"}, {Name: "profile-avatars"}}}
	c := NewSupabaseStorageClientWithAPI(api)

	exists, err := c.BucketExists(context.Background(), "profile-avatars")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = c.BucketExists(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSupabaseStorageClient_UploadOverHTTP(t *testing.T) {
	var (
		gotPath, gotUpsert, gotKey string
		gotBody                    []byte
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUpsert = r.Header.Get("x-upsert")
		gotKey = r.Header.Get("apikey")
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"Key":"profile-avatars/avatars/a.png"}`))
	}))
	defer srv.Close()

	c := NewSupabaseStorageClient(srv.URL+"/", "service-key")
	err := c.Upload(context.Background(), "profile-avatars", "avatars/a.png", []byte("png"), "image/png")
	require.NoError(t, err)

	assert.Equal(t, "/storage/v1/object/profile-avatars/avatars/a.png", gotPath)
	assert.Equal(t, "true", gotUpsert)
	assert.Equal(t, "service-key", gotKey)
	assert.Equal(t, []byte("png"), gotBody)
}

func TestSupabaseStorageClient_CheckBucketOverHTTP(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"profile-avatars","name":"profile-avatars","public":true}`))
	}))
	defer srv.Close()

	err := NewSupabaseStorageClient(srv.URL, "k").CheckBucket(context.Background(), "profile-avatars")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(gotPath, "/storage/v1/bucket/profile-avatars"))
}

package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/dafibh/prolink/prolink-backend/internal/domain"
	"github.com/dafibh/prolink/prolink-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAvatarStore struct {
	calls       int
	key         string
	data        []byte
	contentType string
	err         error
}

func (f *fakeAvatarStore) Upload(_ context.Context, key string, data []byte, contentType string) (string, error) {
	f.calls++
	f.key, f.data, f.contentType = key, data, contentType
	if f.err != nil {
		return "", f.err
	}
	return "https://cdn.example.com/profile-avatars/" + key, nil
}

// createTestImage creates a test image of the specified size and format
func createTestImage(t *testing.T, width, height int, format string) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 255, A: 255})
		}
	}

	var buf bytes.Buffer
	switch format {
	case "png":
		require.NoError(t, png.Encode(&buf, img))
	default:
		require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}))
	}
	return buf.Bytes()
}

func newAvatarFixture(store AvatarStore, maxDimension int) (*AvatarService, *testutil.MockProfileRepository, *testutil.MockEventPublisher, *domain.Identity) {
	profiles := testutil.NewMockProfileRepository()
	users := testutil.NewMockUserRepository(profiles)
	owner := &domain.Identity{ID: uuid.New(), Email: "a@x.com"}
	users.AddUser(&domain.User{ID: owner.ID, Email: owner.Email})
	profiles.AddProfile(domain.NewDefaultProfile(owner.ID))

	publisher := testutil.NewMockEventPublisher()
	profileSvc := NewProfileService(users, profiles)
	profileSvc.SetEventPublisher(publisher)
	svc := NewAvatarService(store, profileSvc, 0, maxDimension)
	svc.SetEventPublisher(publisher)
	return svc, profiles, publisher, owner
}

func TestAvatarUpload_Success(t *testing.T) {
	store := &fakeAvatarStore{}
	svc, profiles, publisher, owner := newAvatarFixture(store, 0)
	data := createTestImage(t, 64, 64, "png")

	result, err := svc.Upload(context.Background(), owner, AvatarFile{Filename: "me.png", ContentType: "image/png", Data: data})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(store.key, "avatars/"+owner.ID.String()+"-"))
	assert.True(t, strings.HasSuffix(store.key, ".png"))
	assert.Equal(t, data, store.data, "small images are stored as sent")
	assert.Equal(t, "image/png", store.contentType)

	profile, err := profiles.GetByUserID(context.Background(), owner.ID)
	require.NoError(t, err)
	assert.Equal(t, result.AvatarURL, profile.AvatarURL)
	assert.Equal(t, 1, profiles.AvatarUpdateCalls)
	assert.Equal(t, []string{"profile.updated", "profile.avatar_updated"}, publisher.Types())
	assert.Equal(t, owner.ID, publisher.Events[1].UserID)
}

func TestAvatarUpload_TooLarge(t *testing.T) {
	store := &fakeAvatarStore{}
	svc, _, _, owner := newAvatarFixture(store, 0)

	_, err := svc.Upload(context.Background(), owner, AvatarFile{
		Filename:    "big.jpg",
		ContentType: "image/jpeg",
		Data:        make([]byte, 6*1024*1024),
	})
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
	assert.Equal(t, 0, store.calls)
}

func TestAvatarUpload_DisallowedType(t *testing.T) {
	store := &fakeAvatarStore{}
	svc, _, _, owner := newAvatarFixture(store, 0)

	_, err := svc.Upload(context.Background(), owner, AvatarFile{
		Filename:    "notes.txt",
		ContentType: "text/plain",
		Data:        []byte("hello"),
	})
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
	assert.Equal(t, 0, store.calls)
}

func TestAvatarUpload_EmptyFile(t *testing.T) {
	store := &fakeAvatarStore{}
	svc, _, _, owner := newAvatarFixture(store, 0)

	_, err := svc.Upload(context.Background(), owner, AvatarFile{ContentType: "image/png"})
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestAvatarUpload_DownscalesLargeImages(t *testing.T) {
	store := &fakeAvatarStore{}
	svc, _, _, owner := newAvatarFixture(store, 32)

	_, err := svc.Upload(context.Background(), owner, AvatarFile{
		Filename:    "wide.jpeg",
		ContentType: "image/jpeg",
		Data:        createTestImage(t, 128, 64, "jpeg"),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(store.key, ".jpeg"))

	cfg, _, err := image.DecodeConfig(bytes.NewReader(store.data))
	require.NoError(t, err)
	assert.Equal(t, 32, cfg.Width)
	assert.Equal(t, 16, cfg.Height)
}

func TestAvatarUpload_StorageFailureLeavesProfile(t *testing.T) {
	store := &fakeAvatarStore{err: errors.New("all strategies failed")}
	svc, profiles, publisher, owner := newAvatarFixture(store, 0)

	_, err := svc.Upload(context.Background(), owner, AvatarFile{
		Filename:    "me.png",
		ContentType: "image/png",
		Data:        createTestImage(t, 8, 8, "png"),
	})
	require.Error(t, err)
	assert.Equal(t, 0, profiles.AvatarUpdateCalls)
	assert.Empty(t, publisher.Events)
}

func TestAvatarExtension(t *testing.T) {
	assert.Equal(t, "jpg", avatarExtension("photo.JPG", "image/jpeg"))
	assert.Equal(t, "jpeg", avatarExtension("photo.jpeg", "image/jpeg"))
	assert.Equal(t, "png", avatarExtension("photo.gif", "image/png"))
	assert.Equal(t, "webp", avatarExtension("", "image/webp"))
}

func TestNormalizeContentType(t *testing.T) {
	assert.Equal(t, "image/png", normalizeContentType(" Image/PNG; charset=binary"))
}

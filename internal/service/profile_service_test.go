package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/dafibh/prolink/prolink-backend/internal/domain"
	"github.com/dafibh/prolink/prolink-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProfileFixture() (*ProfileService, *testutil.MockUserRepository, *testutil.MockProfileRepository, *testutil.MockEventPublisher) {
	profiles := testutil.NewMockProfileRepository()
	users := testutil.NewMockUserRepository(profiles)
	publisher := testutil.NewMockEventPublisher()
	svc := NewProfileService(users, profiles)
	svc.SetEventPublisher(publisher)
	return svc, users, profiles, publisher
}

func decodeUpdate(t *testing.T, body string) domain.ProfileUpdate {
	t.Helper()
	var u domain.ProfileUpdate
	require.NoError(t, json.Unmarshal([]byte(body), &u))
	return u
}

func TestFindOne_NotFound(t *testing.T) {
	svc, _, _, _ := newProfileFixture()

	_, err := svc.FindOne(context.Background(), uuid.New())
	assert.True(t, errors.Is(err, domain.ErrProfileNotFound))
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestFindAllExcept_ExcludesCallerSortedByName(t *testing.T) {
	svc, _, profiles, _ := newProfileFixture()
	caller := uuid.New()
	profiles.AddProfile(&domain.Profile{UserID: caller, FullName: "Aaron"})
	profiles.AddProfile(&domain.Profile{UserID: uuid.New(), FullName: "Zoe"})
	profiles.AddProfile(&domain.Profile{UserID: uuid.New(), FullName: "Mia"})

	result, err := svc.FindAllExcept(context.Background(), caller)
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "Mia", result[0].FullName)
	assert.Equal(t, "Zoe", result[1].FullName)
}

func TestCreate_Success(t *testing.T) {
	svc, _, _, publisher := newProfileFixture()
	owner := &domain.Identity{ID: uuid.New(), Email: "a@x.com"}

	profile, err := svc.Create(context.Background(), owner, decodeUpdate(t, `{"fullName":"Ada","skills":["go"]}`))
	require.NoError(t, err)
	assert.Equal(t, owner.ID, profile.UserID)
	assert.Equal(t, "Ada", profile.FullName)
	assert.Equal(t, []string{"go"}, profile.Skills)
	assert.Equal(t, []domain.Experience{}, profile.Experiences)
	assert.Equal(t, []string{"profile.created"}, publisher.Types())
}

func TestCreate_DuplicateIsBadRequest(t *testing.T) {
	svc, _, profiles, _ := newProfileFixture()
	owner := &domain.Identity{ID: uuid.New(), Email: "a@x.com"}
	profiles.AddProfile(domain.NewDefaultProfile(owner.ID))

	_, err := svc.Create(context.Background(), owner, domain.ProfileUpdate{})
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestUpdate_PartialKeepsOtherFields(t *testing.T) {
	svc, _, profiles, publisher := newProfileFixture()
	existing := domain.NewDefaultProfile(uuid.New())
	existing.FullName = "Ada"
	existing.Bio = "old bio"
	profiles.AddProfile(existing)

	updated, err := svc.Update(context.Background(), existing.ID, decodeUpdate(t, `{"bio":"new bio"}`))
	require.NoError(t, err)
	assert.Equal(t, "Ada", updated.FullName)
	assert.Equal(t, "new bio", updated.Bio)
	assert.Equal(t, []string{"profile.updated"}, publisher.Types())
}

func TestUpdate_NotFound(t *testing.T) {
	svc, _, _, publisher := newProfileFixture()

	_, err := svc.Update(context.Background(), uuid.New(), decodeUpdate(t, `{"bio":"x"}`))
	assert.True(t, errors.Is(err, domain.ErrProfileNotFound))
	assert.Empty(t, publisher.Events)
}

func TestUpdate_NonListCoercedToEmpty(t *testing.T) {
	svc, _, profiles, _ := newProfileFixture()
	existing := domain.NewDefaultProfile(uuid.New())
	existing.Skills = []string{"go"}
	profiles.AddProfile(existing)

	updated, err := svc.Update(context.Background(), existing.ID, decodeUpdate(t, `{"skills":"go"}`))
	require.NoError(t, err)
	assert.NotNil(t, updated.Skills)
	assert.Empty(t, updated.Skills)
}

func TestUpdateByUserID_Idempotent(t *testing.T) {
	svc, users, profiles, _ := newProfileFixture()
	owner := &domain.Identity{ID: uuid.New(), Email: "a@x.com"}
	users.AddUser(&domain.User{ID: owner.ID, Email: owner.Email})
	profiles.AddProfile(domain.NewDefaultProfile(owner.ID))

	update := decodeUpdate(t, `{"headline":"Engineer","skills":["go","sql"]}`)
	first, err := svc.UpdateByUserID(context.Background(), owner, update)
	require.NoError(t, err)
	second, err := svc.UpdateByUserID(context.Background(), owner, update)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Headline, second.Headline)
	assert.Equal(t, first.Skills, second.Skills)
}

func TestUpdateByUserID_HealsMissingProfile(t *testing.T) {
	svc, users, profiles, _ := newProfileFixture()
	owner := &domain.Identity{ID: uuid.New(), Email: "a@x.com"}
	users.AddUser(&domain.User{ID: owner.ID, Email: owner.Email})

	profile, err := svc.UpdateByUserID(context.Background(), owner, decodeUpdate(t, `{"fullName":"Ada"}`))
	require.NoError(t, err)
	assert.Equal(t, "Ada", profile.FullName)
	assert.Equal(t, 1, profiles.CountForUser(owner.ID))
}

func TestUpdateByUserID_HealsMissingUserAndProfile(t *testing.T) {
	svc, users, profiles, _ := newProfileFixture()
	owner := &domain.Identity{ID: uuid.New(), Email: "a@x.com"}

	profile, err := svc.UpdateByUserID(context.Background(), owner, decodeUpdate(t, `{"location":"Berlin"}`))
	require.NoError(t, err)
	assert.Equal(t, "Berlin", profile.Location)
	assert.Equal(t, 1, users.UserCount())
	assert.Equal(t, 1, profiles.CountForUser(owner.ID))
}

func TestUpdateByUserID_AvatarOnlyUsesDedicatedWrite(t *testing.T) {
	svc, users, profiles, _ := newProfileFixture()
	owner := &domain.Identity{ID: uuid.New(), Email: "a@x.com"}
	users.AddUser(&domain.User{ID: owner.ID, Email: owner.Email})
	profiles.AddProfile(domain.NewDefaultProfile(owner.ID))

	profile, err := svc.UpdateByUserID(context.Background(), owner, domain.AvatarUpdate("https://cdn/x.png"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/x.png", profile.AvatarURL)
	assert.Equal(t, 1, profiles.AvatarUpdateCalls)
	assert.Equal(t, 0, profiles.UpdateCalls)
}

func TestUpdateByUserID_StorageErrorPropagates(t *testing.T) {
	svc, _, profiles, _ := newProfileFixture()
	profiles.Err = errors.New("db down")

	_, err := svc.UpdateByUserID(context.Background(), &domain.Identity{ID: uuid.New()}, decodeUpdate(t, `{"bio":"x"}`))
	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrNotFound))
}

func TestGetOrCreateForUser_ReturnsExisting(t *testing.T) {
	svc, _, profiles, _ := newProfileFixture()
	owner := &domain.Identity{ID: uuid.New(), Email: "a@x.com"}
	existing := domain.NewDefaultProfile(owner.ID)
	existing.FullName = "Ada"
	profiles.AddProfile(existing)

	profile, err := svc.GetOrCreateForUser(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, existing.ID, profile.ID)
}

func TestDelete_KeepsUser(t *testing.T) {
	svc, users, profiles, publisher := newProfileFixture()
	owner := uuid.New()
	users.AddUser(&domain.User{ID: owner, Email: "a@x.com"})
	existing := domain.NewDefaultProfile(owner)
	profiles.AddProfile(existing)

	deleted, err := svc.Delete(context.Background(), existing.ID)
	require.NoError(t, err)
	assert.Equal(t, existing.ID, deleted.ID)
	assert.Equal(t, 1, users.UserCount())
	assert.Equal(t, 0, profiles.CountForUser(owner))
	assert.Equal(t, []string{"profile.deleted"}, publisher.Types())
}

package postgres

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/dafibh/prolink/prolink-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRow copies fixed values into Scan destinations of matching types
type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.values) {
		return errors.New("column count mismatch")
	}
	for i, d := range dest {
		reflect.ValueOf(d).Elem().Set(reflect.ValueOf(r.values[i]))
	}
	return nil
}

// fakeDB records the arguments of the last QueryRow call
type fakeDB struct {
	row      fakeRow
	lastSQL  string
	lastArgs []any
}

func (db *fakeDB) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (db *fakeDB) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("not supported")
}

func (db *fakeDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	db.lastSQL = sql
	db.lastArgs = args
	return db.row
}

func (db *fakeDB) Begin(context.Context) (pgx.Tx, error) {
	return nil, errors.New("not supported")
}

func text(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: true}
}

func sampleRow(skills, experiences, education pgtype.Text) profileRow {
	now := pgtype.Timestamptz{Time: time.Now(), Valid: true}
	return profileRow{
		ID:          uuidToPg(uuid.New()),
		UserID:      uuidToPg(uuid.New()),
		FullName:    "Ada Lovelace",
		Headline:    "Engineer",
		Location:    "London",
		Status:      "available",
		Skills:      skills,
		Experiences: experiences,
		Education:   education,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func rowValues(row profileRow) []any {
	return []any{
		row.ID, row.UserID,
		row.FullName, row.Headline, row.Bio, row.Location, row.Website, row.AvatarUrl, row.Status,
		row.Skills, row.Experiences, row.Education,
		row.CreatedAt, row.UpdatedAt,
	}
}

func TestSqlcProfileToDomain_ValidLists(t *testing.T) {
	row := sampleRow(text(`["go","sql"]`), text(`[{"company":"Acme","title":"CTO"}]`), text(`[]`))

	p := sqlcProfileToDomain(row)

	assert.Equal(t, uuid.UUID(row.ID.Bytes), p.ID)
	assert.Equal(t, "Ada Lovelace", p.FullName)
	assert.Equal(t, []string{"go", "sql"}, p.Skills)
	require.Len(t, p.Experiences, 1)
	assert.Equal(t, "Acme", p.Experiences[0].Company)
	assert.NotNil(t, p.Education)
	assert.Empty(t, p.Education)
}

func TestSqlcProfileToDomain_NullListsBecomeEmpty(t *testing.T) {
	p := sqlcProfileToDomain(sampleRow(pgtype.Text{}, pgtype.Text{}, pgtype.Text{}))

	assert.NotNil(t, p.Skills)
	assert.NotNil(t, p.Experiences)
	assert.NotNil(t, p.Education)
	assert.Empty(t, p.Skills)
}

func TestSqlcProfileToDomain_StringEncodedList(t *testing.T) {
	row := sampleRow(text(`["go"]`), text(`"[{\"company\":\"Initech\",\"title\":\"Dev\"}]"`), text(`"[]"`))

	p := sqlcProfileToDomain(row)

	require.Len(t, p.Experiences, 1)
	assert.Equal(t, "Initech", p.Experiences[0].Company)
	assert.Empty(t, p.Education)
}

func TestSqlcProfileToDomain_CorruptListDegradesGracefully(t *testing.T) {
	row := sampleRow(text(`["go"]`), text(`"definitely not json"`), text(`{"institution":"MIT"}`))

	p := sqlcProfileToDomain(row)

	assert.Equal(t, []string{"go"}, p.Skills)
	assert.NotNil(t, p.Experiences)
	assert.Empty(t, p.Experiences)
	assert.NotNil(t, p.Education)
	assert.Empty(t, p.Education)
}

func TestBuildProfileUpdate_OnlyPresentFields(t *testing.T) {
	target := uuid.New()
	name := "Grace"
	skills := []string{"cobol"}

	params, err := buildProfileUpdate(target, domain.ProfileUpdate{FullName: &name, Skills: &skills})
	require.NoError(t, err)

	assert.Equal(t, text("Grace"), params.FullName)
	assert.False(t, params.Headline.Valid)
	assert.False(t, params.Status.Valid)
	assert.True(t, params.SetSkills)
	assert.Equal(t, []string{"cobol"}, params.Skills)
	assert.False(t, params.SetExperiences)
	assert.Nil(t, params.Experiences)
	assert.False(t, params.SetEducation)
	assert.Equal(t, uuidToPg(target), params.TargetID)
}

func TestBuildProfileUpdate_JSONLists(t *testing.T) {
	exps := []domain.Experience{{Company: "Acme", Title: "CTO"}}
	var edu []domain.Education
	emptySkills := []string(nil)

	params, err := buildProfileUpdate(uuid.New(), domain.ProfileUpdate{Experiences: &exps, Education: &edu, Skills: &emptySkills})
	require.NoError(t, err)

	assert.True(t, params.SetExperiences)
	assert.JSONEq(t, `[{"company":"Acme","title":"CTO"}]`, string(params.Experiences))
	assert.True(t, params.SetEducation)
	assert.Equal(t, "[]", string(params.Education))
	assert.True(t, params.SetSkills)
	assert.Equal(t, []string{}, params.Skills)
}

func TestBuildProfileUpdate_EmptyLeavesEverythingUnset(t *testing.T) {
	params, err := buildProfileUpdate(uuid.New(), domain.ProfileUpdate{})
	require.NoError(t, err)

	assert.False(t, params.FullName.Valid)
	assert.False(t, params.AvatarUrl.Valid)
	assert.False(t, params.SetSkills)
	assert.False(t, params.SetExperiences)
	assert.False(t, params.SetEducation)
}

func TestProfileRepository_UpdateByUserIDSendsFlags(t *testing.T) {
	row := sampleRow(text(`["go"]`), text(`[]`), text(`[]`))
	db := &fakeDB{row: fakeRow{values: rowValues(row)}}
	repo := NewProfileRepository(db)

	userID := uuid.New()
	headline := "Mathematician"
	updated, err := repo.UpdateByUserID(context.Background(), userID, domain.ProfileUpdate{Headline: &headline})
	require.NoError(t, err)

	assert.Equal(t, "Ada Lovelace", updated.FullName)
	assert.Contains(t, db.lastSQL, "WHERE user_id = $14")
	require.Len(t, db.lastArgs, 14)
	assert.Equal(t, text("Mathematician"), db.lastArgs[1])
	assert.Equal(t, false, db.lastArgs[7])
	assert.Equal(t, uuidToPg(userID), db.lastArgs[13])
}

func TestProfileRepository_MissingRowIsNotFound(t *testing.T) {
	db := &fakeDB{row: fakeRow{err: pgx.ErrNoRows}}
	repo := NewProfileRepository(db)

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)

	_, err = repo.Delete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func TestProfileRepository_WrapsQueryErrors(t *testing.T) {
	db := &fakeDB{row: fakeRow{err: errors.New("boom")}}
	repo := NewProfileRepository(db)

	_, err := repo.UpdateAvatarByUserID(context.Background(), uuid.New(), "https://cdn.example.com/a.png")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrProfileNotFound)
	assert.Contains(t, err.Error(), "failed to update avatar: boom")
}

func TestUserRepository_GetByIDNotFound(t *testing.T) {
	db := &fakeDB{row: fakeRow{err: pgx.ErrNoRows}}
	repo := NewUserRepository(db)

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

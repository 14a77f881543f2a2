package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/costvar/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRepo_CreateAndGetByID(t *testing.T) {
	repo := NewSQLiteSessionRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	uploaded := time.Date(2025, 3, 4, 9, 30, 15, 123456000, time.UTC)
	sess := testutil.NewTestSession("P-100", testutil.WithUploadTime(uploaded), testutil.WithFileHash("abc"))
	sess.PartDescription = "Bracket"
	require.NoError(t, repo.Create(ctx, sess))

	fetched, err := repo.GetByID(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, fetched.ID)
	assert.Equal(t, "P-100", fetched.PartNumber)
	assert.Equal(t, "Bracket", fetched.PartDescription)
	assert.Equal(t, "USD", fetched.Currency)
	assert.Equal(t, 20.0, fetched.TotalVariance)
	assert.Equal(t, "abc", fetched.FileHash)
	assert.True(t, uploaded.Equal(fetched.UploadTime), "got %s", fetched.UploadTime)
}

func TestSessionRepo_GetByID_NotFound(t *testing.T) {
	repo := NewSQLiteSessionRepo(testutil.NewTestDB(t))

	_, err := repo.GetByID(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionRepo_ListRecent_NewestFirst(t *testing.T) {
	repo := NewSQLiteSessionRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, pn := range []string{"A", "B", "C"} {
		s := testutil.NewTestSession(pn, testutil.WithUploadTime(base.Add(time.Duration(i)*time.Minute)))
		require.NoError(t, repo.Create(ctx, s))
	}

	list, err := repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "C", list[0].PartNumber)
	assert.Equal(t, "B", list[1].PartNumber)
	assert.Equal(t, "A", list[2].PartNumber)

	list, err = repo.ListRecent(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestSessionRepo_ListRecent_SameTimestampUsesInsertOrder(t *testing.T) {
	repo := NewSQLiteSessionRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	now := time.Now().UTC()
	require.NoError(t, repo.Create(ctx, testutil.NewTestSession("first", testutil.WithUploadTime(now))))
	require.NoError(t, repo.Create(ctx, testutil.NewTestSession("second", testutil.WithUploadTime(now))))

	list, err := repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].PartNumber)
}

func TestSessionRepo_FindByFileHash(t *testing.T) {
	repo := NewSQLiteSessionRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	first := testutil.NewTestSession("A", testutil.WithFileHash("h1"), testutil.WithUploadTime(base))
	second := testutil.NewTestSession("A", testutil.WithFileHash("h1"), testutil.WithUploadTime(base.Add(time.Hour)))
	require.NoError(t, repo.Create(ctx, second))
	require.NoError(t, repo.Create(ctx, first))

	found, err := repo.FindByFileHash(ctx, "h1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID, "earliest upload wins")

	_, err = repo.FindByFileHash(ctx, "h2")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.FindByFileHash(ctx, "")
	assert.ErrorIs(t, err, ErrNotFound, "sessions without a hash never match")
}

func TestSessionRepo_Delete(t *testing.T) {
	repo := NewSQLiteSessionRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	sess := testutil.NewTestSession("P-1")
	require.NoError(t, repo.Create(ctx, sess))
	require.NoError(t, repo.Delete(ctx, sess.ID))

	_, err := repo.GetByID(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, sess.ID), ErrNotFound, "second delete finds nothing")
}

func TestSessionRepo_ListIDsByPrefix(t *testing.T) {
	repo := NewSQLiteSessionRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"ab_1", "abx1", "ab%2", "zz"} {
		s := testutil.NewTestSession("P", testutil.WithUploadTime(base.Add(time.Duration(i)*time.Minute)))
		s.ID = id
		require.NoError(t, repo.Create(ctx, s))
	}

	ids, err := repo.ListIDsByPrefix(ctx, "ab")
	require.NoError(t, err)
	assert.Equal(t, []string{"ab%2", "abx1", "ab_1"}, ids, "newest first")

	// wildcards in the input match literally
	ids, err = repo.ListIDsByPrefix(ctx, "ab_")
	require.NoError(t, err)
	assert.Equal(t, []string{"ab_1"}, ids)

	ids, err = repo.ListIDsByPrefix(ctx, "ab%")
	require.NoError(t, err)
	assert.Equal(t, []string{"ab%2"}, ids)

	ids, err = repo.ListIDsByPrefix(ctx, "none")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

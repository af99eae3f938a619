package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pullstory/api/internal/apperr"
	"github.com/pullstory/api/internal/models"
)

func snapshot(id string, number int) models.Article {
	return models.Article{
		ID:        id,
		Owner:     "octo",
		Repo:      "hello",
		Number:    number,
		Source:    models.SourceItem{Title: "original title"},
		Contents:  map[string]models.ContentBlock{},
		CreatedAt: time.Now().UTC(),
	}
}

func TestUpsertSnapshotNeverClobbers(t *testing.T) {
	store := NewArticleMemory()
	ctx := context.Background()

	require.NoError(t, store.UpsertSnapshot(ctx, snapshot("a1", 1)))
	require.NoError(t, store.MergeContent(ctx, "a1", "ja", models.ContentBlock{Title: "summary"}))
	_, err := store.AdjustLikeCount(ctx, "a1", "ja", 2)
	require.NoError(t, err)

	// Second upsert for the same key with a fresh snapshot and id.
	again := snapshot("a1-other", 1)
	again.Source.Title = "refetched title"
	require.NoError(t, store.UpsertSnapshot(ctx, again))

	a, err := store.FindByKey(ctx, "octo", "hello", 1)
	require.NoError(t, err)
	assert.Equal(t, "a1", a.ID, "id assigned at first ingestion is kept")
	assert.Equal(t, "original title", a.Source.Title)
	assert.Equal(t, int64(2), a.TotalLikeCount)
	assert.Equal(t, "summary", a.Contents["ja"].Title)
}

func TestMergeContentPreservesLikeCount(t *testing.T) {
	store := NewArticleMemory()
	ctx := context.Background()

	require.NoError(t, store.UpsertSnapshot(ctx, snapshot("a1", 1)))
	require.NoError(t, store.MergeContent(ctx, "a1", "ja", models.ContentBlock{Title: "v1"}))
	_, err := store.AdjustLikeCount(ctx, "a1", "ja", 5)
	require.NoError(t, err)

	// Regeneration hands in a zeroed counter; the stored one must survive.
	require.NoError(t, store.MergeContent(ctx, "a1", "ja", models.ContentBlock{Title: "v2", LikeCount: 0}))

	a, err := store.FindByID(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "v2", a.Contents["ja"].Title)
	assert.Equal(t, int64(5), a.Contents["ja"].LikeCount)
	assert.Equal(t, int64(5), a.TotalLikeCount)
}

func TestMergeContentUnknownArticle(t *testing.T) {
	store := NewArticleMemory()
	err := store.MergeContent(context.Background(), "nope", "ja", models.ContentBlock{Title: "x"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestAdjustLikeCount(t *testing.T) {
	store := NewArticleMemory()
	ctx := context.Background()

	require.NoError(t, store.UpsertSnapshot(ctx, snapshot("a1", 1)))
	require.NoError(t, store.MergeContent(ctx, "a1", "ja", models.ContentBlock{Title: "t"}))

	_, err := store.AdjustLikeCount(ctx, "missing", "ja", 1)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = store.AdjustLikeCount(ctx, "a1", "en", 1)
	assert.ErrorIs(t, err, apperr.ErrNotFound, "unsummarized language cannot be adjusted")

	count, err := store.AdjustLikeCount(ctx, "a1", "ja", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = store.AdjustLikeCount(ctx, "a1", "ja", -1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	// An externally-induced negative value is reported as zero.
	count, err = store.AdjustLikeCount(ctx, "a1", "ja", -1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestRankedQueryOrderAndPaging(t *testing.T) {
	store := NewArticleMemory()
	ctx := context.Background()

	for i, likes := range []int64{5, 10, 10} {
		id := []string{"a1", "a2", "a3"}[i]
		require.NoError(t, store.UpsertSnapshot(ctx, snapshot(id, i+1)))
		require.NoError(t, store.MergeContent(ctx, id, "ja", models.ContentBlock{Title: id}))
		if likes > 0 {
			_, err := store.AdjustLikeCount(ctx, id, "ja", likes)
			require.NoError(t, err)
		}
	}

	out, err := store.RankedQuery(ctx, time.Time{}, "", 10, 0)
	require.NoError(t, err)
	require.Len(t, out, 3)
	// Ties keep insertion order.
	assert.Equal(t, "a2", out[0].ID)
	assert.Equal(t, "a3", out[1].ID)
	assert.Equal(t, "a1", out[2].ID)

	out, err = store.RankedQuery(ctx, time.Time{}, "", 10, 5)
	require.NoError(t, err)
	assert.Empty(t, out, "offset past the end yields an empty page")

	out, err = store.RankedQuery(ctx, time.Time{}, "en", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, out, "language filter excludes articles without it")
}

func TestLikeMemoryLedger(t *testing.T) {
	likes := NewLikeMemory()
	ctx := context.Background()

	rec := models.LikeRecord{ID: "l1", UserID: "u1", ArticleID: "a1", Lang: "ja", LikedAt: time.Now()}
	require.NoError(t, likes.Insert(ctx, rec))
	assert.ErrorIs(t, likes.Insert(ctx, rec), apperr.ErrConflict)

	got, err := likes.Find(ctx, "u1", "a1", "ja")
	require.NoError(t, err)
	assert.Equal(t, "l1", got.ID)

	_, err = likes.Find(ctx, "u1", "a1", "en")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	require.NoError(t, likes.Delete(ctx, "u1", "a1", "ja"))
	assert.ErrorIs(t, likes.Delete(ctx, "u1", "a1", "ja"), apperr.ErrNotFound)

	recs, err := likes.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, recs)
}

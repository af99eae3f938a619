package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pullstory/api/internal/apperr"
	"github.com/pullstory/api/internal/models"
	"github.com/pullstory/api/internal/repository"
)

// fakeSource is an in-test SourceAdapter with canned items and credentials.
type fakeSource struct {
	tokens     map[string]string
	items      map[string]models.SourceItem
	fetchCalls int
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		tokens: map[string]string{"user-1": "tok-1"},
		items: map[string]models.SourceItem{
			"octo/hello#7": {
				Owner:  "octo",
				Repo:   "hello",
				Number: 7,
				IsPull: true,
				Author: "alice",
				Title:  "Add retry to fetcher",
				Body:   "Retries transient failures.",
				Comments: []models.Comment{
					{Author: "bob", Body: "LGTM"},
				},
			},
		},
	}
}

func (f *fakeSource) ResolveCredential(ctx context.Context, userID string) (string, error) {
	tok, ok := f.tokens[userID]
	if !ok {
		return "", apperr.Forbidden("no GitHub credential on file")
	}
	return tok, nil
}

func (f *fakeSource) FetchItem(ctx context.Context, credential, owner, repo string, number int) (models.SourceItem, error) {
	f.fetchCalls++
	item, ok := f.items[fmt.Sprintf("%s/%s#%d", owner, repo, number)]
	if !ok {
		return models.SourceItem{}, apperr.NotFound("pull request or issue not found")
	}
	return item, nil
}

// titledSummarizer returns a summary whose title encodes the language, so
// tests can tell blocks apart.
type titledSummarizer struct{}

func (titledSummarizer) Summarize(ctx context.Context, text, lang string) (Summary, error) {
	return Summary{Title: "title-" + lang, Background: "bg-" + lang}, nil
}

type untitledSummarizer struct{}

func (untitledSummarizer) Summarize(ctx context.Context, text, lang string) (Summary, error) {
	return Summary{}, nil
}

func newArticleService(src SourceAdapter, sum Summarizer) (ArticleService, *repository.ArticleMemory) {
	store := repository.NewArticleMemory()
	return NewArticleService(store, src, sum, "ja"), store
}

func TestIngestIsIdempotent(t *testing.T) {
	src := newFakeSource()
	svc, store := newArticleService(src, titledSummarizer{})
	ctx := context.Background()

	first, err := svc.Ingest(ctx, "user-1", "octo", "hello", 7)
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)

	second, err := svc.Ingest(ctx, "user-1", "octo", "hello", 7)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "re-ingest must return the same article")

	stored, err := store.FindByKey(ctx, "octo", "hello", 7)
	require.NoError(t, err)
	assert.Equal(t, first.ID, stored.ID)
	assert.Equal(t, "Add retry to fetcher", stored.Source.Title)
	assert.Empty(t, stored.Contents)
}

func TestIngestErrors(t *testing.T) {
	src := newFakeSource()
	svc, _ := newArticleService(src, titledSummarizer{})
	ctx := context.Background()

	_, err := svc.Ingest(ctx, "stranger", "octo", "hello", 7)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = svc.Ingest(ctx, "user-1", "octo", "hello", 404)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestGenerateRequiresIngestion(t *testing.T) {
	svc, _ := newArticleService(newFakeSource(), titledSummarizer{})

	_, err := svc.Generate(context.Background(), "octo", "hello", 7, "ja")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestGenerateReplacesOnlyTargetLanguage(t *testing.T) {
	src := newFakeSource()
	svc, store := newArticleService(src, titledSummarizer{})
	ctx := context.Background()

	a, err := svc.Ingest(ctx, "user-1", "octo", "hello", 7)
	require.NoError(t, err)

	_, err = svc.Generate(ctx, "octo", "hello", 7, "ja")
	require.NoError(t, err)
	_, err = svc.Generate(ctx, "octo", "hello", 7, "en")
	require.NoError(t, err)

	// Put some likes on en, then regenerate ja.
	_, err = store.AdjustLikeCount(ctx, a.ID, "en", 3)
	require.NoError(t, err)

	regenerated, err := svc.Generate(ctx, "octo", "hello", 7, "ja")
	require.NoError(t, err)

	require.Len(t, regenerated.Contents, 2)
	assert.Equal(t, "title-ja", regenerated.Contents["ja"].Title)
	assert.Equal(t, "title-en", regenerated.Contents["en"].Title)
	assert.Equal(t, int64(3), regenerated.Contents["en"].LikeCount, "regenerating ja must not touch en likes")
	assert.Equal(t, int64(3), regenerated.TotalLikeCount)
}

func TestGenerateKeepsLikesOnRegeneratedLanguage(t *testing.T) {
	src := newFakeSource()
	svc, store := newArticleService(src, titledSummarizer{})
	ctx := context.Background()

	a, err := svc.Ingest(ctx, "user-1", "octo", "hello", 7)
	require.NoError(t, err)
	_, err = svc.Generate(ctx, "octo", "hello", 7, "ja")
	require.NoError(t, err)

	_, err = store.AdjustLikeCount(ctx, a.ID, "ja", 2)
	require.NoError(t, err)

	regenerated, err := svc.Generate(ctx, "octo", "hello", 7, "ja")
	require.NoError(t, err)
	assert.Equal(t, int64(2), regenerated.Contents["ja"].LikeCount)
	assert.Equal(t, int64(2), regenerated.TotalLikeCount)
}

func TestGenerateDefaultLanguage(t *testing.T) {
	src := newFakeSource()
	svc, _ := newArticleService(src, titledSummarizer{})
	ctx := context.Background()

	_, err := svc.Ingest(ctx, "user-1", "octo", "hello", 7)
	require.NoError(t, err)

	a, err := svc.Generate(ctx, "octo", "hello", 7, "")
	require.NoError(t, err)
	assert.Contains(t, a.Contents, "ja")
}

func TestGenerateRejectsMalformedLanguage(t *testing.T) {
	src := newFakeSource()
	svc, store := newArticleService(src, titledSummarizer{})
	ctx := context.Background()

	a, err := svc.Ingest(ctx, "user-1", "octo", "hello", 7)
	require.NoError(t, err)
	_, err = svc.Generate(ctx, "octo", "hello", 7, "ja")
	require.NoError(t, err)

	// Language codes become document field paths in the store; anything but
	// a bare two-letter code must be refused before it gets there.
	for _, lang := range []string{"ja.like_count", "japanese", "JA", "j", "j$"} {
		_, err := svc.Generate(ctx, "octo", "hello", 7, lang)
		assert.ErrorIs(t, err, apperr.ErrValidation, "lang %q", lang)
	}

	stored, err := store.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"ja"}, stored.Languages(), "rejected languages must leave no content behind")
}

func TestGenerateFailsWithoutTitle(t *testing.T) {
	src := newFakeSource()
	svc, _ := newArticleService(src, untitledSummarizer{})
	ctx := context.Background()

	_, err := svc.Ingest(ctx, "user-1", "octo", "hello", 7)
	require.NoError(t, err)

	_, err = svc.Generate(ctx, "octo", "hello", 7, "ja")
	assert.ErrorIs(t, err, apperr.ErrInternal)
}

func TestGetArticleRejectsUnsummarized(t *testing.T) {
	src := newFakeSource()
	svc, _ := newArticleService(src, titledSummarizer{})
	ctx := context.Background()

	a, err := svc.Ingest(ctx, "user-1", "octo", "hello", 7)
	require.NoError(t, err)

	_, err = svc.GetArticle(ctx, a.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound, "ingested-but-unsummarized must read as NotFound")
	_, err = svc.GetArticleByKey(ctx, "octo", "hello", 7)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = svc.Generate(ctx, "octo", "hello", 7, "ja")
	require.NoError(t, err)

	got, err := svc.GetArticle(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "title-ja", got.Contents["ja"].Title)
}

func TestCombinedTextKeepsCommentOrder(t *testing.T) {
	item := models.SourceItem{
		Title: "T",
		Body:  "B",
		Comments: []models.Comment{
			{Author: "a", Body: "first"},
			{Author: "b", Body: "second"},
		},
	}
	text := combinedText(item)
	first := strings.Index(text, "first")
	second := strings.Index(text, "second")
	require.NotEqual(t, -1, first)
	require.NotEqual(t, -1, second)
	assert.Less(t, first, second)
}

package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pullstory/api/internal/apperr"
	"github.com/pullstory/api/internal/models"
)

// ---- Store contracts -------------------------------------------------------

// ArticleStore is the article cache. Implementations must make
// AdjustLikeCount and MergeContent atomic per article: concurrent likes on
// the same article may never lose increments, and a regeneration racing a
// like may never reset a counter.
type ArticleStore interface {
	FindByKey(ctx context.Context, owner, repo string, number int) (models.Article, error)
	FindByID(ctx context.Context, id string) (models.Article, error)
	FindByIDs(ctx context.Context, ids []string) (map[string]models.Article, error)
	UpsertSnapshot(ctx context.Context, a models.Article) error
	MergeContent(ctx context.Context, id, lang string, block models.ContentBlock) error
	AdjustLikeCount(ctx context.Context, id, lang string, delta int64) (int64, error)
	RankedQuery(ctx context.Context, since time.Time, lang string, limit, offset int) ([]models.Article, error)
}

// ---- Collaborator contracts ------------------------------------------------

// SourceAdapter fetches PR/issue snapshots from the code-hosting API under a
// user's stored credential.
type SourceAdapter interface {
	// ResolveCredential fails apperr.ErrForbidden when the user has no
	// credential on file.
	ResolveCredential(ctx context.Context, userID string) (string, error)
	// FetchItem fails apperr.ErrNotFound when the remote item does not
	// exist and apperr.ErrUnavailable on transport errors.
	FetchItem(ctx context.Context, credential, owner, repo string, number int) (models.SourceItem, error)
}

// ---- Service ---------------------------------------------------------------

// ArticleService covers ingestion, summary generation, and article reads.
type ArticleService interface {
	Ingest(ctx context.Context, userID, owner, repo string, number int) (models.Article, error)
	Generate(ctx context.Context, owner, repo string, number int, lang string) (models.Article, error)
	GetArticle(ctx context.Context, id string) (models.Article, error)
	GetArticleByKey(ctx context.Context, owner, repo string, number int) (models.Article, error)
}

type articleService struct {
	store       ArticleStore
	source      SourceAdapter
	summarizer  Summarizer
	defaultLang string
}

// NewArticleService wires dependencies. defaultLang is used when Generate is
// called without a language.
func NewArticleService(store ArticleStore, source SourceAdapter, summarizer Summarizer, defaultLang string) ArticleService {
	return &articleService{
		store:       store,
		source:      source,
		summarizer:  summarizer,
		defaultLang: defaultLang,
	}
}

// Ingest caches a PR/issue snapshot. Re-ingesting an existing key returns
// the cached article unchanged—the snapshot is written once and never
// refreshed.
func (s *articleService) Ingest(ctx context.Context, userID, owner, repo string, number int) (models.Article, error) {
	cred, err := s.source.ResolveCredential(ctx, userID)
	if err != nil {
		return models.Article{}, err
	}

	item, err := s.source.FetchItem(ctx, cred, owner, repo, number)
	if err != nil {
		return models.Article{}, err
	}

	if existing, err := s.store.FindByKey(ctx, owner, repo, number); err == nil {
		return existing, nil
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return models.Article{}, err
	}

	a := models.Article{
		ID:        uuid.NewString(),
		Owner:     owner,
		Repo:      repo,
		Number:    number,
		Source:    item,
		Contents:  map[string]models.ContentBlock{},
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.UpsertSnapshot(ctx, a); err != nil {
		return models.Article{}, err
	}

	// A concurrent ingest may have won the upsert; read back so every caller
	// sees the same id.
	return s.store.FindByKey(ctx, owner, repo, number)
}

// Generate produces the summary for one language and stores it, replacing
// any previous block for that language. The article must be ingested first.
func (s *articleService) Generate(ctx context.Context, owner, repo string, number int, lang string) (models.Article, error) {
	if lang == "" {
		lang = s.defaultLang
	}
	if !isLangCode(lang) {
		return models.Article{}, apperr.Validation("lang must be a two-letter code")
	}

	a, err := s.store.FindByKey(ctx, owner, repo, number)
	if errors.Is(err, apperr.ErrNotFound) {
		return models.Article{}, apperr.NotFound("article not ingested yet")
	}
	if err != nil {
		return models.Article{}, err
	}

	summary, err := s.summarizer.Summarize(ctx, combinedText(a.Source), lang)
	if err != nil {
		return models.Article{}, apperr.Internal("summarizer failed", err)
	}
	if summary.Title == "" {
		return models.Article{}, apperr.Internal("summarizer returned no title", nil)
	}

	block := models.ContentBlock{
		Title:       summary.Title,
		Background:  summary.Background,
		Changes:     summary.Changes,
		Points:      summary.Points,
		GeneratedAt: time.Now().UTC(),
	}
	if err := s.store.MergeContent(ctx, a.ID, lang, block); err != nil {
		return models.Article{}, err
	}
	log.Printf("[Article Service] Generated %q summary for %s/%s#%d", lang, owner, repo, number)

	return s.store.FindByID(ctx, a.ID)
}

// GetArticle returns an article by id. An ingested-but-unsummarized article
// is reported NotFound, never as an empty success.
func (s *articleService) GetArticle(ctx context.Context, id string) (models.Article, error) {
	a, err := s.store.FindByID(ctx, id)
	if err != nil {
		return models.Article{}, err
	}
	return requireSummarized(a)
}

// GetArticleByKey is GetArticle on the natural key.
func (s *articleService) GetArticleByKey(ctx context.Context, owner, repo string, number int) (models.Article, error) {
	a, err := s.store.FindByKey(ctx, owner, repo, number)
	if err != nil {
		return models.Article{}, err
	}
	return requireSummarized(a)
}

func requireSummarized(a models.Article) (models.Article, error) {
	if len(a.Contents) == 0 {
		return models.Article{}, apperr.NotFound("article has no summary yet")
	}
	return a, nil
}

// combinedText flattens the snapshot body and its comments, in original
// order, into the text handed to the summarizer.
func combinedText(item models.SourceItem) string {
	var b strings.Builder
	b.WriteString(item.Title)
	b.WriteString("\n\n")
	b.WriteString(item.Body)
	if item.Diff != "" {
		b.WriteString("\n\n--- diff ---\n")
		b.WriteString(item.Diff)
	}
	for _, c := range item.Comments {
		b.WriteString("\n\n--- comment by ")
		b.WriteString(c.Author)
		b.WriteString(" ---\n")
		b.WriteString(c.Body)
	}
	return b.String()
}

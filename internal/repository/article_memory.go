package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/pullstory/api/internal/apperr"
	"github.com/pullstory/api/internal/models"
)

// ArticleMemory is an in-memory Article store with the same contract as
// ArticleMongo. It backs STORAGE=memory development mode and the test suite;
// a single mutex plays the role of Mongo's single-document atomicity.
type ArticleMemory struct {
	mu       sync.Mutex
	byID     map[string]models.Article
	idByKey  map[articleKey]string
	inserted []string // ids in insertion order, for deterministic ranking ties
}

type articleKey struct {
	owner  string
	repo   string
	number int
}

// NewArticleMemory returns an empty in-memory article store.
func NewArticleMemory() *ArticleMemory {
	return &ArticleMemory{
		byID:    make(map[string]models.Article),
		idByKey: make(map[articleKey]string),
	}
}

func cloneArticle(a models.Article) models.Article {
	out := a
	out.Contents = make(map[string]models.ContentBlock, len(a.Contents))
	for lang, block := range a.Contents {
		out.Contents[lang] = block
	}
	return out
}

// FindByKey fetches the article for a natural (owner, repo, number) key.
func (r *ArticleMemory) FindByKey(ctx context.Context, owner, repo string, number int) (models.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.idByKey[articleKey{owner, repo, number}]
	if !ok {
		return models.Article{}, apperr.ErrNotFound
	}
	return cloneArticle(r.byID[id]), nil
}

// FindByID fetches an article by its id.
func (r *ArticleMemory) FindByID(ctx context.Context, id string) (models.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return models.Article{}, apperr.ErrNotFound
	}
	return cloneArticle(a), nil
}

// FindByIDs batch-fetches articles; missing ids are absent from the result.
func (r *ArticleMemory) FindByIDs(ctx context.Context, ids []string) (map[string]models.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]models.Article, len(ids))
	for _, id := range ids {
		if a, ok := r.byID[id]; ok {
			out[id] = cloneArticle(a)
		}
	}
	return out, nil
}

// UpsertSnapshot creates the article if its key is absent; an existing
// article is left untouched.
func (r *ArticleMemory) UpsertSnapshot(ctx context.Context, a models.Article) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := articleKey{a.Owner, a.Repo, a.Number}
	if _, ok := r.idByKey[key]; ok {
		return nil
	}

	stored := cloneArticle(a)
	if stored.Contents == nil {
		stored.Contents = make(map[string]models.ContentBlock)
	}
	stored.TotalLikeCount = 0
	r.byID[stored.ID] = stored
	r.idByKey[key] = stored.ID
	r.inserted = append(r.inserted, stored.ID)
	return nil
}

// MergeContent replaces one language's block, preserving its like count.
func (r *ArticleMemory) MergeContent(ctx context.Context, id, lang string, block models.ContentBlock) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return apperr.ErrNotFound
	}

	block.LikeCount = 0
	if prev, ok := a.Contents[lang]; ok {
		block.LikeCount = prev.LikeCount
	}
	a.Contents[lang] = block
	r.byID[id] = a
	return nil
}

// AdjustLikeCount applies delta to the language and aggregate counters under
// the store lock. The returned count is clamped at zero.
func (r *ArticleMemory) AdjustLikeCount(ctx context.Context, id, lang string, delta int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return 0, apperr.ErrNotFound
	}
	block, ok := a.Contents[lang]
	if !ok {
		return 0, apperr.ErrNotFound
	}

	block.LikeCount += delta
	a.Contents[lang] = block
	a.TotalLikeCount += delta
	r.byID[id] = a

	count := block.LikeCount
	if count < 0 {
		count = 0
	}
	return count, nil
}

// RankedQuery sorts by like count descending with insertion order as the
// tie-break, then applies offset/limit.
func (r *ArticleMemory) RankedQuery(ctx context.Context, since time.Time, lang string, limit, offset int) ([]models.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []models.Article
	for _, id := range r.inserted {
		a := r.byID[id]
		if !since.IsZero() && a.CreatedAt.Before(since) {
			continue
		}
		if lang != "" {
			if _, ok := a.Contents[lang]; !ok {
				continue
			}
		}
		matched = append(matched, cloneArticle(a))
	}

	score := func(a models.Article) int64 {
		if lang != "" {
			return a.Contents[lang].LikeCount
		}
		return a.TotalLikeCount
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return score(matched[i]) > score(matched[j])
	})

	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

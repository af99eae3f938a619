package service

import (
	"context"
	"errors"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/pullstory/api/internal/apperr"
	"github.com/pullstory/api/internal/models"
)

// LikeStore is the like ledger. Insert must reject a duplicate
// (userID, articleID, lang) triple with apperr.ErrConflict.
type LikeStore interface {
	Find(ctx context.Context, userID, articleID, lang string) (models.LikeRecord, error)
	Insert(ctx context.Context, rec models.LikeRecord) error
	Delete(ctx context.Context, userID, articleID, lang string) error
	ListByUser(ctx context.Context, userID string) ([]models.LikeRecord, error)
}

// LikeResult is the outcome of a like call. AlreadyLiked means the call was
// an idempotent no-op.
type LikeResult struct {
	AlreadyLiked bool  `json:"already_liked"`
	LikeCount    int64 `json:"like_count"`
}

// ListLikedParams filter and page a user's liked articles.
type ListLikedParams struct {
	Lang   string
	Limit  int
	Offset int
	Sort   string // "asc" or "desc" by liked_at; desc is the default
}

// LikedEntry is one row of a user's liked listing.
type LikedEntry struct {
	ArticleID    string    `json:"article_id"`
	Lang         string    `json:"lang"`
	LikedAt      time.Time `json:"liked_at"`
	Title        string    `json:"title"`
	RepoFullName string    `json:"repo_full_name"`
	Number       int       `json:"number"`
}

// EngagementService implements like/unlike with at-most-one-per-user-per-
// language semantics, and the liked listing.
type EngagementService interface {
	Like(ctx context.Context, userID, articleID, lang string) (LikeResult, error)
	Unlike(ctx context.Context, userID, articleID, lang string) (int64, error)
	ListLiked(ctx context.Context, userID string, p ListLikedParams) ([]LikedEntry, error)
}

type engagementService struct {
	articles ArticleStore
	likes    LikeStore
}

// NewEngagementService wires dependencies.
func NewEngagementService(articles ArticleStore, likes LikeStore) EngagementService {
	return &engagementService{articles: articles, likes: likes}
}

// Like increments the counters and records the like. A repeat like by the
// same user is a success reporting already_liked with the count unchanged.
//
// The counter adjustment and the ledger insert are two separate writes; a
// crash between them leaves an orphaned increment. That window is accepted
// and reconciled outside this service, never hidden here.
func (s *engagementService) Like(ctx context.Context, userID, articleID, lang string) (LikeResult, error) {
	block, err := s.contentBlock(ctx, articleID, lang)
	if err != nil {
		return LikeResult{}, err
	}

	_, err = s.likes.Find(ctx, userID, articleID, lang)
	if err == nil {
		return LikeResult{AlreadyLiked: true, LikeCount: clamp(block.LikeCount)}, nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return LikeResult{}, err
	}

	count, err := s.articles.AdjustLikeCount(ctx, articleID, lang, +1)
	if err != nil {
		return LikeResult{}, err
	}

	rec := models.LikeRecord{
		ID:        uuid.NewString(),
		UserID:    userID,
		ArticleID: articleID,
		Lang:      lang,
		LikedAt:   time.Now().UTC(),
	}
	if err := s.likes.Insert(ctx, rec); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			// Lost a race against the same user's concurrent like; undo our
			// increment and report the like that won.
			count, undoErr := s.articles.AdjustLikeCount(ctx, articleID, lang, -1)
			if undoErr != nil {
				return LikeResult{}, undoErr
			}
			return LikeResult{AlreadyLiked: true, LikeCount: count}, nil
		}
		log.Printf("[Engagement Service] Ledger insert failed after increment on %s/%s: %v", articleID, lang, err)
		return LikeResult{}, apperr.Internal("like ledger write failed", err)
	}

	return LikeResult{LikeCount: count}, nil
}

// Unlike deletes the like record and decrements the counters. Unliking
// something never liked is a no-op success returning the current count.
func (s *engagementService) Unlike(ctx context.Context, userID, articleID, lang string) (int64, error) {
	block, err := s.contentBlock(ctx, articleID, lang)
	if err != nil {
		return 0, err
	}

	_, err = s.likes.Find(ctx, userID, articleID, lang)
	if errors.Is(err, apperr.ErrNotFound) {
		return clamp(block.LikeCount), nil
	}
	if err != nil {
		return 0, err
	}

	if err := s.likes.Delete(ctx, userID, articleID, lang); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			// Another unlike got there first.
			return clamp(block.LikeCount - 1), nil
		}
		return 0, err
	}

	count, err := s.articles.AdjustLikeCount(ctx, articleID, lang, -1)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// ListLiked pages through the user's like records, newest first by default,
// and projects them against the current articles. Records whose article or
// language content has since disappeared are dropped, not errors.
func (s *engagementService) ListLiked(ctx context.Context, userID string, p ListLikedParams) ([]LikedEntry, error) {
	p, err := normalizeListParams(p)
	if err != nil {
		return nil, err
	}

	recs, err := s.likes.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if p.Lang != "" {
		filtered := recs[:0]
		for _, r := range recs {
			if r.Lang == p.Lang {
				filtered = append(filtered, r)
			}
		}
		recs = filtered
	}

	sort.SliceStable(recs, func(i, j int) bool {
		if p.Sort == "asc" {
			return recs[i].LikedAt.Before(recs[j].LikedAt)
		}
		return recs[i].LikedAt.After(recs[j].LikedAt)
	})

	if p.Offset >= len(recs) {
		return []LikedEntry{}, nil
	}
	recs = recs[p.Offset:]
	if p.Limit < len(recs) {
		recs = recs[:p.Limit]
	}

	ids := make([]string, 0, len(recs))
	for _, r := range recs {
		ids = append(ids, r.ArticleID)
	}
	articles, err := s.articles.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	entries := make([]LikedEntry, 0, len(recs))
	for _, r := range recs {
		a, ok := articles[r.ArticleID]
		if !ok {
			continue
		}
		block, ok := a.Contents[r.Lang]
		if !ok {
			continue
		}
		entries = append(entries, LikedEntry{
			ArticleID:    r.ArticleID,
			Lang:         r.Lang,
			LikedAt:      r.LikedAt,
			Title:        block.Title,
			RepoFullName: a.FullName(),
			Number:       a.Number,
		})
	}
	return entries, nil
}

// contentBlock enforces the shared precondition: the article exists and has
// content for the requested language.
func (s *engagementService) contentBlock(ctx context.Context, articleID, lang string) (models.ContentBlock, error) {
	if !isLangCode(lang) {
		return models.ContentBlock{}, apperr.Validation("lang must be a two-letter code")
	}
	a, err := s.articles.FindByID(ctx, articleID)
	if err != nil {
		return models.ContentBlock{}, err
	}
	block, ok := a.Contents[lang]
	if !ok {
		return models.ContentBlock{}, apperr.NotFound("no content for language " + lang)
	}
	return block, nil
}

func normalizeListParams(p ListLikedParams) (ListLikedParams, error) {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	if p.Offset < 0 {
		return p, apperr.Validation("offset must not be negative")
	}
	if p.Lang != "" && !isLangCode(p.Lang) {
		return p, apperr.Validation("lang must be a two-letter code")
	}
	switch p.Sort {
	case "":
		p.Sort = "desc"
	case "asc", "desc":
	default:
		return p, apperr.Validation("sort must be asc or desc")
	}
	return p, nil
}

func clamp(n int64) int64 {
	if n < 0 {
		return 0
	}
	return n
}

package service

import (
	"context"
	"time"

	"github.com/pullstory/api/internal/apperr"
)

// Ranking periods.
const (
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
	PeriodAll     = "all"
)

// LangAll ranks across every language by the aggregate counter.
const LangAll = "all"

// RankingParams select a ranking view.
type RankingParams struct {
	Period string // weekly | monthly | all
	Lang   string // two-letter code or "all"
	Limit  int
	Offset int
}

// RankingEntry is one ranked article.
type RankingEntry struct {
	Rank         int       `json:"rank"`
	ArticleID    string    `json:"article_id"`
	Lang         string    `json:"lang"`
	Title        string    `json:"title"`
	LikeCount    int64     `json:"like_count"`
	RepoFullName string    `json:"repo_full_name"`
	Number       int       `json:"number"`
	CreatedAt    time.Time `json:"created_at"`
}

// RankingPage is the pagination envelope handed to the transport layer.
type RankingPage struct {
	Entries []RankingEntry `json:"entries"`
	Limit   int            `json:"limit"`
	Offset  int            `json:"offset"`
}

// RankingService computes the popularity ranking.
type RankingService interface {
	GetRanking(ctx context.Context, p RankingParams) (RankingPage, error)
}

type rankingService struct {
	articles ArticleStore
	now      func() time.Time
}

// NewRankingService wires the store. The clock is injectable for tests.
func NewRankingService(articles ArticleStore) RankingService {
	return &rankingService{articles: articles, now: time.Now}
}

// GetRanking queries the store for top articles by like count, optionally
// restricted to a trailing window and a language, and assigns page-relative
// rank numbers (offset + index + 1). Entries without a usable title are
// dropped rather than failing the whole page.
func (s *rankingService) GetRanking(ctx context.Context, p RankingParams) (RankingPage, error) {
	p, since, err := s.normalize(p)
	if err != nil {
		return RankingPage{}, err
	}

	storeLang := p.Lang
	if storeLang == LangAll {
		storeLang = ""
	}

	articles, err := s.articles.RankedQuery(ctx, since, storeLang, p.Limit, p.Offset)
	if err != nil {
		return RankingPage{}, err
	}

	entries := make([]RankingEntry, 0, len(articles))
	for _, a := range articles {
		lang := storeLang
		score := a.TotalLikeCount
		if lang == "" {
			// Aggregate ranking shows whichever language sorts first; see
			// Languages() for the deterministic order.
			langs := a.Languages()
			if len(langs) == 0 {
				continue
			}
			lang = langs[0]
		} else {
			score = a.Contents[lang].LikeCount
		}

		block, ok := a.Contents[lang]
		if !ok || block.Title == "" {
			continue
		}

		entries = append(entries, RankingEntry{
			Rank:         p.Offset + len(entries) + 1,
			ArticleID:    a.ID,
			Lang:         lang,
			Title:        block.Title,
			LikeCount:    score,
			RepoFullName: a.FullName(),
			Number:       a.Number,
			CreatedAt:    a.CreatedAt,
		})
	}

	return RankingPage{Entries: entries, Limit: p.Limit, Offset: p.Offset}, nil
}

func (s *rankingService) normalize(p RankingParams) (RankingParams, time.Time, error) {
	var since time.Time
	switch p.Period {
	case "", PeriodAll:
		p.Period = PeriodAll
	case PeriodWeekly:
		since = s.now().AddDate(0, 0, -7)
	case PeriodMonthly:
		since = s.now().AddDate(0, 0, -30)
	default:
		return p, since, apperr.Validation("period must be weekly, monthly, or all")
	}

	if p.Lang == "" {
		p.Lang = LangAll
	}
	if p.Lang != LangAll && !isLangCode(p.Lang) {
		return p, since, apperr.Validation("lang must be a two-letter code or all")
	}

	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	if p.Offset < 0 {
		return p, since, apperr.Validation("offset must not be negative")
	}
	return p, since, nil
}

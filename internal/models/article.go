package models

import (
	"sort"
	"time"
)

// Comment is a single PR/issue comment, kept in the order GitHub returned it.
type Comment struct {
	Author    string    `bson:"author" json:"author"`
	Body      string    `bson:"body" json:"body"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// SourceItem is the read-only snapshot of a PR or issue taken at first
// ingestion. It is never refreshed afterwards.
type SourceItem struct {
	Owner     string    `bson:"owner" json:"owner"`
	Repo      string    `bson:"repo" json:"repo"`
	Number    int       `bson:"number" json:"number"`
	IsPull    bool      `bson:"is_pull" json:"is_pull"`
	Author    string    `bson:"author" json:"author"`
	Title     string    `bson:"title" json:"title"`
	Body      string    `bson:"body" json:"body"`
	Diff      string    `bson:"diff,omitempty" json:"diff,omitempty"`           // PRs only
	Labels    []string  `bson:"labels,omitempty" json:"labels,omitempty"`       // issues
	Assignees []string  `bson:"assignees,omitempty" json:"assignees,omitempty"` // issues
	Comments  []Comment `bson:"comments" json:"comments"`
}

// ContentBlock is one language's AI-generated summary of an Article.
// Regenerating a language replaces the block but keeps its like count.
type ContentBlock struct {
	Title       string    `bson:"title" json:"title"`
	Background  string    `bson:"background,omitempty" json:"background,omitempty"`
	Changes     []string  `bson:"changes,omitempty" json:"changes,omitempty"`
	Points      []string  `bson:"points,omitempty" json:"points,omitempty"`
	GeneratedAt time.Time `bson:"generated_at" json:"generated_at"`
	LikeCount   int64     `bson:"like_count" json:"like_count"`
}

// Article is the cached unit: one source snapshot plus per-language content
// and like counters. Keyed naturally by (owner, repo, number); the _id is
// assigned once at first ingestion and stable afterwards.
//
// Invariant: TotalLikeCount == sum of Contents[*].LikeCount.
type Article struct {
	ID             string                  `bson:"_id" json:"id"`
	Owner          string                  `bson:"owner" json:"owner"`
	Repo           string                  `bson:"repo" json:"repo"`
	Number         int                     `bson:"number" json:"number"`
	Source         SourceItem              `bson:"source" json:"source"`
	Contents       map[string]ContentBlock `bson:"contents" json:"contents"`
	TotalLikeCount int64                   `bson:"total_like_count" json:"total_like_count"`
	CreatedAt      time.Time               `bson:"created_at" json:"created_at"`
}

// FullName returns "owner/repo".
func (a Article) FullName() string {
	return a.Owner + "/" + a.Repo
}

// Languages returns the content language codes in lexicographic order, so
// callers that need "the first language" get a deterministic answer.
func (a Article) Languages() []string {
	langs := make([]string, 0, len(a.Contents))
	for lang := range a.Contents {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

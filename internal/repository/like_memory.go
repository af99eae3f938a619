package repository

import (
	"context"
	"sync"

	"github.com/pullstory/api/internal/apperr"
	"github.com/pullstory/api/internal/models"
)

// LikeMemory is the in-memory like ledger, contract-compatible with
// LikeMongo including the duplicate-triple conflict.
type LikeMemory struct {
	mu      sync.Mutex
	byTrip  map[likeKey]models.LikeRecord
	ordered []likeKey // insertion order, so listings are stable
}

type likeKey struct {
	userID    string
	articleID string
	lang      string
}

// NewLikeMemory returns an empty in-memory ledger.
func NewLikeMemory() *LikeMemory {
	return &LikeMemory{byTrip: make(map[likeKey]models.LikeRecord)}
}

// Find returns the like record for the triple, or NotFound.
func (r *LikeMemory) Find(ctx context.Context, userID, articleID, lang string) (models.LikeRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.byTrip[likeKey{userID, articleID, lang}]
	if !ok {
		return models.LikeRecord{}, apperr.ErrNotFound
	}
	return rec, nil
}

// Insert adds a like record. ErrConflict on a duplicate triple.
func (r *LikeMemory) Insert(ctx context.Context, rec models.LikeRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := likeKey{rec.UserID, rec.ArticleID, rec.Lang}
	if _, ok := r.byTrip[key]; ok {
		return apperr.ErrConflict
	}
	r.byTrip[key] = rec
	r.ordered = append(r.ordered, key)
	return nil
}

// Delete removes the like record for the triple, NotFound if absent.
func (r *LikeMemory) Delete(ctx context.Context, userID, articleID, lang string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := likeKey{userID, articleID, lang}
	if _, ok := r.byTrip[key]; !ok {
		return apperr.ErrNotFound
	}
	delete(r.byTrip, key)
	for i, k := range r.ordered {
		if k == key {
			r.ordered = append(r.ordered[:i], r.ordered[i+1:]...)
			break
		}
	}
	return nil
}

// ListByUser returns every like record the user has created.
func (r *LikeMemory) ListByUser(ctx context.Context, userID string) ([]models.LikeRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var recs []models.LikeRecord
	for _, key := range r.ordered {
		if key.userID == userID {
			recs = append(recs, r.byTrip[key])
		}
	}
	return recs, nil
}

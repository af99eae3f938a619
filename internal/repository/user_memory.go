package repository

import (
	"context"
	"os"
	"strings"
	"sync"

	"github.com/pullstory/api/internal/apperr"
)

// UserMemory is the in-memory credential store for STORAGE=memory mode. It
// seeds itself from DEV_USERS ("user1:token1,user2:token2") so local
// development can exercise the ingestion path.
type UserMemory struct {
	mu     sync.RWMutex
	tokens map[string]string
}

// NewUserMemory returns a credential store seeded from the environment.
func NewUserMemory() *UserMemory {
	tokens := make(map[string]string)
	for _, pair := range strings.Split(os.Getenv("DEV_USERS"), ",") {
		if user, token, ok := strings.Cut(pair, ":"); ok {
			tokens[user] = token
		}
	}
	return &UserMemory{tokens: tokens}
}

// SetToken stores a token for userID.
func (r *UserMemory) SetToken(userID, token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[userID] = token
}

// GitHubToken returns the stored token for userID, NotFound if absent.
func (r *UserMemory) GitHubToken(ctx context.Context, userID string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	token, ok := r.tokens[userID]
	if !ok || token == "" {
		return "", apperr.ErrNotFound
	}
	return token, nil
}

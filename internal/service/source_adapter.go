package service

import (
	"context"
	"errors"

	"github.com/pullstory/api/internal/apperr"
	"github.com/pullstory/api/internal/github"
	"github.com/pullstory/api/internal/models"
)

// CredentialStore resolves a user's stored GitHub token.
type CredentialStore interface {
	GitHubToken(ctx context.Context, userID string) (string, error)
}

// GitHubSource implements SourceAdapter over the GitHub REST client and the
// credential store. It translates collaborator failures into the error
// taxonomy so workflows never see GitHub-specific detail.
type GitHubSource struct {
	users CredentialStore
	gh    *github.Client
}

// NewGitHubSource wires the adapter.
func NewGitHubSource(users CredentialStore, gh *github.Client) *GitHubSource {
	return &GitHubSource{users: users, gh: gh}
}

// ResolveCredential returns the caller's stored token, Forbidden if none.
func (s *GitHubSource) ResolveCredential(ctx context.Context, userID string) (string, error) {
	token, err := s.users.GitHubToken(ctx, userID)
	if errors.Is(err, apperr.ErrNotFound) {
		return "", apperr.Forbidden("no GitHub credential on file")
	}
	if err != nil {
		return "", apperr.Internal("credential lookup failed", err)
	}
	return token, nil
}

// FetchItem fetches the PR/issue snapshot under the given credential.
func (s *GitHubSource) FetchItem(ctx context.Context, credential, owner, repo string, number int) (models.SourceItem, error) {
	item, err := s.gh.FetchItem(ctx, credential, owner, repo, number)
	if errors.Is(err, github.ErrNotFound) {
		return models.SourceItem{}, apperr.NotFound("pull request or issue not found")
	}
	if err != nil {
		return models.SourceItem{}, apperr.Unavailable("github fetch failed", err)
	}
	return item, nil
}

package github

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStubServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/repos/octo/hello/issues/7", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		w.Write([]byte(`{
			"number": 7,
			"title": "Add retry",
			"body": "Retries transient failures.",
			"user": {"login": "alice"},
			"labels": [{"name": "bug"}],
			"assignees": [{"login": "bob"}],
			"pull_request": {"url": "https://example.test/pulls/7"}
		}`))
	})
	mux.HandleFunc("/repos/octo/hello/pulls/7", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/vnd.github.v3.diff", r.Header.Get("Accept"))
		w.Write([]byte("diff --git a/main.go b/main.go"))
	})
	mux.HandleFunc("/repos/octo/hello/issues/7/comments", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"body": "first", "user": {"login": "carol"}, "created_at": "2024-01-01T00:00:00Z"},
			{"body": "second", "user": {"login": "dan"}, "created_at": "2024-01-02T00:00:00Z"}
		]`))
	})
	mux.HandleFunc("/repos/octo/hello/issues/8", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"number": 8,
			"title": "Crash on empty input",
			"body": "Steps to reproduce...",
			"user": {"login": "erin"}
		}`))
	})
	mux.HandleFunc("/repos/octo/hello/issues/8/comments", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchItemPullRequest(t *testing.T) {
	srv := newStubServer(t)
	c := NewClientWithBaseURL(srv.URL)

	item, err := c.FetchItem(context.Background(), "tok-1", "octo", "hello", 7)
	require.NoError(t, err)

	assert.True(t, item.IsPull)
	assert.Equal(t, "octo", item.Owner)
	assert.Equal(t, "hello", item.Repo)
	assert.Equal(t, 7, item.Number)
	assert.Equal(t, "alice", item.Author)
	assert.Equal(t, "Add retry", item.Title)
	assert.Equal(t, []string{"bug"}, item.Labels)
	assert.Equal(t, []string{"bob"}, item.Assignees)
	assert.Contains(t, item.Diff, "diff --git")

	require.Len(t, item.Comments, 2)
	assert.Equal(t, "first", item.Comments[0].Body)
	assert.Equal(t, "second", item.Comments[1].Body)
	assert.Equal(t, "carol", item.Comments[0].Author)
}

func TestFetchItemIssue(t *testing.T) {
	srv := newStubServer(t)
	c := NewClientWithBaseURL(srv.URL)

	item, err := c.FetchItem(context.Background(), "tok-1", "octo", "hello", 8)
	require.NoError(t, err)

	assert.False(t, item.IsPull)
	assert.Empty(t, item.Diff)
	assert.Empty(t, item.Comments)
}

func TestFetchItemNotFound(t *testing.T) {
	srv := newStubServer(t)
	c := NewClientWithBaseURL(srv.URL)

	_, err := c.FetchItem(context.Background(), "tok-1", "octo", "hello", 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

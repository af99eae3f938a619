// Package github is a minimal wrapper around GitHub's REST API v3.
// It is intentionally light—just the endpoints the ingestion workflow needs.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pullstory/api/internal/models"
)

// ErrNotFound reports that the remote PR/issue does not exist.
var ErrNotFound = fmt.Errorf("github: item not found")

// Client talks to the GitHub REST API. Tokens are supplied per call because
// every fetch runs under the requesting user's stored credential.
type Client struct {
	http    *http.Client
	baseURL string
}

// NewClient returns a ready-to-use GitHub API client.
func NewClient() *Client {
	return &Client{
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
		baseURL: "https://api.github.com",
	}
}

// NewClientWithBaseURL is used by tests to point the client at a stub server.
func NewClientWithBaseURL(base string) *Client {
	c := NewClient()
	c.baseURL = base
	return c
}

// issue mirrors the subset of GitHub's issue payload we snapshot. The issues
// endpoint serves both issues and pull requests; `pull_request` is only set
// for the latter.
type issue struct {
	Number    int    `json:"number"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	CreatedAt string `json:"created_at"`
	User      struct {
		Login string `json:"login"`
	} `json:"user"`
	Labels []struct {
		Name string `json:"name"`
	} `json:"labels"`
	Assignees []struct {
		Login string `json:"login"`
	} `json:"assignees"`
	PullRequest *struct {
		URL string `json:"url"`
	} `json:"pull_request"`
}

type comment struct {
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	User      struct {
		Login string `json:"login"`
	} `json:"user"`
}

// FetchItem retrieves a PR or issue plus its comments (in original order)
// and, for PRs, the unified diff. Returns ErrNotFound when the remote item
// does not exist.
func (c *Client) FetchItem(ctx context.Context, token, owner, repo string, number int) (models.SourceItem, error) {
	base := fmt.Sprintf("%s/repos/%s/%s", c.baseURL, url.PathEscape(owner), url.PathEscape(repo))

	var is issue
	if err := c.getJSON(ctx, token, fmt.Sprintf("%s/issues/%d", base, number), &is); err != nil {
		return models.SourceItem{}, err
	}

	item := models.SourceItem{
		Owner:  owner,
		Repo:   repo,
		Number: is.Number,
		IsPull: is.PullRequest != nil,
		Author: is.User.Login,
		Title:  is.Title,
		Body:   is.Body,
	}
	for _, l := range is.Labels {
		item.Labels = append(item.Labels, l.Name)
	}
	for _, a := range is.Assignees {
		item.Assignees = append(item.Assignees, a.Login)
	}

	if item.IsPull {
		diff, err := c.getDiff(ctx, token, fmt.Sprintf("%s/pulls/%d", base, number))
		if err != nil {
			return models.SourceItem{}, err
		}
		item.Diff = diff
	}

	var comments []comment
	if err := c.getJSON(ctx, token, fmt.Sprintf("%s/issues/%d/comments?per_page=100", base, number), &comments); err != nil {
		return models.SourceItem{}, err
	}
	item.Comments = make([]models.Comment, 0, len(comments))
	for _, cm := range comments {
		item.Comments = append(item.Comments, models.Comment{
			Author:    cm.User.Login,
			Body:      cm.Body,
			CreatedAt: cm.CreatedAt,
		})
	}

	return item, nil
}

// getJSON executes a GET request and decodes the JSON response into v.
func (c *Client) getJSON(ctx context.Context, token, u string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	c.addHeaders(req, token, "application/vnd.github+json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("github: unexpected status %s", resp.Status)
	}

	return json.NewDecoder(resp.Body).Decode(v)
}

// getDiff fetches a pull request with the diff media type.
func (c *Client) getDiff(ctx context.Context, token, u string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}
	c.addHeaders(req, token, "application/vnd.github.v3.diff")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", ErrNotFound
	}
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("github: unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// addHeaders sets authentication and Accept headers.
func (c *Client) addHeaders(req *http.Request, token, accept string) {
	req.Header.Set("Accept", accept)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("User-Agent", "pullstory-api")
}

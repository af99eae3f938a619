package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Summary is the structured multilingual output of a summarizer run.
type Summary struct {
	Title      string   `json:"title"`
	Background string   `json:"background"`
	Changes    []string `json:"changes"`
	Points     []string `json:"points"`
}

// Summarizer turns combined PR/issue text into a structured summary in the
// requested language.
type Summarizer interface {
	Summarize(ctx context.Context, text, lang string) (Summary, error)
}

// summaryPrompt is shared by every model-backed summarizer so they produce
// interchangeable output.
func summaryPrompt(text, lang string) string {
	return fmt.Sprintf(`You are a technical writer. Summarize the following GitHub pull request or issue as a short article in the language with ISO 639-1 code %q.

Respond with JSON only, no surrounding prose, using this shape:
{"title": "...", "background": "...", "changes": ["..."], "points": ["..."]}

- "title": a headline for the article
- "background": why this change or report exists
- "changes": the concrete changes made (empty for plain issues)
- "points": noteworthy discussion points from the comments

Source:
%s`, lang, text)
}

// parseSummary decodes a model reply, tolerating markdown code fences.
func parseSummary(raw string) (Summary, error) {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSuffix(strings.TrimSpace(raw), "```")
	}

	var s Summary
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return Summary{}, fmt.Errorf("summary is not valid JSON: %w", err)
	}
	return s, nil
}

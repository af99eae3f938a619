package service

import "context"

type dummySummarizer struct{}

func (d dummySummarizer) Summarize(ctx context.Context, text, lang string) (Summary, error) {
	return Summary{
		Title:      "<placeholder title " + lang + ">",
		Background: "<placeholder background>",
		Changes:    []string{"<placeholder change>"},
		Points:     []string{"<placeholder point>"},
	}, nil
}

// NewDummySummarizer returns a canned summarizer for local development.
func NewDummySummarizer() Summarizer {
	return dummySummarizer{}
}

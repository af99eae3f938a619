package service

import (
	"context"
	"fmt"
	"os"

	"cloud.google.com/go/vertexai/genai"
	"google.golang.org/api/option"
)

// VertexSummarizer implements Summarizer using Gemini on Vertex AI.
type VertexSummarizer struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewVertexSummarizer creates a Vertex AI summarizer.
func NewVertexSummarizer(projectID, location, modelName string) (*VertexSummarizer, error) {
	ctx := context.Background()

	// Get credentials from environment or service account file
	var opts []option.ClientOption
	if creds := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); creds != "" {
		opts = append(opts, option.WithCredentialsFile(creds))
	}

	client, err := genai.NewClient(ctx, projectID, location, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vertex AI client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.4)
	model.SetTopP(0.8)
	model.SetTopK(40)

	return &VertexSummarizer{
		client: client,
		model:  model,
	}, nil
}

// Summarize runs the summary prompt and parses the JSON reply.
func (v *VertexSummarizer) Summarize(ctx context.Context, text, lang string) (Summary, error) {
	resp, err := v.model.GenerateContent(ctx, genai.Text(summaryPrompt(text, lang)))
	if err != nil {
		return Summary{}, fmt.Errorf("failed to generate summary: %w", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return Summary{}, fmt.Errorf("no summary generated")
	}

	part, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return Summary{}, fmt.Errorf("unexpected response type")
	}

	return parseSummary(string(part))
}

// Close closes the Vertex AI client.
func (v *VertexSummarizer) Close() error {
	return v.client.Close()
}

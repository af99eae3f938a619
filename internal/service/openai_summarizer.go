package service

import (
	"context"
	"errors"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAISummarizer implements Summarizer using the official openai-go SDK
// (chat completions). Selected with SUMMARIZER=openai.
type OpenAISummarizer struct {
	model string
	opts  []option.RequestOption
}

// NewOpenAISummarizer builds the summarizer from config values.
func NewOpenAISummarizer(apiKey, model string) (*OpenAISummarizer, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key missing")
	}
	if model == "" {
		return nil, errors.New("openai model is required")
	}
	return &OpenAISummarizer{
		model: model,
		opts:  []option.RequestOption{option.WithAPIKey(apiKey)},
	}, nil
}

// Summarize runs the summary prompt and parses the JSON reply.
func (o *OpenAISummarizer) Summarize(ctx context.Context, text, lang string) (Summary, error) {
	client := openai.NewClient(o.opts...)

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(summaryPrompt(text, lang)),
		},
	})
	if err != nil {
		return Summary{}, err
	}
	if len(resp.Choices) == 0 {
		return Summary{}, errors.New("openai: empty choices")
	}

	return parseSummary(resp.Choices[0].Message.Content)
}

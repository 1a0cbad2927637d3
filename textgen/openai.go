package textgen

import (
	"context"
	"errors"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/wwpbim/bepgen/payload"
)

const openaiSystemPrompt = "You are a BIM coordinator writing sections of a BIM Execution Plan. " +
	"Expand the input summary below into clear, professional plan prose. " +
	"Keep every stated value exactly as given, write in full sentences grouped " +
	"under the same headings, and do not invent project facts that are marked [Not set]."

// OpenAI drafts the prose with a hosted chat model instead of the local
// engine.
type OpenAI struct {
	Model string
	Opts  []option.RequestOption
}

// NewOpenAI validates the hosted-model settings.
func NewOpenAI(cfg Settings) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("textgen: openai api key missing")
	}
	if cfg.Model == "" {
		return nil, errors.New("textgen: openai model is required")
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &OpenAI{Model: cfg.Model, Opts: opts}, nil
}

// Generate sends the payload summary through a chat completion.
func (o *OpenAI) Generate(ctx context.Context, p *payload.Payload) (string, error) {
	client := openai.NewClient(o.Opts...)

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(openaiSystemPrompt),
			openai.UserMessage(Summary(p)),
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("textgen: openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

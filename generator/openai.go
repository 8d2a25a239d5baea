package generator

import (
	"context"
	"errors"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"counterfactual_press/timeline"
)

// OpenAIClient implements Client using the official openai-go SDK (chat
// completions). DeepSeek and other OpenAI-compatible gateways work through
// BaseURL. The credential is supplied per call, not at construction, so one
// client serves whatever key the session currently holds.
type OpenAIClient struct {
	model   string
	baseURL string
	retry   RetryPolicy
}

// NewOpenAIClient validates settings and returns a client.
func NewOpenAIClient(cfg Settings) (*OpenAIClient, error) {
	if cfg.Model == "" {
		return nil, errors.New("llm model is required")
	}
	if cfg.Provider == "deepseek" && cfg.BaseURL == "" {
		return nil, errors.New("llm provider deepseek requires base_url (OpenAI-compatible endpoint)")
	}
	retry := cfg.Retry
	if retry.Attempts < 1 {
		retry = DefaultRetry
	}
	return &OpenAIClient{model: cfg.Model, baseURL: cfg.BaseURL, retry: retry}, nil
}

func (c *OpenAIClient) complete(ctx context.Context, key string, prompt Prompt) (string, error) {
	opts := []option.RequestOption{option.WithAPIKey(key)}
	if c.baseURL != "" {
		opts = append(opts, option.WithBaseURL(c.baseURL))
	}
	client := openai.NewClient(opts...)

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(prompt.System),
			openai.UserMessage(prompt.User),
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: empty choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// GenerateTimeline requests a full timeline for the seed event.
func (c *OpenAIClient) GenerateTimeline(ctx context.Context, key, seed string) (timeline.Timeline, error) {
	prompt := BuildTimelinePrompt(seed)
	var tl timeline.Timeline
	err := c.retry.Run(ctx, func() error {
		raw, err := c.complete(ctx, key, prompt)
		if err != nil {
			return err
		}
		tl, err = ParseTimeline(raw)
		return err
	})
	if err != nil {
		return timeline.Timeline{}, err
	}
	return tl, nil
}

// GenerateArticle requests a full article for one entry.
func (c *OpenAIClient) GenerateArticle(ctx context.Context, key, seed string, entry timeline.Entry, tl timeline.Timeline) (timeline.Article, error) {
	prompt := BuildArticlePrompt(seed, entry, tl)
	var art timeline.Article
	err := c.retry.Run(ctx, func() error {
		raw, err := c.complete(ctx, key, prompt)
		if err != nil {
			return err
		}
		art, err = ParseArticle(raw)
		return err
	})
	if err != nil {
		return timeline.Article{}, err
	}
	return art, nil
}

// GenerateInterpolation requests bridging entries around an anchor.
func (c *OpenAIClient) GenerateInterpolation(ctx context.Context, key, seed string, req InterpolationRequest) ([]timeline.Entry, error) {
	prompt := BuildInterpolationPrompt(seed, req)
	var entries []timeline.Entry
	err := c.retry.Run(ctx, func() error {
		raw, err := c.complete(ctx, key, prompt)
		if err != nil {
			return err
		}
		entries, err = ParseInterpolation(raw)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

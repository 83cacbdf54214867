// Package gpt implements llm.Provider on top of the OpenAI chat completions API.
package gpt

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/starford/kenaz-distill/internal/llm"
)

type Client struct {
	client openai.Client
}

var _ llm.Provider = (*Client)(nil)

// NewClient builds a client authenticated with apiKey. baseURL may be empty
// to use the default OpenAI endpoint, or point at any compatible server.
// The SDK's automatic retries are disabled: every Complete call is exactly
// one request.
func NewClient(apiKey, baseURL string) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("gpt: API key is required")
	}
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &Client{client: openai.NewClient(opts...)}, nil
}

func (c *Client) Complete(ctx context.Context, request llm.Request) (*llm.Response, error) {
	if request.Model == "" {
		return nil, errors.New("gpt: model is required")
	}
	params := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(request.System),
			openai.UserMessage(request.Prompt),
		},
		Model: openai.ChatModel(request.Model),
	}

	output, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("gpt: chat completion: %w", err)
	}
	if len(output.Choices) == 0 {
		return nil, errors.New("gpt: no choices in response")
	}

	choice := output.Choices[0]
	return &llm.Response{
		Content:      choice.Message.Content,
		FinishReason: string(choice.FinishReason),
	}, nil
}

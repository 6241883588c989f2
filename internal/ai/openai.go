package ai

import (
	"context"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

// openAICompleter speaks the OpenAI-compatible chat completion API.
// One implementation covers OpenAI, OpenRouter, Groq, and Gemini;
// only the base URL and default model differ per provider.
type openAICompleter struct {
	client   *openai.Client
	model    string
	jsonMode bool
}

// newOpenAICompleter builds a completer against the provider's base URL.
func newOpenAICompleter(spec providerSpec, apiKey, model string, httpClient *http.Client) *openAICompleter {
	config := openai.DefaultConfig(apiKey)
	config.BaseURL = spec.BaseURL
	config.HTTPClient = httpClient

	return &openAICompleter{
		client:   openai.NewClientWithConfig(config),
		model:    model,
		jsonMode: spec.SupportsJSONMode,
	}
}

// Complete sends one chat completion and returns the text of the first
// choice.
func (o *openAICompleter) Complete(ctx context.Context, req completionRequest) (string, error) {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
	}
	if req.System != "" {
		messages = append([]openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
		}, messages...)
	}

	chatReq := openai.ChatCompletionRequest{
		Model:    o.model,
		Messages: messages,
	}
	if req.MaxTokens > 0 {
		chatReq.MaxTokens = req.MaxTokens
	}
	if req.JSONMode && o.jsonMode {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := o.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}

package adapter

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/domainerr"
)

const analysisSystemPrompt = `You are a deal desk analyst. You receive a JSON snapshot of a sales deal:
its value, discount, contract length, per-attribute scores, overall score and classification,
and a few comparable closed-won deals. Assess the deal's risks and strengths and recommend
whether it should be approved, in at most five short paragraphs.`

// ChatCompleter is the subset of the OpenAI client the provider uses.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIConfig configures the chat-completion provider.
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// OpenAIProvider implements port.AnalysisProvider with the chat completions API.
type OpenAIProvider struct {
	client ChatCompleter
	model  string
}

// NewOpenAIProvider builds a provider backed by the OpenAI client.
func NewOpenAIProvider(cfg OpenAIConfig) *OpenAIProvider {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return NewOpenAIProviderWithClient(openai.NewClientWithConfig(clientCfg), cfg.Model)
}

// NewOpenAIProviderWithClient builds a provider over any chat completer.
func NewOpenAIProviderWithClient(client ChatCompleter, model string) *OpenAIProvider {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIProvider{client: client, model: model}
}

// Analyze returns the model's reply verbatim.
func (p *OpenAIProvider) Analyze(ctx context.Context, dealSummaryJSON string) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Temperature: 0.2,
		MaxTokens:   800,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: analysisSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: dealSummaryJSON},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// DisabledProvider is used when no API key is configured.
type DisabledProvider struct{}

func (DisabledProvider) Analyze(context.Context, string) (string, error) {
	return "", domainerr.Configurationf("AI analysis is not configured; set OPENAI_API_KEY")
}

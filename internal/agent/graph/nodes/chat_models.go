package nodes

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	openaimodel "github.com/cloudwego/eino-ext/components/model/openai"
	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	"github.com/mkebiclioglu/agent-as-inbound-rep/internal/agent/model"
	errx "github.com/mkebiclioglu/agent-as-inbound-rep/internal/core/error"
	logx "github.com/mkebiclioglu/agent-as-inbound-rep/pkg/logger"
)

// NewResponseChatModel creates the reply model for the configured provider.
// Without a credential the process still starts; the returned model fails every call.
func NewResponseChatModel(ctx context.Context, cfg model.ResponseModelConfig, keys model.ProviderKeys) (einomodel.BaseChatModel, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	apiKey := strings.TrimSpace(keys.APIKeyFor(provider))
	if apiKey == "" {
		logx.Warn().Str("provider", provider).Msg("No model API key configured; generation will fail")
		return NewUnavailableChatModel(provider), nil
	}

	switch provider {
	case model.ProviderGemini:
		return newGeminiChatModel(ctx, cfg, apiKey, keys.GeminiBaseURL)
	case model.ProviderOpenAI, "":
		return newOpenAIChatModel(ctx, cfg, apiKey, keys.OpenAIBaseURL)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

func newOpenAIChatModel(ctx context.Context, cfg model.ResponseModelConfig, apiKey, baseURL string) (einomodel.BaseChatModel, error) {
	maxTokens := cfg.MaxTokens
	temperature := cfg.Temperature
	m, err := openaimodel.NewChatModel(ctx, &openaimodel.ChatModelConfig{
		BaseURL:     strings.TrimRight(baseURL, "/"),
		APIKey:      apiKey,
		Model:       strings.TrimSpace(cfg.Model),
		MaxTokens:   &maxTokens,
		Temperature: &temperature,
		Timeout:     cfg.Timeout,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating OpenAI response model")
		return nil, fmt.Errorf("error creating OpenAI response model: %w", err)
	}
	return m, nil
}

func newGeminiChatModel(ctx context.Context, cfg model.ResponseModelConfig, apiKey, baseURL string) (einomodel.BaseChatModel, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		clientCfg.HTTPOptions.BaseURL = baseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}

	maxTokens := cfg.MaxTokens
	temperature := cfg.Temperature
	m, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       strings.TrimSpace(cfg.Model),
		Temperature: &temperature,
		MaxTokens:   &maxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini response model")
		return nil, fmt.Errorf("error creating Gemini response model: %w", err)
	}
	return m, nil
}

// UnavailableChatModel stands in when no provider credential is configured.
type UnavailableChatModel struct {
	provider string
}

func NewUnavailableChatModel(provider string) *UnavailableChatModel {
	return &UnavailableChatModel{provider: provider}
}

func (m *UnavailableChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	return nil, errx.Generation(errx.ConfigMissing(m.provider + " api key"))
}

func (m *UnavailableChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errx.Generation(errx.ConfigMissing(m.provider + " api key"))
}

var _ einomodel.BaseChatModel = (*UnavailableChatModel)(nil)

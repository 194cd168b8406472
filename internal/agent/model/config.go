package model

import "time"

// ================ Config ================
type ConversationConfig struct {
	TTL           time.Duration `envconfig:"CONVERSATION_TTL" default:"0s"`
	HistoryWindow int           `envconfig:"CONVERSATION_HISTORY_WINDOW" default:"10"`
}

// Provider names accepted by LLM_PROVIDER.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

type ResponseModelConfig struct {
	Provider    string        `envconfig:"LLM_PROVIDER" default:"openai"`
	Model       string        `envconfig:"RESPONSE_MODEL" default:"gpt-4o-mini"`
	MaxTokens   int           `envconfig:"RESPONSE_MAX_TOKENS" default:"200"`
	Temperature float32       `envconfig:"RESPONSE_TEMPERATURE" default:"0.7"`
	Timeout     time.Duration `envconfig:"RESPONSE_TIMEOUT" default:"30s"`
}

type ProviderKeys struct {
	OpenAIAPIKey  string `envconfig:"OPENAI_API_KEY"`
	OpenAIBaseURL string `envconfig:"OPENAI_BASE_URL" default:"https://api.openai.com/v1"`
	GeminiAPIKey  string `envconfig:"GEMINI_API_KEY"`
	GeminiBaseURL string `envconfig:"GEMINI_BASE_URL"`
}

// APIKeyFor returns the credential for the selected provider.
func (k ProviderKeys) APIKeyFor(provider string) string {
	if provider == ProviderGemini {
		return k.GeminiAPIKey
	}
	return k.OpenAIAPIKey
}

type ResponsePromptConfig struct {
	BusinessType string `envconfig:"PROMPT_BUSINESS_TYPE" default:"3D printer manufacturer"`
	BusinessName string `envconfig:"PROMPT_BUSINESS_NAME" default:"Formlabs"`
}

package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/mkebiclioglu/agent-as-inbound-rep/internal/agent/model"
	"github.com/mkebiclioglu/agent-as-inbound-rep/internal/calls"
	"github.com/mkebiclioglu/agent-as-inbound-rep/internal/server"
	"github.com/mkebiclioglu/agent-as-inbound-rep/internal/telephony"
	logx "github.com/mkebiclioglu/agent-as-inbound-rep/pkg/logger"
	pkgredis "github.com/mkebiclioglu/agent-as-inbound-rep/pkg/redis"
)

// AppConfig defines all configurable parameters of the service,
// sourced from environment variables (loaded from .env for local runs).
type AppConfig struct {
	Log    logx.Config
	Server server.Config

	// Infrastructure
	Redis pkgredis.Config

	// LLM provider
	Response model.ResponseModelConfig
	Keys     model.ProviderKeys

	// Agent configs
	Prompt       model.ResponsePromptConfig
	Conversation model.ConversationConfig

	// Voice
	Telephony telephony.Config
	Calls     calls.Config
}

// Load reads the optional .env files and binds the environment onto AppConfig.
// It reports whether a .env file was found.
func Load(files ...string) (AppConfig, bool, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	loaded := godotenv.Load(files...) == nil

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return AppConfig{}, loaded, err
	}
	cfg.Calls.BusinessName = cfg.Prompt.BusinessName
	return cfg, loaded, nil
}

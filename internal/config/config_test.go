package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mkebiclioglu/agent-as-inbound-rep/internal/core"
)

func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	unsetEnv(t, "HTTP_ADDR", "LLM_PROVIDER", "RESPONSE_MODEL", "CONVERSATION_HISTORY_WINDOW",
		"TWILIO_VOICE", "TWILIO_GATHER_TIMEOUT", "DEFAULT_LEAD_ID", "REDIS_URL")

	cfg, loaded, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded {
		t.Fatalf("Load() loaded = true for a missing file")
	}
	if cfg.Server.Addr != ":8000" || cfg.Server.ShutdownTimeout != 5*time.Second {
		t.Fatalf("server config = %+v", cfg.Server)
	}
	if cfg.Response.Provider != "openai" || cfg.Response.Model != "gpt-4o-mini" {
		t.Fatalf("response config = %+v", cfg.Response)
	}
	if cfg.Conversation.HistoryWindow != 10 {
		t.Fatalf("history window = %d, want 10", cfg.Conversation.HistoryWindow)
	}
	if cfg.Telephony.Voice != "Google.en-US-Neural2-F" || cfg.Telephony.GatherTimeout != 10 {
		t.Fatalf("telephony config = %+v", cfg.Telephony)
	}
	if cfg.Calls.DefaultLeadID != "lead_001" || cfg.Calls.BusinessName != cfg.Prompt.BusinessName {
		t.Fatalf("calls config = %+v", cfg.Calls)
	}
	if cfg.Redis.Enabled() {
		t.Fatalf("redis enabled without REDIS_URL")
	}
}

func TestLoadFromDotEnv(t *testing.T) {
	unsetEnv(t, "ENVIRONMENT", "OPENAI_API_KEY", "CONVERSATION_HISTORY_WINDOW", "PROMPT_BUSINESS_NAME", "WEBHOOK_BASE_URL", "REDIS_URL")

	path := filepath.Join(t.TempDir(), ".env")
	body := "ENVIRONMENT=production\n" +
		"OPENAI_API_KEY=sk-test\n" +
		"CONVERSATION_HISTORY_WINDOW=6\n" +
		"PROMPT_BUSINESS_NAME=Acme Printers\n" +
		"WEBHOOK_BASE_URL=https://abc.ngrok.io\n" +
		"REDIS_URL=redis://localhost:6379/0\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !loaded {
		t.Fatalf("Load() loaded = false")
	}
	if cfg.Log.Environment != core.Production {
		t.Fatalf("environment = %q, want production", cfg.Log.Environment)
	}
	if cfg.Keys.OpenAIAPIKey != "sk-test" || cfg.Conversation.HistoryWindow != 6 {
		t.Fatalf("config = %+v", cfg)
	}
	if cfg.Calls.BusinessName != "Acme Printers" || cfg.Telephony.WebhookBaseURL != "https://abc.ngrok.io" {
		t.Fatalf("calls = %+v telephony = %+v", cfg.Calls, cfg.Telephony)
	}
	if !cfg.Redis.Enabled() {
		t.Fatalf("redis not enabled")
	}
}

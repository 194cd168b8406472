// Command doctor reports which settings the relay can see and, unless
// -offline is set, checks the LLM and Twilio credentials against their APIs.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/twilio/twilio-go"

	"github.com/mkebiclioglu/agent-as-inbound-rep/internal/agent/model"
	"github.com/mkebiclioglu/agent-as-inbound-rep/internal/config"
)

func main() {
	exitFn(run(os.Args[1:], os.Stdout, os.Stderr))
}

var exitFn = os.Exit

// probe checks one remote credential and returns a short description on success.
type probe func(ctx context.Context, cfg config.AppConfig) (string, error)

var (
	probeModel  probe = openAIModelProbe
	probeTwilio probe = twilioAccountProbe
)

func run(args []string, stdout io.Writer, stderr io.Writer) int {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	fs.SetOutput(stderr)
	envFile := fs.String("env", ".env", "dotenv file to load before reading the environment")
	offline := fs.Bool("offline", false, "skip remote credential checks")
	timeout := fs.Duration("timeout", 10*time.Second, "timeout for each remote check")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, loaded, err := config.Load(*envFile)
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return 2
	}
	if !loaded {
		fmt.Fprintf(stdout, "note: %s not found, using process environment\n", *envFile)
	}

	ok := report(stdout, cfg)
	if *offline {
		return exitCode(ok)
	}

	ctx := context.Background()
	if cfg.Keys.APIKeyFor(cfg.Response.Provider) != "" {
		ok = check(ctx, stdout, "llm", *timeout, cfg, probeModel) && ok
	}
	if cfg.Telephony.HasCredentials() {
		ok = check(ctx, stdout, "twilio", *timeout, cfg, probeTwilio) && ok
	}
	return exitCode(ok)
}

func exitCode(ok bool) int {
	if ok {
		return 0
	}
	return 1
}

// report prints every setting and returns false when a required one is missing.
func report(w io.Writer, cfg config.AppConfig) bool {
	ok := true
	line := func(name, value string, required bool) {
		status := "ok"
		if strings.TrimSpace(value) == "" {
			status = "unset"
			if required {
				status = "MISSING"
				ok = false
			}
		}
		fmt.Fprintf(w, "%-28s %-8s %s\n", name, status, value)
	}

	fmt.Fprintf(w, "environment: %s\n", cfg.Log.Environment)
	line("LLM_PROVIDER", cfg.Response.Provider, true)
	line("RESPONSE_MODEL", cfg.Response.Model, true)
	switch cfg.Response.Provider {
	case model.ProviderGemini:
		line("GEMINI_API_KEY", mask(cfg.Keys.GeminiAPIKey), true)
	default:
		line("OPENAI_API_KEY", mask(cfg.Keys.OpenAIAPIKey), true)
	}

	storage := "memory"
	if cfg.Redis.Enabled() {
		storage = "redis"
	}
	line("history store", storage, false)

	line("TWILIO_ACCOUNT_SID", mask(cfg.Telephony.AccountSID), false)
	line("TWILIO_AUTH_TOKEN", mask(cfg.Telephony.AuthToken), false)
	line("TWILIO_PHONE_NUMBER", cfg.Telephony.PhoneNumber, false)
	line("WEBHOOK_BASE_URL", cfg.Telephony.WebhookBaseURL, false)
	if err := cfg.Telephony.Validate(); err != nil {
		fmt.Fprintln(w, err)
		ok = false
	}
	return ok
}

func check(ctx context.Context, w io.Writer, name string, timeout time.Duration, cfg config.AppConfig, p probe) bool {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	desc, err := p(ctx, cfg)
	if err != nil {
		fmt.Fprintf(w, "%-28s FAILED   %v\n", name+" check", err)
		return false
	}
	fmt.Fprintf(w, "%-28s ok       %s\n", name+" check", desc)
	return true
}

// mask keeps the last four characters of a secret.
func mask(secret string) string {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return ""
	}
	if len(secret) <= 4 {
		return strings.Repeat("*", len(secret))
	}
	return strings.Repeat("*", len(secret)-4) + secret[len(secret)-4:]
}

func openAIModelProbe(ctx context.Context, cfg config.AppConfig) (string, error) {
	if cfg.Response.Provider != model.ProviderOpenAI {
		return "skipped for provider " + cfg.Response.Provider, nil
	}

	opts := []option.RequestOption{option.WithAPIKey(strings.TrimSpace(cfg.Keys.OpenAIAPIKey))}
	if trimmed := strings.TrimRight(cfg.Keys.OpenAIBaseURL, "/"); trimmed != "" {
		opts = append(opts, option.WithBaseURL(trimmed))
	}
	client := openai.NewClient(opts...)

	m, err := client.Models.Get(ctx, cfg.Response.Model)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("model %s owned by %s", m.ID, m.OwnedBy), nil
}

func twilioAccountProbe(ctx context.Context, cfg config.AppConfig) (string, error) {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: strings.TrimSpace(cfg.Telephony.AccountSID),
		Password: strings.TrimSpace(cfg.Telephony.AuthToken),
	})
	account, err := client.Api.FetchAccount(strings.TrimSpace(cfg.Telephony.AccountSID))
	if err != nil {
		return "", err
	}
	status := "unknown"
	if account.Status != nil {
		status = *account.Status
	}
	return "account status " + status, nil
}

package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mkebiclioglu/agent-as-inbound-rep/internal/config"
)

func clearEnv(t *testing.T) string {
	t.Helper()
	for _, key := range []string{
		"LLM_PROVIDER", "OPENAI_API_KEY", "GEMINI_API_KEY", "REDIS_URL",
		"TWILIO_ACCOUNT_SID", "TWILIO_AUTH_TOKEN", "TWILIO_PHONE_NUMBER",
		"WEBHOOK_BASE_URL", "TWILIO_VALIDATE_SIGNATURE",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestMask(t *testing.T) {
	cases := map[string]string{
		"":             "",
		"abc":          "***",
		"sk-123456789": "********6789",
	}
	for in, want := range cases {
		if got := mask(in); got != want {
			t.Fatalf("mask(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRunReportsMissingKey(t *testing.T) {
	env := clearEnv(t)

	var stdout, stderr bytes.Buffer
	code := run([]string{"-env", env, "-offline"}, &stdout, &stderr)
	if code != 1 {
		t.Fatalf("run() = %d, want 1; output:\n%s", code, stdout.String())
	}
	if !strings.Contains(stdout.String(), "OPENAI_API_KEY") || !strings.Contains(stdout.String(), "MISSING") {
		t.Fatalf("output = %s", stdout.String())
	}
}

func TestRunOfflineOK(t *testing.T) {
	env := clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-abcdefgh")

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-env", env, "-offline"}, &stdout, &stderr); code != 0 {
		t.Fatalf("run() = %d, want 0; output:\n%s", code, stdout.String())
	}
	if strings.Contains(stdout.String(), "sk-abcdefgh") {
		t.Fatalf("secret printed in clear: %s", stdout.String())
	}
}

func TestRunSignatureNeedsWebhookBase(t *testing.T) {
	env := clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-abcdefgh")
	t.Setenv("TWILIO_VALIDATE_SIGNATURE", "true")

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-env", env, "-offline"}, &stdout, &stderr); code != 1 {
		t.Fatalf("run() = %d, want 1", code)
	}
}

func TestRunProbes(t *testing.T) {
	env := clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-abcdefgh")
	t.Setenv("TWILIO_ACCOUNT_SID", "AC123")
	t.Setenv("TWILIO_AUTH_TOKEN", "token")
	t.Setenv("TWILIO_PHONE_NUMBER", "+15550001111")

	origModel, origTwilio := probeModel, probeTwilio
	t.Cleanup(func() { probeModel, probeTwilio = origModel, origTwilio })

	var called []string
	probeModel = func(ctx context.Context, cfg config.AppConfig) (string, error) {
		called = append(called, "llm")
		return "model gpt-4o-mini", nil
	}
	probeTwilio = func(ctx context.Context, cfg config.AppConfig) (string, error) {
		called = append(called, "twilio")
		return "", errors.New("authenticate")
	}

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-env", env}, &stdout, &stderr); code != 1 {
		t.Fatalf("run() = %d, want 1; output:\n%s", code, stdout.String())
	}
	if strings.Join(called, ",") != "llm,twilio" {
		t.Fatalf("probes called = %v", called)
	}
	if !strings.Contains(stdout.String(), "twilio check") || !strings.Contains(stdout.String(), "FAILED") {
		t.Fatalf("output = %s", stdout.String())
	}
}

func TestRunBadFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"-nope"}, &stdout, &stderr); code != 2 {
		t.Fatalf("run() = %d, want 2", code)
	}
}

package graph

import (
	"context"
	"errors"
	"testing"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/mkebiclioglu/agent-as-inbound-rep/internal/agent/model"
	errx "github.com/mkebiclioglu/agent-as-inbound-rep/internal/core/error"
)

type fakeChatModel struct {
	reply string
	err   error
	got   []*schema.Message
}

func (f *fakeChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	f.got = input
	if f.err != nil {
		return nil, f.err
	}
	msg := schema.AssistantMessage(f.reply, nil)
	msg.ResponseMeta = &schema.ResponseMeta{Usage: &schema.TokenUsage{PromptTokens: 100, CompletionTokens: 20, TotalTokens: 120}}
	return msg, nil
}

func (f *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not implemented")
}

func turnRequest() model.TurnRequest {
	return model.TurnRequest{
		LeadID: "lead_001",
		Messages: []*schema.Message{
			schema.SystemMessage("system"),
			schema.UserMessage("What printer fits dental work?"),
		},
	}
}

func TestRunnerGenerate(t *testing.T) {
	t.Parallel()

	cm := &fakeChatModel{reply: "The **Form 4** is ideal for dental work."}
	runner, err := NewRunner(context.Background(), cm, "gpt-4o-mini")
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}

	got, err := runner.Generate(context.Background(), turnRequest())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if got != "The Form 4 is ideal for dental work." {
		t.Fatalf("Generate() = %q", got)
	}
	if len(cm.got) != 2 || cm.got[1].Content != "What printer fits dental work?" {
		t.Fatalf("model input = %+v", cm.got)
	}
}

func TestRunnerGenerateFailure(t *testing.T) {
	t.Parallel()

	runner, err := NewRunner(context.Background(), &fakeChatModel{err: errors.New("upstream 500")}, "gpt-4o-mini")
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}
	if _, err := runner.Generate(context.Background(), turnRequest()); !errors.Is(err, errx.ErrGeneration) {
		t.Fatalf("Generate() error = %v, want ErrGeneration", err)
	}
}

func TestRunnerGenerateEmptyReply(t *testing.T) {
	t.Parallel()

	runner, err := NewRunner(context.Background(), &fakeChatModel{reply: "   "}, "gpt-4o-mini")
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}
	if _, err := runner.Generate(context.Background(), turnRequest()); !errors.Is(err, errx.ErrGeneration) {
		t.Fatalf("Generate() error = %v, want ErrGeneration", err)
	}
}

func TestBuildResponseChainWithoutKey(t *testing.T) {
	t.Parallel()

	runner, err := BuildResponseChain(context.Background(), Config{
		ResponseModel: model.ResponseModelConfig{Provider: model.ProviderOpenAI, Model: "gpt-4o-mini"},
	})
	if err != nil {
		t.Fatalf("BuildResponseChain() error = %v", err)
	}
	_, err = runner.Generate(context.Background(), turnRequest())
	if !errors.Is(err, errx.ErrGeneration) {
		t.Fatalf("Generate() error = %v, want ErrGeneration", err)
	}
}

func TestBuildResponseChainUnknownProvider(t *testing.T) {
	t.Parallel()

	_, err := BuildResponseChain(context.Background(), Config{
		ResponseModel: model.ResponseModelConfig{Provider: "mystery"},
		Keys:          model.ProviderKeys{OpenAIAPIKey: "sk-test"},
	})
	if err == nil {
		t.Fatalf("BuildResponseChain() error = nil, want unknown provider")
	}
}

package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/schema"

	"github.com/mkebiclioglu/agent-as-inbound-rep/internal/agent/catalog"
	"github.com/mkebiclioglu/agent-as-inbound-rep/internal/agent/directory"
	"github.com/mkebiclioglu/agent-as-inbound-rep/internal/agent/graph/conversations"
	"github.com/mkebiclioglu/agent-as-inbound-rep/internal/agent/model"
	"github.com/mkebiclioglu/agent-as-inbound-rep/internal/agent/repo"
	errx "github.com/mkebiclioglu/agent-as-inbound-rep/internal/core/error"
)

type fakeRunner struct {
	reply string
	err   error
	calls []model.TurnRequest
}

func (f *fakeRunner) Generate(ctx context.Context, in model.TurnRequest) (string, error) {
	f.calls = append(f.calls, in)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func newService(runner *fakeRunner) (*Service, *repo.MemoryConversationRepository) {
	store := repo.NewMemoryConversationRepository()
	composer := conversations.NewMessagesManager(
		directory.Default(),
		store,
		catalog.Default().Text(),
		model.ResponsePromptConfig{BusinessName: "Formlabs", BusinessType: "3D printer manufacturer"},
		model.ConversationConfig{HistoryWindow: model.DefaultHistoryWindow},
	)
	return NewService(composer, runner, store), store
}

func TestReplyGrowsHistoryByPairs(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{reply: "The Form 4 is built for dental work."}
	svc, _ := newService(runner)
	ctx := context.Background()

	first, err := svc.Reply(ctx, model.ChatInput{Message: "What printer fits dental work?", LeadID: "lead_001"})
	if err != nil {
		t.Fatalf("Reply() error = %v", err)
	}
	if first.ConversationLength != 2 {
		t.Fatalf("ConversationLength = %d, want 2", first.ConversationLength)
	}
	if first.AIResponse != runner.reply || first.CustomerMessage != "What printer fits dental work?" {
		t.Fatalf("Reply() = %+v", first)
	}

	second, err := svc.Reply(ctx, model.ChatInput{Message: "How much is it?", LeadID: "lead_001"})
	if err != nil {
		t.Fatalf("Reply() error = %v", err)
	}
	if second.ConversationLength != 4 {
		t.Fatalf("ConversationLength = %d, want 4", second.ConversationLength)
	}

	msgs := runner.calls[1].Messages
	if len(msgs) != 4 {
		t.Fatalf("second prompt len = %d, want 4", len(msgs))
	}
	if msgs[1].Role != schema.User || msgs[1].Content != "What printer fits dental work?" {
		t.Fatalf("second prompt[1] = %+v", msgs[1])
	}
	if msgs[2].Role != schema.Assistant || msgs[2].Content != runner.reply {
		t.Fatalf("second prompt[2] = %+v", msgs[2])
	}
	if msgs[3].Content != "How much is it?" {
		t.Fatalf("second prompt[3] = %+v", msgs[3])
	}

	history, err := svc.History(ctx, "lead_001")
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	for i, turn := range history {
		want := model.RoleCustomer
		if i%2 == 1 {
			want = model.RoleAgent
		}
		if turn.Role != want {
			t.Fatalf("history[%d].Role = %q, want %q", i, turn.Role, want)
		}
	}
}

func TestReplyGenerationFailureLeavesHistory(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{err: errx.Generation(errors.New("timeout"))}
	svc, store := newService(runner)
	ctx := context.Background()

	_, err := svc.Reply(ctx, model.ChatInput{Message: "hello", LeadID: "lead_001"})
	if !errors.Is(err, errx.ErrGeneration) {
		t.Fatalf("Reply() error = %v, want ErrGeneration", err)
	}
	if _, err := store.ReadAll(ctx, "lead_001"); !errors.Is(err, errx.ErrNotFound) {
		t.Fatalf("ReadAll() error = %v, want ErrNotFound", err)
	}
}

func TestReplyUnknownLead(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{reply: "hi"}
	svc, _ := newService(runner)

	_, err := svc.Reply(context.Background(), model.ChatInput{Message: "hello", LeadID: "lead_404"})
	if !errors.Is(err, errx.ErrNotFound) {
		t.Fatalf("Reply() error = %v, want ErrNotFound", err)
	}
	if len(runner.calls) != 0 {
		t.Fatalf("runner calls = %d, want 0", len(runner.calls))
	}
}

func TestReplyRejectsBlankInput(t *testing.T) {
	t.Parallel()

	svc, _ := newService(&fakeRunner{reply: "hi"})
	for _, in := range []model.ChatInput{
		{Message: "hello", LeadID: " "},
		{Message: "  ", LeadID: "lead_001"},
	} {
		if _, err := svc.Reply(context.Background(), in); !errors.Is(err, errx.ErrInvalidInput) {
			t.Fatalf("Reply(%+v) error = %v, want ErrInvalidInput", in, err)
		}
	}
}

func TestClearHistory(t *testing.T) {
	t.Parallel()

	svc, _ := newService(&fakeRunner{reply: "hi"})
	ctx := context.Background()

	if err := svc.ClearHistory(ctx, "lead_002"); !errors.Is(err, errx.ErrNotFound) {
		t.Fatalf("ClearHistory() error = %v, want ErrNotFound", err)
	}
	if _, err := svc.Reply(ctx, model.ChatInput{Message: "hello", LeadID: "lead_002"}); err != nil {
		t.Fatalf("Reply() error = %v", err)
	}
	if err := svc.ClearHistory(ctx, "lead_002"); err != nil {
		t.Fatalf("ClearHistory() error = %v", err)
	}
	if _, err := svc.History(ctx, "lead_002"); !errors.Is(err, errx.ErrNotFound) {
		t.Fatalf("History() error = %v, want ErrNotFound", err)
	}
}

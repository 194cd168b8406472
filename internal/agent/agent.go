package agent

import (
	"context"
	"strings"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	"github.com/cloudwego/eino/schema"

	"github.com/mkebiclioglu/agent-as-inbound-rep/internal/agent/graph"
	"github.com/mkebiclioglu/agent-as-inbound-rep/internal/agent/graph/observers"
	"github.com/mkebiclioglu/agent-as-inbound-rep/internal/agent/model"
	errx "github.com/mkebiclioglu/agent-as-inbound-rep/internal/core/error"
	logx "github.com/mkebiclioglu/agent-as-inbound-rep/pkg/logger"
)

// Composer builds the prompt sequence for one turn.
type Composer interface {
	Compose(ctx context.Context, leadID string, utterance string) ([]*schema.Message, error)
}

// Service runs a full chat turn: compose, generate, then persist the exchange.
type Service struct {
	composer Composer
	runner   graph.Runner
	store    model.DialogueStore
}

func NewService(composer Composer, runner graph.Runner, store model.DialogueStore) *Service {
	return &Service{composer: composer, runner: runner, store: store}
}

// Reply answers one customer utterance. History is only written after a reply was generated.
func (s *Service) Reply(ctx context.Context, in model.ChatInput) (model.ChatResult, error) {
	leadID := strings.TrimSpace(in.LeadID)
	if leadID == "" {
		return model.ChatResult{}, errx.Invalid("lead_id is required")
	}
	if strings.TrimSpace(in.Message) == "" {
		return model.ChatResult{}, errx.Invalid("message is required")
	}

	promptCtx := einocb.InitCallbacks(ctx, &einocb.RunInfo{
		Name:      "SalesPrompt",
		Component: components.ComponentOfPrompt,
	}, observers.NewPromptCallbacks())
	msgs, err := s.composer.Compose(promptCtx, leadID, in.Message)
	if err != nil {
		return model.ChatResult{}, err
	}

	reply, err := s.runner.Generate(ctx, model.TurnRequest{LeadID: leadID, Messages: msgs})
	if err != nil {
		return model.ChatResult{}, err
	}

	n, err := s.store.Append(ctx, leadID, model.CustomerTurn(in.Message), model.AgentTurn(reply))
	if err != nil {
		logx.Error().Err(err).Str("lead_id", leadID).Msg("failed to store exchange")
		return model.ChatResult{}, err
	}

	return model.ChatResult{
		LeadID:             leadID,
		CustomerMessage:    in.Message,
		AIResponse:         reply,
		ConversationLength: n,
	}, nil
}

// History returns the full stored history for a lead.
func (s *Service) History(ctx context.Context, leadID string) ([]model.Turn, error) {
	return s.store.ReadAll(ctx, leadID)
}

// ClearHistory drops a lead's history.
func (s *Service) ClearHistory(ctx context.Context, leadID string) error {
	if err := s.store.Clear(ctx, leadID); err != nil {
		return err
	}
	logx.Info().Str("lead_id", leadID).Msg("conversation history cleared")
	return nil
}

package conversations

import (
	"context"
	"strings"

	"github.com/mkebiclioglu/agent-as-inbound-rep/internal/agent/graph/prompts"
	"github.com/mkebiclioglu/agent-as-inbound-rep/internal/agent/model"

	"github.com/cloudwego/eino/schema"
)

// MessagesManager assembles the prompt sequence for a turn.
type MessagesManager struct {
	leads            model.LeadDirectory
	conversationRepo model.DialogueStore
	promptConfig     model.ResponsePromptConfig
	productText      string
	historyWindow    int
}

func NewMessagesManager(
	leads model.LeadDirectory,
	conversationRepo model.DialogueStore,
	productText string,
	promptConfig model.ResponsePromptConfig,
	config model.ConversationConfig,
) *MessagesManager {
	window := config.HistoryWindow
	if window <= 0 {
		window = model.DefaultHistoryWindow
	}
	return &MessagesManager{
		leads:            leads,
		conversationRepo: conversationRepo,
		promptConfig:     promptConfig,
		productText:      productText,
		historyWindow:    window,
	}
}

// Compose returns system prompt, the recent history window and the new utterance, in that order.
// An unknown lead yields errx.ErrNotFound and nothing is read from the store.
func (cm *MessagesManager) Compose(ctx context.Context, leadID string, utterance string) ([]*schema.Message, error) {
	lead, err := cm.leads.Resolve(leadID)
	if err != nil {
		return nil, err
	}

	system, err := prompts.RenderSalesSystem(ctx, cm.promptConfig, lead, cm.productText)
	if err != nil {
		return nil, err
	}

	history, err := cm.conversationRepo.Read(ctx, lead.ID, cm.historyWindow)
	if err != nil {
		return nil, err
	}

	messages := make([]*schema.Message, 0, len(history)+2)
	messages = append(messages, schema.SystemMessage(system))
	for _, turn := range pairedTurns(trimTail(history, cm.historyWindow)) {
		messages = append(messages, turn.Message())
	}
	messages = append(messages, schema.UserMessage(utterance))

	return messages, nil
}

// trimTail keeps the last maxTurns turns. Stores already bound their reads; this guards custom ones.
func trimTail(turns []model.Turn, maxTurns int) []model.Turn {
	if len(turns) <= maxTurns {
		return turns
	}
	return turns[len(turns)-maxTurns:]
}

// pairedTurns keeps whole customer/agent exchanges so the prompt alternates.
// An exchange with a blank side is dropped as a unit, as is a turn without its partner.
func pairedTurns(turns []model.Turn) []model.Turn {
	out := make([]model.Turn, 0, len(turns))
	for i := 0; i < len(turns); i++ {
		if turns[i].Role != model.RoleCustomer || i+1 >= len(turns) || turns[i+1].Role != model.RoleAgent {
			continue
		}
		customer, agent := turns[i], turns[i+1]
		i++
		if strings.TrimSpace(customer.Content) == "" || strings.TrimSpace(agent.Content) == "" {
			continue
		}
		out = append(out, customer, agent)
	}
	return out
}

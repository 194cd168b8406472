package model

import (
	"context"

	"github.com/cloudwego/eino/schema"
)

// DefaultHistoryWindow is how many stored turns feed each prompt.
const DefaultHistoryWindow = 10

// Role tags a stored turn.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAgent    Role = "agent"
)

// Turn is a single immutable utterance in a dialogue.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

func CustomerTurn(content string) Turn {
	return Turn{Role: RoleCustomer, Content: content}
}

func AgentTurn(content string) Turn {
	return Turn{Role: RoleAgent, Content: content}
}

// Message translates the turn into the model's role vocabulary.
func (t Turn) Message() *schema.Message {
	if t.Role == RoleAgent {
		return schema.AssistantMessage(t.Content, nil)
	}
	return schema.UserMessage(t.Content)
}

// DialogueStore owns every lead's turn history.
//
// Histories only grow through Append, which adds one customer turn and its agent
// reply as a unit; concurrent appends for the same lead are serialized, appends
// for different leads are not.
type DialogueStore interface {
	// Append adds the exchange and returns the history length afterwards.
	Append(ctx context.Context, leadID string, customer, agent Turn) (int, error)

	// Read returns up to the last limit turns, oldest first. Unknown leads yield an empty slice.
	Read(ctx context.Context, leadID string, limit int) ([]Turn, error)

	// ReadAll returns the full history or errx.ErrNotFound when there is none.
	ReadAll(ctx context.Context, leadID string) ([]Turn, error)

	// Clear drops the history or reports errx.ErrNotFound when there was nothing to drop.
	Clear(ctx context.Context, leadID string) error
}

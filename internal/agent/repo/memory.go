package repo

import (
	"context"
	"sync"

	"github.com/mkebiclioglu/agent-as-inbound-rep/internal/agent/model"
	errx "github.com/mkebiclioglu/agent-as-inbound-rep/internal/core/error"
)

// HistoryNotFoundMessage is returned when a lead has no stored turns.
const HistoryNotFoundMessage = "No conversation history found"

type memoryHistory struct {
	mu    sync.Mutex
	turns []model.Turn
}

// MemoryConversationRepository keeps histories in process memory.
// Each lead has its own lock; the map lock is held only to find or create an entry.
type MemoryConversationRepository struct {
	mu        sync.Mutex
	histories map[string]*memoryHistory
}

func NewMemoryConversationRepository() *MemoryConversationRepository {
	return &MemoryConversationRepository{histories: make(map[string]*memoryHistory)}
}

func (r *MemoryConversationRepository) history(leadID string, create bool) *memoryHistory {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.histories[leadID]
	if !ok && create {
		h = &memoryHistory{}
		r.histories[leadID] = h
	}
	return h
}

func (r *MemoryConversationRepository) Append(ctx context.Context, leadID string, customer, agent model.Turn) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	h := r.history(leadID, true)
	h.mu.Lock()
	defer h.mu.Unlock()
	h.turns = append(h.turns, customer, agent)
	return len(h.turns), nil
}

func (r *MemoryConversationRepository) Read(ctx context.Context, leadID string, limit int) ([]model.Turn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h := r.history(leadID, false)
	if h == nil || limit <= 0 {
		return []model.Turn{}, nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	start := len(h.turns) - limit
	if start < 0 {
		start = 0
	}
	out := make([]model.Turn, len(h.turns)-start)
	copy(out, h.turns[start:])
	return out, nil
}

func (r *MemoryConversationRepository) ReadAll(ctx context.Context, leadID string) ([]model.Turn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h := r.history(leadID, false)
	if h == nil {
		return nil, errx.NotFound(HistoryNotFoundMessage)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.turns) == 0 {
		return nil, errx.NotFound(HistoryNotFoundMessage)
	}
	out := make([]model.Turn, len(h.turns))
	copy(out, h.turns)
	return out, nil
}

// Clear removes the entry. An append racing a clear may land in the detached
// history and be dropped with it.
func (r *MemoryConversationRepository) Clear(ctx context.Context, leadID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	h, ok := r.histories[leadID]
	delete(r.histories, leadID)
	r.mu.Unlock()
	if !ok {
		return errx.NotFound(HistoryNotFoundMessage)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.turns) == 0 {
		return errx.NotFound(HistoryNotFoundMessage)
	}
	return nil
}

var _ model.DialogueStore = (*MemoryConversationRepository)(nil)

package model

// Lead is a customer record. Records are seeded at start-up and never mutated.
type Lead struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
	Inquiry string `json:"inquiry"`
}

// Product is one catalog entry quoted to customers.
type Product struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Price       int    `json:"price"`
	Description string `json:"description"`
}

// ChatInput is one customer utterance addressed to the agent.
type ChatInput struct {
	Message string `json:"message" binding:"required"`
	LeadID  string `json:"lead_id" binding:"required"`
}

// ChatResult reports a completed exchange.
type ChatResult struct {
	LeadID             string `json:"lead_id"`
	CustomerMessage    string `json:"customer_message"`
	AIResponse         string `json:"ai_response"`
	ConversationLength int    `json:"conversation_length"`
}

// LeadDirectory resolves lead ids; unknown ids report errx.ErrNotFound.
type LeadDirectory interface {
	Resolve(id string) (Lead, error)
}

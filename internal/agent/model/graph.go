package model

import "github.com/cloudwego/eino/schema"

// TurnRequest is the input of the response chain: a composed prompt for one lead.
type TurnRequest struct {
	LeadID   string
	Messages []*schema.Message
}

// TurnState is the chain-local state of a single generation.
type TurnState struct {
	LeadID       string
	TotalCostUSD float64
}

package nodes

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/mkebiclioglu/agent-as-inbound-rep/internal/agent/graph/parsers"
	"github.com/mkebiclioglu/agent-as-inbound-rep/internal/agent/model"
	logx "github.com/mkebiclioglu/agent-as-inbound-rep/pkg/logger"
)

const (
	NodeInputConverter    = "input_converter"
	NodeResponseChatModel = "response_chat_model"
	NodeReplyParser       = "reply_parser"
)

// NewInputConverterPreHandler records the lead on the chain state.
func NewInputConverterPreHandler() func(context.Context, model.TurnRequest, *model.TurnState) (model.TurnRequest, error) {
	return func(ctx context.Context, in model.TurnRequest, s *model.TurnState) (model.TurnRequest, error) {
		s.LeadID = in.LeadID
		s.TotalCostUSD = 0
		return in, nil
	}
}

// NewInputConverterNode unwraps the composed messages for the chat model.
func NewInputConverterNode() *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, in model.TurnRequest) ([]*schema.Message, error) {
		if len(in.Messages) == 0 {
			return nil, fmt.Errorf("empty prompt for lead %q", in.LeadID)
		}
		return in.Messages, nil
	})
}

// NewResponseChatModelPostHandler attaches token usage and cost to the reply.
func NewResponseChatModelPostHandler(modelName string) func(context.Context, *schema.Message, *model.TurnState) (*schema.Message, error) {
	return func(ctx context.Context, out *schema.Message, state *model.TurnState) (*schema.Message, error) {
		if out == nil || out.ResponseMeta == nil || out.ResponseMeta.Usage == nil {
			return out, nil
		}
		usage := out.ResponseMeta.Usage
		inC, outC, totalC := model.ComputeCost(usage, model.ResolvePricing(modelName))
		if out.Extra == nil {
			out.Extra = map[string]any{}
		}
		out.Extra["usage_cost"] = map[string]any{
			"currency":          "USD",
			"model":             modelName,
			"prompt_tokens":     usage.PromptTokens,
			"completion_tokens": usage.CompletionTokens,
			"total_tokens":      usage.TotalTokens,
			"input_cost":        inC,
			"output_cost":       outC,
			"total_cost":        totalC,
		}
		logx.Debug().
			Str("lead_id", state.LeadID).
			Str("node", NodeResponseChatModel).
			Str("model", modelName).
			Int("prompt_tokens", usage.PromptTokens).
			Int("completion_tokens", usage.CompletionTokens).
			Int("total_tokens", usage.TotalTokens).
			Float64("input_cost_usd", inC).
			Float64("output_cost_usd", outC).
			Float64("total_cost_usd", totalC).
			Msg("LLM usage")

		state.TotalCostUSD += totalC
		out.Extra["usage_cost_total_usd"] = state.TotalCostUSD
		return out, nil
	}
}

// NewReplyParserNode turns the raw completion into speakable text.
func NewReplyParserNode() *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, resp *schema.Message) (*schema.Message, error) {
		if resp == nil {
			return nil, fmt.Errorf("model returned no message")
		}
		text, err := parsers.ParseReply(resp.Content)
		if err != nil {
			logx.Error().Err(err).Msg("Error parsing model reply")
			return nil, err
		}
		out := *resp
		out.Content = text
		return &out, nil
	})
}

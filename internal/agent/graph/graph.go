package graph

import (
	"context"
	"fmt"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/mkebiclioglu/agent-as-inbound-rep/internal/agent/graph/nodes"
	"github.com/mkebiclioglu/agent-as-inbound-rep/internal/agent/graph/observers"
	"github.com/mkebiclioglu/agent-as-inbound-rep/internal/agent/model"
	errx "github.com/mkebiclioglu/agent-as-inbound-rep/internal/core/error"
	logx "github.com/mkebiclioglu/agent-as-inbound-rep/pkg/logger"
)

// Runner produces one agent reply for a composed prompt.
type Runner interface {
	Generate(ctx context.Context, in model.TurnRequest) (string, error)
}

// Config holds everything needed to build the response chain end-to-end.
type Config struct {
	ResponseModel model.ResponseModelConfig
	Keys          model.ProviderKeys
}

type chainRunner struct {
	runnable compose.Runnable[model.TurnRequest, *schema.Message]
}

// Generate runs the chain. Every failure, including an empty reply, surfaces as errx.ErrGeneration.
func (r *chainRunner) Generate(ctx context.Context, in model.TurnRequest) (string, error) {
	out, err := r.runnable.Invoke(ctx, in, compose.WithCallbacks(observers.NewAllCallbacks()))
	if err != nil {
		logx.Error().Err(err).Str("lead_id", in.LeadID).Msg("response generation failed")
		return "", errx.Generation(err)
	}
	if out == nil || out.Content == "" {
		return "", errx.Generation(fmt.Errorf("empty reply"))
	}
	if total, ok := out.Extra["usage_cost_total_usd"].(float64); ok {
		logx.Info().Str("lead_id", in.LeadID).Float64("total_cost_usd", total).Msg("response generated")
	}
	return out.Content, nil
}

// BuildResponseChain creates the configured chat model and compiles the chain around it.
func BuildResponseChain(ctx context.Context, cfg Config) (Runner, error) {
	cm, err := nodes.NewResponseChatModel(ctx, cfg.ResponseModel, cfg.Keys)
	if err != nil {
		return nil, err
	}
	return NewRunner(ctx, cm, cfg.ResponseModel.Model)
}

// NewRunner compiles input conversion, the chat model and reply parsing into one runnable.
func NewRunner(ctx context.Context, cm einomodel.BaseChatModel, modelName string) (Runner, error) {
	if cm == nil {
		return nil, fmt.Errorf("chat model is nil")
	}

	chain := compose.NewChain[model.TurnRequest, *schema.Message](
		compose.WithGenLocalState(func(ctx context.Context) *model.TurnState {
			return &model.TurnState{}
		}),
	)
	chain.
		AppendLambda(nodes.NewInputConverterNode(),
			compose.WithNodeName(nodes.NodeInputConverter),
			compose.WithStatePreHandler(nodes.NewInputConverterPreHandler()),
		).
		AppendChatModel(cm,
			compose.WithNodeName(nodes.NodeResponseChatModel),
			compose.WithStatePostHandler(nodes.NewResponseChatModelPostHandler(modelName)),
		).
		AppendLambda(nodes.NewReplyParserNode(),
			compose.WithNodeName(nodes.NodeReplyParser),
		)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		logx.Error().Err(err).Msg("Error compiling response chain")
		return nil, fmt.Errorf("error compiling response chain: %w", err)
	}

	logx.Debug().Str("model", modelName).Msg("Response chain compiled successfully")
	return &chainRunner{runnable: runnable}, nil
}

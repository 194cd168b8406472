package prompts

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/mkebiclioglu/agent-as-inbound-rep/internal/agent/model"
)

//go:embed template/sales_prompt.txt
var coreSystemPrompt string

// RenderSalesSystem renders the sales system prompt for one lead and triggers prompt callbacks.
func RenderSalesSystem(ctx context.Context, config model.ResponsePromptConfig, lead model.Lead, products string) (string, error) {
	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(coreSystemPrompt),
	)
	vars := map[string]any{
		"BusinessType": config.BusinessType,
		"BusinessName": config.BusinessName,
		"CustomerName": lead.Name,
		"Company":      lead.Company,
		"Inquiry":      lead.Inquiry,
		"Products":     products,
	}
	msgs, err := tpl.Format(ctx, vars)
	if err != nil {
		return "", fmt.Errorf("sales prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("sales prompt render: empty result")
	}
	return msgs[0].Content, nil
}

package mcptools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/deliberate/deliberate/internal/catalog"
)

// AppraiseTool handles the deliberation_appraise MCP tool.
type AppraiseTool struct {
	svc *catalog.Service
}

// NewAppraiseTool creates an AppraiseTool over the given catalog.
func NewAppraiseTool(svc *catalog.Service) *AppraiseTool {
	return &AppraiseTool{svc: svc}
}

// Definition returns the MCP tool definition for deliberation_appraise.
func (t *AppraiseTool) Definition() mcp.Tool {
	p := t.svc.Policy()
	return mcp.NewTool("deliberation_appraise",
		mcp.WithDescription(
			"Record how well a contender does on a criterion and return the updated leader.",
		),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Deliberation ID"),
		),
		mcp.WithString("contender",
			mcp.Required(),
			mcp.Description("Contender ID or name"),
		),
		mcp.WithString("criterion",
			mcp.Required(),
			mcp.Description("Criterion ID or name"),
		),
		mcp.WithNumber("score",
			mcp.Required(),
			mcp.Description(fmt.Sprintf("Score from %g to %g", p.MinAppraisal, p.MaxAppraisal)),
		),
	)
}

// Handle processes the deliberation_appraise tool call.
func (t *AppraiseTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	contenderRef := req.GetString("contender", "")
	criterionRef := req.GetString("criterion", "")
	score, hasScore := floatArg(req, "score")

	if id == "" || contenderRef == "" || criterionRef == "" {
		return mcp.NewToolResultError("'id', 'contender' and 'criterion' are required"), nil
	}
	if !hasScore {
		return mcp.NewToolResultError("'score' is required"), nil
	}

	d, err := t.svc.Get(id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load deliberation: %v", err)), nil
	}
	c, ok := d.LookupContender(contenderRef)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("no contender %q in %q", contenderRef, d.Name)), nil
	}
	k, ok := d.LookupCriterion(criterionRef)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("no criterion %q in %q", criterionRef, d.Name)), nil
	}

	updated, err := t.svc.Appraise(ctx, id, c.ID, k.ID, score)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to record appraisal: %v", err)), nil
	}

	msg := fmt.Sprintf("Scored %s %g on %s.", c.Name, score, k.Name)
	if leader, ok := updated.Sovereign(); ok {
		v, _ := updated.Valuation(leader.ID)
		msg += fmt.Sprintf(" Leader: %s (%.0f/100).", leader.Name, v)
	}
	return mcp.NewToolResultText(msg), nil
}

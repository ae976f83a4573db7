package mcptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/deliberate/deliberate/internal/catalog"
)

// ListTool handles the deliberation_list MCP tool.
type ListTool struct {
	svc *catalog.Service
}

// NewListTool creates a ListTool over the given catalog.
func NewListTool(svc *catalog.Service) *ListTool {
	return &ListTool{svc: svc}
}

// Definition returns the MCP tool definition for deliberation_list.
func (t *ListTool) Definition() mcp.Tool {
	return mcp.NewTool("deliberation_list",
		mcp.WithDescription(
			"List saved deliberations, most recently modified first, with their current leader.",
		),
		mcp.WithString("query",
			mcp.Description("Only list deliberations whose name contains this text"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results (default: 20)"),
		),
	)
}

// Handle processes the deliberation_list tool call.
func (t *ListTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	list := t.svc.Search(req.GetString("query", ""))
	if len(list) == 0 {
		return mcp.NewToolResultText("No deliberations found."), nil
	}

	limit := intArg(req, "limit", 20)
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Deliberations (%d)\n\n", len(list)))
	for _, d := range list {
		leader := "no leader"
		if c, ok := d.Sovereign(); ok {
			v, _ := d.Valuation(c.ID)
			leader = fmt.Sprintf("%s %.0f/100", c.Name, v)
		}
		sb.WriteString(fmt.Sprintf("- **%s** (`%s`) %d contenders, %d criteria, %s\n",
			d.Name, d.ID, len(d.Contenders), len(d.Criteria), leader))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

package mcptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/deliberate/deliberate/internal/catalog"
)

// StatsTool handles the deliberation_stats MCP tool.
type StatsTool struct {
	svc *catalog.Service
}

// NewStatsTool creates a StatsTool over the given catalog.
func NewStatsTool(svc *catalog.Service) *StatsTool {
	return &StatsTool{svc: svc}
}

// Definition returns the MCP tool definition for deliberation_stats.
func (t *StatsTool) Definition() mcp.Tool {
	return mcp.NewTool("deliberation_stats",
		mcp.WithDescription(
			"Show archive statistics: total and recent deliberations, how many have a winner, and the average winning score.",
		),
	)
}

// Handle processes the deliberation_stats tool call.
func (t *StatsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats := t.svc.Stats()
	window := t.svc.Engine().Options().RecentWindow

	var sb strings.Builder
	sb.WriteString("## Deliberation Statistics\n\n")
	sb.WriteString(fmt.Sprintf("- **Total**: %d\n", stats.Total))
	sb.WriteString(fmt.Sprintf("- **Recent** (last %.0f days): %d\n", window.Hours()/24, stats.Recent))
	sb.WriteString(fmt.Sprintf("- **Decided**: %d\n", stats.Decided))
	sb.WriteString(fmt.Sprintf("- **Average winning score**: %.1f\n", stats.AverageWinningScore))
	return mcp.NewToolResultText(sb.String()), nil
}

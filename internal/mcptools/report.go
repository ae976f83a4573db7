package mcptools

import (
	"bytes"
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/deliberate/deliberate/internal/catalog"
	"github.com/deliberate/deliberate/pkg/surface"
)

// ReportTool handles the deliberation_report MCP tool.
type ReportTool struct {
	svc *catalog.Service
}

// NewReportTool creates a ReportTool over the given catalog.
func NewReportTool(svc *catalog.Service) *ReportTool {
	return &ReportTool{svc: svc}
}

// Definition returns the MCP tool definition for deliberation_report.
func (t *ReportTool) Definition() mcp.Tool {
	return mcp.NewTool("deliberation_report",
		mcp.WithDescription(
			"Score a deliberation and explain the result: rankings, recommended contender, margin and the criteria that carried it.",
		),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Deliberation ID"),
		),
		mcp.WithString("format",
			mcp.Description("markdown (default), json or share"),
		),
	)
}

// Handle processes the deliberation_report tool call.
func (t *ReportTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("'id' is required"), nil
	}

	report, err := t.svc.Report(id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load deliberation: %v", err)), nil
	}

	renderer, err := surface.ForFormat(req.GetString("format", "markdown"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var buf bytes.Buffer
	if err := renderer.Render(&buf, report); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to render report: %v", err)), nil
	}
	return mcp.NewToolResultText(buf.String()), nil
}

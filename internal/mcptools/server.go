package mcptools

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/deliberate/deliberate/internal/catalog"
)

const instructions = `Deliberate helps people choose between options.
A deliberation has contenders (the options) and weighted criteria. Each
contender is scored per criterion; the weighted sum on a 0-100 scale ranks
them. Use deliberation_list to find a deliberation, deliberation_report to
explain who leads and why, and deliberation_appraise to record scores.`

// NewServer builds an MCP server exposing the catalog tools.
func NewServer(svc *catalog.Service, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"deliberate",
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)

	list := NewListTool(svc)
	s.AddTool(list.Definition(), list.Handle)

	report := NewReportTool(svc)
	s.AddTool(report.Definition(), report.Handle)

	stats := NewStatsTool(svc)
	s.AddTool(stats.Definition(), stats.Handle)

	appraise := NewAppraiseTool(svc)
	s.AddTool(appraise.Definition(), appraise.Handle)

	return s
}

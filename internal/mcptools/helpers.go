// Package mcptools exposes the deliberation catalog as MCP tools.
//
// Each tool is a struct holding the catalog service, with Definition()
// returning the mcp.Tool schema and Handle() serving calls. Failures are
// reported as tool errors so the client can show them to the model.
package mcptools

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// floatArg extracts a number argument. ok is false when the key is missing
// or not a number (JSON numbers are float64).
func floatArg(req mcp.CallToolRequest, key string) (float64, bool) {
	v, ok := req.GetArguments()[key].(float64)
	return v, ok
}

// intArg extracts an integer argument, returning defaultVal if missing.
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := floatArg(req, key)
	if !ok {
		return defaultVal
	}
	return int(v)
}

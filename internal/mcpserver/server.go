// Package mcpserver exposes the template engine to MCP agents: validating
// and running a template YAML document and exporting a generation's output
// schema, as three tools (grounded on the teacher's pkg/ecosystem/mcp server).
package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/lingominer/flashcard-engine/internal/action"
)

// NewServer creates an MCP server exposing the template engine's tools.
// methods is the action registry shared with every other entrypoint
// (admin CLI, TUI, REPL) so tool behavior is identical everywhere.
func NewServer(version string, methods *action.Registry) *server.MCPServer {
	s := server.NewMCPServer(
		"flashcard-engine",
		version,
		server.WithToolCapabilities(true),
	)

	h := &handlers{methods: methods}

	s.AddTool(
		mcp.NewTool("flashcard/validate",
			mcp.WithDescription("Validate a flashcard template YAML document against the metamodel invariants"),
			mcp.WithString("path", mcp.Required(), mcp.Description("Path to the template YAML file")),
		),
		h.handleValidate,
	)

	s.AddTool(
		mcp.NewTool("flashcard/run",
			mcp.WithDescription("Run a flashcard template against the registry's backends and return the generated fields"),
			mcp.WithString("path", mcp.Required(), mcp.Description("Path to the template YAML file")),
			mcp.WithObject("seeds", mcp.Description("Seed field values, e.g. {\"paragraph\": \"...\"}")),
			mcp.WithNumber("timeout_seconds", mcp.Description("Run-wide timeout in seconds (0 = unbounded)")),
		),
		h.handleRun,
	)

	s.AddTool(
		mcp.NewTool("flashcard/schema",
			mcp.WithDescription("Export the JSON Schema a completion-method generation's prompt will be rendered with"),
			mcp.WithString("path", mcp.Required(), mcp.Description("Path to the template YAML file")),
			mcp.WithString("generation", mcp.Required(), mcp.Description("Name of the completion generation")),
		),
		h.handleSchema,
	)

	return s
}

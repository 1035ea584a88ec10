// Package main provides the flashcard-mcp binary — an MCP server exposing
// the template engine's validate/run/schema tools to AI agents.
package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/lingominer/flashcard-engine/internal/action"
	"github.com/lingominer/flashcard-engine/internal/backend"
	"github.com/lingominer/flashcard-engine/internal/mcpserver"
)

var version = "dev"

func main() {
	methods := action.NewBuiltinRegistry(action.BuiltinBackends{
		Completion: &backend.MemoryCompletion{},
		Speech:     backend.MemorySpeech{},
		Image:      backend.MemoryImage{},
		Blobs:      backend.NewMemoryBlobStore(),
		Voice:      "default",
	})

	s := mcpserver.NewServer(version, methods)
	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

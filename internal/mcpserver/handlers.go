package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/lingominer/flashcard-engine/internal/action"
	"github.com/lingominer/flashcard-engine/internal/flow"
	"github.com/lingominer/flashcard-engine/internal/promptschema"
	"github.com/lingominer/flashcard-engine/internal/templateio"
)

type handlers struct {
	methods *action.Registry
}

func (h *handlers) handleValidate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	path, _ := args["path"].(string)
	if path == "" {
		return errorResult("path argument is required"), nil
	}

	doc, err := templateio.LoadFile(path)
	if err != nil {
		return errorResult(err.Error()), nil
	}
	tmpl, err := templateio.Import(doc, h.methods)
	if err != nil {
		return errorResult(err.Error()), nil
	}
	return textResult(fmt.Sprintf("✓ %s is valid (%d fields, %d generations)", tmpl.Name, len(tmpl.Fields()), len(tmpl.Generations()))), nil
}

func (h *handlers) handleRun(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	path, _ := args["path"].(string)
	if path == "" {
		return errorResult("path argument is required"), nil
	}

	doc, err := templateio.LoadFile(path)
	if err != nil {
		return errorResult(err.Error()), nil
	}
	tmpl, err := templateio.Import(doc, h.methods)
	if err != nil {
		return errorResult(err.Error()), nil
	}

	seeds := make(map[string]string)
	if rawSeeds, ok := args["seeds"].(map[string]any); ok {
		for k, v := range rawSeeds {
			seeds[k] = fmt.Sprint(v)
		}
	}

	var timeout time.Duration
	if secs, ok := args["timeout_seconds"].(float64); ok && secs > 0 {
		timeout = time.Duration(secs * float64(time.Second))
	}

	exec := flow.New(h.methods)
	result, err := exec.Run(ctx, tmpl, seeds, flow.RunConfig{Timeout: timeout, RunID: uuid.NewString()})
	if err != nil {
		return errorResult(err.Error()), nil
	}

	response := make(map[string]any, len(result))
	for name, fv := range result {
		response[name] = map[string]string{"kind": string(fv.Kind), "value": fv.Value}
	}
	data, _ := json.MarshalIndent(response, "", "  ")
	return textResult(string(data)), nil
}

func (h *handlers) handleSchema(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	path, _ := args["path"].(string)
	genName, _ := args["generation"].(string)
	if path == "" || genName == "" {
		return errorResult("path and generation arguments are required"), nil
	}

	doc, err := templateio.LoadFile(path)
	if err != nil {
		return errorResult(err.Error()), nil
	}
	tmpl, err := templateio.Import(doc, h.methods)
	if err != nil {
		return errorResult(err.Error()), nil
	}
	gen, ok := tmpl.Generation(genName)
	if !ok {
		return errorResult(fmt.Sprintf("no generation named %q", genName)), nil
	}

	outputs := promptschema.FromModelOutputs(tmpl, gen.Outputs)
	schemaJSON, err := promptschema.Marshal(promptschema.Build(outputs))
	if err != nil {
		return errorResult(err.Error()), nil
	}
	return textResult(schemaJSON), nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{Content: []mcp.Content{mcp.NewTextContent(text)}}
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{Content: []mcp.Content{mcp.NewTextContent(msg)}, IsError: true}
}

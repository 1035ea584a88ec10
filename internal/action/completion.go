package action

import (
	"context"
	"encoding/json"

	"github.com/lingominer/flashcard-engine/internal/backend"
	"github.com/lingominer/flashcard-engine/internal/flow"
	"github.com/lingominer/flashcard-engine/internal/flowerr"
	"github.com/lingominer/flashcard-engine/internal/model"
	"github.com/lingominer/flashcard-engine/internal/prompt"
	"github.com/lingominer/flashcard-engine/internal/promptschema"
)

// CompletionHandler implements the built-in "completion" method: render a
// prompt with a JSON-schema hint, call the LLM in JSON mode, validate and
// extract one value per declared output.
type CompletionHandler struct {
	backend backend.Completion
}

// NewCompletionHandler wraps a Completion backend as a Handler.
func NewCompletionHandler(b backend.Completion) *CompletionHandler {
	return &CompletionHandler{backend: b}
}

func (h *CompletionHandler) PromptRequired() bool      { return true }
func (h *CompletionHandler) OutputKinds() []model.Kind { return []model.Kind{model.KindText} }
func (h *CompletionHandler) ExactlyOneOutput() bool    { return false }

func (h *CompletionHandler) Call(ctx context.Context, gen *model.Generation, inputs map[string]flow.FieldValue) (map[string]flow.FieldValue, error) {
	outputs := outputFieldsOf(gen)

	promptText, err := prompt.RenderCompletion(gen.Prompt, inputStrings(inputs), outputs)
	if err != nil {
		return nil, err
	}

	respJSON, err := h.backend.Call(ctx, promptText)
	if err != nil {
		return nil, flowerr.NewBackend("completion", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(respJSON), &decoded); err != nil {
		return nil, flowerr.NewParse(err, "completion response is not a JSON object")
	}

	if err := promptschema.Validate(outputs, decoded); err != nil {
		return nil, flowerr.NewParse(err, "completion response missing required output key(s)")
	}

	result := make(map[string]flow.FieldValue, len(gen.Outputs))
	for _, name := range gen.Outputs {
		raw, ok := decoded[name]
		if !ok {
			return nil, flowerr.NewParse(nil, "completion response missing output %q", name)
		}
		result[name] = flow.FieldValue{Kind: model.KindText, Value: stringifyJSONValue(raw)}
	}
	return result, nil
}

func outputFieldsOf(gen *model.Generation) []promptschema.OutputField {
	out := make([]promptschema.OutputField, len(gen.Outputs))
	for i, name := range gen.Outputs {
		out[i] = promptschema.OutputField{Name: name, Description: gen.OutputDescriptions[name]}
	}
	return out
}

// stringifyJSONValue renders a decoded JSON value as the text.Kind's string
// form: a JSON string decodes to its literal content; any other JSON type
// (number, bool, nested object) is re-marshalled. Call's schema check
// types every output as a string, so only string values reach it there.
func stringifyJSONValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}

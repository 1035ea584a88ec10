// Package action implements the Action Registry and the
// built-in method handlers: completion, toSpeech, toImage.
package action

import (
	"context"
	"sync"

	"github.com/lingominer/flashcard-engine/internal/flow"
	"github.com/lingominer/flashcard-engine/internal/flowerr"
	"github.com/lingominer/flashcard-engine/internal/model"
)

// Handler is one registered method's implementation: a declared
// prompt/output-kind signature plus the call itself.
type Handler interface {
	PromptRequired() bool
	OutputKinds() []model.Kind
	// ExactlyOneOutput reports whether the method produces exactly one
	// output field (toSpeech, toImage) rather than any number of
	// matching-kind outputs (completion).
	ExactlyOneOutput() bool
	Call(ctx context.Context, gen *model.Generation, inputs map[string]flow.FieldValue) (map[string]flow.FieldValue, error)
}

// Registry is the process-wide method-name-to-handler table.
// Mutable only at startup via Register; read-only thereafter, and safe for
// concurrent reads from many in-flight runs.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register binds a method name to a handler. Call during startup only.
func (r *Registry) Register(method string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[method] = h
}

// Lookup implements model.MethodCatalog, consulted by the template editor
// when validating add_generation/update_generation.
func (r *Registry) Lookup(method string) (promptRequired bool, outputKinds []model.Kind, exactlyOneOutput bool, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[method]
	if !ok {
		return false, nil, false, false
	}
	return h.PromptRequired(), h.OutputKinds(), h.ExactlyOneOutput(), true
}

// Invoke implements flow.ActionInvoker, dispatching a generation's method
// to its registered handler.
func (r *Registry) Invoke(ctx context.Context, gen *model.Generation, inputs map[string]flow.FieldValue) (map[string]flow.FieldValue, error) {
	r.mu.RLock()
	h, ok := r.handlers[gen.Method]
	r.mu.RUnlock()
	if !ok {
		return nil, flowerr.NewValidation(gen.Method, "unregistered method %q", gen.Method)
	}
	return h.Call(ctx, gen, inputs)
}

// inputStrings collapses a FieldValue input map to plain string values for
// prompt substitution.
func inputStrings(inputs map[string]flow.FieldValue) map[string]string {
	out := make(map[string]string, len(inputs))
	for k, v := range inputs {
		out[k] = v.Value
	}
	return out
}

package model

import (
	"github.com/google/uuid"
)

// Generation is one node in a template's DAG: a named step bound to a
// method, an optional rendered-prompt template, an ordered list of input
// field references, and the fields it produces.
type Generation struct {
	ID      string
	Name    string
	Method  string
	Prompt  string   // required for "completion" and any prompt-consuming method
	Inputs  []string // ordered field names, same template
	Outputs []string // field names this generation produces (source == this generation)

	// Denormalized output metadata, populated alongside Outputs so action
	// handlers can build a prompt's JSON-schema hint without needing a
	// back-reference to the owning Template's field registry.
	OutputKinds        map[string]Kind
	OutputDescriptions map[string]string
}

func newGeneration(name, method, prompt string, inputs []string) *Generation {
	return &Generation{
		ID:                 uuid.NewString(),
		Name:               name,
		Method:             method,
		Prompt:             prompt,
		Inputs:             append([]string(nil), inputs...),
		OutputKinds:        make(map[string]Kind),
		OutputDescriptions: make(map[string]string),
	}
}

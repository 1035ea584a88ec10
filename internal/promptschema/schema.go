// Package promptschema builds the JSON Schema describing a completion
// generation's declared outputs using invopop/jsonschema's Schema type, and
// compiles/validates instances against it with santhosh-tekuri/jsonschema.
package promptschema

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	sjsonschema "github.com/santhosh-tekuri/jsonschema/v6"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/lingominer/flashcard-engine/internal/model"
)

// OutputField is the minimal shape promptschema needs from a generation's
// declared output (decoupled from model.Field to keep this package
// import-light).
type OutputField struct {
	Name        string
	Description string
}

// Build produces a JSON Schema document describing a JSON object with one
// required string property per output field.
func Build(outputs []OutputField) *jsonschema.Schema {
	props := orderedmap.New[string, *jsonschema.Schema]()
	required := make([]string, 0, len(outputs))
	for _, o := range outputs {
		props.Set(o.Name, &jsonschema.Schema{
			Type:        "string",
			Description: o.Description,
		})
		required = append(required, o.Name)
	}
	return &jsonschema.Schema{
		Type:       "object",
		Properties: props,
		Required:   required,
	}
}

// Marshal renders the schema as indented JSON for embedding in a rendered
// prompt.
func Marshal(s *jsonschema.Schema) (string, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal output schema: %w", err)
	}
	return string(data), nil
}

// Compile compiles a Build()-produced schema for instance validation via
// santhosh-tekuri/jsonschema/v6.
func Compile(s *jsonschema.Schema) (*sjsonschema.Schema, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal schema for compile: %w", err)
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal schema for compile: %w", err)
	}
	c := sjsonschema.NewCompiler()
	const resourceURL = "mem://flashcard-engine/output.json"
	if err := c.AddResource(resourceURL, raw); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	compiled, err := c.Compile(resourceURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return compiled, nil
}

// Validate validates a decoded completion response object against the
// output fields' required-key schema. It deliberately only enforces
// `required`, not `additionalProperties: false` — extra keys are dropped
// by the caller at extraction time, not rejected here.
func Validate(outputs []OutputField, decoded map[string]any) error {
	schema := Build(outputs)
	compiled, err := Compile(schema)
	if err != nil {
		return err
	}
	return compiled.Validate(decoded)
}

// FromModelOutputs adapts a template's generation output field names into
// OutputField values, pulling descriptions from the template's field
// registry.
func FromModelOutputs(tmpl *model.Template, names []string) []OutputField {
	out := make([]OutputField, 0, len(names))
	for _, name := range names {
		desc := ""
		if f, ok := tmpl.Field(name); ok {
			desc = f.Description
		}
		out = append(out, OutputField{Name: name, Description: desc})
	}
	return out
}

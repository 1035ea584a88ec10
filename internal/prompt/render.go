// Package prompt implements prompt rendering: substitute {{name}}
// placeholders, then (for completion prompts) append a JSON-schema-derived
// output format section.
package prompt

import (
	"fmt"
	"strings"

	"github.com/lingominer/flashcard-engine/internal/flowerr"
	"github.com/lingominer/flashcard-engine/internal/model"
	"github.com/lingominer/flashcard-engine/internal/promptschema"
)

// Substitute replaces every {{name}} occurrence in prompt with the string
// form of inputs[name]. Names are matched exactly, untrimmed; a placeholder with no matching input is a fatal RenderError.
func Substitute(promptText string, inputs map[string]string) (string, error) {
	placeholders := model.ExtractPlaceholders(promptText)
	out := promptText
	for _, name := range placeholders {
		val, ok := inputs[name]
		if !ok {
			return "", flowerr.NewRender("missing value for placeholder %q", name)
		}
		out = strings.ReplaceAll(out, "{{"+name+"}}", val)
	}
	return out, nil
}

// RenderCompletion lays out a completion prompt in three sections: an
// Instruction section with placeholders substituted, an Output Format
// section describing the JSON object the model must emit, and a final
// Output marker.
func RenderCompletion(promptText string, inputs map[string]string, outputs []promptschema.OutputField) (string, error) {
	instruction, err := Substitute(promptText, inputs)
	if err != nil {
		return "", err
	}

	schema := promptschema.Build(outputs)
	schemaJSON, err := promptschema.Marshal(schema)
	if err != nil {
		return "", err
	}

	var fields strings.Builder
	for _, o := range outputs {
		fmt.Fprintf(&fields, "- `%s`: %s\n", o.Name, o.Description)
	}

	outputFormat := fmt.Sprintf(
		"Your task is to generate a JSON object that adheres to the following schema:\n\n"+
			"The schema is defined as follows:\n%s\n"+
			"JSON Schema:\n%s\n\n"+
			"Please ensure the output JSON strictly follows this schema. Do not include extra fields.",
		fields.String(), schemaJSON,
	)

	return fmt.Sprintf("# Instruction\n%s\n\n# Output Format\n%s\n\n# Output", instruction, outputFormat), nil
}

// RenderPlain renders a prompt for a non-completion method: substitution
// only, no JSON-schema suffix.
func RenderPlain(promptText string, inputs map[string]string) (string, error) {
	return Substitute(promptText, inputs)
}

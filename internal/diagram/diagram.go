// Package diagram renders a template's generation DAG as either a Mermaid
// flowchart or a boxed ASCII diagram.
package diagram

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/lingominer/flashcard-engine/internal/model"
)

// Format selects the rendered diagram format.
type Format string

const (
	FormatMermaid Format = "mermaid"
	FormatASCII   Format = "ascii"
)

// Generate renders tmpl's generation DAG in the given format.
func Generate(tmpl *model.Template, format Format) (string, error) {
	switch format {
	case FormatMermaid:
		return generateMermaid(tmpl), nil
	case FormatASCII:
		return generateASCII(tmpl), nil
	default:
		return "", fmt.Errorf("unsupported diagram format: %s", format)
	}
}

func safeID(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

// generateMermaid emits one node per field, one per generation, and edges
// from each generation's inputs to itself and from itself to its outputs.
func generateMermaid(tmpl *model.Template) string {
	var b strings.Builder
	b.WriteString("flowchart LR\n")

	for _, gen := range tmpl.Generations() {
		genID := "gen_" + safeID(gen.Name)
		b.WriteString(fmt.Sprintf("    %s[%q]\n", genID, gen.Name+" ("+gen.Method+")"))
		for _, in := range gen.Inputs {
			b.WriteString(fmt.Sprintf("    %s((%q)) --> %s\n", "field_"+safeID(in), in, genID))
		}
		for _, out := range gen.Outputs {
			b.WriteString(fmt.Sprintf("    %s --> %s((%q))\n", genID, "field_"+safeID(out), out))
		}
	}
	return b.String()
}

// generateASCII renders each generation as a box holding "name (method)",
// with an "inputs ->" line above it and a "-> outputs" line below it.
func generateASCII(tmpl *model.Template) string {
	var b strings.Builder
	for _, gen := range tmpl.Generations() {
		left := strings.Join(gen.Inputs, ", ")
		right := strings.Join(gen.Outputs, ", ")
		label := fmt.Sprintf(" %s (%s) ", gen.Name, gen.Method)

		width := runewidth.StringWidth(label)
		top := "+" + strings.Repeat("-", width) + "+"
		b.WriteString(top + "\n")
		if left != "" {
			b.WriteString(left + " ->\n")
		}
		b.WriteString("|" + label + "|\n")
		b.WriteString(top + "\n")
		if right != "" {
			b.WriteString(" -> " + right + "\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

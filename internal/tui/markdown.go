package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/lingominer/flashcard-engine/internal/flow"
)

var renderer *glamour.TermRenderer

func init() {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err == nil {
		renderer = r
	}
}

// renderResultMarkdown formats a run's produced fields as a markdown list
// and styles it with glamour, falling back to the raw listing if glamour
// is unavailable.
func renderResultMarkdown(result map[string]flow.FieldValue) string {
	names := make([]string, 0, len(result))
	for name := range result {
		names = append(names, name)
	}
	sort.Strings(names)

	var md strings.Builder
	md.WriteString("## Produced fields\n\n")
	for _, name := range names {
		fv := result[name]
		md.WriteString(fmt.Sprintf("- **%s** (%s): %s\n", name, fv.Kind, fv.Value))
	}

	if renderer == nil {
		return md.String()
	}
	out, err := renderer.Render(md.String())
	if err != nil {
		return md.String()
	}
	return strings.TrimRight(out, "\n")
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lingominer/flashcard-engine/internal/diagram"
)

var diagramFormat string

var diagramCmd = &cobra.Command{
	Use:   "diagram [template.yaml]",
	Short: "Render a template's generation DAG as Mermaid or ASCII",
	Args:  cobra.ExactArgs(1),
	RunE:  runDiagram,
}

func init() {
	diagramCmd.Flags().StringVar(&diagramFormat, "format", "mermaid", "diagram format: mermaid or ascii")
	rootCmd.AddCommand(diagramCmd)
}

func runDiagram(cmd *cobra.Command, args []string) error {
	tmpl, _, err := loadTemplate(args[0])
	if err != nil {
		return err
	}

	out, err := diagram.Generate(tmpl, diagram.Format(diagramFormat))
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}

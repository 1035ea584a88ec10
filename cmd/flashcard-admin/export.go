package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lingominer/flashcard-engine/internal/templateio"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export [template.yaml]",
	Short: "Round-trip a template through the editor invariants and re-emit it as YAML",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "write to this path instead of stdout")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	tmpl, doc, err := loadTemplate(args[0])
	if err != nil {
		return err
	}

	out := templateio.Export(tmpl, doc.SeedFields)
	data, err := templateio.Marshal(out)
	if err != nil {
		return err
	}
	if exportOut == "" {
		fmt.Print(string(data))
		return nil
	}
	return os.WriteFile(exportOut, data, 0o644)
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [template.yaml]",
	Short: "Validate a template YAML document against the metamodel invariants",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	tmpl, _, err := loadTemplate(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("%s is valid (%d fields, %d generations)\n", tmpl.Name, len(tmpl.Fields()), len(tmpl.Generations()))
	return nil
}

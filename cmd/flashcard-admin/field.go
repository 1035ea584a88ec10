package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var fieldCmd = &cobra.Command{
	Use:   "field",
	Short: "Inspect a template's fields",
}

func init() {
	rootCmd.AddCommand(fieldCmd)
	fieldCmd.AddCommand(fieldListCmd)
}

var fieldListCmd = &cobra.Command{
	Use:   "list [template.yaml]",
	Short: "List a template's fields with their kind and producing generation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tmpl, doc, err := loadTemplate(args[0])
		if err != nil {
			return err
		}
		seeds := make(map[string]bool, len(doc.SeedFields))
		for _, s := range doc.SeedFields {
			seeds[s] = true
		}
		genNameByID := make(map[string]string, len(tmpl.Generations()))
		for _, g := range tmpl.Generations() {
			genNameByID[g.ID] = g.Name
		}

		for _, s := range doc.SeedFields {
			fmt.Printf("%s (seed)\n", s)
		}
		for _, f := range tmpl.Fields() {
			if seeds[f.Name] {
				continue
			}
			fmt.Printf("%s (%s), produced by generation %q\n", f.Name, f.Kind, genNameByID[f.Source])
		}
		return nil
	},
}

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lingominer/flashcard-engine/internal/action"
	"github.com/lingominer/flashcard-engine/internal/backend"
	"github.com/lingominer/flashcard-engine/internal/model"
	"github.com/lingominer/flashcard-engine/internal/templateio"
)

// loadTemplate reads a template YAML file and imports it against the
// built-in (memory-backed) method catalog, returning both the live
// Template and the document it was loaded from (seed fields aren't stored
// on Template itself, so callers re-export against doc.SeedFields).
func loadTemplate(path string) (*model.Template, templateio.TemplateDoc, error) {
	doc, err := templateio.LoadFile(path)
	if err != nil {
		return nil, templateio.TemplateDoc{}, err
	}
	methods := newMemoryMethodCatalog()
	tmpl, err := templateio.Import(doc, methods)
	if err != nil {
		return nil, templateio.TemplateDoc{}, fmt.Errorf("invalid template: %w", err)
	}
	return tmpl, doc, nil
}

// saveTemplate re-exports tmpl and writes it back to path, overwriting it.
func saveTemplate(path string, tmpl *model.Template, seedFields []string) error {
	out := templateio.Export(tmpl, seedFields)
	data, err := templateio.Marshal(out)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func newMemoryMethodCatalog() *action.Registry {
	return action.NewBuiltinRegistry(action.BuiltinBackends{
		Completion: &backend.MemoryCompletion{},
		Speech:     backend.MemorySpeech{},
		Image:      backend.MemoryImage{},
		Blobs:      backend.NewMemoryBlobStore(),
	})
}

// parseOutputSpec parses "name:kind" or "name:kind:description" into an
// OutputSpec.
func parseOutputSpec(s string) (model.OutputSpec, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) < 2 {
		return model.OutputSpec{}, fmt.Errorf("output %q must be name:kind or name:kind:description", s)
	}
	spec := model.OutputSpec{Name: parts[0], Kind: model.Kind(parts[1])}
	if len(parts) == 3 {
		spec.Description = parts[2]
	}
	return spec, nil
}

var generationCmd = &cobra.Command{
	Use:   "generation",
	Short: "Add, update, delete, or list a template's generations",
}

func init() {
	rootCmd.AddCommand(generationCmd)
	generationCmd.AddCommand(generationListCmd, generationAddCmd, generationUpdateCmd, generationDeleteCmd)
}

var generationListCmd = &cobra.Command{
	Use:   "list [template.yaml]",
	Short: "List a template's generations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tmpl, _, err := loadTemplate(args[0])
		if err != nil {
			return err
		}
		for _, gen := range tmpl.Generations() {
			fmt.Printf("%s (%s): inputs=%v outputs=%v\n", gen.Name, gen.Method, gen.Inputs, gen.Outputs)
		}
		return nil
	},
}

var (
	genAddName    string
	genAddMethod  string
	genAddPrompt  string
	genAddInputs  []string
	genAddOutputs []string
)

var generationAddCmd = &cobra.Command{
	Use:   "add [template.yaml]",
	Short: "Add a generation to a template and write the result back",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		tmpl, doc, err := loadTemplate(path)
		if err != nil {
			return err
		}
		outputs := make([]model.OutputSpec, len(genAddOutputs))
		for i, o := range genAddOutputs {
			spec, err := parseOutputSpec(o)
			if err != nil {
				return err
			}
			outputs[i] = spec
		}
		gen, err := tmpl.AddGeneration(genAddName, genAddMethod, genAddPrompt, genAddInputs, outputs)
		if err != nil {
			return err
		}
		if err := saveTemplate(path, tmpl, doc.SeedFields); err != nil {
			return err
		}
		fmt.Printf("added generation %q (%s)\n", gen.Name, gen.Method)
		return nil
	},
}

func init() {
	generationAddCmd.Flags().StringVar(&genAddName, "name", "", "generation name (required)")
	generationAddCmd.Flags().StringVar(&genAddMethod, "method", "", "registered method name (required)")
	generationAddCmd.Flags().StringVar(&genAddPrompt, "prompt", "", "prompt template text")
	generationAddCmd.Flags().StringSliceVar(&genAddInputs, "input", nil, "input field name (repeatable)")
	generationAddCmd.Flags().StringSliceVar(&genAddOutputs, "output", nil, "output spec name:kind[:description] (repeatable, required)")
	_ = generationAddCmd.MarkFlagRequired("name")
	_ = generationAddCmd.MarkFlagRequired("method")
	_ = generationAddCmd.MarkFlagRequired("output")
}

var (
	genUpdateName   string
	genUpdatePrompt string
	genUpdateMethod string
	genUpdateInputs []string
)

var generationUpdateCmd = &cobra.Command{
	Use:   "update [template.yaml]",
	Short: "Update an existing generation's method, prompt, and/or inputs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		tmpl, doc, err := loadTemplate(path)
		if err != nil {
			return err
		}
		gen, ok := tmpl.Generation(genUpdateName)
		if !ok {
			return fmt.Errorf("generation %q not found", genUpdateName)
		}

		var inputs []string
		if cmd.Flags().Changed("input") {
			inputs = genUpdateInputs
		}
		var prompt *string
		if cmd.Flags().Changed("prompt") {
			prompt = &genUpdatePrompt
		}
		var method *string
		if cmd.Flags().Changed("method") {
			method = &genUpdateMethod
		}

		if err := tmpl.UpdateGeneration(gen.ID, inputs, prompt, method); err != nil {
			return err
		}
		if err := saveTemplate(path, tmpl, doc.SeedFields); err != nil {
			return err
		}
		fmt.Printf("updated generation %q\n", genUpdateName)
		return nil
	},
}

func init() {
	generationUpdateCmd.Flags().StringVar(&genUpdateName, "name", "", "generation name (required)")
	generationUpdateCmd.Flags().StringVar(&genUpdatePrompt, "prompt", "", "new prompt template text")
	generationUpdateCmd.Flags().StringVar(&genUpdateMethod, "method", "", "new registered method name")
	generationUpdateCmd.Flags().StringSliceVar(&genUpdateInputs, "input", nil, "new input field name (repeatable); replaces the existing input list")
	_ = generationUpdateCmd.MarkFlagRequired("name")
}

var genDeleteName string

var generationDeleteCmd = &cobra.Command{
	Use:   "delete [template.yaml]",
	Short: "Delete a generation, refusing if any of its outputs is still referenced",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		tmpl, doc, err := loadTemplate(path)
		if err != nil {
			return err
		}
		gen, ok := tmpl.Generation(genDeleteName)
		if !ok {
			return fmt.Errorf("generation %q not found", genDeleteName)
		}
		if err := tmpl.DeleteGeneration(gen.ID); err != nil {
			return err
		}
		if err := saveTemplate(path, tmpl, doc.SeedFields); err != nil {
			return err
		}
		fmt.Printf("deleted generation %q\n", genDeleteName)
		return nil
	},
}

func init() {
	generationDeleteCmd.Flags().StringVar(&genDeleteName, "name", "", "generation name (required)")
	_ = generationDeleteCmd.MarkFlagRequired("name")
}

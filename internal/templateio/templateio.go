// Package templateio imports and exports a Template as a portable YAML
// document.
package templateio

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lingominer/flashcard-engine/internal/model"
)

// OutputDoc is one declared output of a generation in the YAML document.
type OutputDoc struct {
	Name        string `yaml:"name"`
	Kind        string `yaml:"kind"`
	Description string `yaml:"description,omitempty"`
}

// GenerationDoc is one generation in the YAML document.
type GenerationDoc struct {
	Name    string      `yaml:"name"`
	Method  string      `yaml:"method"`
	Prompt  string      `yaml:"prompt,omitempty"`
	Inputs  []string    `yaml:"inputs,omitempty"`
	Outputs []OutputDoc `yaml:"outputs"`
}

// TemplateDoc is the top-level YAML document for a template.
type TemplateDoc struct {
	Name        string          `yaml:"name"`
	Lang        string          `yaml:"lang"`
	Owner       string          `yaml:"owner,omitempty"`
	SeedFields  []string        `yaml:"seed_fields,omitempty"`
	Generations []GenerationDoc `yaml:"generations"`
}

// Export serializes tmpl's generations (fields are reconstructed from
// generation outputs on Import, so only generations need to round-trip).
func Export(tmpl *model.Template, seedFields []string) TemplateDoc {
	doc := TemplateDoc{
		Name:       tmpl.Name,
		Lang:       tmpl.Lang,
		Owner:      tmpl.Owner,
		SeedFields: seedFields,
	}
	for _, gen := range tmpl.Generations() {
		gdoc := GenerationDoc{
			Name:   gen.Name,
			Method: gen.Method,
			Prompt: gen.Prompt,
			Inputs: gen.Inputs,
		}
		for _, name := range gen.Outputs {
			gdoc.Outputs = append(gdoc.Outputs, OutputDoc{
				Name:        name,
				Kind:        string(gen.OutputKinds[name]),
				Description: gen.OutputDescriptions[name],
			})
		}
		doc.Generations = append(doc.Generations, gdoc)
	}
	return doc
}

// Marshal renders doc as YAML.
func Marshal(doc TemplateDoc) ([]byte, error) {
	return yaml.Marshal(doc)
}

// LoadFile reads and decodes a template YAML document from path.
func LoadFile(path string) (TemplateDoc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return TemplateDoc{}, fmt.Errorf("read template file: %w", err)
	}
	var doc TemplateDoc
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return TemplateDoc{}, fmt.Errorf("decode template file: %w", err)
	}
	return doc, nil
}

// Import builds a Template from a decoded document, replaying each
// generation through Template.AddGeneration so every editor invariant is
// re-validated rather than trusted from the document.
func Import(doc TemplateDoc, methods model.MethodCatalog) (*model.Template, error) {
	seedFields := doc.SeedFields
	tmpl := model.New(doc.Name, doc.Lang, doc.Owner, seedFields, methods)
	for _, gdoc := range doc.Generations {
		outputs := make([]model.OutputSpec, len(gdoc.Outputs))
		for i, o := range gdoc.Outputs {
			outputs[i] = model.OutputSpec{Name: o.Name, Kind: model.Kind(o.Kind), Description: o.Description}
		}
		if _, err := tmpl.AddGeneration(gdoc.Name, gdoc.Method, gdoc.Prompt, gdoc.Inputs, outputs); err != nil {
			return nil, fmt.Errorf("generation %q: %w", gdoc.Name, err)
		}
	}
	return tmpl, nil
}

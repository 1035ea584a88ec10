package model

import (
	"regexp"
	"sort"

	"github.com/google/uuid"
	"github.com/lingominer/flashcard-engine/internal/flowerr"
)

// MethodCatalog is the subset of the Action Registry the template editor
// needs: whether a method exists, whether it requires a prompt, which
// output kinds it may legally produce, and whether it requires exactly one
// output (toSpeech/toImage) or allows any number (completion). Defined here
// (consumer side) rather than in package action, so model never imports
// action.
type MethodCatalog interface {
	Lookup(method string) (promptRequired bool, outputKinds []Kind, exactlyOneOutput bool, ok bool)
}

// OutputSpec describes one declared output of a generation being added.
type OutputSpec struct {
	Name        string
	Kind        Kind
	Description string
}

// Template is the container binding a field registry and a generation
// catalog under one identifier, enforcing the cross-entity invariants
// between them (name uniqueness, acyclicity, reference counting).
type Template struct {
	ID      string
	Name    string
	Lang    string
	Owner   string
	methods MethodCatalog

	seedFields map[string]bool

	fieldsByID   map[string]*Field
	fieldsByName map[string]*Field

	generationsByID   map[string]*Generation
	generationsByName map[string]*Generation
	generationOrder   []string // IDs, insertion order
}

// New creates an empty template. seedFields is the fixed set of reserved
// pre-resolved field names.
func New(name, lang, owner string, seedFields []string, methods MethodCatalog) *Template {
	seeds := make(map[string]bool, len(seedFields))
	for _, s := range seedFields {
		seeds[s] = true
	}
	return &Template{
		ID:                uuid.NewString(),
		Name:              name,
		Lang:              lang,
		Owner:             owner,
		methods:           methods,
		seedFields:        seeds,
		fieldsByID:        make(map[string]*Field),
		fieldsByName:      make(map[string]*Field),
		generationsByID:   make(map[string]*Generation),
		generationsByName: make(map[string]*Generation),
	}
}

// IsSeed reports whether name is one of this template's reserved seed fields.
func (t *Template) IsSeed(name string) bool { return t.seedFields[name] }

// Field looks up a registered (non-seed) field by name.
func (t *Template) Field(name string) (*Field, bool) {
	f, ok := t.fieldsByName[name]
	return f, ok
}

// FieldByID looks up a registered field by ID.
func (t *Template) FieldByID(id string) (*Field, bool) {
	f, ok := t.fieldsByID[id]
	return f, ok
}

// Fields returns all registered fields, name-sorted for determinism.
func (t *Template) Fields() []*Field {
	out := make([]*Field, 0, len(t.fieldsByName))
	for _, f := range t.fieldsByName {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Generations returns generations in the order they were added.
func (t *Template) Generations() []*Generation {
	out := make([]*Generation, 0, len(t.generationOrder))
	for _, id := range t.generationOrder {
		out = append(out, t.generationsByID[id])
	}
	return out
}

// Generation looks up a generation by name.
func (t *Template) Generation(name string) (*Generation, bool) {
	g, ok := t.generationsByName[name]
	return g, ok
}

// resolvable reports whether name is either a seed field or a registered field.
func (t *Template) resolvable(name string) bool {
	if t.IsSeed(name) {
		return true
	}
	_, ok := t.fieldsByName[name]
	return ok
}

func (t *Template) missingOf(names []string) []string {
	var missing []string
	for _, n := range names {
		if !t.resolvable(n) {
			missing = append(missing, n)
		}
	}
	return missing
}

// ---------------------------------------------------------------------------
// Field editing
// ---------------------------------------------------------------------------

// AddField registers a new field. source, if non-empty, must name an
// existing generation, and name must already be a declared output of it.
// Use AddGeneration to create a generation and its outputs atomically;
// since AddGeneration registers every output field, AddField with a source
// only succeeds for an output field that was since removed with DeleteField.
func (t *Template) AddField(name string, kind Kind, description, source string) (*Field, error) {
	if !kind.valid() {
		return nil, flowerr.NewValidation("kind", "invalid field kind %q", kind)
	}
	if t.IsSeed(name) {
		return nil, flowerr.NewValidation("name", "name %q collides with a seed field", name)
	}
	if _, exists := t.fieldsByName[name]; exists {
		return nil, flowerr.NewValidation("name", "field name %q already registered", name)
	}
	if source != "" {
		gen, ok := t.generationsByID[source]
		if !ok {
			return nil, flowerr.NewNotFound("generation", source)
		}
		if !containsStr(gen.Outputs, name) {
			return nil, flowerr.NewValidation("source", "generation %q does not declare output %q", gen.Name, name)
		}
	}

	f := newField(name, kind, description, source)
	t.fieldsByID[f.ID] = f
	t.fieldsByName[f.Name] = f
	return f, nil
}

// UpdateField updates description unconditionally, and kind only if the
// field is not yet referenced by any generation (kind is immutable once
// referenced).
func (t *Template) UpdateField(id string, newDescription *string, newKind *Kind) error {
	f, ok := t.fieldsByID[id]
	if !ok {
		return flowerr.NewNotFound("field", id)
	}
	if newKind != nil && *newKind != f.Kind {
		if f.Referenced() {
			return flowerr.NewValidation("kind", "field %q kind is immutable once referenced", f.Name)
		}
		if !newKind.valid() {
			return flowerr.NewValidation("kind", "invalid field kind %q", *newKind)
		}
		f.Kind = *newKind
	}
	if newDescription != nil {
		f.Description = *newDescription
	}
	return nil
}

// DeleteField removes a field not referenced by any generation.
func (t *Template) DeleteField(id string) error {
	f, ok := t.fieldsByID[id]
	if !ok {
		return flowerr.NewNotFound("field", id)
	}
	if f.Referenced() {
		return flowerr.NewConflict(f.Name, "field %q is referenced by %d generation(s)", f.Name, len(f.ReferencedBy))
	}
	delete(t.fieldsByID, id)
	delete(t.fieldsByName, f.Name)
	return nil
}

// ---------------------------------------------------------------------------
// Generation editing
// ---------------------------------------------------------------------------

// AddGeneration validates inputs, the method's prompt/output-kind
// signature, and prompt placeholders, then creates the generation and its
// output fields atomically.
func (t *Template) AddGeneration(name, method, prompt string, inputs []string, outputs []OutputSpec) (*Generation, error) {
	if _, exists := t.generationsByName[name]; exists {
		return nil, flowerr.NewValidation("name", "generation name %q already registered", name)
	}
	promptRequired, outKinds, exactlyOne, ok := t.methods.Lookup(method)
	if !ok {
		return nil, flowerr.NewValidation("method", "unregistered method %q", method)
	}
	if promptRequired && prompt == "" {
		return nil, flowerr.NewValidation("prompt", "method %q requires a prompt", method)
	}
	if missing := t.missingOf(inputs); len(missing) > 0 {
		return nil, flowerr.NewValidationMissing("inputs", missing)
	}
	if len(outputs) == 0 {
		return nil, flowerr.NewValidation("outputs", "generation %q declares no outputs", name)
	}
	outputNames := make([]string, len(outputs))
	for i, o := range outputs {
		if t.IsSeed(o.Name) {
			return nil, flowerr.NewValidation("outputs", "output %q collides with a seed field", o.Name)
		}
		if _, exists := t.fieldsByName[o.Name]; exists {
			return nil, flowerr.NewValidation("outputs", "output %q collides with an existing field", o.Name)
		}
		outputNames[i] = o.Name
	}
	if err := checkOutputKindSignature(outKinds, exactlyOne, outputs); err != nil {
		return nil, err
	}
	if prompt != "" {
		if err := validatePlaceholders(t, prompt, inputs); err != nil {
			return nil, err
		}
	}

	gen := newGeneration(name, method, prompt, inputs)
	gen.Outputs = outputNames
	for _, o := range outputs {
		gen.OutputKinds[o.Name] = o.Kind
		gen.OutputDescriptions[o.Name] = o.Description
	}

	// Cycle check: a brand-new generation's inputs can only reference
	// already-registered fields produced by already-added generations, so
	// no new edge can close a cycle back to this generation — it has no
	// incoming consumers yet. No check needed here; see UpdateGeneration.

	t.generationsByID[gen.ID] = gen
	t.generationsByName[gen.Name] = gen
	t.generationOrder = append(t.generationOrder, gen.ID)

	for _, o := range outputs {
		f := newField(o.Name, o.Kind, o.Description, gen.ID)
		t.fieldsByID[f.ID] = f
		t.fieldsByName[f.Name] = f
	}
	for _, in := range inputs {
		if f, ok := t.fieldsByName[in]; ok {
			f.ReferencedBy[gen.ID] = true
		}
	}
	return gen, nil
}

// UpdateGeneration replaces inputs, prompt, and/or method on an existing
// generation, re-validating each changed facet
func (t *Template) UpdateGeneration(id string, newInputs []string, newPrompt *string, newMethod *string) error {
	gen, ok := t.generationsByID[id]
	if !ok {
		return flowerr.NewNotFound("generation", id)
	}

	method := gen.Method
	if newMethod != nil && *newMethod != gen.Method {
		_, outKinds, exactlyOne, ok := t.methods.Lookup(*newMethod)
		if !ok {
			return flowerr.NewValidation("method", "unregistered method %q", *newMethod)
		}
		existingOutputs := make([]OutputSpec, len(gen.Outputs))
		for i, name := range gen.Outputs {
			f := t.fieldsByName[name]
			existingOutputs[i] = OutputSpec{Name: name, Kind: f.Kind}
		}
		if err := checkOutputKindSignature(outKinds, exactlyOne, existingOutputs); err != nil {
			return err
		}
		method = *newMethod
	}

	inputs := gen.Inputs
	if newInputs != nil {
		if missing := t.missingOf(newInputs); len(missing) > 0 {
			return flowerr.NewValidationMissing("inputs", missing)
		}
		inputs = newInputs
	}

	prompt := gen.Prompt
	if newPrompt != nil {
		prompt = *newPrompt
	}
	promptRequired, _, _, _ := t.methods.Lookup(method)
	if promptRequired && prompt == "" {
		return flowerr.NewValidation("prompt", "method %q requires a prompt", method)
	}
	if prompt != "" {
		if err := validatePlaceholders(t, prompt, inputs); err != nil {
			return err
		}
	}

	// Cycle check against the proposed new input set before committing.
	if newInputs != nil {
		if cyclic := t.wouldCycle(gen.ID, inputs); cyclic {
			return flowerr.NewValidation("inputs", "update would introduce a dependency cycle")
		}
	}

	// Commit: unreference old inputs, reference new ones.
	for _, old := range gen.Inputs {
		if f, ok := t.fieldsByName[old]; ok {
			delete(f.ReferencedBy, gen.ID)
		}
	}
	for _, in := range inputs {
		if f, ok := t.fieldsByName[in]; ok {
			f.ReferencedBy[gen.ID] = true
		}
	}
	gen.Inputs = inputs
	gen.Prompt = prompt
	gen.Method = method
	return nil
}

// DeleteGeneration refuses if any of its outputs is still referenced;
// otherwise deletes the generation and all its output fields.
func (t *Template) DeleteGeneration(id string) error {
	gen, ok := t.generationsByID[id]
	if !ok {
		return flowerr.NewNotFound("generation", id)
	}
	for _, name := range gen.Outputs {
		if f, ok := t.fieldsByName[name]; ok && f.Referenced() {
			return flowerr.NewConflict(name, "output %q of generation %q is referenced by %d generation(s)", name, gen.Name, len(f.ReferencedBy))
		}
	}
	for _, name := range gen.Outputs {
		if f, ok := t.fieldsByName[name]; ok {
			delete(t.fieldsByID, f.ID)
			delete(t.fieldsByName, name)
		}
	}
	for _, in := range gen.Inputs {
		if f, ok := t.fieldsByName[in]; ok {
			delete(f.ReferencedBy, gen.ID)
		}
	}
	delete(t.generationsByID, id)
	delete(t.generationsByName, gen.Name)
	for i, gid := range t.generationOrder {
		if gid == id {
			t.generationOrder = append(t.generationOrder[:i], t.generationOrder[i+1:]...)
			break
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Cycle detection
// ---------------------------------------------------------------------------

// wouldCycle reports whether replacing genID's inputs with proposedInputs
// would create a cycle in the "generation consumes fields produced by
// other generations" graph.
func (t *Template) wouldCycle(genID string, proposedInputs []string) bool {
	adj := make(map[string]map[string]bool, len(t.generationsByID))
	for id, g := range t.generationsByID {
		ins := g.Inputs
		if id == genID {
			ins = proposedInputs
		}
		edges := make(map[string]bool)
		for _, in := range ins {
			if f, ok := t.fieldsByName[in]; ok && f.Source != "" {
				edges[f.Source] = true
			}
		}
		adj[id] = edges
	}

	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, len(adj))
	var visit func(string) bool
	visit = func(id string) bool {
		color[id] = gray
		for next := range adj[id] {
			switch color[next] {
			case gray:
				return true
			case white:
				if visit(next) {
					return true
				}
			}
		}
		color[id] = black
		return false
	}
	for id := range adj {
		if color[id] == white {
			if visit(id) {
				return true
			}
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Template deletion
// ---------------------------------------------------------------------------

// Delete clears every generation's input edges, then deletes fields, then
// generations. referencedByCards is supplied by the caller (the card store) and
// must be false for Delete to proceed.
func (t *Template) Delete(referencedByCards bool) error {
	if referencedByCards {
		return flowerr.NewConflict(t.ID, "template %q is referenced by one or more cards", t.Name)
	}
	for _, g := range t.generationsByID {
		g.Inputs = nil
	}
	for name := range t.fieldsByName {
		delete(t.fieldsByName, name)
	}
	for id := range t.fieldsByID {
		delete(t.fieldsByID, id)
	}
	for id := range t.generationsByID {
		delete(t.generationsByID, id)
	}
	for name := range t.generationsByName {
		delete(t.generationsByName, name)
	}
	t.generationOrder = nil
	return nil
}

// ---------------------------------------------------------------------------
// Shared validation helpers
// ---------------------------------------------------------------------------

func checkOutputKindSignature(allowed []Kind, exactlyOne bool, outputs []OutputSpec) error {
	allowedSet := make(map[Kind]bool, len(allowed))
	for _, k := range allowed {
		allowedSet[k] = true
	}
	for _, o := range outputs {
		if !allowedSet[o.Kind] {
			return flowerr.NewValidation("outputs", "output %q has kind %q not in method's allowed kinds %v", o.Name, o.Kind, allowed)
		}
	}
	if exactlyOne && len(outputs) != 1 {
		return flowerr.NewValidation("outputs", "method requires exactly one output, declared %d", len(outputs))
	}
	return nil
}

// placeholderRe is a pure syntactic scan for {{name}} patterns — no
// trimming, exact-match names, duplicates deduplicated.
var placeholderRe = regexp.MustCompile(`\{\{([^{}]*)\}\}`)

// ExtractPlaceholders returns the deduplicated, order-preserving set of
// {{name}} placeholder names found in prompt.
func ExtractPlaceholders(prompt string) []string {
	matches := placeholderRe.FindAllStringSubmatch(prompt, -1)
	seen := make(map[string]bool, len(matches))
	var out []string
	for _, m := range matches {
		name := m[1]
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

func validatePlaceholders(t *Template, prompt string, inputs []string) error {
	declared := make(map[string]bool, len(inputs))
	for _, in := range inputs {
		declared[in] = true
	}
	var missing []string
	for _, ph := range ExtractPlaceholders(prompt) {
		if declared[ph] || t.IsSeed(ph) {
			continue
		}
		missing = append(missing, ph)
	}
	if len(missing) > 0 {
		return flowerr.NewValidationMissing("prompt", missing)
	}
	return nil
}

func containsStr(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

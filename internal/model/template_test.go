package model

import (
	"testing"

	"github.com/lingominer/flashcard-engine/internal/flowerr"
)

type stubCatalog struct {
	methods map[string]struct {
		promptRequired bool
		outputKinds    []Kind
		exactlyOne     bool
	}
}

func newStubCatalog() *stubCatalog {
	return &stubCatalog{methods: map[string]struct {
		promptRequired bool
		outputKinds    []Kind
		exactlyOne     bool
	}{
		"completion": {promptRequired: true, outputKinds: []Kind{KindText}, exactlyOne: false},
		"toSpeech":   {promptRequired: true, outputKinds: []Kind{KindAudio}, exactlyOne: true},
		"toImage":    {promptRequired: true, outputKinds: []Kind{KindImage}, exactlyOne: true},
	}}
}

func (c *stubCatalog) Lookup(method string) (bool, []Kind, bool, bool) {
	m, ok := c.methods[method]
	if !ok {
		return false, nil, false, false
	}
	return m.promptRequired, m.outputKinds, m.exactlyOne, true
}

func newTestTemplate() *Template {
	return New("card-basic", "en", "owner-1", []string{"paragraph", "decorated_paragraph"}, newStubCatalog())
}

func TestAddGeneration_LinearChain(t *testing.T) {
	tmpl := newTestTemplate()

	gen, err := tmpl.AddGeneration("translate", "completion", "Translate: {{paragraph}}", []string{"paragraph"},
		[]OutputSpec{{Name: "translation", Kind: KindText}})
	if err != nil {
		t.Fatalf("AddGeneration: %v", err)
	}
	if gen.Name != "translate" {
		t.Errorf("name = %q", gen.Name)
	}

	if _, err := tmpl.AddGeneration("narrate", "toSpeech", "{{translation}}", []string{"translation"},
		[]OutputSpec{{Name: "audio", Kind: KindAudio}}); err != nil {
		t.Fatalf("AddGeneration second step: %v", err)
	}

	if len(tmpl.Generations()) != 2 {
		t.Fatalf("len(Generations()) = %d, want 2", len(tmpl.Generations()))
	}
	if _, ok := tmpl.Field("translation"); !ok {
		t.Error("expected translation field to be registered")
	}
}

func TestAddGeneration_MissingInputIsValidationError(t *testing.T) {
	tmpl := newTestTemplate()
	_, err := tmpl.AddGeneration("translate", "completion", "Translate: {{nonexistent}}", []string{"nonexistent"},
		[]OutputSpec{{Name: "translation", Kind: KindText}})
	if err == nil {
		t.Fatal("expected error for missing input")
	}
	if _, ok := err.(*flowerr.ValidationError); !ok {
		t.Fatalf("expected ValidationError, got %T", err)
	}
}

func TestAddGeneration_UnregisteredMethod(t *testing.T) {
	tmpl := newTestTemplate()
	_, err := tmpl.AddGeneration("mystery", "doesNotExist", "", nil, []OutputSpec{{Name: "x", Kind: KindText}})
	if err == nil {
		t.Fatal("expected error for unregistered method")
	}
}

func TestAddGeneration_PlaceholderNotDeclaredAsInput(t *testing.T) {
	tmpl := newTestTemplate()
	_, err := tmpl.AddGeneration("translate", "completion", "{{paragraph}} {{extra}}", []string{"paragraph"},
		[]OutputSpec{{Name: "translation", Kind: KindText}})
	if err == nil {
		t.Fatal("expected error for undeclared placeholder")
	}
}

func TestAddGeneration_OutputKindMismatchRejected(t *testing.T) {
	tmpl := newTestTemplate()
	_, err := tmpl.AddGeneration("narrate", "toSpeech", "{{paragraph}}", []string{"paragraph"},
		[]OutputSpec{{Name: "bad", Kind: KindText}})
	if err == nil {
		t.Fatal("expected error: toSpeech only allows audio output")
	}
}

func TestUpdateGeneration_CycleRejected(t *testing.T) {
	tmpl := newTestTemplate()
	if _, err := tmpl.AddGeneration("a", "completion", "{{paragraph}}", []string{"paragraph"},
		[]OutputSpec{{Name: "out_a", Kind: KindText}}); err != nil {
		t.Fatalf("add a: %v", err)
	}
	genB, err := tmpl.AddGeneration("b", "completion", "{{out_a}}", []string{"out_a"},
		[]OutputSpec{{Name: "out_b", Kind: KindText}})
	if err != nil {
		t.Fatalf("add b: %v", err)
	}

	genA, _ := tmpl.Generation("a")
	if err := tmpl.UpdateGeneration(genA.ID, []string{"out_b"}, nil, nil); err == nil {
		t.Fatal("expected cycle rejection updating a's inputs to depend on b's output")
	}
	_ = genB
}

func TestDeleteField_RejectedWhileReferenced(t *testing.T) {
	tmpl := newTestTemplate()
	if _, err := tmpl.AddGeneration("a", "completion", "{{paragraph}}", []string{"paragraph"},
		[]OutputSpec{{Name: "out_a", Kind: KindText}}); err != nil {
		t.Fatalf("add a: %v", err)
	}
	f, _ := tmpl.Field("out_a")
	if _, err := tmpl.AddGeneration("b", "completion", "{{out_a}}", []string{"out_a"},
		[]OutputSpec{{Name: "out_b", Kind: KindText}}); err != nil {
		t.Fatalf("add b: %v", err)
	}
	if err := tmpl.DeleteField(f.ID); err == nil {
		t.Fatal("expected rejection deleting a field referenced by another generation")
	}
}

func TestAddGeneration_ExactlyOneOutputEnforcedAtEditTime(t *testing.T) {
	tmpl := newTestTemplate()
	_, err := tmpl.AddGeneration("narrate", "toSpeech", "{{paragraph}}", []string{"paragraph"},
		[]OutputSpec{{Name: "a", Kind: KindAudio}, {Name: "b", Kind: KindAudio}})
	if err == nil {
		t.Fatal("expected error: toSpeech requires exactly one output")
	}
	if _, ok := err.(*flowerr.ValidationError); !ok {
		t.Fatalf("expected ValidationError, got %T", err)
	}
}

func TestDeleteGeneration_RejectedWhileOutputReferenced(t *testing.T) {
	tmpl := newTestTemplate()
	if _, err := tmpl.AddGeneration("a", "completion", "{{paragraph}}", []string{"paragraph"},
		[]OutputSpec{{Name: "out_a", Kind: KindText}}); err != nil {
		t.Fatalf("add a: %v", err)
	}
	if _, err := tmpl.AddGeneration("b", "completion", "{{out_a}}", []string{"out_a"},
		[]OutputSpec{{Name: "out_b", Kind: KindText}}); err != nil {
		t.Fatalf("add b: %v", err)
	}
	genA, _ := tmpl.Generation("a")
	if err := tmpl.DeleteGeneration(genA.ID); err == nil {
		t.Fatal("expected rejection deleting a generation whose output is referenced by another generation")
	}

	genB, _ := tmpl.Generation("b")
	if err := tmpl.DeleteGeneration(genB.ID); err != nil {
		t.Fatalf("expected deleting the unreferenced downstream generation to succeed: %v", err)
	}
	if err := tmpl.DeleteGeneration(genA.ID); err != nil {
		t.Fatalf("expected deleting a now-unreferenced generation to succeed: %v", err)
	}
}

func TestUpdateField_KindImmutableOnceReferenced(t *testing.T) {
	tmpl := newTestTemplate()
	if _, err := tmpl.AddGeneration("a", "completion", "{{paragraph}}", []string{"paragraph"},
		[]OutputSpec{{Name: "out_a", Kind: KindText}}); err != nil {
		t.Fatalf("add a: %v", err)
	}
	if _, err := tmpl.AddGeneration("b", "completion", "{{out_a}}", []string{"out_a"},
		[]OutputSpec{{Name: "out_b", Kind: KindText}}); err != nil {
		t.Fatalf("add b: %v", err)
	}
	f, _ := tmpl.Field("out_a")
	newKind := KindAudio
	err := tmpl.UpdateField(f.ID, nil, &newKind)
	if err == nil {
		t.Fatal("expected rejection changing the kind of a field referenced by a generation")
	}
	if _, ok := err.(*flowerr.ValidationError); !ok {
		t.Fatalf("expected ValidationError, got %T", err)
	}
}

func TestUpdateField_KindMutableWhenUnreferenced(t *testing.T) {
	tmpl := newTestTemplate()
	if _, err := tmpl.AddGeneration("a", "completion", "{{paragraph}}", []string{"paragraph"},
		[]OutputSpec{{Name: "out_a", Kind: KindText}}); err != nil {
		t.Fatalf("add a: %v", err)
	}
	f, _ := tmpl.Field("out_a")
	newKind := KindAudio
	if err := tmpl.UpdateField(f.ID, nil, &newKind); err != nil {
		t.Fatalf("expected kind change on unreferenced field to succeed: %v", err)
	}
	f, _ = tmpl.Field("out_a")
	if f.Kind != KindAudio {
		t.Errorf("Kind = %q, want %q", f.Kind, KindAudio)
	}
}

func TestTemplateDelete_CascadesFieldsAndGenerations(t *testing.T) {
	tmpl := newTestTemplate()
	if _, err := tmpl.AddGeneration("a", "completion", "{{paragraph}}", []string{"paragraph"},
		[]OutputSpec{{Name: "out_a", Kind: KindText}}); err != nil {
		t.Fatalf("add a: %v", err)
	}
	if _, err := tmpl.AddGeneration("b", "completion", "{{out_a}}", []string{"out_a"},
		[]OutputSpec{{Name: "out_b", Kind: KindText}}); err != nil {
		t.Fatalf("add b: %v", err)
	}

	if err := tmpl.Delete(true); err == nil {
		t.Fatal("expected rejection deleting a template referenced by cards")
	}

	if err := tmpl.Delete(false); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(tmpl.Generations()) != 0 {
		t.Errorf("expected no generations after delete, got %d", len(tmpl.Generations()))
	}
	if len(tmpl.Fields()) != 0 {
		t.Errorf("expected no fields after delete, got %d", len(tmpl.Fields()))
	}
	if _, ok := tmpl.Field("out_a"); ok {
		t.Error("expected out_a field to be gone after delete")
	}
}

func TestExtractPlaceholders_DedupOrderPreserving(t *testing.T) {
	got := ExtractPlaceholders("{{a}} {{b}} {{a}} plain text {{c}}")
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

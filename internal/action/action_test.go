package action

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/lingominer/flashcard-engine/internal/backend"
	"github.com/lingominer/flashcard-engine/internal/flow"
	"github.com/lingominer/flashcard-engine/internal/model"
)

func newGen(t *testing.T, name, method, prompt string, inputs []string, outputs []model.OutputSpec) *model.Generation {
	t.Helper()
	tmpl := model.New("t", "en", "owner", inputs, newTestRegistry())
	gen, err := tmpl.AddGeneration(name, method, prompt, inputs, outputs)
	if err != nil {
		t.Fatalf("AddGeneration: %v", err)
	}
	return gen
}

func newTestRegistry() *Registry {
	return NewBuiltinRegistry(BuiltinBackends{
		Completion: &backend.MemoryCompletion{},
		Speech:     backend.MemorySpeech{},
		Image:      backend.MemoryImage{},
		Blobs:      backend.NewMemoryBlobStore(),
		Voice:      "default",
	})
}

func TestCompletionHandler_ExtractsDeclaredOutputs(t *testing.T) {
	h := NewCompletionHandler(&backend.MemoryCompletion{
		Responses: []string{`{"translation":"hola","extra":"ignored"}`},
	})
	gen := newGen(t, "translate", "completion", "Translate: {{paragraph}}", []string{"paragraph"},
		[]model.OutputSpec{{Name: "translation", Kind: model.KindText}})

	out, err := h.Call(context.Background(), gen, map[string]flow.FieldValue{"paragraph": {Kind: model.KindText, Value: "hi"}})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if out["translation"].Value != "hola" {
		t.Errorf("translation = %q", out["translation"].Value)
	}
}

func TestCompletionHandler_MissingRequiredKeyFails(t *testing.T) {
	h := NewCompletionHandler(&backend.MemoryCompletion{Responses: []string{`{}`}})
	gen := newGen(t, "translate", "completion", "Translate: {{paragraph}}", []string{"paragraph"},
		[]model.OutputSpec{{Name: "translation", Kind: model.KindText}})

	_, err := h.Call(context.Background(), gen, map[string]flow.FieldValue{"paragraph": {Kind: model.KindText, Value: "hi"}})
	if err == nil {
		t.Fatal("expected error for missing required output key")
	}
}

func TestSpeechHandler_UploadsArtifactAndReturnsKey(t *testing.T) {
	blobs := backend.NewMemoryBlobStore()
	h := NewSpeechHandler(backend.MemorySpeech{}, blobs, "default")
	gen := newGen(t, "narrate", "toSpeech", "{{paragraph}}", []string{"paragraph"},
		[]model.OutputSpec{{Name: "audio", Kind: model.KindAudio}})

	out, err := h.Call(context.Background(), gen, map[string]flow.FieldValue{"paragraph": {Kind: model.KindText, Value: "hi"}})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	key := out["audio"].Value
	if key == "" {
		t.Fatal("expected non-empty artifact key")
	}
	if _, err := blobs.Download(context.Background(), ArtifactBucket, key); err != nil {
		t.Fatalf("expected uploaded artifact to be downloadable: %v", err)
	}
}

func TestImageHandler_DecodesBase64BeforeUpload(t *testing.T) {
	blobs := backend.NewMemoryBlobStore()
	h := NewImageHandler(backend.MemoryImage{}, blobs)
	gen := newGen(t, "illustrate", "toImage", "{{paragraph}}", []string{"paragraph"},
		[]model.OutputSpec{{Name: "image", Kind: model.KindImage}})

	out, err := h.Call(context.Background(), gen, map[string]flow.FieldValue{"paragraph": {Kind: model.KindText, Value: "a cat"}})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	raw, err := blobs.Download(context.Background(), ArtifactBucket, out["image"].Value)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if _, err := base64.StdEncoding.DecodeString(base64.StdEncoding.EncodeToString(raw)); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	if string(raw) != "image:a cat" {
		t.Errorf("decoded image payload = %q", string(raw))
	}
}

func TestRegistry_LookupUnregisteredMethod(t *testing.T) {
	r := newTestRegistry()
	if _, _, _, ok := r.Lookup("doesNotExist"); ok {
		t.Error("expected unregistered method to report ok=false")
	}
}

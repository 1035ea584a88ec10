package action

import (
	"context"

	"github.com/google/uuid"

	"github.com/lingominer/flashcard-engine/internal/backend"
	"github.com/lingominer/flashcard-engine/internal/flow"
	"github.com/lingominer/flashcard-engine/internal/flowerr"
	"github.com/lingominer/flashcard-engine/internal/model"
	"github.com/lingominer/flashcard-engine/internal/prompt"
)

// ArtifactBucket is the blob-store bucket audio and image artifacts are
// uploaded under.
const ArtifactBucket = "flashcard-engine"

// SpeechHandler implements the built-in "toSpeech" method: render the
// prompt as plain utterance text, synthesize audio, upload the bytes, and
// return the artifact key.
type SpeechHandler struct {
	backend backend.Speech
	blobs   backend.BlobStore
	voice   string
}

// NewSpeechHandler wraps a Speech backend and BlobStore as a Handler,
// configured with the voice to synthesize with.
func NewSpeechHandler(b backend.Speech, blobs backend.BlobStore, voice string) *SpeechHandler {
	return &SpeechHandler{backend: b, blobs: blobs, voice: voice}
}

func (h *SpeechHandler) PromptRequired() bool      { return true }
func (h *SpeechHandler) OutputKinds() []model.Kind { return []model.Kind{model.KindAudio} }
func (h *SpeechHandler) ExactlyOneOutput() bool    { return true }

func (h *SpeechHandler) Call(ctx context.Context, gen *model.Generation, inputs map[string]flow.FieldValue) (map[string]flow.FieldValue, error) {
	outName, err := singleOutputOfKind(gen, model.KindAudio, "toSpeech")
	if err != nil {
		return nil, err
	}

	text, err := prompt.RenderPlain(gen.Prompt, inputStrings(inputs))
	if err != nil {
		return nil, err
	}

	audioBytes, err := h.backend.Synthesize(ctx, text, h.voice)
	if err != nil {
		return nil, flowerr.NewBackend("speech", err)
	}

	key := uuid.NewString() + ".mp3"
	if err := h.blobs.Upload(ctx, ArtifactBucket, key, audioBytes); err != nil {
		return nil, flowerr.NewBackend("blob-upload", err)
	}

	return map[string]flow.FieldValue{
		outName: {Kind: model.KindAudio, Value: key},
	}, nil
}

// singleOutputOfKind finds the one output of the given kind. Template
// editing already rejects any generation that doesn't declare exactly one
// matching output for these methods; this re-check guards generations
// built any other way (e.g. directly via model.Generation construction in
// tests) from ever reaching an ambiguous map write below.
func singleOutputOfKind(gen *model.Generation, kind model.Kind, method string) (string, error) {
	var found string
	count := 0
	for _, name := range gen.Outputs {
		if gen.OutputKinds[name] == kind {
			found = name
			count++
		}
	}
	if count != 1 {
		return "", flowerr.NewValidation(gen.Name, "%s requires exactly one %s output, found %d", method, kind, count)
	}
	return found, nil
}

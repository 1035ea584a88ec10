package action

import (
	"context"
	"encoding/base64"

	"github.com/google/uuid"

	"github.com/lingominer/flashcard-engine/internal/backend"
	"github.com/lingominer/flashcard-engine/internal/flow"
	"github.com/lingominer/flashcard-engine/internal/flowerr"
	"github.com/lingominer/flashcard-engine/internal/model"
	"github.com/lingominer/flashcard-engine/internal/prompt"
)

// ImageHandler implements the built-in "toImage" method: render the
// prompt, generate an image, decode the base64 payload, upload the bytes,
// and return the artifact key.
type ImageHandler struct {
	backend backend.Image
	blobs   backend.BlobStore
}

// NewImageHandler wraps an Image backend and BlobStore as a Handler.
func NewImageHandler(b backend.Image, blobs backend.BlobStore) *ImageHandler {
	return &ImageHandler{backend: b, blobs: blobs}
}

func (h *ImageHandler) PromptRequired() bool      { return true }
func (h *ImageHandler) OutputKinds() []model.Kind { return []model.Kind{model.KindImage} }
func (h *ImageHandler) ExactlyOneOutput() bool    { return true }

func (h *ImageHandler) Call(ctx context.Context, gen *model.Generation, inputs map[string]flow.FieldValue) (map[string]flow.FieldValue, error) {
	outName, err := singleOutputOfKind(gen, model.KindImage, "toImage")
	if err != nil {
		return nil, err
	}

	promptText, err := prompt.RenderPlain(gen.Prompt, inputStrings(inputs))
	if err != nil {
		return nil, err
	}

	b64, err := h.backend.Generate(ctx, promptText)
	if err != nil {
		return nil, flowerr.NewBackend("image", err)
	}
	imageBytes, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, flowerr.NewParse(err, "image backend returned invalid base64 payload")
	}

	key := uuid.NewString() + ".png"
	if err := h.blobs.Upload(ctx, ArtifactBucket, key, imageBytes); err != nil {
		return nil, flowerr.NewBackend("blob-upload", err)
	}

	return map[string]flow.FieldValue{
		outName: {Kind: model.KindImage, Value: key},
	}, nil
}

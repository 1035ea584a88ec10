// Package backend declares the injectable side-effecting collaborators the
// action handlers call into. Concrete wire protocols for each
// provider are out of scope — these are interfaces only.
package backend

import "context"

// Completion calls a text-completion (LLM) backend in JSON-object response
// mode and returns the raw JSON response body.
type Completion interface {
	Call(ctx context.Context, promptText string) (jsonString string, err error)
}

// Speech synthesizes spoken audio for text using the given voice.
type Speech interface {
	Synthesize(ctx context.Context, text, voice string) (audioBytes []byte, err error)
}

// Image generates an image for a prompt, returned as a base64-encoded
// payload (matching common image-generation API responses, e.g. OpenAI's
// b64_json field). The toImage handler decodes it before uploading.
type Image interface {
	Generate(ctx context.Context, prompt string) (base64Payload string, err error)
}

// BlobStore uploads and downloads opaque byte artifacts (audio, image) by
// bucket/key. Keys are opaque strings generated by the uploading handler.
type BlobStore interface {
	Upload(ctx context.Context, bucket, key string, data []byte) error
	Download(ctx context.Context, bucket, key string) ([]byte, error)
}

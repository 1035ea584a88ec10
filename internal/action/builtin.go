package action

import "github.com/lingominer/flashcard-engine/internal/backend"

// BuiltinBackends bundles the three backend implementations the built-in
// handlers dispatch to, plus the shared blob store and synthesis voice.
type BuiltinBackends struct {
	Completion backend.Completion
	Speech     backend.Speech
	Image      backend.Image
	Blobs      backend.BlobStore
	Voice      string
}

// NewBuiltinRegistry registers the three built-in methods — completion,
// toSpeech, toImage — against the given backends. Entrypoints
// share this constructor so the method catalog stays identical across the
// admin CLI, the MCP server, the TUI, and the REPL.
func NewBuiltinRegistry(b BuiltinBackends) *Registry {
	r := NewRegistry()
	r.Register("completion", NewCompletionHandler(b.Completion))
	r.Register("toSpeech", NewSpeechHandler(b.Speech, b.Blobs, b.Voice))
	r.Register("toImage", NewImageHandler(b.Image, b.Blobs))
	return r
}

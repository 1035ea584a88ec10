package backend

import (
	"context"
	"encoding/base64"
	"fmt"
	"sync"
)

// MemoryCompletion is a stub Completion backend that returns a
// pre-programmed JSON response (or a fixed placeholder) without
// calling out to any real model. Useful for dry runs and tests.
type MemoryCompletion struct {
	// Responses, if set, is consumed one call at a time in order. When
	// exhausted, Fallback is used.
	Responses []string
	// Fallback formats a response from the rendered prompt when Responses
	// is empty or exhausted. If nil, the response is a fixed JSON object
	// with a single "text" field.
	Fallback func(promptText string) string

	mu    sync.Mutex
	calls int
}

func (c *MemoryCompletion) Call(_ context.Context, promptText string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.calls < len(c.Responses) {
		resp := c.Responses[c.calls]
		c.calls++
		return resp, nil
	}
	c.calls++
	if c.Fallback != nil {
		return c.Fallback(promptText), nil
	}
	return `{"text":"stub completion response"}`, nil
}

// MemorySpeech is a stub Speech backend returning deterministic bytes.
type MemorySpeech struct{}

func (MemorySpeech) Synthesize(_ context.Context, text, voice string) ([]byte, error) {
	return []byte(fmt.Sprintf("audio(%s):%s", voice, text)), nil
}

// MemoryImage is a stub Image backend returning a base64-encoded payload,
// matching the real contract of Generate.
type MemoryImage struct{}

func (MemoryImage) Generate(_ context.Context, promptText string) (string, error) {
	return base64.StdEncoding.EncodeToString([]byte("image:" + promptText)), nil
}

// MemoryBlobStore is an in-process BlobStore backed by a map, for dry runs
// and tests that don't need a real object store.
type MemoryBlobStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{objects: make(map[string][]byte)}
}

func (s *MemoryBlobStore) Upload(_ context.Context, bucket, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[bucket+"/"+key] = append([]byte(nil), data...)
	return nil
}

func (s *MemoryBlobStore) Download(_ context.Context, bucket, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[bucket+"/"+key]
	if !ok {
		return nil, fmt.Errorf("object %s/%s not found", bucket, key)
	}
	return append([]byte(nil), data...), nil
}

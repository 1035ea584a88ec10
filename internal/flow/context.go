// Package flow implements the per-run Context (single-assignment,
// suspend-on-read field cells) and the Flow Executor that
// schedules a template's generations over it.
package flow

import (
	"context"
	"sync"

	"github.com/lingominer/flashcard-engine/internal/flowerr"
	"github.com/lingominer/flashcard-engine/internal/model"
)

// FieldState is a single-assignment, suspend-on-read cell. Exactly one Put
// may succeed; any number of Get calls may be waiting concurrently and all
// observe the identical value once resolved.
type FieldState struct {
	kind model.Kind

	mu       sync.Mutex
	value    string
	resolved chan struct{}
	done     bool
}

func newFieldState(kind model.Kind) *FieldState {
	return &FieldState{kind: kind, resolved: make(chan struct{})}
}

func resolvedFieldState(kind model.Kind, value string) *FieldState {
	fs := &FieldState{kind: kind, value: value, done: true, resolved: make(chan struct{})}
	close(fs.resolved)
	return fs
}

// Put resolves the cell exactly once. A second Put is a DoubleAssignError —
// it indicates a template-validation bug.
func (fs *FieldState) Put(value string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.done {
		return flowerr.NewDoubleAssign("")
	}
	fs.value = value
	fs.done = true
	close(fs.resolved)
	return nil
}

// Get suspends until the cell is resolved, the context is cancelled, or
// the context's deadline passes, whichever comes first.
func (fs *FieldState) Get(ctx context.Context) (string, model.Kind, error) {
	select {
	case <-fs.resolved:
		fs.mu.Lock()
		v := fs.value
		fs.mu.Unlock()
		return v, fs.kind, nil
	case <-ctx.Done():
		return "", fs.kind, flowerr.NewCancelled("")
	}
}

// Context is the per-run keyed store of FieldState cells.
type Context struct {
	mu         sync.RWMutex
	cells      map[string]*FieldState
	seedNames  map[string]bool
}

// NewContext constructs a Context, resolving every entry of seeds
// immediately.
func NewContext(seeds map[string]string) *Context {
	c := &Context{
		cells:     make(map[string]*FieldState),
		seedNames: make(map[string]bool, len(seeds)),
	}
	for name, value := range seeds {
		c.cells[name] = resolvedFieldState(model.KindText, value)
		c.seedNames[name] = true
	}
	return c
}

// Declare creates an unresolved cell for name/kind. Idempotent if an
// existing declaration has the same kind; otherwise an error (two
// generations cannot declare the same output field, which AddGeneration
// already prevents — Declare redundancy here is a defensive invariant).
func (c *Context) Declare(name string, kind model.Kind) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.cells[name]; ok {
		if existing.kind != kind {
			return flowerr.NewValidation(name, "field %q redeclared with kind %q, was %q", name, kind, existing.kind)
		}
		return nil
	}
	c.cells[name] = newFieldState(kind)
	return nil
}

// Put resolves a declared cell. Fails with DoubleAssignError if already
// resolved, or a validation error if name was never declared/seeded.
func (c *Context) Put(name, value string) error {
	c.mu.RLock()
	fs, ok := c.cells[name]
	c.mu.RUnlock()
	if !ok {
		return flowerr.NewValidation(name, "put on undeclared field %q", name)
	}
	if err := fs.Put(value); err != nil {
		if _, ok := err.(*flowerr.DoubleAssignError); ok {
			return flowerr.NewDoubleAssign(name)
		}
		return err
	}
	return nil
}

// Get suspends until name resolves or ctx is done.
func (c *Context) Get(ctx context.Context, name string) (string, model.Kind, error) {
	c.mu.RLock()
	fs, ok := c.cells[name]
	c.mu.RUnlock()
	if !ok {
		return "", "", flowerr.NewValidation(name, "get on undeclared field %q", name)
	}
	val, kind, err := fs.Get(ctx)
	if err != nil {
		if _, ok := err.(*flowerr.CancelledError); ok {
			return "", kind, flowerr.NewCancelled(name)
		}
		return "", kind, err
	}
	return val, kind, nil
}

// SeedNames returns the set of names pre-resolved at construction.
func (c *Context) SeedNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.seedNames))
	for n := range c.seedNames {
		out = append(out, n)
	}
	return out
}

// FieldValue is one entry of a Dump snapshot.
type FieldValue struct {
	Kind  model.Kind
	Value string
}

// Dump returns all resolved cells, excluding seeds unless excludeSeeds is
// false. Unresolved cells are omitted.
func (c *Context) Dump(excludeSeeds bool) map[string]FieldValue {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]FieldValue, len(c.cells))
	for name, fs := range c.cells {
		if excludeSeeds && c.seedNames[name] {
			continue
		}
		fs.mu.Lock()
		resolved := fs.done
		val := fs.value
		kind := fs.kind
		fs.mu.Unlock()
		if !resolved {
			continue
		}
		out[name] = FieldValue{Kind: kind, Value: val}
	}
	return out
}

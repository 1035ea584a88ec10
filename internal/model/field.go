// Package model implements the template metamodel: fields, generations,
// and the template that binds them, with the cross-entity invariants that
// keep a template executable.
package model

import (
	"github.com/google/uuid"
)

// Kind is the type of value a Field holds or a Generation produces.
type Kind string

const (
	KindText  Kind = "text"
	KindAudio Kind = "audio"
	KindImage Kind = "image"
)

func (k Kind) valid() bool {
	switch k {
	case KindText, KindAudio, KindImage:
		return true
	default:
		return false
	}
}

// Field is a named typed slot within one template. A field with a non-empty
// Source is produced by that generation; a field with an empty Source is a
// standalone field no generation produces. Seed fields are never stored in
// the registry (see Template.IsSeed).
type Field struct {
	ID           string
	Name         string
	Kind         Kind
	Description  string
	Source       string          // generation ID that produces this field, "" if none
	ReferencedBy map[string]bool // set of generation IDs that consume this field
}

func newField(name string, kind Kind, description, source string) *Field {
	return &Field{
		ID:           uuid.NewString(),
		Name:         name,
		Kind:         kind,
		Description:  description,
		Source:       source,
		ReferencedBy: make(map[string]bool),
	}
}

// Referenced reports whether any generation still consumes this field.
func (f *Field) Referenced() bool {
	return len(f.ReferencedBy) > 0
}

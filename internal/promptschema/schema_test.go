package promptschema

import "testing"

func TestBuildAndValidate_RequiredKeysEnforced(t *testing.T) {
	outputs := []OutputField{{Name: "translation", Description: "the translated text"}}

	if err := Validate(outputs, map[string]any{"translation": "hola"}); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}
	if err := Validate(outputs, map[string]any{}); err == nil {
		t.Fatal("expected validation error for missing required key")
	}
}

func TestValidate_ExtraKeysAllowed(t *testing.T) {
	outputs := []OutputField{{Name: "translation"}}
	err := Validate(outputs, map[string]any{"translation": "hola", "extra": "dropped by caller"})
	if err != nil {
		t.Fatalf("extra keys should not fail schema validation, got %v", err)
	}
}

func TestMarshal_ProducesReadableJSON(t *testing.T) {
	s := Build([]OutputField{{Name: "a", Description: "field a"}})
	out, err := Marshal(s)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if out == "" {
		t.Fatal("expected non-empty schema JSON")
	}
}

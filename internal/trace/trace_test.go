package trace

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestEmit_WritesOneJSONLineWithRunID(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, "run-1")

	if err := w.EmitRunStart("tmpl-1", 3); err != nil {
		t.Fatalf("EmitRunStart: %v", err)
	}
	if err := w.EmitTask(EventTaskRunning, "translate", nil); err != nil {
		t.Fatalf("EmitTask: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 JSONL lines, got %d: %q", len(lines), buf.String())
	}

	var first Event
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("unmarshal first line: %v", err)
	}
	if first.Type != EventRunStart || first.RunID != "run-1" {
		t.Errorf("first event = %+v", first)
	}
	if first.Data["template_id"] != "tmpl-1" {
		t.Errorf("template_id = %v", first.Data["template_id"])
	}

	var second Event
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatalf("unmarshal second line: %v", err)
	}
	if second.Type != EventTaskRunning || second.Data["generation"] != "translate" {
		t.Errorf("second event = %+v", second)
	}
}

func TestEmitRunComplete_IncludesErrorOnlyWhenSet(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, "run-2")

	if err := w.EmitRunComplete("ok", 0, ""); err != nil {
		t.Fatalf("EmitRunComplete: %v", err)
	}
	var evt Event
	if err := json.Unmarshal(buf.Bytes(), &evt); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, hasError := evt.Data["error"]; hasError {
		t.Errorf("expected no error key when errMsg is empty, got %v", evt.Data)
	}
}

func TestClose_NoopOnNonCloserWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, "run-3")
	if err := w.Close(); err != nil {
		t.Errorf("Close on non-Closer writer should be a no-op, got %v", err)
	}
}

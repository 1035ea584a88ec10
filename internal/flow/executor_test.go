package flow

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/lingominer/flashcard-engine/internal/flowerr"
	"github.com/lingominer/flashcard-engine/internal/model"
)

// fakeInvoker is a minimal ActionInvoker: every method is registered with a
// fixed output-kind signature, and invocation is delegated to a per-test
// closure keyed by generation name.
type fakeInvoker struct {
	calls map[string]func(ctx context.Context, inputs map[string]FieldValue) (map[string]FieldValue, error)
}

func (f *fakeInvoker) Lookup(method string) (bool, []model.Kind, bool, bool) {
	return false, []model.Kind{model.KindText, model.KindAudio, model.KindImage}, false, true
}

func (f *fakeInvoker) Invoke(ctx context.Context, gen *model.Generation, inputs map[string]FieldValue) (map[string]FieldValue, error) {
	fn, ok := f.calls[gen.Name]
	if !ok {
		return nil, fmt.Errorf("no fake handler registered for generation %q", gen.Name)
	}
	return fn(ctx, inputs)
}

func buildTemplate(t *testing.T, methods model.MethodCatalog, seeds []string, add func(tmpl *model.Template)) *model.Template {
	t.Helper()
	tmpl := model.New("t", "en", "owner", seeds, methods)
	add(tmpl)
	return tmpl
}

func TestExecutor_LinearChain(t *testing.T) {
	invoker := &fakeInvoker{calls: map[string]func(context.Context, map[string]FieldValue) (map[string]FieldValue, error){
		"step1": func(ctx context.Context, inputs map[string]FieldValue) (map[string]FieldValue, error) {
			return map[string]FieldValue{"mid": {Kind: model.KindText, Value: inputs["paragraph"].Value + "-step1"}}, nil
		},
		"step2": func(ctx context.Context, inputs map[string]FieldValue) (map[string]FieldValue, error) {
			return map[string]FieldValue{"out": {Kind: model.KindText, Value: inputs["mid"].Value + "-step2"}}, nil
		},
	}}

	tmpl := buildTemplate(t, invoker, []string{"paragraph"}, func(tmpl *model.Template) {
		if _, err := tmpl.AddGeneration("step1", "fake", "{{paragraph}}", []string{"paragraph"}, []model.OutputSpec{{Name: "mid", Kind: model.KindText}}); err != nil {
			t.Fatalf("add step1: %v", err)
		}
		if _, err := tmpl.AddGeneration("step2", "fake", "{{mid}}", []string{"mid"}, []model.OutputSpec{{Name: "out", Kind: model.KindText}}); err != nil {
			t.Fatalf("add step2: %v", err)
		}
	})

	exec := New(invoker)
	result, err := exec.Run(context.Background(), tmpl, map[string]string{"paragraph": "hello"}, RunConfig{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result["out"].Value != "hello-step1-step2" {
		t.Errorf("out = %q, want %q", result["out"].Value, "hello-step1-step2")
	}
}

func TestExecutor_FanOutRunsConcurrently(t *testing.T) {
	const sleep = 80 * time.Millisecond
	invoker := &fakeInvoker{calls: map[string]func(context.Context, map[string]FieldValue) (map[string]FieldValue, error){
		"left": func(ctx context.Context, inputs map[string]FieldValue) (map[string]FieldValue, error) {
			time.Sleep(sleep)
			return map[string]FieldValue{"left_out": {Kind: model.KindText, Value: "L"}}, nil
		},
		"right": func(ctx context.Context, inputs map[string]FieldValue) (map[string]FieldValue, error) {
			time.Sleep(sleep)
			return map[string]FieldValue{"right_out": {Kind: model.KindText, Value: "R"}}, nil
		},
	}}

	tmpl := buildTemplate(t, invoker, []string{"paragraph"}, func(tmpl *model.Template) {
		tmpl.AddGeneration("left", "fake", "{{paragraph}}", []string{"paragraph"}, []model.OutputSpec{{Name: "left_out", Kind: model.KindText}})
		tmpl.AddGeneration("right", "fake", "{{paragraph}}", []string{"paragraph"}, []model.OutputSpec{{Name: "right_out", Kind: model.KindText}})
	})

	exec := New(invoker)
	start := time.Now()
	_, err := exec.Run(context.Background(), tmpl, map[string]string{"paragraph": "x"}, RunConfig{})
	elapsed := time.Since(start)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if elapsed >= 2*sleep {
		t.Errorf("elapsed %s suggests the two branches ran sequentially, not concurrently", elapsed)
	}
}

func TestExecutor_FailFastCancelsOtherTasks(t *testing.T) {
	cancelled := make(chan struct{}, 1)
	invoker := &fakeInvoker{calls: map[string]func(context.Context, map[string]FieldValue) (map[string]FieldValue, error){
		"failing": func(ctx context.Context, inputs map[string]FieldValue) (map[string]FieldValue, error) {
			return nil, fmt.Errorf("boom")
		},
		"blocked": func(ctx context.Context, inputs map[string]FieldValue) (map[string]FieldValue, error) {
			<-ctx.Done()
			cancelled <- struct{}{}
			return nil, ctx.Err()
		},
	}}

	tmpl := buildTemplate(t, invoker, []string{"paragraph"}, func(tmpl *model.Template) {
		tmpl.AddGeneration("failing", "fake", "{{paragraph}}", []string{"paragraph"}, []model.OutputSpec{{Name: "f_out", Kind: model.KindText}})
		tmpl.AddGeneration("blocked", "fake", "{{paragraph}}", []string{"paragraph"}, []model.OutputSpec{{Name: "b_out", Kind: model.KindText}})
	})

	exec := New(invoker)
	_, err := exec.Run(context.Background(), tmpl, map[string]string{"paragraph": "x"}, RunConfig{})
	if err == nil {
		t.Fatal("expected run to fail")
	}

	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("expected the blocked task to observe cancellation after the failing task errored")
	}
}

func TestExecutor_TimeoutProducesTimeoutError(t *testing.T) {
	invoker := &fakeInvoker{calls: map[string]func(context.Context, map[string]FieldValue) (map[string]FieldValue, error){
		"slow": func(ctx context.Context, inputs map[string]FieldValue) (map[string]FieldValue, error) {
			select {
			case <-time.After(200 * time.Millisecond):
				return map[string]FieldValue{"out": {Kind: model.KindText, Value: "late"}}, nil
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		},
	}}

	tmpl := buildTemplate(t, invoker, []string{"paragraph"}, func(tmpl *model.Template) {
		tmpl.AddGeneration("slow", "fake", "{{paragraph}}", []string{"paragraph"}, []model.OutputSpec{{Name: "out", Kind: model.KindText}})
	})

	exec := New(invoker)
	_, err := exec.Run(context.Background(), tmpl, map[string]string{"paragraph": "x"}, RunConfig{Timeout: 20 * time.Millisecond})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if _, ok := err.(*flowerr.TimeoutError); !ok {
		t.Fatalf("expected TimeoutError, got %T: %v", err, err)
	}
}

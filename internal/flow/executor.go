package flow

import (
	"context"
	"sync"
	"time"

	"github.com/lingominer/flashcard-engine/internal/flowerr"
	"github.com/lingominer/flashcard-engine/internal/model"
	"github.com/lingominer/flashcard-engine/internal/trace"
)

// ActionInvoker is the subset of the Action Registry the Flow Executor
// needs: re-validating a generation's method at run start, and
// invoking it once inputs are resolved.
type ActionInvoker interface {
	model.MethodCatalog
	Invoke(ctx context.Context, gen *model.Generation, inputs map[string]FieldValue) (map[string]FieldValue, error)
}

// RunConfig configures one Executor.Run call.
type RunConfig struct {
	Timeout time.Duration // <= 0 means unbounded
	Tracer  *trace.Writer // optional
	RunID   string
}

// Executor schedules all generations of one run concurrently over a
// Context,
type Executor struct {
	actions ActionInvoker
}

// New creates a Flow Executor bound to an Action Registry.
func New(actions ActionInvoker) *Executor {
	return &Executor{actions: actions}
}

// Run executes every generation of tmpl against a freshly-seeded Context
// and returns the persisted-card content, or the first
// terminal error encountered by any task.
func (e *Executor) Run(ctx context.Context, tmpl *model.Template, seeds map[string]string, cfg RunConfig) (map[string]FieldValue, error) {
	for _, gen := range tmpl.Generations() {
		if _, _, _, ok := e.actions.Lookup(gen.Method); !ok {
			return nil, flowerr.NewValidation(gen.Name, "generation %q references unregistered method %q", gen.Name, gen.Method)
		}
	}

	runCtx := ctx
	var cancel context.CancelFunc
	if cfg.Timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, cfg.Timeout)
	} else {
		runCtx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	fctx := NewContext(seeds)
	generations := tmpl.Generations()

	// Bind: declare every output cell before any task starts reading.
	for _, gen := range generations {
		for _, outName := range gen.Outputs {
			f, ok := tmpl.Field(outName)
			if !ok {
				return nil, flowerr.NewValidation(outName, "generation %q declares unknown output %q", gen.Name, outName)
			}
			if err := fctx.Declare(outName, f.Kind); err != nil {
				return nil, err
			}
		}
	}

	if cfg.Tracer != nil {
		cfg.Tracer.EmitRunStart(tmpl.ID, len(generations))
	}
	start := time.Now()

	var (
		wg       sync.WaitGroup
		failOnce sync.Once
		firstErr error
	)
	fail := func(err error) {
		failOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

	seedNames := fctx.SeedNames()
	for _, gen := range generations {
		wg.Add(1)
		go func(gen *model.Generation) {
			defer wg.Done()
			e.runTask(runCtx, fctx, gen, seedNames, cfg.Tracer, fail)
		}(gen)
	}
	wg.Wait()

	status := "completed"
	var errMsg string
	if runCtx.Err() == context.DeadlineExceeded {
		// Tasks unblocked by the deadline report CancelledError; the run
		// itself failed because of the timeout.
		if _, cancelled := firstErr.(*flowerr.CancelledError); firstErr == nil || cancelled {
			firstErr = flowerr.NewTimeout(cfg.Timeout.Seconds())
		}
	}
	if firstErr != nil {
		status = "failed"
		errMsg = firstErr.Error()
	}
	if cfg.Tracer != nil {
		cfg.Tracer.EmitRunComplete(status, time.Since(start), errMsg)
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return fctx.Dump(true), nil
}

// runTask runs one generation's task to completion: gather inputs
// (suspending on unresolved fields), invoke the action, write outputs.
// A cancelled task must not call Put.
func (e *Executor) runTask(ctx context.Context, fctx *Context, gen *model.Generation, seedNames []string, tracer *trace.Writer, fail func(error)) {
	emit := func(evt trace.EventType, extra map[string]any) {
		if tracer != nil {
			tracer.EmitTask(evt, gen.Name, extra)
		}
	}
	emit(trace.EventTaskRunning, nil)

	names := dedupAppend(gen.Inputs, seedNames)
	inputs := make(map[string]FieldValue, len(names))
	for _, name := range names {
		emit(trace.EventTaskWaiting, map[string]any{"field": name})
		val, kind, err := fctx.Get(ctx, name)
		if err != nil {
			emit(trace.EventTaskCancelled, map[string]any{"field": name})
			fail(err)
			return
		}
		inputs[name] = FieldValue{Kind: kind, Value: val}
	}

	outputs, err := e.actions.Invoke(ctx, gen, inputs)
	if err != nil {
		if ctx.Err() != nil {
			emit(trace.EventTaskCancelled, nil)
			fail(flowerr.NewCancelled(gen.Name))
			return
		}
		emit(trace.EventTaskFailed, map[string]any{"error": err.Error()})
		fail(err)
		return
	}

	if ctx.Err() != nil {
		// Cancelled while the action was in flight; discard outputs rather
		// than racing a Put against a torn-down run.
		emit(trace.EventTaskCancelled, nil)
		fail(flowerr.NewCancelled(gen.Name))
		return
	}

	for _, outName := range gen.Outputs {
		fv, ok := outputs[outName]
		if !ok {
			fail(flowerr.NewParse(nil, "generation %q did not produce declared output %q", gen.Name, outName))
			return
		}
		if err := fctx.Put(outName, fv.Value); err != nil {
			fail(err)
			return
		}
	}
	emit(trace.EventTaskDone, nil)
}

func dedupAppend(inputs, seeds []string) []string {
	seen := make(map[string]bool, len(inputs)+len(seeds))
	out := make([]string, 0, len(inputs)+len(seeds))
	for _, n := range inputs {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	for _, n := range seeds {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

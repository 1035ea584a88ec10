package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lingominer/flashcard-engine/internal/flow"
	"github.com/lingominer/flashcard-engine/internal/model"
	"github.com/lingominer/flashcard-engine/internal/trace"
)

// Run launches a Bubble Tea program that visualizes one execution of tmpl,
// streaming the executor's trace events as they're emitted.
func Run(ctx context.Context, exec *flow.Executor, tmpl *model.Template, seeds map[string]string, timeout time.Duration, runID string) (map[string]flow.FieldValue, error) {
	names := make([]string, 0, len(tmpl.Generations()))
	for _, gen := range tmpl.Generations() {
		names = append(names, gen.Name)
	}

	m := NewModel(tmpl.Name, names)
	p := tea.NewProgram(m)

	sink := newChannelSink(64)
	tracer := trace.NewWriter(sink, runID)

	go func() {
		for evt := range sink.events {
			p.Send(eventMsg(evt))
		}
	}()

	go func() {
		result, err := exec.Run(ctx, tmpl, seeds, flow.RunConfig{Timeout: timeout, Tracer: tracer, RunID: runID})
		sink.Close()
		p.Send(runDoneMsg{result: result, err: err})
	}()

	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}
	final := finalModel.(Model)
	return final.result, final.err
}

package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lingominer/flashcard-engine/internal/flow"
	"github.com/lingominer/flashcard-engine/internal/trace"
)

type stepState struct {
	name   string
	status trace.EventType
	detail string
}

// eventMsg wraps one trace event forwarded from the running executor.
type eventMsg trace.Event

// runDoneMsg is sent once Executor.Run returns.
type runDoneMsg struct {
	result map[string]flow.FieldValue
	err    error
}

// Model is the Bubble Tea model for the run visualizer.
type Model struct {
	templateName string
	order        []string
	steps        map[string]*stepState
	spinner      spinner.Model
	start        time.Time

	done   bool
	err    error
	result map[string]flow.FieldValue

	width, height int
}

// NewModel builds the initial model for a run over the given generation
// names, in execution order as declared by the template.
func NewModel(templateName string, generationNames []string) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	steps := make(map[string]*stepState, len(generationNames))
	for _, n := range generationNames {
		steps[n] = &stepState{name: n, status: trace.EventTaskPending}
	}
	return Model{
		templateName: templateName,
		order:        generationNames,
		steps:        steps,
		spinner:      sp,
		start:        time.Now(),
	}
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case eventMsg:
		m.applyEvent(trace.Event(msg))
		return m, nil
	case runDoneMsg:
		m.done = true
		m.err = msg.err
		m.result = msg.result
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) applyEvent(evt trace.Event) {
	name, _ := evt.Data["generation"].(string)
	step, ok := m.steps[name]
	if !ok {
		return
	}
	step.status = evt.Type
	switch evt.Type {
	case trace.EventTaskWaiting:
		if field, ok := evt.Data["field"].(string); ok {
			step.detail = "waiting on " + field
		}
	case trace.EventTaskFailed:
		if msg, ok := evt.Data["error"].(string); ok {
			step.detail = msg
		}
	case trace.EventTaskDone:
		step.detail = "done"
	case trace.EventTaskCancelled:
		step.detail = "cancelled"
	}
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("flashcard run — %s", m.templateName)))
	b.WriteString("\n\n")

	for _, name := range m.order {
		step := m.steps[name]
		b.WriteString(renderStepLine(m.spinner, step))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.done {
		if m.err != nil {
			b.WriteString(stepFailed.Render(fmt.Sprintf("run failed: %s", m.err)))
		} else {
			b.WriteString(stepDone.Render(fmt.Sprintf("run completed in %s", time.Since(m.start).Round(time.Millisecond))))
			b.WriteString("\n\n")
			b.WriteString(renderResultMarkdown(m.result))
		}
		b.WriteString("\n")
	}
	b.WriteString(detailStyle.Faint(true).Render("q to quit"))
	return panelBorder.Render(b.String())
}

func renderStepLine(sp spinner.Model, step *stepState) string {
	switch step.status {
	case trace.EventTaskPending:
		return stepPending.Render(GlyphPending + " " + step.name)
	case trace.EventTaskRunning:
		return stepRunning.Render(sp.View() + " " + step.name)
	case trace.EventTaskWaiting:
		return stepWaiting.Render(GlyphWaiting + " " + step.name + " (" + step.detail + ")")
	case trace.EventTaskDone:
		return stepDone.Render(GlyphDone + " " + step.name)
	case trace.EventTaskFailed:
		return stepFailed.Render(GlyphFailed + " " + step.name + ": " + step.detail)
	case trace.EventTaskCancelled:
		return stepCancelled.Render(GlyphCancelled + " " + step.name)
	default:
		return stepPending.Render(GlyphPending + " " + step.name)
	}
}

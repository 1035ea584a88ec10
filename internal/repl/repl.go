// Package repl implements an interactive REPL for setting seed field
// values, running a template, and inspecting the resulting context.
package repl

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/google/uuid"

	"github.com/lingominer/flashcard-engine/internal/flow"
	"github.com/lingominer/flashcard-engine/internal/model"
)

// REPL drives one interactive session against a single loaded template.
type REPL struct {
	tmpl    *model.Template
	exec    *flow.Executor
	timeout time.Duration
	output  io.Writer

	seeds  map[string]string
	result map[string]flow.FieldValue
	runErr error
}

// New creates a REPL bound to a template and executor.
func New(tmpl *model.Template, exec *flow.Executor, timeout time.Duration) *REPL {
	return &REPL{
		tmpl:    tmpl,
		exec:    exec,
		timeout: timeout,
		output:  os.Stdout,
		seeds:   make(map[string]string),
	}
}

// Run starts the interactive loop until the user quits or EOF is reached.
func (r *REPL) Run(ctx context.Context) error {
	commands := []string{"set", "run", "dump", "fields", "generations", "seeds", "help", "quit"}
	completer := readline.NewPrefixCompleter()
	for _, cmd := range commands {
		completer.Children = append(completer.Children, readline.PcItem(cmd))
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          r.buildPrompt(),
		AutoComplete:    completer,
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return fmt.Errorf("init readline: %w", err)
	}
	defer rl.Close()

	fmt.Fprintf(r.output, "flashcard repl — template %q (%d generations)\n", r.tmpl.Name, len(r.tmpl.Generations()))
	fmt.Fprintf(r.output, "Type 'help' for available commands.\n\n")

	for {
		rl.SetPrompt(r.buildPrompt())
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt || err == io.EOF {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.Fields(line)
		cmd := parts[0]

		switch cmd {
		case "set":
			r.handleSet(parts)
		case "run":
			r.handleRun(ctx)
		case "dump":
			r.handleDump()
		case "fields":
			r.handleFields()
		case "generations":
			r.handleGenerations()
		case "seeds":
			r.handleSeeds()
		case "help", "?":
			r.handleHelp()
		case "quit", "q":
			fmt.Fprintln(r.output, "Exiting.")
			return nil
		default:
			fmt.Fprintf(r.output, "Unknown command: %q. Type 'help' for available commands.\n", cmd)
		}
	}
}

func (r *REPL) buildPrompt() string {
	if r.result != nil {
		return fmt.Sprintf("flashcard[%s|done]> ", r.tmpl.Name)
	}
	return fmt.Sprintf("flashcard[%s]> ", r.tmpl.Name)
}

func (r *REPL) handleSet(parts []string) {
	if len(parts) < 2 || !strings.Contains(parts[1], "=") {
		fmt.Fprintln(r.output, "usage: set <name>=<value>")
		return
	}
	rest := strings.Join(parts[1:], " ")
	eq := strings.IndexByte(rest, '=')
	name, value := rest[:eq], rest[eq+1:]
	r.seeds[name] = value
	r.result = nil
	fmt.Fprintf(r.output, "%s = %q\n", name, value)
}

func (r *REPL) handleRun(ctx context.Context) {
	runCtx := ctx
	result, err := r.exec.Run(runCtx, r.tmpl, r.seeds, flow.RunConfig{Timeout: r.timeout, RunID: uuid.NewString()})
	r.result = result
	r.runErr = err
	if err != nil {
		fmt.Fprintf(r.output, "run failed: %v\n", err)
		return
	}
	fmt.Fprintf(r.output, "run completed, %d field(s) produced\n", len(result))
}

func (r *REPL) handleDump() {
	if r.result == nil {
		if r.runErr != nil {
			fmt.Fprintf(r.output, "last run failed: %v\n", r.runErr)
		} else {
			fmt.Fprintln(r.output, "no run yet — use 'run'")
		}
		return
	}
	names := make([]string, 0, len(r.result))
	for name := range r.result {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fv := r.result[name]
		fmt.Fprintf(r.output, "%s (%s): %s\n", name, fv.Kind, fv.Value)
	}
}

func (r *REPL) handleFields() {
	for _, f := range r.tmpl.Fields() {
		src := "seed/external"
		if f.Source != "" {
			src = "generation:" + f.Source
		}
		fmt.Fprintf(r.output, "%s (%s) <- %s\n", f.Name, f.Kind, src)
	}
}

func (r *REPL) handleGenerations() {
	for _, g := range r.tmpl.Generations() {
		fmt.Fprintf(r.output, "%s [%s] inputs=%v outputs=%v\n", g.Name, g.Method, g.Inputs, g.Outputs)
	}
}

func (r *REPL) handleSeeds() {
	names := make([]string, 0, len(r.seeds))
	for name := range r.seeds {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(r.output, "%s = %q\n", name, r.seeds[name])
	}
}

func (r *REPL) handleHelp() {
	fmt.Fprintln(r.output, `Commands:
  set <name>=<value>   set a seed field value
  seeds                list currently set seed values
  fields               list the template's registered fields
  generations          list the template's generations
  run                  execute the template against the current seeds
  dump                 print the fields produced by the last run
  help                 show this message
  quit                 exit the repl`)
}

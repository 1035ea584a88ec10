// Package main provides the flashcard-repl binary — an interactive REPL
// for driving a single template's run against stub backends.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/lingominer/flashcard-engine/internal/action"
	"github.com/lingominer/flashcard-engine/internal/backend"
	"github.com/lingominer/flashcard-engine/internal/config"
	"github.com/lingominer/flashcard-engine/internal/flow"
	"github.com/lingominer/flashcard-engine/internal/repl"
	"github.com/lingominer/flashcard-engine/internal/templateio"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: flashcard-repl <template.yaml>")
		os.Exit(1)
	}

	cfg := config.Default()
	methods := action.NewBuiltinRegistry(action.BuiltinBackends{
		Completion: &backend.MemoryCompletion{},
		Speech:     backend.MemorySpeech{},
		Image:      backend.MemoryImage{},
		Blobs:      backend.NewMemoryBlobStore(),
		Voice:      "default",
	})

	doc, err := templateio.LoadFile(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if len(doc.SeedFields) == 0 {
		doc.SeedFields = cfg.SeedFieldNames
	}
	tmpl, err := templateio.Import(doc, methods)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	exec := flow.New(methods)
	timeout := time.Duration(cfg.RunTimeoutSeconds * float64(time.Second))
	r := repl.New(tmpl, exec, timeout)
	if err := r.Run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

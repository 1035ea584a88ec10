// Package main provides the flashcard-tui binary — a live terminal
// visualizer for one template run.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/lingominer/flashcard-engine/internal/action"
	"github.com/lingominer/flashcard-engine/internal/backend"
	"github.com/lingominer/flashcard-engine/internal/config"
	"github.com/lingominer/flashcard-engine/internal/flow"
	"github.com/lingominer/flashcard-engine/internal/templateio"
	"github.com/lingominer/flashcard-engine/internal/tui"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: flashcard-tui <template.yaml> [seeds.yaml]")
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

	seeds := make(map[string]string)
	if len(os.Args) > 2 {
		data, err := os.ReadFile(os.Args[2])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		if err := yaml.Unmarshal(data, &seeds); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	exec := flow.New(methods)
	timeout := time.Duration(cfg.RunTimeoutSeconds * float64(time.Second))
	if _, err := tui.Run(context.Background(), exec, tmpl, seeds, timeout, uuid.NewString()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

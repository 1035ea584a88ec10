package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/lingominer/flashcard-engine/internal/action"
	"github.com/lingominer/flashcard-engine/internal/backend"
	"github.com/lingominer/flashcard-engine/internal/config"
	"github.com/lingominer/flashcard-engine/internal/flow"
	"github.com/lingominer/flashcard-engine/internal/store"
	"github.com/lingominer/flashcard-engine/internal/templateio"
	"github.com/lingominer/flashcard-engine/internal/trace"
)

var (
	runSeedsFile  string
	runConfigFile string
	runTracePath  string
)

var runCmd = &cobra.Command{
	Use:   "run [template.yaml]",
	Short: "Run a template against stub backends and print the produced fields",
	Args:  cobra.ExactArgs(1),
	RunE:  runRun,
}

func init() {
	runCmd.Flags().StringVar(&runSeedsFile, "seeds", "", "YAML file mapping seed field name to value")
	runCmd.Flags().StringVar(&runConfigFile, "config", "", "YAML config file (run_timeout_seconds, seed_field_names, ...)")
	runCmd.Flags().StringVar(&runTracePath, "trace", "", "write a JSONL trace of the run to this path")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if runConfigFile != "" {
		loaded, err := config.Load(runConfigFile)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	seeds := make(map[string]string, len(cfg.SeedFieldNames))
	if runSeedsFile != "" {
		data, err := os.ReadFile(runSeedsFile)
		if err != nil {
			return fmt.Errorf("read seeds file: %w", err)
		}
		if err := yaml.Unmarshal(data, &seeds); err != nil {
			return fmt.Errorf("parse seeds file: %w", err)
		}
	}

	methods := action.NewBuiltinRegistry(action.BuiltinBackends{
		Completion: &backend.MemoryCompletion{},
		Speech:     backend.MemorySpeech{},
		Image:      backend.MemoryImage{},
		Blobs:      backend.NewMemoryBlobStore(),
		Voice:      "default",
	})

	doc, err := templateio.LoadFile(args[0])
	if err != nil {
		return err
	}
	if len(doc.SeedFields) == 0 {
		doc.SeedFields = cfg.SeedFieldNames
	}
	tmpl, err := templateio.Import(doc, methods)
	if err != nil {
		return fmt.Errorf("invalid template: %w", err)
	}

	runCfg := flow.RunConfig{
		Timeout: time.Duration(cfg.RunTimeoutSeconds * float64(time.Second)),
		RunID:   uuid.NewString(),
	}
	if runTracePath != "" {
		tracer, err := trace.NewFileWriter(runTracePath, runCfg.RunID)
		if err != nil {
			return err
		}
		defer tracer.Close()
		runCfg.Tracer = tracer
	}

	exec := flow.New(methods)
	result, err := exec.Run(context.Background(), tmpl, seeds, runCfg)
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}

	cardStore := store.NewMemoryStore()
	content := make(map[string]store.ContentValue, len(result))
	for name, fv := range result {
		content[name] = store.ContentValue{Type: string(fv.Kind), Value: fv.Value}
	}
	if err := cardStore.InsertCard(context.Background(), store.Card{
		TemplateID: tmpl.ID,
		Paragraph:  seeds["paragraph"],
		Content:    content,
		Status:     "ready",
	}); err != nil {
		return err
	}

	for name, fv := range result {
		fmt.Printf("%s (%s): %s\n", name, fv.Kind, fv.Value)
	}
	return nil
}

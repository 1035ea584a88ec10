package main

import (
	"bufio"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func main() {
	loadDotEnv()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadDotEnv reads a .env file from the working directory and sets any
// variables not already set in the environment. Lines are KEY=VALUE.
// Comments (#) and blanks are skipped.
func loadDotEnv() {
	f, err := os.Open(".env")
	if err != nil {
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		val := strings.Trim(strings.TrimSpace(parts[1]), `"'`)
		if os.Getenv(key) == "" {
			os.Setenv(key, val)
		}
	}
}

var rootCmd = &cobra.Command{
	Use:   "flashcard-admin",
	Short: "Template authoring and run tool for the flashcard generation engine",
	Long:  "flashcard-admin — define fields, generations and templates, and run them against in-memory stub backends.",
}

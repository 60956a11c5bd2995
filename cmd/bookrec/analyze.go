// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/bookrec/internal/analyze"
	"github.com/pdiddy/bookrec/internal/llm"
	"github.com/pdiddy/bookrec/internal/usage"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze TOPIC",
	Short: "Analyze a single topic into search keywords",
	Long: `Analyze runs the topic-analysis stage once and prints the resulting
keywords, academic field, difficulty, and cautions as JSON. Useful for
inspecting what the model makes of a topic before a full batch run.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := pipelineConfig()
		if err := requireModelKey(&cfg); err != nil {
			return err
		}

		client, err := llm.New(cfg.AI)
		if err != nil {
			return err
		}

		analysis := analyze.NewAnalyzer(client, usage.Nop{}).Analyze(cmd.Context(), args[0])
		if analysis.Cautions != "" && len(analysis.Keywords) == 0 {
			fmt.Fprintf(os.Stderr, "warning: %s\n", analysis.Cautions)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(analysis)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

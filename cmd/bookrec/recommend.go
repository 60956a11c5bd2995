// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/bookrec/internal/analyze"
	"github.com/pdiddy/bookrec/internal/llm"
	"github.com/pdiddy/bookrec/internal/pipeline"
	"github.com/pdiddy/bookrec/internal/report"
	"github.com/pdiddy/bookrec/internal/search"
	"github.com/pdiddy/bookrec/internal/secrets"
	"github.com/pdiddy/bookrec/internal/usage"
	"github.com/pdiddy/bookrec/internal/verify"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend [topic...]",
	Short: "Run the full recommendation pipeline over a batch of topics",
	Long: `Recommend analyzes each topic into search keywords, searches the book
service, scores the candidates with the model, and keeps the top
recommendations per topic. Topics come from a YAML topic file
(--topics) or directly as arguments.

Outputs: a full JSON result (--out), an optional score-free public
view (--simple-out), an optional YAML run archive (--run-file), and a
console summary with a model-usage report.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		topicsPath, _ := cmd.Flags().GetString("topics")
		outPath, _ := cmd.Flags().GetString("out")
		simplePath, _ := cmd.Flags().GetString("simple-out")
		runPath, _ := cmd.Flags().GetString("run-file")

		topics := args
		if topicsPath != "" {
			fileTopics, err := pipeline.ReadTopicFile(topicsPath)
			if err != nil {
				return err
			}
			topics = append(fileTopics, topics...)
		}
		if len(topics) == 0 {
			return fmt.Errorf("no topics: pass --topics FILE or topic arguments")
		}

		cfg := pipelineConfig()
		if err := requireModelKey(&cfg); err != nil {
			return err
		}
		if n, _ := cmd.Flags().GetInt("top-n"); n > 0 {
			cfg.Batch.TopN = n
		}

		naverID, err := secrets.Require(loadedSecrets, secrets.KeyNaverClientID)
		if err != nil {
			return err
		}
		naverSecret, err := secrets.Require(loadedSecrets, secrets.KeyNaverClientSecret)
		if err != nil {
			return err
		}

		client, err := llm.New(cfg.AI)
		if err != nil {
			return err
		}
		tracker := usage.NewTracker()

		p := pipeline.New(
			analyze.NewAnalyzer(client, tracker),
			search.NewClient(search.NewNaverBackend(naverID, naverSecret, cfg.Search.HTTPConfig), cfg.Search, os.Stderr),
			verify.NewVerifier(client, tracker, cfg.Verify, os.Stderr),
			cfg.Batch,
			os.Stderr,
		)

		result := pipeline.RunBatch(cmd.Context(), p, topics, os.Stderr)

		if outPath != "" {
			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("creating %s: %w", outPath, err)
			}
			defer f.Close()
			if err := report.WriteJSON(result, f); err != nil {
				return fmt.Errorf("writing %s: %w", outPath, err)
			}
			fmt.Fprintf(os.Stderr, "Results written to %s\n", outPath)
		}

		if simplePath != "" {
			f, err := os.Create(simplePath)
			if err != nil {
				return fmt.Errorf("creating %s: %w", simplePath, err)
			}
			defer f.Close()
			if err := report.WriteSimpleJSON(result, f); err != nil {
				return fmt.Errorf("writing %s: %w", simplePath, err)
			}
			fmt.Fprintf(os.Stderr, "Public view written to %s\n", simplePath)
		}

		if runPath != "" {
			// Credentials never reach the archive.
			archived := cfg
			archived.AI.APIKey = ""
			if err := pipeline.WriteRunFile(runPath, archived, result, tracker.Calls(), tracker.TotalCostUSD()); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Run archived to %s\n", runPath)
		}

		report.WriteSummary(result, os.Stdout)
		tracker.WriteReport(os.Stderr)
		return nil
	},
}

func init() {
	recommendCmd.Flags().String("topics", "", "YAML topic file (topics: [...])")
	recommendCmd.Flags().String("out", "recommendations.json", "full JSON output path")
	recommendCmd.Flags().String("simple-out", "", "score-free public JSON output path")
	recommendCmd.Flags().String("run-file", "", "YAML run archive path")
	recommendCmd.Flags().Int("top-n", 0, "recommendations kept per topic (overrides config)")

	rootCmd.AddCommand(recommendCmd)
}

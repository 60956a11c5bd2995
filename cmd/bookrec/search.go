// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/bookrec/internal/search"
	"github.com/pdiddy/bookrec/internal/secrets"
)

var searchCmd = &cobra.Command{
	Use:   "search KEYWORD [KEYWORD...]",
	Short: "Search the book service for candidates",
	Long: `Search runs the book-search stage once with the given keywords and
prints the deduplicated candidates as JSON. Only the first three
keywords are used, matching the pipeline's search contract.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := pipelineConfig()
		if n, _ := cmd.Flags().GetInt("max-results"); n > 0 {
			cfg.Search.MaxPerKeyword = n
		}

		naverID, err := secrets.Require(loadedSecrets, secrets.KeyNaverClientID)
		if err != nil {
			return err
		}
		naverSecret, err := secrets.Require(loadedSecrets, secrets.KeyNaverClientSecret)
		if err != nil {
			return err
		}

		client := search.NewClient(
			search.NewNaverBackend(naverID, naverSecret, cfg.Search.HTTPConfig),
			cfg.Search, os.Stderr,
		)
		candidates, err := client.Search(cmd.Context(), args)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(candidates)
	},
}

func init() {
	searchCmd.Flags().Int("max-results", 0, "result limit per keyword (overrides config)")

	rootCmd.AddCommand(searchCmd)
}

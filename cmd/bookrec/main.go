// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the bookrec CLI.
// Implements: prd001-analysis, prd002-search, prd003-verification,
//             prd004-batch (CLI surface).
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/bookrec/internal/secrets"
	"github.com/pdiddy/bookrec/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API credentials loaded from .secrets/ and .env at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the bookrec CLI.
var rootCmd = &cobra.Command{
	Use:   "bookrec",
	Short: "Book recommendations for high-school inquiry topics",
	Long: `bookrec turns student inquiry topics into ranked book recommendations.
Each topic is analyzed by a language model into search keywords, the
keywords are searched against a book service, and the candidates are
scored and ranked by the model.

The recommend subcommand runs the full batch pipeline over a topic
file; analyze and search run a single stage for inspection.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/", ".env")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded credentials: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./bookrec.yaml or ~/.config/bookrec/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("bookrec")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "bookrec"))
		}
	}

	viper.SetEnvPrefix("BOOKREC")
	viper.AutomaticEnv()

	viper.SetDefault("ai.provider", string(types.ProviderGemini))
	viper.SetDefault("ai.model", "gemini-1.5-pro")
	viper.SetDefault("search.timeout", 10*time.Second)
	viper.SetDefault("search.user_agent", "bookrec/"+version)
	viper.SetDefault("search.max_per_keyword", 10)
	viper.SetDefault("search.request_delay", 100*time.Millisecond)
	viper.SetDefault("verify.max_candidates", 15)
	viper.SetDefault("verify.description_limit", 200)
	viper.SetDefault("batch.top_n", 2)
	viper.SetDefault("batch.topic_delay", 500*time.Millisecond)

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// pipelineConfig assembles the stage configuration from viper. Model
// credentials are filled separately by requireModelKey; the search
// stage does not need them.
func pipelineConfig() types.PipelineConfig {
	cfg := types.PipelineConfig{
		AI: types.AIConfig{
			Provider: types.AIProvider(viper.GetString("ai.provider")),
			Model:    viper.GetString("ai.model"),
			BaseURL:  viper.GetString("ai.base_url"),
		},
		Search: types.SearchConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("search.timeout"),
				UserAgent: viper.GetString("search.user_agent"),
			},
			MaxPerKeyword: viper.GetInt("search.max_per_keyword"),
			RequestDelay:  viper.GetDuration("search.request_delay"),
		},
		Verify: types.VerifyConfig{
			MaxCandidates:    viper.GetInt("verify.max_candidates"),
			DescriptionLimit: viper.GetInt("verify.description_limit"),
		},
		Batch: types.BatchConfig{
			TopN:       viper.GetInt("batch.top_n"),
			TopicDelay: viper.GetDuration("batch.topic_delay"),
		},
	}

	return cfg
}

// requireModelKey resolves the model API key for the configured
// provider from loadedSecrets. Missing credentials abort the run
// before any topic is processed.
func requireModelKey(cfg *types.PipelineConfig) error {
	keyName := secrets.KeyGoogleAPIKey
	if cfg.AI.Provider == types.ProviderOpenAI {
		keyName = secrets.KeyOpenAIAPIKey
	}
	apiKey, err := secrets.Require(loadedSecrets, keyName)
	if err != nil {
		return err
	}
	cfg.AI.APIKey = apiKey
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

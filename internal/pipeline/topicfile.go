// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/bookrec/pkg/types"
)

// TopicFile is the on-disk representation of a topic batch.
type TopicFile struct {
	Topics []string `yaml:"topics"`
}

// ReadTopicFile loads the topic list for a batch run.
func ReadTopicFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading topic file: %w", err)
	}
	var tf TopicFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("parsing topic file: %w", err)
	}
	if len(tf.Topics) == 0 {
		return nil, fmt.Errorf("topic file %s contains no topics", path)
	}
	return tf.Topics, nil
}

// RunFile is the on-disk archive of one batch run: the configuration
// that produced it, the full result, and a run summary. A completed run
// can be re-examined without re-querying any API.
type RunFile struct {
	Config  types.PipelineConfig `yaml:"config"`
	Result  types.BatchResult    `yaml:"result"`
	Summary RunSummary           `yaml:"summary"`
}

// RunSummary stores run-level statistics and a timestamp.
type RunSummary struct {
	Topics           int       `yaml:"topics"`
	ModelCalls       int       `yaml:"model_calls"`
	EstimatedCostUSD float64   `yaml:"estimated_cost_usd"`
	Timestamp        time.Time `yaml:"timestamp"`
}

// WriteRunFile saves a completed batch run to a YAML file.
func WriteRunFile(path string, cfg types.PipelineConfig, result types.BatchResult, modelCalls int, costUSD float64) error {
	rf := RunFile{
		Config: cfg,
		Result: result,
		Summary: RunSummary{
			Topics:           result.TotalTopics,
			ModelCalls:       modelCalls,
			EstimatedCostUSD: costUSD,
			Timestamp:        time.Now(),
		},
	}

	data, err := yaml.Marshal(&rf)
	if err != nil {
		return fmt.Errorf("marshaling run file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadRunFile loads a previously archived batch run.
func ReadRunFile(path string) (*RunFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading run file: %w", err)
	}
	var rf RunFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing run file: %w", err)
	}
	return &rf, nil
}

package model

import (
	_ "embed"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"gopkg.in/yaml.v3"
)

//go:embed baseline.yaml
var baselineYAML []byte

// BaselineModel holds the canonical model defaults. Every field is optional:
// a field the baseline leaves unset must never count as drift.
type BaselineModel struct {
	Provider    string   `yaml:"provider"`
	Model       string   `yaml:"model"`
	Temperature *float64 `yaml:"temperature"`
	MaxTokens   *int     `yaml:"maxTokens"`
}

// Baseline is the fixed template an assistant is compared against. It is
// static reference data, loaded once from the embedded definition and never
// mutated.
type Baseline struct {
	Version         string         `yaml:"version"`
	DefaultToolType string         `yaml:"defaultToolType"`
	Model           BaselineModel  `yaml:"model"`
	AnalysisPlan    map[string]any `yaml:"analysisPlan"`
}

var (
	baselineOnce sync.Once
	baseline     *Baseline
	baselineErr  error
)

// DefaultBaseline returns the embedded baseline template
func DefaultBaseline() (*Baseline, error) {
	baselineOnce.Do(func() {
		var b Baseline
		if err := yaml.Unmarshal(baselineYAML, &b); err != nil {
			baselineErr = goerr.Wrap(err, "failed to parse embedded baseline")
			return
		}
		baseline = &b
	})
	return baseline, baselineErr
}

package assistant

import (
	"encoding/json"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/myna/pkg/model"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// DriftReport is the outcome of comparing a snapshot against the baseline
// template. NeedsUpdate is the remediation signal; Reasons and Diff exist
// for operator display.
type DriftReport struct {
	NeedsUpdate bool
	Reasons     []string
	Diff        string
}

// DetectDrift compares the snapshot's structural fields against the
// baseline. A nil snapshot reports no drift: there is nothing to remediate
// before data has loaded. If the structural comparison itself fails, drift
// is assumed rather than silently ignored.
func DetectDrift(snapshot *model.AssistantSnapshot, baseline *model.Baseline) *DriftReport {
	report := &DriftReport{}
	if snapshot == nil || baseline == nil {
		return report
	}

	if snapshot.AnalysisPlan == nil || snapshot.Metadata.AnalysisPlanVersion != baseline.Version {
		report.Reasons = append(report.Reasons, "analysis plan is missing or outdated")
	} else {
		equal, diff, err := plansEqual(snapshot.AnalysisPlan, baseline.AnalysisPlan)
		if err != nil {
			report.Reasons = append(report.Reasons, "analysis plan could not be compared")
		} else if !equal {
			report.Reasons = append(report.Reasons, "analysis plan differs from baseline")
			report.Diff = diff
		}
	}

	if baseline.DefaultToolType != "" && !snapshot.HasToolType(baseline.DefaultToolType) {
		report.Reasons = append(report.Reasons, "default tool is not configured")
	}

	if !model.HasPolicyClause(snapshot.SystemPrompt()) {
		report.Reasons = append(report.Reasons, "end-call policy clause is missing")
	}

	report.Reasons = append(report.Reasons, modelDrift(&snapshot.Model, &baseline.Model)...)

	report.NeedsUpdate = len(report.Reasons) > 0
	return report
}

// modelDrift checks the LLM parameters. A baseline field left unset never
// counts as drift.
func modelDrift(cfg *model.ModelConfig, base *model.BaselineModel) []string {
	var reasons []string

	if base.Provider != "" && cfg.Provider != base.Provider {
		reasons = append(reasons, "model provider differs from baseline")
	}
	if base.Model != "" && cfg.Model != base.Model {
		reasons = append(reasons, "model name differs from baseline")
	}
	if base.Temperature != nil && (cfg.Temperature == nil || *cfg.Temperature != *base.Temperature) {
		reasons = append(reasons, "temperature differs from baseline")
	}
	if base.MaxTokens != nil && (cfg.MaxTokens == nil || *cfg.MaxTokens != *base.MaxTokens) {
		reasons = append(reasons, "max tokens differs from baseline")
	}

	return reasons
}

// plansEqual compares two configuration trees by canonical serialization.
// Object keys are emitted in sorted order at every nesting level, so key
// insertion order never produces a false positive; array order is
// significant and preserved.
func plansEqual(got, want map[string]any) (equal bool, diff string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = goerr.New("panic during plan comparison", goerr.V("recover", r))
		}
	}()

	gotJSON, err := canonicalJSON(got)
	if err != nil {
		return false, "", err
	}
	wantJSON, err := canonicalJSON(want)
	if err != nil {
		return false, "", err
	}

	if gotJSON == wantJSON {
		return true, "", nil
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(gotJSON, wantJSON, false)
	return false, dmp.DiffPrettyText(diffs), nil
}

// canonicalJSON serializes a configuration tree deterministically. The tree
// is normalized first (string keys, one numeric type) and then marshaled;
// encoding/json writes map keys in sorted order at every level.
func canonicalJSON(v any) (string, error) {
	raw, err := json.MarshalIndent(normalizeTree(v), "", "  ")
	if err != nil {
		return "", goerr.Wrap(err, "failed to serialize plan")
	}
	return string(raw), nil
}

func normalizeTree(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, child := range val {
			out[k] = normalizeTree(child)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, child := range val {
			out[fmt.Sprint(k)] = normalizeTree(child)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, child := range val {
			out[i] = normalizeTree(child)
		}
		return out
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case uint64:
		return float64(val)
	case float32:
		return float64(val)
	default:
		return val
	}
}

// Drift runs the detector against the cached snapshot and the embedded
// baseline. Nothing is fetched; callers refresh the cache first when they
// need a current verdict.
func (s *Session) Drift() (*DriftReport, error) {
	baseline, err := model.DefaultBaseline()
	if err != nil {
		return nil, err
	}
	return DetectDrift(s.cache.Peek(), baseline), nil
}

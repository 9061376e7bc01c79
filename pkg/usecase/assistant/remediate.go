package assistant

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/myna/pkg/adapter"
	"github.com/m-mizutani/myna/pkg/model"
	"github.com/m-mizutani/myna/pkg/utils/logging"
)

// Remediate updates the assistant to the baseline template: analysis plan
// and version tag, LLM defaults where the baseline defines them, the
// default tool, and the end-call policy clause re-appended to the system
// prompt. Afterwards the snapshot is force-refetched and the draft
// re-hydrated from the confirmed result. A no-op when no drift is detected.
func (s *Session) Remediate(ctx context.Context) (*model.AssistantSnapshot, error) {
	snapshot, err := s.cache.Get(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch assistant before remediation")
	}

	baseline, err := model.DefaultBaseline()
	if err != nil {
		return nil, err
	}

	report := DetectDrift(snapshot, baseline)
	if !report.NeedsUpdate {
		return snapshot, nil
	}

	modelCfg := snapshot.Model
	if baseline.Model.Provider != "" {
		modelCfg.Provider = baseline.Model.Provider
	}
	if baseline.Model.Model != "" {
		modelCfg.Model = baseline.Model.Model
	}
	if baseline.Model.Temperature != nil {
		temperature := *baseline.Model.Temperature
		modelCfg.Temperature = &temperature
	}
	if baseline.Model.MaxTokens != nil {
		maxTokens := *baseline.Model.MaxTokens
		modelCfg.MaxTokens = &maxTokens
	}

	if baseline.DefaultToolType != "" && !snapshot.HasToolType(baseline.DefaultToolType) {
		modelCfg.Tools = append(modelCfg.Tools, model.Tool{Type: baseline.DefaultToolType})
	}

	modelCfg.Messages = withPolicyClause(snapshot.Model.Messages)

	update := &adapter.UpdateAssistantInput{
		Model:        &modelCfg,
		AnalysisPlan: baseline.AnalysisPlan,
		Metadata:     &model.Metadata{AnalysisPlanVersion: baseline.Version},
	}
	if err := s.svc.UpdateAssistant(ctx, s.assistantID, update); err != nil {
		return nil, err
	}

	confirmed, err := s.cache.Fetch(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "remediated but failed to re-fetch assistant")
	}
	s.Hydrate(confirmed)

	logging.From(ctx).Info("assistant remediated to baseline",
		"assistantId", s.assistantID,
		"reasons", report.Reasons)

	return confirmed, nil
}

// withPolicyClause returns the message list with the policy clause appended
// to the system message, adding one if the assistant has none.
func withPolicyClause(messages []model.ChatMessage) []model.ChatMessage {
	out := make([]model.ChatMessage, len(messages))
	copy(out, messages)

	for i, msg := range out {
		if msg.Role == model.RoleSystem {
			out[i].Content = model.AppendPolicyClause(msg.Content)
			return out
		}
	}
	return append(out, model.ChatMessage{
		Role:    model.RoleSystem,
		Content: model.AppendPolicyClause(""),
	})
}

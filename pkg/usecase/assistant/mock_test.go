package assistant_test

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/myna/pkg/adapter"
	"github.com/m-mizutani/myna/pkg/model"
)

// mockAssistant scripts the hosting service for session tests
type mockAssistant struct {
	mu sync.Mutex

	snapshot *model.AssistantSnapshot

	getErrs     []error // consumed per GetAssistant call
	updateErr   error
	settingsErr error

	calls    []string
	updates  []*adapter.UpdateAssistantInput
	settings []*adapter.SettingsInput

	onUpdateSettings func()
}

func (m *mockAssistant) GetAssistant(ctx context.Context, id model.AssistantID) (*model.AssistantSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, "get")
	if len(m.getErrs) > 0 {
		err := m.getErrs[0]
		m.getErrs = m.getErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	if m.snapshot == nil {
		return nil, goerr.New("assistant not found", goerr.V("assistantId", id))
	}

	copied := *m.snapshot
	return &copied, nil
}

func (m *mockAssistant) UpdateAssistant(ctx context.Context, id model.AssistantID, input *adapter.UpdateAssistantInput) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, "update")
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updates = append(m.updates, input)

	if input.FirstMessage != nil {
		m.snapshot.FirstMessage = *input.FirstMessage
	}
	if input.Voice != nil {
		m.snapshot.Voice = *input.Voice
	}
	return nil
}

func (m *mockAssistant) UpdateSettings(ctx context.Context, input *adapter.SettingsInput) error {
	m.mu.Lock()
	hook := m.onUpdateSettings
	m.mu.Unlock()

	if hook != nil {
		hook()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, "settings")
	if m.settingsErr != nil {
		return m.settingsErr
	}
	m.settings = append(m.settings, input)
	return nil
}

func testSnapshot() *model.AssistantSnapshot {
	return &model.AssistantSnapshot{
		ID:           "asst-1",
		Name:         "Front Desk",
		FirstMessage: "Hello, thanks for calling!",
		Model: model.ModelConfig{
			Messages: []model.ChatMessage{
				{Role: model.RoleSystem, Content: "Be helpful." + model.PolicyClause},
			},
		},
		Voice: model.VoiceConfig{VoiceID: "sarah"},
	}
}

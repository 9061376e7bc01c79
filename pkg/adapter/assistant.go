package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/myna/pkg/model"
)

// UpdateAssistantInput carries the partial assistant update. Nil fields are
// omitted from the request so the service leaves them untouched.
type UpdateAssistantInput struct {
	FirstMessage *string            `json:"firstMessage,omitempty"`
	Voice        *model.VoiceConfig `json:"voice,omitempty"`
	Model        *model.ModelConfig `json:"model,omitempty"`
	AnalysisPlan map[string]any     `json:"analysisPlan,omitempty"`
	Metadata     *model.Metadata    `json:"metadata,omitempty"`
}

// SettingsInput updates the human-readable settings record that mirrors the
// assistant configuration for the dashboard's account pages.
type SettingsInput struct {
	AssistantName  string        `json:"assistantName"`
	OwnerName      string        `json:"ownerName"`
	BusinessName   string        `json:"businessName"`
	GreetingScript string        `json:"greetingScript"`
	VoiceID        model.VoiceID `json:"voiceId,omitempty"`
}

// Assistant is the interface to the hosting service's assistant records
type Assistant interface {
	// GetAssistant retrieves the canonical assistant configuration
	GetAssistant(ctx context.Context, id model.AssistantID) (*model.AssistantSnapshot, error)
	// UpdateAssistant applies a partial update to the assistant record
	UpdateAssistant(ctx context.Context, id model.AssistantID, input *UpdateAssistantInput) error
	// UpdateSettings updates the human-readable settings record
	UpdateSettings(ctx context.Context, input *SettingsInput) error
}

// assistantClient implements Assistant against the hosting service HTTP API
type assistantClient struct {
	*service
}

// AssistantOption is a functional option for NewAssistant
type AssistantOption func(*assistantClient)

// WithAssistantHTTPClient replaces the underlying HTTP client
func WithAssistantHTTPClient(c *http.Client) AssistantOption {
	return func(a *assistantClient) {
		a.httpClient = c
	}
}

// NewAssistant creates an assistant client for the hosting service
func NewAssistant(baseURL, apiKey string, opts ...AssistantOption) Assistant {
	client := &assistantClient{service: newService(baseURL, apiKey)}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

func (a *assistantClient) GetAssistant(ctx context.Context, id model.AssistantID) (*model.AssistantSnapshot, error) {
	req, err := a.newRequest(ctx, http.MethodGet, "/v1/assistants/"+string(id), nil)
	if err != nil {
		return nil, err
	}

	var snapshot model.AssistantSnapshot
	if err := a.doJSON(req, &snapshot); err != nil {
		return nil, goerr.Wrap(err, "failed to get assistant", goerr.V("assistantId", id))
	}
	return &snapshot, nil
}

func (a *assistantClient) UpdateAssistant(ctx context.Context, id model.AssistantID, input *UpdateAssistantInput) error {
	body, err := json.Marshal(input)
	if err != nil {
		return goerr.Wrap(err, "failed to marshal assistant update")
	}

	req, err := a.newRequest(ctx, http.MethodPatch, "/v1/assistants/"+string(id), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	if err := a.doJSON(req, nil); err != nil {
		return goerr.Wrap(model.ErrUpdateFailed, err.Error(), goerr.V("assistantId", id))
	}
	return nil
}

func (a *assistantClient) UpdateSettings(ctx context.Context, input *SettingsInput) error {
	body, err := json.Marshal(input)
	if err != nil {
		return goerr.Wrap(err, "failed to marshal settings update")
	}

	req, err := a.newRequest(ctx, http.MethodPut, "/v1/settings", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	if err := a.doJSON(req, nil); err != nil {
		return goerr.Wrap(model.ErrUpdateFailed, err.Error())
	}
	return nil
}

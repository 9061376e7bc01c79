package adapter_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/myna/pkg/adapter"
	"github.com/m-mizutani/myna/pkg/model"
)

func TestGetAssistant(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gt.Equal(t, r.Method, http.MethodGet)
		gt.Equal(t, r.URL.Path, "/v1/assistants/asst-1")
		gt.Equal(t, r.Header.Get("Authorization"), "Bearer test-key")

		json.NewEncoder(w).Encode(&model.AssistantSnapshot{
			ID:           "asst-1",
			Name:         "Front Desk",
			FirstMessage: "Hello, thanks for calling!",
			Voice:        model.VoiceConfig{VoiceID: "sarah"},
		})
	}))
	defer server.Close()

	client := adapter.NewAssistant(server.URL, "test-key")
	snapshot, err := client.GetAssistant(context.Background(), "asst-1")
	gt.NoError(t, err)
	gt.Equal(t, snapshot.Name, "Front Desk")
	gt.Equal(t, snapshot.Voice.VoiceID, model.VoiceID("sarah"))
}

func TestUpdateAssistant(t *testing.T) {
	var received map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gt.Equal(t, r.Method, http.MethodPatch)
		gt.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := adapter.NewAssistant(server.URL, "test-key")
	firstMessage := "Hi there"
	err := client.UpdateAssistant(context.Background(), "asst-1", &adapter.UpdateAssistantInput{
		FirstMessage: &firstMessage,
	})
	gt.NoError(t, err)
	gt.Equal(t, received["firstMessage"], "Hi there")

	// Voice omitted when unchanged
	_, hasVoice := received["voice"]
	gt.False(t, hasVoice)
}

func TestUpdateAssistantFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := adapter.NewAssistant(server.URL, "test-key")
	firstMessage := "Hi"
	err := client.UpdateAssistant(context.Background(), "asst-1", &adapter.UpdateAssistantInput{
		FirstMessage: &firstMessage,
	})
	gt.Error(t, err)
	gt.True(t, errors.Is(err, model.ErrUpdateFailed))
}

func TestUpdateSettings(t *testing.T) {
	var received adapter.SettingsInput

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gt.Equal(t, r.Method, http.MethodPut)
		gt.Equal(t, r.URL.Path, "/v1/settings")
		gt.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := adapter.NewAssistant(server.URL, "test-key")
	err := client.UpdateSettings(context.Background(), &adapter.SettingsInput{
		AssistantName:  "Front Desk",
		OwnerName:      "Dana",
		BusinessName:   "Dana's Dental",
		GreetingScript: "Be friendly.",
	})
	gt.NoError(t, err)
	gt.Equal(t, received.AssistantName, "Front Desk")
	gt.Equal(t, received.GreetingScript, "Be friendly.")
}

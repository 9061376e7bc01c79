package assistant

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/myna/pkg/adapter"
	"github.com/m-mizutani/myna/pkg/model"
	"github.com/m-mizutani/myna/pkg/utils/logging"
)

// Save applies the draft to the hosting service: a partial assistant update,
// then the settings record update, then a forced re-fetch. The draft is
// re-hydrated only from the re-fetched snapshot, never from the typed
// values, so the session reflects exactly what the service persisted
// including any server-side normalization. The two writes are strictly
// sequenced; the re-fetch must observe both.
func (s *Session) Save(ctx context.Context) (*model.AssistantSnapshot, error) {
	s.Settle()

	validation := s.Validation()
	if !validation.FormValid {
		return nil, validationError(validation)
	}

	s.mu.Lock()
	s.saving = true
	firstMessage := strings.TrimSpace(s.firstMessage)
	prompt := strings.TrimSpace(model.StripPolicyClause(s.systemPrompt))
	voiceID := s.voiceID
	voiceChanged := s.voiceID != s.confirmedVoice
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.saving = false
		s.mu.Unlock()
	}()

	snapshot := s.cache.Peek()

	if s.assistantID != "" {
		update := &adapter.UpdateAssistantInput{FirstMessage: &firstMessage}
		if voiceChanged {
			update.Voice = &model.VoiceConfig{VoiceID: voiceID}
		}
		if err := s.svc.UpdateAssistant(ctx, s.assistantID, update); err != nil {
			return nil, err
		}
	}

	settings := &adapter.SettingsInput{
		OwnerName:      s.ownerName,
		BusinessName:   s.businessName,
		GreetingScript: prompt,
	}
	if snapshot != nil {
		settings.AssistantName = snapshot.Name
	}
	if voiceChanged {
		settings.VoiceID = voiceID
	}
	if err := s.svc.UpdateSettings(ctx, settings); err != nil {
		return nil, err
	}

	confirmed, err := s.cache.Fetch(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "saved but failed to re-fetch assistant",
			goerr.V("assistantId", s.assistantID))
	}

	s.mu.Lock()
	s.hydrateLocked(confirmed)
	s.mu.Unlock()

	logging.From(ctx).Info("assistant saved",
		"assistantId", s.assistantID,
		"voiceChanged", voiceChanged)

	return confirmed, nil
}

// validationError names the first invalid field; the greeting takes
// precedence over the prompt.
func validationError(v Validation) *model.ValidationError {
	if !v.FirstMessageValid {
		return &model.ValidationError{
			Field:   "firstMessage",
			Message: "greeting must not be empty and must fit the length limit",
		}
	}
	if !v.SystemPromptValid {
		return &model.ValidationError{
			Field:   "systemPrompt",
			Message: "instructions must not be empty and must fit the length limit",
		}
	}
	return &model.ValidationError{Field: "form", Message: "form is not ready"}
}

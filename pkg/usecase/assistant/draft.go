package assistant

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/myna/pkg/model"
)

// Load performs the initial hydration from the hosting service. Validation
// and drift detection stay inert until this has succeeded once.
func (s *Session) Load(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	snapshot, err := s.cache.Fetch(ctx)

	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()

	if err != nil {
		return goerr.Wrap(err, "failed to load assistant", goerr.V("assistantId", s.assistantID))
	}

	s.Hydrate(snapshot)
	return nil
}

// Hydrate replaces the draft fields with the snapshot's projection: first
// message, the sentinel-stripped system prompt and the voice. Ignored while
// a save is in flight so a stale snapshot cannot clobber the values the
// save is about to confirm.
func (s *Session) Hydrate(snapshot *model.AssistantSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.saving {
		return
	}
	s.hydrateLocked(snapshot)
}

func (s *Session) hydrateLocked(snapshot *model.AssistantSnapshot) {
	prompt := model.StripPolicyClause(snapshot.SystemPrompt())

	s.firstMessage = snapshot.FirstMessage
	s.systemPrompt = prompt
	s.voiceID = snapshot.Voice.VoiceID

	s.debFirstMessage = snapshot.FirstMessage
	s.debSystemPrompt = prompt

	s.confirmedFirstMessage = snapshot.FirstMessage
	s.confirmedPrompt = prompt
	s.confirmedVoice = snapshot.Voice.VoiceID

	s.initialized = true
}

// SetFirstMessage updates the greeting draft. The debounced copy follows
// after the quiet window.
func (s *Session) SetFirstMessage(text string) {
	s.mu.Lock()
	s.firstMessage = text
	s.mu.Unlock()

	s.firstMessageDeb.Trigger(func() {
		s.mu.Lock()
		s.debFirstMessage = s.firstMessage
		s.mu.Unlock()
	})
}

// SetSystemPrompt updates the instruction draft (sentinel-stripped form)
func (s *Session) SetSystemPrompt(text string) {
	s.mu.Lock()
	s.systemPrompt = text
	s.mu.Unlock()

	s.systemPromptDeb.Trigger(func() {
		s.mu.Lock()
		s.debSystemPrompt = s.systemPrompt
		s.mu.Unlock()
	})
}

// SetVoice updates the selected voice. Voice changes are not debounced;
// picking from the catalog is a single discrete action.
func (s *Session) SetVoice(voiceID model.VoiceID) error {
	if err := voiceID.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	s.voiceID = voiceID
	s.mu.Unlock()
	return nil
}

// FirstMessage returns the live greeting draft
func (s *Session) FirstMessage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.firstMessage
}

// SystemPrompt returns the live instruction draft
func (s *Session) SystemPrompt() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.systemPrompt
}

// VoiceID returns the selected voice
func (s *Session) VoiceID() model.VoiceID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.voiceID
}

// Initialized reports whether the first hydration has completed
func (s *Session) Initialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialized
}

// Settle flushes the debounced copies so validation and unsaved-change
// detection see the latest input immediately.
func (s *Session) Settle() {
	s.firstMessageDeb.Flush()
	s.systemPromptDeb.Flush()
}

// normalizeText folds line-ending variants to LF and trims surrounding
// whitespace, so cosmetic differences do not count as unsaved changes.
func normalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.TrimSpace(text)
}

// HasUnsavedChanges compares the debounced draft against the last confirmed
// projection, after normalization, and also reports a changed voice.
func (s *Session) HasUnsavedChanges() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return false
	}
	if normalizeText(s.debFirstMessage) != normalizeText(s.confirmedFirstMessage) {
		return true
	}
	if normalizeText(s.debSystemPrompt) != normalizeText(s.confirmedPrompt) {
		return true
	}
	return s.voiceID != s.confirmedVoice
}

package assistant

import "strings"

// Field length ceilings enforced by the dashboard. The prompt limit applies
// to the sentinel-stripped form the user edits.
const (
	MaxFirstMessageLen = 1000
	MaxPromptLen       = 10000
)

// Validation is the result of checking the two text fields. Before the
// first hydration both fields report valid but the form does not, so no
// error surfaces while data is still loading.
type Validation struct {
	FirstMessageValid bool
	SystemPromptValid bool
	FormValid         bool
}

// Validate checks the draft text fields. A field is valid when its trimmed
// length is positive and its raw length does not exceed the ceiling.
func Validate(firstMessage, systemPrompt string, initialized bool) Validation {
	if !initialized {
		return Validation{
			FirstMessageValid: true,
			SystemPromptValid: true,
			FormValid:         false,
		}
	}

	firstOK := strings.TrimSpace(firstMessage) != "" && len(firstMessage) <= MaxFirstMessageLen
	promptOK := strings.TrimSpace(systemPrompt) != "" && len(systemPrompt) <= MaxPromptLen

	return Validation{
		FirstMessageValid: firstOK,
		SystemPromptValid: promptOK,
		FormValid:         firstOK && promptOK,
	}
}

// Validation evaluates the debounced draft copies
func (s *Session) Validation() Validation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Validate(s.debFirstMessage, s.debSystemPrompt, s.initialized)
}

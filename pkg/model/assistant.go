package model

// AssistantID identifies an assistant record at the hosting service
type AssistantID string

// RoleSystem is the message role holding behavioral instructions
const RoleSystem = "system"

// ChatMessage is one entry of the assistant's model message list
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Tool is an entry of the assistant's default tool set
type Tool struct {
	Type string `json:"type"`
}

// ModelConfig holds the LLM parameters of an assistant. Temperature and
// MaxTokens are pointers because the hosting service omits them when unset.
type ModelConfig struct {
	Provider    string        `json:"provider,omitempty"`
	Model       string        `json:"model,omitempty"`
	Temperature *float64      `json:"temperature,omitempty"`
	MaxTokens   *int          `json:"maxTokens,omitempty"`
	Messages    []ChatMessage `json:"messages,omitempty"`
	Tools       []Tool        `json:"tools,omitempty"`
}

// VoiceConfig selects the synthesized voice of an assistant
type VoiceConfig struct {
	VoiceID VoiceID `json:"voiceId"`
}

// Metadata carries service-side bookkeeping attached to an assistant
type Metadata struct {
	AnalysisPlanVersion string `json:"analysisPlanVersion,omitempty"`
}

// AssistantSnapshot is the canonical assistant configuration as last
// confirmed by the hosting service. It is fetched and read, never mutated
// locally; edits go through a draft and the save path.
type AssistantSnapshot struct {
	ID           AssistantID    `json:"id"`
	Name         string         `json:"name"`
	FirstMessage string         `json:"firstMessage"`
	Model        ModelConfig    `json:"model"`
	Voice        VoiceConfig    `json:"voice"`
	AnalysisPlan map[string]any `json:"analysisPlan,omitempty"`
	Metadata     Metadata       `json:"metadata,omitempty"`
}

// SystemPrompt returns the content of the first system-role message, or an
// empty string if the snapshot has none.
func (s *AssistantSnapshot) SystemPrompt() string {
	for _, msg := range s.Model.Messages {
		if msg.Role == RoleSystem {
			return msg.Content
		}
	}
	return ""
}

// HasToolType reports whether the assistant's tool set contains the given type
func (s *AssistantSnapshot) HasToolType(toolType string) bool {
	for _, tool := range s.Model.Tools {
		if tool.Type == toolType {
			return true
		}
	}
	return false
}

package assistant

import (
	"sync"
	"time"

	"github.com/m-mizutani/myna/pkg/adapter"
	"github.com/m-mizutani/myna/pkg/model"
	"github.com/m-mizutani/myna/pkg/utils/debounce"
)

const defaultDebounceWindow = 300 * time.Millisecond

// Session owns one user's in-progress edits to an assistant configuration.
// The draft fields hold what the user typed; the confirmed fields hold the
// projection of the last snapshot the hosting service acknowledged. All
// remote writes for text and voice fields go through Save.
type Session struct {
	svc   adapter.Assistant
	cache *Cache

	assistantID  model.AssistantID
	ownerName    string
	businessName string

	mu sync.Mutex

	// draft fields, mutated only by user edits and hydration
	firstMessage string
	systemPrompt string
	voiceID      model.VoiceID

	// debounced copies feeding validation and unsaved-change detection
	debFirstMessage string
	debSystemPrompt string

	// last server-confirmed projection
	confirmedFirstMessage string
	confirmedPrompt       string
	confirmedVoice        model.VoiceID

	initialized bool
	loading     bool
	saving      bool

	firstMessageDeb *debounce.Debouncer
	systemPromptDeb *debounce.Debouncer
}

// Option is a functional option for NewSession
type Option func(*Session)

// WithDebounceWindow overrides the validation debounce window
func WithDebounceWindow(window time.Duration) Option {
	return func(s *Session) {
		s.firstMessageDeb = debounce.New(window)
		s.systemPromptDeb = debounce.New(window)
	}
}

// WithOwner sets the owner and business names passed through to the
// settings record on save.
func WithOwner(ownerName, businessName string) Option {
	return func(s *Session) {
		s.ownerName = ownerName
		s.businessName = businessName
	}
}

// NewSession creates a session for the given assistant
func NewSession(svc adapter.Assistant, assistantID model.AssistantID, opts ...Option) *Session {
	s := &Session{
		svc:             svc,
		cache:           NewCache(svc, assistantID),
		assistantID:     assistantID,
		firstMessageDeb: debounce.New(defaultDebounceWindow),
		systemPromptDeb: debounce.New(defaultDebounceWindow),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Cache exposes the session's snapshot cache so other dashboard panels read
// the same authoritative copy.
func (s *Session) Cache() *Cache {
	return s.cache
}

package model

import "github.com/m-mizutani/goerr/v2"

// VoiceID identifies a synthesized voice from the fixed catalog
type VoiceID string

// Voice is one selectable entry of the voice catalog
type Voice struct {
	ID     VoiceID
	Label  string
	Gender string
}

// Voices is the fixed catalog offered by the dashboard. The hosting service
// accepts only these identifiers.
var Voices = []Voice{
	{ID: "sarah", Label: "Sarah", Gender: "female"},
	{ID: "emily", Label: "Emily", Gender: "female"},
	{ID: "grace", Label: "Grace", Gender: "female"},
	{ID: "daniel", Label: "Daniel", Gender: "male"},
	{ID: "marcus", Label: "Marcus", Gender: "male"},
	{ID: "oliver", Label: "Oliver", Gender: "male"},
}

// Validate checks that the voice is part of the catalog
func (v VoiceID) Validate() error {
	for _, voice := range Voices {
		if voice.ID == v {
			return nil
		}
	}
	return goerr.New("unknown voice", goerr.V("voiceId", v))
}

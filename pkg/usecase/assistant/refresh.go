package assistant

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/myna/pkg/model"
	"github.com/m-mizutani/myna/pkg/utils/logging"
)

// Confirmer asks the user a yes/no question. The CLI implements it with an
// interactive prompt; tests supply scripted answers.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// Refresh discards the draft and reloads from the hosting service. It tries
// a forced uncached read first and hydrates on success; it then always runs
// the cached-path read and hydrates from that as well, so the shared cache
// and the on-screen draft cannot diverge. The refresh succeeds if at least
// one of the two reads produced data.
func (s *Session) Refresh(ctx context.Context) (*model.AssistantSnapshot, error) {
	var latest *model.AssistantSnapshot

	forced, forcedErr := s.cache.Fetch(ctx)
	if forcedErr == nil {
		s.Hydrate(forced)
		latest = forced
	} else {
		logging.From(ctx).Warn("forced refresh failed, falling back to cached read",
			"assistantId", s.assistantID, "error", forcedErr)
	}

	cached, cachedErr := s.cache.Get(ctx)
	if cachedErr == nil {
		s.Hydrate(cached)
		latest = cached
	}

	if latest == nil {
		return nil, goerr.Wrap(cachedErr, "failed to refresh assistant",
			goerr.V("assistantId", s.assistantID))
	}
	return latest, nil
}

// RefreshWithConfirm guards Refresh behind the unsaved-changes gate. With
// unsaved edits present, the user must pass two explicit confirmations;
// declining either one leaves the draft untouched and returns nil.
func (s *Session) RefreshWithConfirm(ctx context.Context, confirmer Confirmer) (*model.AssistantSnapshot, error) {
	s.Settle()

	if s.HasUnsavedChanges() {
		ok, err := confirmer.Confirm(ctx, "You have unsaved changes. Continue?")
		if err != nil {
			return nil, goerr.Wrap(err, "confirmation failed")
		}
		if !ok {
			return nil, nil
		}

		ok, err = confirmer.Confirm(ctx, "Discard unsaved changes and refresh?")
		if err != nil {
			return nil, goerr.Wrap(err, "confirmation failed")
		}
		if !ok {
			return nil, nil
		}
	}

	return s.Refresh(ctx)
}

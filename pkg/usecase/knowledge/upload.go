package knowledge

import (
	"context"
	"sync"

	"github.com/m-mizutani/myna/pkg/adapter"
	"github.com/m-mizutani/myna/pkg/model"
	"github.com/m-mizutani/myna/pkg/utils/logging"
	"github.com/sourcegraph/conc"
)

// FileError is one per-file failure from an upload batch. A failed file
// never blocks its siblings.
type FileError struct {
	Name string
	Err  error
}

// UploadResult reports the outcome of one upload batch
type UploadResult struct {
	Set    *model.KnowledgeSet
	Failed []FileError
}

// Upload validates and transfers the pending selection, then declares the
// authoritative attached-file set in one sync call: previously attached ids
// plus newly uploaded ids, deduplicated. Transfers run concurrently; the
// sync strictly follows after every transfer has settled. A file that
// failed validation or transfer is simply excluded from the set. On sync
// failure the displayed list stays unchanged, leaving the uploaded files
// invisible until a later sync succeeds. Selection and progress state are
// cleared regardless of outcome.
func (u *UseCase) Upload(ctx context.Context) (*UploadResult, error) {
	defer u.clearTransferState()

	selected := u.Selected()
	result := &UploadResult{}

	// Transfer goroutines share failed/uploaded under mu; validation
	// failures stay on the caller's own slice until the batch has settled.
	var mu sync.Mutex
	var failed []FileError
	var uploaded []model.FileID
	var rejected []FileError

	wg := conc.NewWaitGroup()
	for _, candidate := range selected {
		if err := model.ValidateUpload(candidate.Name, candidate.Size, candidate.ContentType); err != nil {
			rejected = append(rejected, FileError{Name: candidate.Name, Err: err})
			continue
		}

		wg.Go(func() {
			file, err := u.svc.UploadFile(ctx, u.uploadInput(candidate))
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed = append(failed, FileError{Name: candidate.Name, Err: err})
				return
			}
			uploaded = append(uploaded, file.ID)
		})
	}
	wg.Wait()

	result.Failed = append(rejected, failed...)

	ids := dedupe(append(u.attachedIDs(), uploaded...))
	set, err := u.svc.SyncKnowledge(ctx, u.assistantID, ids)
	if err != nil {
		logging.From(ctx).Warn("knowledge sync failed, keeping previous listing",
			"assistantId", u.assistantID, "error", err)
		return result, err
	}

	u.mu.Lock()
	u.toolID = set.ToolID
	u.files = set.Files
	u.mu.Unlock()

	result.Set = set
	return result, nil
}

func (u *UseCase) uploadInput(candidate *Candidate) *adapter.UploadInput {
	contentType := candidate.ContentType
	if contentType == "" {
		contentType = model.MediaTypeForName(candidate.Name)
	}

	return &adapter.UploadInput{
		Name:        candidate.Name,
		ContentType: contentType,
		Size:        candidate.Size,
		Body:        candidate.Body,
		Progress: func(percent int) {
			u.mu.Lock()
			u.progress[candidate.Name] = percent
			u.mu.Unlock()

			if u.notifier != nil {
				u.notifier.Update(candidate.Name, percent)
			}
		},
	}
}

func dedupe(ids []model.FileID) []model.FileID {
	seen := make(map[model.FileID]bool, len(ids))
	out := make([]model.FileID, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

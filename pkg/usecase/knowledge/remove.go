package knowledge

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/myna/pkg/model"
	"github.com/m-mizutani/myna/pkg/utils/logging"
)

// removalState tracks one optimistic removal. The entry leaves the
// displayed list while Pending; a failure on either remote step moves it to
// RolledBack and reinserts it, a full success commits the removal.
type removalState int

const (
	removalPending removalState = iota
	removalCommitted
	removalRolledBack
)

type removal struct {
	file  model.KnowledgeFile
	state removalState
}

// Remove detaches a file from the assistant, optimistically. The entry is
// removed from the displayed list first, then the stored file is deleted,
// and only after a successful delete is the detach issued, so the assistant
// never references a file that no longer exists. If either step fails the
// entry is reinserted and the failure reported; re-invoking Remove is the
// retry path.
func (u *UseCase) Remove(ctx context.Context, fileID model.FileID) error {
	rm, ok := u.takeFile(fileID)
	if !ok {
		return goerr.New("file is not in the list", goerr.V("fileId", fileID))
	}

	if err := u.svc.DeleteFile(ctx, fileID); err != nil {
		u.rollback(rm)
		return err
	}

	if err := u.svc.DetachKnowledge(ctx, u.assistantID, fileID); err != nil {
		u.rollback(rm)
		return err
	}

	rm.state = removalCommitted
	u.clearTransferState()

	logging.From(ctx).Info("knowledge file removed",
		"assistantId", u.assistantID, "fileId", fileID)
	return nil
}

// takeFile optimistically removes the entry from the displayed list
func (u *UseCase) takeFile(fileID model.FileID) (*removal, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()

	for i, f := range u.files {
		if f.ID == fileID {
			u.files = append(u.files[:i:i], u.files[i+1:]...)
			return &removal{file: f, state: removalPending}, true
		}
	}
	return nil, false
}

// rollback reinserts the optimistically removed entry: prepended, then the
// list re-sorted by id. Only a pending removal can roll back; a second call
// on the same entry is a no-op so the file is never reinserted twice.
func (u *UseCase) rollback(rm *removal) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if rm.state != removalPending {
		return
	}
	rm.state = removalRolledBack
	u.files = append([]model.KnowledgeFile{rm.file}, u.files...)
	model.SortFilesByID(u.files)
}

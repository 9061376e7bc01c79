package knowledge

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/myna/pkg/adapter"
	"github.com/m-mizutani/myna/pkg/model"
)

// UseCase manages the knowledge files attached to one assistant: the
// displayed list, the pending file selection, upload progress, and the
// upload/removal flows against the hosting service.
type UseCase struct {
	svc         adapter.Knowledge
	assistantID model.AssistantID
	notifier    *ProgressNotifier

	mu       sync.Mutex
	toolID   string
	files    []model.KnowledgeFile
	selected []*Candidate
	progress map[string]int // file name -> transferred percent
}

// Candidate is one user-selected file waiting to be uploaded
type Candidate struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Option is a functional option for New
type Option func(*UseCase)

// WithProgressNotifier routes coalesced progress updates to the given
// notifier for display.
func WithProgressNotifier(n *ProgressNotifier) Option {
	return func(u *UseCase) {
		u.notifier = n
	}
}

// New creates a knowledge UseCase bound to one assistant
func New(svc adapter.Knowledge, assistantID model.AssistantID, opts ...Option) *UseCase {
	u := &UseCase{
		svc:         svc,
		assistantID: assistantID,
		progress:    map[string]int{},
	}

	for _, opt := range opts {
		opt(u)
	}

	return u
}

// Load fetches the current attached-file listing. A canceled context is a
// silent no-op: the caller has moved on and a stale response must not be
// applied.
func (u *UseCase) Load(ctx context.Context) error {
	set, err := u.svc.ListKnowledge(ctx, u.assistantID)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return goerr.Wrap(err, "failed to load knowledge files",
			goerr.V("assistantId", u.assistantID))
	}

	u.mu.Lock()
	u.toolID = set.ToolID
	u.files = set.Files
	u.mu.Unlock()
	return nil
}

// ToolID returns the id of the knowledge tool backing the attached-file
// set, as last reported by the hosting service.
func (u *UseCase) ToolID() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.toolID
}

// Files returns a copy of the displayed file list
func (u *UseCase) Files() []model.KnowledgeFile {
	u.mu.Lock()
	defer u.mu.Unlock()

	out := make([]model.KnowledgeFile, len(u.files))
	copy(out, u.files)
	return out
}

// Select replaces the pending file selection
func (u *UseCase) Select(files ...*Candidate) {
	u.mu.Lock()
	u.selected = files
	u.mu.Unlock()
}

// Selected returns the pending file selection
func (u *UseCase) Selected() []*Candidate {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.selected
}

// Progress returns a copy of the per-file transfer percentages
func (u *UseCase) Progress() map[string]int {
	u.mu.Lock()
	defer u.mu.Unlock()

	out := make(map[string]int, len(u.progress))
	for name, pct := range u.progress {
		out[name] = pct
	}
	return out
}

// clearTransferState drops the selection and progress. Runs at the end of
// every upload attempt and after a successful removal.
func (u *UseCase) clearTransferState() {
	u.mu.Lock()
	u.selected = nil
	u.progress = map[string]int{}
	u.mu.Unlock()
}

func (u *UseCase) attachedIDs() []model.FileID {
	u.mu.Lock()
	defer u.mu.Unlock()

	ids := make([]model.FileID, 0, len(u.files))
	for _, f := range u.files {
		ids = append(ids, f.ID)
	}
	return ids
}

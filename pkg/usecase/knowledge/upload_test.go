package knowledge_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/myna/pkg/model"
	"github.com/m-mizutani/myna/pkg/usecase/knowledge"
)

func textCandidate(name, content string) *knowledge.Candidate {
	return &knowledge.Candidate{
		Name:        name,
		ContentType: "text/plain",
		Size:        int64(len(content)),
		Body:        strings.NewReader(content),
	}
}

func TestUploadFailedFileDoesNotBlockSiblings(t *testing.T) {
	ctx := context.Background()
	mock := newMockKnowledge(model.KnowledgeFile{ID: "f0", Name: "existing.txt", Size: 10})

	uc := knowledge.New(mock, "asst-1")
	gt.NoError(t, uc.Load(ctx))

	oversized := &knowledge.Candidate{
		Name:        "huge.txt",
		ContentType: "text/plain",
		Size:        model.MaxKnowledgeFileSize + 1,
		Body:        strings.NewReader("truncated"),
	}
	uc.Select(textCandidate("a.txt", "alpha"), oversized, textCandidate("b.txt", "bravo"))

	result, err := uc.Upload(ctx)
	gt.NoError(t, err)

	// Exactly one failure, and it is the size violation
	gt.A(t, result.Failed).Length(1)
	gt.Equal(t, result.Failed[0].Name, "huge.txt")
	gt.True(t, errors.Is(result.Failed[0].Err, model.ErrFileTooLarge))

	// The other two made it through alongside the existing file
	gt.A(t, uc.Files()).Length(3)
	names := map[string]bool{}
	for _, f := range uc.Files() {
		names[f.Name] = true
	}
	gt.True(t, names["existing.txt"])
	gt.True(t, names["a.txt"])
	gt.True(t, names["b.txt"])

	// The oversized file never reached the declared id set
	mock.mu.Lock()
	synced := mock.fileIDs
	mock.mu.Unlock()
	gt.A(t, synced).Length(3)
}

func TestUploadSyncFailureKeepsPreviousListing(t *testing.T) {
	ctx := context.Background()
	mock := newMockKnowledge(model.KnowledgeFile{ID: "f0", Name: "existing.txt", Size: 10})
	mock.syncErr = goerr.New("sync rejected")

	uc := knowledge.New(mock, "asst-1")
	gt.NoError(t, uc.Load(ctx))

	uc.Select(textCandidate("a.txt", "alpha"))

	_, err := uc.Upload(ctx)
	gt.Error(t, err)

	// Displayed list stays as it was before the attempt
	files := uc.Files()
	gt.A(t, files).Length(1)
	gt.Equal(t, files[0].Name, "existing.txt")
}

func TestUploadClearsSelectionAndProgress(t *testing.T) {
	ctx := context.Background()

	for _, syncFails := range []bool{false, true} {
		mock := newMockKnowledge()
		if syncFails {
			mock.syncErr = goerr.New("sync rejected")
		}

		uc := knowledge.New(mock, "asst-1")
		uc.Select(textCandidate("a.txt", "alpha"))

		_, _ = uc.Upload(ctx)

		gt.A(t, uc.Selected()).Length(0)
		gt.Equal(t, len(uc.Progress()), 0)
	}
}

func TestUploadTransferFailureExcludedFromSet(t *testing.T) {
	ctx := context.Background()
	mock := newMockKnowledge()
	mock.uploadErrs = map[string]error{"bad.txt": goerr.New("connection reset")}

	uc := knowledge.New(mock, "asst-1")
	uc.Select(textCandidate("bad.txt", "broken"), textCandidate("good.txt", "fine"))

	result, err := uc.Upload(ctx)
	gt.NoError(t, err)

	gt.A(t, result.Failed).Length(1)
	gt.Equal(t, result.Failed[0].Name, "bad.txt")

	files := uc.Files()
	gt.A(t, files).Length(1)
	gt.Equal(t, files[0].Name, "good.txt")

	// A successful sync also refreshes the backing tool id
	gt.Equal(t, uc.ToolID(), "tool-1")
}

func TestUploadMixedBatchReportsEveryFailure(t *testing.T) {
	ctx := context.Background()
	mock := newMockKnowledge()
	mock.uploadErrs = map[string]error{}

	// Interleave validation rejects with transfer failures so both failure
	// paths run while the batch is in flight. Every file must surface in
	// Failed exactly once.
	var candidates []*knowledge.Candidate
	for i := 0; i < 8; i++ {
		big := &knowledge.Candidate{
			Name:        fmt.Sprintf("big-%d.txt", i),
			ContentType: "text/plain",
			Size:        model.MaxKnowledgeFileSize + 1,
			Body:        strings.NewReader("truncated"),
		}
		bad := textCandidate(fmt.Sprintf("bad-%d.txt", i), "payload")
		mock.uploadErrs[bad.Name] = goerr.New("connection reset")
		candidates = append(candidates, big, bad)
	}

	uc := knowledge.New(mock, "asst-1")
	uc.Select(candidates...)

	result, err := uc.Upload(ctx)
	gt.NoError(t, err)

	gt.A(t, result.Failed).Length(16)
	seen := map[string]int{}
	for _, f := range result.Failed {
		seen[f.Name]++
	}
	for i := 0; i < 8; i++ {
		gt.Equal(t, seen[fmt.Sprintf("big-%d.txt", i)], 1)
		gt.Equal(t, seen[fmt.Sprintf("bad-%d.txt", i)], 1)
	}

	// Nothing made it into the declared set
	mock.mu.Lock()
	synced := mock.fileIDs
	mock.mu.Unlock()
	gt.A(t, synced).Length(0)
}

func TestUploadDeduplicatesAttachedIDs(t *testing.T) {
	ctx := context.Background()

	// The preexisting attachment carries the same id the mock will assign to
	// the first upload, so the declared set must collapse the duplicate.
	mock := newMockKnowledge(model.KnowledgeFile{ID: "up-1", Name: "a.txt", Size: 5})

	uc := knowledge.New(mock, "asst-1")
	gt.NoError(t, uc.Load(ctx))

	uc.Select(textCandidate("a.txt", "alpha"))

	_, err := uc.Upload(ctx)
	gt.NoError(t, err)

	mock.mu.Lock()
	synced := mock.fileIDs
	mock.mu.Unlock()
	gt.A(t, synced).Length(1)
	gt.Equal(t, synced[0], model.FileID("up-1"))
}

func TestUploadReportsProgressThroughNotifier(t *testing.T) {
	ctx := context.Background()
	mock := newMockKnowledge()

	var mu sync.Mutex
	var last map[string]int
	notifier := knowledge.NewProgressNotifier(time.Millisecond, func(progress map[string]int) {
		mu.Lock()
		last = progress
		mu.Unlock()
	})
	defer notifier.Stop()

	uc := knowledge.New(mock, "asst-1", knowledge.WithProgressNotifier(notifier))
	uc.Select(textCandidate("a.txt", "alpha"))

	_, err := uc.Upload(ctx)
	gt.NoError(t, err)
	notifier.Flush()

	mu.Lock()
	defer mu.Unlock()
	gt.Equal(t, last["a.txt"], 100)
}

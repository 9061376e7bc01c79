package knowledge_test

import (
	"context"
	"io"
	"strconv"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/myna/pkg/adapter"
	"github.com/m-mizutani/myna/pkg/model"
)

// mockKnowledge implements adapter.Knowledge in memory. Uploaded files get
// sequential ids, SyncKnowledge resolves the declared id set against the
// store, and per-method errors can be scripted.
type mockKnowledge struct {
	mu      sync.Mutex
	nextID  int
	stored  map[model.FileID]model.KnowledgeFile
	toolID  string
	calls   []string
	fileIDs []model.FileID // last id set passed to SyncKnowledge

	uploadErrs map[string]error // file name -> error
	deleteErr  error
	syncErr    error
	detachErr  error
	listErr    error
}

func newMockKnowledge(files ...model.KnowledgeFile) *mockKnowledge {
	m := &mockKnowledge{
		toolID: "tool-1",
		stored: map[model.FileID]model.KnowledgeFile{},
	}
	for _, f := range files {
		m.stored[f.ID] = f
	}
	return m
}

func (m *mockKnowledge) record(call string) {
	m.calls = append(m.calls, call)
}

func (m *mockKnowledge) UploadFile(ctx context.Context, input *adapter.UploadInput) (*model.KnowledgeFile, error) {
	data, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}
	if input.Progress != nil {
		input.Progress(0)
		input.Progress(100)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("upload:" + input.Name)

	if err := m.uploadErrs[input.Name]; err != nil {
		return nil, err
	}

	m.nextID++
	file := model.KnowledgeFile{
		ID:   model.FileID("up-" + strconv.Itoa(m.nextID)),
		Name: input.Name,
		Size: int64(len(data)),
	}
	m.stored[file.ID] = file
	return &file, nil
}

func (m *mockKnowledge) DeleteFile(ctx context.Context, id model.FileID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("delete:" + string(id))

	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.stored, id)
	return nil
}

func (m *mockKnowledge) SyncKnowledge(ctx context.Context, assistantID model.AssistantID, fileIDs []model.FileID) (*model.KnowledgeSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("sync")
	m.fileIDs = fileIDs

	if m.syncErr != nil {
		return nil, m.syncErr
	}

	set := &model.KnowledgeSet{ToolID: m.toolID}
	for _, id := range fileIDs {
		f, ok := m.stored[id]
		if !ok {
			return nil, goerr.New("unknown file", goerr.V("fileId", id))
		}
		set.Files = append(set.Files, f)
	}
	model.SortFilesByID(set.Files)
	return set, nil
}

func (m *mockKnowledge) DetachKnowledge(ctx context.Context, assistantID model.AssistantID, fileID model.FileID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("detach:" + string(fileID))
	return m.detachErr
}

func (m *mockKnowledge) ListKnowledge(ctx context.Context, assistantID model.AssistantID) (*model.KnowledgeSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("list")

	if m.listErr != nil {
		return nil, m.listErr
	}

	set := &model.KnowledgeSet{ToolID: m.toolID}
	for _, f := range m.stored {
		set.Files = append(set.Files, f)
	}
	model.SortFilesByID(set.Files)
	return set, nil
}

func (m *mockKnowledge) callNames() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

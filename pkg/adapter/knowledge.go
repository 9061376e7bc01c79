package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/myna/pkg/model"
)

// Knowledge is the interface to the hosting service's file store and the
// assistant's attached-file list
type Knowledge interface {
	// UploadFile stores a new file and returns its remote-assigned record
	UploadFile(ctx context.Context, input *UploadInput) (*model.KnowledgeFile, error)
	// DeleteFile removes a stored file
	DeleteFile(ctx context.Context, id model.FileID) error
	// SyncKnowledge declares the authoritative attached-file set
	SyncKnowledge(ctx context.Context, assistantID model.AssistantID, fileIDs []model.FileID) (*model.KnowledgeSet, error)
	// DetachKnowledge removes one file from the attached set
	DetachKnowledge(ctx context.Context, assistantID model.AssistantID, fileID model.FileID) error
	// ListKnowledge retrieves the current attached-file listing
	ListKnowledge(ctx context.Context, assistantID model.AssistantID) (*model.KnowledgeSet, error)
}

// knowledgeClient implements Knowledge against the hosting service HTTP API
type knowledgeClient struct {
	*service
	transport Transport
}

// KnowledgeOption is a functional option for NewKnowledge
type KnowledgeOption func(*knowledgeClient)

// WithTransport overrides the upload transport, skipping capability probing
func WithTransport(t Transport) KnowledgeOption {
	return func(k *knowledgeClient) {
		k.transport = t
	}
}

// WithKnowledgeHTTPClient replaces the underlying HTTP client
func WithKnowledgeHTTPClient(c *http.Client) KnowledgeOption {
	return func(k *knowledgeClient) {
		k.httpClient = c
	}
}

// NewKnowledge creates a knowledge client. Unless a transport is supplied it
// probes the service once for chunked-upload support and picks the
// streaming or single-shot transport accordingly.
func NewKnowledge(ctx context.Context, baseURL, apiKey string, opts ...KnowledgeOption) Knowledge {
	client := &knowledgeClient{service: newService(baseURL, apiKey)}
	for _, opt := range opts {
		opt(client)
	}

	if client.transport == nil {
		if probeStreaming(ctx, client.service) {
			client.transport = &streamingTransport{svc: client.service}
		} else {
			client.transport = &singleShotTransport{svc: client.service}
		}
	}
	return client
}

func (k *knowledgeClient) UploadFile(ctx context.Context, input *UploadInput) (*model.KnowledgeFile, error) {
	return k.transport.Upload(ctx, input)
}

func (k *knowledgeClient) DeleteFile(ctx context.Context, id model.FileID) error {
	req, err := k.newRequest(ctx, http.MethodDelete, "/v1/files/"+string(id), nil)
	if err != nil {
		return err
	}
	if err := k.doJSON(req, nil); err != nil {
		return goerr.Wrap(model.ErrDeleteFailed, err.Error(), goerr.V("fileId", id))
	}
	return nil
}

type syncRequest struct {
	FileIDs []model.FileID `json:"fileIds"`
}

func (k *knowledgeClient) SyncKnowledge(ctx context.Context, assistantID model.AssistantID, fileIDs []model.FileID) (*model.KnowledgeSet, error) {
	body, err := json.Marshal(&syncRequest{FileIDs: fileIDs})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal sync request")
	}

	req, err := k.newRequest(ctx, http.MethodPost, "/v1/assistants/"+string(assistantID)+"/knowledge", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var set model.KnowledgeSet
	if err := k.doJSON(req, &set); err != nil {
		return nil, goerr.Wrap(model.ErrSyncFailed, err.Error(), goerr.V("assistantId", assistantID))
	}
	return &set, nil
}

func (k *knowledgeClient) DetachKnowledge(ctx context.Context, assistantID model.AssistantID, fileID model.FileID) error {
	req, err := k.newRequest(ctx, http.MethodDelete, "/v1/assistants/"+string(assistantID)+"/knowledge/"+string(fileID), nil)
	if err != nil {
		return err
	}
	if err := k.doJSON(req, nil); err != nil {
		return goerr.Wrap(model.ErrDetachFailed, err.Error(),
			goerr.V("assistantId", assistantID),
			goerr.V("fileId", fileID))
	}
	return nil
}

func (k *knowledgeClient) ListKnowledge(ctx context.Context, assistantID model.AssistantID) (*model.KnowledgeSet, error) {
	req, err := k.newRequest(ctx, http.MethodGet, "/v1/assistants/"+string(assistantID)+"/knowledge", nil)
	if err != nil {
		return nil, err
	}

	var set model.KnowledgeSet
	if err := k.doJSON(req, &set); err != nil {
		return nil, goerr.Wrap(err, "failed to list knowledge files", goerr.V("assistantId", assistantID))
	}
	return &set, nil
}

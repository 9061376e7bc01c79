package adapter

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/myna/pkg/model"
)

// UploadInput describes one file transfer. Progress, when set, receives the
// transferred percentage; the streaming transport reports it per chunk, the
// single-shot transport only as 0 then 100.
type UploadInput struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
	Progress    func(percent int)
}

// Transport uploads one file to the hosting service's file store. Two
// implementations exist: a chunk-streaming multipart transfer and a buffered
// single-shot fallback, selected once at client construction by capability
// probing.
type Transport interface {
	Upload(ctx context.Context, input *UploadInput) (*model.KnowledgeFile, error)
}

const uploadChunkSize = 16 * 1024

// streamingHeader is the response header the service sets on the files
// endpoint when it accepts chunked multipart uploads.
const streamingHeader = "X-Upload-Streaming"

// ProbeStreaming performs the capability negotiation: one OPTIONS request to
// the files endpoint. Any failure means the fallback transport is used;
// probing must never fail an upload by itself.
func probeStreaming(ctx context.Context, svc *service) bool {
	req, err := svc.newRequest(ctx, http.MethodOptions, "/v1/files", nil)
	if err != nil {
		return false
	}
	resp, err := svc.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode < 300 && resp.Header.Get(streamingHeader) == "chunked"
}

// streamingTransport streams the multipart envelope chunk by chunk so
// per-file progress can be reported while bytes are in flight.
type streamingTransport struct {
	svc *service
}

func (t *streamingTransport) Upload(ctx context.Context, input *UploadInput) (*model.KnowledgeFile, error) {
	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)

	go func() {
		part, err := createFilePart(writer, input)
		if err != nil {
			pw.CloseWithError(err)
			return
		}

		sent := int64(0)
		buf := make([]byte, uploadChunkSize)
		for {
			n, readErr := input.Body.Read(buf)
			if n > 0 {
				if _, err := part.Write(buf[:n]); err != nil {
					pw.CloseWithError(err)
					return
				}
				sent += int64(n)
				reportProgress(input, sent)
			}
			if readErr == io.EOF {
				break
			}
			if readErr != nil {
				pw.CloseWithError(readErr)
				return
			}
		}

		if err := writer.Close(); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.Close()
	}()

	req, err := t.svc.newRequest(ctx, http.MethodPost, "/v1/files", pr)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var file model.KnowledgeFile
	if err := t.svc.doJSON(req, &file); err != nil {
		return nil, goerr.Wrap(err, "failed to upload file", goerr.V("name", input.Name))
	}
	return &file, nil
}

// singleShotTransport buffers the whole multipart envelope and submits it in
// one request. No incremental progress is available.
type singleShotTransport struct {
	svc *service
}

func (t *singleShotTransport) Upload(ctx context.Context, input *UploadInput) (*model.KnowledgeFile, error) {
	if input.Progress != nil {
		input.Progress(0)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := createFilePart(writer, input)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, input.Body); err != nil {
		return nil, goerr.Wrap(err, "failed to buffer file", goerr.V("name", input.Name))
	}
	if err := writer.Close(); err != nil {
		return nil, goerr.Wrap(err, "failed to finalize multipart body")
	}

	req, err := t.svc.newRequest(ctx, http.MethodPost, "/v1/files", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var file model.KnowledgeFile
	if err := t.svc.doJSON(req, &file); err != nil {
		return nil, goerr.Wrap(err, "failed to upload file", goerr.V("name", input.Name))
	}

	if input.Progress != nil {
		input.Progress(100)
	}
	return &file, nil
}

func createFilePart(writer *multipart.Writer, input *UploadInput) (io.Writer, error) {
	part, err := writer.CreateFormFile("file", input.Name)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create multipart field", goerr.V("name", input.Name))
	}
	return part, nil
}

func reportProgress(input *UploadInput, sent int64) {
	if input.Progress == nil || input.Size <= 0 {
		return
	}
	percent := int(sent * 100 / input.Size)
	if percent > 100 {
		percent = 100
	}
	input.Progress(percent)
}

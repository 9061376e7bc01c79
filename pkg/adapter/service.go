package adapter

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// service holds the connection settings shared by the hosting service
// clients: base URL, bearer token and the underlying HTTP client.
type service struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func newService(baseURL, apiKey string) *service {
	return &service{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (s *service) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, body)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create request", goerr.V("path", path))
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("X-Request-Id", uuid.NewString())
	return req, nil
}

// doJSON sends the request and decodes a JSON response into out. A nil out
// discards the body. Non-2xx responses become errors carrying status and
// body excerpt.
func (s *service) doJSON(req *http.Request, out any) error {
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(err, "failed to send request", goerr.V("url", req.URL.String()))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return goerr.New("hosting service returned error",
			goerr.V("status", resp.StatusCode),
			goerr.V("url", req.URL.String()),
			goerr.V("requestId", req.Header.Get("X-Request-Id")),
			goerr.V("body", string(body)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return goerr.Wrap(err, "failed to decode response", goerr.V("url", req.URL.String()))
	}
	return nil
}

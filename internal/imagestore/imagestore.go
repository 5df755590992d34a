package imagestore

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/stridekart/catalog/pkg/httpclient"
)

// ImageStore removes product images from external storage.
type ImageStore interface {
	Delete(ctx context.Context, imageRef string) error
}

// HTTPImageStore talks to the media service over HTTP. Calls go through a
// circuit breaker so a degraded media service cannot stall product deletes.
type HTTPImageStore struct {
	baseURL string
	client  *httpclient.CircuitBreakerClient
}

// NewHTTPImageStore creates an image store backed by the media service at baseURL.
func NewHTTPImageStore(baseURL string, client *httpclient.CircuitBreakerClient) *HTTPImageStore {
	return &HTTPImageStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

// NewDefault creates an HTTPImageStore with the default retrying client and
// circuit breaker settings.
func NewDefault(baseURL string, log *slog.Logger) *HTTPImageStore {
	client := httpclient.New(httpclient.DefaultConfig())
	cb := httpclient.NewCircuitBreakerClient(client, httpclient.DefaultCircuitBreakerConfig("imagestore"), log)
	return NewHTTPImageStore(baseURL, cb)
}

// Delete removes the image identified by imageRef. A 404 from the media
// service counts as success since the image is gone either way.
func (s *HTTPImageStore) Delete(ctx context.Context, imageRef string) error {
	if imageRef == "" {
		return nil
	}

	resp, err := s.client.Delete(ctx, s.baseURL+"/api/v1/media/"+url.PathEscape(imageRef))
	if err != nil {
		return fmt.Errorf("delete image %s: %w", imageRef, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 && resp.StatusCode != http.StatusNotFound {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("delete image %s: status %d: %s", imageRef, resp.StatusCode, string(body))
	}

	return nil
}

// Noop is an ImageStore that does nothing, for deployments without a media
// service.
type Noop struct{}

func (Noop) Delete(context.Context, string) error { return nil }

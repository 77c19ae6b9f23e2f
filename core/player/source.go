package player

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// httpSource probes media URLs over plain HTTP. The service does not decode
// audio; confirming the gateway serves the object is what "playing" means on
// the backend side, the browser's media element does the rest.
type httpSource struct {
	client *http.Client

	mu  sync.Mutex
	url string
}

// NewHTTPSource returns a Source backed by HTTP probing.
func NewHTTPSource() Source {
	return &httpSource{
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *httpSource) Load(url string) {
	s.mu.Lock()
	s.url = url
	s.mu.Unlock()
}

func (s *httpSource) Play(ctx context.Context) error {
	s.mu.Lock()
	url := s.url
	s.mu.Unlock()

	if url == "" {
		return ErrNotPlayable
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build media request: %w", err)
	}
	// Only the first bytes matter for the probe.
	req.Header.Set("Range", "bytes=0-1023")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach media source: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("media source returned status %d", resp.StatusCode)
	}

	if _, err := io.CopyN(io.Discard, resp.Body, 1); err != nil && err != io.EOF {
		return fmt.Errorf("failed to read media source: %w", err)
	}
	return nil
}

func (s *httpSource) Pause() {
	// Nothing to stop server-side; the media element pauses in the client.
}

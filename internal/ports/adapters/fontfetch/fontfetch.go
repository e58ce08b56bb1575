package fontfetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const maxFontBytes = 16 << 20

// Source loads the subtitle font from a local path, falling back to a fixed
// remote URL.
type Source struct {
	path   string
	url    string
	client *http.Client
}

func New(localPath, remoteURL string, timeout time.Duration) *Source {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Source{
		path:   localPath,
		url:    remoteURL,
		client: &http.Client{Timeout: timeout},
	}
}

func (s *Source) Font(ctx context.Context) ([]byte, error) {
	var errs []error
	if s.path != "" {
		b, err := os.ReadFile(s.path)
		if err == nil && len(b) > 0 {
			return b, nil
		}
		if err == nil {
			err = errors.New("empty file")
		}
		errs = append(errs, fmt.Errorf("local font %s: %w", s.path, err))
	}
	if s.url != "" {
		b, err := s.download(ctx)
		if err == nil {
			return b, nil
		}
		errs = append(errs, fmt.Errorf("remote font %s: %w", s.url, err))
	}
	if len(errs) == 0 {
		return nil, errors.New("no font source configured")
	}
	return nil, errors.Join(errs...)
}

func (s *Source) download(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %s", resp.Status)
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, maxFontBytes+1))
	if err != nil {
		return nil, err
	}
	if len(b) > maxFontBytes {
		return nil, fmt.Errorf("font larger than %d bytes", maxFontBytes)
	}
	if len(b) == 0 {
		return nil, errors.New("empty body")
	}
	return b, nil
}

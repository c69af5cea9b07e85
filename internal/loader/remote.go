package loader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxDocumentBytes caps remote schema documents.
const maxDocumentBytes = 4 << 20

const acceptHeader = "application/json, application/yaml;q=0.9, */*;q=0.5"

type remote struct {
	client  *http.Client
	timeout time.Duration
}

func (r remote) fetch(ctx context.Context, location string) ([]byte, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("loader: build request: %w", err)
	}
	req.Header.Set("Accept", acceptHeader)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("loader: fetch %s: %w", location, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("loader: fetch %s: unexpected status %s", location, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes+1))
	if err != nil {
		return nil, fmt.Errorf("loader: read body: %w", err)
	}
	if len(data) > maxDocumentBytes {
		return nil, fmt.Errorf("loader: %s exceeds %d bytes", location, maxDocumentBytes)
	}
	return data, nil
}

// remoteClient picks the client used for URL sources. A nil result keeps HTTP
// disabled.
func remoteClient(client *http.Client, fallback bool, timeout time.Duration) *http.Client {
	if client != nil {
		clone := *client
		if clone.Timeout == 0 {
			clone.Timeout = timeout
		}
		return &clone
	}
	if fallback {
		return &http.Client{Timeout: timeout}
	}
	return nil
}

// Package cdn issues best-effort edge cache purges after listing changes.
package cdn

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/stevenovak55/bmnboston-sub015/internal/logging"
	"github.com/stevenovak55/bmnboston-sub015/internal/retry"
)

// Purger sends purge requests for listing detail paths. Purging is never on
// the write path's critical section; failures are logged and dropped.
type Purger struct {
	purgeURL string
	client   *http.Client
	logger   *logging.Logger
}

// NewPurger creates a purger against the configured purge endpoint.
func NewPurger(purgeURL string, logger *logging.Logger) *Purger {
	return &Purger{
		purgeURL: purgeURL,
		client:   &http.Client{Timeout: 10 * time.Second},
		logger:   logger,
	}
}

type purgeRequest struct {
	Paths []string `json:"paths"`
}

// Purge asks the edge to drop the cached copies of the given paths. Retries
// transient failures a few times, then gives up without error propagation.
func (p *Purger) Purge(ctx context.Context, paths ...string) {
	if p.purgeURL == "" || len(paths) == 0 {
		return
	}

	body, err := json.Marshal(purgeRequest{Paths: paths})
	if err != nil {
		p.logger.WithError(err).Error("Failed to encode CDN purge request")
		return
	}

	err = retry.WithRetry(ctx, func(ctx context.Context, _ int) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.purgeURL, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := p.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 300 {
			return fmt.Errorf("purge endpoint returned status %d", resp.StatusCode)
		}
		return nil
	})
	if err != nil {
		p.logger.WithError(err).
			WithField("paths", paths).
			Warn("CDN purge failed, stale copies will age out")
	}
}

package formclient

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// MaxBeaconBytes mirrors the payload quota browsers apply to beacons.
const MaxBeaconBytes = 64 << 10

// Beacon queues a best-effort POST. Send must not block on the network and
// reports only whether the request was queued.
type Beacon interface {
	Send(url, contentType string, body []byte) bool
}

// HTTPBeacon posts from a detached goroutine. Each send runs under its own
// timeout, independent of whatever triggered it, and the response is
// drained and discarded.
type HTTPBeacon struct {
	client  *http.Client
	timeout time.Duration
	logger  *slog.Logger
	wg      sync.WaitGroup
}

func NewHTTPBeacon(client *http.Client, timeout time.Duration, logger *slog.Logger) *HTTPBeacon {
	if client == nil {
		client = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPBeacon{client: client, timeout: timeout, logger: orDiscard(logger)}
}

func (b *HTTPBeacon) Send(url, contentType string, body []byte) bool {
	if len(body) > MaxBeaconBytes {
		b.logger.Warn("Beacon payload exceeds quota", "bytes", len(body))
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bytes.Clone(body)))
	if err != nil {
		cancel()
		b.logger.Warn("Beacon request rejected", "error", err.Error())
		return false
	}
	req.Header.Set("Content-Type", contentType)

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		defer cancel()

		resp, err := b.client.Do(req)
		if err != nil {
			b.logger.Debug("Beacon delivery failed", "error", err.Error())
			return
		}
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()
	return true
}

// Wait blocks until every queued send has finished.
func (b *HTTPBeacon) Wait() {
	b.wg.Wait()
}

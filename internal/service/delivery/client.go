// Package delivery issues the single outbound HTTPS POST that carries a
// signed webhook payload to a subscriber's endpoint.
package delivery

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/Notifuse/notifuse/internal/domain"
	"github.com/Notifuse/notifuse/internal/webhooksign"
	"github.com/Notifuse/notifuse/pkg/logger"
)

// DefaultTimeout is used when a webhook row carries no explicit timeout.
const DefaultTimeout = 30 * time.Second

// DefaultResponseBodyCap bounds how many bytes of a subscriber's response
// body are captured into the delivery log; the remainder is discarded.
const DefaultResponseBodyCap = 64 * 1024

// UserAgent is sent on every outbound delivery request.
const UserAgent = "Notifuse-Webhooks/1.0"

// Result is the outcome of a single delivery attempt.
type Result struct {
	Success      bool
	StatusCode   int
	ResponseBody string
	ElapsedMs    int
	Err          error
	ShouldRetry  bool
}

// Client issues outbound webhook deliveries.
type Client struct {
	httpClient      *http.Client
	responseBodyCap int64
	logger          logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithResponseBodyCap overrides DefaultResponseBodyCap.
func WithResponseBodyCap(n int64) Option {
	return func(c *Client) { c.responseBodyCap = n }
}

// NewClient builds a delivery Client. The http.Client passed in should not
// set its own Timeout; per-request deadlines are applied via context so
// each webhook's configured timeoutMs is honored independently.
func NewClient(httpClient *http.Client, log logger.Logger, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	c := &Client{
		httpClient:      httpClient,
		responseBodyCap: DefaultResponseBodyCap,
		logger:          log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Deliver issues one outbound HTTPS POST carrying payload, signed with
// secret, to url. The body is payload verbatim — the same bytes that were
// signed — and the signature/timestamp/event-kind headers are derived from
// the same inputs passed to webhooksign.Sign.
func (c *Client) Deliver(ctx context.Context, url string, payload []byte, secret string, eventKind domain.EventKind, timeoutMs int, customHeaders map[string]string) Result {
	if !webhooksign.ValidateTargetURL(url) {
		return Result{Err: fmt.Errorf("target URL rejected: %s", webhooksign.ValidationError(url))}
	}

	start := time.Now()

	if timeoutMs <= 0 {
		timeoutMs = int(DefaultTimeout.Milliseconds())
	}
	reqCtx, cancel := context.WithTimeout(ctx, time.Duration(timeoutMs)*time.Millisecond)
	defer cancel()

	timestampMs := start.UnixMilli()
	signature := webhooksign.Sign(payload, secret, timestampMs)

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return Result{Err: fmt.Errorf("failed to build request: %w", err), ElapsedMs: elapsedMs(start)}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Webhook-Signature", signature)
	req.Header.Set("X-Webhook-Timestamp", fmt.Sprintf("%d", timestampMs))
	req.Header.Set("X-Event-Type", string(eventKind))
	req.Header.Set("User-Agent", UserAgent)

	reserved := map[string]bool{
		"content-type": true, "x-webhook-signature": true,
		"x-webhook-timestamp": true, "x-event-type": true, "user-agent": true,
	}
	for k, v := range customHeaders {
		if reserved[strings.ToLower(k)] {
			continue
		}
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	elapsed := elapsedMs(start)
	if err != nil {
		return Result{
			Err:         err,
			ElapsedMs:   elapsed,
			ShouldRetry: isTransientTransportError(err),
		}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, c.responseBodyCap))

	success := resp.StatusCode >= 200 && resp.StatusCode < 300
	return Result{
		Success:      success,
		StatusCode:   resp.StatusCode,
		ResponseBody: string(body),
		ElapsedMs:    elapsed,
		ShouldRetry:  !success && resp.StatusCode >= 500,
	}
}

func elapsedMs(start time.Time) int {
	return int(time.Since(start).Milliseconds())
}

// isTransientTransportError classifies a transport-level error (as opposed
// to an HTTP status code) as retryable or not: deadline exhaustion,
// connection refused/reset, and DNS/TLS failures are transient; everything
// else is treated as permanent by default.
func isTransientTransportError(err error) bool {
	if err == nil {
		return false
	}

	if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
		return true
	}

	msg := strings.ToLower(err.Error())
	transientSubstrings := []string{
		"deadline exceeded",
		"connection refused",
		"connection reset",
		"no such host",
		"dns",
		"tls handshake",
		"eof",
	}
	for _, s := range transientSubstrings {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

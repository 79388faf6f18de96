package adapter

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/feral-file/ff-events/internal/logger"
)

// HTTPClient is the request surface of the IPFS node API and gateways
//
//go:generate mockgen -source=http.go -destination=../mocks/http.go -package=mocks -mock_names=HTTPClient=MockHTTPClient
type HTTPClient interface {
	// Get performs a GET request and returns the response body
	Get(ctx context.Context, url string) ([]byte, error)

	// Post performs a POST request and returns the response body
	Post(ctx context.Context, url string, contentType string, body []byte) ([]byte, error)
}

// StatusError is returned for a non 2xx response
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d: %s", e.StatusCode, e.Body)
}

// Retryable reports whether the status is a throttling or gateway failure
func (e *StatusError) Retryable() bool {
	switch e.StatusCode {
	case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// HTTPClientConfig configures NewHTTPClient
type HTTPClientConfig struct {
	// Timeout bounds a single attempt
	Timeout time.Duration
	// MaxElapsedTime bounds all retries of one call, zero disables retries
	MaxElapsedTime time.Duration
	// MaxResponseSize rejects larger bodies, zero means unbounded
	MaxResponseSize int64
}

type httpClient struct {
	client *http.Client
	cfg    HTTPClientConfig
}

// NewHTTPClient returns an HTTPClient that retries transport errors and retryable statuses
// with exponential backoff
func NewHTTPClient(cfg HTTPClientConfig) HTTPClient {
	return &httpClient{
		client: &http.Client{Timeout: cfg.Timeout},
		cfg:    cfg,
	}
}

func (c *httpClient) newBackOff(ctx context.Context) backoff.BackOff {
	if c.cfg.MaxElapsedTime <= 0 {
		return backoff.WithContext(&backoff.StopBackOff{}, ctx)
	}
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = 250 * time.Millisecond
	eb.MaxInterval = 4 * time.Second
	eb.MaxElapsedTime = c.cfg.MaxElapsedTime
	return backoff.WithContext(eb, ctx)
}

func (c *httpClient) do(ctx context.Context, newRequest func() (*http.Request, error)) ([]byte, error) {
	var body []byte
	attempt := 0

	operation := func() error {
		attempt++
		req, err := newRequest()
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return fmt.Errorf("failed to perform request: %w", err)
		}
		defer func() {
			if err := resp.Body.Close(); err != nil {
				logger.WarnCtx(ctx, "Failed to close response body", zap.Error(err), zap.String("url", req.URL.String()))
			}
		}()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			statusErr := &StatusError{StatusCode: resp.StatusCode, Body: string(snippet)}
			if !statusErr.Retryable() {
				return backoff.Permanent(statusErr)
			}
			logger.DebugCtx(ctx, "Retryable HTTP status",
				zap.String("url", req.URL.String()),
				zap.Int("status", resp.StatusCode),
				zap.Int("attempt", attempt))
			return statusErr
		}

		reader := io.Reader(resp.Body)
		if c.cfg.MaxResponseSize > 0 {
			reader = io.LimitReader(resp.Body, c.cfg.MaxResponseSize+1)
		}
		body, err = io.ReadAll(reader)
		if err != nil {
			return fmt.Errorf("failed to read response body: %w", err)
		}
		if c.cfg.MaxResponseSize > 0 && int64(len(body)) > c.cfg.MaxResponseSize {
			return backoff.Permanent(fmt.Errorf("response exceeds %d bytes", c.cfg.MaxResponseSize))
		}
		return nil
	}

	if err := backoff.Retry(operation, c.newBackOff(ctx)); err != nil {
		return nil, err
	}
	return body, nil
}

func (c *httpClient) Get(ctx context.Context, url string) ([]byte, error) {
	return c.do(ctx, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	})
}

// Post replays body on every attempt
func (c *httpClient) Post(ctx context.Context, url string, contentType string, body []byte) ([]byte, error) {
	return c.do(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		return req, nil
	})
}

// Package api is the REST client for the assistant backend. It wraps a
// single HTTP client with a fixed base address and a global timeout, and
// normalizes every failure into an *Error.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/docuchat/assistant-cli/pkg/logger"
	"github.com/docuchat/assistant-cli/pkg/metrics"
)

// DefaultTimeout is applied to every request unless overridden.
const DefaultTimeout = 30 * time.Second

// Client talks to the assistant backend. All endpoint methods classify
// failures into server/network/timeout/client kinds and never retry; retry
// is always the caller's decision.
type Client struct {
	baseURL string
	http    *http.Client
	log     *logger.Logger
	tracer  trace.Tracer
}

// New creates a client for the backend at baseURL, e.g.
// "http://localhost:8000/api". A non-positive timeout falls back to
// DefaultTimeout.
func New(baseURL string, timeout time.Duration, log *logger.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
		tracer:  otel.Tracer("backend-api"),
	}
}

// errorPayload is the FastAPI-style error body the backend answers with.
type errorPayload struct {
	Detail string `json:"detail"`
}

// do performs one request and decodes a JSON response into out when out is
// non-nil. contentType is derived from the body shape by the callers, never
// asserted by users of the endpoint methods.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out interface{}) error {
	ctx, span := c.tracer.Start(ctx, method+" "+path)
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return c.fail(span, method, path, &Error{Kind: KindClient, Err: err})
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Correlation-ID", uuid.New().String())

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		kind := KindNetwork
		var uerr *url.Error
		if errors.As(err, &uerr) && uerr.Timeout() || errors.Is(err, context.DeadlineExceeded) {
			kind = KindTimeout
		}
		metrics.RecordBackendRequest(method, path, string(kind), time.Since(start).Seconds())
		return c.fail(span, method, path, &Error{Kind: kind, Err: err})
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordBackendRequest(method, path, string(KindNetwork), time.Since(start).Seconds())
		return c.fail(span, method, path, &Error{Kind: KindNetwork, Err: err})
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	metrics.RecordBackendRequest(method, path, strconv.Itoa(resp.StatusCode), time.Since(start).Seconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var payload errorPayload
		_ = json.Unmarshal(data, &payload)
		return c.fail(span, method, path, &Error{Kind: KindServer, Status: resp.StatusCode, Detail: payload.Detail})
	}

	c.log.Debug("backend request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return c.fail(span, method, path, &Error{Kind: KindClient, Err: fmt.Errorf("decode response: %w", err)})
		}
	}
	return nil
}

// postJSON marshals body and performs a POST. A marshal failure is a client
// kind error; no request leaves the process.
func (c *Client) postJSON(ctx context.Context, path string, body, out interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return &Error{Kind: KindClient, Err: fmt.Errorf("encode request: %w", err)}
	}
	return c.do(ctx, http.MethodPost, path, bytes.NewReader(data), "application/json", out)
}

// fail records the diagnostic for a failed request and returns the error.
func (c *Client) fail(span trace.Span, method, path string, apiErr *Error) error {
	span.SetStatus(codes.Error, string(apiErr.Kind))
	c.log.Warn("backend request failed",
		zap.String("method", method),
		zap.String("path", path),
		zap.String("kind", string(apiErr.Kind)),
		zap.Int("status", apiErr.Status),
		zap.Error(apiErr),
	)
	return apiErr
}

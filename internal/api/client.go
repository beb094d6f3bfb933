// Package api is the HTTP client for the Ascend backend. It owns the
// session cookie, classifies failures into domain.APIError, and keeps
// all endpoint bindings in one place. Normalization of payloads is
// delegated to the transform package; nothing here mutates state.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/ascendhq/ascend-console-go/internal/domain"
	"github.com/ascendhq/ascend-console-go/internal/infra/observability"
	"github.com/ascendhq/ascend-console-go/internal/infra/resilience"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("api")

// networkAdvisory is the fixed display message for failures that never
// reached the server (DNS, connection refused, timeout).
const networkAdvisory = "Failed to connect to the API. Please ensure the backend is running."

// Client wraps HTTP calls to the Ascend API. The session cookie set by
// login rides on every subsequent request via the cookie jar; there is
// no per-request token handling.
type Client struct {
	httpClient *http.Client
	baseURL    string
	cb         *gobreaker.CircuitBreaker
	bulkhead   *resilience.Bulkhead
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NewClient creates an API client. A cookie jar is attached to
// httpClient when it does not already carry one.
func NewClient(httpClient *http.Client, baseURL string, cb *gobreaker.CircuitBreaker, bulkhead *resilience.Bulkhead, metrics *observability.Metrics, logger *zap.Logger) *Client {
	if httpClient.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			// cookiejar.New only fails on bad options; nil options cannot.
			panic("api: cookie jar: " + err.Error())
		}
		httpClient.Jar = jar
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		cb:         cb,
		bulkhead:   bulkhead,
		metrics:    metrics,
		logger:     logger,
	}
}

// do executes one JSON request. Non-2xx responses become APIError with
// the server-supplied detail when the body carries one; transport
// failures become APIError with status 0 and the fixed advisory
// message. Empty or non-JSON success bodies leave out untouched.
func (c *Client) do(ctx context.Context, operation, method, path string, body, out any) error {
	ctx, span := tracer.Start(ctx, "API."+operation)
	defer span.End()

	requestID := uuid.NewString()
	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("http.path", path),
		attribute.String("request.id", requestID),
	)

	if err := c.bulkhead.Acquire(ctx); err != nil {
		return err
	}
	defer c.bulkhead.Release()

	start := time.Now()
	defer func() {
		c.metrics.RecordRequestDuration(operation, time.Since(start))
	}()

	_, err := c.cb.Execute(func() (any, error) {
		var reader io.Reader
		if body != nil {
			payload, err := json.Marshal(body)
			if err != nil {
				return nil, fmt.Errorf("encode %s request: %w", operation, err)
			}
			reader = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return nil, fmt.Errorf("build %s request: %w", operation, err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Request-ID", requestID)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.logger.Error("api: request failed",
				zap.String("operation", operation),
				zap.String("method", method),
				zap.String("path", path),
				zap.String("request_id", requestID),
				zap.Error(err),
			)
			c.metrics.IncrAPIError(operation, "network")
			return nil, &domain.APIError{Status: 0, Detail: networkAdvisory}
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			c.metrics.IncrAPIError(operation, "network")
			return nil, &domain.APIError{Status: 0, Detail: networkAdvisory}
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			detail := errorDetail(data, resp)
			c.logger.Warn("api: non-2xx response",
				zap.String("operation", operation),
				zap.String("path", path),
				zap.Int("status", resp.StatusCode),
				zap.String("request_id", requestID),
				zap.String("detail", detail),
			)
			c.metrics.IncrAPIError(operation, "http")
			return nil, &domain.APIError{Status: resp.StatusCode, Detail: detail}
		}

		c.logger.Debug("api: request OK",
			zap.String("operation", operation),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("request_id", requestID),
		)

		// 204 / empty / non-JSON success counts as an empty payload.
		if out == nil || len(bytes.TrimSpace(data)) == 0 || !jsonResponse(resp) {
			return nil, nil
		}
		if err := json.Unmarshal(data, out); err != nil {
			return nil, fmt.Errorf("decode %s response: %w", operation, err)
		}
		return nil, nil
	})
	return err
}

// raw executes a GET and returns the unparsed body, for binary
// downloads such as the PDF export.
func (c *Client) raw(ctx context.Context, operation, path string) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "API."+operation)
	defer span.End()
	span.SetAttributes(attribute.String("http.path", path))

	if err := c.bulkhead.Acquire(ctx); err != nil {
		return nil, err
	}
	defer c.bulkhead.Release()

	start := time.Now()
	defer func() {
		c.metrics.RecordRequestDuration(operation, time.Since(start))
	}()

	result, err := c.cb.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return nil, fmt.Errorf("build %s request: %w", operation, err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.metrics.IncrAPIError(operation, "network")
			return nil, &domain.APIError{Status: 0, Detail: networkAdvisory}
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			c.metrics.IncrAPIError(operation, "network")
			return nil, &domain.APIError{Status: 0, Detail: networkAdvisory}
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			c.metrics.IncrAPIError(operation, "http")
			return nil, &domain.APIError{Status: resp.StatusCode, Detail: errorDetail(data, resp)}
		}
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]byte), nil
}

// errorDetail extracts a human-readable detail from an error body,
// falling back to "HTTP <status>: <statusText>".
func errorDetail(data []byte, resp *http.Response) string {
	fallback := fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))

	var body struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return fallback
	}
	if body.Detail != "" {
		return body.Detail
	}
	if body.Message != "" {
		return body.Message
	}
	return fallback
}

func jsonResponse(resp *http.Response) bool {
	return strings.Contains(resp.Header.Get("Content-Type"), "application/json")
}

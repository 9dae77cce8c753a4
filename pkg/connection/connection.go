package connection

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/adfharrison1/go-arango/pkg/domain"
)

// RequestIDHeader carries the id generated for every outgoing request
const RequestIDHeader = "X-Request-Id"

// Connection sends requests to one ArangoDB endpoint
type Connection struct {
	base     *url.URL
	client   *http.Client
	logger   *zap.Logger
	tracer   trace.Tracer
	database string

	mu       sync.RWMutex
	username string
	password string
}

// New creates a connection to the server at rawURL
func New(rawURL string, opts ...Option) (*Connection, error) {
	base, err := url.Parse(strings.TrimRight(rawURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid url %q: %w", rawURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid url %q: scheme and host are required", rawURL)
	}

	c := &Connection{
		base:   base,
		client: http.DefaultClient,
		logger: zap.NewNop(),
		tracer: otel.Tracer("go-arango/connection"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Connection) Scheme() string { return c.base.Scheme }

func (c *Connection) Host() string { return c.base.Hostname() }

// Port returns the explicit port or the scheme's default
func (c *Connection) Port() string {
	if p := c.base.Port(); p != "" {
		return p
	}
	if c.base.Scheme == "https" {
		return "443"
	}
	return "80"
}

// DatabaseName returns the database requests are scoped to, empty for _system
func (c *Connection) DatabaseName() string { return c.database }

// Authenticate sets basic auth credentials for all following requests
func (c *Connection) Authenticate(username, password string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.username = username
	c.password = password
}

// URL builds the absolute URL of a request. req.Path is sent as is, so
// callers escape each segment themselves.
func (c *Connection) URL(req *Request) string {
	u := *c.base
	rawPath := u.EscapedPath()
	if c.database != "" && !req.Unscoped {
		rawPath += "/_db/" + url.PathEscape(c.database)
	}
	rawPath += "/_api/" + strings.TrimLeft(req.Path, "/")
	if decoded, err := url.PathUnescape(rawPath); err == nil {
		u.Path, u.RawPath = decoded, rawPath
	} else {
		u.Path, u.RawPath = rawPath, ""
	}
	if len(req.Query) > 0 {
		u.RawQuery = req.Query.Encode()
	}
	return u.String()
}

// Send issues req and decodes the JSON response into out when out is non nil.
// Responses with status >= 400 are returned as *domain.Error.
func (c *Connection) Send(ctx context.Context, req *Request, out interface{}) error {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	target := c.URL(req)
	requestID := uuid.NewString()

	ctx, span := c.tracer.Start(ctx, "arango."+method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("arango.path", req.Path),
			attribute.String("arango.request_id", requestID),
		))
	defer span.End()

	var body io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "encode body")
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "build request")
		return fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(RequestIDHeader, requestID)
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	c.mu.RLock()
	if c.username != "" {
		httpReq.SetBasicAuth(c.username, c.password)
	}
	c.mu.RUnlock()

	start := time.Now()
	resp, err := c.client.Do(httpReq)
	if err != nil {
		c.logger.Warn("request failed",
			zap.String("method", method),
			zap.String("url", target),
			zap.String("request_id", requestID),
			zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport")
		return fmt.Errorf("%s %s: %w", method, req.Path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read body")
		return fmt.Errorf("failed to read response body: %w", err)
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	c.logger.Debug("request",
		zap.String("method", method),
		zap.String("url", target),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
		zap.String("request_id", requestID))

	if resp.StatusCode >= http.StatusBadRequest {
		var errBody domain.ErrorBody
		// non JSON error bodies still get classified by status
		_ = json.Unmarshal(raw, &errBody)
		apiErr := domain.NewError(resp.StatusCode, method, req.Path, errBody)
		c.logger.Warn("request returned an error",
			zap.String("method", method),
			zap.String("url", target),
			zap.Int("status", resp.StatusCode),
			zap.Int("error_num", errBody.ErrorNum),
			zap.String("request_id", requestID))
		span.RecordError(apiErr)
		span.SetStatus(codes.Error, apiErr.Kind().Error())
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "decode body")
		return fmt.Errorf("failed to decode response of %s %s: %w", method, req.Path, err)
	}
	return nil
}

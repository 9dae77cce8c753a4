package connection

import (
	"net/http"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Option func(*Connection)

// WithHTTPClient sets the client used to talk to the server
func WithHTTPClient(client *http.Client) Option {
	return func(c *Connection) {
		if client != nil {
			c.client = client
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Connection) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithBasicAuth authenticates every request with the given credentials
func WithBasicAuth(username, password string) Option {
	return func(c *Connection) {
		c.Authenticate(username, password)
	}
}

// WithDatabaseName scopes requests to /_db/<name>
func WithDatabaseName(name string) Option {
	return func(c *Connection) {
		c.database = name
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(c *Connection) {
		if tracer != nil {
			c.tracer = tracer
		}
	}
}

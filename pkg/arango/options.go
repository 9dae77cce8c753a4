package arango

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/adfharrison1/go-arango/pkg/domain"
)

// DatabaseOption configures NewDatabase
type DatabaseOption func(*databaseConfig)

type databaseConfig struct {
	url        string
	connection Requester
	logger     *zap.Logger
	httpClient *http.Client
	name       string
	username   string
	password   string
}

// WithURL sets up a new connection to the given endpoint
func WithURL(url string) DatabaseOption {
	return func(c *databaseConfig) { c.url = url }
}

// WithConnection reuses an existing connection. It wins over WithURL.
func WithConnection(conn Requester) DatabaseOption {
	return func(c *databaseConfig) { c.connection = conn }
}

func WithLogger(logger *zap.Logger) DatabaseOption {
	return func(c *databaseConfig) { c.logger = logger }
}

// WithHTTPClient sets the HTTP adapter of a newly set up connection
func WithHTTPClient(client *http.Client) DatabaseOption {
	return func(c *databaseConfig) { c.httpClient = client }
}

// WithName selects a database other than _system
func WithName(name string) DatabaseOption {
	return func(c *databaseConfig) { c.name = name }
}

func WithBasicAuth(username, password string) DatabaseOption {
	return func(c *databaseConfig) {
		c.username = username
		c.password = password
	}
}

// CreateCollectionOptions are the client side names of the creation
// parameters. They are translated to the server's JSON shape.
type CreateCollectionOptions struct {
	IsVolatile  bool
	ContentType domain.CollectionType
	KeyOptions  *KeyOptions
	WaitForSync *bool
}

// KeyOptions configure the key generator of a new collection
type KeyOptions struct {
	Type          string
	Offset        int
	Increment     int
	AllowUserKeys bool
}

// IndexOptions are optional index creation parameters
type IndexOptions struct {
	Unique bool
	Sparse bool
}

// GraphOptions describe a new graph
type GraphOptions struct {
	EdgeDefinitions   []domain.EdgeDefinition
	OrphanCollections []string
}

// ExecuteOptions control an AQL execution
type ExecuteOptions struct {
	BindVars  map[string]interface{}
	Count     bool
	BatchSize int
}

// SimpleOptions control the simple queries of a collection
type SimpleOptions struct {
	Limit     int
	Skip      int
	BatchSize int
}

// TransactionCollections declares what a transaction locks
type TransactionCollections struct {
	Read  []string
	Write []string
}

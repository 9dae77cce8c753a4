package arango

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/adfharrison1/go-arango/pkg/connection"
	"github.com/adfharrison1/go-arango/pkg/domain"
)

// Requester is the transport a Database delegates to
type Requester interface {
	Send(ctx context.Context, req *connection.Request, out interface{}) error
}

// Database is an ArangoDB database reached through one connection
type Database struct {
	conn Requester
	name string
}

// NewDatabase opens a database facade. Either WithURL or WithConnection
// must be given.
func NewDatabase(opts ...DatabaseOption) (*Database, error) {
	cfg := &databaseConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	conn := cfg.connection
	if conn == nil {
		if cfg.url == "" {
			return nil, domain.ErrMissingEndpoint
		}
		connOpts := []connection.Option{
			connection.WithLogger(cfg.logger),
			connection.WithHTTPClient(cfg.httpClient),
			connection.WithDatabaseName(cfg.name),
		}
		if cfg.username != "" {
			connOpts = append(connOpts, connection.WithBasicAuth(cfg.username, cfg.password))
		}
		c, err := connection.New(cfg.url, connOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to set up connection: %w", err)
		}
		conn = c
	}

	name := cfg.name
	if named, ok := conn.(interface{ DatabaseName() string }); ok && named.DatabaseName() != "" {
		name = named.DatabaseName()
	}
	if name == "" {
		name = "_system"
	}
	return &Database{conn: conn, name: name}, nil
}

// Name returns the name of the database
func (db *Database) Name() string { return db.name }

// Connection returns the underlying transport
func (db *Database) Connection() Requester { return db.conn }

type endpoint interface {
	Scheme() string
	Host() string
	Port() string
}

// Scheme returns the connection's URL scheme, empty when the transport does
// not expose one
func (db *Database) Scheme() string {
	if e, ok := db.conn.(endpoint); ok {
		return e.Scheme()
	}
	return ""
}

// Host returns the connection's host name
func (db *Database) Host() string {
	if e, ok := db.conn.(endpoint); ok {
		return e.Host()
	}
	return ""
}

// Port returns the connection's port
func (db *Database) Port() string {
	if e, ok := db.conn.(endpoint); ok {
		return e.Port()
	}
	return ""
}

// Authenticate sets the credentials used by every later request
func (db *Database) Authenticate(username, password string) error {
	a, ok := db.conn.(interface {
		Authenticate(username, password string)
	})
	if !ok {
		return domain.ErrAuthUnsupported
	}
	a.Authenticate(username, password)
	return nil
}

// Send delegates a request to the connection
func (db *Database) Send(ctx context.Context, req *connection.Request, out interface{}) error {
	return db.conn.Send(ctx, req, out)
}

// Collections lists the collections of the database. System collections
// (names starting with "_") are only included on request.
func (db *Database) Collections(ctx context.Context, includeSystem bool) ([]*Collection, error) {
	raw, err := db.rawCollections(ctx)
	if err != nil {
		return nil, err
	}
	collections := make([]*Collection, 0, len(raw))
	for _, rc := range raw {
		if !includeSystem && strings.HasPrefix(rc.Name, "_") {
			continue
		}
		collections = append(collections, newCollection(db, rc))
	}
	return collections, nil
}

// SystemCollections lists only the system collections
func (db *Database) SystemCollections(ctx context.Context) ([]*Collection, error) {
	raw, err := db.rawCollections(ctx)
	if err != nil {
		return nil, err
	}
	var collections []*Collection
	for _, rc := range raw {
		if strings.HasPrefix(rc.Name, "_") {
			collections = append(collections, newCollection(db, rc))
		}
	}
	return collections, nil
}

func (db *Database) rawCollections(ctx context.Context) ([]domain.RawCollection, error) {
	var list domain.CollectionList
	if err := db.Send(ctx, connection.Get("collection"), &list); err != nil {
		return nil, err
	}
	return list.All(), nil
}

// CreateCollection creates a collection with the given name
func (db *Database) CreateCollection(ctx context.Context, name string, opts *CreateCollectionOptions) (*Collection, error) {
	var raw domain.RawCollection
	if err := db.Send(ctx, connection.Post("collection", translateParams(name, opts)), &raw); err != nil {
		return nil, err
	}
	return newCollection(db, raw), nil
}

// Collection fetches a collection by name or id and creates it when the
// server does not know it.
func (db *Database) Collection(ctx context.Context, identifier string) (*Collection, error) {
	var raw domain.RawCollection
	err := db.Send(ctx, connection.Get("collection/"+identifier), &raw)
	if errors.Is(err, domain.ErrCollectionNotFound) {
		err = db.Send(ctx, connection.Post("collection", map[string]interface{}{"name": identifier}), &raw)
	}
	if err != nil {
		return nil, err
	}
	return newCollection(db, raw), nil
}

// Query returns a query bound to the database
func (db *Database) Query() *Query {
	return &Query{db: db}
}

// Truncate removes all documents from every non-system collection
func (db *Database) Truncate(ctx context.Context) error {
	collections, err := db.Collections(ctx, false)
	if err != nil {
		return err
	}
	for _, c := range collections {
		if err := c.Truncate(ctx); err != nil {
			return fmt.Errorf("failed to truncate %s: %w", c.Name(), err)
		}
	}
	return nil
}

// AllDatabases lists the names of the databases on the server
func (db *Database) AllDatabases(ctx context.Context) ([]string, error) {
	var resp struct {
		Result []string `json:"result"`
	}
	if err := db.Send(ctx, connection.Get("database").AsUnscoped(), &resp); err != nil {
		return nil, err
	}
	return resp.Result, nil
}

// Create creates this database on the server
func (db *Database) Create(ctx context.Context) error {
	return db.Send(ctx, connection.Post("database", map[string]string{"name": db.name}).AsUnscoped(), nil)
}

// Drop deletes this database from the server
func (db *Database) Drop(ctx context.Context) error {
	return db.Send(ctx, connection.Delete("database/"+db.name).AsUnscoped(), nil)
}

// CreateGraph creates a named graph
func (db *Database) CreateGraph(ctx context.Context, name string, opts *GraphOptions) (*Graph, error) {
	body := map[string]interface{}{
		"name":              name,
		"edgeDefinitions":   []domain.EdgeDefinition{},
		"orphanCollections": []string{},
	}
	if opts != nil {
		if opts.EdgeDefinitions != nil {
			body["edgeDefinitions"] = opts.EdgeDefinitions
		}
		if opts.OrphanCollections != nil {
			body["orphanCollections"] = opts.OrphanCollections
		}
	}
	var resp domain.GraphResponse
	if err := db.Send(ctx, connection.Post("gharial", body), &resp); err != nil {
		return nil, err
	}
	return newGraph(db, resp.Graph), nil
}

// Graph fetches a graph by name and creates an empty one when it is missing
func (db *Database) Graph(ctx context.Context, name string) (*Graph, error) {
	var resp domain.GraphResponse
	err := db.Send(ctx, connection.Get("gharial/"+name), &resp)
	if errors.Is(err, domain.ErrGraphNotFound) {
		return db.CreateGraph(ctx, name, nil)
	}
	if err != nil {
		return nil, err
	}
	return newGraph(db, resp.Graph), nil
}

// Graphs lists all graphs of the database
func (db *Database) Graphs(ctx context.Context) ([]*Graph, error) {
	var resp domain.GraphList
	if err := db.Send(ctx, connection.Get("gharial"), &resp); err != nil {
		return nil, err
	}
	graphs := make([]*Graph, len(resp.Graphs))
	for i, g := range resp.Graphs {
		graphs[i] = newGraph(db, g)
	}
	return graphs, nil
}

// CreateTransaction prepares a JavaScript transaction
func (db *Database) CreateTransaction(action string, collections *TransactionCollections) *Transaction {
	t := &Transaction{db: db, action: action}
	if collections != nil {
		t.read = collections.Read
		t.write = collections.Write
	}
	return t
}

// translateParams maps the creation options to the server's field names
func translateParams(name string, opts *CreateCollectionOptions) map[string]interface{} {
	params := map[string]interface{}{"name": name}
	if opts == nil {
		return params
	}
	if opts.IsVolatile {
		params["isVolatile"] = true
	}
	if opts.ContentType != 0 {
		params["type"] = int(opts.ContentType)
	}
	if opts.KeyOptions != nil {
		params["keyOptions"] = translateKeyOptions(opts.KeyOptions)
	}
	if opts.WaitForSync != nil {
		params["waitForSync"] = *opts.WaitForSync
	}
	return params
}

func translateKeyOptions(k *KeyOptions) map[string]interface{} {
	return map[string]interface{}{
		"type":          k.Type,
		"offset":        k.Offset,
		"increment":     k.Increment,
		"allowUserKeys": k.AllowUserKeys,
	}
}

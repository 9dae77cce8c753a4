package arango

import (
	"context"
	"net/url"
	"strings"

	"github.com/adfharrison1/go-arango/pkg/connection"
	"github.com/adfharrison1/go-arango/pkg/domain"
)

// Collection is a client side proxy of a server collection
type Collection struct {
	db          *Database
	id          string
	name        string
	status      domain.Status
	contentType domain.CollectionType
	isSystem    bool
}

func newCollection(db *Database, raw domain.RawCollection) *Collection {
	c := &Collection{db: db, id: raw.ID, contentType: raw.Type}
	c.update(raw)
	if c.contentType == 0 {
		c.contentType = domain.DocumentCollection
	}
	return c
}

func (c *Collection) update(raw domain.RawCollection) {
	if raw.Name != "" {
		c.name = raw.Name
	}
	if raw.ID != "" {
		c.id = raw.ID
	}
	if raw.Status != 0 {
		c.status = raw.Status
	}
	if raw.Type != 0 {
		c.contentType = raw.Type
	}
	c.isSystem = raw.IsSystem
}

func (c *Collection) Database() *Database { return c.db }

func (c *Collection) Name() string { return c.name }

func (c *Collection) ID() string { return c.id }

// Status is the load state at the time of the last response
func (c *Collection) Status() domain.Status { return c.status }

func (c *Collection) ContentType() domain.CollectionType { return c.contentType }

func (c *Collection) IsSystem() bool { return c.isSystem }

func (c *Collection) path(suffix string) string {
	if suffix == "" {
		return "collection/" + c.name
	}
	return "collection/" + c.name + "/" + suffix
}

func (c *Collection) sendUpdate(ctx context.Context, req *connection.Request) error {
	var raw domain.RawCollection
	if err := c.db.Send(ctx, req, &raw); err != nil {
		return err
	}
	c.update(raw)
	return nil
}

// Rename changes the name of the collection
func (c *Collection) Rename(ctx context.Context, name string) error {
	if err := c.sendUpdate(ctx, connection.Put(c.path("rename"), map[string]string{"name": name})); err != nil {
		return err
	}
	c.name = name
	return nil
}

// Load loads the collection into memory on the server
func (c *Collection) Load(ctx context.Context) error {
	return c.sendUpdate(ctx, connection.Put(c.path("load"), nil))
}

// Unload unloads the collection from memory on the server
func (c *Collection) Unload(ctx context.Context) error {
	return c.sendUpdate(ctx, connection.Put(c.path("unload"), nil))
}

// Truncate removes all documents of the collection
func (c *Collection) Truncate(ctx context.Context) error {
	return c.sendUpdate(ctx, connection.Put(c.path("truncate"), nil))
}

// Delete drops the collection
func (c *Collection) Delete(ctx context.Context) error {
	if err := c.db.Send(ctx, connection.Delete(c.path("")), nil); err != nil {
		return err
	}
	c.status = domain.StatusDeleted
	return nil
}

func (c *Collection) properties(ctx context.Context) (domain.RawCollection, error) {
	var raw domain.RawCollection
	err := c.db.Send(ctx, connection.Get(c.path("properties")), &raw)
	return raw, err
}

// WaitForSync reports whether writes are synced to disk before returning
func (c *Collection) WaitForSync(ctx context.Context) (bool, error) {
	raw, err := c.properties(ctx)
	if err != nil {
		return false, err
	}
	return raw.WaitForSync != nil && *raw.WaitForSync, nil
}

func (c *Collection) SetWaitForSync(ctx context.Context, wait bool) error {
	return c.sendUpdate(ctx, connection.Put(c.path("properties"), map[string]bool{"waitForSync": wait}))
}

// KeyOptions returns the key generator settings of the collection
func (c *Collection) KeyOptions(ctx context.Context) (*KeyOptions, error) {
	raw, err := c.properties(ctx)
	if err != nil {
		return nil, err
	}
	if raw.KeyOptions == nil {
		return &KeyOptions{}, nil
	}
	return &KeyOptions{
		Type:          raw.KeyOptions.Type,
		Offset:        raw.KeyOptions.Offset,
		Increment:     raw.KeyOptions.Increment,
		AllowUserKeys: raw.KeyOptions.AllowUserKeys,
	}, nil
}

// Length returns the number of documents in the collection
func (c *Collection) Length(ctx context.Context) (int64, error) {
	var raw domain.RawCollection
	if err := c.db.Send(ctx, connection.Get(c.path("count")), &raw); err != nil {
		return 0, err
	}
	if raw.Count == nil {
		return 0, nil
	}
	return *raw.Count, nil
}

// Figures returns the storage statistics of the collection
func (c *Collection) Figures(ctx context.Context) (*domain.Figures, error) {
	var raw domain.RawCollection
	if err := c.db.Send(ctx, connection.Get(c.path("figures")), &raw); err != nil {
		return nil, err
	}
	if raw.Figures == nil {
		return &domain.Figures{}, nil
	}
	return raw.Figures, nil
}

func (c *Collection) documentPath(key string) string {
	return "document/" + c.name + "/" + url.PathEscape(key)
}

func (c *Collection) fetchRaw(ctx context.Context, key string) (domain.Document, error) {
	var raw domain.Document
	if err := c.db.Send(ctx, connection.Get(c.documentPath(key)), &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// Fetch returns the document with the given key
func (c *Collection) Fetch(ctx context.Context, key string) (*Document, error) {
	raw, err := c.fetchRaw(ctx, key)
	if err != nil {
		return nil, err
	}
	return newDocument(c.db, raw), nil
}

// Replace overwrites the document with the given key
func (c *Collection) Replace(ctx context.Context, key string, attrs map[string]interface{}) (*Document, error) {
	var handle domain.DocumentHandle
	if err := c.db.Send(ctx, connection.Put(c.documentPath(key), attrs), &handle); err != nil {
		return nil, err
	}
	return newDocument(c.db, withHandle(attrs, handle)), nil
}

// CreateDocument stores a new document in the collection
func (c *Collection) CreateDocument(ctx context.Context, attrs map[string]interface{}) (*Document, error) {
	var handle domain.DocumentHandle
	req := connection.Post("document", attrs).WithQuery("collection", c.name)
	if err := c.db.Send(ctx, req, &handle); err != nil {
		return nil, err
	}
	return newDocument(c.db, withHandle(attrs, handle)), nil
}

// AddIndex creates an index of the given type over fields
func (c *Collection) AddIndex(ctx context.Context, indexType string, fields []string, opts *IndexOptions) (*Index, error) {
	body := map[string]interface{}{
		"type":   indexType,
		"fields": fields,
	}
	if opts != nil {
		body["unique"] = opts.Unique
		body["sparse"] = opts.Sparse
	}
	var raw domain.RawIndex
	if err := c.db.Send(ctx, connection.Post("index", body).WithQuery("collection", c.name), &raw); err != nil {
		return nil, err
	}
	return newIndex(c, raw), nil
}

// Index fetches an index by its id ("collection/123" or "123")
func (c *Collection) Index(ctx context.Context, id string) (*Index, error) {
	var raw domain.RawIndex
	if err := c.db.Send(ctx, connection.Get("index/"+c.indexHandle(id)), &raw); err != nil {
		return nil, err
	}
	return newIndex(c, raw), nil
}

// Indices lists the indexes of the collection
func (c *Collection) Indices(ctx context.Context) ([]*Index, error) {
	var list domain.IndexList
	if err := c.db.Send(ctx, connection.Get("index").WithQuery("collection", c.name), &list); err != nil {
		return nil, err
	}
	indices := make([]*Index, len(list.Indexes))
	for i, raw := range list.Indexes {
		indices[i] = newIndex(c, raw)
	}
	return indices, nil
}

func (c *Collection) indexHandle(id string) string {
	if strings.Contains(id, "/") {
		return id
	}
	return c.name + "/" + id
}

// Query returns a query bound to this collection
func (c *Collection) Query() *Query {
	return &Query{db: c.db, collection: c}
}

func withHandle(attrs map[string]interface{}, handle domain.DocumentHandle) domain.Document {
	raw := make(domain.Document, len(attrs)+3)
	for k, v := range attrs {
		raw[k] = v
	}
	raw[domain.AttrID] = handle.ID
	raw[domain.AttrKey] = handle.Key
	raw[domain.AttrRev] = handle.Rev
	return raw
}

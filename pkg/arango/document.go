package arango

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/adfharrison1/go-arango/pkg/connection"
	"github.com/adfharrison1/go-arango/pkg/domain"
)

// Document is a server document and its attributes
type Document struct {
	db         *Database
	id         string
	key        string
	rev        string
	attributes map[string]interface{}
}

func newDocument(db *Database, raw domain.Document) *Document {
	d := &Document{db: db}
	d.load(raw)
	return d
}

// documentFromJSON builds a document from a raw query result
func documentFromJSON(db *Database, raw json.RawMessage) (*Document, error) {
	var doc domain.Document
	if err := json.Unmarshal(raw, &doc); err != nil || doc == nil {
		return nil, domain.ErrNotADocument
	}
	return newDocument(db, doc), nil
}

func (d *Document) load(raw domain.Document) {
	d.id = raw.String(domain.AttrID)
	d.key = raw.String(domain.AttrKey)
	d.rev = raw.String(domain.AttrRev)
	d.attributes = raw.Without(domain.AttrID, domain.AttrKey, domain.AttrRev)
}

// ID is the document handle "<collection>/<key>"
func (d *Document) ID() string { return d.id }

func (d *Document) Key() string { return d.key }

func (d *Document) Revision() string { return d.rev }

// Collection returns the collection part of the id
func (d *Document) Collection() string {
	name, _, _ := strings.Cut(d.id, "/")
	return name
}

// Get returns an attribute, nil when it is not set
func (d *Document) Get(attr string) interface{} {
	return d.attributes[attr]
}

// Set changes an attribute locally. Save sends it to the server.
func (d *Document) Set(attr string, value interface{}) {
	if d.attributes == nil {
		d.attributes = make(map[string]interface{})
	}
	d.attributes[attr] = value
}

// Attributes returns a copy of the non-system attributes
func (d *Document) Attributes() map[string]interface{} {
	out := make(map[string]interface{}, len(d.attributes))
	for k, v := range d.attributes {
		out[k] = v
	}
	return out
}

// Map returns the attributes including _id, _key and _rev
func (d *Document) Map() map[string]interface{} {
	out := d.Attributes()
	if d.id != "" {
		out[domain.AttrID] = d.id
	}
	if d.key != "" {
		out[domain.AttrKey] = d.key
	}
	if d.rev != "" {
		out[domain.AttrRev] = d.rev
	}
	return out
}

func (d *Document) path() string {
	return "document/" + d.Collection() + "/" + url.PathEscape(d.key)
}

// Save replaces the server copy with the local attributes
func (d *Document) Save(ctx context.Context) error {
	var handle domain.DocumentHandle
	if err := d.db.Send(ctx, connection.Put(d.path(), d.attributes), &handle); err != nil {
		return err
	}
	d.rev = handle.Rev
	return nil
}

// Delete removes the document from the server
func (d *Document) Delete(ctx context.Context) error {
	return d.db.Send(ctx, connection.Delete(d.path()), nil)
}

// Refresh reloads the attributes from the server
func (d *Document) Refresh(ctx context.Context) error {
	var raw domain.Document
	if err := d.db.Send(ctx, connection.Get(d.path()), &raw); err != nil {
		return err
	}
	d.load(raw)
	return nil
}

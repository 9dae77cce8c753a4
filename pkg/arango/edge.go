package arango

import (
	"context"
	"net/url"

	"github.com/adfharrison1/go-arango/pkg/connection"
	"github.com/adfharrison1/go-arango/pkg/domain"
)

// Edge is a document connecting two documents
type Edge struct {
	*Document
	from  string
	to    string
	graph *Graph
}

func newEdge(db *Database, raw domain.Document, graph *Graph) *Edge {
	e := &Edge{Document: newDocument(db, raw), graph: graph}
	e.from = raw.String(domain.AttrFrom)
	e.to = raw.String(domain.AttrTo)
	delete(e.Document.attributes, domain.AttrFrom)
	delete(e.Document.attributes, domain.AttrTo)
	return e
}

// From is the id of the outbound vertex
func (e *Edge) From() string { return e.from }

// To is the id of the inbound vertex
func (e *Edge) To() string { return e.to }

// Graph returns the graph the edge was fetched through, nil if none
func (e *Edge) Graph() *Graph { return e.graph }

// Map returns the attributes including the system attributes
func (e *Edge) Map() map[string]interface{} {
	out := e.Document.Map()
	out[domain.AttrFrom] = e.from
	out[domain.AttrTo] = e.to
	return out
}

func (e *Edge) path() string {
	if e.graph == nil {
		return e.Document.path()
	}
	return "gharial/" + e.graph.Name() + "/edge/" + e.Collection() + "/" + url.PathEscape(e.Key())
}

// Save replaces the server copy of the edge
func (e *Edge) Save(ctx context.Context) error {
	body := e.Document.Attributes()
	body[domain.AttrFrom] = e.from
	body[domain.AttrTo] = e.to
	var handle domain.DocumentHandle
	if e.graph != nil {
		var resp domain.EdgeResponse
		if err := e.db.Send(ctx, connection.Put(e.path(), body), &resp); err != nil {
			return err
		}
		handle = resp.Edge
	} else if err := e.db.Send(ctx, connection.Put(e.path(), body), &handle); err != nil {
		return err
	}
	e.rev = handle.Rev
	return nil
}

// Delete removes the edge
func (e *Edge) Delete(ctx context.Context) error {
	return e.db.Send(ctx, connection.Delete(e.path()), nil)
}

// Refresh reloads the edge from the server
func (e *Edge) Refresh(ctx context.Context) error {
	raw := domain.Document{}
	if e.graph != nil {
		var resp domain.EdgeDocumentResponse
		if err := e.db.Send(ctx, connection.Get(e.path()), &resp); err != nil {
			return err
		}
		raw = resp.Edge
	} else if err := e.db.Send(ctx, connection.Get(e.path()), &raw); err != nil {
		return err
	}
	*e = *newEdge(e.db, raw, e.graph)
	return nil
}

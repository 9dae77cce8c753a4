package arango

import (
	"context"

	"github.com/adfharrison1/go-arango/pkg/connection"
	"github.com/adfharrison1/go-arango/pkg/domain"
)

// removeEdgesAQL deletes every edge between two vertices
const removeEdgesAQL = `FOR e IN @@edge_collection
FILTER e._from == @from && e._to == @to
REMOVE e._key IN @@edge_collection`

// EdgeCollection is an edge collection as it is returned from a graph
type EdgeCollection struct {
	*Collection
	graph *Graph
}

func newEdgeCollection(db *Database, raw domain.RawCollection, graph *Graph) *EdgeCollection {
	if raw.Type == 0 {
		raw.Type = domain.EdgeCollection
	}
	return &EdgeCollection{Collection: newCollection(db, raw), graph: graph}
}

// Graph returns the graph the collection was fetched from
func (ec *EdgeCollection) Graph() *Graph { return ec.graph }

func (ec *EdgeCollection) graphPath(suffix string) string {
	path := "gharial/" + ec.graph.Name() + "/edge/" + ec.Name()
	if suffix != "" {
		path += "/" + suffix
	}
	return path
}

// Add creates an edge between from and to carrying attrs
func (ec *EdgeCollection) Add(ctx context.Context, from, to *Document, attrs map[string]interface{}) (*Edge, error) {
	body := make(map[string]interface{}, len(attrs)+2)
	for k, v := range attrs {
		body[k] = v
	}
	body[domain.AttrFrom] = from.ID()
	body[domain.AttrTo] = to.ID()

	var resp domain.EdgeResponse
	if err := ec.db.Send(ctx, connection.Post(ec.graphPath(""), body), &resp); err != nil {
		return nil, err
	}
	return ec.Fetch(ctx, resp.Edge.Key)
}

// Remove deletes all edges between from and to
func (ec *EdgeCollection) Remove(ctx context.Context, from, to *Document) (*Cursor, error) {
	return ec.db.Query().Execute(ctx, removeEdgesAQL, &ExecuteOptions{
		BindVars: map[string]interface{}{
			"@edge_collection": ec.Name(),
			"from":             from.ID(),
			"to":               to.ID(),
		},
	})
}

// Fetch returns the edge with the given key
func (ec *EdgeCollection) Fetch(ctx context.Context, key string) (*Edge, error) {
	raw, err := ec.fetchRaw(ctx, key)
	if err != nil {
		return nil, err
	}
	return newEdge(ec.db, raw, ec.graph), nil
}

package arango

import (
	"context"
	"strconv"

	"github.com/adfharrison1/go-arango/pkg/connection"
	"github.com/adfharrison1/go-arango/pkg/domain"
)

// Graph is a named graph managed through the gharial API
type Graph struct {
	db                *Database
	name              string
	key               string
	rev               string
	edgeDefinitions   []domain.EdgeDefinition
	orphanCollections []string
}

func newGraph(db *Database, raw domain.RawGraph) *Graph {
	g := &Graph{db: db}
	g.update(raw)
	return g
}

func (g *Graph) update(raw domain.RawGraph) {
	g.name = raw.Name
	if g.name == "" {
		g.name = raw.Key
	}
	g.key = raw.Key
	g.rev = raw.Rev
	g.edgeDefinitions = raw.EdgeDefinitions
	g.orphanCollections = raw.OrphanCollections
}

func (g *Graph) Name() string { return g.name }

func (g *Graph) Key() string { return g.key }

func (g *Graph) Revision() string { return g.rev }

func (g *Graph) Database() *Database { return g.db }

func (g *Graph) EdgeDefinitions() []domain.EdgeDefinition {
	return append([]domain.EdgeDefinition(nil), g.edgeDefinitions...)
}

func (g *Graph) OrphanCollections() []string {
	return append([]string(nil), g.orphanCollections...)
}

func (g *Graph) path(suffix string) string {
	if suffix == "" {
		return "gharial/" + g.name
	}
	return "gharial/" + g.name + "/" + suffix
}

// AddEdgeDefinition adds an edge collection connecting the from vertex
// collections to the to vertex collections
func (g *Graph) AddEdgeDefinition(ctx context.Context, collection string, from, to []string) (*EdgeCollection, error) {
	def := domain.EdgeDefinition{Collection: collection, From: from, To: to}
	var resp domain.GraphResponse
	if err := g.db.Send(ctx, connection.Post(g.path("edge"), def), &resp); err != nil {
		return nil, err
	}
	g.update(resp.Graph)
	return g.EdgeCollection(ctx, collection)
}

// EdgeCollection fetches one edge collection of the graph
func (g *Graph) EdgeCollection(ctx context.Context, name string) (*EdgeCollection, error) {
	var raw domain.RawCollection
	if err := g.db.Send(ctx, connection.Get("collection/"+name), &raw); err != nil {
		return nil, err
	}
	return newEdgeCollection(g.db, raw, g), nil
}

// EdgeCollections fetches every edge collection of the graph
func (g *Graph) EdgeCollections(ctx context.Context) ([]*EdgeCollection, error) {
	collections := make([]*EdgeCollection, 0, len(g.edgeDefinitions))
	for _, def := range g.edgeDefinitions {
		ec, err := g.EdgeCollection(ctx, def.Collection)
		if err != nil {
			return nil, err
		}
		collections = append(collections, ec)
	}
	return collections, nil
}

// AddVertexCollection adds an orphan vertex collection to the graph
func (g *Graph) AddVertexCollection(ctx context.Context, name string) (*Collection, error) {
	var resp domain.GraphResponse
	if err := g.db.Send(ctx, connection.Post(g.path("vertex"), map[string]string{"collection": name}), &resp); err != nil {
		return nil, err
	}
	g.update(resp.Graph)

	var raw domain.RawCollection
	if err := g.db.Send(ctx, connection.Get("collection/"+name), &raw); err != nil {
		return nil, err
	}
	return newCollection(g.db, raw), nil
}

// VertexCollections lists the names of the vertex collections of the graph
func (g *Graph) VertexCollections(ctx context.Context) ([]string, error) {
	var resp domain.CollectionNames
	if err := g.db.Send(ctx, connection.Get(g.path("vertex")), &resp); err != nil {
		return nil, err
	}
	return resp.Collections, nil
}

// Delete removes the graph, and its collections when dropCollections is set
func (g *Graph) Delete(ctx context.Context, dropCollections bool) error {
	req := connection.Delete(g.path(""))
	if dropCollections {
		req.WithQuery("dropCollections", strconv.FormatBool(dropCollections))
	}
	return g.db.Send(ctx, req, nil)
}

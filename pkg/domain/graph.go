package domain

// EdgeDefinition ties an edge collection to its vertex collections
type EdgeDefinition struct {
	Collection string   `json:"collection"`
	From       []string `json:"from"`
	To         []string `json:"to"`
}

// RawGraph is a graph description as returned by the gharial API
type RawGraph struct {
	Name              string           `json:"name"`
	Key               string           `json:"_key"`
	Rev               string           `json:"_rev"`
	EdgeDefinitions   []EdgeDefinition `json:"edgeDefinitions"`
	OrphanCollections []string         `json:"orphanCollections"`
}

// GraphResponse wraps a single graph
type GraphResponse struct {
	Graph RawGraph `json:"graph"`
}

// GraphList wraps the graph listing
type GraphList struct {
	Graphs []RawGraph `json:"graphs"`
}

// EdgeResponse wraps the handle of a written edge
type EdgeResponse struct {
	Edge DocumentHandle `json:"edge"`
}

// VertexResponse wraps the handle of a written vertex
type VertexResponse struct {
	Vertex DocumentHandle `json:"vertex"`
}

// EdgeDocumentResponse wraps a fetched edge
type EdgeDocumentResponse struct {
	Edge Document `json:"edge"`
}

// CollectionNames wraps a list of collection names
type CollectionNames struct {
	Collections []string `json:"collections"`
}

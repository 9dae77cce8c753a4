package domain

// RawIndex is an index description as returned by the server
type RawIndex struct {
	ID     string   `json:"id"`
	Type   string   `json:"type"`
	Fields []string `json:"fields"`
	Unique bool     `json:"unique"`
	Sparse bool     `json:"sparse"`
}

// IndexList is the response of the index listing of a collection
type IndexList struct {
	Indexes     []RawIndex          `json:"indexes"`
	Identifiers map[string]RawIndex `json:"identifiers,omitempty"`
}

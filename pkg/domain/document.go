package domain

// Document represents a raw document as the server returns it
type Document map[string]interface{}

// System attribute names
const (
	AttrID   = "_id"
	AttrKey  = "_key"
	AttrRev  = "_rev"
	AttrFrom = "_from"
	AttrTo   = "_to"
)

// DocumentHandle is the server's answer to a document write
type DocumentHandle struct {
	ID  string `json:"_id"`
	Key string `json:"_key"`
	Rev string `json:"_rev"`
}

// String returns the attribute value when it is a string
func (d Document) String(attr string) string {
	if v, ok := d[attr].(string); ok {
		return v
	}
	return ""
}

// Without returns a copy of the document minus the system attributes
func (d Document) Without(attrs ...string) Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	for _, a := range attrs {
		delete(out, a)
	}
	return out
}

package arango

import (
	"context"

	"github.com/adfharrison1/go-arango/pkg/connection"
	"github.com/adfharrison1/go-arango/pkg/domain"
)

// Index is an index of a collection
type Index struct {
	collection *Collection
	id         string
	indexType  string
	fields     []string
	unique     bool
	sparse     bool
}

func newIndex(c *Collection, raw domain.RawIndex) *Index {
	return &Index{
		collection: c,
		id:         raw.ID,
		indexType:  raw.Type,
		fields:     raw.Fields,
		unique:     raw.Unique,
		sparse:     raw.Sparse,
	}
}

func (i *Index) ID() string { return i.id }

func (i *Index) Type() string { return i.indexType }

func (i *Index) Fields() []string { return append([]string(nil), i.fields...) }

func (i *Index) Unique() bool { return i.unique }

func (i *Index) Sparse() bool { return i.sparse }

func (i *Index) Collection() *Collection { return i.collection }

// Delete drops the index
func (i *Index) Delete(ctx context.Context) error {
	return i.collection.db.Send(ctx, connection.Delete("index/"+i.collection.indexHandle(i.id)), nil)
}

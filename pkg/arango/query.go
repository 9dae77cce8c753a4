package arango

import (
	"context"
	"errors"

	"github.com/adfharrison1/go-arango/pkg/connection"
	"github.com/adfharrison1/go-arango/pkg/domain"
)

// Query runs AQL against a database, or simple queries against a collection
type Query struct {
	db         *Database
	collection *Collection
}

// Execute runs an AQL query and returns a cursor over its results
func (q *Query) Execute(ctx context.Context, aql string, opts *ExecuteOptions) (*Cursor, error) {
	body := map[string]interface{}{"query": aql}
	if opts != nil {
		if len(opts.BindVars) > 0 {
			body["bindVars"] = opts.BindVars
		}
		if opts.Count {
			body["count"] = true
		}
		if opts.BatchSize > 0 {
			body["batchSize"] = opts.BatchSize
		}
	}
	return q.cursor(ctx, connection.Post("cursor", body))
}

// Valid asks the server to parse aql without running it
func (q *Query) Valid(ctx context.Context, aql string) (bool, error) {
	err := q.db.Send(ctx, connection.Post("query", map[string]string{"query": aql}), nil)
	if errors.Is(err, domain.ErrBadSyntax) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// All returns every document of the collection
func (q *Query) All(ctx context.Context, opts *SimpleOptions) (*Cursor, error) {
	body, err := q.simpleBody(opts)
	if err != nil {
		return nil, err
	}
	return q.cursor(ctx, connection.Put("simple/all", body))
}

// ByExample returns the documents matching all attributes of example
func (q *Query) ByExample(ctx context.Context, example map[string]interface{}, opts *SimpleOptions) (*Cursor, error) {
	body, err := q.simpleBody(opts)
	if err != nil {
		return nil, err
	}
	body["example"] = example
	return q.cursor(ctx, connection.Put("simple/by-example", body))
}

// FirstExample returns one document matching example
func (q *Query) FirstExample(ctx context.Context, example map[string]interface{}) (*Document, error) {
	body, err := q.simpleBody(nil)
	if err != nil {
		return nil, err
	}
	body["example"] = example
	var resp domain.FirstExampleResponse
	if err := q.db.Send(ctx, connection.Put("simple/first-example", body), &resp); err != nil {
		return nil, err
	}
	return newDocument(q.db, resp.Document), nil
}

func (q *Query) simpleBody(opts *SimpleOptions) (map[string]interface{}, error) {
	if q.collection == nil {
		return nil, domain.ErrNoCollectionProvided
	}
	body := map[string]interface{}{"collection": q.collection.Name()}
	if opts != nil {
		if opts.Limit > 0 {
			body["limit"] = opts.Limit
		}
		if opts.Skip > 0 {
			body["skip"] = opts.Skip
		}
		if opts.BatchSize > 0 {
			body["batchSize"] = opts.BatchSize
		}
	}
	return body, nil
}

func (q *Query) cursor(ctx context.Context, req *connection.Request) (*Cursor, error) {
	var page domain.CursorPage
	if err := q.db.Send(ctx, req, &page); err != nil {
		return nil, err
	}
	return newCursor(q.db, page), nil
}

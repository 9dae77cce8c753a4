package arango

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/adfharrison1/go-arango/pkg/connection"
	"github.com/adfharrison1/go-arango/pkg/domain"
)

// Cursor iterates over the batches of one query result. It is not safe
// for concurrent use.
type Cursor struct {
	db      *Database
	id      string
	hasMore bool
	count   *int64
	buffer  []json.RawMessage
}

func newCursor(db *Database, page domain.CursorPage) *Cursor {
	c := &Cursor{db: db}
	c.load(page)
	return c
}

func (c *Cursor) load(page domain.CursorPage) {
	if page.ID != "" {
		c.id = page.ID
	}
	c.hasMore = page.HasMore
	if page.Count != nil {
		c.count = page.Count
	}
	c.buffer = append(c.buffer, page.Result...)
}

// ID is the server side cursor id, empty when the result fit one batch
func (c *Cursor) ID() string { return c.id }

// HasMore reports whether the server holds further batches
func (c *Cursor) HasMore() bool { return c.hasMore }

// Count is the total number of results, if it was requested
func (c *Cursor) Count() (int64, bool) {
	if c.count == nil {
		return 0, false
	}
	return *c.count, true
}

// Next returns the next raw result, io.EOF once the results are exhausted
func (c *Cursor) Next(ctx context.Context) (json.RawMessage, error) {
	for len(c.buffer) == 0 {
		if !c.hasMore || c.id == "" {
			return nil, io.EOF
		}
		var page domain.CursorPage
		if err := c.db.Send(ctx, connection.Put("cursor/"+c.id, nil), &page); err != nil {
			return nil, err
		}
		c.load(page)
	}
	next := c.buffer[0]
	c.buffer = c.buffer[1:]
	return next, nil
}

// EachRaw calls fn for every remaining result
func (c *Cursor) EachRaw(ctx context.Context, fn func(json.RawMessage) error) error {
	for {
		raw, err := c.Next(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(raw); err != nil {
			return err
		}
	}
}

// Each calls fn for every remaining result, each decoded as a document
func (c *Cursor) Each(ctx context.Context, fn func(*Document) error) error {
	return c.EachRaw(ctx, func(raw json.RawMessage) error {
		doc, err := documentFromJSON(c.db, raw)
		if err != nil {
			return err
		}
		return fn(doc)
	})
}

// All drains the cursor into documents
func (c *Cursor) All(ctx context.Context) ([]*Document, error) {
	var docs []*Document
	err := c.Each(ctx, func(d *Document) error {
		docs = append(docs, d)
		return nil
	})
	return docs, err
}

// Delete releases the server side cursor
func (c *Cursor) Delete(ctx context.Context) error {
	if c.id == "" {
		return nil
	}
	if err := c.db.Send(ctx, connection.Delete("cursor/"+c.id), nil); err != nil {
		return err
	}
	c.hasMore = false
	c.buffer = nil
	return nil
}

package arango

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/adfharrison1/go-arango/pkg/arangotest"
)

func newTestDatabase(t *testing.T, opts ...DatabaseOption) (*Database, *arangotest.Server) {
	t.Helper()
	srv := arangotest.NewServer()
	t.Cleanup(srv.Close)

	db, err := NewDatabase(append([]DatabaseOption{WithURL(srv.URL)}, opts...)...)
	require.NoError(t, err)
	return db, srv
}

func mustCollection(t *testing.T, db *Database, name string) *Collection {
	t.Helper()
	c, err := db.Collection(context.Background(), name)
	require.NoError(t, err)
	return c
}

func mustDocument(t *testing.T, c *Collection, attrs map[string]interface{}) *Document {
	t.Helper()
	d, err := c.CreateDocument(context.Background(), attrs)
	require.NoError(t, err)
	return d
}

func bodyOf(t *testing.T, req arangotest.RecordedRequest) map[string]interface{} {
	t.Helper()
	body, ok := req.Body.(map[string]interface{})
	require.True(t, ok, "request body is a JSON object")
	return body
}

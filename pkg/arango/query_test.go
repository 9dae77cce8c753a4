package arango

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adfharrison1/go-arango/pkg/domain"
)

func numbers(n int) []interface{} {
	out := make([]interface{}, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func TestQuery_ExecutePaginates(t *testing.T) {
	db, srv := newTestDatabase(t)
	ctx := context.Background()
	const aql = "FOR i IN 1..5 RETURN i"
	srv.OnQuery(aql, func(map[string]interface{}) ([]interface{}, error) {
		return numbers(5), nil
	})

	cursor, err := db.Query().Execute(ctx, aql, &ExecuteOptions{BatchSize: 2, Count: true})
	require.NoError(t, err)
	assert.NotEmpty(t, cursor.ID())
	assert.True(t, cursor.HasMore())
	count, ok := cursor.Count()
	assert.True(t, ok)
	assert.Equal(t, int64(5), count)

	req, _ := srv.LastRequest()
	assert.Equal(t, "/_api/cursor", req.Path)
	assert.Equal(t, map[string]interface{}{"query": aql, "count": true, "batchSize": float64(2)}, bodyOf(t, req))

	var got []int
	err = cursor.EachRaw(ctx, func(raw json.RawMessage) error {
		var n int
		require.NoError(t, json.Unmarshal(raw, &n))
		got = append(got, n)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, got)
	assert.False(t, cursor.HasMore())

	var refills int
	for _, r := range srv.Requests() {
		if r.Method == http.MethodPut && r.Path == "/_api/cursor/"+cursor.ID() {
			refills++
		}
	}
	assert.Equal(t, 2, refills)

	_, err = cursor.Next(ctx)
	assert.ErrorIs(t, err, io.EOF)
}

func TestQuery_ExecuteOmitsDefaults(t *testing.T) {
	db, srv := newTestDatabase(t)

	cursor, err := db.Query().Execute(context.Background(), "RETURN 1", nil)
	require.NoError(t, err)
	assert.Empty(t, cursor.ID())
	_, ok := cursor.Count()
	assert.False(t, ok)

	req, _ := srv.LastRequest()
	assert.Equal(t, map[string]interface{}{"query": "RETURN 1"}, bodyOf(t, req))
}

func TestQuery_ExecuteBindVars(t *testing.T) {
	db, srv := newTestDatabase(t)
	const aql = "FOR u IN @@coll FILTER u.age > @age RETURN u"
	srv.OnQuery(aql, func(vars map[string]interface{}) ([]interface{}, error) {
		return []interface{}{map[string]interface{}{"_key": "1", "coll": vars["@coll"]}}, nil
	})

	cursor, err := db.Query().Execute(context.Background(), aql, &ExecuteOptions{
		BindVars: map[string]interface{}{"@coll": "users", "age": 21},
	})
	require.NoError(t, err)

	req, _ := srv.LastRequest()
	assert.Equal(t, map[string]interface{}{"@coll": "users", "age": float64(21)}, bodyOf(t, req)["bindVars"])

	docs, err := cursor.All(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "users", docs[0].Get("coll"))
}

func TestQuery_ExecuteRejected(t *testing.T) {
	db, srv := newTestDatabase(t)
	srv.RejectQuery("FOR")

	_, err := db.Query().Execute(context.Background(), "FOR", nil)
	assert.ErrorIs(t, err, domain.ErrBadSyntax)
}

func TestCursor_EachRequiresDocuments(t *testing.T) {
	db, srv := newTestDatabase(t)
	srv.OnQuery("RETURN 1", func(map[string]interface{}) ([]interface{}, error) {
		return []interface{}{1}, nil
	})

	cursor, err := db.Query().Execute(context.Background(), "RETURN 1", nil)
	require.NoError(t, err)
	err = cursor.Each(context.Background(), func(*Document) error { return nil })
	assert.ErrorIs(t, err, domain.ErrNotADocument)
}

func TestCursor_EachStopsOnError(t *testing.T) {
	db, srv := newTestDatabase(t)
	srv.OnQuery("Q", func(map[string]interface{}) ([]interface{}, error) {
		return []interface{}{map[string]interface{}{"a": 1}, map[string]interface{}{"a": 2}}, nil
	})
	stop := errors.New("stop")

	cursor, err := db.Query().Execute(context.Background(), "Q", nil)
	require.NoError(t, err)
	calls := 0
	err = cursor.Each(context.Background(), func(*Document) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

func TestCursor_Delete(t *testing.T) {
	db, srv := newTestDatabase(t)
	ctx := context.Background()
	srv.OnQuery("Q", func(map[string]interface{}) ([]interface{}, error) {
		return numbers(3), nil
	})

	cursor, err := db.Query().Execute(ctx, "Q", &ExecuteOptions{BatchSize: 1})
	require.NoError(t, err)
	id := cursor.ID()
	require.NoError(t, cursor.Delete(ctx))

	req, _ := srv.LastRequest()
	assert.Equal(t, http.MethodDelete, req.Method)
	assert.Equal(t, "/_api/cursor/"+id, req.Path)

	_, err = cursor.Next(ctx)
	assert.ErrorIs(t, err, io.EOF)

	single, err := db.Query().Execute(ctx, "RETURN 1", nil)
	require.NoError(t, err)
	srv.ResetRequests()
	require.NoError(t, single.Delete(ctx))
	assert.Empty(t, srv.Requests(), "cursor without id needs no request")
}

func TestQuery_Valid(t *testing.T) {
	db, srv := newTestDatabase(t)
	srv.RejectQuery("FOR x IN")

	ok, err := db.Query().Valid(context.Background(), "RETURN 1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = db.Query().Valid(context.Background(), "FOR x IN")
	require.NoError(t, err)
	assert.False(t, ok)

	req, _ := srv.LastRequest()
	assert.Equal(t, "/_api/query", req.Path)
	assert.Equal(t, map[string]interface{}{"query": "FOR x IN"}, bodyOf(t, req))
}

func TestQuery_SimpleNeedsCollection(t *testing.T) {
	db, _ := newTestDatabase(t)
	ctx := context.Background()

	_, err := db.Query().All(ctx, nil)
	assert.ErrorIs(t, err, domain.ErrNoCollectionProvided)
	_, err = db.Query().ByExample(ctx, map[string]interface{}{"a": 1}, nil)
	assert.ErrorIs(t, err, domain.ErrNoCollectionProvided)
	_, err = db.Query().FirstExample(ctx, map[string]interface{}{"a": 1})
	assert.ErrorIs(t, err, domain.ErrNoCollectionProvided)
}

func TestQuery_SimpleQueries(t *testing.T) {
	db, srv := newTestDatabase(t)
	ctx := context.Background()
	c := mustCollection(t, db, "users")
	mustDocument(t, c, map[string]interface{}{"name": "alice", "age": 30})
	mustDocument(t, c, map[string]interface{}{"name": "bob", "age": 25})
	mustDocument(t, c, map[string]interface{}{"name": "carol", "age": 30})

	t.Run("all", func(t *testing.T) {
		cursor, err := c.Query().All(ctx, &SimpleOptions{BatchSize: 2})
		require.NoError(t, err)
		docs, err := cursor.All(ctx)
		require.NoError(t, err)
		require.Len(t, docs, 3)
		assert.Equal(t, "alice", docs[0].Get("name"))
		assert.Equal(t, "carol", docs[2].Get("name"))
	})

	t.Run("skip and limit", func(t *testing.T) {
		cursor, err := c.Query().All(ctx, &SimpleOptions{Skip: 1, Limit: 1})
		require.NoError(t, err)

		req, _ := srv.LastRequest()
		assert.Equal(t, http.MethodPut, req.Method)
		assert.Equal(t, "/_api/simple/all", req.Path)
		assert.Equal(t, map[string]interface{}{"collection": "users", "skip": float64(1), "limit": float64(1)}, bodyOf(t, req))

		docs, err := cursor.All(ctx)
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "bob", docs[0].Get("name"))
	})

	t.Run("by example", func(t *testing.T) {
		cursor, err := c.Query().ByExample(ctx, map[string]interface{}{"age": 30}, nil)
		require.NoError(t, err)
		docs, err := cursor.All(ctx)
		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, "alice", docs[0].Get("name"))
		assert.Equal(t, "carol", docs[1].Get("name"))

		req, _ := srv.LastRequest()
		assert.Equal(t, "/_api/simple/by-example", req.Path)
	})

	t.Run("first example", func(t *testing.T) {
		doc, err := c.Query().FirstExample(ctx, map[string]interface{}{"name": "bob"})
		require.NoError(t, err)
		assert.Equal(t, float64(25), doc.Get("age"))
		assert.Equal(t, c.Name(), doc.Collection())

		_, err = c.Query().FirstExample(ctx, map[string]interface{}{"name": "dave"})
		assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
	})
}

func TestQuery_SimpleQueriesOnDroppedCollection(t *testing.T) {
	db, _ := newTestDatabase(t)
	ctx := context.Background()
	c := mustCollection(t, db, "users")
	mustDocument(t, c, map[string]interface{}{"name": "alice"})
	require.NoError(t, c.Delete(ctx))

	_, err := c.Query().All(ctx, nil)
	assert.ErrorIs(t, err, domain.ErrCollectionNotFound)
	assert.NotErrorIs(t, err, domain.ErrDocumentNotFound)

	_, err = c.Query().FirstExample(ctx, map[string]interface{}{"name": "alice"})
	assert.ErrorIs(t, err, domain.ErrCollectionNotFound)

	_, err = c.Fetch(ctx, "alice")
	assert.ErrorIs(t, err, domain.ErrCollectionNotFound)
}

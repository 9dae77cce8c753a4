package arangotest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adfharrison1/go-arango/pkg/domain"
)

func do(t *testing.T, srv *Server, method, path string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, srv.URL+path, &buf)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func TestServer_ErrorEnvelope(t *testing.T) {
	srv := NewServer()
	defer srv.Close()

	resp, body := do(t, srv, http.MethodGet, "/_api/collection/missing", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, true, body["error"])
	assert.Equal(t, float64(http.StatusNotFound), body["code"])
	assert.Equal(t, float64(1203), body["errorNum"])
	assert.NotEmpty(t, body["errorMessage"])

	resp, body = do(t, srv, http.MethodGet, "/_api/nothing/here", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, float64(404), body["errorNum"])
}

func TestServer_DatabasePrefix(t *testing.T) {
	srv := NewServer()
	defer srv.Close()

	resp, _ := do(t, srv, http.MethodPost, "/_db/shop/_api/collection", map[string]interface{}{"name": "orders"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	req, ok := srv.LastRequest()
	require.True(t, ok)
	assert.Equal(t, "shop", req.Database)
	assert.Equal(t, "/_db/shop/_api/collection", req.Path)
	assert.Equal(t, map[string]interface{}{"name": "orders"}, req.Body)

	// one namespace for every database
	resp, body := do(t, srv, http.MethodGet, "/_api/collection/orders", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "orders", body["name"])
	assert.True(t, srv.HasCollection("orders"))
}

func TestServer_SeedsSystemCollections(t *testing.T) {
	srv := NewServer()
	defer srv.Close()

	_, body := do(t, srv, http.MethodGet, "/_api/collection", nil)
	list, ok := body["collections"].([]interface{})
	require.True(t, ok)
	var names []string
	for _, c := range list {
		entry := c.(map[string]interface{})
		assert.Equal(t, true, entry["isSystem"])
		names = append(names, entry["name"].(string))
	}
	assert.Equal(t, []string{"_graphs", "_users"}, names)
}

func TestServer_DocumentLifecycle(t *testing.T) {
	srv := NewServer()
	defer srv.Close()

	do(t, srv, http.MethodPost, "/_api/collection", map[string]interface{}{"name": "users"})
	resp, created := do(t, srv, http.MethodPost, "/_api/document?collection=users", map[string]interface{}{"_key": "alice", "age": 30})
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.Equal(t, "users/alice", created["_id"])
	assert.NotEmpty(t, created["_rev"])

	resp, _ = do(t, srv, http.MethodPost, "/_api/document?collection=users", map[string]interface{}{"_key": "alice"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	doc, ok := srv.Document("users", "alice")
	require.True(t, ok)
	assert.Equal(t, json.Number("30"), doc["age"])
	assert.Equal(t, 1, srv.Count("users"))

	resp, _ = do(t, srv, http.MethodDelete, "/_api/document/users/alice", nil)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.Equal(t, 0, srv.Count("users"))

	resp, body := do(t, srv, http.MethodGet, "/_api/document/users/alice", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, float64(1202), body["errorNum"])
}

func TestServer_RecordsRequests(t *testing.T) {
	srv := NewServer()
	defer srv.Close()

	do(t, srv, http.MethodGet, "/_api/collection?excludeSystem=true", nil)
	do(t, srv, http.MethodGet, "/_api/database", nil)

	reqs := srv.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, "true", reqs[0].Query.Get("excludeSystem"))
	assert.Empty(t, reqs[0].Database)
	assert.Nil(t, reqs[0].Body)

	srv.ResetRequests()
	assert.Empty(t, srv.Requests())
	_, ok := srv.LastRequest()
	assert.False(t, ok)
}

func TestServer_CannedQueries(t *testing.T) {
	srv := NewServer()
	defer srv.Close()
	srv.OnQuery("RETURN @x", func(vars map[string]interface{}) ([]interface{}, error) {
		return []interface{}{vars["x"]}, nil
	})
	srv.RejectQuery("RETURN")

	resp, body := do(t, srv, http.MethodPost, "/_api/cursor", map[string]interface{}{
		"query":    "RETURN @x",
		"bindVars": map[string]interface{}{"x": "hello"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, []interface{}{"hello"}, body["result"])
	assert.Equal(t, false, body["hasMore"])

	resp, body = do(t, srv, http.MethodPost, "/_api/cursor", map[string]interface{}{"query": "RETURN"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, float64(1501), body["errorNum"])
}

func TestMatchesExample(t *testing.T) {
	doc := domain.Document{
		"name":    "alice",
		"age":     json.Number("30"),
		"address": map[string]interface{}{"city": "Berlin", "zip": "10115"},
	}

	tests := []struct {
		name    string
		example map[string]interface{}
		want    bool
	}{
		{"empty example", nil, true},
		{"string", map[string]interface{}{"name": "alice"}, true},
		{"number across types", map[string]interface{}{"age": 30}, true},
		{"number mismatch", map[string]interface{}{"age": 31}, false},
		{"nested exact", map[string]interface{}{"address": map[string]interface{}{"city": "Berlin", "zip": "10115"}}, true},
		{"nested subset", map[string]interface{}{"address": map[string]interface{}{"city": "Berlin"}}, false},
		{"missing attribute", map[string]interface{}{"email": "a@b"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, matchesExample(doc, tt.example))
		})
	}
}

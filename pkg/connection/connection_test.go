package connection

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adfharrison1/go-arango/pkg/domain"
)

func TestNew_InvalidURL(t *testing.T) {
	for _, raw := range []string{"", "localhost:8529", "://bad", "/relative"} {
		_, err := New(raw)
		assert.Error(t, err, raw)
	}
}

func TestConnection_Accessors(t *testing.T) {
	c, err := New("http://db.example.com:8529/")
	require.NoError(t, err)
	assert.Equal(t, "http", c.Scheme())
	assert.Equal(t, "db.example.com", c.Host())
	assert.Equal(t, "8529", c.Port())

	c, err = New("https://db.example.com")
	require.NoError(t, err)
	assert.Equal(t, "443", c.Port())
}

func TestConnection_URL(t *testing.T) {
	plain, err := New("http://localhost:8529")
	require.NoError(t, err)
	scoped, err := New("http://localhost:8529", WithDatabaseName("reports"))
	require.NoError(t, err)

	tests := []struct {
		name     string
		conn     *Connection
		req      *Request
		expected string
	}{
		{"plain", plain, Get("collection"), "http://localhost:8529/_api/collection"},
		{"leading slash", plain, Get("/collection/users"), "http://localhost:8529/_api/collection/users"},
		{"scoped", scoped, Get("collection"), "http://localhost:8529/_db/reports/_api/collection"},
		{"unscoped", scoped, Get("database").AsUnscoped(), "http://localhost:8529/_api/database"},
		{"query", plain, Post("document", nil).WithQuery("collection", "users"), "http://localhost:8529/_api/document?collection=users"},
		{"escaped key", plain, Get("document/users/" + url.PathEscape("a,b")), "http://localhost:8529/_api/document/users/a%2Cb"},
		{"percent in key", plain, Get("document/users/" + url.PathEscape("50%;off")), "http://localhost:8529/_api/document/users/50%25%3Boff"},
		{"escaped key scoped", scoped, Get("gharial/g/edge/knows/" + url.PathEscape("a b")), "http://localhost:8529/_db/reports/_api/gharial/g/edge/knows/a%20b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.conn.URL(tt.req))
		})
	}
}

func TestConnection_URLUnderBasePath(t *testing.T) {
	c, err := New("http://localhost:8529/arango%20proxy/", WithDatabaseName("re ports"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8529/arango%20proxy/_db/re%20ports/_api/document/users/a%2Cb",
		c.URL(Get("document/users/"+url.PathEscape("a,b"))))
}

func TestConnection_SendEscapesOnce(t *testing.T) {
	var rawPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawPath = r.URL.EscapedPath()
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c, err := New(server.URL)
	require.NoError(t, err)
	require.NoError(t, c.Send(context.Background(), Get("document/users/"+url.PathEscape("a,b")), nil))
	assert.Equal(t, "/_api/document/users/a%2Cb", rawPath)
}

func TestConnection_Send(t *testing.T) {
	var got *http.Request
	var gotBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"42","name":"users","status":3,"type":2}`))
	}))
	defer server.Close()

	c, err := New(server.URL, WithBasicAuth("root", "secret"))
	require.NoError(t, err)

	var raw domain.RawCollection
	err = c.Send(context.Background(), Post("collection", map[string]string{"name": "users"}), &raw)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "/_api/collection", got.URL.Path)
	assert.Equal(t, "application/json", got.Header.Get("Content-Type"))
	_, err = uuid.Parse(got.Header.Get(RequestIDHeader))
	assert.NoError(t, err, "request id is a uuid")
	user, pass, ok := got.BasicAuth()
	assert.True(t, ok)
	assert.Equal(t, "root", user)
	assert.Equal(t, "secret", pass)
	assert.Equal(t, map[string]interface{}{"name": "users"}, gotBody)

	assert.Equal(t, "42", raw.ID)
	assert.Equal(t, domain.StatusLoaded, raw.Status)
}

func TestConnection_SendWithoutBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Content-Type"))
		_, _, ok := r.BasicAuth()
		assert.False(t, ok)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	c, err := New(server.URL)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, c.Send(context.Background(), Delete("cursor/1"), &out))
	assert.Nil(t, out)
}

func TestConnection_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		path     string
		expected error
		errorNum int
	}{
		{
			name:     "collection not found",
			status:   http.StatusNotFound,
			body:     `{"error":true,"code":404,"errorNum":1203,"errorMessage":"collection or view not found"}`,
			path:     "collection/missing",
			expected: domain.ErrCollectionNotFound,
			errorNum: 1203,
		},
		{
			name:     "document not found",
			status:   http.StatusNotFound,
			body:     `{"error":true,"code":404,"errorNum":1202,"errorMessage":"document not found"}`,
			path:     "document/users/1",
			expected: domain.ErrDocumentNotFound,
			errorNum: 1202,
		},
		{
			name:     "bad syntax",
			status:   http.StatusBadRequest,
			body:     `{"error":true,"code":400,"errorNum":1501,"errorMessage":"syntax error"}`,
			path:     "cursor",
			expected: domain.ErrBadSyntax,
			errorNum: 1501,
		},
		{
			name:     "non json server error",
			status:   http.StatusBadGateway,
			body:     `<html>bad gateway</html>`,
			path:     "collection",
			expected: domain.ErrServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			c, err := New(server.URL)
			require.NoError(t, err)

			err = c.Send(context.Background(), Get(tt.path), nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.expected)

			var apiErr *domain.Error
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.errorNum, apiErr.ErrorNum)
			assert.Equal(t, tt.path, apiErr.Path)
		})
	}
}

func TestConnection_DecodeFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	c, err := New(server.URL)
	require.NoError(t, err)

	var out map[string]interface{}
	err = c.Send(context.Background(), Get("collection"), &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode response")
}

func TestConnection_Authenticate(t *testing.T) {
	var user string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, _, _ = r.BasicAuth()
	}))
	defer server.Close()

	c, err := New(server.URL)
	require.NoError(t, err)
	c.Authenticate("admin", "pw")

	require.NoError(t, c.Send(context.Background(), Get("version"), nil))
	assert.Equal(t, "admin", user)
}

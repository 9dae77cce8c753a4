package arango

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adfharrison1/go-arango/pkg/domain"
)

func TestDocument_SaveRefreshDelete(t *testing.T) {
	db, srv := newTestDatabase(t)
	ctx := context.Background()
	c := mustCollection(t, db, "users")
	doc := mustDocument(t, c, map[string]interface{}{"name": "alice"})
	rev := doc.Revision()

	doc.Set("name", "alicia")
	doc.Set("admin", true)
	require.NoError(t, doc.Save(ctx))
	assert.NotEqual(t, rev, doc.Revision())

	req, _ := srv.LastRequest()
	assert.Equal(t, "/_api/document/users/"+doc.Key(), req.Path)
	assert.Equal(t, map[string]interface{}{"name": "alicia", "admin": true}, bodyOf(t, req))

	other, err := c.Fetch(ctx, doc.Key())
	require.NoError(t, err)
	other.Set("name", "ally")
	require.NoError(t, other.Save(ctx))

	require.NoError(t, doc.Refresh(ctx))
	assert.Equal(t, "ally", doc.Get("name"))
	assert.Equal(t, other.Revision(), doc.Revision())

	require.NoError(t, doc.Delete(ctx))
	_, ok := srv.Document("users", doc.Key())
	assert.False(t, ok)

	err = doc.Refresh(ctx)
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
}

func TestDocument_Map(t *testing.T) {
	doc := newDocument(nil, domain.Document{"_id": "users/1", "_key": "1", "_rev": "9", "name": "alice"})

	assert.Equal(t, map[string]interface{}{"name": "alice"}, doc.Attributes())
	assert.Equal(t, map[string]interface{}{"_id": "users/1", "_key": "1", "_rev": "9", "name": "alice"}, doc.Map())
	assert.Nil(t, doc.Get("missing"))

	attrs := doc.Attributes()
	attrs["name"] = "changed"
	assert.Equal(t, "alice", doc.Get("name"), "Attributes returns a copy")
}

func TestDocumentFromJSON(t *testing.T) {
	doc, err := documentFromJSON(nil, json.RawMessage(`{"_key":"1","name":"alice"}`))
	require.NoError(t, err)
	assert.Equal(t, "1", doc.Key())

	for _, raw := range []string{`1`, `"text"`, `null`, `[1,2]`} {
		_, err := documentFromJSON(nil, json.RawMessage(raw))
		assert.ErrorIs(t, err, domain.ErrNotADocument, raw)
	}
}

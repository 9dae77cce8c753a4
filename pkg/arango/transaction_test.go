package arango

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adfharrison1/go-arango/pkg/arangotest"
	"github.com/adfharrison1/go-arango/pkg/domain"
)

func TestTransaction_Execute(t *testing.T) {
	db, srv := newTestDatabase(t)
	var received arangotest.TransactionRequest
	srv.OnTransaction(func(req arangotest.TransactionRequest) (interface{}, error) {
		received = req
		return 42, nil
	})

	const action = "function (params) { return params.answer; }"
	tx := db.CreateTransaction(action, &TransactionCollections{Read: []string{"users"}, Write: []string{"orders"}})
	assert.Equal(t, action, tx.Action())
	assert.Equal(t, []string{"users"}, tx.ReadCollections())
	assert.Equal(t, []string{"orders"}, tx.WriteCollections())
	tx.SetWaitForSync(true)
	tx.SetLockTimeout(5)

	var result int
	require.NoError(t, tx.Execute(context.Background(), map[string]int{"answer": 42}, &result))
	assert.Equal(t, 42, result)

	assert.Equal(t, action, received.Action)
	assert.Equal(t, []string{"users"}, received.Collections.Read)
	assert.Equal(t, []string{"orders"}, received.Collections.Write)
	require.NotNil(t, received.WaitForSync)
	assert.True(t, *received.WaitForSync)
	assert.Equal(t, 5, received.LockTimeout)

	req, _ := srv.LastRequest()
	assert.Equal(t, "/_api/transaction", req.Path)
	body := bodyOf(t, req)
	assert.Equal(t, map[string]interface{}{"answer": float64(42)}, body["params"])
}

func TestTransaction_ExecuteFailure(t *testing.T) {
	db, srv := newTestDatabase(t)
	srv.OnTransaction(func(req arangotest.TransactionRequest) (interface{}, error) {
		return nil, assert.AnError
	})

	tx := db.CreateTransaction("function () { throw 'boom'; }", nil)
	err := tx.Execute(context.Background(), nil, nil)
	assert.ErrorIs(t, err, domain.ErrServerError)
}

func TestTransaction_MissingAction(t *testing.T) {
	db, _ := newTestDatabase(t)

	err := db.CreateTransaction("", nil).Execute(context.Background(), nil, nil)
	assert.ErrorIs(t, err, domain.ErrBadSyntax)
}

package arango

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/adfharrison1/go-arango/pkg/connection"
)

// Transaction is a JavaScript transaction executed on the server
type Transaction struct {
	db          *Database
	action      string
	read        []string
	write       []string
	waitForSync *bool
	lockTimeout int
}

func (t *Transaction) Action() string { return t.action }

func (t *Transaction) ReadCollections() []string { return append([]string(nil), t.read...) }

func (t *Transaction) WriteCollections() []string { return append([]string(nil), t.write...) }

func (t *Transaction) SetWaitForSync(wait bool) { t.waitForSync = &wait }

// SetLockTimeout sets the lock timeout in seconds, 0 uses the server default
func (t *Transaction) SetLockTimeout(seconds int) { t.lockTimeout = seconds }

// Execute runs the transaction with params and decodes its result into out
func (t *Transaction) Execute(ctx context.Context, params interface{}, out interface{}) error {
	collections := map[string][]string{}
	if len(t.read) > 0 {
		collections["read"] = t.read
	}
	if len(t.write) > 0 {
		collections["write"] = t.write
	}
	body := map[string]interface{}{
		"collections": collections,
		"action":      t.action,
	}
	if params != nil {
		body["params"] = params
	}
	if t.waitForSync != nil {
		body["waitForSync"] = *t.waitForSync
	}
	if t.lockTimeout > 0 {
		body["lockTimeout"] = t.lockTimeout
	}

	var resp struct {
		Result json.RawMessage `json:"result"`
	}
	if err := t.db.Send(ctx, connection.Post("transaction", body), &resp); err != nil {
		return err
	}
	if out == nil || len(resp.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Result, out); err != nil {
		return fmt.Errorf("failed to decode transaction result: %w", err)
	}
	return nil
}

package domain

import "encoding/json"

// CursorPage is one batch of a query result
type CursorPage struct {
	ID      string            `json:"id,omitempty"`
	Result  []json.RawMessage `json:"result"`
	HasMore bool              `json:"hasMore"`
	Count   *int64            `json:"count,omitempty"`
}

// FirstExampleResponse wraps the document returned by simple/first-example
type FirstExampleResponse struct {
	Document Document `json:"document"`
}

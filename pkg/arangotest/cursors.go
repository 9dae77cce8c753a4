package arangotest

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/adfharrison1/go-arango/pkg/domain"
)

const defaultBatchSize = 1000

type cursorRequest struct {
	Query     string                 `json:"query"`
	BindVars  map[string]interface{} `json:"bindVars"`
	Count     bool                   `json:"count"`
	BatchSize int                    `json:"batchSize"`
}

type simpleRequest struct {
	Collection string                 `json:"collection"`
	Example    map[string]interface{} `json:"example"`
	Limit      int                    `json:"limit"`
	Skip       int                    `json:"skip"`
	BatchSize  int                    `json:"batchSize"`
}

func (s *Server) handleCreateCursor(w http.ResponseWriter, r *http.Request) {
	var req cursorRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, errorNumHTTPBadParameter, "invalid request body")
		return
	}
	if req.Query == "" || s.isRejected(req.Query) {
		writeError(w, http.StatusBadRequest, errorNumQueryParse, "syntax error, unexpected input")
		return
	}

	var results []interface{}
	if fn, ok := s.queryFunc(req.Query); ok {
		var err error
		if results, err = fn(req.BindVars); err != nil {
			writeError(w, http.StatusBadRequest, errorNumQueryParse, err.Error())
			return
		}
	}

	raw, err := marshalResults(results)
	if err != nil {
		writeError(w, http.StatusInternalServerError, errorNumTransactionInternal, err.Error())
		return
	}
	s.writeFirstBatch(w, raw, req.BatchSize, req.Count)
}

func marshalResults(results []interface{}) ([]json.RawMessage, error) {
	raw := make([]json.RawMessage, len(results))
	for i, v := range results {
		b, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		raw[i] = b
	}
	return raw, nil
}

// writeFirstBatch answers with the first batch and parks the rest under a
// new cursor id
func (s *Server) writeFirstBatch(w http.ResponseWriter, results []json.RawMessage, batchSize int, count bool) {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	var total *int64
	if count {
		n := int64(len(results))
		total = &n
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	page := domain.CursorPage{Count: total}
	if len(results) > batchSize {
		page.ID = s.store.newID()
		page.Result = results[:batchSize]
		page.HasMore = true
		s.store.cursors[page.ID] = &pendingCursor{results: results[batchSize:], batchSize: batchSize, count: total}
	} else {
		page.Result = results
	}
	if page.Result == nil {
		page.Result = []json.RawMessage{}
	}
	writeJSON(w, http.StatusCreated, page)
}

func (s *Server) handleNextBatch(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	pending, ok := s.store.cursors[id]
	if !ok {
		writeError(w, http.StatusNotFound, errorNumCursorNotFound, "cursor not found")
		return
	}
	page := domain.CursorPage{ID: id, Count: pending.count}
	if len(pending.results) > pending.batchSize {
		page.Result = pending.results[:pending.batchSize]
		page.HasMore = true
		pending.results = pending.results[pending.batchSize:]
	} else {
		page.Result = pending.results
		delete(s.store.cursors, id)
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleDeleteCursor(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	if _, ok := s.store.cursors[id]; !ok {
		writeError(w, http.StatusNotFound, errorNumCursorNotFound, "cursor not found")
		return
	}
	delete(s.store.cursors, id)
	writeJSON(w, http.StatusAccepted, map[string]interface{}{"id": id, "error": false, "code": http.StatusAccepted})
}

func (s *Server) handleValidateQuery(w http.ResponseWriter, r *http.Request) {
	var req cursorRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, errorNumHTTPBadParameter, "invalid request body")
		return
	}
	if req.Query == "" || s.isRejected(req.Query) {
		writeError(w, http.StatusBadRequest, errorNumQueryParse, "syntax error, unexpected input")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"error":       false,
		"code":        http.StatusOK,
		"parsed":      true,
		"bindVars":    []string{},
		"collections": []string{},
	})
}

// matching runs a simple query over a collection and returns the hits
// after skip and limit
func (s *Server) matching(w http.ResponseWriter, req simpleRequest) ([]json.RawMessage, bool) {
	s.store.mu.Lock()
	c, ok := s.store.lookup(req.Collection)
	if !ok {
		s.store.mu.Unlock()
		writeError(w, http.StatusNotFound, errorNumCollectionNotFound, "collection or view not found")
		return nil, false
	}
	var hits []interface{}
	for _, doc := range c.documents() {
		if matchesExample(doc, req.Example) {
			hits = append(hits, doc)
		}
	}
	s.store.mu.Unlock()

	if req.Skip > 0 {
		if req.Skip >= len(hits) {
			hits = nil
		} else {
			hits = hits[req.Skip:]
		}
	}
	if req.Limit > 0 && req.Limit < len(hits) {
		hits = hits[:req.Limit]
	}
	raw, err := marshalResults(hits)
	if err != nil {
		writeError(w, http.StatusInternalServerError, errorNumTransactionInternal, err.Error())
		return nil, false
	}
	return raw, true
}

func (s *Server) handleSimpleAll(w http.ResponseWriter, r *http.Request) {
	var req simpleRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, errorNumHTTPBadParameter, "invalid request body")
		return
	}
	req.Example = nil
	raw, ok := s.matching(w, req)
	if !ok {
		return
	}
	s.writeFirstBatch(w, raw, req.BatchSize, true)
}

func (s *Server) handleSimpleByExample(w http.ResponseWriter, r *http.Request) {
	var req simpleRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, errorNumHTTPBadParameter, "invalid request body")
		return
	}
	raw, ok := s.matching(w, req)
	if !ok {
		return
	}
	s.writeFirstBatch(w, raw, req.BatchSize, true)
}

func (s *Server) handleSimpleFirstExample(w http.ResponseWriter, r *http.Request) {
	var req simpleRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, errorNumHTTPBadParameter, "invalid request body")
		return
	}
	req.Limit = 1
	raw, ok := s.matching(w, req)
	if !ok {
		return
	}
	if len(raw) == 0 {
		writeError(w, http.StatusNotFound, errorNumDocumentNotFound, "no match")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"document": raw[0], "error": false, "code": http.StatusOK})
}

package arangotest

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/adfharrison1/go-arango/pkg/domain"
)

func (s *Server) handleListIndexes(w http.ResponseWriter, r *http.Request) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	c, ok := s.store.lookup(r.URL.Query().Get("collection"))
	if !ok {
		writeError(w, http.StatusNotFound, errorNumCollectionNotFound, "collection or view not found")
		return
	}
	identifiers := make(map[string]domain.RawIndex, len(c.indexes))
	for _, idx := range c.indexes {
		identifiers[idx.ID] = idx
	}
	writeJSON(w, http.StatusOK, domain.IndexList{Indexes: c.indexes, Identifiers: identifiers})
}

func (s *Server) handleCreateIndex(w http.ResponseWriter, r *http.Request) {
	var req domain.RawIndex
	if err := decodeBody(r, &req); err != nil || req.Type == "" || len(req.Fields) == 0 {
		writeError(w, http.StatusBadRequest, errorNumHTTPBadParameter, "invalid index definition")
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	c, ok := s.store.lookup(r.URL.Query().Get("collection"))
	if !ok {
		writeError(w, http.StatusNotFound, errorNumCollectionNotFound, "collection or view not found")
		return
	}
	req.ID = c.info.Name + "/" + s.store.newID()
	c.indexes = append(c.indexes, req)
	writeJSON(w, http.StatusCreated, req)
}

// index resolves the vars of an index path, the caller holds the lock
func (s *Server) index(w http.ResponseWriter, r *http.Request) (*collection, int, bool) {
	vars := mux.Vars(r)
	c, ok := s.store.lookup(vars["coll"])
	if !ok {
		writeError(w, http.StatusNotFound, errorNumCollectionNotFound, "collection or view not found")
		return nil, 0, false
	}
	id := c.info.Name + "/" + vars["id"]
	for i, idx := range c.indexes {
		if idx.ID == id {
			return c, i, true
		}
	}
	writeError(w, http.StatusNotFound, errorNumIndexNotFound, "index not found")
	return nil, 0, false
}

func (s *Server) handleGetIndex(w http.ResponseWriter, r *http.Request) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	c, i, ok := s.index(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, c.indexes[i])
}

func (s *Server) handleDeleteIndex(w http.ResponseWriter, r *http.Request) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	c, i, ok := s.index(w, r)
	if !ok {
		return
	}
	id := c.indexes[i].ID
	c.indexes = append(c.indexes[:i], c.indexes[i+1:]...)
	writeJSON(w, http.StatusOK, map[string]interface{}{"id": id, "error": false, "code": http.StatusOK})
}

package arangotest

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/adfharrison1/go-arango/pkg/domain"
)

type createCollectionRequest struct {
	Name        string             `json:"name"`
	Type        int                `json:"type"`
	IsVolatile  bool               `json:"isVolatile"`
	WaitForSync bool               `json:"waitForSync"`
	KeyOptions  *domain.KeyOptions `json:"keyOptions"`
}

func (s *Server) handleListCollections(w http.ResponseWriter, r *http.Request) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	list := make([]domain.RawCollection, 0, len(s.store.collections))
	for _, c := range s.store.sortedCollections() {
		list = append(list, c.info)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"collections": list,
		"error":       false,
		"code":        http.StatusOK,
	})
}

func (s *Server) handleCreateCollection(w http.ResponseWriter, r *http.Request) {
	var req createCollectionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, errorNumHTTPBadParameter, "invalid request body")
		return
	}
	if req.Name == "" || strings.ContainsAny(req.Name, "/ ") {
		writeError(w, http.StatusBadRequest, errorNumIllegalName, "illegal name")
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	if _, exists := s.store.collections[req.Name]; exists {
		writeError(w, http.StatusConflict, errorNumDuplicateName, "duplicate name")
		return
	}
	c := s.store.createCollection(req.Name, domain.CollectionType(req.Type), req.WaitForSync, req.KeyOptions)
	if req.IsVolatile {
		volatile := true
		c.info.IsVolatile = &volatile
	}
	c.info.IsSystem = strings.HasPrefix(req.Name, "_")
	writeJSON(w, http.StatusOK, c.raw())
}

// handleGetCollection serves the collection itself and its properties,
// count and figures sub resources
func (s *Server) handleGetCollection(w http.ResponseWriter, r *http.Request) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	c, ok := s.store.lookup(mux.Vars(r)["coll"])
	if !ok {
		writeError(w, http.StatusNotFound, errorNumCollectionNotFound, "collection or view not found")
		return
	}
	raw := c.raw()
	if !strings.HasSuffix(r.URL.Path, "/figures") {
		raw.Figures = nil
	}
	writeJSON(w, http.StatusOK, raw)
}

func (s *Server) handleSetProperties(w http.ResponseWriter, r *http.Request) {
	var req struct {
		WaitForSync *bool `json:"waitForSync"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, errorNumHTTPBadParameter, "invalid request body")
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	c, ok := s.store.lookup(mux.Vars(r)["coll"])
	if !ok {
		writeError(w, http.StatusNotFound, errorNumCollectionNotFound, "collection or view not found")
		return
	}
	if req.WaitForSync != nil {
		c.wait = *req.WaitForSync
	}
	writeJSON(w, http.StatusOK, c.raw())
}

func (s *Server) handleCollectionAction(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	var req struct {
		Name string `json:"name"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, errorNumHTTPBadParameter, "invalid request body")
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	c, ok := s.store.lookup(vars["coll"])
	if !ok {
		writeError(w, http.StatusNotFound, errorNumCollectionNotFound, "collection or view not found")
		return
	}

	switch vars["action"] {
	case "load":
		c.info.Status = domain.StatusLoaded
	case "unload":
		c.info.Status = domain.StatusUnloaded
	case "truncate":
		c.docs = make(map[string]domain.Document)
		c.order = nil
	case "rename":
		if req.Name == "" {
			writeError(w, http.StatusBadRequest, errorNumIllegalName, "illegal name")
			return
		}
		if _, exists := s.store.collections[req.Name]; exists {
			writeError(w, http.StatusConflict, errorNumDuplicateName, "duplicate name")
			return
		}
		delete(s.store.collections, c.info.Name)
		c.info.Name = req.Name
		s.store.collections[req.Name] = c
	}
	writeJSON(w, http.StatusOK, c.info)
}

func (s *Server) handleDeleteCollection(w http.ResponseWriter, r *http.Request) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	c, ok := s.store.lookup(mux.Vars(r)["coll"])
	if !ok {
		writeError(w, http.StatusNotFound, errorNumCollectionNotFound, "collection or view not found")
		return
	}
	delete(s.store.collections, c.info.Name)
	writeJSON(w, http.StatusOK, map[string]interface{}{"id": c.info.ID, "error": false, "code": http.StatusOK})
}

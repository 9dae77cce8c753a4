package arangotest

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/adfharrison1/go-arango/pkg/domain"
)

func (s *Server) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	var doc domain.Document
	if err := decodeBody(r, &doc); err != nil || doc == nil {
		writeError(w, http.StatusBadRequest, errorNumHTTPBadParameter, "invalid document")
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	c, ok := s.store.lookup(r.URL.Query().Get("collection"))
	if !ok {
		writeError(w, http.StatusNotFound, errorNumCollectionNotFound, "collection or view not found")
		return
	}
	stored, err := s.store.insert(c, doc)
	if err != nil {
		writeError(w, http.StatusConflict, errorNumUniqueConstraint, err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, handle(stored))
}

// document resolves the vars of a document path, the caller holds the lock
func (s *Server) document(w http.ResponseWriter, r *http.Request) (*collection, domain.Document, bool) {
	vars := mux.Vars(r)
	c, ok := s.store.lookup(vars["coll"])
	if !ok {
		writeError(w, http.StatusNotFound, errorNumCollectionNotFound, "collection or view not found")
		return nil, nil, false
	}
	doc, ok := c.docs[vars["key"]]
	if !ok {
		writeError(w, http.StatusNotFound, errorNumDocumentNotFound, "document not found")
		return nil, nil, false
	}
	return c, doc, true
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	_, doc, ok := s.document(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleReplaceDocument(w http.ResponseWriter, r *http.Request) {
	var body domain.Document
	if err := decodeBody(r, &body); err != nil || body == nil {
		writeError(w, http.StatusBadRequest, errorNumHTTPBadParameter, "invalid document")
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	c, doc, ok := s.document(w, r)
	if !ok {
		return
	}
	if from, ok := doc[domain.AttrFrom]; ok {
		if _, set := body[domain.AttrFrom]; !set {
			body[domain.AttrFrom] = from
			body[domain.AttrTo] = doc[domain.AttrTo]
		}
	}
	stored := s.store.replace(c, doc.String(domain.AttrKey), body)
	writeJSON(w, http.StatusAccepted, handle(stored))
}

func (s *Server) handleUpdateDocument(w http.ResponseWriter, r *http.Request) {
	var patch domain.Document
	if err := decodeBody(r, &patch); err != nil || patch == nil {
		writeError(w, http.StatusBadRequest, errorNumHTTPBadParameter, "invalid document")
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	c, doc, ok := s.document(w, r)
	if !ok {
		return
	}
	merged := doc.Without()
	for k, v := range patch {
		merged[k] = v
	}
	stored := s.store.replace(c, doc.String(domain.AttrKey), merged)
	writeJSON(w, http.StatusAccepted, handle(stored))
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	c, doc, ok := s.document(w, r)
	if !ok {
		return
	}
	c.remove(doc.String(domain.AttrKey))
	writeJSON(w, http.StatusAccepted, handle(doc))
}

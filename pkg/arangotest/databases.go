package arangotest

import (
	"net/http"

	"github.com/gorilla/mux"
)

func (s *Server) handleListDatabases(w http.ResponseWriter, r *http.Request) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"result": append([]string(nil), s.store.databases...),
		"error":  false,
		"code":   http.StatusOK,
	})
}

func (s *Server) handleCreateDatabase(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := decodeBody(r, &req); err != nil || req.Name == "" {
		writeError(w, http.StatusBadRequest, errorNumIllegalName, "illegal name")
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	for _, name := range s.store.databases {
		if name == req.Name {
			writeError(w, http.StatusConflict, errorNumDuplicateName, "duplicate name")
			return
		}
	}
	s.store.databases = append(s.store.databases, req.Name)
	writeJSON(w, http.StatusCreated, map[string]interface{}{"result": true, "error": false, "code": http.StatusCreated})
}

func (s *Server) handleDropDatabase(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	for i, existing := range s.store.databases {
		if existing == name {
			s.store.databases = append(s.store.databases[:i], s.store.databases[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]interface{}{"result": true, "error": false, "code": http.StatusOK})
			return
		}
	}
	writeError(w, http.StatusNotFound, errorNumDatabaseNotFound, "database not found")
}

func (s *Server) handleTransaction(w http.ResponseWriter, r *http.Request) {
	var req TransactionRequest
	if err := decodeBody(r, &req); err != nil || req.Action == "" {
		writeError(w, http.StatusBadRequest, errorNumHTTPBadParameter, "missing action")
		return
	}

	var result interface{}
	if fn := s.transactionFunc(); fn != nil {
		var err error
		if result, err = fn(req); err != nil {
			writeError(w, http.StatusInternalServerError, errorNumTransactionInternal, err.Error())
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"result": result, "error": false, "code": http.StatusOK})
}

package arangotest

import (
	"net/http"
	"sort"

	"github.com/gorilla/mux"

	"github.com/adfharrison1/go-arango/pkg/domain"
)

// ensureCollection get-or-creates a collection, the caller holds the lock
func (st *store) ensureCollection(name string, typ domain.CollectionType) *collection {
	if c, ok := st.collections[name]; ok {
		return c
	}
	return st.createCollection(name, typ, false, nil)
}

func (st *store) ensureGraphCollections(g *domain.RawGraph) {
	for _, def := range g.EdgeDefinitions {
		st.ensureCollection(def.Collection, domain.EdgeCollection)
		for _, name := range append(append([]string(nil), def.From...), def.To...) {
			st.ensureCollection(name, domain.DocumentCollection)
		}
	}
	for _, name := range g.OrphanCollections {
		st.ensureCollection(name, domain.DocumentCollection)
	}
}

func vertexCollections(g *domain.RawGraph) []string {
	seen := make(map[string]bool)
	var names []string
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	for _, def := range g.EdgeDefinitions {
		for _, name := range def.From {
			add(name)
		}
		for _, name := range def.To {
			add(name)
		}
	}
	for _, name := range g.OrphanCollections {
		add(name)
	}
	sort.Strings(names)
	return names
}

func graphEnvelope(g *domain.RawGraph, status int) map[string]interface{} {
	return map[string]interface{}{"graph": g, "error": false, "code": status}
}

func (s *Server) handleListGraphs(w http.ResponseWriter, r *http.Request) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	graphs := make([]*domain.RawGraph, 0, len(s.store.graphs))
	for _, g := range s.store.graphs {
		graphs = append(graphs, g)
	}
	sort.Slice(graphs, func(i, j int) bool { return graphs[i].Name < graphs[j].Name })
	writeJSON(w, http.StatusOK, map[string]interface{}{"graphs": graphs, "error": false, "code": http.StatusOK})
}

func (s *Server) handleCreateGraph(w http.ResponseWriter, r *http.Request) {
	var req domain.RawGraph
	if err := decodeBody(r, &req); err != nil || req.Name == "" {
		writeError(w, http.StatusBadRequest, errorNumHTTPBadParameter, "invalid graph definition")
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	if _, exists := s.store.graphs[req.Name]; exists {
		writeError(w, http.StatusConflict, errorNumGraphDuplicate, "graph already exists")
		return
	}
	g := &domain.RawGraph{
		Name:              req.Name,
		Key:               req.Name,
		Rev:               s.store.newID(),
		EdgeDefinitions:   req.EdgeDefinitions,
		OrphanCollections: req.OrphanCollections,
	}
	if g.EdgeDefinitions == nil {
		g.EdgeDefinitions = []domain.EdgeDefinition{}
	}
	if g.OrphanCollections == nil {
		g.OrphanCollections = []string{}
	}
	s.store.ensureGraphCollections(g)
	s.store.graphs[g.Name] = g
	writeJSON(w, http.StatusAccepted, graphEnvelope(g, http.StatusAccepted))
}

// graph resolves the graph var, the caller holds the lock
func (s *Server) graph(w http.ResponseWriter, r *http.Request) (*domain.RawGraph, bool) {
	g, ok := s.store.graphs[mux.Vars(r)["graph"]]
	if !ok {
		writeError(w, http.StatusNotFound, errorNumGraphNotFound, "graph not found")
		return nil, false
	}
	return g, true
}

func (s *Server) handleGetGraph(w http.ResponseWriter, r *http.Request) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	g, ok := s.graph(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, graphEnvelope(g, http.StatusOK))
}

func (s *Server) handleDeleteGraph(w http.ResponseWriter, r *http.Request) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	g, ok := s.graph(w, r)
	if !ok {
		return
	}
	delete(s.store.graphs, g.Name)
	if r.URL.Query().Get("dropCollections") == "true" {
		for _, def := range g.EdgeDefinitions {
			delete(s.store.collections, def.Collection)
		}
		for _, name := range vertexCollections(g) {
			delete(s.store.collections, name)
		}
	}
	writeJSON(w, http.StatusAccepted, map[string]interface{}{"removed": true, "error": false, "code": http.StatusAccepted})
}

func (s *Server) handleAddEdgeDefinition(w http.ResponseWriter, r *http.Request) {
	var def domain.EdgeDefinition
	if err := decodeBody(r, &def); err != nil || def.Collection == "" {
		writeError(w, http.StatusBadRequest, errorNumHTTPBadParameter, "invalid edge definition")
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	g, ok := s.graph(w, r)
	if !ok {
		return
	}
	for _, existing := range g.EdgeDefinitions {
		if existing.Collection == def.Collection {
			writeError(w, http.StatusBadRequest, errorNumDuplicateName, "edge definition already exists")
			return
		}
	}
	g.EdgeDefinitions = append(g.EdgeDefinitions, def)
	g.Rev = s.store.newID()
	s.store.ensureGraphCollections(g)
	writeJSON(w, http.StatusAccepted, graphEnvelope(g, http.StatusAccepted))
}

func (s *Server) handleListVertexCollections(w http.ResponseWriter, r *http.Request) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	g, ok := s.graph(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, domain.CollectionNames{Collections: vertexCollections(g)})
}

func (s *Server) handleAddVertexCollection(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Collection string `json:"collection"`
	}
	if err := decodeBody(r, &req); err != nil || req.Collection == "" {
		writeError(w, http.StatusBadRequest, errorNumHTTPBadParameter, "invalid vertex collection")
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	g, ok := s.graph(w, r)
	if !ok {
		return
	}
	for _, name := range vertexCollections(g) {
		if name == req.Collection {
			writeError(w, http.StatusBadRequest, errorNumDuplicateName, "vertex collection already used")
			return
		}
	}
	g.OrphanCollections = append(g.OrphanCollections, req.Collection)
	g.Rev = s.store.newID()
	s.store.ensureGraphCollections(g)
	writeJSON(w, http.StatusAccepted, graphEnvelope(g, http.StatusAccepted))
}

// edgeCollection resolves the graph and edge collection vars, the caller
// holds the lock
func (s *Server) edgeCollection(w http.ResponseWriter, r *http.Request) (*collection, bool) {
	g, ok := s.graph(w, r)
	if !ok {
		return nil, false
	}
	name := mux.Vars(r)["coll"]
	for _, def := range g.EdgeDefinitions {
		if def.Collection == name {
			return s.store.ensureCollection(name, domain.EdgeCollection), true
		}
	}
	writeError(w, http.StatusNotFound, errorNumEdgeCollectionNotUsed, "edge collection not used in graph")
	return nil, false
}

func (s *Server) handleCreateEdge(w http.ResponseWriter, r *http.Request) {
	var doc domain.Document
	if err := decodeBody(r, &doc); err != nil || doc == nil {
		writeError(w, http.StatusBadRequest, errorNumHTTPBadParameter, "invalid edge")
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	c, ok := s.edgeCollection(w, r)
	if !ok {
		return
	}
	from, to := doc.String(domain.AttrFrom), doc.String(domain.AttrTo)
	if !s.store.documentExists(from) || !s.store.documentExists(to) {
		writeError(w, http.StatusNotFound, errorNumDocumentNotFound, "edge endpoint does not exist")
		return
	}
	stored, err := s.store.insert(c, doc)
	if err != nil {
		writeError(w, http.StatusConflict, errorNumUniqueConstraint, err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]interface{}{"edge": handle(stored), "error": false, "code": http.StatusAccepted})
}

func (s *Server) handleGetEdge(w http.ResponseWriter, r *http.Request) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	c, ok := s.edgeCollection(w, r)
	if !ok {
		return
	}
	doc, ok := c.docs[mux.Vars(r)["key"]]
	if !ok {
		writeError(w, http.StatusNotFound, errorNumDocumentNotFound, "document not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"edge": doc, "error": false, "code": http.StatusOK})
}

func (s *Server) handleReplaceEdge(w http.ResponseWriter, r *http.Request) {
	var body domain.Document
	if err := decodeBody(r, &body); err != nil || body == nil {
		writeError(w, http.StatusBadRequest, errorNumHTTPBadParameter, "invalid edge")
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	c, ok := s.edgeCollection(w, r)
	if !ok {
		return
	}
	key := mux.Vars(r)["key"]
	if _, ok := c.docs[key]; !ok {
		writeError(w, http.StatusNotFound, errorNumDocumentNotFound, "document not found")
		return
	}
	stored := s.store.replace(c, key, body)
	writeJSON(w, http.StatusAccepted, map[string]interface{}{"edge": handle(stored), "error": false, "code": http.StatusAccepted})
}

func (s *Server) handleDeleteEdge(w http.ResponseWriter, r *http.Request) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	c, ok := s.edgeCollection(w, r)
	if !ok {
		return
	}
	key := mux.Vars(r)["key"]
	if _, ok := c.docs[key]; !ok {
		writeError(w, http.StatusNotFound, errorNumDocumentNotFound, "document not found")
		return
	}
	c.remove(key)
	writeJSON(w, http.StatusAccepted, map[string]interface{}{"removed": true, "error": false, "code": http.StatusAccepted})
}

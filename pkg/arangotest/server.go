// Package arangotest provides an in-memory stand-in for an ArangoDB server.
// It speaks the subset of the REST API the client uses and records every
// request so tests can assert on the outbound shape.
package arangotest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// RecordedRequest is one request as the server received it
type RecordedRequest struct {
	Method   string
	Path     string
	Database string
	Query    url.Values
	Header   http.Header
	Body     interface{}
}

// QueryFunc produces the result of a canned AQL query
type QueryFunc func(bindVars map[string]interface{}) ([]interface{}, error)

// TransactionFunc produces the result of a transaction
type TransactionFunc func(req TransactionRequest) (interface{}, error)

// TransactionRequest is the decoded body of a transaction call
type TransactionRequest struct {
	Collections struct {
		Read  []string `json:"read"`
		Write []string `json:"write"`
	} `json:"collections"`
	Action      string      `json:"action"`
	Params      interface{} `json:"params"`
	WaitForSync *bool       `json:"waitForSync"`
	LockTimeout int         `json:"lockTimeout"`
}

// Server is a fake ArangoDB. Databases share one namespace of collections.
type Server struct {
	*httptest.Server

	router *mux.Router
	logger *zap.Logger
	store  *store

	mu           sync.Mutex
	record       bool
	requests     []RecordedRequest
	queries      map[string]QueryFunc
	rejected     map[string]bool
	transactions TransactionFunc
}

type Option func(*Server)

// WithLogger logs every handled request at debug level
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithoutRecording stops the server from keeping requests, for long
// running instances
func WithoutRecording() Option {
	return func(s *Server) {
		s.record = false
	}
}

// NewServer starts a fake server. Close it when done.
func NewServer(opts ...Option) *Server {
	s := NewUnstartedServer(opts...)
	s.Server = httptest.NewServer(s.router)
	return s
}

// NewUnstartedServer builds the fake without listening. Serve Router()
// with your own http.Server; the embedded httptest.Server stays nil.
func NewUnstartedServer(opts ...Option) *Server {
	s := &Server{
		router:   mux.NewRouter(),
		logger:   zap.NewNop(),
		store:    newStore(),
		record:   true,
		queries:  make(map[string]QueryFunc),
		rejected: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.registerRoutes(s.router.PathPrefix("/_db/{db}").Subrouter())
	s.registerRoutes(s.router)
	s.router.Use(s.recordMiddleware)
	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Warn("no route found", zap.String("method", r.Method), zap.String("path", r.URL.Path))
		writeError(w, http.StatusNotFound, errorNumHTTPNotFound, "unknown path "+r.URL.Path)
	})

	return s
}

// Router exposes the handler without the listening server
func (s *Server) Router() http.Handler {
	return s.router
}

// OnQuery registers the result of an AQL statement. Unregistered
// statements yield an empty result.
func (s *Server) OnQuery(aql string, fn QueryFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries[aql] = fn
}

// RejectQuery makes the server answer aql with a parse error
func (s *Server) RejectQuery(aql string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rejected[aql] = true
}

// OnTransaction sets the handler of transaction calls
func (s *Server) OnTransaction(fn TransactionFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions = fn
}

// Requests returns a copy of the requests received so far
func (s *Server) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RecordedRequest(nil), s.requests...)
}

// LastRequest returns the most recent request
func (s *Server) LastRequest() (RecordedRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return RecordedRequest{}, false
	}
	return s.requests[len(s.requests)-1], true
}

// ResetRequests forgets the recorded requests
func (s *Server) ResetRequests() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = nil
}

func (s *Server) queryFunc(aql string) (QueryFunc, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn, ok := s.queries[aql]
	return fn, ok
}

func (s *Server) isRejected(aql string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rejected[aql]
}

func (s *Server) transactionFunc() TransactionFunc {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transactions
}

// recordMiddleware stores each request and logs how long it took
func (s *Server) recordMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		var body interface{}
		if r.Body != nil {
			raw, _ := io.ReadAll(r.Body)
			r.Body.Close()
			r.Body = io.NopCloser(bytes.NewReader(raw))
			if len(raw) > 0 {
				_ = json.Unmarshal(raw, &body)
			}
		}

		s.mu.Lock()
		if s.record {
			s.requests = append(s.requests, RecordedRequest{
				Method:   r.Method,
				Path:     r.URL.Path,
				Database: mux.Vars(r)["db"],
				Query:    r.URL.Query(),
				Header:   r.Header.Clone(),
				Body:     body,
			})
		}
		s.mu.Unlock()

		next.ServeHTTP(w, r)
		s.logger.Debug("handled request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("took", time.Since(start)))
	})
}

func (s *Server) registerRoutes(r *mux.Router) {
	// Collections
	r.HandleFunc("/_api/collection", s.handleListCollections).Methods("GET")
	r.HandleFunc("/_api/collection", s.handleCreateCollection).Methods("POST")
	r.HandleFunc("/_api/collection/{coll}", s.handleGetCollection).Methods("GET")
	r.HandleFunc("/_api/collection/{coll}", s.handleDeleteCollection).Methods("DELETE")
	r.HandleFunc("/_api/collection/{coll}/properties", s.handleGetCollection).Methods("GET")
	r.HandleFunc("/_api/collection/{coll}/properties", s.handleSetProperties).Methods("PUT")
	r.HandleFunc("/_api/collection/{coll}/count", s.handleGetCollection).Methods("GET")
	r.HandleFunc("/_api/collection/{coll}/figures", s.handleGetCollection).Methods("GET")
	r.HandleFunc("/_api/collection/{coll}/{action:load|unload|truncate|rename}", s.handleCollectionAction).Methods("PUT")

	// Documents
	r.HandleFunc("/_api/document", s.handleCreateDocument).Methods("POST")
	r.HandleFunc("/_api/document/{coll}/{key}", s.handleGetDocument).Methods("GET")
	r.HandleFunc("/_api/document/{coll}/{key}", s.handleReplaceDocument).Methods("PUT")
	r.HandleFunc("/_api/document/{coll}/{key}", s.handleUpdateDocument).Methods("PATCH")
	r.HandleFunc("/_api/document/{coll}/{key}", s.handleDeleteDocument).Methods("DELETE")

	// Indexes
	r.HandleFunc("/_api/index", s.handleListIndexes).Methods("GET")
	r.HandleFunc("/_api/index", s.handleCreateIndex).Methods("POST")
	r.HandleFunc("/_api/index/{coll}/{id}", s.handleGetIndex).Methods("GET")
	r.HandleFunc("/_api/index/{coll}/{id}", s.handleDeleteIndex).Methods("DELETE")

	// Queries and cursors
	r.HandleFunc("/_api/cursor", s.handleCreateCursor).Methods("POST")
	r.HandleFunc("/_api/cursor/{id}", s.handleNextBatch).Methods("PUT")
	r.HandleFunc("/_api/cursor/{id}", s.handleDeleteCursor).Methods("DELETE")
	r.HandleFunc("/_api/query", s.handleValidateQuery).Methods("POST")
	r.HandleFunc("/_api/simple/all", s.handleSimpleAll).Methods("PUT")
	r.HandleFunc("/_api/simple/by-example", s.handleSimpleByExample).Methods("PUT")
	r.HandleFunc("/_api/simple/first-example", s.handleSimpleFirstExample).Methods("PUT")

	// Graphs
	r.HandleFunc("/_api/gharial", s.handleListGraphs).Methods("GET")
	r.HandleFunc("/_api/gharial", s.handleCreateGraph).Methods("POST")
	r.HandleFunc("/_api/gharial/{graph}", s.handleGetGraph).Methods("GET")
	r.HandleFunc("/_api/gharial/{graph}", s.handleDeleteGraph).Methods("DELETE")
	r.HandleFunc("/_api/gharial/{graph}/edge", s.handleAddEdgeDefinition).Methods("POST")
	r.HandleFunc("/_api/gharial/{graph}/vertex", s.handleListVertexCollections).Methods("GET")
	r.HandleFunc("/_api/gharial/{graph}/vertex", s.handleAddVertexCollection).Methods("POST")
	r.HandleFunc("/_api/gharial/{graph}/edge/{coll}", s.handleCreateEdge).Methods("POST")
	r.HandleFunc("/_api/gharial/{graph}/edge/{coll}/{key}", s.handleGetEdge).Methods("GET")
	r.HandleFunc("/_api/gharial/{graph}/edge/{coll}/{key}", s.handleReplaceEdge).Methods("PUT")
	r.HandleFunc("/_api/gharial/{graph}/edge/{coll}/{key}", s.handleDeleteEdge).Methods("DELETE")

	// Databases and transactions
	r.HandleFunc("/_api/database", s.handleListDatabases).Methods("GET")
	r.HandleFunc("/_api/database", s.handleCreateDatabase).Methods("POST")
	r.HandleFunc("/_api/database/{name}", s.handleDropDatabase).Methods("DELETE")
	r.HandleFunc("/_api/transaction", s.handleTransaction).Methods("POST")
}

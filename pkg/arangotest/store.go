package arangotest

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/adfharrison1/go-arango/pkg/domain"
)

type collection struct {
	info    domain.RawCollection
	wait    bool
	keyOpts domain.KeyOptions
	docs    map[string]domain.Document
	order   []string
	indexes []domain.RawIndex
}

type pendingCursor struct {
	results   []json.RawMessage
	batchSize int
	count     *int64
}

// store is the state of the fake server
type store struct {
	mu          sync.Mutex
	nextID      int64
	collections map[string]*collection
	cursors     map[string]*pendingCursor
	graphs      map[string]*domain.RawGraph
	databases   []string
}

func newStore() *store {
	st := &store{
		nextID:      1000,
		collections: make(map[string]*collection),
		cursors:     make(map[string]*pendingCursor),
		graphs:      make(map[string]*domain.RawGraph),
		databases:   []string{"_system"},
	}
	for _, name := range []string{"_graphs", "_users"} {
		c := st.createCollection(name, domain.DocumentCollection, false, nil)
		c.info.IsSystem = true
	}
	return st
}

func (st *store) newID() string {
	st.nextID++
	return strconv.FormatInt(st.nextID, 10)
}

// createCollection adds a collection, the caller holds the lock
func (st *store) createCollection(name string, typ domain.CollectionType, wait bool, keyOpts *domain.KeyOptions) *collection {
	if typ == 0 {
		typ = domain.DocumentCollection
	}
	c := &collection{
		info: domain.RawCollection{
			ID:     st.newID(),
			Name:   name,
			Status: domain.StatusLoaded,
			Type:   typ,
		},
		wait:    wait,
		keyOpts: domain.KeyOptions{Type: "traditional", AllowUserKeys: true},
		docs:    make(map[string]domain.Document),
	}
	if keyOpts != nil {
		c.keyOpts = *keyOpts
	}
	c.indexes = []domain.RawIndex{{ID: name + "/0", Type: "primary", Fields: []string{domain.AttrKey}, Unique: true}}
	st.collections[name] = c
	return c
}

// lookup finds a collection by name or id, the caller holds the lock
func (st *store) lookup(identifier string) (*collection, bool) {
	if c, ok := st.collections[identifier]; ok {
		return c, true
	}
	for _, c := range st.collections {
		if c.info.ID == identifier {
			return c, true
		}
	}
	return nil, false
}

// sortedCollections returns the collections ordered by id
func (st *store) sortedCollections() []*collection {
	out := make([]*collection, 0, len(st.collections))
	for _, c := range st.collections {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		a, _ := strconv.ParseInt(out[i].info.ID, 10, 64)
		b, _ := strconv.ParseInt(out[j].info.ID, 10, 64)
		return a < b
	})
	return out
}

func (c *collection) raw() domain.RawCollection {
	raw := c.info
	wait := c.wait
	raw.WaitForSync = &wait
	keyOpts := c.keyOpts
	raw.KeyOptions = &keyOpts
	count := int64(len(c.docs))
	raw.Count = &count
	raw.Figures = &domain.Figures{Alive: domain.FigureCount{Count: count}}
	return raw
}

// insert stores a new document, the caller holds the lock
func (st *store) insert(c *collection, doc domain.Document) (domain.Document, error) {
	key := doc.String(domain.AttrKey)
	if key == "" {
		key = st.newID()
	}
	if _, exists := c.docs[key]; exists {
		return nil, fmt.Errorf("unique constraint violated for key %q", key)
	}
	stored := doc.Without(domain.AttrID, domain.AttrKey, domain.AttrRev)
	stored[domain.AttrKey] = key
	stored[domain.AttrID] = c.info.Name + "/" + key
	stored[domain.AttrRev] = st.newID()
	c.docs[key] = stored
	c.order = append(c.order, key)
	return stored, nil
}

// replace overwrites a document, the caller holds the lock
func (st *store) replace(c *collection, key string, doc domain.Document) domain.Document {
	stored := doc.Without(domain.AttrID, domain.AttrKey, domain.AttrRev)
	stored[domain.AttrKey] = key
	stored[domain.AttrID] = c.info.Name + "/" + key
	stored[domain.AttrRev] = st.newID()
	c.docs[key] = stored
	return stored
}

func (c *collection) remove(key string) {
	delete(c.docs, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// documents returns the documents in insertion order
func (c *collection) documents() []domain.Document {
	out := make([]domain.Document, 0, len(c.order))
	for _, key := range c.order {
		out = append(out, c.docs[key])
	}
	return out
}

// documentExists resolves a "<collection>/<key>" handle, the caller holds the lock
func (st *store) documentExists(id string) bool {
	name, key, ok := strings.Cut(id, "/")
	if !ok {
		return false
	}
	c, ok := st.collections[name]
	if !ok {
		return false
	}
	_, ok = c.docs[key]
	return ok
}

func handle(doc domain.Document) domain.DocumentHandle {
	return domain.DocumentHandle{
		ID:  doc.String(domain.AttrID),
		Key: doc.String(domain.AttrKey),
		Rev: doc.String(domain.AttrRev),
	}
}

// Document returns a copy of a stored document
func (s *Server) Document(collectionName, key string) (domain.Document, bool) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	c, ok := s.store.collections[collectionName]
	if !ok {
		return nil, false
	}
	doc, ok := c.docs[key]
	if !ok {
		return nil, false
	}
	return doc.Without(), true
}

// Count returns the number of documents of a collection, -1 if it is missing
func (s *Server) Count(collectionName string) int {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	c, ok := s.store.collections[collectionName]
	if !ok {
		return -1
	}
	return len(c.docs)
}

// HasCollection reports whether a collection exists
func (s *Server) HasCollection(name string) bool {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	_, ok := s.store.collections[name]
	return ok
}

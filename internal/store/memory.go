package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Memory is an in-process document store with the same merge-write
// semantics as the mongo backend. It backs development setups and
// tests.
type Memory struct {
	mu   sync.RWMutex
	data map[string]map[string]Doc

	hubMu sync.Mutex
	hubs  map[string]*hub
}

func NewMemory() *Memory {
	return &Memory{
		data: make(map[string]map[string]Doc),
		hubs: make(map[string]*hub),
	}
}

func (m *Memory) Collection(name string) Collection {
	return &memoryCollection{store: m, name: name, hub: m.hubFor(name)}
}

func (m *Memory) Close(ctx context.Context) error { return nil }

func (m *Memory) hubFor(name string) *hub {
	m.hubMu.Lock()
	defer m.hubMu.Unlock()
	h, ok := m.hubs[name]
	if !ok {
		h = newHub()
		m.hubs[name] = h
	}
	return h
}

func (m *Memory) bucket(name string) map[string]Doc {
	b, ok := m.data[name]
	if !ok {
		b = make(map[string]Doc)
		m.data[name] = b
	}
	return b
}

type memoryCollection struct {
	store *Memory
	name  string
	hub   *hub
}

func (c *memoryCollection) Create(ctx context.Context, doc Doc) (string, error) {
	id := uuid.NewString()
	c.store.mu.Lock()
	c.store.bucket(c.name)[id] = clone(doc)
	c.store.mu.Unlock()
	c.notify()
	return id, nil
}

func (c *memoryCollection) Put(ctx context.Context, id string, doc Doc) error {
	c.store.mu.Lock()
	b := c.store.bucket(c.name)
	existing, ok := b[id]
	if !ok {
		existing = make(Doc)
		b[id] = existing
	}
	merge(existing, doc)
	c.store.mu.Unlock()
	c.notify()
	return nil
}

func (c *memoryCollection) Get(ctx context.Context, id string) (Doc, error) {
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()
	doc, ok := c.store.data[c.name][id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(doc), nil
}

func (c *memoryCollection) GetAll(ctx context.Context, orderKey string) ([]Record, error) {
	c.store.mu.RLock()
	recs := make([]Record, 0, len(c.store.data[c.name]))
	for id, doc := range c.store.data[c.name] {
		recs = append(recs, Record{ID: id, Doc: clone(doc)})
	}
	c.store.mu.RUnlock()
	sortRecords(recs, orderKey)
	return recs, nil
}

func (c *memoryCollection) Find(ctx context.Context, field string, value any) ([]Record, error) {
	c.store.mu.RLock()
	var recs []Record
	for id, doc := range c.store.data[c.name] {
		if doc[field] == value {
			recs = append(recs, Record{ID: id, Doc: clone(doc)})
		}
	}
	c.store.mu.RUnlock()
	sortRecords(recs, "")
	return recs, nil
}

func (c *memoryCollection) Update(ctx context.Context, id string, partial Doc) error {
	c.store.mu.Lock()
	existing, ok := c.store.data[c.name][id]
	if !ok {
		c.store.mu.Unlock()
		return ErrNotFound
	}
	merge(existing, partial)
	c.store.mu.Unlock()
	c.notify()
	return nil
}

func (c *memoryCollection) Delete(ctx context.Context, id string) error {
	c.store.mu.Lock()
	delete(c.store.data[c.name], id)
	c.store.mu.Unlock()
	c.notify()
	return nil
}

func (c *memoryCollection) Subscribe(orderKey string, cb func([]Record), onErr func(error)) func() {
	return c.hub.subscribe(orderKey, cb, onErr, c.fetch)
}

func (c *memoryCollection) notify() {
	c.hub.broadcast(c.fetch)
}

func (c *memoryCollection) fetch(orderKey string) ([]Record, error) {
	return c.GetAll(context.Background(), orderKey)
}

func merge(dst, src Doc) {
	for k, v := range src {
		dst[k] = v
	}
}

func clone(doc Doc) Doc {
	out := make(Doc, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}

// sortRecords orders newest-first by the given key; values are compared
// as strings, which is correct for the fixed-width ISO timestamps the
// services store. Ids break ties so the order is stable.
func sortRecords(recs []Record, orderKey string) {
	if orderKey == "" {
		sort.Slice(recs, func(i, j int) bool { return recs[i].ID < recs[j].ID })
		return
	}
	sort.Slice(recs, func(i, j int) bool {
		a, b := str(recs[i].Doc[orderKey]), str(recs[j].Doc[orderKey])
		if a != b {
			return a > b
		}
		return recs[i].ID < recs[j].ID
	})
}

func str(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

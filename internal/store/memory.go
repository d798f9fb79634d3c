package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is the in-process DocumentStore used by tests and when no
// DATABASE_URL is configured.
type MemoryStore struct {
	mu          sync.Mutex
	collections map[string]map[string]*memoryDoc
}

type memoryDoc struct {
	data      map[string]any
	createdAt time.Time
	updatedAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]map[string]*memoryDoc),
	}
}

func (m *MemoryStore) Add(_ context.Context, collection string, data map[string]any) (map[string]any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	docs := m.collections[collection]
	if docs == nil {
		docs = make(map[string]*memoryDoc)
		m.collections[collection] = docs
	}

	id := uuid.NewString()
	now := time.Now().UTC()
	docs[id] = &memoryDoc{data: cloneDoc(data), createdAt: now, updatedAt: now}

	return m.merged(collection, id), nil
}

func (m *MemoryStore) Get(_ context.Context, collection, id string) (map[string]any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.collections[collection][id] == nil {
		return nil, ErrNotFound
	}
	return m.merged(collection, id), nil
}

func (m *MemoryStore) List(_ context.Context, collection string, filters ...Filter) ([]map[string]any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var ids []string
	for id, doc := range m.collections[collection] {
		if matches(doc.data, filters) {
			ids = append(ids, id)
		}
	}

	// Stable oldest-first order.
	docs := m.collections[collection]
	sort.Slice(ids, func(i, j int) bool {
		a, b := docs[ids[i]], docs[ids[j]]
		if !a.createdAt.Equal(b.createdAt) {
			return a.createdAt.Before(b.createdAt)
		}
		return ids[i] < ids[j]
	})

	results := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		results = append(results, m.merged(collection, id))
	}
	return results, nil
}

func (m *MemoryStore) Update(_ context.Context, collection, id string, data map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc := m.collections[collection][id]
	if doc == nil {
		return ErrNotFound
	}
	for k, v := range data {
		doc.data[k] = v
	}
	doc.updatedAt = time.Now().UTC()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.collections[collection][id] == nil {
		return ErrNotFound
	}
	delete(m.collections[collection], id)
	return nil
}

func (m *MemoryStore) Increment(_ context.Context, collection, id, field string, delta int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc := m.collections[collection][id]
	if doc == nil {
		return 0, ErrNotFound
	}
	value := AsInt64(doc.data[field]) + int64(delta)
	doc.data[field] = value
	doc.updatedAt = time.Now().UTC()
	return value, nil
}

// merged builds the outward document shape: data plus id and timestamps.
// Callers must hold the lock.
func (m *MemoryStore) merged(collection, id string) map[string]any {
	doc := m.collections[collection][id]
	out := cloneDoc(doc.data)
	out["id"] = id
	out["createdAt"] = doc.createdAt.Format(time.RFC3339Nano)
	out["updatedAt"] = doc.updatedAt.Format(time.RFC3339Nano)
	return out
}

func cloneDoc(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = v
	}
	return out
}

func matches(data map[string]any, filters []Filter) bool {
	for _, f := range filters {
		v, ok := data[f.Field]
		if !ok || fmt.Sprint(v) != fmt.Sprint(f.Value) {
			return false
		}
	}
	return true
}

// AsInt64 reads a numeric document field regardless of whether it arrived
// as an int from Go code or a float64 from JSON decoding.
func AsInt64(v any) int64 {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int64:
		return n
	case float64:
		return int64(n)
	case json.Number:
		i, _ := n.Int64()
		return i
	default:
		return 0
	}
}

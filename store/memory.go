package store

import (
	"context"
	"sort"
	"sync"
)

type MemoryDatabase struct {
	mu   sync.RWMutex
	data map[Namespace]map[string]string
}

var _ Database = &MemoryDatabase{}

func NewMemoryDatabase() *MemoryDatabase {
	return &MemoryDatabase{data: make(map[Namespace]map[string]string)}
}

func (m *MemoryDatabase) Namespace(ns Namespace) KeyValue {
	return &memoryNamespace{db: m, ns: ns}
}

func (m *MemoryDatabase) Close() error {
	return nil
}

type memoryNamespace struct {
	db *MemoryDatabase
	ns Namespace
}

func (m *memoryNamespace) Get(_ context.Context, key string) (string, bool, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()
	value, ok := m.db.data[m.ns][key]
	return value, ok, nil
}

func (m *memoryNamespace) MultiGet(_ context.Context, keys ...string) (map[string]string, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()
	result := make(map[string]string, len(keys))
	for _, key := range keys {
		if value, ok := m.db.data[m.ns][key]; ok {
			result[key] = value
		}
	}
	return result, nil
}

func (m *memoryNamespace) Set(ctx context.Context, key, value string) error {
	return m.MultiSet(ctx, map[string]string{key: value})
}

func (m *memoryNamespace) MultiSet(_ context.Context, values map[string]string) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	bucket, ok := m.db.data[m.ns]
	if !ok {
		bucket = make(map[string]string)
		m.db.data[m.ns] = bucket
	}
	for key, value := range values {
		bucket[key] = value
	}
	return nil
}

func (m *memoryNamespace) Remove(_ context.Context, keys ...string) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for _, key := range keys {
		delete(m.db.data[m.ns], key)
	}
	return nil
}

func (m *memoryNamespace) Clear(_ context.Context) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	delete(m.db.data, m.ns)
	return nil
}

func (m *memoryNamespace) Keys(_ context.Context) ([]string, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()
	keys := make([]string, 0, len(m.db.data[m.ns]))
	for key := range m.db.data[m.ns] {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

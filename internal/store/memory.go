package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// node is one resource in the in-memory tree.
type node struct {
	id      string
	name    string
	typ     EntryType
	parent  string
	content string
}

// Memory is an in-memory DocumentStore. It backs dry runs and tests; all
// methods are safe for concurrent use.
type Memory struct {
	mu    sync.Mutex
	nodes map[string]*node
}

// Compile-time check that Memory implements DocumentStore.
var _ DocumentStore = (*Memory)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{nodes: make(map[string]*node)}
}

func (m *Memory) find(name, parentID string, typ EntryType) string {
	for _, n := range m.nodes {
		if n.parent == parentID && n.name == name && n.typ == typ {
			return n.id
		}
	}
	return ""
}

func (m *Memory) create(name, parentID string, typ EntryType) string {
	n := &node{
		id:     uuid.NewString(),
		name:   name,
		typ:    typ,
		parent: parentID,
	}
	m.nodes[n.id] = n
	return n.id
}

// FindFolder returns the ID of a folder child by exact name, or "".
func (m *Memory) FindFolder(_ context.Context, name, parentID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.find(name, parentID, TypeFolder), nil
}

// CreateFolder creates a folder under the given parent.
func (m *Memory) CreateFolder(_ context.Context, name, parentID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.create(name, parentID, TypeFolder), nil
}

// FindDocument returns the ID of a document child by exact name, or "".
func (m *Memory) FindDocument(_ context.Context, name, parentID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.find(name, parentID, TypeDocument), nil
}

// CreateDocument creates an empty document under the given parent.
func (m *Memory) CreateDocument(_ context.Context, name, parentID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.create(name, parentID, TypeDocument), nil
}

// ReadContent returns the content of a document.
func (m *Memory) ReadContent(_ context.Context, id string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, ok := m.nodes[id]
	if !ok {
		return "", ErrNotFound
	}
	if n.typ != TypeDocument {
		return "", ErrNotDocument
	}
	return n.content, nil
}

// WriteContent replaces the full content of a document.
func (m *Memory) WriteContent(_ context.Context, id, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, ok := m.nodes[id]
	if !ok {
		return ErrNotFound
	}
	if n.typ != TypeDocument {
		return ErrNotDocument
	}
	n.content = content
	return nil
}

// ListChildren returns the direct children of a folder, sorted by name.
func (m *Memory) ListChildren(_ context.Context, id string) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var entries []Entry
	for _, n := range m.nodes {
		if n.parent == id {
			entries = append(entries, Entry{ID: n.id, Name: n.name, Type: n.typ})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// Len returns the total number of resources in the store.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.nodes)
}

// AddDocument seeds a document with content, returning its ID. Test helper.
func (m *Memory) AddDocument(name, parentID, content string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.create(name, parentID, TypeDocument)
	m.nodes[id].content = content
	return id
}

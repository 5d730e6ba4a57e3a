// Package store defines the document-store contract the pipeline writes to,
// plus the SurrealDB-backed production implementation and an in-memory one.
package store

import (
	"context"
	"errors"
)

// Sentinel errors for store operations. Use errors.Is() in calling code.
var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrNotDocument indicates a content operation addressed a folder.
	ErrNotDocument = errors.New("resource is not a document")
)

// EntryType distinguishes the two resource kinds in the tree.
type EntryType string

const (
	TypeFolder   EntryType = "folder"
	TypeDocument EntryType = "document"
)

// Entry is a child resource as returned by ListChildren.
type Entry struct {
	ID   string
	Name string
	Type EntryType
}

// DocumentStore is the external tree of folders and documents the course is
// materialized into. Find* calls return an empty ID (and nil error) when no
// child with that exact name exists under the parent. WriteContent replaces
// the full document content. An empty parent ID addresses the store root.
type DocumentStore interface {
	FindFolder(ctx context.Context, name, parentID string) (string, error)
	CreateFolder(ctx context.Context, name, parentID string) (string, error)
	FindDocument(ctx context.Context, name, parentID string) (string, error)
	CreateDocument(ctx context.Context, name, parentID string) (string, error)
	ReadContent(ctx context.Context, id string) (string, error)
	WriteContent(ctx context.Context, id, content string) error
	ListChildren(ctx context.Context, id string) ([]Entry, error)
}

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryFindReturnsEmptyWhenAbsent(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	id, err := m.FindFolder(ctx, "no existe", "")
	require.NoError(t, err)
	assert.Empty(t, id)

	id, err = m.FindDocument(ctx, "no existe", "")
	require.NoError(t, err)
	assert.Empty(t, id)
}

func TestMemoryFolderAndDocumentLifecycle(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	folderID, err := m.CreateFolder(ctx, "Curso", "")
	require.NoError(t, err)
	require.NotEmpty(t, folderID)

	found, err := m.FindFolder(ctx, "Curso", "")
	require.NoError(t, err)
	assert.Equal(t, folderID, found)

	docID, err := m.CreateDocument(ctx, "Índice", folderID)
	require.NoError(t, err)

	// New documents start empty.
	content, err := m.ReadContent(ctx, docID)
	require.NoError(t, err)
	assert.Empty(t, content)

	require.NoError(t, m.WriteContent(ctx, docID, "contenido"))
	content, err = m.ReadContent(ctx, docID)
	require.NoError(t, err)
	assert.Equal(t, "contenido", content)
}

func TestMemoryNameLookupIsScopedToParent(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	a, err := m.CreateFolder(ctx, "A", "")
	require.NoError(t, err)
	b, err := m.CreateFolder(ctx, "B", "")
	require.NoError(t, err)

	docA, err := m.CreateDocument(ctx, "Índice", a)
	require.NoError(t, err)
	docB, err := m.CreateDocument(ctx, "Índice", b)
	require.NoError(t, err)
	require.NotEqual(t, docA, docB)

	found, err := m.FindDocument(ctx, "Índice", a)
	require.NoError(t, err)
	assert.Equal(t, docA, found)
}

func TestMemoryContentErrors(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, err := m.ReadContent(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	err = m.WriteContent(ctx, "missing", "x")
	assert.ErrorIs(t, err, ErrNotFound)

	folderID, err := m.CreateFolder(ctx, "Curso", "")
	require.NoError(t, err)

	_, err = m.ReadContent(ctx, folderID)
	assert.ErrorIs(t, err, ErrNotDocument)
	err = m.WriteContent(ctx, folderID, "x")
	assert.ErrorIs(t, err, ErrNotDocument)
}

func TestMemoryListChildren(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	root, err := m.CreateFolder(ctx, "Curso", "")
	require.NoError(t, err)
	_, err = m.CreateFolder(ctx, "Módulo 2 - B", root)
	require.NoError(t, err)
	_, err = m.CreateFolder(ctx, "Módulo 1 - A", root)
	require.NoError(t, err)
	_, err = m.CreateDocument(ctx, "informe.json", root)
	require.NoError(t, err)

	entries, err := m.ListChildren(ctx, root)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// Sorted by name.
	assert.Equal(t, "Módulo 1 - A", entries[0].Name)
	assert.Equal(t, TypeFolder, entries[0].Type)
	assert.Equal(t, "informe.json", entries[2].Name)
	assert.Equal(t, TypeDocument, entries[2].Type)
}

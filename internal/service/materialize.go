// Package service contains the structure materializer and the pipeline
// orchestrator driving a full course generation run.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmfuertes/coursegen/internal/models"
	"github.com/jmfuertes/coursegen/internal/store"
)

// Canonical names of the three artifact documents of every topic.
const (
	DocNameIndex       = "Índice"
	DocNameDevelopment = "Desarrollo"
	DocNameVoiceover   = "Guion de voz"
)

// Materializer idempotently ensures the folder/document tree for a spec
// exists under a root folder.
type Materializer struct {
	store store.DocumentStore
}

// NewMaterializer creates a materializer over a document store.
func NewMaterializer(st store.DocumentStore) *Materializer {
	return &Materializer{store: st}
}

// Materialize find-or-creates the course folder, one folder per module, one
// folder per topic, and the three artifact documents per topic, strictly in
// spec order. Reruns against the same root and spec return the same
// identifiers and create nothing new. Any failure aborts the whole run.
func (m *Materializer) Materialize(ctx context.Context, spec *models.CourseSpec, rootID string) (*models.FolderStructure, error) {
	courseID, err := m.findOrCreateFolder(ctx, spec.CourseName, rootID)
	if err != nil {
		return nil, fmt.Errorf("course folder %q: %w", spec.CourseName, err)
	}

	structure := &models.FolderStructure{CourseFolderID: courseID}

	for _, mod := range spec.Modules {
		moduleName := moduleFolderName(mod)
		moduleID, err := m.findOrCreateFolder(ctx, moduleName, courseID)
		if err != nil {
			return nil, fmt.Errorf("module folder %q: %w", moduleName, err)
		}

		mf := models.ModuleFolder{ModuleNumber: mod.ModuleNumber, FolderID: moduleID}

		for _, topic := range mod.Topics {
			topicName := topicFolderName(topic)
			topicID, err := m.findOrCreateFolder(ctx, topicName, moduleID)
			if err != nil {
				return nil, fmt.Errorf("topic folder %q: %w", topicName, err)
			}

			tf := models.TopicFolder{TopicNumber: topic.TopicNumber, FolderID: topicID}
			for _, doc := range []struct {
				name string
				dst  *string
			}{
				{DocNameIndex, &tf.Docs.Index},
				{DocNameDevelopment, &tf.Docs.Development},
				{DocNameVoiceover, &tf.Docs.Voiceover},
			} {
				name, dst := doc.name, doc.dst
				id, err := m.findOrCreateDocument(ctx, name, topicID)
				if err != nil {
					return nil, fmt.Errorf("document %q under %q: %w", name, topicName, err)
				}
				*dst = id
			}

			mf.Topics = append(mf.Topics, tf)
		}

		structure.Modules = append(structure.Modules, mf)
	}

	slog.Info("structure materialized",
		"course", spec.CourseName,
		"modules", len(structure.Modules),
		"topics", spec.TopicCount())
	return structure, nil
}

func (m *Materializer) findOrCreateFolder(ctx context.Context, name, parentID string) (string, error) {
	id, err := m.store.FindFolder(ctx, name, parentID)
	if err != nil {
		return "", fmt.Errorf("find folder: %w", err)
	}
	if id != "" {
		return id, nil
	}

	id, err = m.store.CreateFolder(ctx, name, parentID)
	if err != nil {
		return "", fmt.Errorf("create folder: %w", err)
	}
	return id, nil
}

func (m *Materializer) findOrCreateDocument(ctx context.Context, name, parentID string) (string, error) {
	id, err := m.store.FindDocument(ctx, name, parentID)
	if err != nil {
		return "", fmt.Errorf("find document: %w", err)
	}
	if id != "" {
		return id, nil
	}

	id, err = m.store.CreateDocument(ctx, name, parentID)
	if err != nil {
		return "", fmt.Errorf("create document: %w", err)
	}
	return id, nil
}

func moduleFolderName(m models.Module) string {
	return fmt.Sprintf("Módulo %d - %s", m.ModuleNumber, m.ModuleName)
}

func topicFolderName(t models.Topic) string {
	return fmt.Sprintf("%s - %s", t.TopicNumber, t.TopicName)
}

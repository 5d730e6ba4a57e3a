// Package models defines the course specification and run report structures.
package models

import "time"

// TopicStatus tracks the generation lifecycle of a single topic.
type TopicStatus string

const (
	TopicPending    TopicStatus = "pending"
	TopicGenerating TopicStatus = "generating"
	TopicCompleted  TopicStatus = "completed"
	TopicFailed     TopicStatus = "failed"
)

// Canonical course levels. English keywords normalize into this set.
const (
	LevelBasic        = "básico"
	LevelIntermediate = "intermedio"
	LevelAdvanced     = "avanzado"
)

// DefaultObjective is used when no objective can be recovered from the source.
const DefaultObjective = "Proporcionar una formación completa sobre el tema del curso."

// DefaultCourseName is used when the source text is empty.
const DefaultCourseName = "Curso sin título"

// Topic is a leaf unit of content. TopicNumber uses the dotted form from the
// source text (e.g. "2.3") and is kept verbatim, so source gaps or duplicates
// persist into the spec.
type Topic struct {
	TopicNumber string      `json:"topicNumber" yaml:"topicNumber"`
	TopicName   string      `json:"topicName" yaml:"topicName"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Status      TopicStatus `json:"status" yaml:"status"`

	// Identifiers of the generated artifacts, filled in during a run.
	IndexDocID       string `json:"indexDocId,omitempty" yaml:"indexDocId,omitempty"`
	DevelopmentDocID string `json:"developmentDocId,omitempty" yaml:"developmentDocId,omitempty"`
	VoiceoverDocID   string `json:"voiceoverDocId,omitempty" yaml:"voiceoverDocId,omitempty"`
}

// Module is a numbered group of topics. ModuleNumber is assigned by parse
// order, never taken from the source text, so numbers are contiguous from 1.
type Module struct {
	ModuleNumber int     `json:"moduleNumber" yaml:"moduleNumber"`
	ModuleName   string  `json:"moduleName" yaml:"moduleName"`
	ModuleResult string  `json:"moduleResult,omitempty" yaml:"moduleResult,omitempty"`
	Topics       []Topic `json:"topics" yaml:"topics"`
}

// ParseMetadata records where and when a spec was parsed.
type ParseMetadata struct {
	SourceID string    `json:"sourceId" yaml:"sourceId"`
	ParsedAt time.Time `json:"parsedAt" yaml:"parsedAt"`
}

// CourseSpec is the root of the validated course structure. It is built once
// by the parser and treated as immutable afterwards; only topic status and
// artifact IDs are mutated during a run.
type CourseSpec struct {
	CourseName     string        `json:"courseName" yaml:"courseName"`
	Level          string        `json:"level" yaml:"level"`
	Objective      string        `json:"objective" yaml:"objective"`
	TargetAudience string        `json:"targetAudience,omitempty" yaml:"targetAudience,omitempty"`
	Modules        []Module      `json:"modules" yaml:"modules"`
	Metadata       ParseMetadata `json:"metadata" yaml:"metadata"`
}

// TopicCount returns the total number of topics across all modules.
func (s *CourseSpec) TopicCount() int {
	n := 0
	for _, m := range s.Modules {
		n += len(m.Topics)
	}
	return n
}

// NormalizeLevel maps a recognized level keyword (Spanish or English) to the
// canonical set. Unrecognized input maps to the lowest level.
func NormalizeLevel(level string) string {
	switch level {
	case LevelBasic, LevelIntermediate, LevelAdvanced:
		return level
	case "basico", "basic", "beginner", "principiante":
		return LevelBasic
	case "intermediate", "medio":
		return LevelIntermediate
	case "advanced", "experto":
		return LevelAdvanced
	default:
		return LevelBasic
	}
}

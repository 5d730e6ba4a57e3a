package models

import (
	"fmt"
	"strings"
)

// ValidationResult is the outcome of a schema check: a binary verdict plus
// one human-readable error string per violation.
type ValidationResult struct {
	Valid  bool
	Errors []string
}

// Err converts a failed result into a *ValidationError, or nil when valid.
func (r ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	return &ValidationError{Errors: r.Errors}
}

// ValidationError carries the itemized list of schema violations.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("course spec is invalid: %s", strings.Join(e.Errors, "; "))
}

// Validate checks a candidate spec against the structural contract. It is a
// pure function: it never mutates the spec and never panics. A nil spec is
// reported as a single top-level error.
func Validate(spec *CourseSpec) ValidationResult {
	if spec == nil {
		return ValidationResult{Errors: []string{"course: not a course spec"}}
	}

	var errs []string

	if strings.TrimSpace(spec.CourseName) == "" {
		errs = append(errs, "course.courseName: must not be empty")
	}

	switch spec.Level {
	case LevelBasic, LevelIntermediate, LevelAdvanced:
	default:
		errs = append(errs, fmt.Sprintf("course.level: %q is not one of %q, %q, %q",
			spec.Level, LevelBasic, LevelIntermediate, LevelAdvanced))
	}

	// An empty module list is a representable degraded outcome; modules that
	// do exist must each be well formed.

	for i, m := range spec.Modules {
		path := fmt.Sprintf("course.modules[%d]", i)

		if m.ModuleNumber <= 0 {
			errs = append(errs, fmt.Sprintf("%s.moduleNumber: must be a positive integer, got %d", path, m.ModuleNumber))
		}
		if strings.TrimSpace(m.ModuleName) == "" {
			errs = append(errs, path+".moduleName: must not be empty")
		}
		if len(m.Topics) == 0 {
			errs = append(errs, path+".topics: must contain at least one topic")
		}

		for j, t := range m.Topics {
			tpath := fmt.Sprintf("%s.topics[%d]", path, j)
			if strings.TrimSpace(t.TopicNumber) == "" {
				errs = append(errs, tpath+".topicNumber: must not be empty")
			}
			if strings.TrimSpace(t.TopicName) == "" {
				errs = append(errs, tpath+".topicName: must not be empty")
			}
		}
	}

	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

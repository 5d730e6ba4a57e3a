// Package parser turns free-form course outline text into a validated
// CourseSpec. The input family is messy: inconsistent headers, Spanish and
// English markers, emoji decorations, several numbering schemes. Extraction
// is a single forward pass with a priority-ordered line classifier plus a
// degraded single-module fallback.
package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/jmfuertes/coursegen/internal/models"
)

// Line shapes recognized by the classifier, tried in this order. First match
// wins per line.
var (
	// "MÓDULO 1: Finanzas básicas", "Modulo 2 - Inversión", "Module 3. Basics"
	moduleHeaderRe = regexp.MustCompile(`(?i)^[^\p{L}\p{N}]*m[óo]dul[oe]\s+(\d+)\s*[:.\-–—]*\s*(.*)$`)

	// "B1. Fundamentos" - level code letter + module number, no decimal part.
	letterModuleRe = regexp.MustCompile(`^[^\p{L}\p{N}]*([BIAbia])(\d+)\.\s*([^0-9.\s].*)$`)

	// "1.1 Introducción" or "B1.2 Presupuesto" - dotted topic numbering.
	topicRe = regexp.MustCompile(`^[^\p{L}\p{N}]*[BIAbia]?(\d+)\.(\d+)\s+(.+)$`)

	// "Resultado: el alumno sabrá ..." attaches to the open module.
	resultRe = regexp.MustCompile(`(?i)^[^\p{L}\p{N}]*result(?:ado)?s?\s*:\s*(.+)$`)
)

var (
	objectiveMarkerRe = regexp.MustCompile(`(?i)^[^\p{L}\p{N}]*(?:objetivos?|objectives?)(?:\s+general(?:es)?)?\s*:?\s*`)
	courseLabelRe     = regexp.MustCompile(`(?i)^curso\s*:\s*(.+)$`)
	courseKeywordRe   = regexp.MustCompile(`(?i)^[^\p{L}\p{N}]*(?:curso|course)\b`)
	leadingNumberRe   = regexp.MustCompile(`^(\d+)[.)\-]?\s+(.+)$`)
)

// titleGlyphs mark a line as a document title in the outlines we see.
const titleGlyphs = "📚🎓📖📘📕✏️"

// Parse extracts a CourseSpec from raw outline text. The result is validated
// before being returned; a schema violation surfaces as *models.ValidationError.
func Parse(raw, sourceID string) (*models.CourseSpec, error) {
	lines := splitLines(raw)

	spec := &models.CourseSpec{
		CourseName: extractCourseName(lines),
		Level:      extractLevel(raw),
		Objective:  extractObjective(lines),
		Modules:    extractModules(lines),
	}

	if len(spec.Modules) == 0 {
		spec.Modules = fallbackModules(lines, spec.CourseName)
	}
	if spec.Modules == nil {
		// Nothing recognized at all: a placeholder spec with zero modules.
		spec.Modules = []models.Module{}
	}

	spec.Metadata = models.ParseMetadata{
		SourceID: sourceID,
		ParsedAt: time.Now().UTC(),
	}

	if err := models.Validate(spec).Err(); err != nil {
		return nil, err
	}
	return spec, nil
}

// splitLines returns the non-empty trimmed lines of the input.
func splitLines(raw string) []string {
	var lines []string
	for _, l := range strings.Split(raw, "\n") {
		l = strings.TrimSpace(l)
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// extractCourseName scans the first ~10 lines. Lines carrying objective or
// level markers are skipped. A line introduced by a course keyword or a
// title glyph wins; otherwise the first substantial non-structural line;
// otherwise the first line verbatim.
func extractCourseName(lines []string) string {
	if len(lines) == 0 {
		return models.DefaultCourseName
	}

	limit := len(lines)
	if limit > 10 {
		limit = 10
	}

	for i := 0; i < limit; i++ {
		l := lines[i]
		if hasObjectiveMarker(l) || hasLevelMarker(l) {
			continue
		}
		if courseKeywordRe.MatchString(l) || hasTitleGlyph(l) {
			if name := cleanCourseName(l); name != "" {
				return name
			}
		}
	}

	for i := 0; i < limit; i++ {
		l := lines[i]
		if hasObjectiveMarker(l) || hasLevelMarker(l) || isStructureLine(l) {
			continue
		}
		if name := cleanCourseName(l); len([]rune(name)) > 10 {
			return name
		}
	}

	return lines[0]
}

func hasTitleGlyph(line string) bool {
	if strings.HasPrefix(line, "#") {
		return true
	}
	return strings.ContainsAny(line, titleGlyphs)
}

func cleanCourseName(line string) string {
	name := stripDecorations(line)
	name = strings.TrimLeft(name, "# ")
	name = strings.TrimSpace(name)
	if m := courseLabelRe.FindStringSubmatch(name); m != nil {
		name = strings.TrimSpace(m[1])
	}
	return name
}

// isStructureLine reports whether a line would be consumed by the module or
// topic classifier.
func isStructureLine(line string) bool {
	return moduleHeaderRe.MatchString(line) ||
		letterModuleRe.MatchString(line) ||
		topicRe.MatchString(line) ||
		resultRe.MatchString(line)
}

func hasObjectiveMarker(line string) bool {
	return objectiveMarkerRe.MatchString(line)
}

func hasLevelMarker(line string) bool {
	l := strings.ToLower(line)
	for _, kw := range []string{"nivel", "level", "básico", "basico", "basic", "intermedio", "intermediate", "avanzado", "advanced"} {
		if strings.Contains(l, kw) {
			return true
		}
	}
	return false
}

// extractLevel searches the whole text for level keywords, higher levels
// first, and normalizes the winning keyword into the canonical set. Defaults
// to the lowest level when none are found.
func extractLevel(raw string) string {
	l := strings.ToLower(raw)
	for _, kw := range []string{"avanzado", "advanced", "intermedio", "intermediate"} {
		if strings.Contains(l, kw) {
			return models.NormalizeLevel(kw)
		}
	}
	return models.LevelBasic
}

// extractObjective finds the objective marker line and collects text from it
// (and from subsequent lines) until a module marker is reached. Fragments are
// joined with single spaces.
func extractObjective(lines []string) string {
	start := -1
	var parts []string

	for i, l := range lines {
		if loc := objectiveMarkerRe.FindStringIndex(l); loc != nil {
			start = i
			if rest := strings.TrimSpace(l[loc[1]:]); rest != "" {
				parts = append(parts, rest)
			}
			break
		}
	}
	if start < 0 {
		return models.DefaultObjective
	}

	for _, l := range lines[start+1:] {
		if moduleHeaderRe.MatchString(l) || letterModuleRe.MatchString(l) {
			break
		}
		if clean := stripDecorations(l); clean != "" {
			parts = append(parts, clean)
		}
	}

	if len(parts) == 0 {
		return models.DefaultObjective
	}
	return strings.Join(parts, " ")
}

// moduleBuilder accumulates one module while the classifier walks the input.
type moduleBuilder struct {
	name   string
	result string
	topics []models.Topic
}

// extractModules runs the priority-ordered line classifier. Module numbers
// are assigned by recognition order so they stay contiguous regardless of the
// numbers written in the source. A module that closes with zero topics is
// discarded.
func extractModules(lines []string) []models.Module {
	var modules []models.Module
	var cur *moduleBuilder

	closeCurrent := func() {
		if cur != nil && len(cur.topics) > 0 {
			number := len(modules) + 1
			name := cur.name
			if name == "" {
				name = fmt.Sprintf("Módulo %d", number)
			}
			modules = append(modules, models.Module{
				ModuleNumber: number,
				ModuleName:   name,
				ModuleResult: cur.result,
				Topics:       cur.topics,
			})
		}
		cur = nil
	}

	for _, line := range lines {
		switch {
		case moduleHeaderRe.MatchString(line):
			m := moduleHeaderRe.FindStringSubmatch(line)
			closeCurrent()
			cur = &moduleBuilder{name: stripDecorations(m[2])}

		case letterModuleRe.MatchString(line):
			m := letterModuleRe.FindStringSubmatch(line)
			closeCurrent()
			// The letter+number prefix is part of the emitted name.
			cur = &moduleBuilder{name: fmt.Sprintf("%s%s. %s", m[1], m[2], stripDecorations(m[3]))}

		case topicRe.MatchString(line):
			m := topicRe.FindStringSubmatch(line)
			if cur == nil {
				cur = &moduleBuilder{}
			}
			name := stripDecorations(m[3])
			if name == "" {
				continue
			}
			cur.topics = append(cur.topics, models.Topic{
				TopicNumber: m[1] + "." + m[2],
				TopicName:   name,
				Status:      models.TopicPending,
			})

		case resultRe.MatchString(line):
			m := resultRe.FindStringSubmatch(line)
			if cur != nil {
				cur.result = strings.TrimSpace(m[1])
			}
		}
	}
	closeCurrent()

	return modules
}

// fallbackModules is the degraded extractor used when the classifier found no
// modules at all: every line with a leading number, or any substantial line,
// becomes a topic of a single synthetic module. Topic numbers come from the
// embedded leading number when present, otherwise from a plain counter -
// deliberately a different convention than the primary path.
func fallbackModules(lines []string, courseName string) []models.Module {
	var topics []models.Topic

	for _, line := range lines {
		clean := stripDecorations(line)
		if clean == "" || clean == courseName || hasObjectiveMarker(line) || hasLevelMarker(line) {
			continue
		}

		if m := leadingNumberRe.FindStringSubmatch(clean); m != nil {
			topics = append(topics, models.Topic{
				TopicNumber: m[1],
				TopicName:   strings.TrimSpace(m[2]),
				Status:      models.TopicPending,
			})
			continue
		}

		if len([]rune(clean)) > 10 {
			topics = append(topics, models.Topic{
				TopicNumber: strconv.Itoa(len(topics) + 1),
				TopicName:   clean,
				Status:      models.TopicPending,
			})
		}
	}

	if len(topics) == 0 {
		return nil
	}
	return []models.Module{{
		ModuleNumber: 1,
		ModuleName:   "Contenido del curso",
		Topics:       topics,
	}}
}

// stripDecorations removes emoji and other decorative symbols plus leading
// bullet/heading punctuation, then trims whitespace.
func stripDecorations(s string) string {
	var b strings.Builder
	for _, r := range s {
		if isDecorative(r) {
			continue
		}
		b.WriteRune(r)
	}
	out := strings.TrimLeft(b.String(), "•◦▪●–—-*#> \t")
	return strings.TrimSpace(out)
}

func isDecorative(r rune) bool {
	switch {
	case r >= 0x1F000: // emoji blocks
		return true
	case r >= 0x2190 && r <= 0x2BFF: // arrows, dingbats, misc symbols
		return true
	case r == 0xFE0F || r == 0x200D: // variation selector, ZWJ
		return true
	}
	return unicode.Is(unicode.So, r)
}

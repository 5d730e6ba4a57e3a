package generator

import (
	"fmt"
	"strings"
)

// TopicIndex is the structured lesson index produced by the first generation
// step. It is requested as strict JSON.
type TopicIndex struct {
	Title             string         `json:"title"`
	Introduction      string         `json:"introduction"`
	Sections          []IndexSection `json:"sections"`
	Conclusion        string         `json:"conclusion"`
	EstimatedDuration string         `json:"estimatedDuration"`
	Prerequisites     []string       `json:"prerequisites,omitempty"`
	KeyTerms          []string       `json:"keyTerms,omitempty"`
}

// IndexSection is one ordered section of a lesson index.
type IndexSection struct {
	Title       string   `json:"title"`
	Subsections []string `json:"subsections,omitempty"`
}

// Outline renders the index in the canonical human-readable form used both
// as the stored index artifact and as the development step's conditioning
// input.
func (idx TopicIndex) Outline() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", idx.Title)
	if idx.Introduction != "" {
		fmt.Fprintf(&b, "%s\n\n", idx.Introduction)
	}

	for i, s := range idx.Sections {
		fmt.Fprintf(&b, "## %d. %s\n", i+1, s.Title)
		for j, sub := range s.Subsections {
			fmt.Fprintf(&b, "- %d.%d %s\n", i+1, j+1, sub)
		}
		b.WriteString("\n")
	}

	if idx.Conclusion != "" {
		fmt.Fprintf(&b, "## Conclusión\n%s\n\n", idx.Conclusion)
	}
	if len(idx.Prerequisites) > 0 {
		b.WriteString("## Requisitos previos\n")
		for _, p := range idx.Prerequisites {
			fmt.Fprintf(&b, "- %s\n", p)
		}
		b.WriteString("\n")
	}
	if len(idx.KeyTerms) > 0 {
		fmt.Fprintf(&b, "Términos clave: %s\n\n", strings.Join(idx.KeyTerms, ", "))
	}
	if idx.EstimatedDuration != "" {
		fmt.Fprintf(&b, "Duración estimada: %s\n", idx.EstimatedDuration)
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

package generator

import (
	"regexp"
	"strings"
)

// ClosingSentence is the exact sentence every voiceover script must end with.
const ClosingSentence = "Nos vemos en la próxima lección."

// closingVariantRe matches near-variants of the closing sentence at the end
// of a script ("¡Nos vemos en la siguiente clase!" and similar).
var closingVariantRe = regexp.MustCompile(`(?i)¡?\s*nos\s+vemos\s+en\s+la\s+(?:pr[óo]xima|siguiente)\s+(?:lecci[óo]n|clase)\s*[.!¡]*\s*$`)

// EnsureClosing enforces the terminal-sentence invariant: after trimming
// trailing whitespace the script must end with ClosingSentence exactly. A
// near-variant at the end is rewritten into the canonical form; otherwise the
// sentence is appended as a new paragraph.
func EnsureClosing(text string) string {
	t := strings.TrimRight(text, " \t\r\n")

	if strings.HasSuffix(t, ClosingSentence) {
		return t
	}

	if loc := closingVariantRe.FindStringIndex(t); loc != nil {
		prefix := strings.TrimRight(t[:loc[0]], " \t\r\n")
		if prefix == "" {
			return ClosingSentence
		}
		return prefix + "\n\n" + ClosingSentence
	}

	if t == "" {
		return ClosingSentence
	}
	return t + "\n\n" + ClosingSentence
}

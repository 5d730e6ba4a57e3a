package parser

import (
	"bufio"
	"regexp"
	"strings"
)

// Markdown constructs normalized away by MarkdownToPlain.
var (
	headingLineRe    = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)
	horizontalRuleRe = regexp.MustCompile(`^\s*(\*{3,}|-{3,}|_{3,})\s*$`)
	bulletRe         = regexp.MustCompile(`^(\s*)[*+•▪◦]\s+`)
	boldRe           = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	boldUnderRe      = regexp.MustCompile(`__([^_]+)__`)
	italicRe         = regexp.MustCompile(`\*([^*]+)\*`)
	italicUnderRe    = regexp.MustCompile(`\b_([^_]+)_\b`)
	inlineCodeRe     = regexp.MustCompile("`([^`]+)`")
	blankRunRe       = regexp.MustCompile(`\n{4,}`)
)

// MarkdownToPlain converts generated markdown into the plain-text form the
// destination documents use: headers become uppercase standalone lines,
// emphasis and code markers are stripped, bullets are normalized to a single
// dash form, horizontal rules and decorative symbols are removed, and runs of
// three or more blank lines collapse to exactly one.
func MarkdownToPlain(text string) string {
	var out []string
	inFence := false

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()

		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inFence = !inFence
			continue
		}
		if inFence {
			out = append(out, line)
			continue
		}

		if horizontalRuleRe.MatchString(line) {
			continue
		}

		if m := headingLineRe.FindStringSubmatch(line); m != nil {
			heading := strings.ToUpper(stripInline(m[2]))
			out = append(out, heading)
			continue
		}

		line = bulletRe.ReplaceAllString(line, "${1}- ")
		out = append(out, stripInline(line))
	}

	result := strings.Join(out, "\n")
	result = blankRunRe.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result) + "\n"
}

// stripInline removes emphasis, inline code markers, and decorative symbols
// from a single line.
func stripInline(line string) string {
	line = boldRe.ReplaceAllString(line, "$1")
	line = boldUnderRe.ReplaceAllString(line, "$1")
	line = italicRe.ReplaceAllString(line, "$1")
	line = italicUnderRe.ReplaceAllString(line, "$1")
	line = inlineCodeRe.ReplaceAllString(line, "$1")

	var b strings.Builder
	for _, r := range line {
		if isDecorative(r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimRight(b.String(), " \t")
}

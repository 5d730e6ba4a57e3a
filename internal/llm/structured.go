package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// TextGenerator is the generation contract consumed by callers. *Client is
// the production implementation; tests substitute doubles.
type TextGenerator interface {
	GenerateText(ctx context.Context, systemPrompt, userPrompt string, opts Options) (string, error)
}

// Compile-time check that Client implements TextGenerator.
var _ TextGenerator = (*Client)(nil)

// GenerateStructured requests a completion and decodes it as JSON into T.
// A decode failure is reported as ErrDecode and is not retried here.
func GenerateStructured[T any](ctx context.Context, g TextGenerator, systemPrompt, userPrompt string, opts Options) (T, error) {
	var zero T

	text, err := g.GenerateText(ctx, systemPrompt, userPrompt, opts)
	if err != nil {
		return zero, err
	}
	return DecodeJSON[T](text)
}

// DecodeJSON parses JSON from an LLM response, stripping incidental
// ```json code-fence wrapping and repairing trailing commas.
func DecodeJSON[T any](content string) (T, error) {
	var result T

	content = strings.TrimSpace(content)
	if startIdx := strings.Index(content, "```json"); startIdx != -1 {
		startIdx += 7
		if endIdx := strings.LastIndex(content, "```"); endIdx > startIdx {
			content = content[startIdx:endIdx]
		}
	} else if startIdx := strings.Index(content, "```"); startIdx != -1 {
		startIdx += 3
		if endIdx := strings.LastIndex(content[startIdx:], "```"); endIdx != -1 {
			content = content[startIdx : startIdx+endIdx]
		}
	}
	content = strings.TrimSpace(content)

	if err := json.Unmarshal([]byte(content), &result); err != nil {
		// Trailing commas are the most common model slip
		repaired := strings.ReplaceAll(content, ",]", "]")
		repaired = strings.ReplaceAll(repaired, ",}", "}")
		if err := json.Unmarshal([]byte(repaired), &result); err != nil {
			return result, fmt.Errorf("%w: %v (content: %s)", ErrDecode, err, truncate(content, 200))
		}
	}

	return result, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

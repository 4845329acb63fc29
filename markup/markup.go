// Package markup parses the assistant's line-oriented reply text into
// typed render blocks. Parsing is pure and best-effort: malformed input
// degrades to literal text, it never fails.
package markup

import (
	"regexp"
	"strings"

	"github.com/minasamy417/resultsboard/domain"
)

// Span is a run of text within a block, optionally emphasized.
type Span struct {
	Text     string `json:"text"`
	Emphasis bool   `json:"emphasis,omitempty"`
}

// Block is one structurally-classified line of a reply.
type Block struct {
	Kind  domain.BlockKind `json:"kind"`
	Spans []Span           `json:"spans,omitempty"`
}

var numberedHeading = regexp.MustCompile(`^\d+\.`)

// Parse splits text into lines and classifies each one. Classification
// precedence: bullet, heading, blank, paragraph.
func Parse(text string) []Block {
	lines := strings.Split(text, "\n")
	blocks := make([]Block, 0, len(lines))

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* "):
			blocks = append(blocks, Block{
				Kind:  domain.BlockKindBullet,
				Spans: parseSpans(trimmed[2:]),
			})
		case strings.HasSuffix(trimmed, ":") || numberedHeading.MatchString(trimmed):
			blocks = append(blocks, Block{
				Kind:  domain.BlockKindHeading,
				Spans: parseSpans(trimmed),
			})
		case trimmed == "":
			blocks = append(blocks, Block{Kind: domain.BlockKindBlank})
		default:
			// Paragraphs keep the original, untrimmed line.
			blocks = append(blocks, Block{
				Kind:  domain.BlockKindParagraph,
				Spans: parseSpans(line),
			})
		}
	}
	return blocks
}

// parseSpans escapes angle brackets, then splits on **...** emphasis
// delimiters. Escaping MUST happen first so delimiters inside escaped
// content cannot be reinterpreted as markup. An unmatched ** renders
// literally.
func parseSpans(content string) []Span {
	safe := strings.ReplaceAll(content, "<", "&lt;")
	safe = strings.ReplaceAll(safe, ">", "&gt;")

	var spans []Span
	for {
		open := strings.Index(safe, "**")
		if open < 0 {
			break
		}
		end := strings.Index(safe[open+2:], "**")
		if end < 0 {
			// Unbalanced delimiter, leave the rest literal.
			break
		}
		if open > 0 {
			spans = append(spans, Span{Text: safe[:open]})
		}
		spans = append(spans, Span{Text: safe[open+2 : open+2+end], Emphasis: true})
		safe = safe[open+2+end+2:]
	}
	if safe != "" || len(spans) == 0 {
		spans = append(spans, Span{Text: safe})
	}
	return spans
}

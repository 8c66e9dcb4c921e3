package chunk

import (
	"strings"
)

// Delimiter algorithm parameters.
const (
	DelimiterField   = "delimiter"
	DefaultDelimiter = "\n\n"
)

// DelimiterChunker splits content at every occurrence of a delimiter string.
// The delimiter is retained at the end of each emitted chunk.
type DelimiterChunker struct {
	delimiter string
}

// NewDelimiter creates a delimiter chunker. The delimiter must be a
// non-blank string; it defaults to a paragraph break.
func NewDelimiter(params map[string]any) (*DelimiterChunker, error) {
	delimiter, err := nonBlankStringParam(params, DelimiterField, DefaultDelimiter)
	if err != nil {
		return nil, err
	}
	return &DelimiterChunker{delimiter: delimiter}, nil
}

// Chunk scans content left to right, emitting one chunk per delimiter
// occurrence (delimiter included) and any trailing remainder as the final
// chunk. When the governor's budget runs out, splitting stops and all
// remaining content is emitted verbatim as one last chunk.
func (c *DelimiterChunker) Chunk(content string, rt Runtime) ([]string, error) {
	var chunks []string
	start := 0
	end := strings.Index(content, c.delimiter)
	for end != -1 {
		if rt.Governor.Reached(len(chunks), rt.PendingStrings) {
			break
		}
		chunks = append(chunks, content[start:end+len(c.delimiter)])
		start = end + len(c.delimiter)
		if next := strings.Index(content[start:], c.delimiter); next == -1 {
			end = -1
		} else {
			end = start + next
		}
	}
	if start < len(content) {
		chunks = append(chunks, content[start:])
	}
	return chunks, nil
}

package chunk

// DisabledChunkLimit is the sentinel meaning no per-document chunk ceiling.
const DisabledChunkLimit = -1

// Governor tracks the cumulative chunk count across all chunked fields of a
// single document. One Governor is created per document-processing call and
// discarded when the call returns; it is never shared across documents.
type Governor struct {
	limit int
	count int
}

// NewGovernor creates a governor with the given ceiling (DisabledChunkLimit
// for none).
func NewGovernor(limit int) *Governor {
	return &Governor{limit: limit}
}

// Enabled reports whether a ceiling is in force.
func (g *Governor) Enabled() bool {
	return g != nil && g.limit != DisabledChunkLimit
}

// Reached reports whether a chunker that has already emitted `emitted` chunks
// in the current call must stop splitting and merge the remaining content
// into its final chunk. One budget slot is reserved for each of the `pending`
// strings still waiting to be chunked in this document, the current string
// included, so every string is guaranteed at least one chunk.
func (g *Governor) Reached(emitted, pending int) bool {
	if !g.Enabled() {
		return false
	}
	return g.count+emitted+pending >= g.limit
}

// Add records n emitted chunks.
func (g *Governor) Add(n int) {
	if g != nil {
		g.count += n
	}
}

// Count returns the chunks recorded so far.
func (g *Governor) Count() int {
	if g == nil {
		return 0
	}
	return g.count
}

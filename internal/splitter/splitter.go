// File path: internal/splitter/splitter.go

// Package splitter cuts text into bounded, contiguous, order-preserving
// chunks. Chunk boundaries fall on rune boundaries so multi-byte text is
// never cut mid-character; the length unit is the rune count, the same
// proxy the budgeting code uses.
package splitter

// DefaultChunkSize bounds chunks produced during ingestion.
const DefaultChunkSize = 1500

// DefaultRetrievalChunkSize bounds the finer re-split applied to retrieved
// chunks before budgeting.
const DefaultRetrievalChunkSize = 500

// Split cuts text into consecutive chunks of at most size runes. The chunks
// concatenate back to the input exactly; only the final chunk may be short.
func Split(text string, size int) []string {
	if text == "" {
		return nil
	}
	if size <= 0 {
		size = DefaultChunkSize
	}
	runes := []rune(text)
	chunks := make([]string, 0, (len(runes)+size-1)/size)
	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}

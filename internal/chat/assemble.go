// File path: internal/chat/assemble.go
package chat

import (
	"unicode/utf8"

	"github.com/docschat/docschat/internal/splitter"
	"github.com/docschat/docschat/internal/vector"
)

// TrimChunks shrinks an ordered chunk list to the longest prefix whose
// cumulative rune cost fits the budget, dropping from the tail. Because the
// input arrives ranked by relevance, truncation always sacrifices the least
// relevant chunks.
func TrimChunks(chunks []string, budget int) []string {
	costs := make([]int, len(chunks))
	total := 0
	for i, chunk := range chunks {
		costs[i] = utf8.RuneCountInString(chunk)
		total += costs[i]
	}
	keep := len(chunks)
	for keep > 0 && total > budget {
		keep--
		total -= costs[keep]
	}
	return chunks[:keep]
}

// resplitResults re-splits ranked search results into finer sub-chunks,
// preserving rank order, so budgeting can trim at a smaller granularity
// than the ingest chunk size.
func resplitResults(results []vector.Result, size int) []string {
	var sub []string
	for _, res := range results {
		sub = append(sub, splitter.Split(res.Chunk, size)...)
	}
	return sub
}

// File path: internal/vector/index.go
package vector

import (
	"errors"
	"math"
	"sort"
)

// Index is a flat per-document vector index: one embedding per chunk,
// searched by brute-force cosine similarity. Documents are small enough
// that approximate structures buy nothing here.
type Index struct {
	Name    string      `json:"name"`
	Chunks  []string    `json:"chunks"`
	Vectors [][]float32 `json:"vectors"`
}

// Result is one ranked chunk returned from a similarity search.
type Result struct {
	Chunk string
	Score float32
}

// Build pairs chunk texts with their embeddings.
func Build(chunks []string, vectors [][]float32) (*Index, error) {
	if len(chunks) == 0 {
		return nil, errors.New("no chunks provided")
	}
	if len(chunks) != len(vectors) {
		return nil, errors.New("chunks and vectors length mismatch")
	}
	dim := 0
	for _, vec := range vectors {
		if dim == 0 {
			dim = len(vec)
		}
		if len(vec) == 0 || len(vec) != dim {
			return nil, errors.New("inconsistent vector dimensions")
		}
	}
	return &Index{Chunks: chunks, Vectors: vectors}, nil
}

// Search returns up to limit chunks ranked by descending cosine similarity
// to the query vector.
func (ix *Index) Search(query []float32, limit int) []Result {
	if ix == nil || len(ix.Vectors) == 0 || len(query) == 0 {
		return nil
	}
	if limit <= 0 {
		limit = 4
	}
	results := make([]Result, 0, len(ix.Vectors))
	for i, vec := range ix.Vectors {
		results = append(results, Result{Chunk: ix.Chunks[i], Score: cosine(query, vec)})
	}
	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Score > results[b].Score
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

func cosine(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}

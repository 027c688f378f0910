// File path: internal/chat/assemble_test.go
package chat

import (
	"strings"
	"testing"

	"github.com/docschat/docschat/internal/vector"
)

func TestTrimChunksKeepsLongestAffordablePrefix(t *testing.T) {
	chunks := []string{
		strings.Repeat("a", 100),
		strings.Repeat("b", 100),
		strings.Repeat("c", 100),
	}
	got := TrimChunks(chunks, 250)
	if len(got) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(got))
	}
	if got[0] != chunks[0] || got[1] != chunks[1] {
		t.Fatalf("trim must keep a prefix in rank order")
	}
	// Appending the next candidate would exceed the budget.
	total := 0
	for _, c := range got {
		total += len(c)
	}
	if total > 250 {
		t.Fatalf("budget exceeded: %d", total)
	}
	if total+len(chunks[2]) <= 250 {
		t.Fatalf("prefix is not maximal")
	}
}

func TestTrimChunksFitsEverythingUnderBudget(t *testing.T) {
	chunks := []string{"one", "two"}
	got := TrimChunks(chunks, 100)
	if len(got) != 2 {
		t.Fatalf("expected all chunks kept, got %d", len(got))
	}
}

func TestTrimChunksEmptyWhenFirstChunkTooLarge(t *testing.T) {
	got := TrimChunks([]string{strings.Repeat("x", 50)}, 10)
	if len(got) != 0 {
		t.Fatalf("expected no chunks, got %d", len(got))
	}
}

func TestResplitResultsPreservesRankOrder(t *testing.T) {
	results := []vector.Result{
		{Chunk: strings.Repeat("a", 12), Score: 0.9},
		{Chunk: strings.Repeat("b", 5), Score: 0.5},
	}
	sub := resplitResults(results, 5)
	if len(sub) != 4 {
		t.Fatalf("expected 4 sub-chunks, got %d", len(sub))
	}
	want := []string{"aaaaa", "aaaaa", "aa", "bbbbb"}
	for i, chunk := range sub {
		if chunk != want[i] {
			t.Fatalf("sub-chunk %d = %q, want %q", i, chunk, want[i])
		}
	}
}

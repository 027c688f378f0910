// File path: internal/chat/history.go
package chat

import (
	"strings"
	"unicode/utf8"
)

// Turn is one paired human utterance and AI response.
type Turn struct {
	Human string
	AI    string
}

// FormatHistory renders a conversation for prompting, trimmed to a rune
// budget. The walk runs newest to oldest and stops the moment the running
// cost exceeds the budget; the boundary turn is excluded outright rather
// than partially included. The kept suffix is reassembled in chronological
// order.
//
// In human-only mode only the human lines are rendered and only their cost
// counts. That variant feeds the retrieval query: recent human intent
// matters there, the AI's answers would just dilute it.
func FormatHistory(turns []Turn, budget int, humanOnly bool) string {
	used := 0
	var kept []Turn
	for i := len(turns) - 1; i >= 0; i-- {
		human := "Human: " + turns[i].Human
		ai := "AI: " + turns[i].AI
		if humanOnly {
			used += utf8.RuneCountInString(human)
		} else {
			used += utf8.RuneCountInString(human) + utf8.RuneCountInString(ai)
		}
		if used > budget {
			break
		}
		kept = append(kept, Turn{Human: human, AI: ai})
	}
	parts := make([]string, 0, len(kept))
	for i := len(kept) - 1; i >= 0; i-- {
		if humanOnly {
			parts = append(parts, kept[i].Human)
		} else {
			parts = append(parts, kept[i].Human+"\n\n"+kept[i].AI)
		}
	}
	return strings.Join(parts, "\n\n")
}

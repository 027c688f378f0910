// File path: internal/catalog/types.go
package catalog

import "time"

// Document represents one ingested document row. Content holds the chunk
// texts joined with ChunkSeparator; the mirror of the vector index.
type Document struct {
	Identity    string    `db:"identity"`
	Name        string    `db:"name"`
	Mode        string    `db:"mode"`
	Description string    `db:"description"`
	Content     string    `db:"content"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// Message is one conversation turn: a paired human utterance and AI
// response. Rows are immutable once written.
type Message struct {
	ID             int64     `db:"id"`
	Namespace      string    `db:"namespace"`
	SequenceNumber int       `db:"sequence_number"`
	HumanMessage   string    `db:"human_message"`
	AIMessage      string    `db:"ai_message"`
	DocumentName   string    `db:"document_name"`
	Title          string    `db:"title"`
	CreatedAt      time.Time `db:"created_at"`
}

// Conversation summarises one thread attached to a document.
type Conversation struct {
	Namespace    string `db:"namespace"`
	Title        string `db:"title"`
	DocumentName string `db:"document_name"`
	Turns        int    `db:"turns"`
}

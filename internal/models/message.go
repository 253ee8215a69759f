package models

import "time"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// SourceRef records where a grounding snippet came from.
type SourceRef struct {
	Name        string    `json:"name"`
	URL         string    `json:"url,omitempty"`
	RetrievedAt time.Time `json:"retrieved_at"`
}

// ChatMessage is one turn in a (user, persona) scoped chat session.
// Messages are append-only; ids are assigned by the history store per key.
type ChatMessage struct {
	ID        int64      `json:"id"`
	UserID    string     `json:"user_id"`
	Persona   Persona    `json:"persona"`
	Role      Role       `json:"role"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"created_at"`
	Source    *SourceRef `json:"source,omitempty"`
}

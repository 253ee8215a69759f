package models

import "time"

// Snippet is a short text excerpt retrieved from a reference source and used
// as grounding context for the model.
type Snippet struct {
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	SourceName  string    `json:"source_name"`
	URL         string    `json:"url"`
	RetrievedAt time.Time `json:"retrieved_at"`
}

// Ref converts the snippet into the citation stored alongside a message.
func (s *Snippet) Ref() *SourceRef {
	if s == nil {
		return nil
	}
	return &SourceRef{Name: s.SourceName, URL: s.URL, RetrievedAt: s.RetrievedAt}
}

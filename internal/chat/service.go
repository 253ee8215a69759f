// Package chat orchestrates one question/answer turn: query normalization,
// knowledge and external-source retrieval, prompt assembly, generation, and
// history persistence.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"personachat/internal/knowledge"
	"personachat/internal/llm"
	"personachat/internal/models"
	"personachat/internal/persona"
	"personachat/internal/query"
	"personachat/internal/source"
	"personachat/internal/store"
)

// historyContextLimit bounds how many prior messages are replayed to the
// provider per turn.
const historyContextLimit = 10

// Retriever is the external source chain consulted when the knowledge store
// has no match.
type Retriever interface {
	Lookup(ctx context.Context, terms []string) (*models.Snippet, error)
}

// Generator produces the final answer from the assembled prompt.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, question string, history []models.ChatMessage) llm.Result
}

// Exchange is the stored result of one turn.
type Exchange struct {
	Question models.ChatMessage
	Answer   models.ChatMessage
	Fallback bool
}

// Service wires the retrieval chain, the generator, and the history store.
type Service struct {
	history   *store.HistoryStore
	knowledge *knowledge.Store
	sources   Retriever
	generator Generator
}

// NewService assembles a chat service. knowledge and sources may be nil; the
// turn then runs ungrounded.
func NewService(history *store.HistoryStore, kb *knowledge.Store, sources Retriever, generator Generator) *Service {
	return &Service{
		history:   history,
		knowledge: kb,
		sources:   sources,
		generator: generator,
	}
}

// Ask runs one full turn for the (user, persona) session and records both the
// question and the answer in the history.
func (s *Service) Ask(ctx context.Context, userID string, p models.Persona, message string) (*Exchange, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, fmt.Errorf("message is required")
	}

	terms := query.Normalize(message)
	snippet := s.knowledge.Retrieve(terms)
	if snippet == nil && s.sources != nil {
		found, err := s.sources.Lookup(ctx, terms)
		if err == nil {
			snippet = found
		} else if !errors.Is(err, source.ErrNoData) {
			return nil, fmt.Errorf("source lookup: %w", err)
		}
	}

	prompt, err := persona.BuildPrompt(p, message, snippet)
	if err != nil {
		return nil, err
	}

	prior, err := s.history.List(userID, p)
	if err != nil {
		return nil, err
	}
	if len(prior) > historyContextLimit {
		prior = prior[len(prior)-historyContextLimit:]
	}

	result := s.generator.Generate(ctx, prompt, message, prior)
	answer := result.Answer
	if snippet != nil {
		answer += citation(snippet)
	}

	questionMsg, err := s.history.Append(userID, p, models.RoleUser, message, nil)
	if err != nil {
		return nil, err
	}
	answerMsg, err := s.history.Append(userID, p, models.RoleAssistant, answer, snippet.Ref())
	if err != nil {
		return nil, err
	}

	return &Exchange{
		Question: *questionMsg,
		Answer:   *answerMsg,
		Fallback: result.Fallback,
	}, nil
}

// SaveMessage records a single message without running a generation turn,
// used by clients that persist locally composed messages.
func (s *Service) SaveMessage(userID string, p models.Persona, role models.Role, content string) (*models.ChatMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("message is required")
	}
	if _, err := persona.Get(p); err != nil {
		return nil, err
	}
	return s.history.Append(userID, p, role, content, nil)
}

// History returns the stored messages for the session.
func (s *Service) History(userID string, p models.Persona) ([]models.ChatMessage, error) {
	return s.history.List(userID, p)
}

// ClearHistory drops the session's messages.
func (s *Service) ClearHistory(userID string, p models.Persona) error {
	return s.history.Clear(userID, p)
}

func citation(snippet *models.Snippet) string {
	accessed := snippet.RetrievedAt.Format("2006-01-02")
	if snippet.URL != "" {
		return fmt.Sprintf("\n\nSource: %s | %s | Accessed: %s", snippet.SourceName, snippet.URL, accessed)
	}
	return fmt.Sprintf("\n\nSource: %s | Accessed: %s", snippet.SourceName, accessed)
}

package chat

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"personachat/internal/llm"
	"personachat/internal/models"
	"personachat/internal/source"
	"personachat/internal/store"
)

type stubRetriever struct {
	snippet *models.Snippet
	calls   int
	terms   []string
}

func (r *stubRetriever) Lookup(ctx context.Context, terms []string) (*models.Snippet, error) {
	r.calls++
	r.terms = terms
	if r.snippet == nil {
		return nil, source.ErrNoData
	}
	return r.snippet, nil
}

type stubGenerator struct {
	answer   string
	fallback bool
	prompt   string
	history  []models.ChatMessage
}

func (g *stubGenerator) Generate(ctx context.Context, systemPrompt, question string, history []models.ChatMessage) llm.Result {
	g.prompt = systemPrompt
	g.history = history
	answer := g.answer
	if answer == "" {
		answer = "stub answer"
	}
	return llm.Result{Answer: answer, Fallback: g.fallback}
}

func newTestService(t *testing.T, retriever Retriever, generator Generator) *Service {
	t.Helper()
	history, err := store.NewHistoryStore(filepath.Join(t.TempDir(), "history.json"))
	if err != nil {
		t.Fatalf("NewHistoryStore: %v", err)
	}
	return NewService(history, nil, retriever, generator)
}

func TestAskRecordsBothTurns(t *testing.T) {
	gen := &stubGenerator{answer: "Here is what I know."}
	svc := newTestService(t, &stubRetriever{}, gen)

	ex, err := svc.Ask(context.Background(), "alice", models.PersonaExecutive, "What are the business trends?")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if ex.Question.Role != models.RoleUser || ex.Answer.Role != models.RoleAssistant {
		t.Fatalf("unexpected roles: %s / %s", ex.Question.Role, ex.Answer.Role)
	}
	if ex.Answer.ID <= ex.Question.ID {
		t.Fatalf("expected answer id after question id: %d vs %d", ex.Answer.ID, ex.Question.ID)
	}

	messages, err := svc.History("alice", models.PersonaExecutive)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("expected 2 stored messages, got %d", len(messages))
	}
	if messages[0].Content != "What are the business trends?" {
		t.Fatalf("question not stored first: %q", messages[0].Content)
	}
	if messages[1].Content != "Here is what I know." {
		t.Fatalf("unexpected stored answer: %q", messages[1].Content)
	}
}

func TestAskAppendsCitationWhenGrounded(t *testing.T) {
	retriever := &stubRetriever{snippet: &models.Snippet{
		Title:       "Business trend",
		Content:     strings.Repeat("trend data ", 10),
		SourceName:  "Wikipedia",
		URL:         "https://en.wikipedia.org/wiki/Business_trend",
		RetrievedAt: time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
	}}
	gen := &stubGenerator{answer: "Grounded answer."}
	svc := newTestService(t, retriever, gen)

	ex, err := svc.Ask(context.Background(), "alice", models.PersonaExecutive, "What are the business trends?")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	want := "Source: Wikipedia | https://en.wikipedia.org/wiki/Business_trend | Accessed: 2026-08-20"
	if !strings.Contains(ex.Answer.Content, want) {
		t.Fatalf("expected citation %q in answer %q", want, ex.Answer.Content)
	}
	if ex.Answer.Source == nil || ex.Answer.Source.Name != "Wikipedia" {
		t.Fatalf("expected source ref on answer, got %+v", ex.Answer.Source)
	}
	if !strings.Contains(gen.prompt, "trend data") {
		t.Fatalf("expected snippet content in prompt")
	}
}

func TestAskNoCitationWhenUngrounded(t *testing.T) {
	retriever := &stubRetriever{}
	svc := newTestService(t, retriever, &stubGenerator{answer: "Plain answer."})

	ex, err := svc.Ask(context.Background(), "alice", models.PersonaGeneral, "Tell me about pottery")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if strings.Contains(ex.Answer.Content, "Source:") {
		t.Fatalf("unexpected citation in ungrounded answer: %q", ex.Answer.Content)
	}
	if ex.Answer.Source != nil {
		t.Fatalf("expected nil source ref, got %+v", ex.Answer.Source)
	}
	if retriever.calls != 1 {
		t.Fatalf("expected one lookup, got %d", retriever.calls)
	}
}

func TestAskRejectsEmptyMessage(t *testing.T) {
	svc := newTestService(t, &stubRetriever{}, &stubGenerator{})
	if _, err := svc.Ask(context.Background(), "alice", models.PersonaGeneral, "   "); err == nil {
		t.Fatalf("expected error for empty message")
	}
}

func TestAskRejectsUnknownPersona(t *testing.T) {
	svc := newTestService(t, &stubRetriever{}, &stubGenerator{})
	if _, err := svc.Ask(context.Background(), "alice", models.Persona("Wizard"), "hello"); err == nil {
		t.Fatalf("expected error for unknown persona")
	}
}

func TestAskReplaysBoundedHistory(t *testing.T) {
	gen := &stubGenerator{}
	svc := newTestService(t, &stubRetriever{}, gen)

	for i := 0; i < 8; i++ {
		if _, err := svc.Ask(context.Background(), "alice", models.PersonaStudent, "question about study habits"); err != nil {
			t.Fatalf("Ask %d: %v", i, err)
		}
	}
	// 8 turns stored 14 prior messages by the last call; the replay is capped.
	if len(gen.history) != historyContextLimit {
		t.Fatalf("expected %d replayed messages, got %d", historyContextLimit, len(gen.history))
	}
}

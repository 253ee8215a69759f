package persona

import (
	"errors"
	"strings"
	"testing"
	"time"

	"personachat/internal/models"
)

func TestBuildPromptAllPersonas(t *testing.T) {
	for _, p := range models.AllPersonas() {
		prompt, err := BuildPrompt(p, "What is the remote work policy?", nil)
		if err != nil {
			t.Fatalf("BuildPrompt(%s) error: %v", p, err)
		}
		if prompt == "" {
			t.Fatalf("BuildPrompt(%s) returned empty prompt", p)
		}
		def, err := Get(p)
		if err != nil {
			t.Fatalf("Get(%s) error: %v", p, err)
		}
		if !strings.Contains(prompt, def.Instruction) {
			t.Fatalf("prompt for %s missing instruction prefix", p)
		}
		if !strings.Contains(prompt, "What is the remote work policy?") {
			t.Fatalf("prompt for %s missing question", p)
		}
	}
}

func TestBuildPromptUnknownPersona(t *testing.T) {
	prompt, err := BuildPrompt(models.Persona("Wizard"), "hello", nil)
	if err == nil {
		t.Fatalf("expected error for unknown persona")
	}
	if !errors.Is(err, models.ErrUnknownPersona) {
		t.Fatalf("expected ErrUnknownPersona, got %v", err)
	}
	if prompt != "" {
		t.Fatalf("expected empty prompt on error, got %q", prompt)
	}
}

func TestBuildPromptWithSnippet(t *testing.T) {
	snippet := &models.Snippet{
		Title:       "Business trend",
		Content:     "AI adoption is accelerating across enterprises.",
		SourceName:  "Wikipedia",
		URL:         "https://en.wikipedia.org/wiki/Business_trend",
		RetrievedAt: time.Now(),
	}
	prompt, err := BuildPrompt(models.PersonaExecutive, "What are the trends?", snippet)
	if err != nil {
		t.Fatalf("BuildPrompt error: %v", err)
	}
	if !strings.Contains(prompt, snippet.Content) {
		t.Fatalf("prompt missing snippet content")
	}
	if !strings.Contains(prompt, "retrieved from Wikipedia") {
		t.Fatalf("prompt missing source attribution")
	}
}

func TestBuildPromptDeterministic(t *testing.T) {
	first, err := BuildPrompt(models.PersonaStudent, "Explain APIs", nil)
	if err != nil {
		t.Fatalf("BuildPrompt error: %v", err)
	}
	second, err := BuildPrompt(models.PersonaStudent, "Explain APIs", nil)
	if err != nil {
		t.Fatalf("BuildPrompt error: %v", err)
	}
	if first != second {
		t.Fatalf("expected identical prompts for identical inputs")
	}
}

func TestSuggestedQuestionsDistinctPerPersona(t *testing.T) {
	exec, err := Get(models.PersonaExecutive)
	if err != nil {
		t.Fatalf("Get executive: %v", err)
	}
	student, err := Get(models.PersonaStudent)
	if err != nil {
		t.Fatalf("Get student: %v", err)
	}
	if len(exec.SuggestedQuestions) == 0 || len(student.SuggestedQuestions) == 0 {
		t.Fatalf("expected non-empty suggested question lists")
	}
	same := len(exec.SuggestedQuestions) == len(student.SuggestedQuestions)
	if same {
		for i := range exec.SuggestedQuestions {
			if exec.SuggestedQuestions[i] != student.SuggestedQuestions[i] {
				same = false
				break
			}
		}
	}
	if same {
		t.Fatalf("expected Executive and Student suggestions to differ")
	}
}

package query

import (
	"reflect"
	"testing"
)

func TestNormalizeBusinessTrends(t *testing.T) {
	terms := Normalize("What are the key business trends for next quarter?")
	if len(terms) == 0 {
		t.Fatalf("expected terms for business trends question")
	}
	if terms[0] != "business trends" {
		t.Fatalf("expected first term %q, got %q", "business trends", terms[0])
	}
	want := []string{"business trends", "market trends", "economic trends", "industry trends", "business", "economics"}
	if !reflect.DeepEqual(terms, want) {
		t.Fatalf("unexpected term list: %v", terms)
	}
}

func TestNormalizeProductivity(t *testing.T) {
	terms := Normalize("How can we improve team productivity and collaboration?")
	if len(terms) < 2 {
		t.Fatalf("expected multiple terms, got %v", terms)
	}
	if terms[0] != "productivity" || terms[1] != "collaboration" {
		t.Fatalf("expected matched words first in fixed order, got %v", terms)
	}
	last := terms[len(terms)-1]
	if last != "work" {
		t.Fatalf("expected broader fallback terms appended, got %v", terms)
	}
}

func TestNormalizeDigitalTransformation(t *testing.T) {
	terms := Normalize("How should we approach digital transformation?")
	if len(terms) == 0 || terms[0] != "digital transformation" {
		t.Fatalf("expected digital transformation first, got %v", terms)
	}
}

func TestNormalizeGenericStripsStopWords(t *testing.T) {
	terms := Normalize("What is the remote work policy?")
	if len(terms) != 1 {
		t.Fatalf("expected a single joined term, got %v", terms)
	}
	if terms[0] != "remote work policy" {
		t.Fatalf("unexpected joined term %q", terms[0])
	}
}

func TestNormalizeEmptyInput(t *testing.T) {
	if terms := Normalize(""); terms != nil {
		t.Fatalf("expected nil for empty input, got %v", terms)
	}
	if terms := Normalize("what is the"); terms != nil {
		t.Fatalf("expected nil when only stop words remain, got %v", terms)
	}
}

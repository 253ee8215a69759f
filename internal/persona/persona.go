// Package persona holds the static per-persona instruction prefixes,
// descriptions, and suggested questions, and composes the final prompt.
package persona

import (
	"fmt"

	"personachat/internal/models"
)

// Definition bundles everything the service knows about one persona.
type Definition struct {
	Persona            models.Persona
	Description        string
	Instruction        string
	SuggestedQuestions []string
}

var definitions = map[models.Persona]Definition{
	models.PersonaExecutive: {
		Persona:     models.PersonaExecutive,
		Description: "Strategic business leader",
		Instruction: "You are an assistant specializing in executive leadership and business strategy. " +
			"Answer with a high-level strategic summary focused on ROI, risks, and business impact. " +
			"Be concise, decision-oriented, and forward-thinking. Avoid technical jargon and " +
			"implementation detail; use business metrics where they help.",
		SuggestedQuestions: []string{
			"What are the key business trends for next quarter?",
			"What are the biggest challenges facing our industry?",
			"How should we prioritize our digital transformation roadmap?",
			"What risks should the board be tracking this year?",
			"Where should we invest to stay ahead of competitors?",
		},
	},
	models.PersonaDeveloper: {
		Persona:     models.PersonaDeveloper,
		Description: "Technical expert",
		Instruction: "You are an assistant specializing in software development and technology. " +
			"Answer with technical precision: include implementation steps, code examples when " +
			"relevant, and references to best practices and design patterns. Be thorough and " +
			"problem-solving oriented.",
		SuggestedQuestions: []string{
			"How does token-based authentication work?",
			"What are the trade-offs between REST and message queues?",
			"How should we structure integration tests for an HTTP API?",
			"What does a sensible migration strategy to microservices look like?",
			"How can we reduce latency in our request pipeline?",
		},
	},
	models.PersonaHRSpecialist: {
		Persona:     models.PersonaHRSpecialist,
		Description: "People and policy expert",
		Instruction: "You are an assistant specializing in human resources and organizational " +
			"development. Answer in an empathetic, people-focused, policy-oriented style. Explain " +
			"processes clearly, flag compliance and confidentiality considerations, and emphasize " +
			"fairness and consistency.",
		SuggestedQuestions: []string{
			"How can we improve team productivity and collaboration?",
			"What does a good onboarding process include?",
			"How should managers handle underperformance conversations?",
			"What are current best practices for hybrid work policies?",
			"How do we build an effective professional development program?",
		},
	},
	models.PersonaStudent: {
		Persona:     models.PersonaStudent,
		Description: "Learning-focused individual",
		Instruction: "You are an assistant specializing in education and learning support. Explain " +
			"concepts from the basics in simple, accessible language. Use analogies and real-world " +
			"examples, break complex topics into steps, and be patient and encouraging.",
		SuggestedQuestions: []string{
			"Can you explain what digital transformation means in simple terms?",
			"What is machine learning and how is it used?",
			"How do I get better at studying for exams?",
			"What skills should I learn to prepare for a tech career?",
			"How does the stock market work?",
		},
	},
	models.PersonaGeneral: {
		Persona:     models.PersonaGeneral,
		Description: "Versatile assistant",
		Instruction: "You are a helpful general-purpose assistant. Give balanced, clear, and " +
			"well-structured answers with moderate detail: accessible without being oversimplified, " +
			"practical, and objective.",
		SuggestedQuestions: []string{
			"What are the key business trends for next quarter?",
			"How can we improve team productivity and collaboration?",
			"What are the biggest challenges facing our industry?",
			"How should we approach digital transformation?",
			"What strategies work best for professional development?",
		},
	},
}

// Get returns the definition for a persona, or ErrUnknownPersona.
func Get(p models.Persona) (Definition, error) {
	def, ok := definitions[p]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %q", models.ErrUnknownPersona, string(p))
	}
	return def, nil
}

// All returns every definition in presentation order.
func All() []Definition {
	out := make([]Definition, 0, len(definitions))
	for _, p := range models.AllPersonas() {
		out = append(out, definitions[p])
	}
	return out
}

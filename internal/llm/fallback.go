package llm

import "strings"

// cannedResponse routes well-known question families to a prepared answer so
// the demo stays usable when no provider is reachable.
type cannedResponse struct {
	keywords []string
	answer   string
}

var cannedResponses = []cannedResponse{
	{
		keywords: []string{"business trends", "market trends", "trends"},
		answer: "Key business trends for the upcoming quarter include digital transformation " +
			"acceleration, remote work optimization, supply chain resilience, customer experience " +
			"enhancement, and data-driven decision making. Organizations should focus on AI " +
			"integration, sustainability initiatives, and agile strategic planning to maintain " +
			"competitive advantage.",
	},
	{
		keywords: []string{"productivity", "teamwork", "collaboration"},
		answer: "Team productivity improves with clear goal setting, focused meeting practices, " +
			"asynchronous communication norms, and regular retrospectives. Collaboration tools " +
			"help, but the larger gains come from well-defined ownership, psychological safety, " +
			"and removing cross-team dependencies.",
	},
	{
		keywords: []string{"digital transformation", "digitalization"},
		answer: "Successful digital transformation starts with clear business outcomes rather " +
			"than technology choices: modernize customer-facing journeys first, invest in data " +
			"foundations, automate repetitive processes, and build internal capability through " +
			"training. Treat it as continuous change management, not a one-off project.",
	},
	{
		keywords: []string{"professional development", "career development"},
		answer: "Effective professional development combines structured learning, stretch " +
			"assignments, mentorship, and regular feedback. Set specific skill goals each quarter, " +
			"practice deliberately, and seek roles that broaden exposure across functions.",
	},
	{
		keywords: []string{"challenges", "problems", "issues"},
		answer: "The primary challenges facing modern organizations include talent retention in " +
			"competitive markets, rapid technological adaptation, supply chain disruptions, " +
			"regulatory complexity, and maintaining profitability amid economic uncertainty. " +
			"Proactive workforce planning, diversified suppliers, and agile strategy reviews are " +
			"the usual countermeasures.",
	},
}

const genericFallback = "I'm sorry, but the language model provider is currently unavailable, " +
	"so I can't generate a full answer right now. Please try again in a little while."

// FallbackAnswer picks a canned response for the question, or the generic
// apology when nothing matches. The fallback ignores persona.
func FallbackAnswer(question string) string {
	q := strings.ToLower(question)
	for _, cr := range cannedResponses {
		for _, kw := range cr.keywords {
			if strings.Contains(q, kw) {
				return cr.answer
			}
		}
	}
	return genericFallback
}

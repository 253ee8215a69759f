package persona

import (
	"fmt"
	"strings"

	"personachat/internal/models"
)

// BuildPrompt composes the system prompt for one turn: the persona's
// instruction prefix, the grounding snippet when one was retrieved, and the
// fallback instruction when none was. Deterministic for identical inputs.
func BuildPrompt(p models.Persona, question string, snippet *models.Snippet) (string, error) {
	def, err := Get(p)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(def.Instruction)
	b.WriteString("\n\n")

	if snippet != nil && strings.TrimSpace(snippet.Content) != "" {
		fmt.Fprintf(&b, "Reference context (retrieved from %s):\n", snippet.SourceName)
		b.WriteString("\"\"\"\n")
		b.WriteString(strings.TrimSpace(snippet.Content))
		b.WriteString("\n\"\"\"\n\n")
		b.WriteString("Answer the user's question using the reference context above whenever it is " +
			"relevant. If the context does not contain the answer, say so plainly before falling " +
			"back to general knowledge.")
	} else {
		fmt.Fprintf(&b, "No reference context is available for this question. Answer from general "+
			"knowledge while keeping the %s tone described above.", def.Persona)
	}

	b.WriteString("\n\nUser question:\n")
	b.WriteString(strings.TrimSpace(question))

	return b.String(), nil
}

package prompt

import (
	"strings"

	"docqa-be/pkg/rag/retrieval"
)

// ContextBuilder builds the grounded question-answering prompt from the
// retrieved candidates. Prompt size is bounded by the same chunk count and
// length limits as ingestion, so it never grows unboundedly.
type ContextBuilder struct {
	query      string
	candidates []retrieval.Candidate
}

func NewContextBuilder(query string, candidates []retrieval.Candidate) *ContextBuilder {
	return &ContextBuilder{
		query:      query,
		candidates: candidates,
	}
}

// Build assembles the full prompt: reference passages in retrieval order,
// the task, and the user question.
func (b *ContextBuilder) Build() string {
	var prompt strings.Builder

	b.writeContext(&prompt)
	b.writeTask(&prompt)
	b.writeUserQuery(&prompt)

	return prompt.String()
}

func (b *ContextBuilder) writeContext(prompt *strings.Builder) {
	prompt.WriteString("<context>\n")
	for i, c := range b.candidates {
		if i > 0 {
			prompt.WriteString("\n\n")
		}
		prompt.WriteString(c.Text)
	}
	prompt.WriteString("\n</context>\n\n")
}

func (b *ContextBuilder) writeTask(prompt *strings.Builder) {
	prompt.WriteString("<task>\n")
	prompt.WriteString("You are a helpful assistant. Answer the following question based *only* on the provided context.\n")
	prompt.WriteString("If the answer is not available in the context, say 'I don't know'.\n")
	prompt.WriteString("</task>\n\n")
}

func (b *ContextBuilder) writeUserQuery(prompt *strings.Builder) {
	prompt.WriteString("<question>\n")
	prompt.WriteString(b.query)
	prompt.WriteString("\n</question>\n\n")
	prompt.WriteString("Answer:")
}

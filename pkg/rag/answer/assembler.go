package answer

import (
	"context"
	"fmt"

	"docqa-be/pkg/llm"
	"docqa-be/pkg/rag/prompt"
	"docqa-be/pkg/rag/retrieval"
)

// NoContextAnswer is returned without calling the model when no retrieved
// chunk clears the relevance threshold.
const NoContextAnswer = "No relevant information found in the documents to answer this question."

// EventType enumerates streaming event kinds in their mandatory order:
// one sources event, any number of token events, optionally one error
// event, and exactly one terminal end event.
type EventType string

const (
	EventSources EventType = "sources"
	EventToken   EventType = "token"
	EventError   EventType = "error"
	EventEnd     EventType = "end"
)

// Event is one frame of a streaming answer.
type Event struct {
	Type EventType
	Data interface{}
}

// Result is a complete non-streaming answer.
type Result struct {
	Answer  string
	Sources []retrieval.Candidate
}

// Assembler turns ranked candidates into an answer via the generation
// collaborator, either synchronously or as an ordered event stream.
type Assembler struct {
	provider llm.LLMProvider
	minScore float64
}

func NewAssembler(provider llm.LLMProvider, minScore float64) *Assembler {
	return &Assembler{
		provider: provider,
		minScore: minScore,
	}
}

// Answer runs one synchronous generation call over the relevant candidates.
func (a *Assembler) Answer(ctx context.Context, query string, candidates []retrieval.Candidate) (*Result, error) {
	relevant := a.relevant(candidates)
	if len(relevant) == 0 {
		return &Result{Answer: NoContextAnswer, Sources: relevant}, nil
	}

	text, err := a.provider.Generate(ctx, prompt.NewContextBuilder(query, relevant).Build())
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}
	return &Result{Answer: text, Sources: relevant}, nil
}

// AnswerStream streams the answer as events. The contract is strict: one
// sources event first, then tokens as the collaborator yields them, then a
// terminal end event. The end event is emitted unconditionally, even when
// generation fails mid-stream (the failure surfaces as an in-band error
// event before end). The channel closes after end; cancelling ctx stops the
// token loop.
//
// Candidates are captured before the stream starts; the owning session may
// expire mid-stream without affecting the in-flight response.
func (a *Assembler) AnswerStream(ctx context.Context, query string, candidates []retrieval.Candidate) <-chan Event {
	events := make(chan Event)
	relevant := a.relevant(candidates)

	go func() {
		defer close(events)
		defer func() {
			events <- Event{Type: EventEnd}
		}()

		events <- Event{Type: EventSources, Data: relevant}

		if len(relevant) == 0 {
			events <- Event{Type: EventToken, Data: NoContextAnswer}
			return
		}

		tokens, err := a.provider.GenerateStream(ctx, prompt.NewContextBuilder(query, relevant).Build())
		if err != nil {
			events <- Event{Type: EventError, Data: fmt.Sprintf("generation failed: %v", err)}
			return
		}

		for token := range tokens {
			if token.Err != nil {
				events <- Event{Type: EventError, Data: fmt.Sprintf("generation failed: %v", token.Err)}
				return
			}
			select {
			case events <- Event{Type: EventToken, Data: token.Content}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return events
}

func (a *Assembler) relevant(candidates []retrieval.Candidate) []retrieval.Candidate {
	relevant := make([]retrieval.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Score >= a.minScore {
			relevant = append(relevant, c)
		}
	}
	return relevant
}

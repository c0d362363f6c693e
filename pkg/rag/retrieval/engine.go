package retrieval

import (
	"errors"
	"sort"

	"docqa-be/pkg/store"
)

// ErrNoDocuments is returned when a query resolves to an empty document set:
// the session holds no documents, or none of the requested ids matched.
var ErrNoDocuments = errors.New("no documents to search")

// Candidate is one retrieved chunk with its provenance and score.
type Candidate struct {
	DocID      string  `json:"doc_id"`
	Source     string  `json:"source"`
	ChunkIndex int     `json:"chunk_index"`
	Text       string  `json:"text"`
	Score      float64 `json:"score"`
}

// Engine merges per-document similarity scores into one globally ranked
// candidate list.
type Engine struct {
	topK int
}

func NewEngine(topK int) *Engine {
	if topK <= 0 {
		topK = 5
	}
	return &Engine{topK: topK}
}

// Retrieve scores the query vector against the selected documents of a
// session and returns the global top-K candidates.
//
// docIDs narrows the search to a subset; ids unknown to the session are
// silently ignored, matching the documented "searches all docs if omitted"
// default. An empty or nil docIDs searches every document.
//
// Ranking is by score descending; ties break on document insertion order,
// then chunk index, so results are deterministic. K bounds the whole result,
// not each document: one highly relevant document may supply all K results.
func (e *Engine) Retrieve(session *store.Session, query []float32, docIDs []string) ([]Candidate, error) {
	docs := e.resolve(session, docIDs)
	if len(docs) == 0 {
		return nil, ErrNoDocuments
	}

	type ranked struct {
		Candidate
		seq int
	}

	var merged []ranked
	for _, doc := range docs {
		for _, scored := range doc.Score(query) {
			merged = append(merged, ranked{
				Candidate: Candidate{
					DocID:      doc.ID,
					Source:     doc.Source,
					ChunkIndex: scored.Chunk.Index,
					Text:       scored.Chunk.Text,
					Score:      scored.Score,
				},
				seq: doc.Seq,
			})
		}
	}

	sort.Slice(merged, func(i, j int) bool {
		if merged[i].Score != merged[j].Score {
			return merged[i].Score > merged[j].Score
		}
		if merged[i].seq != merged[j].seq {
			return merged[i].seq < merged[j].seq
		}
		return merged[i].ChunkIndex < merged[j].ChunkIndex
	})

	k := e.topK
	if k > len(merged) {
		k = len(merged)
	}

	candidates := make([]Candidate, k)
	for i := 0; i < k; i++ {
		candidates[i] = merged[i].Candidate
	}
	return candidates, nil
}

// resolve intersects the requested ids with the session's documents,
// preserving insertion order. Empty request means all documents.
func (e *Engine) resolve(session *store.Session, docIDs []string) []*store.Document {
	all := session.Documents()
	if len(docIDs) == 0 {
		return all
	}

	requested := make(map[string]struct{}, len(docIDs))
	for _, id := range docIDs {
		requested[id] = struct{}{}
	}

	var docs []*store.Document
	for _, doc := range all {
		if _, ok := requested[doc.ID]; ok {
			docs = append(docs, doc)
		}
	}
	return docs
}

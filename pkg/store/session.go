package store

import (
	"sort"
	"sync"
	"time"

	"docqa-be/pkg/vector"
)

// Chunk is a bounded text segment of a document together with its embedding.
// Immutable once created; owned exclusively by its Document.
type Chunk struct {
	Index  int       `json:"index"`
	Text   string    `json:"text"`
	Vector []float32 `json:"-"`
}

// ScoredChunk pairs a chunk with its similarity against a query vector.
type ScoredChunk struct {
	Chunk Chunk
	Score float64
}

// Document is one ingested source reduced to ordered chunks. Documents are
// never mutated after creation; re-ingesting a source produces a new one.
type Document struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Chunks    []Chunk   `json:"chunks"`
	Seq       int       `json:"-"` // session insertion order, used for ranking tie-breaks
	CreatedAt time.Time `json:"created_at"`
}

// Score computes the cosine similarity of every chunk against the query
// vector. It never truncates: the retrieval engine ranks across documents,
// so dropping chunks here could lose globally-best candidates.
func (d *Document) Score(query []float32) []ScoredChunk {
	scored := make([]ScoredChunk, 0, len(d.Chunks))
	for _, chunk := range d.Chunks {
		scored = append(scored, ScoredChunk{
			Chunk: chunk,
			Score: vector.CosineSimilarity(query, chunk.Vector),
		})
	}
	return scored
}

// Session is an isolated, time-bounded container of documents belonging to
// one client interaction. All mutation of the document map and the
// last-access timestamp goes through the session mutex so a touch and a
// concurrent sweep never race.
type Session struct {
	ID        string
	CreatedAt time.Time
	TTL       time.Duration

	mu           sync.Mutex
	lastAccessed time.Time
	documents    map[string]*Document
	nextSeq      int
}

func newSession(id string, ttl time.Duration, now time.Time) *Session {
	return &Session{
		ID:           id,
		CreatedAt:    now,
		TTL:          ttl,
		lastAccessed: now,
		documents:    make(map[string]*Document),
	}
}

// Touch refreshes the last-access timestamp.
func (s *Session) Touch(now time.Time) {
	s.mu.Lock()
	s.lastAccessed = now
	s.mu.Unlock()
}

// LastAccessed returns the last-access timestamp.
func (s *Session) LastAccessed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAccessed
}

// Remaining returns how much of the TTL window is left as of now. Negative
// values mean the session is already past its idle deadline.
func (s *Session) Remaining(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.TTL - now.Sub(s.lastAccessed)
}

// AddDocument inserts a fully built document atomically and assigns its
// insertion sequence. maxDocs <= 0 means unbounded.
func (s *Session) AddDocument(doc *Document, maxDocs int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if maxDocs > 0 && len(s.documents) >= maxDocs {
		return false
	}
	doc.Seq = s.nextSeq
	s.nextSeq++
	s.documents[doc.ID] = doc
	return true
}

// RemoveDocument removes a document atomically. Returns false if the id is
// unknown.
func (s *Session) RemoveDocument(docID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[docID]; !ok {
		return false
	}
	delete(s.documents, docID)
	return true
}

// Document returns one document by id.
func (s *Session) Document(docID string) (*Document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.documents[docID]
	return doc, ok
}

// Documents returns a snapshot of all documents in insertion order. Queries
// operate on the snapshot, so a concurrent add or remove never exposes a
// half-applied state.
func (s *Session) Documents() []*Document {
	s.mu.Lock()
	docs := make([]*Document, 0, len(s.documents))
	for _, doc := range s.documents {
		docs = append(docs, doc)
	}
	s.mu.Unlock()

	sort.Slice(docs, func(i, j int) bool { return docs[i].Seq < docs[j].Seq })
	return docs
}

// DocumentCount returns the number of documents in the session.
func (s *Session) DocumentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.documents)
}

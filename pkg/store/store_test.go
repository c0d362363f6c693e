package store

import (
	"math"
	"testing"
	"time"
)

func newTestStore(ttl time.Duration, maxDocs int) *SessionStore {
	// Long sweep interval: lazy expiry must work without the janitor.
	return NewSessionStore(ttl, time.Hour, maxDocs)
}

func testDocument(id, source string) *Document {
	return &Document{
		ID:     id,
		Source: source,
		Chunks: []Chunk{
			{Index: 0, Text: "first chunk", Vector: []float32{1, 0}},
			{Index: 1, Text: "second chunk", Vector: []float32{0, 1}},
		},
		CreatedAt: time.Now(),
	}
}

func TestCreateAndGet(t *testing.T) {
	s := newTestStore(time.Minute, 0)

	session := s.Create()
	if session.ID == "" {
		t.Fatal("expected a generated session id")
	}

	got, found := s.Get(session.ID)
	if !found || got.ID != session.ID {
		t.Fatalf("Get(%s) = %v, %v; want the created session", session.ID, got, found)
	}

	if _, found := s.Get("missing"); found {
		t.Fatal("Get on an unknown id should fail")
	}
}

func TestLazyExpiryWithoutSweep(t *testing.T) {
	s := newTestStore(30*time.Millisecond, 0)
	session := s.Create()

	time.Sleep(60 * time.Millisecond)

	if _, found := s.Get(session.ID); found {
		t.Fatal("expired session must be absent even before the sweep runs")
	}
	if s.Touch(session.ID) {
		t.Fatal("Touch on an expired session must fail")
	}
	if _, found := s.Refresh(session.ID); found {
		t.Fatal("Refresh must never resurrect an expired session")
	}
}

func TestTouchReArmsTTL(t *testing.T) {
	s := newTestStore(80*time.Millisecond, 0)
	session := s.Create()

	for i := 0; i < 4; i++ {
		time.Sleep(40 * time.Millisecond)
		if !s.Touch(session.ID) {
			t.Fatalf("session expired despite being touched (iteration %d)", i)
		}
	}
}

func TestRefreshReturnsFullWindow(t *testing.T) {
	ttl := time.Minute
	s := newTestStore(ttl, 0)
	session := s.Create()

	time.Sleep(10 * time.Millisecond)

	remaining, found := s.Refresh(session.ID)
	if !found {
		t.Fatal("Refresh on a live session failed")
	}
	if remaining > s.TTL() || remaining < s.TTL()-time.Second {
		t.Fatalf("Refresh remaining = %v, want ~%v", remaining, s.TTL())
	}
}

func TestAddRemoveDocument(t *testing.T) {
	s := newTestStore(time.Minute, 2)
	session := s.Create()

	if found, added := s.AddDocument(session.ID, testDocument("a", "a.txt")); !found || !added {
		t.Fatal("adding a first document failed")
	}
	if found, added := s.AddDocument(session.ID, testDocument("b", "b.txt")); !found || !added {
		t.Fatal("adding a second document failed")
	}
	if _, added := s.AddDocument(session.ID, testDocument("c", "c.txt")); added {
		t.Fatal("document limit was not enforced")
	}

	if doc, ok := session.Document("a"); !ok || doc.Source != "a.txt" {
		t.Fatal("looking up a known document failed")
	}

	if found, removed := s.RemoveDocument(session.ID, "a"); !found || !removed {
		t.Fatal("removing a known document failed")
	}
	if _, ok := session.Document("a"); ok {
		t.Fatal("removed document must not be resolvable")
	}
	if _, removed := s.RemoveDocument(session.ID, "a"); removed {
		t.Fatal("removing an unknown document must report false")
	}
	if found, _ := s.RemoveDocument("missing", "a"); found {
		t.Fatal("removing from an unknown session must report not found")
	}
	if n := session.DocumentCount(); n != 1 {
		t.Fatalf("document count = %d, want 1", n)
	}
}

func TestDocumentsInsertionOrder(t *testing.T) {
	s := newTestStore(time.Minute, 0)
	session := s.Create()

	for _, id := range []string{"x", "y", "z"} {
		s.AddDocument(session.ID, testDocument(id, id+".txt"))
	}
	session.RemoveDocument("y")
	s.AddDocument(session.ID, testDocument("w", "w.txt"))

	docs := session.Documents()
	want := []string{"x", "z", "w"}
	if len(docs) != len(want) {
		t.Fatalf("documents = %d, want %d", len(docs), len(want))
	}
	for i, id := range want {
		if docs[i].ID != id {
			t.Fatalf("documents[%d] = %s, want %s (insertion order)", i, docs[i].ID, id)
		}
	}
}

func TestSweepRecordsTombstone(t *testing.T) {
	s := NewSessionStore(20*time.Millisecond, time.Hour, 0)

	var expired []string
	s.SetOnExpired(func(id string) { expired = append(expired, id) })

	session := s.Create()
	time.Sleep(40 * time.Millisecond)
	s.EvictExpired()

	if !s.Expired(session.ID) {
		t.Fatal("swept session should leave a tombstone")
	}
	if s.Expired("never-existed") {
		t.Fatal("unknown id must not look expired")
	}
	if len(expired) != 1 || expired[0] != session.ID {
		t.Fatalf("expiry callback got %v, want [%s]", expired, session.ID)
	}
	if s.Count() != 0 {
		t.Fatalf("Count() = %d after sweep, want 0", s.Count())
	}
}

func TestDocumentScoreSelfSimilarity(t *testing.T) {
	doc := testDocument("a", "a.txt")

	scored := doc.Score([]float32{1, 0})
	if len(scored) != 2 {
		t.Fatalf("Score returned %d chunks, want all 2", len(scored))
	}
	if math.Abs(scored[0].Score-1.0) > 1e-9 {
		t.Fatalf("chunk scored against its own embedding = %v, want 1.0", scored[0].Score)
	}
	if scored[1].Score != 0 {
		t.Fatalf("orthogonal chunk score = %v, want 0", scored[1].Score)
	}
}

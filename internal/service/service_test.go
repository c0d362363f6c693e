package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docqa-be/internal/config"
	"docqa-be/internal/dto"
	"docqa-be/internal/pkg/apperr"
	"docqa-be/pkg/embedding"
	"docqa-be/pkg/events"
	"docqa-be/pkg/extractor"
	"docqa-be/pkg/llm"
	"docqa-be/pkg/rag/answer"
	"docqa-be/pkg/rag/retrieval"
	"docqa-be/pkg/store"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

// wordProvider embeds each text onto a fixed axis so tests can steer
// similarity: texts containing "alpha" land on one axis, the rest on another.
type wordProvider struct {
	calls int
}

func (p *wordProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	p.calls++
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		if strings.Contains(text, "alpha") {
			vectors[i] = []float32{1, 0, 0}
		} else {
			vectors[i] = []float32{0, 1, 0}
		}
	}
	return vectors, nil
}

type echoLLM struct{}

func (echoLLM) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	return "chat", nil
}

func (echoLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return "generated answer", nil
}

func (echoLLM) GenerateStream(ctx context.Context, prompt string, opts ...llm.Option) (<-chan llm.Token, error) {
	tokens := make(chan llm.Token, 2)
	tokens <- llm.Token{Content: "generated "}
	tokens <- llm.Token{Content: "answer"}
	close(tokens)
	return tokens, nil
}

type fixture struct {
	store   *store.SessionStore
	ingest  IIngestService
	query   IQueryService
	session ISessionService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	sessionStore := store.NewSessionStore(time.Minute, time.Hour, 20)
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	t.Cleanup(func() { pubSub.Close() })

	publisher := events.NewPublisher(pubSub)
	gateway := embedding.NewGateway(&wordProvider{}, 0)
	fetcher := extractor.NewFetcher(time.Second, 1<<20)
	log := nopLogger{}

	cfg := config.IngestionConfig{MaxChunkChars: 500, MaxChunksPerDoc: 30}
	engine := retrieval.NewEngine(5)
	assembler := answer.NewAssembler(echoLLM{}, 0.5)

	return &fixture{
		store:   sessionStore,
		ingest:  NewIngestService(sessionStore, gateway, fetcher, publisher, log, cfg),
		query:   NewQueryService(sessionStore, gateway, engine, assembler, log),
		session: NewSessionService(sessionStore, publisher, log),
	}
}

func TestIngestFileCreatesDocument(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.session.Create(ctx)
	require.NoError(t, err)

	resp, err := f.ingest.IngestFile(ctx, created.SessionID, "notes.txt", []byte("alpha facts. beta facts."))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.DocID)
	assert.Equal(t, "notes.txt", resp.Source)
	assert.Equal(t, 1, resp.ChunksIngested)

	status := f.session.Status(ctx, created.SessionID)
	assert.True(t, status.Active)
	assert.Equal(t, 1, status.DocumentCount)
}

func TestIngestUnknownSession(t *testing.T) {
	f := newFixture(t)

	_, err := f.ingest.IngestFile(context.Background(), "missing", "notes.txt", []byte("text."))
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeSessionNotFound))
}

func TestIngestEmptyContentCreatesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.session.Create(ctx)
	require.NoError(t, err)

	_, err = f.ingest.IngestFile(ctx, created.SessionID, "empty.txt", []byte("   \n  "))
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeExtractionFailure))

	status := f.session.Status(ctx, created.SessionID)
	assert.Equal(t, 0, status.DocumentCount)
}

func TestQueryFiltersByDocID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.session.Create(ctx)
	require.NoError(t, err)

	docA, err := f.ingest.IngestFile(ctx, created.SessionID, "a.txt", []byte("alpha topic one."))
	require.NoError(t, err)
	_, err = f.ingest.IngestFile(ctx, created.SessionID, "b.txt", []byte("beta topic two."))
	require.NoError(t, err)

	resp, err := f.query.Query(ctx, created.SessionID, &dto.QueryRequest{
		Q:      "tell me about alpha",
		DocIDs: dto.DocIDList{docA.DocID},
	})
	require.NoError(t, err)

	require.NotEmpty(t, resp.Sources)
	for _, source := range resp.Sources {
		assert.Equal(t, docA.DocID, source.DocID)
	}
	assert.Equal(t, "generated answer", resp.Answer)
}

func TestQueryRanksRelevantDocumentFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.session.Create(ctx)
	require.NoError(t, err)

	_, err = f.ingest.IngestFile(ctx, created.SessionID, "b.txt", []byte("beta topic."))
	require.NoError(t, err)
	docA, err := f.ingest.IngestFile(ctx, created.SessionID, "a.txt", []byte("alpha topic."))
	require.NoError(t, err)

	resp, err := f.query.Query(ctx, created.SessionID, &dto.QueryRequest{Q: "alpha question"})
	require.NoError(t, err)

	require.NotEmpty(t, resp.Sources)
	assert.Equal(t, docA.DocID, resp.Sources[0].DocID)
}

func TestQueryEmptySession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.session.Create(ctx)
	require.NoError(t, err)

	_, err = f.query.Query(ctx, created.SessionID, &dto.QueryRequest{Q: "anything"})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeNoDocuments))
}

func TestQueryStreamEventOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.session.Create(ctx)
	require.NoError(t, err)
	_, err = f.ingest.IngestFile(ctx, created.SessionID, "a.txt", []byte("alpha topic."))
	require.NoError(t, err)

	events, err := f.query.QueryStream(ctx, created.SessionID, &dto.QueryRequest{Q: "alpha question"})
	require.NoError(t, err)

	var collected []answer.Event
	for evt := range events {
		collected = append(collected, evt)
	}

	require.GreaterOrEqual(t, len(collected), 3)
	assert.Equal(t, answer.EventSources, collected[0].Type)
	assert.Equal(t, answer.EventEnd, collected[len(collected)-1].Type)
	for _, evt := range collected[1 : len(collected)-1] {
		assert.Equal(t, answer.EventToken, evt.Type)
	}
}

func TestRemoveDocumentThenQuery(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.session.Create(ctx)
	require.NoError(t, err)
	doc, err := f.ingest.IngestFile(ctx, created.SessionID, "a.txt", []byte("alpha topic."))
	require.NoError(t, err)

	require.NoError(t, f.session.RemoveDocument(ctx, created.SessionID, doc.DocID))

	err = f.session.RemoveDocument(ctx, created.SessionID, doc.DocID)
	assert.True(t, apperr.Is(err, apperr.CodeDocumentNotFound))

	_, err = f.query.Query(ctx, created.SessionID, &dto.QueryRequest{Q: "alpha?"})
	assert.True(t, apperr.Is(err, apperr.CodeNoDocuments))
}

func TestSessionHealthStates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.session.Create(ctx)
	require.NoError(t, err)

	assert.NoError(t, f.session.SessionHealth(ctx, created.SessionID))

	err = f.session.SessionHealth(ctx, "never-existed")
	assert.True(t, apperr.Is(err, apperr.CodeSessionNotFound))
}

func TestRefreshUnknownSession(t *testing.T) {
	f := newFixture(t)

	_, err := f.session.Refresh(context.Background(), "missing")
	assert.True(t, apperr.Is(err, apperr.CodeSessionNotFound))
}

package service

import (
	"context"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"docqa-be/internal/config"
	"docqa-be/internal/dto"
	"docqa-be/internal/pkg/apperr"
	"docqa-be/internal/pkg/logger"
	"docqa-be/pkg/embedding"
	"docqa-be/pkg/events"
	"docqa-be/pkg/extractor"
	"docqa-be/pkg/store"
	"docqa-be/pkg/utils"
)

// IIngestService turns uploaded files and fetched URLs into embedded,
// queryable documents inside a session.
type IIngestService interface {
	IngestFile(ctx context.Context, sessionID, filename string, raw []byte) (*dto.IngestResponse, error)
	IngestURL(ctx context.Context, sessionID string, req *dto.IngestURLRequest) (*dto.IngestResponse, error)
}

type ingestService struct {
	store     *store.SessionStore
	gateway   *embedding.Gateway
	fetcher   *extractor.Fetcher
	publisher *events.Publisher
	logger    logger.ILogger
	cfg       config.IngestionConfig
}

func NewIngestService(
	sessionStore *store.SessionStore,
	gateway *embedding.Gateway,
	fetcher *extractor.Fetcher,
	publisher *events.Publisher,
	log logger.ILogger,
	cfg config.IngestionConfig,
) IIngestService {
	return &ingestService{
		store:     sessionStore,
		gateway:   gateway,
		fetcher:   fetcher,
		publisher: publisher,
		logger:    log,
		cfg:       cfg,
	}
}

func (s *ingestService) IngestFile(ctx context.Context, sessionID, filename string, raw []byte) (*dto.IngestResponse, error) {
	if _, found := s.store.Get(sessionID); !found {
		return nil, apperr.SessionNotFound(sessionID)
	}

	ext := strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
	text, err := extractor.Extract(raw, ext)
	if err != nil {
		return nil, apperr.ExtractionFailure("could not extract text from '%s': %v", filename, err)
	}

	return s.ingest(ctx, sessionID, filename, text)
}

func (s *ingestService) IngestURL(ctx context.Context, sessionID string, req *dto.IngestURLRequest) (*dto.IngestResponse, error) {
	if _, found := s.store.Get(sessionID); !found {
		return nil, apperr.SessionNotFound(sessionID)
	}

	raw, err := s.fetcher.Fetch(ctx, req.URL)
	if err != nil {
		return nil, apperr.ExtractionFailure("could not fetch '%s': %v", req.URL, err)
	}

	text, err := extractor.Extract(raw, urlExtension(req.URL))
	if err != nil {
		return nil, apperr.ExtractionFailure("could not extract text from '%s': %v", req.URL, err)
	}

	return s.ingest(ctx, sessionID, req.URL, text)
}

// ingest runs the shared chunk/embed/store tail of both ingestion paths.
// The session was already touched by the earlier Get; AddDocument re-checks
// it so a session expiring mid-ingest never gains a document.
func (s *ingestService) ingest(ctx context.Context, sessionID, source, text string) (*dto.IngestResponse, error) {
	chunks := utils.SplitText(text, s.cfg.MaxChunkChars, s.cfg.MaxChunksPerDoc)
	if len(chunks) == 0 {
		return nil, apperr.ExtractionFailure("no extractable text in '%s'", source)
	}

	vectors, err := s.gateway.Embed(ctx, chunks)
	if err != nil {
		s.logger.Error("Ingest", "Embedding failed", map[string]interface{}{
			"session_id": sessionID,
			"source":     source,
			"error":      err.Error(),
		})
		return nil, apperr.EmbeddingUnavailable(err)
	}

	doc := &store.Document{
		ID:        uuid.NewString(),
		Source:    source,
		Chunks:    make([]store.Chunk, len(chunks)),
		CreatedAt: time.Now(),
	}
	for i, chunk := range chunks {
		doc.Chunks[i] = store.Chunk{
			Index:  i,
			Text:   chunk,
			Vector: vectors[i],
		}
	}

	found, added := s.store.AddDocument(sessionID, doc)
	if !found {
		return nil, apperr.SessionNotFound(sessionID)
	}
	if !added {
		return nil, apperr.Validation("session '%s' has reached its document limit", sessionID)
	}

	s.logger.Info("Ingest", "Document ingested", map[string]interface{}{
		"session_id": sessionID,
		"doc_id":     doc.ID,
		"source":     source,
		"chunks":     len(chunks),
	})
	if err := s.publisher.Publish(events.DocumentIngested(sessionID, doc.ID, source, len(chunks))); err != nil {
		s.logger.Warn("Ingest", "Failed to publish event", map[string]interface{}{"error": err.Error()})
	}

	return &dto.IngestResponse{
		DocID:          doc.ID,
		Source:         source,
		ChunksIngested: len(chunks),
	}, nil
}

// urlExtension guesses the extractor hint for a fetched URL. Anything
// without a recognized file extension is treated as HTML.
func urlExtension(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "html"
	}
	switch ext := strings.ToLower(strings.TrimPrefix(path.Ext(parsed.Path), ".")); ext {
	case "pdf", "txt", "md":
		return ext
	default:
		return "html"
	}
}

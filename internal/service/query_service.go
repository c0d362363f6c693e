package service

import (
	"context"
	"errors"

	"docqa-be/internal/dto"
	"docqa-be/internal/pkg/apperr"
	"docqa-be/internal/pkg/logger"
	"docqa-be/pkg/embedding"
	"docqa-be/pkg/rag/answer"
	"docqa-be/pkg/rag/retrieval"
	"docqa-be/pkg/store"
)

// IQueryService answers questions against a session's documents, either as
// one response or as an ordered event stream.
type IQueryService interface {
	Query(ctx context.Context, sessionID string, req *dto.QueryRequest) (*dto.QueryResponse, error)
	QueryStream(ctx context.Context, sessionID string, req *dto.QueryRequest) (<-chan answer.Event, error)
}

type queryService struct {
	store     *store.SessionStore
	gateway   *embedding.Gateway
	engine    *retrieval.Engine
	assembler *answer.Assembler
	logger    logger.ILogger
}

func NewQueryService(
	sessionStore *store.SessionStore,
	gateway *embedding.Gateway,
	engine *retrieval.Engine,
	assembler *answer.Assembler,
	log logger.ILogger,
) IQueryService {
	return &queryService{
		store:     sessionStore,
		gateway:   gateway,
		engine:    engine,
		assembler: assembler,
		logger:    log,
	}
}

func (s *queryService) Query(ctx context.Context, sessionID string, req *dto.QueryRequest) (*dto.QueryResponse, error) {
	candidates, err := s.retrieve(ctx, sessionID, req)
	if err != nil {
		return nil, err
	}

	result, err := s.assembler.Answer(ctx, req.Q, candidates)
	if err != nil {
		s.logger.Error("Query", "Generation failed", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return nil, apperr.GenerationUnavailable(err)
	}

	return &dto.QueryResponse{
		Answer:  result.Answer,
		Sources: toQuerySources(result.Sources),
	}, nil
}

// QueryStream resolves the session and retrieves candidates up front, so
// session errors surface as regular HTTP errors before any stream begins.
// Only generation runs inside the stream.
func (s *queryService) QueryStream(ctx context.Context, sessionID string, req *dto.QueryRequest) (<-chan answer.Event, error) {
	candidates, err := s.retrieve(ctx, sessionID, req)
	if err != nil {
		return nil, err
	}
	return s.assembler.AnswerStream(ctx, req.Q, candidates), nil
}

func (s *queryService) retrieve(ctx context.Context, sessionID string, req *dto.QueryRequest) ([]retrieval.Candidate, error) {
	session, found := s.store.Get(sessionID)
	if !found {
		return nil, apperr.SessionNotFound(sessionID)
	}

	query, err := s.gateway.EmbedOne(ctx, req.Q)
	if err != nil {
		s.logger.Error("Query", "Query embedding failed", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return nil, apperr.EmbeddingUnavailable(err)
	}

	candidates, err := s.engine.Retrieve(session, query, req.DocIDs)
	if err != nil {
		if errors.Is(err, retrieval.ErrNoDocuments) {
			return nil, apperr.NoDocuments()
		}
		return nil, err
	}
	return candidates, nil
}

func toQuerySources(candidates []retrieval.Candidate) []dto.QuerySource {
	sources := make([]dto.QuerySource, len(candidates))
	for i, c := range candidates {
		sources[i] = dto.QuerySource{
			DocID:      c.DocID,
			Source:     c.Source,
			ChunkIndex: c.ChunkIndex,
			Text:       c.Text,
			Score:      c.Score,
		}
	}
	return sources
}

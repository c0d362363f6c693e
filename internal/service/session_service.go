package service

import (
	"context"
	"time"

	"docqa-be/internal/dto"
	"docqa-be/internal/pkg/apperr"
	"docqa-be/internal/pkg/logger"
	"docqa-be/pkg/events"
	"docqa-be/pkg/store"
)

// ISessionService owns the session lifecycle surface: creation, status,
// refresh, document removal and health reporting.
type ISessionService interface {
	Create(ctx context.Context) (*dto.CreateSessionResponse, error)
	Status(ctx context.Context, sessionID string) *dto.StatusResponse
	Refresh(ctx context.Context, sessionID string) (*dto.RefreshResponse, error)
	RemoveDocument(ctx context.Context, sessionID, docID string) error
	SessionHealth(ctx context.Context, sessionID string) error
	ServiceHealth(ctx context.Context) *dto.ServiceHealthResponse
}

type sessionService struct {
	store     *store.SessionStore
	publisher *events.Publisher
	logger    logger.ILogger
}

func NewSessionService(sessionStore *store.SessionStore, publisher *events.Publisher, log logger.ILogger) ISessionService {
	return &sessionService{
		store:     sessionStore,
		publisher: publisher,
		logger:    log,
	}
}

func (s *sessionService) Create(ctx context.Context) (*dto.CreateSessionResponse, error) {
	session := s.store.Create()

	s.logger.Info("Session", "Session created", map[string]interface{}{"session_id": session.ID})
	if err := s.publisher.Publish(events.SessionCreated(session.ID)); err != nil {
		s.logger.Warn("Session", "Failed to publish event", map[string]interface{}{"error": err.Error()})
	}

	return &dto.CreateSessionResponse{SessionID: session.ID}, nil
}

// Status reports without touching the session, so polling does not keep it
// alive. An expired or unknown session is simply inactive.
func (s *sessionService) Status(ctx context.Context, sessionID string) *dto.StatusResponse {
	session, found := s.store.Peek(sessionID)
	if !found {
		return &dto.StatusResponse{Active: false}
	}

	now := time.Now()
	remaining := session.Remaining(now)
	if remaining <= 0 {
		return &dto.StatusResponse{Active: false}
	}

	lastAccessed := session.LastAccessed()
	return &dto.StatusResponse{
		Active:           true,
		RemainingMinutes: remaining.Minutes(),
		LastAccessed:     &lastAccessed,
		DocumentCount:    session.DocumentCount(),
	}
}

func (s *sessionService) Refresh(ctx context.Context, sessionID string) (*dto.RefreshResponse, error) {
	remaining, found := s.store.Refresh(sessionID)
	if !found {
		return nil, apperr.SessionNotFound(sessionID)
	}
	return &dto.RefreshResponse{
		RefreshedAt:      time.Now(),
		RemainingMinutes: remaining.Minutes(),
	}, nil
}

func (s *sessionService) RemoveDocument(ctx context.Context, sessionID, docID string) error {
	found, removed := s.store.RemoveDocument(sessionID, docID)
	if !found {
		return apperr.SessionNotFound(sessionID)
	}
	if !removed {
		return apperr.DocumentNotFound(docID)
	}

	s.logger.Info("Session", "Document removed", map[string]interface{}{
		"session_id": sessionID,
		"doc_id":     docID,
	})
	if err := s.publisher.Publish(events.DocumentRemoved(sessionID, docID)); err != nil {
		s.logger.Warn("Session", "Failed to publish event", map[string]interface{}{"error": err.Error()})
	}
	return nil
}

// SessionHealth returns nil for a live session. A recently swept session
// reports expired rather than unknown for diagnostic clarity.
func (s *sessionService) SessionHealth(ctx context.Context, sessionID string) error {
	if session, found := s.store.Peek(sessionID); found {
		if session.Remaining(time.Now()) > 0 {
			return nil
		}
		return apperr.SessionExpired(sessionID)
	}
	if s.store.Expired(sessionID) {
		return apperr.SessionExpired(sessionID)
	}
	return apperr.SessionNotFound(sessionID)
}

func (s *sessionService) ServiceHealth(ctx context.Context) *dto.ServiceHealthResponse {
	return &dto.ServiceHealthResponse{
		Status:         "ok",
		ActiveSessions: s.store.Count(),
	}
}

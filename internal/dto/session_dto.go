package dto

import "time"

type CreateSessionResponse struct {
	SessionID string `json:"session_id"`
}

type StatusResponse struct {
	Active           bool       `json:"active"`
	RemainingMinutes float64    `json:"remaining_minutes,omitempty"`
	LastAccessed     *time.Time `json:"last_accessed,omitempty"`
	DocumentCount    int        `json:"document_count,omitempty"`
}

type RefreshResponse struct {
	RefreshedAt      time.Time `json:"refreshed_at"`
	RemainingMinutes float64   `json:"remaining_minutes"`
}

type ServiceHealthResponse struct {
	Status         string `json:"status"`
	ActiveSessions int    `json:"active_sessions"`
}

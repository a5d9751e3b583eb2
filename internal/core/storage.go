package core

import (
	"context"
	"errors"
	"time"
)

var ErrSessionNotFound = errors.New("session not found")

// Snapshot is the read model of a conversation at a point in time: the
// materialized message sequence, the directive held outside the turns, and
// the trimming configuration that produced it.
type Snapshot struct {
	Messages        []Message `json:"messages"`
	SystemDirective string    `json:"system_directive,omitempty"`
	TurnCount       int       `json:"turn_count"`
	TurnLimit       int       `json:"turn_limit"`
	UpdatedAt       time.Time `json:"updated_at,omitempty"`
}

type ArchiveRepository interface {
	SaveSnapshot(ctx context.Context, sessionID string, snap Snapshot) error
	LoadSnapshot(ctx context.Context, sessionID string) (Snapshot, error)
	Sessions(ctx context.Context) ([]string, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

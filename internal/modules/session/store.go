package session

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("session not found")

// Store keeps sessions for a bounded time. Get returns a copy the caller may modify and Save back.
type Store interface {
	Create(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
}

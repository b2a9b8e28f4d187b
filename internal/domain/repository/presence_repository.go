package repository

import (
	"context"

	"teachersgallery/internal/domain/entity"
)

// PresenceRepository stores self-reported liveness records. Writes are
// last-write-wins; the derivation rules in entity tolerate out-of-order
// writes within one staleness window.
type PresenceRepository interface {
	Set(ctx context.Context, presence *entity.Presence) error

	// GetByParticipantID returns NOT_FOUND for a participant that has never
	// reported in; callers treat that as offline.
	GetByParticipantID(ctx context.Context, participantID string) (*entity.Presence, error)

	// Watch streams the record on every backend change until ctx is
	// cancelled, then closes the channel. A nil element signals a push
	// channel failure; consumers fall back to a safe offline default.
	Watch(ctx context.Context, participantID string) (<-chan *entity.Presence, error)
}

package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOnlineAt(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	t.Run("fresh heartbeat reads online", func(t *testing.T) {
		p := &Presence{
			ParticipantID:   "user-1",
			Online:          true,
			LastSeenAt:      now.Add(-5 * time.Second),
			LastHeartbeatMs: now.Add(-5 * time.Second).UnixMilli(),
		}
		assert.True(t, p.OnlineAt(now))
	})

	t.Run("stale record reads offline even with flag set", func(t *testing.T) {
		p := &Presence{
			ParticipantID:   "user-1",
			Online:          true,
			LastSeenAt:      now.Add(-45 * time.Second),
			LastHeartbeatMs: now.Add(-45 * time.Second).UnixMilli(),
		}
		assert.False(t, p.OnlineAt(now))
	})

	t.Run("flag off reads offline regardless of freshness", func(t *testing.T) {
		p := &Presence{
			ParticipantID:   "user-1",
			Online:          false,
			LastSeenAt:      now,
			LastHeartbeatMs: now.UnixMilli(),
		}
		assert.False(t, p.OnlineAt(now))
	})

	t.Run("newest of the two clocks wins", func(t *testing.T) {
		// Server timestamp lagged behind the writer's own clock.
		p := &Presence{
			ParticipantID:   "user-1",
			Online:          true,
			LastSeenAt:      now.Add(-60 * time.Second),
			LastHeartbeatMs: now.Add(-2 * time.Second).UnixMilli(),
		}
		assert.True(t, p.OnlineAt(now))

		// And the other way around.
		p = &Presence{
			ParticipantID:   "user-1",
			Online:          true,
			LastSeenAt:      now.Add(-2 * time.Second),
			LastHeartbeatMs: now.Add(-60 * time.Second).UnixMilli(),
		}
		assert.True(t, p.OnlineAt(now))
	})

	t.Run("exactly at the threshold reads offline", func(t *testing.T) {
		p := &Presence{
			ParticipantID:   "user-1",
			Online:          true,
			LastSeenAt:      now.Add(-OfflineThreshold),
			LastHeartbeatMs: now.Add(-OfflineThreshold).UnixMilli(),
		}
		assert.False(t, p.OnlineAt(now))
	})

	t.Run("nil record reads offline", func(t *testing.T) {
		var p *Presence
		assert.False(t, p.OnlineAt(now))
	})
}

func TestHeartbeatWindows(t *testing.T) {
	// A single dropped heartbeat must not flip the indicator: the next one
	// lands before the threshold lapses.
	assert.Less(t, 2*HeartbeatInterval, OfflineThreshold)
}

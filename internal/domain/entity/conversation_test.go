package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTypingAt(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	t.Run("recent keystroke reads typing", func(t *testing.T) {
		typing := map[string]time.Time{"user-2": now.Add(-2 * time.Second)}
		assert.True(t, TypingAt(typing, "user-2", now))
	})

	t.Run("stale entry reads not typing", func(t *testing.T) {
		typing := map[string]time.Time{"user-2": now.Add(-8 * time.Second)}
		assert.False(t, TypingAt(typing, "user-2", now))
	})

	t.Run("absent participant reads not typing", func(t *testing.T) {
		typing := map[string]time.Time{"user-2": now}
		assert.False(t, TypingAt(typing, "user-3", now))
	})

	t.Run("zero timestamp reads not typing", func(t *testing.T) {
		typing := map[string]time.Time{"user-2": {}}
		assert.False(t, TypingAt(typing, "user-2", now))
	})

	t.Run("nil map reads not typing", func(t *testing.T) {
		assert.False(t, TypingAt(nil, "user-2", now))
	})
}

func TestTypingWindows(t *testing.T) {
	// The write-side silence timer must fire inside the read-side window, so
	// a cleared flag is observed as cleared and a missed clear decays.
	assert.Less(t, TypingDebounce, TypingWindow)
}

func TestHasParticipant(t *testing.T) {
	c := &Conversation{Participants: []string{"user-1", "user-2"}}

	assert.True(t, c.HasParticipant("user-1"))
	assert.True(t, c.HasParticipant("user-2"))
	assert.False(t, c.HasParticipant("user-3"))
}

package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPresenceUseCase(repo *fakePresenceRepo) *PresenceUseCase {
	// Compressed windows with the production 1:3 shape.
	return NewPresenceUseCase(repo, 20*time.Millisecond, 60*time.Millisecond)
}

func TestIsOnline(t *testing.T) {
	repo := newFakePresenceRepo()
	uc := newTestPresenceUseCase(repo)
	ctx := context.Background()

	t.Run("unknown participant is offline, not an error", func(t *testing.T) {
		online, err := uc.IsOnline(ctx, "nobody")
		require.NoError(t, err)
		assert.False(t, online)
	})

	t.Run("fresh write reads online", func(t *testing.T) {
		uc.SetOnline(ctx, "user-1", true)
		online, err := uc.IsOnline(ctx, "user-1")
		require.NoError(t, err)
		assert.True(t, online)
	})

	t.Run("explicit offline write reads offline", func(t *testing.T) {
		uc.SetOnline(ctx, "user-1", false)
		online, err := uc.IsOnline(ctx, "user-1")
		require.NoError(t, err)
		assert.False(t, online)
	})
}

func TestSetOnlineSwallowsWriteFailure(t *testing.T) {
	repo := newFakePresenceRepo()
	repo.failSet = true
	uc := newTestPresenceUseCase(repo)

	// Must not return or panic; presence writes are advisory.
	uc.SetOnline(context.Background(), "user-1", true)

	online, err := uc.IsOnline(context.Background(), "user-1")
	require.NoError(t, err)
	assert.False(t, online)
}

func TestSubscribe(t *testing.T) {
	repo := newFakePresenceRepo()
	uc := newTestPresenceUseCase(repo)
	ctx := context.Background()

	var mu sync.Mutex
	var states []bool
	sub, err := uc.Subscribe(ctx, "user-1", func(online bool) {
		mu.Lock()
		states = append(states, online)
		mu.Unlock()
	})
	require.NoError(t, err)
	defer sub.Stop()

	latest := func() (bool, bool) {
		mu.Lock()
		defer mu.Unlock()
		if len(states) == 0 {
			return false, false
		}
		return states[len(states)-1], true
	}

	uc.SetOnline(ctx, "user-1", true)
	assert.Eventually(t, func() bool {
		state, ok := latest()
		return ok && state
	}, time.Second, 5*time.Millisecond, "subscriber should observe the online write")

	// No further writes: the staleness window lapses and the subscriber
	// decays to offline without any backend event.
	assert.Eventually(t, func() bool {
		state, ok := latest()
		return ok && !state
	}, time.Second, 5*time.Millisecond, "subscriber should decay to offline")
}

func TestSubscribeDedupesEmissions(t *testing.T) {
	repo := newFakePresenceRepo()
	uc := newTestPresenceUseCase(repo)
	ctx := context.Background()

	var mu sync.Mutex
	var states []bool
	sub, err := uc.Subscribe(ctx, "user-1", func(online bool) {
		mu.Lock()
		states = append(states, online)
		mu.Unlock()
	})
	require.NoError(t, err)
	defer sub.Stop()

	uc.SetOnline(ctx, "user-1", true)
	uc.SetOnline(ctx, "user-1", true)
	uc.SetOnline(ctx, "user-1", true)

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(states) > 0 && states[len(states)-1]
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	for i := 1; i < len(states); i++ {
		assert.NotEqual(t, states[i-1], states[i], "adjacent emissions must differ")
	}
}

func TestSubscribePushFailureDeliversOffline(t *testing.T) {
	repo := newFakePresenceRepo()
	uc := newTestPresenceUseCase(repo)
	ctx := context.Background()

	var mu sync.Mutex
	var states []bool
	sub, err := uc.Subscribe(ctx, "user-1", func(online bool) {
		mu.Lock()
		states = append(states, online)
		mu.Unlock()
	})
	require.NoError(t, err)
	defer sub.Stop()

	uc.SetOnline(ctx, "user-1", true)
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(states) > 0 && states[len(states)-1]
	}, time.Second, 5*time.Millisecond)

	repo.pushFailure("user-1")

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return states[len(states)-1] == false
	}, time.Second, 5*time.Millisecond, "push failure should read as offline")
}

func TestSubscriptionStop(t *testing.T) {
	repo := newFakePresenceRepo()
	uc := newTestPresenceUseCase(repo)

	var mu sync.Mutex
	calls := 0
	sub, err := uc.Subscribe(context.Background(), "user-1", func(online bool) {
		mu.Lock()
		calls++
		mu.Unlock()
	})
	require.NoError(t, err)

	sub.Stop()

	mu.Lock()
	before := calls
	mu.Unlock()

	uc.SetOnline(context.Background(), "user-1", true)
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	after := calls
	mu.Unlock()
	assert.Equal(t, before, after, "no callback may fire after Stop returns")
}

func TestPresenceSession(t *testing.T) {
	repo := newFakePresenceRepo()
	uc := newTestPresenceUseCase(repo)
	ctx := context.Background()

	session := uc.StartSession(ctx, "user-1")

	// Online immediately, before the first tick.
	online, err := uc.IsOnline(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, online)

	// Heartbeats keep arriving.
	initial := repo.countSetCalls()
	assert.Eventually(t, func() bool {
		return repo.countSetCalls() > initial+1
	}, time.Second, 5*time.Millisecond)

	// Suspend writes offline and pauses the ticker.
	session.Suspend(ctx)
	online, err = uc.IsOnline(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, online)

	suspendedAt := repo.countSetCalls()
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, suspendedAt, repo.countSetCalls(), "no heartbeats while suspended")

	// Resume re-asserts online.
	session.Resume(ctx)
	online, err = uc.IsOnline(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, online)

	session.Close()

	// The teardown write is detached and best-effort, but with a healthy
	// backend it lands.
	assert.Eventually(t, func() bool {
		online, err := uc.IsOnline(ctx, "user-1")
		return err == nil && !online
	}, time.Second, 5*time.Millisecond)

	// Close is idempotent.
	session.Close()
}

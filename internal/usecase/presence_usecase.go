package usecase

import (
	"context"
	"log"
	"sync"
	"time"

	"teachersgallery/internal/domain/entity"
	"teachersgallery/internal/domain/repository"
	"teachersgallery/pkg/errors"
	"teachersgallery/pkg/logger"
)

// teardownWriteTimeout bounds the detached offline write fired when a session
// closes. The process may be going away; the write is allowed to be lost.
const teardownWriteTimeout = 2 * time.Second

type PresenceUseCase struct {
	presenceRepo repository.PresenceRepository

	heartbeatInterval time.Duration
	offlineThreshold  time.Duration

	now func() time.Time
}

func NewPresenceUseCase(presenceRepo repository.PresenceRepository, heartbeatInterval, offlineThreshold time.Duration) *PresenceUseCase {
	if heartbeatInterval <= 0 {
		heartbeatInterval = entity.HeartbeatInterval
	}
	if offlineThreshold <= 0 {
		offlineThreshold = entity.OfflineThreshold
	}

	return &PresenceUseCase{
		presenceRepo:      presenceRepo,
		heartbeatInterval: heartbeatInterval,
		offlineThreshold:  offlineThreshold,
		now:               time.Now,
	}
}

// SetOnline records a liveness assertion for the participant. Write failures
// are logged and swallowed: presence is advisory, and the next heartbeat
// supersedes a lost write. The record carries both the writer's own epoch
// clock and a backend-assigned timestamp.
func (uc *PresenceUseCase) SetOnline(ctx context.Context, participantID string, online bool) {
	presence := &entity.Presence{
		ParticipantID:   participantID,
		Online:          online,
		LastHeartbeatMs: uc.now().UnixMilli(),
	}

	if err := uc.presenceRepo.Set(ctx, presence); err != nil {
		logger.LogTransientWrite("presence", participantID, err)
	}
}

// IsOnline is the point-read derivation. A participant with no record has
// never been seen and is offline, not an error.
func (uc *PresenceUseCase) IsOnline(ctx context.Context, participantID string) (bool, error) {
	presence, err := uc.presenceRepo.GetByParticipantID(ctx, participantID)
	if err != nil {
		if errors.Is(err, "NOT_FOUND") {
			return false, nil
		}
		return false, err
	}

	return presence.OnlineAt(uc.now()), nil
}

// PresenceSubscription is an explicit handle over one watched participant.
// Stop releases the backend listener and the expiry timer; no callback fires
// after Stop returns.
type PresenceSubscription struct {
	cancel context.CancelFunc
	done   chan struct{}
}

func (s *PresenceSubscription) Stop() {
	s.cancel()
	<-s.done
}

// Subscribe streams the derived online flag for a participant. The callback
// fires on every backend change and additionally when the staleness window
// lapses without a new write, so a vanished writer decays to offline without
// any further event. Push-channel failures deliver the safe offline default.
func (uc *PresenceUseCase) Subscribe(ctx context.Context, participantID string, fn func(online bool)) (*PresenceSubscription, error) {
	watchCtx, cancel := context.WithCancel(ctx)

	ch, err := uc.presenceRepo.Watch(watchCtx, participantID)
	if err != nil {
		cancel()
		return nil, err
	}

	sub := &PresenceSubscription{
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(sub.done)

		// Re-check at half the threshold so expiry is observed at most half a
		// window late.
		ticker := time.NewTicker(uc.offlineThreshold / 2)
		defer ticker.Stop()

		var last *entity.Presence
		emitted := false
		lastState := false

		emit := func(state bool) {
			if !emitted || state != lastState {
				emitted = true
				lastState = state
				fn(state)
			}
		}

		for {
			select {
			case presence, ok := <-ch:
				if !ok {
					return
				}
				if presence == nil {
					// Push channel failed; report offline rather than leaving
					// the consumer stuck on the last derived value.
					last = nil
					emit(false)
					continue
				}
				last = presence
				emit(last.OnlineAt(uc.now()))

			case <-ticker.C:
				emit(last.OnlineAt(uc.now()))

			case <-watchCtx.Done():
				return
			}
		}
	}()

	return sub, nil
}

// PresenceSession keeps one participant's record fresh with periodic
// heartbeats. Suspend and Resume mirror the participant's client losing and
// regaining focus; no heartbeats are written while suspended.
type PresenceSession struct {
	uc            *PresenceUseCase
	participantID string

	cancel context.CancelFunc
	done   chan struct{}

	mu        sync.Mutex
	suspended bool
	closed    bool
}

// StartSession asserts the participant online immediately and then
// heartbeats at the configured cadence until Close.
func (uc *PresenceUseCase) StartSession(ctx context.Context, participantID string) *PresenceSession {
	sessionCtx, cancel := context.WithCancel(ctx)

	session := &PresenceSession{
		uc:            uc,
		participantID: participantID,
		cancel:        cancel,
		done:          make(chan struct{}),
	}

	uc.SetOnline(sessionCtx, participantID, true)

	go func() {
		defer close(session.done)

		ticker := time.NewTicker(uc.heartbeatInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if !session.isSuspended() {
					uc.SetOnline(sessionCtx, participantID, true)
				}
			case <-sessionCtx.Done():
				return
			}
		}
	}()

	return session
}

func (s *PresenceSession) isSuspended() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.suspended
}

// Suspend pauses heartbeats and asserts offline, e.g. on blur or the page
// becoming hidden.
func (s *PresenceSession) Suspend(ctx context.Context) {
	s.mu.Lock()
	s.suspended = true
	s.mu.Unlock()

	s.uc.SetOnline(ctx, s.participantID, false)
}

// Resume re-asserts online and restarts heartbeats.
func (s *PresenceSession) Resume(ctx context.Context) {
	s.mu.Lock()
	s.suspended = false
	s.mu.Unlock()

	s.uc.SetOnline(ctx, s.participantID, true)
}

// Close stops the heartbeat loop immediately and fires one detached,
// best-effort offline write. It never blocks on that write: the session is
// being torn down, and a lost write self-heals when the offline threshold
// lapses. Close is safe to call more than once.
func (s *PresenceSession) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	<-s.done

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), teardownWriteTimeout)
		defer cancel()
		s.uc.SetOnline(ctx, s.participantID, false)
		log.Printf("Presence session closed for %s", s.participantID)
	}()
}

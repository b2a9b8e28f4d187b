package entity

import "time"

const (
	// OfflineThreshold is the read-side staleness window: a participant whose
	// newest liveness signal is older than this is shown offline.
	OfflineThreshold = 30 * time.Second

	// HeartbeatInterval is the write cadence while a session is active. Two
	// heartbeats land inside one OfflineThreshold, so one dropped write does
	// not flip the indicator.
	HeartbeatInterval = 10 * time.Second
)

// Presence is one participant's self-reported liveness record. Records are
// overwritten in place and never deleted; absence means never seen.
type Presence struct {
	ParticipantID string `json:"participant_id" firestore:"participantId"`
	Online        bool   `json:"online" firestore:"online"`

	// LastSeenAt is assigned by the backend on write. LastHeartbeatMs is the
	// writer's own epoch-milliseconds clock. Both are consulted because the
	// two clocks are not synchronized and server timestamps can lag behind
	// the write that produced them.
	LastSeenAt      time.Time `json:"last_seen_at" firestore:"lastSeenAt,serverTimestamp"`
	LastHeartbeatMs int64     `json:"last_heartbeat_ms" firestore:"lastHeartbeatMs"`
}

// OnlineAt derives the displayed state: online iff the flag is set and the
// newest of the two timestamps is within OfflineThreshold of now. A nil
// record means never seen, which is offline.
func (p *Presence) OnlineAt(now time.Time) bool {
	if p == nil || !p.Online {
		return false
	}
	last := p.LastSeenAt
	if hb := time.UnixMilli(p.LastHeartbeatMs); hb.After(last) {
		last = hb
	}
	return now.Sub(last) < OfflineThreshold
}

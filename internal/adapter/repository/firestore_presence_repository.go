package repository

import (
	"context"
	"log"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"teachersgallery/internal/domain/entity"
	"teachersgallery/internal/domain/repository"
	"teachersgallery/pkg/errors"
)

type firestorePresenceRepository struct {
	client *firestore.Client
}

func NewFirestorePresenceRepository(client *firestore.Client) repository.PresenceRepository {
	return &firestorePresenceRepository{
		client: client,
	}
}

func (r *firestorePresenceRepository) Set(ctx context.Context, presence *entity.Presence) error {
	// Set overwrites in place; the serverTimestamp tag on lastSeenAt makes
	// the backend stamp its own write time.
	_, err := r.client.Collection("presence").Doc(presence.ParticipantID).Set(ctx, presence)
	if err != nil {
		return errors.Internal("Failed to write presence", err)
	}
	return nil
}

func (r *firestorePresenceRepository) GetByParticipantID(ctx context.Context, participantID string) (*entity.Presence, error) {
	doc, err := r.client.Collection("presence").Doc(participantID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Presence", err)
		}
		return nil, errors.Internal("Failed to get presence", err)
	}

	var presence entity.Presence
	if err := doc.DataTo(&presence); err != nil {
		return nil, errors.Internal("Failed to parse presence data", err)
	}
	presence.ParticipantID = doc.Ref.ID

	return &presence, nil
}

func (r *firestorePresenceRepository) Watch(ctx context.Context, participantID string) (<-chan *entity.Presence, error) {
	iter := r.client.Collection("presence").Doc(participantID).Snapshots(ctx)
	out := make(chan *entity.Presence, 1)

	go func() {
		defer iter.Stop()
		defer close(out)

		for {
			snap, err := iter.Next()
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				log.Printf("Presence watch error for %s: %v", participantID, err)
				// Push-channel failure: hand the consumer a nil so it can
				// fall back to the offline default instead of going stale.
				select {
				case out <- nil:
				case <-ctx.Done():
				}
				return
			}

			var presence *entity.Presence
			if snap.Exists() {
				var p entity.Presence
				if err := snap.DataTo(&p); err != nil {
					log.Printf("Presence watch parse error for %s: %v", participantID, err)
					continue
				}
				p.ParticipantID = snap.Ref.ID
				presence = &p
			}

			select {
			case out <- presence:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

package repository

import (
	"context"
	"time"

	"teachersgallery/internal/domain/entity"
)

type PhoneRequestRepository interface {
	Create(ctx context.Context, request *entity.PhoneRequest) error
	GetByID(ctx context.Context, id string) (*entity.PhoneRequest, error)

	// GetPendingByPair returns the open request between a requester and a
	// granter, NOT_FOUND when none exists.
	GetPendingByPair(ctx context.Context, requesterID, granterID string) (*entity.PhoneRequest, error)

	ListByRequester(ctx context.Context, requesterID string, limit, offset int) ([]*entity.PhoneRequest, int64, error)
	ListByGranter(ctx context.Context, granterID string, limit, offset int) ([]*entity.PhoneRequest, int64, error)

	// Respond commits the terminal transition conditionally: the write only
	// lands if the stored status is still pending, otherwise
	// INVALID_STATE_TRANSITION is returned and the record is untouched.
	// phoneNumber is stored on approval and ignored on rejection.
	Respond(ctx context.Context, id, status, phoneNumber string, respondedAt time.Time) (*entity.PhoneRequest, error)

	// BackfillPhoneNumber repairs an approved record whose reveal field was
	// left empty by a partial legacy write. It never changes status.
	BackfillPhoneNumber(ctx context.Context, id, phoneNumber string) error
}

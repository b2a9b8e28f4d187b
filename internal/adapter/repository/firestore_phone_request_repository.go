package repository

import (
	"context"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"teachersgallery/internal/domain/entity"
	"teachersgallery/internal/domain/repository"
	"teachersgallery/pkg/errors"
)

type firestorePhoneRequestRepository struct {
	client *firestore.Client
}

func NewFirestorePhoneRequestRepository(client *firestore.Client) repository.PhoneRequestRepository {
	return &firestorePhoneRequestRepository{
		client: client,
	}
}

func (r *firestorePhoneRequestRepository) Create(ctx context.Context, request *entity.PhoneRequest) error {
	if request.ID == "" {
		request.ID = uuid.New().String()
	}

	request.CreatedAt = time.Now()

	_, err := r.client.Collection("phoneRequests").Doc(request.ID).Set(ctx, request)
	if err != nil {
		return errors.Internal("Failed to create phone request", err)
	}

	return nil
}

func (r *firestorePhoneRequestRepository) GetByID(ctx context.Context, id string) (*entity.PhoneRequest, error) {
	doc, err := r.client.Collection("phoneRequests").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Phone request", err)
		}
		return nil, errors.Internal("Failed to get phone request", err)
	}

	var request entity.PhoneRequest
	if err := doc.DataTo(&request); err != nil {
		return nil, errors.Internal("Failed to parse phone request data", err)
	}
	request.ID = doc.Ref.ID

	return &request, nil
}

func (r *firestorePhoneRequestRepository) GetPendingByPair(ctx context.Context, requesterID, granterID string) (*entity.PhoneRequest, error) {
	query := r.client.Collection("phoneRequests").
		Where("requesterId", "==", requesterID).
		Where("granterId", "==", granterID).
		Where("status", "==", entity.PhoneRequestPending).
		Limit(1)

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, errors.Internal("Failed to query pending phone request", err)
	}
	if len(docs) == 0 {
		return nil, errors.NotFound("Phone request", nil)
	}

	var request entity.PhoneRequest
	if err := docs[0].DataTo(&request); err != nil {
		return nil, errors.Internal("Failed to parse phone request data", err)
	}
	request.ID = docs[0].Ref.ID

	return &request, nil
}

func (r *firestorePhoneRequestRepository) ListByRequester(ctx context.Context, requesterID string, limit, offset int) ([]*entity.PhoneRequest, int64, error) {
	return r.listByField(ctx, "requesterId", requesterID, limit, offset)
}

func (r *firestorePhoneRequestRepository) ListByGranter(ctx context.Context, granterID string, limit, offset int) ([]*entity.PhoneRequest, int64, error) {
	return r.listByField(ctx, "granterId", granterID, limit, offset)
}

func (r *firestorePhoneRequestRepository) listByField(ctx context.Context, field, value string, limit, offset int) ([]*entity.PhoneRequest, int64, error) {
	query := r.client.Collection("phoneRequests").Where(field, "==", value).OrderBy("createdAt", firestore.Desc)

	allDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		log.Printf("Firestore error while fetching phone requests by %s=%s: %v", field, value, err)
		return nil, 0, errors.Internal("Failed to fetch phone requests", err)
	}

	total := int64(len(allDocs))

	start := offset
	end := len(allDocs)
	if limit > 0 {
		end = start + limit
		if end > len(allDocs) {
			end = len(allDocs)
		}
	}
	if start > len(allDocs) {
		start = len(allDocs)
	}

	var requests []*entity.PhoneRequest
	for i := start; i < end; i++ {
		var request entity.PhoneRequest
		if err := allDocs[i].DataTo(&request); err != nil {
			log.Printf("Error parsing phone request data: %v", err)
			continue
		}
		request.ID = allDocs[i].Ref.ID
		requests = append(requests, &request)
	}

	return requests, total, nil
}

// Respond runs the terminal transition inside a transaction so two
// concurrent responders cannot both land a decision: the losing writer
// re-reads a terminal status and gets INVALID_STATE_TRANSITION without
// touching the stored record.
func (r *firestorePhoneRequestRepository) Respond(ctx context.Context, id, newStatus, phoneNumber string, respondedAt time.Time) (*entity.PhoneRequest, error) {
	ref := r.client.Collection("phoneRequests").Doc(id)

	var result entity.PhoneRequest

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Phone request", err)
			}
			return errors.Internal("Failed to get phone request", err)
		}

		var request entity.PhoneRequest
		if err := doc.DataTo(&request); err != nil {
			return errors.Internal("Failed to parse phone request data", err)
		}
		request.ID = doc.Ref.ID

		if request.Status != entity.PhoneRequestPending {
			return errors.InvalidStateTransition("Phone request has already been " + request.Status)
		}

		updates := []firestore.Update{
			{Path: "status", Value: newStatus},
			{Path: "respondedAt", Value: respondedAt},
		}
		if newStatus == entity.PhoneRequestApproved {
			updates = append(updates, firestore.Update{Path: "phoneNumber", Value: phoneNumber})
			request.PhoneNumber = phoneNumber
		}

		if err := tx.Update(ref, updates); err != nil {
			return errors.Internal("Failed to update phone request", err)
		}

		request.Status = newStatus
		request.RespondedAt = &respondedAt
		result = request
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *firestorePhoneRequestRepository) BackfillPhoneNumber(ctx context.Context, id, phoneNumber string) error {
	// Status is deliberately not part of this write; reconciliation repairs
	// the reveal field only.
	_, err := r.client.Collection("phoneRequests").Doc(id).Update(ctx, []firestore.Update{
		{Path: "phoneNumber", Value: phoneNumber},
	})
	if err != nil {
		return errors.Internal("Failed to backfill phone number", err)
	}
	return nil
}

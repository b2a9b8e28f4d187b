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

type firestoreReviewRepository struct {
	client *firestore.Client
}

func NewFirestoreReviewRepository(client *firestore.Client) repository.ReviewRepository {
	return &firestoreReviewRepository{
		client: client,
	}
}

func (r *firestoreReviewRepository) Create(ctx context.Context, review *entity.Review) error {
	if review.ID == "" {
		review.ID = uuid.New().String()
	}

	now := time.Now()
	review.CreatedAt = now
	review.UpdatedAt = now

	_, err := r.client.Collection("reviews").Doc(review.ID).Set(ctx, review)
	if err != nil {
		return errors.Internal("Failed to create review", err)
	}

	return nil
}

func (r *firestoreReviewRepository) GetByID(ctx context.Context, id string) (*entity.Review, error) {
	doc, err := r.client.Collection("reviews").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Review", err)
		}
		return nil, errors.Internal("Failed to get review", err)
	}

	var review entity.Review
	if err := doc.DataTo(&review); err != nil {
		return nil, errors.Internal("Failed to parse review data", err)
	}
	review.ID = doc.Ref.ID

	return &review, nil
}

func (r *firestoreReviewRepository) GetByReviewerAndTeacher(ctx context.Context, reviewerID, teacherID string) (*entity.Review, error) {
	query := r.client.Collection("reviews").
		Where("reviewerId", "==", reviewerID).
		Where("teacherId", "==", teacherID).
		Limit(1)

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, errors.Internal("Failed to query review", err)
	}
	if len(docs) == 0 {
		return nil, errors.NotFound("Review", nil)
	}

	var review entity.Review
	if err := docs[0].DataTo(&review); err != nil {
		return nil, errors.Internal("Failed to parse review data", err)
	}
	review.ID = docs[0].Ref.ID

	return &review, nil
}

func (r *firestoreReviewRepository) ListByTeacher(ctx context.Context, teacherID string, limit, offset int) ([]*entity.Review, int64, error) {
	query := r.client.Collection("reviews").
		Where("teacherId", "==", teacherID).
		Where("status", "==", "active").
		OrderBy("createdAt", firestore.Desc)

	allDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		log.Printf("Firestore error while fetching reviews for teacher %s: %v", teacherID, err)
		return nil, 0, errors.Internal("Failed to fetch reviews", err)
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

	var reviews []*entity.Review
	for i := start; i < end; i++ {
		var review entity.Review
		if err := allDocs[i].DataTo(&review); err != nil {
			log.Printf("Error parsing review data for teacher %s: %v", teacherID, err)
			continue
		}
		review.ID = allDocs[i].Ref.ID
		reviews = append(reviews, &review)
	}

	return reviews, total, nil
}

func (r *firestoreReviewRepository) Update(ctx context.Context, review *entity.Review) error {
	review.UpdatedAt = time.Now()

	_, err := r.client.Collection("reviews").Doc(review.ID).Set(ctx, review)
	if err != nil {
		return errors.Internal("Failed to update review", err)
	}

	return nil
}

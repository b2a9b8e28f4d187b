package repository

import (
	"context"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"teachersgallery/internal/domain/entity"
	"teachersgallery/internal/domain/repository"
	"teachersgallery/pkg/errors"
)

type firestoreTeacherProfileRepository struct {
	client *firestore.Client
}

func NewFirestoreTeacherProfileRepository(client *firestore.Client) repository.TeacherProfileRepository {
	return &firestoreTeacherProfileRepository{
		client: client,
	}
}

func (r *firestoreTeacherProfileRepository) Create(ctx context.Context, profile *entity.TeacherProfile) error {
	if profile.ID == "" {
		profile.ID = uuid.New().String()
	}

	now := time.Now()
	profile.CreatedAt = now
	profile.UpdatedAt = now

	_, err := r.client.Collection("teacherProfiles").Doc(profile.ID).Set(ctx, profile)
	if err != nil {
		return errors.Internal("Failed to create teacher profile", err)
	}

	return nil
}

func (r *firestoreTeacherProfileRepository) GetByID(ctx context.Context, id string) (*entity.TeacherProfile, error) {
	doc, err := r.client.Collection("teacherProfiles").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Teacher profile", err)
		}
		return nil, errors.Internal("Failed to get teacher profile", err)
	}

	var profile entity.TeacherProfile
	if err := doc.DataTo(&profile); err != nil {
		return nil, errors.Internal("Failed to parse teacher profile data", err)
	}
	profile.ID = doc.Ref.ID

	return &profile, nil
}

func (r *firestoreTeacherProfileRepository) GetByUserID(ctx context.Context, userID string) (*entity.TeacherProfile, error) {
	query := r.client.Collection("teacherProfiles").Where("userId", "==", userID).Limit(1)
	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, errors.Internal("Failed to query teacher profile by user", err)
	}
	if len(docs) == 0 {
		return nil, errors.NotFound("Teacher profile", nil)
	}

	var profile entity.TeacherProfile
	if err := docs[0].DataTo(&profile); err != nil {
		return nil, errors.Internal("Failed to parse teacher profile data", err)
	}
	profile.ID = docs[0].Ref.ID

	return &profile, nil
}

func (r *firestoreTeacherProfileRepository) Update(ctx context.Context, profile *entity.TeacherProfile) error {
	profile.UpdatedAt = time.Now()

	_, err := r.client.Collection("teacherProfiles").Doc(profile.ID).Set(ctx, profile)
	if err != nil {
		return errors.Internal("Failed to update teacher profile", err)
	}

	return nil
}

func (r *firestoreTeacherProfileRepository) List(ctx context.Context, filter map[string]interface{}, sort string, limit, offset int) ([]*entity.TeacherProfile, int64, error) {
	query := r.client.Collection("teacherProfiles").Query

	if filter == nil {
		filter = make(map[string]interface{})
	}

	for key, value := range filter {
		if key == "subject" {
			query = query.Where("subjects", "array-contains", value)
			continue
		}
		query = query.Where(key, "==", value)
	}

	// Only active listings surface in search.
	query = query.Where("status", "==", "active")

	if sort != "" {
		parts := strings.Split(sort, "_")
		field := parts[0]
		order := firestore.Asc
		if len(parts) > 1 && parts[1] == "desc" {
			order = firestore.Desc
		}
		query = query.OrderBy(field, order)
	} else {
		query = query.OrderBy("featured", firestore.Desc).OrderBy("rating", firestore.Desc)
	}

	allDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count teacher profiles", err)
	}
	total := int64(len(allDocs))

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	var profiles []*entity.TeacherProfile

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to iterate teacher profiles", err)
		}
		var profile entity.TeacherProfile
		if err := doc.DataTo(&profile); err != nil {
			return nil, 0, errors.Internal("Failed to parse teacher profile data", err)
		}
		profile.ID = doc.Ref.ID
		profiles = append(profiles, &profile)
	}

	return profiles, total, nil
}

package repository

import (
	"context"

	"teachersgallery/internal/domain/entity"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	GetByID(ctx context.Context, id string) (*entity.Review, error)
	GetByReviewerAndTeacher(ctx context.Context, reviewerID, teacherID string) (*entity.Review, error)
	ListByTeacher(ctx context.Context, teacherID string, limit, offset int) ([]*entity.Review, int64, error)
	Update(ctx context.Context, review *entity.Review) error
}

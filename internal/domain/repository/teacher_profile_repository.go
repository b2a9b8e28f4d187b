package repository

import (
	"context"

	"teachersgallery/internal/domain/entity"
)

type TeacherProfileRepository interface {
	Create(ctx context.Context, profile *entity.TeacherProfile) error
	GetByID(ctx context.Context, id string) (*entity.TeacherProfile, error)
	GetByUserID(ctx context.Context, userID string) (*entity.TeacherProfile, error)
	Update(ctx context.Context, profile *entity.TeacherProfile) error
	List(ctx context.Context, filter map[string]interface{}, sort string, limit, offset int) ([]*entity.TeacherProfile, int64, error)
}

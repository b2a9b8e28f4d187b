package usecase

import (
	"context"
	"log"
	"time"

	"teachersgallery/internal/domain/entity"
	"teachersgallery/internal/domain/repository"
	"teachersgallery/pkg/errors"
)

type UserUseCase struct {
	userRepo repository.UserRepository
}

func NewUserUseCase(userRepo repository.UserRepository) *UserUseCase {
	return &UserUseCase{userRepo: userRepo}
}

type UpdateProfileInput struct {
	FullName   string `json:"full_name"`
	Phone      string `json:"phone" validate:"omitempty,e164"`
	Location   string `json:"location"`
	Bio        string `json:"bio" validate:"max=1000"`
	AvatarURL  string `json:"avatar_url"`
	ChildName  string `json:"child_name"`
	ChildGrade string `json:"child_grade"`
}

// GetProfile returns the caller's own record, phone included.
func (uc *UserUseCase) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		log.Printf("GetProfile Error: User %s not found: %v", userID, err)
		return nil, err
	}
	return user, nil
}

// GetPublicProfile returns another user's record with gated fields stripped.
func (uc *UserUseCase) GetPublicProfile(ctx context.Context, userID string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		log.Printf("GetPublicProfile Error: User %s not found: %v", userID, err)
		return nil, err
	}
	return user.PublicView(), nil
}

func (uc *UserUseCase) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		log.Printf("UpdateProfile Error: User %s not found: %v", userID, err)
		return nil, err
	}

	if input.FullName != "" {
		user.FullName = input.FullName
	}
	if input.Phone != "" {
		user.Phone = input.Phone
	}
	if input.Location != "" {
		user.Location = input.Location
	}
	if input.Bio != "" {
		user.Bio = input.Bio
	}
	if input.AvatarURL != "" {
		user.AvatarURL = input.AvatarURL
	}
	if input.ChildName != "" {
		user.ChildName = input.ChildName
	}
	if input.ChildGrade != "" {
		user.ChildGrade = input.ChildGrade
	}
	user.UpdatedAt = time.Now()

	if err := uc.userRepo.Update(ctx, user); err != nil {
		log.Printf("UpdateProfile Error: Failed to update user %s: %v", userID, err)
		return nil, err
	}

	return user, nil
}

func (uc *UserUseCase) DeactivateAccount(ctx context.Context, userID string) error {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		log.Printf("DeactivateAccount Error: User %s not found: %v", userID, err)
		return err
	}

	if user.Status == "deactivated" {
		return errors.BadRequest("Account is already deactivated", nil)
	}

	user.Status = "deactivated"
	user.UpdatedAt = time.Now()

	if err := uc.userRepo.Update(ctx, user); err != nil {
		log.Printf("DeactivateAccount Error: Failed to update user %s: %v", userID, err)
		return err
	}

	return nil
}

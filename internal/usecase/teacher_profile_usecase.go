package usecase

import (
	"context"
	"log"
	"time"

	"teachersgallery/internal/domain/entity"
	"teachersgallery/internal/domain/repository"
	"teachersgallery/pkg/errors"
)

type TeacherProfileUseCase struct {
	profileRepo repository.TeacherProfileRepository
	userRepo    repository.UserRepository
}

func NewTeacherProfileUseCase(
	profileRepo repository.TeacherProfileRepository,
	userRepo repository.UserRepository,
) *TeacherProfileUseCase {
	return &TeacherProfileUseCase{
		profileRepo: profileRepo,
		userRepo:    userRepo,
	}
}

type TeacherProfileInput struct {
	Headline        string   `json:"headline"`
	About           string   `json:"about"`
	Subjects        []string `json:"subjects" validate:"required,min=1"`
	ExperienceYears int      `json:"experience_years" validate:"min=0"`
	FeePerHour      int64    `json:"fee_per_hour" validate:"min=0"`
	TeachingMode    string   `json:"teaching_mode" validate:"required,oneof=online offline hybrid"`
	Location        string   `json:"location"`
}

type TeacherProfileResponse struct {
	*entity.TeacherProfile
	User *entity.User `json:"user,omitempty"`
}

func (uc *TeacherProfileUseCase) CreateProfile(ctx context.Context, userID string, input TeacherProfileInput) (*entity.TeacherProfile, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		log.Printf("CreateProfile Error: User %s not found: %v", userID, err)
		return nil, errors.NotFound("User", err)
	}

	if user.Role != "teacher" {
		log.Printf("CreateProfile Error: User %s has role %s, only teachers can create profiles", userID, user.Role)
		return nil, errors.Forbidden("Only teachers can create a teacher profile", nil)
	}

	if existing, err := uc.profileRepo.GetByUserID(ctx, userID); err == nil && existing != nil {
		log.Printf("CreateProfile Error: User %s already has profile %s", userID, existing.ID)
		return nil, errors.Conflict("Teacher profile already exists for this user")
	}

	profile := &entity.TeacherProfile{
		UserID:          userID,
		Headline:        input.Headline,
		About:           input.About,
		Subjects:        input.Subjects,
		ExperienceYears: input.ExperienceYears,
		FeePerHour:      input.FeePerHour,
		TeachingMode:    input.TeachingMode,
		Location:        input.Location,
		Status:          "active",
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}

	if err := uc.profileRepo.Create(ctx, profile); err != nil {
		log.Printf("CreateProfile Error: Failed to create profile for user %s: %v", userID, err)
		return nil, err
	}

	return profile, nil
}

func (uc *TeacherProfileUseCase) GetProfile(ctx context.Context, profileID string) (*TeacherProfileResponse, error) {
	profile, err := uc.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		log.Printf("GetProfile Error: Profile %s not found: %v", profileID, err)
		return nil, err
	}

	resp := &TeacherProfileResponse{TeacherProfile: profile}

	user, err := uc.userRepo.GetByID(ctx, profile.UserID)
	if err == nil {
		resp.User = user.PublicView()
	} else {
		log.Printf("GetProfile Warning: User %s not found for profile %s: %v", profile.UserID, profileID, err)
	}

	return resp, nil
}

func (uc *TeacherProfileUseCase) GetProfileByUserID(ctx context.Context, userID string) (*entity.TeacherProfile, error) {
	profile, err := uc.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		log.Printf("GetProfileByUserID Error: No profile for user %s: %v", userID, err)
		return nil, err
	}
	return profile, nil
}

func (uc *TeacherProfileUseCase) UpdateProfile(ctx context.Context, userID, profileID string, input TeacherProfileInput) (*entity.TeacherProfile, error) {
	profile, err := uc.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		log.Printf("UpdateProfile Error: Profile %s not found: %v", profileID, err)
		return nil, err
	}

	if profile.UserID != userID {
		log.Printf("UpdateProfile Error: User %s does not own profile %s", userID, profileID)
		return nil, errors.Forbidden("You can only update your own profile", nil)
	}

	profile.Headline = input.Headline
	profile.About = input.About
	profile.Subjects = input.Subjects
	profile.ExperienceYears = input.ExperienceYears
	profile.FeePerHour = input.FeePerHour
	profile.TeachingMode = input.TeachingMode
	profile.Location = input.Location
	profile.UpdatedAt = time.Now()

	if err := uc.profileRepo.Update(ctx, profile); err != nil {
		log.Printf("UpdateProfile Error: Failed to update profile %s: %v", profileID, err)
		return nil, err
	}

	return profile, nil
}

type ListTeachersParams struct {
	Subject      string
	Location     string
	TeachingMode string
	MaxFee       int64
	Sort         string // "rating", "fee_asc", "fee_desc", "experience"
	Limit        int
	Offset       int
}

func (uc *TeacherProfileUseCase) ListTeachers(ctx context.Context, params ListTeachersParams) ([]*TeacherProfileResponse, int64, error) {
	filter := map[string]interface{}{}
	if params.Subject != "" {
		filter["subject"] = params.Subject
	}
	if params.Location != "" {
		filter["location"] = params.Location
	}
	if params.TeachingMode != "" {
		filter["teachingMode"] = params.TeachingMode
	}
	if params.MaxFee > 0 {
		filter["maxFee"] = params.MaxFee
	}

	profiles, total, err := uc.profileRepo.List(ctx, filter, params.Sort, params.Limit, params.Offset)
	if err != nil {
		log.Printf("ListTeachers Error: Failed to list profiles: %v", err)
		return nil, 0, err
	}

	var responses []*TeacherProfileResponse
	for _, profile := range profiles {
		resp := &TeacherProfileResponse{TeacherProfile: profile}

		user, err := uc.userRepo.GetByID(ctx, profile.UserID)
		if err == nil {
			resp.User = user.PublicView()
		} else {
			log.Printf("ListTeachers Warning: User %s not found for profile %s: %v", profile.UserID, profile.ID, err)
		}

		responses = append(responses, resp)
	}

	return responses, total, nil
}

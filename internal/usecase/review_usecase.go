package usecase

import (
	"context"
	"log"
	"time"

	"teachersgallery/internal/domain/entity"
	"teachersgallery/internal/domain/repository"
	"teachersgallery/pkg/errors"
)

type ReviewUseCase struct {
	reviewRepo     repository.ReviewRepository
	profileRepo    repository.TeacherProfileRepository
	userRepo       repository.UserRepository
	notificationUC *NotificationUseCase
}

func NewReviewUseCase(
	reviewRepo repository.ReviewRepository,
	profileRepo repository.TeacherProfileRepository,
	userRepo repository.UserRepository,
	notificationUC *NotificationUseCase,
) *ReviewUseCase {
	return &ReviewUseCase{
		reviewRepo:     reviewRepo,
		profileRepo:    profileRepo,
		userRepo:       userRepo,
		notificationUC: notificationUC,
	}
}

type CreateReviewInput struct {
	TeacherID string `json:"teacher_id" validate:"required"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Content   string `json:"content" validate:"max=2000"`
}

type ReviewResponse struct {
	*entity.Review
	Reviewer *entity.User `json:"reviewer,omitempty"`
}

func (uc *ReviewUseCase) CreateReview(ctx context.Context, reviewerID string, input CreateReviewInput) (*entity.Review, error) {
	profile, err := uc.profileRepo.GetByID(ctx, input.TeacherID)
	if err != nil {
		log.Printf("CreateReview Error: Teacher profile %s not found: %v", input.TeacherID, err)
		return nil, errors.NotFound("Teacher profile", err)
	}

	if profile.UserID == reviewerID {
		log.Printf("CreateReview Error: User %s attempted to review themselves", reviewerID)
		return nil, errors.Forbidden("You cannot review yourself", nil)
	}

	if existing, err := uc.reviewRepo.GetByReviewerAndTeacher(ctx, reviewerID, input.TeacherID); err == nil && existing != nil {
		log.Printf("CreateReview Error: User %s already reviewed teacher %s", reviewerID, input.TeacherID)
		return nil, errors.Conflict("You have already reviewed this teacher")
	}

	review := &entity.Review{
		TeacherID:  input.TeacherID,
		ReviewerID: reviewerID,
		Rating:     input.Rating,
		Content:    input.Content,
		Status:     "active",
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	if err := uc.reviewRepo.Create(ctx, review); err != nil {
		log.Printf("CreateReview Error: Failed to create review for teacher %s: %v", input.TeacherID, err)
		return nil, err
	}

	uc.refreshRatingAggregate(ctx, profile)

	reviewer, err := uc.userRepo.GetByID(ctx, reviewerID)
	reviewerName := "Someone"
	if err == nil {
		reviewerName = reviewer.FullName
	}

	uc.notificationUC.Notify(ctx, profile.UserID, entity.NotificationNewReview,
		"New review",
		reviewerName+" left a review on your profile",
		map[string]interface{}{
			"review_id": review.ID,
			"rating":    review.Rating,
		})

	return review, nil
}

// refreshRatingAggregate recomputes the profile's rating and count from the
// active reviews. Listing cards tolerate a slightly stale aggregate, so a
// failed refresh is logged and left for the next review to repair.
func (uc *ReviewUseCase) refreshRatingAggregate(ctx context.Context, profile *entity.TeacherProfile) {
	reviews, total, err := uc.reviewRepo.ListByTeacher(ctx, profile.ID, -1, 0)
	if err != nil {
		log.Printf("refreshRatingAggregate Warning: Failed to list reviews for teacher %s: %v", profile.ID, err)
		return
	}

	var sum int
	for _, review := range reviews {
		sum += review.Rating
	}

	profile.ReviewCount = int(total)
	profile.Rating = 0
	if total > 0 {
		profile.Rating = float64(sum) / float64(total)
	}

	if err := uc.profileRepo.Update(ctx, profile); err != nil {
		log.Printf("refreshRatingAggregate Warning: Failed to update aggregate for teacher %s: %v", profile.ID, err)
	}
}

func (uc *ReviewUseCase) ListByTeacher(ctx context.Context, teacherID string, limit, offset int) ([]*ReviewResponse, int64, error) {
	reviews, total, err := uc.reviewRepo.ListByTeacher(ctx, teacherID, limit, offset)
	if err != nil {
		log.Printf("ListByTeacher Error: Failed to list reviews for teacher %s: %v", teacherID, err)
		return nil, 0, err
	}

	var responses []*ReviewResponse
	for _, review := range reviews {
		resp := &ReviewResponse{Review: review}

		reviewer, err := uc.userRepo.GetByID(ctx, review.ReviewerID)
		if err == nil {
			resp.Reviewer = reviewer.PublicView()
		} else {
			log.Printf("ListByTeacher Warning: Reviewer %s not found for review %s: %v", review.ReviewerID, review.ID, err)
		}

		responses = append(responses, resp)
	}

	return responses, total, nil
}

func (uc *ReviewUseCase) HideReview(ctx context.Context, reviewID string) error {
	review, err := uc.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		log.Printf("HideReview Error: Review %s not found: %v", reviewID, err)
		return err
	}

	review.Status = "hidden"
	review.UpdatedAt = time.Now()

	if err := uc.reviewRepo.Update(ctx, review); err != nil {
		log.Printf("HideReview Error: Failed to hide review %s: %v", reviewID, err)
		return err
	}

	if profile, err := uc.profileRepo.GetByID(ctx, review.TeacherID); err == nil {
		uc.refreshRatingAggregate(ctx, profile)
	}

	return nil
}

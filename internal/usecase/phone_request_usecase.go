package usecase

import (
	"context"
	"log"
	"time"

	"teachersgallery/internal/domain/entity"
	"teachersgallery/internal/domain/repository"
	"teachersgallery/internal/infrastructure/ratelimit"
	"teachersgallery/pkg/errors"
)

type PhoneRequestUseCase struct {
	phoneRequestRepo repository.PhoneRequestRepository
	userRepo         repository.UserRepository
	notificationUC   *NotificationUseCase
	chatUC           *ChatUseCase
	rateLimiter      *ratelimit.RateLimiter

	now func() time.Time
}

func NewPhoneRequestUseCase(
	phoneRequestRepo repository.PhoneRequestRepository,
	userRepo repository.UserRepository,
	notificationUC *NotificationUseCase,
	chatUC *ChatUseCase,
) *PhoneRequestUseCase {
	rateLimiter := ratelimit.NewRateLimiter()
	rateLimiter.StartCleanupRoutine()

	return &PhoneRequestUseCase{
		phoneRequestRepo: phoneRequestRepo,
		userRepo:         userRepo,
		notificationUC:   notificationUC,
		chatUC:           chatUC,
		rateLimiter:      rateLimiter,
		now:              time.Now,
	}
}

type CreatePhoneRequestInput struct {
	GranterID      string
	ConversationID string
}

type RespondPhoneRequestInput struct {
	RequestID string
	Approve   bool
}

// Create opens a phone reveal request against the granter. If the pair
// already has an open request it is returned as-is instead of piling up
// duplicates.
func (uc *PhoneRequestUseCase) Create(ctx context.Context, requesterID string, input CreatePhoneRequestInput) (*entity.PhoneRequest, error) {
	allowed, waitTime := uc.rateLimiter.Allow(requesterID, "phone_request")
	if !allowed {
		log.Printf("Create PhoneRequest Rate Limited: User %s must wait %v", requesterID, waitTime)
		return nil, errors.TooManyRequests("Rate limit exceeded. Please wait before requesting again", waitTime)
	}

	if requesterID == input.GranterID {
		log.Printf("Create PhoneRequest Error: User %s requested their own phone number", requesterID)
		return nil, errors.InvalidRequest("You cannot request your own phone number", nil)
	}

	granter, err := uc.userRepo.GetByID(ctx, input.GranterID)
	if err != nil {
		log.Printf("Create PhoneRequest Error: Granter %s not found: %v", input.GranterID, err)
		return nil, errors.NotFound("User", err)
	}

	existing, err := uc.phoneRequestRepo.GetPendingByPair(ctx, requesterID, input.GranterID)
	if err == nil && existing != nil {
		return existing, nil
	}
	if err != nil && !errors.Is(err, "NOT_FOUND") {
		log.Printf("Create PhoneRequest Error: Failed to check for open request %s->%s: %v", requesterID, input.GranterID, err)
		return nil, err
	}

	request := &entity.PhoneRequest{
		RequesterID:    requesterID,
		GranterID:      input.GranterID,
		ConversationID: input.ConversationID,
		Status:         entity.PhoneRequestPending,
		CreatedAt:      uc.now(),
	}

	if err := uc.phoneRequestRepo.Create(ctx, request); err != nil {
		log.Printf("Create PhoneRequest Error: Failed to create request %s->%s: %v", requesterID, input.GranterID, err)
		return nil, err
	}

	requester, err := uc.userRepo.GetByID(ctx, requesterID)
	requesterName := "Someone"
	if err == nil {
		requesterName = requester.FullName
	}

	uc.notificationUC.Notify(ctx, granter.ID, entity.NotificationPhoneRequest,
		"Phone number request",
		requesterName+" has requested your phone number",
		map[string]interface{}{
			"request_id":   request.ID,
			"requester_id": requesterID,
		})

	return request, nil
}

// Respond decides a pending request. The transition itself is conditional on
// the stored status still being pending; everything after it (notification,
// conversation notice) is best effort and never rolls the decision back.
func (uc *PhoneRequestUseCase) Respond(ctx context.Context, userID string, input RespondPhoneRequestInput) (*entity.PhoneRequest, error) {
	request, err := uc.phoneRequestRepo.GetByID(ctx, input.RequestID)
	if err != nil {
		log.Printf("Respond PhoneRequest Error: Request %s not found: %v", input.RequestID, err)
		return nil, err
	}

	if request.GranterID != userID {
		log.Printf("Respond PhoneRequest Error: User %s is not the granter of request %s", userID, input.RequestID)
		return nil, errors.Forbidden("Only the request's recipient can respond to it", nil)
	}

	if request.IsTerminal() {
		log.Printf("Respond PhoneRequest Error: Request %s has already been %s", input.RequestID, request.Status)
		return nil, errors.InvalidStateTransition("Phone request has already been " + request.Status)
	}

	status := entity.PhoneRequestRejected
	phoneNumber := ""
	if input.Approve {
		status = entity.PhoneRequestApproved
		phoneNumber = uc.granterPhone(ctx, request.GranterID)
	}

	updated, err := uc.phoneRequestRepo.Respond(ctx, input.RequestID, status, phoneNumber, uc.now())
	if err != nil {
		log.Printf("Respond PhoneRequest Error: Failed to commit %s on request %s: %v", status, input.RequestID, err)
		return nil, err
	}

	uc.notifyDecision(ctx, updated)

	return updated, nil
}

// granterPhone resolves the number to reveal on approval. An approved record
// never carries an empty reveal field, so a missing profile or blank number
// falls back to the unavailable sentinel.
func (uc *PhoneRequestUseCase) granterPhone(ctx context.Context, granterID string) string {
	granter, err := uc.userRepo.GetByID(ctx, granterID)
	if err != nil {
		log.Printf("granterPhone Warning: Granter %s not found, storing unavailable: %v", granterID, err)
		return entity.PhoneUnavailable
	}
	if granter.Phone == "" {
		return entity.PhoneUnavailable
	}
	return granter.Phone
}

func (uc *PhoneRequestUseCase) notifyDecision(ctx context.Context, request *entity.PhoneRequest) {
	granter, err := uc.userRepo.GetByID(ctx, request.GranterID)
	granterName := "The teacher"
	if err == nil {
		granterName = granter.FullName
	}

	if request.Status == entity.PhoneRequestApproved {
		uc.notificationUC.Notify(ctx, request.RequesterID, entity.NotificationPhoneRequestApproved,
			"Phone number request approved",
			granterName+" has shared their phone number with you",
			map[string]interface{}{"request_id": request.ID})
	} else {
		uc.notificationUC.Notify(ctx, request.RequesterID, entity.NotificationPhoneRequestRejected,
			"Phone number request declined",
			granterName+" has declined your phone number request",
			map[string]interface{}{"request_id": request.ID})
	}

	if request.ConversationID == "" {
		return
	}

	content := granterName + " declined the phone number request"
	if request.Status == entity.PhoneRequestApproved {
		content = granterName + " shared their phone number"
	}

	if _, err := uc.chatUC.SendSystemMessage(ctx, request.ConversationID, content, "phone_request_decision", map[string]interface{}{
		"request_id": request.ID,
		"status":     request.Status,
	}); err != nil {
		log.Printf("notifyDecision Warning: Failed to post system message for request %s: %v", request.ID, err)
	}
}

// Get returns a request visible to either side of it. Reads also repair
// approved records whose reveal field was left empty by a partial legacy
// write; the repair is best effort and the caller still gets a usable value.
func (uc *PhoneRequestUseCase) Get(ctx context.Context, userID, requestID string) (*entity.PhoneRequest, error) {
	request, err := uc.phoneRequestRepo.GetByID(ctx, requestID)
	if err != nil {
		log.Printf("Get PhoneRequest Error: Request %s not found: %v", requestID, err)
		return nil, err
	}

	if request.RequesterID != userID && request.GranterID != userID {
		log.Printf("Get PhoneRequest Error: User %s is not a party to request %s", userID, requestID)
		return nil, errors.Forbidden("You are not a party to this request", nil)
	}

	if request.Status == entity.PhoneRequestApproved && request.PhoneNumber == "" {
		request.PhoneNumber = uc.granterPhone(ctx, request.GranterID)
		if err := uc.phoneRequestRepo.BackfillPhoneNumber(ctx, request.ID, request.PhoneNumber); err != nil {
			log.Printf("Get PhoneRequest Warning: Failed to backfill reveal field on request %s: %v", request.ID, err)
		}
	}

	// The requester only sees the number once the granter has approved.
	if request.RequesterID == userID && request.Status != entity.PhoneRequestApproved {
		request.PhoneNumber = ""
	}

	return request, nil
}

func (uc *PhoneRequestUseCase) ListForUser(ctx context.Context, userID, role string, limit, offset int) ([]*entity.PhoneRequest, int64, error) {
	var requests []*entity.PhoneRequest
	var total int64
	var err error

	if role == "granter" {
		requests, total, err = uc.phoneRequestRepo.ListByGranter(ctx, userID, limit, offset)
	} else {
		requests, total, err = uc.phoneRequestRepo.ListByRequester(ctx, userID, limit, offset)
	}
	if err != nil {
		log.Printf("ListForUser PhoneRequest Error: Failed to list requests for user %s as %s: %v", userID, role, err)
		return nil, 0, err
	}

	return requests, total, nil
}

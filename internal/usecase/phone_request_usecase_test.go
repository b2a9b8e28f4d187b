package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teachersgallery/internal/domain/entity"
	ws "teachersgallery/internal/infrastructure/websocket"
	"teachersgallery/pkg/errors"
)

type phoneRequestEnv struct {
	uc               *PhoneRequestUseCase
	phoneRequestRepo *fakePhoneRequestRepo
	conversationRepo *fakeConversationRepo
	notificationRepo *fakeNotificationRepo
}

func newPhoneRequestEnv(t *testing.T) *phoneRequestEnv {
	t.Helper()

	userRepo := newFakeUserRepo(
		&entity.User{ID: "teacher-1", FullName: "Asha Nair", Phone: "+91-9999999999", Role: "teacher"},
		&entity.User{ID: "student-1", FullName: "Rohan Gupta", Role: "student"},
		&entity.User{ID: "teacher-2", FullName: "Vikram Shah", Role: "teacher"}, // no phone on file
	)
	conversationRepo := newFakeConversationRepo(&entity.Conversation{
		ID:           "conv-seeded",
		Participants: []string{"teacher-1", "student-1"},
	})
	phoneRequestRepo := newFakePhoneRequestRepo()
	notificationRepo := newFakeNotificationRepo()

	manager := ws.NewManager()
	notificationUC := NewNotificationUseCase(notificationRepo, manager)
	chatUC := NewChatUseCase(conversationRepo, userRepo, manager)
	t.Cleanup(chatUC.Close)

	uc := NewPhoneRequestUseCase(phoneRequestRepo, userRepo, notificationUC, chatUC)

	return &phoneRequestEnv{
		uc:               uc,
		phoneRequestRepo: phoneRequestRepo,
		conversationRepo: conversationRepo,
		notificationRepo: notificationRepo,
	}
}

func TestCreatePhoneRequest(t *testing.T) {
	env := newPhoneRequestEnv(t)
	ctx := context.Background()

	request, err := env.uc.Create(ctx, "student-1", CreatePhoneRequestInput{GranterID: "teacher-1"})
	require.NoError(t, err)

	assert.Equal(t, entity.PhoneRequestPending, request.Status)
	assert.Equal(t, "student-1", request.RequesterID)
	assert.Equal(t, "teacher-1", request.GranterID)
	assert.Empty(t, request.PhoneNumber)
	assert.Nil(t, request.RespondedAt)

	notifications := env.notificationRepo.forUser("teacher-1")
	require.Len(t, notifications, 1)
	assert.Equal(t, entity.NotificationPhoneRequest, notifications[0].Type)
}

func TestCreatePhoneRequestSelf(t *testing.T) {
	env := newPhoneRequestEnv(t)

	_, err := env.uc.Create(context.Background(), "teacher-1", CreatePhoneRequestInput{GranterID: "teacher-1"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "INVALID_REQUEST"))
}

func TestCreatePhoneRequestReusesOpenRequest(t *testing.T) {
	env := newPhoneRequestEnv(t)
	ctx := context.Background()

	first, err := env.uc.Create(ctx, "student-1", CreatePhoneRequestInput{GranterID: "teacher-1"})
	require.NoError(t, err)

	second, err := env.uc.Create(ctx, "student-1", CreatePhoneRequestInput{GranterID: "teacher-1"})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
}

func TestRespondApprove(t *testing.T) {
	env := newPhoneRequestEnv(t)
	ctx := context.Background()

	request, err := env.uc.Create(ctx, "student-1", CreatePhoneRequestInput{
		GranterID:      "teacher-1",
		ConversationID: "conv-seeded",
	})
	require.NoError(t, err)

	updated, err := env.uc.Respond(ctx, "teacher-1", RespondPhoneRequestInput{RequestID: request.ID, Approve: true})
	require.NoError(t, err)

	assert.Equal(t, entity.PhoneRequestApproved, updated.Status)
	assert.Equal(t, "+91-9999999999", updated.PhoneNumber)
	require.NotNil(t, updated.RespondedAt)

	notifications := env.notificationRepo.forUser("student-1")
	require.Len(t, notifications, 1)
	assert.Equal(t, entity.NotificationPhoneRequestApproved, notifications[0].Type)

	// The decision is also announced inside the conversation.
	messages, _, err := env.conversationRepo.GetMessagesByConversation(ctx, "conv-seeded", -1, 0)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "system", messages[0].Type)
}

func TestRespondReject(t *testing.T) {
	env := newPhoneRequestEnv(t)
	ctx := context.Background()

	request, err := env.uc.Create(ctx, "student-1", CreatePhoneRequestInput{GranterID: "teacher-1"})
	require.NoError(t, err)

	updated, err := env.uc.Respond(ctx, "teacher-1", RespondPhoneRequestInput{RequestID: request.ID, Approve: false})
	require.NoError(t, err)

	assert.Equal(t, entity.PhoneRequestRejected, updated.Status)
	assert.Empty(t, updated.PhoneNumber)
	require.NotNil(t, updated.RespondedAt)

	notifications := env.notificationRepo.forUser("student-1")
	require.Len(t, notifications, 1)
	assert.Equal(t, entity.NotificationPhoneRequestRejected, notifications[0].Type)
}

func TestRespondTwice(t *testing.T) {
	env := newPhoneRequestEnv(t)
	ctx := context.Background()

	request, err := env.uc.Create(ctx, "student-1", CreatePhoneRequestInput{GranterID: "teacher-1"})
	require.NoError(t, err)

	_, err = env.uc.Respond(ctx, "teacher-1", RespondPhoneRequestInput{RequestID: request.ID, Approve: true})
	require.NoError(t, err)

	_, err = env.uc.Respond(ctx, "teacher-1", RespondPhoneRequestInput{RequestID: request.ID, Approve: false})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "INVALID_STATE_TRANSITION"))

	// The record kept the first decision.
	stored := env.phoneRequestRepo.stored(request.ID)
	assert.Equal(t, entity.PhoneRequestApproved, stored.Status)
	assert.Equal(t, "+91-9999999999", stored.PhoneNumber)
}

func TestRespondOnlyGranter(t *testing.T) {
	env := newPhoneRequestEnv(t)
	ctx := context.Background()

	request, err := env.uc.Create(ctx, "student-1", CreatePhoneRequestInput{GranterID: "teacher-1"})
	require.NoError(t, err)

	_, err = env.uc.Respond(ctx, "student-1", RespondPhoneRequestInput{RequestID: request.ID, Approve: true})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestApproveWithoutPhoneOnFile(t *testing.T) {
	env := newPhoneRequestEnv(t)
	ctx := context.Background()

	request, err := env.uc.Create(ctx, "student-1", CreatePhoneRequestInput{GranterID: "teacher-2"})
	require.NoError(t, err)

	updated, err := env.uc.Respond(ctx, "teacher-2", RespondPhoneRequestInput{RequestID: request.ID, Approve: true})
	require.NoError(t, err)

	assert.Equal(t, entity.PhoneRequestApproved, updated.Status)
	assert.Equal(t, entity.PhoneUnavailable, updated.PhoneNumber)
}

func TestRespondSurvivesNotificationFailure(t *testing.T) {
	env := newPhoneRequestEnv(t)
	ctx := context.Background()

	request, err := env.uc.Create(ctx, "student-1", CreatePhoneRequestInput{GranterID: "teacher-1"})
	require.NoError(t, err)

	env.notificationRepo.failCreate = true

	updated, err := env.uc.Respond(ctx, "teacher-1", RespondPhoneRequestInput{RequestID: request.ID, Approve: true})
	require.NoError(t, err)
	assert.Equal(t, entity.PhoneRequestApproved, updated.Status)
}

func TestGetBackfillsApprovedRecord(t *testing.T) {
	env := newPhoneRequestEnv(t)
	ctx := context.Background()

	// An approved record written by an older client that never stored the
	// reveal field.
	respondedAt := time.Now().Add(-time.Hour)
	env.phoneRequestRepo.seed(&entity.PhoneRequest{
		ID:          "req-legacy",
		RequesterID: "student-1",
		GranterID:   "teacher-1",
		Status:      entity.PhoneRequestApproved,
		RespondedAt: &respondedAt,
	})

	request, err := env.uc.Get(ctx, "student-1", "req-legacy")
	require.NoError(t, err)

	assert.Equal(t, "+91-9999999999", request.PhoneNumber)
	assert.Equal(t, entity.PhoneRequestApproved, request.Status)

	// The repair was persisted, not just patched onto the response.
	stored := env.phoneRequestRepo.stored("req-legacy")
	assert.Equal(t, "+91-9999999999", stored.PhoneNumber)
	assert.Equal(t, entity.PhoneRequestApproved, stored.Status)
}

func TestGetGatesPhoneUntilApproved(t *testing.T) {
	env := newPhoneRequestEnv(t)
	ctx := context.Background()

	request, err := env.uc.Create(ctx, "student-1", CreatePhoneRequestInput{GranterID: "teacher-1"})
	require.NoError(t, err)

	fetched, err := env.uc.Get(ctx, "student-1", request.ID)
	require.NoError(t, err)
	assert.Empty(t, fetched.PhoneNumber)

	_, err = env.uc.Get(ctx, "teacher-2", request.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

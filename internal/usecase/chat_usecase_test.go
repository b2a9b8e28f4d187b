package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teachersgallery/internal/domain/entity"
	ws "teachersgallery/internal/infrastructure/websocket"
	"teachersgallery/pkg/errors"
)

type chatEnv struct {
	uc               *ChatUseCase
	conversationRepo *fakeConversationRepo
}

func newChatEnv(t *testing.T) *chatEnv {
	t.Helper()

	userRepo := newFakeUserRepo(
		&entity.User{ID: "teacher-1", FullName: "Asha Nair", Role: "teacher"},
		&entity.User{ID: "student-1", FullName: "Rohan Gupta", Role: "student"},
		&entity.User{ID: "student-2", FullName: "Meera Iyer", Role: "student"},
	)
	conversationRepo := newFakeConversationRepo(&entity.Conversation{
		ID:           "conv-1",
		Participants: []string{"teacher-1", "student-1"},
		UnreadCount:  make(map[string]int),
	})

	uc := NewChatUseCase(conversationRepo, userRepo, ws.NewManager())
	uc.typingDebounce = 30 * time.Millisecond
	t.Cleanup(uc.Close)

	return &chatEnv{uc: uc, conversationRepo: conversationRepo}
}

func TestKeystrokeDebounce(t *testing.T) {
	env := newChatEnv(t)
	ctx := context.Background()

	env.uc.Keystroke(ctx, "conv-1", "student-1")

	typing := env.conversationRepo.typingSnapshot("conv-1")
	assert.Contains(t, typing, "student-1")

	// Silence: the debounce timer clears the flag on its own.
	assert.Eventually(t, func() bool {
		_, ok := env.conversationRepo.typingSnapshot("conv-1")["student-1"]
		return !ok
	}, time.Second, 5*time.Millisecond, "typing flag should clear after the silence window")
}

func TestKeystrokeRestartsTimer(t *testing.T) {
	env := newChatEnv(t)
	ctx := context.Background()

	// Keep typing faster than the debounce window.
	for i := 0; i < 4; i++ {
		env.uc.Keystroke(ctx, "conv-1", "student-1")
		time.Sleep(15 * time.Millisecond)
	}

	// Still typing: the last keystroke was inside the window.
	typing := env.conversationRepo.typingSnapshot("conv-1")
	assert.Contains(t, typing, "student-1")

	assert.Eventually(t, func() bool {
		_, ok := env.conversationRepo.typingSnapshot("conv-1")["student-1"]
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestSetTypingExplicitStop(t *testing.T) {
	env := newChatEnv(t)
	ctx := context.Background()

	env.uc.Keystroke(ctx, "conv-1", "student-1")
	env.uc.SetTyping(ctx, "conv-1", "student-1", false)

	_, ok := env.conversationRepo.typingSnapshot("conv-1")["student-1"]
	assert.False(t, ok, "explicit stop clears the flag immediately")

	// And the pending debounce timer was cancelled with it.
	env.uc.timersMu.Lock()
	_, pending := env.uc.typingTimers["conv-1:student-1"]
	env.uc.timersMu.Unlock()
	assert.False(t, pending)
}

func TestSetTypingIgnoresNonParticipant(t *testing.T) {
	env := newChatEnv(t)

	env.uc.SetTyping(context.Background(), "conv-1", "student-2", true)

	typing := env.conversationRepo.typingSnapshot("conv-1")
	assert.NotContains(t, typing, "student-2")
}

func TestSubscribeTyping(t *testing.T) {
	env := newChatEnv(t)
	ctx := context.Background()

	var mu sync.Mutex
	var snapshots []map[string]time.Time
	sub, err := env.uc.SubscribeTyping(ctx, "conv-1", func(typing map[string]time.Time) {
		mu.Lock()
		snapshots = append(snapshots, typing)
		mu.Unlock()
	})
	require.NoError(t, err)
	defer sub.Stop()

	env.uc.SetTyping(ctx, "conv-1", "student-1", true)

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		if len(snapshots) == 0 {
			return false
		}
		_, ok := snapshots[len(snapshots)-1]["student-1"]
		return ok
	}, time.Second, 5*time.Millisecond)

	// A push failure delivers the empty map, never nil.
	env.conversationRepo.pushTypingFailure("conv-1")

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		latest := snapshots[len(snapshots)-1]
		return latest != nil && len(latest) == 0
	}, time.Second, 5*time.Millisecond)
}

func TestCreateConversationSelf(t *testing.T) {
	env := newChatEnv(t)

	_, err := env.uc.CreateConversation(context.Background(), "student-1", CreateConversationInput{
		RecipientID: "student-1",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestCreateConversationReusesExisting(t *testing.T) {
	env := newChatEnv(t)
	ctx := context.Background()

	conversation, err := env.uc.CreateConversation(ctx, "student-1", CreateConversationInput{
		RecipientID: "teacher-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "conv-1", conversation.ID)
}

func TestSendMessageUpdatesUnreadCounts(t *testing.T) {
	env := newChatEnv(t)
	ctx := context.Background()

	_, err := env.uc.SendMessage(ctx, "student-1", SendMessageInput{
		ConversationID: "conv-1",
		Content:        "Are you available for algebra on Monday?",
	})
	require.NoError(t, err)

	conversation, err := env.conversationRepo.GetByID(ctx, "conv-1")
	require.NoError(t, err)

	assert.Equal(t, 1, conversation.UnreadCount["teacher-1"])
	assert.Equal(t, 0, conversation.UnreadCount["student-1"])
	assert.Equal(t, "Are you available for algebra on Monday?", conversation.LastMessage)

	require.NoError(t, env.uc.MarkConversationAsRead(ctx, "teacher-1", "conv-1"))
	conversation, err = env.conversationRepo.GetByID(ctx, "conv-1")
	require.NoError(t, err)
	assert.Equal(t, 0, conversation.UnreadCount["teacher-1"])
}

func TestSendMessageRequiresParticipant(t *testing.T) {
	env := newChatEnv(t)

	_, err := env.uc.SendMessage(context.Background(), "student-2", SendMessageInput{
		ConversationID: "conv-1",
		Content:        "hello",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

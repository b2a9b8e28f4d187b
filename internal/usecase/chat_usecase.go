package usecase

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"teachersgallery/internal/domain/entity"
	"teachersgallery/internal/domain/repository"
	"teachersgallery/internal/infrastructure/ratelimit"
	ws "teachersgallery/internal/infrastructure/websocket"
	"teachersgallery/pkg/errors"
	"teachersgallery/pkg/logger"
)

type ChatUseCase struct {
	conversationRepo repository.ConversationRepository
	userRepo         repository.UserRepository
	wsManager        *ws.Manager
	rateLimiter      *ratelimit.RateLimiter

	now func() time.Time

	// typingDebounce is the write-side silence window. Kept as a field so
	// tests can shrink it; production always runs entity.TypingDebounce.
	typingDebounce time.Duration

	timersMu     sync.Mutex
	typingTimers map[string]*time.Timer // conversationID+":"+userID
}

func NewChatUseCase(
	conversationRepo repository.ConversationRepository,
	userRepo repository.UserRepository,
	wsManager *ws.Manager,
) *ChatUseCase {
	rateLimiter := ratelimit.NewRateLimiter()
	rateLimiter.StartCleanupRoutine()

	return &ChatUseCase{
		conversationRepo: conversationRepo,
		userRepo:         userRepo,
		wsManager:        wsManager,
		rateLimiter:      rateLimiter,
		now:              time.Now,
		typingDebounce:   entity.TypingDebounce,
		typingTimers:     make(map[string]*time.Timer),
	}
}

type CreateConversationInput struct {
	RecipientID    string
	InitialMessage string
}

type SendMessageInput struct {
	ConversationID string
	Content        string
	Type           string // "text", "system"
	Metadata       map[string]interface{}
}

type ConversationResponse struct {
	*entity.Conversation
	OtherUser *entity.User `json:"other_user,omitempty"`
}

type MessageResponse struct {
	*entity.Message
	Sender *entity.User `json:"sender,omitempty"`
}

func (uc *ChatUseCase) CreateConversation(ctx context.Context, userID string, input CreateConversationInput) (*ConversationResponse, error) {
	allowed, waitTime := uc.rateLimiter.Allow(userID, "create_conversation")
	if !allowed {
		log.Printf("CreateConversation Rate Limited: User %s must wait %v", userID, waitTime)
		return nil, errors.TooManyRequests("Rate limit exceeded. Please wait before starting another conversation", waitTime)
	}

	if userID == input.RecipientID {
		log.Printf("CreateConversation Error: User %s attempted to start a conversation with themselves", userID)
		return nil, errors.BadRequest("You cannot start a conversation with yourself", nil)
	}

	recipient, err := uc.userRepo.GetByID(ctx, input.RecipientID)
	if err != nil {
		log.Printf("CreateConversation Error: Recipient %s not found: %v", input.RecipientID, err)
		return nil, errors.NotFound("Recipient", err)
	}

	sender, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		log.Printf("CreateConversation Error: Sender %s not found: %v", userID, err)
		return nil, errors.NotFound("Sender", err)
	}

	var conversationToReturn *entity.Conversation

	existing, err := uc.findExistingConversation(ctx, userID, input.RecipientID)
	if err == nil && existing != nil {
		conversationToReturn = existing
	} else {
		if err != nil && !errors.Is(err, "NOT_FOUND") {
			log.Printf("CreateConversation Error: Failed to search for existing conversation: %v", err)
			return nil, err
		}

		newConversation := &entity.Conversation{
			Participants:  []string{userID, input.RecipientID},
			UnreadCount:   make(map[string]int),
			LastMessageAt: uc.now(),
		}

		// Record which side is the teacher so listing screens can label the
		// conversation without another lookup.
		if recipient.Role == "teacher" {
			newConversation.TeacherID = recipient.ID
			newConversation.StudentID = userID
		} else if sender.Role == "teacher" {
			newConversation.TeacherID = userID
			newConversation.StudentID = recipient.ID
		}

		if err := uc.conversationRepo.Create(ctx, newConversation); err != nil {
			log.Printf("CreateConversation Error: Failed to create conversation: %v", err)
			return nil, err
		}
		conversationToReturn = newConversation
	}

	if input.InitialMessage != "" {
		if _, err := uc.SendMessage(ctx, userID, SendMessageInput{
			ConversationID: conversationToReturn.ID,
			Content:        input.InitialMessage,
			Type:           "text",
		}); err != nil {
			log.Printf("CreateConversation Error: Failed to send initial message for conversation %s: %v", conversationToReturn.ID, err)
			return nil, err
		}
	}

	return &ConversationResponse{
		Conversation: conversationToReturn,
		OtherUser:    recipient.PublicView(),
	}, nil
}

func (uc *ChatUseCase) findExistingConversation(ctx context.Context, userID1, userID2 string) (*entity.Conversation, error) {
	conversations, _, err := uc.conversationRepo.ListByUserID(ctx, userID1, -1, 0)
	if err != nil {
		log.Printf("findExistingConversation Error: Failed to list conversations for user %s: %v", userID1, err)
		return nil, errors.Internal("Failed to list conversations", err)
	}

	for _, conversation := range conversations {
		if len(conversation.Participants) == 2 && conversation.HasParticipant(userID1) && conversation.HasParticipant(userID2) {
			return conversation, nil
		}
	}

	return nil, errors.NotFound("Conversation", nil)
}

func (uc *ChatUseCase) SendMessage(ctx context.Context, userID string, input SendMessageInput) (*MessageResponse, error) {
	allowed, waitTime := uc.rateLimiter.Allow(userID, "send_message")
	if !allowed {
		log.Printf("SendMessage Rate Limited: User %s must wait %v", userID, waitTime)
		return nil, errors.TooManyRequests("Rate limit exceeded. Please wait before sending another message", waitTime)
	}

	conversation, err := uc.conversationRepo.GetByID(ctx, input.ConversationID)
	if err != nil {
		log.Printf("SendMessage Error: Conversation %s not found: %v", input.ConversationID, err)
		return nil, err
	}

	if !conversation.HasParticipant(userID) {
		log.Printf("SendMessage Error: User %s is not a participant in conversation %s", userID, input.ConversationID)
		return nil, errors.Forbidden("User is not a participant in this conversation", nil)
	}

	sender, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		log.Printf("SendMessage Error: Sender %s not found: %v", userID, err)
		return nil, errors.NotFound("Sender", err)
	}

	if input.Type == "" {
		input.Type = "text"
	}

	message := &entity.Message{
		ConversationID: input.ConversationID,
		SenderID:       userID,
		Content:        input.Content,
		Type:           input.Type,
		Status:         "sent",
		Metadata:       input.Metadata,
		ReadBy:         []string{userID},
		CreatedAt:      uc.now(),
	}

	if err := uc.conversationRepo.CreateMessage(ctx, message); err != nil {
		log.Printf("SendMessage Error: Failed to create message for conversation %s: %v", input.ConversationID, err)
		return nil, err
	}

	conversation.LastMessage = input.Content
	conversation.LastMessageAt = message.CreatedAt
	if conversation.UnreadCount == nil {
		conversation.UnreadCount = make(map[string]int)
	}
	for _, participantID := range conversation.Participants {
		if participantID != userID {
			conversation.UnreadCount[participantID]++
		}
	}

	if err := uc.conversationRepo.Update(ctx, conversation); err != nil {
		log.Printf("SendMessage Error: Failed to update conversation %s with last message: %v", conversation.ID, err)
		return nil, err
	}

	notification := map[string]interface{}{
		"type":            "new_message",
		"conversation_id": input.ConversationID,
		"message":         message,
		"sender":          sender.PublicView(),
	}
	notificationJSON, _ := json.Marshal(notification)
	uc.wsManager.SendToConversation(input.ConversationID, notificationJSON, userID)

	for _, participantID := range conversation.Participants {
		if participantID != userID {
			uc.wsManager.SendToUser(participantID, notificationJSON)
		}
	}

	return &MessageResponse{
		Message: message,
		Sender:  sender.PublicView(),
	}, nil
}

// SendSystemMessage appends an informational entry to a conversation on
// behalf of the system, e.g. a phone reveal decision notice.
func (uc *ChatUseCase) SendSystemMessage(ctx context.Context, conversationID, content, systemType string, metadata map[string]interface{}) (*MessageResponse, error) {
	if metadata == nil {
		metadata = make(map[string]interface{})
	}
	metadata["system_type"] = systemType

	message := &entity.Message{
		ConversationID: conversationID,
		SenderID:       "system",
		Content:        content,
		Type:           "system",
		Status:         "delivered",
		Metadata:       metadata,
		ReadBy:         []string{},
		CreatedAt:      uc.now(),
	}

	if err := uc.conversationRepo.CreateMessage(ctx, message); err != nil {
		log.Printf("SendSystemMessage Error: Failed to create system message for conversation %s: %v", conversationID, err)
		return nil, err
	}

	conversation, err := uc.conversationRepo.GetByID(ctx, conversationID)
	if err != nil {
		log.Printf("SendSystemMessage Error: Conversation %s not found: %v", conversationID, err)
		return nil, err
	}
	conversation.LastMessage = content
	conversation.LastMessageAt = message.CreatedAt
	if err := uc.conversationRepo.Update(ctx, conversation); err != nil {
		log.Printf("SendSystemMessage Error: Failed to update conversation %s: %v", conversation.ID, err)
	}

	notification := map[string]interface{}{
		"type":            "new_message",
		"conversation_id": conversationID,
		"message":         message,
	}
	notificationJSON, _ := json.Marshal(notification)
	uc.wsManager.SendToConversation(conversationID, notificationJSON, "")

	return &MessageResponse{Message: message}, nil
}

func (uc *ChatUseCase) GetUserConversations(ctx context.Context, userID string, limit, offset int) ([]*ConversationResponse, int64, error) {
	conversations, total, err := uc.conversationRepo.ListByUserID(ctx, userID, limit, offset)
	if err != nil {
		log.Printf("GetUserConversations Error: Failed to list conversations for user %s: %v", userID, err)
		return nil, 0, err
	}

	var responses []*ConversationResponse

	for _, conversation := range conversations {
		resp := &ConversationResponse{Conversation: conversation}

		for _, participantID := range conversation.Participants {
			if participantID != userID {
				otherUser, err := uc.userRepo.GetByID(ctx, participantID)
				if err == nil {
					resp.OtherUser = otherUser.PublicView()
				} else {
					log.Printf("GetUserConversations Warning: Other user %s not found for conversation %s: %v", participantID, conversation.ID, err)
				}
				break
			}
		}

		responses = append(responses, resp)
	}

	return responses, total, nil
}

func (uc *ChatUseCase) GetConversationByID(ctx context.Context, userID, conversationID string) (*ConversationResponse, error) {
	conversation, err := uc.conversationRepo.GetByID(ctx, conversationID)
	if err != nil {
		log.Printf("GetConversationByID Error: Conversation %s not found: %v", conversationID, err)
		return nil, err
	}

	if !conversation.HasParticipant(userID) {
		log.Printf("GetConversationByID Error: User %s is not a participant in conversation %s", userID, conversationID)
		return nil, errors.Forbidden("User is not a participant in this conversation", nil)
	}

	resp := &ConversationResponse{Conversation: conversation}

	for _, participantID := range conversation.Participants {
		if participantID != userID {
			otherUser, err := uc.userRepo.GetByID(ctx, participantID)
			if err == nil {
				resp.OtherUser = otherUser.PublicView()
			} else {
				log.Printf("GetConversationByID Warning: Other user %s not found for conversation %s: %v", participantID, conversationID, err)
			}
			break
		}
	}

	return resp, nil
}

func (uc *ChatUseCase) GetConversationMessages(ctx context.Context, userID, conversationID string, limit, offset int) ([]*MessageResponse, int64, error) {
	conversation, err := uc.conversationRepo.GetByID(ctx, conversationID)
	if err != nil {
		log.Printf("GetConversationMessages Error: Conversation %s not found: %v", conversationID, err)
		return nil, 0, err
	}

	if !conversation.HasParticipant(userID) {
		log.Printf("GetConversationMessages Error: User %s is not a participant in conversation %s", userID, conversationID)
		return nil, 0, errors.Forbidden("User is not a participant in this conversation", nil)
	}

	messages, total, err := uc.conversationRepo.GetMessagesByConversation(ctx, conversationID, limit, offset)
	if err != nil {
		log.Printf("GetConversationMessages Error: Failed to get messages for conversation %s: %v", conversationID, err)
		return nil, 0, err
	}

	var responses []*MessageResponse

	for _, message := range messages {
		resp := &MessageResponse{Message: message}

		if message.SenderID != "system" {
			sender, err := uc.userRepo.GetByID(ctx, message.SenderID)
			if err == nil {
				resp.Sender = sender.PublicView()
			} else {
				log.Printf("GetConversationMessages Warning: Sender %s not found for message %s: %v", message.SenderID, message.ID, err)
			}
		}

		responses = append(responses, resp)
	}

	return responses, total, nil
}

func (uc *ChatUseCase) MarkConversationAsRead(ctx context.Context, userID, conversationID string) error {
	conversation, err := uc.conversationRepo.GetByID(ctx, conversationID)
	if err != nil {
		log.Printf("MarkConversationAsRead Error: Conversation %s not found: %v", conversationID, err)
		return err
	}

	if !conversation.HasParticipant(userID) {
		log.Printf("MarkConversationAsRead Error: User %s is not a participant in conversation %s", userID, conversationID)
		return errors.Forbidden("User is not a participant in this conversation", nil)
	}

	if conversation.UnreadCount == nil {
		conversation.UnreadCount = make(map[string]int)
	}
	conversation.UnreadCount[userID] = 0

	if err := uc.conversationRepo.Update(ctx, conversation); err != nil {
		log.Printf("MarkConversationAsRead Error: Failed to update conversation %s for user %s: %v", conversationID, userID, err)
		return err
	}

	return nil
}

func (uc *ChatUseCase) MarkMessageAsRead(ctx context.Context, conversationID, messageID, userID string) {
	conversation, err := uc.conversationRepo.GetByID(ctx, conversationID)
	if err != nil {
		log.Printf("MarkMessageAsRead Error: Conversation %s not found: %v", conversationID, err)
		return
	}
	if !conversation.HasParticipant(userID) {
		log.Printf("MarkMessageAsRead Error: User %s is not a participant in conversation %s", userID, conversationID)
		return
	}

	if err := uc.conversationRepo.UpdateMessageReadStatus(ctx, conversationID, messageID, userID); err != nil {
		log.Printf("MarkMessageAsRead Error: Failed to update message %s read status for user %s: %v", messageID, userID, err)
		return
	}

	notification := map[string]interface{}{
		"type":            "message_read_receipt",
		"conversation_id": conversationID,
		"message_id":      messageID,
		"reader_id":       userID,
	}
	notificationJSON, _ := json.Marshal(notification)
	uc.wsManager.SendToConversation(conversationID, notificationJSON, userID)
}

// SetTyping writes or clears the participant's entry in the conversation's
// typing map. Failures are logged and swallowed: a lost clear write only
// means readers hold the indicator until the staleness window lapses.
func (uc *ChatUseCase) SetTyping(ctx context.Context, conversationID, userID string, isTyping bool) {
	allowed, _ := uc.rateLimiter.Allow(userID, "typing")
	if !allowed {
		log.Printf("SetTyping Rate Limited: User %s", userID)
		return
	}

	conversation, err := uc.conversationRepo.GetByID(ctx, conversationID)
	if err != nil {
		log.Printf("SetTyping Error: Conversation %s not found: %v", conversationID, err)
		return
	}
	if !conversation.HasParticipant(userID) {
		log.Printf("SetTyping Error: User %s is not a participant in conversation %s", userID, conversationID)
		return
	}

	if !isTyping {
		uc.stopTypingTimer(conversationID, userID)
	}

	if err := uc.conversationRepo.SetTyping(ctx, conversationID, userID, isTyping, uc.now()); err != nil {
		logger.LogTransientWrite("typing", userID, err)
		return
	}

	notification := map[string]interface{}{
		"type":            "typing_indicator",
		"conversation_id": conversationID,
		"user_id":         userID,
		"is_typing":       isTyping,
	}
	notificationJSON, _ := json.Marshal(notification)
	uc.wsManager.SendToConversation(conversationID, notificationJSON, userID)
}

// Keystroke is the write-side debounce: every call re-asserts typing and
// restarts a silence timer that clears the flag. The timer (3s) is shorter
// than the read-side staleness window (5s) on purpose, so a late clear write
// still reads as "recently typing" rather than flapping.
func (uc *ChatUseCase) Keystroke(ctx context.Context, conversationID, userID string) {
	uc.SetTyping(ctx, conversationID, userID, true)

	key := conversationID + ":" + userID

	uc.timersMu.Lock()
	defer uc.timersMu.Unlock()

	if timer, ok := uc.typingTimers[key]; ok {
		timer.Stop()
	}

	uc.typingTimers[key] = time.AfterFunc(uc.typingDebounce, func() {
		// Detached from the keystroke's request context; the request is long
		// gone by the time the silence timer fires.
		uc.SetTyping(context.Background(), conversationID, userID, false)
	})
}

func (uc *ChatUseCase) stopTypingTimer(conversationID, userID string) {
	key := conversationID + ":" + userID

	uc.timersMu.Lock()
	defer uc.timersMu.Unlock()

	if timer, ok := uc.typingTimers[key]; ok {
		timer.Stop()
		delete(uc.typingTimers, key)
	}
}

// TypingSubscription is an explicit handle over one watched conversation's
// typing map.
type TypingSubscription struct {
	cancel context.CancelFunc
	done   chan struct{}
}

func (s *TypingSubscription) Stop() {
	s.cancel()
	<-s.done
}

// SubscribeTyping streams the raw typing map; consumers derive "is X typing"
// with entity.TypingAt so each surface can pick its own staleness tolerance.
// Push-channel failures deliver the empty map.
func (uc *ChatUseCase) SubscribeTyping(ctx context.Context, conversationID string, fn func(typing map[string]time.Time)) (*TypingSubscription, error) {
	watchCtx, cancel := context.WithCancel(ctx)

	ch, err := uc.conversationRepo.WatchTyping(watchCtx, conversationID)
	if err != nil {
		cancel()
		return nil, err
	}

	sub := &TypingSubscription{
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(sub.done)

		for {
			select {
			case typing, ok := <-ch:
				if !ok {
					return
				}
				if typing == nil {
					fn(map[string]time.Time{})
					continue
				}
				fn(typing)

			case <-watchCtx.Done():
				return
			}
		}
	}()

	return sub, nil
}

// Close stops all pending typing-clear timers. Used on shutdown so no write
// fires after the service has let go of its backend clients.
func (uc *ChatUseCase) Close() {
	uc.timersMu.Lock()
	defer uc.timersMu.Unlock()

	for key, timer := range uc.typingTimers {
		timer.Stop()
		delete(uc.typingTimers, key)
	}
}

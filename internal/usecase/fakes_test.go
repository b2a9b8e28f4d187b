package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"teachersgallery/internal/domain/entity"
	"teachersgallery/pkg/errors"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newFakeUserRepo(users ...*entity.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[string]*entity.User)}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (f *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	return user, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, errors.NotFound("User", nil)
}

func (f *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, id)
	return nil
}

type presenceWatcher struct {
	ch chan *entity.Presence
}

type fakePresenceRepo struct {
	mu       sync.Mutex
	records  map[string]*entity.Presence
	watchers map[string][]*presenceWatcher
	setCalls int
	failSet  bool
}

func newFakePresenceRepo() *fakePresenceRepo {
	return &fakePresenceRepo{
		records:  make(map[string]*entity.Presence),
		watchers: make(map[string][]*presenceWatcher),
	}
}

func (f *fakePresenceRepo) Set(ctx context.Context, presence *entity.Presence) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setCalls++
	if f.failSet {
		return fmt.Errorf("backend unavailable")
	}
	stored := *presence
	stored.LastSeenAt = time.Now() // stands in for the server-assigned timestamp
	f.records[presence.ParticipantID] = &stored
	for _, w := range f.watchers[presence.ParticipantID] {
		select {
		case w.ch <- &stored:
		default:
		}
	}
	return nil
}

func (f *fakePresenceRepo) GetByParticipantID(ctx context.Context, participantID string) (*entity.Presence, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	presence, ok := f.records[participantID]
	if !ok {
		return nil, errors.NotFound("Presence", nil)
	}
	return presence, nil
}

func (f *fakePresenceRepo) Watch(ctx context.Context, participantID string) (<-chan *entity.Presence, error) {
	w := &presenceWatcher{ch: make(chan *entity.Presence, 16)}

	f.mu.Lock()
	f.watchers[participantID] = append(f.watchers[participantID], w)
	f.mu.Unlock()

	go func() {
		<-ctx.Done()
		f.mu.Lock()
		watchers := f.watchers[participantID]
		for i, candidate := range watchers {
			if candidate == w {
				f.watchers[participantID] = append(watchers[:i], watchers[i+1:]...)
				break
			}
		}
		f.mu.Unlock()
		close(w.ch)
	}()

	return w.ch, nil
}

// pushFailure simulates the backend listener delivering an error.
func (f *fakePresenceRepo) pushFailure(participantID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, w := range f.watchers[participantID] {
		select {
		case w.ch <- nil:
		default:
		}
	}
}

func (f *fakePresenceRepo) countSetCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.setCalls
}

type typingWatcher struct {
	ch chan map[string]time.Time
}

type fakeConversationRepo struct {
	mu            sync.Mutex
	conversations map[string]*entity.Conversation
	messages      map[string][]*entity.Message
	watchers      map[string][]*typingWatcher
	nextID        int
}

func newFakeConversationRepo(conversations ...*entity.Conversation) *fakeConversationRepo {
	repo := &fakeConversationRepo{
		conversations: make(map[string]*entity.Conversation),
		messages:      make(map[string][]*entity.Message),
		watchers:      make(map[string][]*typingWatcher),
	}
	for _, c := range conversations {
		repo.conversations[c.ID] = c
	}
	return repo
}

func (f *fakeConversationRepo) Create(ctx context.Context, conversation *entity.Conversation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	conversation.ID = fmt.Sprintf("conv-%d", f.nextID)
	f.conversations[conversation.ID] = conversation
	return nil
}

func (f *fakeConversationRepo) GetByID(ctx context.Context, id string) (*entity.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	conversation, ok := f.conversations[id]
	if !ok {
		return nil, errors.NotFound("Conversation", nil)
	}
	return conversation, nil
}

func (f *fakeConversationRepo) ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.Conversation, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*entity.Conversation
	for _, conversation := range f.conversations {
		if conversation.HasParticipant(userID) {
			result = append(result, conversation)
		}
	}
	return result, int64(len(result)), nil
}

func (f *fakeConversationRepo) Update(ctx context.Context, conversation *entity.Conversation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.conversations[conversation.ID] = conversation
	return nil
}

func (f *fakeConversationRepo) CreateMessage(ctx context.Context, message *entity.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	message.ID = fmt.Sprintf("msg-%d", f.nextID)
	f.messages[message.ConversationID] = append(f.messages[message.ConversationID], message)
	return nil
}

func (f *fakeConversationRepo) GetMessagesByConversation(ctx context.Context, conversationID string, limit, offset int) ([]*entity.Message, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	messages := f.messages[conversationID]
	return messages, int64(len(messages)), nil
}

func (f *fakeConversationRepo) UpdateMessageReadStatus(ctx context.Context, conversationID, messageID, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, message := range f.messages[conversationID] {
		if message.ID == messageID {
			message.ReadBy = append(message.ReadBy, userID)
			return nil
		}
	}
	return errors.NotFound("Message", nil)
}

func (f *fakeConversationRepo) SetTyping(ctx context.Context, conversationID, participantID string, typing bool, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	conversation, ok := f.conversations[conversationID]
	if !ok {
		return errors.NotFound("Conversation", nil)
	}
	if conversation.Typing == nil {
		conversation.Typing = make(map[string]time.Time)
	}
	if typing {
		conversation.Typing[participantID] = at
	} else {
		delete(conversation.Typing, participantID)
	}
	snapshot := make(map[string]time.Time, len(conversation.Typing))
	for k, v := range conversation.Typing {
		snapshot[k] = v
	}
	for _, w := range f.watchers[conversationID] {
		select {
		case w.ch <- snapshot:
		default:
		}
	}
	return nil
}

func (f *fakeConversationRepo) WatchTyping(ctx context.Context, conversationID string) (<-chan map[string]time.Time, error) {
	w := &typingWatcher{ch: make(chan map[string]time.Time, 16)}

	f.mu.Lock()
	f.watchers[conversationID] = append(f.watchers[conversationID], w)
	f.mu.Unlock()

	go func() {
		<-ctx.Done()
		f.mu.Lock()
		watchers := f.watchers[conversationID]
		for i, candidate := range watchers {
			if candidate == w {
				f.watchers[conversationID] = append(watchers[:i], watchers[i+1:]...)
				break
			}
		}
		f.mu.Unlock()
		close(w.ch)
	}()

	return w.ch, nil
}

func (f *fakeConversationRepo) pushTypingFailure(conversationID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, w := range f.watchers[conversationID] {
		select {
		case w.ch <- nil:
		default:
		}
	}
}

func (f *fakeConversationRepo) typingSnapshot(conversationID string) map[string]time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	conversation := f.conversations[conversationID]
	snapshot := make(map[string]time.Time)
	if conversation == nil {
		return snapshot
	}
	for k, v := range conversation.Typing {
		snapshot[k] = v
	}
	return snapshot
}

type fakePhoneRequestRepo struct {
	mu       sync.Mutex
	requests map[string]*entity.PhoneRequest
	nextID   int
}

func newFakePhoneRequestRepo() *fakePhoneRequestRepo {
	return &fakePhoneRequestRepo{requests: make(map[string]*entity.PhoneRequest)}
}

func (f *fakePhoneRequestRepo) Create(ctx context.Context, request *entity.PhoneRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	request.ID = fmt.Sprintf("req-%d", f.nextID)
	f.requests[request.ID] = request
	return nil
}

func (f *fakePhoneRequestRepo) GetByID(ctx context.Context, id string) (*entity.PhoneRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	request, ok := f.requests[id]
	if !ok {
		return nil, errors.NotFound("Phone request", nil)
	}
	copied := *request
	return &copied, nil
}

func (f *fakePhoneRequestRepo) GetPendingByPair(ctx context.Context, requesterID, granterID string) (*entity.PhoneRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, request := range f.requests {
		if request.RequesterID == requesterID && request.GranterID == granterID && request.Status == entity.PhoneRequestPending {
			copied := *request
			return &copied, nil
		}
	}
	return nil, errors.NotFound("Phone request", nil)
}

func (f *fakePhoneRequestRepo) ListByRequester(ctx context.Context, requesterID string, limit, offset int) ([]*entity.PhoneRequest, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*entity.PhoneRequest
	for _, request := range f.requests {
		if request.RequesterID == requesterID {
			copied := *request
			result = append(result, &copied)
		}
	}
	return result, int64(len(result)), nil
}

func (f *fakePhoneRequestRepo) ListByGranter(ctx context.Context, granterID string, limit, offset int) ([]*entity.PhoneRequest, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*entity.PhoneRequest
	for _, request := range f.requests {
		if request.GranterID == granterID {
			copied := *request
			result = append(result, &copied)
		}
	}
	return result, int64(len(result)), nil
}

func (f *fakePhoneRequestRepo) Respond(ctx context.Context, id, status, phoneNumber string, respondedAt time.Time) (*entity.PhoneRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	request, ok := f.requests[id]
	if !ok {
		return nil, errors.NotFound("Phone request", nil)
	}
	if request.Status != entity.PhoneRequestPending {
		return nil, errors.InvalidStateTransition("Phone request has already been " + request.Status)
	}
	request.Status = status
	request.RespondedAt = &respondedAt
	if status == entity.PhoneRequestApproved {
		request.PhoneNumber = phoneNumber
	}
	copied := *request
	return &copied, nil
}

func (f *fakePhoneRequestRepo) BackfillPhoneNumber(ctx context.Context, id, phoneNumber string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	request, ok := f.requests[id]
	if !ok {
		return errors.NotFound("Phone request", nil)
	}
	request.PhoneNumber = phoneNumber
	return nil
}

// seed installs a request directly, bypassing Create.
func (f *fakePhoneRequestRepo) seed(request *entity.PhoneRequest) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests[request.ID] = request
}

func (f *fakePhoneRequestRepo) stored(id string) *entity.PhoneRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	request := f.requests[id]
	if request == nil {
		return nil
	}
	copied := *request
	return &copied
}

type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications []*entity.Notification
	failCreate    bool
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{}
}

func (f *fakeNotificationRepo) Create(ctx context.Context, notification *entity.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate {
		return fmt.Errorf("backend unavailable")
	}
	f.notifications = append(f.notifications, notification)
	return nil
}

func (f *fakeNotificationRepo) ListByUser(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]*entity.Notification, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*entity.Notification
	for _, notification := range f.notifications {
		if notification.UserID != userID {
			continue
		}
		if unreadOnly && notification.Read {
			continue
		}
		result = append(result, notification)
	}
	return result, int64(len(result)), nil
}

func (f *fakeNotificationRepo) MarkRead(ctx context.Context, userID, notificationID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, notification := range f.notifications {
		if notification.ID == notificationID && notification.UserID == userID {
			notification.Read = true
			return nil
		}
	}
	return errors.NotFound("Notification", nil)
}

func (f *fakeNotificationRepo) MarkAllRead(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, notification := range f.notifications {
		if notification.UserID == userID {
			notification.Read = true
		}
	}
	return nil
}

func (f *fakeNotificationRepo) forUser(userID string) []*entity.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*entity.Notification
	for _, notification := range f.notifications {
		if notification.UserID == userID {
			result = append(result, notification)
		}
	}
	return result
}

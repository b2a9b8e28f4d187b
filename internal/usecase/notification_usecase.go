package usecase

import (
	"context"
	"encoding/json"
	"log"

	"teachersgallery/internal/domain/entity"
	"teachersgallery/internal/domain/repository"
	ws "teachersgallery/internal/infrastructure/websocket"
)

type NotificationUseCase struct {
	notificationRepo repository.NotificationRepository
	wsManager        *ws.Manager
}

func NewNotificationUseCase(
	notificationRepo repository.NotificationRepository,
	wsManager *ws.Manager,
) *NotificationUseCase {
	return &NotificationUseCase{
		notificationRepo: notificationRepo,
		wsManager:        wsManager,
	}
}

// Notify stores a notification and pushes it over any live socket. Both steps
// are best effort; callers treat a failed notification as a delivery problem,
// not a reason to fail the operation that produced it.
func (uc *NotificationUseCase) Notify(ctx context.Context, userID, notificationType, title, body string, metadata map[string]interface{}) {
	notification := &entity.Notification{
		UserID:   userID,
		Type:     notificationType,
		Title:    title,
		Body:     body,
		Metadata: metadata,
	}

	if err := uc.notificationRepo.Create(ctx, notification); err != nil {
		log.Printf("Notify Error: Failed to store %s notification for user %s: %v", notificationType, userID, err)
		return
	}

	payload := map[string]interface{}{
		"type":         "notification",
		"notification": notification,
	}
	payloadJSON, _ := json.Marshal(payload)
	uc.wsManager.SendToUser(userID, payloadJSON)
}

func (uc *NotificationUseCase) ListForUser(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]*entity.Notification, int64, error) {
	notifications, total, err := uc.notificationRepo.ListByUser(ctx, userID, unreadOnly, limit, offset)
	if err != nil {
		log.Printf("ListForUser Error: Failed to list notifications for user %s: %v", userID, err)
		return nil, 0, err
	}
	return notifications, total, nil
}

func (uc *NotificationUseCase) MarkRead(ctx context.Context, userID, notificationID string) error {
	if err := uc.notificationRepo.MarkRead(ctx, userID, notificationID); err != nil {
		log.Printf("MarkRead Error: Failed to mark notification %s read for user %s: %v", notificationID, userID, err)
		return err
	}
	return nil
}

func (uc *NotificationUseCase) MarkAllRead(ctx context.Context, userID string) error {
	if err := uc.notificationRepo.MarkAllRead(ctx, userID); err != nil {
		log.Printf("MarkAllRead Error: Failed to mark all notifications read for user %s: %v", userID, err)
		return err
	}
	return nil
}

package notifications

import "context"

type StoreAPI interface {
	CreateNotification(ctx context.Context, userID, ntype, title, body string) error
	ListNotifications(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]Notification, error)
	CountNotifications(ctx context.Context, userID string, unreadOnly bool) (int, error)
	MarkRead(ctx context.Context, userID, notificationID string) (bool, error)
}

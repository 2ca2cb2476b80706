package notifications

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"
)

type Service struct {
	store StoreAPI
}

func New(store StoreAPI) *Service {
	return &Service{store: store}
}

// Notify records an in-app notification for userID. Title and body are
// trimmed and truncated to the column limits.
func (s *Service) Notify(ctx context.Context, userID, ntype, title, body string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return fmt.Errorf("notification recipient is required")
	}
	title = truncate(strings.TrimSpace(title), maxTitleLength)
	if title == "" {
		return fmt.Errorf("notification title is required")
	}
	if err := s.store.CreateNotification(ctx, userID, ntype, title, truncate(strings.TrimSpace(body), maxBodyLength)); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

func (s *Service) List(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]Notification, int, error) {
	items, err := s.store.ListNotifications(ctx, userID, unreadOnly, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.store.CountNotifications(ctx, userID, unreadOnly)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *Service) Unread(ctx context.Context, userID string) (int, error) {
	return s.store.CountNotifications(ctx, userID, true)
}

func (s *Service) MarkRead(ctx context.Context, userID, notificationID string) error {
	found, err := s.store.MarkRead(ctx, userID, notificationID)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}
	return nil
}

func truncate(value string, limit int) string {
	if utf8.RuneCountInString(value) <= limit {
		return value
	}
	runes := []rune(value)
	return string(runes[:limit])
}

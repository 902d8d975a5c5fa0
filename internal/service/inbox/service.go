// Package inbox serves the notification bell: it proxies the core API's
// notification store and enriches each record with a resolved deep link.
package inbox

import (
	"context"
	"errors"

	"github.com/Molemo21/ConnectSA-k9-sub014/internal/domain"
)

type InboxUseCase interface {
	List(ctx context.Context, userID string, role domain.Role) ([]Item, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, userID string) error
	Delete(ctx context.Context, id string) error
}

type Upstream interface {
	ListNotifications(ctx context.Context, userID string) ([]domain.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) error
	MarkAllNotificationsRead(ctx context.Context, userID string) error
	DeleteNotification(ctx context.Context, id string) error
}

type Resolver interface {
	Resolve(n domain.Notification, role domain.Role) domain.Action
}

// Item is a notification as rendered in the bell dropdown: the record itself
// with ActionURL filled in and a label for the action button.
type Item struct {
	domain.Notification
	ActionText string `json:"action_text"`
}

type InboxService struct {
	upstream Upstream
	resolver Resolver
}

func NewInboxService(up Upstream, resolver Resolver) *InboxService {
	return &InboxService{upstream: up, resolver: resolver}
}

func (s *InboxService) List(ctx context.Context, userID string, role domain.Role) ([]Item, error) {
	if userID == "" {
		return nil, errors.New("user id is required")
	}

	notifications, err := s.upstream.ListNotifications(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(notifications))
	for _, n := range notifications {
		action := s.resolver.Resolve(n, role)
		n.ActionURL = action.URL
		items = append(items, Item{Notification: n, ActionText: action.Label})
	}
	return items, nil
}

func (s *InboxService) MarkRead(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("notification id is required")
	}
	return s.upstream.MarkNotificationRead(ctx, id)
}

func (s *InboxService) MarkAllRead(ctx context.Context, userID string) error {
	if userID == "" {
		return errors.New("user id is required")
	}
	return s.upstream.MarkAllNotificationsRead(ctx, userID)
}

func (s *InboxService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("notification id is required")
	}
	return s.upstream.DeleteNotification(ctx, id)
}

var _ InboxUseCase = (*InboxService)(nil)

package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/repvision/repvision-api/internal/notification"
	"github.com/repvision/repvision-api/internal/push"
	"github.com/repvision/repvision-api/internal/store"
	"github.com/repvision/repvision-api/internal/store/model"
)

type NotificationService struct {
	store      store.Store
	dispatcher *notification.Dispatcher
}

func NewNotificationService(store store.Store, dispatcher *notification.Dispatcher) *NotificationService {
	return &NotificationService{
		store:      store,
		dispatcher: dispatcher,
	}
}

// Notify writes the durable notification row for the given user and hands a
// push request to the background dispatcher. The row is the source of truth;
// push delivery is best effort and its failure is invisible to the caller.
func (n *NotificationService) Notify(ctx context.Context, user model.User, title, message string, relatedJobID *int64) (*model.Notification, error) {
	created, err := n.store.Notification().Create(ctx, model.Notification{
		UserID:       user.ID,
		Title:        title,
		Message:      message,
		RelatedJobID: relatedJobID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	if user.PushToken == nil || *user.PushToken == "" {
		zap.S().Named("notification_service").Debugw("no push token registered, skipping push", "user_id", user.ID)
		return created, nil
	}

	n.dispatcher.Enqueue(push.Notification{
		Token:        *user.PushToken,
		Title:        title,
		Body:         message,
		RelatedJobID: relatedJobID,
	})
	return created, nil
}

// ListUnread returns the caller's unread notifications, newest first.
func (n *NotificationService) ListUnread(ctx context.Context) (model.NotificationList, error) {
	user, err := currentUser(ctx, n.store)
	if err != nil {
		return nil, err
	}

	filter := store.NewNotificationQueryFilter().ByUserID(user.ID).ByRead(false)
	opts := store.NewNotificationQueryOptions().WithSortOrder(store.SortByCreatedTimeDesc)
	return n.store.Notification().List(ctx, filter, opts)
}

// MarkRead marks a notification read on behalf of the caller. Acting on
// another user's notification is a permission error and changes nothing.
func (n *NotificationService) MarkRead(ctx context.Context, id int64) error {
	user, err := currentUser(ctx, n.store)
	if err != nil {
		return err
	}

	existing, err := n.store.Notification().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return NewErrNotificationNotFound(id)
		}
		return err
	}
	if existing.UserID != user.ID {
		return NewErrPermissionDenied(fmt.Sprintf("notification %d does not belong to the caller", id))
	}

	return n.store.Notification().MarkRead(ctx, id)
}

func (n *NotificationService) UnreadCount(ctx context.Context) (int64, error) {
	user, err := currentUser(ctx, n.store)
	if err != nil {
		return 0, err
	}
	return n.store.Notification().CountUnread(ctx, user.ID)
}

package store

import (
	"context"
	"errors"

	"github.com/repvision/repvision-api/internal/store/model"
	"gorm.io/gorm"
)

type Notification interface {
	Create(ctx context.Context, notification model.Notification) (*model.Notification, error)
	Get(ctx context.Context, id int64) (*model.Notification, error)
	List(ctx context.Context, filter *NotificationQueryFilter, opts *NotificationQueryOptions) (model.NotificationList, error)
	MarkRead(ctx context.Context, id int64) error
	CountUnread(ctx context.Context, userID int64) (int64, error)
	InitialMigration(ctx context.Context) error
}

type NotificationStore struct {
	db *gorm.DB
}

// Make sure we conform to Notification interface
var _ Notification = (*NotificationStore)(nil)

func NewNotification(db *gorm.DB) Notification {
	return &NotificationStore{db: db}
}

func (n *NotificationStore) InitialMigration(ctx context.Context) error {
	return n.getDB(ctx).AutoMigrate(&model.Notification{})
}

func (n *NotificationStore) Create(ctx context.Context, notification model.Notification) (*model.Notification, error) {
	result := n.getDB(ctx).Create(&notification)
	if result.Error != nil {
		return nil, result.Error
	}
	return &notification, nil
}

func (n *NotificationStore) Get(ctx context.Context, id int64) (*model.Notification, error) {
	notification := model.Notification{ID: id}
	result := n.getDB(ctx).First(&notification)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, result.Error
	}
	return &notification, nil
}

func (n *NotificationStore) List(ctx context.Context, filter *NotificationQueryFilter, opts *NotificationQueryOptions) (model.NotificationList, error) {
	var notifications model.NotificationList

	tx := n.getDB(ctx).Model(&model.Notification{})
	if filter != nil {
		for _, fn := range filter.QueryFn {
			tx = fn(tx)
		}
	}
	if opts != nil {
		for _, fn := range opts.QueryFn {
			tx = fn(tx)
		}
	}

	if result := tx.Find(&notifications); result.Error != nil {
		return nil, result.Error
	}
	return notifications, nil
}

func (n *NotificationStore) MarkRead(ctx context.Context, id int64) error {
	result := n.getDB(ctx).
		Model(&model.Notification{}).
		Where("id = ?", id).
		Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (n *NotificationStore) CountUnread(ctx context.Context, userID int64) (int64, error) {
	var count int64
	result := n.getDB(ctx).
		Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}
	return count, nil
}

func (n *NotificationStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return n.db
}

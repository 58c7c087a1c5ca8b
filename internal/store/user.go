package store

import (
	"context"
	"errors"

	"github.com/repvision/repvision-api/internal/store/model"
	"gorm.io/gorm"
)

type User interface {
	Create(ctx context.Context, user model.User) (*model.User, error)
	Get(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	UpdatePushToken(ctx context.Context, id int64, pushToken string) error
	InitialMigration(ctx context.Context) error
}

type UserStore struct {
	db *gorm.DB
}

// Make sure we conform to User interface
var _ User = (*UserStore)(nil)

func NewUser(db *gorm.DB) User {
	return &UserStore{db: db}
}

func (u *UserStore) InitialMigration(ctx context.Context) error {
	return u.getDB(ctx).AutoMigrate(&model.User{})
}

func (u *UserStore) Create(ctx context.Context, user model.User) (*model.User, error) {
	result := u.getDB(ctx).Create(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, result.Error
	}
	return &user, nil
}

func (u *UserStore) Get(ctx context.Context, id int64) (*model.User, error) {
	user := model.User{ID: id}
	result := u.getDB(ctx).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, result.Error
	}
	return &user, nil
}

func (u *UserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	result := u.getDB(ctx).Where("email = ?", email).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, result.Error
	}
	return &user, nil
}

func (u *UserStore) UpdatePushToken(ctx context.Context, id int64, pushToken string) error {
	result := u.getDB(ctx).Model(&model.User{ID: id}).Update("push_token", pushToken)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ErrDuplicateKey
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (u *UserStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return u.db
}

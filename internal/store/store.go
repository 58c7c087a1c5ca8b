package store

import (
	"context"

	"gorm.io/gorm"
)

type Store interface {
	NewTransactionContext(ctx context.Context) (context.Context, error)
	User() User
	Job() Job
	Notification() Notification
	InitialMigration(ctx context.Context) error
	Close() error
}

type DataStore struct {
	db           *gorm.DB
	user         User
	job          Job
	notification Notification
}

func NewStore(db *gorm.DB) Store {
	return &DataStore{
		user:         NewUser(db),
		job:          NewJob(db),
		notification: NewNotification(db),
		db:           db,
	}
}

func (s *DataStore) NewTransactionContext(ctx context.Context) (context.Context, error) {
	return newTransactionContext(ctx, s.db)
}

func (s *DataStore) User() User {
	return s.user
}

func (s *DataStore) Job() Job {
	return s.job
}

func (s *DataStore) Notification() Notification {
	return s.notification
}

func (s *DataStore) InitialMigration(ctx context.Context) error {
	if err := s.User().InitialMigration(ctx); err != nil {
		return err
	}
	if err := s.Job().InitialMigration(ctx); err != nil {
		return err
	}
	return s.Notification().InitialMigration(ctx)
}

func (s *DataStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

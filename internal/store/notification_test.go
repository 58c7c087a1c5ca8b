package store_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/repvision/repvision-api/internal/config"
	"github.com/repvision/repvision-api/internal/store"
	"github.com/repvision/repvision-api/internal/store/model"
)

var _ = Describe("notification store", Ordered, func() {
	var (
		s      store.Store
		gormdb *gorm.DB
		owner  *model.User
	)

	notify := func(title string) *model.Notification {
		n, err := s.Notification().Create(context.TODO(), model.Notification{
			UserID:  owner.ID,
			Title:   title,
			Message: "message",
		})
		Expect(err).To(BeNil())
		return n
	}

	BeforeAll(func() {
		db, err := store.InitDB(config.NewDefault())
		Expect(err).To(BeNil())

		s = store.NewStore(db)
		gormdb = db

		Expect(s.InitialMigration(context.TODO())).To(Succeed())
	})

	AfterAll(func() {
		s.Close()
	})

	BeforeEach(func() {
		var err error
		owner, err = s.User().Create(context.TODO(), model.User{Email: "jamie@example.com", FullName: "Jamie", PasswordHash: "h"})
		Expect(err).To(BeNil())
	})

	AfterEach(func() {
		gormdb.Exec("DELETE FROM notifications;")
		gormdb.Exec("DELETE FROM users;")
	})

	Context("list", func() {
		It("lists unread newest first", func() {
			first := notify("first")
			gormdb.Exec("UPDATE notifications SET created_at = ? WHERE id = ?", time.Now().UTC().Add(-time.Hour), first.ID)
			second := notify("second")

			read := notify("read")
			Expect(s.Notification().MarkRead(context.TODO(), read.ID)).To(Succeed())

			notifications, err := s.Notification().List(context.TODO(),
				store.NewNotificationQueryFilter().ByUserID(owner.ID).ByRead(false),
				store.NewNotificationQueryOptions().WithSortOrder(store.SortByCreatedTimeDesc))
			Expect(err).To(BeNil())
			Expect(notifications).To(HaveLen(2))
			Expect(notifications[0].ID).To(Equal(second.ID))
			Expect(notifications[1].ID).To(Equal(first.ID))
		})
	})

	Context("mark read", func() {
		It("marks a notification as read", func() {
			n := notify("title")
			Expect(n.IsRead).To(BeFalse())

			Expect(s.Notification().MarkRead(context.TODO(), n.ID)).To(Succeed())

			stored, err := s.Notification().Get(context.TODO(), n.ID)
			Expect(err).To(BeNil())
			Expect(stored.IsRead).To(BeTrue())
		})

		It("returns not found for an unknown id", func() {
			err := s.Notification().MarkRead(context.TODO(), 4242)
			Expect(err).To(MatchError(store.ErrRecordNotFound))
		})
	})

	Context("count", func() {
		It("counts only unread notifications", func() {
			notify("one")
			notify("two")
			read := notify("three")
			Expect(s.Notification().MarkRead(context.TODO(), read.ID)).To(Succeed())

			count, err := s.Notification().CountUnread(context.TODO(), owner.ID)
			Expect(err).To(BeNil())
			Expect(count).To(Equal(int64(2)))
		})
	})
})

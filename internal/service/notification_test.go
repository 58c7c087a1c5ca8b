package service_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/repvision/repvision-api/internal/auth"
	"github.com/repvision/repvision-api/internal/config"
	"github.com/repvision/repvision-api/internal/notification"
	"github.com/repvision/repvision-api/internal/service"
	"github.com/repvision/repvision-api/internal/store"
	"github.com/repvision/repvision-api/internal/store/model"
)

var _ = Describe("notification service", Ordered, func() {
	var (
		s          store.Store
		gormdb     *gorm.DB
		dispatcher *notification.Dispatcher
		srv        *service.NotificationService
		owner      *model.User
		other      *model.User
		ownerCtx   context.Context
		otherCtx   context.Context
	)

	BeforeAll(func() {
		db, err := store.InitDB(config.NewDefault())
		Expect(err).To(BeNil())

		s = store.NewStore(db)
		gormdb = db

		Expect(s.InitialMigration(context.TODO())).To(Succeed())

		dispatcher = notification.NewDispatcher(&fakePushClient{})
		srv = service.NewNotificationService(s, dispatcher)
	})

	AfterAll(func() {
		dispatcher.Close()
		s.Close()
	})

	BeforeEach(func() {
		var err error
		owner, err = s.User().Create(context.TODO(), model.User{Email: "jamie@example.com", FullName: "Jamie", PasswordHash: "h"})
		Expect(err).To(BeNil())
		other, err = s.User().Create(context.TODO(), model.User{Email: "alex@example.com", FullName: "Alex", PasswordHash: "h"})
		Expect(err).To(BeNil())

		ownerCtx = auth.NewUserContext(context.TODO(), auth.User{Email: owner.Email})
		otherCtx = auth.NewUserContext(context.TODO(), auth.User{Email: other.Email})
	})

	AfterEach(func() {
		gormdb.Exec("DELETE FROM notifications;")
		gormdb.Exec("DELETE FROM users;")
	})

	Context("mark read", func() {
		It("marks the caller's notification", func() {
			n, err := srv.Notify(context.TODO(), *owner, "title", "message", nil)
			Expect(err).To(BeNil())

			Expect(srv.MarkRead(ownerCtx, n.ID)).To(Succeed())

			count, err := srv.UnreadCount(ownerCtx)
			Expect(err).To(BeNil())
			Expect(count).To(BeZero())
		})

		It("denies cross-user access and changes nothing", func() {
			n, err := srv.Notify(context.TODO(), *owner, "title", "message", nil)
			Expect(err).To(BeNil())

			err = srv.MarkRead(otherCtx, n.ID)
			Expect(err).To(BeAssignableToTypeOf(&service.ErrPermissionDenied{}))

			stored, err := s.Notification().Get(context.TODO(), n.ID)
			Expect(err).To(BeNil())
			Expect(stored.IsRead).To(BeFalse())
		})

		It("returns not found for an unknown id", func() {
			err := srv.MarkRead(ownerCtx, 4242)
			Expect(err).To(BeAssignableToTypeOf(&service.ErrResourceNotFound{}))
		})
	})

	Context("listing", func() {
		It("lists only the caller's unread notifications", func() {
			_, err := srv.Notify(context.TODO(), *owner, "for owner", "message", nil)
			Expect(err).To(BeNil())
			_, err = srv.Notify(context.TODO(), *other, "for other", "message", nil)
			Expect(err).To(BeNil())

			notifications, err := srv.ListUnread(ownerCtx)
			Expect(err).To(BeNil())
			Expect(notifications).To(HaveLen(1))
			Expect(notifications[0].Title).To(Equal("for owner"))
		})
	})
})

package store_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/repvision/repvision-api/internal/config"
	"github.com/repvision/repvision-api/internal/store"
	"github.com/repvision/repvision-api/internal/store/model"
)

var _ = Describe("user store", Ordered, func() {
	var (
		s      store.Store
		gormdb *gorm.DB
	)

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

	AfterEach(func() {
		gormdb.Exec("DELETE FROM users;")
	})

	Context("create", func() {
		It("successfully creates a user", func() {
			user, err := s.User().Create(context.TODO(), model.User{
				FullName:     "Jamie Doe",
				Email:        "jamie@example.com",
				PasswordHash: "hash",
			})
			Expect(err).To(BeNil())
			Expect(user.ID).NotTo(BeZero())
			Expect(user.Email).To(Equal("jamie@example.com"))
		})

		It("rejects a duplicated email", func() {
			_, err := s.User().Create(context.TODO(), model.User{Email: "jamie@example.com", FullName: "Jamie", PasswordHash: "h"})
			Expect(err).To(BeNil())

			_, err = s.User().Create(context.TODO(), model.User{Email: "jamie@example.com", FullName: "Other", PasswordHash: "h"})
			Expect(err).To(MatchError(store.ErrDuplicateKey))
		})
	})

	Context("get", func() {
		It("finds a user by email", func() {
			created, err := s.User().Create(context.TODO(), model.User{Email: "jamie@example.com", FullName: "Jamie", PasswordHash: "h"})
			Expect(err).To(BeNil())

			user, err := s.User().GetByEmail(context.TODO(), "jamie@example.com")
			Expect(err).To(BeNil())
			Expect(user.ID).To(Equal(created.ID))
		})

		It("returns not found for an unknown email", func() {
			_, err := s.User().GetByEmail(context.TODO(), "nobody@example.com")
			Expect(err).To(MatchError(store.ErrRecordNotFound))
		})

		It("returns not found for an unknown id", func() {
			_, err := s.User().Get(context.TODO(), 42)
			Expect(err).To(MatchError(store.ErrRecordNotFound))
		})
	})

	Context("push token", func() {
		It("stores the push token", func() {
			created, err := s.User().Create(context.TODO(), model.User{Email: "jamie@example.com", FullName: "Jamie", PasswordHash: "h"})
			Expect(err).To(BeNil())

			Expect(s.User().UpdatePushToken(context.TODO(), created.ID, "ExponentPushToken[abc]")).To(Succeed())

			user, err := s.User().Get(context.TODO(), created.ID)
			Expect(err).To(BeNil())
			Expect(user.PushToken).NotTo(BeNil())
			Expect(*user.PushToken).To(Equal("ExponentPushToken[abc]"))
		})

		It("returns not found for an unknown user", func() {
			err := s.User().UpdatePushToken(context.TODO(), 42, "token")
			Expect(err).To(MatchError(store.ErrRecordNotFound))
		})
	})
})

package store_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/repvision/repvision-api/internal/config"
	st "github.com/repvision/repvision-api/internal/store"
	"github.com/repvision/repvision-api/internal/store/model"
)

var _ = Describe("store", Ordered, func() {
	var (
		s      st.Store
		gormdb *gorm.DB
	)

	BeforeAll(func() {
		db, err := st.InitDB(config.NewDefault())
		Expect(err).To(BeNil())

		s = st.NewStore(db)
		gormdb = db

		Expect(s.InitialMigration(context.TODO())).To(Succeed())
	})

	AfterAll(func() {
		s.Close()
	})

	AfterEach(func() {
		gormdb.Exec("DELETE FROM users;")
	})

	Context("transaction", func() {
		It("commits a user successfully", func() {
			ctx, err := s.NewTransactionContext(context.TODO())
			Expect(err).To(BeNil())

			_, err = s.User().Create(ctx, model.User{Email: "jamie@example.com", FullName: "Jamie", PasswordHash: "h"})
			Expect(err).To(BeNil())

			// the write is visible through the transaction before commit
			count := int64(0)
			Expect(st.FromContext(ctx).Model(&model.User{}).Count(&count).Error).To(BeNil())
			Expect(count).To(Equal(int64(1)))

			_, err = st.Commit(ctx)
			Expect(err).To(BeNil())

			Expect(gormdb.Model(&model.User{}).Count(&count).Error).To(BeNil())
			Expect(count).To(Equal(int64(1)))
		})

		It("rolls back a user successfully", func() {
			ctx, err := s.NewTransactionContext(context.TODO())
			Expect(err).To(BeNil())

			_, err = s.User().Create(ctx, model.User{Email: "jamie@example.com", FullName: "Jamie", PasswordHash: "h"})
			Expect(err).To(BeNil())

			_, err = st.Rollback(ctx)
			Expect(err).To(BeNil())

			count := int64(0)
			Expect(gormdb.Model(&model.User{}).Count(&count).Error).To(BeNil())
			Expect(count).To(BeZero())
		})
	})
})

package service_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/repvision/repvision-api/internal/auth"
	"github.com/repvision/repvision-api/internal/config"
	"github.com/repvision/repvision-api/internal/service"
	"github.com/repvision/repvision-api/internal/store"
)

var _ = Describe("user service", Ordered, func() {
	var (
		s       store.Store
		gormdb  *gorm.DB
		issuer  *auth.LocalAuthenticator
		userSrv *service.UserService
	)

	BeforeAll(func() {
		db, err := store.InitDB(config.NewDefault())
		Expect(err).To(BeNil())

		s = store.NewStore(db)
		gormdb = db

		Expect(s.InitialMigration(context.TODO())).To(Succeed())

		issuer, err = auth.NewLocalAuthenticator("test-secret")
		Expect(err).To(BeNil())
	})

	AfterAll(func() {
		s.Close()
	})

	BeforeEach(func() {
		userSrv = service.NewUserService(s, issuer, time.Hour)
	})

	AfterEach(func() {
		gormdb.Exec("DELETE FROM users;")
	})

	Context("register", func() {
		It("creates a user with a hashed password", func() {
			user, err := userSrv.Register(context.TODO(), "Jamie Doe", "jamie@example.com", "s3cretpass")
			Expect(err).To(BeNil())
			Expect(user.Email).To(Equal("jamie@example.com"))
			Expect(user.PasswordHash).NotTo(Equal("s3cretpass"))
		})

		It("rejects a taken email", func() {
			_, err := userSrv.Register(context.TODO(), "Jamie", "jamie@example.com", "s3cretpass")
			Expect(err).To(BeNil())

			_, err = userSrv.Register(context.TODO(), "Other", "jamie@example.com", "otherpass")
			Expect(err).To(BeAssignableToTypeOf(&service.ErrEmailTaken{}))
		})
	})

	Context("login", func() {
		It("issues a token verifiable by the authenticator", func() {
			_, err := userSrv.Register(context.TODO(), "Jamie", "jamie@example.com", "s3cretpass")
			Expect(err).To(BeNil())

			token, err := userSrv.Login(context.TODO(), "jamie@example.com", "s3cretpass")
			Expect(err).To(BeNil())
			Expect(token).NotTo(BeEmpty())

			identity, err := issuer.Authenticate(token)
			Expect(err).To(BeNil())
			Expect(identity.Email).To(Equal("jamie@example.com"))
		})

		It("rejects a wrong password", func() {
			_, err := userSrv.Register(context.TODO(), "Jamie", "jamie@example.com", "s3cretpass")
			Expect(err).To(BeNil())

			_, err = userSrv.Login(context.TODO(), "jamie@example.com", "wrongpass")
			Expect(err).To(BeAssignableToTypeOf(&service.ErrInvalidCredentials{}))
		})

		It("rejects an unknown email", func() {
			_, err := userSrv.Login(context.TODO(), "ghost@example.com", "whatever")
			Expect(err).To(BeAssignableToTypeOf(&service.ErrInvalidCredentials{}))
		})
	})

	Context("push token", func() {
		It("registers the caller's push token", func() {
			user, err := userSrv.Register(context.TODO(), "Jamie", "jamie@example.com", "s3cretpass")
			Expect(err).To(BeNil())

			ctx := auth.NewUserContext(context.TODO(), auth.User{Email: user.Email})
			Expect(userSrv.RegisterPushToken(ctx, "ExponentPushToken[abc]")).To(Succeed())

			stored, err := s.User().Get(context.TODO(), user.ID)
			Expect(err).To(BeNil())
			Expect(*stored.PushToken).To(Equal("ExponentPushToken[abc]"))
		})

		It("rejects a token bound to another account", func() {
			first, err := userSrv.Register(context.TODO(), "Jamie", "jamie@example.com", "s3cretpass")
			Expect(err).To(BeNil())
			firstCtx := auth.NewUserContext(context.TODO(), auth.User{Email: first.Email})
			Expect(userSrv.RegisterPushToken(firstCtx, "ExponentPushToken[abc]")).To(Succeed())

			second, err := userSrv.Register(context.TODO(), "Alex", "alex@example.com", "s3cretpass")
			Expect(err).To(BeNil())
			secondCtx := auth.NewUserContext(context.TODO(), auth.User{Email: second.Email})

			err = userSrv.RegisterPushToken(secondCtx, "ExponentPushToken[abc]")
			Expect(err).To(BeAssignableToTypeOf(&service.ErrPushTokenTaken{}))
		})
	})
})

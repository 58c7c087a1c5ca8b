package service_test

import (
	"context"
	"errors"
	"time"

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

var _ = Describe("job service", Ordered, func() {
	var (
		s          store.Store
		gormdb     *gorm.DB
		publisher  *fakePublisher
		pushClient *fakePushClient
		dispatcher *notification.Dispatcher
		jobSrv     *service.JobService
		owner      *model.User
		ownerCtx   context.Context
	)

	BeforeAll(func() {
		db, err := store.InitDB(config.NewDefault())
		Expect(err).To(BeNil())

		s = store.NewStore(db)
		gormdb = db

		Expect(s.InitialMigration(context.TODO())).To(Succeed())
	})

	AfterAll(func() {
		dispatcher.Close()
		s.Close()
	})

	BeforeEach(func() {
		publisher = &fakePublisher{}
		pushClient = &fakePushClient{}
		if dispatcher != nil {
			dispatcher.Close()
		}
		dispatcher = notification.NewDispatcher(pushClient)

		notificationSrv := service.NewNotificationService(s, dispatcher)
		jobSrv = service.NewJobService(s, publisher, notificationSrv, 10*time.Minute)

		var err error
		owner, err = s.User().Create(context.TODO(), model.User{Email: "jamie@example.com", FullName: "Jamie", PasswordHash: "h"})
		Expect(err).To(BeNil())
		ownerCtx = auth.NewUserContext(context.TODO(), auth.User{Email: owner.Email})
	})

	AfterEach(func() {
		gormdb.Exec("DELETE FROM notifications;")
		gormdb.Exec("DELETE FROM analysis_jobs;")
		gormdb.Exec("DELETE FROM users;")
	})

	Context("submit", func() {
		It("persists a pending job and publishes its dispatch message", func() {
			job, err := jobSrv.Submit(ownerCtx, "Squat", "https://cdn.example.com/v/1.mp4")
			Expect(err).To(BeNil())
			Expect(job.Status).To(Equal(model.JobStatusPending))
			Expect(job.CompletedAt).To(BeNil())

			messages := publisher.published()
			Expect(messages).To(HaveLen(1))
			Expect(messages[0].JobID).To(Equal(job.ID))
			Expect(messages[0].VideoUrl).To(Equal("https://cdn.example.com/v/1.mp4"))
			Expect(messages[0].ExerciseName).To(Equal("Squat"))
		})

		It("keeps the job pending when the queue is down", func() {
			publisher.err = errors.New("broker unreachable")

			_, err := jobSrv.Submit(ownerCtx, "Squat", "https://cdn.example.com/v/1.mp4")
			Expect(err).To(BeAssignableToTypeOf(&service.ErrQueueUnavailable{}))

			jobs, err := s.Job().List(context.TODO(), store.NewJobQueryFilter().ByUserID(owner.ID), nil)
			Expect(err).To(BeNil())
			Expect(jobs).To(HaveLen(1))
			Expect(jobs[0].Status).To(Equal(model.JobStatusPending))
		})

		It("rejects empty fields before touching the store", func() {
			_, err := jobSrv.Submit(ownerCtx, "", "https://cdn.example.com/v/1.mp4")
			Expect(err).To(BeAssignableToTypeOf(&service.ErrInvalidRequest{}))

			_, err = jobSrv.Submit(ownerCtx, "Squat", "")
			Expect(err).To(BeAssignableToTypeOf(&service.ErrInvalidRequest{}))

			jobs, err := s.Job().List(context.TODO(), nil, nil)
			Expect(err).To(BeNil())
			Expect(jobs).To(BeEmpty())
		})

		It("rejects an unknown identity", func() {
			ctx := auth.NewUserContext(context.TODO(), auth.User{Email: "ghost@example.com"})
			_, err := jobSrv.Submit(ctx, "Squat", "https://cdn.example.com/v/1.mp4")
			Expect(err).To(BeAssignableToTypeOf(&service.ErrResourceNotFound{}))
		})
	})

	Context("result ingestion", func() {
		It("completes the job and notifies the owner exactly once", func() {
			job, err := jobSrv.Submit(ownerCtx, "Squat", "https://cdn.example.com/v/1.mp4")
			Expect(err).To(BeNil())

			Expect(jobSrv.IngestResult(context.TODO(), job.ID, 8, 2, "watch your knees")).To(Succeed())

			stored, err := s.Job().Get(context.TODO(), job.ID)
			Expect(err).To(BeNil())
			Expect(stored.Status).To(Equal(model.JobStatusCompleted))
			Expect(*stored.CorrectReps).To(Equal(8))
			Expect(*stored.WrongReps).To(Equal(2))
			Expect(*stored.Feedback).To(Equal("watch your knees"))
			Expect(stored.CompletedAt).NotTo(BeNil())

			notifications, err := s.Notification().List(context.TODO(), store.NewNotificationQueryFilter().ByUserID(owner.ID), nil)
			Expect(err).To(BeNil())
			Expect(notifications).To(HaveLen(1))
			Expect(*notifications[0].RelatedJobID).To(Equal(job.ID))
		})

		It("is idempotent for repeated identical results", func() {
			job, err := jobSrv.Submit(ownerCtx, "Squat", "https://cdn.example.com/v/1.mp4")
			Expect(err).To(BeNil())

			for i := 0; i < 5; i++ {
				Expect(jobSrv.IngestResult(context.TODO(), job.ID, 8, 2, "ok")).To(Succeed())
			}

			notifications, err := s.Notification().List(context.TODO(), store.NewNotificationQueryFilter().ByUserID(owner.ID), nil)
			Expect(err).To(BeNil())
			Expect(notifications).To(HaveLen(1))
		})

		It("keeps the first result on divergent reports", func() {
			job, err := jobSrv.Submit(ownerCtx, "Squat", "https://cdn.example.com/v/1.mp4")
			Expect(err).To(BeNil())

			Expect(jobSrv.IngestResult(context.TODO(), job.ID, 8, 2, "first")).To(Succeed())
			Expect(jobSrv.IngestResult(context.TODO(), job.ID, 1, 9, "second")).To(Succeed())

			stored, err := s.Job().Get(context.TODO(), job.ID)
			Expect(err).To(BeNil())
			Expect(*stored.CorrectReps).To(Equal(8))
			Expect(*stored.Feedback).To(Equal("first"))

			notifications, err := s.Notification().List(context.TODO(), store.NewNotificationQueryFilter().ByUserID(owner.ID), nil)
			Expect(err).To(BeNil())
			Expect(notifications).To(HaveLen(1))
		})

		It("rejects an unknown job id without creating state", func() {
			err := jobSrv.IngestResult(context.TODO(), 4242, 8, 2, "x")
			Expect(err).To(BeAssignableToTypeOf(&service.ErrResourceNotFound{}))

			notifications, err := s.Notification().List(context.TODO(), nil, nil)
			Expect(err).To(BeNil())
			Expect(notifications).To(BeEmpty())
		})

		It("pushes to a registered device", func() {
			token := "ExponentPushToken[abc]"
			Expect(s.User().UpdatePushToken(context.TODO(), owner.ID, token)).To(Succeed())

			job, err := jobSrv.Submit(ownerCtx, "Squat", "https://cdn.example.com/v/1.mp4")
			Expect(err).To(BeNil())

			Expect(jobSrv.IngestResult(context.TODO(), job.ID, 8, 2, "ok")).To(Succeed())

			Eventually(pushClient.sent).Should(HaveLen(1))
			Expect(pushClient.sent()[0].Token).To(Equal(token))
			Expect(*pushClient.sent()[0].RelatedJobID).To(Equal(job.ID))
		})
	})

	Context("queries", func() {
		It("runs the pipeline end to end", func() {
			job, err := jobSrv.Submit(ownerCtx, "Squat", "https://cdn.example.com/v/1.mp4")
			Expect(err).To(BeNil())
			Expect(jobSrv.IngestResult(context.TODO(), job.ID, 8, 2, "ok")).To(Succeed())

			counts, err := jobSrv.Categories(ownerCtx)
			Expect(err).To(BeNil())
			Expect(counts).To(HaveLen(1))
			Expect(counts[0].ExerciseName).To(Equal("Squat"))

			completed, err := jobSrv.CompletedVideos(ownerCtx, "Squat", 0, 10)
			Expect(err).To(BeNil())
			Expect(completed).To(HaveLen(1))
			Expect(completed[0].ID).To(Equal(job.ID))

			stats, err := jobSrv.Summary(ownerCtx)
			Expect(err).To(BeNil())
			Expect(stats.TotalCompleted).To(Equal(int64(1)))
			Expect(stats.Accuracy()).To(BeNumerically("==", 80.0))
		})

		It("reports zero accuracy without completed reps", func() {
			stats, err := jobSrv.Summary(ownerCtx)
			Expect(err).To(BeNil())
			Expect(stats.Accuracy()).To(BeZero())
		})

		It("excludes pending jobs from the completed listing", func() {
			_, err := jobSrv.Submit(ownerCtx, "Squat", "https://cdn.example.com/v/1.mp4")
			Expect(err).To(BeNil())

			completed, err := jobSrv.CompletedVideos(ownerCtx, "", 0, 10)
			Expect(err).To(BeNil())
			Expect(completed).To(BeEmpty())
		})
	})

	Context("stale pending", func() {
		It("surfaces jobs stuck in pending", func() {
			job, err := jobSrv.Submit(ownerCtx, "Squat", "https://cdn.example.com/v/1.mp4")
			Expect(err).To(BeNil())
			gormdb.Exec("UPDATE analysis_jobs SET created_at = ? WHERE id = ?", time.Now().UTC().Add(-time.Hour), job.ID)

			stale, err := jobSrv.StalePending(context.TODO(), 30*time.Minute)
			Expect(err).To(BeNil())
			Expect(stale).To(HaveLen(1))
			Expect(stale[0].ID).To(Equal(job.ID))
		})

		It("ignores completed jobs", func() {
			job, err := jobSrv.Submit(ownerCtx, "Squat", "https://cdn.example.com/v/1.mp4")
			Expect(err).To(BeNil())
			Expect(jobSrv.IngestResult(context.TODO(), job.ID, 8, 2, "ok")).To(Succeed())
			gormdb.Exec("UPDATE analysis_jobs SET created_at = ? WHERE id = ?", time.Now().UTC().Add(-time.Hour), job.ID)

			stale, err := jobSrv.StalePending(context.TODO(), 30*time.Minute)
			Expect(err).To(BeNil())
			Expect(stale).To(BeEmpty())
		})
	})
})

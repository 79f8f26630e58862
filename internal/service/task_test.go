package service_test

import (
	"context"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/acadflow/syllabus-planner/internal/config"
	"github.com/acadflow/syllabus-planner/internal/service"
	"github.com/acadflow/syllabus-planner/internal/store"
	"github.com/acadflow/syllabus-planner/internal/store/model"
	"github.com/acadflow/syllabus-planner/internal/tasks"
)

var _ = Describe("task service", Ordered, func() {
	var (
		s      store.Store
		gormdb *gorm.DB
		queue  *tasks.ChannelQueue
		srv    *service.TaskService
	)

	BeforeAll(func() {
		db, err := store.InitDB(config.NewDefault())
		Expect(err).To(BeNil())

		s = store.NewStore(db)
		gormdb = db
		Expect(s.InitialMigration()).To(BeNil())
	})

	AfterAll(func() {
		s.Close()
	})

	BeforeEach(func() {
		queue = tasks.NewChannelQueue()
		srv = service.NewTaskService(s, queue)
	})

	AfterEach(func() {
		queue.Close()
		gormdb.Exec("DELETE FROM task_statuses;")
	})

	Context("dispatch", func() {
		It("persists a queued record and publishes the request", func() {
			task, err := srv.Dispatch(context.TODO(), tasks.ActionCheckCLOPLO, map[string]string{"syllabus_version_id": uuid.NewString()}, "lect-1", tasks.PriorityNormal)
			Expect(err).To(BeNil())
			Expect(task.Status).To(Equal(model.TaskStatusQueued))
			Expect(task.SubmittedBy).To(Equal("lect-1"))

			var req tasks.RequestEnvelope
			Eventually(queue.Requests()).Should(Receive(&req))
			Expect(req.MessageID).To(Equal(task.ID))
			Expect(req.Action).To(Equal(tasks.ActionCheckCLOPLO))
		})
	})

	Context("reconcile", func() {
		It("applies a terminal result", func() {
			task, err := srv.Dispatch(context.TODO(), tasks.ActionSummarize, map[string]string{}, "lect-1", tasks.PriorityNormal)
			Expect(err).To(BeNil())

			err = srv.Reconcile(context.TODO(), tasks.ResultEnvelope{
				MessageID: task.ID,
				Action:    tasks.ActionSummarize,
				Status:    model.TaskStatusSuccess,
				Progress:  100,
				Result:    []byte(`{"summary":"ok"}`),
			})
			Expect(err).To(BeNil())

			loaded, err := srv.Status(context.TODO(), task.ID)
			Expect(err).To(BeNil())
			Expect(loaded.Status).To(Equal(model.TaskStatusSuccess))
			Expect(loaded.Progress).To(Equal(100))
		})

		It("drops a duplicated terminal result without regressing", func() {
			task, err := srv.Dispatch(context.TODO(), tasks.ActionSummarize, map[string]string{}, "lect-1", tasks.PriorityNormal)
			Expect(err).To(BeNil())

			err = srv.Reconcile(context.TODO(), tasks.ResultEnvelope{
				MessageID: task.ID,
				Status:    model.TaskStatusSuccess,
				Progress:  100,
			})
			Expect(err).To(BeNil())

			// a late progress message arrives after completion
			err = srv.Reconcile(context.TODO(), tasks.ResultEnvelope{
				MessageID: task.ID,
				Status:    model.TaskStatusProcessing,
				Progress:  30,
			})
			Expect(err).To(BeNil())

			loaded, err := srv.Status(context.TODO(), task.ID)
			Expect(err).To(BeNil())
			Expect(loaded.Status).To(Equal(model.TaskStatusSuccess))
			Expect(loaded.Progress).To(Equal(100))
		})

		It("rejects a result for an unknown task", func() {
			err := srv.Reconcile(context.TODO(), tasks.ResultEnvelope{
				MessageID: uuid.New(),
				Status:    model.TaskStatusSuccess,
			})
			Expect(err).To(BeAssignableToTypeOf(&service.ErrResourceNotFound{}))
		})

		It("rejects a malformed status value", func() {
			task, err := srv.Dispatch(context.TODO(), tasks.ActionCompare, map[string]string{}, "lect-1", tasks.PriorityNormal)
			Expect(err).To(BeNil())

			err = srv.Reconcile(context.TODO(), tasks.ResultEnvelope{
				MessageID: task.ID,
				Status:    "DONE",
			})
			Expect(err).To(BeAssignableToTypeOf(&service.ErrBadRequest{}))
		})
	})

	Context("status", func() {
		It("misses an unknown task", func() {
			_, err := srv.Status(context.TODO(), uuid.New())
			Expect(err).To(BeAssignableToTypeOf(&service.ErrResourceNotFound{}))
		})
	})
})

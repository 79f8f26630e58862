package service_test

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/acadflow/syllabus-planner/internal/auth"
	"github.com/acadflow/syllabus-planner/internal/config"
	"github.com/acadflow/syllabus-planner/internal/service"
	"github.com/acadflow/syllabus-planner/internal/store"
	"github.com/acadflow/syllabus-planner/internal/store/model"
)

var _ = Describe("history service", Ordered, func() {
	var (
		s          store.Store
		gormdb     *gorm.DB
		srv        *service.HistoryService
		syllabusID uuid.UUID
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
		srv = service.NewHistoryService(s)
		syllabusID = uuid.New()
		tx := gormdb.Exec(fmt.Sprintf(insertSyllabusStm, syllabusID, "CS101", 1, "lect-1", "org-1", "IN_REVIEW"))
		Expect(tx.Error).To(BeNil())
	})

	AfterEach(func() {
		gormdb.Exec("DELETE FROM approval_history_entries;")
		gormdb.Exec("DELETE FROM syllabus_versions;")
	})

	Context("append", func() {
		It("appends an ungated entry without a step order", func() {
			entry, err := srv.Append(context.TODO(), syllabusID, "hod-user", auth.RoleHOD, model.DecisionApprove, nil, nil)
			Expect(err).To(BeNil())
			Expect(entry.StepOrder).To(BeNil())
			Expect(entry.UserID).To(Equal("hod-user"))
		})

		It("stores the batch id of a bulk decision", func() {
			batchID := uuid.New()
			entry, err := srv.Append(context.TODO(), syllabusID, "hod-user", auth.RoleHOD, model.DecisionApprove, nil, &batchID)
			Expect(err).To(BeNil())
			Expect(entry.BatchID).ToNot(BeNil())
			Expect(*entry.BatchID).To(Equal(batchID))
		})

		It("rejects an unknown decision", func() {
			_, err := srv.Append(context.TODO(), syllabusID, "hod-user", auth.RoleHOD, "MAYBE", nil, nil)
			Expect(err).To(BeAssignableToTypeOf(&service.ErrBadRequest{}))
		})

		It("rejects a missing syllabus", func() {
			_, err := srv.Append(context.TODO(), uuid.New(), "hod-user", auth.RoleHOD, model.DecisionApprove, nil, nil)
			Expect(err).To(BeAssignableToTypeOf(&service.ErrResourceNotFound{}))
		})
	})

	Context("list", func() {
		It("returns the ledger for the syllabus", func() {
			_, err := srv.Append(context.TODO(), syllabusID, "hod-user", auth.RoleHOD, model.DecisionApprove, nil, nil)
			Expect(err).To(BeNil())
			_, err = srv.Append(context.TODO(), syllabusID, "aa-user", auth.RoleAcademicAffairs, model.DecisionReject, nil, nil)
			Expect(err).To(BeNil())

			entries, err := srv.ListForSyllabus(context.TODO(), syllabusID)
			Expect(err).To(BeNil())
			Expect(entries).To(HaveLen(2))
		})
	})
})

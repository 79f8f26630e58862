package store_test

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/acadflow/syllabus-planner/internal/config"
	"github.com/acadflow/syllabus-planner/internal/store"
	"github.com/acadflow/syllabus-planner/internal/store/model"
)

var _ = Describe("approval history store", Ordered, func() {
	var (
		s          store.Store
		gormdb     *gorm.DB
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
		syllabusID = uuid.New()
		tx := gormdb.Exec(fmt.Sprintf(insertSyllabusStm, syllabusID, "CS101", 1, "lect-1", "org-1", "IN_REVIEW"))
		Expect(tx.Error).To(BeNil())
	})

	AfterEach(func() {
		gormdb.Exec("DELETE FROM approval_history_entries;")
		gormdb.Exec("DELETE FROM syllabus_versions;")
	})

	Context("append", func() {
		It("appends an entry and generates an id", func() {
			stepOrder := 1
			entry, err := s.ApprovalHistory().Append(context.TODO(), model.ApprovalHistoryEntry{
				SyllabusVersionID: syllabusID,
				UserID:            "hod-user",
				StepOrder:         &stepOrder,
				Role:              "HOD",
				Decision:          model.DecisionApprove,
			})
			Expect(err).To(BeNil())
			Expect(entry.ID).ToNot(Equal(uuid.Nil))
		})
	})

	Context("list", func() {
		It("lists entries newest first", func() {
			for i := 1; i <= 3; i++ {
				order := i
				_, err := s.ApprovalHistory().Append(context.TODO(), model.ApprovalHistoryEntry{
					SyllabusVersionID: syllabusID,
					UserID:            fmt.Sprintf("user-%d", i),
					StepOrder:         &order,
					Role:              "HOD",
					Decision:          model.DecisionApprove,
				})
				Expect(err).To(BeNil())
			}

			entries, err := s.ApprovalHistory().ListBySyllabus(context.TODO(), syllabusID)
			Expect(err).To(BeNil())
			Expect(entries).To(HaveLen(3))
		})

		It("keeps ledgers separated per syllabus", func() {
			otherID := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertSyllabusStm, otherID, "CS102", 1, "lect-2", "org-1", "IN_REVIEW"))
			Expect(tx.Error).To(BeNil())

			_, err := s.ApprovalHistory().Append(context.TODO(), model.ApprovalHistoryEntry{
				SyllabusVersionID: syllabusID,
				UserID:            "hod-user",
				Role:              "HOD",
				Decision:          model.DecisionReject,
			})
			Expect(err).To(BeNil())

			entries, err := s.ApprovalHistory().ListBySyllabus(context.TODO(), otherID)
			Expect(err).To(BeNil())
			Expect(entries).To(HaveLen(0))
		})
	})
})

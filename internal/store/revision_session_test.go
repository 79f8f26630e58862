package store_test

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/acadflow/syllabus-planner/internal/config"
	"github.com/acadflow/syllabus-planner/internal/store"
	"github.com/acadflow/syllabus-planner/internal/store/model"
)

var _ = Describe("revision session store", Ordered, func() {
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
		tx := gormdb.Exec(fmt.Sprintf(insertSyllabusStm, syllabusID, "CS101", 1, "lect-1", "org-1", "PUBLISHED"))
		Expect(tx.Error).To(BeNil())
	})

	AfterEach(func() {
		gormdb.Exec("DELETE FROM revision_submissions;")
		gormdb.Exec("DELETE FROM revision_sessions;")
		gormdb.Exec("DELETE FROM syllabus_versions;")
	})

	Context("create", func() {
		It("creates a session holding the active guard", func() {
			session, err := s.RevisionSession().Create(context.TODO(), model.RevisionSession{
				SyllabusVersionID: syllabusID,
				Status:            model.RevisionStatusAssigned,
				InitiatedBy:       "hod-user",
				AssignedLecturer:  "lect-1",
			})
			Expect(err).To(BeNil())
			Expect(session.ActiveGuard).ToNot(BeNil())
			Expect(*session.ActiveGuard).To(Equal(model.ActiveGuardValue))
		})

		It("refuses a second live session for the same document", func() {
			_, err := s.RevisionSession().Create(context.TODO(), model.RevisionSession{
				SyllabusVersionID: syllabusID,
				Status:            model.RevisionStatusAssigned,
				InitiatedBy:       "hod-user",
				AssignedLecturer:  "lect-1",
			})
			Expect(err).To(BeNil())

			_, err = s.RevisionSession().Create(context.TODO(), model.RevisionSession{
				SyllabusVersionID: syllabusID,
				Status:            model.RevisionStatusAssigned,
				InitiatedBy:       "hod-user",
				AssignedLecturer:  "lect-2",
			})
			Expect(err).To(MatchError(store.ErrDuplicateKey))
		})

		It("allows a new session once the previous one released its guard", func() {
			first, err := s.RevisionSession().Create(context.TODO(), model.RevisionSession{
				SyllabusVersionID: syllabusID,
				Status:            model.RevisionStatusAssigned,
				InitiatedBy:       "hod-user",
				AssignedLecturer:  "lect-1",
			})
			Expect(err).To(BeNil())

			now := time.Now()
			first.Status = model.RevisionStatusRepublished
			first.RepublishedAt = &now
			first.ActiveGuard = nil
			_, err = s.RevisionSession().Update(context.TODO(), first)
			Expect(err).To(BeNil())

			_, err = s.RevisionSession().Create(context.TODO(), model.RevisionSession{
				SyllabusVersionID: syllabusID,
				Status:            model.RevisionStatusAssigned,
				InitiatedBy:       "hod-user",
				AssignedLecturer:  "lect-1",
			})
			Expect(err).To(BeNil())
		})
	})

	Context("get active", func() {
		It("returns the live session only", func() {
			session, err := s.RevisionSession().Create(context.TODO(), model.RevisionSession{
				SyllabusVersionID: syllabusID,
				Status:            model.RevisionStatusSubmitted,
				InitiatedBy:       "hod-user",
				AssignedLecturer:  "lect-1",
			})
			Expect(err).To(BeNil())

			active, err := s.RevisionSession().GetActiveForSyllabus(context.TODO(), syllabusID)
			Expect(err).To(BeNil())
			Expect(active.ID).To(Equal(session.ID))
		})

		It("misses when every session is republished", func() {
			session, err := s.RevisionSession().Create(context.TODO(), model.RevisionSession{
				SyllabusVersionID: syllabusID,
				Status:            model.RevisionStatusAssigned,
				InitiatedBy:       "hod-user",
				AssignedLecturer:  "lect-1",
			})
			Expect(err).To(BeNil())

			session.Status = model.RevisionStatusRepublished
			session.ActiveGuard = nil
			_, err = s.RevisionSession().Update(context.TODO(), session)
			Expect(err).To(BeNil())

			_, err = s.RevisionSession().GetActiveForSyllabus(context.TODO(), syllabusID)
			Expect(err).To(MatchError(store.ErrRecordNotFound))
		})
	})

	Context("submissions", func() {
		It("keeps one trace per submitted transition", func() {
			session, err := s.RevisionSession().Create(context.TODO(), model.RevisionSession{
				SyllabusVersionID: syllabusID,
				Status:            model.RevisionStatusInProgress,
				InitiatedBy:       "hod-user",
				AssignedLecturer:  "lect-1",
			})
			Expect(err).To(BeNil())

			for i := 0; i < 2; i++ {
				err = s.RevisionSession().AddSubmission(context.TODO(), model.RevisionSubmission{
					RevisionSessionID: session.ID,
					LecturerID:        "lect-1",
					Summary:           fmt.Sprintf("pass %d", i+1),
					SubmittedAt:       time.Now(),
				})
				Expect(err).To(BeNil())
			}

			reloaded, err := s.RevisionSession().Get(context.TODO(), session.ID)
			Expect(err).To(BeNil())
			Expect(reloaded.Submissions).To(HaveLen(2))
		})
	})

	Context("list", func() {
		It("lists by status", func() {
			_, err := s.RevisionSession().Create(context.TODO(), model.RevisionSession{
				SyllabusVersionID: syllabusID,
				Status:            model.RevisionStatusSubmitted,
				InitiatedBy:       "hod-user",
				AssignedLecturer:  "lect-1",
			})
			Expect(err).To(BeNil())

			sessions, err := s.RevisionSession().ListByStatus(context.TODO(), model.RevisionStatusSubmitted)
			Expect(err).To(BeNil())
			Expect(sessions).To(HaveLen(1))

			sessions, err = s.RevisionSession().ListByStatus(context.TODO(), model.RevisionStatusApproved)
			Expect(err).To(BeNil())
			Expect(sessions).To(HaveLen(0))
		})

		It("splits live and completed sessions per syllabus", func() {
			first, err := s.RevisionSession().Create(context.TODO(), model.RevisionSession{
				SyllabusVersionID: syllabusID,
				Status:            model.RevisionStatusAssigned,
				InitiatedBy:       "hod-user",
				AssignedLecturer:  "lect-1",
			})
			Expect(err).To(BeNil())

			first.Status = model.RevisionStatusRepublished
			first.ActiveGuard = nil
			_, err = s.RevisionSession().Update(context.TODO(), first)
			Expect(err).To(BeNil())

			_, err = s.RevisionSession().Create(context.TODO(), model.RevisionSession{
				SyllabusVersionID: syllabusID,
				Status:            model.RevisionStatusAssigned,
				InitiatedBy:       "hod-user",
				AssignedLecturer:  "lect-1",
			})
			Expect(err).To(BeNil())

			live, err := s.RevisionSession().ListBySyllabus(context.TODO(), syllabusID, false)
			Expect(err).To(BeNil())
			Expect(live).To(HaveLen(1))

			completed, err := s.RevisionSession().ListBySyllabus(context.TODO(), syllabusID, true)
			Expect(err).To(BeNil())
			Expect(completed).To(HaveLen(1))
			Expect(completed[0].ID).To(Equal(first.ID))
		})
	})
})

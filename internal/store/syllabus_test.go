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

const (
	insertSyllabusStm = "INSERT INTO syllabus_versions (id, code, version, title, owner_lecturer, org_id, status) VALUES ('%s', '%s', %d, 'Intro', '%s', '%s', '%s');"
)

var _ = Describe("syllabus store", Ordered, func() {
	var (
		s      store.Store
		gormdb *gorm.DB
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

	AfterEach(func() {
		gormdb.Exec("DELETE FROM syllabus_versions;")
	})

	Context("list", func() {
		It("successfully lists all syllabus versions", func() {
			tx := gormdb.Exec(fmt.Sprintf(insertSyllabusStm, uuid.NewString(), "CS101", 1, "lect-1", "org-1", "DRAFT"))
			Expect(tx.Error).To(BeNil())
			tx = gormdb.Exec(fmt.Sprintf(insertSyllabusStm, uuid.NewString(), "CS102", 1, "lect-1", "org-1", "DRAFT"))
			Expect(tx.Error).To(BeNil())

			syllabi, err := s.Syllabus().List(context.TODO(), store.NewSyllabusQueryFilter())
			Expect(err).To(BeNil())
			Expect(syllabi).To(HaveLen(2))
		})

		It("filters by org", func() {
			tx := gormdb.Exec(fmt.Sprintf(insertSyllabusStm, uuid.NewString(), "CS101", 1, "lect-1", "org-1", "DRAFT"))
			Expect(tx.Error).To(BeNil())
			tx = gormdb.Exec(fmt.Sprintf(insertSyllabusStm, uuid.NewString(), "CS101", 1, "lect-2", "org-2", "DRAFT"))
			Expect(tx.Error).To(BeNil())

			syllabi, err := s.Syllabus().List(context.TODO(), store.NewSyllabusQueryFilter().ByOrgID("org-2"))
			Expect(err).To(BeNil())
			Expect(syllabi).To(HaveLen(1))
			Expect(syllabi[0].OrgID).To(Equal("org-2"))
		})

		It("filters by status and code", func() {
			tx := gormdb.Exec(fmt.Sprintf(insertSyllabusStm, uuid.NewString(), "CS101", 1, "lect-1", "org-1", "PUBLISHED"))
			Expect(tx.Error).To(BeNil())
			tx = gormdb.Exec(fmt.Sprintf(insertSyllabusStm, uuid.NewString(), "CS101", 2, "lect-1", "org-1", "DRAFT"))
			Expect(tx.Error).To(BeNil())

			syllabi, err := s.Syllabus().List(context.TODO(), store.NewSyllabusQueryFilter().ByCode("CS101").ByStatus("PUBLISHED"))
			Expect(err).To(BeNil())
			Expect(syllabi).To(HaveLen(1))
			Expect(syllabi[0].Version).To(Equal(1))
		})
	})

	Context("create", func() {
		It("successfully creates a syllabus version", func() {
			syllabus, err := s.Syllabus().Create(context.TODO(), model.SyllabusVersion{
				ID:            uuid.New(),
				Code:          "CS101",
				Version:       1,
				Title:         "Intro to Computing",
				OwnerLecturer: "lect-1",
				OrgID:         "org-1",
				Status:        model.SyllabusStatusDraft,
			})
			Expect(err).To(BeNil())
			Expect(syllabus).NotTo(BeNil())

			var count int64
			gormdb.Model(&model.SyllabusVersion{}).Count(&count)
			Expect(count).To(Equal(int64(1)))
		})

		It("rejects a duplicated code and version pair", func() {
			tx := gormdb.Exec(fmt.Sprintf(insertSyllabusStm, uuid.NewString(), "CS101", 1, "lect-1", "org-1", "DRAFT"))
			Expect(tx.Error).To(BeNil())

			_, err := s.Syllabus().Create(context.TODO(), model.SyllabusVersion{
				ID:            uuid.New(),
				Code:          "CS101",
				Version:       1,
				Title:         "Intro to Computing",
				OwnerLecturer: "lect-1",
				OrgID:         "org-1",
				Status:        model.SyllabusStatusDraft,
			})
			Expect(err).To(MatchError(store.ErrDuplicateKey))
		})
	})

	Context("get", func() {
		It("successfully gets a syllabus version", func() {
			id := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertSyllabusStm, id, "CS101", 1, "lect-1", "org-1", "DRAFT"))
			Expect(tx.Error).To(BeNil())

			syllabus, err := s.Syllabus().Get(context.TODO(), id)
			Expect(err).To(BeNil())
			Expect(syllabus.Code).To(Equal("CS101"))
		})

		It("fails to get a missing syllabus version", func() {
			_, err := s.Syllabus().Get(context.TODO(), uuid.New())
			Expect(err).To(MatchError(store.ErrRecordNotFound))
		})
	})

	Context("update status", func() {
		It("moves the status forward", func() {
			id := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertSyllabusStm, id, "CS101", 1, "lect-1", "org-1", "DRAFT"))
			Expect(tx.Error).To(BeNil())

			syllabus, err := s.Syllabus().UpdateStatus(context.TODO(), id, model.SyllabusStatusInReview)
			Expect(err).To(BeNil())
			Expect(syllabus.Status).To(Equal(model.SyllabusStatusInReview))
		})

		It("fails on a missing syllabus version", func() {
			_, err := s.Syllabus().UpdateStatus(context.TODO(), uuid.New(), model.SyllabusStatusInReview)
			Expect(err).To(MatchError(store.ErrRecordNotFound))
		})
	})
})

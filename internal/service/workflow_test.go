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
	"github.com/acadflow/syllabus-planner/internal/events"
	"github.com/acadflow/syllabus-planner/internal/service"
	"github.com/acadflow/syllabus-planner/internal/store"
	"github.com/acadflow/syllabus-planner/internal/store/model"
)

const (
	insertSyllabusStm = "INSERT INTO syllabus_versions (id, code, version, title, owner_lecturer, org_id, status) VALUES ('%s', '%s', %d, 'Intro', '%s', '%s', '%s');"
)

var _ = Describe("workflow service", Ordered, func() {
	var (
		s          store.Store
		gormdb     *gorm.DB
		srv        *service.WorkflowService
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
		srv = service.NewWorkflowService(s, events.NewEventProducer(newTestWriter()))
		syllabusID = uuid.New()
		tx := gormdb.Exec(fmt.Sprintf(insertSyllabusStm, syllabusID, "CS101", 1, "lect-1", "org-1", "DRAFT"))
		Expect(tx.Error).To(BeNil())
	})

	AfterEach(func() {
		gormdb.Exec("DELETE FROM approval_history_entries;")
		gormdb.Exec("DELETE FROM workflow_steps;")
		gormdb.Exec("DELETE FROM syllabus_versions;")
	})

	Context("initialize", func() {
		It("creates the chain with the first step active and flips the document to IN_REVIEW", func() {
			steps, err := srv.InitializeWorkflow(context.TODO(), syllabusID, []string{auth.RoleHOD, auth.RoleAcademicAffairs, auth.RolePrincipal})
			Expect(err).To(BeNil())
			Expect(steps).To(HaveLen(3))
			Expect(steps[0].Status).To(Equal(model.StepStatusActive))
			Expect(steps[1].Status).To(Equal(model.StepStatusPending))
			Expect(steps[2].Status).To(Equal(model.StepStatusPending))

			syllabus, err := s.Syllabus().Get(context.TODO(), syllabusID)
			Expect(err).To(BeNil())
			Expect(syllabus.Status).To(Equal(model.SyllabusStatusInReview))
		})

		It("rejects an empty role chain", func() {
			_, err := srv.InitializeWorkflow(context.TODO(), syllabusID, nil)
			Expect(err).To(BeAssignableToTypeOf(&service.ErrBadRequest{}))
		})

		It("rejects duplicate roles in the chain", func() {
			_, err := srv.InitializeWorkflow(context.TODO(), syllabusID, []string{auth.RoleHOD, auth.RoleHOD})
			Expect(err).To(BeAssignableToTypeOf(&service.ErrBadRequest{}))
		})

		It("refuses a second concurrent workflow for the same document", func() {
			_, err := srv.InitializeWorkflow(context.TODO(), syllabusID, []string{auth.RoleHOD})
			Expect(err).To(BeNil())

			_, err = srv.InitializeWorkflow(context.TODO(), syllabusID, []string{auth.RolePrincipal})
			Expect(err).To(BeAssignableToTypeOf(&service.ErrAlreadyInReview{}))
		})

		It("fails for a missing document", func() {
			_, err := srv.InitializeWorkflow(context.TODO(), uuid.New(), []string{auth.RoleHOD})
			Expect(err).To(BeAssignableToTypeOf(&service.ErrResourceNotFound{}))
		})

		It("accepts a new workflow after a rejection", func() {
			_, err := srv.InitializeWorkflow(context.TODO(), syllabusID, []string{auth.RoleHOD, auth.RolePrincipal})
			Expect(err).To(BeNil())

			_, err = srv.Decide(context.TODO(), syllabusID, "hod-user", auth.RoleHOD, model.DecisionReject, nil)
			Expect(err).To(BeNil())

			// the old chain is fully resolved, the document may enter review again
			steps, err := srv.InitializeWorkflow(context.TODO(), syllabusID, []string{auth.RoleHOD, auth.RolePrincipal})
			Expect(err).To(BeNil())
			Expect(steps).To(HaveLen(2))
			Expect(steps[0].Status).To(Equal(model.StepStatusActive))

			active, err := srv.GetActiveStep(context.TODO(), syllabusID)
			Expect(err).To(BeNil())
			Expect(active.StepOrder).To(Equal(1))
			Expect(active.ID).To(Equal(steps[0].ID))

			syllabus, err := s.Syllabus().Get(context.TODO(), syllabusID)
			Expect(err).To(BeNil())
			Expect(syllabus.Status).To(Equal(model.SyllabusStatusInReview))
		})

		It("accepts a new workflow after publication", func() {
			_, err := srv.InitializeWorkflow(context.TODO(), syllabusID, []string{auth.RoleHOD})
			Expect(err).To(BeNil())

			_, err = srv.Decide(context.TODO(), syllabusID, "hod-user", auth.RoleHOD, model.DecisionApprove, nil)
			Expect(err).To(BeNil())

			steps, err := srv.InitializeWorkflow(context.TODO(), syllabusID, []string{auth.RoleHOD})
			Expect(err).To(BeNil())
			Expect(steps[0].Status).To(Equal(model.StepStatusActive))
		})
	})

	Context("decide", func() {
		BeforeEach(func() {
			_, err := srv.InitializeWorkflow(context.TODO(), syllabusID, []string{auth.RoleHOD, auth.RoleAcademicAffairs, auth.RolePrincipal})
			Expect(err).To(BeNil())
		})

		It("approves step by step until the document is published", func() {
			step, err := srv.Decide(context.TODO(), syllabusID, "hod-user", auth.RoleHOD, model.DecisionApprove, nil)
			Expect(err).To(BeNil())
			Expect(step.Status).To(Equal(model.StepStatusApproved))
			Expect(*step.AssignedApprover).To(Equal("hod-user"))

			active, err := srv.GetActiveStep(context.TODO(), syllabusID)
			Expect(err).To(BeNil())
			Expect(active.RequiredRole).To(Equal(auth.RoleAcademicAffairs))

			_, err = srv.Decide(context.TODO(), syllabusID, "aa-user", auth.RoleAcademicAffairs, model.DecisionApprove, nil)
			Expect(err).To(BeNil())

			_, err = srv.Decide(context.TODO(), syllabusID, "principal-user", auth.RolePrincipal, model.DecisionApprove, nil)
			Expect(err).To(BeNil())

			syllabus, err := s.Syllabus().Get(context.TODO(), syllabusID)
			Expect(err).To(BeNil())
			Expect(syllabus.Status).To(Equal(model.SyllabusStatusPublished))

			entries, err := s.ApprovalHistory().ListBySyllabus(context.TODO(), syllabusID)
			Expect(err).To(BeNil())
			Expect(entries).To(HaveLen(3))
		})

		It("refuses an out-of-turn decision", func() {
			_, err := srv.Decide(context.TODO(), syllabusID, "principal-user", auth.RolePrincipal, model.DecisionApprove, nil)
			Expect(err).To(BeAssignableToTypeOf(&service.ErrRoleMismatch{}))

			// nothing was recorded
			entries, err := s.ApprovalHistory().ListBySyllabus(context.TODO(), syllabusID)
			Expect(err).To(BeNil())
			Expect(entries).To(HaveLen(0))
		})

		It("cancels the remaining steps on rejection", func() {
			comment := "missing learning outcomes"
			step, err := srv.Decide(context.TODO(), syllabusID, "hod-user", auth.RoleHOD, model.DecisionReject, &comment)
			Expect(err).To(BeNil())
			Expect(step.Status).To(Equal(model.StepStatusRejected))

			syllabus, err := s.Syllabus().Get(context.TODO(), syllabusID)
			Expect(err).To(BeNil())
			Expect(syllabus.Status).To(Equal(model.SyllabusStatusRejected))

			steps, err := srv.ListSteps(context.TODO(), syllabusID)
			Expect(err).To(BeNil())
			Expect(steps[1].Status).To(Equal(model.StepStatusCancelled))
			Expect(steps[2].Status).To(Equal(model.StepStatusCancelled))

			_, err = srv.GetActiveStep(context.TODO(), syllabusID)
			Expect(err).To(BeAssignableToTypeOf(&service.ErrNoActiveStep{}))
		})

		It("rejects a decision after the workflow ended", func() {
			_, err := srv.Decide(context.TODO(), syllabusID, "hod-user", auth.RoleHOD, model.DecisionReject, nil)
			Expect(err).To(BeNil())

			_, err = srv.Decide(context.TODO(), syllabusID, "hod-user", auth.RoleHOD, model.DecisionApprove, nil)
			Expect(err).To(BeAssignableToTypeOf(&service.ErrNoActiveStep{}))
		})

		It("rejects an unknown decision value", func() {
			_, err := srv.Decide(context.TODO(), syllabusID, "hod-user", auth.RoleHOD, "MAYBE", nil)
			Expect(err).To(BeAssignableToTypeOf(&service.ErrBadRequest{}))
		})

		It("records the step order in the history entry", func() {
			_, err := srv.Decide(context.TODO(), syllabusID, "hod-user", auth.RoleHOD, model.DecisionApprove, nil)
			Expect(err).To(BeNil())

			entries, err := s.ApprovalHistory().ListBySyllabus(context.TODO(), syllabusID)
			Expect(err).To(BeNil())
			Expect(entries).To(HaveLen(1))
			Expect(*entries[0].StepOrder).To(Equal(1))
			Expect(entries[0].Decision).To(Equal(model.DecisionApprove))
			Expect(entries[0].Role).To(Equal(auth.RoleHOD))
		})
	})
})

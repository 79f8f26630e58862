package v1alpha1

import (
	"net/http"

	api "github.com/acadflow/syllabus-planner/api/v1alpha1"
	"github.com/acadflow/syllabus-planner/internal/auth"
	"github.com/acadflow/syllabus-planner/internal/handlers/v1alpha1/mappers"
	"github.com/acadflow/syllabus-planner/internal/handlers/validator"
	"github.com/acadflow/syllabus-planner/internal/service"
)

// (POST /api/v1/syllabi/{id}/workflow)
func (s *ServiceHandler) InitializeWorkflow(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		renderError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var form api.WorkflowCreate
	if err := decodeBody(r, &form); err != nil {
		renderError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	v := validator.NewValidator()
	v.Register(validator.NewWorkflowValidationRules()...)
	if err := v.Struct(form); err != nil {
		renderError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	steps, err := s.workflowSrv.InitializeWorkflow(r.Context(), id, form.RoleChain)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}

	renderJSON(w, r, http.StatusCreated, mappers.WorkflowStepListToApi(steps))
}

// (POST /api/v1/syllabi/{id}/workflow/decision)
func (s *ServiceHandler) SubmitDecision(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		renderError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var form api.WorkflowDecision
	if err := decodeBody(r, &form); err != nil {
		renderError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	v := validator.NewValidator()
	v.Register(validator.NewWorkflowValidationRules()...)
	if err := v.Struct(form); err != nil {
		renderError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	user := auth.MustHaveUser(r.Context())
	step, err := s.workflowSrv.Decide(r.Context(), id, user.Username, user.Role, form.Decision, form.Comment)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}

	renderJSON(w, r, http.StatusOK, mappers.WorkflowStepToApi(*step))
}

// (GET /api/v1/syllabi/{id}/workflow/active-step)
func (s *ServiceHandler) GetActiveStep(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		renderError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	step, err := s.workflowSrv.GetActiveStep(r.Context(), id)
	if err != nil {
		// on a read path the absence of an active step is a plain miss
		if _, ok := err.(*service.ErrNoActiveStep); ok {
			renderError(w, r, http.StatusNotFound, err.Error())
			return
		}
		renderServiceError(w, r, err)
		return
	}

	renderJSON(w, r, http.StatusOK, mappers.WorkflowStepToApi(*step))
}

// (GET /api/v1/syllabi/{id}/workflow)
func (s *ServiceHandler) ListWorkflowSteps(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		renderError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	steps, err := s.workflowSrv.ListSteps(r.Context(), id)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}

	renderJSON(w, r, http.StatusOK, mappers.WorkflowStepListToApi(steps))
}

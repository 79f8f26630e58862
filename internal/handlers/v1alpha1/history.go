package v1alpha1

import (
	"net/http"

	api "github.com/acadflow/syllabus-planner/api/v1alpha1"
	"github.com/acadflow/syllabus-planner/internal/auth"
	"github.com/acadflow/syllabus-planner/internal/handlers/v1alpha1/mappers"
	"github.com/acadflow/syllabus-planner/internal/handlers/validator"
)

// (POST /api/v1/approval-history)
func (s *ServiceHandler) AppendApprovalHistory(w http.ResponseWriter, r *http.Request) {
	var form api.ApprovalHistoryCreate
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
	entry, err := s.historySrv.Append(r.Context(), form.SyllabusVersionId, user.Username, user.Role, form.Action, form.Comment, form.BatchId)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}

	renderJSON(w, r, http.StatusCreated, mappers.ApprovalHistoryEntryToApi(*entry))
}

// (GET /api/v1/syllabi/{id}/approval-history)
func (s *ServiceHandler) ListApprovalHistory(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		renderError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	entries, err := s.historySrv.ListForSyllabus(r.Context(), id)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}

	renderJSON(w, r, http.StatusOK, mappers.ApprovalHistoryListToApi(entries))
}

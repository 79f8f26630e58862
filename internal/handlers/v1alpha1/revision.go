package v1alpha1

import (
	"net/http"
	"strconv"

	api "github.com/acadflow/syllabus-planner/api/v1alpha1"
	"github.com/acadflow/syllabus-planner/internal/auth"
	"github.com/acadflow/syllabus-planner/internal/handlers/v1alpha1/mappers"
	"github.com/acadflow/syllabus-planner/internal/handlers/validator"
	"github.com/acadflow/syllabus-planner/internal/service"
)

// (POST /api/v1/revisions/start)
func (s *ServiceHandler) StartRevision(w http.ResponseWriter, r *http.Request) {
	var form api.RevisionStart
	if err := decodeBody(r, &form); err != nil {
		renderError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	v := validator.NewValidator()
	v.Register(validator.NewRevisionValidationRules()...)
	if err := v.Struct(form); err != nil {
		renderError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	user := auth.MustHaveUser(r.Context())
	session, err := s.revisionSrv.Start(r.Context(), service.RevisionStartForm{
		SyllabusVersionID: form.SyllabusVersionId,
		FeedbackIDs:       form.FeedbackIds,
		Description:       form.Description,
		InitiatorID:       user.Username,
		AssignedLecturer:  form.AssignedLecturerId,
	})
	if err != nil {
		renderServiceError(w, r, err)
		return
	}

	renderJSON(w, r, http.StatusCreated, mappers.RevisionSessionToApi(*session))
}

// (POST /api/v1/revisions/submit)
func (s *ServiceHandler) SubmitRevision(w http.ResponseWriter, r *http.Request) {
	var form api.RevisionSubmit
	if err := decodeBody(r, &form); err != nil {
		renderError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	v := validator.NewValidator()
	v.Register(validator.NewRevisionValidationRules()...)
	if err := v.Struct(form); err != nil {
		renderError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	user := auth.MustHaveUser(r.Context())
	session, err := s.revisionSrv.Submit(r.Context(), form.RevisionSessionId, user.Username, form.Summary)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}

	renderJSON(w, r, http.StatusOK, mappers.RevisionSessionToApi(*session))
}

// (POST /api/v1/revisions/review)
func (s *ServiceHandler) ReviewRevision(w http.ResponseWriter, r *http.Request) {
	var form api.RevisionReview
	if err := decodeBody(r, &form); err != nil {
		renderError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	v := validator.NewValidator()
	v.Register(validator.NewRevisionValidationRules()...)
	if err := v.Struct(form); err != nil {
		renderError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	user := auth.MustHaveUser(r.Context())
	session, err := s.revisionSrv.Review(r.Context(), form.RevisionSessionId, user.Username, user.Role, form.Decision, form.Comment)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}

	renderJSON(w, r, http.StatusOK, mappers.RevisionSessionToApi(*session))
}

// (POST /api/v1/revisions/{id}/republish)
func (s *ServiceHandler) RepublishRevision(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		renderError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	user := auth.MustHaveUser(r.Context())
	session, err := s.revisionSrv.Republish(r.Context(), id, user.Username, user.Role)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}

	renderJSON(w, r, http.StatusOK, mappers.RevisionSessionToApi(*session))
}

// (GET /api/v1/revisions/pending-review)
func (s *ServiceHandler) ListRevisionsPendingReview(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.revisionSrv.ListPendingReview(r.Context())
	if err != nil {
		renderServiceError(w, r, err)
		return
	}

	renderJSON(w, r, http.StatusOK, mappers.RevisionSessionListToApi(sessions))
}

// (GET /api/v1/revisions/pending-republish)
func (s *ServiceHandler) ListRevisionsPendingRepublish(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.revisionSrv.ListPendingRepublish(r.Context())
	if err != nil {
		renderServiceError(w, r, err)
		return
	}

	renderJSON(w, r, http.StatusOK, mappers.RevisionSessionListToApi(sessions))
}

// (GET /api/v1/syllabi/{id}/revisions/active)
func (s *ServiceHandler) GetActiveRevision(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		renderError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	session, err := s.revisionSrv.ActiveSessionFor(r.Context(), id)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}

	renderJSON(w, r, http.StatusOK, mappers.RevisionSessionToApi(*session))
}

// (GET /api/v1/syllabi/{id}/revisions/awaiting-republish)
func (s *ServiceHandler) GetRevisionAwaitingRepublish(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		renderError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	session, err := s.revisionSrv.SessionAwaitingRepublish(r.Context(), id)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}

	renderJSON(w, r, http.StatusOK, mappers.RevisionSessionToApi(*session))
}

// (GET /api/v1/syllabi/{id}/revisions)
func (s *ServiceHandler) ListRevisions(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		renderError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	completed := false
	if val := r.URL.Query().Get("completed"); val != "" {
		completed, err = strconv.ParseBool(val)
		if err != nil {
			renderError(w, r, http.StatusBadRequest, "invalid completed parameter")
			return
		}
	}

	sessions, err := s.revisionSrv.ListForSyllabus(r.Context(), id, completed)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}

	renderJSON(w, r, http.StatusOK, mappers.RevisionSessionListToApi(sessions))
}

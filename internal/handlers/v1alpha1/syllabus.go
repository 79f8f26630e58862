package v1alpha1

import (
	"net/http"

	api "github.com/acadflow/syllabus-planner/api/v1alpha1"
	"github.com/acadflow/syllabus-planner/internal/auth"
	"github.com/acadflow/syllabus-planner/internal/handlers/v1alpha1/mappers"
	"github.com/acadflow/syllabus-planner/internal/handlers/validator"
	"github.com/acadflow/syllabus-planner/internal/service"
)

// (GET /api/v1/syllabi)
func (s *ServiceHandler) ListSyllabi(w http.ResponseWriter, r *http.Request) {
	user := auth.MustHaveUser(r.Context())

	opts := []service.SyllabusFilterOption{service.WithOrgID(user.Organization)}
	if status := r.URL.Query().Get("status"); status != "" {
		opts = append(opts, service.WithStatus(status))
	}
	if code := r.URL.Query().Get("code"); code != "" {
		opts = append(opts, service.WithCode(code))
	}

	syllabi, err := s.syllabusSrv.ListSyllabi(r.Context(), service.NewSyllabusFilter(opts...))
	if err != nil {
		renderServiceError(w, r, err)
		return
	}

	renderJSON(w, r, http.StatusOK, mappers.SyllabusListToApi(syllabi))
}

// (POST /api/v1/syllabi)
func (s *ServiceHandler) CreateSyllabus(w http.ResponseWriter, r *http.Request) {
	var form api.SyllabusCreate
	if err := decodeBody(r, &form); err != nil {
		renderError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	v := validator.NewValidator()
	v.Register(validator.NewSyllabusValidationRules()...)
	if err := v.Struct(form); err != nil {
		renderError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	user := auth.MustHaveUser(r.Context())
	owner := form.OwnerLecturer
	if owner == "" {
		owner = user.Username
	}

	syllabus, err := s.syllabusSrv.CreateSyllabus(r.Context(), service.SyllabusCreateForm{
		Code:          form.Code,
		Title:         form.Title,
		Version:       form.Version,
		OwnerLecturer: owner,
		OrgID:         user.Organization,
	})
	if err != nil {
		renderServiceError(w, r, err)
		return
	}

	renderJSON(w, r, http.StatusCreated, mappers.SyllabusToApi(*syllabus))
}

// (GET /api/v1/syllabi/{id})
func (s *ServiceHandler) GetSyllabus(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		renderError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	syllabus, err := s.syllabusSrv.GetSyllabus(r.Context(), id)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}

	user := auth.MustHaveUser(r.Context())
	if user.Organization != syllabus.OrgID {
		renderError(w, r, http.StatusForbidden, "forbidden access to syllabus version")
		return
	}

	renderJSON(w, r, http.StatusOK, mappers.SyllabusToApi(*syllabus))
}

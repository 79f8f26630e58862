package v1alpha1

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"

	api "github.com/acadflow/syllabus-planner/api/v1alpha1"
	"github.com/acadflow/syllabus-planner/internal/auth"
	"github.com/acadflow/syllabus-planner/internal/handlers/v1alpha1/mappers"
	"github.com/acadflow/syllabus-planner/internal/handlers/validator"
	"github.com/acadflow/syllabus-planner/internal/tasks"
)

func pollUrl(taskID uuid.UUID) string {
	return fmt.Sprintf("/api/v1/ai/tasks/%s/status", taskID)
}

// (POST /api/v1/ai/syllabus/{id}/check-clo-plo)
func (s *ServiceHandler) CheckCLOPLO(w http.ResponseWriter, r *http.Request) {
	s.dispatchSyllabusTask(w, r, tasks.ActionCheckCLOPLO)
}

// (POST /api/v1/ai/syllabus/{id}/summarize)
func (s *ServiceHandler) SummarizeSyllabus(w http.ResponseWriter, r *http.Request) {
	s.dispatchSyllabusTask(w, r, tasks.ActionSummarize)
}

func (s *ServiceHandler) dispatchSyllabusTask(w http.ResponseWriter, r *http.Request, action string) {
	id, err := uuidParam(r, "id")
	if err != nil {
		renderError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	// the syllabus must exist before a task is queued for it
	if _, err := s.syllabusSrv.GetSyllabus(r.Context(), id); err != nil {
		renderServiceError(w, r, err)
		return
	}

	user := auth.MustHaveUser(r.Context())
	payload := map[string]string{"syllabus_version_id": id.String()}
	task, err := s.taskSrv.Dispatch(r.Context(), action, payload, user.Username, tasks.PriorityNormal)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}

	renderJSON(w, r, http.StatusAccepted, api.TaskAccepted{
		TaskId:  task.ID,
		Status:  task.Status,
		PollUrl: pollUrl(task.ID),
	})
}

// (POST /api/v1/ai/syllabus/compare)
func (s *ServiceHandler) CompareSyllabi(w http.ResponseWriter, r *http.Request) {
	var form api.CompareSyllabiRequest
	if err := decodeBody(r, &form); err != nil {
		renderError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	v := validator.NewValidator()
	if err := v.Struct(form); err != nil {
		renderError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	for _, id := range []uuid.UUID{form.LeftSyllabusId, form.RightSyllabusId} {
		if _, err := s.syllabusSrv.GetSyllabus(r.Context(), id); err != nil {
			renderServiceError(w, r, err)
			return
		}
	}

	user := auth.MustHaveUser(r.Context())
	task, err := s.taskSrv.Dispatch(r.Context(), tasks.ActionCompare, form, user.Username, tasks.PriorityNormal)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}

	renderJSON(w, r, http.StatusAccepted, api.TaskAccepted{
		TaskId:  task.ID,
		Status:  task.Status,
		PollUrl: pollUrl(task.ID),
	})
}

// (GET /api/v1/ai/tasks/{taskId}/status)
func (s *ServiceHandler) GetTaskStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "taskId")
	if err != nil {
		renderError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	task, err := s.taskSrv.Status(r.Context(), id)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}

	renderJSON(w, r, http.StatusOK, mappers.TaskStatusToApi(*task))
}

// Package v1alpha1 exposes the REST surface of the syllabus planner. Handlers
// decode and validate the wire payloads, delegate to the service layer and
// translate its typed errors to HTTP status codes.
package v1alpha1

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"go.uber.org/zap"

	api "github.com/acadflow/syllabus-planner/api/v1alpha1"
	"github.com/acadflow/syllabus-planner/internal/service"
	"github.com/acadflow/syllabus-planner/pkg/requestid"
)

type ServiceHandler struct {
	syllabusSrv *service.SyllabusService
	workflowSrv *service.WorkflowService
	historySrv  *service.HistoryService
	revisionSrv *service.RevisionService
	taskSrv     *service.TaskService
	healthSrv   *service.HealthService
}

func NewServiceHandler(
	syllabusService *service.SyllabusService,
	workflowService *service.WorkflowService,
	historyService *service.HistoryService,
	revisionService *service.RevisionService,
	taskService *service.TaskService,
	healthService *service.HealthService,
) *ServiceHandler {
	return &ServiceHandler{
		syllabusSrv: syllabusService,
		workflowSrv: workflowService,
		historySrv:  historyService,
		revisionSrv: revisionService,
		taskSrv:     taskService,
		healthSrv:   healthService,
	}
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("empty body")
		}
		return fmt.Errorf("malformed body: %w", err)
	}
	return nil
}

func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("invalid %s: %w", name, err)
	}
	return id, nil
}

func renderJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	render.Status(r, status)
	render.JSON(w, r, v)
}

func renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	renderJSON(w, r, status, api.Error{
		Message:   message,
		RequestId: requestid.FromContextPtr(r.Context()),
	})
}

// renderServiceError maps the service layer's typed errors to status codes.
func renderServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch err.(type) {
	case *service.ErrBadRequest:
		renderError(w, r, http.StatusBadRequest, err.Error())
	case *service.ErrRoleMismatch, *service.ErrNotAssignee:
		renderError(w, r, http.StatusForbidden, err.Error())
	case *service.ErrResourceNotFound:
		renderError(w, r, http.StatusNotFound, err.Error())
	case *service.ErrNoActiveStep,
		*service.ErrAlreadyInReview,
		*service.ErrAlreadyResolved,
		*service.ErrInvalidState,
		*service.ErrDocumentNotPublished,
		*service.ErrRevisionAlreadyActive,
		*service.ErrSyllabusVersionExists:
		renderError(w, r, http.StatusConflict, err.Error())
	default:
		zap.S().Named("handlers").Errorw("unexpected service error",
			"error", err,
			"request_id", requestid.FromContext(r.Context()),
		)
		renderError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

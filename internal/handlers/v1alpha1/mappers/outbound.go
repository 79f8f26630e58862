package mappers

import (
	api "github.com/acadflow/syllabus-planner/api/v1alpha1"
	"github.com/acadflow/syllabus-planner/internal/store/model"
)

func SyllabusToApi(s model.SyllabusVersion) api.Syllabus {
	return api.Syllabus{
		Id:            s.ID,
		Code:          s.Code,
		Title:         s.Title,
		Version:       s.Version,
		OwnerLecturer: s.OwnerLecturer,
		Status:        s.Status,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

func SyllabusListToApi(syllabi model.SyllabusVersionList) api.SyllabusList {
	list := make(api.SyllabusList, 0, len(syllabi))
	for _, s := range syllabi {
		list = append(list, SyllabusToApi(s))
	}
	return list
}

func WorkflowStepToApi(step model.WorkflowStep) api.WorkflowStep {
	return api.WorkflowStep{
		Id:                step.ID,
		SyllabusVersionId: step.SyllabusVersionID,
		StepOrder:         step.StepOrder,
		RequiredRole:      step.RequiredRole,
		AssignedApprover:  step.AssignedApprover,
		Status:            step.Status,
		Comment:           step.Comment,
		CompletedAt:       step.CompletedAt,
	}
}

func WorkflowStepListToApi(steps model.WorkflowStepList) api.WorkflowStepList {
	list := make(api.WorkflowStepList, 0, len(steps))
	for _, step := range steps {
		list = append(list, WorkflowStepToApi(step))
	}
	return list
}

func ApprovalHistoryEntryToApi(entry model.ApprovalHistoryEntry) api.ApprovalHistoryEntry {
	return api.ApprovalHistoryEntry{
		Id:                entry.ID,
		SyllabusVersionId: entry.SyllabusVersionID,
		UserId:            entry.UserID,
		StepOrder:         entry.StepOrder,
		Role:              entry.Role,
		Decision:          entry.Decision,
		Comment:           entry.Comment,
		BatchId:           entry.BatchID,
		CreatedAt:         entry.CreatedAt,
	}
}

func ApprovalHistoryListToApi(entries model.ApprovalHistoryList) api.ApprovalHistoryList {
	list := make(api.ApprovalHistoryList, 0, len(entries))
	for _, entry := range entries {
		list = append(list, ApprovalHistoryEntryToApi(entry))
	}
	return list
}

func RevisionSessionToApi(session model.RevisionSession) api.RevisionSession {
	out := api.RevisionSession{
		Id:                session.ID,
		SyllabusVersionId: session.SyllabusVersionID,
		Status:            session.Status,
		Description:       session.Description,
		InitiatedBy:       session.InitiatedBy,
		AssignedLecturer:  session.AssignedLecturer,
		ReviewerDecision:  session.ReviewerDecision,
		ReviewerComment:   session.ReviewerComment,
		CreatedAt:         session.CreatedAt,
		AssignedAt:        session.AssignedAt,
		SubmittedAt:       session.SubmittedAt,
		ReviewedAt:        session.ReviewedAt,
		RepublishedAt:     session.RepublishedAt,
	}

	if session.FeedbackIDs != nil {
		out.FeedbackIds = session.FeedbackIDs.Data
	}

	for _, submission := range session.Submissions {
		out.Submissions = append(out.Submissions, api.RevisionSubmission{
			LecturerId:  submission.LecturerID,
			Summary:     submission.Summary,
			SubmittedAt: submission.SubmittedAt,
		})
	}

	return out
}

func RevisionSessionListToApi(sessions model.RevisionSessionList) api.RevisionSessionList {
	list := make(api.RevisionSessionList, 0, len(sessions))
	for _, session := range sessions {
		list = append(list, RevisionSessionToApi(session))
	}
	return list
}

func TaskStatusToApi(task model.TaskStatus) api.TaskStatus {
	return api.TaskStatus{
		TaskId:       task.ID,
		Action:       task.Action,
		Status:       task.Status,
		Progress:     task.Progress,
		Result:       task.Result,
		ErrorMessage: task.ErrorMessage,
		SubmittedBy:  task.SubmittedBy,
		CreatedAt:    task.CreatedAt,
	}
}

package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/acadflow/syllabus-planner/internal/store"
	"github.com/acadflow/syllabus-planner/internal/store/model"
)

// SyllabusCreateForm carries the fields for registering a new syllabus
// version. Version defaults to 1 and OwnerLecturer to the creating user.
type SyllabusCreateForm struct {
	Code          string
	Title         string
	Version       int
	OwnerLecturer string
	OrgID         string
}

type SyllabusService struct {
	store store.Store
}

func NewSyllabusService(store store.Store) *SyllabusService {
	return &SyllabusService{store: store}
}

func NewSyllabusFilter(opts ...SyllabusFilterOption) *store.SyllabusQueryFilter {
	filter := store.NewSyllabusQueryFilter()
	for _, opt := range opts {
		opt(filter)
	}
	return filter
}

type SyllabusFilterOption func(*store.SyllabusQueryFilter)

func WithOrgID(orgID string) SyllabusFilterOption {
	return func(f *store.SyllabusQueryFilter) {
		f.ByOrgID(orgID)
	}
}

func WithStatus(status string) SyllabusFilterOption {
	return func(f *store.SyllabusQueryFilter) {
		f.ByStatus(status)
	}
}

func WithCode(code string) SyllabusFilterOption {
	return func(f *store.SyllabusQueryFilter) {
		f.ByCode(code)
	}
}

func (s *SyllabusService) ListSyllabi(ctx context.Context, filter *store.SyllabusQueryFilter) (model.SyllabusVersionList, error) {
	return s.store.Syllabus().List(ctx, filter)
}

func (s *SyllabusService) CreateSyllabus(ctx context.Context, form SyllabusCreateForm) (*model.SyllabusVersion, error) {
	version := form.Version
	if version == 0 {
		version = 1
	}

	syllabus, err := s.store.Syllabus().Create(ctx, model.SyllabusVersion{
		ID:            uuid.New(),
		Code:          form.Code,
		Version:       version,
		Title:         form.Title,
		OwnerLecturer: form.OwnerLecturer,
		OrgID:         form.OrgID,
		Status:        model.SyllabusStatusDraft,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			return nil, NewErrSyllabusVersionExists(form.Code, version)
		}
		return nil, err
	}
	return syllabus, nil
}

func (s *SyllabusService) GetSyllabus(ctx context.Context, id uuid.UUID) (*model.SyllabusVersion, error) {
	syllabus, err := s.store.Syllabus().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrSyllabusNotFound(id)
		}
		return nil, err
	}
	return syllabus, nil
}

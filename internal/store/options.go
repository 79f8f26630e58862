package store

import (
	"gorm.io/gorm"
)

type BaseQuerier struct {
	QueryFn []func(tx *gorm.DB) *gorm.DB
}

type SyllabusQueryFilter BaseQuerier

func NewSyllabusQueryFilter() *SyllabusQueryFilter {
	return &SyllabusQueryFilter{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}
}

func (qf *SyllabusQueryFilter) ByOrgID(orgID string) *SyllabusQueryFilter {
	qf.QueryFn = append(qf.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("org_id = ?", orgID)
	})
	return qf
}

func (qf *SyllabusQueryFilter) ByStatus(status string) *SyllabusQueryFilter {
	qf.QueryFn = append(qf.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("status = ?", status)
	})
	return qf
}

func (qf *SyllabusQueryFilter) ByCode(code string) *SyllabusQueryFilter {
	qf.QueryFn = append(qf.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("code = ?", code)
	})
	return qf
}

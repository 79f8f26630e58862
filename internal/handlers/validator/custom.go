package validator

import (
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/acadflow/syllabus-planner/internal/auth"
	api "github.com/acadflow/syllabus-planner/api/v1alpha1"
)

// Course codes look like "CS101" or "MATH-2040".
var syllabusCodeRegex = regexp.MustCompile(`^[A-Z]{2,8}-?[0-9]{3,4}[A-Z]?$`)

func syllabusCodeValidator(fl validator.FieldLevel) bool {
	val, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}

	return syllabusCodeRegex.MatchString(val)
}

func approverRoleValidator(fl validator.FieldLevel) bool {
	val, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	switch val {
	case auth.RoleHOD:
		fallthrough
	case auth.RoleAcademicAffairs:
		fallthrough
	case auth.RolePrincipal:
		fallthrough
	case auth.RoleAdmin:
		return true
	default:
		return false
	}
}

func decisionValidator(fl validator.FieldLevel) bool {
	val, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	return val == api.DecisionApprove || val == api.DecisionReject
}

func reviewDecisionValidator(fl validator.FieldLevel) bool {
	val, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	return val == api.ReviewDecisionApproved || val == api.ReviewDecisionRejected
}

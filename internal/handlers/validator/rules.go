package validator

import "github.com/go-playground/validator/v10"

func registerFn(tag string, fn func(fl validator.FieldLevel) bool) func(v *validator.Validate) {
	return func(v *validator.Validate) {
		_ = v.RegisterValidation(tag, fn)
	}
}

func NewSyllabusValidationRules() []ValidationRule {
	return []ValidationRule{
		{
			Rule: registerFn("syllabus_code", syllabusCodeValidator),
		},
	}
}

func NewWorkflowValidationRules() []ValidationRule {
	return []ValidationRule{
		{
			Rule: registerFn("approver_role", approverRoleValidator),
		},
		{
			Rule: registerFn("decision", decisionValidator),
		},
	}
}

func NewRevisionValidationRules() []ValidationRule {
	return []ValidationRule{
		{
			Rule: registerFn("review_decision", reviewDecisionValidator),
		},
	}
}

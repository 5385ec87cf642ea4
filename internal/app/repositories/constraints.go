package repositories

import (
	"github.com/yigit/acroconnect/internal/pkg/apperrors"
	"github.com/yigit/acroconnect/internal/pkg/dberrors"
)

type constraintRule struct {
	name    string
	field   string
	message string
}

var uniqueRules = []constraintRule{
	{"users_username_key", "username", "A user with that username already exists."},
	{"users_email_key", "email", "user with this email already exists."},
	{"skills_skill_name_key", "skill_name", "skill with this skill name already exists."},
	{"student_profiles_user_id_key", "user_id", "student profile with this user already exists."},
	{"student_skill_sets_profile_skill_key", "non_field_errors", "The fields student_profile, skill must make a unique set."},
	{"required_skills_posting_skill_key", "non_field_errors", "The fields job_posting, skill must make a unique set."},
}

var checkRules = []constraintRule{
	{"student_skill_sets_level_check", "skill_level", "Ensure this value is between 1 and 5."},
	{"required_skills_level_check", "required_level", "Ensure this value is between 1 and 5."},
}

// constraintError translates a known unique or check violation into a field-level
// validation error. It returns nil for anything else.
func constraintError(err error) error {
	for _, rule := range uniqueRules {
		if dberrors.IsDuplicateConstraintError(err, rule.name) {
			return apperrors.NewValidationError(rule.field, rule.message)
		}
	}
	for _, rule := range checkRules {
		if dberrors.IsCheckConstraintError(err, rule.name) {
			return apperrors.NewValidationError(rule.field, rule.message)
		}
	}
	return nil
}

// foreignKeyError reports a dangling reference on field
func foreignKeyError(err error, field string) error {
	if dberrors.IsForeignKeyError(err) {
		return apperrors.NewValidationError(field, "Invalid pk - object does not exist.")
	}
	return nil
}

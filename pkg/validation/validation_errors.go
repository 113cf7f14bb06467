package validation

import (
	"errors"
	"fmt"
	"strings"

	"go-application-form/internal/domain"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps field names to user-facing labels
var FieldLabels = map[string]string{
	domain.FieldFullName:      "Full Name",
	domain.FieldEmail:         "Email",
	domain.FieldPhone:         "Phone",
	domain.FieldDOB:           "Date of Birth",
	domain.FieldAddress:       "Address",
	domain.FieldQualification: "Qualification",
	domain.FieldPortfolio:     "Portfolio URL",
	domain.FieldLocation:      "Preferred location",
	domain.FieldGender:        "Gender",
	domain.FieldExperience:    "Experience",
	domain.FieldEmployed:      "Employment status",
	domain.FieldCompany:       "Current company",
	domain.FieldSkills:        "Skills",
	domain.FieldDeclaration:   "Declaration",
}

// Messages that do not follow the "<label> is required" shape
const (
	MsgNameLetters      = "Name must contain only letters and spaces"
	MsgEmailFormat      = "Invalid email format"
	MsgPhoneDigits      = "Phone must be 10 digits"
	MsgPortfolioURL     = "Invalid portfolio URL"
	MsgLocationInvalid  = "Invalid preferred location"
	MsgGenderInvalid    = "Invalid gender"
	MsgExperienceNumber = "Experience must be a non-negative number"
	MsgEmployedSelect   = "Please select employment status"
	MsgSkillsSelect     = "Select at least one skill"
	MsgDeclaration      = "You must confirm the declaration"
)

// ToErrorSet converts a validator error into a keyed ErrorSet. A nil error
// yields an empty set. Only the first failure per field is kept.
func ToErrorSet(err error) domain.ErrorSet {
	set := domain.ErrorSet{}
	if err == nil {
		return set
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		// Not a validation error, attach it to the form as a whole
		set["form"] = err.Error()
		return set
	}

	for _, e := range validationErrors {
		field := baseFieldName(e.Field())
		if _, exists := set[field]; exists {
			continue
		}
		set[field] = formatSingleError(field, e.Tag(), e.Param())
	}
	return set
}

// formatSingleError formats one failure into the message shown next to the field
func formatSingleError(field, tag, param string) string {
	label := getFieldLabel(field)

	switch field {
	case domain.FieldEmployed:
		return MsgEmployedSelect
	case domain.FieldSkills:
		if tag == "oneof" {
			return fmt.Sprintf("%s must be one of %s", label, strings.ReplaceAll(param, " ", ", "))
		}
		return MsgSkillsSelect
	case domain.FieldDeclaration:
		return MsgDeclaration
	}

	switch tag {
	case "required", "notblank", "required_if_employed":
		return fmt.Sprintf("%s is required", label)

	case "letters_spaces":
		return MsgNameLetters

	case "simple_email":
		return MsgEmailFormat

	case "ten_digits":
		return MsgPhoneDigits

	case "http_url":
		return MsgPortfolioURL

	case "non_negative_number":
		return MsgExperienceNumber

	case "oneof":
		switch field {
		case domain.FieldLocation:
			return MsgLocationInvalid
		case domain.FieldGender:
			return MsgGenderInvalid
		}
		return fmt.Sprintf("%s must be one of %s", label, strings.ReplaceAll(param, " ", ", "))

	default:
		// Fallback for unknown tags
		return fmt.Sprintf("%s is invalid", label)
	}
}

// baseFieldName strips slice indexes, so skills[2] reports under skills
func baseFieldName(field string) string {
	if i := strings.IndexByte(field, '['); i >= 0 {
		return field[:i]
	}
	return field
}

// getFieldLabel returns the user-friendly label for a field
func getFieldLabel(fieldName string) string {
	if label, ok := FieldLabels[fieldName]; ok {
		return label
	}
	return formatCamelCase(fieldName)
}

// formatCamelCase converts camelCase to spaced words
func formatCamelCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune(' ')
		}
		result.WriteRune(r)
	}
	return result.String()
}

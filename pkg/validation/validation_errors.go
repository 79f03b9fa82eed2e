package validation

import (
	"errors"
	"fmt"
	"strings"

	"jobboard-backend/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps payload field names to user-facing labels
var FieldLabels = map[string]string{
	// Candidate profile
	"full_name":       "Full name",
	"national_id":     "National ID",
	"title":           "Professional title",
	"summary":         "Summary",
	"phone":           "Phone",
	"expected_salary": "Expected salary",
	"birth_date":      "Birth date",
	"linkedin_url":    "LinkedIn URL",
	"github_url":      "GitHub URL",
	"portfolio_url":   "Portfolio URL",

	// Experience and education
	"company":     "Company",
	"position":    "Position",
	"start_date":  "Start date",
	"end_date":    "End date",
	"institution": "Institution",
	"degree":      "Degree",

	// Skills and languages
	"name":  "Name",
	"level": "Level",

	// Documents
	"url":  "Document URL",
	"kind": "Document kind",

	// Postings
	"description":   "Description",
	"contract_type": "Contract type",
	"work_mode":     "Work mode",
	"salary_min":    "Minimum salary",
	"salary_max":    "Maximum salary",
	"state":         "State",
	"status":        "Status",

	// Company
	"website":  "Website",
	"logo_url": "Logo URL",
	"sector":   "Sector",
}

// FieldErrors converts validator output into field-level errors. Errors that
// are not validator.ValidationErrors become a single entry on "request".
func FieldErrors(err error) []apperror.FieldError {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []apperror.FieldError{{Field: "request", Message: err.Error()}}
	}

	fields := make([]apperror.FieldError, 0, len(validationErrors))
	for _, e := range validationErrors {
		fields = append(fields, apperror.FieldError{
			Field:   e.Field(),
			Message: formatSingleError(e),
		})
	}
	return fields
}

// Struct validates s and returns an apperror.Validation on failure.
func Struct(v *validator.Validate, s interface{}) error {
	if err := v.Struct(s); err != nil {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			return apperror.Internal(err)
		}
		return apperror.Validation(FieldErrors(err)...)
	}
	return nil
}

// formatSingleError formats a single validation error to a user-friendly message
func formatSingleError(e validator.FieldError) string {
	label := getFieldLabel(e.Field())
	param := e.Param()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", label)
	case "min":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", label, param)
		}
		return fmt.Sprintf("%s must be at least %s", label, param)
	case "max":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at most %s characters", label, param)
		}
		return fmt.Sprintf("%s must be at most %s", label, param)
	case "gte":
		return fmt.Sprintf("%s cannot be less than %s", label, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.Join(strings.Fields(param), ", "))
	case "email":
		return fmt.Sprintf("%s is not a valid email", label)
	case "url":
		return fmt.Sprintf("%s is not a valid URL", label)
	case "valid_name":
		return fmt.Sprintf("%s may only contain letters, digits and common punctuation", label)
	case "letters_spaces":
		return fmt.Sprintf("%s may only contain letters and spaces", label)
	case "phone_ec":
		return fmt.Sprintf("%s must be exactly 10 digits", label)
	case "ec_national_id":
		if reason := CheckNationalID(fmt.Sprint(e.Value())); reason != nil {
			return fmt.Sprintf("%s %s", label, reason)
		}
		return fmt.Sprintf("%s is not a valid national ID", label)
	case "doc_url":
		return fmt.Sprintf("%s must point to a .pdf, .doc or .docx file", label)
	case "no_emoji":
		return fmt.Sprintf("%s must not contain emoji or symbols", label)
	default:
		return fmt.Sprintf("%s failed %s validation", label, e.Tag())
	}
}

func getFieldLabel(field string) string {
	if label, ok := FieldLabels[field]; ok {
		return label
	}
	return strings.ReplaceAll(field, "_", " ")
}

package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps struct field names to user-friendly labels
var FieldLabels = map[string]string{
	// StudentProfile fields
	"FullName":      "Full name",
	"InstitutionID": "Institution",
	"CGPA":          "CGPA",
	"AcademicYear":  "Academic year",
	"ResumeURL":     "Resume link",
	"MarksMemoURL":  "Marks memo link",

	// Job fields
	"SalaryMin": "Minimum salary",
	"SalaryMax": "Maximum salary",
	"MinCGPA":   "Minimum CGPA",
	"JobType":   "Job type",

	// Institution fields
	"Code": "Institution code",
}

// FormatValidationErrors converts validator.ValidationErrors to user-friendly messages
func FormatValidationErrors(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		// Not a validation error, return generic message
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, formatSingleError(e))
	}
	return messages
}

// formatSingleError formats a single validation error to a user-friendly message
func formatSingleError(e validator.FieldError) string {
	label := getFieldLabel(e.Field())
	param := e.Param()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s: is required", label)
	case "min":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s: must be at least %s characters", label, param)
		}
		return fmt.Sprintf("%s: must be at least %s", label, param)
	case "max":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s: must be at most %s characters", label, param)
		}
		return fmt.Sprintf("%s: must be at most %s", label, param)
	case "gt":
		return fmt.Sprintf("%s: must be greater than %s", label, param)
	case "gte":
		return fmt.Sprintf("%s: must be at least %s", label, param)
	case "lte":
		return fmt.Sprintf("%s: must be at most %s", label, param)
	case "oneof":
		return fmt.Sprintf("%s: must be one of: %s", label, strings.ReplaceAll(param, " ", ", "))
	case "email":
		return fmt.Sprintf("%s: invalid email address", label)
	case "url":
		return fmt.Sprintf("%s: invalid URL", label)
	case "alphanum":
		return fmt.Sprintf("%s: only letters and digits are allowed", label)
	case "valid_name":
		return fmt.Sprintf("%s: only letters, spaces and . ' - are allowed", label)
	case "valid_phone":
		return fmt.Sprintf("%s: invalid phone number (7-15 digits, optional +)", label)
	case "branch":
		return fmt.Sprintf("%s: must be an upper-case branch code such as CSE or IT", label)
	case "academic_year":
		return fmt.Sprintf("%s: must be one of: %s", label, strings.Join(AcademicYears, ", "))
	case "cgpa":
		return fmt.Sprintf("%s: must be between 0 and %.0f", label, MaxCGPA)
	default:
		return fmt.Sprintf("%s: failed validation (%s)", label, e.Tag())
	}
}

// getFieldLabel returns the user-friendly label for a field
func getFieldLabel(fieldName string) string {
	if label, ok := FieldLabels[fieldName]; ok {
		return label
	}
	return formatCamelCase(fieldName)
}

// formatCamelCase converts CamelCase to spaced words
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

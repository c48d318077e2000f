package validation

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Regex patterns
var (
	// Allow letters, spaces, and common name punctuation: . ' -
	nameRegex = regexp.MustCompile(`^[\p{L} .'-]+$`)

	// E164-like phone: optional +, digits 7-15 length
	phoneRegex = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

	// Branch codes such as CSE, IT, ECE, AI-ML
	branchRegex = regexp.MustCompile(`^[A-Z][A-Z&-]{1,9}$`)
)

// AcademicYears lists the year labels used by institutions and job postings
var AcademicYears = []string{"1st Year", "2nd Year", "3rd Year", "4th Year", "5th Year"}

// MaxCGPA is the top of the grading scale
const MaxCGPA = 10.0

// New returns a validator with the custom tags registered.
func New() *validator.Validate {
	v := validator.New()
	RegisterValidators(v)
	return v
}

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("valid_name", ValidName)
	_ = v.RegisterValidation("valid_phone", ValidPhone)
	_ = v.RegisterValidation("branch", ValidBranch)
	_ = v.RegisterValidation("academic_year", ValidAcademicYear)
	_ = v.RegisterValidation("cgpa", ValidCGPA)
}

// ValidName validates that a string contains only valid name characters
func ValidName(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true // Optional, use required if needed
	}
	return nameRegex.MatchString(val)
}

// ValidPhone validates a phone number structure
func ValidPhone(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	return phoneRegex.MatchString(val)
}

// ValidBranch accepts upper-case branch codes
func ValidBranch(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	return branchRegex.MatchString(val)
}

// ValidAcademicYear accepts one of AcademicYears
func ValidAcademicYear(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	return IsAcademicYear(val)
}

// ValidCGPA checks the grade lies on the 0-10 scale
func ValidCGPA(fl validator.FieldLevel) bool {
	cgpa := fl.Field().Float()
	return cgpa >= 0 && cgpa <= MaxCGPA
}

// IsAcademicYear reports whether s is a known academic year label.
func IsAcademicYear(s string) bool {
	for _, y := range AcademicYears {
		if y == s {
			return true
		}
	}
	return false
}

// NormalizeBranches upper-cases, trims and de-duplicates branch codes.
func NormalizeBranches(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, b := range in {
		code := strings.ToUpper(strings.TrimSpace(b))
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true
		out = append(out, code)
	}
	return out
}

package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	FullName     string  `validate:"required,valid_name"`
	Branch       string  `validate:"required,branch"`
	AcademicYear string  `validate:"required,academic_year"`
	CGPA         float64 `validate:"cgpa"`
	Phone        string  `validate:"valid_phone"`
}

func TestCustomValidators(t *testing.T) {
	v := New()

	valid := sample{FullName: "Ananya Rao", Branch: "CSE", AcademicYear: "4th Year", CGPA: 8.0, Phone: "+919876543210"}
	require.NoError(t, v.Struct(valid))

	invalid := sample{FullName: "R2D2", Branch: "cse", AcademicYear: "Final", CGPA: 11, Phone: "12"}
	err := v.Struct(invalid)
	require.Error(t, err)

	messages := FormatValidationErrors(err)
	assert.Len(t, messages, 5)
	assert.Contains(t, messages, "Full name: only letters, spaces and . ' - are allowed")
	assert.Contains(t, messages, "CGPA: must be between 0 and 10")
}

func TestNormalizeBranches(t *testing.T) {
	assert.Equal(t, []string{"CSE", "IT"}, NormalizeBranches([]string{" cse", "IT", "", "Cse"}))
}

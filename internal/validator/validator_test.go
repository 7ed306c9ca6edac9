package validator_test

import (
	"testing"

	"github.com/protomem/medicall/internal/validator"
)

func TestValidator(t *testing.T) {
	var v validator.Validator
	if v.HasErrors() {
		t.Fatal("zero validator has errors")
	}

	v.CheckField(false, "email", "must be a valid email address")
	v.CheckField(false, "email", "second message")
	v.Check(false, "passwords do not match")

	if !v.HasErrors() {
		t.Fatal("HasErrors = false")
	}
	if got := v.FieldErrors["email"]; got != "must be a valid email address" {
		t.Errorf("email error = %q", got)
	}
	if len(v.Errors) != 1 {
		t.Errorf("errors = %v", v.Errors)
	}
}

func TestHelpers(t *testing.T) {
	tests := []struct {
		name string
		got  bool
		want bool
	}{
		{"blank", validator.NotBlank("  "), false},
		{"email", validator.IsEmail("nurse@example.com"), true},
		{"email with name", validator.IsEmail("Nurse <nurse@example.com>"), false},
		{"phone", validator.Matches("+2348012345678", validator.RgxPhone), true},
		{"short phone", validator.Matches("12345", validator.RgxPhone), false},
		{"url", validator.IsURL("https://hospital.example"), true},
		{"relative url", validator.IsURL("/about"), false},
		{"between", validator.Between(5, 1, 5), true},
		{"in", validator.In("worker", "worker", "hospital"), true},
		{"duplicates", validator.NoDuplicates([]string{"a", "a"}), false},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

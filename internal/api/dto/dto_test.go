package dto

import (
	"errors"
	"testing"

	apperrors "github.com/spec-kit/hr-service/pkg/util"
)

func TestValidateReportsJSONFieldNames(t *testing.T) {
	err := Validate(EmployeeRequest{Name: "Amir"})
	if !apperrors.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) {
		t.Fatalf("expected DomainError, got %T", err)
	}
	fields, ok := domainErr.Details["fields"].(map[string]string)
	if !ok {
		t.Fatalf("expected field map, got %#v", domainErr.Details)
	}
	if fields["job_title"] != "is required" {
		t.Errorf("unexpected job_title message %q", fields["job_title"])
	}
	if _, ok := fields["department_id"]; !ok {
		t.Error("expected department_id failure")
	}
	if _, ok := fields["name"]; ok {
		t.Error("name is valid and should not be reported")
	}
}

func TestValidateAcceptsCompletePayload(t *testing.T) {
	if err := Validate(ReviewRequest{Year: 2024, Summary: "Great", EmployeeID: 1}); err != nil {
		t.Errorf("unexpected error %v", err)
	}
}

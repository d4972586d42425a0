package dto

import (
	"time"

	"github.com/spec-kit/hr-service/internal/service"
)

// AuthResponse contains the issued token.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// DepartmentResponse is the public view of a department.
type DepartmentResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
}

// EmployeeResponse is the public view of an employee.
type EmployeeResponse struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	JobTitle     string `json:"job_title"`
	DepartmentID int64  `json:"department_id"`
}

// ReviewResponse is the public view of a review.
type ReviewResponse struct {
	ID         int64  `json:"id"`
	Year       int    `json:"year"`
	Summary    string `json:"summary"`
	EmployeeID int64  `json:"employee_id"`
}

func NewDepartmentResponse(r service.DepartmentRecord) DepartmentResponse {
	return DepartmentResponse{ID: r.ID, Name: r.Name, Location: r.Location}
}

func NewEmployeeResponse(r service.EmployeeRecord) EmployeeResponse {
	return EmployeeResponse{ID: r.ID, Name: r.Name, JobTitle: r.JobTitle, DepartmentID: r.DepartmentID}
}

func NewReviewResponse(r service.ReviewRecord) ReviewResponse {
	return ReviewResponse{ID: r.ID, Year: r.Year, Summary: r.Summary, EmployeeID: r.EmployeeID}
}

// ListResponse converts records with fn.
func ListResponse[R any, T any](records []R, fn func(R) T) []T {
	out := make([]T, 0, len(records))
	for _, r := range records {
		out = append(out, fn(r))
	}
	return out
}

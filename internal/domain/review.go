package domain

import (
	"fmt"

	apperrors "github.com/spec-kit/hr-service/pkg/util"
)

// Review is a yearly performance summary for one employee.
type Review struct {
	id         int64
	year       int
	summary    string
	employeeID int64
}

// NewReview builds a transient review.
func NewReview(year int, summary string, employeeID int64) (*Review, error) {
	r := &Review{}
	if err := r.SetYear(year); err != nil {
		return nil, err
	}
	if err := r.SetSummary(summary); err != nil {
		return nil, err
	}
	if err := r.SetEmployeeID(employeeID); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Review) ID() int64 { return r.id }

func (r *Review) IsPersisted() bool { return r.id != 0 }

func (r *Review) SetID(id int64) { r.id = id }

func (r *Review) ResetID() { r.id = 0 }

func (r *Review) Year() int { return r.year }

// SetYear rejects years before MinReviewYear.
func (r *Review) SetYear(year int) error {
	if year < MinReviewYear {
		return apperrors.NewFieldError("year", fmt.Sprintf("year must be an integer greater than or equal to %d", MinReviewYear))
	}
	r.year = year
	return nil
}

func (r *Review) Summary() string { return r.summary }

func (r *Review) SetSummary(summary string) error {
	if err := requireText("summary", summary); err != nil {
		return err
	}
	r.summary = summary
	return nil
}

func (r *Review) EmployeeID() int64 { return r.employeeID }

func (r *Review) SetEmployeeID(employeeID int64) error {
	if err := requireReference("employee_id", employeeID); err != nil {
		return err
	}
	r.employeeID = employeeID
	return nil
}

func (r *Review) String() string {
	return fmt.Sprintf("<Review %d: %d, %s, Employee: %d>", r.id, r.year, r.summary, r.employeeID)
}

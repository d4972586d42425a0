package dto

// LoginRequest payload for POST /auth/token.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// DepartmentRequest payload for creating or replacing a department.
type DepartmentRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Location string `json:"location" validate:"required,max=200"`
}

// EmployeeRequest payload for creating or replacing an employee.
type EmployeeRequest struct {
	Name         string `json:"name" validate:"required,max=200"`
	JobTitle     string `json:"job_title" validate:"required,max=200"`
	DepartmentID int64  `json:"department_id" validate:"required,gt=0"`
}

// ReviewRequest payload for creating or replacing a review.
type ReviewRequest struct {
	Year       int    `json:"year" validate:"required"`
	Summary    string `json:"summary" validate:"required"`
	EmployeeID int64  `json:"employee_id" validate:"required,gt=0"`
}

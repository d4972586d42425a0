package domain

import "fmt"

// Employee works in exactly one department and collects yearly reviews.
type Employee struct {
	id           int64
	name         string
	jobTitle     string
	departmentID int64
}

// NewEmployee builds a transient employee. Whether the department exists is
// checked when the employee is saved.
func NewEmployee(name, jobTitle string, departmentID int64) (*Employee, error) {
	e := &Employee{}
	if err := e.SetName(name); err != nil {
		return nil, err
	}
	if err := e.SetJobTitle(jobTitle); err != nil {
		return nil, err
	}
	if err := e.SetDepartmentID(departmentID); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Employee) ID() int64 { return e.id }

func (e *Employee) IsPersisted() bool { return e.id != 0 }

func (e *Employee) SetID(id int64) { e.id = id }

func (e *Employee) ResetID() { e.id = 0 }

func (e *Employee) Name() string { return e.name }

func (e *Employee) SetName(name string) error {
	if err := requireText("name", name); err != nil {
		return err
	}
	e.name = name
	return nil
}

func (e *Employee) JobTitle() string { return e.jobTitle }

func (e *Employee) SetJobTitle(jobTitle string) error {
	if err := requireText("job_title", jobTitle); err != nil {
		return err
	}
	e.jobTitle = jobTitle
	return nil
}

func (e *Employee) DepartmentID() int64 { return e.departmentID }

// SetDepartmentID moves the employee to another department.
func (e *Employee) SetDepartmentID(departmentID int64) error {
	if err := requireReference("department_id", departmentID); err != nil {
		return err
	}
	e.departmentID = departmentID
	return nil
}

func (e *Employee) String() string {
	return fmt.Sprintf("<Employee %d: %s, %s, Department ID: %d>", e.id, e.name, e.jobTitle, e.departmentID)
}

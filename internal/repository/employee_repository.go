package repository

import (
	"context"
	"fmt"

	"github.com/spec-kit/hr-service/internal/domain"
	"github.com/spec-kit/hr-service/internal/identity"
	"github.com/spec-kit/hr-service/internal/persistence"
	apperrors "github.com/spec-kit/hr-service/pkg/util"
)

// EmployeeRow mirrors one row of the employees table.
type EmployeeRow struct {
	ID           int64
	Name         string
	JobTitle     string
	DepartmentID int64
}

// EmployeeRepository manages employee persistence.
type EmployeeRepository interface {
	CreateTable(ctx context.Context) error
	DropTable(ctx context.Context) error
	Create(ctx context.Context, name, jobTitle string, departmentID int64) (*domain.Employee, error)
	Save(ctx context.Context, emp *domain.Employee) error
	Update(ctx context.Context, emp *domain.Employee) error
	Delete(ctx context.Context, emp *domain.Employee) error
	InstanceFromRow(row EmployeeRow) (*domain.Employee, error)
	GetAll(ctx context.Context) ([]*domain.Employee, error)
	FindByID(ctx context.Context, id int64) (*domain.Employee, error)
	FindByName(ctx context.Context, name string) (*domain.Employee, error)
	ListByDepartment(ctx context.Context, departmentID int64) ([]*domain.Employee, error)
	Department(ctx context.Context, emp *domain.Employee) (*domain.Department, error)
	Reviews(ctx context.Context, emp *domain.Employee) ([]*domain.Review, error)
	Cache() *identity.Map[*domain.Employee]
}

type employeeRepository struct {
	db          *persistence.DB
	cache       *identity.Map[*domain.Employee]
	departments *departmentRepository
	reviews     *reviewRepository
}

func (r *employeeRepository) Cache() *identity.Map[*domain.Employee] {
	return r.cache
}

func (r *employeeRepository) CreateTable(ctx context.Context) error {
	dialect := r.db.Dialect()
	query := fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS employees (
            id %s,
            name TEXT,
            job_title TEXT,
            department_id %s,
            FOREIGN KEY (department_id) REFERENCES departments(id))`, dialect.PrimaryKey, dialect.ForeignKey)
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("create employees table: %w", err)
	}
	return nil
}

func (r *employeeRepository) DropTable(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DROP TABLE IF EXISTS employees`); err != nil {
		return fmt.Errorf("drop employees table: %w", err)
	}
	r.cache.Clear()
	return nil
}

func (r *employeeRepository) Create(ctx context.Context, name, jobTitle string, departmentID int64) (*domain.Employee, error) {
	emp, err := domain.NewEmployee(name, jobTitle, departmentID)
	if err != nil {
		return nil, err
	}
	if err := r.Save(ctx, emp); err != nil {
		return nil, err
	}
	return emp, nil
}

// Save inserts a transient employee and registers it, or updates a persisted
// one. The department must exist.
func (r *employeeRepository) Save(ctx context.Context, emp *domain.Employee) error {
	if emp.IsPersisted() {
		return r.Update(ctx, emp)
	}
	if err := requireReference(ctx, r.db, "departments", "department_id", emp.DepartmentID()); err != nil {
		return err
	}

	const query = `
        INSERT INTO employees (name, job_title, department_id)
        VALUES ($1,$2,$3)
        RETURNING id`
	var id int64
	if err := r.db.QueryRowContext(ctx, query, emp.Name(), emp.JobTitle(), emp.DepartmentID()).Scan(&id); err != nil {
		return fmt.Errorf("insert employee: %w", persistence.TranslateError(err))
	}
	emp.SetID(id)
	r.cache.Put(id, emp)
	return nil
}

func (r *employeeRepository) Update(ctx context.Context, emp *domain.Employee) error {
	if err := requirePersisted("employee", emp.ID()); err != nil {
		return err
	}
	if err := requireReference(ctx, r.db, "departments", "department_id", emp.DepartmentID()); err != nil {
		return err
	}

	const query = `
        UPDATE employees SET name=$1, job_title=$2, department_id=$3
        WHERE id=$4`
	n, err := execAffected(ctx, r.db, query, emp.Name(), emp.JobTitle(), emp.DepartmentID(), emp.ID())
	if err != nil {
		return fmt.Errorf("update employee %d: %w", emp.ID(), err)
	}
	if n == 0 {
		return apperrors.NewNotFound("employee", map[string]any{"id": emp.ID()})
	}
	return nil
}

// Delete removes the row, evicts the instance and marks it transient. An
// employee with reviews is left untouched.
func (r *employeeRepository) Delete(ctx context.Context, emp *domain.Employee) error {
	id := emp.ID()
	if err := requirePersisted("employee", id); err != nil {
		return err
	}

	reviews, err := countWhere(ctx, r.db, "reviews", "employee_id", id)
	if err != nil {
		return err
	}
	if reviews > 0 {
		return apperrors.NewConflict("employee still has reviews", map[string]any{"id": id, "reviews": reviews})
	}

	n, err := execAffected(ctx, r.db, `DELETE FROM employees WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete employee %d: %w", id, err)
	}
	r.cache.Delete(id)
	emp.ResetID()
	if n == 0 {
		return apperrors.NewNotFound("employee", map[string]any{"id": id})
	}
	return nil
}

// InstanceFromRow returns the cached employee for row.ID refreshed with the
// row values, or materializes and caches a new one.
func (r *employeeRepository) InstanceFromRow(row EmployeeRow) (*domain.Employee, error) {
	if emp, ok := r.cache.Get(row.ID); ok {
		if err := emp.SetName(row.Name); err != nil {
			return nil, err
		}
		if err := emp.SetJobTitle(row.JobTitle); err != nil {
			return nil, err
		}
		if err := emp.SetDepartmentID(row.DepartmentID); err != nil {
			return nil, err
		}
		return emp, nil
	}

	emp, err := domain.NewEmployee(row.Name, row.JobTitle, row.DepartmentID)
	if err != nil {
		return nil, err
	}
	emp.SetID(row.ID)
	r.cache.Put(row.ID, emp)
	return emp, nil
}

func (r *employeeRepository) GetAll(ctx context.Context) ([]*domain.Employee, error) {
	const query = `
        SELECT id, name, job_title, department_id
        FROM employees ORDER BY id`
	return r.list(ctx, query)
}

// FindByID returns nil without error when no row matches.
func (r *employeeRepository) FindByID(ctx context.Context, id int64) (*domain.Employee, error) {
	const query = `
        SELECT id, name, job_title, department_id
        FROM employees WHERE id=$1`
	return r.first(ctx, query, id)
}

// FindByName returns the first employee with the given name, or nil.
func (r *employeeRepository) FindByName(ctx context.Context, name string) (*domain.Employee, error) {
	const query = `
        SELECT id, name, job_title, department_id
        FROM employees WHERE name=$1 ORDER BY id LIMIT 1`
	return r.first(ctx, query, name)
}

func (r *employeeRepository) ListByDepartment(ctx context.Context, departmentID int64) ([]*domain.Employee, error) {
	const query = `
        SELECT id, name, job_title, department_id
        FROM employees WHERE department_id=$1 ORDER BY id`
	return r.list(ctx, query, departmentID)
}

// Department returns the employee's department, or nil if it no longer exists.
func (r *employeeRepository) Department(ctx context.Context, emp *domain.Employee) (*domain.Department, error) {
	if r.departments == nil {
		return nil, fmt.Errorf("employee repository built without department repository")
	}
	return r.departments.FindByID(ctx, emp.DepartmentID())
}

// Reviews lists the employee's reviews in insertion order.
func (r *employeeRepository) Reviews(ctx context.Context, emp *domain.Employee) ([]*domain.Review, error) {
	if r.reviews == nil {
		return nil, fmt.Errorf("employee repository built without review repository")
	}
	return r.reviews.ListByEmployee(ctx, emp.ID())
}

func (r *employeeRepository) first(ctx context.Context, query string, args ...any) (*domain.Employee, error) {
	emps, err := r.list(ctx, query, args...)
	if err != nil || len(emps) == 0 {
		return nil, err
	}
	return emps[0], nil
}

func (r *employeeRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Employee, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query employees: %w", err)
	}
	defer rows.Close()

	var raw []EmployeeRow
	for rows.Next() {
		row, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		raw = append(raw, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := make([]*domain.Employee, 0, len(raw))
	for _, row := range raw {
		emp, err := r.InstanceFromRow(row)
		if err != nil {
			return nil, err
		}
		result = append(result, emp)
	}
	return result, nil
}

func scanEmployee(s scanner) (EmployeeRow, error) {
	var row EmployeeRow
	if err := s.Scan(&row.ID, &row.Name, &row.JobTitle, &row.DepartmentID); err != nil {
		return EmployeeRow{}, fmt.Errorf("scan employee: %w", err)
	}
	return row, nil
}

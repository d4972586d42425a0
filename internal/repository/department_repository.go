package repository

import (
	"context"
	"fmt"

	"github.com/spec-kit/hr-service/internal/domain"
	"github.com/spec-kit/hr-service/internal/identity"
	"github.com/spec-kit/hr-service/internal/persistence"
	apperrors "github.com/spec-kit/hr-service/pkg/util"
)

// DepartmentRow mirrors one row of the departments table.
type DepartmentRow struct {
	ID       int64
	Name     string
	Location string
}

// DepartmentRepository manages department persistence.
type DepartmentRepository interface {
	CreateTable(ctx context.Context) error
	DropTable(ctx context.Context) error
	Create(ctx context.Context, name, location string) (*domain.Department, error)
	Save(ctx context.Context, dept *domain.Department) error
	Update(ctx context.Context, dept *domain.Department) error
	Delete(ctx context.Context, dept *domain.Department) error
	InstanceFromRow(row DepartmentRow) (*domain.Department, error)
	GetAll(ctx context.Context) ([]*domain.Department, error)
	FindByID(ctx context.Context, id int64) (*domain.Department, error)
	FindByName(ctx context.Context, name string) (*domain.Department, error)
	Employees(ctx context.Context, dept *domain.Department) ([]*domain.Employee, error)
	Cache() *identity.Map[*domain.Department]
}

type departmentRepository struct {
	db        *persistence.DB
	cache     *identity.Map[*domain.Department]
	employees *employeeRepository
}

func (r *departmentRepository) Cache() *identity.Map[*domain.Department] {
	return r.cache
}

func (r *departmentRepository) CreateTable(ctx context.Context) error {
	query := fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS departments (
            id %s,
            name TEXT,
            location TEXT)`, r.db.Dialect().PrimaryKey)
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("create departments table: %w", err)
	}
	return nil
}

func (r *departmentRepository) DropTable(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DROP TABLE IF EXISTS departments`); err != nil {
		return fmt.Errorf("drop departments table: %w", err)
	}
	r.cache.Clear()
	return nil
}

func (r *departmentRepository) Create(ctx context.Context, name, location string) (*domain.Department, error) {
	dept, err := domain.NewDepartment(name, location)
	if err != nil {
		return nil, err
	}
	if err := r.Save(ctx, dept); err != nil {
		return nil, err
	}
	return dept, nil
}

// Save inserts a transient department and registers it, or updates a persisted one.
func (r *departmentRepository) Save(ctx context.Context, dept *domain.Department) error {
	if dept.IsPersisted() {
		return r.Update(ctx, dept)
	}

	const query = `
        INSERT INTO departments (name, location)
        VALUES ($1,$2)
        RETURNING id`
	var id int64
	if err := r.db.QueryRowContext(ctx, query, dept.Name(), dept.Location()).Scan(&id); err != nil {
		return fmt.Errorf("insert department: %w", persistence.TranslateError(err))
	}
	dept.SetID(id)
	r.cache.Put(id, dept)
	return nil
}

func (r *departmentRepository) Update(ctx context.Context, dept *domain.Department) error {
	if err := requirePersisted("department", dept.ID()); err != nil {
		return err
	}

	const query = `
        UPDATE departments SET name=$1, location=$2
        WHERE id=$3`
	n, err := execAffected(ctx, r.db, query, dept.Name(), dept.Location(), dept.ID())
	if err != nil {
		return fmt.Errorf("update department %d: %w", dept.ID(), err)
	}
	if n == 0 {
		return apperrors.NewNotFound("department", map[string]any{"id": dept.ID()})
	}
	return nil
}

// Delete removes the row, evicts the instance and marks it transient. A
// department that still has employees is left untouched.
func (r *departmentRepository) Delete(ctx context.Context, dept *domain.Department) error {
	id := dept.ID()
	if err := requirePersisted("department", id); err != nil {
		return err
	}

	staff, err := countWhere(ctx, r.db, "employees", "department_id", id)
	if err != nil {
		return err
	}
	if staff > 0 {
		return apperrors.NewConflict("department still has employees", map[string]any{"id": id, "employees": staff})
	}

	n, err := execAffected(ctx, r.db, `DELETE FROM departments WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete department %d: %w", id, err)
	}
	r.cache.Delete(id)
	dept.ResetID()
	if n == 0 {
		return apperrors.NewNotFound("department", map[string]any{"id": id})
	}
	return nil
}

// InstanceFromRow returns the cached department for row.ID refreshed with the
// row values, or materializes and caches a new one.
func (r *departmentRepository) InstanceFromRow(row DepartmentRow) (*domain.Department, error) {
	if dept, ok := r.cache.Get(row.ID); ok {
		if err := dept.SetName(row.Name); err != nil {
			return nil, err
		}
		if err := dept.SetLocation(row.Location); err != nil {
			return nil, err
		}
		return dept, nil
	}

	dept, err := domain.NewDepartment(row.Name, row.Location)
	if err != nil {
		return nil, err
	}
	dept.SetID(row.ID)
	r.cache.Put(row.ID, dept)
	return dept, nil
}

func (r *departmentRepository) GetAll(ctx context.Context) ([]*domain.Department, error) {
	const query = `
        SELECT id, name, location
        FROM departments ORDER BY id`
	return r.list(ctx, query)
}

// FindByID returns nil without error when no row matches.
func (r *departmentRepository) FindByID(ctx context.Context, id int64) (*domain.Department, error) {
	const query = `
        SELECT id, name, location
        FROM departments WHERE id=$1`
	return r.first(ctx, query, id)
}

// FindByName returns the first department with the given name, or nil.
func (r *departmentRepository) FindByName(ctx context.Context, name string) (*domain.Department, error) {
	const query = `
        SELECT id, name, location
        FROM departments WHERE name=$1 ORDER BY id LIMIT 1`
	return r.first(ctx, query, name)
}

// Employees lists the department's employees in insertion order.
func (r *departmentRepository) Employees(ctx context.Context, dept *domain.Department) ([]*domain.Employee, error) {
	if r.employees == nil {
		return nil, fmt.Errorf("department repository built without employee repository")
	}
	return r.employees.ListByDepartment(ctx, dept.ID())
}

func (r *departmentRepository) first(ctx context.Context, query string, args ...any) (*domain.Department, error) {
	depts, err := r.list(ctx, query, args...)
	if err != nil || len(depts) == 0 {
		return nil, err
	}
	return depts[0], nil
}

func (r *departmentRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Department, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query departments: %w", err)
	}
	defer rows.Close()

	var raw []DepartmentRow
	for rows.Next() {
		row, err := scanDepartment(rows)
		if err != nil {
			return nil, err
		}
		raw = append(raw, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := make([]*domain.Department, 0, len(raw))
	for _, row := range raw {
		dept, err := r.InstanceFromRow(row)
		if err != nil {
			return nil, err
		}
		result = append(result, dept)
	}
	return result, nil
}

func scanDepartment(s scanner) (DepartmentRow, error) {
	var row DepartmentRow
	if err := s.Scan(&row.ID, &row.Name, &row.Location); err != nil {
		return DepartmentRow{}, fmt.Errorf("scan department: %w", err)
	}
	return row, nil
}

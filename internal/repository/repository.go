package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/spec-kit/hr-service/internal/domain"
	"github.com/spec-kit/hr-service/internal/identity"
	"github.com/spec-kit/hr-service/internal/persistence"
	apperrors "github.com/spec-kit/hr-service/pkg/util"
)

// Options tune the identity maps owned by the repositories.
type Options struct {
	// IdentityMapSize bounds each identity map; zero keeps every entry.
	IdentityMapSize int
	// LookupHook, when set, is called with the entity name and returns the
	// callback recording identity map hits and misses.
	LookupHook func(entity string) func(hit bool)
}

// Repositories bundles the entity repositories sharing one database handle.
type Repositories struct {
	Departments DepartmentRepository
	Employees   EmployeeRepository
	Reviews     ReviewRepository
}

// NewRepositories builds the three repositories and links their relationship accessors.
func NewRepositories(db *persistence.DB, opts Options) *Repositories {
	departments := &departmentRepository{
		db:    db,
		cache: identity.New[*domain.Department](opts.IdentityMapSize, lookupOption[*domain.Department](opts, "department")...),
	}
	employees := &employeeRepository{
		db:    db,
		cache: identity.New[*domain.Employee](opts.IdentityMapSize, lookupOption[*domain.Employee](opts, "employee")...),
	}
	reviews := &reviewRepository{
		db:    db,
		cache: identity.New[*domain.Review](opts.IdentityMapSize, lookupOption[*domain.Review](opts, "review")...),
	}

	departments.employees = employees
	employees.departments = departments
	employees.reviews = reviews
	reviews.employees = employees

	return &Repositories{
		Departments: departments,
		Employees:   employees,
		Reviews:     reviews,
	}
}

// Migrations lists the table creation steps in dependency order.
func (r *Repositories) Migrations() []persistence.Migration {
	return []persistence.Migration{
		{Name: "create_departments", Up: r.Departments.CreateTable},
		{Name: "create_employees", Up: r.Employees.CreateTable},
		{Name: "create_reviews", Up: r.Reviews.CreateTable},
	}
}

// CreateTables creates every table that does not exist yet.
func (r *Repositories) CreateTables(ctx context.Context) error {
	for _, m := range r.Migrations() {
		if err := m.Up(ctx); err != nil {
			return err
		}
	}
	return nil
}

// DropTables drops every table, dependants first.
func (r *Repositories) DropTables(ctx context.Context) error {
	for _, drop := range []func(context.Context) error{
		r.Reviews.DropTable,
		r.Employees.DropTable,
		r.Departments.DropTable,
	} {
		if err := drop(ctx); err != nil {
			return err
		}
	}
	return nil
}

func lookupOption[T any](opts Options, entity string) []identity.Option[T] {
	if opts.LookupHook == nil {
		return nil
	}
	return []identity.Option[T]{identity.WithLookupHook[T](opts.LookupHook(entity))}
}

type scanner interface {
	Scan(dest ...any) error
}

func rowExists(ctx context.Context, db *persistence.DB, table string, id int64) (bool, error) {
	query := fmt.Sprintf("SELECT 1 FROM %s WHERE id=$1", table)
	var one int
	err := db.QueryRowContext(ctx, query, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check %s %d: %w", table, id, err)
	}
	return true, nil
}

func countWhere(ctx context.Context, db *persistence.DB, table, column string, value int64) (int, error) {
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s=$1", table, column)
	var n int
	if err := db.QueryRowContext(ctx, query, value).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

func requireReference(ctx context.Context, db *persistence.DB, table, field string, id int64) error {
	ok, err := rowExists(ctx, db, table, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NewValidationError(
			fmt.Sprintf("%s must match an existing record in %s", field, table),
			map[string]any{"field": field, "value": id},
		)
	}
	return nil
}

func requirePersisted(entity string, id int64) error {
	if id == 0 {
		return apperrors.NewValidationError(entity+" has not been saved", map[string]any{"entity": entity})
	}
	return nil
}

func execAffected(ctx context.Context, db *persistence.DB, query string, args ...any) (int64, error) {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, persistence.TranslateError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, nil
}

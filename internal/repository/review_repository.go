package repository

import (
	"context"
	"fmt"

	"github.com/spec-kit/hr-service/internal/domain"
	"github.com/spec-kit/hr-service/internal/identity"
	"github.com/spec-kit/hr-service/internal/persistence"
	apperrors "github.com/spec-kit/hr-service/pkg/util"
)

// ReviewRow mirrors one row of the reviews table.
type ReviewRow struct {
	ID         int64
	Year       int
	Summary    string
	EmployeeID int64
}

// ReviewRepository manages review persistence.
type ReviewRepository interface {
	CreateTable(ctx context.Context) error
	DropTable(ctx context.Context) error
	Create(ctx context.Context, year int, summary string, employeeID int64) (*domain.Review, error)
	Save(ctx context.Context, review *domain.Review) error
	Update(ctx context.Context, review *domain.Review) error
	Delete(ctx context.Context, review *domain.Review) error
	InstanceFromRow(row ReviewRow) (*domain.Review, error)
	GetAll(ctx context.Context) ([]*domain.Review, error)
	FindByID(ctx context.Context, id int64) (*domain.Review, error)
	ListByEmployee(ctx context.Context, employeeID int64) ([]*domain.Review, error)
	Employee(ctx context.Context, review *domain.Review) (*domain.Employee, error)
	Cache() *identity.Map[*domain.Review]
}

type reviewRepository struct {
	db        *persistence.DB
	cache     *identity.Map[*domain.Review]
	employees *employeeRepository
}

func (r *reviewRepository) Cache() *identity.Map[*domain.Review] {
	return r.cache
}

func (r *reviewRepository) CreateTable(ctx context.Context) error {
	dialect := r.db.Dialect()
	query := fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS reviews (
            id %s,
            year INTEGER,
            summary TEXT,
            employee_id %s,
            FOREIGN KEY (employee_id) REFERENCES employees(id))`, dialect.PrimaryKey, dialect.ForeignKey)
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("create reviews table: %w", err)
	}
	return nil
}

func (r *reviewRepository) DropTable(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DROP TABLE IF EXISTS reviews`); err != nil {
		return fmt.Errorf("drop reviews table: %w", err)
	}
	r.cache.Clear()
	return nil
}

func (r *reviewRepository) Create(ctx context.Context, year int, summary string, employeeID int64) (*domain.Review, error) {
	review, err := domain.NewReview(year, summary, employeeID)
	if err != nil {
		return nil, err
	}
	if err := r.Save(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// Save inserts a transient review and registers it, or updates a persisted
// one. The employee must exist.
func (r *reviewRepository) Save(ctx context.Context, review *domain.Review) error {
	if review.IsPersisted() {
		return r.Update(ctx, review)
	}
	if err := requireReference(ctx, r.db, "employees", "employee_id", review.EmployeeID()); err != nil {
		return err
	}

	const query = `
        INSERT INTO reviews (year, summary, employee_id)
        VALUES ($1,$2,$3)
        RETURNING id`
	var id int64
	if err := r.db.QueryRowContext(ctx, query, review.Year(), review.Summary(), review.EmployeeID()).Scan(&id); err != nil {
		return fmt.Errorf("insert review: %w", persistence.TranslateError(err))
	}
	review.SetID(id)
	r.cache.Put(id, review)
	return nil
}

func (r *reviewRepository) Update(ctx context.Context, review *domain.Review) error {
	if err := requirePersisted("review", review.ID()); err != nil {
		return err
	}
	if err := requireReference(ctx, r.db, "employees", "employee_id", review.EmployeeID()); err != nil {
		return err
	}

	const query = `
        UPDATE reviews SET year=$1, summary=$2, employee_id=$3
        WHERE id=$4`
	n, err := execAffected(ctx, r.db, query, review.Year(), review.Summary(), review.EmployeeID(), review.ID())
	if err != nil {
		return fmt.Errorf("update review %d: %w", review.ID(), err)
	}
	if n == 0 {
		return apperrors.NewNotFound("review", map[string]any{"id": review.ID()})
	}
	return nil
}

// Delete removes the row, evicts the instance and marks it transient.
func (r *reviewRepository) Delete(ctx context.Context, review *domain.Review) error {
	id := review.ID()
	if err := requirePersisted("review", id); err != nil {
		return err
	}

	n, err := execAffected(ctx, r.db, `DELETE FROM reviews WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete review %d: %w", id, err)
	}
	r.cache.Delete(id)
	review.ResetID()
	if n == 0 {
		return apperrors.NewNotFound("review", map[string]any{"id": id})
	}
	return nil
}

// InstanceFromRow returns the cached review for row.ID refreshed with the row
// values, or materializes and caches a new one.
func (r *reviewRepository) InstanceFromRow(row ReviewRow) (*domain.Review, error) {
	if review, ok := r.cache.Get(row.ID); ok {
		if err := review.SetYear(row.Year); err != nil {
			return nil, err
		}
		if err := review.SetSummary(row.Summary); err != nil {
			return nil, err
		}
		if err := review.SetEmployeeID(row.EmployeeID); err != nil {
			return nil, err
		}
		return review, nil
	}

	review, err := domain.NewReview(row.Year, row.Summary, row.EmployeeID)
	if err != nil {
		return nil, err
	}
	review.SetID(row.ID)
	r.cache.Put(row.ID, review)
	return review, nil
}

func (r *reviewRepository) GetAll(ctx context.Context) ([]*domain.Review, error) {
	const query = `
        SELECT id, year, summary, employee_id
        FROM reviews ORDER BY id`
	return r.list(ctx, query)
}

// FindByID returns nil without error when no row matches.
func (r *reviewRepository) FindByID(ctx context.Context, id int64) (*domain.Review, error) {
	const query = `
        SELECT id, year, summary, employee_id
        FROM reviews WHERE id=$1`
	reviews, err := r.list(ctx, query, id)
	if err != nil || len(reviews) == 0 {
		return nil, err
	}
	return reviews[0], nil
}

func (r *reviewRepository) ListByEmployee(ctx context.Context, employeeID int64) ([]*domain.Review, error) {
	const query = `
        SELECT id, year, summary, employee_id
        FROM reviews WHERE employee_id=$1 ORDER BY id`
	return r.list(ctx, query, employeeID)
}

// Employee returns the reviewed employee, or nil if it no longer exists.
func (r *reviewRepository) Employee(ctx context.Context, review *domain.Review) (*domain.Employee, error) {
	if r.employees == nil {
		return nil, fmt.Errorf("review repository built without employee repository")
	}
	return r.employees.FindByID(ctx, review.EmployeeID())
}

func (r *reviewRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Review, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}
	defer rows.Close()

	var raw []ReviewRow
	for rows.Next() {
		var row ReviewRow
		if err := rows.Scan(&row.ID, &row.Year, &row.Summary, &row.EmployeeID); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		raw = append(raw, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := make([]*domain.Review, 0, len(raw))
	for _, row := range raw {
		review, err := r.InstanceFromRow(row)
		if err != nil {
			return nil, err
		}
		result = append(result, review)
	}
	return result, nil
}

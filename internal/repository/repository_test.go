package repository

import (
	"context"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/spec-kit/hr-service/internal/config"
	"github.com/spec-kit/hr-service/internal/domain"
	"github.com/spec-kit/hr-service/internal/persistence"
	apperrors "github.com/spec-kit/hr-service/pkg/util"
)

func openTestDB(t *testing.T) *persistence.DB {
	t.Helper()
	db, err := persistence.Open(context.Background(), config.DatabaseConfig{
		Driver: config.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "hr.db"),
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(db.Close)
	return db
}

func newTestRepos(t *testing.T, opts Options) (*Repositories, *persistence.DB) {
	t.Helper()
	db := openTestDB(t)
	repos := NewRepositories(db, opts)
	if err := repos.CreateTables(context.Background()); err != nil {
		t.Fatalf("create tables: %v", err)
	}
	return repos, db
}

func mustDepartment(t *testing.T, repos *Repositories, name, location string) *domain.Department {
	t.Helper()
	dept, err := repos.Departments.Create(context.Background(), name, location)
	if err != nil {
		t.Fatalf("create department %q: %v", name, err)
	}
	return dept
}

func mustEmployee(t *testing.T, repos *Repositories, name, title string, deptID int64) *domain.Employee {
	t.Helper()
	emp, err := repos.Employees.Create(context.Background(), name, title, deptID)
	if err != nil {
		t.Fatalf("create employee %q: %v", name, err)
	}
	return emp
}

func TestCreateAndDropTablesAreIdempotent(t *testing.T) {
	ctx := context.Background()
	repos, _ := newTestRepos(t, Options{})

	if err := repos.CreateTables(ctx); err != nil {
		t.Fatalf("second create: %v", err)
	}
	mustDepartment(t, repos, "Payroll", "Building A")

	if err := repos.DropTables(ctx); err != nil {
		t.Fatalf("drop: %v", err)
	}
	if err := repos.DropTables(ctx); err != nil {
		t.Fatalf("second drop: %v", err)
	}
	if repos.Departments.Cache().Len() != 0 {
		t.Errorf("expected cache cleared after drop")
	}
	if err := repos.CreateTables(ctx); err != nil {
		t.Fatalf("recreate: %v", err)
	}
	all, err := repos.Departments.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("expected empty table, got %d rows", len(all))
	}
}

func TestDepartmentIdentityIsShared(t *testing.T) {
	ctx := context.Background()
	repos, _ := newTestRepos(t, Options{})

	dept := mustDepartment(t, repos, "Payroll", "Building A")
	if dept.ID() == 0 {
		t.Fatal("expected id assigned on save")
	}

	found, err := repos.Departments.FindByID(ctx, dept.ID())
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if found != dept {
		t.Error("expected FindByID to return the saved instance")
	}

	byName, err := repos.Departments.FindByName(ctx, "Payroll")
	if err != nil {
		t.Fatalf("FindByName: %v", err)
	}
	if byName != dept {
		t.Error("expected FindByName to return the saved instance")
	}

	all, err := repos.Departments.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(all) != 1 || all[0] != dept {
		t.Errorf("unexpected GetAll result %v", all)
	}
}

func TestFindMissingReturnsNil(t *testing.T) {
	ctx := context.Background()
	repos, _ := newTestRepos(t, Options{})

	dept, err := repos.Departments.FindByID(ctx, 42)
	if err != nil || dept != nil {
		t.Errorf("expected nil, nil; got %v, %v", dept, err)
	}
	emp, err := repos.Employees.FindByName(ctx, "Nobody")
	if err != nil || emp != nil {
		t.Errorf("expected nil, nil; got %v, %v", emp, err)
	}
	review, err := repos.Reviews.FindByID(ctx, 7)
	if err != nil || review != nil {
		t.Errorf("expected nil, nil; got %v, %v", review, err)
	}
}

func TestUpdatePersistsChanges(t *testing.T) {
	ctx := context.Background()
	repos, db := newTestRepos(t, Options{})

	dept := mustDepartment(t, repos, "Payroll", "Building A")
	if err := dept.SetLocation("Building B"); err != nil {
		t.Fatalf("SetLocation: %v", err)
	}
	if err := repos.Departments.Update(ctx, dept); err != nil {
		t.Fatalf("Update: %v", err)
	}

	var location string
	if err := db.QueryRowContext(ctx, "SELECT location FROM departments WHERE id=$1", dept.ID()).Scan(&location); err != nil {
		t.Fatalf("read row: %v", err)
	}
	if location != "Building B" {
		t.Errorf("expected updated location, got %q", location)
	}
}

func TestUpdateMissingRow(t *testing.T) {
	ctx := context.Background()
	repos, db := newTestRepos(t, Options{})

	dept := mustDepartment(t, repos, "Payroll", "Building A")
	if _, err := db.ExecContext(ctx, "DELETE FROM departments WHERE id=$1", dept.ID()); err != nil {
		t.Fatalf("delete row: %v", err)
	}
	if err := repos.Departments.Update(ctx, dept); !apperrors.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}

	transient, err := domain.NewDepartment("Legal", "Building C")
	if err != nil {
		t.Fatalf("NewDepartment: %v", err)
	}
	if err := repos.Departments.Update(ctx, transient); !apperrors.IsValidation(err) {
		t.Errorf("expected validation error for unsaved department, got %v", err)
	}
}

func TestDeleteEvictsInstance(t *testing.T) {
	ctx := context.Background()
	repos, _ := newTestRepos(t, Options{})

	dept := mustDepartment(t, repos, "Payroll", "Building A")
	id := dept.ID()
	if err := repos.Departments.Delete(ctx, dept); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if dept.ID() != 0 {
		t.Errorf("expected id reset, got %d", dept.ID())
	}
	if repos.Departments.Cache().Contains(id) {
		t.Error("expected instance evicted from identity map")
	}
	found, err := repos.Departments.FindByID(ctx, id)
	if err != nil || found != nil {
		t.Errorf("expected deleted department to be gone, got %v, %v", found, err)
	}
}

func TestDeleteWithDependantsConflicts(t *testing.T) {
	ctx := context.Background()
	repos, _ := newTestRepos(t, Options{})

	dept := mustDepartment(t, repos, "Payroll", "Building A")
	emp := mustEmployee(t, repos, "Amir", "Accountant", dept.ID())
	if _, err := repos.Reviews.Create(ctx, 2023, "Solid year", emp.ID()); err != nil {
		t.Fatalf("create review: %v", err)
	}

	if err := repos.Departments.Delete(ctx, dept); !apperrors.IsConflict(err) {
		t.Errorf("expected conflict deleting department, got %v", err)
	}
	if dept.ID() == 0 {
		t.Error("expected department to stay persisted")
	}
	if err := repos.Employees.Delete(ctx, emp); !apperrors.IsConflict(err) {
		t.Errorf("expected conflict deleting employee, got %v", err)
	}
}

func TestEmployeeRequiresExistingDepartment(t *testing.T) {
	ctx := context.Background()
	repos, _ := newTestRepos(t, Options{})

	_, err := repos.Employees.Create(ctx, "Amir", "Accountant", 99)
	if !apperrors.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	dept := mustDepartment(t, repos, "Payroll", "Building A")
	emp := mustEmployee(t, repos, "Amir", "Accountant", dept.ID())
	if err := emp.SetDepartmentID(99); err != nil {
		t.Fatalf("SetDepartmentID: %v", err)
	}
	if err := repos.Employees.Save(ctx, emp); !apperrors.IsValidation(err) {
		t.Errorf("expected validation error on update, got %v", err)
	}
}

func TestReviewRequiresExistingEmployee(t *testing.T) {
	repos, _ := newTestRepos(t, Options{})
	_, err := repos.Reviews.Create(context.Background(), 2023, "Solid year", 5)
	if !apperrors.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRelationshipAccessors(t *testing.T) {
	ctx := context.Background()
	repos, _ := newTestRepos(t, Options{})

	payroll := mustDepartment(t, repos, "Payroll", "Building A")
	legal := mustDepartment(t, repos, "Legal", "Building B")
	amir := mustEmployee(t, repos, "Amir", "Accountant", payroll.ID())
	bea := mustEmployee(t, repos, "Bea", "Counsel", legal.ID())
	cleo := mustEmployee(t, repos, "Cleo", "Manager", payroll.ID())

	emps, err := repos.Departments.Employees(ctx, payroll)
	if err != nil {
		t.Fatalf("Employees: %v", err)
	}
	if len(emps) != 2 || emps[0] != amir || emps[1] != cleo {
		t.Errorf("unexpected payroll employees %v", emps)
	}

	dept, err := repos.Employees.Department(ctx, bea)
	if err != nil {
		t.Fatalf("Department: %v", err)
	}
	if dept != legal {
		t.Errorf("expected Legal, got %v", dept)
	}

	first, err := repos.Reviews.Create(ctx, 2022, "Good", amir.ID())
	if err != nil {
		t.Fatalf("create review: %v", err)
	}
	second, err := repos.Reviews.Create(ctx, 2023, "Great", amir.ID())
	if err != nil {
		t.Fatalf("create review: %v", err)
	}
	reviews, err := repos.Employees.Reviews(ctx, amir)
	if err != nil {
		t.Fatalf("Reviews: %v", err)
	}
	if len(reviews) != 2 || reviews[0] != first || reviews[1] != second {
		t.Errorf("unexpected reviews %v", reviews)
	}

	owner, err := repos.Reviews.Employee(ctx, second)
	if err != nil {
		t.Fatalf("Employee: %v", err)
	}
	if owner != amir {
		t.Errorf("expected Amir, got %v", owner)
	}
}

func TestInstanceFromRowRefreshesCachedInstance(t *testing.T) {
	repos, _ := newTestRepos(t, Options{})
	dept := mustDepartment(t, repos, "Payroll", "Building A")

	refreshed, err := repos.Departments.InstanceFromRow(DepartmentRow{ID: dept.ID(), Name: "Payroll", Location: "Remote"})
	if err != nil {
		t.Fatalf("InstanceFromRow: %v", err)
	}
	if refreshed != dept {
		t.Fatal("expected cached instance")
	}
	if dept.Location() != "Remote" {
		t.Errorf("expected refreshed location, got %q", dept.Location())
	}

	fresh, err := repos.Departments.InstanceFromRow(DepartmentRow{ID: 77, Name: "Audit", Location: "Building D"})
	if err != nil {
		t.Fatalf("InstanceFromRow: %v", err)
	}
	if fresh.ID() != 77 || !repos.Departments.Cache().Contains(77) {
		t.Errorf("expected new instance registered under 77")
	}

	if _, err := repos.Departments.InstanceFromRow(DepartmentRow{ID: 78, Name: " ", Location: "x"}); !apperrors.IsValidation(err) {
		t.Errorf("expected validation error for blank name, got %v", err)
	}
}

func TestBoundedIdentityMapRematerializes(t *testing.T) {
	ctx := context.Background()
	var hits, misses int
	repos, _ := newTestRepos(t, Options{
		IdentityMapSize: 1,
		LookupHook: func(string) func(bool) {
			return func(hit bool) {
				if hit {
					hits++
				} else {
					misses++
				}
			}
		},
	})

	first := mustDepartment(t, repos, "Payroll", "Building A")
	mustDepartment(t, repos, "Legal", "Building B")

	again, err := repos.Departments.FindByID(ctx, first.ID())
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if again == first {
		t.Error("expected evicted department to be materialized again")
	}
	if again.Name() != "Payroll" {
		t.Errorf("unexpected name %q", again.Name())
	}
	if misses == 0 {
		t.Error("expected lookup hook to record a miss")
	}

	if _, err := repos.Departments.FindByID(ctx, first.ID()); err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if hits == 0 {
		t.Error("expected lookup hook to record a hit")
	}
}

package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/hr-service/internal/domain"
	"github.com/spec-kit/hr-service/internal/events"
	"github.com/spec-kit/hr-service/internal/repository"
	apperrors "github.com/spec-kit/hr-service/pkg/util"
)

// DepartmentRecord is a point-in-time copy of a department.
type DepartmentRecord struct {
	ID       int64
	Name     string
	Location string
}

// EmployeeRecord is a point-in-time copy of an employee.
type EmployeeRecord struct {
	ID           int64
	Name         string
	JobTitle     string
	DepartmentID int64
}

// ReviewRecord is a point-in-time copy of a review.
type ReviewRecord struct {
	ID         int64
	Year       int
	Summary    string
	EmployeeID int64
}

// DepartmentInput carries the writable department fields.
type DepartmentInput struct {
	Name     string
	Location string
}

// EmployeeInput carries the writable employee fields.
type EmployeeInput struct {
	Name         string
	JobTitle     string
	DepartmentID int64
}

// ReviewInput carries the writable review fields.
type ReviewInput struct {
	Year       int
	Summary    string
	EmployeeID int64
}

// DirectoryService runs department, employee and review use cases one at a
// time against the shared repositories and announces every change.
type DirectoryService struct {
	mu         sync.Mutex
	repos      *repository.Repositories
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewDirectoryService constructs the service. dispatcher may be nil.
func NewDirectoryService(repos *repository.Repositories, dispatcher events.Dispatcher, logger *zap.Logger) *DirectoryService {
	return &DirectoryService{repos: repos, dispatcher: dispatcher, logger: logger}
}

// CreateDepartment validates and stores a new department.
func (s *DirectoryService) CreateDepartment(ctx context.Context, in DepartmentInput) (DepartmentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dept, err := s.repos.Departments.Create(ctx, in.Name, in.Location)
	if err != nil {
		return DepartmentRecord{}, apperrors.MapError(err)
	}
	rec := departmentRecord(dept)
	s.publish(ctx, events.EventDepartmentCreated, rec.ID, departmentPayload(rec))
	return rec, nil
}

// GetDepartment returns the department with id.
func (s *DirectoryService) GetDepartment(ctx context.Context, id int64) (DepartmentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dept, err := s.loadDepartment(ctx, id)
	if err != nil {
		return DepartmentRecord{}, err
	}
	return departmentRecord(dept), nil
}

// ListDepartments returns every department, or the first one called name when
// name is set.
func (s *DirectoryService) ListDepartments(ctx context.Context, name string) ([]DepartmentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var depts []*domain.Department
	if name != "" {
		dept, err := s.repos.Departments.FindByName(ctx, name)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		if dept != nil {
			depts = append(depts, dept)
		}
	} else {
		all, err := s.repos.Departments.GetAll(ctx)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		depts = all
	}
	return mapSlice(depts, departmentRecord), nil
}

// UpdateDepartment overwrites the department's fields. The in-memory instance
// keeps its previous values when the update fails.
func (s *DirectoryService) UpdateDepartment(ctx context.Context, id int64, in DepartmentInput) (DepartmentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := domain.NewDepartment(in.Name, in.Location); err != nil {
		return DepartmentRecord{}, err
	}
	dept, err := s.loadDepartment(ctx, id)
	if err != nil {
		return DepartmentRecord{}, err
	}

	prev := departmentRecord(dept)
	applyDepartment(dept, in.Name, in.Location)
	if err := s.repos.Departments.Update(ctx, dept); err != nil {
		applyDepartment(dept, prev.Name, prev.Location)
		return DepartmentRecord{}, apperrors.MapError(err)
	}

	rec := departmentRecord(dept)
	s.publish(ctx, events.EventDepartmentUpdated, rec.ID, departmentPayload(rec))
	return rec, nil
}

// DeleteDepartment removes a department that has no employees.
func (s *DirectoryService) DeleteDepartment(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dept, err := s.loadDepartment(ctx, id)
	if err != nil {
		return err
	}
	rec := departmentRecord(dept)
	if err := s.repos.Departments.Delete(ctx, dept); err != nil {
		return apperrors.MapError(err)
	}
	s.publish(ctx, events.EventDepartmentDeleted, id, departmentPayload(rec))
	return nil
}

// DepartmentEmployees lists the department's employees in insertion order.
func (s *DirectoryService) DepartmentEmployees(ctx context.Context, id int64) ([]EmployeeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dept, err := s.loadDepartment(ctx, id)
	if err != nil {
		return nil, err
	}
	emps, err := s.repos.Departments.Employees(ctx, dept)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return mapSlice(emps, employeeRecord), nil
}

// CreateEmployee stores a new employee in an existing department.
func (s *DirectoryService) CreateEmployee(ctx context.Context, in EmployeeInput) (EmployeeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	emp, err := s.repos.Employees.Create(ctx, in.Name, in.JobTitle, in.DepartmentID)
	if err != nil {
		return EmployeeRecord{}, apperrors.MapError(err)
	}
	rec := employeeRecord(emp)
	s.publish(ctx, events.EventEmployeeCreated, rec.ID, employeePayload(rec))
	return rec, nil
}

// GetEmployee returns the employee with id.
func (s *DirectoryService) GetEmployee(ctx context.Context, id int64) (EmployeeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	emp, err := s.loadEmployee(ctx, id)
	if err != nil {
		return EmployeeRecord{}, err
	}
	return employeeRecord(emp), nil
}

// ListEmployees returns every employee, or the first one called name when
// name is set.
func (s *DirectoryService) ListEmployees(ctx context.Context, name string) ([]EmployeeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var emps []*domain.Employee
	if name != "" {
		emp, err := s.repos.Employees.FindByName(ctx, name)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		if emp != nil {
			emps = append(emps, emp)
		}
	} else {
		all, err := s.repos.Employees.GetAll(ctx)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		emps = all
	}
	return mapSlice(emps, employeeRecord), nil
}

// UpdateEmployee overwrites the employee's fields. The in-memory instance
// keeps its previous values when the update fails.
func (s *DirectoryService) UpdateEmployee(ctx context.Context, id int64, in EmployeeInput) (EmployeeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := domain.NewEmployee(in.Name, in.JobTitle, in.DepartmentID); err != nil {
		return EmployeeRecord{}, err
	}
	emp, err := s.loadEmployee(ctx, id)
	if err != nil {
		return EmployeeRecord{}, err
	}

	prev := employeeRecord(emp)
	applyEmployee(emp, in.Name, in.JobTitle, in.DepartmentID)
	if err := s.repos.Employees.Update(ctx, emp); err != nil {
		applyEmployee(emp, prev.Name, prev.JobTitle, prev.DepartmentID)
		return EmployeeRecord{}, apperrors.MapError(err)
	}

	rec := employeeRecord(emp)
	s.publish(ctx, events.EventEmployeeUpdated, rec.ID, employeePayload(rec))
	return rec, nil
}

// DeleteEmployee removes an employee that has no reviews.
func (s *DirectoryService) DeleteEmployee(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	emp, err := s.loadEmployee(ctx, id)
	if err != nil {
		return err
	}
	rec := employeeRecord(emp)
	if err := s.repos.Employees.Delete(ctx, emp); err != nil {
		return apperrors.MapError(err)
	}
	s.publish(ctx, events.EventEmployeeDeleted, id, employeePayload(rec))
	return nil
}

// EmployeeReviews lists the employee's reviews in insertion order.
func (s *DirectoryService) EmployeeReviews(ctx context.Context, id int64) ([]ReviewRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	emp, err := s.loadEmployee(ctx, id)
	if err != nil {
		return nil, err
	}
	reviews, err := s.repos.Employees.Reviews(ctx, emp)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return mapSlice(reviews, reviewRecord), nil
}

// CreateReview stores a new review for an existing employee.
func (s *DirectoryService) CreateReview(ctx context.Context, in ReviewInput) (ReviewRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	review, err := s.repos.Reviews.Create(ctx, in.Year, in.Summary, in.EmployeeID)
	if err != nil {
		return ReviewRecord{}, apperrors.MapError(err)
	}
	rec := reviewRecord(review)
	s.publish(ctx, events.EventReviewCreated, rec.ID, reviewPayload(rec))
	return rec, nil
}

// GetReview returns the review with id.
func (s *DirectoryService) GetReview(ctx context.Context, id int64) (ReviewRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	review, err := s.loadReview(ctx, id)
	if err != nil {
		return ReviewRecord{}, err
	}
	return reviewRecord(review), nil
}

// ListReviews returns every review.
func (s *DirectoryService) ListReviews(ctx context.Context) ([]ReviewRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reviews, err := s.repos.Reviews.GetAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return mapSlice(reviews, reviewRecord), nil
}

// UpdateReview overwrites the review's fields. The in-memory instance keeps
// its previous values when the update fails.
func (s *DirectoryService) UpdateReview(ctx context.Context, id int64, in ReviewInput) (ReviewRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := domain.NewReview(in.Year, in.Summary, in.EmployeeID); err != nil {
		return ReviewRecord{}, err
	}
	review, err := s.loadReview(ctx, id)
	if err != nil {
		return ReviewRecord{}, err
	}

	prev := reviewRecord(review)
	applyReview(review, in.Year, in.Summary, in.EmployeeID)
	if err := s.repos.Reviews.Update(ctx, review); err != nil {
		applyReview(review, prev.Year, prev.Summary, prev.EmployeeID)
		return ReviewRecord{}, apperrors.MapError(err)
	}

	rec := reviewRecord(review)
	s.publish(ctx, events.EventReviewUpdated, rec.ID, reviewPayload(rec))
	return rec, nil
}

// DeleteReview removes a review.
func (s *DirectoryService) DeleteReview(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	review, err := s.loadReview(ctx, id)
	if err != nil {
		return err
	}
	rec := reviewRecord(review)
	if err := s.repos.Reviews.Delete(ctx, review); err != nil {
		return apperrors.MapError(err)
	}
	s.publish(ctx, events.EventReviewDeleted, id, reviewPayload(rec))
	return nil
}

func (s *DirectoryService) loadDepartment(ctx context.Context, id int64) (*domain.Department, error) {
	dept, err := s.repos.Departments.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if dept == nil {
		return nil, apperrors.NewNotFound("department", map[string]any{"id": id})
	}
	return dept, nil
}

func (s *DirectoryService) loadEmployee(ctx context.Context, id int64) (*domain.Employee, error) {
	emp, err := s.repos.Employees.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if emp == nil {
		return nil, apperrors.NewNotFound("employee", map[string]any{"id": id})
	}
	return emp, nil
}

func (s *DirectoryService) loadReview(ctx context.Context, id int64) (*domain.Review, error) {
	review, err := s.repos.Reviews.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if review == nil {
		return nil, apperrors.NewNotFound("review", map[string]any{"id": id})
	}
	return review, nil
}

// publish announces a committed change. Handler failures are logged only.
func (s *DirectoryService) publish(ctx context.Context, eventType events.EventType, id int64, payload any) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, events.NewEvent(eventType, id, payload)); err != nil {
		s.logger.Warn("event handler failed",
			zap.String("event_type", string(eventType)),
			zap.Int64("entity_id", id),
			zap.Error(err))
	}
}

// The apply helpers run on inputs that already passed the constructors'
// validation, so the setters cannot fail.
func applyDepartment(dept *domain.Department, name, location string) {
	_ = dept.SetName(name)
	_ = dept.SetLocation(location)
}

func applyEmployee(emp *domain.Employee, name, jobTitle string, departmentID int64) {
	_ = emp.SetName(name)
	_ = emp.SetJobTitle(jobTitle)
	_ = emp.SetDepartmentID(departmentID)
}

func applyReview(review *domain.Review, year int, summary string, employeeID int64) {
	_ = review.SetYear(year)
	_ = review.SetSummary(summary)
	_ = review.SetEmployeeID(employeeID)
}

func departmentRecord(d *domain.Department) DepartmentRecord {
	return DepartmentRecord{ID: d.ID(), Name: d.Name(), Location: d.Location()}
}

func employeeRecord(e *domain.Employee) EmployeeRecord {
	return EmployeeRecord{ID: e.ID(), Name: e.Name(), JobTitle: e.JobTitle(), DepartmentID: e.DepartmentID()}
}

func reviewRecord(r *domain.Review) ReviewRecord {
	return ReviewRecord{ID: r.ID(), Year: r.Year(), Summary: r.Summary(), EmployeeID: r.EmployeeID()}
}

func departmentPayload(r DepartmentRecord) events.DepartmentPayload {
	return events.DepartmentPayload{Name: r.Name, Location: r.Location}
}

func employeePayload(r EmployeeRecord) events.EmployeePayload {
	return events.EmployeePayload{Name: r.Name, JobTitle: r.JobTitle, DepartmentID: r.DepartmentID}
}

func reviewPayload(r ReviewRecord) events.ReviewPayload {
	return events.ReviewPayload{Year: r.Year, Summary: r.Summary, EmployeeID: r.EmployeeID}
}

func mapSlice[E any, R any](items []E, fn func(E) R) []R {
	out := make([]R, 0, len(items))
	for _, item := range items {
		out = append(out, fn(item))
	}
	return out
}

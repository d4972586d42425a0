package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/hr-service/internal/auth"
	"github.com/spec-kit/hr-service/internal/config"
	"github.com/spec-kit/hr-service/internal/events"
	"github.com/spec-kit/hr-service/internal/persistence"
	"github.com/spec-kit/hr-service/internal/repository"
	apperrors "github.com/spec-kit/hr-service/pkg/util"
)

type countingPublisher struct {
	calls   int
	channel string
}

func (p *countingPublisher) Publish(ctx context.Context, channel string, _ interface{}) *redis.IntCmd {
	p.calls++
	p.channel = channel
	cmd := redis.NewIntCmd(ctx)
	cmd.SetVal(1)
	return cmd
}

type recorder struct {
	events []events.Event
}

func (r *recorder) handle(_ context.Context, event events.Event) error {
	r.events = append(r.events, event)
	return nil
}

func (r *recorder) types() []events.EventType {
	out := make([]events.EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

func newTestDirectory(t *testing.T) (*DirectoryService, *repository.Repositories, *recorder) {
	t.Helper()
	ctx := context.Background()
	db, err := persistence.Open(ctx, config.DatabaseConfig{
		Driver: config.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "hr.db"),
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(db.Close)

	repos := repository.NewRepositories(db, repository.Options{})
	if err := repos.CreateTables(ctx); err != nil {
		t.Fatalf("create tables: %v", err)
	}

	rec := &recorder{}
	dispatcher := events.NewInMemoryDispatcher()
	for _, eventType := range events.AllEventTypes {
		dispatcher.Subscribe(eventType, rec.handle)
	}
	return NewDirectoryService(repos, dispatcher, zap.NewNop()), repos, rec
}

func TestDirectoryLifecyclePublishesEvents(t *testing.T) {
	ctx := context.Background()
	svc, _, rec := newTestDirectory(t)

	dept, err := svc.CreateDepartment(ctx, DepartmentInput{Name: "Payroll", Location: "Building A"})
	if err != nil {
		t.Fatalf("CreateDepartment: %v", err)
	}
	emp, err := svc.CreateEmployee(ctx, EmployeeInput{Name: "Amir", JobTitle: "Accountant", DepartmentID: dept.ID})
	if err != nil {
		t.Fatalf("CreateEmployee: %v", err)
	}
	review, err := svc.CreateReview(ctx, ReviewInput{Year: 2023, Summary: "Solid year", EmployeeID: emp.ID})
	if err != nil {
		t.Fatalf("CreateReview: %v", err)
	}
	if _, err := svc.UpdateReview(ctx, review.ID, ReviewInput{Year: 2024, Summary: "Even better", EmployeeID: emp.ID}); err != nil {
		t.Fatalf("UpdateReview: %v", err)
	}
	if err := svc.DeleteReview(ctx, review.ID); err != nil {
		t.Fatalf("DeleteReview: %v", err)
	}

	want := []events.EventType{
		events.EventDepartmentCreated,
		events.EventEmployeeCreated,
		events.EventReviewCreated,
		events.EventReviewUpdated,
		events.EventReviewDeleted,
	}
	got := rec.types()
	if len(got) != len(want) {
		t.Fatalf("expected events %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d: expected %s, got %s", i, want[i], got[i])
		}
	}
	if rec.events[4].EntityID != review.ID {
		t.Errorf("expected delete event for review %d, got %d", review.ID, rec.events[4].EntityID)
	}
}

func TestUpdateKeepsInstanceOnFailure(t *testing.T) {
	ctx := context.Background()
	svc, repos, rec := newTestDirectory(t)

	dept, err := svc.CreateDepartment(ctx, DepartmentInput{Name: "Payroll", Location: "Building A"})
	if err != nil {
		t.Fatalf("CreateDepartment: %v", err)
	}
	emp, err := svc.CreateEmployee(ctx, EmployeeInput{Name: "Amir", JobTitle: "Accountant", DepartmentID: dept.ID})
	if err != nil {
		t.Fatalf("CreateEmployee: %v", err)
	}
	before := len(rec.events)

	_, err = svc.UpdateEmployee(ctx, emp.ID, EmployeeInput{Name: "Amira", JobTitle: "Lead", DepartmentID: 404})
	if !apperrors.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	cached, ok := repos.Employees.Cache().Get(emp.ID)
	if !ok {
		t.Fatal("expected employee in identity map")
	}
	if cached.Name() != "Amir" || cached.DepartmentID() != dept.ID {
		t.Errorf("expected instance unchanged, got %s", cached)
	}

	if _, err := svc.UpdateEmployee(ctx, emp.ID, EmployeeInput{Name: "", JobTitle: "Lead", DepartmentID: dept.ID}); !apperrors.IsValidation(err) {
		t.Errorf("expected validation error for blank name, got %v", err)
	}
	if len(rec.events) != before {
		t.Errorf("expected no events for failed updates, got %v", rec.types()[before:])
	}
}

func TestMissingEntitiesAreNotFound(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestDirectory(t)

	if _, err := svc.GetDepartment(ctx, 1); !apperrors.IsNotFound(err) {
		t.Errorf("GetDepartment: expected not found, got %v", err)
	}
	if _, err := svc.EmployeeReviews(ctx, 1); !apperrors.IsNotFound(err) {
		t.Errorf("EmployeeReviews: expected not found, got %v", err)
	}
	if err := svc.DeleteReview(ctx, 1); !apperrors.IsNotFound(err) {
		t.Errorf("DeleteReview: expected not found, got %v", err)
	}
}

func TestListByName(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestDirectory(t)

	for _, name := range []string{"Payroll", "Legal"} {
		if _, err := svc.CreateDepartment(ctx, DepartmentInput{Name: name, Location: "HQ"}); err != nil {
			t.Fatalf("CreateDepartment: %v", err)
		}
	}

	all, err := svc.ListDepartments(ctx, "")
	if err != nil || len(all) != 2 {
		t.Fatalf("expected two departments, got %v, %v", all, err)
	}
	legal, err := svc.ListDepartments(ctx, "Legal")
	if err != nil || len(legal) != 1 || legal[0].Name != "Legal" {
		t.Fatalf("expected Legal only, got %v, %v", legal, err)
	}
	none, err := svc.ListDepartments(ctx, "Audit")
	if err != nil || len(none) != 0 {
		t.Fatalf("expected no match, got %v, %v", none, err)
	}
}

func TestDeleteDepartmentWithEmployeesConflicts(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestDirectory(t)

	dept, _ := svc.CreateDepartment(ctx, DepartmentInput{Name: "Payroll", Location: "HQ"})
	if _, err := svc.CreateEmployee(ctx, EmployeeInput{Name: "Amir", JobTitle: "Accountant", DepartmentID: dept.ID}); err != nil {
		t.Fatalf("CreateEmployee: %v", err)
	}
	if err := svc.DeleteDepartment(ctx, dept.ID); !apperrors.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	emps, err := svc.DepartmentEmployees(ctx, dept.ID)
	if err != nil || len(emps) != 1 {
		t.Errorf("expected department intact, got %v, %v", emps, err)
	}
}

func TestAuthLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	svc := NewAuthService(config.AuthConfig{
		JWTSecret:             "secret",
		AccessTokenTTLMinutes: 5,
		AdminUsername:         "admin",
		AdminPasswordHash:     string(hash),
	})

	token, _, err := svc.Login(context.Background(), "admin", "hunter2")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	claims, err := svc.TokenManager().ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.Role != auth.RoleAdmin {
		t.Errorf("expected admin role, got %q", claims.Role)
	}

	if _, _, err := svc.Login(context.Background(), "admin", "wrong"); !apperrors.HasCode(err, apperrors.CodeUnauthorized) {
		t.Errorf("expected unauthorized for bad password, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "root", "hunter2"); !apperrors.HasCode(err, apperrors.CodeUnauthorized) {
		t.Errorf("expected unauthorized for bad username, got %v", err)
	}

	disabled := NewAuthService(config.AuthConfig{JWTSecret: "secret", AdminUsername: "admin"})
	if _, _, err := disabled.Login(context.Background(), "admin", ""); !apperrors.HasCode(err, apperrors.CodeUnauthorized) {
		t.Errorf("expected unauthorized without configured hash, got %v", err)
	}
}

func TestNotificationServiceFansOut(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	pub := &countingPublisher{}
	NewNotificationService(dispatcher, zap.NewNop(), nil, pub, "hr.events").RegisterHandlers()

	if err := dispatcher.Publish(context.Background(), events.NewEvent(events.EventDepartmentCreated, 1, nil)); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if pub.calls != 1 || pub.channel != "hr.events" {
		t.Errorf("expected one redis publish on hr.events, got %d on %q", pub.calls, pub.channel)
	}
}

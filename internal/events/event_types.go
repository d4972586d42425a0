package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventDepartmentCreated EventType = "department.created"
	EventDepartmentUpdated EventType = "department.updated"
	EventDepartmentDeleted EventType = "department.deleted"
	EventEmployeeCreated   EventType = "employee.created"
	EventEmployeeUpdated   EventType = "employee.updated"
	EventEmployeeDeleted   EventType = "employee.deleted"
	EventReviewCreated     EventType = "review.created"
	EventReviewUpdated     EventType = "review.updated"
	EventReviewDeleted     EventType = "review.deleted"
)

// AllEventTypes lists every change event, in publication order of the lifecycle.
var AllEventTypes = []EventType{
	EventDepartmentCreated, EventDepartmentUpdated, EventDepartmentDeleted,
	EventEmployeeCreated, EventEmployeeUpdated, EventEmployeeDeleted,
	EventReviewCreated, EventReviewUpdated, EventReviewDeleted,
}

// Event represents a change to one persisted entity.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	EntityID  int64       `json:"entity_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// NewEvent stamps a fresh event.
func NewEvent(eventType EventType, entityID int64, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		EntityID:  entityID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// DepartmentPayload payload.
type DepartmentPayload struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

// EmployeePayload payload.
type EmployeePayload struct {
	Name         string `json:"name"`
	JobTitle     string `json:"job_title"`
	DepartmentID int64  `json:"department_id"`
}

// ReviewPayload payload.
type ReviewPayload struct {
	Year       int    `json:"year"`
	Summary    string `json:"summary"`
	EmployeeID int64  `json:"employee_id"`
}

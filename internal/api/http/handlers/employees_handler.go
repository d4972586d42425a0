package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/hr-service/internal/api/dto"
	"github.com/spec-kit/hr-service/internal/service"
)

// EmployeesHandler exposes employee endpoints.
type EmployeesHandler struct {
	service *service.DirectoryService
}

// NewEmployeesHandler constructs handler.
func NewEmployeesHandler(directory *service.DirectoryService) *EmployeesHandler {
	return &EmployeesHandler{service: directory}
}

// List GET /api/employees.
func (h *EmployeesHandler) List(c *fiber.Ctx) error {
	records, err := h.service.ListEmployees(c.UserContext(), c.Query("name"))
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, dto.ListResponse(records, dto.NewEmployeeResponse))
}

// Get GET /api/employees/:id.
func (h *EmployeesHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	rec, err := h.service.GetEmployee(c.UserContext(), id)
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, dto.NewEmployeeResponse(rec))
}

// Create POST /api/employees.
func (h *EmployeesHandler) Create(c *fiber.Ctx) error {
	var req dto.EmployeeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	rec, err := h.service.CreateEmployee(c.UserContext(), employeeInput(req))
	if err != nil {
		return err
	}
	return data(c, fiber.StatusCreated, dto.NewEmployeeResponse(rec))
}

// Update PUT /api/employees/:id.
func (h *EmployeesHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req dto.EmployeeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	rec, err := h.service.UpdateEmployee(c.UserContext(), id, employeeInput(req))
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, dto.NewEmployeeResponse(rec))
}

// Delete DELETE /api/employees/:id.
func (h *EmployeesHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteEmployee(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Reviews GET /api/employees/:id/reviews.
func (h *EmployeesHandler) Reviews(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	records, err := h.service.EmployeeReviews(c.UserContext(), id)
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, dto.ListResponse(records, dto.NewReviewResponse))
}

func employeeInput(req dto.EmployeeRequest) service.EmployeeInput {
	return service.EmployeeInput{
		Name:         req.Name,
		JobTitle:     req.JobTitle,
		DepartmentID: req.DepartmentID,
	}
}

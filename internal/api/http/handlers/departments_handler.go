package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/hr-service/internal/api/dto"
	"github.com/spec-kit/hr-service/internal/service"
)

// DepartmentsHandler exposes department endpoints.
type DepartmentsHandler struct {
	service *service.DirectoryService
}

// NewDepartmentsHandler constructs handler.
func NewDepartmentsHandler(directory *service.DirectoryService) *DepartmentsHandler {
	return &DepartmentsHandler{service: directory}
}

// List GET /api/departments.
func (h *DepartmentsHandler) List(c *fiber.Ctx) error {
	records, err := h.service.ListDepartments(c.UserContext(), c.Query("name"))
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, dto.ListResponse(records, dto.NewDepartmentResponse))
}

// Get GET /api/departments/:id.
func (h *DepartmentsHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	rec, err := h.service.GetDepartment(c.UserContext(), id)
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, dto.NewDepartmentResponse(rec))
}

// Create POST /api/departments.
func (h *DepartmentsHandler) Create(c *fiber.Ctx) error {
	var req dto.DepartmentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	rec, err := h.service.CreateDepartment(c.UserContext(), service.DepartmentInput{
		Name:     req.Name,
		Location: req.Location,
	})
	if err != nil {
		return err
	}
	return data(c, fiber.StatusCreated, dto.NewDepartmentResponse(rec))
}

// Update PUT /api/departments/:id.
func (h *DepartmentsHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req dto.DepartmentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	rec, err := h.service.UpdateDepartment(c.UserContext(), id, service.DepartmentInput{
		Name:     req.Name,
		Location: req.Location,
	})
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, dto.NewDepartmentResponse(rec))
}

// Delete DELETE /api/departments/:id.
func (h *DepartmentsHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteDepartment(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Employees GET /api/departments/:id/employees.
func (h *DepartmentsHandler) Employees(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	records, err := h.service.DepartmentEmployees(c.UserContext(), id)
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, dto.ListResponse(records, dto.NewEmployeeResponse))
}

package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/hr-service/internal/api/dto"
	"github.com/spec-kit/hr-service/internal/service"
)

// ReviewsHandler exposes review endpoints.
type ReviewsHandler struct {
	service *service.DirectoryService
}

// NewReviewsHandler constructs handler.
func NewReviewsHandler(directory *service.DirectoryService) *ReviewsHandler {
	return &ReviewsHandler{service: directory}
}

// List GET /api/reviews.
func (h *ReviewsHandler) List(c *fiber.Ctx) error {
	records, err := h.service.ListReviews(c.UserContext())
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, dto.ListResponse(records, dto.NewReviewResponse))
}

// Get GET /api/reviews/:id.
func (h *ReviewsHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	rec, err := h.service.GetReview(c.UserContext(), id)
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, dto.NewReviewResponse(rec))
}

// Create POST /api/reviews.
func (h *ReviewsHandler) Create(c *fiber.Ctx) error {
	var req dto.ReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	rec, err := h.service.CreateReview(c.UserContext(), reviewInput(req))
	if err != nil {
		return err
	}
	return data(c, fiber.StatusCreated, dto.NewReviewResponse(rec))
}

// Update PUT /api/reviews/:id.
func (h *ReviewsHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req dto.ReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	rec, err := h.service.UpdateReview(c.UserContext(), id, reviewInput(req))
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, dto.NewReviewResponse(rec))
}

// Delete DELETE /api/reviews/:id.
func (h *ReviewsHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteReview(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func reviewInput(req dto.ReviewRequest) service.ReviewInput {
	return service.ReviewInput{
		Year:       req.Year,
		Summary:    req.Summary,
		EmployeeID: req.EmployeeID,
	}
}

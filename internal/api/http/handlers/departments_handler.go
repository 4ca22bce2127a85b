package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/hospital-portal/internal/domain"
	"github.com/spec-kit/hospital-portal/internal/service"
	apperrors "github.com/spec-kit/hospital-portal/pkg/util"
)

// DepartmentsHandler exposes clinic departments.
type DepartmentsHandler struct {
	departments *service.DepartmentService
}

// NewDepartmentsHandler constructs handler.
func NewDepartmentsHandler(departments *service.DepartmentService) *DepartmentsHandler {
	return &DepartmentsHandler{departments: departments}
}

// List handles GET /api/departments.
func (h *DepartmentsHandler) List(c *fiber.Ctx) error {
	list, err := h.departments.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": list})
}

// Get handles GET /api/departments/:id.
func (h *DepartmentsHandler) Get(c *fiber.Ctx) error {
	d, err := h.departments.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": d})
}

// Create handles POST /api/departments.
func (h *DepartmentsHandler) Create(c *fiber.Ctx) error {
	var d domain.Department
	if err := c.BodyParser(&d); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	d.DepartmentNo = ""
	saved, err := h.departments.Save(c.UserContext(), d)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": saved})
}

// Update handles PUT /api/departments/:id.
func (h *DepartmentsHandler) Update(c *fiber.Ctx) error {
	var d domain.Department
	if err := c.BodyParser(&d); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	d.DepartmentNo = c.Params("id")
	saved, err := h.departments.Save(c.UserContext(), d)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": saved})
}

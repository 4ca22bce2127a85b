package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/hospital-portal/internal/domain"
	"github.com/spec-kit/hospital-portal/internal/service"
	apperrors "github.com/spec-kit/hospital-portal/pkg/util"
)

// ReagentsHandler exposes the laboratory reagent catalogue.
type ReagentsHandler struct {
	reagents *service.ReagentService
}

// NewReagentsHandler constructs handler.
func NewReagentsHandler(reagents *service.ReagentService) *ReagentsHandler {
	return &ReagentsHandler{reagents: reagents}
}

// List handles GET /api/reagents.
func (h *ReagentsHandler) List(c *fiber.Ctx) error {
	reagents, err := h.reagents.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": reagents})
}

// Get handles GET /api/reagents/:id.
func (h *ReagentsHandler) Get(c *fiber.Ctx) error {
	reagent, err := h.reagents.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": reagent})
}

// Create handles POST /api/reagents.
func (h *ReagentsHandler) Create(c *fiber.Ctx) error {
	var reagent domain.Reagent
	if err := c.BodyParser(&reagent); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	reagent.ReagentNo = ""
	saved, err := h.reagents.Save(c.UserContext(), reagent)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": saved})
}

// Update handles PUT /api/reagents/:id.
func (h *ReagentsHandler) Update(c *fiber.Ctx) error {
	var reagent domain.Reagent
	if err := c.BodyParser(&reagent); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	reagent.ReagentNo = c.Params("id")
	saved, err := h.reagents.Save(c.UserContext(), reagent)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": saved})
}

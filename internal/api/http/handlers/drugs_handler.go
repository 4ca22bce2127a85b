package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/hospital-portal/internal/domain"
	"github.com/spec-kit/hospital-portal/internal/service"
	apperrors "github.com/spec-kit/hospital-portal/pkg/util"
)

// DrugsHandler exposes the pharmacy catalogue.
type DrugsHandler struct {
	drugs *service.DrugService
}

// NewDrugsHandler constructs handler.
func NewDrugsHandler(drugs *service.DrugService) *DrugsHandler {
	return &DrugsHandler{drugs: drugs}
}

// Types handles GET /api/drug-types.
func (h *DrugsHandler) Types(c *fiber.Ctx) error {
	types, err := h.drugs.Types(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": types})
}

// Manufacturers handles GET /api/manufacturers.
func (h *DrugsHandler) Manufacturers(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.drugs.Manufacturers()})
}

// List handles GET /api/drugs?search=&type=&page=&size=.
func (h *DrugsHandler) List(c *fiber.Ctx) error {
	page, err := h.drugs.List(c.UserContext(), service.DrugQuery{
		Search:     c.Query("search"),
		DrugTypeNo: c.Query("type"),
		Page:       c.QueryInt("page", 1),
		PageSize:   c.QueryInt("size", 10),
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": page, "has_next": page.HasNext()})
}

// Get handles GET /api/drugs/:id.
func (h *DrugsHandler) Get(c *fiber.Ctx) error {
	drug, err := h.drugs.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": drug})
}

// Create handles POST /api/drugs.
func (h *DrugsHandler) Create(c *fiber.Ctx) error {
	var drug domain.Drug
	if err := c.BodyParser(&drug); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	drug.DrugNo = ""
	saved, err := h.drugs.Save(c.UserContext(), drug)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": saved})
}

// Update handles PUT /api/drugs/:id.
func (h *DrugsHandler) Update(c *fiber.Ctx) error {
	var drug domain.Drug
	if err := c.BodyParser(&drug); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	drug.DrugNo = c.Params("id")
	saved, err := h.drugs.Save(c.UserContext(), drug)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": saved})
}

package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/hospital-portal/internal/auth"
	"github.com/spec-kit/hospital-portal/internal/domain"
	"github.com/spec-kit/hospital-portal/internal/service"
	apperrors "github.com/spec-kit/hospital-portal/pkg/util"
)

// LposHandler exposes suppliers and local purchase orders.
type LposHandler struct {
	lpos *service.LpoService
}

// NewLposHandler constructs handler.
func NewLposHandler(lpos *service.LpoService) *LposHandler {
	return &LposHandler{lpos: lpos}
}

// Suppliers handles GET /api/suppliers.
func (h *LposHandler) Suppliers(c *fiber.Ctx) error {
	suppliers, err := h.lpos.Suppliers(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": suppliers})
}

// Numbers handles GET /api/suppliers/:id/lpos.
func (h *LposHandler) Numbers(c *fiber.Ctx) error {
	numbers, err := h.lpos.Numbers(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": numbers})
}

// Get handles GET /api/lpos/:id.
func (h *LposHandler) Get(c *fiber.Ctx) error {
	lpo, err := h.lpos.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": lpo})
}

// Create handles POST /api/lpos. The signed-in user is recorded as the author.
func (h *LposHandler) Create(c *fiber.Ctx) error {
	var lpo domain.Lpo
	if err := c.BodyParser(&lpo); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	lpo.LpoNo = ""

	var preparedBy string
	if principal, ok := auth.PrincipalFromContext(c); ok {
		preparedBy, _ = principal.Find(auth.ClaimNameIdentifier)
	}
	saved, err := h.lpos.Save(c.UserContext(), lpo, preparedBy)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": saved})
}

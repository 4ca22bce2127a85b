package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/hospital-portal/internal/domain"
	"github.com/spec-kit/hospital-portal/internal/service"
	apperrors "github.com/spec-kit/hospital-portal/pkg/util"
)

// BanksHandler exposes banks and bank branches.
type BanksHandler struct {
	banks *service.BankService
}

// NewBanksHandler constructs handler.
func NewBanksHandler(banks *service.BankService) *BanksHandler {
	return &BanksHandler{banks: banks}
}

// List handles GET /api/banks.
func (h *BanksHandler) List(c *fiber.Ctx) error {
	banks, err := h.banks.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": banks})
}

// Get handles GET /api/banks/:id.
func (h *BanksHandler) Get(c *fiber.Ctx) error {
	bank, err := h.banks.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": bank})
}

// Create handles POST /api/banks.
func (h *BanksHandler) Create(c *fiber.Ctx) error {
	var bank domain.Bank
	if err := c.BodyParser(&bank); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	bank.BankNo = ""
	saved, err := h.banks.Save(c.UserContext(), bank)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": saved})
}

// Update handles PUT /api/banks/:id.
func (h *BanksHandler) Update(c *fiber.Ctx) error {
	var bank domain.Bank
	if err := c.BodyParser(&bank); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	bank.BankNo = c.Params("id")
	saved, err := h.banks.Save(c.UserContext(), bank)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": saved})
}

// Branches handles GET /api/banks/:id/branches.
func (h *BanksHandler) Branches(c *fiber.Ctx) error {
	branches, err := h.banks.Branches(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": branches})
}

// Branch handles GET /api/branches/:id.
func (h *BanksHandler) Branch(c *fiber.Ctx) error {
	branch, err := h.banks.Branch(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": branch})
}

// CreateBranch handles POST /api/banks/:id/branches.
func (h *BanksHandler) CreateBranch(c *fiber.Ctx) error {
	var branch domain.BankBranch
	if err := c.BodyParser(&branch); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	branch.BranchNo = ""
	branch.BankNo = c.Params("id")
	saved, err := h.banks.SaveBranch(c.UserContext(), branch)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": saved})
}

// UpdateBranch handles PUT /api/branches/:id.
func (h *BanksHandler) UpdateBranch(c *fiber.Ctx) error {
	var branch domain.BankBranch
	if err := c.BodyParser(&branch); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	branch.BranchNo = c.Params("id")
	saved, err := h.banks.SaveBranch(c.UserContext(), branch)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": saved})
}

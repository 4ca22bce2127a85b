package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/hospital-portal/internal/domain"
	"github.com/spec-kit/hospital-portal/internal/service"
	apperrors "github.com/spec-kit/hospital-portal/pkg/util"
)

// HospitalsHandler exposes clinics.
type HospitalsHandler struct {
	hospitals *service.HospitalService
}

// NewHospitalsHandler constructs handler.
func NewHospitalsHandler(hospitals *service.HospitalService) *HospitalsHandler {
	return &HospitalsHandler{hospitals: hospitals}
}

// List handles GET /api/hospitals.
func (h *HospitalsHandler) List(c *fiber.Ctx) error {
	hospitals, err := h.hospitals.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": hospitals})
}

// Get handles GET /api/hospitals/:id.
func (h *HospitalsHandler) Get(c *fiber.Ctx) error {
	hospital, err := h.hospitals.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": hospital})
}

// Regions handles GET /api/hospital-regions.
func (h *HospitalsHandler) Regions(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.hospitals.Regions()})
}

// Create handles POST /api/hospitals.
func (h *HospitalsHandler) Create(c *fiber.Ctx) error {
	var hospital domain.Hospital
	if err := c.BodyParser(&hospital); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	hospital.ID = ""
	saved, err := h.hospitals.Save(c.UserContext(), hospital)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": saved})
}

// Update handles PUT /api/hospitals/:id.
func (h *HospitalsHandler) Update(c *fiber.Ctx) error {
	var hospital domain.Hospital
	if err := c.BodyParser(&hospital); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	hospital.ID = c.Params("id")
	saved, err := h.hospitals.Save(c.UserContext(), hospital)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": saved})
}

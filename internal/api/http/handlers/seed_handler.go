package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campus-desk/complaint-service/internal/service"
)

// SeedHandler exposes the test-data utilities. Non-core; meant for demo and
// test environments.
type SeedHandler struct {
	seed *service.SeedService
}

// NewSeedHandler constructs handler.
func NewSeedHandler(seedService *service.SeedService) *SeedHandler {
	return &SeedHandler{seed: seedService}
}

// Seed POST /api/seed.
func (h *SeedHandler) Seed(c *fiber.Ctx) error {
	if err := h.seed.Seed(c.Context()); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Test data seeded successfully"})
}

// AddComplaints POST /api/seed/add-complaints.
func (h *SeedHandler) AddComplaints(c *fiber.Ctx) error {
	count, err := h.seed.AddFixtureComplaints(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Complaints added successfully",
		"count":   count,
	})
}

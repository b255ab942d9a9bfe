package handler

import (
	"go-ppm-dashboard/internal/model"
	"go-ppm-dashboard/internal/service"
	"go-ppm-dashboard/pkg/validator"

	"github.com/gofiber/fiber/v2"
)

type AlternateHandler struct {
	pool service.AlternatePool
}

func NewAlternateHandler(pool service.AlternatePool) *AlternateHandler {
	return &AlternateHandler{pool: pool}
}

// GetAlternates lists alternates, optionally for one parent part (?parentId=)
func (h *AlternateHandler) GetAlternates(c *fiber.Ctx) error {
	return c.JSON(h.pool.List(c.Query("parentId")))
}

func (h *AlternateHandler) SetDefault(c *fiber.Ctx) error {
	group, err := h.pool.SetDefault(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Default alternate updated", "data": group})
}

func (h *AlternateHandler) Deprecate(c *fiber.Ctx) error {
	group, err := h.pool.Deprecate(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Alternate deprecated", "data": group})
}

type compareRequest struct {
	Base   []model.BOMLine `json:"base" validate:"dive"`
	Target []model.BOMLine `json:"target" validate:"dive"`
}

// CompareBOMs diffs two BOM line lists by part id
func (h *AlternateHandler) CompareBOMs(c *fiber.Ctx) error {
	var req compareRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if err := validator.FirstError(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(service.CompareBOMs(req.Base, req.Target))
}

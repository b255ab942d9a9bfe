package handler

import (
	"bytes"

	"go-ppm-dashboard/internal/model"
	"go-ppm-dashboard/internal/service"
	"go-ppm-dashboard/internal/transfer"
	"go-ppm-dashboard/pkg/logger"
	"go-ppm-dashboard/pkg/validator"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	service service.DashboardService
	log     *logger.Logger
}

func NewDashboardHandler(s service.DashboardService, log *logger.Logger) *DashboardHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &DashboardHandler{service: s, log: log.With("handler", "dashboards")}
}

type openDashboardRequest struct {
	ProductID string `json:"productId"`
}

type selectPartRequest struct {
	PartID string `json:"partId" validate:"required"`
}

type selectedRowsRequest struct {
	Rows []string `json:"rows"`
}

type updateCostRequest struct {
	CurrentCost *float64 `json:"currentCost" validate:"required,gte=0"`
	TargetCost  *float64 `json:"targetCost" validate:"required,gte=0"`
}

type comparisonRequest struct {
	PartIDs []string `json:"partIds" validate:"required,min=1"`
}

func (h *DashboardHandler) session(c *fiber.Ctx) (*service.DashboardSession, error) {
	return h.service.Get(c.Params("id"))
}

// OpenDashboard creates a session; the body may name a product.
func (h *DashboardHandler) OpenDashboard(c *fiber.Ctx) error {
	var req openDashboardRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
		}
	}
	s, err := h.service.Open(c.UserContext(), req.ProductID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(s.Snapshot())
}

func (h *DashboardHandler) GetDashboard(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(s.Snapshot())
}

func (h *DashboardHandler) CloseDashboard(c *fiber.Ctx) error {
	if err := h.service.Close(c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(204)
}

func (h *DashboardHandler) SelectPart(c *fiber.Ctx) error {
	var req selectPartRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if err := validator.FirstError(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	s, err := h.session(c)
	if err != nil {
		return respondError(c, err)
	}
	if _, err := s.SelectPart(req.PartID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(s.Snapshot())
}

func (h *DashboardHandler) ClearSelection(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return respondError(c, err)
	}
	s.ClearSelection()
	return c.JSON(s.Snapshot())
}

func (h *DashboardHandler) SetSelectedRows(c *fiber.Ctx) error {
	var req selectedRowsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	s, err := h.session(c)
	if err != nil {
		return respondError(c, err)
	}
	s.SetSelectedRows(req.Rows)
	return c.JSON(s.Snapshot())
}

func (h *DashboardHandler) OpenCostDown(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return respondError(c, err)
	}
	s.OpenCostDownDrawer()
	return c.JSON(s.Snapshot())
}

func (h *DashboardHandler) CloseCostDown(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return respondError(c, err)
	}
	s.CloseCostDownDrawer()
	return c.JSON(s.Snapshot())
}

func (h *DashboardHandler) UpdateCost(c *fiber.Ctx) error {
	var req updateCostRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if err := validator.FirstError(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	s, err := h.session(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := s.UpdateCost(*req.CurrentCost, *req.TargetCost); err != nil {
		return respondError(c, err)
	}
	return c.JSON(s.Snapshot())
}

func (h *DashboardHandler) ApplySuggestion(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return respondError(c, err)
	}
	state, err := s.ApplySuggestion(c.Params("sid"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(state)
}

func (h *DashboardHandler) Refresh(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return respondError(c, err)
	}
	s.Refresh()
	return c.SendStatus(202)
}

func (h *DashboardHandler) AddToComparison(c *fiber.Ctx) error {
	var req comparisonRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if err := validator.FirstError(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	s, err := h.session(c)
	if err != nil {
		return respondError(c, err)
	}
	s.AddToComparison(req.PartIDs)
	return c.SendStatus(202)
}

// ExportCostDrift downloads the session's cost-drift rows. Only the selected
// rows (or ?rows=) are written when any are given.
func (h *DashboardHandler) ExportCostDrift(c *fiber.Ctx) error {
	format, err := transfer.ParseFormat(c.Query("format"))
	if err != nil {
		return respondError(c, err)
	}
	s, err := h.session(c)
	if err != nil {
		return respondError(c, err)
	}

	state := s.Snapshot()
	rows := splitQuery(c.Query("rows"))
	if len(rows) == 0 {
		rows = state.SelectedRows
	}
	s.RequestExport(string(format), rows)

	drift := state.CostDrift
	if len(rows) > 0 {
		want := make(map[string]bool, len(rows))
		for _, id := range rows {
			want[id] = true
		}
		var filtered []model.CostDriftRow
		for _, r := range drift {
			if want[r.PartID] {
				filtered = append(filtered, r)
			}
		}
		drift = filtered
	}

	var buf bytes.Buffer
	if err := transfer.WriteCostDrift(&buf, format, drift); err != nil {
		h.log.Error("cost drift export failed", "session", state.SessionID, "error", err)
		return respondError(c, err)
	}
	c.Attachment(transfer.Filename("cost_drift", format, s.Now()))
	c.Set(fiber.HeaderContentType, transfer.ContentType(format))
	return c.Send(buf.Bytes())
}

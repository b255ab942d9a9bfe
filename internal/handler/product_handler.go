package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go-ppm-dashboard/internal/middleware"
	"go-ppm-dashboard/internal/model"
	"go-ppm-dashboard/internal/service"
	"go-ppm-dashboard/internal/transfer"
	"go-ppm-dashboard/pkg/logger"
	"go-ppm-dashboard/pkg/validator"

	"github.com/gofiber/fiber/v2"
)

// ProductsTopic is the websocket topic product list changes are pushed to
const ProductsTopic = "products"

// Broadcaster pushes an event to the websocket clients of a topic
type Broadcaster interface {
	Publish(topic, event string, payload any)
}

type ProductHandler struct {
	store  service.ProductStore
	notify Broadcaster
	log    *logger.Logger
	now    func() time.Time
}

// NewProductHandler wires the product routes; notify may be nil.
func NewProductHandler(store service.ProductStore, notify Broadcaster, log *logger.Logger) *ProductHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &ProductHandler{store: store, notify: notify, log: log.With("handler", "products"), now: time.Now}
}

type productsChanged struct {
	Action   string `json:"action"`
	Operator string `json:"operator"`
	Count    int    `json:"count"`
}

// broadcast tells websocket clients the product list changed and who changed it
func (h *ProductHandler) broadcast(c *fiber.Ctx, action string, count int) {
	if h.notify == nil {
		return
	}
	h.notify.Publish(ProductsTopic, "productsChanged", productsChanged{
		Action:   action,
		Operator: middleware.Operator(c),
		Count:    count,
	})
}

// importedFields are the columns an imported record cannot go without
type importedFields struct {
	ID    string `validate:"required"`
	Model string `validate:"required"`
	Name  string `validate:"required"`
}

type deleteProductsRequest struct {
	IDs []string `json:"ids" validate:"required,min=1"`
}

func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	return c.JSON(h.store.Products())
}

func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	p, err := h.store.Product(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(p)
}

func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var product model.Product
	if err := c.BodyParser(&product); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if errs := validator.ValidateStruct(product); errs != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Validation failed", "details": errs})
	}

	list, err := h.store.AddProduct(c.UserContext(), product)
	if err != nil {
		return respondError(c, err)
	}
	h.broadcast(c, "create", len(list))
	return c.Status(201).JSON(fiber.Map{"message": "Product created", "data": list})
}

func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	var patch model.ProductPatch
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if errs := validator.ValidateStruct(patch); errs != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Validation failed", "details": errs})
	}

	updated, err := h.store.UpdateProduct(c.UserContext(), c.Params("id"), patch)
	if err != nil {
		return respondError(c, err)
	}
	h.broadcast(c, "update", len(h.store.Products()))
	return c.JSON(fiber.Map{"message": "Product updated", "data": updated})
}

func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	list := h.store.DeleteProduct(c.UserContext(), c.Params("id"))
	h.broadcast(c, "delete", len(list))
	return c.JSON(fiber.Map{"message": "Product deleted", "data": list})
}

func (h *ProductHandler) DeleteProducts(c *fiber.Ctx) error {
	var req deleteProductsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if err := validator.FirstError(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	list := h.store.DeleteProducts(c.UserContext(), req.IDs)
	h.broadcast(c, "delete", len(list))
	return c.JSON(fiber.Map{"message": "Products deleted", "data": list})
}

// SaveProducts replaces the whole list. Anything but a JSON array is refused
// and the store is left untouched.
func (h *ProductHandler) SaveProducts(c *fiber.Ctx) error {
	body := bytes.TrimSpace(c.Body())
	if len(body) == 0 || body[0] != '[' {
		h.log.Warn("save refused, payload is not a list")
		return c.Status(400).JSON(fiber.Map{"error": "Payload must be a list of products"})
	}
	var list []model.Product
	if err := json.Unmarshal(body, &list); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	saved := h.store.SaveProducts(c.UserContext(), list)
	h.broadcast(c, "save", len(saved))
	return c.JSON(fiber.Map{"message": "Products saved", "data": saved})
}

func (h *ProductHandler) ClearProducts(c *fiber.Ctx) error {
	list := h.store.ClearProducts(c.UserContext())
	h.broadcast(c, "clear", len(list))
	return c.JSON(fiber.Map{"message": "Products cleared", "data": list})
}

// ImportProducts merges a CSV/XLSX upload (form field "file") or a JSON list
// into the store. Any validation problem aborts the whole batch.
func (h *ProductHandler) ImportProducts(c *fiber.Ctx) error {
	incoming, err := h.readImport(c)
	if err != nil {
		h.log.Info("import rejected", "error", err)
		return respondError(c, err)
	}

	result := h.store.ImportProducts(c.UserContext(), incoming)
	h.broadcast(c, "import", len(result.Products))
	h.log.Info("products imported", "operator", middleware.Operator(c), "accepted", result.Accepted, "skipped", len(result.Skipped))
	return c.JSON(fiber.Map{"message": "Products imported", "data": result})
}

func (h *ProductHandler) readImport(c *fiber.Ctx) ([]model.Product, error) {
	if fh, err := c.FormFile("file"); err == nil {
		format, err := transfer.FormatFromFilename(fh.Filename)
		if err != nil {
			return nil, err
		}
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return transfer.ParseProducts(f, format, h.now())
	}

	var list []model.Product
	if err := json.Unmarshal(c.Body(), &list); err != nil {
		return nil, &transfer.ValidationError{Errors: []string{"body must be a file upload or a JSON list of products"}}
	}
	var problems []string
	seen := make(map[string]bool, len(list))
	for i, p := range list {
		if err := validator.FirstError(p); err != nil {
			problems = append(problems, fmt.Sprintf("item %d: %v", i+1, err))
			continue
		}
		if err := validator.FirstError(importedFields{ID: p.ID, Model: p.Model, Name: p.Name}); err != nil {
			problems = append(problems, fmt.Sprintf("item %d: %v", i+1, err))
			continue
		}
		if seen[p.ID] {
			problems = append(problems, fmt.Sprintf("item %d: duplicate id %s", i+1, p.ID))
		}
		seen[p.ID] = true
	}
	if len(problems) > 0 {
		return nil, &transfer.ValidationError{Errors: problems}
	}
	return list, nil
}

// ExportProducts streams the product list (or the ids given) as csv or xlsx.
func (h *ProductHandler) ExportProducts(c *fiber.Ctx) error {
	format, err := transfer.ParseFormat(c.Query("format"))
	if err != nil {
		return respondError(c, err)
	}

	products := h.store.Products()
	if ids := splitQuery(c.Query("ids")); len(ids) > 0 {
		want := make(map[string]bool, len(ids))
		for _, id := range ids {
			want[id] = true
		}
		filtered := products[:0]
		for _, p := range products {
			if want[p.ID] {
				filtered = append(filtered, p)
			}
		}
		products = filtered
	}

	var buf bytes.Buffer
	if err := transfer.WriteProducts(&buf, format, products); err != nil {
		h.log.Error("product export failed", "error", err)
		return respondError(c, err)
	}
	c.Attachment(transfer.Filename("products", format, h.now()))
	c.Set(fiber.HeaderContentType, transfer.ContentType(format))
	return c.Send(buf.Bytes())
}

func splitQuery(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

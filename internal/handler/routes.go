package handler

import (
	"go-ppm-dashboard/internal/middleware"
	"go-ppm-dashboard/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers groups everything RegisterRoutes mounts. WS may be nil.
type Handlers struct {
	Products   *ProductHandler
	Alternates *AlternateHandler
	Dashboards *DashboardHandler
	WS         *WSHandler
}

func RegisterRoutes(app *fiber.App, auth *middleware.Auth, h Handlers) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api/v1", auth.RequireAuth())
	view := middleware.RequirePrivilege(jwt.PrivProductView)

	// Product Routes
	api.Get("/products", view, h.Products.GetProducts)
	api.Get("/products/export", view, h.Products.ExportProducts)
	api.Get("/products/:id", view, h.Products.GetProduct)
	api.Post("/products", middleware.RequirePrivilege(jwt.PrivProductCreate), h.Products.CreateProduct)
	api.Post("/products/import", middleware.RequirePrivilege(jwt.PrivProductImport), h.Products.ImportProducts)
	api.Post("/products/delete", middleware.RequirePrivilege(jwt.PrivProductDelete), h.Products.DeleteProducts)
	api.Put("/products", middleware.RequirePrivilege(jwt.PrivProductUpdate), h.Products.SaveProducts)
	api.Put("/products/:id", middleware.RequirePrivilege(jwt.PrivProductUpdate), h.Products.UpdateProduct)
	api.Delete("/products", middleware.RequirePrivilege(jwt.PrivProductDelete), h.Products.ClearProducts)
	api.Delete("/products/:id", middleware.RequirePrivilege(jwt.PrivProductDelete), h.Products.DeleteProduct)

	// Alternate parts and BOM comparison
	api.Get("/alternates", view, h.Alternates.GetAlternates)
	api.Put("/alternates/:id/default", middleware.RequirePrivilege(jwt.PrivAlternateUpdate), h.Alternates.SetDefault)
	api.Put("/alternates/:id/deprecate", middleware.RequirePrivilege(jwt.PrivAlternateUpdate), h.Alternates.Deprecate)
	api.Post("/compare", view, h.Alternates.CompareBOMs)

	// Dashboard sessions
	dashView := middleware.RequirePrivilege(jwt.PrivDashboardView)
	act := middleware.RequirePrivilege(jwt.PrivDashboardAct)
	d := api.Group("/dashboards")
	d.Post("/", dashView, h.Dashboards.OpenDashboard)
	d.Get("/:id", dashView, h.Dashboards.GetDashboard)
	d.Delete("/:id", dashView, h.Dashboards.CloseDashboard)
	d.Get("/:id/export", dashView, h.Dashboards.ExportCostDrift)
	d.Post("/:id/select", act, h.Dashboards.SelectPart)
	d.Delete("/:id/select", act, h.Dashboards.ClearSelection)
	d.Put("/:id/rows", act, h.Dashboards.SetSelectedRows)
	d.Post("/:id/cost-down/open", act, h.Dashboards.OpenCostDown)
	d.Post("/:id/cost-down/close", act, h.Dashboards.CloseCostDown)
	d.Put("/:id/cost", act, h.Dashboards.UpdateCost)
	d.Post("/:id/suggestions/:sid/apply", act, h.Dashboards.ApplySuggestion)
	d.Post("/:id/refresh", act, h.Dashboards.Refresh)
	d.Post("/:id/comparison", act, h.Dashboards.AddToComparison)

	// WebSocket Route
	if h.WS != nil {
		app.Get("/ws/dashboard/:id", h.WS.RequireSession, h.WS.SessionStream())
		app.Get("/ws/products", h.WS.RequireUpgrade, h.WS.ProductStream())
	}
}

package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/ampliart/ampliart-api/internal/application/analytics"
	"github.com/ampliart/ampliart-api/internal/application/auth"
	"github.com/ampliart/ampliart-api/internal/application/budget"
	"github.com/ampliart/ampliart-api/internal/application/inventory"
	"github.com/ampliart/ampliart-api/internal/application/usecase"
	"github.com/ampliart/ampliart-api/internal/domain/entity"
	"github.com/ampliart/ampliart-api/pkg/metrics"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AppName          string
	ProductUC        *usecase.ProductUseCase
	CategoryUC       *usecase.CategoryUseCase
	RegisterMovement *inventory.RegisterMovementUseCase
	BudgetUC         *budget.UseCase
	BudgetPDF        *budget.PDFUseCase
	AnalyticsUC      *analytics.UseCase
	AuthUC           *auth.AuthUseCase
	JWTSecret        string
	Metrics          *metrics.Metrics // nil = sin /metrics
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Metrics != nil {
		app.Use(deps.Metrics.Middleware())
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})

	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	adminOnly := RequireRole(entity.RoleAdmin)

	// Catálogo: lectura para todos, escritura solo admin
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories := protected.Group("/categories")
	categories.Get("/", categoryHandler.List)
	categories.Get("/selectable", categoryHandler.Selectable)
	categories.Post("/", adminOnly, categoryHandler.Create)

	productHandler := NewProductHandler(deps.ProductUC)
	products := protected.Group("/products")
	products.Get("/", productHandler.List)
	products.Get("/search", productHandler.Search)
	products.Post("/", adminOnly, productHandler.Create)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", adminOnly, productHandler.Update)

	// Movimientos de estoque
	inventoryHandler := NewInventoryHandler(deps.RegisterMovement)
	invGroup := protected.Group("/inventory")
	invGroup.Get("/movements", inventoryHandler.ListMovements)
	invGroup.Post("/movements", inventoryHandler.RegisterMovement)

	// Orçamentos
	budgetHandler := NewBudgetHandler(deps.BudgetUC, deps.BudgetPDF)
	budgets := protected.Group("/budgets")
	budgets.Get("/", budgetHandler.List)
	budgets.Post("/", budgetHandler.Create)
	budgets.Get("/:id", budgetHandler.Get)
	budgets.Get("/:id/pdf", budgetHandler.DownloadPDF)
	budgets.Post("/:id/items", budgetHandler.AddItem)
	budgets.Put("/:id/items/:itemId", budgetHandler.UpdateItem)
	budgets.Delete("/:id/items/:itemId", budgetHandler.RemoveItem)
	budgets.Put("/:id/adjustment", budgetHandler.ApplyAdjustment)
	budgets.Delete("/:id/adjustment", budgetHandler.ClearAdjustment)
	budgets.Put("/:id/status", budgetHandler.ChangeStatus)

	// Dashboard
	dashboardHandler := NewDashboardHandler(deps.AnalyticsUC)
	analyticsHandler := NewAnalyticsHandler(deps.AnalyticsUC)
	dashboard := protected.Group("/dashboard")
	dashboard.Get("/summary", dashboardHandler.Summary)
	dashboard.Get("/low-stock", dashboardHandler.LowStock)
	dashboard.Get("/indicators", dashboardHandler.Indicators)
	dashboard.Get("/sales", analyticsHandler.Sales)
	dashboard.Get("/sales/export/csv", analyticsHandler.ExportCSV)
	dashboard.Get("/sales/export/pdf", analyticsHandler.ExportPDF)
}
